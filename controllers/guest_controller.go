package controllers

import (
	"frontdesk/entity"
	"frontdesk/pkg/resp"
	"frontdesk/repository"
	"frontdesk/services"

	"github.com/gin-gonic/gin"
)

type GuestController struct {
	Service *services.GuestService
}

func NewGuestController(s *services.GuestService) *GuestController {
	return &GuestController{Service: s}
}

// GET /guests?from=&to=&status=
func (gc *GuestController) List(c *gin.Context) {
	from, to, ok := window(c)
	if !ok {
		return
	}
	list, err := gc.Service.List(c.Request.Context(), repository.GuestFilter{
		From: from, To: to, Status: entity.GuestStatus(c.Query("status")),
	})
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, list)
}

func (gc *GuestController) Get(c *gin.Context) {
	g, err := gc.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, g)
}

func (gc *GuestController) Create(c *gin.Context) {
	var in services.GuestIn
	if !bind(c, &in) {
		return
	}
	g, err := gc.Service.Create(c.Request.Context(), &in)
	if err != nil {
		fail(c, err)
		return
	}
	resp.Created(c, g)
}

// PUT /guests/:id
func (gc *GuestController) Update(c *gin.Context) {
	var in services.GuestIn
	if !bind(c, &in) {
		return
	}
	g, err := gc.Service.Update(c.Request.Context(), c.Param("id"), &in)
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, g)
}

func (gc *GuestController) Delete(c *gin.Context) {
	if err := gc.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	resp.NoContent(c)
}

// POST /guests/:id/items
func (gc *GuestController) AddItem(c *gin.Context) {
	var in services.AddItemIn
	if !bind(c, &in) {
		return
	}
	g, err := gc.Service.AddItem(c.Request.Context(), c.Param("id"), &in)
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, g)
}

// PATCH /guests/:id/items
func (gc *GuestController) SetQuantity(c *gin.Context) {
	var in services.SetQuantityIn
	if !bind(c, &in) {
		return
	}
	g, err := gc.Service.SetItemQuantity(c.Request.Context(), c.Param("id"), &in)
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, g)
}

// PATCH /guests/:id/payment
func (gc *GuestController) SetPayment(c *gin.Context) {
	var in services.PaymentIn
	if !bind(c, &in) {
		return
	}
	g, err := gc.Service.SetPaymentMethod(c.Request.Context(), c.Param("id"), in.PaymentMethod)
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, g)
}
