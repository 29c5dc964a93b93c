package controllers

import (
	"frontdesk/entity"
	"frontdesk/pkg/resp"
	"frontdesk/services"

	"github.com/gin-gonic/gin"
)

type WaitlistController struct {
	Service *services.WaitlistService
}

func NewWaitlistController(s *services.WaitlistService) *WaitlistController {
	return &WaitlistController{Service: s}
}

// GET /waitlist?status=
func (wc *WaitlistController) List(c *gin.Context) {
	list, err := wc.Service.List(c.Request.Context(), entity.WaitStatus(c.Query("status")))
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, list)
}

func (wc *WaitlistController) Get(c *gin.Context) {
	w, err := wc.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, w)
}

func (wc *WaitlistController) Add(c *gin.Context) {
	var in services.WaitingGuestIn
	if !bind(c, &in) {
		return
	}
	w, err := wc.Service.Add(c.Request.Context(), &in)
	if err != nil {
		fail(c, err)
		return
	}
	resp.Created(c, w)
}

func (wc *WaitlistController) Update(c *gin.Context) {
	var in services.WaitingGuestPatch
	if !bind(c, &in) {
		return
	}
	w, err := wc.Service.Update(c.Request.Context(), c.Param("id"), &in)
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, w)
}

func (wc *WaitlistController) Delete(c *gin.Context) {
	if err := wc.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	resp.NoContent(c)
}

// GET /waitlist/:id/slip
func (wc *WaitlistController) Slip(c *gin.Context) {
	s, err := wc.Service.Slip(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, s)
}

// POST /waitlist/:id/assign
func (wc *WaitlistController) Assign(c *gin.Context) {
	var in services.AssignTableIn
	if !bind(c, &in) {
		return
	}
	w, err := wc.Service.AssignTable(c.Request.Context(), c.Param("id"), in.TableID)
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, w)
}
