package controllers

import (
	"frontdesk/entity"
	"frontdesk/pkg/resp"
	"frontdesk/repository"
	"frontdesk/services"

	"github.com/gin-gonic/gin"
)

type ReservationController struct {
	Service *services.ReservationService
}

func NewReservationController(s *services.ReservationService) *ReservationController {
	return &ReservationController{Service: s}
}

func (rc *ReservationController) List(c *gin.Context) {
	from, to, ok := window(c)
	if !ok {
		return
	}
	list, err := rc.Service.List(c.Request.Context(), repository.ReservationFilter{
		From: from, To: to, Status: entity.ReservationStatus(c.Query("status")),
	})
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, list)
}

func (rc *ReservationController) Get(c *gin.Context) {
	r, err := rc.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, r)
}

func (rc *ReservationController) Create(c *gin.Context) {
	var in services.ReservationIn
	if !bind(c, &in) {
		return
	}
	r, err := rc.Service.Create(c.Request.Context(), &in)
	if err != nil {
		fail(c, err)
		return
	}
	resp.Created(c, r)
}

func (rc *ReservationController) Update(c *gin.Context) {
	var in services.ReservationIn
	if !bind(c, &in) {
		return
	}
	r, err := rc.Service.Update(c.Request.Context(), c.Param("id"), &in)
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, r)
}

// PATCH /reservations/:id/status
func (rc *ReservationController) SetStatus(c *gin.Context) {
	var in services.ReservationStatusIn
	if !bind(c, &in) {
		return
	}
	r, err := rc.Service.SetStatus(c.Request.Context(), c.Param("id"), in.Status)
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, r)
}

// POST /reservations/:id/seat
func (rc *ReservationController) Seat(c *gin.Context) {
	var in services.AssignTableIn
	if !bind(c, &in) {
		return
	}
	r, err := rc.Service.Seat(c.Request.Context(), c.Param("id"), in.TableID)
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, r)
}

func (rc *ReservationController) Delete(c *gin.Context) {
	if err := rc.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	resp.NoContent(c)
}
