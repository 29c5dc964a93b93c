package controllers

import (
	"io"
	"strings"

	"frontdesk/entity"
	"frontdesk/pkg/resp"
	"frontdesk/services"

	"github.com/gin-gonic/gin"
)

type TableController struct {
	Service *services.TableService
}

func NewTableController(s *services.TableService) *TableController {
	return &TableController{Service: s}
}

// GET /tables?status=
func (tc *TableController) List(c *gin.Context) {
	list, err := tc.Service.List(c.Request.Context(), entity.TableStatus(c.Query("status")))
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, list)
}

func (tc *TableController) Get(c *gin.Context) {
	t, err := tc.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, t)
}

func (tc *TableController) Create(c *gin.Context) {
	var in services.TableIn
	if !bind(c, &in) {
		return
	}
	t, err := tc.Service.Create(c.Request.Context(), &in)
	if err != nil {
		fail(c, err)
		return
	}
	resp.Created(c, t)
}

// PATCH /tables/:id
func (tc *TableController) Update(c *gin.Context) {
	var in services.TablePatch
	if !bind(c, &in) {
		return
	}
	t, err := tc.Service.Update(c.Request.Context(), c.Param("id"), &in)
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, t)
}

func (tc *TableController) Delete(c *gin.Context) {
	if err := tc.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	resp.NoContent(c)
}

// POST /tables/:id/click
func (tc *TableController) Click(c *gin.Context) {
	res, err := tc.Service.Click(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, res)
}

// POST /tables/:id/clear (after the operator confirmed)
func (tc *TableController) Clear(c *gin.Context) {
	t, err := tc.Service.Clear(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, t)
}

// POST /tables/:id/cancel-seating
func (tc *TableController) CancelSeating(c *gin.Context) {
	t, err := tc.Service.CancelSeating(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, t)
}

// POST /tables/:id/seat occupies the table and records the guest together.
func (tc *TableController) Seat(c *gin.Context) {
	var in services.GuestIn
	if !bind(c, &in) {
		return
	}
	g, err := tc.Service.SeatWalkIn(c.Request.Context(), c.Param("id"), &in)
	if err != nil {
		fail(c, err)
		return
	}
	resp.Created(c, g)
}

// POST /tables/seed
func (tc *TableController) Seed(c *gin.Context) {
	var in services.SeedTablesIn
	if !bind(c, &in) {
		return
	}
	list, err := tc.Service.SeedRange(c.Request.Context(), &in)
	if err != nil {
		fail(c, err)
		return
	}
	resp.Created(c, list)
}

// POST /tables/import takes multipart field "file" or a raw text/csv body.
func (tc *TableController) Import(c *gin.Context) {
	var r io.Reader = c.Request.Body
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			resp.BadRequest(c, "file is required")
			return
		}
		f, err := fh.Open()
		if err != nil {
			resp.BadRequest(c, err.Error())
			return
		}
		defer f.Close()
		r = f
	}
	list, err := tc.Service.Import(c.Request.Context(), r)
	if err != nil {
		fail(c, err)
		return
	}
	resp.Created(c, gin.H{"imported": len(list), "tables": list})
}
