package controllers

import (
	"frontdesk/pkg/resp"
	"frontdesk/services"

	"github.com/gin-gonic/gin"
)

type MenuController struct {
	Service *services.MenuService
}

func NewMenuController(s *services.MenuService) *MenuController {
	return &MenuController{Service: s}
}

// GET /menu?category=
func (mc *MenuController) List(c *gin.Context) {
	list, err := mc.Service.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, list)
}

func (mc *MenuController) Create(c *gin.Context) {
	var in services.MenuItemIn
	if !bind(c, &in) {
		return
	}
	m, err := mc.Service.Create(c.Request.Context(), &in)
	if err != nil {
		fail(c, err)
		return
	}
	resp.Created(c, m)
}

func (mc *MenuController) Update(c *gin.Context) {
	var in services.MenuItemIn
	if !bind(c, &in) {
		return
	}
	m, err := mc.Service.Update(c.Request.Context(), c.Param("id"), &in)
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, m)
}

func (mc *MenuController) Delete(c *gin.Context) {
	if err := mc.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	resp.NoContent(c)
}
