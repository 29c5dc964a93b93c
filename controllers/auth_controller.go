package controllers

import (
	"net/http"

	"frontdesk/entity"
	"frontdesk/pkg/resp"
	"frontdesk/services"
	"frontdesk/utils"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Service *services.AuthService
}

func NewAuthController(s *services.AuthService) *AuthController {
	return &AuthController{Service: s}
}

func userView(u *entity.User) gin.H {
	return gin.H{
		"id": u.ID, "email": u.Email, "firstName": u.FirstName,
		"lastName": u.LastName, "role": u.Role,
	}
}

// POST /auth/register (admin)
func (a *AuthController) Register(c *gin.Context) {
	var req services.RegisterIn
	if !bind(c, &req) {
		return
	}
	user, err := a.Service.Register(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	resp.Created(c, userView(user))
}

// POST /auth/login
func (a *AuthController) Login(c *gin.Context) {
	var req services.LoginIn
	if !bind(c, &req) {
		return
	}
	token, user, err := a.Service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":    true,
		"token": token,
		"user":  userView(user),
	})
}

// GET /auth/me
func (a *AuthController) Me(c *gin.Context) {
	user, err := a.Service.GetProfile(c.Request.Context(), utils.CurrentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, userView(user))
}
