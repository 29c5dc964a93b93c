package routes

import (
	"net/http"

	"frontdesk/entity"
	"frontdesk/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, app *App) {
	middlewares.RegisterValidators()
	r.Use(middlewares.CORSMiddleware(app.Config.CORSOrigins))
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	secret := app.Config.JWTSecret
	staff := middlewares.AuthMiddleware(secret)
	admin := middlewares.AuthMiddleware(secret, entity.RoleAdmin)

	// Auth
	a := r.Group("/auth")
	{
		a.POST("/login", app.Auth.Login)
		a.POST("/register", admin, app.Auth.Register)
		a.GET("/me", staff, app.Auth.Me)
	}

	api := r.Group("/", staff)

	// Tables
	t := api.Group("/tables")
	{
		t.GET("", app.Tables.List)
		t.POST("", app.Tables.Create)
		t.POST("/seed", admin, app.Tables.Seed)
		t.POST("/import", admin, app.Tables.Import)
		t.GET("/:id", app.Tables.Get)
		t.PATCH("/:id", app.Tables.Update)
		t.DELETE("/:id", admin, app.Tables.Delete)
		t.POST("/:id/click", app.Tables.Click)
		t.POST("/:id/clear", app.Tables.Clear)
		t.POST("/:id/cancel-seating", app.Tables.CancelSeating)
		t.POST("/:id/seat", app.Tables.Seat)
	}

	// Waitlist
	w := api.Group("/waitlist")
	{
		w.GET("", app.Waitlist.List)
		w.POST("", app.Waitlist.Add)
		w.GET("/:id", app.Waitlist.Get)
		w.PATCH("/:id", app.Waitlist.Update)
		w.DELETE("/:id", app.Waitlist.Delete)
		w.GET("/:id/slip", app.Waitlist.Slip)
		w.POST("/:id/assign", app.Waitlist.Assign)
	}

	// Guests & orders
	g := api.Group("/guests")
	{
		g.GET("", app.Guests.List)
		g.POST("", app.Guests.Create)
		g.GET("/:id", app.Guests.Get)
		g.PUT("/:id", app.Guests.Update)
		g.DELETE("/:id", app.Guests.Delete)
		g.POST("/:id/items", app.Guests.AddItem)
		g.PATCH("/:id/items", app.Guests.SetQuantity)
		g.PATCH("/:id/payment", app.Guests.SetPayment)
	}

	// Reservations
	rs := api.Group("/reservations")
	{
		rs.GET("", app.Reservations.List)
		rs.POST("", app.Reservations.Create)
		rs.GET("/:id", app.Reservations.Get)
		rs.PUT("/:id", app.Reservations.Update)
		rs.DELETE("/:id", app.Reservations.Delete)
		rs.PATCH("/:id/status", app.Reservations.SetStatus)
		rs.POST("/:id/seat", app.Reservations.Seat)
	}

	// Menu
	m := api.Group("/menu")
	{
		m.GET("", app.Menu.List)
		m.POST("", app.Menu.Create)
		m.PUT("/:id", app.Menu.Update)
		m.DELETE("/:id", app.Menu.Delete)
	}

	// Dashboard & reports
	api.GET("/dashboard", app.Reports.Dashboard)
	api.GET("/dashboard/anniversaries", app.Reports.Anniversaries)
	api.GET("/reports/guests", app.Reports.Guests)
	api.GET("/broadcast/targets", app.Reports.Broadcast)

	// AI
	ai := api.Group("/ai")
	{
		ai.POST("/summary", app.AI.Summary)
		ai.POST("/voice", app.AI.Voice)
	}

	if app.Hub != nil {
		r.GET("/ws", middlewares.WSAuthMiddleware(secret), app.Hub.HandleWebSocket)
	}
}
