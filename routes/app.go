package routes

import (
	"frontdesk/ai"
	"frontdesk/configs"
	"frontdesk/controllers"
	"frontdesk/events"
	"frontdesk/repository"
	"frontdesk/services"
	"frontdesk/ws"

	"gorm.io/gorm"
)

// App holds the wired controllers the router needs.
type App struct {
	Config       *configs.Config
	Auth         *controllers.AuthController
	Tables       *controllers.TableController
	Waitlist     *controllers.WaitlistController
	Guests       *controllers.GuestController
	Reservations *controllers.ReservationController
	Menu         *controllers.MenuController
	Reports      *controllers.ReportController
	AI           *controllers.AIController
	// nil disables GET /ws
	Hub *ws.Hub
}

// NewApp builds repositories, services and controllers on db. Events go to
// pub; hub, when set, is only mounted on /ws (add it to pub separately).
func NewApp(db *gorm.DB, cfg *configs.Config, pub events.Publisher, assistant *ai.Assistant, hub *ws.Hub) *App {
	if pub == nil {
		pub = events.Nop{}
	}
	tableRepo := repository.NewTableRepository(db)
	guestRepo := repository.NewGuestRepository(db)
	waitRepo := repository.NewWaitlistRepository(db)
	resRepo := repository.NewReservationRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	userRepo := repository.NewUserRepository(db)

	tables := services.NewTableService(db, tableRepo, guestRepo, pub)
	guests := services.NewGuestService(db, guestRepo, menuRepo, pub)
	waitlist := services.NewWaitlistService(db, waitRepo, tableRepo, pub)
	reservations := services.NewReservationService(db, resRepo, tableRepo, pub)
	menu := services.NewMenuService(db, menuRepo, pub)
	reports := services.NewReportService(guestRepo, resRepo, waitRepo, tableRepo, cfg.RestaurantName)
	auth := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL)
	voice := services.NewVoiceService(assistant, guests, waitlist, reservations, tables)
	insights := services.NewInsightService(assistant, guestRepo)

	return &App{
		Config:       cfg,
		Auth:         controllers.NewAuthController(auth),
		Tables:       controllers.NewTableController(tables),
		Waitlist:     controllers.NewWaitlistController(waitlist),
		Guests:       controllers.NewGuestController(guests),
		Reservations: controllers.NewReservationController(reservations),
		Menu:         controllers.NewMenuController(menu),
		Reports:      controllers.NewReportController(reports),
		AI:           controllers.NewAIController(voice, insights),
		Hub:          hub,
	}
}
