package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"frontdesk/ai"
	"frontdesk/configs"
	"frontdesk/events"
	"frontdesk/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testNow = time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)

type fixture struct {
	db           *gorm.DB
	events       *events.Recorder
	tables       *TableService
	waitlist     *WaitlistService
	guests       *GuestService
	reservations *ReservationService
	menu         *MenuService
	reports      *ReportService
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, configs.SetupDatabase(db))
	require.NoError(t, configs.SeedCounters(db))
	return db
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	rec := &events.Recorder{}

	tableRepo := repository.NewTableRepository(db)
	guestRepo := repository.NewGuestRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	waitRepo := repository.NewWaitlistRepository(db)
	resRepo := repository.NewReservationRepository(db)

	f := &fixture{
		db:           db,
		events:       rec,
		tables:       NewTableService(db, tableRepo, guestRepo, rec),
		waitlist:     NewWaitlistService(db, waitRepo, tableRepo, rec),
		guests:       NewGuestService(db, guestRepo, menuRepo, rec),
		reservations: NewReservationService(db, resRepo, tableRepo, rec),
		menu:         NewMenuService(db, menuRepo, rec),
		reports:      NewReportService(guestRepo, resRepo, waitRepo, tableRepo, "Haveli"),
	}
	f.tables.Now = func() time.Time { return testNow }
	f.guests.Now = func() time.Time { return testNow }
	return f
}

func (f *fixture) voice(a *ai.Assistant) *VoiceService {
	v := NewVoiceService(a, f.guests, f.waitlist, f.reservations, f.tables)
	v.Now = func() time.Time { return testNow }
	return v
}

func ptr[T any](v T) *T { return &v }
