package services

import (
	"context"
	"testing"
	"time"

	"frontdesk/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) visit(t *testing.T, name, phone string, party int, at time.Time) *entity.Guest {
	t.Helper()
	g, err := f.guests.Create(context.Background(), &GuestIn{Name: name, Phone: phone, NumberOfGuests: party, VisitDate: &at})
	require.NoError(t, err)
	return g
}

func day(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func TestDashboardSumsPartySizes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.visit(t, "Tonight", "", 2, testNow)
	f.visit(t, "Lunch", "", 3, day(2026, 3, 14, 10))
	f.visit(t, "Last Saturday", "", 4, day(2026, 3, 7, 12))
	f.visit(t, "Month Start", "", 5, day(2026, 3, 1, 0))
	f.visit(t, "Last Year", "", 6, day(2025, 3, 14, 20))

	f.table(t, "Table 1", "")
	f.table(t, "Table 2", entity.TableOccupied)
	f.table(t, "Table 3", entity.TableOccupied)

	f.join(t, "Ali", 2)
	called := f.join(t, "Sara", 3)
	st := entity.WaitCalled
	_, err := f.waitlist.Update(ctx, called.ID, &WaitingGuestPatch{Status: &st})
	require.NoError(t, err)

	stats, err := f.reports.Dashboard(ctx, testNow)
	require.NoError(t, err)
	assert.Equal(t, int64(20), stats.TotalGuests)
	assert.Equal(t, int64(5), stats.GuestsToday)
	assert.Equal(t, int64(14), stats.GuestsThisMonth)
	assert.Equal(t, int64(4), stats.GuestsSameDayLastWeek)
	assert.Equal(t, int64(1), stats.TotalWaiting)
	assert.Equal(t, int64(1), stats.Tables[entity.TableAvailable])
	assert.Equal(t, int64(2), stats.Tables[entity.TableOccupied])
	assert.Equal(t, int64(0), stats.Tables[entity.TableReserved])
}

func TestDashboardOnEmptyStore(t *testing.T) {
	f := newFixture(t)
	stats, err := f.reports.Dashboard(context.Background(), testNow)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalGuests)
	assert.Zero(t, stats.GuestsToday)
	assert.Len(t, stats.Tables, 3)
}

func TestAnniversariesMatchMonthAndDayOfEarlierYears(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.visit(t, "Last Year", "", 2, day(2025, 3, 14, 20))
	f.visit(t, "Two Years", "", 2, day(2024, 3, 14, 9))
	f.visit(t, "Wrong Day", "", 2, day(2025, 3, 15, 20))
	f.visit(t, "This Year", "", 2, testNow)
	f.reserve(t, "Wedding", day(2023, 3, 14, 19))
	f.reserve(t, "Upcoming", day(2026, 3, 14, 21))

	out, err := f.reports.Anniversaries(ctx, testNow)
	require.NoError(t, err)
	names := []string{}
	for _, g := range out.Guests {
		names = append(names, g.Name)
	}
	assert.ElementsMatch(t, []string{"Last Year", "Two Years"}, names)
	require.Len(t, out.Reservations, 1)
	assert.Equal(t, "Wedding", out.Reservations[0].Name)
}

func TestGuestsBetweenIsHalfOpen(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.visit(t, "Start", "", 1, day(2026, 3, 1, 0))
	f.visit(t, "End", "", 1, day(2026, 3, 8, 0))

	list, err := f.reports.GuestsBetween(ctx, day(2026, 3, 1, 0), day(2026, 3, 8, 0))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Start", list[0].Name)

	_, err = f.reports.GuestsBetween(ctx, day(2026, 3, 8, 0), day(2026, 3, 1, 0))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestBroadcastTargetsDedupeTodaysPhones(t *testing.T) {
	f := newFixture(t)
	f.visit(t, "Ali", "+92 300-1234567", 2, testNow)
	f.visit(t, "Ali Again", "92 (300) 1234567", 2, day(2026, 3, 14, 12))
	f.visit(t, "No Phone", "", 2, testNow)
	f.visit(t, "Bilal", "0321 7654321", 2, testNow)
	f.visit(t, "Yesterday", "0333 0000000", 2, day(2026, 3, 13, 20))

	out, err := f.reports.BroadcastTargets(context.Background(), testNow)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"923001234567", "03217654321"}, out.Phones)
	require.Len(t, out.Links, 2)
	for _, l := range out.Links {
		assert.Contains(t, l, "https://wa.me/")
		assert.Contains(t, l, "?text=Thank+you+for+dining+with+us+at+Haveli")
	}
	assert.Contains(t, out.Message, "Haveli")
	assert.Equal(t, "https://wa.me/?text=", out.ShareURL[:len("https://wa.me/?text=")])
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "923001234567", DigitsOnly("+92 (300) 123-4567"))
	assert.Equal(t, "", DigitsOnly("n/a"))
	assert.Equal(t, "12", DigitsOnly("١٢12"))
}
