package services

import (
	"context"
	"net/url"
	"strings"
	"time"
	"unicode"

	"frontdesk/entity"
	"frontdesk/repository"
)

type ReportService struct {
	Guests       *repository.GuestRepository
	Reservations *repository.ReservationRepository
	Waitlist     *repository.WaitlistRepository
	Tables       *repository.TableRepository
	// text pre-filled into the thank-you broadcast
	BroadcastMessage string
}

func NewReportService(g *repository.GuestRepository, r *repository.ReservationRepository, w *repository.WaitlistRepository, t *repository.TableRepository, restaurant string) *ReportService {
	msg := "Thank you for dining with us! We hope you enjoyed your meal and look forward to seeing you again soon."
	if restaurant != "" {
		msg = "Thank you for dining with us at " + restaurant + "! We hope you enjoyed your meal and look forward to seeing you again soon."
	}
	return &ReportService{Guests: g, Reservations: r, Waitlist: w, Tables: t, BroadcastMessage: msg}
}

// Guest counts are party sizes (sum of numberOfGuests), not records.
type DashboardStats struct {
	TotalGuests           int64                        `json:"totalGuests"`
	GuestsToday           int64                        `json:"guestsToday"`
	GuestsThisMonth       int64                        `json:"guestsThisMonth"`
	GuestsSameDayLastWeek int64                        `json:"guestsSameDayLastWeek"`
	TotalWaiting          int64                        `json:"totalWaiting"`
	Tables                map[entity.TableStatus]int64 `json:"tables"`
}

type Anniversaries struct {
	Guests       []entity.Guest       `json:"guests"`
	Reservations []entity.Reservation `json:"reservations"`
}

type BroadcastTargets struct {
	Phones  []string `json:"phones"`
	Links   []string `json:"links"`
	Message string   `json:"message"`
	// share link without a recipient; wa.me cannot address a list
	ShareURL string `json:"shareUrl"`
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (s *ReportService) Dashboard(ctx context.Context, now time.Time) (*DashboardStats, error) {
	today := startOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	nextMonth := month.AddDate(0, 1, 0)
	lastWeek := today.AddDate(0, 0, -7)

	var (
		st  = &DashboardStats{}
		err error
	)
	if st.TotalGuests, err = s.Guests.SumPartySize(ctx, nil, nil); err != nil {
		return nil, err
	}
	if st.GuestsToday, err = s.Guests.SumPartySize(ctx, &today, &tomorrow); err != nil {
		return nil, err
	}
	if st.GuestsThisMonth, err = s.Guests.SumPartySize(ctx, &month, &nextMonth); err != nil {
		return nil, err
	}
	lastWeekEnd := lastWeek.AddDate(0, 0, 1)
	if st.GuestsSameDayLastWeek, err = s.Guests.SumPartySize(ctx, &lastWeek, &lastWeekEnd); err != nil {
		return nil, err
	}
	if st.TotalWaiting, err = s.Waitlist.CountByStatus(ctx, entity.WaitWaiting); err != nil {
		return nil, err
	}
	if st.Tables, err = s.Tables.CountByStatus(ctx); err != nil {
		return nil, err
	}
	return st, nil
}

// Anniversaries lists guests and reservations that fall on today's month
// and day in an earlier year.
func (s *ReportService) Anniversaries(ctx context.Context, now time.Time) (*Anniversaries, error) {
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	out := &Anniversaries{Guests: []entity.Guest{}, Reservations: []entity.Reservation{}}

	guests, err := s.Guests.FindVisitedBefore(ctx, yearStart)
	if err != nil {
		return nil, err
	}
	for _, g := range guests {
		if sameMonthDay(g.VisitDate, now) {
			out.Guests = append(out.Guests, g)
		}
	}

	res, err := s.Reservations.FindBefore(ctx, yearStart)
	if err != nil {
		return nil, err
	}
	for _, r := range res {
		if sameMonthDay(r.ReservationDate, now) {
			out.Reservations = append(out.Reservations, r)
		}
	}
	return out, nil
}

func sameMonthDay(t, now time.Time) bool {
	t = t.In(now.Location())
	return t.Month() == now.Month() && t.Day() == now.Day()
}

// GuestsBetween returns guests with from <= visitDate < to.
func (s *ReportService) GuestsBetween(ctx context.Context, from, to time.Time) ([]entity.Guest, error) {
	if !to.After(from) {
		return nil, invalid("to", "must be after from")
	}
	return s.Guests.FindAll(ctx, repository.GuestFilter{From: &from, To: &to})
}

// BroadcastTargets collects today's guest phone numbers, digits only.
func (s *ReportService) BroadcastTargets(ctx context.Context, now time.Time) (*BroadcastTargets, error) {
	today := startOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)
	guests, err := s.Guests.FindAll(ctx, repository.GuestFilter{From: &today, To: &tomorrow})
	if err != nil {
		return nil, err
	}

	text := url.QueryEscape(s.BroadcastMessage)
	out := &BroadcastTargets{
		Phones:   []string{},
		Links:    []string{},
		Message:  s.BroadcastMessage,
		ShareURL: "https://wa.me/?text=" + text,
	}
	seen := map[string]bool{}
	for _, g := range guests {
		p := DigitsOnly(g.Phone)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out.Phones = append(out.Phones, p)
		out.Links = append(out.Links, "https://wa.me/"+p+"?text="+text)
	}
	return out, nil
}

func DigitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			return r
		}
		return -1
	}, s)
}
