package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"frontdesk/ai"
	"frontdesk/repository"

	"github.com/rs/zerolog/log"
)

type VoiceService struct {
	AI           *ai.Assistant
	Guests       *GuestService
	Waitlist     *WaitlistService
	Reservations *ReservationService
	Tables       *TableService
	Now          func() time.Time
}

func NewVoiceService(a *ai.Assistant, g *GuestService, w *WaitlistService, r *ReservationService, t *TableService) *VoiceService {
	return &VoiceService{AI: a, Guests: g, Waitlist: w, Reservations: r, Tables: t, Now: time.Now}
}

type VoiceResult struct {
	Command  ai.Command `json:"command"`
	Executed bool       `json:"executed"`
	Page     string     `json:"page,omitempty"`
	Result   any        `json:"result,omitempty"`
	Error    string     `json:"error,omitempty"`
}

var pages = map[string]bool{"/reports": true, "/reservations": true, "/tables": true, "/waitlist": true}

// HandleAudio transcribes the clip and continues as HandleText. A failed or
// empty transcription yields the unknown command.
func (s *VoiceService) HandleAudio(ctx context.Context, audio []byte, mimeType string, execute bool) *VoiceResult {
	text, err := s.AI.Transcribe(ctx, audio, mimeType)
	if err != nil {
		log.Warn().Err(err).Msg("transcription failed")
		return &VoiceResult{Command: ai.Command{Command: ai.Unknown, Args: map[string]any{}}}
	}
	return s.HandleText(ctx, text, execute)
}

func (s *VoiceService) HandleText(ctx context.Context, text string, execute bool) *VoiceResult {
	cmd := s.AI.Interpret(ctx, text, s.Now())
	out := &VoiceResult{Command: cmd}
	if cmd.Command == ai.Navigate {
		out.Page = argString(cmd.Args, "page")
		if !pages[out.Page] {
			out.Page = ""
		}
	}
	if !execute || cmd.Command == ai.Unknown || cmd.Command == ai.Navigate {
		return out
	}

	res, err := s.dispatch(ctx, cmd)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	out.Executed, out.Result = true, res
	return out
}

func (s *VoiceService) dispatch(ctx context.Context, cmd ai.Command) (any, error) {
	name := argString(cmd.Args, "name")
	switch cmd.Command {
	case ai.AddGuest:
		return s.Guests.Create(ctx, &GuestIn{Name: name, NumberOfGuests: argInt(cmd.Args, "numberOfGuests")})
	case ai.AddToWaitlist:
		return s.Waitlist.Add(ctx, &WaitingGuestIn{Name: name, NumberOfGuests: argInt(cmd.Args, "numberOfGuests")})
	case ai.AddTable:
		return s.Tables.Create(ctx, &TableIn{Name: name, Capacity: argInt(cmd.Args, "capacity")})
	case ai.AddReservation:
		in := &ReservationIn{Name: name, NumberOfGuests: argInt(cmd.Args, "numberOfGuests")}
		date := argString(cmd.Args, "reservationDate")
		if date == "" {
			date = argString(cmd.Args, "dateOfEvent")
		}
		if date != "" {
			t, err := time.Parse(time.RFC3339, date)
			if err != nil {
				return nil, invalid("reservationDate", fmt.Sprintf("%q is not ISO 8601", date))
			}
			in.ReservationDate = t
		} else {
			in.ReservationDate = s.Now()
		}
		return s.Reservations.Create(ctx, in)
	}
	return nil, fmt.Errorf("command %s cannot be executed", cmd.Command)
}

func argString(args map[string]any, key string) string {
	switch v := args[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

func argInt(args map[string]any, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		n, _ := strconv.Atoi(strings.TrimSpace(v))
		return n
	}
	return 0
}

type InsightService struct {
	AI     *ai.Assistant
	Guests *repository.GuestRepository
}

func NewInsightService(a *ai.Assistant, guests *repository.GuestRepository) *InsightService {
	return &InsightService{AI: a, Guests: guests}
}

type SummaryIn struct {
	From     *time.Time `json:"from"`
	To       *time.Time `json:"to"`
	Feedback []string   `json:"feedback"`
}

// Summarize uses the given feedback strings when present, otherwise the
// guests visiting in [from, to).
func (s *InsightService) Summarize(ctx context.Context, in *SummaryIn) ai.Summary {
	if len(in.Feedback) > 0 {
		return s.AI.SummarizeFeedback(ctx, in.Feedback)
	}
	guests, err := s.Guests.FindAll(ctx, repository.GuestFilter{From: in.From, To: in.To})
	if err != nil {
		log.Error().Err(err).Msg("load guests for summary")
		return ai.Summary{Summary: ai.InsightsFailed, Degraded: true}
	}
	notes := make([]ai.GuestNote, 0, len(guests))
	for _, g := range guests {
		notes = append(notes, ai.GuestNote{
			Name:           g.Name,
			VisitDate:      g.VisitDate,
			NumberOfGuests: g.NumberOfGuests,
			Preferences:    g.Preferences,
			Feedback:       g.Feedback,
		})
	}
	return s.AI.SummarizeGuests(ctx, notes)
}
