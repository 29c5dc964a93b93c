package ai

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	NoGuestData         = "There is no guest data to analyze yet."
	InsightsFailed      = "Failed to generate insights. Please try again."
	InsightsUnavailable = "AI insights are unavailable right now."
)

type Summary struct {
	Summary  string `json:"summary"`
	Degraded bool   `json:"degraded"`
}

// GuestNote is the slice of a guest record the summary needs.
type GuestNote struct {
	Name           string    `json:"name"`
	VisitDate      time.Time `json:"visitDate"`
	NumberOfGuests int       `json:"numberOfGuests"`
	Preferences    string    `json:"preferences,omitempty"`
	Feedback       string    `json:"feedback,omitempty"`
}

// SummarizeGuests writes a date-wise summary of traffic, feedback and
// preferences.
func (a *Assistant) SummarizeGuests(ctx context.Context, guests []GuestNote) Summary {
	if len(guests) == 0 {
		return Summary{Summary: NoGuestData}
	}
	return a.summarize(ctx, guestPrompt(guests))
}

// SummarizeFeedback condenses free-text feedback into themes.
func (a *Assistant) SummarizeFeedback(ctx context.Context, feedback []string) Summary {
	var b strings.Builder
	for _, f := range feedback {
		if f = strings.TrimSpace(f); f != "" {
			fmt.Fprintf(&b, "- %s\n", f)
		}
	}
	if b.Len() == 0 {
		return Summary{Summary: NoGuestData}
	}
	return a.summarize(ctx, "You are a restaurant manager. Summarize the common themes in this guest feedback "+
		"in a few sentences and list concrete improvements.\n\n"+b.String())
}

func (a *Assistant) summarize(ctx context.Context, prompt string) Summary {
	if !a.Enabled() {
		return Summary{Summary: InsightsUnavailable, Degraded: true}
	}
	out, err := a.complete(ctx, prompt, 0.4)
	if err != nil || out == "" {
		log.Warn().Err(err).Msg("summary generation failed")
		return Summary{Summary: InsightsFailed, Degraded: true}
	}
	return Summary{Summary: out}
}

func guestPrompt(guests []GuestNote) string {
	byDay := map[string][]GuestNote{}
	for _, g := range guests {
		day := g.VisitDate.Format("2006-01-02")
		byDay[day] = append(byDay[day], g)
	}
	days := make([]string, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Strings(days)

	var b strings.Builder
	b.WriteString("You are a restaurant manager analyzing guest data to find trends and areas for improvement.\n\n")
	for _, d := range days {
		fmt.Fprintf(&b, "%s:\n", d)
		for _, g := range byDay[d] {
			fmt.Fprintf(&b, "- %s, party of %d", g.Name, g.NumberOfGuests)
			if g.Preferences != "" {
				fmt.Fprintf(&b, "; preferences: %s", g.Preferences)
			}
			if g.Feedback != "" {
				fmt.Fprintf(&b, "; feedback: %s", g.Feedback)
			}
			b.WriteString("\n")
		}
	}
	b.WriteString("\nGive a concise date-wise summary of guest traffic, common feedback themes and notable preferences. " +
		"Focus on actionable insights. Group findings by date, a few sentences per day.")
	return b.String()
}
