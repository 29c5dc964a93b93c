package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type CommandName string

const (
	Navigate       CommandName = "navigate"
	AddGuest       CommandName = "add_guest"
	AddReservation CommandName = "add_reservation"
	AddToWaitlist  CommandName = "add_to_waitlist"
	AddTable       CommandName = "add_table"
	Unknown        CommandName = "unknown"
)

func (c CommandName) Valid() bool {
	switch c {
	case Navigate, AddGuest, AddReservation, AddToWaitlist, AddTable, Unknown:
		return true
	}
	return false
}

type Command struct {
	Command    CommandName    `json:"command"`
	Args       map[string]any `json:"args"`
	Transcript string         `json:"transcript"`
}

func unknown(transcript string) Command {
	return Command{Command: Unknown, Args: map[string]any{}, Transcript: transcript}
}

const commandPrompt = `You are a voice command interpreter for a restaurant front desk application.
Convert the staff member's transcribed speech into one command.

Commands:
- "navigate": go to a page. args.page is one of "/reports", "/reservations", "/tables", "/waitlist".
- "add_guest": add a walk-in guest. args: name (string), numberOfGuests (number).
- "add_reservation": create a reservation. args: name (string), numberOfGuests (number), optional reservationDate (ISO 8601).
- "add_to_waitlist": put a party on the waiting list. args: name (string), numberOfGuests (number).
- "add_table": add a table. args: name (string), capacity (number).
- "unknown": the command cannot be determined.

The current time is %s. Convert any mentioned date or time to full ISO 8601.
Reply with JSON only, shaped {"command": "...", "args": {...}}.

Transcription: %q`

// Interpret maps a transcript onto the closed command vocabulary. Anything
// it cannot map, including model failures, comes back as "unknown".
func (a *Assistant) Interpret(ctx context.Context, transcript string, now time.Time) Command {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return unknown("")
	}
	reply, err := a.complete(ctx, fmt.Sprintf(commandPrompt, now.Format(time.RFC3339), transcript), 0)
	if err != nil {
		log.Warn().Err(err).Msg("interpret voice command failed")
		return unknown(transcript)
	}
	cmd, err := ParseCommand(reply)
	if err != nil {
		log.Warn().Err(err).Str("reply", reply).Msg("unparsable command reply")
		return unknown(transcript)
	}
	cmd.Transcript = transcript
	return cmd
}

// ParseCommand reads a model reply, tolerating code fences and prose
// around the JSON object.
func ParseCommand(reply string) (Command, error) {
	start, end := strings.Index(reply, "{"), strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return unknown(""), fmt.Errorf("no json object in reply")
	}
	var raw struct {
		Command string         `json:"command"`
		Args    map[string]any `json:"args"`
	}
	if err := json.Unmarshal([]byte(reply[start:end+1]), &raw); err != nil {
		return unknown(""), err
	}
	name := CommandName(strings.ToLower(strings.TrimSpace(raw.Command)))
	if !name.Valid() {
		return unknown(""), nil
	}
	if raw.Args == nil {
		raw.Args = map[string]any{}
	}
	return Command{Command: name, Args: raw.Args}, nil
}
