package session

import (
	"fmt"
	"time"

	"github.com/clinicdesk/clinicdesk/pkg/wallclock"
)

// SummaryNoSchedule is returned when the patient has no weekly slot
// configured. That is a normal outcome, not an error.
const SummaryNoSchedule = "no schedule set"

// DefaultLookaheadDays bounds how far ahead recurring sessions are proposed.
const DefaultLookaheadDays = 30

// GenerateResult is the generator's proposal. Nothing is persisted here;
// the caller decides what to do with the instants.
type GenerateResult struct {
	Instants []time.Time
	Summary  string
}

// GenerateRecurring computes the future weekly appointment instants for a
// patient's fixed schedule within [now, now+lookaheadDays].
//
// A local date already holding a session in the window is skipped regardless
// of that session's status; a canceled session still occupies its date. If
// today is the fixed weekday but the slot has already passed, the first
// candidate moves a full week ahead, never later today.
func GenerateRecurring(clock *wallclock.Clock, fixedDay *int, fixedTime *string, existing []*Session, now time.Time, lookaheadDays int) (GenerateResult, error) {
	if fixedDay == nil || fixedTime == nil || *fixedTime == "" {
		return GenerateResult{Summary: SummaryNoSchedule}, nil
	}
	hour, minute, err := wallclock.ParseClockTime(*fixedTime)
	if err != nil {
		return GenerateResult{}, err
	}
	if lookaheadDays <= 0 {
		lookaheadDays = DefaultLookaheadDays
	}
	windowEnd := now.AddDate(0, 0, lookaheadDays)

	occupied := make(map[string]bool)
	for _, s := range existing {
		if s.ScheduledAt.Before(now) || s.ScheduledAt.After(windowEnd) {
			continue
		}
		occupied[clock.LocalDateKey(s.ScheduledAt)] = true
	}

	today := clock.LocalDateKey(now)
	delta := (*fixedDay - clock.LocalWeekday(now) + 7) % 7
	candidate, err := wallclock.AddDays(today, delta)
	if err != nil {
		return GenerateResult{}, err
	}
	if delta == 0 {
		slot, err := clock.ComposeInstant(today, hour, minute)
		if err != nil {
			return GenerateResult{}, err
		}
		if !slot.After(now) {
			candidate, _ = wallclock.AddDays(today, 7)
		}
	}

	var instants []time.Time
	for {
		instant, err := clock.ComposeInstant(candidate, hour, minute)
		if err != nil {
			return GenerateResult{}, err
		}
		if instant.After(windowEnd) {
			break
		}
		if !occupied[candidate] {
			instants = append(instants, instant)
		}
		candidate, _ = wallclock.AddDays(candidate, 7)
	}

	return GenerateResult{
		Instants: instants,
		Summary:  fmt.Sprintf("Generated %d upcoming sessions", len(instants)),
	}, nil
}
