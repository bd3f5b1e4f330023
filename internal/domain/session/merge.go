package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/pkg/wallclock"
)

// MergeThresholdSeconds is how close a manually entered appointment must be
// to the expected recurring slot to count as the same appointment.
const MergeThresholdSeconds = 1800

// MergeCheck describes whether a candidate appointment coincides with the
// patient's expected recurring slot. The detector never mutates anything;
// MergeCandidateID is only a hint for the caller to offer reuse.
type MergeCheck struct {
	ShouldMerge           bool       `json:"should_merge"`
	MergeCandidateID      *uuid.UUID `json:"merge_candidate_id,omitempty"`
	ExpectedAt            time.Time  `json:"expected_at"`
	TimeDifferenceSeconds *int64     `json:"time_difference_seconds,omitempty"`
}

// DetectMerge compares a candidate appointment against the next occurrence
// of the patient's fixed weekly slot relative to the candidate's own date.
// Without a fixed schedule the candidate is its own expected time and no
// merge is suggested.
func DetectMerge(clock *wallclock.Clock, candidateDate string, candidateHour, candidateMinute int, fixedDay *int, fixedTime *string, existing []*Session) (MergeCheck, error) {
	candidateAt, err := clock.ComposeInstant(candidateDate, candidateHour, candidateMinute)
	if err != nil {
		return MergeCheck{}, err
	}

	if fixedDay == nil || fixedTime == nil || *fixedTime == "" {
		return MergeCheck{ExpectedAt: candidateAt}, nil
	}
	hour, minute, err := wallclock.ParseClockTime(*fixedTime)
	if err != nil {
		return MergeCheck{}, err
	}

	candidateWeekday, err := wallclock.WeekdayOf(candidateDate)
	if err != nil {
		return MergeCheck{}, err
	}
	delta := (*fixedDay - candidateWeekday + 7) % 7
	expectedDate, err := wallclock.AddDays(candidateDate, delta)
	if err != nil {
		return MergeCheck{}, err
	}
	expectedAt, err := clock.ComposeInstant(expectedDate, hour, minute)
	if err != nil {
		return MergeCheck{}, err
	}

	diff := candidateAt.Sub(expectedAt)
	if diff < 0 {
		diff = -diff
	}
	diffSeconds := int64(diff / time.Second)

	check := MergeCheck{
		ShouldMerge:           diffSeconds <= MergeThresholdSeconds,
		ExpectedAt:            expectedAt,
		TimeDifferenceSeconds: &diffSeconds,
	}
	if check.ShouldMerge {
		for _, s := range existing {
			if clock.LocalDateKey(s.ScheduledAt) != candidateDate {
				continue
			}
			gap := s.ScheduledAt.Sub(candidateAt)
			if gap < 0 {
				gap = -gap
			}
			if int64(gap/time.Second) <= MergeThresholdSeconds {
				id := s.ID
				check.MergeCandidateID = &id
				break
			}
		}
	}
	return check, nil
}
