package filter

import (
	"time"

	"github.com/DTU-gruppe-12-24/62550-CalendarApp/internal/model"
)

// Query describes one availability constraint set. Participant selections
// are sets of calendar IDs; the engine resolves them against the calendar
// list it is handed at evaluation time, so selections survive renames and
// duplicate calendar names.
type Query struct {
	// Required holds the IDs of calendars that must all be free. Empty
	// means every calendar in the group must be free.
	Required map[string]struct{}

	// Optional is reserved for participants whose availability is nice to
	// have; the availability logic does not consult it.
	Optional map[string]struct{}

	// Weekdays restricts which days of the week qualify at all. Empty
	// means no weekday restriction.
	Weekdays map[time.Weekday]struct{}

	// Window restricts the evaluated part of each day, in minutes since
	// midnight. Nil means the whole day [0, 1440].
	Window *model.MinuteRange

	// MinDurationMinutes is the required free-gap length. Nil means any
	// free instant counts. Values above one day are clamped to 1440
	// before use.
	MinDurationMinutes *int

	// TotalParticipants is the size of the group the query was built
	// against. Selecting every participant is treated as no participant
	// filter at all.
	TotalParticipants int
}

// IsActive reports whether at least one constraint is meaningfully
// restrictive. A required set covering the whole group does not count: it
// narrows whom to check without changing the outcome.
func (q Query) IsActive() bool {
	participantFilterActive := len(q.Required) > 0 && len(q.Required) < q.TotalParticipants

	return participantFilterActive ||
		len(q.Weekdays) > 0 ||
		q.Window != nil ||
		q.MinDurationMinutes != nil
}

// minDuration returns the effective minimum free duration in minutes:
// the clamped requirement, or 1 so that an unconstrained day still needs
// some free instant rather than a zero-length technicality.
func (q Query) minDuration() int {
	if q.MinDurationMinutes == nil {
		return 1
	}
	d := *q.MinDurationMinutes
	if d > model.MinutesPerDay {
		return model.MinutesPerDay
	}
	return d
}

// window returns the effective evaluation window.
func (q Query) window() model.MinuteRange {
	if q.Window != nil {
		return *q.Window
	}
	return model.MinuteRange{Start: 0, End: model.MinutesPerDay}
}
