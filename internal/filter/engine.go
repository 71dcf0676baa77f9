package filter

import (
	"sort"
	"time"

	"github.com/DTU-gruppe-12-24/62550-CalendarApp/internal/model"
)

// maxScanDays bounds the forward day scan of FindNextSlots so impossible
// constraint combinations still terminate.
const maxScanDays = 3650

// Engine evaluates availability queries against calendar lists. It is
// stateless and re-entrant; every call works on the snapshot it is handed.
type Engine struct{}

// IsDayAvailable reports whether the given day holds a free gap of at
// least the query's minimum duration, inside the query's time window, for
// every relevant calendar at once. The weekday filter is a hard gate,
// independent of the time-window logic.
func (e Engine) IsDayAvailable(calendars []*model.Calendar, day time.Time, q Query) bool {
	if len(q.Weekdays) > 0 {
		if _, ok := q.Weekdays[day.Weekday()]; !ok {
			return false
		}
	}

	minDuration := q.minDuration()
	for _, gap := range e.freeGapsOn(calendars, day, q) {
		if gap.Width() >= minDuration {
			return true
		}
	}
	return false
}

// FindNextSlots walks forward day by day from fromDate and collects, for
// each day that qualifies, the start of its longest free gap meeting the
// duration requirement, until limit slots are found or the scan cap is
// reached. Every returned slot's day satisfies IsDayAvailable under the
// same query.
func (e Engine) FindNextSlots(calendars []*model.Calendar, fromDate time.Time, q Query, limit int) []time.Time {
	slots := make([]time.Time, 0, limit)
	if limit <= 0 {
		return slots
	}

	minDuration := q.minDuration()
	first := model.DayOf(fromDate)

	for i := 0; i < maxScanDays && len(slots) < limit; i++ {
		day := first.AddDate(0, 0, i)
		if !e.IsDayAvailable(calendars, day, q) {
			continue
		}

		best := model.MinuteRange{}
		for _, gap := range e.freeGapsOn(calendars, day, q) {
			if gap.Width() >= minDuration && gap.Width() > best.Width() {
				best = gap
			}
		}
		if best.Width() < minDuration {
			continue
		}

		slots = append(slots, time.Date(day.Year(), day.Month(), day.Day(),
			best.Start/60, best.Start%60, 0, 0, day.Location()))
	}

	return slots
}

// freeGapsOn computes the free sub-intervals of the query's window on the
// given day, across every relevant calendar's events.
func (e Engine) freeGapsOn(calendars []*model.Calendar, day time.Time, q Query) []model.MinuteRange {
	window := q.window()

	var occupied []model.MinuteRange
	for _, cal := range relevantCalendars(calendars, q) {
		for _, ev := range cal.Dates {
			r, ok := ev.MinuteRangeOn(day)
			if !ok || !r.Overlaps(window) {
				continue
			}
			clipped := r.Clip(window)
			if clipped.Width() > 0 {
				occupied = append(occupied, clipped)
			}
		}
	}

	sort.Slice(occupied, func(i, j int) bool {
		return occupied[i].Start < occupied[j].Start
	})

	return freeGaps(window, occupied)
}

// freeGaps sweeps left to right over the sorted occupied blocks and emits
// the gaps between them. Adjacent blocks merge; no zero-length gap is ever
// produced.
func freeGaps(window model.MinuteRange, occupied []model.MinuteRange) []model.MinuteRange {
	var gaps []model.MinuteRange
	cursor := window.Start

	for _, block := range occupied {
		if block.End <= cursor {
			continue
		}
		if block.Start > cursor {
			gaps = append(gaps, model.MinuteRange{Start: cursor, End: block.Start})
		}
		cursor = block.End
		if cursor >= window.End {
			break
		}
	}

	if cursor < window.End {
		gaps = append(gaps, model.MinuteRange{Start: cursor, End: window.End})
	}
	return gaps
}

// relevantCalendars resolves the query's required-calendar IDs against the
// live calendar list. An empty required set means everyone must be free;
// IDs that no longer resolve are ignored.
func relevantCalendars(calendars []*model.Calendar, q Query) []*model.Calendar {
	if len(q.Required) == 0 {
		return calendars
	}
	out := make([]*model.Calendar, 0, len(q.Required))
	for _, cal := range calendars {
		if _, ok := q.Required[cal.ID]; ok {
			out = append(out, cal)
		}
	}
	return out
}
