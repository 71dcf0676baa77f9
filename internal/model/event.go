package model

import (
	"fmt"
	"time"
)

// MinutesPerDay is the upper bound of a day's minute scale. Minute ranges
// run over the inclusive scale [0, 1440].
const MinutesPerDay = 24 * 60

// MinuteRange is a span of a single day expressed as minutes since
// midnight, with inclusive bounds within [0, 1440].
type MinuteRange struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Width returns the length of the range in minutes.
func (r MinuteRange) Width() int {
	return r.End - r.Start
}

// Overlaps reports whether the two ranges share at least one interior
// minute. Ranges that merely touch at a bound do not overlap.
func (r MinuteRange) Overlaps(o MinuteRange) bool {
	return r.Start < o.End && r.End > o.Start
}

// Clip bounds the range to the given window.
func (r MinuteRange) Clip(window MinuteRange) MinuteRange {
	out := r
	if out.Start < window.Start {
		out.Start = window.Start
	}
	if out.End > window.End {
		out.End = window.End
	}
	return out
}

// Event is one concrete occupied time span. Recurrence is expanded before
// construction; an Event never carries a rule itself. Invariant:
// Start <= End. Events are treated as immutable once built.
type Event struct {
	Start time.Time
	End   time.Time
}

// DayOf truncates t to midnight in its own location.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// civilDate projects t's literal calendar date into a fixed location, so
// timestamps that ended up in different locations still compare by their
// wall-clock fields alone.
func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// OccursOn reports whether the event occupies the calendar date of day.
// An event ending exactly at midnight does not occupy that midnight's
// date; an event starting exactly at midnight does occupy it.
func (e Event) OccursOn(day time.Time) bool {
	d := civilDate(day)
	startDay := civilDate(e.Start)
	endDay := civilDate(e.End)
	if e.End.Equal(DayOf(e.End)) {
		// Ends exactly at midnight: the previous day is the last occupied one.
		endDay = endDay.AddDate(0, 0, -1)
	}
	return !d.Before(startDay) && !d.After(endDay)
}

// MinuteRangeOn returns the portion of the event that falls on the given
// date, as minutes since midnight. A span reaching in from an earlier day
// begins at minute 0; one reaching out to a later day ends at minute 1440.
// The second return value is false when the event does not occupy the date.
func (e Event) MinuteRangeOn(day time.Time) (MinuteRange, bool) {
	d := civilDate(day)
	startDay := civilDate(e.Start)
	endDay := civilDate(e.End)

	if startDay.After(d) || endDay.Before(d) {
		return MinuteRange{}, false
	}

	startMin := 0
	if !startDay.Before(d) {
		startMin = e.Start.Hour()*60 + e.Start.Minute()
	}
	endMin := MinutesPerDay
	if !endDay.After(d) {
		endMin = e.End.Hour()*60 + e.End.Minute()
	}

	if startMin >= endMin {
		return MinuteRange{}, false
	}
	return MinuteRange{Start: startMin, End: endMin}, true
}

// DisplayRangeOn renders the portion of the event visible on the given
// date: "All day", "HH:MM–24:00", "00:00–HH:MM", or "HH:MM–HH:MM" for
// spans contained in the day. Returns "" when the event does not occupy
// the date.
func (e Event) DisplayRangeOn(day time.Time) string {
	r, ok := e.MinuteRangeOn(day)
	if !ok {
		return ""
	}
	if r.Start == 0 && r.End == MinutesPerDay {
		return "All day"
	}
	return formatMinute(r.Start) + "–" + formatMinute(r.End)
}

func formatMinute(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
