package model

import (
	"testing"
	"time"
)

func at(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, time.Local)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestOccursOnSingleDay(t *testing.T) {
	ev := Event{Start: at(2024, time.January, 15, 9, 0), End: at(2024, time.January, 15, 10, 0)}

	if !ev.OccursOn(day(2024, time.January, 15)) {
		t.Error("expected event to occur on its own date")
	}
	if ev.OccursOn(day(2024, time.January, 14)) {
		t.Error("event should not occur the day before")
	}
	if ev.OccursOn(day(2024, time.January, 16)) {
		t.Error("event should not occur the day after")
	}
}

func TestOccursOnMultiDaySpan(t *testing.T) {
	ev := Event{Start: at(2024, time.January, 15, 22, 0), End: at(2024, time.January, 17, 6, 0)}

	for d := 15; d <= 17; d++ {
		if !ev.OccursOn(day(2024, time.January, d)) {
			t.Errorf("expected event to occur on Jan %d", d)
		}
	}
	if ev.OccursOn(day(2024, time.January, 18)) {
		t.Error("event should not occur after its end date")
	}
}

func TestOccursOnMidnightBoundaries(t *testing.T) {
	// Ends exactly at midnight of the 16th: does not occupy the 16th.
	ev := Event{Start: at(2024, time.January, 15, 20, 0), End: day(2024, time.January, 16)}
	if !ev.OccursOn(day(2024, time.January, 15)) {
		t.Error("expected event to occur on the 15th")
	}
	if ev.OccursOn(day(2024, time.January, 16)) {
		t.Error("event ending at midnight must not occupy the next day")
	}

	// Starts exactly at midnight: does occupy that day.
	ev = Event{Start: day(2024, time.January, 16), End: at(2024, time.January, 16, 2, 0)}
	if !ev.OccursOn(day(2024, time.January, 16)) {
		t.Error("event starting at midnight must occupy its start day")
	}
}

func TestOccursOnMixedLocations(t *testing.T) {
	// Timestamps from different sources can end up in different locations;
	// only the literal calendar fields may decide occurrence.
	ev := Event{
		Start: time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC),
	}
	cet := time.FixedZone("CET", 3600)

	if !ev.OccursOn(time.Date(2024, time.January, 15, 0, 0, 0, 0, cet)) {
		t.Error("expected the event to occur on its own calendar date")
	}
	if ev.OccursOn(time.Date(2024, time.January, 16, 0, 0, 0, 0, cet)) {
		t.Error("event should not occur the day after")
	}

	r, ok := ev.MinuteRangeOn(time.Date(2024, time.January, 15, 0, 0, 0, 0, cet))
	if !ok || r.Start != 540 || r.End != 600 {
		t.Errorf("expected [540,600], got %v ok=%v", r, ok)
	}
}

func TestMinuteRangeOn(t *testing.T) {
	ev := Event{Start: at(2024, time.January, 15, 9, 30), End: at(2024, time.January, 15, 11, 0)}

	r, ok := ev.MinuteRangeOn(day(2024, time.January, 15))
	if !ok {
		t.Fatal("expected a minute range on the event's date")
	}
	if r.Start != 570 || r.End != 660 {
		t.Errorf("expected [570,660], got [%d,%d]", r.Start, r.End)
	}

	if _, ok := ev.MinuteRangeOn(day(2024, time.January, 16)); ok {
		t.Error("expected no minute range on a different date")
	}
}

func TestMinuteRangeOnSpanningDays(t *testing.T) {
	ev := Event{Start: at(2024, time.January, 15, 22, 0), End: at(2024, time.January, 17, 6, 0)}

	r, ok := ev.MinuteRangeOn(day(2024, time.January, 15))
	if !ok || r.Start != 1320 || r.End != MinutesPerDay {
		t.Errorf("first day: expected [1320,1440], got %v ok=%v", r, ok)
	}

	r, ok = ev.MinuteRangeOn(day(2024, time.January, 16))
	if !ok || r.Start != 0 || r.End != MinutesPerDay {
		t.Errorf("middle day: expected [0,1440], got %v ok=%v", r, ok)
	}

	r, ok = ev.MinuteRangeOn(day(2024, time.January, 17))
	if !ok || r.Start != 0 || r.End != 360 {
		t.Errorf("last day: expected [0,360], got %v ok=%v", r, ok)
	}
}

func TestMinuteRangeOnMidnightEnd(t *testing.T) {
	ev := Event{Start: at(2024, time.January, 15, 20, 0), End: day(2024, time.January, 16)}

	r, ok := ev.MinuteRangeOn(day(2024, time.January, 15))
	if !ok || r.Start != 1200 || r.End != MinutesPerDay {
		t.Errorf("expected [1200,1440], got %v ok=%v", r, ok)
	}
	if _, ok := ev.MinuteRangeOn(day(2024, time.January, 16)); ok {
		t.Error("event ending at midnight must not produce a range on the next day")
	}
}

func TestDisplayRangeOn(t *testing.T) {
	spanning := Event{Start: at(2024, time.January, 15, 22, 30), End: at(2024, time.January, 17, 6, 15)}

	cases := []struct {
		name string
		ev   Event
		day  time.Time
		want string
	}{
		{"single day", Event{Start: at(2024, time.January, 15, 9, 0), End: at(2024, time.January, 15, 10, 30)}, day(2024, time.January, 15), "09:00–10:30"},
		{"runs into next day", spanning, day(2024, time.January, 15), "22:30–24:00"},
		{"all day middle", spanning, day(2024, time.January, 16), "All day"},
		{"runs out of previous day", spanning, day(2024, time.January, 17), "00:00–06:15"},
		{"not occurring", spanning, day(2024, time.January, 20), ""},
	}

	for _, tc := range cases {
		if got := tc.ev.DisplayRangeOn(tc.day); got != tc.want {
			t.Errorf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestMinuteRangeHelpers(t *testing.T) {
	a := MinuteRange{Start: 0, End: 480}
	b := MinuteRange{Start: 480, End: 600}
	if a.Overlaps(b) {
		t.Error("touching ranges must not overlap")
	}
	if !a.Overlaps(MinuteRange{Start: 479, End: 481}) {
		t.Error("expected overlap")
	}

	clipped := MinuteRange{Start: 100, End: 2000}.Clip(MinuteRange{Start: 480, End: 1080})
	if clipped.Start != 480 || clipped.End != 1080 {
		t.Errorf("expected [480,1080], got %v", clipped)
	}
}
