package model

import (
	"math/rand"

	"github.com/google/uuid"
)

// Color is an RGBA display color attached to a calendar. iCalendar streams
// do not carry a color, so one is assigned at import time.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// RandomPastel draws a mid-range color (each channel in [100,200), fully
// opaque) from the given source, so import stays deterministic under a
// seeded generator.
func RandomPastel(rng *rand.Rand) Color {
	return Color{
		R: uint8(100 + rng.Intn(100)),
		G: uint8(100 + rng.Intn(100)),
		B: uint8(100 + rng.Intn(100)),
		A: 255,
	}
}

// Calendar is one participant's schedule: a display name, a color and the
// imported occupied spans. ID is a generated identifier that stays stable
// across renames; filter queries reference calendars by it so that two
// calendars sharing a name remain distinguishable.
type Calendar struct {
	ID    string
	Name  string
	Color Color
	Dates []Event
}

// NewCalendar builds a calendar with a fresh ID.
func NewCalendar(name string, color Color, dates []Event) *Calendar {
	return &Calendar{
		ID:    uuid.NewString(),
		Name:  name,
		Color: color,
		Dates: dates,
	}
}

// Group is the top-level persisted aggregate: a named, ordered list of
// calendars.
type Group struct {
	Name      string
	Calendars []*Calendar
}

// FindCalendar returns the calendar with the given ID, or nil.
func (g *Group) FindCalendar(id string) *Calendar {
	for _, c := range g.Calendars {
		if c.ID == id {
			return c
		}
	}
	return nil
}
