package ical

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	appLog "github.com/DTU-gruppe-12-24/62550-CalendarApp/internal/log"
	"github.com/DTU-gruppe-12-24/62550-CalendarApp/internal/model"
)

// defaultCalendarName is used when the stream carries no X-WR-CALNAME.
const defaultCalendarName = "temp"

const (
	layoutDate  = "20060102"
	layoutLocal = "20060102T150405"
	layoutZoned = "20060102T150405Z0700"
)

// Parser converts iCalendar byte streams into model.Calendar values. The
// random source drives the color assigned to each parsed calendar; inject a
// seeded one for deterministic imports.
type Parser struct {
	rng *rand.Rand
}

// NewParser builds a parser. A nil rng gets a time-seeded source.
func NewParser(rng *rand.Rand) *Parser {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Parser{rng: rng}
}

// eventAccumulator collects the state of the VEVENT block currently being
// parsed: the base start/end and the recurrence instances produced by
// RRULE/RDATE, not yet committed to the calendar.
type eventAccumulator struct {
	start    time.Time
	end      time.Time
	hasStart bool
	hasEnd   bool
	hasRule  bool
	repeated []model.Event
}

func (a *eventAccumulator) reset() {
	*a = eventAccumulator{}
}

// ParseCalendar parses a single iCalendar stream into one calendar.
//
// Unsupported VERSION/CALSCALE values, mismatched BEGIN/END nesting and
// unrecognized recurrence frequencies abort the parse. Events missing a
// start or end time, EXDATE without a preceding RRULE and RDATE without a
// base duration are logged and skipped.
func ParseCalendar(body []byte) (*model.Calendar, error) {
	return NewParser(nil).ParseCalendar(body)
}

func (p *Parser) ParseCalendar(body []byte) (*model.Calendar, error) {
	lines := unfoldLines(string(body))

	name := defaultCalendarName
	var dates []model.Event
	var sections []string
	var acc eventAccumulator

	for i, line := range lines {
		lineNo := i + 1

		if strings.HasPrefix(line, "BEGIN:") {
			sections = append(sections, strings.TrimPrefix(line, "BEGIN:"))
			continue
		}

		// Lines outside any open section are ignored.
		if len(sections) == 0 {
			continue
		}

		switch sections[len(sections)-1] {
		case "VCALENDAR":
			switch {
			case strings.HasPrefix(line, "VERSION:"):
				if line != "VERSION:2.0" {
					return nil, fmt.Errorf("invalid ical: parser only supports version 2.0 (line %d)", lineNo)
				}
			case strings.HasPrefix(line, "CALSCALE:"):
				if line != "CALSCALE:GREGORIAN" {
					return nil, fmt.Errorf("invalid ical: calendar scale is not gregorian (line %d)", lineNo)
				}
			case strings.HasPrefix(line, "X-WR-CALNAME:"):
				name = strings.TrimPrefix(line, "X-WR-CALNAME:")
			}
		case "VEVENT":
			committed, err := p.handleEventLine(line, lineNo, &acc)
			if err != nil {
				return nil, err
			}
			dates = append(dates, committed...)
		}

		if strings.HasPrefix(line, "END:") {
			section := strings.TrimPrefix(line, "END:")
			if section != sections[len(sections)-1] {
				return nil, fmt.Errorf("invalid ical: cannot end section %q before it is started (line %d)", section, lineNo)
			}
			sections = sections[:len(sections)-1]
		}
	}

	return model.NewCalendar(name, model.RandomPastel(p.rng), dates), nil
}

// handleEventLine processes one property line inside a VEVENT block and
// returns the events committed by it (non-empty only for END).
func (p *Parser) handleEventLine(line string, lineNo int, acc *eventAccumulator) ([]model.Event, error) {
	propName, params, value := splitProperty(line)

	switch propName {
	case "DTSTART":
		t, err := parseTimestamp(value, params)
		if err != nil {
			appLog.Warn("unparseable DTSTART; skipping", "value", value, "line", lineNo)
			return nil, nil
		}
		acc.start = t
		acc.hasStart = true

	case "DTEND":
		t, err := parseTimestamp(value, params)
		if err != nil {
			appLog.Warn("unparseable DTEND; skipping", "value", value, "line", lineNo)
			return nil, nil
		}
		acc.end = t
		acc.hasEnd = true

	case "RRULE":
		if !acc.hasStart || !acc.hasEnd {
			appLog.Warn("RRULE before DTSTART/DTEND; skipping rule", "line", lineNo)
			return nil, nil
		}
		instances, err := expandRule(value, acc.start, acc.end)
		if err != nil {
			return nil, err
		}
		acc.hasRule = true
		acc.repeated = append(acc.repeated, instances...)

	case "EXDATE":
		if !acc.hasRule {
			appLog.Warn("EXDATE without a preceding RRULE; skipping", "line", lineNo)
			return nil, nil
		}
		for _, v := range strings.Split(value, ",") {
			t, err := parseTimestamp(strings.TrimSpace(v), params)
			if err != nil {
				appLog.Warn("unparseable EXDATE value; skipping", "value", v, "line", lineNo)
				continue
			}
			acc.repeated = removeInstancesAt(acc.repeated, t)
		}

	case "RDATE":
		if !acc.hasStart || !acc.hasEnd {
			appLog.Warn("RDATE without base start/end; skipping", "line", lineNo)
			return nil, nil
		}
		duration := acc.end.Sub(acc.start)
		for _, v := range strings.Split(value, ",") {
			t, err := parseTimestamp(strings.TrimSpace(v), params)
			if err != nil {
				appLog.Warn("unparseable RDATE value; skipping", "value", v, "line", lineNo)
				continue
			}
			acc.repeated = append(acc.repeated, model.Event{Start: t, End: t.Add(duration)})
		}

	case "END":
		if !acc.hasStart || !acc.hasEnd {
			appLog.Warn("event missing start or end time; skipping", "line", lineNo)
			acc.reset()
			return nil, nil
		}
		// Recurrence instances replace the base occurrence entirely.
		var committed []model.Event
		if len(acc.repeated) == 0 {
			committed = []model.Event{{Start: acc.start, End: acc.end}}
		} else {
			committed = acc.repeated
		}
		acc.reset()
		return committed, nil
	}

	return nil, nil
}

// unfoldLines splits the stream on CRLF and joins folded continuation
// lines (leading space or tab) onto their predecessor, stripping the
// single leading whitespace character.
func unfoldLines(s string) []string {
	raw := strings.Split(s, "\r\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if len(l) > 0 && (l[0] == ' ' || l[0] == '\t') && len(lines) > 0 {
			lines[len(lines)-1] += l[1:]
			continue
		}
		lines = append(lines, l)
	}
	return lines
}

// splitProperty breaks an iCalendar content line into its property name,
// parameters and value: NAME[;PARAM=...]:VALUE.
func splitProperty(line string) (name string, params []string, value string) {
	left := line
	if colon := strings.Index(line, ":"); colon >= 0 {
		left = line[:colon]
		value = line[colon+1:]
	}
	parts := strings.Split(left, ";")
	return parts[0], parts[1:], value
}

// parseTimestamp parses a DTSTART/DTEND/EXDATE/RDATE style value.
//
//   - VALUE=DATE: a bare date, midnight local time.
//   - TZID=...: a naive local date-time. The zone identifier itself is not
//     applied; times are read as local wall-clock time.
//   - otherwise: a date-time qualified with Z or a numeric offset, falling
//     back to naive local time when no suffix is present. The suffix is
//     validated but not applied: the literal wall-clock fields are kept,
//     in local time, so every parsed timestamp shares one location.
func parseTimestamp(value string, params []string) (time.Time, error) {
	for _, param := range params {
		if param == "VALUE=DATE" {
			return time.ParseInLocation(layoutDate, value, time.Local)
		}
		if strings.HasPrefix(param, "TZID") {
			return time.ParseInLocation(layoutLocal, value, time.Local)
		}
	}
	if t, err := time.Parse(layoutZoned, value); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.Local), nil
	}
	if t, err := time.ParseInLocation(layoutLocal, value, time.Local); err == nil {
		return t, nil
	}
	return time.ParseInLocation(layoutDate, value, time.Local)
}

// removeInstancesAt drops every buffered instance whose start equals t.
func removeInstancesAt(events []model.Event, t time.Time) []model.Event {
	out := events[:0]
	for _, ev := range events {
		if !ev.Start.Equal(t) {
			out = append(out, ev)
		}
	}
	return out
}
