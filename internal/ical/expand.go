package ical

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/DTU-gruppe-12-24/62550-CalendarApp/internal/model"
)

const (
	// maxInstancesPerRule is a hard safety cap on recurrence expansion so
	// that malformed INTERVAL/FREQ combinations always terminate.
	maxInstancesPerRule = 10000

	// defaultHorizonYears bounds expansion when a rule carries neither
	// UNTIL nor COUNT.
	defaultHorizonYears = 2
)

var weekdayCodes = map[time.Weekday]string{
	time.Sunday:    "SU",
	time.Monday:    "MO",
	time.Tuesday:   "TU",
	time.Wednesday: "WE",
	time.Thursday:  "TH",
	time.Friday:    "FR",
	time.Saturday:  "SA",
}

// rule is the parsed form of an RRULE property value.
type rule struct {
	freq             string
	interval         int
	explicitInterval bool
	count            int // 0 = unset
	until            time.Time
	hasUntil         bool
	byYear           []int
	byMonth          []int
	byDay            []string
}

// expandRule expands an RRULE value against the base event [start, end]
// into concrete occurrences, each keeping the base duration. An
// unrecognized frequency is a fatal parse error.
func expandRule(value string, start, end time.Time) ([]model.Event, error) {
	r, err := parseRule(value)
	if err != nil {
		return nil, err
	}

	duration := end.Sub(start)
	horizon := start.AddDate(defaultHorizonYears, 0, 0)

	// WEEKLY with a BYDAY list and no explicit INTERVAL scans day by day,
	// keeping only the listed weekdays.
	dayScan := r.freq == "WEEKLY" && len(r.byDay) > 0 && !r.explicitInterval

	var out []model.Event
	cur := start
	for i := 0; i < maxInstancesPerRule; i++ {
		if r.hasUntil {
			if cur.After(r.until) {
				break
			}
		} else if r.count == 0 && cur.After(horizon) {
			break
		}

		if r.matches(cur) {
			out = append(out, model.Event{Start: cur, End: cur.Add(duration)})
			// COUNT terminates only when UNTIL is absent; UNTIL wins otherwise.
			if !r.hasUntil && r.count > 0 && len(out) >= r.count {
				break
			}
		}

		if dayScan {
			cur = cur.AddDate(0, 0, 1)
		} else {
			cur = advance(cur, r.freq, r.interval)
		}
	}

	return out, nil
}

// matches applies the BYYEAR/BYMONTH/BYDAY filters to a candidate
// occurrence start.
func (r rule) matches(t time.Time) bool {
	if len(r.byYear) > 0 && !containsInt(r.byYear, t.Year()) {
		return false
	}
	if len(r.byMonth) > 0 && !containsInt(r.byMonth, int(t.Month())) {
		return false
	}
	if len(r.byDay) > 0 && !containsString(r.byDay, weekdayCodes[t.Weekday()]) {
		return false
	}
	return true
}

// advance steps a candidate forward by the rule's frequency unit times its
// interval.
func advance(t time.Time, freq string, interval int) time.Time {
	switch freq {
	case "YEARLY":
		return t.AddDate(interval, 0, 0)
	case "MONTHLY":
		return t.AddDate(0, interval, 0)
	case "WEEKLY":
		return t.AddDate(0, 0, 7*interval)
	case "DAILY":
		return t.AddDate(0, 0, interval)
	case "HOURLY":
		return t.Add(time.Duration(interval) * time.Hour)
	case "MINUTELY":
		return t.Add(time.Duration(interval) * time.Minute)
	case "SECONDLY":
		return t.Add(time.Duration(interval) * time.Second)
	}
	return t
}

func parseRule(value string) (rule, error) {
	r := rule{interval: 1}

	for _, part := range strings.Split(value, ";") {
		if part == "" {
			continue
		}
		key, val, found := strings.Cut(part, "=")
		if !found {
			continue
		}
		switch key {
		case "FREQ":
			switch val {
			case "YEARLY", "MONTHLY", "WEEKLY", "DAILY", "HOURLY", "MINUTELY", "SECONDLY":
				r.freq = val
			default:
				return rule{}, fmt.Errorf("invalid ical: unsupported recurrence frequency %q", val)
			}
		case "INTERVAL":
			n, err := strconv.Atoi(val)
			if err == nil && n >= 1 {
				r.interval = n
			}
			r.explicitInterval = true
		case "COUNT":
			if n, err := strconv.Atoi(val); err == nil && n > 0 {
				r.count = n
			}
		case "UNTIL":
			if t, err := parseTimestamp(val, nil); err == nil {
				r.until = t
				r.hasUntil = true
			}
		case "BYYEAR":
			r.byYear = parseIntList(val)
		case "BYMONTH":
			r.byMonth = parseIntList(val)
		case "BYDAY":
			for _, d := range strings.Split(val, ",") {
				if d = strings.TrimSpace(d); d != "" {
					r.byDay = append(r.byDay, strings.ToUpper(d))
				}
			}
		}
	}

	if r.freq == "" {
		return rule{}, fmt.Errorf("invalid ical: recurrence rule %q has no FREQ", value)
	}
	return r, nil
}

func parseIntList(val string) []int {
	var out []int
	for _, part := range strings.Split(val, ",") {
		if n, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
			out = append(out, n)
		}
	}
	return out
}

func containsInt(list []int, n int) bool {
	for _, v := range list {
		if v == n {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
