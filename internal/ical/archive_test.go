package ical

import (
	"archive/zip"
	"bytes"
	"testing"
)

func buildZip(t *testing.T, entries map[string][]byte, order []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range order {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write(entries[name]); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func minimalCalendar(name string) []byte {
	return ics(
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"X-WR-CALNAME:"+name,
		"BEGIN:VEVENT",
		"DTSTART:20240115T090000Z",
		"DTEND:20240115T100000Z",
		"END:VEVENT",
		"END:VCALENDAR",
	)
}

func TestParseArchiveKeepsStoredOrder(t *testing.T) {
	body := buildZip(t, map[string][]byte{
		"b.ics":   minimalCalendar("Bob"),
		"a.ics":   minimalCalendar("Alice"),
		"nested/": nil,
	}, []string{"b.ics", "nested/", "a.ics"})

	if !IsArchive(body) {
		t.Fatal("expected zip magic to be detected")
	}

	calendars, err := testParser().ParseArchive(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(calendars) != 2 {
		t.Fatalf("expected 2 calendars (directory skipped), got %d", len(calendars))
	}
	if calendars[0].Name != "Bob" || calendars[1].Name != "Alice" {
		t.Errorf("expected stored order Bob, Alice; got %q, %q", calendars[0].Name, calendars[1].Name)
	}
}

func TestParseArchiveEmpty(t *testing.T) {
	body := buildZip(t, nil, nil)

	calendars, err := testParser().ParseArchive(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(calendars) != 0 {
		t.Errorf("expected an empty list, got %d calendars", len(calendars))
	}
}

func TestParseArchivePropagatesFatalParseErrors(t *testing.T) {
	body := buildZip(t, map[string][]byte{
		"bad.ics": ics("BEGIN:VCALENDAR", "VERSION:1.0", "END:VCALENDAR"),
	}, []string{"bad.ics"})

	if _, err := testParser().ParseArchive(body); err == nil {
		t.Error("expected the entry's fatal parse error to abort the archive")
	}
}

func TestIsArchiveRejectsPlainText(t *testing.T) {
	if IsArchive(minimalCalendar("Alice")) {
		t.Error("an iCalendar stream is not an archive")
	}
}
