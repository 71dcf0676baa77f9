package ical

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"

	appLog "github.com/DTU-gruppe-12-24/62550-CalendarApp/internal/log"
	"github.com/DTU-gruppe-12-24/62550-CalendarApp/internal/model"
)

// zipMagic is the local-file-header signature of a zip archive.
var zipMagic = []byte{'P', 'K', 0x03, 0x04}

// IsArchive reports whether the body looks like a zip archive.
func IsArchive(body []byte) bool {
	return bytes.HasPrefix(body, zipMagic)
}

// ParseArchive parses a zip archive whose entries are independent
// iCalendar streams, one calendar per file entry, in stored order.
// Directory entries are skipped. An empty archive yields an empty list.
func (p *Parser) ParseArchive(body []byte) ([]*model.Calendar, error) {
	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, fmt.Errorf("invalid archive: %w", err)
	}

	calendars := make([]*model.Calendar, 0, len(zr.File))
	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		appLog.Debug("parsing archive entry", "name", entry.Name)

		rc, err := entry.Open()
		if err != nil {
			return nil, fmt.Errorf("invalid archive entry %q: %w", entry.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("invalid archive entry %q: %w", entry.Name, err)
		}

		cal, err := p.ParseCalendar(data)
		if err != nil {
			return nil, err
		}
		calendars = append(calendars, cal)
	}

	return calendars, nil
}
