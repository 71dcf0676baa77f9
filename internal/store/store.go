package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/DTU-gruppe-12-24/62550-CalendarApp/internal/model"
)

// Store persists the user's group list as a single JSON blob. The byte
// format is private to this application; only the logical shape (groups ->
// calendars -> events) must round-trip.
type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

type eventRecord struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type calendarRecord struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Color  model.Color   `json:"color"`
	Events []eventRecord `json:"events"`
}

type groupRecord struct {
	Name      string           `json:"name"`
	Calendars []calendarRecord `json:"calendars"`
}

// Load reads the group list from disk. A missing file is an empty list,
// not an error.
func (s *Store) Load() ([]*model.Group, error) {
	if s.path == "" {
		return nil, errors.New("store path is empty")
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []*model.Group{}, nil
		}
		return nil, err
	}

	var records []groupRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}

	groups := make([]*model.Group, 0, len(records))
	for _, gr := range records {
		group := &model.Group{Name: gr.Name}
		for _, cr := range gr.Calendars {
			cal := &model.Calendar{
				ID:    cr.ID,
				Name:  cr.Name,
				Color: cr.Color,
				Dates: make([]model.Event, 0, len(cr.Events)),
			}
			// Files written before calendar IDs existed get fresh ones.
			if cal.ID == "" {
				cal.ID = uuid.NewString()
			}
			for _, er := range cr.Events {
				cal.Dates = append(cal.Dates, model.Event{Start: er.Start, End: er.End})
			}
			group.Calendars = append(group.Calendars, cal)
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// Save writes the group list atomically via a temp file + rename with
// 0600 permissions.
func (s *Store) Save(groups []*model.Group) error {
	if s.path == "" {
		return errors.New("store path is empty")
	}

	records := make([]groupRecord, 0, len(groups))
	for _, g := range groups {
		gr := groupRecord{Name: g.Name, Calendars: make([]calendarRecord, 0, len(g.Calendars))}
		for _, cal := range g.Calendars {
			cr := calendarRecord{
				ID:     cal.ID,
				Name:   cal.Name,
				Color:  cal.Color,
				Events: make([]eventRecord, 0, len(cal.Dates)),
			}
			for _, ev := range cal.Dates {
				cr.Events = append(cr.Events, eventRecord{Start: ev.Start, End: ev.End})
			}
			gr.Calendars = append(gr.Calendars, cr)
		}
		records = append(records, gr)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".groups-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, s.path)
}
