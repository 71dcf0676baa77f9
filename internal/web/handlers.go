package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/DTU-gruppe-12-24/62550-CalendarApp/internal/filter"
	appLog "github.com/DTU-gruppe-12-24/62550-CalendarApp/internal/log"
	"github.com/DTU-gruppe-12-24/62550-CalendarApp/internal/model"
)

const dateLayout = "2006-01-02"

// queryPayload is the wire form of a filter query. Weekdays use Go's
// numbering (0 = Sunday).
type queryPayload struct {
	Required           []string           `json:"required"`
	Optional           []string           `json:"optional"`
	Weekdays           []int              `json:"weekdays"`
	Window             *model.MinuteRange `json:"window"`
	MinDurationMinutes *int               `json:"min_duration_minutes"`
}

func (p queryPayload) toQuery(totalParticipants int) filter.Query {
	q := filter.Query{TotalParticipants: totalParticipants}
	if len(p.Required) > 0 {
		q.Required = make(map[string]struct{}, len(p.Required))
		for _, id := range p.Required {
			q.Required[id] = struct{}{}
		}
	}
	if len(p.Optional) > 0 {
		q.Optional = make(map[string]struct{}, len(p.Optional))
		for _, id := range p.Optional {
			q.Optional[id] = struct{}{}
		}
	}
	if len(p.Weekdays) > 0 {
		q.Weekdays = make(map[time.Weekday]struct{}, len(p.Weekdays))
		for _, d := range p.Weekdays {
			q.Weekdays[time.Weekday(d)] = struct{}{}
		}
	}
	q.Window = p.Window
	q.MinDurationMinutes = p.MinDurationMinutes
	return q
}

type calendarSummary struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Color  model.Color `json:"color"`
	Events int         `json:"events"`
}

type groupSummary struct {
	Name      string            `json:"name"`
	Calendars []calendarSummary `json:"calendars"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleListGroups(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]groupSummary, 0, len(s.groups))
	for _, g := range s.groups {
		gs := groupSummary{Name: g.Name, Calendars: make([]calendarSummary, 0, len(g.Calendars))}
		for _, cal := range g.Calendars {
			gs.Calendars = append(gs.Calendars, calendarSummary{
				ID:     cal.ID,
				Name:   cal.Name,
				Color:  cal.Color,
				Events: len(cal.Dates),
			})
		}
		out = append(out, gs)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		http.Error(w, "a group name is required", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findGroup(req.Name) != nil {
		http.Error(w, "group already exists", http.StatusConflict)
		return
	}
	s.groups = append(s.groups, &model.Group{Name: req.Name})
	s.persistLocked()
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	groupName := mux.Vars(r)["name"]

	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		http.Error(w, "a calendar URL is required", http.StatusBadRequest)
		return
	}

	calendars, err := s.fetcher.Import(r.Context(), req.URL)
	if err != nil {
		appLog.Error("calendar import failed", err, "group", groupName)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	group := s.findGroup(groupName)
	if group == nil {
		http.Error(w, "group not found", http.StatusNotFound)
		return
	}
	group.Calendars = append(group.Calendars, calendars...)
	s.persistLocked()

	out := make([]calendarSummary, 0, len(calendars))
	for _, cal := range calendars {
		out = append(out, calendarSummary{ID: cal.ID, Name: cal.Name, Color: cal.Color, Events: len(cal.Dates)})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleAvailability renders the per-day availability map for one month,
// for calendar-grid rendering. An inactive query yields an empty map,
// matching the grid's "no filters, nothing to highlight" behavior.
func (s *Server) handleAvailability(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Group string       `json:"group"`
		Year  int          `json:"year"`
		Month int          `json:"month"`
		Query queryPayload `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Month < 1 || req.Month > 12 {
		http.Error(w, "month must be 1-12", http.StatusBadRequest)
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	group := s.findGroup(req.Group)
	if group == nil {
		http.Error(w, "group not found", http.StatusNotFound)
		return
	}

	query := req.Query.toQuery(len(group.Calendars))
	out := map[string]bool{}
	if query.IsActive() {
		first := time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, time.Local)
		for day := first; day.Month() == first.Month(); day = day.AddDate(0, 0, 1) {
			out[day.Format(dateLayout)] = s.engine.IsDayAvailable(group.Calendars, day, query)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSlots(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Group string       `json:"group"`
		From  string       `json:"from"`
		Limit int          `json:"limit"`
		Query queryPayload `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	from := time.Now()
	if req.From != "" {
		t, err := time.ParseInLocation(dateLayout, req.From, time.Local)
		if err != nil {
			http.Error(w, "from must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		from = t
	}
	if req.Limit <= 0 {
		req.Limit = 5
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	group := s.findGroup(req.Group)
	if group == nil {
		http.Error(w, "group not found", http.StatusNotFound)
		return
	}

	query := req.Query.toQuery(len(group.Calendars))
	slots := s.engine.FindNextSlots(group.Calendars, from, query, req.Limit)

	out := make([]string, 0, len(slots))
	for _, slot := range slots {
		out = append(out, slot.Format(time.RFC3339))
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to encode response", err)
	}
}
