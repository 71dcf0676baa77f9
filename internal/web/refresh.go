package web

import (
	"context"

	appLog "github.com/DTU-gruppe-12-24/62550-CalendarApp/internal/log"
	"github.com/DTU-gruppe-12-24/62550-CalendarApp/internal/model"
)

// RefreshSubscriptions re-imports every configured subscription URL and
// folds the result back into its group: an existing calendar with a
// matching name keeps its identity and color and gets its event list
// replaced; new calendars are appended. Individual failures are logged
// and do not stop the remaining subscriptions.
func (s *Server) RefreshSubscriptions(ctx context.Context) {
	for _, sub := range s.cfg.Subscriptions {
		if sub.URL == "" || sub.Group == "" {
			continue
		}

		calendars, err := s.fetcher.Import(ctx, sub.URL)
		if err != nil {
			appLog.Error("subscription refresh failed", err, "group", sub.Group)
			continue
		}
		if sub.Name != "" && len(calendars) == 1 {
			calendars[0].Name = sub.Name
		}

		s.mu.Lock()
		group := s.findGroup(sub.Group)
		if group == nil {
			group = &model.Group{Name: sub.Group}
			s.groups = append(s.groups, group)
		}
		for _, cal := range calendars {
			if existing := findByName(group, cal.Name); existing != nil {
				existing.Dates = cal.Dates
			} else {
				group.Calendars = append(group.Calendars, cal)
			}
		}
		s.persistLocked()
		s.mu.Unlock()

		appLog.Info("subscription refreshed", "group", sub.Group, "calendars", len(calendars))
	}
}

func findByName(group *model.Group, name string) *model.Calendar {
	for _, cal := range group.Calendars {
		if cal.Name == name {
			return cal
		}
	}
	return nil
}
