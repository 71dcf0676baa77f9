package web

import (
	"crypto/subtle"
	"net/http"
	"os"
	"sync"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/DTU-gruppe-12-24/62550-CalendarApp/internal/config"
	"github.com/DTU-gruppe-12-24/62550-CalendarApp/internal/filter"
	"github.com/DTU-gruppe-12-24/62550-CalendarApp/internal/ical"
	appLog "github.com/DTU-gruppe-12-24/62550-CalendarApp/internal/log"
	"github.com/DTU-gruppe-12-24/62550-CalendarApp/internal/model"
	"github.com/DTU-gruppe-12-24/62550-CalendarApp/internal/store"
)

// Server exposes the group/availability API over HTTP. Group state lives
// in memory behind a mutex and is persisted through the store on every
// mutation; the availability engine itself is stateless.
type Server struct {
	cfg     *config.Config
	store   *store.Store
	fetcher *ical.Fetcher
	engine  filter.Engine
	router  *mux.Router

	mu     sync.RWMutex
	groups []*model.Group
}

// NewServer constructs a Server and loads the persisted group list.
func NewServer(cfg *config.Config, st *store.Store, fetcher *ical.Fetcher) (*Server, error) {
	groups, err := st.Load()
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:     cfg,
		store:   st,
		fetcher: fetcher,
		router:  mux.NewRouter(),
		groups:  groups,
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/api/groups", s.handleListGroups).Methods("GET")
	s.router.HandleFunc("/api/groups", s.handleCreateGroup).Methods("POST")
	s.router.HandleFunc("/api/groups/{name}/import", s.handleImport).Methods("POST")
	s.router.HandleFunc("/api/availability", s.handleAvailability).Methods("POST")
	s.router.HandleFunc("/api/slots", s.handleSlots).Methods("POST")
}

// Handler returns the server's http.Handler with logging, panic recovery
// and (if configured) basic auth applied.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.router)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		h = s.basicAuthMiddleware(h)
	}
	h = handlers.LoggingHandler(os.Stderr, h)
	return handlers.RecoveryHandler()(h)
}

func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic
// Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="GroupCal", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// Persist writes the current group list through the store. Callers must
// hold at least a read lock.
func (s *Server) persistLocked() {
	if err := s.store.Save(s.groups); err != nil {
		appLog.Error("failed to persist groups", err)
	}
}

// Shutdown persists the in-memory state one last time.
func (s *Server) Shutdown() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.persistLocked()
}

func (s *Server) findGroup(name string) *model.Group {
	for _, g := range s.groups {
		if g.Name == name {
			return g
		}
	}
	return nil
}
