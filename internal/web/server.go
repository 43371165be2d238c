package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"sourcery/internal/metrics"
	"sourcery/internal/model"
	"sourcery/internal/pipeline"
)

var log = logrus.WithField("component", "web")

type server struct {
	panes *pipeline.Registry
}

// NewHandler returns the HTTP API over the panes in reg.
func NewHandler(reg *pipeline.Registry, m *metrics.Metrics) http.Handler {
	s := &server{panes: reg}
	mux := http.NewServeMux()

	// API Endpoints
	mux.HandleFunc("/api/panes", s.handlePanes)
	mux.HandleFunc("/api/attach", s.handleAttach)
	mux.HandleFunc("/api/detach", s.handleDetach)
	mux.HandleFunc("/api/navigate", s.handleNavigate)
	mux.HandleFunc("/api/current", s.handleCurrent)
	mux.HandleFunc("/api/substitutions", s.handleSubstitutions)
	mux.HandleFunc("/api/sync", s.handleSync)
	mux.HandleFunc("/api/line-context", handleLineContext)
	if m != nil {
		mux.Handle("/metrics", m.Handler())
	}
	return mux
}

// StartServer serves the API on addr until the listener fails.
func StartServer(addr string, reg *pipeline.Registry, m *metrics.Metrics) error {
	fmt.Printf("Starting sourcery web server at http://%s\n", addr)
	log.WithField("addr", addr).Info("listening")
	return http.ListenAndServe(addr, NewHandler(reg, m))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("encoding response")
	}
}

func paneName(r *http.Request) string {
	if name := r.URL.Query().Get("pane"); name != "" {
		return name
	}
	return pipeline.DefaultPane
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// lookupPane returns the pane named in r. Read-only requests never create
// a pane; an unknown name is a 404.
func (s *server) lookupPane(w http.ResponseWriter, r *http.Request) (*pipeline.Pane, bool) {
	if r.Method == http.MethodPost {
		return s.panes.Open(paneName(r)), true
	}
	p, ok := s.panes.Get(paneName(r))
	if !ok {
		http.Error(w, "unknown pane", http.StatusNotFound)
	}
	return p, ok
}

func (s *server) handlePanes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.panes.Names())
}

func (s *server) handleAttach(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	module := r.FormValue("module")
	if module == "" {
		http.Error(w, "module is required", http.StatusBadRequest)
		return
	}
	p := s.panes.Open(paneName(r))
	p.Attach(module)
	writeJSON(w, map[string]string{"pane": p.Name(), "module": module})
}

func (s *server) handleDetach(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	if p, ok := s.panes.Get(paneName(r)); ok {
		p.Detach()
	}
	w.WriteHeader(http.StatusNoContent)
}

type navigateResponse struct {
	Updated bool          `json:"updated"`
	Display model.Display `json:"display"`
}

func (s *server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	offsetStr := r.FormValue("offset")
	if offsetStr == "" {
		http.Error(w, "offset is required", http.StatusBadRequest)
		return
	}
	offset, err := strconv.ParseUint(offsetStr, 0, 64)
	if err != nil {
		http.Error(w, "invalid offset", http.StatusBadRequest)
		return
	}
	p, ok := s.panes.Get(paneName(r))
	if !ok {
		http.Error(w, "no module attached", http.StatusConflict)
		return
	}

	d, updated := p.Navigate(offset)
	writeJSON(w, navigateResponse{Updated: updated, Display: d})
}

func (s *server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	p, ok := s.panes.Get(paneName(r))
	if !ok {
		http.Error(w, "unknown pane", http.StatusNotFound)
		return
	}
	writeJSON(w, p.Current())
}

type substitutionsResponse struct {
	Change string                   `json:"change,omitempty"`
	Rules  []model.SubstitutionRule `json:"rules"`
}

func (s *server) handleSubstitutions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	p, ok := s.lookupPane(w, r)
	if !ok {
		return
	}

	if r.Method == http.MethodGet {
		writeJSON(w, substitutionsResponse{Rules: p.Rules()})
		return
	}

	change, err := p.AddRule(r.FormValue("original"), r.FormValue("local"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, substitutionsResponse{Change: change.String(), Rules: p.Rules()})
}

// handleSync reports the sync flag on GET. POST sets it from "enabled", or
// toggles it when "enabled" is absent.
func (s *server) handleSync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	p, ok := s.lookupPane(w, r)
	if !ok {
		return
	}

	if r.Method == http.MethodPost {
		if v := r.FormValue("enabled"); v != "" {
			enabled, err := strconv.ParseBool(v)
			if err != nil {
				http.Error(w, "invalid enabled value", http.StatusBadRequest)
				return
			}
			p.SetSync(enabled)
		} else {
			p.ToggleSync()
		}
	}
	writeJSON(w, map[string]bool{"enabled": p.SyncEnabled()})
}

func handleLineContext(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	lineNumStr := r.URL.Query().Get("line")
	if path == "" || lineNumStr == "" {
		http.Error(w, "path and line are required", http.StatusBadRequest)
		return
	}

	lineNum, err := strconv.Atoi(lineNumStr)
	if err != nil {
		http.Error(w, "invalid line number", http.StatusBadRequest)
		return
	}

	writeJSON(w, model.GetLineContext(path, lineNum))
}
