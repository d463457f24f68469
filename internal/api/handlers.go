// Package api exposes HTTP handlers for controlling a running session.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"example.com/balancetrainer/internal/auth"
	"example.com/balancetrainer/internal/domain"
	"example.com/balancetrainer/internal/journal"
	"example.com/balancetrainer/internal/presentation"
	"example.com/balancetrainer/internal/session"
)

// Session is the part of a session runner the API drives.
type Session interface {
	Push(ev session.Event)
	Snapshot() session.Snapshot
	Configs() []domain.ExerciseConfig
}

// Viewer reports what the subject currently sees.
type Viewer interface {
	View() presentation.View
}

// JournalReader lists recorded journal entries.
type JournalReader interface {
	Entries() []journal.Entry
}

// Option configures a Handler.
type Option func(*Handler)

// WithJournal exposes journal entries on GET /v1/session/journal.
func WithJournal(j JournalReader) Option {
	return func(h *Handler) { h.journal = j }
}

// Handler handles HTTP interactions.
type Handler struct {
	session Session
	viewer  Viewer
	journal JournalReader
	now     func() time.Time
}

// NewHandler constructs Handler. viewer may be nil.
func NewHandler(s Session, viewer Viewer, opts ...Option) *Handler {
	h := &Handler{session: s, viewer: viewer, now: time.Now}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes sets up routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/v1/session", auth.RequireScope(auth.ScopeSessionRead, h.status))
	mux.Handle("/v1/session/journal", auth.RequireScope(auth.ScopeSessionRead, h.journalEntries))
	mux.Handle("/v1/session/restart", auth.RequireScope(auth.ScopeSessionControl, h.restart))
	mux.Handle("/v1/session/preparation", auth.RequireScope(auth.ScopeSessionControl, h.preparation))
	mux.Handle("/v1/session/feedback", auth.RequireScope(auth.ScopeSessionControl, h.feedback))
	mux.HandleFunc("/v1/configs", h.configs)
	mux.HandleFunc("/healthz", healthz)
}

// healthz returns an OK response for health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// StatusResponse is returned by GET /v1/session.
type StatusResponse struct {
	Session session.Snapshot   `json:"session"`
	View    *presentation.View `json:"view,omitempty"`
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	resp := StatusResponse{Session: h.session.Snapshot()}
	if h.viewer != nil {
		view := h.viewer.View()
		resp.View = &view
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) journalEntries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	if h.journal == nil {
		writeError(w, http.StatusNotFound, "not_found", "journal not available")
		return
	}
	entries := h.journal.Entries()
	if entries == nil {
		entries = []journal.Entry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": entries})
}

func (h *Handler) configs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if _, err := auth.Authorize(r.Context(), auth.ScopeSessionRead); err != nil {
			auth.WriteError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": h.session.Configs()})
	case http.MethodPost:
		h.submitConfig(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) submitConfig(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.Authorize(r.Context(), auth.ScopeSessionControl); err != nil {
		auth.WriteError(w, err)
		return
	}

	var cfg domain.ExerciseConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	h.session.Push(session.ConfigArrived{Config: cfg, ReceivedAt: h.now()})
	writeJSON(w, http.StatusAccepted, map[string]any{"id": cfg.ID})
}

// FeedbackRequest represents a posture zone report.
type FeedbackRequest struct {
	Zone int    `json:"zone"`
	Foot string `json:"foot"`
}

// Validate ensures request integrity.
func (r FeedbackRequest) Validate() error {
	if r.Foot == "" {
		return errors.New("foot is required")
	}
	return nil
}

func (h *Handler) feedback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	h.session.Push(session.ZoneReported{Zone: domain.ZoneCode(req.Zone), Foot: domain.ParseFoot(req.Foot)})
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) restart(w http.ResponseWriter, r *http.Request) {
	h.control(w, r, session.RestartRequested{})
}

func (h *Handler) preparation(w http.ResponseWriter, r *http.Request) {
	h.control(w, r, session.PreparationConfirmed{})
}

func (h *Handler) control(w http.ResponseWriter, r *http.Request, ev session.Event) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	h.session.Push(ev)
	w.WriteHeader(http.StatusAccepted)
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	writeJSON(w, status, map[string]string{"type": code, "detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
