package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tgsilent/silentdelete/internal/biz/domain"
	"github.com/tgsilent/silentdelete/internal/biz/repo"
	"github.com/tgsilent/silentdelete/internal/biz/usecase"
)

// Server exposes the HTTP control surface: login flow, rule management, the
// deletion toggle, history, and health.
type Server struct {
	login   *usecase.LoginUsecase
	rules   *usecase.RuleUsecase
	engine  *usecase.EngineUsecase
	history repo.HistoryRepo
	log     *slog.Logger

	addr   string
	server *http.Server
}

// NewServer creates the control surface server.
func NewServer(
	login *usecase.LoginUsecase,
	rules *usecase.RuleUsecase,
	engine *usecase.EngineUsecase,
	history repo.HistoryRepo,
	addr string,
	log *slog.Logger,
) *Server {
	return &Server{
		login:   login,
		rules:   rules,
		engine:  engine,
		history: history,
		addr:    addr,
		log:     log.With("component", "api"),
	}
}

// Router builds the route table. Split out from Start for tests.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/login/start/{api_id}/{api_hash}/{phone}", s.handleLoginStart)
	r.Get("/login/otp/{otp}", s.handleLoginOTP)
	r.Get("/login/password/{password}", s.handleLoginPassword)

	r.Get("/add/{text}", s.handleAddRule)
	r.Get("/remove/{text}", s.handleRemoveRule)
	r.Get("/rules", s.handleListRules)

	r.Get("/start", s.handleStartDelete)
	r.Get("/stop", s.handleStopDelete)

	r.Get("/history", s.handleHistory)
	r.Get("/health", s.handleHealth)

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:    s.addr,
		Handler: s.Router(),
	}
	s.log.Info("control surface listening", "addr", s.addr)
	return s.server.ListenAndServe()
}

// Stop shuts the HTTP server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// ============ Login Handlers ============

func (s *Server) handleLoginStart(w http.ResponseWriter, r *http.Request) {
	apiID, err := strconv.Atoi(chi.URLParam(r, "api_id"))
	if err != nil {
		s.writeJSONStatus(w, http.StatusBadRequest, map[string]string{"error": "invalid_api_id"})
		return
	}
	apiHash := chi.URLParam(r, "api_hash")
	phone := pathParam(r, "phone")

	result, err := s.login.Start(r.Context(), apiID, apiHash, phone)
	switch {
	case errors.Is(err, domain.ErrLoginInProgress):
		s.writeJSON(w, map[string]string{"error": "login_in_progress"})
	case err != nil:
		s.writeError(w, err)
	case result == domain.StartAlreadyLoggedIn:
		s.writeJSON(w, map[string]string{"status": "already_logged_in"})
	default:
		s.writeJSON(w, map[string]string{"status": "otp_sent"})
	}
}

func (s *Server) handleLoginOTP(w http.ResponseWriter, r *http.Request) {
	err := s.login.SubmitCode(r.Context(), chi.URLParam(r, "otp"))
	switch {
	case err == nil:
		s.writeJSON(w, map[string]string{"status": "login_success"})
	case errors.Is(err, domain.ErrInvalidCode):
		s.writeJSON(w, map[string]string{"error": "invalid_otp"})
	case errors.Is(err, domain.ErrPasswordNeeded):
		s.writeJSON(w, map[string]string{"status": "password_required"})
	case errors.Is(err, domain.ErrNoSession):
		s.writeJSON(w, map[string]string{"error": "no_session_active"})
	default:
		s.writeError(w, err)
	}
}

func (s *Server) handleLoginPassword(w http.ResponseWriter, r *http.Request) {
	err := s.login.SubmitPassword(r.Context(), pathParam(r, "password"))
	switch {
	case err == nil:
		s.writeJSON(w, map[string]string{"status": "login_success"})
	case errors.Is(err, domain.ErrNoSession):
		s.writeJSON(w, map[string]string{"error": "no_session_active"})
	default:
		// Surfaced verbatim; the caller may retry with another password.
		s.writeJSON(w, map[string]string{"error": err.Error()})
	}
}

// ============ Rule Handlers ============

func (s *Server) handleAddRule(w http.ResponseWriter, r *http.Request) {
	text := pathParam(r, "text")
	delay := r.URL.Query().Get("delay")
	if delay == "" {
		delay = "0"
	}

	rule, err := s.rules.Add(r.Context(), text, delay)
	if errors.Is(err, domain.ErrInvalidDelay) {
		s.writeJSONStatus(w, http.StatusBadRequest, map[string]string{"error": "invalid_delay"})
		return
	}
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, map[string]interface{}{
		"status": "rule_added",
		"text":   rule.Trigger,
		"delay":  rule.Delay,
	})
}

func (s *Server) handleRemoveRule(w http.ResponseWriter, r *http.Request) {
	text := pathParam(r, "text")

	err := s.rules.Remove(r.Context(), text)
	if errors.Is(err, domain.ErrRuleNotFound) {
		s.writeJSONStatus(w, http.StatusNotFound, map[string]string{"error": "rule_not_found"})
		return
	}
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, map[string]string{
		"status": "rule_removed",
		"text":   text,
	})
}

func (s *Server) handleListRules(w http.ResponseWriter, r *http.Request) {
	mapping, err := s.ruleMapping(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, mapping)
}

// ============ Toggle Handlers ============

func (s *Server) handleStartDelete(w http.ResponseWriter, r *http.Request) {
	enabled := s.engine.SetEnabled(true)
	s.writeJSON(w, map[string]interface{}{
		"status":         "started",
		"delete_enabled": enabled,
	})
}

func (s *Server) handleStopDelete(w http.ResponseWriter, r *http.Request) {
	enabled := s.engine.SetEnabled(false)
	s.writeJSON(w, map[string]interface{}{
		"status":         "stopped",
		"delete_enabled": enabled,
	})
}

// ============ History / Health ============

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := s.history.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	// Newest first.
	data := make([]domain.HistoryEntry, len(entries))
	for i, e := range entries {
		data[len(entries)-1-i] = e
	}

	s.writeJSON(w, map[string]interface{}{
		"total": len(data),
		"data":  data,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	mapping, err := s.ruleMapping(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	count, err := s.history.Count(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, map[string]interface{}{
		"authorized":     s.login.Authorized(r.Context()),
		"delete_enabled": s.engine.Enabled(),
		"rules":          mapping,
		"logs":           count,
		"time":           time.Now().Format(time.RFC3339),
	})
}

// ============ Helpers ============

func (s *Server) ruleMapping(ctx context.Context) (map[string]float64, error) {
	rules, err := s.rules.List(ctx)
	if err != nil {
		return nil, err
	}
	mapping := make(map[string]float64, len(rules))
	for _, r := range rules {
		mapping[r.Trigger] = r.Delay
	}
	return mapping, nil
}

// pathParam returns a URL parameter with percent-encoding undone, so
// triggers and phone numbers with spaces or plus signs survive the path.
func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func (s *Server) writeJSONStatus(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	s.log.Error("request failed", "error", err)
	s.writeJSONStatus(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}
