package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/pediforte/registry/internal/application/command"
	"github.com/pediforte/registry/internal/application/query"
	"github.com/pediforte/registry/internal/domain/shared"
	"github.com/pediforte/registry/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ROUTING
// ══════════════════════════════════════════════════════════════════════════════

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// ─────────────────────────────────────────────────────────────────────────
	// Health & Status Endpoints
	// ─────────────────────────────────────────────────────────────────────────
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /healthz", s.handleHealth) // Kubernetes alias
	s.router.HandleFunc("GET /ready", s.handleReady)

	// ─────────────────────────────────────────────────────────────────────────
	// API v1 - Public Endpoints
	// ─────────────────────────────────────────────────────────────────────────
	s.router.HandleFunc("GET /api/v1/rules", s.handleGetRules)
	s.router.HandleFunc("POST /api/v1/students", s.handleRegisterStudent)
	s.router.HandleFunc("GET /api/v1/students/{id}", s.handleGetStudent)
	s.router.HandleFunc("POST /api/v1/students/{id}/agreement", s.handleRecordAgreement)

	// ─────────────────────────────────────────────────────────────────────────
	// API v1 - Admin Endpoints (session-gated)
	// ─────────────────────────────────────────────────────────────────────────
	s.router.HandleFunc("POST /api/v1/admin/register", s.handleAdminRegister)
	s.router.HandleFunc("POST /api/v1/admin/login", s.handleAdminLogin)
	s.router.HandleFunc("POST /api/v1/admin/logout", s.handleAdminLogout)

	s.router.HandleFunc("GET /api/v1/admin/rules", s.adminOnly(s.handleListRuleVersions))
	s.router.HandleFunc("POST /api/v1/admin/rules", s.adminOnly(s.handlePublishRules))
	s.router.HandleFunc("PUT /api/v1/admin/rules", s.adminOnly(s.handleUpdateRules))
	s.router.HandleFunc("GET /api/v1/admin/rules-analytics", s.adminOnly(s.handleRulesAnalytics))
	s.router.HandleFunc("GET /api/v1/students/{id}/agreement", s.adminOnly(s.handleGetAgreementHistory))
}

// ══════════════════════════════════════════════════════════════════════════════
// ERROR MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// writeDomainError maps domain errors to HTTP status codes.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case shared.IsValidation(err):
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
	case shared.IsUnauthorized(err):
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", err.Error())
	case shared.IsNotFound(err):
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())
	case shared.IsAlreadyExists(err):
		writeJSONError(w, http.StatusConflict, "already_exists", err.Error())
	case shared.IsConflict(err):
		writeJSONError(w, http.StatusConflict, "conflict", err.Error())
	default:
		s.logger.Error("request failed",
			logger.Err(err),
			logger.String("path", r.URL.Path),
			logger.String("request_id", getRequestID(r.Context())),
		)
		writeJSONError(w, http.StatusInternalServerError, "internal_server_error", "An unexpected error occurred")
	}
}

// decodeJSON reads a JSON request body into dst.
func decodeJSON(r *http.Request, dst interface{}) error {
	defer func() { _, _ = io.Copy(io.Discard, r.Body) }()
	return json.NewDecoder(r.Body).Decode(dst)
}

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"uptime": s.Uptime().String(),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	for _, c := range s.deps.Checkers {
		if c == nil {
			continue
		}
		if err := c.Ping(r.Context()); err != nil {
			writeJSONError(w, http.StatusServiceUnavailable, "not_ready", err.Error())
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// ══════════════════════════════════════════════════════════════════════════════
// PUBLIC HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetRules returns the active rules document. Never 404s: before
// anything is published an empty default with version "1.0" comes back.
func (s *Server) handleGetRules(w http.ResponseWriter, r *http.Request) {
	doc, err := s.deps.GetActiveRules.Handle(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

type registerStudentRequest struct {
	Surname     string `json:"surname"`
	GivenName   string `json:"given_name"`
	OtherNames  string `json:"other_names"`
	HomeAddress string `json:"home_address"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
	DateOfBirth string `json:"date_of_birth"`
	Gender      string `json:"gender"`
}

func (s *Server) handleRegisterStudent(w http.ResponseWriter, r *http.Request) {
	var req registerStudentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_json", "Request body must be valid JSON")
		return
	}

	st, err := s.deps.RegisterStudent.Handle(r.Context(), command.RegisterStudentCommand{
		Surname:     req.Surname,
		GivenName:   req.GivenName,
		OtherNames:  req.OtherNames,
		HomeAddress: req.HomeAddress,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		DateOfBirth: req.DateOfBirth,
		Gender:      req.Gender,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, query.NewStudentDTO(st))
}

func (s *Server) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	dto, err := s.deps.GetStudent.Handle(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

type recordAgreementRequest struct {
	Agreed bool `json:"agreed"`
}

type recordAgreementResponse struct {
	Agreement     query.AgreementDTO `json:"agreement"`
	AlreadyAgreed bool               `json:"already_agreed"`
}

// handleRecordAgreement records the student's agreement with the active
// rules version. Replays return 200 with the original record; only the
// first call returns 201.
func (s *Server) handleRecordAgreement(w http.ResponseWriter, r *http.Request) {
	var req recordAgreementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_json", "Request body must be valid JSON")
		return
	}

	result, err := s.deps.RecordAgreement.Handle(r.Context(), command.RecordAgreementCommand{
		StudentID: r.PathValue("id"),
		Agreed:    req.Agreed,
		Origin: command.RequestOrigin{
			IPAddress: getClientIP(r),
			UserAgent: r.UserAgent(),
		},
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	status := http.StatusCreated
	if result.AlreadyAgreed {
		status = http.StatusOK
	}
	writeJSON(w, status, recordAgreementResponse{
		Agreement:     agreementDTO(result),
		AlreadyAgreed: result.AlreadyAgreed,
	})
}

func agreementDTO(result *command.RecordAgreementResult) query.AgreementDTO {
	a := result.Agreement
	return query.AgreementDTO{
		ID:           a.ID,
		StudentID:    a.StudentID,
		RulesID:      a.RulesID,
		RulesVersion: a.RulesVersion,
		AgreedAt:     a.AgreedAt,
		IPAddress:    a.IPAddress,
		UserAgent:    a.UserAgent,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ADMIN AUTH HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type adminRegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleAdminRegister(w http.ResponseWriter, r *http.Request) {
	var req adminRegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_json", "Request body must be valid JSON")
		return
	}

	a, err := s.deps.RegisterAdmin.Handle(r.Context(), command.RegisterAdminCommand{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"id":       a.ID,
		"username": a.Username,
		"email":    a.Email,
	})
}

type adminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_json", "Request body must be valid JSON")
		return
	}

	result, err := s.deps.Login.Handle(r.Context(), command.LoginCommand{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"session_id": result.Token,
		"admin_id":   result.Admin.ID,
		"username":   result.Admin.Username,
	})
}

func (s *Server) handleAdminLogout(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get(s.config.SessionHeader)
	if err := s.deps.Logout.Handle(r.Context(), token); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// ══════════════════════════════════════════════════════════════════════════════
// ADMIN RULES HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleListRuleVersions(w http.ResponseWriter, r *http.Request) {
	versions, err := s.deps.ListRuleVersions.Handle(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, versions)
}

type rulesRequest struct {
	Content string `json:"content"`
	Version string `json:"version"`
}

func (s *Server) handlePublishRules(w http.ResponseWriter, r *http.Request) {
	var req rulesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_json", "Request body must be valid JSON")
		return
	}

	doc, err := s.deps.PublishRules.Handle(r.Context(), command.PublishRulesCommand{
		Content: req.Content,
		Version: req.Version,
		AdminID: getAdminID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"id":      doc.ID,
		"version": doc.Version,
	})
}

func (s *Server) handleUpdateRules(w http.ResponseWriter, r *http.Request) {
	var req rulesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_json", "Request body must be valid JSON")
		return
	}

	result, err := s.deps.UpdateRules.Handle(r.Context(), command.UpdateRulesCommand{
		Content: req.Content,
		Version: req.Version,
		AdminID: getAdminID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	status := http.StatusOK
	if result.Published {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]interface{}{
		"id":        result.Document.ID,
		"version":   result.Document.Version,
		"published": result.Published,
	})
}

func (s *Server) handleRulesAnalytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := s.deps.RulesAnalytics.Handle(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics)
}

func (s *Server) handleGetAgreementHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.deps.GetAgreementHistory.Handle(r.Context(), query.GetAgreementHistoryQuery{
		StudentID: r.PathValue("id"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}
