package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pediforte/registry/internal/application/command"
	"github.com/pediforte/registry/internal/application/query"
	"github.com/pediforte/registry/internal/domain/admin"
	"github.com/pediforte/registry/internal/domain/rules"
	"github.com/pediforte/registry/internal/domain/student"
	"github.com/pediforte/registry/internal/infrastructure/persistence/memory"
)

// In-memory document store backing the HTTP tests.
type memDocs struct {
	docs []*rules.Document
	seq  int64
}

func (m *memDocs) Publish(_ context.Context, doc *rules.Document) error {
	for _, d := range m.docs {
		d.Active = false
	}
	m.docs = append(m.docs, doc)
	return nil
}

func (m *memDocs) Update(_ context.Context, doc *rules.Document) error {
	for i, d := range m.docs {
		if d.ID == doc.ID {
			m.docs[i] = doc
			return nil
		}
	}
	return rules.ErrDocumentNotFound
}

func (m *memDocs) GetActive(context.Context) (*rules.Document, error) {
	for _, d := range m.docs {
		if d.Active {
			return d, nil
		}
	}
	return nil, rules.ErrNoActiveDocument
}

func (m *memDocs) GetByID(_ context.Context, id string) (*rules.Document, error) {
	for _, d := range m.docs {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, rules.ErrDocumentNotFound
}

func (m *memDocs) List(context.Context) ([]*rules.Document, error) { return m.docs, nil }

func (m *memDocs) NextVersionNumber(context.Context) (int64, error) {
	m.seq++
	return m.seq, nil
}

type memAgreements struct {
	list     []*rules.Agreement
	students *memStudents
}

func (m *memAgreements) Record(_ context.Context, ag *rules.Agreement) error {
	for _, a := range m.list {
		if a.StudentID == ag.StudentID && a.RulesID == ag.RulesID {
			return rules.ErrAlreadyAgreed
		}
	}
	m.list = append(m.list, ag)
	if s, ok := m.students.byID[ag.StudentID]; ok {
		s.TermsAgreed = true
		at := ag.AgreedAt
		s.TermsAgreedAt = &at
	}
	return nil
}

func (m *memAgreements) GetByStudentAndRules(_ context.Context, studentID, rulesID string) (*rules.Agreement, error) {
	for _, a := range m.list {
		if a.StudentID == studentID && a.RulesID == rulesID {
			return a, nil
		}
	}
	return nil, rules.ErrAgreementNotFound
}

func (m *memAgreements) ListByStudent(_ context.Context, studentID string) ([]*rules.Agreement, error) {
	var out []*rules.Agreement
	for _, a := range m.list {
		if a.StudentID == studentID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memAgreements) CountByRules(_ context.Context, rulesID string) (int, error) {
	count := 0
	for _, a := range m.list {
		if a.RulesID == rulesID {
			count++
		}
	}
	return count, nil
}

type memStudents struct {
	byID map[string]*student.Student
}

func (m *memStudents) Create(_ context.Context, s *student.Student) error {
	for _, existing := range m.byID {
		if existing.Email == s.Email {
			return student.ErrAlreadyRegistered
		}
	}
	m.byID[s.ID] = s
	return nil
}

func (m *memStudents) GetByID(_ context.Context, id string) (*student.Student, error) {
	if s, ok := m.byID[id]; ok {
		return s, nil
	}
	return nil, student.ErrStudentNotFound
}

func (m *memStudents) Count(context.Context) (int, error) { return len(m.byID), nil }

func (m *memStudents) CountAgreed(context.Context) (int, error) {
	count := 0
	for _, s := range m.byID {
		if s.TermsAgreed {
			count++
		}
	}
	return count, nil
}

type memAdmins struct {
	byID map[string]*admin.Admin
}

func newMemAdmins() *memAdmins {
	return &memAdmins{byID: make(map[string]*admin.Admin)}
}

func (m *memAdmins) Create(_ context.Context, a *admin.Admin) error {
	for _, existing := range m.byID {
		if existing.Username == a.Username || existing.Email == a.Email {
			return admin.ErrAdminAlreadyExists
		}
	}
	m.byID[a.ID] = a
	return nil
}

func (m *memAdmins) GetByID(_ context.Context, id string) (*admin.Admin, error) {
	if a, ok := m.byID[id]; ok {
		return a, nil
	}
	return nil, admin.ErrAdminNotFound
}

func (m *memAdmins) GetByUsername(_ context.Context, username string) (*admin.Admin, error) {
	for _, a := range m.byID {
		if a.Username == username {
			return a, nil
		}
	}
	return nil, admin.ErrAdminNotFound
}

func (m *memAdmins) Count(context.Context) (int, error) { return len(m.byID), nil }

// testServer wires a full server against in-memory stores and returns it
// with a logged-in admin session token.
func testServer(t *testing.T) (*Server, string, *memStudents) {
	t.Helper()

	students := &memStudents{byID: make(map[string]*student.Student)}
	docs := &memDocs{}
	agreements := &memAgreements{students: students}
	admins := newMemAdmins()
	sessions := memory.NewSessionStore()

	a, err := admin.NewAdmin("admin-1", "principal", "principal@school.local", "long enough pw")
	assert.NoError(t, err)
	assert.NoError(t, admins.Create(context.Background(), a))

	token, err := sessions.Create(context.Background(), a.ID, time.Minute)
	assert.NoError(t, err)

	publish := command.NewPublishRulesHandler(docs, admins, nil)
	deps := Dependencies{
		RegisterStudent: command.NewRegisterStudentHandler(students),
		RecordAgreement: command.NewRecordAgreementHandler(students, docs, agreements),
		PublishRules:    publish,
		UpdateRules:     command.NewUpdateRulesHandler(docs, publish, nil),
		RegisterAdmin:   command.NewRegisterAdminHandler(admins),
		Login:           command.NewLoginHandler(admins, sessions, time.Minute),
		Logout:          command.NewLogoutHandler(sessions),

		GetActiveRules:      query.NewGetActiveRulesHandler(docs, nil),
		ListRuleVersions:    query.NewListRuleVersionsHandler(docs),
		GetStudent:          query.NewGetStudentHandler(students),
		GetAgreementHistory: query.NewGetAgreementHistoryHandler(students, agreements),
		RulesAnalytics:      query.NewRulesAnalyticsHandler(students, docs, agreements),

		Sessions: sessions,
	}

	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 0

	return NewServer(cfg, deps), token, students
}

func doJSON(t *testing.T, s *Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		assert.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(s.config.SessionHeader, token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var resp struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Data
}

func TestHealthEndpoint(t *testing.T) {
	s, _, _ := testServer(t)

	rec := doJSON(t, s, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetRules_EmptyDefault(t *testing.T) {
	s, _, _ := testServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/v1/rules", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	data := decodeData(t, rec)
	assert.Equal(t, "", data["content"])
	assert.Equal(t, "1.0", data["version"])
}

func TestAdminRoutes_RequireSession(t *testing.T) {
	s, _, _ := testServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/admin/rules", "", map[string]string{"content": "text"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/v1/admin/rules", "bogus-token", map[string]string{"content": "text"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPublishAndGetRules(t *testing.T) {
	s, token, _ := testServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/admin/rules", token, map[string]string{"content": "Be kind."})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "v1.0", decodeData(t, rec)["version"])

	rec = doJSON(t, s, http.MethodGet, "/api/v1/rules", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	assert.Equal(t, "Be kind.", data["content"])
	assert.Equal(t, "v1.0", data["version"])
}

func TestAgreementFlow(t *testing.T) {
	s, token, _ := testServer(t)

	// Publish rules, register a student.
	rec := doJSON(t, s, http.MethodPost, "/api/v1/admin/rules", token, map[string]string{"content": "Be kind."})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/v1/students", "", map[string]string{
		"surname":    "Okafor",
		"given_name": "Chinedu",
		"email":      "chinedu@example.com",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
	studentID, _ := decodeData(t, rec)["id"].(string)
	assert.NotEmpty(t, studentID)

	// First agreement: 201.
	rec = doJSON(t, s, http.MethodPost, "/api/v1/students/"+studentID+"/agreement", "", map[string]bool{"agreed": true})
	assert.Equal(t, http.StatusCreated, rec.Code)

	// Replay: 200 and flagged as already agreed.
	rec = doJSON(t, s, http.MethodPost, "/api/v1/students/"+studentID+"/agreement", "", map[string]bool{"agreed": true})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeData(t, rec)["already_agreed"])

	// Refusing is a validation error.
	rec = doJSON(t, s, http.MethodPost, "/api/v1/students/"+studentID+"/agreement", "", map[string]bool{"agreed": false})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Audit trail is admin-only.
	rec = doJSON(t, s, http.MethodGet, "/api/v1/students/"+studentID+"/agreement", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/api/v1/students/"+studentID+"/agreement", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	history := decodeData(t, rec)
	assert.Equal(t, true, history["terms_agreed"])
}

func TestAgreement_NoActiveRules(t *testing.T) {
	s, _, _ := testServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/students", "", map[string]string{
		"surname":    "Okafor",
		"given_name": "Chinedu",
		"email":      "chinedu@example.com",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
	studentID, _ := decodeData(t, rec)["id"].(string)

	rec = doJSON(t, s, http.MethodPost, "/api/v1/students/"+studentID+"/agreement", "", map[string]bool{"agreed": true})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLoginLogout(t *testing.T) {
	s, _, _ := testServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/admin/login", "", map[string]string{
		"username": "principal",
		"password": "long enough pw",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	token, _ := decodeData(t, rec)["session_id"].(string)
	assert.NotEmpty(t, token)

	rec = doJSON(t, s, http.MethodGet, "/api/v1/admin/rules", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/v1/admin/logout", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/api/v1/admin/rules", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_BadCredentials(t *testing.T) {
	s, _, _ := testServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/admin/login", "", map[string]string{
		"username": "principal",
		"password": "wrong password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRulesAnalyticsEndpoint(t *testing.T) {
	s, token, _ := testServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/v1/admin/rules-analytics", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	data := decodeData(t, rec)
	assert.Equal(t, float64(0), data["total_students"])
	assert.Equal(t, float64(0), data["agreement_percentage"])
}
