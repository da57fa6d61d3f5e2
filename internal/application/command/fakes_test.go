package command

import (
	"context"
	"sync"
	"time"

	"github.com/pediforte/registry/internal/domain/admin"
	"github.com/pediforte/registry/internal/domain/rules"
	"github.com/pediforte/registry/internal/domain/student"
)

// In-memory fakes shared by the command handler tests.

type fakeDocs struct {
	mu      sync.Mutex
	docs    []*rules.Document
	counter int64
}

func (f *fakeDocs) Publish(_ context.Context, doc *rules.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.docs {
		d.Active = false
	}
	f.docs = append(f.docs, doc)
	return nil
}

func (f *fakeDocs) Update(_ context.Context, doc *rules.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, d := range f.docs {
		if d.ID == doc.ID {
			f.docs[i] = doc
			return nil
		}
	}
	return rules.ErrDocumentNotFound
}

func (f *fakeDocs) GetActive(_ context.Context) (*rules.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.docs {
		if d.Active {
			return d, nil
		}
	}
	return nil, rules.ErrNoActiveDocument
}

func (f *fakeDocs) GetByID(_ context.Context, id string) (*rules.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.docs {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, rules.ErrDocumentNotFound
}

func (f *fakeDocs) List(_ context.Context) ([]*rules.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*rules.Document, 0, len(f.docs))
	for i := len(f.docs) - 1; i >= 0; i-- {
		out = append(out, f.docs[i])
	}
	return out, nil
}

func (f *fakeDocs) NextVersionNumber(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counter++
	return f.counter, nil
}

type fakeAgreements struct {
	mu        sync.Mutex
	list      []*rules.Agreement
	students  *fakeStudents
	recordErr error // forced error for the next Record call
}

func (f *fakeAgreements) Record(_ context.Context, ag *rules.Agreement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.recordErr != nil {
		err := f.recordErr
		f.recordErr = nil
		return err
	}
	for _, a := range f.list {
		if a.StudentID == ag.StudentID && a.RulesID == ag.RulesID {
			return rules.ErrAlreadyAgreed
		}
	}
	f.list = append(f.list, ag)
	if f.students != nil {
		if s, ok := f.students.byID[ag.StudentID]; ok {
			s.TermsAgreed = true
			at := ag.AgreedAt
			s.TermsAgreedAt = &at
		}
	}
	return nil
}

func (f *fakeAgreements) GetByStudentAndRules(_ context.Context, studentID, rulesID string) (*rules.Agreement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.list {
		if a.StudentID == studentID && a.RulesID == rulesID {
			return a, nil
		}
	}
	return nil, rules.ErrAgreementNotFound
}

func (f *fakeAgreements) ListByStudent(_ context.Context, studentID string) ([]*rules.Agreement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*rules.Agreement
	for _, a := range f.list {
		if a.StudentID == studentID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAgreements) CountByRules(_ context.Context, rulesID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, a := range f.list {
		if a.RulesID == rulesID {
			count++
		}
	}
	return count, nil
}

type fakeStudents struct {
	byID map[string]*student.Student
}

func newFakeStudents(students ...*student.Student) *fakeStudents {
	f := &fakeStudents{byID: make(map[string]*student.Student)}
	for _, s := range students {
		f.byID[s.ID] = s
	}
	return f
}

func (f *fakeStudents) Create(_ context.Context, s *student.Student) error {
	for _, existing := range f.byID {
		if existing.Email == s.Email {
			return student.ErrAlreadyRegistered
		}
	}
	f.byID[s.ID] = s
	return nil
}

func (f *fakeStudents) GetByID(_ context.Context, id string) (*student.Student, error) {
	if s, ok := f.byID[id]; ok {
		return s, nil
	}
	return nil, student.ErrStudentNotFound
}

func (f *fakeStudents) Count(_ context.Context) (int, error) {
	return len(f.byID), nil
}

func (f *fakeStudents) CountAgreed(_ context.Context) (int, error) {
	count := 0
	for _, s := range f.byID {
		if s.TermsAgreed {
			count++
		}
	}
	return count, nil
}

type fakeAdmins struct {
	byID map[string]*admin.Admin
}

func newFakeAdmins(admins ...*admin.Admin) *fakeAdmins {
	f := &fakeAdmins{byID: make(map[string]*admin.Admin)}
	for _, a := range admins {
		f.byID[a.ID] = a
	}
	return f
}

func (f *fakeAdmins) Create(_ context.Context, a *admin.Admin) error {
	for _, existing := range f.byID {
		if existing.Username == a.Username || existing.Email == a.Email {
			return admin.ErrAdminAlreadyExists
		}
	}
	f.byID[a.ID] = a
	return nil
}

func (f *fakeAdmins) GetByID(_ context.Context, id string) (*admin.Admin, error) {
	if a, ok := f.byID[id]; ok {
		return a, nil
	}
	return nil, admin.ErrAdminNotFound
}

func (f *fakeAdmins) GetByUsername(_ context.Context, username string) (*admin.Admin, error) {
	for _, a := range f.byID {
		if a.Username == username {
			return a, nil
		}
	}
	return nil, admin.ErrAdminNotFound
}

func (f *fakeAdmins) Count(_ context.Context) (int, error) {
	return len(f.byID), nil
}

type fakeSessions struct {
	mu     sync.Mutex
	tokens map[string]string
	next   int
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{tokens: make(map[string]string)}
}

func (f *fakeSessions) Create(_ context.Context, adminID string, _ time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	token := "token-" + string(rune('a'+f.next))
	f.tokens[token] = adminID
	return token, nil
}

func (f *fakeSessions) Get(_ context.Context, token string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id, ok := f.tokens[token]; ok {
		return id, nil
	}
	return "", admin.ErrSessionNotFound
}

func (f *fakeSessions) Delete(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, token)
	return nil
}

type fakeCache struct {
	mu          sync.Mutex
	doc         *rules.Document
	invalidated int
}

func (f *fakeCache) Get(_ context.Context) (*rules.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.doc == nil {
		return nil, rules.ErrNoActiveDocument
	}
	return f.doc, nil
}

func (f *fakeCache) Set(_ context.Context, doc *rules.Document, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.doc = doc
	return nil
}

func (f *fakeCache) Invalidate(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.doc = nil
	f.invalidated++
	return nil
}
