package query

import (
	"context"
	"time"

	"github.com/pediforte/registry/internal/domain/rules"
	"github.com/pediforte/registry/internal/domain/student"
)

// Read-side fakes for the query handler tests.

type stubDocs struct {
	active *rules.Document
	all    []*rules.Document
	err    error
}

func (s *stubDocs) Publish(context.Context, *rules.Document) error { return nil }
func (s *stubDocs) Update(context.Context, *rules.Document) error  { return nil }
func (s *stubDocs) NextVersionNumber(context.Context) (int64, error) {
	return 0, nil
}

func (s *stubDocs) GetActive(context.Context) (*rules.Document, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.active == nil {
		return nil, rules.ErrNoActiveDocument
	}
	return s.active, nil
}

func (s *stubDocs) GetByID(_ context.Context, id string) (*rules.Document, error) {
	for _, d := range s.all {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, rules.ErrDocumentNotFound
}

func (s *stubDocs) List(context.Context) ([]*rules.Document, error) {
	return s.all, nil
}

type stubAgreements struct {
	byStudent map[string][]*rules.Agreement
	byRules   map[string]int
}

func (s *stubAgreements) Record(context.Context, *rules.Agreement) error { return nil }

func (s *stubAgreements) GetByStudentAndRules(_ context.Context, studentID, rulesID string) (*rules.Agreement, error) {
	for _, a := range s.byStudent[studentID] {
		if a.RulesID == rulesID {
			return a, nil
		}
	}
	return nil, rules.ErrAgreementNotFound
}

func (s *stubAgreements) ListByStudent(_ context.Context, studentID string) ([]*rules.Agreement, error) {
	return s.byStudent[studentID], nil
}

func (s *stubAgreements) CountByRules(_ context.Context, rulesID string) (int, error) {
	return s.byRules[rulesID], nil
}

type stubStudents struct {
	byID   map[string]*student.Student
	total  int
	agreed int
}

func (s *stubStudents) Create(context.Context, *student.Student) error { return nil }

func (s *stubStudents) GetByID(_ context.Context, id string) (*student.Student, error) {
	if st, ok := s.byID[id]; ok {
		return st, nil
	}
	return nil, student.ErrStudentNotFound
}

func (s *stubStudents) Count(context.Context) (int, error)       { return s.total, nil }
func (s *stubStudents) CountAgreed(context.Context) (int, error) { return s.agreed, nil }

type stubCache struct {
	doc  *rules.Document
	sets int
}

func (s *stubCache) Get(context.Context) (*rules.Document, error) {
	if s.doc == nil {
		return nil, rules.ErrNoActiveDocument
	}
	return s.doc, nil
}

func (s *stubCache) Set(_ context.Context, doc *rules.Document, _ time.Duration) error {
	s.doc = doc
	s.sets++
	return nil
}

func (s *stubCache) Invalidate(context.Context) error {
	s.doc = nil
	return nil
}
