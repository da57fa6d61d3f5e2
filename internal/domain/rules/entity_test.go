package rules

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pediforte/registry/internal/domain/shared"
)

func TestNewDocument(t *testing.T) {
	doc, err := NewDocument("doc-1", "Be kind.", "v1.0", "admin-1")
	assert.NoError(t, err)
	assert.Equal(t, "doc-1", doc.ID)
	assert.Equal(t, "Be kind.", doc.Content)
	assert.Equal(t, "v1.0", doc.Version)
	assert.True(t, doc.Active)
	assert.Equal(t, "admin-1", doc.CreatedBy)
	assert.False(t, doc.CreatedAt.IsZero())
	assert.Equal(t, doc.CreatedAt, doc.UpdatedAt)
}

func TestNewDocument_Validation(t *testing.T) {
	_, err := NewDocument("", "text", "v1.0", "admin-1")
	assert.Error(t, err)

	_, err = NewDocument("doc-1", "   ", "v1.0", "admin-1")
	assert.ErrorIs(t, err, ErrEmptyContent)

	_, err = NewDocument("doc-1", "text", "", "admin-1")
	assert.ErrorIs(t, err, ErrInvalidVersion)

	_, err = NewDocument("doc-1", "text", strings.Repeat("v", MaxVersionLen+1), "admin-1")
	assert.ErrorIs(t, err, ErrInvalidVersion)

	_, err = NewDocument("doc-1", "text", "v1.0", "")
	assert.Error(t, err)
}

func TestDocument_Revise(t *testing.T) {
	doc, err := NewDocument("doc-1", "old text", "v1.0", "admin-1")
	assert.NoError(t, err)
	created := doc.UpdatedAt

	err = doc.Revise("new text", "")
	assert.NoError(t, err)
	assert.Equal(t, "new text", doc.Content)
	assert.Equal(t, "v1.0", doc.Version, "version label kept when none given")
	assert.True(t, doc.UpdatedAt.After(created) || doc.UpdatedAt.Equal(created))
	assert.Equal(t, created, doc.CreatedAt)

	err = doc.Revise("newer text", "v1.1")
	assert.NoError(t, err)
	assert.Equal(t, "v1.1", doc.Version)

	err = doc.Revise("  ", "")
	assert.ErrorIs(t, err, ErrEmptyContent)
}

func TestDocument_Deactivate(t *testing.T) {
	doc, err := NewDocument("doc-1", "text", "v1.0", "admin-1")
	assert.NoError(t, err)

	doc.Deactivate()
	assert.False(t, doc.Active)
}

func TestEmptyDefault(t *testing.T) {
	doc := EmptyDefault()
	assert.Empty(t, doc.Content)
	assert.Equal(t, DefaultVersion, doc.Version)
	assert.False(t, doc.Active)
}

func TestNewAgreement(t *testing.T) {
	ag, err := NewAgreement("ag-1", "student-1", "doc-1", "203.0.113.7", "Mozilla/5.0")
	assert.NoError(t, err)
	assert.Equal(t, "ag-1", ag.ID)
	assert.Equal(t, "student-1", ag.StudentID)
	assert.Equal(t, "doc-1", ag.RulesID)
	assert.Equal(t, "203.0.113.7", ag.IPAddress)
	assert.Equal(t, "Mozilla/5.0", ag.UserAgent)
	assert.False(t, ag.AgreedAt.IsZero())
}

func TestNewAgreement_TruncatesUserAgent(t *testing.T) {
	long := strings.Repeat("x", MaxUserAgentLen+250)

	ag, err := NewAgreement("ag-1", "student-1", "doc-1", "", long)
	assert.NoError(t, err)
	assert.Len(t, ag.UserAgent, MaxUserAgentLen)
}

func TestNewAgreement_Validation(t *testing.T) {
	_, err := NewAgreement("", "student-1", "doc-1", "", "")
	assert.Error(t, err)

	_, err = NewAgreement("ag-1", "", "doc-1", "", "")
	assert.Error(t, err)

	_, err = NewAgreement("ag-1", "student-1", "", "", "")
	assert.Error(t, err)
}

func TestDomainErrorKinds(t *testing.T) {
	assert.True(t, shared.IsNotFound(ErrNoActiveDocument))
	assert.True(t, shared.IsNotFound(ErrDocumentNotFound))
	assert.True(t, shared.IsNotFound(ErrAgreementNotFound))
	assert.True(t, shared.IsAlreadyExists(ErrAlreadyAgreed))
}
