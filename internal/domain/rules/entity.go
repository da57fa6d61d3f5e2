// Package rules contains the rules-document and agreement domain model.
// A rules document is the institutional rules text students must accept;
// at most one document is active at any committed state. An agreement is
// an immutable audit record binding a student to the exact version they
// accepted.
package rules

import (
	"strings"
	"time"

	"github.com/pediforte/registry/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONSTANTS
// ══════════════════════════════════════════════════════════════════════════════

const (
	// DefaultVersion is the version label reported when the store is empty.
	DefaultVersion = "1.0"

	// MaxUserAgentLen bounds the stored user-agent audit field.
	MaxUserAgentLen = 500

	// MaxVersionLen bounds the version label.
	MaxVersionLen = 20
)

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrEmptyContent - a rules document must carry non-empty text.
	ErrEmptyContent = shared.NewDomainError("rules", "Validate", shared.ErrEmptyValue, "rules content is required")

	// ErrInvalidVersion - version label out of bounds.
	ErrInvalidVersion = shared.NewDomainError("rules", "Validate", shared.ErrInvalidInput, "version label must be 1-20 chars")

	// ErrDocumentNotFound - rules document does not exist.
	ErrDocumentNotFound = shared.NewDomainError("rules", "Find", shared.ErrNotFound, "rules document not found")

	// ErrNoActiveDocument - no rules document is currently active.
	ErrNoActiveDocument = shared.NewDomainError("rules", "GetActive", shared.ErrNotFound, "no active rules document")

	// ErrAlreadyAgreed - an agreement for this (student, version) pair exists.
	ErrAlreadyAgreed = shared.NewDomainError("agreement", "Record", shared.ErrAlreadyExists, "student already agreed to this rules version")

	// ErrAgreementNotFound - agreement does not exist.
	ErrAgreementNotFound = shared.NewDomainError("agreement", "Find", shared.ErrNotFound, "agreement not found")
)

// ══════════════════════════════════════════════════════════════════════════════
// RULES DOCUMENT
// ══════════════════════════════════════════════════════════════════════════════

// Document is a single version of the institutional rules text.
// Documents are superseded, never physically deleted.
type Document struct {
	// ID is the internal unique identifier (UUID string).
	ID string

	// Content is the full rules text.
	Content string

	// Version is the human-readable version label (e.g. "v3.0").
	Version string

	// Active reports whether this is the version currently in force.
	Active bool

	// CreatedBy is the ID of the admin who published this version.
	CreatedBy string

	// CreatedAt is when this version was published.
	CreatedAt time.Time

	// UpdatedAt is bumped on in-place content updates.
	UpdatedAt time.Time
}

// NewDocument creates a new active rules document with validation.
func NewDocument(id, content, version, createdBy string) (*Document, error) {
	if id == "" {
		return nil, shared.NewDomainError("rules", "Create", shared.ErrInvalidID, "document id is required")
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if version == "" || len(version) > MaxVersionLen {
		return nil, ErrInvalidVersion
	}
	if createdBy == "" {
		return nil, shared.NewDomainError("rules", "Create", shared.ErrInvalidID, "created_by admin id is required")
	}

	now := time.Now().UTC()
	return &Document{
		ID:        id,
		Content:   content,
		Version:   version,
		Active:    true,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// EmptyDefault is the well-defined document returned to readers when the
// store holds no documents at all. It is never persisted.
func EmptyDefault() *Document {
	return &Document{Content: "", Version: DefaultVersion}
}

// Revise replaces the document text in place without creating a new
// version. The version label is kept unless a new one is given.
func (d *Document) Revise(content, version string) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}
	if version != "" {
		if len(version) > MaxVersionLen {
			return ErrInvalidVersion
		}
		d.Version = version
	}
	d.Content = content
	d.UpdatedAt = time.Now().UTC()
	return nil
}

// Deactivate marks the document as superseded.
func (d *Document) Deactivate() {
	d.Active = false
	d.UpdatedAt = time.Now().UTC()
}

// ══════════════════════════════════════════════════════════════════════════════
// AGREEMENT
// ══════════════════════════════════════════════════════════════════════════════

// Agreement binds a student to the exact rules version they accepted,
// with audit metadata. Immutable once created.
type Agreement struct {
	// ID is the internal unique identifier (UUID string).
	ID string

	// StudentID references the accepting student.
	StudentID string

	// RulesID references the specific document version accepted.
	// Binding is by value at acceptance time, not "the active one".
	RulesID string

	// RulesVersion is the label of the accepted version, filled on reads
	// for display; the authoritative binding is RulesID.
	RulesVersion string

	// AgreedAt is when acceptance was recorded.
	AgreedAt time.Time

	// IPAddress is the origin address of the acceptance request.
	IPAddress string

	// UserAgent is the origin user-agent, truncated to MaxUserAgentLen.
	UserAgent string
}

// NewAgreement creates an agreement record, truncating the user-agent.
func NewAgreement(id, studentID, rulesID, ip, userAgent string) (*Agreement, error) {
	if id == "" {
		return nil, shared.NewDomainError("agreement", "Create", shared.ErrInvalidID, "agreement id is required")
	}
	if studentID == "" {
		return nil, shared.NewDomainError("agreement", "Create", shared.ErrInvalidID, "student id is required")
	}
	if rulesID == "" {
		return nil, shared.NewDomainError("agreement", "Create", shared.ErrInvalidID, "rules id is required")
	}

	if len(userAgent) > MaxUserAgentLen {
		userAgent = userAgent[:MaxUserAgentLen]
	}

	return &Agreement{
		ID:        id,
		StudentID: studentID,
		RulesID:   rulesID,
		AgreedAt:  time.Now().UTC(),
		IPAddress: ip,
		UserAgent: userAgent,
	}, nil
}
