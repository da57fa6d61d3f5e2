package rules

import (
	"context"
	"time"
)

// DocumentRepository persists rules-document versions.
type DocumentRepository interface {
	// Publish atomically deactivates every existing active document and
	// inserts doc as the new active one. Readers never observe zero or
	// two active documents across the transition.
	Publish(ctx context.Context, doc *Document) error

	// Update rewrites an existing document in place.
	// Returns ErrDocumentNotFound if the document does not exist.
	Update(ctx context.Context, doc *Document) error

	// GetActive returns the single active document, or ErrNoActiveDocument.
	GetActive(ctx context.Context) (*Document, error)

	// GetByID returns a document by ID, or ErrDocumentNotFound.
	GetByID(ctx context.Context, id string) (*Document, error)

	// List returns all documents ordered by creation time descending.
	List(ctx context.Context) ([]*Document, error)

	// NextVersionNumber returns the next value of the monotonic version
	// counter used for default labels. Labels stay unique even when
	// documents are removed out of band.
	NextVersionNumber(ctx context.Context) (int64, error)
}

// AgreementRepository persists the insert-only agreement ledger.
type AgreementRepository interface {
	// Record inserts the agreement and sets the student's terms flag and
	// timestamp in the same transaction. Returns ErrAlreadyAgreed when an
	// agreement for (student, rules version) already exists; the store's
	// uniqueness constraint guards concurrent submissions.
	Record(ctx context.Context, ag *Agreement) error

	// GetByStudentAndRules returns the agreement for a (student, version)
	// pair, or ErrAgreementNotFound.
	GetByStudentAndRules(ctx context.Context, studentID, rulesID string) (*Agreement, error)

	// ListByStudent returns all agreements for a student in insertion order.
	ListByStudent(ctx context.Context, studentID string) ([]*Agreement, error)

	// CountByRules returns the number of agreements against a version.
	CountByRules(ctx context.Context, rulesID string) (int, error)
}

// ActiveDocumentCache caches the active document for the public read path.
// Implementations must treat Invalidate as best-effort; the repository is
// the source of truth.
type ActiveDocumentCache interface {
	Get(ctx context.Context) (*Document, error)
	Set(ctx context.Context, doc *Document, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}
