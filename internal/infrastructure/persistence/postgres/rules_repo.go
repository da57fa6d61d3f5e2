// Package postgres implements the PostgreSQL persistence layer for the
// registration service.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pediforte/registry/internal/domain/rules"
)

// ══════════════════════════════════════════════════════════════════════════════
// RULES DOCUMENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// RulesRepository implements rules.DocumentRepository for PostgreSQL.
type RulesRepository struct {
	conn *Connection
}

// NewRulesRepository creates a new RulesRepository.
func NewRulesRepository(conn *Connection) *RulesRepository {
	return &RulesRepository{conn: conn}
}

const rulesColumns = `id, content, version, is_active, created_by, created_at, updated_at`

// Publish inserts the document as the single active one. Deactivating the
// previous version and inserting the new one happen in one transaction, so
// the partial unique index on is_active never sees two active rows.
func (r *RulesRepository) Publish(ctx context.Context, doc *rules.Document) error {
	return r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`UPDATE rules_documents SET is_active = FALSE, updated_at = NOW() WHERE is_active`,
		); err != nil {
			return fmt.Errorf("failed to deactivate previous versions: %w", err)
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO rules_documents (id, content, version, is_active, created_by, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`,
			doc.ID,
			doc.Content,
			doc.Version,
			doc.Active,
			nullableID(doc.CreatedBy),
			doc.CreatedAt,
			doc.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert rules document: %w", err)
		}
		return nil
	})
}

// Update rewrites an existing document in place.
func (r *RulesRepository) Update(ctx context.Context, doc *rules.Document) error {
	tag, err := r.conn.Exec(ctx, `
		UPDATE rules_documents
		SET content = $2, version = $3, updated_at = $4
		WHERE id = $1
	`, doc.ID, doc.Content, doc.Version, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update rules document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return rules.ErrDocumentNotFound
	}
	return nil
}

// GetActive returns the currently active document.
func (r *RulesRepository) GetActive(ctx context.Context) (*rules.Document, error) {
	row := r.conn.QueryRow(ctx, `
		SELECT `+rulesColumns+`
		FROM rules_documents
		WHERE is_active
	`)

	doc, err := r.scanDocument(row)
	if err != nil {
		if IsNoRows(err) {
			return nil, rules.ErrNoActiveDocument
		}
		return nil, err
	}
	return doc, nil
}

// GetByID returns a document by id.
func (r *RulesRepository) GetByID(ctx context.Context, id string) (*rules.Document, error) {
	row := r.conn.QueryRow(ctx, `
		SELECT `+rulesColumns+`
		FROM rules_documents
		WHERE id = $1
	`, id)

	doc, err := r.scanDocument(row)
	if err != nil {
		if IsNoRows(err) {
			return nil, rules.ErrDocumentNotFound
		}
		return nil, err
	}
	return doc, nil
}

// List returns all documents, newest first.
func (r *RulesRepository) List(ctx context.Context) ([]*rules.Document, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT `+rulesColumns+`
		FROM rules_documents
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules documents: %w", err)
	}
	defer rows.Close()

	var docs []*rules.Document
	for rows.Next() {
		doc, err := r.scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// NextVersionNumber allocates the next value of the version counter.
func (r *RulesRepository) NextVersionNumber(ctx context.Context) (int64, error) {
	var n int64
	if err := r.conn.QueryRow(ctx, `SELECT nextval('rules_version_seq')`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to allocate version number: %w", err)
	}
	return n, nil
}

// scanDocument scans a document row.
func (r *RulesRepository) scanDocument(row pgx.Row) (*rules.Document, error) {
	var doc rules.Document
	var createdBy *string

	err := row.Scan(
		&doc.ID,
		&doc.Content,
		&doc.Version,
		&doc.Active,
		&createdBy,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan rules document: %w", err)
	}

	if createdBy != nil {
		doc.CreatedBy = *createdBy
	}
	return &doc, nil
}

// nullableID maps an empty string id to SQL NULL for UUID columns.
func nullableID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}
