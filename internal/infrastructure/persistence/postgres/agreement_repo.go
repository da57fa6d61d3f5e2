// Package postgres implements the PostgreSQL persistence layer for the
// registration service.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pediforte/registry/internal/domain/rules"
	"github.com/pediforte/registry/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// AGREEMENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// AgreementRepository implements rules.AgreementRepository for PostgreSQL.
type AgreementRepository struct {
	conn *Connection
}

// NewAgreementRepository creates a new AgreementRepository.
func NewAgreementRepository(conn *Connection) *AgreementRepository {
	return &AgreementRepository{conn: conn}
}

// Record inserts the agreement and flips the student's denormalized
// terms_agreed flag in the same transaction. A unique violation on
// (student_id, rules_id) maps to rules.ErrAlreadyAgreed so concurrent
// duplicates surface as the idempotent case, not a 500.
func (r *AgreementRepository) Record(ctx context.Context, ag *rules.Agreement) error {
	return r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO agreements (id, student_id, rules_id, agreed_at, ip_address, user_agent)
			VALUES ($1, $2, $3, $4, $5, $6)
		`,
			ag.ID,
			ag.StudentID,
			ag.RulesID,
			ag.AgreedAt,
			ag.IPAddress,
			ag.UserAgent,
		)
		if err != nil {
			if IsUniqueViolation(err) {
				return rules.ErrAlreadyAgreed
			}
			if IsForeignKeyViolation(err) {
				return student.ErrStudentNotFound
			}
			return fmt.Errorf("failed to insert agreement: %w", err)
		}

		tag, err := tx.Exec(ctx, `
			UPDATE students
			SET terms_agreed = TRUE, terms_agreed_at = $2, updated_at = NOW()
			WHERE id = $1
		`, ag.StudentID, ag.AgreedAt)
		if err != nil {
			return fmt.Errorf("failed to update student agreement flag: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return student.ErrStudentNotFound
		}
		return nil
	})
}

const agreementColumns = `
	a.id, a.student_id, a.rules_id, d.version, a.agreed_at, a.ip_address, a.user_agent
`

// GetByStudentAndRules returns the agreement for one student and one
// rules version.
func (r *AgreementRepository) GetByStudentAndRules(ctx context.Context, studentID, rulesID string) (*rules.Agreement, error) {
	row := r.conn.QueryRow(ctx, `
		SELECT `+agreementColumns+`
		FROM agreements a
		JOIN rules_documents d ON d.id = a.rules_id
		WHERE a.student_id = $1 AND a.rules_id = $2
	`, studentID, rulesID)

	ag, err := r.scanAgreement(row)
	if err != nil {
		if IsNoRows(err) {
			return nil, rules.ErrAgreementNotFound
		}
		return nil, err
	}
	return ag, nil
}

// ListByStudent returns the student's agreements, oldest first.
func (r *AgreementRepository) ListByStudent(ctx context.Context, studentID string) ([]*rules.Agreement, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT `+agreementColumns+`
		FROM agreements a
		JOIN rules_documents d ON d.id = a.rules_id
		WHERE a.student_id = $1
		ORDER BY a.agreed_at
	`, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list agreements: %w", err)
	}
	defer rows.Close()

	var list []*rules.Agreement
	for rows.Next() {
		ag, err := r.scanAgreement(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, ag)
	}
	return list, rows.Err()
}

// CountByRules counts agreements recorded against one rules document.
func (r *AgreementRepository) CountByRules(ctx context.Context, rulesID string) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM agreements WHERE rules_id = $1`, rulesID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count agreements: %w", err)
	}
	return count, nil
}

// scanAgreement scans an agreement row joined with its rules version.
func (r *AgreementRepository) scanAgreement(row pgx.Row) (*rules.Agreement, error) {
	var ag rules.Agreement

	err := row.Scan(
		&ag.ID,
		&ag.StudentID,
		&ag.RulesID,
		&ag.RulesVersion,
		&ag.AgreedAt,
		&ag.IPAddress,
		&ag.UserAgent,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan agreement: %w", err)
	}
	return &ag, nil
}
