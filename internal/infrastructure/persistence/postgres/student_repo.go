// Package postgres implements the PostgreSQL persistence layer for the
// registration service.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pediforte/registry/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT DIRECTORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// StudentRepository implements student.Directory for PostgreSQL.
type StudentRepository struct {
	conn *Connection
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(conn *Connection) *StudentRepository {
	return &StudentRepository{conn: conn}
}

const studentColumns = `
	id, surname, given_name, other_names, home_address, phone_number,
	email, date_of_birth, gender, terms_agreed, terms_agreed_at,
	created_at, updated_at
`

// Create creates a new student.
func (r *StudentRepository) Create(ctx context.Context, s *student.Student) error {
	_, err := r.conn.Exec(ctx, `
		INSERT INTO students (
			id, surname, given_name, other_names, home_address, phone_number,
			email, date_of_birth, gender, terms_agreed, terms_agreed_at,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`,
		s.ID,
		s.Surname,
		s.GivenName,
		s.OtherNames,
		s.HomeAddress,
		s.PhoneNumber,
		s.Email,
		s.DateOfBirth,
		s.Gender,
		s.TermsAgreed,
		s.TermsAgreedAt,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return student.ErrAlreadyRegistered
		}
		return fmt.Errorf("failed to create student: %w", err)
	}

	return nil
}

// GetByID returns a student by id.
func (r *StudentRepository) GetByID(ctx context.Context, id string) (*student.Student, error) {
	row := r.conn.QueryRow(ctx, `
		SELECT `+studentColumns+`
		FROM students
		WHERE id = $1
	`, id)

	s, err := r.scanStudent(row)
	if err != nil {
		if IsNoRows(err) {
			return nil, student.ErrStudentNotFound
		}
		return nil, err
	}
	return s, nil
}

// Count returns the total number of registered students.
func (r *StudentRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count students: %w", err)
	}
	return count, nil
}

// CountAgreed returns the number of students whose terms_agreed flag is set.
func (r *StudentRepository) CountAgreed(ctx context.Context) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM students WHERE terms_agreed`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count agreed students: %w", err)
	}
	return count, nil
}

// scanStudent scans a student row.
func (r *StudentRepository) scanStudent(row pgx.Row) (*student.Student, error) {
	var s student.Student

	err := row.Scan(
		&s.ID,
		&s.Surname,
		&s.GivenName,
		&s.OtherNames,
		&s.HomeAddress,
		&s.PhoneNumber,
		&s.Email,
		&s.DateOfBirth,
		&s.Gender,
		&s.TermsAgreed,
		&s.TermsAgreedAt,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan student: %w", err)
	}
	return &s, nil
}
