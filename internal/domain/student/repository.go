package student

import "context"

// Directory is the student lookup and registration boundary consumed by
// the agreement workflow. The terms flag itself is written by the
// agreement ledger inside its own transaction, so flag updates never
// appear without the matching agreement row.
type Directory interface {
	// Create registers a new student. Returns ErrAlreadyRegistered when
	// the email is taken.
	Create(ctx context.Context, s *Student) error

	// GetByID resolves a student, or returns ErrStudentNotFound.
	GetByID(ctx context.Context, id string) (*Student, error)

	// Count returns the total number of registered students.
	Count(ctx context.Context) (int, error)

	// CountAgreed returns the number of students with the terms flag set.
	CountAgreed(ctx context.Context) (int, error)
}
