// Package student contains the student-directory domain model: the
// registration profile plus the denormalized terms-agreement summary
// maintained by the agreement ledger.
package student

import (
	"strings"
	"time"

	"github.com/pediforte/registry/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrStudentNotFound - student does not exist.
	ErrStudentNotFound = shared.NewDomainError("student", "Find", shared.ErrNotFound, "student not found")

	// ErrAlreadyRegistered - a student with this email already exists.
	ErrAlreadyRegistered = shared.NewDomainError("student", "Create", shared.ErrAlreadyExists, "student already registered with this email")

	// ErrInvalidName - surname and given name are required.
	ErrInvalidName = shared.NewDomainError("student", "Validate", shared.ErrEmptyValue, "surname and given name are required")

	// ErrInvalidEmail - email address is missing or malformed.
	ErrInvalidEmail = shared.NewDomainError("student", "Validate", shared.ErrInvalidInput, "a valid email address is required")
)

// ══════════════════════════════════════════════════════════════════════════════
// ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Student is a registered student profile.
type Student struct {
	// ID is the internal unique identifier (UUID string).
	ID string

	// Surname and GivenName are required registration fields.
	Surname   string
	GivenName string

	// OtherNames holds optional middle names.
	OtherNames string

	// Contact fields.
	HomeAddress string
	PhoneNumber string
	Email       string

	// DateOfBirth is optional.
	DateOfBirth *time.Time

	Gender string

	// TermsAgreed and TermsAgreedAt summarize the agreement ledger: set
	// when an agreement for the active rules version is recorded, left
	// untouched on idempotent re-acceptance.
	TermsAgreed   bool
	TermsAgreedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewStudentParams contains the fields accepted at registration.
type NewStudentParams struct {
	ID          string
	Surname     string
	GivenName   string
	OtherNames  string
	HomeAddress string
	PhoneNumber string
	Email       string
	DateOfBirth *time.Time
	Gender      string
}

// NewStudent creates a student with validation of required fields.
func NewStudent(params NewStudentParams) (*Student, error) {
	if params.ID == "" {
		return nil, shared.NewDomainError("student", "Create", shared.ErrInvalidID, "student id is required")
	}

	surname := strings.TrimSpace(params.Surname)
	givenName := strings.TrimSpace(params.GivenName)
	if surname == "" || givenName == "" {
		return nil, ErrInvalidName
	}

	email := strings.TrimSpace(strings.ToLower(params.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}

	now := time.Now().UTC()
	return &Student{
		ID:          params.ID,
		Surname:     surname,
		GivenName:   givenName,
		OtherNames:  strings.TrimSpace(params.OtherNames),
		HomeAddress: params.HomeAddress,
		PhoneNumber: params.PhoneNumber,
		Email:       email,
		DateOfBirth: params.DateOfBirth,
		Gender:      params.Gender,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// FullName joins surname, given name and any other names.
func (s *Student) FullName() string {
	names := []string{s.Surname, s.GivenName}
	if s.OtherNames != "" {
		names = append(names, s.OtherNames)
	}
	return strings.Join(names, " ")
}
