package command

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pediforte/registry/internal/domain/shared"
	"github.com/pediforte/registry/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTER STUDENT COMMAND
// Registers a student profile in the directory. Course selection, payment
// and passport upload are handled by their own surfaces.
// ══════════════════════════════════════════════════════════════════════════════

// RegisterStudentCommand contains the registration fields.
type RegisterStudentCommand struct {
	Surname     string
	GivenName   string
	OtherNames  string
	HomeAddress string
	PhoneNumber string
	Email       string
	DateOfBirth string // "2006-01-02", optional
	Gender      string
}

// Validate validates the command.
func (c RegisterStudentCommand) Validate() error {
	if c.Surname == "" || c.GivenName == "" {
		return shared.NewDomainError("student", "Register", shared.ErrValidation, "surname and given name are required")
	}
	if c.Email == "" {
		return shared.NewDomainError("student", "Register", shared.ErrValidation, "email address is required")
	}
	if c.DateOfBirth != "" {
		if _, err := time.Parse("2006-01-02", c.DateOfBirth); err != nil {
			return shared.NewDomainError("student", "Register", shared.ErrValidation, "date of birth must be YYYY-MM-DD")
		}
	}
	return nil
}

// RegisterStudentHandler handles the RegisterStudentCommand.
type RegisterStudentHandler struct {
	students student.Directory
}

// NewRegisterStudentHandler creates a new RegisterStudentHandler.
func NewRegisterStudentHandler(students student.Directory) *RegisterStudentHandler {
	return &RegisterStudentHandler{students: students}
}

// Handle registers a new student.
func (h *RegisterStudentHandler) Handle(ctx context.Context, cmd RegisterStudentCommand) (*student.Student, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var dob *time.Time
	if cmd.DateOfBirth != "" {
		parsed, err := time.Parse("2006-01-02", cmd.DateOfBirth)
		if err != nil {
			return nil, shared.NewDomainError("student", "Register", shared.ErrValidation, "date of birth must be YYYY-MM-DD")
		}
		dob = &parsed
	}

	stud, err := student.NewStudent(student.NewStudentParams{
		ID:          uuid.NewString(),
		Surname:     cmd.Surname,
		GivenName:   cmd.GivenName,
		OtherNames:  cmd.OtherNames,
		HomeAddress: cmd.HomeAddress,
		PhoneNumber: cmd.PhoneNumber,
		Email:       cmd.Email,
		DateOfBirth: dob,
		Gender:      cmd.Gender,
	})
	if err != nil {
		return nil, err
	}

	if err := h.students.Create(ctx, stud); err != nil {
		if shared.IsAlreadyExists(err) {
			return nil, err
		}
		return nil, fmt.Errorf("register_student: failed to create student: %w", err)
	}

	return stud, nil
}
