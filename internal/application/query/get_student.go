package query

import (
	"context"
	"time"

	"github.com/pediforte/registry/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET STUDENT QUERY
// Returns a single student profile by id.
// ══════════════════════════════════════════════════════════════════════════════

// StudentDTO is the read model for a student profile.
type StudentDTO struct {
	ID            string     `json:"id"`
	Surname       string     `json:"surname"`
	GivenName     string     `json:"given_name"`
	OtherNames    string     `json:"other_names,omitempty"`
	FullName      string     `json:"full_name"`
	HomeAddress   string     `json:"home_address,omitempty"`
	PhoneNumber   string     `json:"phone_number,omitempty"`
	Email         string     `json:"email"`
	DateOfBirth   *string    `json:"date_of_birth,omitempty"`
	Gender        string     `json:"gender,omitempty"`
	TermsAgreed   bool       `json:"terms_agreed"`
	TermsAgreedAt *time.Time `json:"terms_agreed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// NewStudentDTO maps a domain student to its read model.
func NewStudentDTO(s *student.Student) StudentDTO {
	dto := StudentDTO{
		ID:            s.ID,
		Surname:       s.Surname,
		GivenName:     s.GivenName,
		OtherNames:    s.OtherNames,
		FullName:      s.FullName(),
		HomeAddress:   s.HomeAddress,
		PhoneNumber:   s.PhoneNumber,
		Email:         s.Email,
		Gender:        s.Gender,
		TermsAgreed:   s.TermsAgreed,
		TermsAgreedAt: s.TermsAgreedAt,
		CreatedAt:     s.CreatedAt,
	}
	if s.DateOfBirth != nil {
		dob := s.DateOfBirth.Format("2006-01-02")
		dto.DateOfBirth = &dob
	}
	return dto
}

// GetStudentHandler handles the student-profile query.
type GetStudentHandler struct {
	students student.Directory
}

// NewGetStudentHandler creates a new GetStudentHandler.
func NewGetStudentHandler(students student.Directory) *GetStudentHandler {
	return &GetStudentHandler{students: students}
}

// Handle returns the student with the given id.
func (h *GetStudentHandler) Handle(ctx context.Context, id string) (StudentDTO, error) {
	s, err := h.students.GetByID(ctx, id)
	if err != nil {
		return StudentDTO{}, err
	}
	return NewStudentDTO(s), nil
}
