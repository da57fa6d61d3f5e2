package query

import (
	"context"
	"fmt"
	"time"

	"github.com/pediforte/registry/internal/domain/rules"
	"github.com/pediforte/registry/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET AGREEMENT HISTORY QUERY
// Returns the full audit trail of rules agreements for one student,
// oldest first. Admin-only; exposes the recorded request origin.
// ══════════════════════════════════════════════════════════════════════════════

// GetAgreementHistoryQuery identifies the student.
type GetAgreementHistoryQuery struct {
	StudentID string
}

// AgreementDTO is the read model for a recorded agreement.
type AgreementDTO struct {
	ID           string    `json:"id"`
	StudentID    string    `json:"student_id"`
	RulesID      string    `json:"rules_id"`
	RulesVersion string    `json:"rules_version"`
	AgreedAt     time.Time `json:"agreed_at"`
	IPAddress    string    `json:"ip_address,omitempty"`
	UserAgent    string    `json:"user_agent,omitempty"`
}

func newAgreementDTO(a *rules.Agreement) AgreementDTO {
	return AgreementDTO{
		ID:           a.ID,
		StudentID:    a.StudentID,
		RulesID:      a.RulesID,
		RulesVersion: a.RulesVersion,
		AgreedAt:     a.AgreedAt,
		IPAddress:    a.IPAddress,
		UserAgent:    a.UserAgent,
	}
}

// AgreementHistoryDTO pairs the student's denormalized flag with the trail.
type AgreementHistoryDTO struct {
	StudentID     string         `json:"student_id"`
	TermsAgreed   bool           `json:"terms_agreed"`
	TermsAgreedAt *time.Time     `json:"terms_agreed_at,omitempty"`
	Agreements    []AgreementDTO `json:"agreements"`
}

// GetAgreementHistoryHandler handles the agreement-history query.
type GetAgreementHistoryHandler struct {
	students   student.Directory
	agreements rules.AgreementRepository
}

// NewGetAgreementHistoryHandler creates a new GetAgreementHistoryHandler.
func NewGetAgreementHistoryHandler(
	students student.Directory,
	agreements rules.AgreementRepository,
) *GetAgreementHistoryHandler {
	return &GetAgreementHistoryHandler{students: students, agreements: agreements}
}

// Handle returns the student's agreement trail.
func (h *GetAgreementHistoryHandler) Handle(ctx context.Context, q GetAgreementHistoryQuery) (*AgreementHistoryDTO, error) {
	s, err := h.students.GetByID(ctx, q.StudentID)
	if err != nil {
		return nil, err
	}

	list, err := h.agreements.ListByStudent(ctx, s.ID)
	if err != nil {
		return nil, fmt.Errorf("get_agreement_history: failed to list agreements: %w", err)
	}

	dto := &AgreementHistoryDTO{
		StudentID:     s.ID,
		TermsAgreed:   s.TermsAgreed,
		TermsAgreedAt: s.TermsAgreedAt,
		Agreements:    make([]AgreementDTO, 0, len(list)),
	}
	for _, a := range list {
		dto.Agreements = append(dto.Agreements, newAgreementDTO(a))
	}
	return dto, nil
}
