package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pediforte/registry/internal/domain/rules"
	"github.com/pediforte/registry/internal/domain/shared"
	"github.com/pediforte/registry/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD AGREEMENT COMMAND
// Records a student's acceptance of the currently active rules version.
// Acceptance is explicit and idempotent per version: re-submitting against
// the same version returns the existing record and writes nothing.
// ══════════════════════════════════════════════════════════════════════════════

// RequestOrigin carries the audit metadata of the acceptance request.
type RequestOrigin struct {
	IPAddress string
	UserAgent string
}

// RecordAgreementCommand contains the data to record an acceptance.
type RecordAgreementCommand struct {
	// StudentID is the accepting student.
	StudentID string

	// Agreed must be explicitly true; acceptance is never inferred.
	Agreed bool

	// Origin is the request audit metadata.
	Origin RequestOrigin
}

// Validate validates the command.
func (c RecordAgreementCommand) Validate() error {
	if c.StudentID == "" {
		return shared.NewDomainError("agreement", "Record", shared.ErrValidation, "student id is required")
	}
	if !c.Agreed {
		return shared.NewDomainError("agreement", "Record", shared.ErrValidation, "student must agree to the rules explicitly")
	}
	return nil
}

// RecordAgreementResult contains the recorded or pre-existing agreement.
type RecordAgreementResult struct {
	Agreement *rules.Agreement

	// AlreadyAgreed is true when the student had already accepted this
	// version and no new row was written.
	AlreadyAgreed bool
}

// RecordAgreementHandler handles the RecordAgreementCommand.
type RecordAgreementHandler struct {
	students   student.Directory
	docs       rules.DocumentRepository
	agreements rules.AgreementRepository
}

// NewRecordAgreementHandler creates a new RecordAgreementHandler.
func NewRecordAgreementHandler(
	students student.Directory,
	docs rules.DocumentRepository,
	agreements rules.AgreementRepository,
) *RecordAgreementHandler {
	return &RecordAgreementHandler{
		students:   students,
		docs:       docs,
		agreements: agreements,
	}
}

// Handle executes the record agreement command.
func (h *RecordAgreementHandler) Handle(ctx context.Context, cmd RecordAgreementCommand) (*RecordAgreementResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	stud, err := h.students.GetByID(ctx, cmd.StudentID)
	if err != nil {
		return nil, err
	}

	// A student cannot agree to a non-existent document.
	active, err := h.docs.GetActive(ctx)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewDomainError("agreement", "Record", shared.ErrConflict, "no active rules to agree to")
		}
		return nil, fmt.Errorf("record_agreement: failed to load active rules: %w", err)
	}

	// Idempotence fast path. The uniqueness constraint below remains the
	// real guard against concurrent submissions.
	existing, err := h.agreements.GetByStudentAndRules(ctx, stud.ID, active.ID)
	if err == nil {
		return &RecordAgreementResult{Agreement: existing, AlreadyAgreed: true}, nil
	}
	if !shared.IsNotFound(err) {
		return nil, fmt.Errorf("record_agreement: failed to check existing agreement: %w", err)
	}

	ag, err := rules.NewAgreement(uuid.NewString(), stud.ID, active.ID, cmd.Origin.IPAddress, cmd.Origin.UserAgent)
	if err != nil {
		return nil, err
	}
	ag.RulesVersion = active.Version

	if err := h.agreements.Record(ctx, ag); err != nil {
		// A concurrent submission won the race; return its record.
		if errors.Is(err, shared.ErrAlreadyExists) {
			winner, lookupErr := h.agreements.GetByStudentAndRules(ctx, stud.ID, active.ID)
			if lookupErr != nil {
				return nil, fmt.Errorf("record_agreement: failed to load concurrent agreement: %w", lookupErr)
			}
			return &RecordAgreementResult{Agreement: winner, AlreadyAgreed: true}, nil
		}
		return nil, fmt.Errorf("record_agreement: failed to record agreement: %w", err)
	}

	return &RecordAgreementResult{Agreement: ag}, nil
}
