package query

import (
	"context"
	"fmt"
	"math"

	"github.com/pediforte/registry/internal/domain/rules"
	"github.com/pediforte/registry/internal/domain/shared"
	"github.com/pediforte/registry/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// RULES ANALYTICS QUERY
// Aggregates agreement adoption for the admin dashboard: how many
// students exist, how many have agreed, and the uptake of the
// currently active version.
// ══════════════════════════════════════════════════════════════════════════════

// RulesAnalyticsDTO is the dashboard read model.
type RulesAnalyticsDTO struct {
	TotalStudents     int `json:"total_students"`
	StudentsAgreed    int `json:"students_agreed"`
	StudentsNotAgreed int `json:"students_not_agreed"`

	// AgreementPercentage is 0 when there are no students at all.
	AgreementPercentage float64 `json:"agreement_percentage"`

	// ActiveRulesVersion is nil when nothing has been published yet.
	ActiveRulesVersion *string `json:"active_rules_version"`

	// CurrentVersionAgreements counts agreements with the active document.
	CurrentVersionAgreements int `json:"current_version_agreements"`
}

// RulesAnalyticsHandler handles the analytics query.
type RulesAnalyticsHandler struct {
	students   student.Directory
	docs       rules.DocumentRepository
	agreements rules.AgreementRepository
}

// NewRulesAnalyticsHandler creates a new RulesAnalyticsHandler.
func NewRulesAnalyticsHandler(
	students student.Directory,
	docs rules.DocumentRepository,
	agreements rules.AgreementRepository,
) *RulesAnalyticsHandler {
	return &RulesAnalyticsHandler{students: students, docs: docs, agreements: agreements}
}

// Handle computes the adoption snapshot.
func (h *RulesAnalyticsHandler) Handle(ctx context.Context) (*RulesAnalyticsDTO, error) {
	total, err := h.students.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("rules_analytics: failed to count students: %w", err)
	}

	agreed, err := h.students.CountAgreed(ctx)
	if err != nil {
		return nil, fmt.Errorf("rules_analytics: failed to count agreed students: %w", err)
	}

	dto := &RulesAnalyticsDTO{
		TotalStudents:     total,
		StudentsAgreed:    agreed,
		StudentsNotAgreed: total - agreed,
	}
	if total > 0 {
		pct := float64(agreed) / float64(total) * 100
		dto.AgreementPercentage = math.Round(pct*100) / 100
	}

	active, err := h.docs.GetActive(ctx)
	if err != nil {
		if shared.IsNotFound(err) {
			return dto, nil
		}
		return nil, fmt.Errorf("rules_analytics: failed to load active document: %w", err)
	}

	dto.ActiveRulesVersion = &active.Version
	count, err := h.agreements.CountByRules(ctx, active.ID)
	if err != nil {
		return nil, fmt.Errorf("rules_analytics: failed to count agreements: %w", err)
	}
	dto.CurrentVersionAgreements = count

	return dto, nil
}
