package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pediforte/registry/internal/domain/rules"
)

func TestRulesAnalytics(t *testing.T) {
	doc, err := rules.NewDocument("doc-1", "Be kind.", "v2.0", "admin-1")
	assert.NoError(t, err)

	h := NewRulesAnalyticsHandler(
		&stubStudents{total: 40, agreed: 30},
		&stubDocs{active: doc},
		&stubAgreements{byRules: map[string]int{"doc-1": 28}},
	)

	dto, err := h.Handle(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 40, dto.TotalStudents)
	assert.Equal(t, 30, dto.StudentsAgreed)
	assert.Equal(t, 10, dto.StudentsNotAgreed)
	assert.Equal(t, 75.0, dto.AgreementPercentage)
	assert.NotNil(t, dto.ActiveRulesVersion)
	assert.Equal(t, "v2.0", *dto.ActiveRulesVersion)
	assert.Equal(t, 28, dto.CurrentVersionAgreements)
}

func TestRulesAnalytics_NoStudents(t *testing.T) {
	// Zero students must not divide by zero.
	h := NewRulesAnalyticsHandler(
		&stubStudents{},
		&stubDocs{},
		&stubAgreements{},
	)

	dto, err := h.Handle(context.Background())
	assert.NoError(t, err)
	assert.Zero(t, dto.TotalStudents)
	assert.Zero(t, dto.AgreementPercentage)
	assert.Nil(t, dto.ActiveRulesVersion)
	assert.Zero(t, dto.CurrentVersionAgreements)
}

func TestRulesAnalytics_NoActiveVersion(t *testing.T) {
	// Student counts still come back when nothing is published yet.
	h := NewRulesAnalyticsHandler(
		&stubStudents{total: 5, agreed: 0},
		&stubDocs{},
		&stubAgreements{},
	)

	dto, err := h.Handle(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 5, dto.TotalStudents)
	assert.Equal(t, 5, dto.StudentsNotAgreed)
	assert.Nil(t, dto.ActiveRulesVersion)
}

func TestRulesAnalytics_PercentageRounding(t *testing.T) {
	doc, err := rules.NewDocument("doc-1", "text", "v1.0", "admin-1")
	assert.NoError(t, err)

	h := NewRulesAnalyticsHandler(
		&stubStudents{total: 3, agreed: 1},
		&stubDocs{active: doc},
		&stubAgreements{},
	)

	dto, err := h.Handle(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 33.33, dto.AgreementPercentage)
}
