// Package query contains read operations following CQRS pattern.
// Queries never modify state - they only read and return data.
// Each query is a self-contained use case with its own request/response types.
package query

import (
	"context"
	"fmt"
	"time"

	"github.com/pediforte/registry/internal/domain/rules"
	"github.com/pediforte/registry/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET ACTIVE RULES QUERY
// Returns the currently active rules document. When no version has ever
// been published, an empty default with version "1.0" is returned so
// public callers always get a renderable payload.
// ══════════════════════════════════════════════════════════════════════════════

// activeRulesCacheTTL bounds staleness between publish and cache expiry.
// Publish and Update also invalidate the cache explicitly.
const activeRulesCacheTTL = 5 * time.Minute

// RulesDocumentDTO is the read model for a rules document.
type RulesDocumentDTO struct {
	ID        string    `json:"id,omitempty"`
	Content   string    `json:"content"`
	Version   string    `json:"version"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

func newRulesDocumentDTO(d *rules.Document) RulesDocumentDTO {
	return RulesDocumentDTO{
		ID:        d.ID,
		Content:   d.Content,
		Version:   d.Version,
		IsActive:  d.Active,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// GetActiveRulesHandler handles the active-rules query.
type GetActiveRulesHandler struct {
	docs  rules.DocumentRepository
	cache rules.ActiveDocumentCache // optional read-through cache
}

// NewGetActiveRulesHandler creates a new GetActiveRulesHandler.
func NewGetActiveRulesHandler(docs rules.DocumentRepository, cache rules.ActiveDocumentCache) *GetActiveRulesHandler {
	return &GetActiveRulesHandler{docs: docs, cache: cache}
}

// Handle returns the active document, falling back to the empty default.
func (h *GetActiveRulesHandler) Handle(ctx context.Context) (RulesDocumentDTO, error) {
	if h.cache != nil {
		if doc, err := h.cache.Get(ctx); err == nil && doc != nil {
			return newRulesDocumentDTO(doc), nil
		}
	}

	doc, err := h.docs.GetActive(ctx)
	if err != nil {
		if shared.IsNotFound(err) {
			return newRulesDocumentDTO(rules.EmptyDefault()), nil
		}
		return RulesDocumentDTO{}, fmt.Errorf("get_active_rules: failed to load active document: %w", err)
	}

	if h.cache != nil {
		_ = h.cache.Set(ctx, doc, activeRulesCacheTTL)
	}

	return newRulesDocumentDTO(doc), nil
}
