package query

import (
	"context"
	"fmt"

	"github.com/pediforte/registry/internal/domain/rules"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST RULE VERSIONS QUERY
// Returns every rules document ever published, newest first. Used by the
// admin panel to show the full version history including superseded ones.
// ══════════════════════════════════════════════════════════════════════════════

// RuleVersionDTO is a history entry; content is included so the admin
// panel can diff versions without extra round trips.
type RuleVersionDTO struct {
	ID        string `json:"id"`
	Version   string `json:"version"`
	Content   string `json:"content"`
	IsActive  bool   `json:"is_active"`
	CreatedBy string `json:"created_by,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ListRuleVersionsHandler handles the version-history query.
type ListRuleVersionsHandler struct {
	docs rules.DocumentRepository
}

// NewListRuleVersionsHandler creates a new ListRuleVersionsHandler.
func NewListRuleVersionsHandler(docs rules.DocumentRepository) *ListRuleVersionsHandler {
	return &ListRuleVersionsHandler{docs: docs}
}

// Handle returns all versions, newest first.
func (h *ListRuleVersionsHandler) Handle(ctx context.Context) ([]RuleVersionDTO, error) {
	docs, err := h.docs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list_rule_versions: failed to list documents: %w", err)
	}

	out := make([]RuleVersionDTO, 0, len(docs))
	for _, d := range docs {
		out = append(out, RuleVersionDTO{
			ID:        d.ID,
			Version:   d.Version,
			Content:   d.Content,
			IsActive:  d.Active,
			CreatedBy: d.CreatedBy,
			CreatedAt: d.CreatedAt.Format(timeFormat),
			UpdatedAt: d.UpdatedAt.Format(timeFormat),
		})
	}
	return out, nil
}

// timeFormat is RFC 3339 with second precision, matching the public API.
const timeFormat = "2006-01-02T15:04:05Z07:00"
