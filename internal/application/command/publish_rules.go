// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pediforte/registry/internal/domain/admin"
	"github.com/pediforte/registry/internal/domain/rules"
	"github.com/pediforte/registry/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PUBLISH RULES COMMAND
// Publishes a new rules-document version and makes it the single active one.
// Every previously active version is superseded in the same transaction.
// ══════════════════════════════════════════════════════════════════════════════

// PublishRulesCommand contains the data to publish a new rules version.
type PublishRulesCommand struct {
	// Content is the full rules text.
	Content string

	// Version is an optional explicit label. When empty, a label is
	// derived from the monotonic version counter as "v{N}.0".
	Version string

	// AdminID identifies the publishing admin.
	AdminID string
}

// Validate validates the command.
func (c PublishRulesCommand) Validate() error {
	if strings.TrimSpace(c.Content) == "" {
		return shared.NewDomainError("rules", "Publish", shared.ErrValidation, "rules content is required")
	}
	if c.AdminID == "" {
		return shared.NewDomainError("rules", "Publish", shared.ErrValidation, "admin id is required")
	}
	return nil
}

// PublishRulesHandler handles the PublishRulesCommand.
type PublishRulesHandler struct {
	docs   rules.DocumentRepository
	admins admin.Repository
	cache  rules.ActiveDocumentCache // optional, invalidated on publish
}

// NewPublishRulesHandler creates a new PublishRulesHandler.
func NewPublishRulesHandler(
	docs rules.DocumentRepository,
	admins admin.Repository,
	cache rules.ActiveDocumentCache,
) *PublishRulesHandler {
	return &PublishRulesHandler{docs: docs, admins: admins, cache: cache}
}

// Handle publishes a new active rules document.
func (h *PublishRulesHandler) Handle(ctx context.Context, cmd PublishRulesCommand) (*rules.Document, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	// The creator must resolve to an existing admin identity.
	publisher, err := h.admins.GetByID(ctx, cmd.AdminID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewDomainError("rules", "Publish", shared.ErrUnauthorized, "publisher is not a known admin")
		}
		return nil, fmt.Errorf("publish_rules: failed to resolve admin: %w", err)
	}

	version := cmd.Version
	if version == "" {
		n, err := h.docs.NextVersionNumber(ctx)
		if err != nil {
			return nil, fmt.Errorf("publish_rules: failed to allocate version number: %w", err)
		}
		version = fmt.Sprintf("v%d.0", n)
	}

	doc, err := rules.NewDocument(uuid.NewString(), cmd.Content, version, publisher.ID)
	if err != nil {
		return nil, err
	}

	if err := h.docs.Publish(ctx, doc); err != nil {
		return nil, fmt.Errorf("publish_rules: failed to publish document: %w", err)
	}

	if h.cache != nil {
		_ = h.cache.Invalidate(ctx)
	}

	return doc, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE RULES COMMAND
// Rewrites the active document in place without creating a new version.
// Callers that need a new version in history must use Publish instead.
// ══════════════════════════════════════════════════════════════════════════════

// UpdateRulesCommand contains the data to revise the active rules document.
type UpdateRulesCommand struct {
	// Content is the replacement rules text.
	Content string

	// Version optionally replaces the label of the active document.
	Version string

	// AdminID identifies the acting admin; used only when the update
	// degrades to a publish because no active document exists.
	AdminID string
}

// Validate validates the command.
func (c UpdateRulesCommand) Validate() error {
	if strings.TrimSpace(c.Content) == "" {
		return shared.NewDomainError("rules", "Update", shared.ErrValidation, "rules content is required")
	}
	return nil
}

// UpdateRulesResult tells the caller whether the update created a version.
type UpdateRulesResult struct {
	Document *rules.Document

	// Published is true when no active document existed and the update
	// degraded to publishing a new one.
	Published bool
}

// UpdateRulesHandler handles the UpdateRulesCommand.
type UpdateRulesHandler struct {
	docs      rules.DocumentRepository
	publisher *PublishRulesHandler
	cache     rules.ActiveDocumentCache
}

// NewUpdateRulesHandler creates a new UpdateRulesHandler.
func NewUpdateRulesHandler(
	docs rules.DocumentRepository,
	publisher *PublishRulesHandler,
	cache rules.ActiveDocumentCache,
) *UpdateRulesHandler {
	return &UpdateRulesHandler{docs: docs, publisher: publisher, cache: cache}
}

// Handle revises the active rules document in place.
func (h *UpdateRulesHandler) Handle(ctx context.Context, cmd UpdateRulesCommand) (*UpdateRulesResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	active, err := h.docs.GetActive(ctx)
	if err != nil {
		if shared.IsNotFound(err) {
			doc, err := h.publisher.Handle(ctx, PublishRulesCommand{
				Content: cmd.Content,
				Version: cmd.Version,
				AdminID: cmd.AdminID,
			})
			if err != nil {
				return nil, err
			}
			return &UpdateRulesResult{Document: doc, Published: true}, nil
		}
		return nil, fmt.Errorf("update_rules: failed to load active document: %w", err)
	}

	if err := active.Revise(cmd.Content, cmd.Version); err != nil {
		return nil, err
	}

	if err := h.docs.Update(ctx, active); err != nil {
		return nil, fmt.Errorf("update_rules: failed to update document: %w", err)
	}

	if h.cache != nil {
		_ = h.cache.Invalidate(ctx)
	}

	return &UpdateRulesResult{Document: active}, nil
}
