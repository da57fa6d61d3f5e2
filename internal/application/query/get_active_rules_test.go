package query

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pediforte/registry/internal/domain/rules"
)

func TestGetActiveRules(t *testing.T) {
	doc, err := rules.NewDocument("doc-1", "Be kind.", "v1.0", "admin-1")
	assert.NoError(t, err)
	h := NewGetActiveRulesHandler(&stubDocs{active: doc}, nil)

	dto, err := h.Handle(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "doc-1", dto.ID)
	assert.Equal(t, "Be kind.", dto.Content)
	assert.Equal(t, "v1.0", dto.Version)
	assert.True(t, dto.IsActive)
}

func TestGetActiveRules_EmptyDefault(t *testing.T) {
	// Before anything is published readers still get a well-formed
	// payload instead of a 404.
	h := NewGetActiveRulesHandler(&stubDocs{}, nil)

	dto, err := h.Handle(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, dto.Content)
	assert.Equal(t, rules.DefaultVersion, dto.Version)
	assert.False(t, dto.IsActive)
}

func TestGetActiveRules_CacheReadThrough(t *testing.T) {
	doc, err := rules.NewDocument("doc-1", "Be kind.", "v1.0", "admin-1")
	assert.NoError(t, err)
	cache := &stubCache{}
	h := NewGetActiveRulesHandler(&stubDocs{active: doc}, cache)

	// First read misses the cache and fills it.
	dto, err := h.Handle(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "doc-1", dto.ID)
	assert.Equal(t, 1, cache.sets)

	// Second read is served from cache.
	dto, err = h.Handle(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "doc-1", dto.ID)
	assert.Equal(t, 1, cache.sets)
}

func TestGetActiveRules_EmptyDefaultNotCached(t *testing.T) {
	cache := &stubCache{}
	h := NewGetActiveRulesHandler(&stubDocs{}, cache)

	_, err := h.Handle(context.Background())
	assert.NoError(t, err)
	assert.Zero(t, cache.sets)
}

func TestGetActiveRules_RepositoryError(t *testing.T) {
	boom := errors.New("connection reset")
	h := NewGetActiveRulesHandler(&stubDocs{err: boom}, nil)

	_, err := h.Handle(context.Background())
	assert.ErrorIs(t, err, boom)
}
