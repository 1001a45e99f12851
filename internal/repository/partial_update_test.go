package repository

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jermer/quizzly-backend/internal/apperr"
)

func TestBuildSetClause_EmptyFields(t *testing.T) {
	_, _, err := buildSetClause(map[string]any{}, nil)
	require.Error(t, err)
	assert.True(t, apperr.IsBadRequest(err))

	_, _, err = buildSetClause(nil, map[string]string{"isPublic": "is_public"})
	require.Error(t, err)
	assert.True(t, apperr.IsBadRequest(err))
}

func TestBuildSetClause_ColumnTranslation(t *testing.T) {
	clause, values, err := buildSetClause(
		map[string]any{"isPublic": true},
		map[string]string{"isPublic": "is_public"},
	)
	require.NoError(t, err)
	assert.Equal(t, "is_public = $1", clause)
	assert.Equal(t, []any{true}, values)
}

func TestBuildSetClause_PassthroughWithoutTranslation(t *testing.T) {
	clause, values, err := buildSetClause(
		map[string]any{"q_text": "updated"},
		nil,
	)
	require.NoError(t, err)
	assert.Equal(t, "q_text = $1", clause)
	assert.Equal(t, []any{"updated"}, values)
}

func TestBuildSetClause_MultipleFields(t *testing.T) {
	clause, values, err := buildSetClause(
		map[string]any{
			"title":       "New Title",
			"description": "New Description",
			"isPublic":    true,
		},
		map[string]string{"isPublic": "is_public"},
	)
	require.NoError(t, err)

	// fields emit in sorted key order, placeholders matching values
	assert.Equal(t, "description = $1, is_public = $2, title = $3", clause)
	assert.Equal(t, []any{"New Description", true, "New Title"}, values)
}

func TestBuildSetClause_PlaceholderPerField(t *testing.T) {
	fields := map[string]any{}
	for i := 0; i < 7; i++ {
		fields[fmt.Sprintf("col%d", i)] = i
	}

	clause, values, err := buildSetClause(fields, nil)
	require.NoError(t, err)
	assert.Len(t, values, len(fields))
	for i := 1; i <= len(fields); i++ {
		assert.Contains(t, clause, fmt.Sprintf("$%d", i))
	}
	assert.NotContains(t, clause, fmt.Sprintf("$%d", len(fields)+1))
}
