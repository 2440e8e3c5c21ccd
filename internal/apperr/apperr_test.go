package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindMatching(t *testing.T) {
	err := fmt.Errorf("resolve: %w", NotFound("Task not found"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrForbidden))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestInternalUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("failed to load task", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestValidationCarriesFields(t *testing.T) {
	err := Validation([]FieldError{{Field: "title", Message: "Title is required"}})

	assert.Equal(t, KindBadRequest, err.Kind)
	assert.Equal(t, "Validation failed", err.Message)
	assert.Len(t, err.Fields, 1)
}
