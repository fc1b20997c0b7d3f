package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorWrapsUnknownErrors(t *testing.T) {
	err := FromError(fmt.Errorf("boom"))
	assert.Equal(t, ErrInternal.Code, err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.Equal(t, ErrInternal.Message, err.Message)
}

func TestCloneKeepsSentinelIdentity(t *testing.T) {
	cloned := Clone(ErrNotFound, "student not found")
	assert.Equal(t, "student not found", cloned.Message)
	assert.Equal(t, "resource not found", ErrNotFound.Message)
	assert.True(t, errors.Is(cloned, ErrNotFound))
	assert.False(t, errors.Is(cloned, ErrForbidden))
}

func TestWithDetailsDoesNotMutateSource(t *testing.T) {
	withDetails := WithDetails(ErrValidation, FieldError{Field: "nome", Message: "required"})
	assert.Len(t, withDetails.Details, 1)
	assert.Empty(t, ErrValidation.Details)
}
