package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors_SetTypeAndCode(t *testing.T) {
	tests := []struct {
		err      *AppError
		wantType ErrorType
		wantCode int
	}{
		{NewValidationError("bad"), ErrorTypeValidation, http.StatusBadRequest},
		{NewNotFoundError("missing"), ErrorTypeNotFound, http.StatusNotFound},
		{NewConflictError("closed"), ErrorTypeConflict, http.StatusConflict},
		{NewUnauthorizedError("who"), ErrorTypeUnauthorized, http.StatusUnauthorized},
		{NewForbiddenError("no"), ErrorTypeForbidden, http.StatusForbidden},
		{NewInternalError("boom"), ErrorTypeInternal, http.StatusInternalServerError},
		{NewBadRequestError("twice"), ErrorTypeBadRequest, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(string(tt.wantType), func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantCode, tt.err.Code)
		})
	}
}

func TestAppError_SentinelSurvivesWrapping(t *testing.T) {
	sentinel := NewNotFoundError("ticket not found")
	wrapped := fmt.Errorf("submit message: %w", sentinel)

	assert.True(t, errors.Is(wrapped, sentinel))
	assert.True(t, IsNotFoundError(wrapped))
	assert.False(t, IsConflictError(wrapped))

	appErr := GetAppError(wrapped)
	require.NotNil(t, appErr)
	assert.Equal(t, "ticket not found", appErr.Message)
}

func TestAppError_ErrorString(t *testing.T) {
	assert.Equal(t, "validation_error: bad input (field x)", NewValidationError("bad input", "field x").Error())
	assert.Equal(t, "conflict: closed", NewConflictError("closed").Error())
	assert.Nil(t, GetAppError(errors.New("plain")))
}
