package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/klar/internal/errors"
)

func TestAppError_Constructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *errors.AppError
		code   string
		status int
	}{
		{"not found", errors.NewNotFoundError("card", 3), errors.ErrCodeNotFound, http.StatusNotFound},
		{"validation", errors.NewValidationError("name", "required"), errors.ErrCodeValidation, http.StatusBadRequest},
		{"bad request", errors.NewBadRequestError("bad json"), errors.ErrCodeBadRequest, http.StatusBadRequest},
		{"conflict", errors.NewConflictError("set exists"), errors.ErrCodeConflict, http.StatusConflict},
		{"internal", errors.NewInternalError(stderrors.New("boom")), errors.ErrCodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.Status)
			assert.Contains(t, tt.err.Error(), tt.code)
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	sentinel := stderrors.New("invalid card state")
	err := fmt.Errorf("service: %w", errors.WrapValidationError("card", sentinel))

	assert.ErrorIs(t, err, sentinel)
	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeValidation, appErr.Code)
	assert.False(t, errors.IsNotFound(err))
	assert.True(t, errors.IsNotFound(errors.NewNotFoundError("session", 1)))
}
