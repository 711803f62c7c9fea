package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"domain passthrough", NewForbidden("nope"), http.StatusForbidden, CodeForbidden},
		{"wrapped domain", fmt.Errorf("ctx: %w", NewConflict("dup", nil)), http.StatusConflict, CodeConflict},
		{"no rows", fmt.Errorf("load: %w", pgx.ErrNoRows), http.StatusNotFound, CodeNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}, http.StatusConflict, CodeConflict},
		{"other pg error", &pgconn.PgError{Code: "23503"}, http.StatusInternalServerError, CodeInternal},
		{"fiber 404", fiber.ErrNotFound, http.StatusNotFound, CodeNotFound},
		{"fiber 405", fiber.ErrMethodNotAllowed, http.StatusMethodNotAllowed, CodeMethodNotAllowed},
		{"fiber 413", fiber.ErrRequestEntityTooLarge, http.StatusRequestEntityTooLarge, CodeValidation},
		{"fiber 503", fiber.ErrServiceUnavailable, http.StatusInternalServerError, CodeInternal},
		{"plain error", errors.New("socket closed"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDomainError(tt.err)
			require.Equal(t, tt.wantStatus, got.HTTPStatus)
			require.Equal(t, tt.wantCode, got.Code)
		})
	}
	require.Nil(t, ToDomainError(nil))
}

func TestInternalErrorHidesCause(t *testing.T) {
	cause := errors.New("password=hunter2 connection refused")
	err := NewInternalError(cause)

	domainErr := ToDomainError(err)
	require.Equal(t, "internal server error", domainErr.Message)
	require.ErrorIs(t, err, cause)
}

func TestWrap(t *testing.T) {
	require.NoError(t, Wrap("op", nil))

	forbidden := NewForbidden("no")
	require.Same(t, forbidden, Wrap("op", forbidden))

	notFound := ToDomainError(Wrap("complaint.load", pgx.ErrNoRows))
	require.Equal(t, http.StatusNotFound, notFound.HTTPStatus)

	wrapped := Wrap("complaint.assign", errors.New("timeout"))
	domainErr := ToDomainError(wrapped)
	require.Equal(t, http.StatusInternalServerError, domainErr.HTTPStatus)
	require.Contains(t, domainErr.Error(), "complaint.assign")
}

func TestNewNotFoundMessage(t *testing.T) {
	err := ToDomainError(NewNotFound("complaint", map[string]any{"complaint_id": 4}))
	require.Equal(t, "complaint not found", err.Message)
	require.Equal(t, 4, err.Details["complaint_id"])
}
