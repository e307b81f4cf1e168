package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilders_SetKindAndStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		kind     Kind
		status   int
		sentinel error
	}{
		{"not found", ResourceNotFound("drink missing"), KindResourceNotFound, http.StatusNotFound, ErrNotFound},
		{"conflict", ResourceConflict("drink exists"), KindResourceConflict, http.StatusConflict, ErrAlreadyExists},
		{"resource", ResourceFailure("user not found"), KindResource, http.StatusBadRequest, ErrResource},
		{"parameters", Parameters("bad rating"), KindParameters, http.StatusBadRequest, ErrInvalidInput},
		{"unauthorized", Unauthorized("bad token"), KindUnauthorized, http.StatusUnauthorized, ErrUnauthorized},
		{"system", System("boom"), KindSystem, http.StatusInternalServerError, ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.err.Kind)
			assert.Equal(t, tt.status, tt.err.Status)
			assert.ErrorIs(t, tt.err, tt.sentinel)
		})
	}
}

func TestNotFound_Message(t *testing.T) {
	err := NotFound("drink", "abc")
	assert.Equal(t, "drink with id abc not found", err.Message)
	assert.Equal(t, "ResourceNotFoundError: drink with id abc not found", err.Error())
}

func TestAlreadyExists_Message(t *testing.T) {
	err := AlreadyExists("user", "id", "heumsi")
	assert.Equal(t, `user with id "heumsi" already exists`, err.Message)
}

func TestFailed_PassesThroughAppError(t *testing.T) {
	original := Unauthorized("invalid access token")
	wrapped := fmt.Errorf("verify: %w", original)

	got := Failed(wrapped)

	assert.Same(t, original, got)
}

func TestFailed_MapsSentinels(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"not found", Wrap(ErrNotFound, "find drink"), KindResourceNotFound},
		{"already exists", Wrap(ErrAlreadyExists, "add drink"), KindResourceConflict},
		{"invalid", Invalid("rating %d out of range", 9), KindParameters},
		{"unauthorized", Wrap(ErrUnauthorized, "token"), KindUnauthorized},
		{"resource", Wrap(ErrResource, "login"), KindResource},
		{"anything else", errors.New("connection reset"), KindSystem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Failed(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Kind)
			assert.Equal(t, tt.err.Error(), got.Message)
		})
	}
}

func TestFailed_Nil(t *testing.T) {
	assert.Nil(t, Failed(nil))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusOK, HTTPStatus(nil))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("drink", "x")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(Invalid("bad")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}
