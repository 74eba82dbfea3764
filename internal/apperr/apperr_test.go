package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	err := New(KindForbidden, "Not authorized to access this task")
	assert.Equal(t, KindForbidden, KindOf(err))

	wrapped := fmt.Errorf("handler: %w", err)
	assert.Equal(t, KindForbidden, KindOf(wrapped))

	assert.Equal(t, KindInternal, KindOf(errors.New("disk on fire")))
}

func TestMessageOfHidesUnknownErrors(t *testing.T) {
	assert.Equal(t, "boom", MessageOf(New(KindValidation, "boom")))
	assert.Equal(t, "an unexpected error occurred", MessageOf(errors.New("sqlite: database is locked")))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("row not found")
	err := Wrap(KindNotFound, "Task not found", cause)
	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "row not found")
	assert.Equal(t, "Task not found", MessageOf(err))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindEmailTaken:         http.StatusBadRequest,
		KindInvalidCredentials: http.StatusUnauthorized,
		KindTokenExpired:       http.StatusUnauthorized,
		KindTokenMalformed:     http.StatusUnauthorized,
		KindTokenSignature:     http.StatusUnauthorized,
		KindUnauthenticated:    http.StatusForbidden,
		KindForbidden:          http.StatusForbidden,
		KindNotFound:           http.StatusNotFound,
		KindValidation:         http.StatusUnprocessableEntity,
		KindInternal:           http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, HTTPStatus(kind), "kind %s", kind)
	}
}
