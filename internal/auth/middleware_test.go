package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmoretti/taskvault-be/internal/apperr"
	"github.com/lmoretti/taskvault-be/internal/models"
)

type stubUserLookup struct {
	users map[int64]models.User
}

func (s *stubUserLookup) GetUserByID(_ context.Context, id int64) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, apperr.New(apperr.KindNotFound, "User not found")
	}
	return user, nil
}

func resolverUnderTest(t *testing.T) (*TokenCodec, http.Handler, *Identity) {
	t.Helper()
	codec := NewTokenCodec(testSecret, time.Hour)
	lookup := &stubUserLookup{users: map[int64]models.User{
		42: {ID: 42, Email: "alice@example.com"},
	}}

	var seen Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		require.True(t, ok)
		seen = id
		w.WriteHeader(http.StatusOK)
	})
	return codec, Middleware(codec, lookup)(next), &seen
}

func doRequest(handler http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func errorKind(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body apperr.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	return string(body.Error.Kind)
}

func TestMiddlewareMissingCredentials(t *testing.T) {
	_, handler, _ := resolverUnderTest(t)

	for _, header := range []string{"", "Bearer ", "Basic dXNlcjpwdw==", "Token abc"} {
		rr := doRequest(handler, header)
		assert.Equal(t, http.StatusForbidden, rr.Code, "header %q", header)
		assert.Equal(t, "unauthenticated", errorKind(t, rr), "header %q", header)
	}
}

func TestMiddlewareInvalidToken(t *testing.T) {
	_, handler, _ := resolverUnderTest(t)

	rr := doRequest(handler, "Bearer not.a.valid.jwt")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "token_malformed", errorKind(t, rr))
}

func TestMiddlewareExpiredToken(t *testing.T) {
	_, handler, _ := resolverUnderTest(t)
	token := signedToken(t, testSecret, jwt.SigningMethodHS256, "42", time.Now().Add(-time.Hour))

	rr := doRequest(handler, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "token_expired", errorKind(t, rr))
	assert.Contains(t, rr.Body.String(), "expired")
}

func TestMiddlewareEmptySubject(t *testing.T) {
	_, handler, _ := resolverUnderTest(t)

	// correctly signed, unexpired, but no subject: invalid regardless
	token := signedToken(t, testSecret, jwt.SigningMethodHS256, "", time.Now().Add(time.Hour))

	rr := doRequest(handler, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "invalid_credentials", errorKind(t, rr))
}

func TestMiddlewareNonNumericSubject(t *testing.T) {
	_, handler, _ := resolverUnderTest(t)
	token := signedToken(t, testSecret, jwt.SigningMethodHS256, "1 OR 1=1", time.Now().Add(time.Hour))

	rr := doRequest(handler, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "invalid_credentials", errorKind(t, rr))
}

func TestMiddlewareDeletedUser(t *testing.T) {
	_, handler, _ := resolverUnderTest(t)

	// valid token whose subject has no live user record
	token := signedToken(t, testSecret, jwt.SigningMethodHS256, "9999", time.Now().Add(time.Hour))

	rr := doRequest(handler, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "invalid_credentials", errorKind(t, rr))
}

func TestMiddlewareResolvesLiveIdentity(t *testing.T) {
	codec, handler, seen := resolverUnderTest(t)

	token, err := codec.Issue("42")
	require.NoError(t, err)

	rr := doRequest(handler, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, Identity{ID: 42, Email: "alice@example.com"}, *seen)
}
