package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmoretti/taskvault-be/internal/apperr"
)

func TestRegisterNormalizesEmail(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)

	user, err := users.Register(context.Background(), "  Alice@Example.COM ", "pw12345678")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Empty(t, user.PasswordHash)

	// case/whitespace variants of the same address collide
	_, err = users.Register(context.Background(), "ALICE@example.com", "pw12345678")
	require.Error(t, err)
	assert.Equal(t, apperr.KindEmailTaken, apperr.KindOf(err))
	assert.Equal(t, "Email already registered", apperr.MessageOf(err))
}

func TestRegisterNeverStoresPlaintext(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)

	registerUser(t, users, "alice@example.com")

	var hash string
	require.NoError(t, db.QueryRow("SELECT password_hash FROM users WHERE email = ?", "alice@example.com").Scan(&hash))
	assert.NotEqual(t, "pw12345678", hash)
	assert.NotContains(t, hash, "pw12345678")
}

func TestAuthenticate(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	registerUser(t, users, "alice@example.com")

	user, err := users.Authenticate(context.Background(), "Alice@Example.com", "pw12345678")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Empty(t, user.PasswordHash)
}

func TestAuthenticateUniformFailure(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	registerUser(t, users, "alice@example.com")

	// wrong password and unknown email are indistinguishable to the caller
	_, wrongPw := users.Authenticate(context.Background(), "alice@example.com", "wrong-password")
	_, unknown := users.Authenticate(context.Background(), "nobody@example.com", "pw12345678")

	require.Error(t, wrongPw)
	require.Error(t, unknown)
	assert.Equal(t, apperr.KindInvalidCredentials, apperr.KindOf(wrongPw))
	assert.Equal(t, apperr.KindInvalidCredentials, apperr.KindOf(unknown))
	assert.Equal(t, apperr.MessageOf(wrongPw), apperr.MessageOf(unknown))
}

func TestGetUserByID(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	created := registerUser(t, users, "alice@example.com")

	user, err := users.GetUserByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)

	_, err = users.GetUserByID(context.Background(), 9999)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
