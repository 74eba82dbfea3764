package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lmoretti/taskvault-be/internal/auth"
	"github.com/lmoretti/taskvault-be/internal/database"
	"github.com/lmoretti/taskvault-be/internal/models"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func registerUser(t *testing.T, users *UserService, email string) models.User {
	t.Helper()
	user, err := users.Register(context.Background(), email, "pw12345678")
	require.NoError(t, err)
	return user
}

func asIdentity(u models.User) auth.Identity {
	return auth.Identity{ID: u.ID, Email: u.Email}
}
