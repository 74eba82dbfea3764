package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/lmoretti/taskvault-be/internal/apperr"
	"github.com/lmoretti/taskvault-be/internal/models"
	"github.com/lmoretti/taskvault-be/internal/sanitize"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(ctx context.Context, email, password string) (models.User, error)
	Authenticate(ctx context.Context, email, password string) (models.User, error)
	GetUserByID(ctx context.Context, id int64) (models.User, error)
}

// UserService provides registration and credential verification backed by
// the sqlite store. Passwords are bcrypt-hashed before storage and the
// plaintext is never persisted or logged.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	var user models.User
	row := s.db.QueryRowContext(ctx,
		"SELECT id, email, created_at, updated_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Email, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, apperr.New(apperr.KindNotFound, "User not found")
		}
		return models.User{}, apperr.Internal(err)
	}
	return user, nil
}

// getUserByEmail retrieves a user by normalized email, including the
// password hash for credential verification.
func (s *UserService) getUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	row := s.db.QueryRowContext(ctx,
		"SELECT id, email, password_hash, created_at, updated_at FROM users WHERE email = ?", email)
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Register creates a new user. The email is normalized before the
// uniqueness check so case and whitespace variants of one address cannot
// register twice.
func (s *UserService) Register(ctx context.Context, email, password string) (models.User, error) {
	email = sanitize.Email(email)

	var existing int64
	err := s.db.QueryRowContext(ctx, "SELECT id FROM users WHERE email = ?", email).Scan(&existing)
	if err == nil {
		log.Warn().Str("email", email).Msg("Registration rejected: email already registered")
		return models.User{}, apperr.New(apperr.KindEmailTaken, "Email already registered")
	}
	if err != sql.ErrNoRows {
		return models.User{}, apperr.Internal(err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, apperr.Internal(err)
	}

	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO users(email, password_hash, created_at, updated_at) VALUES(?, ?, ?, ?)",
		email, string(hashedPassword), now, now)
	if err != nil {
		// Two concurrent registrations can both pass the SELECT; the unique
		// index settles the race.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return models.User{}, apperr.New(apperr.KindEmailTaken, "Email already registered")
		}
		return models.User{}, apperr.Internal(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, apperr.Internal(err)
	}

	log.Info().Str("email", email).Int64("user_id", id).Msg("User registered")
	return models.User{ID: id, Email: email, CreatedAt: now, UpdatedAt: now}, nil
}

// Authenticate verifies a user's credentials. Unknown email and wrong
// password return the same failure, so responses do not reveal whether an
// address is registered.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	email = sanitize.Email(email)

	user, err := s.getUserByEmail(ctx, email)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Warn().Str("email", email).Msg("Failed login: unknown email")
			return models.User{}, apperr.New(apperr.KindInvalidCredentials, "Incorrect email or password")
		}
		return models.User{}, apperr.Internal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Warn().Str("email", email).Int64("user_id", user.ID).Msg("Failed login: password mismatch")
		return models.User{}, apperr.New(apperr.KindInvalidCredentials, "Incorrect email or password")
	}

	// Don't hand the hash to callers
	user.PasswordHash = ""
	return user, nil
}
