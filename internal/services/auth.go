package services

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/reflectai/reflect-backend/internal/apperrors"
	"github.com/reflectai/reflect-backend/internal/database"
	"github.com/reflectai/reflect-backend/internal/models"
	"github.com/reflectai/reflect-backend/pkg/utils"
)

// DefaultDisplayName is used when an account has no display name on record.
const DefaultDisplayName = "User"

const minPasswordLength = 6

// Login verifies credentials against Postgres and opens a Redis session.
// Returns the user and the opaque session token.
func Login(ctx context.Context, email, password string) (models.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return models.User{}, "", apperrors.New(apperrors.CodeAuth, "Email and password are required")
	}

	var (
		user models.User
		hash string
		name sql.NullString
	)
	err := database.PostgresDB.QueryRowContext(ctx, `
		SELECT id, created_at, email, name, password_hash
		FROM users WHERE LOWER(email) = $1
	`, email).Scan(&user.ID, &user.CreatedAt, &user.Email, &name, &hash)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, "", apperrors.New(apperrors.CodeAuth, "Invalid email or password")
		}
		return models.User{}, "", apperrors.Wrap(apperrors.CodeAuth, "Database error", err)
	}

	valid, err := utils.VerifyPassword(password, hash)
	if err != nil || !valid {
		return models.User{}, "", apperrors.New(apperrors.CodeAuth, "Invalid email or password")
	}

	user.Name = strings.TrimSpace(name.String)
	if user.Name == "" {
		user.Name = DefaultDisplayName
	}

	token, err := CreateSession(ctx, user.ID)
	if err != nil {
		return models.User{}, "", apperrors.Wrap(apperrors.CodeAuth, "Failed to create session", err)
	}

	return user, token, nil
}

// Signup creates an account. It does not open a session: callers query
// CurrentUser separately, so an "account created" response is distinct from
// an active login.
func Signup(ctx context.Context, email, name, password string) (models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	name = strings.TrimSpace(name)
	if email == "" || name == "" || password == "" {
		return models.User{}, apperrors.New(apperrors.CodeValidation, "Name, email, and password are required")
	}
	if len(password) < minPasswordLength {
		return models.User{}, apperrors.New(apperrors.CodeAuth, "Password must be at least 6 characters")
	}

	var existing string
	err := database.PostgresDB.QueryRowContext(ctx,
		"SELECT email FROM users WHERE LOWER(email) = $1", email).Scan(&existing)
	if err == nil {
		return models.User{}, apperrors.New(apperrors.CodeDuplicate, "User with this email already exists")
	} else if err != sql.ErrNoRows {
		return models.User{}, apperrors.Wrap(apperrors.CodeAuth, "Database error", err)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return models.User{}, apperrors.Wrap(apperrors.CodeAuth, "Failed to hash password", err)
	}

	user := models.User{
		ID:        uuid.NewString(),
		Email:     email,
		Name:      name,
		CreatedAt: time.Now(),
	}

	_, err = database.PostgresDB.ExecContext(ctx, `
		INSERT INTO users (id, created_at, updated_at, email, name, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, user.ID, user.CreatedAt, user.CreatedAt, user.Email, user.Name, hash)
	if err != nil {
		// A concurrent signup can slip past the existence check and land on
		// the unique constraint instead.
		if isUniqueViolation(err) {
			return models.User{}, apperrors.New(apperrors.CodeDuplicate, "User with this email already exists")
		}
		return models.User{}, apperrors.Wrap(apperrors.CodeAuth, "Failed to create user", err)
	}

	return user, nil
}

// isUniqueViolation reports whether err is Postgres unique_violation (23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// CurrentUser resolves a session token to its user. A missing or expired
// session returns (nil, nil); an error means the lookup itself failed.
func CurrentUser(ctx context.Context, token string) (*models.User, error) {
	userID, ok, err := ValidateSession(ctx, token)
	if err != nil || !ok {
		return nil, err
	}

	var (
		user models.User
		name sql.NullString
	)
	err = database.PostgresDB.QueryRowContext(ctx, `
		SELECT id, created_at, email, name FROM users WHERE id = $1
	`, userID).Scan(&user.ID, &user.CreatedAt, &user.Email, &name)
	if err != nil {
		if err == sql.ErrNoRows {
			// Session points at a deleted account; treat as signed out.
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.CodeAuth, "Database error", err)
	}

	user.Name = strings.TrimSpace(name.String)
	if user.Name == "" {
		user.Name = DefaultDisplayName
	}
	return &user, nil
}

// Logout clears the session. Idempotent; backend errors are logged, never
// returned to the caller.
func Logout(ctx context.Context, token string) {
	if err := InvalidateSession(ctx, token); err != nil {
		log.Printf("[Logout] failed to invalidate session: %v", err)
	}
}
