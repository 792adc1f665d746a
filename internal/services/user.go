package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/HammerMeetNail/paddock/internal/models"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidUsername    = errors.New("username must be 3-50 letters, digits, '_', '-' or '.'")
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,50}$`)

type UserService struct {
	db DB
}

func NewUserService(db DB) *UserService {
	return &UserService{db: db}
}

func ValidateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

func (s *UserService) Create(ctx context.Context, params models.CreateUserParams) (*models.User, error) {
	if err := ValidateUsername(params.Username); err != nil {
		return nil, err
	}

	var usernameTaken, emailTaken bool
	err := s.db.QueryRow(ctx,
		`SELECT
		   EXISTS(SELECT 1 FROM users WHERE LOWER(username) = LOWER($1)),
		   EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($2))`,
		params.Username, params.Email,
	).Scan(&usernameTaken, &emailTaken)
	if err != nil {
		return nil, fmt.Errorf("checking user existence: %w", err)
	}
	if usernameTaken {
		return nil, ErrUsernameTaken
	}
	if emailTaken {
		return nil, ErrEmailAlreadyExists
	}

	user := &models.User{}
	err = s.db.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, username, email, password_hash, created_at`,
		params.Username, strings.ToLower(params.Email), params.PasswordHash,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if isUniqueViolation(err) {
		// Lost a race with a concurrent registration.
		return nil, ErrUsernameTaken
	}
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.getOne(ctx, "id = $1", id)
}

// GetByUsername matches case-insensitively.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getOne(ctx, "LOWER(username) = LOWER($1)", strings.TrimSpace(username))
}

func (s *UserService) getOne(ctx context.Context, where string, arg any) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRow(ctx,
		`SELECT id, username, email, password_hash, created_at FROM users WHERE `+where,
		arg,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return user, nil
}

// lookupUserID resolves a username inside q, which may be a transaction.
func lookupUserID(ctx context.Context, q Querier, username string) (uuid.UUID, error) {
	var id uuid.UUID
	err := q.QueryRow(ctx,
		"SELECT id FROM users WHERE LOWER(username) = LOWER($1)",
		strings.TrimSpace(username),
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, ErrUserNotFound
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("resolving user %q: %w", username, err)
	}
	return id, nil
}
