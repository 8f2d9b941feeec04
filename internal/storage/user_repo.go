package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_user_store.go -package=mocks editor-note/internal/storage UserStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UserStore defines the interface for user storage operations.
type UserStore interface {
	// GetByLogin gets a user by login. Returns ErrNotFound if not found.
	GetByLogin(ctx context.Context, login string) (*UserRecord, error)
	// GetOrCreateByLogin gets a user by login, creating it with displayName
	// and no capabilities when it doesn't exist.
	GetOrCreateByLogin(ctx context.Context, login, displayName string) (*UserRecord, error)
	// Upsert inserts a user or updates display name and capabilities by login.
	Upsert(ctx context.Context, user *UserRecord) error
}

// UserRepo provides methods for user operations.
// It implements the UserStore interface.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// GetByLogin gets a user by login.
func (r *UserRepo) GetByLogin(ctx context.Context, login string) (*UserRecord, error) {
	var (
		user      UserRecord
		caps      string
		createdAt string
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT id, login, display_name, capabilities, created_at FROM users WHERE login = ?",
		login,
	).Scan(&user.ID, &user.Login, &user.DisplayName, &caps, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	user.Capabilities = splitCapabilities(caps)
	if user.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetOrCreateByLogin gets an existing user by login, or creates it.
func (r *UserRepo) GetOrCreateByLogin(ctx context.Context, login, displayName string) (*UserRecord, error) {
	user, err := r.GetByLogin(ctx, login)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if displayName == "" {
		displayName = login
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO users (id, login, display_name, capabilities, created_at)
		 VALUES (?, ?, ?, '', ?)
		 ON CONFLICT (login) DO NOTHING`,
		uuid.New().String(), login, displayName, formatTimestamp(time.Now()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return r.GetByLogin(ctx, login)
}

// Upsert inserts a new user or updates an existing one by login.
// The existing ID is preserved and written back to user.
func (r *UserRepo) Upsert(ctx context.Context, user *UserRecord) error {
	if user.Login == "" {
		return fmt.Errorf("failed to upsert user: empty login")
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, login, display_name, capabilities, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (login) DO UPDATE SET
		 display_name = excluded.display_name, capabilities = excluded.capabilities`,
		user.ID, user.Login, user.DisplayName, joinCapabilities(user.Capabilities), formatTimestamp(user.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	stored, err := r.GetByLogin(ctx, user.Login)
	if err != nil {
		return err
	}
	user.ID = stored.ID
	user.CreatedAt = stored.CreatedAt
	return nil
}
