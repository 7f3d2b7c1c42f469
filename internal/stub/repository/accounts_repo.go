package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/crewbase/crewbase-go/pkg/domain"
)

// Account is an auth user row with its password hash.
type Account struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	FullName     *string
	CreatedAt    time.Time
}

// AccountsRepository handles auth user persistence.
type AccountsRepository struct {
	db *sql.DB
}

// NewAccountsRepository creates a new accounts repository.
func NewAccountsRepository(db *sql.DB) *AccountsRepository {
	return &AccountsRepository{db: db}
}

// Create creates a new account.
func (r *AccountsRepository) Create(ctx context.Context, account *Account) error {
	return r.CreateTx(ctx, r.db, account)
}

// CreateTx creates a new account within a transaction.
func (r *AccountsRepository) CreateTx(ctx context.Context, q Querier, account *Account) error {
	query := `
		INSERT INTO auth_users (id, email, password_hash, full_name, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := q.ExecContext(ctx, query,
		account.ID,
		account.Email,
		account.PasswordHash,
		account.FullName,
		account.CreatedAt,
	)
	return err
}

// GetByEmail retrieves an account by email.
func (r *AccountsRepository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	query := `
		SELECT id, email, password_hash, full_name, created_at
		FROM auth_users
		WHERE email = $1
	`

	var account Account
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.FullName,
		&account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	return &account, nil
}

// GetByID retrieves an account by id.
func (r *AccountsRepository) GetByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	query := `
		SELECT id, email, password_hash, full_name, created_at
		FROM auth_users
		WHERE id = $1
	`

	var account Account
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.FullName,
		&account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	return &account, nil
}

// ExistsByEmail reports whether an account with the email exists.
func (r *AccountsRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM auth_users WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}
