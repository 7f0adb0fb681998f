package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/tendant/simple-signup/pkg/account/migrations"
)

const uniqueViolation = "23505"

const accountColumns = `id, identifier, email, credential, COALESCE(verification_token, ''),
		verification_token_expires_at, verified_at, created_at, updated_at`

// PostgresRepository handles account persistence in PostgreSQL. Uniqueness is
// enforced by the constraints created in the migrations package.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new Postgres account repository
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Migrate applies the embedded goose migrations.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindByIdentifier(ctx context.Context, identifier string) (Account, error) {
	query := `SELECT ` + accountColumns + ` FROM signup_accounts WHERE identifier = $1`
	return r.queryOne(ctx, query, identifier)
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (Account, error) {
	query := `SELECT ` + accountColumns + ` FROM signup_accounts WHERE email = $1`
	return r.queryOne(ctx, query, email)
}

func (r *PostgresRepository) FindByToken(ctx context.Context, token string) (Account, error) {
	if token == "" {
		return Account{}, ErrAccountNotFound
	}
	query := `SELECT ` + accountColumns + ` FROM signup_accounts WHERE verification_token = $1`
	return r.queryOne(ctx, query, token)
}

func (r *PostgresRepository) Create(ctx context.Context, acct Account) (Account, error) {
	query := `
		INSERT INTO signup_accounts (id, identifier, email, credential, verification_token,
			verification_token_expires_at, verified_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9)
		RETURNING ` + accountColumns

	return r.queryOne(ctx, query,
		acct.ID,
		acct.Identifier,
		acct.Email,
		acct.Credential,
		acct.VerificationToken,
		acct.VerificationTokenExpiresAt,
		acct.VerifiedAt,
		acct.CreatedAt,
		acct.UpdatedAt,
	)
}

func (r *PostgresRepository) Update(ctx context.Context, acct Account, expectedToken string) (Account, error) {
	query := `
		UPDATE signup_accounts
		SET email = $2,
			credential = $3,
			verification_token = NULLIF($4, ''),
			verification_token_expires_at = $5,
			verified_at = $6,
			updated_at = $7
		WHERE id = $1
			AND verification_token IS NOT DISTINCT FROM NULLIF($8, '')
		RETURNING ` + accountColumns

	updated, err := r.queryOne(ctx, query,
		acct.ID,
		acct.Email,
		acct.Credential,
		acct.VerificationToken,
		acct.VerificationTokenExpiresAt,
		acct.VerifiedAt,
		acct.UpdatedAt,
		expectedToken,
	)
	if errors.Is(err, ErrAccountNotFound) {
		// No row matched: either the id is gone or the token moved on.
		var exists bool
		if qerr := r.db.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM signup_accounts WHERE id = $1)`, acct.ID,
		).Scan(&exists); qerr != nil {
			return Account{}, qerr
		}
		if exists {
			return Account{}, ErrStaleToken
		}
	}
	return updated, err
}

func (r *PostgresRepository) queryOne(ctx context.Context, query string, args ...any) (Account, error) {
	var acct Account
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&acct.ID,
		&acct.Identifier,
		&acct.Email,
		&acct.Credential,
		&acct.VerificationToken,
		&acct.VerificationTokenExpiresAt,
		&acct.VerifiedAt,
		&acct.CreatedAt,
		&acct.UpdatedAt,
	)
	if err != nil {
		return Account{}, translatePgError(err)
	}
	return acct, nil
}

func translatePgError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrAccountNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		switch pgErr.ConstraintName {
		case "signup_accounts_identifier_key":
			return ErrDuplicateIdentifier
		case "signup_accounts_email_key":
			return ErrDuplicateEmail
		case "signup_accounts_verification_token_key":
			return ErrDuplicateToken
		}
	}
	return err
}
