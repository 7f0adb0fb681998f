package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// accountRecord is the gorm model for the SQLite store. A nil token is stored
// as NULL so the unique index admits any number of accounts without one.
type accountRecord struct {
	ID                         string     `gorm:"primaryKey"`
	Identifier                 string     `gorm:"uniqueIndex;not null"`
	Email                      string     `gorm:"uniqueIndex;not null"`
	Credential                 string     `gorm:"not null"`
	VerificationToken          *string    `gorm:"uniqueIndex"`
	VerificationTokenExpiresAt *time.Time
	VerifiedAt                 *time.Time
	CreatedAt                  time.Time
	UpdatedAt                  time.Time
}

func (accountRecord) TableName() string {
	return "signup_accounts"
}

func toRecord(acct Account) accountRecord {
	rec := accountRecord{
		ID:                         acct.ID.String(),
		Identifier:                 acct.Identifier,
		Email:                      acct.Email,
		Credential:                 acct.Credential,
		VerificationTokenExpiresAt: acct.VerificationTokenExpiresAt,
		VerifiedAt:                 acct.VerifiedAt,
		CreatedAt:                  acct.CreatedAt,
		UpdatedAt:                  acct.UpdatedAt,
	}
	if acct.VerificationToken != "" {
		tok := acct.VerificationToken
		rec.VerificationToken = &tok
	}
	return rec
}

func (rec accountRecord) toAccount() (Account, error) {
	id, err := uuid.Parse(rec.ID)
	if err != nil {
		return Account{}, fmt.Errorf("corrupt account id %q: %w", rec.ID, err)
	}
	acct := Account{
		ID:                         id,
		Identifier:                 rec.Identifier,
		Email:                      rec.Email,
		Credential:                 rec.Credential,
		VerificationTokenExpiresAt: rec.VerificationTokenExpiresAt,
		VerifiedAt:                 rec.VerifiedAt,
		CreatedAt:                  rec.CreatedAt,
		UpdatedAt:                  rec.UpdatedAt,
	}
	if rec.VerificationToken != nil {
		acct.VerificationToken = *rec.VerificationToken
	}
	return acct, nil
}

// SQLiteRepository persists accounts with gorm on SQLite.
type SQLiteRepository struct {
	db *gorm.DB
}

// OpenSQLite opens (or creates) the database file at path and migrates the schema.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite database, %w", err)
	}

	if err := db.AutoMigrate(&accountRecord{}); err != nil {
		return nil, fmt.Errorf("failed to automigrate tables, %w", err)
	}
	return db, nil
}

func NewSQLiteRepository(db *gorm.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) FindByIdentifier(ctx context.Context, identifier string) (Account, error) {
	return r.first(ctx, "identifier = ?", identifier)
}

func (r *SQLiteRepository) FindByEmail(ctx context.Context, email string) (Account, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *SQLiteRepository) FindByToken(ctx context.Context, token string) (Account, error) {
	if token == "" {
		return Account{}, ErrAccountNotFound
	}
	return r.first(ctx, "verification_token = ?", token)
}

func (r *SQLiteRepository) first(ctx context.Context, cond string, arg any) (Account, error) {
	var recs []accountRecord
	if err := r.db.WithContext(ctx).Where(cond, arg).Limit(1).Find(&recs).Error; err != nil {
		return Account{}, err
	}
	if len(recs) == 0 {
		return Account{}, ErrAccountNotFound
	}
	return recs[0].toAccount()
}

func (r *SQLiteRepository) Create(ctx context.Context, acct Account) (Account, error) {
	if acct.ID == uuid.Nil {
		acct.ID = uuid.New()
	}
	rec := toRecord(acct)

	err := r.db.WithContext(ctx).Create(&rec).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return Account{}, r.duplicateCause(ctx, acct)
	}
	if err != nil {
		return Account{}, err
	}
	return rec.toAccount()
}

// duplicateCause works out which unique column rejected acct. The translated
// gorm error does not carry the constraint name.
func (r *SQLiteRepository) duplicateCause(ctx context.Context, acct Account) error {
	if _, err := r.FindByIdentifier(ctx, acct.Identifier); err == nil {
		return ErrDuplicateIdentifier
	}
	if _, err := r.FindByEmail(ctx, acct.Email); err == nil {
		return ErrDuplicateEmail
	}
	return ErrDuplicateToken
}

func (r *SQLiteRepository) Update(ctx context.Context, acct Account, expectedToken string) (Account, error) {
	rec := toRecord(acct)

	result := r.db.WithContext(ctx).
		Model(&accountRecord{}).
		Where("id = ? AND COALESCE(verification_token, '') = ?", rec.ID, expectedToken).
		Select("email", "credential", "verification_token", "verification_token_expires_at", "verified_at", "updated_at").
		Updates(&rec)
	if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
		return Account{}, ErrDuplicateToken
	}
	if result.Error != nil {
		return Account{}, result.Error
	}
	if result.RowsAffected == 0 {
		var n int64
		if err := r.db.WithContext(ctx).Model(&accountRecord{}).Where("id = ?", rec.ID).Count(&n).Error; err != nil {
			return Account{}, err
		}
		if n > 0 {
			return Account{}, ErrStaleToken
		}
		return Account{}, ErrAccountNotFound
	}
	return r.first(ctx, "id = ?", rec.ID)
}
