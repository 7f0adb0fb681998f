package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "signup"

// RedisRepository stores each account as JSON and keeps one index key per
// unique field pointing at the account ID. Index keys are claimed with SETNX,
// which is what makes Create atomic.
type RedisRepository struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisRepository(client redis.UniversalClient, prefix string) *RedisRepository {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisRepository{client: client, prefix: prefix}
}

func (r *RedisRepository) accountKey(id uuid.UUID) string {
	return r.prefix + ":account:" + id.String()
}

func (r *RedisRepository) identifierKey(identifier string) string {
	return r.prefix + ":identifier:" + identifier
}

func (r *RedisRepository) emailKey(email string) string {
	return r.prefix + ":email:" + email
}

func (r *RedisRepository) tokenKey(token string) string {
	return r.prefix + ":token:" + token
}

func (r *RedisRepository) FindByIdentifier(ctx context.Context, identifier string) (Account, error) {
	return r.findByIndex(ctx, r.identifierKey(identifier))
}

func (r *RedisRepository) FindByEmail(ctx context.Context, email string) (Account, error) {
	return r.findByIndex(ctx, r.emailKey(email))
}

func (r *RedisRepository) FindByToken(ctx context.Context, token string) (Account, error) {
	if token == "" {
		return Account{}, ErrAccountNotFound
	}
	return r.findByIndex(ctx, r.tokenKey(token))
}

func (r *RedisRepository) findByIndex(ctx context.Context, indexKey string) (Account, error) {
	raw, err := r.client.Get(ctx, indexKey).Result()
	if errors.Is(err, redis.Nil) {
		return Account{}, ErrAccountNotFound
	}
	if err != nil {
		return Account{}, fmt.Errorf("failed to read index %s: %w", indexKey, err)
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return Account{}, fmt.Errorf("corrupt index %s: %w", indexKey, err)
	}
	return r.get(ctx, r.client, id)
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

type indexClaim struct {
	key string
	dup error
}

func (r *RedisRepository) get(ctx context.Context, c getter, id uuid.UUID) (Account, error) {
	data, err := c.Get(ctx, r.accountKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		// An index claimed by a Create that has not written its record yet.
		return Account{}, ErrAccountNotFound
	}
	if err != nil {
		return Account{}, fmt.Errorf("failed to read account: %w", err)
	}

	var acct Account
	if err := json.Unmarshal(data, &acct); err != nil {
		return Account{}, fmt.Errorf("failed to unmarshal account: %w", err)
	}
	return acct, nil
}

func (r *RedisRepository) Create(ctx context.Context, acct Account) (Account, error) {
	if acct.ID == uuid.Nil {
		acct.ID = uuid.New()
	}
	id := acct.ID.String()

	claims := []indexClaim{
		{r.identifierKey(acct.Identifier), ErrDuplicateIdentifier},
		{r.emailKey(acct.Email), ErrDuplicateEmail},
	}
	if acct.VerificationToken != "" {
		claims = append(claims, indexClaim{r.tokenKey(acct.VerificationToken), ErrDuplicateToken})
	}

	var claimed []string
	release := func() {
		if len(claimed) > 0 {
			r.client.Del(ctx, claimed...)
		}
	}

	for _, c := range claims {
		ok, err := r.client.SetNX(ctx, c.key, id, 0).Result()
		if err != nil {
			release()
			return Account{}, fmt.Errorf("failed to claim %s: %w", c.key, err)
		}
		if !ok {
			release()
			return Account{}, c.dup
		}
		claimed = append(claimed, c.key)
	}

	data, err := json.Marshal(acct)
	if err != nil {
		release()
		return Account{}, fmt.Errorf("failed to marshal account: %w", err)
	}
	if err := r.client.Set(ctx, r.accountKey(acct.ID), data, 0).Err(); err != nil {
		release()
		return Account{}, fmt.Errorf("failed to write account: %w", err)
	}

	return acct, nil
}

// Update rewrites the record and moves the token index in one transaction.
// A concurrent writer on the same account makes the transaction fail, and it
// is retried a few times; a retry that then sees a different token gives up
// with ErrStaleToken.
func (r *RedisRepository) Update(ctx context.Context, acct Account, expectedToken string) (Account, error) {
	const maxRetries = 4
	key := r.accountKey(acct.ID)

	data, err := json.Marshal(acct)
	if err != nil {
		return Account{}, fmt.Errorf("failed to marshal account: %w", err)
	}

	for i := 0; i < maxRetries; i++ {
		err = r.client.Watch(ctx, func(tx *redis.Tx) error {
			old, err := r.get(ctx, tx, acct.ID)
			if err != nil {
				return err
			}
			if old.VerificationToken != expectedToken {
				return ErrStaleToken
			}

			if acct.VerificationToken != "" && acct.VerificationToken != old.VerificationToken {
				owner, err := tx.Get(ctx, r.tokenKey(acct.VerificationToken)).Result()
				if err != nil && !errors.Is(err, redis.Nil) {
					return err
				}
				if err == nil && owner != acct.ID.String() {
					return ErrDuplicateToken
				}
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, data, 0)
				if old.VerificationToken != "" && old.VerificationToken != acct.VerificationToken {
					pipe.Del(ctx, r.tokenKey(old.VerificationToken))
				}
				if acct.VerificationToken != "" {
					pipe.Set(ctx, r.tokenKey(acct.VerificationToken), acct.ID.String(), 0)
				}
				return nil
			})
			return err
		}, key)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return Account{}, err
		}
		return acct, nil
	}

	return Account{}, fmt.Errorf("failed to update account %s: %w", acct.ID, redis.TxFailedErr)
}
