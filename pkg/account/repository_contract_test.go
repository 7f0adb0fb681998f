package account

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-signup/pkg/token"
)

type contractOptions struct {
	// concurrentWrites is off for stores that serialize writers with a
	// busy error instead of blocking.
	concurrentWrites bool
}

func newTestAccount(t *testing.T, identifier, email string) Account {
	t.Helper()
	tok, err := token.NewIssuer().Issue(time.Hour)
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Millisecond)
	acct := Account{
		ID:         uuid.New(),
		Identifier: identifier,
		Email:      email,
		Credential: "hashed-secret",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	acct.AssignToken(tok)
	return acct
}

func assertSameTime(t *testing.T, want, got *time.Time) {
	t.Helper()
	if want == nil {
		assert.Nil(t, got)
		return
	}
	require.NotNil(t, got)
	assert.WithinDuration(t, *want, *got, time.Millisecond)
}

func runRepositoryContract(t *testing.T, newRepo func(t *testing.T) Repository, opts contractOptions) {
	ctx := context.Background()

	t.Run("CreateAndFind", func(t *testing.T) {
		repo := newRepo(t)
		acct := newTestAccount(t, "alice", "alice@example.com")

		created, err := repo.Create(ctx, acct)
		require.NoError(t, err)
		assert.Equal(t, acct.ID, created.ID)

		lookups := map[string]func() (Account, error){
			"identifier": func() (Account, error) { return repo.FindByIdentifier(ctx, "alice") },
			"email":      func() (Account, error) { return repo.FindByEmail(ctx, "alice@example.com") },
			"token":      func() (Account, error) { return repo.FindByToken(ctx, acct.VerificationToken) },
		}
		for name, find := range lookups {
			found, err := find()
			require.NoError(t, err, name)
			assert.Equal(t, acct.ID, found.ID, name)
			assert.Equal(t, "alice", found.Identifier, name)
			assert.Equal(t, "alice@example.com", found.Email, name)
			assert.Equal(t, "hashed-secret", found.Credential, name)
			assert.Equal(t, acct.VerificationToken, found.VerificationToken, name)
			assertSameTime(t, acct.VerificationTokenExpiresAt, found.VerificationTokenExpiresAt)
			assert.Nil(t, found.VerifiedAt, name)
			assert.True(t, found.IsPending(), name)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.FindByIdentifier(ctx, "nobody")
		assert.ErrorIs(t, err, ErrAccountNotFound)
		_, err = repo.FindByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrAccountNotFound)
		_, err = repo.FindByToken(ctx, uuid.NewString())
		assert.ErrorIs(t, err, ErrAccountNotFound)
		_, err = repo.FindByToken(ctx, "")
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})

	t.Run("DuplicateIdentifier", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Create(ctx, newTestAccount(t, "alice", "alice@example.com"))
		require.NoError(t, err)

		_, err = repo.Create(ctx, newTestAccount(t, "alice", "other@example.com"))
		assert.ErrorIs(t, err, ErrDuplicateIdentifier)

		_, err = repo.FindByEmail(ctx, "other@example.com")
		assert.ErrorIs(t, err, ErrAccountNotFound, "rejected create must not leave data behind")
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Create(ctx, newTestAccount(t, "alice", "alice@example.com"))
		require.NoError(t, err)

		_, err = repo.Create(ctx, newTestAccount(t, "bob", "alice@example.com"))
		assert.ErrorIs(t, err, ErrDuplicateEmail)

		_, err = repo.FindByIdentifier(ctx, "bob")
		assert.ErrorIs(t, err, ErrAccountNotFound, "rejected create must not leave data behind")
	})

	t.Run("UpdateRotatesToken", func(t *testing.T) {
		repo := newRepo(t)
		acct, err := repo.Create(ctx, newTestAccount(t, "carol", "carol@example.com"))
		require.NoError(t, err)
		oldToken := acct.VerificationToken

		fresh, err := token.NewIssuer(token.WithFormat(token.FormatCompact)).Issue(2 * time.Hour)
		require.NoError(t, err)
		acct.AssignToken(fresh)

		updated, err := repo.Update(ctx, acct, oldToken)
		require.NoError(t, err)
		assert.Equal(t, fresh.Value, updated.VerificationToken)

		_, err = repo.FindByToken(ctx, oldToken)
		assert.ErrorIs(t, err, ErrAccountNotFound)

		found, err := repo.FindByToken(ctx, fresh.Value)
		require.NoError(t, err)
		assert.Equal(t, acct.ID, found.ID)
		assertSameTime(t, &fresh.ExpiresAt, found.VerificationTokenExpiresAt)
	})

	t.Run("UpdateMarksVerified", func(t *testing.T) {
		repo := newRepo(t)
		acct, err := repo.Create(ctx, newTestAccount(t, "dave", "dave@example.com"))
		require.NoError(t, err)
		oldToken := acct.VerificationToken

		verifiedAt := time.Now().UTC().Truncate(time.Millisecond)
		acct.MarkVerified(verifiedAt)
		_, err = repo.Update(ctx, acct, oldToken)
		require.NoError(t, err)

		_, err = repo.FindByToken(ctx, oldToken)
		assert.ErrorIs(t, err, ErrAccountNotFound)

		found, err := repo.FindByIdentifier(ctx, "dave")
		require.NoError(t, err)
		assert.True(t, found.IsVerified())
		assert.Empty(t, found.VerificationToken)
		assert.Nil(t, found.VerificationTokenExpiresAt)
		assertSameTime(t, &verifiedAt, found.VerifiedAt)
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		repo := newRepo(t)
		ghost := newTestAccount(t, "ghost", "ghost@example.com")
		_, err := repo.Update(ctx, ghost, ghost.VerificationToken)
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})

	t.Run("UpdateStaleToken", func(t *testing.T) {
		repo := newRepo(t)
		acct, err := repo.Create(ctx, newTestAccount(t, "gina", "gina@example.com"))
		require.NoError(t, err)
		oldToken := acct.VerificationToken

		// A second reader holding the same token loses once the first write lands.
		first, second := acct, acct
		first.MarkVerified(time.Now().UTC().Truncate(time.Millisecond))
		_, err = repo.Update(ctx, first, oldToken)
		require.NoError(t, err)

		second.ClearToken()
		second.Email = "stale@example.com"
		_, err = repo.Update(ctx, second, oldToken)
		assert.ErrorIs(t, err, ErrStaleToken)

		found, err := repo.FindByIdentifier(ctx, "gina")
		require.NoError(t, err)
		assert.True(t, found.IsVerified())
		assert.Equal(t, "gina@example.com", found.Email)

		// A token that was never stored is stale as well.
		_, err = repo.Update(ctx, found, uuid.NewString())
		assert.ErrorIs(t, err, ErrStaleToken)
	})

	t.Run("ReturnsCopies", func(t *testing.T) {
		repo := newRepo(t)
		created, err := repo.Create(ctx, newTestAccount(t, "erin", "erin@example.com"))
		require.NoError(t, err)

		created.ClearToken()
		created.Email = "changed@example.com"

		found, err := repo.FindByIdentifier(ctx, "erin")
		require.NoError(t, err)
		assert.Equal(t, "erin@example.com", found.Email)
		assert.NotEmpty(t, found.VerificationToken)
	})

	if !opts.concurrentWrites {
		return
	}

	t.Run("ConcurrentUpdateSameToken", func(t *testing.T) {
		repo := newRepo(t)
		acct, err := repo.Create(ctx, newTestAccount(t, "hank", "hank@example.com"))
		require.NoError(t, err)
		oldToken := acct.VerificationToken
		const workers = 8

		var wg sync.WaitGroup
		results := make(chan error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(acct Account) {
				defer wg.Done()
				acct.MarkVerified(time.Now().UTC())
				_, err := repo.Update(ctx, acct, oldToken)
				results <- err
			}(acct)
		}
		wg.Wait()
		close(results)

		var won, stale int
		for err := range results {
			switch {
			case err == nil:
				won++
			case errors.Is(err, ErrStaleToken):
				stale++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}
		assert.Equal(t, 1, won)
		assert.Equal(t, workers-1, stale)
	})

	t.Run("ConcurrentCreateSameIdentifier", func(t *testing.T) {
		repo := newRepo(t)
		const workers = 8

		accounts := make([]Account, workers)
		for i := range accounts {
			accounts[i] = newTestAccount(t, "frank", uuid.NewString()+"@example.com")
		}

		var wg sync.WaitGroup
		results := make(chan error, workers)
		for _, acct := range accounts {
			wg.Add(1)
			go func(acct Account) {
				defer wg.Done()
				_, err := repo.Create(ctx, acct)
				results <- err
			}(acct)
		}
		wg.Wait()
		close(results)

		var created, duplicates int
		for err := range results {
			switch {
			case err == nil:
				created++
			case errors.Is(err, ErrDuplicateIdentifier):
				duplicates++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}
		assert.Equal(t, 1, created)
		assert.Equal(t, workers-1, duplicates)
	})
}
