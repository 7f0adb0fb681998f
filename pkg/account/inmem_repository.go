package account

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// InMemoryRepository keeps accounts in process memory. Uniqueness is enforced
// under a single lock, so Create is atomic.
type InMemoryRepository struct {
	mutex        sync.RWMutex
	accounts     map[uuid.UUID]Account
	byIdentifier map[string]uuid.UUID
	byEmail      map[string]uuid.UUID
	byToken      map[string]uuid.UUID
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		accounts:     make(map[uuid.UUID]Account),
		byIdentifier: make(map[string]uuid.UUID),
		byEmail:      make(map[string]uuid.UUID),
		byToken:      make(map[string]uuid.UUID),
	}
}

func (r *InMemoryRepository) FindByIdentifier(ctx context.Context, identifier string) (Account, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return r.lookup(r.byIdentifier, identifier)
}

func (r *InMemoryRepository) FindByEmail(ctx context.Context, email string) (Account, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return r.lookup(r.byEmail, email)
}

func (r *InMemoryRepository) FindByToken(ctx context.Context, token string) (Account, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	if token == "" {
		return Account{}, ErrAccountNotFound
	}
	return r.lookup(r.byToken, token)
}

func (r *InMemoryRepository) lookup(index map[string]uuid.UUID, key string) (Account, error) {
	id, ok := index[key]
	if !ok {
		return Account{}, ErrAccountNotFound
	}
	return r.accounts[id].Clone(), nil
}

func (r *InMemoryRepository) Create(ctx context.Context, acct Account) (Account, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if err := r.checkUnique(acct); err != nil {
		return Account{}, err
	}
	if acct.ID == uuid.Nil {
		acct.ID = uuid.New()
	}
	r.put(acct.Clone())
	return acct.Clone(), nil
}

func (r *InMemoryRepository) Update(ctx context.Context, acct Account, expectedToken string) (Account, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	old, ok := r.accounts[acct.ID]
	if !ok {
		return Account{}, ErrAccountNotFound
	}
	if old.VerificationToken != expectedToken {
		return Account{}, ErrStaleToken
	}
	if acct.VerificationToken != "" {
		if id, taken := r.byToken[acct.VerificationToken]; taken && id != acct.ID {
			return Account{}, ErrDuplicateToken
		}
	}
	r.remove(old)
	r.put(acct.Clone())
	return acct.Clone(), nil
}

func (r *InMemoryRepository) checkUnique(acct Account) error {
	if _, ok := r.byIdentifier[acct.Identifier]; ok {
		return ErrDuplicateIdentifier
	}
	if _, ok := r.byEmail[acct.Email]; ok {
		return ErrDuplicateEmail
	}
	if acct.VerificationToken != "" {
		if _, ok := r.byToken[acct.VerificationToken]; ok {
			return ErrDuplicateToken
		}
	}
	return nil
}

func (r *InMemoryRepository) put(acct Account) {
	r.accounts[acct.ID] = acct
	r.byIdentifier[acct.Identifier] = acct.ID
	r.byEmail[acct.Email] = acct.ID
	if acct.VerificationToken != "" {
		r.byToken[acct.VerificationToken] = acct.ID
	}
}

func (r *InMemoryRepository) remove(acct Account) {
	delete(r.accounts, acct.ID)
	delete(r.byIdentifier, acct.Identifier)
	delete(r.byEmail, acct.Email)
	if acct.VerificationToken != "" {
		delete(r.byToken, acct.VerificationToken)
	}
}
