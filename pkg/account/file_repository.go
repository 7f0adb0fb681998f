package account

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

const accountsFile = "accounts.json"

// FileRepository implements Repository on top of the in-memory indexes and
// writes the whole account set to a JSON file after every change.
type FileRepository struct {
	dataDir string
	mutex   sync.Mutex // serializes write-then-save
	mem     *InMemoryRepository
}

// accountData represents the structure of data stored in the JSON file
type accountData struct {
	Accounts []Account `json:"accounts"`
}

// NewFileRepository creates a file-based repository, loading any existing data from dataDir
func NewFileRepository(dataDir string) (*FileRepository, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	repo := &FileRepository{
		dataDir: dataDir,
		mem:     NewInMemoryRepository(),
	}

	if err := repo.load(); err != nil {
		return nil, fmt.Errorf("failed to load data: %w", err)
	}

	return repo, nil
}

func (r *FileRepository) FindByIdentifier(ctx context.Context, identifier string) (Account, error) {
	return r.mem.FindByIdentifier(ctx, identifier)
}

func (r *FileRepository) FindByEmail(ctx context.Context, email string) (Account, error) {
	return r.mem.FindByEmail(ctx, email)
}

func (r *FileRepository) FindByToken(ctx context.Context, token string) (Account, error) {
	return r.mem.FindByToken(ctx, token)
}

func (r *FileRepository) Create(ctx context.Context, acct Account) (Account, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	created, err := r.mem.Create(ctx, acct)
	if err != nil {
		return Account{}, err
	}

	if err := r.save(); err != nil {
		r.mem.mutex.Lock()
		r.mem.remove(created)
		r.mem.mutex.Unlock()
		return Account{}, fmt.Errorf("failed to save: %w", err)
	}

	return created, nil
}

func (r *FileRepository) Update(ctx context.Context, acct Account, expectedToken string) (Account, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.mem.mutex.RLock()
	old, ok := r.mem.accounts[acct.ID]
	r.mem.mutex.RUnlock()
	if !ok {
		return Account{}, ErrAccountNotFound
	}

	updated, err := r.mem.Update(ctx, acct, expectedToken)
	if err != nil {
		return Account{}, err
	}

	if err := r.save(); err != nil {
		r.mem.mutex.Lock()
		r.mem.remove(updated)
		r.mem.put(old)
		r.mem.mutex.Unlock()
		return Account{}, fmt.Errorf("failed to save: %w", err)
	}

	return updated, nil
}

// load reads account data from file
func (r *FileRepository) load() error {
	filePath := filepath.Join(r.dataDir, accountsFile)

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	if len(data) == 0 {
		return nil
	}

	var ad accountData
	if err := json.Unmarshal(data, &ad); err != nil {
		return fmt.Errorf("failed to unmarshal data: %w", err)
	}

	r.mem.mutex.Lock()
	defer r.mem.mutex.Unlock()
	for _, acct := range ad.Accounts {
		r.mem.put(acct)
	}

	return nil
}

// save writes account data to file atomically
func (r *FileRepository) save() error {
	r.mem.mutex.RLock()
	accounts := make([]Account, 0, len(r.mem.accounts))
	for _, acct := range r.mem.accounts {
		accounts = append(accounts, acct)
	}
	r.mem.mutex.RUnlock()

	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
	})

	jsonData, err := json.MarshalIndent(accountData{Accounts: accounts}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	tempFile := filepath.Join(r.dataDir, accountsFile+".tmp")
	if err := os.WriteFile(tempFile, jsonData, 0600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	finalFile := filepath.Join(r.dataDir, accountsFile)
	if err := os.Rename(tempFile, finalFile); err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}

	return nil
}
