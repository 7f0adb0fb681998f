// Package account holds the signup account model, the storage contract, and
// the Registry that applies signup policy on top of storage.
//
// # Storage backends
//
// Every backend enforces identifier and email uniqueness atomically inside
// Create, so two racing registrations cannot both succeed:
//
//   - memory:   InMemoryRepository, maps under one lock
//   - file:     FileRepository, the in-memory store saved to <dataDir>/accounts.json
//   - postgres: PostgresRepository, pgx with unique constraints (run Migrate first)
//   - redis:    RedisRepository, SETNX index keys
//   - sqlite:   SQLiteRepository, gorm with unique indexes (see OpenSQLite)
//
// Pick one with NewRepository:
//
//	repo, err := account.NewRepository("file", account.RepositoryConfig{DataDir: "./data"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	registry := account.NewRegistry(repo)
//
// # Registry
//
// Registry lookups return (nil, nil) when nothing matches. Adapter errors are
// wrapped as STORAGE_FAILURE errors from pkg/errors. Create passes
// ErrDuplicateIdentifier and ErrDuplicateEmail through unwrapped so callers
// can treat them as business outcomes.
package account
