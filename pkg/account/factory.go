package account

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// RepositoryConfig contains configuration for creating an account repository
type RepositoryConfig struct {
	// Pool is required for PostgreSQL repositories
	Pool *pgxpool.Pool
	// DataDir is required for file-based repositories
	DataDir string
	// Redis is required for Redis repositories
	Redis redis.UniversalClient
	// RedisPrefix namespaces the Redis keys, "signup" when empty
	RedisPrefix string
	// SQLite is required for SQLite repositories, see OpenSQLite
	SQLite *gorm.DB
}

// NewRepository creates an account repository based on the persistence type
func NewRepository(persistenceType string, config RepositoryConfig) (Repository, error) {
	switch persistenceType {
	case "memory", "inmem":
		return NewInMemoryRepository(), nil
	case "file":
		if config.DataDir == "" {
			return nil, fmt.Errorf("dataDir required for file repository")
		}
		return NewFileRepository(config.DataDir)
	case "postgres", "postgresql":
		if config.Pool == nil {
			return nil, fmt.Errorf("pool required for postgres repository")
		}
		return NewPostgresRepository(config.Pool), nil
	case "redis":
		if config.Redis == nil {
			return nil, fmt.Errorf("redis client required for redis repository")
		}
		return NewRedisRepository(config.Redis, config.RedisPrefix), nil
	case "sqlite":
		if config.SQLite == nil {
			return nil, fmt.Errorf("gorm db required for sqlite repository")
		}
		return NewSQLiteRepository(config.SQLite), nil
	default:
		return nil, fmt.Errorf("unsupported persistence type: %s (supported: memory, file, postgres, redis, sqlite)", persistenceType)
	}
}
