package config

// Persistence types accepted by SIGNUP_PERSISTENCE
const (
	PersistenceMemory   = "memory"
	PersistenceFile     = "file"
	PersistencePostgres = "postgres"
	PersistenceRedis    = "redis"
	PersistenceSQLite   = "sqlite"
)

// PersistenceConfig selects the account storage backend
type PersistenceConfig struct {
	Type       string `env:"SIGNUP_PERSISTENCE" env-default:"file"`
	DataDir    string `env:"SIGNUP_DATA_DIR" env-default:"./data"`
	SQLitePath string `env:"SIGNUP_SQLITE_PATH" env-default:"signup.db"`
}

func (p PersistenceConfig) validate() ValidationErrors {
	errs := CollectErrors(RequireOneOf("SIGNUP_PERSISTENCE", p.Type, []string{
		PersistenceMemory, PersistenceFile, PersistencePostgres, PersistenceRedis, PersistenceSQLite,
	}))
	switch p.Type {
	case PersistenceFile:
		errs = append(errs, CollectErrors(RequireNonEmpty("SIGNUP_DATA_DIR", p.DataDir))...)
	case PersistenceSQLite:
		errs = append(errs, CollectErrors(RequireNonEmpty("SIGNUP_SQLITE_PATH", p.SQLitePath))...)
	}
	return errs
}
