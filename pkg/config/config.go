package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the complete signup service configuration.
type Config struct {
	Signup      SignupConfig
	Persistence PersistenceConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Email       EmailConfig
}

// Load reads Config from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the signup and email settings plus the settings of the
// selected backend only.
func (c Config) Validate() error {
	validators := []Validator{
		c.Signup.validate,
		c.Persistence.validate,
		c.Email.validate,
	}
	switch c.Persistence.Type {
	case PersistencePostgres:
		validators = append(validators, c.Database.validate)
	case PersistenceRedis:
		validators = append(validators, c.Redis.validate)
	}
	return Validate(validators...)
}
