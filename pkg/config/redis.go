package config

import "github.com/redis/go-redis/v9"

// RedisConfig holds the Redis connection used by the redis persistence type
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD" env-default:""`
	DB       int    `env:"REDIS_DB" env-default:"0"`
	Prefix   string `env:"REDIS_PREFIX" env-default:"signup"`
}

func (r RedisConfig) ToRedisOptions() *redis.Options {
	return &redis.Options{
		Addr:     r.Addr,
		Password: r.Password,
		DB:       r.DB,
	}
}

func (r RedisConfig) validate() ValidationErrors {
	return CollectErrors(
		RequireNonEmpty("REDIS_ADDR", r.Addr),
		RequireNonNegative("REDIS_DB", r.DB),
	)
}
