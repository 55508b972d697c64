package config

import "fmt"

// RedisConfig holds redis connection configuration.
type RedisConfig struct {
	// Host is the redis server host.
	Host string
	// Port is the redis server port.
	Port string
	// Password is the redis password (empty for no auth).
	Password string
	// DB is the redis database index.
	DB int
}

// LoadRedisConfigFromEnv loads redis configuration from environment variables.
func LoadRedisConfigFromEnv() RedisConfig {
	return RedisConfig{
		Host:     GetEnv("REDIS_HOST", "localhost"),
		Port:     GetEnv("REDIS_PORT", "6379"),
		Password: GetEnv("REDIS_PASSWORD", ""),
		DB:       GetEnvInt("REDIS_DB", 0),
	}
}

// Addr returns the redis address in host:port form.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Validate validates redis configuration.
func (c RedisConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("redis host must not be empty")
	}
	if c.Port == "" {
		return fmt.Errorf("redis port must not be empty")
	}
	if c.DB < 0 {
		return fmt.Errorf("redis db index must not be negative")
	}
	return nil
}
