package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Log      LogConfig      `mapstructure:"log" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Cache    CacheConfig    `mapstructure:"cache"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains password-handling settings. PasswordMode selects
// bcrypt for new deployments or plaintext comparison against legacy
// record stores that never hashed passwords.
type AuthConfig struct {
	PasswordMode string `mapstructure:"password_mode" validate:"required,oneof=bcrypt plaintext"`
	BcryptCost   int    `mapstructure:"bcrypt_cost" validate:"gte=0,lte=31"`
}

// CacheConfig contains catalog cache settings. The cache is optional;
// with Enabled false the catalog is read from the database on every
// listing.
type CacheConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	RedisAddr  string `mapstructure:"redis_addr" validate:"required_if=Enabled true,omitempty,hostname_port"`
	TTLSeconds int    `mapstructure:"ttl_seconds" validate:"gte=0"`
}
