package configs

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv         string        `mapstructure:"app_env"`
	Port           string        `mapstructure:"app_port"`
	DBHost         string        `mapstructure:"db_host"`
	DBPort         string        `mapstructure:"db_port"`
	DBUser         string        `mapstructure:"db_user"`
	DBPassword     string        `mapstructure:"db_password"`
	DBName         string        `mapstructure:"db_name"`
	DBMaxRetries   int           `mapstructure:"db_max_retries"`
	DBRetryDelay   time.Duration `mapstructure:"db_retry_delay"`
	JWTSecret      string        `mapstructure:"jwt_secret"`
	TokenTTL       time.Duration `mapstructure:"token_ttl"`
	LogLevel       string        `mapstructure:"log_level"`
	LogEncoding    string        `mapstructure:"log_encoding"`
	CORSOrigins    string        `mapstructure:"cors_origins"`
	MaxPhotoBytes  int64         `mapstructure:"max_photo_bytes"`
	CurrencySymbol string        `mapstructure:"currency_symbol"`
}

var defaults = map[string]any{
	"app_env":         "development",
	"app_port":        ":5000",
	"db_host":         "127.0.0.1",
	"db_port":         "3306",
	"db_user":         "root",
	"db_password":     "",
	"db_name":         "perfume_store",
	"db_max_retries":  10,
	"db_retry_delay":  "5s",
	"jwt_secret":      "",
	"token_ttl":       "1h",
	"log_level":       "info",
	"log_encoding":    "json",
	"cors_origins":    "http://localhost:3000,http://localhost:5173",
	"max_photo_bytes": 5 << 20,
	"currency_symbol": "$",
}

// LoadConfig reads .env (if present) and the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: No .env file found")
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be positive, got %s", cfg.TokenTTL)
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// RequireSecret is checked before serving; migrate and seed run without one.
func (c *Config) RequireSecret() error {
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters, run `generate-secret` to create one")
	}
	return nil
}
