package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	envPrefix         = "CHWEB"
	defaultAddr       = ":3000"
	defaultDataDir    = "data"
	defaultDBName     = "chweb.db"
	defaultCookieName = "chweb"
	defaultCost       = 10
)

type Config struct {
	Addr     string
	DataDir  string
	DBPath   string
	LogLevel string

	CookieName   string
	CookieSecret string
	// GeneratedSecret is set when no cookie secret was configured and a
	// random one was created for this process.
	GeneratedSecret bool

	PasswordCost   int
	MetricsEnabled bool
	SwaggerEnabled bool
	SnowflakeNode  int64
}

// SetDefaults registers every key with its default so that environment
// variables are picked up by Unmarshal-style lookups.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("addr", defaultAddr)
	v.SetDefault("data_dir", defaultDataDir)
	v.SetDefault("db_path", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("cookie.name", defaultCookieName)
	v.SetDefault("cookie.secret", "")
	v.SetDefault("password.cost", defaultCost)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("swagger.enabled", false)
	v.SetDefault("snowflake.node", 0)
}

// New returns a viper instance reading CHWEB_* environment variables,
// e.g. CHWEB_COOKIE_SECRET for cookie.secret.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads path into v, when path is set, and builds the Config.
// Environment variables and bound flags take precedence over file values.
func Load(v *viper.Viper, path string) (Config, error) {
	if path = strings.TrimSpace(path); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %q: %w", path, err)
		}
	}
	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (Config, error) {
	dataDir := strings.TrimSpace(v.GetString("data_dir"))
	if dataDir == "" {
		dataDir = defaultDataDir
	}
	dbPath := strings.TrimSpace(v.GetString("db_path"))
	if dbPath == "" {
		dbPath = filepath.Join(dataDir, defaultDBName)
	}

	cfg := Config{
		Addr:           strings.TrimSpace(v.GetString("addr")),
		DataDir:        filepath.Clean(dataDir),
		DBPath:         filepath.Clean(dbPath),
		LogLevel:       strings.ToLower(strings.TrimSpace(v.GetString("log_level"))),
		CookieName:     strings.TrimSpace(v.GetString("cookie.name")),
		CookieSecret:   v.GetString("cookie.secret"),
		PasswordCost:   v.GetInt("password.cost"),
		MetricsEnabled: v.GetBool("metrics.enabled"),
		SwaggerEnabled: v.GetBool("swagger.enabled"),
		SnowflakeNode:  v.GetInt64("snowflake.node"),
	}
	if cfg.Addr == "" {
		cfg.Addr = defaultAddr
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.CookieName == "" {
		cfg.CookieName = defaultCookieName
	}
	if cfg.PasswordCost <= 0 {
		cfg.PasswordCost = defaultCost
	}
	if cfg.CookieSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return cfg, err
		}
		cfg.CookieSecret = secret
		cfg.GeneratedSecret = true
	}

	return cfg, cfg.Validate()
}

// Validate reports configuration values that cannot be used.
func (c Config) Validate() error {
	var errs []error
	if c.PasswordCost < 4 || c.PasswordCost > 31 {
		errs = append(errs, fmt.Errorf("password.cost must be between 4 and 31, got %d", c.PasswordCost))
	}
	if c.SnowflakeNode < 0 || c.SnowflakeNode > 1023 {
		errs = append(errs, fmt.Errorf("snowflake.node must be between 0 and 1023, got %d", c.SnowflakeNode))
	}
	if len(c.CookieSecret) < 16 {
		errs = append(errs, errors.New("cookie.secret must be at least 16 characters"))
	}
	return errors.Join(errs...)
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate cookie secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
