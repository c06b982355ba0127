// Package config resolves settings from defaults, an optional YAML file,
// INCIDENTBOARD_* environment variables and command flags, in that order
// of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ModeLocal  = "local"
	ModeRemote = "remote"

	envPrefix = "INCIDENTBOARD"
)

// Keys, also used as flag names with '_' replaced by '-'.
const (
	KeyAPIURL          = "api_url"
	KeyDB              = "db"
	KeyMode            = "mode"
	KeyListen          = "listen"
	KeyRedisURL        = "redis_url"
	KeyCacheTTL        = "cache_ttl"
	KeyLogFile         = "log_file"
	KeyPollInterval    = "poll_interval"
	KeyRefreshInterval = "refresh_interval"
	KeyRequestTimeout  = "request_timeout"
	KeyFetchRetryMax   = "fetch_retry_max"
	KeyUser            = "user"
)

// Config holds every resolved setting.
type Config struct {
	APIURL          string
	DB              string
	Mode            string
	Listen          string
	RedisURL        string
	CacheTTL        time.Duration
	LogFile         string
	PollInterval    time.Duration
	RefreshInterval time.Duration
	RequestTimeout  time.Duration
	FetchRetryMax   uint64
	// User is the viewer id; zero means ask.
	User int64
	// File is the config file that was read, if any.
	File string
}

// Dir is ~/.incidentboard, or the working directory when there is no home.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".incidentboard")
}

func setDefaults(v *viper.Viper) {
	dir := Dir()
	v.SetDefault(KeyAPIURL, "http://localhost:8080")
	v.SetDefault(KeyDB, filepath.Join(dir, "incidentboard.db"))
	v.SetDefault(KeyMode, ModeLocal)
	v.SetDefault(KeyListen, ":8080")
	v.SetDefault(KeyRedisURL, "")
	v.SetDefault(KeyCacheTTL, 30*time.Second)
	v.SetDefault(KeyLogFile, filepath.Join(dir, "incidentboard.log"))
	v.SetDefault(KeyPollInterval, 60*time.Second)
	v.SetDefault(KeyRefreshInterval, time.Duration(0))
	v.SetDefault(KeyRequestTimeout, 10*time.Second)
	v.SetDefault(KeyFetchRetryMax, 2)
	v.SetDefault(KeyUser, 0)
}

var allKeys = []string{
	KeyAPIURL, KeyDB, KeyMode, KeyListen, KeyRedisURL, KeyCacheTTL, KeyLogFile,
	KeyPollInterval, KeyRefreshInterval, KeyRequestTimeout, KeyFetchRetryMax, KeyUser,
}

// FlagName is the command-line spelling of key.
func FlagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

// Load resolves the configuration. configFile may be empty, in which case
// config.yaml in Dir() is read when present. Only flags the user actually
// set override the lower layers. flags may be nil.
func Load(configFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(Dir())
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	if flags != nil {
		for _, key := range allKeys {
			if f := flags.Lookup(FlagName(key)); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("binding flag %s: %w", f.Name, err)
				}
			}
		}
	}

	cfg := Config{
		APIURL:          v.GetString(KeyAPIURL),
		DB:              v.GetString(KeyDB),
		Mode:            strings.ToLower(v.GetString(KeyMode)),
		Listen:          v.GetString(KeyListen),
		RedisURL:        v.GetString(KeyRedisURL),
		CacheTTL:        v.GetDuration(KeyCacheTTL),
		LogFile:         v.GetString(KeyLogFile),
		PollInterval:    v.GetDuration(KeyPollInterval),
		RefreshInterval: v.GetDuration(KeyRefreshInterval),
		RequestTimeout:  v.GetDuration(KeyRequestTimeout),
		FetchRetryMax:   v.GetUint64(KeyFetchRetryMax),
		User:            v.GetInt64(KeyUser),
		File:            v.ConfigFileUsed(),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings no command can run with.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeLocal:
		if c.DB == "" {
			return errors.New("config: db path is required in local mode")
		}
	case ModeRemote:
		if c.APIURL == "" {
			return errors.New("config: api_url is required in remote mode")
		}
	default:
		return fmt.Errorf("config: unknown mode %q (want %s or %s)", c.Mode, ModeLocal, ModeRemote)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("config: poll_interval must be positive, got %s", c.PollInterval)
	}
	if c.RefreshInterval < 0 {
		return fmt.Errorf("config: refresh_interval must not be negative, got %s", c.RefreshInterval)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("config: request_timeout must be positive, got %s", c.RequestTimeout)
	}
	return nil
}

// RegisterFlags adds the shared flags to fs. Defaults shown in help are
// informational; Load applies the real ones.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(FlagName(KeyMode), ModeLocal, "data source: local (SQLite) or remote (HTTP API)")
	fs.String(FlagName(KeyDB), "", "SQLite database path for local mode")
	fs.String(FlagName(KeyAPIURL), "", "incident API base URL for remote mode")
	fs.String(FlagName(KeyLogFile), "", "log file path")
	fs.Duration(FlagName(KeyRequestTimeout), 0, "timeout for each API call")
}
