// Package config loads jobly's settings from jobly.yaml, JOBLY_* environment
// variables and .env files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// AppFs is the filesystem config files and .env files are read from.
var AppFs = afero.NewOsFs()

// Config holds the application configuration
type Config struct {
	Database DatabaseConfig
	HTTP     HTTPConfig
	Log      LogConfig
}

// DatabaseConfig describes the store. URL, when set, is used as is;
// otherwise the structured fields are turned into a DSN by the db driver
// registry.
type DatabaseConfig struct {
	URL      string
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string

	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetime    time.Duration
	QueryTimeout       time.Duration
	SlowQueryThreshold time.Duration
}

// HTTPConfig configures the API server.
type HTTPConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// LogConfig selects the slog handler and level.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.url", "")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "jobly")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("database.query_timeout", 5*time.Second)
	v.SetDefault("database.slow_query_threshold", 200*time.Millisecond)

	v.SetDefault("http.addr", ":3001")
	v.SetDefault("http.read_timeout", 10*time.Second)
	v.SetDefault("http.write_timeout", 10*time.Second)
	v.SetDefault("http.shutdown_timeout", 15*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Load reads configuration from, in increasing priority: defaults, the
// config file, .env, .env.local and the environment. configFile names an
// explicit file; when empty, jobly.yaml is searched for in ".", $HOME and
// $HOME/.config/jobly and may be absent.
//
// DATABASE_URL, if set, overrides database.url.
func Load(configFile string) (*Config, error) {
	// .env files first, so their values are visible to viper's env lookup.
	if err := loadDotenv(".env", false); err != nil {
		return nil, err
	}
	if err := loadDotenv(".env.local", true); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetFs(AppFs)
	setDefaults(v)

	v.SetEnvPrefix("JOBLY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", configFile, err)
		}
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return nil, fmt.Errorf("config: home dir: %w", err)
		}
		v.SetConfigName("jobly")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(home)
		v.AddConfigPath(filepath.Join(home, ".config", "jobly"))

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: %w", err)
			}
		}
	}

	cfg := &Config{
		Database: DatabaseConfig{
			URL:                v.GetString("database.url"),
			Driver:             v.GetString("database.driver"),
			Host:               v.GetString("database.host"),
			Port:               v.GetInt("database.port"),
			User:               v.GetString("database.user"),
			Password:           v.GetString("database.password"),
			Name:               v.GetString("database.name"),
			SSLMode:            v.GetString("database.sslmode"),
			MaxOpenConns:       v.GetInt("database.max_open_conns"),
			MaxIdleConns:       v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime:    v.GetDuration("database.conn_max_lifetime"),
			QueryTimeout:       v.GetDuration("database.query_timeout"),
			SlowQueryThreshold: v.GetDuration("database.slow_query_threshold"),
		},
		HTTP: HTTPConfig{
			Addr:            v.GetString("http.addr"),
			ReadTimeout:     v.GetDuration("http.read_timeout"),
			WriteTimeout:    v.GetDuration("http.write_timeout"),
			ShutdownTimeout: v.GetDuration("http.shutdown_timeout"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.Database.URL = url
	}
	return cfg, nil
}

// loadDotenv sets the variables in name, if the file exists. Without
// override, variables already in the environment are kept.
func loadDotenv(name string, override bool) error {
	if _, err := AppFs.Stat(name); err != nil {
		return nil
	}
	f, err := AppFs.Open(name)
	if err != nil {
		return fmt.Errorf("config: open %s: %w", name, err)
	}
	defer f.Close()

	vars, err := godotenv.Parse(f)
	if err != nil {
		return fmt.Errorf("config: parse %s: %w", name, err)
	}
	for k, val := range vars {
		if _, set := os.LookupEnv(k); set && !override {
			continue
		}
		if err := os.Setenv(k, val); err != nil {
			return err
		}
	}
	return nil
}
