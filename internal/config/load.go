package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "DUESOON"

// Default values applied before any source is read.
const (
	DefaultLogLevel     = "info"
	DefaultModelName    = "gemini-2.0-flash"
	DefaultProvider     = "sendgrid"
	DefaultSignature    = "The Duesoon Team"
	DefaultCron         = "0 9 * * *"
	DefaultTimezone     = "Local"
	DefaultLeadDays     = 2
	DefaultDatabasePort = 5432
	DefaultSSLMode      = "require"
)

// legacyEnv maps config keys to the unprefixed variable names used by earlier
// deployments of the job. Prefixed variables win when both are set.
var legacyEnv = map[string][]string{
	"llm.gemini_api_key":     {"GEMINI_API_KEY"},
	"email.sendgrid_api_key": {"SENDGRID_API_KEY"},
	"email.mailgun_api_key":  {"MAILGUN_API_KEY"},
	"email.mailgun_domain":   {"MAILGUN_DOMAIN"},
	"database.url":           {"DATABASE_URL"},
	"database.host":          {"DB_HOST"},
	"database.port":          {"DB_PORT"},
	"database.name":          {"DB_NAME"},
	"database.user":          {"DB_USER"},
	"database.password":      {"DB_PASSWORD"},
}

// Options tweaks where Load looks for configuration. The zero value reads
// ".env" and "config.yaml" from the working directory.
type Options struct {
	// DotEnvFile is loaded into the process environment before anything else
	// is read. Missing files are ignored.
	DotEnvFile string
	// ConfigFile names an explicit config file. When empty, config.yaml is
	// searched for in "." and "./config".
	ConfigFile string
	// SkipDotEnv disables .env loading entirely.
	SkipDotEnv bool
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadWithOptions(Options{})
}

// LoadWithOptions is Load with explicit file locations.
func LoadWithOptions(opts Options) (*Config, error) {
	if !opts.SkipDotEnv {
		dotenv := opts.DotEnvFile
		if dotenv == "" {
			dotenv = ".env"
		}
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", dotenv, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || opts.ConfigFile != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings every command needs: logging and the
// database connection. The reminder pipeline's settings are checked
// separately by ValidatePipeline so that store commands run without them.
func Validate(cfg *Config) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	for _, group := range []any{cfg.Server, cfg.Database} {
		if err := validate.Struct(group); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
	}
	return nil
}

// ValidatePipeline checks the llm, email and schedule groups used by the
// reminder job.
func ValidatePipeline(cfg *Config) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	for _, group := range []any{cfg.LLM, cfg.Email, cfg.Schedule} {
		if err := validate.Struct(group); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
	}

	if _, err := cron.ParseStandard(cfg.Schedule.Cron); err != nil {
		return fmt.Errorf("config validation failed: schedule.cron %q: %w", cfg.Schedule.Cron, err)
	}

	if _, err := cfg.Schedule.Location(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// Location resolves the configured timezone.
func (c ScheduleConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("schedule.timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.log_level", DefaultLogLevel)
	v.SetDefault("database.port", DefaultDatabasePort)
	v.SetDefault("database.sslmode", DefaultSSLMode)
	v.SetDefault("llm.model_name", DefaultModelName)
	v.SetDefault("email.provider", DefaultProvider)
	v.SetDefault("email.signature", DefaultSignature)
	v.SetDefault("schedule.cron", DefaultCron)
	v.SetDefault("schedule.timezone", DefaultTimezone)
	v.SetDefault("schedule.lead_days", DefaultLeadDays)
}

// bindEnv registers every key explicitly so that Unmarshal sees values that
// only exist in the environment.
func bindEnv(v *viper.Viper) error {
	keys := []string{
		"server.log_level",
		"database.url", "database.host", "database.port", "database.name",
		"database.user", "database.password", "database.sslmode",
		"llm.gemini_api_key", "llm.model_name",
		"email.provider", "email.sendgrid_api_key", "email.sendgrid_host",
		"email.mailgun_api_key", "email.mailgun_domain", "email.mailgun_api_base",
		"email.from_address", "email.from_name", "email.signature",
		"schedule.cron", "schedule.timezone", "schedule.lead_days",
	}

	for _, key := range keys {
		names := []string{EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}
		names = append(names, legacyEnv[key]...)
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	return nil
}
