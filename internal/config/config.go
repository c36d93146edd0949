package config

import (
	"net"
	"net/url"
	"strconv"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Email    EmailConfig    `mapstructure:"email"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
}

// ServerConfig contains process-wide settings.
type ServerConfig struct {
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
// Either URL or the discrete connection parameters must be provided.
type DatabaseConfig struct {
	URL      string `mapstructure:"url"      validate:"omitempty,url"`
	Host     string `mapstructure:"host"     validate:"required_without=URL"`
	Port     int    `mapstructure:"port"     validate:"omitempty,gt=0,lt=65536"`
	Name     string `mapstructure:"name"     validate:"required_without=URL"`
	User     string `mapstructure:"user"     validate:"required_without=URL"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"  validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
}

// DSN returns the connection string for the pgx driver.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}

	port := c.Port
	if port == 0 {
		port = 5432
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(port)),
		Path:   "/" + c.Name,
	}
	if c.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{c.SSLMode}}.Encode()
	}

	return u.String()
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required"`
	ModelName    string `mapstructure:"model_name"     validate:"required"`
}

// EmailConfig selects and configures the outbound email provider.
type EmailConfig struct {
	// Provider is one of "sendgrid", "mailgun" or "log". The log provider
	// writes messages to the logger instead of sending them.
	Provider string `mapstructure:"provider" validate:"required,oneof=sendgrid mailgun log"`

	SendGridAPIKey string `mapstructure:"sendgrid_api_key" validate:"required_if=Provider sendgrid"`
	// SendGridHost overrides the API host (e.g. the EU data residency host).
	SendGridHost string `mapstructure:"sendgrid_host" validate:"omitempty,url"`

	MailgunAPIKey  string `mapstructure:"mailgun_api_key"  validate:"required_if=Provider mailgun"`
	MailgunDomain  string `mapstructure:"mailgun_domain"   validate:"required_if=Provider mailgun"`
	MailgunAPIBase string `mapstructure:"mailgun_api_base" validate:"omitempty,url"`

	FromAddress string `mapstructure:"from_address" validate:"required,email"`
	FromName    string `mapstructure:"from_name"`
	// Signature closes every reminder email.
	Signature string `mapstructure:"signature" validate:"required"`
}

// ScheduleConfig controls when the reminder job fires and which deadlines it
// considers due.
type ScheduleConfig struct {
	// Cron is a standard five-field cron expression, e.g. "0 9 * * *".
	Cron string `mapstructure:"cron" validate:"required"`
	// Timezone is an IANA zone name, or "Local".
	Timezone string `mapstructure:"timezone" validate:"required"`
	// LeadDays is how many calendar days ahead a deadline must fall.
	LeadDays int `mapstructure:"lead_days" validate:"gte=1,lte=30"`
}
