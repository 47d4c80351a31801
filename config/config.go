package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// CORS policy modes.
const (
	CORSModeAllowList = "allowlist"
	CORSModeOpen      = "open"
)

// Mail providers.
const (
	MailProviderSendGrid = "sendgrid"
	MailProviderResend   = "resend"
)

// DefaultAllowedOrigins are the production site origins.
var DefaultAllowedOrigins = []string{
	"https://www.7afarm.com",
	"https://7afarm.com",
	"https://7afarm-com.pages.dev",
}

type Config struct {
	Port        string
	GinMode     string
	LogLevel    string
	ServiceName string
	// Contact delivery
	ContactEmail  string
	MailProvider  string
	MailFromEmail string
	MailFromName  string
	MailTimeout   time.Duration
	// SendGrid
	SendGridAPIKey  string
	SendGridBaseURL string
	// Resend
	ResendAPIKey  string
	ResendBaseURL string
	// CORS
	CORSMode       string
	AllowedOrigins []string
	// Request limits
	MaxBodyBytes int64
}

func LoadConfig() (*Config, error) {
	// Load .env file when present; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		GinMode:     getEnv("GIN_MODE", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		ServiceName: getEnv("SERVICE_NAME", "contact-relay"),
		// Contact delivery
		ContactEmail:  strings.TrimSpace(getEnv("CONTACT_EMAIL", "")),
		MailProvider:  strings.ToLower(getEnv("MAIL_PROVIDER", MailProviderSendGrid)),
		MailFromEmail: getEnv("MAIL_FROM_EMAIL", "noreply@7afarm.com"),
		MailFromName:  getEnv("MAIL_FROM_NAME", "7A Farm Website"),
		MailTimeout:   time.Duration(getEnvInt("MAIL_TIMEOUT_SECONDS", 10)) * time.Second,
		// SendGrid
		SendGridAPIKey:  strings.TrimSpace(getEnv("SENDGRID_API_KEY", "")),
		SendGridBaseURL: strings.TrimRight(getEnv("SENDGRID_BASE_URL", "https://api.sendgrid.com/v3"), "/"),
		// Resend
		ResendAPIKey:  strings.TrimSpace(getEnv("RESEND_API_KEY", "")),
		ResendBaseURL: getEnv("RESEND_BASE_URL", ""),
		// CORS
		CORSMode:       strings.ToLower(getEnv("CORS_MODE", CORSModeAllowList)),
		AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", DefaultAllowedOrigins),
		// Request limits
		MaxBodyBytes: int64(getEnvInt("MAX_BODY_BYTES", 64<<10)),
	}

	if cfg.CORSMode != CORSModeAllowList && cfg.CORSMode != CORSModeOpen {
		log.Printf("WARNING: unknown CORS_MODE %q, falling back to %q", cfg.CORSMode, CORSModeAllowList)
		cfg.CORSMode = CORSModeAllowList
	}
	if cfg.CORSMode == CORSModeAllowList && len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = DefaultAllowedOrigins
	}

	if cfg.MailProvider != MailProviderSendGrid && cfg.MailProvider != MailProviderResend {
		log.Printf("WARNING: unknown MAIL_PROVIDER %q, falling back to %q", cfg.MailProvider, MailProviderSendGrid)
		cfg.MailProvider = MailProviderSendGrid
	}

	// Missing credentials are not fatal: the contact endpoint answers with a
	// configuration error so visitors are told to call instead.
	if cfg.ContactEmail == "" {
		log.Println("WARNING: CONTACT_EMAIL is missing. Contact submissions will be refused.")
	}
	if cfg.MailAPIKey() == "" {
		log.Printf("WARNING: API key for mail provider %q is missing. Contact submissions will be refused.", cfg.MailProvider)
	}

	return cfg, nil
}

// MailAPIKey returns the credential of the selected mail provider.
func (c *Config) MailAPIKey() string {
	if c.MailProvider == MailProviderResend {
		return c.ResendAPIKey
	}
	return c.SendGridAPIKey
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// getEnv treats an empty variable like an unset one
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil && intVal > 0 {
			return intVal
		}
	}
	return fallback
}

// getEnvList splits a comma separated variable, dropping blanks and trailing slashes
func getEnvList(key string, fallback []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimRight(strings.TrimSpace(item), "/")
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
