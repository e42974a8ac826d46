package conf

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// defaultPollInterval is how often the supervisor checks the session.
const defaultPollInterval = 2 * time.Second

// Config represents application configuration
type Config struct {
	// HTTP control surface
	Host string
	Port int

	// Persisted documents
	RulesFile   string
	HistoryFile string

	// Telegram session database (MTProto session blob)
	SessionDBPath string

	// Watched peer username; empty means only the account's own outgoing
	// messages are evaluated
	TargetPeer string

	// Supervisor poll interval
	PollInterval time.Duration

	// Initial value of the deletion toggle
	DeleteEnabled bool

	// Log level: debug, info, warn, error
	LogLevel string

	// Debug mode (verbose platform client logging)
	Debug bool
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	port := 10000
	if val := os.Getenv("PORT"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			port = parsed
		}
	}

	host := os.Getenv("HOST")
	if host == "" {
		host = "0.0.0.0"
	}

	rulesFile := os.Getenv("RULES_FILE")
	if rulesFile == "" {
		rulesFile = "rules.json"
	}

	historyFile := os.Getenv("HISTORY_FILE")
	if historyFile == "" {
		historyFile = "history.json"
	}

	sessionDBPath := os.Getenv("SESSION_DB_PATH")
	if sessionDBPath == "" {
		homeDir, _ := os.UserHomeDir()
		sessionDBPath = filepath.Join(homeDir, ".silentdelete", "session.db")
	}

	deleteEnabled := true
	if val := os.Getenv("DELETE_ENABLED"); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			deleteEnabled = parsed
		}
	}

	return &Config{
		Host:          host,
		Port:          port,
		RulesFile:     rulesFile,
		HistoryFile:   historyFile,
		SessionDBPath: sessionDBPath,
		TargetPeer:    os.Getenv("TARGET_PEER"),
		PollInterval:  defaultPollInterval,
		DeleteEnabled: deleteEnabled,
		LogLevel:      os.Getenv("LOG_LEVEL"),
		Debug:         os.Getenv("DEBUG") == "true",
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return &ConfigError{Field: "PORT", Message: "must be a valid TCP port"}
	}
	if c.RulesFile == "" || c.HistoryFile == "" {
		return &ConfigError{Field: "RULES_FILE/HISTORY_FILE", Message: "required"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
