package entities

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDomain = "github.com"
	DefaultAPIURL = "https://api.github.com/"

	CloneProtocolHTTPS = "https"
	CloneProtocolSSH   = "ssh"

	defaultWorkDir           = "repos"
	defaultReminderInterval  = 7 * 24 * time.Hour
	defaultForkDelay         = 10 * time.Second
	defaultCloneAttempts     = 10
	defaultCloneRetryDelay   = 10 * time.Second
	defaultSyncRollback      = 5
	defaultMaxSearchPages    = 10 // only the first 1000 search results are served
	defaultRequestsPerSecond = 1.0
)

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// Settings holds the tunables of a run. Values come from defaults, an optional
// YAML file, PRBOT_* environment variables and finally CLI flags.
type Settings struct {
	Domain            string        `yaml:"domain"              env:"PRBOT_DOMAIN, overwrite"`
	APIURL            string        `yaml:"api_url"             env:"PRBOT_API_URL, overwrite"`
	WorkDir           string        `yaml:"work_dir"            env:"PRBOT_WORK_DIR, overwrite"`
	CloneProtocol     string        `yaml:"clone_protocol"      env:"PRBOT_CLONE_PROTOCOL, overwrite"`
	ReminderInterval  time.Duration `yaml:"reminder_interval"   env:"PRBOT_REMINDER_INTERVAL, overwrite"`
	ForkDelay         time.Duration `yaml:"fork_delay"          env:"PRBOT_FORK_DELAY, overwrite"`
	CloneAttempts     int           `yaml:"clone_attempts"      env:"PRBOT_CLONE_ATTEMPTS, overwrite"`
	CloneRetryDelay   time.Duration `yaml:"clone_retry_delay"   env:"PRBOT_CLONE_RETRY_DELAY, overwrite"`
	SyncRollback      int           `yaml:"sync_rollback"       env:"PRBOT_SYNC_ROLLBACK, overwrite"`
	MaxSearchPages    int           `yaml:"max_search_pages"    env:"PRBOT_MAX_SEARCH_PAGES, overwrite"`
	RequestsPerSecond float64       `yaml:"requests_per_second" env:"PRBOT_REQUESTS_PER_SECOND, overwrite"`
}

// DefaultSettings returns the built-in configuration.
func DefaultSettings() *Settings {
	return &Settings{
		Domain:            DefaultDomain,
		APIURL:            DefaultAPIURL,
		WorkDir:           defaultWorkDir,
		CloneProtocol:     CloneProtocolHTTPS,
		ReminderInterval:  defaultReminderInterval,
		ForkDelay:         defaultForkDelay,
		CloneAttempts:     defaultCloneAttempts,
		CloneRetryDelay:   defaultCloneRetryDelay,
		SyncRollback:      defaultSyncRollback,
		MaxSearchPages:    defaultMaxSearchPages,
		RequestsPerSecond: defaultRequestsPerSecond,
	}
}

// NewSettings builds the settings from defaults, the YAML file at path (when
// not empty) and the environment.
func NewSettings(ctx context.Context, path string) (*Settings, error) {
	settings := DefaultSettings()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		}
		if unmarshalErr := yaml.Unmarshal(data, settings); unmarshalErr != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
		}
	}

	if err := envconfig.Process(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// BaseURL returns the web URL of the configured GitHub domain.
func (s *Settings) BaseURL() string {
	return fmt.Sprintf("https://%s/", s.Domain)
}

// Validate checks for values that cannot work.
func (s *Settings) Validate() error {
	if s.Domain == "" {
		return errors.New("domain is required")
	}
	if s.APIURL == "" {
		return errors.New("api_url is required")
	}
	if s.WorkDir == "" {
		return errors.New("work_dir is required")
	}
	if s.CloneProtocol != CloneProtocolHTTPS && s.CloneProtocol != CloneProtocolSSH {
		return fmt.Errorf("clone_protocol must be %q or %q, got %q",
			CloneProtocolHTTPS, CloneProtocolSSH, s.CloneProtocol)
	}
	if s.CloneAttempts < 1 {
		return fmt.Errorf("clone_attempts must be at least 1, got %d", s.CloneAttempts)
	}
	if s.MaxSearchPages < 1 {
		return fmt.Errorf("max_search_pages must be at least 1, got %d", s.MaxSearchPages)
	}
	if s.ReminderInterval < 0 || s.ForkDelay < 0 || s.CloneRetryDelay < 0 {
		return errors.New("durations must not be negative")
	}
	if s.SyncRollback < 0 {
		return fmt.Errorf("sync_rollback must not be negative, got %d", s.SyncRollback)
	}
	if s.RequestsPerSecond <= 0 {
		return fmt.Errorf("requests_per_second must be positive, got %v", s.RequestsPerSecond)
	}
	return nil
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".prbot.yaml",
		".prbot.yml",
		"prbot.yaml",
		"prbot.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// ResolveToken expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the token from the file.
func ResolveToken(raw string, log logger.FieldLogger) string {
	if raw == "" {
		return raw
	}

	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		log.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	if info, statErr := os.Stat(resolved); statErr == nil && !info.IsDir() {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			log.Warnf("Failed to read token file %q: %v", resolved, readErr)
			return resolved
		}
		return strings.TrimSpace(string(data))
	}

	return resolved
}
