package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"homeboard/internal/domain"
	"homeboard/internal/eventbus"
)

// DefaultDebounceMillis is the search quiet period used when none is configured
const DefaultDebounceMillis = 1000

// Config represents the application configuration
type Config struct {
	Version int            `toml:"version"`
	API     APISettings    `toml:"api"`
	Source  SourceSettings `toml:"source"`
	UI      UISettings     `toml:"ui"`
	LogFile string         `toml:"log_file"`
}

// APISettings describes the attendance API
type APISettings struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// SourceSettings selects a local roster file instead of the API
type SourceSettings struct {
	StudentsFile string `toml:"students_file"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	DebounceMillis int    `toml:"debounce_ms"`
	DefaultSort    string `toml:"default_sort"`
	ShowIDs        bool   `toml:"show_ids"`
}

// Timeout returns the HTTP timeout as a duration
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// Debounce returns the search quiet period as a duration
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.UI.DebounceMillis) * time.Millisecond
}

// SortKey returns the configured default sort key
func (c *Config) SortKey() domain.SortKey {
	return domain.SortKey(c.UI.DefaultSort)
}

// Validate checks the configuration for values the app cannot run with
func (c *Config) Validate() error {
	var errs []error
	if c.API.BaseURL == "" && c.Source.StudentsFile == "" {
		errs = append(errs, errors.New("either api.base_url or source.students_file must be set"))
	}
	if c.API.TimeoutSeconds < 0 {
		errs = append(errs, fmt.Errorf("api.timeout_seconds must not be negative, got %d", c.API.TimeoutSeconds))
	}
	if c.UI.DebounceMillis < 0 {
		errs = append(errs, fmt.Errorf("ui.debounce_ms must not be negative, got %d", c.UI.DebounceMillis))
	}
	if c.UI.DefaultSort != "" && !c.SortKey().Valid() {
		errs = append(errs, fmt.Errorf("ui.default_sort must be %q or %q, got %q",
			domain.SortFirstName, domain.SortLastName, c.UI.DefaultSort))
	}
	return errors.Join(errs...)
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// NewConfigService creates a config service backed by the user config directory
func NewConfigService() ConfigService {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}

	return &configService{
		filePath: filepath.Join(configDir, "homeboard", "config.toml"),
	}
}

// NewConfigServiceWithBus creates a config service with event bus support.
// An empty path keeps the default location.
func NewConfigServiceWithBus(bus eventbus.EventBus, path string) ConfigService {
	cs := NewConfigService().(*configService)
	cs.bus = bus
	if path != "" {
		cs.filePath = path
	}
	return cs
}

// Path returns the file Load and Save operate on
func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from file, returning defaults if it does not exist
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, os.ErrNotExist) {
		cfg = DefaultConfig()
	} else if err != nil {
		return nil, err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{Path: cs.filePath})
	}
	return cfg, nil
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path.
// Missing keys keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		API: APISettings{
			BaseURL:        "http://localhost:4001",
			TimeoutSeconds: 10,
		},
		UI: UISettings{
			DebounceMillis: DefaultDebounceMillis,
			DefaultSort:    string(domain.SortFirstName),
		},
		LogFile: "homeboard.log",
	}
}
