package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultAPIBaseURL      = "https://api.srvkp.com/v1"
	DefaultOAuthURL        = "https://api.srvkp.com/oauth2/device"
	DefaultTokenRefreshURL = "https://api.srvkp.com/oauth2/token"
	DefaultWebBase         = "https://kino.pub/item/view"
	DefaultCacheTTL        = 6 * time.Hour

	envPrefix      = "MOVIEBUDDY"
	configFileName = "config.yaml"
	tokenFileName  = "token.bin"
)

// ErrMissingCredentials indicates the OAuth client registration is not configured
var ErrMissingCredentials = errors.New("kinopub client_id and client_secret are required")

// Config holds all application configuration
type Config struct {
	KinoPub   KinoPubConfig `mapstructure:"kinopub"`
	Store     StoreConfig   `mapstructure:"store"`
	Browser   BrowserConfig `mapstructure:"browser"`
	Cache     CacheConfig   `mapstructure:"cache"`
	Logging   LoggingConfig `mapstructure:"logging"`
	ConfigDir string        `mapstructure:"config_dir"`

	// file is the config file that was read or would be written, if any
	file string
}

// KinoPubConfig holds the API endpoints and OAuth client registration
type KinoPubConfig struct {
	ClientID        string `mapstructure:"client_id"`
	ClientSecret    string `mapstructure:"client_secret"`
	APIBaseURL      string `mapstructure:"api_base_url"`
	OAuthURL        string `mapstructure:"oauth_url"`
	TokenRefreshURL string `mapstructure:"token_refresh_url"`
	WebBase         string `mapstructure:"web_base"`
}

// StoreConfig holds the relational store location
type StoreConfig struct {
	DatabaseURL string `mapstructure:"database_url"` // postgres:// URL or SQLite path
}

// BrowserConfig overrides the browser used to open watch pages
type BrowserConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

// CacheConfig holds the item detail cache settings
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Dir     string        `mapstructure:"dir"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		KinoPub: KinoPubConfig{
			APIBaseURL:      DefaultAPIBaseURL,
			OAuthURL:        DefaultOAuthURL,
			TokenRefreshURL: DefaultTokenRefreshURL,
			WebBase:         DefaultWebBase,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     filepath.Join(defaultDataPath(), "cache"),
			TTL:     DefaultCacheTTL,
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), "moviebuddy.log"),
			Level: "INFO",
		},
		ConfigDir: defaultConfigPath(),
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "moviebuddy")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "moviebuddy")
	}
}

// defaultDataPath returns the directory for logs and caches
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "moviebuddy")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "moviebuddy")
	}
}

// newViper builds a viper instance with defaults and environment bindings.
// Besides MOVIEBUDDY_* names, the bare KINOPUB_* and DATABASE_URL
// variables are honoured.
func newViper(defaults *Config) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("kinopub.client_id", defaults.KinoPub.ClientID)
	v.SetDefault("kinopub.client_secret", defaults.KinoPub.ClientSecret)
	v.SetDefault("kinopub.api_base_url", defaults.KinoPub.APIBaseURL)
	v.SetDefault("kinopub.oauth_url", defaults.KinoPub.OAuthURL)
	v.SetDefault("kinopub.token_refresh_url", defaults.KinoPub.TokenRefreshURL)
	v.SetDefault("kinopub.web_base", defaults.KinoPub.WebBase)
	v.SetDefault("store.database_url", defaults.Store.DatabaseURL)
	v.SetDefault("browser.command", defaults.Browser.Command)
	v.SetDefault("browser.args", defaults.Browser.Args)
	v.SetDefault("cache.enabled", defaults.Cache.Enabled)
	v.SetDefault("cache.dir", defaults.Cache.Dir)
	v.SetDefault("cache.ttl", defaults.Cache.TTL)
	v.SetDefault("logging.file", defaults.Logging.File)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("config_dir", defaults.ConfigDir)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bind := func(key string, names ...string) {
		_ = v.BindEnv(append([]string{key, envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}, names...)...)
	}
	bind("kinopub.client_id", "KINOPUB_CLIENT_ID")
	bind("kinopub.client_secret", "KINOPUB_CLIENT_SECRET")
	bind("kinopub.api_base_url", "KINOPUB_API_BASE_URL")
	bind("kinopub.oauth_url", "KINOPUB_OAUTH_URL")
	bind("kinopub.token_refresh_url", "KINOPUB_TOKEN_REFRESH_URL")
	bind("kinopub.web_base", "KINOPUB_WEB_BASE")
	bind("store.database_url", "DATABASE_URL")

	return v
}

// LoadConfig loads configuration from file and environment. An empty path
// searches the default config directory and the working directory.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	v := newViper(cfg)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(strings.TrimSuffix(configFileName, filepath.Ext(configFileName)))
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(path != "" && errors.Is(err, os.ErrNotExist)) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.file = v.ConfigFileUsed()
	if cfg.file == "" {
		cfg.file = path
	}
	cfg.Logging.File = expandHome(cfg.Logging.File)
	cfg.Cache.Dir = expandHome(cfg.Cache.Dir)
	cfg.ConfigDir = expandHome(cfg.ConfigDir)
	return cfg, nil
}

// SaveConfig writes the configuration to its file, defaulting to
// config.yaml in the config directory.
func SaveConfig(cfg *Config) error {
	configFile := cfg.File()
	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.Set("kinopub.client_id", cfg.KinoPub.ClientID)
	v.Set("kinopub.client_secret", cfg.KinoPub.ClientSecret)
	v.Set("kinopub.api_base_url", cfg.KinoPub.APIBaseURL)
	v.Set("kinopub.oauth_url", cfg.KinoPub.OAuthURL)
	v.Set("kinopub.token_refresh_url", cfg.KinoPub.TokenRefreshURL)
	v.Set("kinopub.web_base", cfg.KinoPub.WebBase)

	v.Set("store.database_url", cfg.Store.DatabaseURL)

	v.Set("browser.command", cfg.Browser.Command)
	v.Set("browser.args", cfg.Browser.Args)

	v.Set("cache.enabled", cfg.Cache.Enabled)
	v.Set("cache.dir", cfg.Cache.Dir)
	v.Set("cache.ttl", cfg.Cache.TTL.String())

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	v.Set("config_dir", cfg.ConfigDir)

	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	cfg.file = configFile
	return nil
}

// File returns the config file path used for loading and saving
func (c *Config) File() string {
	if c.file != "" {
		return c.file
	}
	return filepath.Join(c.ConfigDir, configFileName)
}

// TokenFile returns the encrypted token file path
func (c *Config) TokenFile() string {
	return filepath.Join(c.ConfigDir, tokenFileName)
}

// Validate checks that the OAuth client registration is present
func (c *Config) Validate() error {
	if strings.TrimSpace(c.KinoPub.ClientID) == "" || strings.TrimSpace(c.KinoPub.ClientSecret) == "" {
		return fmt.Errorf("%w: set KINOPUB_CLIENT_ID and KINOPUB_CLIENT_SECRET or add them to %s", ErrMissingCredentials, c.File())
	}
	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
