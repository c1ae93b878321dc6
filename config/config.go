package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/qyinm/savorytui/api"
	"github.com/qyinm/savorytui/catalog"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override, e.g. SAVORY_API_BASE_URL.
	EnvPrefix = "SAVORY"
	appDir    = "savorytui"
	fileName  = "savory"
)

type Config struct {
	API     APIConfig
	Admin   AdminConfig
	Catalog catalog.Config
	Log     LogConfig
	Prefs   PrefsConfig
	MCP     MCPConfig
}

type APIConfig struct {
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

type AdminConfig struct {
	// Password is the shared secret of the back office. It is sent as a
	// query parameter and is not a real credential.
	Password string
}

type LogConfig struct {
	Level string
	File  string
}

type PrefsConfig struct {
	Path string
}

type MCPConfig struct {
	Port               string
	AllowedOrigins     []string
	Stateless          bool
	EnableAdmin        bool
	APIKey             string
	RPS                float64
	Burst              int
	SessionTimeout     time.Duration
	CacheClearInterval time.Duration
}

func (c Config) String() string {
	return fmt.Sprintf(
		"[CONFIG: API: %s | PageSize: %d | LogLevel: %s | MCP port: %s | Admin tools: %t]",
		c.API.BaseURL,
		c.Catalog.PageSize,
		c.Log.Level,
		c.MCP.Port,
		c.MCP.EnableAdmin,
	)
}

// Load reads savory.yaml (from file when given, otherwise from the working
// directory or the user config directory), a .env file if present, and
// SAVORY_* environment variables, in increasing order of precedence.
func Load(file string) (*Config, error) {
	// does nothing when .env is missing
	_ = godotenv.Load(".env")

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("mcp.port", EnvPrefix+"_MCP_PORT", "PORT")
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config file %s", file)
		}
	} else {
		v.SetConfigName(fileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir := userDir(); dir != "" {
			v.AddConfigPath(dir)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.Wrap(err, "read config file")
			}
		}
	}

	cfg := &Config{
		API: APIConfig{
			BaseURL:  strings.TrimSpace(v.GetString("api.base_url")),
			Timeout:  v.GetDuration("api.timeout"),
			CacheTTL: v.GetDuration("api.cache_ttl"),
		},
		Admin: AdminConfig{
			Password: v.GetString("admin.password"),
		},
		Catalog: catalog.Config{
			PageSize:       v.GetInt("catalog.page_size"),
			OfferThreshold: v.GetFloat64("catalog.offer_threshold"),
			OfferMarkup:    v.GetFloat64("catalog.offer_markup"),
			SearchDebounce: v.GetDuration("catalog.search_debounce"),
		},
		Log: LogConfig{
			Level: strings.ToLower(strings.TrimSpace(v.GetString("log.level"))),
			File:  v.GetString("log.file"),
		},
		Prefs: PrefsConfig{
			Path: v.GetString("prefs.path"),
		},
		MCP: MCPConfig{
			Port:               strings.TrimSpace(v.GetString("mcp.port")),
			AllowedOrigins:     stringList(v, "mcp.allowed_origins"),
			Stateless:          v.GetBool("mcp.stateless"),
			EnableAdmin:        v.GetBool("mcp.enable_admin"),
			APIKey:             strings.TrimSpace(v.GetString("mcp.api_key")),
			RPS:                v.GetFloat64("mcp.rps"),
			Burst:              v.GetInt("mcp.burst"),
			SessionTimeout:     v.GetDuration("mcp.session_timeout"),
			CacheClearInterval: v.GetDuration("mcp.cache_clear_interval"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := catalog.DefaultConfig()
	dir := userDir()

	v.SetDefault("api.base_url", api.DefaultBaseURL)
	v.SetDefault("api.timeout", 10*time.Second)
	v.SetDefault("api.cache_ttl", 30*time.Second)
	v.SetDefault("admin.password", "1234")
	v.SetDefault("catalog.page_size", d.PageSize)
	v.SetDefault("catalog.offer_threshold", d.OfferThreshold)
	v.SetDefault("catalog.offer_markup", d.OfferMarkup)
	v.SetDefault("catalog.search_debounce", d.SearchDebounce)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(dir, "savorytui.log"))
	v.SetDefault("prefs.path", filepath.Join(dir, "prefs.yaml"))
	v.SetDefault("mcp.port", "8080")
	v.SetDefault("mcp.allowed_origins", "")
	v.SetDefault("mcp.stateless", false)
	v.SetDefault("mcp.enable_admin", false)
	v.SetDefault("mcp.api_key", "")
	v.SetDefault("mcp.rps", 2.0)
	v.SetDefault("mcp.burst", 5)
	v.SetDefault("mcp.session_timeout", 15*time.Minute)
	v.SetDefault("mcp.cache_clear_interval", 30*time.Minute)
}

// Validate checks if the configuration is usable
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.Errorf("api.base_url must be an absolute http(s) URL, got %q", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return errors.New("api.timeout must be positive")
	}
	if c.API.CacheTTL < 0 {
		return errors.New("api.cache_ttl must not be negative")
	}
	if c.Admin.Password == "" {
		return errors.New("admin.password is required")
	}
	if c.Catalog.PageSize <= 0 {
		return errors.Errorf("catalog.page_size must be positive, got %d", c.Catalog.PageSize)
	}
	if c.Catalog.OfferThreshold <= 0 {
		return errors.New("catalog.offer_threshold must be positive")
	}
	if c.Catalog.OfferMarkup < 1 {
		return errors.Errorf("catalog.offer_markup must be at least 1, got %g", c.Catalog.OfferMarkup)
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Log.Level] {
		return errors.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Log.Level)
	}

	if c.MCP.Port == "" {
		return errors.New("mcp.port is required")
	}
	if c.MCP.RPS <= 0 {
		c.MCP.RPS = 2
	}
	if c.MCP.Burst <= 0 {
		c.MCP.Burst = 5
	}
	if c.MCP.EnableAdmin && c.MCP.APIKey == "" {
		return errors.New("mcp.api_key is required when mcp.enable_admin is set")
	}
	return nil
}

func userDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appDir)
}

// stringList accepts a YAML list as well as a comma separated string.
func stringList(v *viper.Viper, key string) []string {
	out := make([]string, 0)
	for _, s := range v.GetStringSlice(key) {
		out = append(out, parseCSV(s)...)
	}
	return out
}

func parseCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		v := strings.TrimSpace(p)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
