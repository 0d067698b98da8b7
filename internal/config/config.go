package config

import (
	"log"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"BiasFeed/internal/domain"
)

const (
	configPathEnv         = "BIASFEED_CONFIG"
	backendURLEnv         = "BIASFEED_BACKEND_URL"
	authTokenEnv          = "BIASFEED_AUTH_TOKEN"
	intelligenceURLEnv    = "BIASFEED_INTELLIGENCE_URL"
	intelligenceAPIKeyEnv = "BIASFEED_INTELLIGENCE_API_KEY"
	openAIAPIKeyEnv       = "OPENAI_API_KEY"
	openAIModelEnv        = "OPENAI_MODEL"
	dbPathEnv             = "BIASFEED_DB_PATH"
	logLevelEnv           = "BIASFEED_LOG_LEVEL"
	addrEnv               = "BIASFEED_ADDR"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging      LoggingConfig      `yaml:"logging"`
	Backend      BackendConfig      `yaml:"backend"`
	Intelligence IntelligenceConfig `yaml:"intelligence"`
	Chat         ChatConfig         `yaml:"chat"`
	Storage      StorageConfig      `yaml:"storage"`
	Feed         FeedConfig         `yaml:"feed"`
	Server       ServerConfig       `yaml:"server"`
}

// LoggingConfig selects the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// BackendConfig points at the live news backend.
type BackendConfig struct {
	URL       string        `yaml:"url"`
	AuthToken string        `yaml:"authToken"`
	Timeout   time.Duration `yaml:"timeout"`
}

// IntelligenceConfig describes the stance scoring service.
type IntelligenceConfig struct {
	URL      string        `yaml:"url"`
	APIKey   string        `yaml:"apiKey"`
	Method   string        `yaml:"method"`
	RetryMax int           `yaml:"retryMax"`
	Timeout  time.Duration `yaml:"timeout"`
}

// ChatConfig defines how to contact the chat completion API.
type ChatConfig struct {
	APIKey       string `yaml:"apiKey"`
	Model        string `yaml:"model"`
	BaseURL      string `yaml:"baseUrl"`
	SystemPrompt string `yaml:"systemPrompt"`
	MaxHistory   int    `yaml:"maxHistory"`
}

// StorageConfig selects the profile repository.
type StorageConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// FeedConfig tunes fetching and pagination.
type FeedConfig struct {
	Chain            []string      `yaml:"chain"`
	DefaultBias      *float64      `yaml:"defaultBias"`
	LimitPerCategory int           `yaml:"limitPerCategory"`
	PageSize         int           `yaml:"pageSize"`
	RequireAuth      bool          `yaml:"requireAuth"`
	UserID           string        `yaml:"userId"`
	RefreshInterval  time.Duration `yaml:"refreshInterval"`
}

// Bias is the configured default bias clamped into [0,1].
func (f FeedConfig) Bias() float64 {
	if f.DefaultBias == nil {
		return domain.NeutralBias
	}
	return domain.NormalizeBias(*f.DefaultBias)
}

// ServerConfig is the HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Load reads the YAML file named by $BIASFEED_CONFIG (if set) and applies
// environment overrides.
func Load() Config {
	return LoadFrom(os.Getenv(configPathEnv))
}

// LoadFrom is Load with an explicit file path; an empty path uses defaults.
func LoadFrom(path string) Config {
	cfg := defaultConfig()

	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else if fileCfg, err := Parse(raw); err != nil {
			log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
		} else {
			cfg = mergeConfig(cfg, fileCfg)
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

// Parse decodes a YAML document without applying defaults.
func Parse(raw []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(backendURLEnv); v != "" {
		c.Backend.URL = v
	}
	if v := os.Getenv(authTokenEnv); v != "" {
		c.Backend.AuthToken = v
	}

	if v := os.Getenv(intelligenceURLEnv); v != "" {
		c.Intelligence.URL = v
	}
	if v := os.Getenv(intelligenceAPIKeyEnv); v != "" {
		c.Intelligence.APIKey = v
	}

	if v := os.Getenv(openAIAPIKeyEnv); v != "" {
		c.Chat.APIKey = v
	}
	if v := os.Getenv(openAIModelEnv); v != "" {
		c.Chat.Model = v
	}

	if v := os.Getenv(dbPathEnv); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(addrEnv); v != "" {
		c.Server.Addr = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Backend.URL != "" {
		base.Backend.URL = override.Backend.URL
	}
	if override.Backend.AuthToken != "" {
		base.Backend.AuthToken = override.Backend.AuthToken
	}
	if override.Backend.Timeout > 0 {
		base.Backend.Timeout = override.Backend.Timeout
	}

	if override.Intelligence.URL != "" {
		base.Intelligence.URL = override.Intelligence.URL
	}
	if override.Intelligence.APIKey != "" {
		base.Intelligence.APIKey = override.Intelligence.APIKey
	}
	if override.Intelligence.Method != "" {
		base.Intelligence.Method = override.Intelligence.Method
	}
	if override.Intelligence.RetryMax > 0 {
		base.Intelligence.RetryMax = override.Intelligence.RetryMax
	}
	if override.Intelligence.Timeout > 0 {
		base.Intelligence.Timeout = override.Intelligence.Timeout
	}

	if override.Chat.APIKey != "" {
		base.Chat.APIKey = override.Chat.APIKey
	}
	if override.Chat.Model != "" {
		base.Chat.Model = override.Chat.Model
	}
	if override.Chat.BaseURL != "" {
		base.Chat.BaseURL = override.Chat.BaseURL
	}
	if override.Chat.SystemPrompt != "" {
		base.Chat.SystemPrompt = override.Chat.SystemPrompt
	}
	if override.Chat.MaxHistory > 0 {
		base.Chat.MaxHistory = override.Chat.MaxHistory
	}

	if override.Storage.Driver != "" {
		base.Storage.Driver = strings.ToLower(override.Storage.Driver)
	}
	if override.Storage.Path != "" {
		base.Storage.Path = override.Storage.Path
	}

	if len(override.Feed.Chain) > 0 {
		base.Feed.Chain = override.Feed.Chain
	}
	if override.Feed.DefaultBias != nil {
		b := domain.NormalizeBias(*override.Feed.DefaultBias)
		base.Feed.DefaultBias = &b
	}
	if override.Feed.LimitPerCategory > 0 {
		base.Feed.LimitPerCategory = override.Feed.LimitPerCategory
	}
	if override.Feed.PageSize > 0 {
		base.Feed.PageSize = override.Feed.PageSize
	}
	if override.Feed.RequireAuth {
		base.Feed.RequireAuth = true
	}
	if override.Feed.UserID != "" {
		base.Feed.UserID = override.Feed.UserID
	}
	if override.Feed.RefreshInterval > 0 {
		base.Feed.RefreshInterval = override.Feed.RefreshInterval
	}

	if override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}

	return base
}

func defaultConfig() Config {
	bias := domain.NeutralBias
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Backend: BackendConfig{URL: "http://localhost:8000/v1", Timeout: 20 * time.Second},
		Intelligence: IntelligenceConfig{
			URL:      "",
			Method:   string(domain.MethodAuto),
			RetryMax: 2,
			Timeout:  15 * time.Second,
		},
		Chat: ChatConfig{
			Model:        "gpt-4o-mini",
			SystemPrompt: "You are a news assistant that explains a story using the coverage the user has been shown.",
			MaxHistory:   20,
		},
		Storage: StorageConfig{Driver: "sqlite", Path: "biasfeed.db"},
		Feed: FeedConfig{
			Chain:            []string{"live", "mock"},
			DefaultBias:      &bias,
			LimitPerCategory: 10,
			PageSize:         20,
			UserID:           "local",
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}
