package internal

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// Config holds application settings
type Config struct {
	// User configurable settings
	APIKey         string
	APIKeyFile     string
	Region         string
	OutputDir      string
	OutputFormats  []string
	MaxResults     int
	MinViews       uint64
	Order          string
	RequestDelay   time.Duration
	RequestTimeout time.Duration
	MaxRetries     int
	DailyQuota     int
	AIModel        string
	OpenAIAPIKey   string
	SummaryTimeout time.Duration
	Prompt         string
	Verbose        bool
	Quiet          bool
	LogEnabled     bool

	// Fixed XDG paths (not configurable)
	ConfigDir string
	DataDir   string
	CacheDir  string
}

//go:embed config.toml prompt.txt report.md.tmpl
var defaultFS embed.FS

// QuotaFile is the path of the quota ledger
func (c *Config) QuotaFile() string {
	return filepath.Join(c.DataDir, "quota_usage.json")
}

// ensureDefaultFile checks if a file exists in the specified directory
// and creates it from the embedded default if it doesn't exist
func ensureDefaultFile(configDir, embedFilename, description string) error {
	filePath := filepath.Join(configDir, embedFilename)

	if FileExists(filePath) {
		return nil
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	defaultContent, err := defaultFS.ReadFile(embedFilename)
	if err != nil {
		return fmt.Errorf("reading embedded default %s: %w", description, err)
	}

	if err := os.WriteFile(filePath, defaultContent, 0644); err != nil {
		return fmt.Errorf("writing default %s: %w", description, err)
	}

	fmt.Fprintf(os.Stderr, "Created default %s at %s\n", description, filePath)
	return nil
}

// EnsureDefaultConfig checks if a config file exists in the XDG config directory
// and creates it from the embedded default if it doesn't exist
func EnsureDefaultConfig(configDir string) error {
	return ensureDefaultFile(configDir, "config.toml", "configuration")
}

// EnsureDefaultPrompt checks if a prompt.txt file exists in the XDG config directory
// and creates it from the embedded default if it doesn't exist
func EnsureDefaultPrompt(configDir string) error {
	return ensureDefaultFile(configDir, "prompt.txt", "insights prompt template")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_key", "")
	v.SetDefault("api_key_file", "api_key.txt")
	v.SetDefault("region", "US")
	v.SetDefault("output_dir", "output")
	v.SetDefault("output_formats", []string{"csv"})
	v.SetDefault("max_results", 100)
	v.SetDefault("min_views", 10000)
	v.SetDefault("order", "viewCount")
	v.SetDefault("request_delay", 500*time.Millisecond)
	v.SetDefault("request_timeout", 30*time.Second)
	v.SetDefault("max_retries", 3)
	v.SetDefault("daily_quota", 10000)
	v.SetDefault("ai_model", "gpt-4o-mini")
	v.SetDefault("summary_timeout", 2*time.Minute)
	v.SetDefault("prompt", "") // if empty will use default prompt template
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)
	v.SetDefault("log_enabled", false)
}

// InitConfig initializes Viper and loads configuration. configFile overrides
// the XDG lookup when non-empty.
func InitConfig(configFile string) *Config {
	configDir := filepath.Join(xdg.ConfigHome, "ytscrape")
	dataDir := filepath.Join(xdg.DataHome, "ytscrape")
	cacheDir := filepath.Join(xdg.CacheHome, "ytscrape")

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("YTSCRAPE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// Well known variables next to the prefixed ones
	_ = v.BindEnv("api_key", "YTSCRAPE_API_KEY", "YOUTUBE_API_KEY")
	_ = v.BindEnv("openai_api_key", "YTSCRAPE_OPENAI_API_KEY", "OPENAI_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: Error reading config file: %v\n", err)
		}
	}

	config := configFromViper(v)
	config.ConfigDir = configDir
	config.DataDir = dataDir
	config.CacheDir = cacheDir

	if config.Verbose {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	return config
}

func configFromViper(v *viper.Viper) *Config {
	return &Config{
		APIKey:         strings.TrimSpace(v.GetString("api_key")),
		APIKeyFile:     v.GetString("api_key_file"),
		Region:         v.GetString("region"),
		OutputDir:      v.GetString("output_dir"),
		OutputFormats:  v.GetStringSlice("output_formats"),
		MaxResults:     v.GetInt("max_results"),
		MinViews:       v.GetUint64("min_views"),
		Order:          v.GetString("order"),
		RequestDelay:   v.GetDuration("request_delay"),
		RequestTimeout: v.GetDuration("request_timeout"),
		MaxRetries:     v.GetInt("max_retries"),
		DailyQuota:     v.GetInt("daily_quota"),
		AIModel:        v.GetString("ai_model"),
		OpenAIAPIKey:   v.GetString("openai_api_key"),
		SummaryTimeout: v.GetDuration("summary_timeout"),
		Prompt:         v.GetString("prompt"),
		Verbose:        v.GetBool("verbose"),
		Quiet:          v.GetBool("quiet"),
		LogEnabled:     v.GetBool("log_enabled"),
	}
}

// LoadAPIKey returns the configured API key, falling back to the key file
func LoadAPIKey(config *Config) (string, error) {
	if config.APIKey != "" {
		return config.APIKey, nil
	}

	data, err := os.ReadFile(config.APIKeyFile)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w at %s: create it with your YouTube Data API key or set YOUTUBE_API_KEY", ErrAPIKeyNotFound, config.APIKeyFile)
		}
		return "", fmt.Errorf("reading api key file: %w", err)
	}

	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", fmt.Errorf("%w: add your YouTube Data API key to %s", ErrAPIKeyEmpty, config.APIKeyFile)
	}

	config.APIKey = key
	return key, nil
}
