package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the furnimatch configuration shared by the server and the CLI.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Index      IndexConfig      `yaml:"index"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Generation GenerationConfig `yaml:"generation"`
	Search     SearchConfig     `yaml:"search"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	Jobs       JobsConfig       `yaml:"jobs"`
	Auth       AuthConfig       `yaml:"auth"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int      `yaml:"port"`
	ReadTimeoutSec  int      `yaml:"read_timeout_sec"`
	WriteTimeoutSec int      `yaml:"write_timeout_sec"`
	ShutdownSec     int      `yaml:"shutdown_timeout_sec"`
	CORSOrigins     []string `yaml:"cors_origins"`
}

// DatabaseConfig holds Redis Stack connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// IndexConfig names the catalog index.
type IndexConfig struct {
	Name string `yaml:"name"`
}

// ProviderConfig selects an OpenAI-compatible endpoint. Azure uses the
// deployment in place of the model name.
type ProviderConfig struct {
	Provider   string `yaml:"provider"` // openai (default) | azure
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	APIVersion string `yaml:"api_version"`
	Deployment string `yaml:"deployment"`
	Model      string `yaml:"model"`
}

// EmbeddingConfig holds the embedding provider and query cache settings.
type EmbeddingConfig struct {
	ProviderConfig `yaml:",inline"`
	Dimensions     int    `yaml:"dimensions"`
	User           string `yaml:"user"`
	CacheTTLSec    int    `yaml:"cache_ttl_sec"` // 0 disables the query cache
}

// GenerationConfig holds the chat model used by the catalog generator.
type GenerationConfig struct {
	ProviderConfig `yaml:",inline"`
}

// SearchConfig tunes query construction and ranking.
type SearchConfig struct {
	SemanticConfig  string          `yaml:"semantic_config"`
	Ranking         string          `yaml:"ranking"`          // score_only | asset_first
	OptionalFilters []string        `yaml:"optional_filters"` // furniture_type, color, material, style
	QueryFragments  map[string]bool `yaml:"query_fragments"`
}

// CatalogConfig holds ingestion settings.
type CatalogConfig struct {
	SeedFile     string  `yaml:"seed_file"`
	TopCategory  string  `yaml:"top_category"`
	DefaultPrice float64 `yaml:"default_price"` // 0 draws a random price
	MaxPrice     float64 `yaml:"max_price"`
	PriceSeed    uint64  `yaml:"price_seed"`
}

// JobsConfig holds background job settings.
type JobsConfig struct {
	Backfill BackfillConfig `yaml:"backfill"`
	Generate GenerateConfig `yaml:"generate"`
}

// BackfillConfig holds embedding backfill settings.
type BackfillConfig struct {
	BatchSize  int `yaml:"batch_size"`
	Workers    int `yaml:"workers"`
	LockTTLSec int `yaml:"lock_ttl_sec"` // 0 disables the run lock
}

// GenerateConfig holds catalog generator job settings.
type GenerateConfig struct {
	Count int `yaml:"count"`
}

// Provider kinds accepted by ProviderConfig.Provider.
const (
	ProviderOpenAI = "openai"
	ProviderAzure  = "azure"
)

// Load reads configuration from a YAML file by environment name (local, dev, prod).
// A .env file in the working directory is loaded into the environment first.
func Load(env string) (Config, error) {
	if err := loadDotEnv(); err != nil {
		return Config{}, err
	}

	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Index.Name == "" {
		c.Index.Name = "furniture-products"
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = ProviderOpenAI
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "text-embedding-3-small"
	}
	if c.Embedding.Dimensions <= 0 {
		c.Embedding.Dimensions = 1536
	}
	if c.Generation.Provider == "" {
		c.Generation.Provider = c.Embedding.Provider
	}
	if c.Generation.APIKey == "" {
		c.Generation.APIKey = c.Embedding.APIKey
	}
	if c.Generation.BaseURL == "" {
		c.Generation.BaseURL = c.Embedding.BaseURL
	}
	if c.Generation.APIVersion == "" {
		c.Generation.APIVersion = c.Embedding.APIVersion
	}
	if c.Generation.Model == "" {
		c.Generation.Model = "gpt-4o-mini"
	}
	if c.Search.SemanticConfig == "" {
		c.Search.SemanticConfig = "default"
	}
	if c.Search.Ranking == "" {
		c.Search.Ranking = "asset_first"
	}
	if c.Catalog.SeedFile == "" {
		c.Catalog.SeedFile = "sample data/sample_furniture_data.json"
	}
	if c.Catalog.TopCategory == "" {
		c.Catalog.TopCategory = "ADULT"
	}
	if c.Catalog.MaxPrice <= 0 {
		c.Catalog.MaxPrice = 3000
	}
	if c.Jobs.Backfill.BatchSize <= 0 {
		c.Jobs.Backfill.BatchSize = 20
	}
	if c.Jobs.Backfill.Workers <= 0 {
		c.Jobs.Backfill.Workers = 8
	}
	if c.Jobs.Generate.Count <= 0 {
		c.Jobs.Generate.Count = 1
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if err := validateProvider("embedding", c.Embedding.ProviderConfig); err != nil {
		return err
	}
	if err := validateProvider("generation", c.Generation.ProviderConfig); err != nil {
		return err
	}
	switch c.Search.Ranking {
	case "score_only", "asset_first":
	default:
		return fmt.Errorf("search.ranking must be \"score_only\" or \"asset_first\", got %q", c.Search.Ranking)
	}
	if c.Jobs.Backfill.LockTTLSec < 0 {
		return fmt.Errorf("jobs.backfill.lock_ttl_sec must not be negative, got %d", c.Jobs.Backfill.LockTTLSec)
	}
	if c.Embedding.CacheTTLSec < 0 {
		return fmt.Errorf("embedding.cache_ttl_sec must not be negative, got %d", c.Embedding.CacheTTLSec)
	}
	return nil
}

func validateProvider(section string, p ProviderConfig) error {
	switch p.Provider {
	case ProviderOpenAI:
	case ProviderAzure:
		if p.BaseURL == "" {
			return fmt.Errorf("%s.base_url is required for the azure provider", section)
		}
		if p.Deployment == "" {
			return fmt.Errorf("%s.deployment is required for the azure provider", section)
		}
	default:
		return fmt.Errorf("%s.provider must be %q or %q, got %q", section, ProviderOpenAI, ProviderAzure, p.Provider)
	}
	return nil
}

// loadDotEnv loads ./.env without overriding variables already set.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// findConfigPath locates the config file. CONFIG_PATH wins when set.
func findConfigPath(env string) string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}

	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
