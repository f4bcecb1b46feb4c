package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string            `toml:"environment"` // "development" or "production"
	Server      ServerConfig      `toml:"server"`
	Storage     StorageConfig     `toml:"storage"`
	Logging     LoggingConfig     `toml:"logging"`
	Embeddings  EmbeddingsConfig  `toml:"embeddings"`
	LLM         LLMConfig         `toml:"llm"`
	Gemini      GeminiConfig      `toml:"gemini"`
	Claude      ClaudeConfig      `toml:"claude"`
	VectorIndex VectorIndexConfig `toml:"vector_index"`
	RAG         RAGConfig         `toml:"rag"`
	Processing  ProcessingConfig  `toml:"processing"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// EmbeddingsConfig selects and configures the embedding provider.
// Exactly one provider is active per process; the choice is made at startup.
type EmbeddingsConfig struct {
	Provider  string       `toml:"provider" validate:"required,oneof=openai gemini"`
	Model     string       `toml:"model"`                     // Embedding model (defaults per provider)
	Dimension int          `toml:"dimension" validate:"gt=0"` // Vector dimensionality, uniform across all stored chunks
	OpenAI    OpenAIConfig `toml:"openai"`
}

// OpenAIConfig contains OpenAI API configuration for embeddings
type OpenAIConfig struct {
	APIKey string `toml:"api_key"` // OpenAI API key
	APIURL string `toml:"api_url"` // Base URL (default: "https://api.openai.com/v1")
}

// LLMProvider represents the chat-completion provider type
type LLMProvider string

const (
	// LLMProviderGemini uses Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"
	// LLMProviderClaude uses Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"
)

// LLMConfig contains unified configuration for chat-completion providers
type LLMConfig struct {
	DefaultProvider LLMProvider `toml:"default_provider" validate:"required,oneof=gemini claude"`
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`     // Google Gemini API key
	Model       string  `toml:"model"`       // Chat model (default: "gemini-2.5-flash")
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string (default: "2m")
	RateLimit   string  `toml:"rate_limit"`  // Minimum interval between calls (default: "1s")
	Temperature float32 `toml:"temperature"` // Chat completion temperature (default: 0.7)
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`     // Anthropic API key
	Model       string  `toml:"model"`       // Chat model (default: "claude-3-5-haiku-20241022")
	MaxTokens   int     `toml:"max_tokens"`  // Maximum tokens in response (default: 4096)
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string (default: "2m")
	RateLimit   string  `toml:"rate_limit"`  // Minimum interval between calls (default: "1s")
	Temperature float32 `toml:"temperature"` // Completion temperature (default: 0.7)
}

// VectorIndexConfig contains the optional remote vector-search backend.
// When disabled (or unreachable) similarity search falls back to the local
// exhaustive scan over BadgerDB chunks.
type VectorIndexConfig struct {
	Enabled    bool   `toml:"enabled"`
	URL        string `toml:"url"`        // Qdrant base URL, e.g. "http://localhost:6333"
	APIKey     string `toml:"api_key"`    // Optional Qdrant API key
	Collection string `toml:"collection"` // Collection name (default: "finsight_chunks")
	Timeout    string `toml:"timeout"`    // HTTP timeout as duration string (default: "15s")
}

// RAGConfig contains retrieval tuning parameters
type RAGConfig struct {
	MaxChunkSize int `toml:"max_chunk_size" validate:"gt=0"` // Maximum chunk length in characters
	AgentTopK    int `toml:"agent_top_k"`                    // Retrieval depth for specialized agents
	CitationTopK int `toml:"citation_top_k"`                 // Retrieval depth for citation building
}

// ProcessingConfig controls the background re-embedding sweep
type ProcessingConfig struct {
	Enabled  bool   `toml:"enabled"`
	Schedule string `toml:"schedule"` // Cron schedule format
	Limit    int    `toml:"limit"`    // Max pending chunks to re-embed per run
}

// NewDefaultConfig creates a configuration with default values.
// Technical parameters are hardcoded here for production stability; only
// user-facing settings should be exposed in finsight.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout", "file"},
		},
		Embeddings: EmbeddingsConfig{
			Provider:  "gemini",
			Model:     "", // Resolved per provider: text-embedding-3-small / text-embedding-004
			Dimension: 768,
			OpenAI: OpenAIConfig{
				APIURL: "https://api.openai.com/v1",
			},
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderGemini,
		},
		Gemini: GeminiConfig{
			Model:       "gemini-2.5-flash",
			Timeout:     "2m",
			RateLimit:   "1s",
			Temperature: 0.7,
		},
		Claude: ClaudeConfig{
			Model:       "claude-3-5-haiku-20241022",
			MaxTokens:   4096,
			Timeout:     "2m",
			RateLimit:   "1s",
			Temperature: 0.7,
		},
		VectorIndex: VectorIndexConfig{
			Enabled:    false,
			Collection: "finsight_chunks",
			Timeout:    "15s",
		},
		RAG: RAGConfig{
			MaxChunkSize: 500,
			AgentTopK:    10,
			CitationTopK: 15,
		},
		Processing: ProcessingConfig{
			Enabled:  false,
			Schedule: "0 */30 * * * *", // Every 30 minutes
			Limit:    500,
		},
	}
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
// An empty path skips the file step and uses defaults plus env overrides.
func LoadFromFile(path string) (*Config, error) {
	config := NewDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration for startup-fatal problems: a missing
// provider credential or an enabled remote index without an endpoint.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Embeddings.Provider == "openai" && c.Embeddings.OpenAI.APIKey == "" {
		return fmt.Errorf("openai embeddings provider selected but embeddings.openai.api_key is not set")
	}
	if c.Embeddings.Provider == "gemini" && c.Gemini.APIKey == "" {
		return fmt.Errorf("gemini embeddings provider selected but gemini.api_key is not set")
	}

	switch c.LLM.DefaultProvider {
	case LLMProviderGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("gemini is the default LLM provider but gemini.api_key is not set")
		}
	case LLMProviderClaude:
		if c.Claude.APIKey == "" {
			return fmt.Errorf("claude is the default LLM provider but claude.api_key is not set")
		}
	}

	if c.VectorIndex.Enabled && c.VectorIndex.URL == "" {
		return fmt.Errorf("vector_index.enabled is true but vector_index.url is not set")
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FINSIGHT_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if port := os.Getenv("FINSIGHT_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("FINSIGHT_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	if badgerPath := os.Getenv("FINSIGHT_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	if level := os.Getenv("FINSIGHT_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if provider := os.Getenv("FINSIGHT_EMBEDDINGS_PROVIDER"); provider != "" {
		config.Embeddings.Provider = provider
	}
	if model := os.Getenv("FINSIGHT_EMBEDDINGS_MODEL"); model != "" {
		config.Embeddings.Model = model
	}
	if dim := os.Getenv("FINSIGHT_EMBEDDINGS_DIMENSION"); dim != "" {
		if d, err := strconv.Atoi(dim); err == nil {
			config.Embeddings.Dimension = d
		}
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		config.Embeddings.OpenAI.APIKey = key
	}

	if provider := os.Getenv("FINSIGHT_LLM_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(provider)
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		config.Claude.APIKey = key
	}

	if url := os.Getenv("FINSIGHT_VECTOR_INDEX_URL"); url != "" {
		config.VectorIndex.URL = url
		config.VectorIndex.Enabled = true
	}
	if key := os.Getenv("FINSIGHT_VECTOR_INDEX_API_KEY"); key != "" {
		config.VectorIndex.APIKey = key
	}
	if collection := os.Getenv("FINSIGHT_VECTOR_INDEX_COLLECTION"); collection != "" {
		config.VectorIndex.Collection = collection
	}
}

// ParseDurationOr parses a duration string, returning the fallback for an
// empty or malformed value.
func ParseDurationOr(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
