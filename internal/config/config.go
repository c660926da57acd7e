package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
)

// ErrMissingConfig is returned by Validate when required settings are absent
var ErrMissingConfig = errors.New("missing required configuration")

type Purpose int

const (
	// PurposeIngest needs the source document and the embedding side only
	PurposeIngest Purpose = iota
	// PurposeQuery needs the embedding side and the language model
	PurposeQuery
	// PurposeMaintenance only touches the store (reset, count)
	PurposeMaintenance
)

const (
	StorePGVector = "pgvector"
	StoreQdrant   = "qdrant"

	ProviderBedrock = "bedrock"
	ProviderOpenAI  = "openai"
	ProviderOllama  = "ollama"

	DefaultConfigPath = "configs/rag.yaml"
)

type ChunkingConfig struct {
	Size    int `yaml:"size"`
	Overlap *int `yaml:"overlap"`
}

type RetrievalConfig struct {
	K          int  `yaml:"k"`
	ShowScores bool `yaml:"show_scores"`
}

type ModelConfig struct {
	MaxTokens   int      `yaml:"max_tokens"`
	Temperature *float64 `yaml:"temperature"`
}

type PromptConfig struct {
	Template string `yaml:"template"`
}

// FileConfig is the optional YAML file. Environment variables win over it.
type FileConfig struct {
	Chunking  ChunkingConfig  `yaml:"chunking"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Model     ModelConfig     `yaml:"model"`
	Prompt    PromptConfig    `yaml:"prompt"`
}

type QdrantConfig struct {
	Host   string
	Port   int
	APIKey string
	UseTLS bool
}

type RedisConfig struct {
	Addr     string
	Password string
	TTL      time.Duration
}

type Config struct {
	PDFPath string

	VectorStore string
	PGVectorURL string
	Collection  string
	Qdrant      QdrantConfig

	LLMProvider       string
	EmbeddingProvider string
	EmbeddingModel    string

	AWSRegion     string
	ClaudeModelID string
	OpenAIKey     string
	OpenAIModelID string
	OllamaHost    string
	OllamaModel   string

	ChunkSize    int
	ChunkOverlap int

	RetrievalK int
	ShowScores bool

	MaxTokens   int
	Temperature float64

	PromptTemplate string

	Redis RedisConfig

	APIPort  string
	LogLevel string
}

// Load builds the configuration from defaults, the optional YAML file and the environment
func Load() (*Config, error) {
	cfg := defaults()

	path := getEnv("RAG_CONFIG_PATH", DefaultConfigPath)
	fileCfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if fileCfg != nil {
		cfg.applyFile(fileCfg)
	}

	cfg.applyEnv()
	return cfg, nil
}

// LoadFile parses the YAML file at path. A missing file is not an error.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var fileCfg FileConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return &fileCfg, nil
}

func defaults() *Config {
	return &Config{
		VectorStore:       StorePGVector,
		LLMProvider:       ProviderBedrock,
		EmbeddingProvider: ProviderBedrock,
		AWSRegion:         "us-east-1",
		OpenAIModelID:     "gpt-4o-mini",
		OllamaModel:       "llama3.2",
		Qdrant:            QdrantConfig{Port: 6334},
		ChunkSize:         1000,
		ChunkOverlap:      150,
		RetrievalK:        10,
		MaxTokens:         2000,
		Temperature:       0.1,
		Redis:             RedisConfig{TTL: 24 * time.Hour},
		APIPort:           "8080",
		LogLevel:          "info",
	}
}

func (c *Config) applyFile(f *FileConfig) {
	if f.Chunking.Size > 0 {
		c.ChunkSize = f.Chunking.Size
	}
	// overlap 0 is a valid setting, so only an absent key keeps the default
	if f.Chunking.Overlap != nil {
		c.ChunkOverlap = *f.Chunking.Overlap
	}
	if f.Retrieval.K > 0 {
		c.RetrievalK = f.Retrieval.K
	}
	if f.Retrieval.ShowScores {
		c.ShowScores = true
	}
	if f.Model.MaxTokens > 0 {
		c.MaxTokens = f.Model.MaxTokens
	}
	if f.Model.Temperature != nil {
		c.Temperature = *f.Model.Temperature
	}
	if strings.TrimSpace(f.Prompt.Template) != "" {
		c.PromptTemplate = f.Prompt.Template
	}
}

func (c *Config) applyEnv() {
	c.PDFPath = getEnv("PDF_PATH", c.PDFPath)

	c.VectorStore = strings.ToLower(getEnv("VECTOR_STORE", c.VectorStore))
	c.PGVectorURL = getEnv("PGVECTOR_URL", c.PGVectorURL)
	c.Collection = getEnv("PGVECTOR_COLLECTION", c.Collection)
	c.Qdrant.Host = getEnv("QDRANT_HOST", c.Qdrant.Host)
	c.Qdrant.Port = getEnvInt("QDRANT_PORT", c.Qdrant.Port)
	c.Qdrant.APIKey = getEnv("QDRANT_API_KEY", c.Qdrant.APIKey)
	c.Qdrant.UseTLS = getEnvBool("QDRANT_USE_TLS", c.Qdrant.UseTLS)

	c.LLMProvider = strings.ToLower(getEnv("LLM_PROVIDER", c.LLMProvider))
	c.EmbeddingProvider = strings.ToLower(getEnv("EMBEDDING_PROVIDER", c.EmbeddingProvider))
	c.EmbeddingModel = getEnv("EMBEDDING_MODEL", c.EmbeddingModel)

	c.AWSRegion = getEnv("AWS_REGION", c.AWSRegion)
	c.ClaudeModelID = getEnv("CLAUDE_MODEL_ID", c.ClaudeModelID)
	c.OpenAIKey = getEnv("OPENAI_API_KEY", c.OpenAIKey)
	c.OpenAIModelID = getEnv("OPENAI_MODEL_ID", c.OpenAIModelID)
	c.OllamaHost = getEnv("OLLAMA_HOST", c.OllamaHost)
	c.OllamaModel = getEnv("OLLAMA_MODEL", c.OllamaModel)

	c.ChunkSize = getEnvInt("CHUNK_SIZE", c.ChunkSize)
	c.ChunkOverlap = getEnvInt("CHUNK_OVERLAP", c.ChunkOverlap)

	c.RetrievalK = getEnvInt("RETRIEVAL_K", c.RetrievalK)
	c.ShowScores = getEnvBool("RETRIEVAL_SHOW_SCORES", c.ShowScores)

	c.MaxTokens = getEnvInt("LLM_MAX_TOKENS", c.MaxTokens)
	c.Temperature = getEnvFloat("LLM_TEMPERATURE", c.Temperature)

	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.TTL = getEnvDuration("REDIS_TTL", c.Redis.TTL)

	c.APIPort = getEnv("API_PORT", c.APIPort)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
}

// Validate reports every required variable that is missing for the given purpose
func (c *Config) Validate(purpose Purpose) error {
	var missing []string

	if purpose == PurposeIngest && c.PDFPath == "" {
		missing = append(missing, "PDF_PATH")
	}
	if c.Collection == "" {
		missing = append(missing, "PGVECTOR_COLLECTION")
	}

	switch c.VectorStore {
	case StorePGVector:
		if c.PGVectorURL == "" {
			missing = append(missing, "PGVECTOR_URL")
		}
	case StoreQdrant:
		if c.Qdrant.Host == "" {
			missing = append(missing, "QDRANT_HOST")
		}
	default:
		return fmt.Errorf("unsupported VECTOR_STORE %q (expected %s or %s)", c.VectorStore, StorePGVector, StoreQdrant)
	}

	if err := checkProvider("EMBEDDING_PROVIDER", c.EmbeddingProvider); err != nil {
		return err
	}
	if c.EmbeddingProvider == ProviderOpenAI && c.OpenAIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}

	if purpose == PurposeQuery {
		if err := checkProvider("LLM_PROVIDER", c.LLMProvider); err != nil {
			return err
		}
		switch c.LLMProvider {
		case ProviderBedrock:
			if c.ClaudeModelID == "" {
				missing = append(missing, "CLAUDE_MODEL_ID")
			}
		case ProviderOpenAI:
			if c.OpenAIKey == "" && c.EmbeddingProvider != ProviderOpenAI {
				missing = append(missing, "OPENAI_API_KEY")
			}
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}

	if c.ChunkSize <= 0 || c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("invalid chunking parameters: size=%d overlap=%d", c.ChunkSize, c.ChunkOverlap)
	}
	if c.RetrievalK <= 0 {
		return fmt.Errorf("invalid RETRIEVAL_K: %d", c.RetrievalK)
	}

	return nil
}

func checkProvider(key, value string) error {
	switch value {
	case ProviderBedrock, ProviderOpenAI, ProviderOllama:
		return nil
	default:
		return fmt.Errorf("unsupported %s %q", key, value)
	}
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}

	return value
}
