// Package file provides TOML-based configuration for the recall CLI.
// Required settings are validated once at startup; a request never
// discovers a missing endpoint or model mid-flight.
package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/keepsake-labs/recall-cli/internal/core/domain"
)

// DefaultFileName is the config file name inside the config directory.
const DefaultFileName = "config.toml"

// Config is the full application configuration.
type Config struct {
	Embedding EmbeddingConfig `toml:"embedding"`
	LLM       LLMConfig       `toml:"llm"`
	Store     StoreConfig     `toml:"store"`
	Ingest    IngestConfig    `toml:"ingest"`
	Retrieval RetrievalConfig `toml:"retrieval"`
}

// EmbeddingConfig configures the embedding gateway.
type EmbeddingConfig struct {
	// BaseURL is the OpenAI-compatible embeddings endpoint (required).
	BaseURL string `toml:"base_url"`

	// APIKey authenticates embedding requests.
	APIKey string `toml:"api_key"`

	// Model is the embedding model name (required).
	Model string `toml:"model"`

	// Dimensions is the embedding vector size.
	Dimensions int `toml:"dimensions"`

	// RequestsPerSecond throttles embedding calls during ingestion.
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// LLMConfig configures the chat completion gateway.
type LLMConfig struct {
	// BaseURL is the OpenAI-compatible chat endpoint (required).
	BaseURL string `toml:"base_url"`

	// APIKey authenticates completion requests.
	APIKey string `toml:"api_key"`

	// Model is the completion model name (required).
	Model string `toml:"model"`
}

// StoreConfig configures the vector store.
type StoreConfig struct {
	// DataDir is where the index database lives.
	// Defaults to ~/.recall/data.
	DataDir string `toml:"data_dir"`
}

// IngestConfig configures ingestion.
type IngestConfig struct {
	// ExportDir is the root of the Messenger export's messages
	// directory (required for ingest).
	ExportDir string `toml:"export_dir"`

	// ChunkSize is the chunk window in runes.
	ChunkSize int `toml:"chunk_size"`

	// ChunkOverlap is the overlap between windows in runes.
	ChunkOverlap int `toml:"chunk_overlap"`
}

// RetrievalConfig configures the retrieval stage.
type RetrievalConfig struct {
	// MaxReturnedSearch is the per-query neighbour count.
	MaxReturnedSearch int `toml:"max_returned_search"`

	// TopKResults caps the merged result list.
	TopKResults int `toml:"top_k_results"`

	// IncludeQuestion adds the literal question to the query set.
	IncludeQuestion bool `toml:"include_question"`

	// BestSeenWins keeps the best-scored duplicate instead of the
	// first-seen one.
	BestSeenWins bool `toml:"best_seen_wins"`
}

// Load reads the configuration file at path, applying environment
// overrides afterwards. If path is empty, ~/.recall/config.toml is
// used; a missing file is not an error, environment variables alone
// may carry the required settings.
func Load(path string) (*Config, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".recall", DefaultFileName)
	}

	cfg := &Config{}
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// Fall through to environment overrides.
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overlays RECALL_* environment variables onto the config.
// Secrets in particular are expected to come from the environment
// rather than the config file.
func (c *Config) applyEnv() {
	setIfPresent := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	setIfPresent(&c.Embedding.BaseURL, "RECALL_EMBEDDING_BASE_URL")
	setIfPresent(&c.Embedding.APIKey, "RECALL_EMBEDDING_API_KEY")
	setIfPresent(&c.Embedding.Model, "RECALL_EMBEDDING_MODEL")
	setIfPresent(&c.LLM.BaseURL, "RECALL_LLM_BASE_URL")
	setIfPresent(&c.LLM.APIKey, "RECALL_LLM_API_KEY")
	setIfPresent(&c.LLM.Model, "RECALL_LLM_MODEL")
	setIfPresent(&c.Store.DataDir, "RECALL_DATA_DIR")
	setIfPresent(&c.Ingest.ExportDir, "RECALL_EXPORT_DIR")
}

// Validate checks the settings every command needs. Missing values are
// reported together so the user fixes them in one pass.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Embedding.BaseURL) == "" {
		missing = append(missing, "embedding.base_url")
	}
	if strings.TrimSpace(c.Embedding.Model) == "" {
		missing = append(missing, "embedding.model")
	}
	if strings.TrimSpace(c.LLM.BaseURL) == "" {
		missing = append(missing, "llm.base_url")
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		missing = append(missing, "llm.model")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", domain.ErrConfiguration, strings.Join(missing, ", "))
	}
	return nil
}

// ValidateIngest checks the additional settings ingestion needs.
func (c *Config) ValidateIngest() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Ingest.ExportDir) == "" {
		return fmt.Errorf("%w: missing ingest.export_dir", domain.ErrConfiguration)
	}
	return nil
}
