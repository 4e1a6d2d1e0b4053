// Package cli provides the cobra commands for the recall CLI.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	configfile "github.com/keepsake-labs/recall-cli/internal/adapters/driven/config/file"
	"github.com/keepsake-labs/recall-cli/internal/adapters/driven/embedding/nomic"
	"github.com/keepsake-labs/recall-cli/internal/adapters/driven/llm/openai"
	"github.com/keepsake-labs/recall-cli/internal/adapters/driven/vectorstore/sqlite"
	"github.com/keepsake-labs/recall-cli/internal/core/ports/driven"
	"github.com/keepsake-labs/recall-cli/internal/core/services"
	"github.com/keepsake-labs/recall-cli/internal/logger"
	"github.com/keepsake-labs/recall-cli/internal/postprocessors/chunker"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	flagVerbose bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "recall",
	Short: "Ask questions about your chat history",
	Long: `Recall indexes a personal Meta Messenger export into a local vector
index and answers natural-language questions about it by retrieving
semantically related historical messages.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose pipeline logging")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file (default ~/.recall/config.toml)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// runtime bundles the wired services a command needs, plus cleanup.
type runtime struct {
	cfg      *configfile.Config
	embedder driven.EmbeddingService
	llm      driven.CompletionService
	store    driven.VectorStore
}

// newRuntime loads configuration and wires the driven adapters.
// Configuration problems surface here, before any request runs.
func newRuntime() (*runtime, error) {
	cfg, err := configfile.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	embedder, err := nomic.NewEmbeddingService(nomic.Config{
		BaseURL:           cfg.Embedding.BaseURL,
		APIKey:            cfg.Embedding.APIKey,
		Model:             cfg.Embedding.Model,
		Dimensions:        cfg.Embedding.Dimensions,
		RequestsPerSecond: cfg.Embedding.RequestsPerSecond,
	})
	if err != nil {
		return nil, fmt.Errorf("embedding service: %w", err)
	}

	llm, err := openai.NewCompletionService(openai.Config{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("completion service: %w", err)
	}

	store, err := sqlite.NewStore(cfg.Store.DataDir, embedder)
	if err != nil {
		return nil, fmt.Errorf("vector store: %w", err)
	}

	return &runtime{cfg: cfg, embedder: embedder, llm: llm, store: store}, nil
}

// close releases the runtime's resources.
func (r *runtime) close() {
	if err := r.store.Close(); err != nil {
		logger.Warn("closing vector store: %v", err)
	}
	_ = r.llm.Close()
	_ = r.embedder.Close()
}

// askService wires the full pipeline.
func (r *runtime) askService() *services.Pipeline {
	retrieval := services.NewRetrievalStage(r.store, services.RetrievalOptions{
		MaxReturnedSearch: r.cfg.Retrieval.MaxReturnedSearch,
		TopKResults:       r.cfg.Retrieval.TopKResults,
		IncludeQuestion:   r.cfg.Retrieval.IncludeQuestion,
		BestSeenWins:      r.cfg.Retrieval.BestSeenWins,
	})
	return services.NewPipeline(
		services.NewExpansionStage(r.llm),
		retrieval,
		services.NewSynthesisStage(r.llm),
	)
}

// chunkerProcessor builds the chunker from config.
func (r *runtime) chunkerProcessor() *chunker.Processor {
	return chunker.New(
		chunker.WithChunkSize(r.cfg.Ingest.ChunkSize),
		chunker.WithOverlap(r.cfg.Ingest.ChunkOverlap),
	)
}
