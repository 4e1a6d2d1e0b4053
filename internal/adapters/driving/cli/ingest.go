package cli

import (
	"github.com/spf13/cobra"

	"github.com/keepsake-labs/recall-cli/internal/core/services"
	"github.com/keepsake-labs/recall-cli/internal/loaders/messenger"
)

var ingestExportDir string

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Build the vector index from a Messenger export",
	Long: `Parses the Messenger export, splits conversations into overlapping
chunks, embeds them, and stores them in the local vector index.
Ingestion always performs a full reindex.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestExportDir, "export-dir", "", "root of the export's messages directory (overrides config)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	if ingestExportDir != "" {
		rt.cfg.Ingest.ExportDir = ingestExportDir
	}
	if err := rt.cfg.ValidateIngest(); err != nil {
		return err
	}

	loader := messenger.New(rt.cfg.Ingest.ExportDir)
	ingester := services.NewIngestionService(loader, rt.embedder, rt.store, rt.chunkerProcessor(), 0)

	stats, err := ingester.Ingest(cmd.Context())
	if err != nil {
		return err
	}

	cmd.Printf("Indexed %d conversations into %d chunks (%d skipped)\n",
		stats.Conversations, stats.Chunks, stats.Skipped)
	return nil
}
