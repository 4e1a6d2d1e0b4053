package cli

import (
	"github.com/spf13/cobra"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Run a raw similarity search against the index",
	Long: `Performs a single nearest-neighbour search with the literal query,
bypassing query expansion and answer synthesis. Useful for inspecting
what the index would return for a given phrasing.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	hits, err := rt.store.SimilaritySearch(cmd.Context(), args[0], searchLimit)
	if err != nil {
		return err
	}

	if len(hits) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	for i, hit := range hits {
		title := hit.Title
		if title == "" {
			title = hit.ChatID
		}
		cmd.Printf("  [%d] %s (%.4f)\n", i+1, title, hit.Score)
		cmd.Printf("      %s\n", hit.SourceID)
		cmd.Printf("      %s\n", hit.Text)
		cmd.Println()
	}
	return nil
}
