package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/keepsake-labs/recall-cli/internal/core/domain"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about your chat history",
	Long: `Runs the full pipeline for one question: expands it into plausible
historical message phrasings, retrieves semantically similar chunks for
each phrasing, and synthesizes an answer from the merged context.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the full query context as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	qc, err := rt.askService().Ask(cmd.Context(), args[0])
	if err != nil {
		var stageErr *domain.StageError
		if errors.As(err, &stageErr) {
			return fmt.Errorf("request failed during %s: %w", stageErr.Stage, stageErr.Err)
		}
		return err
	}

	if askJSON {
		data, err := json.MarshalIndent(struct {
			Question   string   `json:"question"`
			Variations []string `json:"query_variations"`
			Retrieved  int      `json:"retrieved_messages"`
			Answer     string   `json:"answer"`
		}{qc.Question, qc.Variations, len(qc.Retrieved), qc.Answer}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(qc.Answer)
	return nil
}
