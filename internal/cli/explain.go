package cli

import (
	"encoding/json"
	"fmt"

	"github.com/Nika3406/MarkovSuggestor/internal/engine"
	"github.com/Nika3406/MarkovSuggestor/internal/structure"
	"github.com/spf13/cobra"
)

// NewExplainCmd creates the explain command: fragment in, pseudocode out.
func NewExplainCmd() *cobra.Command {
	var configPath string
	var fragmentPath string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Translate a code fragment into pseudocode",
		Long: `Explain reads a parsed fragment document, classifies its structural
shape into an algorithmic pattern, and prints pseudocode plus a one-line
summary.

Fragment format:
  {"source": "for f in files: total += size(f)",
   "nodes": [{"kind": "loop", "detail": "f", "children": [
     {"kind": "assign", "detail": "total", "accumulates": true}]}]}`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap(configPath)
			if err != nil {
				return err
			}
			defer rt.close()

			data, err := readInput(fragmentPath)
			if err != nil {
				return err
			}
			var frag structure.Fragment
			if err := json.Unmarshal(data, &frag); err != nil {
				return fmt.Errorf("failed to parse fragment: %w", err)
			}

			explanation, err := rt.eng.Explain(engine.ExplainRequest{Fragment: frag})
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), explanation)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Pattern: %s\n\n", explanation.Label)
			for _, line := range explanation.Lines {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintf(out, "\n%s\n", explanation.Summary)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	cmd.Flags().StringVarP(&fragmentPath, "fragment", "f", "-", "Fragment JSON file (\"-\" for stdin)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the explanation as JSON")

	return cmd
}
