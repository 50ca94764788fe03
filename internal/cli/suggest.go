package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Nika3406/MarkovSuggestor/internal/engine"
	"github.com/spf13/cobra"
)

// NewSuggestCmd creates the suggest command. It reads one request from a
// file (or stdin with "-") and prints the ordered suggestion list.
func NewSuggestCmd() *cobra.Command {
	var configPath string
	var requestPath string
	var prefix string
	var limit int

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Rank completion candidates for a cursor context",
		Long: `Suggest reads a request document describing the token window before
the cursor (and optionally a context embedding) and prints the ranked
suggestion list as JSON.

Request format:
  {"window": [{"text": "os.listdir", "category": "function-call"}, ...],
   "contextEmbedding": [0.1, ...],
   "prefix": "os.li",
   "limit": 10}`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap(configPath)
			if err != nil {
				return err
			}
			defer rt.close()

			var req engine.SuggestRequest
			if requestPath != "" {
				data, err := readInput(requestPath)
				if err != nil {
					return err
				}
				if err := json.Unmarshal(data, &req); err != nil {
					return fmt.Errorf("failed to parse request: %w", err)
				}
			}
			if prefix != "" {
				req.Prefix = prefix
			}
			if limit > 0 {
				req.Limit = limit
			}

			suggestions, err := rt.eng.Suggest(req)
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), suggestions)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	cmd.Flags().StringVarP(&requestPath, "request", "r", "", "Request JSON file (\"-\" for stdin)")
	cmd.Flags().StringVarP(&prefix, "prefix", "p", "", "Partial identifier under the cursor")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum suggestions to return")

	return cmd
}

// readInput loads a request document from a path, with "-" for stdin.
func readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
