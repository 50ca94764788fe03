/*
Package main is the entry point for the markovsuggestor CLI.

markovsuggestor is a hybrid code-completion engine: an order-k Markov
model over token categories ranks what kind of call comes next, a
cosine-similarity index over function embeddings ranks which call fits
the surrounding context, and a weighted blend of the two produces the
suggestion list.

Usage:
  markovsuggestor [command]

Available Commands:
  suggest     Rank completion candidates for a cursor context
  explain     Translate a code fragment into pseudocode
  describe    Look up a catalog entry by name
  train       Train the token-sequence model from a corpus
  serve       Run the suggestion server on stdin/stdout
  catalog     Manage the function catalog
  help        Help about any command

Examples:
  # Import a scanner catalog database
  markovsuggestor catalog import project_db.json

  # Train on a token corpus
  markovsuggestor train corpus.jsonl

  # Rank suggestions for a request document
  markovsuggestor suggest -r request.json

  # Run as an editor backend
  markovsuggestor serve
*/
package main

import (
	"fmt"
	"os"

	"github.com/Nika3406/MarkovSuggestor/internal/cli"
	"github.com/Nika3406/MarkovSuggestor/internal/logger"
	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "markovsuggestor",
		Short: "Hybrid sequence-and-similarity code completion engine",
		Long: `markovsuggestor blends two signals into one completion ranking:

  sequence   - an order-k Markov model over token categories predicts
               what kind of token follows the cursor
  similarity - cosine similarity between a context embedding and the
               function catalog predicts which call fits the context

The combined score is alpha*sequence + (1-alpha)*similarity. It also
classifies code fragments into algorithmic patterns and renders them
as plain-language pseudocode.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	}

	var verbose bool
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(verbose)
	}

	// Add subcommands
	rootCmd.AddCommand(cli.NewSuggestCmd())
	rootCmd.AddCommand(cli.NewExplainCmd())
	rootCmd.AddCommand(cli.NewDescribeCmd())
	rootCmd.AddCommand(cli.NewTrainCmd())
	rootCmd.AddCommand(cli.NewServeCmd())
	rootCmd.AddCommand(cli.NewCatalogCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
