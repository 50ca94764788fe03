package cli

import (
	"fmt"

	"github.com/Nika3406/MarkovSuggestor/internal/catalog"
	"github.com/spf13/cobra"
)

// NewCatalogCmd creates the catalog command group.
func NewCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the function catalog",
		Long: `Catalog manages the persisted function catalog: import a scanner
database, inspect what is loaded, or run a keyword search over it.`,
	}

	cmd.AddCommand(newCatalogImportCmd())
	cmd.AddCommand(newCatalogStatsCmd())
	cmd.AddCommand(newCatalogSearchCmd())
	return cmd
}

func newCatalogImportCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "import <database.json>",
		Short: "Import a scanner catalog database",
		Long: `Import parses a scanner-produced catalog database (functions with
descriptions and embeddings), validates it, and replaces the persisted
catalog wholesale.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap(configPath)
			if err != nil {
				return err
			}
			defer rt.close()

			snap, err := catalog.LoadFile(args[0])
			if err != nil {
				return err
			}
			if err := rt.store.ReplaceCatalog(snap.Entries()); err != nil {
				return fmt.Errorf("failed to persist catalog: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d entries (dimension %d)\n",
				snap.Len(), snap.Dimension())
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	return cmd
}

func newCatalogStatsCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show catalog statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap(configPath)
			if err != nil {
				return err
			}
			defer rt.close()

			snap := rt.eng.Snapshot()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Entries:   %d\n", snap.Len())
			fmt.Fprintf(out, "Dimension: %d\n", snap.Dimension())
			fmt.Fprintf(out, "Storage:   %v\n", rt.store.Enabled())
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	return cmd
}

func newCatalogSearchCmd() *cobra.Command {
	var configPath string
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Keyword search over catalog names and descriptions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap(configPath)
			if err != nil {
				return err
			}
			defer rt.close()

			matches, err := rt.eng.SearchCatalog(args[0], limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(matches) == 0 {
				fmt.Fprintln(out, "No matches.")
				return nil
			}
			for _, m := range matches {
				fmt.Fprintf(out, "%-30s %.3f  %s\n", m.Name, m.Score, m.Description)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum matches to print")
	return cmd
}
