package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewDescribeCmd creates the describe command backing hover panels.
func NewDescribeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "describe <name>",
		Short: "Look up a catalog entry by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap(configPath)
			if err != nil {
				return err
			}
			defer rt.close()

			entry, found := rt.eng.Describe(args[0])
			if !found {
				return fmt.Errorf("no catalog entry matches %q", args[0])
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", entry.Name)
			if entry.Library != "" {
				fmt.Fprintf(out, "Library: %s\n", entry.Library)
			}
			fmt.Fprintf(out, "%s\n", entry.Description)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	return cmd
}
