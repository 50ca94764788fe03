package cli

import (
	"os"

	"github.com/Nika3406/MarkovSuggestor/internal/server"
	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command: the msgpack stdio transport
// the editor plugin talks to.
func NewServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the suggestion server on stdin/stdout",
		Long: `Serve runs the request/response loop the editor integration talks
to. Requests and responses are msgpack-encoded; logs go to stderr so
stdout stays a clean transport.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap(configPath)
			if err != nil {
				return err
			}
			defer rt.close()

			srv := server.New(rt.eng, os.Stdin, os.Stdout)
			return srv.Start()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	return cmd
}
