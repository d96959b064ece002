package commands

import (
	"github.com/prajithkb/metro/internal/app"
	"github.com/spf13/cobra"
)

func (c *CLI) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dev server and push live updates to connected clients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			root, _ := cmd.Flags().GetString("root")
			jsonLogs, _ := cmd.Flags().GetBool("json")
			return c.app.Serve(cmd.Context(), app.ServeOptions{
				Addr:     addr,
				Root:     root,
				JSONLogs: jsonLogs,
			})
		},
	}
	cmd.Flags().StringP("addr", "a", ":8081", "Listen address for the dev server")
	cmd.Flags().StringP("root", "r", ".", "Directory to start config discovery from")
	cmd.Flags().Bool("json", false, "Emit logs as JSON")
	return cmd
}
