package cli

import (
	"github.com/spf13/cobra"
	"github.com/vytor/klar/internal/mcpserver"
)

func newMCPCommand(opts *globalOptions, version string) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve practice tools over MCP stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			srv := &mcpserver.Server{
				StudySets: a.StudySets,
				Practice:  a.Practice,
				Reports:   a.Reports,
				Version:   version,
			}
			return srv.ServeStdio()
		},
	}
}
