package commands

import (
	"github.com/spf13/cobra"

	"github.com/arlyon/async-stripe-sub040/internal/mcpserver"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve generator tools over MCP on stdio",
		Long: `Mcp starts a Model Context Protocol server on stdin/stdout exposing the
generate, list_components and inspect_component tools. Tunables are read from
STRIPEGEN_MCP_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return mcpserver.Run(cmd.Context())
		},
	}
}
