package commands

import (
	"context"
	"time"

	"github.com/2beens/pedometer/internal"
	pedometermcp "github.com/2beens/pedometer/internal/pedometer/mcp"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve pedometer tools over MCP on stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		now := time.Now
		if atArg != "" {
			at, err := referenceInstant()
			if err != nil {
				return err
			}
			now = func() time.Time { return at }
		}
		return withApp(cmd, func(ctx context.Context, app *internal.App) error {
			log.Infoln("MCP server starting stdio loop")
			server := pedometermcp.NewServer(app.Service, now)
			return server.Run(ctx, &mcp.StdioTransport{})
		})
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
