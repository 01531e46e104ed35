package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/aretw0/mosaic"
	"github.com/aretw0/mosaic/internal/cli"
	"github.com/aretw0/mosaic/pkg/adapters/mcp"
	"github.com/aretw0/mosaic/pkg/observability"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts Mosaic as an MCP Server.
This allows AI agents (like Claude Desktop) to render avatars, define words and compute determinants as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")
		if transport != "stdio" && transport != "sse" {
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := loggerFor(cfg)
		if err != nil {
			return err
		}
		rt, err := cli.NewService(cfg, logger, mosaic.WithHooks(observability.LogHooks(logger)))
		if err != nil {
			return err
		}
		defer rt.Close()

		srv := mcp.NewServer(rt.Service,
			mcp.WithLogger(logger),
			mcp.WithMaxInputSize(cfg.Server.MaxInputSize),
		)
		switch transport {
		case "stdio":
			// Ensure logs don't corrupt JSON-RPC on Stdout
			log.SetOutput(os.Stderr)
			logger.Info("Starting Mosaic MCP Server (Stdio)...")
			return srv.ServeStdio()
		default:
			logger.Info("Starting Mosaic MCP Server (SSE)", "port", port)

			// Create a context that cancels on interrupt signal
			ctx := cli.NewSignalContext(context.Background())
			defer ctx.Cancel()

			if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			logger.Info("MCP Server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
