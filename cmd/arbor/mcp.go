package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	mcpadapter "github.com/aretw0/arbor/pkg/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp [facts-file]",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the Arbor engine as an MCP Server.
This allows AI agents to read and mutate the outline as tools.
The optional facts-file is replayed before serving.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		cfg, logger, err := setup(cmd)
		if err != nil {
			log.Fatalf("Error loading config: %v", err)
		}

		eng := newEngine(cfg, logger)

		if len(args) > 0 {
			facts, err := os.Open(args[0])
			if err != nil {
				log.Fatalf("Error opening facts file: %v", err)
			}
			applied, err := eng.Replay(cmd.Context(), facts)
			facts.Close()
			if err != nil {
				log.Fatalf("Error replaying facts: %v", err)
			}
			logger.Info("facts replayed", "facts_applied", applied, "items", eng.Len())
		}

		srv := mcpadapter.NewServer(eng)

		switch transport {
		case "stdio":
			// Ensure logs don't corrupt JSON-RPC on Stdout
			log.SetOutput(os.Stderr)
			logger.Info("Starting Arbor MCP Server (Stdio)...")
			if err := srv.ServeStdio(); err != nil {
				logger.Error("MCP Server execution failed", "error", err)
				os.Exit(1)
			}
		case "sse":
			logger.Info("Starting Arbor MCP Server (SSE)", "port", port)

			// Create a context that cancels on interrupt signal
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.ServeSSE(ctx, port); err != nil {
				// Ignore server closed error if it was caused by context cancellation
				if err != http.ErrServerClosed {
					logger.Error("MCP Server execution failed", "error", err)
					os.Exit(1)
				}
			}
			logger.Info("MCP Server stopped gracefully")
		default:
			log.Fatalf("Unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
