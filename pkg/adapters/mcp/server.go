package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/presentation/outline"
	"github.com/aretw0/arbor/pkg/domain"
)

// ApplyResponse is the structured result of the apply_fact tool.
type ApplyResponse struct {
	Applied bool        `json:"applied" jsonschema_description:"Whether the fact was applied"`
	Fact    domain.Fact `json:"fact" jsonschema_description:"The parsed fact"`
}

// Engine defines the interface required by the MCP server to interact with
// an Arbor engine.
type Engine interface {
	ApplyLine(ctx context.Context, line string) (domain.Fact, error)
	Get(id string) (domain.Item, error)
	Roots() []string
	Items() []string
	Tree(id string) (*domain.Tree, error)
	Verify() error
}

// Server wraps an Arbor Engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("arbor-mcp", strings.TrimSpace(arbor.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		fmt.Println("\nShutdown signal received, shutting down server...")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("CORS Middleware", "method", r.Method, "path", r.URL.Path)
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: apply_fact
	applyTool := mcp.NewTool("apply_fact",
		mcp.WithDescription("Apply a single fact line to the outline, e.g. `Outline \"inbox\" was created`."),
		mcp.WithString("line", mcp.Required(), mcp.Description("The fact line to apply")),
		mcp.WithOutputSchema[ApplyResponse](),
	)
	s.mcpServer.AddTool(applyTool, mcp.NewStructuredToolHandler(s.handleApplyFact))

	// TOOL: get_item
	getTool := mcp.NewTool("get_item",
		mcp.WithDescription("Get a single item by ID, including its ordered subitem IDs."),
		mcp.WithString("id", mcp.Required(), mcp.Description("The item ID")),
		mcp.WithOutputSchema[domain.Item](),
	)
	s.mcpServer.AddTool(getTool, mcp.NewStructuredToolHandler(s.handleGetItem))

	// TOOL: get_tree
	s.mcpServer.AddTool(mcp.NewTool("get_tree",
		mcp.WithDescription("Get the full subtree rooted at an item as nested JSON."),
		mcp.WithString("id", mcp.Required(), mcp.Description("The root item ID")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		tree, err := s.engine.Tree(id)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("tree %q: %v", id, err)), nil
		}
		jsonBytes, _ := json.Marshal(tree)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: list_outlines
	s.mcpServer.AddTool(mcp.NewTool("list_outlines",
		mcp.WithDescription("List the IDs of all root items (outlines)."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, _ := json.Marshal(s.engine.Roots())
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

// Handler methods for structured tools

func (s *Server) handleApplyFact(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ApplyResponse, error) {
	line, _ := args["line"].(string)
	fact, err := s.engine.ApplyLine(ctx, line)
	if err != nil {
		slog.Warn("MCP ApplyFact: fact rejected", "err", err)
		return ApplyResponse{}, fmt.Errorf("fact rejected: %w", err)
	}
	return ApplyResponse{Applied: true, Fact: fact}, nil
}

func (s *Server) handleGetItem(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.Item, error) {
	id, _ := args["id"].(string)
	item, err := s.engine.Get(id)
	if err != nil {
		return domain.Item{}, fmt.Errorf("item %q: %w", id, err)
	}
	return item, nil
}

func (s *Server) registerResources() {
	// EXPOSE: arbor://outline
	s.mcpServer.AddResource(mcp.NewResource("arbor://outline", "Current Outline",
		mcp.WithMIMEType("text/markdown"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		roots := s.engine.Roots()
		trees := make([]*domain.Tree, 0, len(roots))
		for _, rootID := range roots {
			tree, err := s.engine.Tree(rootID)
			if err != nil {
				return nil, fmt.Errorf("failed to project outline %q: %w", rootID, err)
			}
			trees = append(trees, tree)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "arbor://outline",
				MIMEType: "text/markdown",
				Text:     outline.MarkdownForest(trees),
			},
		}, nil
	})
}
