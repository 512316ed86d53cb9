// Package mcp exposes the order workflow as an MCP server, so agent
// frontends can submit requests and inspect orders over JSON-RPC.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	orderflow "github.com/nexustrade/orderflow"
	"github.com/nexustrade/orderflow/pkg/domain"
	"github.com/nexustrade/orderflow/pkg/ports"
)

// RequestResponse is the structured result of the submit_request tool.
type RequestResponse struct {
	OrderID string `json:"order_id,omitempty" jsonschema_description:"Identifier assigned to the order, when one was created"`
	Reply   string `json:"reply" jsonschema_description:"The assistant's final reply to the customer"`
	Error   string `json:"error,omitempty" jsonschema_description:"Workflow error message, when the request failed"`
}

// Engine defines the workflow surface the MCP server needs.
type Engine interface {
	Process(ctx context.Context, request string) []domain.Envelope
}

// Server wraps the workflow engine and exposes it as an MCP server.
type Server struct {
	engine    Engine
	store     ports.OrderStore
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, store ports.OrderStore) *Server {
	s := &Server{
		engine:    engine,
		store:     store,
		mcpServer: server.NewMCPServer("orderflow-mcp", strings.TrimSpace(orderflow.Version)),
	}
	s.registerTools()
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
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	submitTool := mcp.NewTool("submit_request",
		mcp.WithDescription("Submit a natural-language order request (place or cancel an order) and get the workflow's reply."),
		mcp.WithString("request", mcp.Required(), mcp.Description("The customer's request text")),
		mcp.WithOutputSchema[RequestResponse](),
	)
	s.mcpServer.AddTool(submitTool, mcp.NewStructuredToolHandler(s.handleSubmitRequest))

	s.mcpServer.AddTool(mcp.NewTool("get_order",
		mcp.WithDescription("Fetch a stored order record by its ID."),
		mcp.WithString("order_id", mcp.Required(), mcp.Description("The order identifier")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		orderID, err := request.RequireString("order_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		rec, err := s.store.Get(ctx, orderID)
		if err != nil {
			if errors.Is(err, domain.ErrOrderNotFound) {
				return mcp.NewToolResultError(fmt.Sprintf("order %s not found", orderID)), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("failed to load order: %v", err)), nil
		}

		jsonBytes, _ := json.Marshal(rec)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

func (s *Server) handleSubmitRequest(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (RequestResponse, error) {
	text, _ := args["request"].(string)

	snapshots := s.engine.Process(ctx, text)
	final := snapshots[len(snapshots)-1]

	resp := RequestResponse{}
	if final.Order != nil {
		resp.OrderID = final.Order.OrderID
	}
	for i := len(final.Messages) - 1; i >= 0; i-- {
		if final.Messages[i].Role == domain.RoleAssistant {
			resp.Reply = final.Messages[i].Content
			break
		}
	}
	if final.Err != nil {
		resp.Error = final.Err.Message
	}
	return resp, nil
}
