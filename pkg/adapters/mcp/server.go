// Package mcp exposes a Messenger as a Model Context Protocol server, so agents can
// translate text and drive the link as tools.
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

	"github.com/aretw0/morselink"
	"github.com/aretw0/morselink/internal/logging"
	"github.com/aretw0/morselink/pkg/codetable"
	"github.com/aretw0/morselink/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	statusURI   = "morselink://status"
	alphabetURI = "morselink://alphabet"
)

// Messenger is the part of morselink.Messenger the MCP server drives.
type Messenger interface {
	Translate(text string) domain.Result
	Transmit(ctx context.Context, text string) (domain.Result, error)
	Connect(ctx context.Context) error
	Status() domain.LinkStatus
	Table() *codetable.Table
}

var _ Messenger = (*morselink.Messenger)(nil)

// TextArgs are the arguments of the translate and transmit tools.
type TextArgs struct {
	Text string `json:"text"`
}

// ResultResponse aligns with the HTTP adapter's result body.
type ResultResponse struct {
	Kind    domain.ResultKind `json:"kind" jsonschema_description:"Outcome: translated, empty, invalid, no_symbols or fault"`
	Code    string            `json:"code,omitempty" jsonschema_description:"Encoded line, letters space separated and words joined by ' / '"`
	Invalid []string          `json:"invalid,omitempty" jsonschema_description:"Unsupported characters in first-seen order"`
	Key     string            `json:"key" jsonschema_description:"Stable message key"`
	Sent    bool              `json:"sent" jsonschema_description:"Whether the line reached the peer"`
}

// Server wraps the Messenger and exposes it as an MCP Server.
type Server struct {
	messenger Messenger
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP Server instance.
func NewServer(m Messenger, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		messenger: m,
		logger:    logger,
		mcpServer: server.NewMCPServer("morselink-mcp", morselink.Version,
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
		),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on addr until ctx is canceled.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	baseURL := "http://localhost" + addr
	if !strings.HasPrefix(addr, ":") {
		baseURL = "http://" + addr
	}
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
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
	s.mcpServer.AddTool(mcp.NewTool("translate",
		mcp.WithDescription("Translate text to International Morse without sending it."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Latin or Cyrillic text, digits and punctuation")),
		mcp.WithOutputSchema[ResultResponse](),
	), mcp.NewStructuredToolHandler(s.handleTranslate))

	s.mcpServer.AddTool(mcp.NewTool("transmit",
		mcp.WithDescription("Translate text and send the line to the connected peer, connecting first if needed."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text to send")),
		mcp.WithOutputSchema[ResultResponse](),
	), mcp.NewStructuredToolHandler(s.handleTransmit))

	s.mcpServer.AddTool(mcp.NewTool("connect",
		mcp.WithDescription("Connect to the peer ahead of the first transmission."),
		mcp.WithOutputSchema[domain.LinkStatus](),
	), mcp.NewStructuredToolHandler(s.handleConnect))

	s.mcpServer.AddTool(mcp.NewTool("link_status",
		mcp.WithDescription("Report the link state, the peer and the last error."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		b, _ := json.Marshal(s.messenger.Status())
		return mcp.NewToolResultText(string(b)), nil
	})
}

func (s *Server) handleTranslate(ctx context.Context, request mcp.CallToolRequest, args TextArgs) (ResultResponse, error) {
	res := s.messenger.Translate(args.Text)
	return toResponse(res, false), nil
}

func (s *Server) handleTransmit(ctx context.Context, request mcp.CallToolRequest, args TextArgs) (ResultResponse, error) {
	res, err := s.messenger.Transmit(ctx, args.Text)
	if err != nil {
		s.logger.Warn("MCP Transmit failed", "key", domain.MessageKey(err), "err", err)
		return ResultResponse{}, fmt.Errorf("%s: %w", domain.MessageKey(err), err)
	}
	if !res.Sendable() {
		return ResultResponse{}, fmt.Errorf("%s: nothing to send", res.Key())
	}
	return toResponse(res, true), nil
}

func (s *Server) handleConnect(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (domain.LinkStatus, error) {
	if err := s.messenger.Connect(ctx); err != nil {
		return domain.LinkStatus{}, fmt.Errorf("%s: %w", domain.MessageKey(err), err)
	}
	return s.messenger.Status(), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(statusURI, "Link Status",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		b, err := json.Marshal(s.messenger.Status())
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: statusURI, MIMEType: "application/json", Text: string(b)},
		}, nil
	})

	s.mcpServer.AddResource(mcp.NewResource(alphabetURI, "Code Table",
		mcp.WithMIMEType("text/plain"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		t := s.messenger.Table()
		var sb strings.Builder
		for _, r := range t.Runes() {
			code, _ := t.Lookup(r)
			fmt.Fprintf(&sb, "%c %s\n", r, code)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: alphabetURI, MIMEType: "text/plain", Text: sb.String()},
		}, nil
	})
}

func toResponse(res domain.Result, sent bool) ResultResponse {
	resp := ResultResponse{Kind: res.Kind, Code: res.Code, Key: res.Key(), Sent: sent}
	for _, r := range res.Invalid {
		resp.Invalid = append(resp.Invalid, string(r))
	}
	return resp
}
