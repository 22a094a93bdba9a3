// Package mcpserver exposes the newsroom over the Model Context Protocol so
// agents can rewrite copy without the web UI.
package mcpserver

import (
	"context"
	"errors"
	"log/slog"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"editorial_ai/generator"
)

type Config struct {
	ServerName    string
	ServerVersion string
	Timeout       time.Duration
}

type Server struct {
	config    Config
	mcpServer *sdk.Server
	desk      *generator.Desk
	logger    *slog.Logger
}

func NewServer(cfg Config, desk *generator.Desk, logger *slog.Logger) (*Server, error) {
	if desk == nil {
		return nil, errors.New("desk required")
	}
	if cfg.ServerName == "" {
		cfg.ServerName = "editorial-ai"
	}
	if cfg.ServerVersion == "" {
		cfg.ServerVersion = "dev"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{config: cfg, desk: desk, logger: logger}
	s.mcpServer = sdk.NewServer(&sdk.Implementation{
		Name:    cfg.ServerName,
		Version: cfg.ServerVersion,
	}, nil)
	s.registerTools()
	return s, nil
}

// Run serves over stdin/stdout until ctx is cancelled or the client hangs up.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &sdk.StdioTransport{})
}

// Connect serves over an arbitrary transport; used by in-memory tests.
func (s *Server) Connect(ctx context.Context, t sdk.Transport) (*sdk.ServerSession, error) {
	return s.mcpServer.Connect(ctx, t, nil)
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcpServer, &sdk.Tool{
		Name:        "list_styles",
		Description: "List the editorial styles available for rewriting",
	}, s.handleListStyles)

	sdk.AddTool(s.mcpServer, &sdk.Tool{
		Name:        "transform_article",
		Description: "Rewrite raw text, or the content behind a URL, as a polished article in a publication's house style",
	}, s.handleTransform)

	sdk.AddTool(s.mcpServer, &sdk.Tool{
		Name:        "current_article",
		Description: "Return the most recently generated article as plain text",
	}, s.handleCurrent)
}
