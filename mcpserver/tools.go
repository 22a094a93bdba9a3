package mcpserver

import (
	"context"
	"fmt"
	"log/slog"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"editorial_ai/generator"
	"editorial_ai/publisher"
)

type ListStylesArgs struct{}

type TransformArgs struct {
	Input string `json:"input" jsonschema:"Raw text to rewrite, or a URL when mode is url"`
	Mode  string `json:"mode,omitempty" jsonschema:"Input mode: text (default) or url"`
	Style string `json:"style,omitempty" jsonschema:"Style id from list_styles (default: economist)"`
}

type CurrentArgs struct{}

func (s *Server) handleListStyles(ctx context.Context, req *sdk.CallToolRequest, args ListStylesArgs) (*sdk.CallToolResult, any, error) {
	styles := generator.Styles()
	content := []sdk.Content{
		&sdk.TextContent{Text: fmt.Sprintf("Available styles (%d):", len(styles))},
	}
	for _, st := range styles {
		content = append(content, &sdk.TextContent{
			Text: fmt.Sprintf("- %s: %s (%s)", st.ID, st.Name, st.Description),
		})
	}
	return &sdk.CallToolResult{Content: content}, nil, nil
}

func (s *Server) handleTransform(ctx context.Context, req *sdk.CallToolRequest, args TransformArgs) (*sdk.CallToolResult, any, error) {
	mode, ok := generator.ParseMode(args.Mode)
	if !ok {
		return nil, nil, fmt.Errorf("unknown mode %q", args.Mode)
	}
	style, ok := generator.LookupStyle(args.Style)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", generator.ErrUnknownStyle, args.Style)
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()
	art, err := s.desk.Submit(ctx, generator.SourceInput{Mode: mode, Content: args.Input, Style: style})
	if err != nil {
		s.logger.Error("Transformation failed", slog.String("style", style.ID), slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("transformation failed: %w", err)
	}
	s.logger.Info("Article generated", slog.String("article_id", art.ID), slog.String("style", art.StyleID))

	return &sdk.CallToolResult{
		Content: []sdk.Content{
			&sdk.TextContent{Text: publisher.TextDocument(art)},
		},
	}, nil, nil
}

func (s *Server) handleCurrent(ctx context.Context, req *sdk.CallToolRequest, args CurrentArgs) (*sdk.CallToolResult, any, error) {
	art := s.desk.Current()
	if art == nil {
		return &sdk.CallToolResult{
			Content: []sdk.Content{&sdk.TextContent{Text: "No article has been generated yet."}},
			IsError: true,
		}, nil, nil
	}
	return &sdk.CallToolResult{
		Content: []sdk.Content{&sdk.TextContent{Text: publisher.TextDocument(art)}},
	}, nil, nil
}
