package mcpserver

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"editorial_ai/generator"
)

func connect(t *testing.T) (*sdk.ClientSession, *generator.Desk) {
	t.Helper()
	agent, err := generator.NewAgent(generator.MockLLM{})
	if err != nil {
		t.Fatal(err)
	}
	desk := generator.NewDesk(agent)
	srv, err := NewServer(Config{ServerVersion: "test", Timeout: 5 * time.Second}, desk,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	ctx := context.Background()
	serverT, clientT := sdk.NewInMemoryTransports()
	ss, err := srv.Connect(ctx, serverT)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	t.Cleanup(func() { _ = ss.Close() })

	client := sdk.NewClient(&sdk.Implementation{Name: "test-client", Version: "v0"}, nil)
	cs, err := client.Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { _ = cs.Close() })
	return cs, desk
}

func text(res *sdk.CallToolResult) string {
	var parts []string
	for _, c := range res.Content {
		if tc, ok := c.(*sdk.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func TestListStylesTool(t *testing.T) {
	cs, _ := connect(t)
	res, err := cs.CallTool(context.Background(), &sdk.CallToolParams{Name: "list_styles", Arguments: map[string]any{}})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	out := text(res)
	for _, id := range []string{"economist", "nyt", "new_yorker", "wired", "atlantic"} {
		if !strings.Contains(out, "- "+id+":") {
			t.Errorf("style %s missing from %q", id, out)
		}
	}
}

func TestTransformTool(t *testing.T) {
	cs, desk := connect(t)
	res, err := cs.CallTool(context.Background(), &sdk.CallToolParams{
		Name:      "transform_article",
		Arguments: map[string]any{"input": "quarterly results", "style": "nyt"},
	})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool reported error: %s", text(res))
	}
	out := text(res)
	if !strings.HasPrefix(out, "Headline: ") || !strings.Contains(out, "quarterly results") {
		t.Errorf("unexpected output %q", out)
	}
	if art := desk.Current(); art == nil || art.StyleID != "nyt" {
		t.Errorf("desk should hold the new article, got %+v", art)
	}

	res, err = cs.CallTool(context.Background(), &sdk.CallToolParams{Name: "current_article", Arguments: map[string]any{}})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if text(res) != out {
		t.Error("current_article should return the latest article")
	}
}

func TestTransformToolRejectsUnknownStyle(t *testing.T) {
	cs, _ := connect(t)
	res, err := cs.CallTool(context.Background(), &sdk.CallToolParams{
		Name:      "transform_article",
		Arguments: map[string]any{"input": "x", "style": "tabloid"},
	})
	if err == nil && (res == nil || !res.IsError) {
		t.Error("unknown style should fail")
	}
}

func TestCurrentArticleEmpty(t *testing.T) {
	cs, _ := connect(t)
	res, err := cs.CallTool(context.Background(), &sdk.CallToolParams{Name: "current_article", Arguments: map[string]any{}})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if !res.IsError {
		t.Error("expected an error result before any article exists")
	}
}
