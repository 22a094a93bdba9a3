package publisher

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"editorial_ai/generator"
	"editorial_ai/narration"
)

// DefaultProduct prefixes every exported file name.
const DefaultProduct = "editorial-ai"

const (
	ExtWAV = "wav"
	ExtTXT = "txt"
)

// Publisher 负责把稿件导出为可下载文件（文本、音频）并落盘。
type Publisher struct {
	product string
	dir     string
	now     func() time.Time
	logger  *slog.Logger
}

// New creates a Publisher writing into dir. An empty product falls back to DefaultProduct.
func New(product, dir string, logger *slog.Logger) *Publisher {
	if product == "" {
		product = DefaultProduct
	}
	if dir == "" {
		dir = "."
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{product: product, dir: dir, now: time.Now, logger: logger}
}

// FileName returns <product>-<style>-<unix ms>.<ext>.
func (p *Publisher) FileName(styleID, ext string) string {
	return fmt.Sprintf("%s-%s-%d.%s", p.product, styleID, p.now().UnixMilli(), ext)
}

// Save writes data under the output directory and returns the path.
func (p *Publisher) Save(name string, data []byte) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(p.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	p.logger.Info("Export written", slog.String("path", path), slog.Int("bytes", len(data)))
	return path, nil
}

// SaveText exports the plain-text document of a.
func (p *Publisher) SaveText(a *generator.Article) (string, error) {
	if a == nil {
		return "", errors.New("article is required")
	}
	return p.Save(p.FileName(a.StyleID, ExtTXT), []byte(TextDocument(a)))
}

// SaveWAV exports a ready WAV file for a.
func (p *Publisher) SaveWAV(a *generator.Article, wav []byte) (string, error) {
	if a == nil {
		return "", errors.New("article is required")
	}
	return p.Save(p.FileName(a.StyleID, ExtWAV), wav)
}

// TextDocument 生成纯文本导出：标题、要点列表、去掉 Markdown 的正文。
func TextDocument(a *generator.Article) string {
	var sb strings.Builder
	sb.WriteString("Headline: ")
	sb.WriteString(a.Headline)
	sb.WriteString("\n\nKey Takeaways:\n")
	for _, k := range a.KeyTakeaways {
		sb.WriteString("- ")
		sb.WriteString(k)
		sb.WriteString("\n")
	}
	sb.WriteString("\n---\n\n")
	sb.WriteString(narration.StripMarkdown(a.Body))
	return strings.TrimSpace(sb.String())
}

// ClipboardText is what the copy action puts on the clipboard.
func ClipboardText(a *generator.Article) string {
	return a.Headline + "\n\n" + narration.StripMarkdown(a.Body)
}

// RenderHTML 把正文 Markdown 转为 HTML 预览；默认渲染器会丢弃原始 HTML。
func RenderHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
