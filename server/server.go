package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"editorial_ai/generator"
	"editorial_ai/metrics"
	"editorial_ai/narration"
	"editorial_ai/publisher"
)

//go:embed web/dist
var embeddedStatic embed.FS

// 面向用户的错误提示，细节只写日志。
const (
	msgTransformFailed = "We encountered an issue transforming your content. Please try again or check your input."
	msgAudioFailed     = "Could not generate audio for this content. Please try again."
)

type Server struct {
	desk     *generator.Desk
	narrator *narration.Controller
	pub      *publisher.Publisher
	metrics  *metrics.Metrics
	logger   *slog.Logger
	timeout  time.Duration
	staticFS http.Handler
}

// Options carries the optional collaborators of the HTTP layer.
type Options struct {
	Timeout time.Duration
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

func New(desk *generator.Desk, narrator *narration.Controller, pub *publisher.Publisher, opts Options) (*Server, error) {
	if desk == nil {
		return nil, errors.New("desk required")
	}
	if narrator == nil {
		return nil, errors.New("narration controller required")
	}
	if pub == nil {
		return nil, errors.New("publisher required")
	}

	sub, err := fs.Sub(embeddedStatic, "web/dist")
	if err != nil {
		return nil, err
	}

	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewMetrics()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Server{
		desk:     desk,
		narrator: narrator,
		pub:      pub,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
		timeout:  opts.Timeout,
		staticFS: http.FileServer(http.FS(sub)),
	}, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/styles", s.withMetrics("/api/styles", s.handleStyles))
	mux.HandleFunc("/api/transform", s.withMetrics("/api/transform", s.handleTransform))
	mux.HandleFunc("/api/article", s.withMetrics("/api/article", s.handleArticle))
	mux.HandleFunc("/api/article/audio", s.withMetrics("/api/article/audio", s.handleAudioDownload))
	mux.HandleFunc("/api/article/text", s.withMetrics("/api/article/text", s.handleTextDownload))
	mux.HandleFunc("/api/article/copy", s.withMetrics("/api/article/copy", s.handleCopy))
	mux.HandleFunc("/api/read-aloud", s.withMetrics("/api/read-aloud", s.handleReadAloud))
	mux.HandleFunc("/api/stop", s.withMetrics("/api/stop", s.handleStop))
	mux.HandleFunc("/api/playback", s.withMetrics("/api/playback", s.handlePlayback))
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", s.metrics.Handler())
	mux.Handle("/", s.staticHandler())
	return s.logMiddleware(mux)
}

func (s *Server) staticHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// FileServer 对 "/" 直接返回 index.html；改写成 /index.html 反而会被重定向。
		if strings.HasPrefix(r.URL.Path, "/api/") {
			http.NotFound(w, r)
			return
		}
		s.staticFS.ServeHTTP(w, r)
	})
}

// --- Handlers ---

type transformReq struct {
	Mode  string `json:"mode"`
	Input string `json:"input"`
	Style string `json:"style"`
}

type articleResp struct {
	Article  *generator.Article `json:"article"`
	BodyHTML string             `json:"body_html"`
}

type playbackResp struct {
	State  string `json:"state"`
	Cached bool   `json:"cached"`
}

type errorResp struct {
	Error string `json:"error"`
}

func (s *Server) handleStyles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, generator.Styles())
}

func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req transformReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp{Error: err.Error()})
		return
	}
	mode, ok := generator.ParseMode(req.Mode)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResp{Error: fmt.Sprintf("unknown mode %q", req.Mode)})
		return
	}
	style, ok := generator.LookupStyle(req.Style)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResp{Error: fmt.Sprintf("unknown style %q", req.Style)})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	art, err := s.desk.Submit(ctx, generator.SourceInput{Mode: mode, Content: req.Input, Style: style})
	switch {
	case err == nil:
	case errors.Is(err, generator.ErrEmptyInput), errors.Is(err, generator.ErrUnknownStyle):
		writeJSON(w, http.StatusBadRequest, errorResp{Error: err.Error()})
		return
	case errors.Is(err, generator.ErrBusy):
		writeJSON(w, http.StatusConflict, errorResp{Error: err.Error()})
		return
	default:
		s.logger.Error("Transformation failed",
			slog.String("style", style.ID),
			slog.String("mode", string(mode)),
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusBadGateway, errorResp{Error: msgTransformFailed})
		return
	}

	s.logger.Info("Article generated",
		slog.String("article_id", art.ID),
		slog.String("style", art.StyleID),
		slog.Int("takeaways", len(art.KeyTakeaways)),
	)
	s.writeArticle(w, art)
}

func (s *Server) handleArticle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	art := s.desk.Current()
	if art == nil {
		writeJSON(w, http.StatusNotFound, errorResp{Error: "no article yet"})
		return
	}
	s.writeArticle(w, art)
}

func (s *Server) writeArticle(w http.ResponseWriter, art *generator.Article) {
	html, err := publisher.RenderHTML(art.Body)
	if err != nil {
		s.logger.Warn("Failed to render article body", slog.String("error", err.Error()))
	}
	writeJSON(w, http.StatusOK, articleResp{Article: art, BodyHTML: html})
}

func (s *Server) handleReadAloud(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	// 合成一旦发出就不随客户端断开而取消。
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), s.timeout)
	defer cancel()

	state, err := s.narrator.ReadAloud(ctx)
	if err != nil {
		s.writeNarrationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, playbackResp{State: state.String(), Cached: s.narrator.Cached()})
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := s.narrator.Stop(); err != nil {
		s.logger.Warn("Stop reported an error", slog.String("error", err.Error()))
	}
	writeJSON(w, http.StatusOK, playbackResp{State: s.narrator.State().String(), Cached: s.narrator.Cached()})
}

func (s *Server) handlePlayback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, playbackResp{State: s.narrator.State().String(), Cached: s.narrator.Cached()})
}

func (s *Server) handleAudioDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	art := s.narrator.Article()
	if art == nil {
		writeJSON(w, http.StatusNotFound, errorResp{Error: "no article yet"})
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), s.timeout)
	defer cancel()

	wav, err := s.narrator.WAV(ctx)
	if err != nil {
		s.writeNarrationError(w, err)
		return
	}
	s.writeAttachment(w, "audio/wav", s.pub.FileName(art.StyleID, publisher.ExtWAV), wav)
}

func (s *Server) handleTextDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	art := s.desk.Current()
	if art == nil {
		writeJSON(w, http.StatusNotFound, errorResp{Error: "no article yet"})
		return
	}
	doc := publisher.TextDocument(art)
	s.writeAttachment(w, "text/plain; charset=utf-8", s.pub.FileName(art.StyleID, publisher.ExtTXT), []byte(doc))
}

func (s *Server) handleCopy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	art := s.desk.Current()
	if art == nil {
		writeJSON(w, http.StatusNotFound, errorResp{Error: "no article yet"})
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(publisher.ClipboardText(art)))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"busy":     s.desk.Busy(),
		"playback": s.narrator.State().String(),
	})
}

func (s *Server) writeNarrationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, narration.ErrNoArticle):
		writeJSON(w, http.StatusNotFound, errorResp{Error: "no article yet"})
	case errors.Is(err, narration.ErrBusy):
		writeJSON(w, http.StatusConflict, errorResp{Error: err.Error()})
	case errors.Is(err, narration.ErrSynthesisFailed):
		writeJSON(w, http.StatusBadGateway, errorResp{Error: msgAudioFailed})
	default:
		s.logger.Error("Narration failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorResp{Error: msgAudioFailed})
	}
}

// --- Helpers ---

func (s *Server) writeAttachment(w http.ResponseWriter, contentType, name string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// responseWriter captures the status code for metrics and logs.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// withMetrics wraps an HTTP handler with metrics collection
func (s *Server) withMetrics(endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		handler(ww, r)
		s.metrics.RecordHTTPRequest(r.Method, endpoint, fmt.Sprintf("%d", ww.statusCode), time.Since(start).Seconds())
	}
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(ww, r)
		s.logger.Debug("HTTP request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.statusCode),
			slog.Duration("elapsed", time.Since(start)),
		)
	})
}
