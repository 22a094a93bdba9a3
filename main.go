package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"editorial_ai/config"
	"editorial_ai/generator"
	"editorial_ai/mcpserver"
	"editorial_ai/metrics"
	"editorial_ai/narration"
	"editorial_ai/publisher"
	"editorial_ai/server"
)

var Version = "dev"

func main() {
	configPath := flag.String("config", "", "path to config.yaml (default: ./config.yaml, then ~/.editorial-ai.yaml)")
	envFile := flag.String("env", ".env", "dotenv file with API keys")
	serve := flag.Bool("serve", false, "start web server")
	addr := flag.String("addr", "", "http listen address when --serve (overrides config.server_addr)")
	mcp := flag.Bool("mcp", false, "serve MCP tools over stdio")
	text := flag.String("text", "", "raw text to rewrite")
	url := flag.String("url", "", "URL whose content should be rewritten")
	style := flag.String("style", generator.DefaultStyleID, "editorial style id")
	listStyles := flag.Bool("styles", false, "list available styles and exit")
	read := flag.Bool("read", false, "read the article aloud after generating it")
	saveWAV := flag.Bool("wav", false, "export the narration as WAV into output_dir")
	saveTXT := flag.Bool("txt", false, "export the article as plain text into output_dir")
	verbose := flag.Bool("v", false, "enable debug logs")
	flag.Parse()

	if *listStyles {
		for _, st := range generator.Styles() {
			fmt.Printf("%-12s %-20s %s\n", st.ID, st.Name, st.Description)
		}
		return
	}

	if err := config.LoadEnv(*envFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg, err := config.LoadWithFallback(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *verbose {
		cfg.Logging.Level = "debug"
	}
	if *mcp && cfg.Logging.Output == "stdout" {
		// stdout 留给 MCP 协议帧。
		cfg.Logging.Output = "stderr"
	}
	logger := initLogger(cfg.Logging)
	slog.SetDefault(logger)

	app, err := buildApp(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := app.narrator.Close(); err != nil {
			logger.Warn("Failed to release audio output", slog.String("error", err.Error()))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case *mcp:
		err = runMCP(ctx, cfg, app, logger)
	case *serve:
		listen := cfg.ServerAddr
		if *addr != "" {
			listen = *addr
		}
		err = runServer(ctx, listen, cfg, app, logger)
	default:
		err = runCLI(ctx, cliOptions{
			text: *text, url: *url, style: *style,
			read: *read, wav: *saveWAV, txt: *saveTXT,
		}, cfg, app, logger)
	}
	if err != nil {
		logger.Error("Exiting with error", slog.String("error", err.Error()))
		stop()
		app.narrator.Close()
		os.Exit(1)
	}
}

type application struct {
	desk     *generator.Desk
	narrator *narration.Controller
	pub      *publisher.Publisher
	metrics  *metrics.Metrics
}

func buildApp(cfg *config.Config, logger *slog.Logger) (*application, error) {
	m := metrics.NewMetrics()

	llm, err := buildLLM(cfg.LLM)
	if err != nil {
		return nil, err
	}
	agent, err := generator.NewAgent(m.LLM(llm))
	if err != nil {
		return nil, err
	}

	synth, err := buildSynthesizer(cfg.Speech)
	if err != nil {
		return nil, err
	}
	narrator, err := narration.NewController(m.Synthesizer(synth), buildPlayer(cfg.Speech), logger)
	if err != nil {
		return nil, err
	}

	logger.Info("Components initialized",
		slog.String("llm_provider", cfg.LLM.Provider),
		slog.String("text_model", cfg.LLM.TextModel),
		slog.String("url_model", cfg.LLM.URLModel),
		slog.String("speech_provider", cfg.Speech.Provider),
		slog.String("voice", cfg.Speech.Voice),
		slog.String("player", cfg.Speech.Player),
	)

	return &application{
		desk:     generator.NewDesk(agent, narrator.SetArticle),
		narrator: narrator,
		pub:      publisher.New(cfg.Product, cfg.OutputDir, logger),
		metrics:  m,
	}, nil
}

func buildLLM(cfg config.LLMConfig) (generator.LLMClient, error) {
	settings := &generator.LLMSettings{
		Provider:  cfg.Provider,
		APIKey:    cfg.ResolveAPIKey(),
		BaseURL:   cfg.BaseURL,
		FastModel: cfg.TextModel,
		ProModel:  cfg.URLModel,
	}
	switch cfg.Provider {
	case config.ProviderGemini:
		return generator.NewGeminiLLMFromConfig(settings)
	case config.ProviderOpenAI, config.ProviderDeepSeek:
		// DeepSeek 走 OpenAI 兼容接口。
		return generator.NewOpenAILLMFromConfig(settings)
	case config.ProviderMock:
		return generator.MockLLM{}, nil
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.Provider)
	}
}

func buildSynthesizer(cfg config.SpeechConfig) (narration.Synthesizer, error) {
	settings := narration.SpeechSettings{
		Provider: cfg.Provider,
		APIKey:   cfg.ResolveAPIKey(),
		BaseURL:  cfg.BaseURL,
		Model:    cfg.Model,
		Voice:    cfg.Voice,
	}
	switch cfg.Provider {
	case config.ProviderGemini:
		return narration.NewGeminiSynthesizer(settings)
	case config.ProviderOpenAI:
		return narration.NewOpenAISynthesizer(settings)
	case config.ProviderMock:
		return narration.ToneSynthesizer{}, nil
	default:
		return nil, fmt.Errorf("speech provider %s not supported", cfg.Provider)
	}
}

func buildPlayer(cfg config.SpeechConfig) narration.Player {
	if cfg.Player == config.PlayerSilent {
		return narration.SilentPlayer{}
	}
	return narration.NewMalgoPlayer()
}

func runServer(ctx context.Context, listen string, cfg *config.Config, app *application, logger *slog.Logger) error {
	srv, err := server.New(app.desk, app.narrator, app.pub, server.Options{
		Timeout: cfg.GetRequestTimeout(),
		Metrics: app.metrics,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              listen,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting web server", slog.String("address", listen))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	logger.Info("Service stopped")
	return nil
}

func runMCP(ctx context.Context, cfg *config.Config, app *application, logger *slog.Logger) error {
	srv, err := mcpserver.NewServer(mcpserver.Config{
		ServerName:    cfg.Product,
		ServerVersion: Version,
		Timeout:       cfg.GetRequestTimeout(),
	}, app.desk, logger)
	if err != nil {
		return err
	}
	logger.Info("Serving MCP over stdio", slog.String("version", Version))
	return srv.Run(ctx)
}

type cliOptions struct {
	text, url, style string
	read, wav, txt   bool
}

func runCLI(ctx context.Context, opts cliOptions, cfg *config.Config, app *application, logger *slog.Logger) error {
	in := generator.SourceInput{Mode: generator.ModeText, Content: opts.text}
	switch {
	case opts.text != "" && opts.url != "":
		return errors.New("--text and --url are mutually exclusive")
	case opts.url != "":
		in.Mode, in.Content = generator.ModeURL, opts.url
	case opts.text == "":
		return errors.New("one of --text, --url, --serve or --mcp is required")
	}
	st, ok := generator.LookupStyle(opts.style)
	if !ok {
		return fmt.Errorf("%w: %q (see --styles)", generator.ErrUnknownStyle, opts.style)
	}
	in.Style = st

	tctx, cancel := context.WithTimeout(ctx, cfg.GetRequestTimeout())
	defer cancel()
	logger.Info("Transforming", slog.String("style", st.ID), slog.String("mode", string(in.Mode)))
	art, err := app.desk.Submit(tctx, in)
	if err != nil {
		return err
	}
	fmt.Println(publisher.TextDocument(art))

	if opts.txt {
		path, err := app.pub.SaveText(art)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "saved", path)
	}
	if opts.wav {
		wctx, cancel := context.WithTimeout(ctx, cfg.GetRequestTimeout())
		defer cancel()
		wav, err := app.narrator.WAV(wctx)
		if err != nil {
			return err
		}
		path, err := app.pub.SaveWAV(art, wav)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "saved", path)
	}
	if opts.read {
		rctx, cancel := context.WithTimeout(ctx, cfg.GetRequestTimeout())
		defer cancel()
		if _, err := app.narrator.ReadAloud(rctx); err != nil {
			return err
		}
		if err := app.narrator.WaitIdle(ctx); err != nil {
			// Ctrl-C 停止朗读即可，不算失败。
			return app.narrator.Stop()
		}
	}
	return nil
}

// initLogger creates and configures the structured logger based on configuration
func initLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var output *os.File
	switch cfg.Output {
	case "stderr", "":
		output = os.Stderr
	case "stdout":
		output = os.Stdout
	default:
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v, falling back to stderr\n", cfg.Output, err)
			output = os.Stderr
		} else {
			output = file
		}
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}
	return slog.New(handler)
}
