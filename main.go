package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"story_engine/config"
	"story_engine/generator"
	"story_engine/logger"
	"story_engine/server"
	"story_engine/speech"
)

func main() {
	envFile := flag.String("env", ".env", "path to .env file (ignored if missing)")
	addr := flag.String("addr", "", "http listen address (overrides SERVER_ADDR)")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, *addr, log); err != nil {
		log.Error("server stopped with error", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, addr string, log *zap.Logger) error {
	llm, err := buildLLM(cfg)
	if err != nil {
		return err
	}
	agent, err := generator.NewAgent(llm,
		generator.WithLogger(log),
		generator.WithInspiration(bool(cfg.UseInspirationSites)),
		generator.WithCallTimeout(cfg.LLMTimeout),
		generator.WithRetry(cfg.LLMMaxAttempts, cfg.LLMRetryDelay),
	)
	if err != nil {
		return err
	}

	narrator, err := buildSpeech(cfg, log)
	if err != nil {
		return err
	}

	opts := server.Options{
		StaticDir:      cfg.StaticDir,
		FrontendOrigin: cfg.FrontendOrigin,
		RequestTimeout: cfg.RequestTimeout,
		Metrics:        cfg.MetricsEnabled,
		Logger:         log,
	}
	if narrator.Available() && narrator.Mode() == speech.ModeFile {
		opts.AudioDir = narrator.AudioDir()
	}
	gin.SetMode(gin.ReleaseMode)
	srv, err := server.New(agent, narrator, opts)
	if err != nil {
		return err
	}

	listen := cfg.ServerAddr
	if addr != "" {
		listen = addr
	}
	httpSrv := &http.Server{
		Addr:              listen,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting http server",
			zap.String("addr", listen),
			zap.String("provider", cfg.LLMProvider),
			zap.String("model", cfg.LLMModel),
			zap.Bool("tts", narrator.Available()),
		)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server exited")
	return nil
}

func buildLLM(cfg *config.Config) (generator.LLMClient, error) {
	settings := &generator.LLMSettings{
		Provider: cfg.LLMProvider,
		Model:    cfg.LLMModel,
		APIKey:   cfg.OpenAIAPIKey,
		BaseURL:  cfg.LLMBaseURL,
	}
	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		return generator.NewOpenAILLMFromConfig(settings)
	case config.ProviderDeepSeek:
		// DeepSeek speaks the OpenAI protocol but needs its own endpoint.
		if cfg.LLMBaseURL == "" {
			return nil, fmt.Errorf("llm provider deepseek requires LLM_BASE_URL (OpenAI-compatible endpoint)")
		}
		return generator.NewOpenAILLMFromConfig(settings)
	case config.ProviderOllama:
		return generator.NewOllamaLLMFromConfig(settings, &http.Client{Timeout: cfg.LLMTimeout})
	case config.ProviderMock:
		return generator.MockLLM{}, nil
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.LLMProvider)
	}
}

func buildSpeech(cfg *config.Config, log *zap.Logger) (*speech.Adapter, error) {
	var backend speech.Backend
	if cfg.TTSAvailable() {
		b, err := speech.NewOpenAIBackend(cfg.OpenAIAPIKey, cfg.TTSModel, cfg.TTSVoice)
		if err != nil {
			return nil, err
		}
		backend = b
	} else if cfg.EnableTTS {
		log.Warn("ENABLE_TTS is set but OPENAI_API_KEY is missing; stories will be served without audio")
	}
	return speech.NewAdapter(backend, speech.Config{
		Enabled:  bool(cfg.EnableTTS),
		Mode:     speech.Mode(cfg.TTSMode),
		AudioDir: cfg.AudioDir,
	}, log)
}
