package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/priyank/bookquiz/internal/extract"
	"github.com/priyank/bookquiz/internal/generate"
	"github.com/priyank/bookquiz/internal/handler"
	"github.com/priyank/bookquiz/internal/history"
	"github.com/priyank/bookquiz/internal/llm"
	"github.com/priyank/bookquiz/internal/scoring"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP quiz server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("data-dir", "data", "Directory for test history files")
	f.String("llm-provider", "", "LLM provider (mistral, gemini, openai, anthropic, mock); empty = auto-detect")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	provider, llmCfg, err := buildProvider(ctx, v)
	if err != nil {
		return err
	}
	slog.Info("LLM provider ready", "provider", llmCfg.Provider, "model", provider.ModelID())

	generator := generate.NewService(
		generate.New(provider, generate.DefaultConfig()),
		generate.NewFallback(),
	)

	extractor, err := buildExtractor(ctx, llmCfg)
	if err != nil {
		return err
	}

	engine := scoring.NewEngine(scoring.NewLLMGrader(provider))
	store := history.NewStore(v.GetString("data-dir"))

	srv := handler.NewServer(generator, extractor, engine, store)
	httpSrv := &http.Server{
		Addr:              v.GetString("addr"),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", httpSrv.Addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// buildProvider resolves LLM configuration: an explicit --llm-provider flag
// wins, then BOOKQUIZ_* env config, then probing well-known API key vars.
func buildProvider(ctx context.Context, v *viper.Viper) (llm.Provider, llm.Config, error) {
	cfg := llm.ConfigFromEnv()
	if p := v.GetString("llm-provider"); p != "" {
		cfg.Provider = p
	}
	if err := cfg.Validate(); err != nil {
		discovered, ok := llm.DiscoverConfig()
		if !ok {
			return nil, llm.Config{}, fmt.Errorf("no usable LLM configuration: %w", err)
		}
		cfg = discovered
	}

	provider, err := llm.NewProvider(ctx, cfg)
	if err != nil {
		return nil, llm.Config{}, fmt.Errorf("create LLM provider: %w", err)
	}
	return provider, cfg, nil
}

// buildExtractor assembles the document extraction chain. PDF and DOCX
// transcription needs a Gemini key; without one only plain text uploads
// are accepted.
func buildExtractor(ctx context.Context, cfg llm.Config) (*extract.Chain, error) {
	extractors := []extract.Extractor{extract.NewPlainText()}
	if cfg.Gemini.APIKey != "" {
		gem, err := extract.NewGemini(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			return nil, fmt.Errorf("create document transcriber: %w", err)
		}
		extractors = append(extractors, gem)
	} else {
		slog.Warn("no Gemini key configured, PDF and DOCX uploads disabled")
	}
	return extract.NewChain(extractors...), nil
}
