package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"siteinsight/internal/analyze"
	"siteinsight/internal/app"
	"siteinsight/internal/fetch"
	"siteinsight/internal/llm"
	"siteinsight/internal/server"
	"siteinsight/internal/summarize"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Local overrides first so flags defaulting to env values see them.
	_ = app.LoadEnvFiles(".env")

	cfg := app.Defaults()
	var configPath string
	flag.IntVar(&cfg.Port, "port", cfg.Port, "HTTP listen port")
	flag.StringVar(&cfg.StaticDir, "static.dir", cfg.StaticDir, "Directory of static assets served at / (skipped when missing)")
	flag.StringVar(&cfg.LLMBaseURL, "llm.base", cfg.LLMBaseURL, "OpenAI-compatible base URL")
	flag.StringVar(&cfg.LLMModel, "llm.model", cfg.LLMModel, "Model name for summaries")
	flag.StringVar(&cfg.LLMAPIKey, "llm.key", cfg.LLMAPIKey, "API key for the summarizer; empty disables model summaries")
	flag.IntVar(&cfg.LLMMaxTokens, "llm.maxTokens", cfg.LLMMaxTokens, "Token budget for each summary")
	flag.DurationVar(&cfg.FetchTimeout, "fetch.timeout", cfg.FetchTimeout, "Timeout for outbound page fetches")
	flag.StringVar(&cfg.FetchUserAgent, "fetch.ua", cfg.FetchUserAgent, "Override the outbound User-Agent")
	flag.BoolVar(&cfg.Verbose, "v", false, "Verbose logging")
	flag.StringVar(&configPath, "config", "", "Path to YAML or JSON config file")
	flag.Parse()

	app.ApplyEnv(&cfg)
	if strings.TrimSpace(configPath) != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", configPath).Msg("read config file")
		}
		app.ApplyFileConfig(&cfg, fc)
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	analyzer := &analyze.Analyzer{
		Fetcher: &fetch.Client{
			Timeout:   cfg.FetchTimeout,
			UserAgent: cfg.FetchUserAgent,
		},
	}
	if cfg.LLMAPIKey != "" {
		analyzer.Summarizer = &summarize.Summarizer{
			Client:    llm.New(cfg.LLMAPIKey, cfg.LLMBaseURL),
			Model:     cfg.LLMModel,
			MaxTokens: cfg.LLMMaxTokens,
		}
		log.Info().Str("model", cfg.LLMModel).Msg("model summaries enabled")
	} else {
		log.Info().Msg("no API key configured; serving basic-tier analysis")
	}

	srv := &server.Server{Analyzer: analyzer, StaticDir: cfg.StaticDir}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.ListenAndServe(ctx, cfg.Port); err != nil {
		log.Error().Err(err).Msg("server failed")
		os.Exit(1)
	}
}
