package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/moht-agrawal-rubrik/tlean/app/api"
	"github.com/moht-agrawal-rubrik/tlean/app/candidate"
	"github.com/moht-agrawal-rubrik/tlean/app/cfg"
	"github.com/moht-agrawal-rubrik/tlean/app/config"
	"github.com/moht-agrawal-rubrik/tlean/app/database"
	"github.com/moht-agrawal-rubrik/tlean/app/github"
	"github.com/moht-agrawal-rubrik/tlean/app/jira"
	"github.com/moht-agrawal-rubrik/tlean/app/llm"
	"github.com/moht-agrawal-rubrik/tlean/app/slack"
	"github.com/moht-agrawal-rubrik/tlean/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting tlean server", "version", appCfg.Version)

	sourceConfig, err := config.NewLoader(appCfg.ConfigFile).Load()
	if err != nil {
		slog.Error("Failed to load sources configuration", "file", appCfg.ConfigFile, "error", err)
		os.Exit(1)
	}

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "migration_version", version, "dirty", dirty)

	repo := database.NewCandidateRepository(db)

	httpClient := &http.Client{Timeout: 30 * time.Second}
	bots := candidate.NewBotFilter(sourceConfig.Bots.Patterns)
	extractor := candidate.NewExtractor(bots, sourceConfig.Extractor.AggregateThreshold)

	fetchers := buildFetchers(sourceConfig, bots, extractor, httpClient, appCfg.UserAgent)
	if len(fetchers) == 0 {
		slog.Warn("No sources enabled, the candidate list will stay empty")
	}

	var summarizer tasks.SummarizerInterface
	if client := llm.NewClient(appCfg.LLMEndpoint, appCfg.LLMModel, appCfg.LLMAPIKey, httpClient); client.Enabled() {
		slog.Info("Summary enrichment enabled", "model", appCfg.LLMModel)
		summarizer = client
	}

	scheduler := tasks.NewScheduler(fetchers, summarizer, repo)
	slog.Info("Starting background scheduler", "workers", appCfg.WorkerCount, "interval_seconds", appCfg.SchedulerInterval)
	scheduler.Start()
	defer scheduler.Stop()

	handler := api.NewHandler(repo, scheduler, appCfg.ResultLimit, appCfg.MinScore)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}

func buildFetchers(sourceConfig *config.Config, bots *candidate.BotFilter, extractor *candidate.Extractor,
	httpClient *http.Client, userAgent string) []tasks.SourceFetcherInterface {
	var fetchers []tasks.SourceFetcherInterface

	if sourceConfig.Sources.GitHub.Enabled {
		client := github.NewClient(sourceConfig.Sources.GitHub, httpClient, userAgent)
		fetchers = append(fetchers, github.NewFetcher(client, github.NewNormalizer(bots, extractor)))
		slog.Info("Source enabled", "source", "github")
	}

	if sourceConfig.Sources.Jira.Enabled {
		client := jira.NewClient(sourceConfig.Sources.Jira, httpClient, userAgent)
		fetchers = append(fetchers, jira.NewFetcher(client, jira.NewNormalizer(bots, extractor)))
		slog.Info("Source enabled", "source", "jira")
	}

	if sourceConfig.Sources.Slack.Enabled {
		client := slack.NewClient(sourceConfig.Sources.Slack, httpClient, userAgent)
		fetchers = append(fetchers, slack.NewFetcher(client, slack.NewNormalizer(bots, extractor)))
		slog.Info("Source enabled", "source", "slack")
	}

	return fetchers
}
