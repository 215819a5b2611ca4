package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"TurnipSentinel/internal/api"
	"TurnipSentinel/internal/config"
	"TurnipSentinel/internal/forecast"
	"TurnipSentinel/internal/logger"
	"TurnipSentinel/internal/metrics"
	"TurnipSentinel/internal/notifier"
	"TurnipSentinel/internal/recorder"
	"TurnipSentinel/internal/scheduler"
	"TurnipSentinel/internal/week"
)

func main() {
	logger.Init("turnip-sentinel")
	log.Info().Msg("TurnipSentinel starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	params, err := cfg.Parameters()
	if err != nil {
		log.Fatal().Err(err).Msg("resolve prediction parameters")
	}
	presetName := cfg.Prediction.Preset
	if cfg.Prediction.Parameters != nil {
		presetName = "custom"
	}
	log.Info().Str("preset", presetName).Int("tolerance", params.Tolerance).Msg("prediction parameters loaded")

	// Init week book
	wm, err := week.NewManager(cfg.Week.StateFile)
	if err != nil {
		log.Fatal().Err(err).Msg("init week manager")
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	fs := forecast.NewService(presetName, params, wm, rec, metrics.DefaultMetrics)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telegram is optional; without it the bot only serves the API.
	var tn *notifier.TelegramNotifier
	if cfg.Telegram.BotToken != "" {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	}

	if tn != nil {
		sched := scheduler.NewScheduler(ctx, fs, tn)
		if err := sched.RegisterAll(cfg.Schedule.ResetCron, cfg.Schedule.ReportCron); err != nil {
			log.Fatal().Err(err).Msg("register cron tasks")
		}
		sched.Start()
		defer sched.Stop()

		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("telegram polling started")

		if os.Getenv("RUN_ON_START") == "true" {
			log.Info().Msg("RUN_ON_START enabled, sending report now")
			go sched.RunReportNow()
		}
	} else {
		log.Warn().Msg("telegram.bot_token not set, chat commands and reports disabled")
	}

	// HTTP API
	srv := api.NewServer(cfg.API.Listen, fs, cfg.API.RateLimit, cfg.API.Burst)
	go func() {
		if err := srv.Start(); err != nil {
			log.Error().Err(err).Msg("api server")
			cancel()
		}
	}()

	log.Info().Msg("TurnipSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		log.Info().Msg("shutdown signal received, stopping...")
	case <-ctx.Done():
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("api shutdown")
	}
	cancel()
	log.Info().Msg("TurnipSentinel stopped")
}
