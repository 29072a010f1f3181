package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"checklists/internal/bot"
	"checklists/internal/config"
	"checklists/internal/httpapi"
	"checklists/internal/logging"
	"checklists/internal/repository"
	"checklists/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, plus the Telegram bot when configured",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	db, err := repository.NewDB(cfg.DatabaseURL, log)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	store := repository.NewStore(db)
	listSvc := service.NewListService(store, log)
	taskSvc := service.NewTaskService(store, log)
	authSvc := service.NewAuthService(store, cfg.JWTSecret, cfg.TokenTTL, log)
	reminderSvc := service.NewReminderService(store)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewServer(listSvc, taskSvc, authSvc, cfg.CORSOrigins, log).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if cfg.BotEnabled() {
		telegramBot, err := bot.New(cfg.TelegramToken, store.Users, listSvc, taskSvc, reminderSvc, log)
		if err != nil {
			stop()
			_ = g.Wait()
			return fmt.Errorf("bot: %w", err)
		}

		scheduler := service.NewSchedulerService(time.Local, log)
		if _, err := scheduler.ScheduleReports(cfg.ReportTime, cfg.ReportInterval, reportJob(ctx, telegramBot, log)); err != nil {
			stop()
			_ = g.Wait()
			return fmt.Errorf("schedule reports: %w", err)
		}
		scheduler.Start()
		defer scheduler.Stop()

		g.Go(func() error {
			return telegramBot.Start(ctx)
		})
	} else {
		log.Info().Msg("telegram token not set, bot disabled")
	}

	err = g.Wait()
	log.Info().Msg("shutdown complete")
	return err
}

func reportJob(ctx context.Context, b *bot.Bot, log zerolog.Logger) func() {
	return func() {
		jobCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := b.SendDailyReports(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("daily reports")
		}
	}
}
