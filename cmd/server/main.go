package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/YSmoncada/MANDALA-PROYECT/internal/config"
	"github.com/YSmoncada/MANDALA-PROYECT/internal/infra"
	"github.com/YSmoncada/MANDALA-PROYECT/internal/repository"
	"github.com/YSmoncada/MANDALA-PROYECT/internal/router"
	"github.com/YSmoncada/MANDALA-PROYECT/internal/service"
	"github.com/YSmoncada/MANDALA-PROYECT/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Idempotent bootstrap: default users, floor plan, base categories
	bootstrap := service.NewBootstrapService(
		repository.NewUsuarioRepository(db),
		repository.NewMesaRepository(db),
		repository.NewCategoriaRepository(db),
	)
	if err := bootstrap.Run(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("bootstrap failed")
	}

	// Worker pool for async tasks (low-stock alerts, PDF tickets). Handlers
	// are wired here (composition root) so the pool has full access to all
	// infrastructure dependencies.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := infra.NewMailer(cfg)
	smtpCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	pedidoRepo := repository.NewPedidoRepository(db)

	handlers := worker.Handlers{
		Alerta: worker.NewAlertaStockWorker(mailer, smtpCB, cfg.AlertasEmailList()),
		Ticket: worker.NewTicketWorker(pedidoRepo, cfg.PDFStoragePath, mailer, smtpCB, cfg.TicketsEmail),
	}
	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, handlers)
	worker.StartRetryCron(ctx, rdb)

	r := router.New(cfg, db, rdb, smtpCB)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("MANDALA backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
