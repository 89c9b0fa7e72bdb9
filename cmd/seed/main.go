// cmd/seed/main.go — Runs the idempotent bootstrap against the configured
// database without starting the server.
// Uso: go run cmd/seed/main.go
package main

import (
	"context"
	"os"
	"time"

	"github.com/YSmoncada/MANDALA-PROYECT/internal/config"
	"github.com/YSmoncada/MANDALA-PROYECT/internal/infra"
	"github.com/YSmoncada/MANDALA-PROYECT/internal/repository"
	"github.com/YSmoncada/MANDALA-PROYECT/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	bootstrap := service.NewBootstrapService(
		repository.NewUsuarioRepository(db),
		repository.NewMesaRepository(db),
		repository.NewCategoriaRepository(db),
	)
	if err := bootstrap.Run(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("bootstrap failed")
	}
}
