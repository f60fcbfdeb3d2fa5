package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/benbeisheim/starchess-backend/internal/config"
	"github.com/benbeisheim/starchess-backend/internal/router"
	"github.com/benbeisheim/starchess-backend/internal/service"
	"github.com/benbeisheim/starchess-backend/internal/store"
	"github.com/rs/zerolog/log"
)

func main() {
	config.Load()
	cfg := config.Server()
	config.SetLogLevel(cfg.LogLevel)

	archive := store.NewMemoryArchive()
	if cfg.ArchiveDSN != "" {
		sqlite, err := store.OpenSQLite(cfg.ArchiveDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open relay archive")
		}
		archive = sqlite
	}
	defer archive.Close()

	roomManager := service.NewRoomManager(archive)
	relayService := service.NewRelayService(roomManager)
	app := router.New(cfg, relayService)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info().Msg("shutting down relay")
		app.Shutdown()
	}()

	log.Info().Str("port", cfg.Port).Msg("starting relay")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("relay exited")
	}
}
