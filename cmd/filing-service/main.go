package main

import (
	"fmt"
	"os"

	"github.com/nurpe/hvut-filing/internal/audit"
	"github.com/nurpe/hvut-filing/internal/auth"
	"github.com/nurpe/hvut-filing/internal/config"
	"github.com/nurpe/hvut-filing/internal/db"
	"github.com/nurpe/hvut-filing/internal/excel"
	httphandler "github.com/nurpe/hvut-filing/internal/http"
	"github.com/nurpe/hvut-filing/internal/http/middleware"
	"github.com/nurpe/hvut-filing/internal/layout"
	"github.com/nurpe/hvut-filing/internal/logger"
	"github.com/nurpe/hvut-filing/internal/render"
	"github.com/nurpe/hvut-filing/internal/repository"
	"github.com/nurpe/hvut-filing/internal/service"
	"github.com/nurpe/hvut-filing/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	descriptor, err := layout.LoadFile(cfg.Artifacts.LayoutPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load field layout")
	}
	layouts := layout.NewStore(descriptor)

	store, err := storage.NewFSStore(cfg.Artifacts.Root)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init artifact store")
	}

	filingRepo := repository.NewFilingRepository(database)
	filingService := service.NewFilingService(
		filingRepo,
		store,
		render.NewReturnBuilder(),
		render.NewOverlay(layouts),
		excel.NewGenerator(),
		layouts,
		audit.NewLogSink(log),
		cfg,
		log,
	)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(filingService, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting filing service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
