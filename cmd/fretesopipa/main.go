package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kesleylibanio/fretesopipa/internal/auth"
	"github.com/kesleylibanio/fretesopipa/internal/config"
	"github.com/kesleylibanio/fretesopipa/internal/excel"
	"github.com/kesleylibanio/fretesopipa/internal/extract"
	httphandler "github.com/kesleylibanio/fretesopipa/internal/http"
	"github.com/kesleylibanio/fretesopipa/internal/http/middleware"
	"github.com/kesleylibanio/fretesopipa/internal/logger"
	"github.com/kesleylibanio/fretesopipa/internal/pdf"
	"github.com/kesleylibanio/fretesopipa/internal/service"
	"github.com/kesleylibanio/fretesopipa/internal/sheets"
	"github.com/kesleylibanio/fretesopipa/internal/store"
	syncengine "github.com/kesleylibanio/fretesopipa/internal/sync"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	sheetsClient := sheets.NewClient(cfg.Sheets, log)

	snapshot, err := sheetsClient.Fetch(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("initial snapshot load failed")
	}

	st := store.New()
	st.Load(snapshot)

	engine := syncengine.NewEngine(sheetsClient, cfg.Sync.SuccessWindow, log)
	defer engine.Close()

	var extractor *extract.Extractor
	if cfg.Extract.APIKey != "" {
		extractor, err = extract.NewExtractor(context.Background(), cfg.Extract)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to init extractor")
		}
	} else {
		log.Warn().Msg("no extraction API key configured, invoice scanning disabled")
	}

	authenticator := auth.NewAuthenticator(cfg.Auth)
	tokens := auth.NewTokenManager(cfg.Auth.AccessSecret, cfg.Auth.AccessTTL)

	authService := service.NewAuthService(st, sheetsClient, authenticator, tokens, log)
	tripService := service.NewTripService(st, engine, log)
	rateService := service.NewRateService(st, engine, log)
	regService := service.NewRegistrationService(st, engine, cfg.Auth, log)
	exportService := service.NewExportService(st, excel.NewGenerator(), pdf.NewGenerator())
	extractService := service.NewExtractService(extractor, log)

	handler := httphandler.NewHandler(authService, tripService, rateService, regService, exportService, extractService, st, engine, log)
	authMiddleware := middleware.Auth(tokens)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment, cfg.HTTP.AllowedOrigins)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Int("trips", len(snapshot.Trips)).Msg("starting fretesopipa service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
