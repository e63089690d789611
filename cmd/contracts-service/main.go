package main

import (
	"fmt"
	"os"

	"github.com/nurpe/partner-contracts/internal/audit"
	"github.com/nurpe/partner-contracts/internal/auth"
	"github.com/nurpe/partner-contracts/internal/clock"
	"github.com/nurpe/partner-contracts/internal/config"
	"github.com/nurpe/partner-contracts/internal/db"
	httphandler "github.com/nurpe/partner-contracts/internal/http"
	"github.com/nurpe/partner-contracts/internal/http/middleware"
	"github.com/nurpe/partner-contracts/internal/logger"
	"github.com/nurpe/partner-contracts/internal/metrics"
	"github.com/nurpe/partner-contracts/internal/repository"
	"github.com/nurpe/partner-contracts/internal/revenue"
	"github.com/nurpe/partner-contracts/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment, cfg.LogLevel)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	m := metrics.New(cfg.Environment)

	contractRepo := repository.NewContractRepository(database)
	transactionRepo := repository.NewTransactionRepository(database)
	historyRepo := repository.NewHistoryRepository(database)

	contractService := service.NewContractService(
		contractRepo,
		audit.NewRecorder(historyRepo, log),
		m,
		clock.System{},
		cfg.Contracts,
		log,
	)
	revenueEngine := revenue.NewEngine(
		contractRepo,
		transactionRepo,
		revenue.PricingFromConfig(cfg.Revenue),
		m,
		log,
	)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(contractService, revenueEngine, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, m.Handler(), httphandler.RouterConfig{
		Environment: cfg.Environment,
		CORSOrigins: cfg.HTTP.CORSOrigins,
	}, log)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting contracts service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
