package main

import (
	"fmt"
	"os"

	"route-service/internal/auth"
	"route-service/internal/config"
	"route-service/internal/db"
	httphandler "route-service/internal/http"
	"route-service/internal/http/middleware"
	"route-service/internal/logger"
	"route-service/internal/repository"
	"route-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	scheduleRepo := repository.NewScheduleRepository(database)
	segmentRepo := repository.NewSegmentRepository(database)
	rescheduleRepo := repository.NewRescheduleRepository(database)
	wasteRepo := repository.NewWasteRepository(database)

	scheduleService := service.NewScheduleService(scheduleRepo, segmentRepo)
	segmentService := service.NewSegmentService(segmentRepo)
	rescheduleService := service.NewRescheduleService(scheduleRepo, segmentRepo, rescheduleRepo, log)
	reportService := service.NewReportService(scheduleRepo, segmentRepo)
	wasteService := service.NewWasteService(segmentRepo, wasteRepo)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)

	handler := httphandler.NewHandler(
		scheduleService,
		segmentService,
		rescheduleService,
		reportService,
		wasteService,
		cfg.Location,
		log,
	)
	router := httphandler.NewRouter(handler, middleware.Auth(tokenParser), cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting route service")

	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
