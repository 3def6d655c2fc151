package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/Mas2205/UrbanFootCenter-sub000/config"
	"github.com/Mas2205/UrbanFootCenter-sub000/db"
	_ "github.com/Mas2205/UrbanFootCenter-sub000/docs"
	"github.com/Mas2205/UrbanFootCenter-sub000/handlers"
	"github.com/Mas2205/UrbanFootCenter-sub000/live"
	"github.com/Mas2205/UrbanFootCenter-sub000/middleware"
	"github.com/Mas2205/UrbanFootCenter-sub000/repositories"
	api "github.com/Mas2205/UrbanFootCenter-sub000/routes"
	"github.com/Mas2205/UrbanFootCenter-sub000/services"
)

const schedulerInterval = 30 * time.Second // Период автозакрытия регистрации

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	// Применение миграций
	if err := db.Migrate(dbConn); err != nil {
		logger.Error("failed to apply database migrations", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("database migrations applied")

	// Инициализация WebSocket Hub
	wsHub := live.NewHub(logger)
	go wsHub.Run()
	logger.Info("WebSocket hub started")

	// Инициализация репозиториев
	txManager := repositories.NewTxManager(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	participationRepo := repositories.NewPostgresParticipationRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	standingRepo := repositories.NewPostgresStandingRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	fieldRepo := repositories.NewPostgresFieldRepository(dbConn)
	logger.Info("repositories initialized")

	// Инициализация сервисов
	tournamentService := services.NewTournamentService(
		txManager,
		tournamentRepo,
		fieldRepo,
		participationRepo,
		matchRepo,
		standingRepo,
		wsHub,
		logger,
	)
	participationService := services.NewParticipationService(
		txManager,
		tournamentRepo,
		participationRepo,
		teamRepo,
		logger,
	)
	drawService := services.NewDrawService(
		txManager,
		tournamentRepo,
		participationRepo,
		matchRepo,
		standingRepo,
		wsHub,
		logger,
	)
	matchService := services.NewMatchService(
		txManager,
		tournamentRepo,
		matchRepo,
		standingRepo,
		wsHub,
		logger,
	)
	standingsService := services.NewStandingsService(tournamentRepo, matchRepo, teamRepo)
	logger.Info("services initialized")

	// Планировщик автозакрытия регистрации по дедлайну
	go func() {
		ticker := time.NewTicker(schedulerInterval)
		defer ticker.Stop()
		logger.Info("registration deadline scheduler started", slog.Duration("interval", schedulerInterval))

		// Первый прогон сразу при старте, дальше по тикеру.
		if err := tournamentService.AutoCloseExpiredRegistrations(context.Background()); err != nil {
			logger.Error("scheduler: initial run failed", slog.Any("error", err))
		}

		for range ticker.C {
			if err := tournamentService.AutoCloseExpiredRegistrations(context.Background()); err != nil {
				logger.Error("scheduler: periodic run failed", slog.Any("error", err))
			}
		}
	}()

	// Инициализация обработчиков HTTP
	authenticator := middleware.NewAuthenticator(cfg.JWTSecretKey)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService)
	participationHandler := handlers.NewParticipationHandler(participationService)
	matchHandler := handlers.NewMatchHandler(matchService)
	drawHandler := handlers.NewDrawHandler(drawService)
	standingsHandler := handlers.NewStandingsHandler(standingsService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, logger)
	logger.Info("HTTP handlers initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.CORSAllowedOrigins,
		authenticator,
		tournamentHandler,
		participationHandler,
		matchHandler,
		drawHandler,
		standingsHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
