package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"leavechat/internal/agent"
	"leavechat/internal/agent/tools"
	"leavechat/internal/auth"
	"leavechat/internal/config"
	"leavechat/internal/handler"
	"leavechat/internal/middleware"
	"leavechat/internal/policy"
	"leavechat/internal/repository/postgres"
	"leavechat/internal/service"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Database
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	userRepo := postgres.NewUserRepository(repoConfig)
	leaveRepo := postgres.NewLeaveRequestRepository(repoConfig)

	// Services
	tokens := auth.NewTokenManager(cfg.JWTSecret, logger)

	catalog, err := policy.NewCatalog()
	if err != nil {
		log.Fatalf("Failed to load leave type catalog: %v", err)
	}
	leaveService := service.NewLeaveService(leaveRepo, catalog, logger)

	// Agent wiring: gateway + operation registry + orchestration loop
	registry := tools.New(leaveService, logger)
	gateway, err := agent.NewAnthropicGateway(cfg.AnthropicAPIKey, cfg.AgentModel, agent.PromptContext{
		LeaveTypes: catalog.PromptSummary(),
	}, logger)
	if err != nil {
		log.Fatalf("Failed to create agent gateway: %v", err)
	}
	loop := agent.NewLoop(gateway, registry, cfg.AgentMaxRounds, logger)

	logger.Info("services initialized", "model", cfg.AgentModel, "max_rounds", cfg.AgentMaxRounds)

	// Handlers
	authHandler := handler.NewAuthHandler(userRepo, tokens, logger)
	chatHandler := handler.NewChatHandler(loop, logger)

	// Middleware for the authenticated surface
	authMW := middleware.Auth(tokens, userRepo, logger)
	chatLimiter := middleware.NewRateLimiter(cfg.ChatRatePerMinute, cfg.ChatRateBurst)

	// Router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handler.Health)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.Handle("POST /api/chat/", authMW(chatLimiter.Middleware(http.HandlerFunc(chatHandler.Chat))))

	// Order: CORS → Recovery → Routes
	var root http.Handler = mux
	root = middleware.Recovery(logger)(root)
	root = cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	}).Handler(root)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // agent turns can take several model rounds
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
