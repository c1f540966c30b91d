package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/eventseekr/backend/internal/adapters/cache"
	"github.com/eventseekr/backend/internal/adapters/query"
	"github.com/eventseekr/backend/internal/adapters/search"
	"github.com/eventseekr/backend/internal/adapters/source"
	"github.com/eventseekr/backend/internal/api/handlers"
	"github.com/eventseekr/backend/internal/api/middleware"
	"github.com/eventseekr/backend/internal/api/routes"
	"github.com/eventseekr/backend/internal/application/services"
	"github.com/eventseekr/backend/internal/domain/providers"
	"github.com/eventseekr/backend/internal/infrastructure/clients/gemini"
	"github.com/eventseekr/backend/internal/infrastructure/clients/redis"
	"github.com/eventseekr/backend/internal/infrastructure/observability"
	"github.com/eventseekr/backend/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, os.Getenv("APP_ENV"))

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	// Initialize Gemini client if an API key is configured. Without it the
	// server still runs with heuristic parsing and lexical ranking only.
	var geminiClient *gemini.Client
	if cfg.Gemini.APIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set; AI query parsing and semantic retrieval disabled")
	} else {
		geminiClient, err = gemini.NewClient(&cfg.Gemini)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize Gemini client")
		} else {
			log.Info().Str("model", cfg.Gemini.Model).Msg("Gemini client initialized successfully")
		}
	}

	// Build the parser chain: AI interpretation first, keyword heuristics
	// as the fallback.
	parserStrategies := make([]providers.QueryParser, 0, 2)
	if geminiClient != nil {
		parserStrategies = append(parserStrategies, query.NewGeminiParser(geminiClient))
	}
	parserStrategies = append(parserStrategies, query.NewHeuristicParser())
	parser := query.NewChain(parserStrategies...)

	// Initialize the search service
	eventSource := source.NewCSVSource(cfg.Data.CSVPath)
	resultCache := cache.NewMemory(cfg.Search.CacheCapacity)
	searchService := services.NewSearchService(eventSource, parser, resultCache)
	searchService.SetMetrics(metrics)
	searchService.SetRetrievalK(cfg.Search.RetrievalK)

	// Wire the semantic retriever when both the embedding file and the
	// Gemini client are available.
	if geminiClient != nil {
		vectorStore, err := search.NewVectorStore(cfg.Data.EmbeddingsPath, geminiClient)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.Data.EmbeddingsPath).Msg("Failed to load embeddings; semantic retrieval disabled")
		} else {
			searchService.SetRetriever(vectorStore)
			log.Info().Int("vectors", vectorStore.Size()).Msg("Vector store loaded successfully")
		}
	}

	// Initialize Redis client for HTTP response caching
	var cacheProvider providers.CacheProvider
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Redis client; continuing without response caching")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		log.Info().Msg("Redis client initialized successfully")
	}

	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider)
	}

	// Load the event store before accepting traffic.
	if err := searchService.Initialize(ctx); err != nil {
		log.Fatal().Err(err).Str("path", cfg.Data.CSVPath).Msg("Failed to load event store")
	}

	// Initialize handlers and routes
	eventHandler := handlers.NewEventHandler(searchService, cfg.Gemini.APIKey != "")
	router := routes.NewRouter(eventHandler, cacheMiddleware, metrics)
	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", serverAddr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("Server stopped")
}
