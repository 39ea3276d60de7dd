package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pdv-backend/internal/auth"
	"pdv-backend/internal/cache"
	"pdv-backend/internal/config"
	"pdv-backend/internal/database"
	"pdv-backend/internal/db"
	h "pdv-backend/internal/http"
	"pdv-backend/internal/handlers"
	"pdv-backend/internal/health"
	"pdv-backend/internal/metrics"
	"pdv-backend/internal/middleware"
	"pdv-backend/internal/repositories"
	"pdv-backend/internal/sentiment"
	"pdv-backend/internal/services"
	"pdv-backend/internal/storage"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "run database migrations and exit")
	flag.Parse()

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("[DB] %v", err)
	}
	defer pool.Close()
	log.Printf("[DB] Connected to %s on %s:%d", cfg.Database.Name, cfg.Database.Host, cfg.Database.Port)

	if err := database.NewMigrator(pool).RunMigrations(ctx); err != nil {
		log.Fatalf("[Migrator] %v", err)
	}
	if *migrateOnly {
		return
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(reg)
	conn := db.Instrument(pool, m.DBQueryDuration)

	// Redis is optional: without it sentiment answers are simply not cached
	var redisCache *cache.Cache
	if cfg.Redis.Addr != "" {
		redisCache, err = cache.New(ctx, cfg.Redis.Addr, cfg.Redis.Password)
		if err != nil {
			log.Printf("[Redis] Unavailable at %s, continuing without cache: %v", cfg.Redis.Addr, err)
		} else {
			log.Printf("[Redis] Connected to %s", cfg.Redis.Addr)
			defer redisCache.Close()
		}
	}

	archive, err := storage.NewArchive(ctx, cfg)
	if err != nil {
		log.Printf("[Storage] Archive disabled: %v", err)
	}

	summarizer := sentiment.NewCached(
		sentiment.NewOpenAI(cfg),
		redisCache,
		time.Duration(cfg.Redis.SentimentTTLMin)*time.Minute,
	)
	if cfg.OpenAI.APIKey == "" {
		log.Println("[Sentiment] OPENAI_API_KEY not set, analyses will use fallback records")
	}

	// Repositories
	userRepo := repositories.NewUserRepository(conn)
	activityRepo := repositories.NewActivityRepository(conn)
	customerRepo := repositories.NewCustomerRepository(conn)

	// Services
	jwtManager := auth.NewJWTManager(cfg)
	userService := services.NewUserService(userRepo, jwtManager)
	activityService := services.NewActivityService(activityRepo)
	customerService := services.NewCustomerService(customerRepo, cfg.Server.PageSize, m)
	externalService := services.NewExternalService(
		activityRepo,
		customerRepo,
		sentiment.NewAnalyzer(summarizer, m),
		archive,
		m,
	)

	loginLimiter := middleware.NewRateLimiter(1, 5)
	externalLimiter := middleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)
	go loginLimiter.Janitor(ctx)
	go externalLimiter.Janitor(ctx)

	router := h.NewRouter(h.Handlers{
		Auth:       handlers.NewAuthHandler(userService),
		Activities: handlers.NewActivityHandler(activityService),
		Customers:  handlers.NewCustomerHandler(customerService),
		External:   handlers.NewExternalHandler(externalService),
		Health:     handlers.NewHealthHandler(health.NewHealthChecker(pool, redisCache)),
	}, h.Options{
		Auth:            middleware.NewAuthMiddleware(jwtManager),
		ExternalAPIKey:  cfg.External.APIKey,
		LoginLimiter:    loginLimiter,
		ExternalLimiter: externalLimiter,
		Metrics:         m,
		Gatherer:        reg,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           middleware.NewCORS(cfg)(router),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// LLM calls run inside the request
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  2 * time.Minute,
	}

	go func() {
		log.Printf("Server running on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}
