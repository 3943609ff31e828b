package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"qero-match/internal/config"
	"qero-match/internal/db"
	apihttp "qero-match/internal/http"
	"qero-match/internal/llm"
	"qero-match/internal/notify"
	"qero-match/internal/repository"
	"qero-match/internal/service"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	contactRepo := repository.NewPgContactRepository(pool)
	roleRepo := repository.NewPgRoleRepository(pool)
	candidateRepo := repository.NewPgCandidateRepository(pool)

	var llmClient llm.LLMClient = llm.NewDisabledClient("LLM_API_KEY not configured")
	if cfg.LLMAPIKey != "" {
		llmClient = llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, logger)
	} else {
		logger.Warn("llm api key not configured, ai method will fail explicitly")
	}
	aiScorer := service.NewAIScorer(llmClient, logger)

	var (
		matchCache  service.MatchCache
		aiLimiter   service.AIRateLimiter
		redisClient *redis.Client
	)
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, running without cache and rate limiter", zap.Error(err))
		} else {
			matchCache = service.NewRedisMatchCache(redisClient)
			aiLimiter = service.NewRedisAIRateLimiter(redisClient, time.Duration(cfg.AIRateWindowSeconds)*time.Second, cfg.AIRateMax)
		}
		cancel()
	}

	matchSvc := service.NewMatchService(
		logger,
		contactRepo,
		roleRepo,
		candidateRepo,
		aiScorer,
		matchCache,
		aiLimiter,
		service.MatchTimings{
			DBTimeout:  time.Duration(cfg.DBTimeoutSeconds) * time.Second,
			AITimeout:  time.Duration(cfg.AITimeoutSeconds) * time.Second,
			CacheTTL:   time.Duration(cfg.MatchCacheTTLSeconds) * time.Second,
			MaxResults: cfg.MatchMaxResults,
		},
	)

	if matchCache != nil {
		watcher := notify.NewPoolWatcher(pool, logger, matchCache.Clear)
		go watcher.Run(ctx)
	}

	matchHandler := apihttp.NewMatchHandler(logger, matchSvc)
	directoryHandler := apihttp.NewDirectoryHandler(logger, roleRepo, contactRepo)
	router := apihttp.NewRouter(logger, matchHandler, directoryHandler, func(ctx context.Context) error {
		return db.Ping(ctx, pool)
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
