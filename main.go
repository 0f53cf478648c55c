package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/solargrid/solargrid-web/handlers"
	"github.com/solargrid/solargrid-web/internal/apiclient"
	"github.com/solargrid/solargrid-web/internal/config"
	"github.com/solargrid/solargrid-web/internal/database"
	"github.com/solargrid/solargrid-web/internal/session"
	"github.com/solargrid/solargrid-web/pkg/logger"
	"github.com/solargrid/solargrid-web/pkg/metrics"
	"github.com/solargrid/solargrid-web/pkg/middleware"
	"go.mongodb.org/mongo-driver/mongo"
)

var startTime = time.Now()

func main() {
	// LOG_LEVEL: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: backend=%s store=%s redis=%v mongo=%v", cfg.Backend.URL, cfg.Session.Store, cfg.Redis.Host != "", cfg.MongoDB.URI != "")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var rdb *redis.Client
	if cfg.Redis.Host != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr(), Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s): %v", cfg.Redis.Addr(), err)
		} else {
			logger.Infof("connected to Redis: %s", cfg.Redis.Addr())
		}
		defer func() { _ = rdb.Close() }()
	}

	var mongoClient *mongo.Client
	var repo session.Repository
	switch cfg.Session.Store {
	case config.StoreRedis:
		repo = session.NewRedisRepository(rdb, "", cfg.Session.TTL)
	case config.StoreMongo:
		mongoClient, err = database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5)
		if err != nil {
			logger.Fatalf("session store unavailable: %v", err)
		}
		defer func() { _ = mongoClient.Disconnect(context.Background()) }()
		col := mongoClient.Database(cfg.MongoDB.Database).Collection(cfg.MongoDB.Collection)
		if err := database.EnsureSessionIndexes(ctx, col, cfg.Session.TTL); err != nil {
			logger.Warnf("%v", err)
		}
		repo = session.NewMongoRepository(col)
	default:
		repo = session.NewMemoryRepository()
	}
	logger.Infof("using %s session store", cfg.Session.Store)

	opts := []apiclient.Option{apiclient.WithTimeout(cfg.Backend.Timeout)}
	if cfg.Session.ClearOnUnauthorized {
		opts = append(opts, apiclient.WithResponseHook(apiclient.ClearSessionOnUnauthorized()))
	}
	client := apiclient.New(cfg.Backend.URL, opts...)

	var limiter gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			limiter = middleware.RedisRateLimitMiddleware(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win)
		} else {
			limiter = middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		}
	}

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// ready only when the configured session store can be reached
	r.GET("/ready", func(c *gin.Context) {
		pctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		deps := map[string]bool{"sessions": true}
		switch cfg.Session.Store {
		case config.StoreRedis:
			deps["sessions"] = rdb.Ping(pctx).Err() == nil
		case config.StoreMongo:
			deps["sessions"] = mongoClient.Ping(pctx, nil) == nil
		}
		if cfg.RateLimit.Enabled && cfg.RateLimit.UseRedis {
			deps["redis"] = rdb.Ping(pctx).Err() == nil
		}
		status, code := "ready", http.StatusOK
		for _, ok := range deps {
			if !ok {
				status, code = "not_ready", http.StatusServiceUnavailable
			}
		}
		c.JSON(code, gin.H{"status": status, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.RegisterSwagger(r)

	handlers.NewHandler(client).Register(r, handlers.RouterConfig{
		Repository: repo,
		Cookie: middleware.CookieOptions{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.CookieSecure,
		},
		AuthLimiter: limiter,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("starting solargrid web on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
}
