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
	"github.com/joho/godotenv"
	"github.com/yeremiapane/table-ordering/cache"
	"github.com/yeremiapane/table-ordering/config"
	"github.com/yeremiapane/table-ordering/database"
	"github.com/yeremiapane/table-ordering/events"
	"github.com/yeremiapane/table-ordering/router"
	"github.com/yeremiapane/table-ordering/services"
	"github.com/yeremiapane/table-ordering/utils"
)

func init() {
	utils.InitLogger()

	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Printf("Warning: .env file not found or error loading: %v", err)
	}
}

func newPublisher(cfg config.Config) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		utils.InfoLogger.Println("KAFKA_BROKERS not set, events go to the log")
		return events.NewLogPublisher(utils.InfoLogger)
	}
	utils.InfoLogger.WithField("brokers", cfg.KafkaBrokers).Info("publishing events to kafka")
	return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
}

func main() {
	cfg := config.Load()
	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}

	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	go tokens.RunJanitor(ctx, time.Hour)

	accounts := services.NewAccountService(db, tokens)
	if err := accounts.EnsureSuperAdmin(ctx, cfg.SuperAdminEmail, cfg.SuperAdminPassword); err != nil {
		utils.ErrorLogger.Fatalf("Failed to bootstrap superadmin: %v", err)
	}

	var pageCache cache.PageCache = cache.NopCache{}
	rdb, err := config.InitRedis(ctx, cfg)
	if err != nil {
		utils.ErrorLogger.Printf("Redis unavailable, page cache disabled: %v", err)
	} else if rdb != nil {
		defer rdb.Close()
		pageCache = cache.NewRedisPageCache(rdb, cfg.PageCacheTTL)
	}

	publisher := newPublisher(cfg)
	defer publisher.Close()

	relay := services.NewEventRelay(db, publisher)
	relay.Interval = cfg.OutboxInterval
	relay.BatchSize = cfg.OutboxBatch
	relay.Start(ctx)
	defer relay.Stop()

	r := router.SetupRouter(router.Dependencies{
		DB:     db,
		Tokens: tokens,
		Cache:  pageCache,
		Config: cfg,
	})
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		utils.ErrorLogger.Printf("trusted proxies: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	<-ctx.Done()
	utils.InfoLogger.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.ErrorLogger.Printf("Server shutdown: %v", err)
	}
}
