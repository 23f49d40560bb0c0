package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"devicehub-api/internal/chat"
	"devicehub-api/internal/config"
	"devicehub-api/internal/handlers"
	httpx "devicehub-api/internal/http"
	"devicehub-api/internal/repo"
	"devicehub-api/internal/service"
	"devicehub-api/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	// ロガー初期化
	if cfg.Env == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, _ := logrus.ParseLevel(cfg.LogLevel) // Loadで検証済み
	logrus.SetLevel(level)

	// MySQL接続
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		logrus.Fatalf("failed to connect to mysql: %v", err)
	}
	if err := repo.Migrate(db); err != nil {
		logrus.Fatalf("failed to migrate database: %v", err)
	}
	logrus.Info("connected to mysql")

	// Redis接続
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		PoolSize:     10,
		MinIdleConns: 5,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logrus.Fatalf("failed to connect to redis: %v", err)
	}
	logrus.Info("connected to redis")

	// リポジトリ
	roomRepo := repo.NewGormRoomRepo(db)
	userRepo := repo.NewGormUserRepo(db)
	deviceRepo := repo.NewGormDeviceRepo(db)
	productRepo := repo.NewGormProductRepo(db)
	feedbackRepo := repo.NewGormFeedbackRepo(db)
	activityRepo := repo.NewGormActivityRepo(db)
	tokenCache := repo.NewRedisTokenCache(rdb, cfg.JWTExpiry)

	// バックグラウンドワーカー
	redisOpt := asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}
	queue := asynq.NewClient(redisOpt)
	defer queue.Close()
	wk := worker.New(redisOpt, deviceRepo)
	if err := wk.Start(); err != nil {
		logrus.Fatalf("failed to start worker: %v", err)
	}

	// サービス
	authSvc, err := service.NewAuthService(userRepo, tokenCache, cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		logrus.Fatalf("failed to init auth service: %v", err)
	}
	roomSvc := service.NewRoomService(roomRepo, userRepo)
	deviceSvc := service.NewDeviceService(deviceRepo, productRepo)
	feedSvc := service.NewFeedbackService(feedbackRepo, activityRepo, queue)

	// チャットGateway: ルーム取得はRoomService、認証はAuthService、中継はRedis
	gateway := chat.NewGateway(roomSvc, authSvc, chat.NewRedisBus(rdb))
	busCtx, busCancel := context.WithCancel(context.Background())
	defer busCancel()
	go func() {
		if err := gateway.Run(busCtx); err != nil {
			logrus.Fatalf("gateway bus subscription failed: %v", err)
		}
	}()

	router := httpx.NewRouter(httpx.Deps{
		Auth:     authSvc,
		AuthH:    handlers.NewAuthHandler(authSvc),
		UserH:    handlers.NewUserHandler(authSvc),
		RoomH:    handlers.NewRoomHandler(roomSvc),
		DeviceH:  handlers.NewDeviceHandler(deviceSvc),
		ProductH: handlers.NewProductHandler(deviceSvc),
		FeedH:    handlers.NewFeedbackHandler(feedSvc),
		ActH:     handlers.NewActivityHandler(feedSvc),
		Gateway:  gateway,
	}, cfg.AllowedOrigin)

	srv := &http.Server{
		Addr:              cfg.APIAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Graceful shutdown用のシグナルチャネル
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// サーバーを別goroutineで起動
	go func() {
		logrus.Infof("listening on %s (%s)", cfg.APIAddr, cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("server error: %v", err)
		}
	}()

	// シャットダウンシグナルを待つ
	<-sigChan
	logrus.Info("shutdown signal received, shutting down gracefully...")

	wk.Shutdown()
	busCancel()

	// 30秒のタイムアウトでGraceful Shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("server shutdown error: %v", err)
	}

	logrus.Info("server stopped")
}
