package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/Jm141/Sts-mobile-app-trackademia/common/database"
	logpkg "github.com/Jm141/Sts-mobile-app-trackademia/common/logger"
	mqttcommon "github.com/Jm141/Sts-mobile-app-trackademia/common/mqtt"
	rediscommon "github.com/Jm141/Sts-mobile-app-trackademia/common/redis"
	"github.com/Jm141/Sts-mobile-app-trackademia/internal/config"
	httpapi "github.com/Jm141/Sts-mobile-app-trackademia/internal/http"
	fencemqtt "github.com/Jm141/Sts-mobile-app-trackademia/internal/mqtt"
	"github.com/Jm141/Sts-mobile-app-trackademia/internal/repository"
	"github.com/Jm141/Sts-mobile-app-trackademia/internal/service"
	"github.com/Jm141/Sts-mobile-app-trackademia/internal/store"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化Logger
	logger, err := logpkg.NewLogger(cfg.Log.Level, cfg.Log.Format, "trackademia-api")
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting trackademia-api",
		zap.String("db_driver", cfg.Database.DriverName()),
		zap.Int("window_seconds", cfg.Attendance.WindowSeconds),
		zap.String("timezone", cfg.Attendance.Timezone),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
		zap.Bool("mqtt_enabled", cfg.MQTT.Enabled),
	)

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	// Redis 可选：窗口缓存 + 围栏事件队列
	var redisClient *redis.Client
	var kv store.KV
	if cfg.Redis.Enabled {
		redisClient, err = rediscommon.Connect(context.Background(), &cfg.Redis.RedisConfig)
		if err != nil {
			logger.Warn("Redis enabled but unreachable, continuing without cache and queue", zap.Error(err))
		} else {
			kv = store.NewRedisKV(redisClient)
			defer rediscommon.Close(redisClient)
		}
	}

	driver := cfg.Database.DriverName()
	scanRepo := repository.NewScanRepository(db, driver, logger)
	fenceRepo := repository.NewFenceEventRepository(db, driver)

	attendanceService := service.NewAttendanceService(scanRepo, kv, service.AttendanceOptions{
		WindowLength: cfg.WindowLength(),
		Location:     cfg.Location(),
		CacheTTL:     cfg.CacheTTL(),
	}, logger)
	fenceService := service.NewFenceService(fenceRepo, redisClient, cfg.Fence.EventStream, logger)

	router := httpapi.NewRouter(logger)
	router.RegisterHealthRoutes()
	router.RegisterAttendanceRoutes(httpapi.NewAttendanceHandler(attendanceService, logger))
	router.RegisterFenceRoutes(httpapi.NewFenceHandler(fenceService, logger))

	// MQTT 围栏事件入口
	if cfg.MQTT.Enabled {
		mqttClient, err := mqttcommon.NewClient(&cfg.MQTT.MQTTConfig, logger)
		if err != nil {
			logger.Fatal("Failed to connect to MQTT broker", zap.Error(err))
		}

		broker := fencemqtt.NewFenceMQTTBroker(fenceService, logger)
		if err := mqttClient.Subscribe(cfg.MQTT.FenceTopic, cfg.MQTT.QoS, broker.HandleMessage); err != nil {
			logger.Fatal("Failed to subscribe fence topic", zap.Error(err))
		}
		logger.Info("Subscribed fence topic",
			zap.String("topic", cfg.MQTT.FenceTopic),
			zap.Bool("connected", mqttClient.IsConnected()),
		)
		defer func() {
			if err := mqttClient.Unsubscribe(cfg.MQTT.FenceTopic); err != nil {
				logger.Warn("Failed to unsubscribe fence topic", zap.Error(err))
			}
			mqttClient.Disconnect()
		}()
	}

	srv := service.NewServer(cfg.HTTP.Addr, httpapi.Chain(router, cfg.CORS.AllowedOrigins, logger), cfg.ShutdownTimeout(), logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := srv.Run(ctx, nil); err != nil {
		logger.Error("HTTP server exited with error", zap.Error(err))
	}

	logger.Info("Service stopped")
}
