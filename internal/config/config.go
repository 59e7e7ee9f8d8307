package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // 容器镜像可能没有 zoneinfo

	commoncfg "github.com/Jm141/Sts-mobile-app-trackademia/common/config"

	"github.com/joho/godotenv"
)

// Config trackademia-api（HTTP API）配置
type Config struct {
	HTTP struct {
		Addr            string
		ShutdownSeconds int // 优雅停机等待时长（秒）
	}
	Database commoncfg.DatabaseConfig
	Redis    struct {
		Enabled bool
		commoncfg.RedisConfig
	}
	Log struct {
		Level  string
		Format string
	}

	// 考勤会话重建策略
	Attendance struct {
		WindowSeconds   int    // 会话窗口长度（秒），默认 3600
		Timezone        string // 计算 "今天" 使用的时区，默认 UTC
		CacheTTLSeconds int    // 历史日期窗口缓存 TTL（秒），0 表示不缓存
	}

	// 电子围栏事件
	Fence struct {
		EventStream string // Redis Stream 名称，空值表示不发布
	}

	MQTT struct {
		Enabled bool
		commoncfg.MQTTConfig
		FenceTopic string
	}

	CORS struct {
		AllowedOrigins []string
	}
}

// Load 加载配置
// 优先读取当前目录的 .env（不存在则忽略），再从环境变量填充默认值
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")
	cfg.HTTP.ShutdownSeconds = parseInt(getEnv("HTTP_SHUTDOWN_SECONDS", "5"), 5)

	// 先填默认值，再由 common/config 的 LoadFromEnv 覆盖
	cfg.Database = commoncfg.DatabaseConfig{
		Driver:   getEnv("DB_DRIVER", commoncfg.DriverPostgres),
		Host:     "localhost",
		User:     "postgres",
		Password: "postgres",
		Database: "trackademia",
		SSLMode:  "disable",
		MaxConns: 10,
		MaxIdle:  5,
	}
	cfg.Database.Port = parseInt(defaultDBPort(cfg.Database.Driver), 5432)
	cfg.Database.LoadFromEnv("DB")

	cfg.Redis.Enabled = getEnv("REDIS_ENABLED", "false") == "true"
	cfg.Redis.RedisConfig = commoncfg.RedisConfig{Addr: "localhost:6379"}
	cfg.Redis.LoadFromEnv("REDIS")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	cfg.Attendance.WindowSeconds = parseInt(getEnv("ATTENDANCE_WINDOW_SECONDS", "3600"), 3600)
	cfg.Attendance.Timezone = getEnv("ATTENDANCE_TIMEZONE", "UTC")
	cfg.Attendance.CacheTTLSeconds = parseInt(getEnv("ATTENDANCE_CACHE_TTL", "300"), 300)

	cfg.Fence.EventStream = getEnv("FENCE_EVENT_STREAM", "fence:events")

	// MQTT 围栏事件入口（默认禁用）
	cfg.MQTT.Enabled = getEnv("MQTT_ENABLED", "false") == "true"
	cfg.MQTT.MQTTConfig = commoncfg.MQTTConfig{
		Broker:   "tcp://localhost:1883",
		ClientID: "trackademia-api",
		QoS:      1,
	}
	cfg.MQTT.LoadFromEnv("MQTT")
	cfg.MQTT.FenceTopic = getEnv("MQTT_FENCE_TOPIC", "trackademia/fence")

	cfg.CORS.AllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", "*"))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 校验配置
func (c *Config) Validate() error {
	switch c.Database.DriverName() {
	case commoncfg.DriverPostgres, commoncfg.DriverMySQL:
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.Database.Driver)
	}
	if c.HTTP.ShutdownSeconds <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_SECONDS must be positive, got %d", c.HTTP.ShutdownSeconds)
	}
	if c.Attendance.WindowSeconds <= 0 {
		return fmt.Errorf("ATTENDANCE_WINDOW_SECONDS must be positive, got %d", c.Attendance.WindowSeconds)
	}
	if c.Attendance.CacheTTLSeconds < 0 {
		return fmt.Errorf("ATTENDANCE_CACHE_TTL must not be negative, got %d", c.Attendance.CacheTTLSeconds)
	}
	if _, err := time.LoadLocation(c.Attendance.Timezone); err != nil {
		return fmt.Errorf("invalid ATTENDANCE_TIMEZONE %q: %w", c.Attendance.Timezone, err)
	}
	if c.MQTT.QoS > 2 {
		return fmt.Errorf("MQTT_QOS must be 0, 1 or 2, got %d", c.MQTT.QoS)
	}
	return nil
}

// ShutdownTimeout HTTP 优雅停机等待时长
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.HTTP.ShutdownSeconds) * time.Second
}

// WindowLength 会话窗口长度
func (c *Config) WindowLength() time.Duration {
	return time.Duration(c.Attendance.WindowSeconds) * time.Second
}

// Location 考勤时区（Validate 之后调用）
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Attendance.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// CacheTTL 历史窗口缓存 TTL
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Attendance.CacheTTLSeconds) * time.Second
}

func defaultDBPort(driver string) string {
	if strings.EqualFold(driver, commoncfg.DriverMySQL) {
		return "3306"
	}
	return "5432"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
