package database

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Jm141/Sts-mobile-app-trackademia/common/config"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

// NewDB 按配置的驱动创建数据库连接（postgres 或 mysql）
func NewDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	driver := cfg.DriverName()

	var dsn string
	switch driver {
	case config.DriverPostgres:
		dsn = cfg.GetDSN()
	case config.DriverMySQL:
		dsn = MySQLDSN(cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// 设置连接池参数
	if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.MaxConns)
	}
	if cfg.MaxIdle > 0 {
		db.SetMaxIdleConns(cfg.MaxIdle)
	}

	// 测试连接
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// MySQLDSN 生成 MySQL DSN
// time_scan 需要解析为 time.Time，因此强制 parseTime；会话时区固定 UTC（与扫描设备写入一致）
func MySQLDSN(cfg *config.DatabaseConfig) string {
	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	mc.DBName = cfg.Database
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.Collation = "utf8mb4_unicode_ci"
	mc.Params = map[string]string{
		"time_zone": "'+00:00'",
	}
	return mc.FormatDSN()
}

// Rebind 将 `?` 占位符转换为驱动需要的格式
// postgres 使用 $1, $2 ...；mysql 保持 `?`
func Rebind(driver string, query string) string {
	if driver != config.DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// Close 关闭数据库连接
func Close(db *sql.DB) error {
	if db != nil {
		return db.Close()
	}
	return nil
}
