package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dbmconsole/dbmconsole/internal/config"
	"github.com/dbmconsole/dbmconsole/internal/model"
	"github.com/dbmconsole/dbmconsole/pkg/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

var db *gorm.DB

// InitSQLite 初始化SQLite数据库并设置为全局实例
func InitSQLite(cfg config.SQLiteConfig) error {
	conn, err := Open(cfg)
	if err != nil {
		return err
	}
	db = conn
	logger.Info("SQLite database initialized successfully", "path", cfg.Path)
	return nil
}

// Open 打开数据库并完成迁移，不修改全局实例
func Open(cfg config.SQLiteConfig) (*gorm.DB, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	gormConfig := &gorm.Config{
		Logger: gormLogger.New(
			sqlLogWriter{},
			gormLogger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  parseLogLevel(cfg.LogLevel),
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
		// 审计写入均为单条插入，无需默认事务
		SkipDefaultTransaction: true,
	}

	dsn := cfg.Path + "?_pragma=busy_timeout(15000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	conn, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        dsn,
	}, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	// 单连接，保证 PRAGMA 生效并避免写锁争用
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := autoMigrate(conn); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to auto migrate: %w", err)
	}
	return conn, nil
}

// sqlLogWriter 每次写入时取当前全局日志实例，日志配置热更新后 SQL 日志随之切换
type sqlLogWriter struct{}

func (sqlLogWriter) Printf(format string, args ...interface{}) {
	logger.GetLogger().Printf(format, args...)
}

func autoMigrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&model.ResourceAudit{},
	)
}

func parseLogLevel(s string) gormLogger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "silent":
		return gormLogger.Silent
	case "error":
		return gormLogger.Error
	case "info":
		return gormLogger.Info
	default:
		return gormLogger.Warn
	}
}

// GetDB 获取数据库实例
func GetDB() *gorm.DB {
	return db
}

// IsBusyError 判断是否为 SQLite 并发锁相关错误
func IsBusyError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "sqlite_busy") ||
		strings.Contains(msg, "cannot start a transaction within a transaction")
}

// WithRetry 在检测到并发锁错误时短暂退避重试
func WithRetry(conn *gorm.DB, fn func(*gorm.DB) error, attempts int, sleep time.Duration) error {
	if attempts < 1 {
		attempts = 1
	}
	if sleep <= 0 {
		sleep = 50 * time.Millisecond
	}
	var err error
	for i := 0; i < attempts; i++ {
		err = fn(conn)
		if err == nil {
			return nil
		}
		if !IsBusyError(err) {
			return err
		}
		time.Sleep(sleep)
		if sleep < 500*time.Millisecond {
			sleep *= 2
		}
	}
	return err
}

// Close 关闭数据库连接
func Close() error {
	if db != nil {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}

// Health 检查数据库健康状态
func Health() error {
	if db == nil {
		return fmt.Errorf("database not initialized")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
