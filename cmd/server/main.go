package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dbmconsole/dbmconsole/api/handler"
	"github.com/dbmconsole/dbmconsole/api/router"
	"github.com/dbmconsole/dbmconsole/internal/config"
	"github.com/dbmconsole/dbmconsole/internal/database"
	"github.com/dbmconsole/dbmconsole/internal/service"
	"github.com/dbmconsole/dbmconsole/pkg/dbresource"
	"github.com/dbmconsole/dbmconsole/pkg/logger"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	path := strings.TrimSpace(os.Getenv(config.EnvPrefix + "_CONFIG"))
	if path == "" {
		path = defaultConfigPath
	}

	// 加载配置
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	if err := initLogger(cfg); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	logger.Info("Starting DBM Console Server", "version", "1.0.0", "upstream", cfg.Upstream.BaseURL)

	// 审计库
	var audits *service.AuditService
	var dbCheck func() error
	if cfg.Audit.Enabled {
		if err := database.InitSQLite(cfg.Database.SQLite); err != nil {
			logger.Fatal("Failed to initialize database", "error", err)
		}
		defer database.Close()
		dbCheck = database.Health
	}
	audits = service.NewAuditService(database.GetDB(), cfg.Audit)

	client := dbresource.New(dbresource.Config{
		BaseURL: cfg.Upstream.BaseURL,
		Timeout: cfg.Upstream.Timeout,
		Headers: cfg.Upstream.Headers,
	})
	resources := service.NewResourceService(client, audits)
	exports := service.NewExportService(client, service.NewStorageWriter(cfg), cfg.Export, audits)

	r := router.SetupRouter(router.Deps{
		Mode:      cfg.Server.Mode,
		Resources: resources,
		Exports:   exports,
		Audits:    audits,
		Forwarder: handler.NewForwarder(cfg.Upstream.ForwardHeaders),
		DBCheck:   dbCheck,
	})

	server := &http.Server{
		Addr:           cfg.GetServerAddr(),
		Handler:        r,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	go func() {
		logger.Info("Server starting", "addr", server.Addr, "mode", cfg.Server.Mode)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	stopWatch := watchConfig(path)
	defer stopWatch()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	} else {
		logger.Info("Server shutdown complete")
	}
}

func initLogger(cfg *config.Config) error {
	return logger.Init(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		FilePath:   cfg.Log.FilePath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	})
}

// watchConfig 配置文件变更后重新加载；只有日志配置即时生效，
// 监听地址、后台地址与存储配置需要重启
func watchConfig(path string) func() {
	stop, err := watchFile(path, 300*time.Millisecond, func() {
		newCfg, err := config.Load(path)
		if err != nil {
			logger.Warn("Config reload failed", "error", err)
			return
		}
		if err := initLogger(newCfg); err != nil {
			logger.Warn("Logger reload failed", "error", err)
		}
		logger.Info("Config reloaded", "path", path)
	})
	if err != nil {
		logger.Warn("Config watch init failed", "path", path, "error", err)
		return func() {}
	}
	return stop
}

// watchFile 监听文件所在目录并按文件名过滤事件，编辑器以 rename 方式保存后仍能继续收到变更
func watchFile(path string, delay time.Duration, onChange func()) (func(), error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		var debounce *time.Timer
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					if debounce != nil {
						debounce.Stop()
					}
					debounce = time.AfterFunc(delay, onChange)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Config watch error", "error", err)
			case <-done:
				if debounce != nil {
					debounce.Stop()
				}
				return
			}
		}
	}()
	return func() {
		close(done)
		_ = watcher.Close()
	}, nil
}
