package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	log *logrus.Logger
	mu  sync.RWMutex
)

// Config 日志配置
type Config struct {
	Level      string `json:"level"`
	Format     string `json:"format"`
	Output     string `json:"output"`
	FilePath   string `json:"file_path"`
	MaxSize    int    `json:"max_size"`
	MaxBackups int    `json:"max_backups"`
	MaxAge     int    `json:"max_age"`
	Compress   bool   `json:"compress"`
}

// Init 初始化日志（可重复调用，配置热更新时会替换全局实例）
func Init(config Config) error {
	l, err := New(config)
	if err != nil {
		return err
	}
	mu.Lock()
	log = l
	mu.Unlock()
	return nil
}

// New 按配置构造独立的日志实例
func New(config Config) (*logrus.Logger, error) {
	l := logrus.New()

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if config.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat:   "2006-01-02 15:04:05",
			DisableHTMLEscape: true,
		})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	var writers []io.Writer
	output := config.Output
	if output == "" {
		output = "console"
	}

	if output == "console" || output == "both" {
		writers = append(writers, os.Stdout)
	}

	if output == "file" || output == "both" {
		if config.FilePath == "" {
			return nil, fmt.Errorf("log file_path is required for output %q", output)
		}
		if err := os.MkdirAll(filepath.Dir(config.FilePath), 0755); err != nil {
			return nil, err
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   config.FilePath,
			MaxSize:    config.MaxSize,
			MaxBackups: config.MaxBackups,
			MaxAge:     config.MaxAge,
			Compress:   config.Compress,
		})
	}

	if len(writers) > 0 {
		l.SetOutput(io.MultiWriter(writers...))
	}
	return l, nil
}

// GetLogger 获取日志实例
func GetLogger() *logrus.Logger {
	mu.RLock()
	l := log
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if log == nil {
		log = logrus.New()
	}
	return log
}

// SetOutput 替换输出（测试中用于捕获日志）
func SetOutput(w io.Writer) {
	GetLogger().SetOutput(w)
}

// entry 将 "key", value 交替排列的参数转换为 logrus 字段
func entry(kv []interface{}) *logrus.Entry {
	return GetLogger().WithFields(Fields(kv...))
}

// Fields 将键值对参数转换为 logrus.Fields，奇数个参数时最后一个记为 "extra"
func Fields(kv ...interface{}) logrus.Fields {
	fields := logrus.Fields{}
	for i := 0; i < len(kv); i += 2 {
		if i+1 >= len(kv) {
			fields["extra"] = kv[i]
			break
		}
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		fields[key] = kv[i+1]
	}
	return fields
}

// Debug 调试日志
func Debug(msg string, kv ...interface{}) {
	entry(kv).Debug(msg)
}

// Debugf 格式化调试日志
func Debugf(format string, args ...interface{}) {
	GetLogger().Debugf(format, args...)
}

// Info 信息日志
func Info(msg string, kv ...interface{}) {
	entry(kv).Info(msg)
}

// Infof 格式化信息日志
func Infof(format string, args ...interface{}) {
	GetLogger().Infof(format, args...)
}

// Warn 警告日志
func Warn(msg string, kv ...interface{}) {
	entry(kv).Warn(msg)
}

// Warnf 格式化警告日志
func Warnf(format string, args ...interface{}) {
	GetLogger().Warnf(format, args...)
}

// Error 错误日志
func Error(msg string, kv ...interface{}) {
	entry(kv).Error(msg)
}

// Errorf 格式化错误日志
func Errorf(format string, args ...interface{}) {
	GetLogger().Errorf(format, args...)
}

// Fatal 致命错误日志
func Fatal(msg string, kv ...interface{}) {
	entry(kv).Fatal(msg)
}

// WithField 添加字段
func WithField(key string, value interface{}) *logrus.Entry {
	return GetLogger().WithField(key, value)
}

// WithFields 添加多个字段
func WithFields(fields logrus.Fields) *logrus.Entry {
	return GetLogger().WithFields(fields)
}
