package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，例如 DBM_CONSOLE_UPSTREAM_BASE_URL
const EnvPrefix = "DBM_CONSOLE"

// Config 应用配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Export   ExportConfig   `mapstructure:"export"`
	Audit    AuditConfig    `mapstructure:"audit"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// UpstreamConfig DBM 后台（dbresource 接口）配置
type UpstreamConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	// Headers 每次请求都携带的头，例如租户 ID、鉴权 token
	Headers map[string]string `mapstructure:"headers"`
	// ForwardHeaders 从网关入站请求透传到后台的头
	ForwardHeaders []string `mapstructure:"forward_headers"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	SQLite SQLiteConfig `mapstructure:"sqlite"`
}

// SQLiteConfig SQLite配置
type SQLiteConfig struct {
	Path            string        `mapstructure:"path"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	LogLevel        string        `mapstructure:"log_level"`
}

// StorageConfig 对象存储配置
type StorageConfig struct {
	Minio MinioConfig `mapstructure:"minio"`
}

// MinioConfig MinIO 配置
type MinioConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	Secure    bool   `mapstructure:"secure"`
}

// ExportConfig 资源池导出配置
type ExportConfig struct {
	// StorageBackend 默认存储后端：local | minio
	StorageBackend string            `mapstructure:"storage_backend"`
	Prefix         string            `mapstructure:"prefix"`
	Local          LocalExportConfig `mapstructure:"local"`
	PageSize       int               `mapstructure:"page_size"`
	Concurrency    int               `mapstructure:"concurrency"`
	// Format csv | json
	Format string `mapstructure:"format"`
	// Encoding utf-8 | gbk，仅对 csv 生效
	Encoding string `mapstructure:"encoding"`
}

// LocalExportConfig 本地导出目录
type LocalExportConfig struct {
	BaseDir        string `mapstructure:"base_dir"`
	MkdirIfMissing bool   `mapstructure:"mkdir_if_missing"`
}

// AuditConfig 操作审计配置
type AuditConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// RetryAttempts SQLite 忙时写入重试次数
	RetryAttempts int `mapstructure:"retry_attempts"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

var (
	mu           sync.RWMutex
	globalConfig *Config
)

// Load 加载配置文件；configPath 为空时按默认目录查找 config.yaml
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath("../../configs")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// 未显式指定路径且找不到文件时，仅使用默认值与环境变量
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Upstream.Headers = expandEnvValues(cfg.Upstream.Headers)
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	Set(&cfg)
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)

	v.SetDefault("upstream.base_url", "http://127.0.0.1:8000")
	v.SetDefault("upstream.timeout", 30*time.Second)
	v.SetDefault("upstream.forward_headers", []string{"X-Bk-Tenant-Id", "Cookie", "X-CSRFToken"})

	v.SetDefault("database.sqlite.path", "./data/dbm-console.db")
	v.SetDefault("database.sqlite.conn_max_lifetime", time.Hour)
	v.SetDefault("database.sqlite.log_level", "warn")

	v.SetDefault("export.storage_backend", "local")
	v.SetDefault("export.prefix", "resource-exports")
	v.SetDefault("export.local.base_dir", "./data/exports")
	v.SetDefault("export.local.mkdir_if_missing", true)
	v.SetDefault("export.page_size", 200)
	v.SetDefault("export.concurrency", 4)
	v.SetDefault("export.format", "csv")
	v.SetDefault("export.encoding", "utf-8")

	v.SetDefault("audit.enabled", true)
	v.SetDefault("audit.retry_attempts", 3)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "console")
	v.SetDefault("log.file_path", "./logs/dbm-console.log")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age", 30)
}

// normalize 统一大小写与去除首尾空格
func (c *Config) normalize() {
	c.Upstream.BaseURL = strings.TrimRight(strings.TrimSpace(c.Upstream.BaseURL), "/")
	c.Export.StorageBackend = strings.ToLower(strings.TrimSpace(c.Export.StorageBackend))
	c.Export.Format = strings.ToLower(strings.TrimSpace(c.Export.Format))
	c.Export.Encoding = strings.ToLower(strings.TrimSpace(c.Export.Encoding))
	if c.Export.PageSize <= 0 {
		c.Export.PageSize = 200
	}
	if c.Export.Concurrency <= 0 {
		c.Export.Concurrency = 1
	}
}

// Validate 校验取值范围
func (c *Config) Validate() error {
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("upstream.base_url is required")
	}
	switch c.Export.StorageBackend {
	case "local", "minio":
	default:
		return fmt.Errorf("export.storage_backend must be local or minio, got %q", c.Export.StorageBackend)
	}
	switch c.Export.Format {
	case "csv", "json":
	default:
		return fmt.Errorf("export.format must be csv or json, got %q", c.Export.Format)
	}
	switch c.Export.Encoding {
	case "utf-8", "utf8", "gbk":
	default:
		return fmt.Errorf("export.encoding must be utf-8 or gbk, got %q", c.Export.Encoding)
	}
	return nil
}

// expandEnvValues 展开 ${VAR} 形式的头部取值
func expandEnvValues(in map[string]string) map[string]string {
	if len(in) == 0 {
		return in
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		if strings.HasPrefix(v, "${") && strings.HasSuffix(v, "}") {
			if val := os.Getenv(strings.TrimSuffix(strings.TrimPrefix(v, "${"), "}")); val != "" {
				v = val
			}
		}
		out[k] = v
	}
	return out
}

// Get 获取全局配置
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	return globalConfig
}

// Set 替换全局配置（热加载时使用）
func Set(cfg *Config) {
	mu.Lock()
	globalConfig = cfg
	mu.Unlock()
}

// GetServerAddr 获取服务器地址
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
