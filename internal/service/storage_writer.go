package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/dbmconsole/dbmconsole/internal/config"
	"github.com/dbmconsole/dbmconsole/pkg/logger"
	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// 存储后端
const (
	BackendLocal = "local"
	BackendMinio = "minio"
)

// StorageWriter 抽象存储写入器
type StorageWriter interface {
	Write(ctx context.Context, meta StorageMeta, data []byte, contentType string) (StoredObject, error)
}

// StorageMeta 写入元数据，对象路径为 prefix/date/export_id/filename
type StorageMeta struct {
	ExportID     string
	Filename     string
	DateYYYYMMDD string
	Backend      string // local|minio
}

// StoredObject 已写入对象
type StoredObject struct {
	URI         string `json:"uri"`
	Backend     string `json:"backend"`
	Size        int64  `json:"size"`
	Checksum    string `json:"checksum"`
	ContentType string `json:"content_type"`
}

// FallbackError MinIO 不可用时已回退写入本地，对象有效但需要告警
type FallbackError struct {
	Cause error
}

func (e *FallbackError) Error() string {
	return fmt.Sprintf("minio unavailable, wrote to local instead: %v", e.Cause)
}

func (e *FallbackError) Unwrap() error { return e.Cause }

// NewStorageWriter 根据配置创建写入器（委派到本地或 MinIO）
func NewStorageWriter(cfg *config.Config) StorageWriter {
	return &DelegatingStorageWriter{
		local: &LocalStorageWriter{cfg: cfg.Export},
		minio: initMinioWriter(cfg.Storage.Minio, cfg.Export.Prefix),
	}
}

// DelegatingStorageWriter 按后端路由写入
type DelegatingStorageWriter struct {
	local *LocalStorageWriter
	minio *MinioStorageWriter
}

func (w *DelegatingStorageWriter) Write(ctx context.Context, meta StorageMeta, data []byte, contentType string) (StoredObject, error) {
	if strings.ToLower(strings.TrimSpace(meta.Backend)) != BackendMinio {
		return w.local.Write(ctx, meta, data, contentType)
	}
	if w.minio == nil {
		logger.Warn("MinIO backend selected but client not initialized; falling back to local", "export_id", meta.ExportID)
		obj, err := w.local.Write(ctx, meta, data, contentType)
		if err != nil {
			return StoredObject{}, fmt.Errorf("minio client not initialized; local fallback failed: %w", err)
		}
		return obj, &FallbackError{Cause: fmt.Errorf("minio client not initialized")}
	}
	obj, err := w.minio.Write(ctx, meta, data, contentType)
	if err != nil {
		logger.Warn("MinIO write failed; falling back to local", "export_id", meta.ExportID, "error", err)
		objLocal, lerr := w.local.Write(ctx, meta, data, contentType)
		if lerr != nil {
			return StoredObject{}, fmt.Errorf("minio write failed: %v; local fallback failed: %w", err, lerr)
		}
		return objLocal, &FallbackError{Cause: err}
	}
	return obj, nil
}

// LocalStorageWriter 本地文件写入
type LocalStorageWriter struct {
	cfg config.ExportConfig
}

func (w *LocalStorageWriter) Write(ctx context.Context, meta StorageMeta, data []byte, contentType string) (StoredObject, error) {
	if err := ctx.Err(); err != nil {
		return StoredObject{}, err
	}
	baseDir := strings.TrimSpace(w.cfg.Local.BaseDir)
	if baseDir == "" {
		baseDir = "./data/exports"
	}
	parts := append([]string{baseDir}, objectDirParts(w.cfg.Prefix, meta)...)
	dirPath := filepath.Join(parts...)

	if w.cfg.Local.MkdirIfMissing {
		if err := os.MkdirAll(dirPath, 0o755); err != nil {
			return StoredObject{}, fmt.Errorf("failed to create dir: %w", err)
		}
	}
	fullPath := filepath.Join(dirPath, slug(meta.Filename))
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return StoredObject{}, fmt.Errorf("failed to write file: %w", err)
	}

	return StoredObject{
		URI:         "file://" + fullPath,
		Backend:     BackendLocal,
		Size:        int64(len(data)),
		Checksum:    checksum(data),
		ContentType: defaultContentType(contentType),
	}, nil
}

// MinioStorageWriter MinIO 对象存储写入
type MinioStorageWriter struct {
	cfg      config.MinioConfig
	prefix   string
	client   *minio.Client
	endpoint string

	mu            sync.Mutex
	bucketEnsured bool
}

// initMinioWriter 初始化 MinIO 写入器，配置不完整时返回 nil
func initMinioWriter(cfg config.MinioConfig, prefix string) *MinioStorageWriter {
	host := strings.TrimSpace(cfg.Host)
	if host == "" || cfg.Port <= 0 {
		logger.Debug("MinIO configuration incomplete; export limited to local backend")
		return nil
	}
	endpoint := fmt.Sprintf("%s:%d", host, cfg.Port)

	transport := &http.Transport{
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		ExpectContinueTimeout: 5 * time.Second,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   20,
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.Secure,
		Transport: transport,
	})
	if err != nil {
		logger.Error("MinIO client initialization failed", "error", err)
		return nil
	}
	return &MinioStorageWriter{cfg: cfg, prefix: prefix, client: client, endpoint: endpoint}
}

// Write 将内容写入 MinIO
func (w *MinioStorageWriter) Write(ctx context.Context, meta StorageMeta, data []byte, contentType string) (StoredObject, error) {
	if w == nil || w.client == nil {
		return StoredObject{}, fmt.Errorf("minio client not initialized")
	}
	bucket := strings.TrimSpace(w.cfg.Bucket)
	if bucket == "" {
		return StoredObject{}, fmt.Errorf("minio bucket not configured")
	}
	if err := w.ensureBucket(ctx, bucket); err != nil {
		return StoredObject{}, fmt.Errorf("minio ensure bucket failed on %s: %w", w.endpoint, err)
	}

	objectName := path.Join(append(objectDirParts(w.prefix, meta), slug(meta.Filename))...)
	ct := defaultContentType(contentType)

	var lastErr error
	for _, wait := range []time.Duration{time.Second, 2 * time.Second, 4 * time.Second} {
		_, err := w.client.PutObject(ctx, bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{ContentType: ct})
		if err == nil {
			lastErr = nil
			break
		}
		lastErr = err
		select {
		case <-ctx.Done():
			return StoredObject{}, ctx.Err()
		case <-time.After(wait):
		}
	}
	if lastErr != nil {
		return StoredObject{}, fmt.Errorf("minio put object failed after retries: %w", lastErr)
	}

	return StoredObject{
		URI:         "minio://" + path.Join(bucket, objectName),
		Backend:     BackendMinio,
		Size:        int64(len(data)),
		Checksum:    checksum(data),
		ContentType: ct,
	}, nil
}

// ensureBucket 校验并按需创建 bucket，成功后不再重复检查
func (w *MinioStorageWriter) ensureBucket(ctx context.Context, bucket string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.bucketEnsured {
		return nil
	}
	exists, err := w.client.BucketExists(ctx, bucket)
	if err != nil {
		return err
	}
	if !exists {
		if err := w.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return err
		}
	}
	w.bucketEnsured = true
	return nil
}

func objectDirParts(prefix string, meta StorageMeta) []string {
	var parts []string
	if p := strings.Trim(strings.TrimSpace(prefix), "/"); p != "" {
		parts = append(parts, p)
	}
	date := strings.TrimSpace(meta.DateYYYYMMDD)
	if date == "" {
		date = time.Now().Format("20060102")
	}
	parts = append(parts, date)
	if id := strings.TrimSpace(meta.ExportID); id != "" {
		parts = append(parts, slug(id))
	}
	return parts
}

func checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return "sha256:" + hex.EncodeToString(sum[:])
}

func defaultContentType(ct string) string {
	if ct != "" {
		return ct
	}
	return "application/octet-stream"
}

var slugRe = regexp.MustCompile(`[^a-z0-9._-]+`)

func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "_", "/", "_", "\\", "_").Replace(s)
	s = slugRe.ReplaceAllString(s, "")
	if s == "" {
		s = "unknown"
	}
	return s
}
