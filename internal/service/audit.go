package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dbmconsole/dbmconsole/internal/config"
	"github.com/dbmconsole/dbmconsole/internal/database"
	"github.com/dbmconsole/dbmconsole/internal/model"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ErrAuditNotFound 审计记录不存在
var ErrAuditNotFound = errors.New("audit record not found")

// AuditService 资源池变更审计
type AuditService struct {
	db       *gorm.DB
	enabled  bool
	attempts int
}

// NewAuditService 创建审计服务；db 为 nil 时记录被跳过
func NewAuditService(db *gorm.DB, cfg config.AuditConfig) *AuditService {
	attempts := cfg.RetryAttempts
	if attempts <= 0 {
		attempts = 1
	}
	return &AuditService{db: db, enabled: cfg.Enabled && db != nil, attempts: attempts}
}

// Enabled 是否写入审计
func (s *AuditService) Enabled() bool {
	return s != nil && s.enabled
}

// Record 写入一条审计，ID 为空时自动生成
func (s *AuditService) Record(ctx context.Context, a *model.ResourceAudit) error {
	if !s.Enabled() {
		return nil
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	err := database.WithRetry(s.db, func(tx *gorm.DB) error {
		return tx.WithContext(ctx).Create(a).Error
	}, s.attempts, 0)
	return errors.Wrap(err, "record audit")
}

// Get 按 ID 查询
func (s *AuditService) Get(ctx context.Context, id string) (*model.ResourceAudit, error) {
	if s == nil || s.db == nil {
		return nil, ErrAuditNotFound
	}
	var a model.ResourceAudit
	err := s.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAuditNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get audit")
	}
	return &a, nil
}

// List 分页查询审计，按创建时间倒序
func (s *AuditService) List(ctx context.Context, q model.AuditQuery) ([]model.ResourceAudit, int64, error) {
	out := []model.ResourceAudit{}
	if s == nil || s.db == nil {
		return out, 0, nil
	}
	tx := s.db.WithContext(ctx).Model(&model.ResourceAudit{})
	if q.Action != "" {
		tx = tx.Where("action = ?", q.Action)
	}
	if q.Operator != "" {
		tx = tx.Where("operator = ?", q.Operator)
	}
	if q.Outcome != "" {
		tx = tx.Where("outcome = ?", q.Outcome)
	}
	if q.HostID > 0 {
		tx = tx.Where("(',' || host_ids || ',') LIKE ?", fmt.Sprintf("%%,%d,%%", q.HostID))
	}
	if !q.Since.IsZero() {
		tx = tx.Where("created_at >= ?", q.Since)
	}
	if !q.Until.IsZero() {
		tx = tx.Where("created_at < ?", q.Until)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count audits")
	}
	limit := q.Limit
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	if err := tx.Order("created_at DESC").Offset(offset).Limit(limit).Find(&out).Error; err != nil {
		return nil, 0, errors.Wrap(err, "list audits")
	}
	return out, total, nil
}

// joinIDs 1,2,3
func joinIDs(ids []int) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprint(id))
	}
	return strings.Join(parts, ",")
}
