package model

import (
	"time"
)

// ResourceAudit 资源池变更操作审计
type ResourceAudit struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(64)"`
	RequestID string    `json:"request_id" gorm:"type:varchar(64);index"`
	Operator  string    `json:"operator" gorm:"type:varchar(128);index"`
	Action    string    `json:"action" gorm:"type:varchar(32);not null;index"`
	HostIDs   string    `json:"host_ids" gorm:"type:text"` // 逗号分隔的 bk_host_id
	HostCount int       `json:"host_count" gorm:"not null;default:0"`
	Request   string    `json:"request" gorm:"type:text"`
	Response  string    `json:"response" gorm:"type:text"`
	Outcome   string    `json:"outcome" gorm:"type:varchar(16);not null;index"`
	ErrorCode int       `json:"error_code"`
	ErrorMsg  string    `json:"error_msg" gorm:"type:text"`
	Duration  int64     `json:"duration"` // 毫秒
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index"`
}

// TableName 表名
func (ResourceAudit) TableName() string {
	return "resource_audits"
}

// 审计动作
const (
	AuditActionDelete = "delete"
	AuditActionImport = "import"
	AuditActionUpdate = "update"
	AuditActionExport = "export"
)

// 审计结果
const (
	AuditOutcomeSuccess = "success"
	AuditOutcomeFailed  = "failed"
	// AuditOutcomeDenied 后台返回无权限
	AuditOutcomeDenied = "denied"
)

// AuditQuery 审计列表查询条件
type AuditQuery struct {
	Action   string    `form:"action"`
	Operator string    `form:"operator"`
	Outcome  string    `form:"outcome"`
	HostID   int       `form:"host_id"`
	Since    time.Time `form:"since" time_format:"2006-01-02 15:04:05"`
	Until    time.Time `form:"until" time_format:"2006-01-02 15:04:05"`
	Offset   int       `form:"offset"`
	Limit    int       `form:"limit"`
}
