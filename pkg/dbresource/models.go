package dbresource

import (
	"fmt"
	"sort"
	"strings"
)

// ForBiz 专用业务
type ForBiz struct {
	BkBizID   int    `json:"bk_biz_id"`
	BkBizName string `json:"bk_biz_name"`
}

// StorageDevice 资源主机上的磁盘
type StorageDevice struct {
	Size     int    `json:"size"`
	FileType string `json:"file_type"`
	DiskID   string `json:"disk_id"`
	DiskType string `json:"disk_type"`
}

// ResourceLabel 资源标签
type ResourceLabel struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// DbResource 资源池主机
type DbResource struct {
	AgentStatus   int                      `json:"agent_status"`
	AssetID       string                   `json:"asset_id"`
	BkAgentID     string                   `json:"bk_agent_id"`
	BkBizID       int                      `json:"bk_biz_id"`
	BkCloudID     int                      `json:"bk_cloud_id"`
	BkCloudName   string                   `json:"bk_cloud_name"`
	BkCPU         int                      `json:"bk_cpu"`
	BkDisk        int                      `json:"bk_disk"`
	BkHostID      int                      `json:"bk_host_id"`
	BkHostInnerIP string                   `json:"bk_host_innerip"`
	BkMem         int                      `json:"bk_mem"`
	City          string                   `json:"city"`
	CityID        string                   `json:"city_id"`
	ConsumeTime   string                   `json:"consume_time"`
	CreateTime    string                   `json:"create_time"`
	DeviceClass   string                   `json:"device_class"`
	ForBiz        ForBiz                   `json:"for_biz"`
	IP            string                   `json:"ip"`
	Labels        []ResourceLabel          `json:"labels"`
	NetDeviceID   string                   `json:"net_device_id"`
	OSName        string                   `json:"os_name"`
	OSType        string                   `json:"os_type"`
	RackID        string                   `json:"rack_id"`
	Raid          string                   `json:"raid"`
	ResourceType  string                   `json:"resource_type"`
	Status        string                   `json:"status"`
	StorageDevice map[string]StorageDevice `json:"storage_device"`
	SubZone       string                   `json:"sub_zone"`
	SubZoneID     string                   `json:"sub_zone_id"`
	SvrTypeName   string                   `json:"svr_type_name"`
	UpdateTime    string                   `json:"update_time"`
	Permission    map[string]interface{}   `json:"permission,omitempty"`
}

// IsAgentAlive Agent 是否正常
func (r DbResource) IsAgentAlive() bool {
	return r.AgentStatus == 1
}

// ForBizDisplay 专用业务展示名，未指定业务即公共资源池
func (r DbResource) ForBizDisplay() string {
	if r.ForBiz.BkBizID == 0 {
		return "公共资源池"
	}
	if r.ForBiz.BkBizName == "" {
		return fmt.Sprintf("%d", r.ForBiz.BkBizID)
	}
	return r.ForBiz.BkBizName
}

// ResourceTypeDisplay 专用 DB 展示名
func (r DbResource) ResourceTypeDisplay() string {
	if r.ResourceType == "" || r.ResourceType == "PUBLIC" {
		return "通用"
	}
	return r.ResourceType
}

// DiskTotal 所有磁盘容量之和（GB）
func (r DbResource) DiskTotal() int {
	total := 0
	for _, d := range r.StorageDevice {
		total += d.Size
	}
	return total
}

// StorageDeviceDisplay 按挂载点排序的磁盘摘要，如 "/data1:500G(SSD)"
func (r DbResource) StorageDeviceDisplay() string {
	mounts := make([]string, 0, len(r.StorageDevice))
	for m := range r.StorageDevice {
		mounts = append(mounts, m)
	}
	sort.Strings(mounts)
	parts := make([]string, 0, len(mounts))
	for _, m := range mounts {
		d := r.StorageDevice[m]
		if d.DiskType != "" {
			parts = append(parts, fmt.Sprintf("%s:%dG(%s)", m, d.Size, d.DiskType))
		} else {
			parts = append(parts, fmt.Sprintf("%s:%dG", m, d.Size))
		}
	}
	return strings.Join(parts, ", ")
}

// LabelNames 标签名列表
func (r DbResource) LabelNames() []string {
	out := make([]string, 0, len(r.Labels))
	for _, l := range r.Labels {
		out = append(out, l.Name)
	}
	return out
}

// 操作类型
const (
	OperationTypeImported = "imported"
	OperationTypeConsumed = "consumed"
)

// 操作状态
const (
	OperationStatusPending   = "PENDING"
	OperationStatusRunning   = "RUNNING"
	OperationStatusSucceeded = "SUCCEEDED"
	OperationStatusFailed    = "FAILED"
	OperationStatusRevoked   = "REVOKED"
)

var operationTypeText = map[string]string{
	OperationTypeImported: "导入主机",
	OperationTypeConsumed: "消费主机",
}

var operationStatusText = map[string]string{
	OperationStatusPending:   "等待执行",
	OperationStatusRunning:   "执行中",
	OperationStatusSucceeded: "执行成功",
	OperationStatusFailed:    "执行失败",
	OperationStatusRevoked:   "已撤销",
}

// Operation 资源操作记录
type Operation struct {
	BkHostIDs     []int                  `json:"bk_host_ids"`
	CreateTime    string                 `json:"create_time"`
	OperationType string                 `json:"operation_type"`
	Operator      string                 `json:"operator"`
	RequestID     string                 `json:"request_id"`
	Status        string                 `json:"status"`
	TaskID        string                 `json:"task_id"`
	TicketID      int                    `json:"ticket_id"`
	TicketType    string                 `json:"ticket_type"`
	TotalCount    int                    `json:"total_count"`
	UpdateTime    string                 `json:"update_time"`
	Permission    map[string]interface{} `json:"permission,omitempty"`
}

// NewOperation 包装后端返回的操作记录
func NewOperation(raw Operation) Operation {
	if raw.TotalCount == 0 && len(raw.BkHostIDs) > 0 {
		raw.TotalCount = len(raw.BkHostIDs)
	}
	return raw
}

// OperationTypeText 操作类型展示名
func (o Operation) OperationTypeText() string {
	if t, ok := operationTypeText[o.OperationType]; ok {
		return t
	}
	return o.OperationType
}

// StatusText 状态展示名
func (o Operation) StatusText() string {
	if t, ok := operationStatusText[o.Status]; ok {
		return t
	}
	return o.Status
}

// IsRunning 是否仍在进行
func (o Operation) IsRunning() bool {
	return o.Status == OperationStatusPending || o.Status == OperationStatusRunning
}

// IsFailed 是否失败
func (o Operation) IsFailed() bool {
	return o.Status == OperationStatusFailed
}

// IsSucceeded 是否成功
func (o Operation) IsSucceeded() bool {
	return o.Status == OperationStatusSucceeded
}
