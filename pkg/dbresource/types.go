package dbresource

// ListBase 分页列表通用结构
type ListBase[T any] struct {
	Count      int                    `json:"count"`
	Next       string                 `json:"next,omitempty"`
	Previous   string                 `json:"previous,omitempty"`
	Results    []T                    `json:"results"`
	Permission map[string]interface{} `json:"permission,omitempty"`
}

// DeviceClassLabel 机型标签
type DeviceClassLabel struct {
	DeviceGroup string `json:"device_group"`
	DeviceSize  string `json:"device_size"`
}

// DeviceClass 机型
type DeviceClass struct {
	CapacityFlag   int              `json:"capacity_flag"`
	Comment        string           `json:"comment"`
	CPU            int              `json:"cpu"`
	Disk           int              `json:"disk"`
	EnableApply    bool             `json:"enable_apply"`
	EnableCapacity bool             `json:"enable_capacity"`
	ID             int              `json:"id"`
	Label          DeviceClassLabel `json:"label"`
	Mem            int              `json:"mem"`
	Region         string           `json:"region"`
	RequireType    int              `json:"require_type"`
	Remark         string           `json:"remark"`
	Score          float64          `json:"score"`
	Zone           string           `json:"zone"`
	DeviceType     string           `json:"device_type"`
}

// DeviceClassParams 机型列表参数
type DeviceClassParams struct {
	Offset *int   `json:"offset,omitempty"`
	Limit  *int   `json:"limit,omitempty"`
	Name   string `json:"name,omitempty"`
}

// HostIDsParams 按主机 ID 操作的参数
type HostIDsParams struct {
	BkHostIDs []int `json:"bk_host_ids"`
}

// ImportHostItem 导入的单台主机
type ImportHostItem struct {
	IP        string `json:"ip"`
	HostID    int    `json:"host_id"`
	BkCloudID int    `json:"bk_cloud_id"`
}

// ImportParams 资源池导入参数
type ImportParams struct {
	ForBizs       []int            `json:"for_bizs"`
	ResourceTypes []string         `json:"resource_types"`
	Hosts         []ImportHostItem `json:"hosts"`
}

// ImportHost DBA 业务下可导入的主机
type ImportHost struct {
	IP           string  `json:"ip"`
	HostID       int     `json:"host_id"`
	HostName     string  `json:"host_name"`
	BkCloudID    int     `json:"bk_cloud_id"`
	BkCloudName  string  `json:"bk_cloud_name"`
	OSName       string  `json:"os_name"`
	OSType       string  `json:"os_type"`
	CPU          int     `json:"cpu"`
	Mem          int     `json:"mem"`
	Disk         int     `json:"disk"`
	DeviceClass  string  `json:"device_class"`
	CityName     string  `json:"city"`
	SubZone      string  `json:"sub_zone"`
	RackID       string  `json:"rack_id"`
	Alive        int     `json:"alive"`
	AgentID      string  `json:"agent_id"`
	BkAgentAlive float64 `json:"bk_agent_alive,omitempty"`
}

// ListDbaHostParams DBA 业务主机查询参数（offset/limit 为前端分页口径）
type ListDbaHostParams struct {
	Limit         int    `json:"limit" form:"limit"`
	Offset        int    `json:"offset" form:"offset"`
	SearchContent string `json:"search_content" form:"search_content"`
}

// HostDetails 主机详情
type HostDetails struct {
	BkHostID    int       `json:"bk_host_id"`
	IP          string    `json:"ip"`
	HostName    string    `json:"host_name"`
	BkCloudID   int       `json:"bk_cloud_id"`
	BkCloudName string    `json:"bk_cloud_name"`
	BkBizID     int       `json:"bk_biz_id"`
	OSName      string    `json:"os_name"`
	OSType      string    `json:"os_type"`
	BkCPU       int       `json:"bk_cpu"`
	BkMem       int       `json:"bk_mem"`
	BkDisk      int       `json:"bk_disk"`
	Alive       int       `json:"alive"`
	AgentID     string    `json:"agent_id"`
	CloudArea   CloudArea `json:"cloud_area"`
}

// CloudArea 管控区域
type CloudArea struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// HostListByIDParams 按主机 ID 查询参数，ID 以逗号分隔
type HostListByIDParams struct {
	BkHostIDs string `json:"bk_host_ids" form:"bk_host_ids"`
}

// ImportTasks 资源导入任务
type ImportTasks struct {
	BkBizID int      `json:"bk_biz_id"`
	TaskIDs []string `json:"task_ids"`
}

// OperationListParams 操作记录查询参数
type OperationListParams struct {
	Limit     int    `json:"limit" form:"limit"`
	Offset    int    `json:"offset" form:"offset"`
	BeginTime string `json:"begin_time" form:"begin_time"`
	EndTime   string `json:"end_time" form:"end_time"`
}

// ImportURLs 资源导入相关链接
type ImportURLs struct {
	BkCmdbURL    string `json:"bk_cmdb_url"`
	BkNodemanURL string `json:"bk_nodeman_url"`
	BkScrURL     string `json:"bk_scr_url"`
}

// SpecResourceCountParams 规格主机数量参数
type SpecResourceCountParams struct {
	BkBizID      int    `json:"bk_biz_id"`
	City         string `json:"city,omitempty"`
	ResourceType string `json:"resource_type,omitempty"`
	BkCloudID    int    `json:"bk_cloud_id"`
	SpecIDs      []int  `json:"spec_ids"`
}

// StorageDeviceUpdate 更新资源时的磁盘信息
type StorageDeviceUpdate struct {
	Size     int    `json:"size"`
	DiskType string `json:"disk_type"`
}

// UpdateParams 更新资源参数
type UpdateParams struct {
	BkHostIDs            []int                          `json:"bk_host_ids"`
	ForBizs              []int                          `json:"for_bizs"`
	RackID               string                         `json:"rack_id"`
	ResourceTypes        []string                       `json:"resource_types"`
	SetEmptyBiz          bool                           `json:"set_empty_biz"`
	SetEmptyResourceType bool                           `json:"set_empty_resource_type"`
	StorageDevice        map[string]StorageDeviceUpdate `json:"storage_device"`
}

// OsTypeParams 操作系统类型查询参数
type OsTypeParams struct {
	Offset *int `json:"offset,omitempty" form:"offset"`
	Limit  *int `json:"limit,omitempty" form:"limit"`
}
