package sqlserver

// ApplyDomain 部署时申请的访问入口
type ApplyDomain struct {
	Key          string `json:"key"`
	MasterDomain string `json:"master,omitempty"`
	SlaveDomain  string `json:"slave,omitempty"`
}

// ApplyNodes 手动选择的部署主机
type ApplyNodes struct {
	Backend []HostInfo `json:"backend,omitempty"`
	Master  []HostInfo `json:"master,omitempty"`
	Slave   []HostInfo `json:"slave,omitempty"`
}

// applyBase 单节点与主从部署的公共字段
type applyBase struct {
	BkCloudID              int                     `json:"bk_cloud_id"`
	CityCode               string                  `json:"city_code"`
	CityName               string                  `json:"city_name"`
	ClusterCount           int                     `json:"cluster_count"`
	Charset                string                  `json:"charset"`
	DBAppAbbr              string                  `json:"db_app_abbr"`
	DBModuleID             int                     `json:"db_module_id"`
	DBModuleName           string                  `json:"db_module_name"`
	DBVersion              string                  `json:"db_version"`
	DisasterToleranceLevel string                  `json:"disaster_tolerance_level"`
	Domains                []ApplyDomain           `json:"domains"`
	InstNum                int                     `json:"inst_num"`
	IPSource               string                  `json:"ip_source"`
	Nodes                  ApplyNodes              `json:"nodes"`
	ResourceSpec           map[string]ResourceSpec `json:"resource_spec"`
	SpecDisplay            string                  `json:"spec_display,omitempty"`
	StartMssqlPort         int                     `json:"start_mssql_port"`
	SystemVersion          []string                `json:"system_version"`
}

// HaApplyDetails SQLServer 主从部署
type HaApplyDetails struct {
	applyBase
}

func (HaApplyDetails) TicketType() string { return TicketTypeHAApply }

// RelatedClusterIDs 部署单据尚未产生集群
func (HaApplyDetails) RelatedClusterIDs() []int { return []int{} }

// SingleApplyDetails SQLServer 单节点部署
type SingleApplyDetails struct {
	applyBase
}

func (SingleApplyDetails) TicketType() string { return TicketTypeSingleApply }

func (SingleApplyDetails) RelatedClusterIDs() []int { return []int{} }
