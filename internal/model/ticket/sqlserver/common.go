// Package sqlserver SQLServer 单据详情视图模型，按单据类型提供 details 的结构定义。
package sqlserver

import "sort"

// Details 单据详情的公共行为
type Details interface {
	// TicketType 单据类型
	TicketType() string
	// RelatedClusterIDs 详情中涉及的集群 ID（去重、升序）
	RelatedClusterIDs() []int
}

// ClusterSummary 详情里附带的集群信息
type ClusterSummary struct {
	ID                int    `json:"id"`
	Name              string `json:"name"`
	Alias             string `json:"alias"`
	BkBizID           int    `json:"bk_biz_id"`
	BkCloudID         int    `json:"bk_cloud_id"`
	ClusterType       string `json:"cluster_type"`
	ClusterTypeName   string `json:"cluster_type_name"`
	DBModuleID        int    `json:"db_module_id"`
	DBModuleName      string `json:"db_module_name"`
	ImmuteDomain      string `json:"immute_domain"`
	MajorVersion      string `json:"major_version"`
	Region            string `json:"region"`
	TimeZone          string `json:"time_zone"`
	DisasterTolerance string `json:"disaster_tolerance_level,omitempty"`
}

// ClusterMap 单据详情中 clusters 字段：集群 ID → 集群信息
type ClusterMap map[int]ClusterSummary

// HostInfo 主机信息
type HostInfo struct {
	BkBizID   int    `json:"bk_biz_id,omitempty"`
	BkCloudID int    `json:"bk_cloud_id"`
	BkHostID  int    `json:"bk_host_id"`
	IP        string `json:"ip"`
	Port      int    `json:"port,omitempty"`
}

// LocationSpec 地域要求
type LocationSpec struct {
	City       string   `json:"city,omitempty"`
	SubZoneIDs []string `json:"sub_zone_ids,omitempty"`
}

// ResourceSpec 资源规格
type ResourceSpec struct {
	SpecID       int          `json:"spec_id"`
	Count        int          `json:"count"`
	SpecName     string       `json:"spec_name,omitempty"`
	LocationSpec LocationSpec `json:"location_spec"`
}

// TicketMode 执行模式
type TicketMode struct {
	Mode        string `json:"mode"`
	TriggerTime string `json:"trigger_time"`
}

// RenameInfo 迁移/回档时的库重命名
type RenameInfo struct {
	DBName       string `json:"db_name"`
	TargetDBName string `json:"target_db_name"`
	RenameDBName string `json:"rename_db_name"`
}

// clusterIDs 合并、去重并升序
func clusterIDs(groups ...[]int) []int {
	seen := map[int]struct{}{}
	out := []int{}
	for _, g := range groups {
		for _, id := range g {
			if id == 0 {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	sort.Ints(out)
	return out
}

// 单据类型
const (
	TicketTypeAddSlave          = "SQLSERVER_ADD_SLAVE"
	TicketTypeAuthorizeRules    = "SQLSERVER_AUTHORIZE_RULES"
	TicketTypeBackupDBs         = "SQLSERVER_BACKUP_DBS"
	TicketTypeClearDBs          = "SQLSERVER_CLEAR_DBS"
	TicketTypeFullMigrate       = "SQLSERVER_FULL_MIGRATE"
	TicketTypeIncrMigrate       = "SQLSERVER_INCR_MIGRATE"
	TicketTypeDBRename          = "SQLSERVER_DBRENAME"
	TicketTypeDestroy           = "SQLSERVER_DESTROY"
	TicketTypeDisable           = "SQLSERVER_DISABLE"
	TicketTypeEnable            = "SQLSERVER_ENABLE"
	TicketTypeHAApply           = "SQLSERVER_HA_APPLY"
	TicketTypeImportSQLFile     = "SQLSERVER_IMPORT_SQLFILE"
	TicketTypeMasterFailOver    = "SQLSERVER_MASTER_FAIL_OVER"
	TicketTypeMasterSlaveSwitch = "SQLSERVER_MASTER_SLAVE_SWITCH"
	TicketTypeReset             = "SQLSERVER_RESET"
	TicketTypeRestoreLocalSlave = "SQLSERVER_RESTORE_LOCAL_SLAVE"
	TicketTypeRestoreSlave      = "SQLSERVER_RESTORE_SLAVE"
	TicketTypeRollback          = "SQLSERVER_ROLLBACK"
	TicketTypeSingleApply       = "SQLSERVER_SINGLE_APPLY"
)
