package sqlserver

// clusterIDsDetails 仅携带集群 ID 列表的单据（禁用/启用/下架）
type clusterIDsDetails struct {
	ClusterIDs []int      `json:"cluster_ids"`
	Clusters   ClusterMap `json:"clusters"`
	Force      bool       `json:"force,omitempty"`
}

func (d clusterIDsDetails) RelatedClusterIDs() []int { return clusterIDs(d.ClusterIDs) }

// DestroyDetails 集群下架
type DestroyDetails struct {
	clusterIDsDetails
}

func (DestroyDetails) TicketType() string { return TicketTypeDestroy }

// DisableDetails 集群禁用
type DisableDetails struct {
	clusterIDsDetails
}

func (DisableDetails) TicketType() string { return TicketTypeDisable }

// EnableDetails 集群启用
type EnableDetails struct {
	clusterIDsDetails
}

func (EnableDetails) TicketType() string { return TicketTypeEnable }

// ResetInfo 集群重置项
type ResetInfo struct {
	ClusterID       int    `json:"cluster_id"`
	NewClusterName  string `json:"new_cluster_name"`
	NewImmuteDomain string `json:"new_immute_domain"`
	NewPort         int    `json:"new_port"`
}

// ResetDetails 集群重置
type ResetDetails struct {
	Clusters ClusterMap  `json:"clusters"`
	Infos    []ResetInfo `json:"infos"`
}

func (ResetDetails) TicketType() string { return TicketTypeReset }

func (d ResetDetails) RelatedClusterIDs() []int {
	ids := make([]int, 0, len(d.Infos))
	for _, info := range d.Infos {
		ids = append(ids, info.ClusterID)
	}
	return clusterIDs(ids)
}

// DBRenameInfo 库重命名项
type DBRenameInfo struct {
	ClusterID    int    `json:"cluster_id"`
	FromDatabase string `json:"from_database"`
	ToDatabase   string `json:"to_database"`
}

// DBRenameDetails 库重命名
type DBRenameDetails struct {
	Clusters ClusterMap     `json:"clusters"`
	Infos    []DBRenameInfo `json:"infos"`
}

func (DBRenameDetails) TicketType() string { return TicketTypeDBRename }

func (d DBRenameDetails) RelatedClusterIDs() []int {
	ids := make([]int, 0, len(d.Infos))
	for _, info := range d.Infos {
		ids = append(ids, info.ClusterID)
	}
	return clusterIDs(ids)
}
