package sqlserver

// AddSlaveInfo 添加从库项
type AddSlaveInfo struct {
	ClusterIDs   []int         `json:"cluster_ids"`
	NewSlaveHost HostInfo      `json:"new_slave_host"`
	ResourceSpec *ResourceSpec `json:"resource_spec,omitempty"`
}

// AddSlaveDetails 添加从库
type AddSlaveDetails struct {
	Clusters ClusterMap     `json:"clusters"`
	IPSource string         `json:"ip_source"`
	Infos    []AddSlaveInfo `json:"infos"`
}

func (AddSlaveDetails) TicketType() string { return TicketTypeAddSlave }

func (d AddSlaveDetails) RelatedClusterIDs() []int {
	groups := make([][]int, 0, len(d.Infos))
	for _, info := range d.Infos {
		groups = append(groups, info.ClusterIDs)
	}
	return clusterIDs(groups...)
}

// RestoreSlaveInfo 重建从库项
type RestoreSlaveInfo struct {
	ClusterIDs   []int    `json:"cluster_ids"`
	OldSlaveHost HostInfo `json:"old_slave_host"`
	NewSlaveHost HostInfo `json:"new_slave_host"`
}

// RestoreSlaveDetails 重建从库（新机重建）
type RestoreSlaveDetails struct {
	Clusters ClusterMap         `json:"clusters"`
	IPSource string             `json:"ip_source"`
	Infos    []RestoreSlaveInfo `json:"infos"`
}

func (RestoreSlaveDetails) TicketType() string { return TicketTypeRestoreSlave }

func (d RestoreSlaveDetails) RelatedClusterIDs() []int {
	groups := make([][]int, 0, len(d.Infos))
	for _, info := range d.Infos {
		groups = append(groups, info.ClusterIDs)
	}
	return clusterIDs(groups...)
}

// RestoreLocalSlaveInfo 原地重建从库项
type RestoreLocalSlaveInfo struct {
	ClusterID int      `json:"cluster_id"`
	SlaveHost HostInfo `json:"slave_host"`
	Port      int      `json:"port"`
}

// RestoreLocalSlaveDetails 原地重建从库
type RestoreLocalSlaveDetails struct {
	Clusters ClusterMap              `json:"clusters"`
	Infos    []RestoreLocalSlaveInfo `json:"infos"`
}

func (RestoreLocalSlaveDetails) TicketType() string { return TicketTypeRestoreLocalSlave }

func (d RestoreLocalSlaveDetails) RelatedClusterIDs() []int {
	ids := make([]int, 0, len(d.Infos))
	for _, info := range d.Infos {
		ids = append(ids, info.ClusterID)
	}
	return clusterIDs(ids)
}

// SwitchInfo 主从切换/主故障切换项
type SwitchInfo struct {
	ClusterIDs []int    `json:"cluster_ids"`
	Master     HostInfo `json:"master"`
	Slave      HostInfo `json:"slave"`
}

// switchDetails 主从切换类单据的公共字段
type switchDetails struct {
	Clusters         ClusterMap   `json:"clusters"`
	Force            bool         `json:"force"`
	IsCheckProcess   bool         `json:"is_check_process"`
	IsVerifyChecksum bool         `json:"is_verify_checksum"`
	Infos            []SwitchInfo `json:"infos"`
}

func (d switchDetails) RelatedClusterIDs() []int {
	groups := make([][]int, 0, len(d.Infos))
	for _, info := range d.Infos {
		groups = append(groups, info.ClusterIDs)
	}
	return clusterIDs(groups...)
}

// MasterFailOverDetails 主故障切换
type MasterFailOverDetails struct {
	switchDetails
}

func (MasterFailOverDetails) TicketType() string { return TicketTypeMasterFailOver }

// MasterSlaveSwitchDetails 主从互切
type MasterSlaveSwitchDetails struct {
	switchDetails
}

func (MasterSlaveSwitchDetails) TicketType() string { return TicketTypeMasterSlaveSwitch }
