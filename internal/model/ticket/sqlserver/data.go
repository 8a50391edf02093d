package sqlserver

// AuthorizeData 授权规则
type AuthorizeData struct {
	User            string   `json:"user"`
	AccessDBs       []string `json:"access_dbs"`
	TargetInstances []string `json:"target_instances"`
	ClusterType     string   `json:"cluster_type"`
	ClusterIDs      []int    `json:"cluster_ids,omitempty"`
}

// AuthorizeRulesDetails 授权（支持 Excel 导入）
type AuthorizeRulesDetails struct {
	AuthorizeData   []AuthorizeData        `json:"authorize_data"`
	AuthorizeUID    string                 `json:"authorize_uid,omitempty"`
	ExcelURL        string                 `json:"excel_url,omitempty"`
	AuthorizePlugin map[string]interface{} `json:"authorize_plugin_infos,omitempty"`
}

func (AuthorizeRulesDetails) TicketType() string { return TicketTypeAuthorizeRules }

func (d AuthorizeRulesDetails) RelatedClusterIDs() []int {
	groups := make([][]int, 0, len(d.AuthorizeData))
	for _, a := range d.AuthorizeData {
		groups = append(groups, a.ClusterIDs)
	}
	return clusterIDs(groups...)
}

// BackupDBInfo 库备份项
type BackupDBInfo struct {
	ClusterID int      `json:"cluster_id"`
	BackupDBs []string `json:"backup_dbs"`
}

// BackupDBDetails 库备份
type BackupDBDetails struct {
	BackupPlace string         `json:"backup_place"`
	BackupType  string         `json:"backup_type"`
	FileTag     string         `json:"file_tag"`
	Clusters    ClusterMap     `json:"clusters"`
	Infos       []BackupDBInfo `json:"infos"`
}

func (BackupDBDetails) TicketType() string { return TicketTypeBackupDBs }

func (d BackupDBDetails) RelatedClusterIDs() []int {
	ids := make([]int, 0, len(d.Infos))
	for _, info := range d.Infos {
		ids = append(ids, info.ClusterID)
	}
	return clusterIDs(ids)
}

// ClearDBInfo 清档项
type ClearDBInfo struct {
	ClusterID              int      `json:"cluster_id"`
	CleanMode              string   `json:"clean_mode"`
	CleanDBs               []string `json:"clean_dbs"`
	CleanDBsPatterns       []string `json:"clean_dbs_patterns"`
	CleanIgnoreDBsPatterns []string `json:"clean_ignore_dbs_patterns"`
	CleanTables            []string `json:"clean_tables"`
	IgnoreCleanTables      []string `json:"ignore_clean_tables"`
}

// ClearDBsDetails 清档
type ClearDBsDetails struct {
	Clusters ClusterMap    `json:"clusters"`
	Infos    []ClearDBInfo `json:"infos"`
}

func (ClearDBsDetails) TicketType() string { return TicketTypeClearDBs }

func (d ClearDBsDetails) RelatedClusterIDs() []int {
	ids := make([]int, 0, len(d.Infos))
	for _, info := range d.Infos {
		ids = append(ids, info.ClusterID)
	}
	return clusterIDs(ids)
}

// MigrateInfo 数据迁移项
type MigrateInfo struct {
	SrcCluster   int          `json:"src_cluster"`
	DstCluster   int          `json:"dst_cluster"`
	DBList       []string     `json:"db_list"`
	IgnoreDBList []string     `json:"ignore_db_list"`
	RenameInfos  []RenameInfo `json:"rename_infos"`
}

// DataMigrateDetails 数据迁移（全量/增量共用）
type DataMigrateDetails struct {
	// Kind 全量或增量迁移，由单据类型决定，不参与序列化
	Kind           string        `json:"-"`
	Clusters       ClusterMap    `json:"clusters"`
	DTSID          int           `json:"dts_id,omitempty"`
	IsLast         bool          `json:"is_last,omitempty"`
	NeedAutoRename bool          `json:"need_auto_rename,omitempty"`
	Infos          []MigrateInfo `json:"infos"`
}

func (d DataMigrateDetails) TicketType() string {
	if d.Kind == "" {
		return TicketTypeFullMigrate
	}
	return d.Kind
}

func (d DataMigrateDetails) RelatedClusterIDs() []int {
	ids := make([]int, 0, len(d.Infos)*2)
	for _, info := range d.Infos {
		ids = append(ids, info.SrcCluster, info.DstCluster)
	}
	return clusterIDs(ids)
}

// ExecuteObject SQL 文件执行对象
type ExecuteObject struct {
	SQLFiles      []string `json:"sql_files"`
	ImportMode    string   `json:"import_mode"`
	DBNames       []string `json:"dbnames"`
	IgnoreDBNames []string `json:"ignore_dbnames"`
}

// ImportSQLFileDetails SQL 变更执行
type ImportSQLFileDetails struct {
	Charset        string          `json:"charset"`
	Path           string          `json:"path"`
	Backup         []interface{}   `json:"backup,omitempty"`
	ClusterIDs     []int           `json:"cluster_ids"`
	Clusters       ClusterMap      `json:"clusters"`
	ExecuteObjects []ExecuteObject `json:"execute_objects"`
	TicketMode     TicketMode      `json:"ticket_mode"`
	UID            string          `json:"uid,omitempty"`
}

func (ImportSQLFileDetails) TicketType() string { return TicketTypeImportSQLFile }

func (d ImportSQLFileDetails) RelatedClusterIDs() []int { return clusterIDs(d.ClusterIDs) }

// RollbackInfo 定点构造项
type RollbackInfo struct {
	SrcCluster        int          `json:"src_cluster"`
	DstCluster        int          `json:"dst_cluster"`
	DBList            []string     `json:"db_list"`
	IgnoreDBList      []string     `json:"ignore_db_list"`
	RenameInfos       []RenameInfo `json:"rename_infos"`
	RestoreTime       string       `json:"restore_time,omitempty"`
	RestoreBackupFile interface{}  `json:"restore_backup_file,omitempty"`
}

// RollbackDetails 定点构造（回档）
type RollbackDetails struct {
	Clusters ClusterMap     `json:"clusters"`
	IsLocal  bool           `json:"is_local"`
	Infos    []RollbackInfo `json:"infos"`
}

func (RollbackDetails) TicketType() string { return TicketTypeRollback }

func (d RollbackDetails) RelatedClusterIDs() []int {
	ids := make([]int, 0, len(d.Infos)*2)
	for _, info := range d.Infos {
		ids = append(ids, info.SrcCluster, info.DstCluster)
	}
	return clusterIDs(ids)
}
