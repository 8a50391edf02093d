package meta

import (
	"fmt"
	"sort"
)

// MachineInfo 集群类型下可选的机器角色
type MachineInfo struct {
	ID   MachineType `json:"id"`
	Name string      `json:"name"`
}

// ClusterTypeInfoItem 集群类型配置项
type ClusterTypeInfoItem struct {
	ID          ClusterType   `json:"id"`
	Name        string        `json:"name"`
	DBType      DBType        `json:"db_type"`
	ModuleID    ModuleID      `json:"module_id"`
	MachineList []MachineInfo `json:"machine_list"`
}

type infoGroup map[ClusterType]ClusterTypeInfoItem

var mysqlInfos = infoGroup{
	ClusterTypeTenDBSingle: {
		ID:       ClusterTypeTenDBSingle,
		Name:     "MySQL单节点",
		DBType:   DBTypeMySQL,
		ModuleID: ModuleMySQL,
		MachineList: []MachineInfo{
			{ID: MachineTypeMySQLProxy, Name: "Proxy"},
			{ID: MachineTypeMySQLBackend, Name: "后端存储"},
		},
	},
	ClusterTypeTenDBHA: {
		ID:       ClusterTypeTenDBHA,
		Name:     "MySQL主从",
		DBType:   DBTypeMySQL,
		ModuleID: ModuleMySQL,
		MachineList: []MachineInfo{
			{ID: MachineTypeMySQLProxy, Name: "Proxy"},
			{ID: MachineTypeMySQLBackend, Name: "后端存储"},
		},
	},
}

var spiderInfos = infoGroup{
	ClusterTypeTenDBCluster: {
		ID:       ClusterTypeTenDBCluster,
		Name:     "TenDBCluster",
		DBType:   DBTypeTenDBCluster,
		ModuleID: ModuleMySQL,
		MachineList: []MachineInfo{
			{ID: MachineTypeTenDBClusterProxy, Name: "接入层Master"},
			{ID: MachineTypeTenDBClusterBackend, Name: "后端存储"},
		},
	},
}

var redisInfos = infoGroup{
	ClusterTypeTwemproxyRedisInstance: {
		ID:       ClusterTypeTwemproxyRedisInstance,
		Name:     "TendisCache",
		DBType:   DBTypeRedis,
		ModuleID: ModuleRedis,
		MachineList: []MachineInfo{
			{ID: MachineTypeRedisTendisCache, Name: "后端存储"},
			{ID: MachineTypeRedisProxy, Name: "Proxy"},
		},
	},
	ClusterTypeTwemproxyTendisSSDInstance: {
		ID:       ClusterTypeTwemproxyTendisSSDInstance,
		Name:     "TendisSSD",
		DBType:   DBTypeRedis,
		ModuleID: ModuleRedis,
		MachineList: []MachineInfo{
			{ID: MachineTypeRedisTendisSSD, Name: "后端存储"},
			{ID: MachineTypeRedisProxy, Name: "Proxy"},
		},
	},
	ClusterTypePredixyTendisplusCluster: {
		ID:       ClusterTypePredixyTendisplusCluster,
		Name:     "Tendisplus",
		DBType:   DBTypeRedis,
		ModuleID: ModuleRedis,
		MachineList: []MachineInfo{
			{ID: MachineTypeRedisTendisPlus, Name: "后端存储"},
			{ID: MachineTypeRedisProxy, Name: "Proxy"},
		},
	},
	ClusterTypePredixyRedisCluster: {
		ID:       ClusterTypePredixyRedisCluster,
		Name:     "RedisCluster",
		DBType:   DBTypeRedis,
		ModuleID: ModuleRedis,
		MachineList: []MachineInfo{
			{ID: MachineTypeRedisCluster, Name: "后端存储"},
			{ID: MachineTypeRedisProxy, Name: "Proxy"},
		},
	},
	ClusterTypeRedisInstance: {
		ID:       ClusterTypeRedisInstance,
		Name:     "Redis主从",
		DBType:   DBTypeRedis,
		ModuleID: ModuleRedis,
		MachineList: []MachineInfo{
			{ID: MachineTypeRedisInstance, Name: "后端存储"},
		},
	},
}

var bigdataInfos = infoGroup{
	ClusterTypeES: {
		ID:       ClusterTypeES,
		Name:     "ElasticSearch",
		DBType:   DBTypeES,
		ModuleID: ModuleBigdata,
		MachineList: []MachineInfo{
			{ID: MachineTypeESMaster, Name: "Master节点"},
			{ID: MachineTypeESClient, Name: "Client节点"},
			{ID: MachineTypeESDatanode, Name: "冷_热节点"},
		},
	},
	ClusterTypeKafka: {
		ID:       ClusterTypeKafka,
		Name:     "Kafka",
		DBType:   DBTypeKafka,
		ModuleID: ModuleBigdata,
		MachineList: []MachineInfo{
			{ID: MachineTypeKafkaZookeeper, Name: "Zookeeper节点"},
			{ID: MachineTypeKafkaBroker, Name: "Broker节点"},
		},
	},
	ClusterTypeHDFS: {
		ID:       ClusterTypeHDFS,
		Name:     "HDFS",
		DBType:   DBTypeHDFS,
		ModuleID: ModuleBigdata,
		MachineList: []MachineInfo{
			{ID: MachineTypeHDFSDatanode, Name: "DataNode节点"},
			{ID: MachineTypeHDFSMaster, Name: "NameNode_Zookeeper_JournalNode节点"},
		},
	},
	ClusterTypeInfluxDB: {
		ID:       ClusterTypeInfluxDB,
		Name:     "InfluxDB",
		DBType:   DBTypeInfluxDB,
		ModuleID: ModuleBigdata,
		MachineList: []MachineInfo{
			{ID: MachineTypeInfluxDB, Name: "后端存储机型"},
		},
	},
	ClusterTypePulsar: {
		ID:       ClusterTypePulsar,
		Name:     "Pulsar",
		DBType:   DBTypePulsar,
		ModuleID: ModuleBigdata,
		MachineList: []MachineInfo{
			{ID: MachineTypePulsarBookkeeper, Name: "Bookkeeper节点"},
			{ID: MachineTypePulsarZookeeper, Name: "Zookeeper节点"},
			{ID: MachineTypePulsarBroker, Name: "Broker节点"},
		},
	},
}

var mongodbInfos = infoGroup{
	ClusterTypeMongoReplicaSet: {
		ID:       ClusterTypeMongoReplicaSet,
		Name:     "Mongo副本集",
		DBType:   DBTypeMongoDB,
		ModuleID: ModuleMongoDB,
		MachineList: []MachineInfo{
			{ID: MachineTypeMongoDB, Name: "Mongodb"},
		},
	},
	ClusterTypeMongoShardedCluster: {
		ID:       ClusterTypeMongoShardedCluster,
		Name:     "Mongo分片集",
		DBType:   DBTypeMongoDB,
		ModuleID: ModuleMongoDB,
		MachineList: []MachineInfo{
			{ID: MachineTypeMongos, Name: "Mongos"},
			{ID: MachineTypeMongoDB, Name: "ConfigSvr"},
			{ID: MachineTypeMongoConfig, Name: "ShardSvr"},
		},
	},
}

var sqlserverInfos = infoGroup{
	ClusterTypeSQLServerSingle: {
		ID:       ClusterTypeSQLServerSingle,
		Name:     "SQLServer单节点",
		DBType:   DBTypeSQLServer,
		ModuleID: ModuleSQLServer,
		MachineList: []MachineInfo{
			{ID: MachineTypeSQLServer, Name: "后端存储"},
		},
	},
	ClusterTypeSQLServerHA: {
		ID:       ClusterTypeSQLServerHA,
		Name:     "SQLServer主从",
		DBType:   DBTypeSQLServer,
		ModuleID: ModuleSQLServer,
		MachineList: []MachineInfo{
			{ID: MachineTypeSQLServer, Name: "后端存储"},
		},
	},
}

// clusterTypeInfos 集群类型对应配置，初始化后只读
var clusterTypeInfos = merge(mysqlInfos, spiderInfos, redisInfos, bigdataInfos, mongodbInfos, sqlserverInfos)

func init() {
	if err := Validate(); err != nil {
		panic(err)
	}
}

func merge(groups ...infoGroup) map[ClusterType]ClusterTypeInfoItem {
	out := make(map[ClusterType]ClusterTypeInfoItem)
	for _, g := range groups {
		for k, v := range g {
			out[k] = v
		}
	}
	return out
}

// Validate 校验配置表与集群类型枚举一一对应
func Validate() error {
	for _, ct := range allClusterTypes {
		item, ok := clusterTypeInfos[ct]
		if !ok {
			return fmt.Errorf("cluster type %s has no info entry", ct)
		}
		if item.ID != ct {
			return fmt.Errorf("cluster type %s info entry has id %s", ct, item.ID)
		}
		if len(item.MachineList) == 0 {
			return fmt.Errorf("cluster type %s has empty machine list", ct)
		}
	}
	if len(clusterTypeInfos) != len(allClusterTypes) {
		return fmt.Errorf("cluster type info table has %d entries, expected %d", len(clusterTypeInfos), len(allClusterTypes))
	}
	return nil
}

func (i ClusterTypeInfoItem) clone() ClusterTypeInfoItem {
	machines := make([]MachineInfo, len(i.MachineList))
	copy(machines, i.MachineList)
	i.MachineList = machines
	return i
}

// ClusterTypeInfos 返回完整配置表的副本
func ClusterTypeInfos() map[ClusterType]ClusterTypeInfoItem {
	out := make(map[ClusterType]ClusterTypeInfoItem, len(clusterTypeInfos))
	for k, v := range clusterTypeInfos {
		out[k] = v.clone()
	}
	return out
}

// ListClusterTypeInfos 按枚举声明顺序返回配置项列表
func ListClusterTypeInfos() []ClusterTypeInfoItem {
	out := make([]ClusterTypeInfoItem, 0, len(allClusterTypes))
	for _, ct := range allClusterTypes {
		out = append(out, clusterTypeInfos[ct].clone())
	}
	return out
}

// GetClusterTypeInfo 获取集群类型配置
func GetClusterTypeInfo(ct ClusterType) (ClusterTypeInfoItem, bool) {
	item, ok := clusterTypeInfos[ct]
	if !ok {
		return ClusterTypeInfoItem{}, false
	}
	return item.clone(), true
}

// MustClusterTypeInfo 获取集群类型配置，未知类型直接 panic
func MustClusterTypeInfo(ct ClusterType) ClusterTypeInfoItem {
	item, ok := GetClusterTypeInfo(ct)
	if !ok {
		panic(fmt.Sprintf("unknown cluster type %q", ct))
	}
	return item
}

// ParseClusterType 解析集群类型字符串
func ParseClusterType(s string) (ClusterType, error) {
	ct := ClusterType(s)
	if !ct.IsValid() {
		return "", fmt.Errorf("unknown cluster type %q", s)
	}
	return ct, nil
}

// ClusterTypesByDBType 返回属于指定数据库类型的集群类型
func ClusterTypesByDBType(db DBType) []ClusterType {
	var out []ClusterType
	for _, ct := range allClusterTypes {
		if clusterTypeInfos[ct].DBType == db {
			out = append(out, ct)
		}
	}
	return out
}

// ClusterTypesByModule 返回属于指定功能模块的集群类型
func ClusterTypesByModule(m ModuleID) []ClusterType {
	var out []ClusterType
	for _, ct := range allClusterTypes {
		if clusterTypeInfos[ct].ModuleID == m {
			out = append(out, ct)
		}
	}
	return out
}

// MachineTypesOf 返回集群类型允许的机器角色
func MachineTypesOf(ct ClusterType) []MachineType {
	item, ok := clusterTypeInfos[ct]
	if !ok {
		return nil
	}
	out := make([]MachineType, 0, len(item.MachineList))
	for _, m := range item.MachineList {
		out = append(out, m.ID)
	}
	return out
}

// DBTypes 返回配置表中出现的全部数据库类型（已排序）
func DBTypes() []DBType {
	seen := map[DBType]struct{}{}
	for _, item := range clusterTypeInfos {
		seen[item.DBType] = struct{}{}
	}
	out := make([]DBType, 0, len(seen))
	for db := range seen {
		out = append(out, db)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
