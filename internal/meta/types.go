package meta

// ClusterType 集群类型
type ClusterType string

// 集群类型枚举
const (
	ClusterTypeTenDBSingle                = ClusterType("tendbsingle")
	ClusterTypeTenDBHA                    = ClusterType("tendbha")
	ClusterTypeTenDBCluster               = ClusterType("tendbcluster")
	ClusterTypeTwemproxyRedisInstance     = ClusterType("TwemproxyRedisInstance")
	ClusterTypeTwemproxyTendisSSDInstance = ClusterType("TwemproxyTendisSSDInstance")
	ClusterTypePredixyTendisplusCluster   = ClusterType("PredixyTendisplusCluster")
	ClusterTypePredixyRedisCluster        = ClusterType("PredixyRedisCluster")
	ClusterTypeRedisInstance              = ClusterType("RedisInstance")
	ClusterTypeES                         = ClusterType("es")
	ClusterTypeKafka                      = ClusterType("kafka")
	ClusterTypeHDFS                       = ClusterType("hdfs")
	ClusterTypeInfluxDB                   = ClusterType("influxdb")
	ClusterTypePulsar                     = ClusterType("pulsar")
	ClusterTypeMongoReplicaSet            = ClusterType("MongoReplicaSet")
	ClusterTypeMongoShardedCluster        = ClusterType("MongoShardedCluster")
	ClusterTypeSQLServerSingle            = ClusterType("sqlserver_single")
	ClusterTypeSQLServerHA                = ClusterType("sqlserver_ha")
)

var allClusterTypes = []ClusterType{
	ClusterTypeTenDBSingle,
	ClusterTypeTenDBHA,
	ClusterTypeTenDBCluster,
	ClusterTypeTwemproxyRedisInstance,
	ClusterTypeTwemproxyTendisSSDInstance,
	ClusterTypePredixyTendisplusCluster,
	ClusterTypePredixyRedisCluster,
	ClusterTypeRedisInstance,
	ClusterTypeES,
	ClusterTypeKafka,
	ClusterTypeHDFS,
	ClusterTypeInfluxDB,
	ClusterTypePulsar,
	ClusterTypeMongoReplicaSet,
	ClusterTypeMongoShardedCluster,
	ClusterTypeSQLServerSingle,
	ClusterTypeSQLServerHA,
}

// AllClusterTypes 返回全部集群类型（声明顺序）
func AllClusterTypes() []ClusterType {
	out := make([]ClusterType, len(allClusterTypes))
	copy(out, allClusterTypes)
	return out
}

// IsValid 是否为已知集群类型
func (c ClusterType) IsValid() bool {
	for _, ct := range allClusterTypes {
		if ct == c {
			return true
		}
	}
	return false
}

func (c ClusterType) String() string { return string(c) }

// DBType 数据库类型
type DBType string

const (
	DBTypeMySQL        = DBType("mysql")
	DBTypeTenDBCluster = DBType("tendbcluster")
	DBTypeRedis        = DBType("redis")
	DBTypeES           = DBType("es")
	DBTypeKafka        = DBType("kafka")
	DBTypeHDFS         = DBType("hdfs")
	DBTypeInfluxDB     = DBType("influxdb")
	DBTypePulsar       = DBType("pulsar")
	DBTypeMongoDB      = DBType("mongodb")
	DBTypeSQLServer    = DBType("sqlserver")
)

// ModuleID 功能模块（对应功能开关控制的模块）
type ModuleID string

const (
	ModuleMySQL     = ModuleID("mysql")
	ModuleRedis     = ModuleID("redis")
	ModuleBigdata   = ModuleID("bigdata")
	ModuleMongoDB   = ModuleID("mongodb")
	ModuleSQLServer = ModuleID("sqlserver")
)

// MachineType 机器角色类型
type MachineType string

const (
	MachineTypeMySQLProxy          = MachineType("proxy")
	MachineTypeMySQLBackend        = MachineType("backend")
	MachineTypeTenDBClusterProxy   = MachineType("spider")
	MachineTypeTenDBClusterBackend = MachineType("remote")
	MachineTypeRedisTendisCache    = MachineType("tendiscache")
	MachineTypeRedisTendisSSD      = MachineType("tendisssd")
	MachineTypeRedisTendisPlus     = MachineType("tendisplus")
	MachineTypeRedisCluster        = MachineType("rediscluster")
	MachineTypeRedisInstance       = MachineType("tendisredis")
	MachineTypeRedisProxy          = MachineType("twemproxy")
	MachineTypeESMaster            = MachineType("es_master")
	MachineTypeESClient            = MachineType("es_client")
	MachineTypeESDatanode          = MachineType("es_datanode")
	MachineTypeKafkaZookeeper      = MachineType("zookeeper")
	MachineTypeKafkaBroker         = MachineType("broker")
	MachineTypeHDFSDatanode        = MachineType("hdfs_datanode")
	MachineTypeHDFSMaster          = MachineType("hdfs_master")
	MachineTypeInfluxDB            = MachineType("influxdb")
	MachineTypePulsarBookkeeper    = MachineType("pulsar_bookkeeper")
	MachineTypePulsarZookeeper     = MachineType("pulsar_zookeeper")
	MachineTypePulsarBroker        = MachineType("pulsar_broker")
	MachineTypeMongos              = MachineType("mongos")
	MachineTypeMongoDB             = MachineType("mongodb")
	MachineTypeMongoConfig         = MachineType("mongo_config")
	MachineTypeSQLServer           = MachineType("sqlserver")
)
