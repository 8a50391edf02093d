package sqlserver

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketTypesRegistered(t *testing.T) {
	types := TicketTypes()
	assert.Len(t, types, 19)
	assert.IsIncreasing(t, types)
	for _, tt := range types {
		d, err := Decode(tt, nil)
		require.NoError(t, err, tt)
		assert.Equal(t, tt, d.TicketType())
		assert.NotNil(t, d.RelatedClusterIDs())
	}
	assert.True(t, IsTicketType(TicketTypeRollback))
	assert.False(t, IsTicketType("MYSQL_HA_APPLY"))
}

func TestDecodeUnknown(t *testing.T) {
	_, err := Decode("MYSQL_HA_APPLY", json.RawMessage(`{}`))
	require.Error(t, err)
	assert.Equal(t, ErrUnknownTicketType, errors.Cause(err))
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode(TicketTypeBackupDBs, json.RawMessage(`{"infos": 1}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), TicketTypeBackupDBs)
}

func TestDecodeMasterSlaveSwitch(t *testing.T) {
	raw := `{
		"clusters": {"12": {"id": 12, "immute_domain": "mssql.a.db"}},
		"force": true,
		"is_check_process": true,
		"infos": [
			{"cluster_ids": [12, 3], "master": {"bk_host_id": 1, "ip": "1.1.1.1"}, "slave": {"bk_host_id": 2, "ip": "2.2.2.2"}},
			{"cluster_ids": [3], "master": {"ip": "3.3.3.3"}, "slave": {"ip": "4.4.4.4"}}
		]
	}`
	d, err := Decode(TicketTypeMasterSlaveSwitch, json.RawMessage(raw))
	require.NoError(t, err)

	sw, ok := d.(*MasterSlaveSwitchDetails)
	require.True(t, ok)
	assert.True(t, sw.Force)
	assert.True(t, sw.IsCheckProcess)
	assert.Equal(t, "mssql.a.db", sw.Clusters[12].ImmuteDomain)
	assert.Equal(t, "2.2.2.2", sw.Infos[0].Slave.IP)
	assert.Equal(t, []int{3, 12}, d.RelatedClusterIDs())
}

func TestDecodeMigrateKeepsKind(t *testing.T) {
	raw := `{"dts_id": 7, "infos": [{"src_cluster": 5, "dst_cluster": 2, "db_list": ["db1"],
		"rename_infos": [{"db_name": "db1", "target_db_name": "db1_new", "rename_db_name": ""}]}]}`

	full, err := Decode(TicketTypeFullMigrate, json.RawMessage(raw))
	require.NoError(t, err)
	incr, err := Decode(TicketTypeIncrMigrate, json.RawMessage(raw))
	require.NoError(t, err)

	assert.Equal(t, TicketTypeFullMigrate, full.TicketType())
	assert.Equal(t, TicketTypeIncrMigrate, incr.TicketType())
	m := incr.(*DataMigrateDetails)
	assert.Equal(t, 7, m.DTSID)
	assert.Equal(t, "db1_new", m.Infos[0].RenameInfos[0].TargetDBName)
	assert.Equal(t, []int{2, 5}, incr.RelatedClusterIDs())
}

func TestDecodeImportSQLFile(t *testing.T) {
	raw := `{"charset": "default", "path": "/bk/sql", "cluster_ids": [9, 9, 4],
		"execute_objects": [{"sql_files": ["a.sql"], "import_mode": "manual", "dbnames": ["%"]}],
		"ticket_mode": {"mode": "timer", "trigger_time": "2024-01-01 00:00:00"}}`
	d, err := Decode(TicketTypeImportSQLFile, json.RawMessage(raw))
	require.NoError(t, err)

	sf := d.(*ImportSQLFileDetails)
	assert.Equal(t, "timer", sf.TicketMode.Mode)
	assert.Equal(t, []string{"a.sql"}, sf.ExecuteObjects[0].SQLFiles)
	assert.Equal(t, []int{4, 9}, d.RelatedClusterIDs())
}

func TestDecodeApplyHasNoClusters(t *testing.T) {
	raw := `{"city_code": "SZ", "cluster_count": 2, "db_app_abbr": "demo", "start_mssql_port": 48322,
		"domains": [{"key": "a", "master": "mssql.a.demo.db"}],
		"resource_spec": {"backend_group": {"spec_id": 3, "count": 2, "location_spec": {"city": "SZ"}}},
		"system_version": ["Windows Server 2016"]}`
	d, err := Decode(TicketTypeHAApply, json.RawMessage(raw))
	require.NoError(t, err)

	ha := d.(*HaApplyDetails)
	assert.Equal(t, 48322, ha.StartMssqlPort)
	assert.Equal(t, 3, ha.ResourceSpec["backend_group"].SpecID)
	assert.Equal(t, "mssql.a.demo.db", ha.Domains[0].MasterDomain)
	assert.Empty(t, d.RelatedClusterIDs())
}

func TestRelatedClusterIDs(t *testing.T) {
	cases := []struct {
		name string
		d    Details
		want []int
	}{
		{"destroy", DestroyDetails{clusterIDsDetails{ClusterIDs: []int{3, 1, 3}}}, []int{1, 3}},
		{"reset", ResetDetails{Infos: []ResetInfo{{ClusterID: 8}, {ClusterID: 2}}}, []int{2, 8}},
		{"rollback", RollbackDetails{Infos: []RollbackInfo{{SrcCluster: 4, DstCluster: 0}}}, []int{4}},
		{"authorize", AuthorizeRulesDetails{AuthorizeData: []AuthorizeData{{ClusterIDs: []int{6}}, {ClusterIDs: []int{6, 1}}}}, []int{1, 6}},
		{"add slave", AddSlaveDetails{Infos: []AddSlaveInfo{{ClusterIDs: []int{5}}}}, []int{5}},
		{"empty", ClearDBsDetails{}, []int{}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, c.d.RelatedClusterIDs())
		})
	}
}

func TestEmbeddedFieldsMarshalFlat(t *testing.T) {
	b, err := json.Marshal(DisableDetails{clusterIDsDetails{ClusterIDs: []int{1}}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"cluster_ids":[1],"clusters":null}`, string(b))
}
