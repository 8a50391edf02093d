package service

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/dbmconsole/dbmconsole/internal/config"
	"github.com/dbmconsole/dbmconsole/internal/database"
	"github.com/dbmconsole/dbmconsole/pkg/dbresource"
	"github.com/stretchr/testify/require"
)

// fakeAPI 内存中的资源池后台
type fakeAPI struct {
	mu        sync.Mutex
	resources []dbresource.DbResource
	listCalls []map[string]interface{}
	err       error
	listErrAt int // 第 n 次 FetchList 返回 err，0 表示始终返回 err（err 非 nil 时）
	removed   []int
	updated   []dbresource.UpdateParams
}

func newFakeAPI(n int) *fakeAPI {
	f := &fakeAPI{}
	for i := 1; i <= n; i++ {
		f.resources = append(f.resources, dbresource.DbResource{
			BkHostID:      i,
			IP:            "10.0.0." + strconv.Itoa(i),
			City:          "深圳",
			AgentStatus:   1,
			StorageDevice: map[string]dbresource.StorageDevice{"/data": {Size: 100, DiskType: "SSD"}},
		})
	}
	return f
}

func (f *fakeAPI) RemoveResource(_ context.Context, p dbresource.HostIDsParams) (dbresource.HostIDsParams, error) {
	if f.err != nil {
		return dbresource.HostIDsParams{}, f.err
	}
	f.mu.Lock()
	f.removed = append(f.removed, p.BkHostIDs...)
	f.mu.Unlock()
	return p, nil
}

func (f *fakeAPI) FetchDeviceClass(context.Context, dbresource.DeviceClassParams) (dbresource.ListBase[dbresource.DeviceClass], error) {
	return dbresource.ListBase[dbresource.DeviceClass]{}, f.err
}

func (f *fakeAPI) FetchDiskTypes(context.Context) ([]string, error) {
	return []string{"SSD", "HDD"}, f.err
}

func (f *fakeAPI) FetchMountPoints(context.Context) ([]string, error) {
	return []string{"/data", "/data1"}, f.err
}

func (f *fakeAPI) FetchSubzones(_ context.Context, citys string) ([]string, error) {
	return []string{citys + "-1"}, f.err
}

func (f *fakeAPI) ImportResource(context.Context, dbresource.ImportParams) (json.RawMessage, error) {
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(`{"task_id":"t-1"}`), nil
}

func (f *fakeAPI) FetchList(_ context.Context, params map[string]interface{}, _ ...dbresource.RequestPayload) (dbresource.ListBase[dbresource.DbResource], error) {
	f.mu.Lock()
	f.listCalls = append(f.listCalls, params)
	call := len(f.listCalls)
	f.mu.Unlock()
	if f.err != nil && (f.listErrAt == 0 || f.listErrAt == call) {
		return dbresource.ListBase[dbresource.DbResource]{}, f.err
	}

	offset, _ := params["offset"].(int)
	limit, _ := params["limit"].(int)
	if limit <= 0 {
		limit = len(f.resources)
	}
	end := offset + limit
	if end > len(f.resources) {
		end = len(f.resources)
	}
	var page []dbresource.DbResource
	if offset < end {
		page = f.resources[offset:end]
	}
	return dbresource.ListBase[dbresource.DbResource]{Count: len(f.resources), Results: page}, nil
}

func (f *fakeAPI) FetchListDbaHost(context.Context, dbresource.ListDbaHostParams) (dbresource.ListBase[dbresource.ImportHost], error) {
	return dbresource.ListBase[dbresource.ImportHost]{Results: []dbresource.ImportHost{}}, f.err
}

func (f *fakeAPI) FetchHostListByHostID(context.Context, dbresource.HostListByIDParams) ([]dbresource.HostDetails, error) {
	return []dbresource.HostDetails{}, f.err
}

func (f *fakeAPI) FetchImportTask(context.Context) (dbresource.ImportTasks, error) {
	return dbresource.ImportTasks{}, f.err
}

func (f *fakeAPI) FetchOperationList(context.Context, dbresource.OperationListParams, ...dbresource.RequestPayload) (dbresource.ListBase[dbresource.Operation], error) {
	return dbresource.ListBase[dbresource.Operation]{}, f.err
}

func (f *fakeAPI) FetchResourceImportURLs(context.Context) (dbresource.ImportURLs, error) {
	return dbresource.ImportURLs{}, f.err
}

func (f *fakeAPI) GetSpecResourceCount(context.Context, dbresource.SpecResourceCountParams) (map[int]int, error) {
	return map[int]int{1: 3}, f.err
}

func (f *fakeAPI) UpdateResource(_ context.Context, p dbresource.UpdateParams) (json.RawMessage, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	f.updated = append(f.updated, p)
	f.mu.Unlock()
	return json.RawMessage(`null`), nil
}

func (f *fakeAPI) GetOsTypeList(context.Context, dbresource.OsTypeParams) ([]string, error) {
	return []string{"Linux"}, f.err
}

// offsets 已请求的分页 offset（升序）
func (f *fakeAPI) offsets() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int, 0, len(f.listCalls))
	for _, c := range f.listCalls {
		o, _ := c["offset"].(int)
		out = append(out, o)
	}
	sort.Ints(out)
	return out
}

func newTestAuditService(t *testing.T) *AuditService {
	t.Helper()
	db, err := database.Open(config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "audit.db"), LogLevel: "silent"})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewAuditService(db, config.AuditConfig{Enabled: true, RetryAttempts: 2})
}
