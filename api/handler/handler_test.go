package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dbmconsole/dbmconsole/internal/config"
	"github.com/dbmconsole/dbmconsole/internal/database"
	"github.com/dbmconsole/dbmconsole/internal/service"
	"github.com/dbmconsole/dbmconsole/pkg/dbresource"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// upstreamCall 资源池后台收到的一次请求
type upstreamCall struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   map[string]interface{}
}

// fakeUpstream 模拟 /apis/dbresource/resource 后台
type fakeUpstream struct {
	mu    sync.Mutex
	calls []upstreamCall
	// replies 按路径返回的 envelope，缺省返回 {"code":0,"result":true,"data":null}
	replies map[string]string
	status  map[string]int
}

func (u *fakeUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	call := upstreamCall{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Header: r.Header.Clone()}
	if data, _ := io.ReadAll(r.Body); len(data) > 0 {
		_ = json.Unmarshal(data, &call.Body)
	}
	u.mu.Lock()
	u.calls = append(u.calls, call)
	reply, ok := u.replies[r.URL.Path]
	status := u.status[r.URL.Path]
	u.mu.Unlock()

	if !ok {
		reply = `{"code":0,"result":true,"data":null}`
	}
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, reply)
}

func (u *fakeUpstream) last(t *testing.T) upstreamCall {
	t.Helper()
	u.mu.Lock()
	defer u.mu.Unlock()
	require.NotEmpty(t, u.calls)
	return u.calls[len(u.calls)-1]
}

type testEnv struct {
	engine   *gin.Engine
	upstream *fakeUpstream
	audits   *service.AuditService
	exports  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	up := &fakeUpstream{replies: map[string]string{}, status: map[string]int{}}
	srv := httptest.NewServer(up)
	t.Cleanup(srv.Close)

	db, err := database.Open(config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "audit.db"), LogLevel: "silent"})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	audits := service.NewAuditService(db, config.AuditConfig{Enabled: true, RetryAttempts: 2})

	exportDir := t.TempDir()
	exportCfg := config.ExportConfig{
		StorageBackend: service.BackendLocal,
		Prefix:         "exports",
		Local:          config.LocalExportConfig{BaseDir: exportDir, MkdirIfMissing: true},
		PageSize:       50,
		Concurrency:    2,
		Format:         service.ExportFormatCSV,
		Encoding:       "utf-8",
	}
	writer := service.NewStorageWriter(&config.Config{Export: exportCfg})

	client := dbresource.New(dbresource.Config{BaseURL: srv.URL})
	resources := service.NewResourceService(client, audits)
	exports := service.NewExportService(client, writer, exportCfg, audits)
	fwd := NewForwarder([]string{"X-Bk-Tenant-Id", "Cookie"})

	r := gin.New()
	r.Use(func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = "req-test"
		}
		c.Set("request_id", id)
		c.Next()
	})

	rh := NewResourceHandler(resources, exports, fwd)
	g := r.Group("/api/v1/resources")
	g.POST("/list", rh.List)
	g.POST("/delete", rh.Delete)
	g.POST("/import", rh.Import)
	g.POST("/update", rh.Update)
	g.POST("/device-class", rh.DeviceClass)
	g.POST("/spec-count", rh.SpecCount)
	g.POST("/export", rh.Export)
	g.GET("/disk-types", rh.DiskTypes)
	g.GET("/mount-points", rh.MountPoints)
	g.GET("/subzones", rh.Subzones)
	g.GET("/os-types", rh.OsTypes)
	g.GET("/dba-hosts", rh.DbaHosts)
	g.GET("/dba-hosts/query", rh.QueryDbaHosts)
	g.GET("/import-tasks", rh.ImportTasks)
	g.GET("/operations", rh.Operations)
	g.GET("/import-urls", rh.ImportURLs)

	mh := NewMetaHandler()
	r.GET("/api/v1/meta/cluster-types", mh.ListClusterTypes)
	r.GET("/api/v1/meta/cluster-types/:cluster_type", mh.GetClusterType)

	th := NewTicketHandler()
	r.GET("/api/v1/tickets/sqlserver/types", th.ListSQLServerTypes)
	r.POST("/api/v1/tickets/sqlserver/details/decode", th.DecodeSQLServerDetails)

	ah := NewAuditHandler(audits)
	r.GET("/api/v1/audits", ah.List)
	r.GET("/api/v1/audits/:id", ah.Get)

	return &testEnv{engine: r, upstream: up, audits: audits, exports: exportDir}
}

// do 发起请求并解析统一响应
func (e *testEnv) do(t *testing.T, method, path string, body interface{}, headers map[string]string) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			data, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(data)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w.Code, out
}
