package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strconv"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/dbmconsole/dbmconsole/internal/config"
	"github.com/dbmconsole/dbmconsole/internal/model"
	"github.com/dbmconsole/dbmconsole/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExportService(t *testing.T, api ResourceAPI, audits *AuditService) (*ExportService, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.ExportConfig{
		StorageBackend: BackendLocal,
		Prefix:         "exports",
		Local:          config.LocalExportConfig{BaseDir: dir, MkdirIfMissing: true},
		PageSize:       3,
		Concurrency:    2,
		Format:         ExportFormatCSV,
		Encoding:       "utf-8",
	}
	writer := &DelegatingStorageWriter{local: &LocalStorageWriter{cfg: cfg}}
	return NewExportService(api, writer, cfg, audits), dir
}

func readObject(t *testing.T, obj StoredObject) []byte {
	t.Helper()
	require.True(t, strings.HasPrefix(obj.URI, "file://"))
	data, err := os.ReadFile(strings.TrimPrefix(obj.URI, "file://"))
	require.NoError(t, err)
	return data
}

func TestExportCSVPagesInOrder(t *testing.T) {
	api := newFakeAPI(8)
	audits := newTestAuditService(t)
	svc, _ := newTestExportService(t, api, audits)

	res, err := svc.Export(context.Background(), Caller{Operator: "dba"}, ExportRequest{Filters: map[string]interface{}{"city": "深圳"}})
	require.NoError(t, err)
	assert.Equal(t, 8, res.Count)
	assert.Equal(t, ExportFormatCSV, res.Format)
	assert.Empty(t, res.Warning)
	assert.Equal(t, []int{0, 3, 6}, api.offsets())
	for _, call := range api.listCalls {
		assert.Equal(t, "深圳", call["city"])
		assert.Equal(t, 3, call["limit"])
	}

	lines := strings.Split(strings.TrimSpace(string(readObject(t, res.Object))), "\n")
	require.Len(t, lines, 9)
	assert.True(t, strings.HasPrefix(lines[0], "bk_host_id,ip,"))
	for i, line := range lines[1:] {
		assert.True(t, strings.HasPrefix(line, strconv.Itoa(i+1)+",10.0.0."+strconv.Itoa(i+1)+","), line)
	}
	assert.Contains(t, lines[1], "/data:100G(SSD)")
	assert.Contains(t, lines[1], "公共资源池")

	list, _, err := audits.List(context.Background(), model.AuditQuery{Action: model.AuditActionExport})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 8, list[0].HostCount)
	assert.Equal(t, res.Object.URI, list[0].Response)
}

func TestExportJSON(t *testing.T) {
	svc, _ := newTestExportService(t, newFakeAPI(2), nil)
	res, err := svc.Export(context.Background(), Caller{}, ExportRequest{Format: "JSON"})
	require.NoError(t, err)
	assert.Contains(t, res.Object.ContentType, "application/json")

	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(readObject(t, res.Object), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "10.0.0.2", rows[1]["ip"])
	assert.Equal(t, true, rows[0]["agent_alive"])
}

func TestExportGBK(t *testing.T) {
	svc, _ := newTestExportService(t, newFakeAPI(1), nil)
	res, err := svc.Export(context.Background(), Caller{}, ExportRequest{Encoding: "gbk"})
	require.NoError(t, err)
	assert.Equal(t, "text/csv; charset=gbk", res.Object.ContentType)

	data := readObject(t, res.Object)
	assert.NotContains(t, string(data), "深圳")
	assert.Contains(t, util.EnsureUTF8Bytes(data), "深圳")
}

func TestExportJSONIgnoresCSVEncoding(t *testing.T) {
	svc, _ := newTestExportService(t, newFakeAPI(1), nil)
	res, err := svc.Export(context.Background(), Caller{}, ExportRequest{Format: ExportFormatJSON, Encoding: "gbk"})
	require.NoError(t, err)
	assert.Equal(t, "utf-8", res.Encoding)
	assert.Equal(t, "application/json; charset=utf-8", res.Object.ContentType)
	assert.True(t, utf8.Valid(readObject(t, res.Object)))
	assert.Contains(t, string(readObject(t, res.Object)), "深圳")
}

func TestExportEncodeFailureAudited(t *testing.T) {
	api := newFakeAPI(1)
	api.resources[0].City = "😀"
	audits := newTestAuditService(t)
	svc, dir := newTestExportService(t, api, audits)

	_, err := svc.Export(context.Background(), Caller{Operator: "dba"}, ExportRequest{Encoding: "gbk"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "encode csv as gbk")

	list, _, err := audits.List(context.Background(), model.AuditQuery{Action: model.AuditActionExport})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, model.AuditOutcomeFailed, list[0].Outcome)
	assert.Equal(t, 1, list[0].HostCount)
	assert.Empty(t, list[0].Response)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExportEmptyWritesHeader(t *testing.T) {
	svc, _ := newTestExportService(t, newFakeAPI(0), nil)
	res, err := svc.Export(context.Background(), Caller{}, ExportRequest{})
	require.NoError(t, err)
	assert.Zero(t, res.Count)
	assert.True(t, strings.HasPrefix(string(readObject(t, res.Object)), "bk_host_id,ip,"))
}

func TestExportPageFailure(t *testing.T) {
	api := newFakeAPI(8)
	api.err = errors.New("backend down")
	api.listErrAt = 2
	audits := newTestAuditService(t)
	svc, _ := newTestExportService(t, api, audits)

	_, err := svc.Export(context.Background(), Caller{}, ExportRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend down")

	list, _, err := audits.List(context.Background(), model.AuditQuery{Action: model.AuditActionExport})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, model.AuditOutcomeFailed, list[0].Outcome)
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	svc, _ := newTestExportService(t, newFakeAPI(1), nil)
	_, err := svc.Export(context.Background(), Caller{}, ExportRequest{Format: "xlsx"})
	assert.ErrorContains(t, err, "unsupported export format")
	assert.ErrorIs(t, err, ErrInvalidExportRequest)

	_, err = svc.Export(context.Background(), Caller{}, ExportRequest{Encoding: "latin1"})
	assert.ErrorContains(t, err, "unsupported export encoding")
}

func TestExportMinioFallsBackToLocal(t *testing.T) {
	svc, _ := newTestExportService(t, newFakeAPI(1), nil)
	res, err := svc.Export(context.Background(), Caller{}, ExportRequest{Backend: BackendMinio})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Warning)
	assert.Equal(t, BackendLocal, res.Object.Backend)
}
