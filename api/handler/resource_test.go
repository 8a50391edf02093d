package handler

import (
	"context"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/dbmconsole/dbmconsole/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceListForwardsHeaders(t *testing.T) {
	env := newTestEnv(t)
	env.upstream.replies["/apis/dbresource/resource/list/"] = `{"code":0,"result":true,"data":{
		"count":1,"results":[{"bk_host_id":7,"ip":"1.1.1.1"}],"permission":{"resource_manage":true}}}`

	code, body := env.do(t, http.MethodPost, "/api/v1/resources/list", map[string]interface{}{"city": "深圳", "limit": 10}, map[string]string{
		"X-Bk-Tenant-Id": "tenant-a",
		"Cookie":         "bk_ticket=abc",
		"X-Request-ID":   "req-1",
		"X-Other":        "dropped",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "SUCCESS", body["code"])
	data := body["data"].(map[string]interface{})
	assert.EqualValues(t, 1, data["count"])
	first := data["results"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{"resource_manage": true}, first["permission"])

	call := env.upstream.last(t)
	assert.Equal(t, http.MethodPost, call.Method)
	assert.Equal(t, "深圳", call.Body["city"])
	assert.Equal(t, "tenant-a", call.Header.Get("X-Bk-Tenant-Id"))
	assert.Equal(t, "bk_ticket=abc", call.Header.Get("Cookie"))
	assert.Equal(t, "req-1", call.Header.Get("X-Request-Id"))
	assert.Empty(t, call.Header.Get("X-Other"))
}

func TestResourceListEmptyBody(t *testing.T) {
	env := newTestEnv(t)
	code, _ := env.do(t, http.MethodPost, "/api/v1/resources/list", nil, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "/apis/dbresource/resource/list/", env.upstream.last(t).Path)
}

func TestResourceDeleteAudited(t *testing.T) {
	env := newTestEnv(t)
	env.upstream.replies["/apis/dbresource/resource/delete/"] = `{"code":0,"result":true,"data":{"bk_host_ids":[1,2]}}`

	code, body := env.do(t, http.MethodPost, "/api/v1/resources/delete", map[string]interface{}{"bk_host_ids": []int{1, 2}},
		map[string]string{OperatorHeader: "admin"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []interface{}{float64(1), float64(2)}, body["data"].(map[string]interface{})["bk_host_ids"])

	list, total, err := env.audits.List(context.Background(), model.AuditQuery{Action: model.AuditActionDelete})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	assert.Equal(t, "admin", list[0].Operator)
	assert.Equal(t, "1,2", list[0].HostIDs)
	assert.Equal(t, model.AuditOutcomeSuccess, list[0].Outcome)
	assert.Equal(t, "req-test", list[0].RequestID)
}

func TestResourceDeletePermissionDenied(t *testing.T) {
	env := newTestEnv(t)
	env.upstream.replies["/apis/dbresource/resource/delete/"] = `{"code":9900403,"result":false,"message":"无权限","data":null}`

	code, body := env.do(t, http.MethodPost, "/api/v1/resources/delete", map[string]interface{}{"bk_host_ids": []int{3}}, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "PERMISSION_DENIED", body["code"])
	assert.EqualValues(t, 9900403, body["upstream_code"])

	list, _, err := env.audits.List(context.Background(), model.AuditQuery{HostID: 3})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, model.AuditOutcomeDenied, list[0].Outcome)
}

func TestResourcePermissionIgnore(t *testing.T) {
	env := newTestEnv(t)
	env.upstream.replies["/apis/dbresource/resource/list/"] = `{"code":9900403,"result":false,"message":"无权限"}`

	code, _ := env.do(t, http.MethodPost, "/api/v1/resources/list?permission=ignore", nil, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = env.do(t, http.MethodPost, "/api/v1/resources/list", nil, nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestResourcePermissionIgnoreDoesNotHideDeniedChange(t *testing.T) {
	env := newTestEnv(t)
	env.upstream.replies["/apis/dbresource/resource/delete/"] = `{"code":9900403,"result":false,"message":"无权限"}`

	code, body := env.do(t, http.MethodPost, "/api/v1/resources/delete?permission=ignore", map[string]interface{}{"bk_host_ids": []int{7}}, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "PERMISSION_DENIED", body["code"])

	list, _, err := env.audits.List(context.Background(), model.AuditQuery{HostID: 7})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, model.AuditOutcomeDenied, list[0].Outcome)
}

func TestResourceUpstreamError(t *testing.T) {
	env := newTestEnv(t)
	env.upstream.replies["/apis/dbresource/resource/get_disktypes/"] = `{"code":1,"result":false,"message":"boom"}`
	env.upstream.status["/apis/dbresource/resource/get_mountpoints/"] = http.StatusInternalServerError
	env.upstream.replies["/apis/dbresource/resource/get_mountpoints/"] = `{}`

	code, body := env.do(t, http.MethodGet, "/api/v1/resources/disk-types", nil, nil)
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Equal(t, "UPSTREAM_ERROR", body["code"])
	assert.Equal(t, "boom", body["message"])
	assert.Equal(t, "req-test", body["request_id"])

	code, _ = env.do(t, http.MethodGet, "/api/v1/resources/mount-points", nil, nil)
	assert.Equal(t, http.StatusBadGateway, code)
}

func TestResourceBadRequest(t *testing.T) {
	env := newTestEnv(t)
	code, body := env.do(t, http.MethodPost, "/api/v1/resources/delete", `{"bk_host_ids":"x"}`, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_PARAMS", body["code"])

	code, _ = env.do(t, http.MethodGet, "/api/v1/resources/operations?limit=abc", nil, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestResourceQueryParams(t *testing.T) {
	env := newTestEnv(t)
	env.upstream.replies["/apis/dbresource/resource/list_dba_hosts/"] = `{"code":0,"data":{"total":5,"data":[{"ip":"2.2.2.2","host_id":9}]}}`
	env.upstream.replies["/apis/dbresource/resource/get_subzones/"] = `{"code":0,"data":["南山"]}`

	code, body := env.do(t, http.MethodGet, "/api/v1/resources/dba-hosts?limit=10&offset=20&search_content=2.2", nil, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 5, body["data"].(map[string]interface{})["count"])
	query := env.upstream.last(t).Query
	assert.Contains(t, query, "start=20")
	assert.Contains(t, query, "page_size=10")
	assert.Contains(t, query, "search_content=2.2")

	code, body = env.do(t, http.MethodGet, "/api/v1/resources/subzones?citys=sz", nil, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []interface{}{"南山"}, body["data"])
	assert.Equal(t, "citys=sz", env.upstream.last(t).Query)

	code, _ = env.do(t, http.MethodGet, "/api/v1/resources/os-types?limit=5", nil, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "limit=5", env.upstream.last(t).Query)

	code, _ = env.do(t, http.MethodGet, "/api/v1/resources/dba-hosts/query?bk_host_ids=1,2", nil, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "/apis/dbresource/resource/query_dba_hosts/", env.upstream.last(t).Path)
}

func TestResourceOperationsView(t *testing.T) {
	env := newTestEnv(t)
	env.upstream.replies["/apis/dbresource/resource/query_operation_list/"] = `{"code":0,"data":{"count":1,"results":[
		{"operation_type":"imported","status":"RUNNING","bk_host_ids":[1,2,3]}]}}`

	code, body := env.do(t, http.MethodGet, "/api/v1/resources/operations?limit=10", nil, nil)
	require.Equal(t, http.StatusOK, code)
	item := body["data"].(map[string]interface{})["results"].([]interface{})[0].(map[string]interface{})
	assert.EqualValues(t, 3, item["total_count"])
	assert.Equal(t, true, item["is_running"])
	assert.NotEmpty(t, item["status_text"])
	assert.NotEmpty(t, item["operation_type_text"])
}

func TestResourceSpecCountAndUpdate(t *testing.T) {
	env := newTestEnv(t)
	env.upstream.replies["/apis/dbresource/resource/spec_resource_count/"] = `{"code":0,"data":{"1":4,"2":0}}`

	code, body := env.do(t, http.MethodPost, "/api/v1/resources/spec-count", map[string]interface{}{"bk_biz_id": 2, "spec_ids": []int{1, 2}}, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]interface{}{"1": float64(4), "2": float64(0)}, body["data"])

	code, _ = env.do(t, http.MethodPost, "/api/v1/resources/update", map[string]interface{}{"bk_host_ids": []int{5}, "rack_id": "r1"},
		map[string]string{OperatorHeader: "ops"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "r1", env.upstream.last(t).Body["rack_id"])

	list, _, err := env.audits.List(context.Background(), model.AuditQuery{Action: model.AuditActionUpdate, Operator: "ops"})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestResourceExport(t *testing.T) {
	env := newTestEnv(t)
	env.upstream.replies["/apis/dbresource/resource/list/"] = `{"code":0,"data":{"count":2,"results":[
		{"bk_host_id":1,"ip":"10.0.0.1"},{"bk_host_id":2,"ip":"10.0.0.2"}]}}`

	code, body := env.do(t, http.MethodPost, "/api/v1/resources/export", map[string]interface{}{"format": "csv"}, nil)
	require.Equal(t, http.StatusOK, code, body)
	data := body["data"].(map[string]interface{})
	assert.EqualValues(t, 2, data["count"])
	uri := data["object"].(map[string]interface{})["uri"].(string)
	require.True(t, strings.HasPrefix(uri, "file://"+env.exports))

	content, err := os.ReadFile(strings.TrimPrefix(uri, "file://"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "10.0.0.2")

	code, body = env.do(t, http.MethodPost, "/api/v1/resources/export", map[string]interface{}{"format": "xlsx"}, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_PARAMS", body["code"])
}
