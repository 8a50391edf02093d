package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/dbmconsole/dbmconsole/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditEndpoints(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.audits.Record(ctx, &model.ResourceAudit{ID: "a-1", Action: model.AuditActionImport, Operator: "alice", HostIDs: "1,12", HostCount: 2, Outcome: model.AuditOutcomeSuccess}))
	require.NoError(t, env.audits.Record(ctx, &model.ResourceAudit{ID: "a-2", Action: model.AuditActionDelete, Operator: "bob", HostIDs: "2", HostCount: 1, Outcome: model.AuditOutcomeFailed}))

	code, body := env.do(t, http.MethodGet, "/api/v1/audits?host_id=1", nil, nil)
	require.Equal(t, http.StatusOK, code)
	data := body["data"].(map[string]interface{})
	assert.EqualValues(t, 1, data["count"])
	assert.Equal(t, "a-1", data["results"].([]interface{})[0].(map[string]interface{})["id"])

	code, body = env.do(t, http.MethodGet, "/api/v1/audits?operator=bob&outcome=failed", nil, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, body["data"].(map[string]interface{})["count"])

	code, body = env.do(t, http.MethodGet, "/api/v1/audits/a-2", nil, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "bob", body["data"].(map[string]interface{})["operator"])

	code, body = env.do(t, http.MethodGet, "/api/v1/audits/missing", nil, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "AUDIT_NOT_FOUND", body["code"])

	code, _ = env.do(t, http.MethodGet, "/api/v1/audits?limit=x", nil, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}
