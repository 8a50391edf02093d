package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dbmconsole/dbmconsole/internal/model"
	"github.com/dbmconsole/dbmconsole/pkg/dbresource"
	"github.com/dbmconsole/dbmconsole/pkg/logger"
)

// ResourceAPI 资源池后台接口，*dbresource.Client 即为实现
type ResourceAPI interface {
	RemoveResource(ctx context.Context, params dbresource.HostIDsParams) (dbresource.HostIDsParams, error)
	FetchDeviceClass(ctx context.Context, params dbresource.DeviceClassParams) (dbresource.ListBase[dbresource.DeviceClass], error)
	FetchDiskTypes(ctx context.Context) ([]string, error)
	FetchMountPoints(ctx context.Context) ([]string, error)
	FetchSubzones(ctx context.Context, citys string) ([]string, error)
	ImportResource(ctx context.Context, params dbresource.ImportParams) (json.RawMessage, error)
	FetchList(ctx context.Context, params map[string]interface{}, payload ...dbresource.RequestPayload) (dbresource.ListBase[dbresource.DbResource], error)
	FetchListDbaHost(ctx context.Context, params dbresource.ListDbaHostParams) (dbresource.ListBase[dbresource.ImportHost], error)
	FetchHostListByHostID(ctx context.Context, params dbresource.HostListByIDParams) ([]dbresource.HostDetails, error)
	FetchImportTask(ctx context.Context) (dbresource.ImportTasks, error)
	FetchOperationList(ctx context.Context, params dbresource.OperationListParams, payload ...dbresource.RequestPayload) (dbresource.ListBase[dbresource.Operation], error)
	FetchResourceImportURLs(ctx context.Context) (dbresource.ImportURLs, error)
	GetSpecResourceCount(ctx context.Context, params dbresource.SpecResourceCountParams) (map[int]int, error)
	UpdateResource(ctx context.Context, params dbresource.UpdateParams) (json.RawMessage, error)
	GetOsTypeList(ctx context.Context, params dbresource.OsTypeParams) ([]string, error)
}

var _ ResourceAPI = (*dbresource.Client)(nil)

// Caller 发起变更的操作人
type Caller struct {
	Operator  string
	RequestID string
}

// ResourceService 资源池服务：查询直接透传，删除/导入/更新额外记录审计
type ResourceService struct {
	ResourceAPI
	audits *AuditService
}

// NewResourceService 创建资源池服务，audits 可为 nil
func NewResourceService(api ResourceAPI, audits *AuditService) *ResourceService {
	return &ResourceService{ResourceAPI: api, audits: audits}
}

// Remove 删除资源并记录审计
func (s *ResourceService) Remove(ctx context.Context, caller Caller, params dbresource.HostIDsParams) (dbresource.HostIDsParams, error) {
	start := time.Now()
	out, err := s.ResourceAPI.RemoveResource(changeContext(ctx), params)
	s.record(ctx, caller, model.AuditActionDelete, params.BkHostIDs, params, out, err, start)
	return out, err
}

// Import 导入资源并记录审计
func (s *ResourceService) Import(ctx context.Context, caller Caller, params dbresource.ImportParams) (json.RawMessage, error) {
	start := time.Now()
	out, err := s.ResourceAPI.ImportResource(changeContext(ctx), params)
	ids := make([]int, 0, len(params.Hosts))
	for _, h := range params.Hosts {
		ids = append(ids, h.HostID)
	}
	s.record(ctx, caller, model.AuditActionImport, ids, params, out, err, start)
	return out, err
}

// Update 更新资源并记录审计
func (s *ResourceService) Update(ctx context.Context, caller Caller, params dbresource.UpdateParams) (json.RawMessage, error) {
	start := time.Now()
	out, err := s.ResourceAPI.UpdateResource(changeContext(ctx), params)
	s.record(ctx, caller, model.AuditActionUpdate, params.BkHostIDs, params, out, err, start)
	return out, err
}

// changeContext 变更接口不忽略无权限错误，被拒绝的变更必须以错误返回并记为 denied
func changeContext(ctx context.Context) context.Context {
	return dbresource.WithPayload(ctx, dbresource.RequestPayload{Permission: dbresource.PermissionCatch})
}

// record 写审计失败只记日志，不影响业务结果
func (s *ResourceService) record(ctx context.Context, caller Caller, action string, hostIDs []int, req, resp interface{}, callErr error, start time.Time) {
	entry := logger.WithFields(logger.Fields(
		"action", action,
		"operator", caller.Operator,
		"request_id", caller.RequestID,
		"host_count", len(hostIDs),
	))
	if callErr != nil {
		entry.WithError(callErr).Warn("resource change failed")
	} else {
		entry.Info("resource changed")
	}
	if !s.audits.Enabled() {
		return
	}

	a := &model.ResourceAudit{
		RequestID: caller.RequestID,
		Operator:  caller.Operator,
		Action:    action,
		HostIDs:   joinIDs(hostIDs),
		HostCount: len(hostIDs),
		Request:   toJSON(req),
		Outcome:   model.AuditOutcomeSuccess,
		Duration:  time.Since(start).Milliseconds(),
	}
	if callErr != nil {
		applyCallError(a, callErr)
	} else {
		a.Response = toJSON(resp)
	}
	// 请求可能已被取消，审计仍需落库
	if err := s.audits.Record(context.WithoutCancel(ctx), a); err != nil {
		logger.Error("write resource audit failed", "action", action, "error", err)
	}
}

// applyCallError 按后台错误设置审计结果，无权限单独标记
func applyCallError(a *model.ResourceAudit, err error) {
	a.Outcome = model.AuditOutcomeFailed
	a.ErrorMsg = err.Error()
	if apiErr, ok := dbresource.IsAPIError(err); ok {
		a.ErrorCode = apiErr.Code
		if apiErr.IsPermissionDenied() {
			a.Outcome = model.AuditOutcomeDenied
		}
	}
}

func toJSON(v interface{}) string {
	if raw, ok := v.(json.RawMessage); ok {
		return string(raw)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
