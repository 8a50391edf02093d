package handler

import (
	"errors"

	"github.com/dbmconsole/dbmconsole/internal/service"
	"github.com/dbmconsole/dbmconsole/pkg/dbresource"
	"github.com/gin-gonic/gin"
)

// ResourceHandler 资源池接口
type ResourceHandler struct {
	resources *service.ResourceService
	exports   *service.ExportService
	forwarder *Forwarder
}

// NewResourceHandler 创建资源池处理器
func NewResourceHandler(resources *service.ResourceService, exports *service.ExportService, forwarder *Forwarder) *ResourceHandler {
	return &ResourceHandler{resources: resources, exports: exports, forwarder: forwarder}
}

// List 资源池列表
// @Summary 资源池主机列表
// @Tags resources
// @Accept json
// @Produce json
// @Param permission query string false "ignore 时忽略无权限错误"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/v1/resources/list [post]
func (h *ResourceHandler) List(c *gin.Context) {
	params := map[string]interface{}{}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&params); err != nil {
			badRequest(c, err)
			return
		}
	}
	out, err := h.resources.FetchList(h.forwarder.Context(c), params)
	if err != nil {
		upstreamError(c, err)
		return
	}
	respondOK(c, out)
}

// Delete 删除资源
// @Router /api/v1/resources/delete [post]
func (h *ResourceHandler) Delete(c *gin.Context) {
	var params dbresource.HostIDsParams
	if err := c.ShouldBindJSON(&params); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.resources.Remove(h.forwarder.Context(c), caller(c), params)
	if err != nil {
		upstreamError(c, err)
		return
	}
	respondOK(c, out)
}

// Import 导入资源
// @Router /api/v1/resources/import [post]
func (h *ResourceHandler) Import(c *gin.Context) {
	var params dbresource.ImportParams
	if err := c.ShouldBindJSON(&params); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.resources.Import(h.forwarder.Context(c), caller(c), params)
	if err != nil {
		upstreamError(c, err)
		return
	}
	respondOK(c, out)
}

// Update 更新资源
// @Router /api/v1/resources/update [post]
func (h *ResourceHandler) Update(c *gin.Context) {
	var params dbresource.UpdateParams
	if err := c.ShouldBindJSON(&params); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.resources.Update(h.forwarder.Context(c), caller(c), params)
	if err != nil {
		upstreamError(c, err)
		return
	}
	respondOK(c, out)
}

// DeviceClass 机型列表
// @Router /api/v1/resources/device-class [post]
func (h *ResourceHandler) DeviceClass(c *gin.Context) {
	var params dbresource.DeviceClassParams
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&params); err != nil {
			badRequest(c, err)
			return
		}
	}
	out, err := h.resources.FetchDeviceClass(h.forwarder.Context(c), params)
	if err != nil {
		upstreamError(c, err)
		return
	}
	respondOK(c, out)
}

// SpecCount 规格可用主机数
// @Router /api/v1/resources/spec-count [post]
func (h *ResourceHandler) SpecCount(c *gin.Context) {
	var params dbresource.SpecResourceCountParams
	if err := c.ShouldBindJSON(&params); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.resources.GetSpecResourceCount(h.forwarder.Context(c), params)
	if err != nil {
		upstreamError(c, err)
		return
	}
	respondOK(c, out)
}

// Export 导出资源池快照
// @Router /api/v1/resources/export [post]
func (h *ResourceHandler) Export(c *gin.Context) {
	var req service.ExportRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}
	out, err := h.exports.Export(h.forwarder.Context(c), caller(c), req)
	if errors.Is(err, service.ErrInvalidExportRequest) {
		badRequest(c, err)
		return
	}
	if err != nil {
		upstreamError(c, err)
		return
	}
	respondOK(c, out)
}

// DiskTypes 磁盘类型
// @Router /api/v1/resources/disk-types [get]
func (h *ResourceHandler) DiskTypes(c *gin.Context) {
	out, err := h.resources.FetchDiskTypes(h.forwarder.Context(c))
	if err != nil {
		upstreamError(c, err)
		return
	}
	respondOK(c, out)
}

// MountPoints 挂载点
// @Router /api/v1/resources/mount-points [get]
func (h *ResourceHandler) MountPoints(c *gin.Context) {
	out, err := h.resources.FetchMountPoints(h.forwarder.Context(c))
	if err != nil {
		upstreamError(c, err)
		return
	}
	respondOK(c, out)
}

// Subzones 城市下的园区
// @Router /api/v1/resources/subzones [get]
func (h *ResourceHandler) Subzones(c *gin.Context) {
	out, err := h.resources.FetchSubzones(h.forwarder.Context(c), c.Query("citys"))
	if err != nil {
		upstreamError(c, err)
		return
	}
	respondOK(c, out)
}

// OsTypes 操作系统类型
// @Router /api/v1/resources/os-types [get]
func (h *ResourceHandler) OsTypes(c *gin.Context) {
	var params dbresource.OsTypeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.resources.GetOsTypeList(h.forwarder.Context(c), params)
	if err != nil {
		upstreamError(c, err)
		return
	}
	respondOK(c, out)
}

// DbaHosts DBA 业务下可导入主机
// @Router /api/v1/resources/dba-hosts [get]
func (h *ResourceHandler) DbaHosts(c *gin.Context) {
	var params dbresource.ListDbaHostParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.resources.FetchListDbaHost(h.forwarder.Context(c), params)
	if err != nil {
		upstreamError(c, err)
		return
	}
	respondOK(c, out)
}

// QueryDbaHosts 按主机 ID 查询
// @Router /api/v1/resources/dba-hosts/query [get]
func (h *ResourceHandler) QueryDbaHosts(c *gin.Context) {
	var params dbresource.HostListByIDParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.resources.FetchHostListByHostID(h.forwarder.Context(c), params)
	if err != nil {
		upstreamError(c, err)
		return
	}
	respondOK(c, out)
}

// ImportTasks 导入任务
// @Router /api/v1/resources/import-tasks [get]
func (h *ResourceHandler) ImportTasks(c *gin.Context) {
	out, err := h.resources.FetchImportTask(h.forwarder.Context(c))
	if err != nil {
		upstreamError(c, err)
		return
	}
	respondOK(c, out)
}

// operationView 操作记录附带展示字段
type operationView struct {
	dbresource.Operation
	OperationTypeText string `json:"operation_type_text"`
	StatusText        string `json:"status_text"`
	IsRunning         bool   `json:"is_running"`
}

// Operations 资源操作记录
// @Router /api/v1/resources/operations [get]
func (h *ResourceHandler) Operations(c *gin.Context) {
	var params dbresource.OperationListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.resources.FetchOperationList(h.forwarder.Context(c), params)
	if err != nil {
		upstreamError(c, err)
		return
	}
	views := make([]operationView, 0, len(out.Results))
	for _, op := range out.Results {
		views = append(views, operationView{
			Operation:         op,
			OperationTypeText: op.OperationTypeText(),
			StatusText:        op.StatusText(),
			IsRunning:         op.IsRunning(),
		})
	}
	respondOK(c, dbresource.ListBase[operationView]{
		Count:      out.Count,
		Next:       out.Next,
		Previous:   out.Previous,
		Results:    views,
		Permission: out.Permission,
	})
}

// ImportURLs 导入相关跳转链接
// @Router /api/v1/resources/import-urls [get]
func (h *ResourceHandler) ImportURLs(c *gin.Context) {
	out, err := h.resources.FetchResourceImportURLs(h.forwarder.Context(c))
	if err != nil {
		upstreamError(c, err)
		return
	}
	respondOK(c, out)
}
