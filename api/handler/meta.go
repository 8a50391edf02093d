package handler

import (
	"net/http"

	"github.com/dbmconsole/dbmconsole/internal/meta"
	"github.com/gin-gonic/gin"
)

// MetaHandler 集群类型元数据
type MetaHandler struct{}

// NewMetaHandler 创建元数据处理器
func NewMetaHandler() *MetaHandler {
	return &MetaHandler{}
}

// ListClusterTypes 集群类型列表
// @Summary 集群类型列表
// @Tags meta
// @Produce json
// @Param db_type query string false "按数据库类型过滤"
// @Param module query string false "按模块过滤"
// @Success 200 {object} SuccessResponse
// @Router /api/v1/meta/cluster-types [get]
func (h *MetaHandler) ListClusterTypes(c *gin.Context) {
	dbType := meta.DBType(c.Query("db_type"))
	module := meta.ModuleID(c.Query("module"))

	items := make([]meta.ClusterTypeInfoItem, 0)
	for _, item := range meta.ListClusterTypeInfos() {
		if dbType != "" && item.DBType != dbType {
			continue
		}
		if module != "" && item.ModuleID != module {
			continue
		}
		items = append(items, item)
	}
	respondOK(c, gin.H{
		"count":    len(items),
		"results":  items,
		"db_types": meta.DBTypes(),
	})
}

// GetClusterType 单个集群类型
// @Summary 获取集群类型信息
// @Tags meta
// @Produce json
// @Param cluster_type path string true "集群类型"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/meta/cluster-types/{cluster_type} [get]
func (h *MetaHandler) GetClusterType(c *gin.Context) {
	ct, err := meta.ParseClusterType(c.Param("cluster_type"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Code:    "CLUSTER_TYPE_NOT_FOUND",
			Message: err.Error(),
		})
		return
	}
	respondOK(c, meta.MustClusterTypeInfo(ct))
}
