package handler

import (
	"net/http"

	"github.com/dbmconsole/dbmconsole/internal/meta"
	"github.com/dbmconsole/dbmconsole/internal/model/ticket/sqlserver"
	"github.com/gin-gonic/gin"
)

// HealthHandler 健康检查
type HealthHandler struct {
	// dbCheck 审计库连通性检查，nil 表示未启用审计库
	dbCheck func() error
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(dbCheck func() error) *HealthHandler {
	return &HealthHandler{dbCheck: dbCheck}
}

// Health 服务状态
// @Summary 健康检查
// @Tags system
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/v1/health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	stats := gin.H{
		"running":       true,
		"cluster_types": len(meta.ListClusterTypeInfos()),
		"ticket_types":  len(sqlserver.TicketTypes()),
		"database":      "disabled",
	}
	if h.dbCheck != nil {
		if err := h.dbCheck(); err != nil {
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{
				Code:    "SERVICE_UNAVAILABLE",
				Message: "审计库不可用: " + err.Error(),
			})
			return
		}
		stats["database"] = "ok"
	}
	c.JSON(http.StatusOK, SuccessResponse{
		Code:    "SUCCESS",
		Message: "服务正常",
		Data:    stats,
	})
}
