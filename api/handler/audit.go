package handler

import (
	"errors"
	"net/http"

	"github.com/dbmconsole/dbmconsole/internal/model"
	"github.com/dbmconsole/dbmconsole/internal/service"
	"github.com/dbmconsole/dbmconsole/pkg/logger"
	"github.com/gin-gonic/gin"
)

// AuditHandler 资源池变更审计查询
type AuditHandler struct {
	audits *service.AuditService
}

// NewAuditHandler 创建审计处理器
func NewAuditHandler(audits *service.AuditService) *AuditHandler {
	return &AuditHandler{audits: audits}
}

// List 审计记录列表
// @Summary 审计记录列表
// @Tags audits
// @Produce json
// @Param action query string false "delete/import/update/export"
// @Param operator query string false "操作人"
// @Param outcome query string false "success/failed/denied"
// @Param host_id query int false "主机 ID"
// @Success 200 {object} SuccessResponse
// @Router /api/v1/audits [get]
func (h *AuditHandler) List(c *gin.Context) {
	var q model.AuditQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	items, total, err := h.audits.List(c.Request.Context(), q)
	if err != nil {
		logger.Error("List audits failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:      "DB_ERROR",
			Message:   err.Error(),
			RequestID: c.GetString("request_id"),
		})
		return
	}
	respondOK(c, gin.H{"count": total, "results": items})
}

// Get 单条审计记录
// @Router /api/v1/audits/{id} [get]
func (h *AuditHandler) Get(c *gin.Context) {
	item, err := h.audits.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, service.ErrAuditNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Code: "AUDIT_NOT_FOUND", Message: err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Code: "DB_ERROR", Message: err.Error()})
		return
	}
	respondOK(c, item)
}
