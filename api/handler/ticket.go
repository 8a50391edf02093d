package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dbmconsole/dbmconsole/internal/model/ticket/sqlserver"
	"github.com/gin-gonic/gin"
)

// TicketHandler 单据详情解析
type TicketHandler struct{}

// NewTicketHandler 创建单据处理器
func NewTicketHandler() *TicketHandler {
	return &TicketHandler{}
}

// DecodeRequest 单据详情解析请求
type DecodeRequest struct {
	TicketType string          `json:"ticket_type" binding:"required"`
	Details    json.RawMessage `json:"details"`
}

// DecodeResponse 解析结果
type DecodeResponse struct {
	TicketType        string            `json:"ticket_type"`
	RelatedClusterIDs []int             `json:"related_cluster_ids"`
	Details           sqlserver.Details `json:"details"`
}

// ListSQLServerTypes SQLServer 单据类型
// @Summary SQLServer 单据类型列表
// @Tags tickets
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /api/v1/tickets/sqlserver/types [get]
func (h *TicketHandler) ListSQLServerTypes(c *gin.Context) {
	types := sqlserver.TicketTypes()
	respondOK(c, gin.H{"count": len(types), "results": types})
}

// DecodeSQLServerDetails 按单据类型解析 details
// @Summary 解析 SQLServer 单据详情
// @Tags tickets
// @Accept json
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/tickets/sqlserver/details/decode [post]
func (h *TicketHandler) DecodeSQLServerDetails(c *gin.Context) {
	var req DecodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	details, err := sqlserver.Decode(req.TicketType, req.Details)
	if err != nil {
		if errors.Is(err, sqlserver.ErrUnknownTicketType) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Code:      "UNKNOWN_TICKET_TYPE",
				Message:   err.Error(),
				RequestID: c.GetString("request_id"),
			})
			return
		}
		badRequest(c, err)
		return
	}
	respondOK(c, DecodeResponse{
		TicketType:        details.TicketType(),
		RelatedClusterIDs: details.RelatedClusterIDs(),
		Details:           details,
	})
}
