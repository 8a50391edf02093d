package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/dbmconsole/dbmconsole/internal/service"
	"github.com/dbmconsole/dbmconsole/pkg/dbresource"
	"github.com/dbmconsole/dbmconsole/pkg/logger"
	"github.com/gin-gonic/gin"
)

// ErrorResponse 错误响应
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// UpstreamCode 资源池后台返回的业务错误码
	UpstreamCode int    `json:"upstream_code,omitempty"`
	RequestID    string `json:"request_id,omitempty"`
}

// SuccessResponse 成功响应
type SuccessResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// OperatorHeader 操作人请求头
const OperatorHeader = "X-Bk-Username"

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{Code: "SUCCESS", Message: "OK", Data: data})
}

func badRequest(c *gin.Context, err error) {
	logger.Warn("Invalid request parameters", "path", c.Request.URL.Path, "error", err)
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Code:      "INVALID_PARAMS",
		Message:   "请求参数无效: " + err.Error(),
		RequestID: c.GetString("request_id"),
	})
}

// upstreamError 后台业务错误映射为 502，无权限映射为 403，其它为 500
func upstreamError(c *gin.Context, err error) {
	requestID := c.GetString("request_id")
	if apiErr, isAPI := dbresource.IsAPIError(err); isAPI {
		status, code := http.StatusBadGateway, "UPSTREAM_ERROR"
		if apiErr.IsPermissionDenied() {
			status, code = http.StatusForbidden, "PERMISSION_DENIED"
		}
		logger.Error("Upstream request failed",
			"request_id", requestID,
			"upstream_path", apiErr.Path,
			"upstream_status", apiErr.Status,
			"upstream_code", apiErr.Code,
			"error", apiErr.Message,
		)
		c.JSON(status, ErrorResponse{
			Code:         code,
			Message:      apiErr.Message,
			UpstreamCode: apiErr.Code,
			RequestID:    requestID,
		})
		return
	}
	logger.Error("Request failed", "request_id", requestID, "path", c.Request.URL.Path, "error", err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Code:      "INTERNAL_ERROR",
		Message:   err.Error(),
		RequestID: requestID,
	})
}

// caller 从请求中取操作人
func caller(c *gin.Context) service.Caller {
	return service.Caller{
		Operator:  strings.TrimSpace(c.GetHeader(OperatorHeader)),
		RequestID: c.GetString("request_id"),
	}
}

// Forwarder 把入站请求的部分头透传到资源池后台
type Forwarder struct {
	headers []string
}

// NewForwarder 创建透传器，headers 为需要透传的请求头
func NewForwarder(headers []string) *Forwarder {
	return &Forwarder{headers: headers}
}

// Context 返回带有透传头与权限模式的 ctx；?permission=ignore 时忽略无权限错误
func (f *Forwarder) Context(c *gin.Context) context.Context {
	payload := dbresource.RequestPayload{Headers: map[string]string{}}
	if f != nil {
		for _, h := range f.headers {
			if v := c.GetHeader(h); v != "" {
				payload.Headers[h] = v
			}
		}
	}
	if id := c.GetString("request_id"); id != "" {
		payload.Headers["X-Request-Id"] = id
	}
	if strings.EqualFold(c.Query("permission"), string(dbresource.PermissionIgnore)) {
		payload.Permission = dbresource.PermissionIgnore
	}
	return dbresource.WithPayload(c.Request.Context(), payload)
}
