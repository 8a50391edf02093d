package router

import (
	"net/http"
	"time"

	"github.com/dbmconsole/dbmconsole/api/handler"
	"github.com/dbmconsole/dbmconsole/internal/service"
	"github.com/dbmconsole/dbmconsole/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Deps 路由依赖
type Deps struct {
	Mode      string
	Resources *service.ResourceService
	Exports   *service.ExportService
	Audits    *service.AuditService
	Forwarder *handler.Forwarder
	// DBCheck 审计库健康检查，可为 nil
	DBCheck func() error
}

// SetupRouter 设置路由
func SetupRouter(deps Deps) *gin.Engine {
	mode := deps.Mode
	if mode == "" {
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(CORSMiddleware())
	r.Use(RequestIDMiddleware())
	r.Use(LoggingMiddleware())

	metaHandler := handler.NewMetaHandler()
	ticketHandler := handler.NewTicketHandler()
	resourceHandler := handler.NewResourceHandler(deps.Resources, deps.Exports, deps.Forwarder)
	auditHandler := handler.NewAuditHandler(deps.Audits)
	healthHandler := handler.NewHealthHandler(deps.DBCheck)
	logsHandler := handler.NewLogsHandler()

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":    "DBM Console",
			"version": "1.0.0",
			"status":  "running",
		})
	})

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthHandler.Health)
		v1.GET("/logs/tail", logsHandler.TailLogs)

		metaGroup := v1.Group("/meta")
		{
			metaGroup.GET("/cluster-types", metaHandler.ListClusterTypes)
			metaGroup.GET("/cluster-types/:cluster_type", metaHandler.GetClusterType)
		}

		tickets := v1.Group("/tickets/sqlserver")
		{
			tickets.GET("/types", ticketHandler.ListSQLServerTypes)
			tickets.POST("/details/decode", ticketHandler.DecodeSQLServerDetails)
		}

		resources := v1.Group("/resources")
		{
			resources.POST("/list", resourceHandler.List)
			resources.POST("/delete", resourceHandler.Delete)
			resources.POST("/import", resourceHandler.Import)
			resources.POST("/update", resourceHandler.Update)
			resources.POST("/device-class", resourceHandler.DeviceClass)
			resources.POST("/spec-count", resourceHandler.SpecCount)
			resources.POST("/export", resourceHandler.Export)
			resources.GET("/disk-types", resourceHandler.DiskTypes)
			resources.GET("/mount-points", resourceHandler.MountPoints)
			resources.GET("/subzones", resourceHandler.Subzones)
			resources.GET("/os-types", resourceHandler.OsTypes)
			resources.GET("/dba-hosts", resourceHandler.DbaHosts)
			resources.GET("/dba-hosts/query", resourceHandler.QueryDbaHosts)
			resources.GET("/import-tasks", resourceHandler.ImportTasks)
			resources.GET("/operations", resourceHandler.Operations)
			resources.GET("/import-urls", resourceHandler.ImportURLs)
		}

		audits := v1.Group("/audits")
		{
			audits.GET("", auditHandler.List)
			audits.GET("/:id", auditHandler.Get)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    "NOT_FOUND",
			"message": "接口不存在",
			"path":    c.Request.URL.Path,
		})
	})

	return r
}

// CORSMiddleware 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRFToken, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID, X-Bk-Username, X-Bk-Tenant-Id")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// RequestIDMiddleware 请求ID中间件，缺省时生成 UUID
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-ID", requestID)
		c.Set("request_id", requestID)
		c.Next()
	}
}

// LoggingMiddleware 日志中间件
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		fields := []interface{}{
			"request_id", c.GetString("request_id"),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", duration,
			"client_ip", c.ClientIP(),
			"operator", c.GetHeader(handler.OperatorHeader),
		}
		if c.Writer.Status() >= 500 {
			logger.Error("HTTP Request", fields...)
			return
		}
		logger.Info("HTTP Request", fields...)
	}
}
