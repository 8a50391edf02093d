package handler

import (
	"bufio"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/dbmconsole/dbmconsole/internal/config"
	"github.com/gin-gonic/gin"
)

// LogsHandler 服务日志查询
type LogsHandler struct{}

func NewLogsHandler() *LogsHandler { return &LogsHandler{} }

// TailLogs 返回日志文件末尾 N 行，可按关键字、级别、request_id 过滤
// @Router /api/v1/logs/tail [get]
func (h *LogsHandler) TailLogs(c *gin.Context) {
	cfg := config.Get()
	if cfg == nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Code: "CONFIG_MISSING", Message: "配置未初始化"})
		return
	}
	path := strings.TrimSpace(cfg.Log.FilePath)
	if path == "" || cfg.Log.Output == "console" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "LOG_FILE_DISABLED", Message: "未开启文件日志"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "200"))
	if limit <= 0 || limit > 1000 {
		limit = 200
	}
	filter := logFilter{
		keyword:   strings.ToLower(strings.TrimSpace(c.Query("q"))),
		level:     strings.ToLower(strings.TrimSpace(c.Query("level"))),
		requestID: strings.TrimSpace(c.Query("request_id")),
	}

	tail, err := tailLines(path, limit, filter.match)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Code: "READ_FAILED", Message: "读取日志失败: " + err.Error()})
		return
	}
	respondOK(c, gin.H{"path": path, "count": len(tail), "lines": tail})
}

type logFilter struct {
	keyword   string
	level     string
	requestID string
}

func (f logFilter) match(line string) bool {
	if f.requestID != "" && !strings.Contains(line, f.requestID) {
		return false
	}
	lc := strings.ToLower(line)
	if f.keyword != "" && !strings.Contains(lc, f.keyword) {
		return false
	}
	if f.level != "" {
		// json 与 text 两种格式
		if !strings.Contains(lc, `"level":"`+f.level+`"`) && !strings.Contains(lc, "level="+f.level) {
			return false
		}
	}
	return true
}

// tailLines 只保留最后 limit 条匹配行
func tailLines(path string, limit int, match func(string) bool) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ring := make([]string, 0, limit)
	next := 0
	s := bufio.NewScanner(f)
	s.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	for s.Scan() {
		line := s.Text()
		if !match(line) {
			continue
		}
		if len(ring) < limit {
			ring = append(ring, line)
			continue
		}
		ring[next] = line
		next = (next + 1) % limit
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return append(ring[next:], ring[:next]...), nil
}
