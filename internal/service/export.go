package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dbmconsole/dbmconsole/internal/config"
	"github.com/dbmconsole/dbmconsole/internal/model"
	"github.com/dbmconsole/dbmconsole/internal/util"
	"github.com/dbmconsole/dbmconsole/pkg/dbresource"
	"github.com/dbmconsole/dbmconsole/pkg/logger"
	"github.com/google/uuid"
	"github.com/jszwec/csvutil"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// 导出格式
const (
	ExportFormatCSV  = "csv"
	ExportFormatJSON = "json"
)

// ErrInvalidExportRequest 导出参数不合法
var ErrInvalidExportRequest = errors.New("invalid export request")

// ExportRequest 资源池导出请求
type ExportRequest struct {
	// Filters 透传给资源池列表接口的过滤条件，limit/offset 由导出分页覆盖
	Filters  map[string]interface{} `json:"filters"`
	Format   string                 `json:"format"`
	Encoding string                 `json:"encoding"`
	Backend  string                 `json:"backend"`
}

// ExportResult 导出结果
type ExportResult struct {
	ExportID string       `json:"export_id"`
	Count    int          `json:"count"`
	Format   string       `json:"format"`
	Encoding string       `json:"encoding"`
	Object   StoredObject `json:"object"`
	// Warning 对象已写入但发生了降级（例如 MinIO 回退本地）
	Warning string `json:"warning,omitempty"`
}

// exportRow 导出的一行，列顺序即 CSV 表头顺序
type exportRow struct {
	BkHostID      int    `csv:"bk_host_id" json:"bk_host_id"`
	IP            string `csv:"ip" json:"ip"`
	BkCloudName   string `csv:"bk_cloud_name" json:"bk_cloud_name"`
	City          string `csv:"city" json:"city"`
	SubZone       string `csv:"sub_zone" json:"sub_zone"`
	RackID        string `csv:"rack_id" json:"rack_id"`
	DeviceClass   string `csv:"device_class" json:"device_class"`
	OSName        string `csv:"os_name" json:"os_name"`
	BkCPU         int    `csv:"bk_cpu" json:"bk_cpu"`
	BkMem         int    `csv:"bk_mem" json:"bk_mem"`
	DiskTotal     int    `csv:"disk_total" json:"disk_total"`
	StorageDevice string `csv:"storage_device" json:"storage_device"`
	ForBiz        string `csv:"for_biz" json:"for_biz"`
	ResourceType  string `csv:"resource_type" json:"resource_type"`
	AgentAlive    bool   `csv:"agent_alive" json:"agent_alive"`
	Labels        string `csv:"labels" json:"labels"`
	Status        string `csv:"status" json:"status"`
}

func newExportRow(r dbresource.DbResource) exportRow {
	return exportRow{
		BkHostID:      r.BkHostID,
		IP:            r.IP,
		BkCloudName:   util.EnsureUTF8(r.BkCloudName),
		City:          util.EnsureUTF8(r.City),
		SubZone:       util.EnsureUTF8(r.SubZone),
		RackID:        util.EnsureUTF8(r.RackID),
		DeviceClass:   r.DeviceClass,
		OSName:        r.OSName,
		BkCPU:         r.BkCPU,
		BkMem:         r.BkMem,
		DiskTotal:     r.DiskTotal(),
		StorageDevice: r.StorageDeviceDisplay(),
		ForBiz:        r.ForBizDisplay(),
		ResourceType:  r.ResourceTypeDisplay(),
		AgentAlive:    r.IsAgentAlive(),
		Labels:        strings.Join(r.LabelNames(), ";"),
		Status:        r.Status,
	}
}

// ExportService 资源池快照导出
type ExportService struct {
	api    ResourceAPI
	writer StorageWriter
	cfg    config.ExportConfig
	audits *AuditService
	now    func() time.Time
}

// NewExportService 创建导出服务
func NewExportService(api ResourceAPI, writer StorageWriter, cfg config.ExportConfig, audits *AuditService) *ExportService {
	return &ExportService{api: api, writer: writer, cfg: cfg, audits: audits, now: time.Now}
}

// Export 分页拉取资源池列表，编码后写入存储
func (s *ExportService) Export(ctx context.Context, caller Caller, req ExportRequest) (*ExportResult, error) {
	format := strings.ToLower(strings.TrimSpace(req.Format))
	if format == "" {
		format = s.cfg.Format
	}
	if format != ExportFormatCSV && format != ExportFormatJSON {
		return nil, errors.Wrapf(ErrInvalidExportRequest, "unsupported export format %q", req.Format)
	}
	encoding := strings.ToLower(strings.TrimSpace(req.Encoding))
	if encoding == "" {
		encoding = s.cfg.Encoding
	}
	if _, ok := util.Encoder(encoding); !ok {
		return nil, errors.Wrapf(ErrInvalidExportRequest, "unsupported export encoding %q", req.Encoding)
	}
	// 转码只作用于 CSV，JSON 始终是 UTF-8
	if format == ExportFormatJSON {
		encoding = "utf-8"
	}
	backend := strings.ToLower(strings.TrimSpace(req.Backend))
	if backend == "" {
		backend = s.cfg.StorageBackend
	}

	start := s.now()
	exportID := uuid.NewString()
	log := logger.WithFields(logger.Fields("export_id", exportID, "operator", caller.Operator, "format", format))

	rows, err := s.fetchAll(ctx, req.Filters)
	if err != nil {
		s.audit(ctx, caller, exportID, "", 0, err, start)
		return nil, err
	}

	data, contentType, err := encodeRows(rows, format, encoding)
	if err != nil {
		s.audit(ctx, caller, exportID, "", len(rows), err, start)
		return nil, err
	}

	obj, err := s.writer.Write(ctx, StorageMeta{
		ExportID:     exportID,
		Filename:     fmt.Sprintf("resources-%s.%s", start.Format("150405"), format),
		DateYYYYMMDD: start.Format("20060102"),
		Backend:      backend,
	}, data, contentType)

	result := &ExportResult{ExportID: exportID, Count: len(rows), Format: format, Encoding: encoding, Object: obj}
	var fallback *FallbackError
	switch {
	case errors.As(err, &fallback):
		result.Warning = fallback.Error()
		log.Warn(fallback.Error())
	case err != nil:
		s.audit(ctx, caller, exportID, "", len(rows), err, start)
		return nil, errors.Wrap(err, "write export")
	}

	log.WithField("uri", obj.URI).WithField("count", len(rows)).Info("resource pool exported")
	s.audit(ctx, caller, exportID, obj.URI, len(rows), nil, start)
	return result, nil
}

// fetchAll 先取第一页得到总数，其余页按并发上限并行拉取，结果保持页序
func (s *ExportService) fetchAll(ctx context.Context, filters map[string]interface{}) ([]exportRow, error) {
	pageSize := s.cfg.PageSize
	if pageSize <= 0 {
		pageSize = 200
	}

	first, err := s.api.FetchList(ctx, pageFilters(filters, 0, pageSize))
	if err != nil {
		return nil, errors.Wrap(err, "fetch resource page 0")
	}
	total := first.Count
	if total < len(first.Results) {
		total = len(first.Results)
	}
	pageCount := (total + pageSize - 1) / pageSize
	if pageCount == 0 {
		pageCount = 1
	}

	pages := make([][]dbresource.DbResource, pageCount)
	pages[0] = first.Results

	g, gctx := errgroup.WithContext(ctx)
	concurrency := s.cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	g.SetLimit(concurrency)
	for i := 1; i < pageCount; i++ {
		g.Go(func() error {
			page, err := s.api.FetchList(gctx, pageFilters(filters, i*pageSize, pageSize))
			if err != nil {
				return errors.Wrapf(err, "fetch resource page %d", i)
			}
			pages[i] = page.Results
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rows := make([]exportRow, 0, total)
	for _, page := range pages {
		for _, r := range page {
			rows = append(rows, newExportRow(r))
		}
	}
	return rows, nil
}

func pageFilters(filters map[string]interface{}, offset, limit int) map[string]interface{} {
	out := make(map[string]interface{}, len(filters)+2)
	for k, v := range filters {
		out[k] = v
	}
	out["offset"] = offset
	out["limit"] = limit
	return out
}

func encodeRows(rows []exportRow, format, encoding string) ([]byte, string, error) {
	if format == ExportFormatJSON {
		data, err := json.Marshal(rows)
		if err != nil {
			return nil, "", errors.Wrap(err, "encode json")
		}
		return data, "application/json; charset=utf-8", nil
	}

	var data []byte
	if len(rows) == 0 {
		header, err := csvutil.Header(exportRow{}, "csv")
		if err != nil {
			return nil, "", errors.Wrap(err, "encode csv header")
		}
		data = []byte(strings.Join(header, ",") + "\n")
	} else {
		var err error
		data, err = csvutil.Marshal(rows)
		if err != nil {
			return nil, "", errors.Wrap(err, "encode csv")
		}
	}
	data, err := util.Transcode(data, encoding)
	if err != nil {
		return nil, "", errors.Wrapf(err, "encode csv as %s", encoding)
	}
	charset := "utf-8"
	if e := strings.ToLower(encoding); e != "" && e != "utf8" {
		charset = e
	}
	return data, "text/csv; charset=" + charset, nil
}

func (s *ExportService) audit(ctx context.Context, caller Caller, exportID, uri string, count int, callErr error, start time.Time) {
	if !s.audits.Enabled() {
		return
	}
	a := &model.ResourceAudit{
		RequestID: caller.RequestID,
		Operator:  caller.Operator,
		Action:    model.AuditActionExport,
		HostCount: count,
		Request:   toJSON(map[string]string{"export_id": exportID}),
		Response:  uri,
		Outcome:   model.AuditOutcomeSuccess,
		Duration:  s.now().Sub(start).Milliseconds(),
	}
	if callErr != nil {
		applyCallError(a, callErr)
	}
	if err := s.audits.Record(context.WithoutCancel(ctx), a); err != nil {
		logger.Error("write export audit failed", "export_id", exportID, "error", err)
	}
}
