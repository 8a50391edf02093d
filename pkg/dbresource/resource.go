package dbresource

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
)

// RemoveResource 资源删除
func (c *Client) RemoveResource(ctx context.Context, params HostIDsParams) (HostIDsParams, error) {
	var out HostIDsParams
	err := c.post(ctx, "/delete/", params, &out)
	return out, err
}

// FetchDeviceClass 获取机型列表
func (c *Client) FetchDeviceClass(ctx context.Context, params DeviceClassParams) (ListBase[DeviceClass], error) {
	var out ListBase[DeviceClass]
	err := c.post(ctx, "/get_device_class/", params, &out)
	return out, err
}

// FetchDiskTypes 获取磁盘类型
func (c *Client) FetchDiskTypes(ctx context.Context) ([]string, error) {
	var out []string
	err := c.get(ctx, "/get_disktypes/", nil, &out)
	return out, err
}

// FetchMountPoints 获取挂载点
func (c *Client) FetchMountPoints(ctx context.Context) ([]string, error) {
	var out []string
	err := c.get(ctx, "/get_mountpoints/", nil, &out)
	return out, err
}

// FetchSubzones 根据逻辑城市查询园区
func (c *Client) FetchSubzones(ctx context.Context, citys string) ([]string, error) {
	var out []string
	err := c.get(ctx, "/get_subzones/", url.Values{"citys": {citys}}, &out)
	return out, err
}

// ImportResource 资源池导入
func (c *Client) ImportResource(ctx context.Context, params ImportParams) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.post(ctx, "/import/", params, &out)
	return out, err
}

// FetchList 资源池列表，列表级权限会复制到每一条记录
func (c *Client) FetchList(ctx context.Context, params map[string]interface{}, payload ...RequestPayload) (ListBase[DbResource], error) {
	if params == nil {
		params = map[string]interface{}{}
	}
	var out ListBase[DbResource]
	if err := c.post(ctx, "/list/", params, &out, payload...); err != nil {
		return out, err
	}
	for i := range out.Results {
		out.Results[i].Permission = out.Permission
	}
	return out, nil
}

// dbaHostPage list_dba_hosts 的原始分页结构
type dbaHostPage struct {
	Total int          `json:"total"`
	Data  []ImportHost `json:"data"`
}

// FetchListDbaHost 获取 DBA 业务下的主机信息，{total, data} 转为 {count, results}
func (c *Client) FetchListDbaHost(ctx context.Context, params ListDbaHostParams) (ListBase[ImportHost], error) {
	query := url.Values{
		"search_content": {params.SearchContent},
		"start":          {strconv.Itoa(params.Offset)},
		"page_size":      {strconv.Itoa(params.Limit)},
	}
	var page dbaHostPage
	if err := c.get(ctx, "/list_dba_hosts/", query, &page); err != nil {
		return ListBase[ImportHost]{}, err
	}
	results := page.Data
	if results == nil {
		results = []ImportHost{}
	}
	return ListBase[ImportHost]{Count: page.Total, Results: results}, nil
}

// FetchHostListByHostID 查询 DBA 业务下的主机信息
func (c *Client) FetchHostListByHostID(ctx context.Context, params HostListByIDParams) ([]HostDetails, error) {
	var out []HostDetails
	err := c.get(ctx, "/query_dba_hosts/", url.Values{"bk_host_ids": {params.BkHostIDs}}, &out)
	return out, err
}

// FetchImportTask 查询资源导入任务
func (c *Client) FetchImportTask(ctx context.Context) (ImportTasks, error) {
	var out ImportTasks
	err := c.get(ctx, "/query_import_tasks/", nil, &out)
	return out, err
}

// FetchOperationList 查询资源操作记录
func (c *Client) FetchOperationList(ctx context.Context, params OperationListParams, payload ...RequestPayload) (ListBase[Operation], error) {
	query := url.Values{
		"limit":      {strconv.Itoa(params.Limit)},
		"offset":     {strconv.Itoa(params.Offset)},
		"begin_time": {params.BeginTime},
		"end_time":   {params.EndTime},
	}
	var out ListBase[Operation]
	if err := c.get(ctx, "/query_operation_list/", query, &out, payload...); err != nil {
		return out, err
	}
	for i, item := range out.Results {
		out.Results[i] = NewOperation(item)
	}
	return out, nil
}

// FetchResourceImportURLs 获取资源导入相关链接
func (c *Client) FetchResourceImportURLs(ctx context.Context) (ImportURLs, error) {
	var out ImportURLs
	err := c.get(ctx, "/resource_import_urls/", nil, &out)
	return out, err
}

// GetSpecResourceCount 获取规格主机数量，key 为规格 ID
func (c *Client) GetSpecResourceCount(ctx context.Context, params SpecResourceCountParams) (map[int]int, error) {
	var out map[int]int
	err := c.post(ctx, "/spec_resource_count/", params, &out)
	return out, err
}

// UpdateResource 更新资源
func (c *Client) UpdateResource(ctx context.Context, params UpdateParams) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.post(ctx, "/update/", params, &out)
	return out, err
}

// GetOsTypeList 获取操作系统类型
func (c *Client) GetOsTypeList(ctx context.Context, params OsTypeParams) ([]string, error) {
	query := url.Values{}
	if params.Offset != nil {
		query.Set("offset", strconv.Itoa(*params.Offset))
	}
	if params.Limit != nil {
		query.Set("limit", strconv.Itoa(*params.Limit))
	}
	var out []string
	err := c.get(ctx, "/get_os_types/", query, &out)
	return out, err
}
