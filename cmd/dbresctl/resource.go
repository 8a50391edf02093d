package main

import (
	"context"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dbmconsole/dbmconsole/pkg/dbresource"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const dataFlagUsage = "JSON 请求体，@path 读取文件，- 读取标准输入"

func readDataArg(cmd *cobra.Command, data string) ([]byte, error) {
	switch {
	case data == "":
		return nil, nil
	case data == "-":
		return io.ReadAll(cmd.InOrStdin())
	case strings.HasPrefix(data, "@"):
		raw, err := os.ReadFile(strings.TrimPrefix(data, "@"))
		return raw, errors.Wrap(err, "read --data file")
	default:
		return []byte(data), nil
	}
}

// parseHostIDs 解析 1,2,3
func parseHostIDs(s string) ([]int, error) {
	var ids []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, errors.Errorf("invalid host id %q", part)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, errors.New("at least one host id is required")
	}
	return ids, nil
}

// optionalInt flag 未设置时返回 nil
func optionalInt(cmd *cobra.Command, name string, v int) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

func newListCmd(o *rootOptions) *cobra.Command {
	var data string
	var filters map[string]string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "资源池主机列表",
		RunE: func(cmd *cobra.Command, args []string) error {
			params := map[string]interface{}{}
			if err := decodeJSONArg(cmd, data, &params); err != nil {
				return err
			}
			for k, v := range filters {
				if n, err := strconv.Atoi(v); err == nil {
					params[k] = n
					continue
				}
				params[k] = v
			}
			return o.run(func(ctx context.Context, c *dbresource.Client) (interface{}, error) {
				return c.FetchList(ctx, params)
			})(cmd, args)
		},
	}
	cmd.Flags().StringVarP(&data, "data", "d", "", dataFlagUsage)
	cmd.Flags().StringToStringVarP(&filters, "filter", "f", nil, "过滤条件，如 -f city=深圳 -f limit=10")
	return cmd
}

func newDeleteCmd(o *rootOptions) *cobra.Command {
	var hostIDs string
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "删除资源池主机",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseHostIDs(hostIDs)
			if err != nil {
				return err
			}
			return o.run(func(ctx context.Context, c *dbresource.Client) (interface{}, error) {
				return c.RemoveResource(ctx, dbresource.HostIDsParams{BkHostIDs: ids})
			})(cmd, args)
		},
	}
	cmd.Flags().StringVar(&hostIDs, "host-ids", "", "bk_host_id，逗号分隔")
	_ = cmd.MarkFlagRequired("host-ids")
	return cmd
}

func newImportCmd(o *rootOptions) *cobra.Command {
	var data string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "导入主机到资源池",
		RunE: func(cmd *cobra.Command, args []string) error {
			var params dbresource.ImportParams
			if err := decodeJSONArg(cmd, data, &params); err != nil {
				return err
			}
			if len(params.Hosts) == 0 {
				return errors.New("import requires at least one host")
			}
			return o.run(func(ctx context.Context, c *dbresource.Client) (interface{}, error) {
				return c.ImportResource(ctx, params)
			})(cmd, args)
		},
	}
	cmd.Flags().StringVarP(&data, "data", "d", "", dataFlagUsage)
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func newUpdateCmd(o *rootOptions) *cobra.Command {
	var data string
	cmd := &cobra.Command{
		Use:   "update",
		Short: "更新资源池主机属性",
		RunE: func(cmd *cobra.Command, args []string) error {
			var params dbresource.UpdateParams
			if err := decodeJSONArg(cmd, data, &params); err != nil {
				return err
			}
			return o.run(func(ctx context.Context, c *dbresource.Client) (interface{}, error) {
				return c.UpdateResource(ctx, params)
			})(cmd, args)
		},
	}
	cmd.Flags().StringVarP(&data, "data", "d", "", dataFlagUsage)
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func newDeviceClassCmd(o *rootOptions) *cobra.Command {
	var name string
	var offset, limit int
	cmd := &cobra.Command{
		Use:   "device-class",
		Short: "机型列表",
		RunE: func(cmd *cobra.Command, args []string) error {
			params := dbresource.DeviceClassParams{
				Name:   name,
				Offset: optionalInt(cmd, "offset", offset),
				Limit:  optionalInt(cmd, "limit", limit),
			}
			return o.run(func(ctx context.Context, c *dbresource.Client) (interface{}, error) {
				return c.FetchDeviceClass(ctx, params)
			})(cmd, args)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "机型名称")
	cmd.Flags().IntVar(&offset, "offset", 0, "")
	cmd.Flags().IntVar(&limit, "limit", 0, "")
	return cmd
}

func newDiskTypesCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "disk-types",
		Short: "磁盘类型",
		RunE: o.run(func(ctx context.Context, c *dbresource.Client) (interface{}, error) {
			return c.FetchDiskTypes(ctx)
		}),
	}
}

func newMountPointsCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mount-points",
		Short: "挂载点",
		RunE: o.run(func(ctx context.Context, c *dbresource.Client) (interface{}, error) {
			return c.FetchMountPoints(ctx)
		}),
	}
}

func newSubzonesCmd(o *rootOptions) *cobra.Command {
	var citys string
	cmd := &cobra.Command{
		Use:   "subzones",
		Short: "城市下的园区",
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(func(ctx context.Context, c *dbresource.Client) (interface{}, error) {
				return c.FetchSubzones(ctx, citys)
			})(cmd, args)
		},
	}
	cmd.Flags().StringVar(&citys, "citys", "", "逻辑城市，逗号分隔")
	_ = cmd.MarkFlagRequired("citys")
	return cmd
}

func newOsTypesCmd(o *rootOptions) *cobra.Command {
	var offset, limit int
	cmd := &cobra.Command{
		Use:   "os-types",
		Short: "操作系统类型",
		RunE: func(cmd *cobra.Command, args []string) error {
			params := dbresource.OsTypeParams{Offset: optionalInt(cmd, "offset", offset), Limit: optionalInt(cmd, "limit", limit)}
			return o.run(func(ctx context.Context, c *dbresource.Client) (interface{}, error) {
				return c.GetOsTypeList(ctx, params)
			})(cmd, args)
		},
	}
	cmd.Flags().IntVar(&offset, "offset", 0, "")
	cmd.Flags().IntVar(&limit, "limit", 0, "")
	return cmd
}

func newDbaHostsCmd(o *rootOptions) *cobra.Command {
	var params dbresource.ListDbaHostParams
	cmd := &cobra.Command{
		Use:   "dba-hosts",
		Short: "DBA 业务下可导入的主机",
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(func(ctx context.Context, c *dbresource.Client) (interface{}, error) {
				return c.FetchListDbaHost(ctx, params)
			})(cmd, args)
		},
	}
	cmd.Flags().IntVar(&params.Offset, "offset", 0, "")
	cmd.Flags().IntVar(&params.Limit, "limit", 10, "")
	cmd.Flags().StringVar(&params.SearchContent, "search", "", "IP 或主机名关键字")
	return cmd
}

func newQueryHostsCmd(o *rootOptions) *cobra.Command {
	var hostIDs string
	cmd := &cobra.Command{
		Use:   "query-hosts",
		Short: "按 bk_host_id 查询主机详情",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := parseHostIDs(hostIDs); err != nil {
				return err
			}
			return o.run(func(ctx context.Context, c *dbresource.Client) (interface{}, error) {
				return c.FetchHostListByHostID(ctx, dbresource.HostListByIDParams{BkHostIDs: hostIDs})
			})(cmd, args)
		},
	}
	cmd.Flags().StringVar(&hostIDs, "host-ids", "", "bk_host_id，逗号分隔")
	_ = cmd.MarkFlagRequired("host-ids")
	return cmd
}

func newImportTasksCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import-tasks",
		Short: "资源导入任务",
		RunE: o.run(func(ctx context.Context, c *dbresource.Client) (interface{}, error) {
			return c.FetchImportTask(ctx)
		}),
	}
}

func newOperationsCmd(o *rootOptions) *cobra.Command {
	var params dbresource.OperationListParams
	cmd := &cobra.Command{
		Use:   "operations",
		Short: "资源操作记录",
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(func(ctx context.Context, c *dbresource.Client) (interface{}, error) {
				return c.FetchOperationList(ctx, params)
			})(cmd, args)
		},
	}
	cmd.Flags().IntVar(&params.Offset, "offset", 0, "")
	cmd.Flags().IntVar(&params.Limit, "limit", 10, "")
	cmd.Flags().StringVar(&params.BeginTime, "begin", "", "开始时间 2006-01-02 15:04:05")
	cmd.Flags().StringVar(&params.EndTime, "end", "", "结束时间")
	return cmd
}

func newImportURLsCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import-urls",
		Short: "资源导入相关链接",
		RunE: o.run(func(ctx context.Context, c *dbresource.Client) (interface{}, error) {
			return c.FetchResourceImportURLs(ctx)
		}),
	}
}

func newSpecCountCmd(o *rootOptions) *cobra.Command {
	var data string
	cmd := &cobra.Command{
		Use:   "spec-count",
		Short: "各规格可用主机数",
		RunE: func(cmd *cobra.Command, args []string) error {
			var params dbresource.SpecResourceCountParams
			if err := decodeJSONArg(cmd, data, &params); err != nil {
				return err
			}
			return o.run(func(ctx context.Context, c *dbresource.Client) (interface{}, error) {
				return c.GetSpecResourceCount(ctx, params)
			})(cmd, args)
		},
	}
	cmd.Flags().StringVarP(&data, "data", "d", "", dataFlagUsage)
	_ = cmd.MarkFlagRequired("data")
	return cmd
}
