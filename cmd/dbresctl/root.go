package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dbmconsole/dbmconsole/internal/config"
	"github.com/dbmconsole/dbmconsole/pkg/dbresource"
	"github.com/dbmconsole/dbmconsole/pkg/logger"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// 输出格式
const (
	outputJSON = "json"
	outputText = "text"
)

// rootOptions 全局参数
type rootOptions struct {
	configPath       string
	baseURL          string
	timeout          time.Duration
	headers          map[string]string
	permissionIgnore bool
	output           string
	verbose          bool

	client *dbresource.Client
}

// NewRootCmd 创建 dbresctl 根命令
func NewRootCmd(version, commit, date string) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "dbresctl",
		Short:         "dbresctl 调用 DBM 资源池接口（/apis/dbresource/resource）",
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.Version = fmt.Sprintf("%s (Built on %s from Git SHA %s)", version, date, commit)

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "配置文件路径，缺省时查找 ./configs/config.yaml")
	flags.StringVar(&opts.baseURL, "base-url", "", "DBM 后台地址，覆盖配置 upstream.base_url")
	flags.DurationVar(&opts.timeout, "timeout", 0, "请求超时，覆盖配置 upstream.timeout")
	flags.StringToStringVarP(&opts.headers, "header", "H", nil, "附加请求头，如 -H X-Bk-Tenant-Id=default")
	flags.BoolVar(&opts.permissionIgnore, "permission-ignore", false, "忽略无权限错误")
	flags.StringVarP(&opts.output, "output", "o", outputJSON, "输出格式 json|text")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "输出调试日志")

	cmd.AddCommand(
		newListCmd(opts),
		newDeleteCmd(opts),
		newImportCmd(opts),
		newUpdateCmd(opts),
		newDeviceClassCmd(opts),
		newDiskTypesCmd(opts),
		newMountPointsCmd(opts),
		newSubzonesCmd(opts),
		newOsTypesCmd(opts),
		newDbaHostsCmd(opts),
		newQueryHostsCmd(opts),
		newImportTasksCmd(opts),
		newOperationsCmd(opts),
		newImportURLsCmd(opts),
		newSpecCountCmd(opts),
		newClusterTypesCmd(opts),
		newTicketTypesCmd(opts),
	)
	return cmd
}

// clientFor 按配置文件与命令行参数构建客户端
func (o *rootOptions) clientFor() (*dbresource.Client, error) {
	if o.client != nil {
		return o.client, nil
	}
	level := "warn"
	if o.verbose {
		level = "debug"
	}
	if err := logger.Init(logger.Config{Level: level, Format: "text", Output: "console"}); err != nil {
		return nil, err
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	up := cfg.Upstream
	if o.baseURL != "" {
		up.BaseURL = strings.TrimRight(o.baseURL, "/")
	}
	if o.timeout > 0 {
		up.Timeout = o.timeout
	}
	headers := map[string]string{}
	for k, v := range up.Headers {
		headers[k] = v
	}
	for k, v := range o.headers {
		headers[k] = v
	}
	logger.Debug("dbresource client", "base_url", up.BaseURL, "timeout", up.Timeout, "headers", len(headers))

	o.client = dbresource.New(dbresource.Config{BaseURL: up.BaseURL, Timeout: up.Timeout, Headers: headers})
	return o.client, nil
}

// context 命令上下文，附带权限模式
func (o *rootOptions) context(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if o.permissionIgnore {
		ctx = dbresource.WithPayload(ctx, dbresource.RequestPayload{Permission: dbresource.PermissionIgnore})
	}
	return ctx
}

// print 按输出格式打印结果；text 模式下字符串切片逐行输出
func (o *rootOptions) print(w io.Writer, v interface{}) error {
	switch o.output {
	case outputText:
		if lines, ok := v.([]string); ok {
			for _, l := range lines {
				if _, err := fmt.Fprintln(w, l); err != nil {
					return err
				}
			}
			return nil
		}
		_, err := fmt.Fprintf(w, "%+v\n", v)
		return err
	case outputJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return errors.Errorf("unsupported output %q", o.output)
	}
}

// run 包装需要客户端的子命令
func (o *rootOptions) run(fn func(ctx context.Context, c *dbresource.Client) (interface{}, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		c, err := o.clientFor()
		if err != nil {
			return err
		}
		out, err := fn(o.context(cmd), c)
		if err != nil {
			return err
		}
		return o.print(cmd.OutOrStdout(), out)
	}
}

// decodeJSONArg 解析 --data 参数，以 @ 开头时从文件读取
func decodeJSONArg(cmd *cobra.Command, data string, out interface{}) error {
	raw, err := readDataArg(cmd, data)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}
	return errors.Wrap(json.Unmarshal(raw, out), "parse --data")
}
