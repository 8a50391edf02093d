package main

import (
	"fmt"
	"strings"

	"github.com/dbmconsole/dbmconsole/internal/meta"
	"github.com/dbmconsole/dbmconsole/internal/model/ticket/sqlserver"
	"github.com/spf13/cobra"
)

func newClusterTypesCmd(o *rootOptions) *cobra.Command {
	var dbType, module string
	cmd := &cobra.Command{
		Use:   "cluster-types",
		Short: "集群类型及其机器类型",
		RunE: func(cmd *cobra.Command, _ []string) error {
			items := make([]meta.ClusterTypeInfoItem, 0)
			for _, item := range meta.ListClusterTypeInfos() {
				if dbType != "" && string(item.DBType) != dbType {
					continue
				}
				if module != "" && string(item.ModuleID) != module {
					continue
				}
				items = append(items, item)
			}
			if o.output != outputText {
				return o.print(cmd.OutOrStdout(), items)
			}
			for _, item := range items {
				machines := make([]string, 0, len(item.MachineList))
				for _, m := range item.MachineList {
					machines = append(machines, string(m.ID))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", item.ID, item.DBType, item.Name, strings.Join(machines, ","))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dbType, "db-type", "", "按数据库类型过滤")
	cmd.Flags().StringVar(&module, "module", "", "按模块过滤")
	return cmd
}

func newTicketTypesCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ticket-types",
		Short: "SQLServer 单据类型",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.print(cmd.OutOrStdout(), sqlserver.TicketTypes())
		},
	}
}
