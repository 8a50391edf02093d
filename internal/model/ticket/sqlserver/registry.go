package sqlserver

import (
	"encoding/json"
	"sort"

	"github.com/pkg/errors"
)

// ErrUnknownTicketType 未注册的单据类型
var ErrUnknownTicketType = errors.New("unknown sqlserver ticket type")

var factories = map[string]func() Details{
	TicketTypeAddSlave:          func() Details { return &AddSlaveDetails{} },
	TicketTypeAuthorizeRules:    func() Details { return &AuthorizeRulesDetails{} },
	TicketTypeBackupDBs:         func() Details { return &BackupDBDetails{} },
	TicketTypeClearDBs:          func() Details { return &ClearDBsDetails{} },
	TicketTypeFullMigrate:       func() Details { return &DataMigrateDetails{Kind: TicketTypeFullMigrate} },
	TicketTypeIncrMigrate:       func() Details { return &DataMigrateDetails{Kind: TicketTypeIncrMigrate} },
	TicketTypeDBRename:          func() Details { return &DBRenameDetails{} },
	TicketTypeDestroy:           func() Details { return &DestroyDetails{} },
	TicketTypeDisable:           func() Details { return &DisableDetails{} },
	TicketTypeEnable:            func() Details { return &EnableDetails{} },
	TicketTypeHAApply:           func() Details { return &HaApplyDetails{} },
	TicketTypeImportSQLFile:     func() Details { return &ImportSQLFileDetails{} },
	TicketTypeMasterFailOver:    func() Details { return &MasterFailOverDetails{} },
	TicketTypeMasterSlaveSwitch: func() Details { return &MasterSlaveSwitchDetails{} },
	TicketTypeReset:             func() Details { return &ResetDetails{} },
	TicketTypeRestoreLocalSlave: func() Details { return &RestoreLocalSlaveDetails{} },
	TicketTypeRestoreSlave:      func() Details { return &RestoreSlaveDetails{} },
	TicketTypeRollback:          func() Details { return &RollbackDetails{} },
	TicketTypeSingleApply:       func() Details { return &SingleApplyDetails{} },
}

// TicketTypes 返回已注册的 SQLServer 单据类型（升序）
func TicketTypes() []string {
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// IsTicketType 是否为已注册的 SQLServer 单据类型
func IsTicketType(ticketType string) bool {
	_, ok := factories[ticketType]
	return ok
}

// Decode 按单据类型把原始 details 解析为对应的详情结构
func Decode(ticketType string, raw json.RawMessage) (Details, error) {
	factory, ok := factories[ticketType]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownTicketType, "%q", ticketType)
	}
	d := factory()
	if len(raw) == 0 || string(raw) == "null" {
		return d, nil
	}
	if err := json.Unmarshal(raw, d); err != nil {
		return nil, errors.Wrapf(err, "decode %s details", ticketType)
	}
	return d, nil
}
