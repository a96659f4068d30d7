package migrations

import "github.com/lopezator/migrator"

var Migrations = []any{
	&migrator.MigrationNoTx{
		Name: "Init telegram offsets table",
		Func: initTelegramOffsetsTable,
	},
}
