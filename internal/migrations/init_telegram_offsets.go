package migrations

import "database/sql"

func initTelegramOffsetsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE telegram_offsets (
			cache_key VARCHAR(255) PRIMARY KEY,
			update_id BIGINT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		);
	`)

	return err
}
