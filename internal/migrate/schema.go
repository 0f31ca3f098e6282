package migrate

import (
	"database/sql"

	"lotes-map/internal/logger"
)

// 背景：首次运行自动创建地块与账户表
// 约束：使用 IF NOT EXISTS 避免与既有结构冲突；seq 仅用于保持创建顺序
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS lotes (
            seq BIGSERIAL,
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            estado TEXT NOT NULL DEFAULT 'disponible',
            coords JSONB NOT NULL,
            altura DOUBLE PRECISION,
            reserved_by TEXT,
            reserved_at BIGINT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_lotes_seq ON lotes(seq)`,
		`CREATE INDEX IF NOT EXISTS idx_lotes_estado ON lotes(estado)`,
		`CREATE TABLE IF NOT EXISTS lote_users (
            email TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            password_hash BYTEA NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
	}
	for i, s := range stmts {
		logger.L().Debug("schema_exec", "idx", i)
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	logger.L().Debug("schema_done")
	return nil
}
