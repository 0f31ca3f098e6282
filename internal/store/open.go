package store

import (
	"database/sql"
	"fmt"

	"lotes-map/internal/logger"
	"lotes-map/internal/migrate"
	"lotes-map/internal/utils"
)

// Backend：按配置打开的仓库组合
type Backend struct {
	Parcels Repository
	Users   Users
	db      *sql.DB
}

func (b *Backend) Close() error {
	if b.db == nil {
		return nil
	}
	return b.db.Close()
}

// 文档注释：按名称打开存储
// 约束：postgres 时连接失败或建表失败返回错误；memory 只在当前进程内有效
func Open(kind string) (*Backend, error) {
	switch kind {
	case "memory":
		m := NewMemory()
		logger.L().Info("store_memory")
		return &Backend{Parcels: m, Users: m}, nil
	case "postgres", "":
		db, err := utils.OpenPostgresFromEnv()
		if err != nil {
			return nil, err
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, err
		}
		logger.L().Info("db_open_ok")
		if err := migrate.EnsureSchema(db); err != nil {
			db.Close()
			return nil, err
		}
		pg := AttachDB(db)
		return &Backend{Parcels: pg, Users: pg, db: db}, nil
	}
	return nil, fmt.Errorf("unknown STORE_BACKEND %q", kind)
}
