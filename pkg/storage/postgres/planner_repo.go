package postgres

import (
	"fmt"

	"github.com/LENAX/plan-engine/pkg/storage"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// NewPlannerRepoFromDSN 通过DSN创建PostgreSQL Repository实例（对外导出）
func NewPlannerRepoFromDSN(dsn string) (*storage.PlannerRepo, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("打开数据库失败: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("数据库连接失败: %w", err)
	}

	repo, err := storage.NewPlannerRepo(db, NewPostgresDialect())
	if err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}
