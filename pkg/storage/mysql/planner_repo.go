package mysql

import (
	"fmt"

	"github.com/LENAX/plan-engine/pkg/storage"
	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// NewPlannerRepoFromDSN 通过DSN创建MySQL Repository实例（对外导出）
// DSN需包含parseTime=true以正确解析时间列
func NewPlannerRepoFromDSN(dsn string) (*storage.PlannerRepo, error) {
	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("打开数据库失败: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("数据库连接失败: %w", err)
	}

	repo, err := storage.NewPlannerRepo(db, NewMySQLDialect())
	if err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}
