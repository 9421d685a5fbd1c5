package storage

import (
	"fmt"

	"github.com/LENAX/plan-engine/pkg/storage"
	"github.com/LENAX/plan-engine/pkg/storage/mysql"
	"github.com/LENAX/plan-engine/pkg/storage/postgres"
	"github.com/LENAX/plan-engine/pkg/storage/sqlite"
)

// NewPlannerRepo 按数据库类型创建Repository（内部方法）
// dbType: 数据库类型（sqlite/mysql/postgres）
// dsn: 数据库连接字符串
func NewPlannerRepo(dbType, dsn string) (*storage.PlannerRepo, error) {
	switch dbType {
	case "sqlite":
		return sqlite.NewPlannerRepoFromDSN(dsn)
	case "mysql":
		return mysql.NewPlannerRepoFromDSN(dsn)
	case "postgres", "postgresql":
		return postgres.NewPlannerRepoFromDSN(dsn)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", dbType)
	}
}
