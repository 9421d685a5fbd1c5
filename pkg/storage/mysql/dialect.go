package mysql

import (
	"fmt"
	"strings"
)

// MySQLDialect MySQL方言实现（对外导出）
type MySQLDialect struct{}

// NewMySQLDialect 创建MySQL方言实例
func NewMySQLDialect() *MySQLDialect {
	return &MySQLDialect{}
}

// Name 返回方言名称
func (d *MySQLDialect) Name() string {
	return "mysql"
}

// UpsertSQL 返回MySQL的UPSERT语句（使用ON DUPLICATE KEY UPDATE）
func (d *MySQLDialect) UpsertSQL(tableName string, columns []string, conflictColumn string, updateColumns []string) string {
	namedPlaceholders := make([]string, len(columns))
	for i, col := range columns {
		namedPlaceholders[i] = ":" + col
	}

	updateParts := make([]string, len(updateColumns))
	for i, col := range updateColumns {
		updateParts[i] = fmt.Sprintf("%s = VALUES(%s)", col, col)
	}

	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON DUPLICATE KEY UPDATE %s",
		tableName,
		strings.Join(columns, ", "),
		strings.Join(namedPlaceholders, ", "),
		strings.Join(updateParts, ", "),
	)
}

// CreateTableSQL 转换基准DDL为MySQL兼容格式
func (d *MySQLDialect) CreateTableSQL(schema string) string {
	result := schema

	// MySQL的TEXT列不支持默认值，主键列需要定长类型
	result = strings.ReplaceAll(result, "TEXT PRIMARY KEY", "VARCHAR(191) PRIMARY KEY")
	result = strings.ReplaceAll(result, "id TEXT NOT NULL", "id VARCHAR(191) NOT NULL")
	result = strings.ReplaceAll(result, "project_id TEXT NOT NULL", "project_id VARCHAR(191) NOT NULL")
	result = strings.ReplaceAll(result, "TEXT NOT NULL DEFAULT ''", "VARCHAR(512) NOT NULL DEFAULT ''")
	result = strings.ReplaceAll(result, "TEXT NOT NULL DEFAULT '[]'", "TEXT NOT NULL")
	result = strings.ReplaceAll(result, "REAL", "DOUBLE")

	// MySQL不支持 CREATE INDEX IF NOT EXISTS，重复建索引会报错，直接跳过辅助索引
	if strings.HasPrefix(strings.TrimSpace(result), "CREATE INDEX IF NOT EXISTS") {
		return ""
	}

	if strings.Contains(result, "CREATE TABLE") && !strings.Contains(result, "ENGINE=") {
		result = strings.TrimRight(strings.TrimSpace(result), ";") + " ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;"
	}

	return result
}

// ConfigureDB 返回MySQL会话配置SQL
func (d *MySQLDialect) ConfigureDB() []string {
	return []string{
		"SET SESSION sql_mode='STRICT_TRANS_TABLES,NO_ZERO_IN_DATE,NO_ZERO_DATE,ERROR_FOR_DIVISION_BY_ZERO,NO_ENGINE_SUBSTITUTION';",
	}
}
