package storage

// Dialect SQL方言接口（对外导出）
// 封装不同数据库的SQL语法差异
type Dialect interface {
	// Name 返回方言名称（如 "sqlite", "mysql", "postgres"）
	Name() string

	// UpsertSQL 返回INSERT或UPDATE的SQL语句（命名参数形式）
	// tableName: 表名
	// columns: 列名列表
	// conflictColumn: 冲突判断列（通常是主键）
	// updateColumns: 需要更新的列（不含主键）
	UpsertSQL(tableName string, columns []string, conflictColumn string, updateColumns []string) string

	// CreateTableSQL 转换DDL语句为方言兼容格式
	// 基准DDL以SQLite语法书写
	CreateTableSQL(schema string) string

	// ConfigureDB 返回建立连接后需要执行的配置SQL（如SQLite的PRAGMA）
	ConfigureDB() []string
}
