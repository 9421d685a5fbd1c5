package dao

import "time"

// ProjectDAO 项目表记录（对外导出）
type ProjectDAO struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	StartDate   string    `db:"start_date"`
	CreateTime  time.Time `db:"create_time"`
}

// ProjectTaskDAO 项目任务表记录（对外导出）
// Dependencies 为JSON编码的ID列表
type ProjectTaskDAO struct {
	ID           string  `db:"id"`
	ProjectID    string  `db:"project_id"`
	Name         string  `db:"name"`
	Optimistic   float64 `db:"optimistic"`
	Likely       float64 `db:"likely"`
	Pessimistic  float64 `db:"pessimistic"`
	Dependencies string  `db:"dependencies"`
	Category     string  `db:"category"`
	Position     int     `db:"position"` // 保持任务的输入顺序（拓扑排序的确定性依赖它）
}

// ScheduleSnapshotDAO 调度快照表记录（对外导出）
// Result 为JSON编码的完整计算结果
type ScheduleSnapshotDAO struct {
	ProjectID  string    `db:"project_id"`
	StartDate  string    `db:"start_date"`
	Result     string    `db:"result"`
	ComputedAt time.Time `db:"computed_at"`
}
