package dao

import "time"

// TodoItemDAO 待办事项表记录（对外导出）
type TodoItemDAO struct {
	ID             string    `db:"id"`
	Title          string    `db:"title"`
	Notes          string    `db:"notes"`
	DueDate        string    `db:"due_date"`
	Priority       int       `db:"priority"`
	Category       string    `db:"category"`
	Completed      bool      `db:"completed"`
	RecurrenceExpr string    `db:"recurrence_expr"`
	CreateTime     time.Time `db:"create_time"`
}
