package dto

import "github.com/LENAX/plan-engine/pkg/core/schedule"

// SaveProjectRequest 创建/更新项目请求
type SaveProjectRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description" binding:"omitempty"`
	StartDate   string          `json:"start_date" binding:"omitempty"`
	Tasks       []schedule.Task `json:"tasks" binding:"omitempty"`
}

// ComputeRequest 无状态调度计算请求
type ComputeRequest struct {
	Tasks     []schedule.Task `json:"tasks" binding:"required"`
	StartDate string          `json:"start_date" binding:"omitempty"`
}

// SaveTodoRequest 创建/更新待办事项请求
// Priority 为词语形式（low/normal/high/urgent）
type SaveTodoRequest struct {
	Title          string `json:"title" binding:"required"`
	Notes          string `json:"notes" binding:"omitempty"`
	DueDate        string `json:"due_date" binding:"omitempty"`
	Priority       string `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
	Category       string `json:"category" binding:"omitempty"`
	RecurrenceExpr string `json:"recurrence_expr" binding:"omitempty"`
}

// TodoListQueryRequest 待办事项列表查询请求
type TodoListQueryRequest struct {
	IncludeCompleted bool `form:"include_completed" binding:"omitempty"`
}
