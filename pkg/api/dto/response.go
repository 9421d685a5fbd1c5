package dto

import (
	"time"

	"github.com/LENAX/plan-engine/pkg/core/schedule"
	"github.com/LENAX/plan-engine/pkg/core/todo"
)

// APIResponse 通用API响应结构
type APIResponse[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

// NewSuccessResponse 创建成功响应
func NewSuccessResponse[T any](data T) APIResponse[T] {
	return APIResponse[T]{
		Code:    0,
		Message: "success",
		Data:    data,
	}
}

// NewErrorResponse 创建错误响应
func NewErrorResponse(code int, message string) APIResponse[any] {
	return APIResponse[any]{
		Code:    code,
		Message: message,
	}
}

// ListResponse 通用列表响应
type ListResponse[T any] struct {
	Total int `json:"total"`
	Items []T `json:"items"`
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Uptime    string `json:"uptime"`
	Timestamp string `json:"timestamp"`
}

// ProjectSummary 项目摘要信息
type ProjectSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	StartDate   string    `json:"start_date,omitempty"`
	TaskCount   int       `json:"task_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProjectDetail 项目详细信息
type ProjectDetail struct {
	ProjectSummary
	Tasks []schedule.Task `json:"tasks"`
}

// ScheduleResponse 调度计算响应
type ScheduleResponse struct {
	Nodes           []*schedule.Node                  `json:"nodes"` // 按拓扑顺序
	ProjectDuration float64                           `json:"project_duration"`
	CriticalPath    []string                          `json:"critical_path"`
	Dates           map[string]schedule.CalendarRange `json:"dates,omitempty"`
	StartDate       string                            `json:"start_date,omitempty"`
	Warnings        []string                          `json:"warnings,omitempty"`
}

// GraphEdge 依赖图的一条边（前置任务 -> 后置任务）
type GraphEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// GraphResponse 项目依赖图响应
// Levels 为分层拓扑排序结果，同层任务互不依赖，供前端分列布局
type GraphResponse struct {
	Nodes  []GraphNode `json:"nodes"`
	Edges  []GraphEdge `json:"edges"`
	Roots  []string    `json:"roots"`
	Leaves []string    `json:"leaves"`
	Levels [][]string  `json:"levels"`
}

// GraphNode 依赖图节点
type GraphNode struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	InDegree int    `json:"in_degree"`
}

// ExportResponse 待办事项导出响应
type ExportResponse struct {
	Exported int          `json:"exported"`
	Items    []*todo.Item `json:"items"`
}
