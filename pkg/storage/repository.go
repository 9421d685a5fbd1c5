package storage

import (
	"context"
	"errors"
	"time"

	"github.com/LENAX/plan-engine/pkg/core/schedule"
	"github.com/LENAX/plan-engine/pkg/core/todo"
)

// ErrNotFound 记录不存在时返回的哨兵错误（对外导出）
var ErrNotFound = errors.New("记录不存在")

// Project 项目聚合根（对外导出）
// 任务列表作为聚合的一部分整体读写
type Project struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	StartDate   string          `json:"start_date,omitempty"` // ISO日期，作为日历投影的默认锚点
	Tasks       []schedule.Task `json:"tasks"`
	CreateTime  time.Time       `json:"create_time"`
}

// ScheduleSnapshot 最近一次调度计算的持久化快照（对外导出）
// 供导出路径和前端复用，避免重复计算
type ScheduleSnapshot struct {
	ProjectID  string           `json:"project_id"`
	StartDate  string           `json:"start_date"`
	Result     *schedule.Result `json:"result"`
	ComputedAt time.Time        `json:"computed_at"`
}

// ProjectRepository 项目存储接口（对外导出）
type ProjectRepository interface {
	// SaveProject 保存项目及其全部任务（事务）
	SaveProject(ctx context.Context, p *Project) error
	// GetProject 根据ID查询项目（含任务）
	GetProject(ctx context.Context, id string) (*Project, error)
	// ListProjects 列出所有项目（含任务）
	ListProjects(ctx context.Context) ([]*Project, error)
	// DeleteProject 删除项目及其任务与快照
	DeleteProject(ctx context.Context, id string) error
	// SaveSnapshot 保存调度计算快照（覆盖旧快照）
	SaveSnapshot(ctx context.Context, snap *ScheduleSnapshot) error
	// GetSnapshot 查询项目最近一次的计算快照
	GetSnapshot(ctx context.Context, projectID string) (*ScheduleSnapshot, error)
}

// TodoRepository 待办事项存储接口（对外导出）
type TodoRepository interface {
	// SaveItem 保存待办事项（插入或更新）
	SaveItem(ctx context.Context, item *todo.Item) error
	// GetItem 根据ID查询待办事项
	GetItem(ctx context.Context, id string) (*todo.Item, error)
	// ListItems 列出待办事项；includeCompleted为false时过滤已完成项
	ListItems(ctx context.Context, includeCompleted bool) ([]*todo.Item, error)
	// DeleteItem 删除待办事项
	DeleteItem(ctx context.Context, id string) error
}
