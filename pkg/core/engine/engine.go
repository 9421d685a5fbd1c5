package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/LENAX/plan-engine/pkg/core/schedule"
	"github.com/LENAX/plan-engine/pkg/core/todo"
	"github.com/LENAX/plan-engine/pkg/storage"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// ComputeOutcome 单次调度计算的完整产出（对外导出）
// Dates 仅在提供了有效起始日期时非空
type ComputeOutcome struct {
	Result    *schedule.Result                  `json:"result"`
	Dates     map[string]schedule.CalendarRange `json:"dates,omitempty"`
	StartDate string                            `json:"start_date,omitempty"`
}

// Engine 规划引擎（对外导出）
// 组合存储、调度核心与事件总线；调度核心本身保持纯函数
type Engine struct {
	projects storage.ProjectRepository
	todos    storage.TodoRepository
	pubsub   *gochannel.GoChannel
	logger   watermill.LoggerAdapter
}

// NewEngine 创建规划引擎（对外导出）
func NewEngine(projects storage.ProjectRepository, todos storage.TodoRepository) *Engine {
	logger := watermill.NewStdLogger(false, false)
	pubsub := gochannel.NewGoChannel(
		gochannel.Config{
			Persistent:                     false,
			BlockPublishUntilSubscriberAck: false,
		},
		logger,
	)
	return &Engine{
		projects: projects,
		todos:    todos,
		pubsub:   pubsub,
		logger:   logger,
	}
}

// Stop 关闭引擎与事件总线（对外导出）
func (e *Engine) Stop() {
	if err := e.pubsub.Close(); err != nil {
		log.Printf("关闭事件总线失败: %v", err)
	}
}

// GetProjectRepo 获取项目Repository（对外导出）
func (e *Engine) GetProjectRepo() storage.ProjectRepository {
	return e.projects
}

// GetTodoRepo 获取待办事项Repository（对外导出）
func (e *Engine) GetTodoRepo() storage.TodoRepository {
	return e.todos
}

// StatelessCompute 对调用方直接提供的任务列表执行一次性调度计算（对外导出）
// 不读写任何存储；startDate无效时仅省略日历投影
func (e *Engine) StatelessCompute(tasks []schedule.Task, startDate string) (*ComputeOutcome, error) {
	result, err := schedule.Compute(tasks)
	if err != nil {
		return nil, err
	}

	outcome := &ComputeOutcome{Result: result, StartDate: startDate}
	if startDate != "" {
		outcome.Dates = schedule.ProjectDates(result.Nodes, startDate)
	}

	e.publishComputed("", startDate, result)
	return outcome, nil
}

// ComputeProject 计算项目的调度并持久化快照（对外导出）
// startDate为空时使用项目自身保存的起始日期
func (e *Engine) ComputeProject(ctx context.Context, projectID, startDate string) (*ComputeOutcome, error) {
	p, err := e.projects.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if startDate == "" {
		startDate = p.StartDate
	}

	result, err := schedule.Compute(p.Tasks)
	if err != nil {
		return nil, fmt.Errorf("计算项目 %s 的调度失败: %w", projectID, err)
	}

	snap := &storage.ScheduleSnapshot{
		ProjectID:  projectID,
		StartDate:  startDate,
		Result:     result,
		ComputedAt: time.Now(),
	}
	if err := e.projects.SaveSnapshot(ctx, snap); err != nil {
		return nil, err
	}

	outcome := &ComputeOutcome{Result: result, StartDate: startDate}
	if startDate != "" {
		outcome.Dates = schedule.ProjectDates(result.Nodes, startDate)
	}

	e.publishComputed(projectID, startDate, result)
	log.Printf("✅ [规划引擎] 项目调度计算完成: ProjectID=%s, 总工期=%.2f, 关键任务数=%d",
		projectID, result.ProjectDuration, len(result.CriticalPath))
	return outcome, nil
}

// ExportTodos 将项目最近一次计算的快照一次性导出为待办事项并持久化（对外导出）
func (e *Engine) ExportTodos(ctx context.Context, projectID string) ([]*todo.Item, error) {
	snap, err := e.projects.GetSnapshot(ctx, projectID)
	if err != nil {
		return nil, err
	}

	items := todo.FromSchedule(snap.Result.Nodes, snap.Result.Order, snap.StartDate)
	if len(items) == 0 {
		return nil, fmt.Errorf("项目 %s 的快照无有效起始日期，无法导出", projectID)
	}

	for _, item := range items {
		if err := e.todos.SaveItem(ctx, item); err != nil {
			return nil, err
		}
	}

	log.Printf("✅ [规划引擎] 已导出 %d 个待办事项: ProjectID=%s", len(items), projectID)
	return items, nil
}

// CompleteTodo 完成待办事项（对外导出）
// 重复事项滚动生成下一次发生并一并保存
func (e *Engine) CompleteTodo(ctx context.Context, id string) (*todo.Item, error) {
	item, err := e.todos.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := todo.Complete(item, time.Now())
	if err != nil {
		return nil, err
	}

	if err := e.todos.SaveItem(ctx, item); err != nil {
		return nil, err
	}
	if next != nil {
		if err := e.todos.SaveItem(ctx, next); err != nil {
			return nil, err
		}
	}
	return next, nil
}

// SubscribeSchedules 订阅调度计算完成事件（对外导出）
// 返回的通道随ctx取消而关闭
func (e *Engine) SubscribeSchedules(ctx context.Context) (<-chan *message.Message, error) {
	return e.pubsub.Subscribe(ctx, TopicScheduleComputed)
}

// publishComputed 发布调度计算完成事件；发布失败仅记录日志，不影响计算结果
func (e *Engine) publishComputed(projectID, startDate string, result *schedule.Result) {
	event := NewScheduleComputedEvent(projectID, startDate, result.ProjectDuration, result.CriticalPath, len(result.Warnings))
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("序列化调度事件失败: %v", err)
		return
	}

	msg := message.NewMessage(event.ID, payload)
	if err := e.pubsub.Publish(TopicScheduleComputed, msg); err != nil {
		log.Printf("发布调度事件失败: %v", err)
	}
}
