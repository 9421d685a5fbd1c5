package engine

import (
	"time"

	"github.com/google/uuid"
)

// TopicScheduleComputed 调度计算完成事件的主题（对外导出）
const TopicScheduleComputed = "schedule.computed"

// ScheduleComputedEvent 调度计算完成事件（对外导出）
// 通过事件总线广播给WebSocket订阅方等消费者
type ScheduleComputedEvent struct {
	ID              string    `json:"id"`               // 事件ID（UUID）
	ProjectID       string    `json:"project_id"`       // 项目ID（无状态计算时为空）
	StartDate       string    `json:"start_date"`       // 日历投影锚点
	ProjectDuration float64   `json:"project_duration"` // 项目总工期
	CriticalPath    []string  `json:"critical_path"`    // 关键路径任务ID
	WarningCount    int       `json:"warning_count"`    // 非致命警告数量
	Timestamp       time.Time `json:"timestamp"`        // 事件时间
}

// NewScheduleComputedEvent 创建调度计算完成事件
func NewScheduleComputedEvent(projectID, startDate string, duration float64, criticalPath []string, warningCount int) *ScheduleComputedEvent {
	return &ScheduleComputedEvent{
		ID:              uuid.NewString(),
		ProjectID:       projectID,
		StartDate:       startDate,
		ProjectDuration: duration,
		CriticalPath:    criticalPath,
		WarningCount:    warningCount,
		Timestamp:       time.Now(),
	}
}
