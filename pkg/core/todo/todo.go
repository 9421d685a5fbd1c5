package todo

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// 优先级（数值越大越紧急）
const (
	PriorityLow    = 0
	PriorityNormal = 1
	PriorityHigh   = 2
	PriorityUrgent = 3
)

// Item 待办事项（对外导出）
// DueDate 为ISO日期（2006-01-02），空串表示无截止日期
// RecurrenceExpr 为cron表达式（支持 @daily 等描述符），空串表示不重复
type Item struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Notes          string    `json:"notes,omitempty"`
	DueDate        string    `json:"due_date,omitempty"`
	Priority       int       `json:"priority"`
	Category       string    `json:"category,omitempty"`
	Completed      bool      `json:"completed"`
	RecurrenceExpr string    `json:"recurrence_expr,omitempty"`
	CreateTime     time.Time `json:"create_time"`
}

// NewItem 创建待办事项（对外导出），自动分配UUID
func NewItem(title string) *Item {
	return &Item{
		ID:         uuid.NewString(),
		Title:      title,
		Priority:   PriorityNormal,
		CreateTime: time.Now(),
	}
}

// ParsePriority 解析优先级词语（对外导出）
// 支持 low/normal/high/urgent（不区分大小写），无法识别时返回普通优先级
func ParsePriority(word string) int {
	switch strings.ToLower(strings.TrimSpace(word)) {
	case "low":
		return PriorityLow
	case "high":
		return PriorityHigh
	case "urgent":
		return PriorityUrgent
	default:
		return PriorityNormal
	}
}

// PriorityLabel 返回优先级的显示标签（对外导出）
func PriorityLabel(priority int) string {
	switch priority {
	case PriorityLow:
		return "low"
	case PriorityHigh:
		return "high"
	case PriorityUrgent:
		return "urgent"
	default:
		return "normal"
	}
}
