package todo

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// DateLayout 截止日期使用的日期格式（对外导出）
const DateLayout = "2006-01-02"

// ValidateRecurrence 校验重复规则表达式（对外导出）
// 使用标准cron语法，支持 @daily/@weekly 等描述符
func ValidateRecurrence(expr string) error {
	if expr == "" {
		return nil
	}
	if _, err := cron.ParseStandard(expr); err != nil {
		return fmt.Errorf("无效的重复规则 %q: %w", expr, err)
	}
	return nil
}

// NextOccurrence 计算重复事项在指定时间之后的下一次发生日期（对外导出）
// 非重复事项返回空串
func NextOccurrence(item *Item, after time.Time) (string, error) {
	if item.RecurrenceExpr == "" {
		return "", nil
	}
	sched, err := cron.ParseStandard(item.RecurrenceExpr)
	if err != nil {
		return "", fmt.Errorf("解析重复规则失败: %w", err)
	}
	return sched.Next(after).Format(DateLayout), nil
}

// Complete 完成待办事项（对外导出）
// 重复事项在完成时滚动生成下一次发生的新事项（新UUID、未完成状态）
// 非重复事项返回nil
func Complete(item *Item, now time.Time) (*Item, error) {
	item.Completed = true

	if item.RecurrenceExpr == "" {
		return nil, nil
	}

	// 从截止日期和当前时间中较晚者起算，避免补完历史事项时挤出过期的重复
	after := now
	if due, err := time.Parse(DateLayout, item.DueDate); err == nil && due.After(after) {
		after = due
	}

	nextDue, err := NextOccurrence(item, after)
	if err != nil {
		return nil, err
	}

	next := *item
	next.ID = uuid.NewString()
	next.Completed = false
	next.DueDate = nextDue
	next.CreateTime = now
	return &next, nil
}
