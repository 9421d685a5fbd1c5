package todo

import (
	"fmt"
	"time"

	"github.com/LENAX/plan-engine/pkg/core/schedule"
	"github.com/google/uuid"
)

// FromSchedule 将计算完成的调度节点一次性转换为带日历排期的待办事项（对外导出）
// 单向转换：生成的事项与原项目任务不再保持关联
// 截止日期取任务投影的最早完成日期；关键任务导出为高优先级
// 起始日期无法解析时返回空列表（与日历投影的策略一致）
func FromSchedule(nodes map[string]*schedule.Node, order []string, startDate string) []*Item {
	ranges := schedule.ProjectDates(nodes, startDate)
	if len(ranges) == 0 {
		return nil
	}

	now := time.Now()
	items := make([]*Item, 0, len(order))
	for _, id := range order {
		node, ok := nodes[id]
		if !ok {
			continue
		}
		r := ranges[id]

		priority := PriorityNormal
		if node.IsCritical {
			priority = PriorityHigh
		}

		items = append(items, &Item{
			ID:         uuid.NewString(),
			Title:      node.Name,
			Notes:      fmt.Sprintf("计划窗口 %s ~ %s（期望工期 %.2f 天）", r.StartDate, r.EndDate, node.Duration),
			DueDate:    r.EndDate,
			Priority:   priority,
			Category:   node.Category,
			CreateTime: now,
		})
	}
	return items
}
