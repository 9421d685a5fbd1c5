package schedule

import (
	"fmt"
	"math"
)

// CriticalSlackTolerance 关键路径判定的浮动时间容差（对外导出）
// 期望工期含 /6 除法，浮点误差内的浮动视为零
const CriticalSlackTolerance = 0.01

// ExpectedDuration 计算三点估算的期望工期（对外导出）
// 公式：(乐观 + 4×最可能 + 悲观) / 6
// 不校验三个估时的相对大小，负值和零值原样参与计算
func ExpectedDuration(t Task) float64 {
	return (t.Optimistic + 4*t.Likely + t.Pessimistic) / 6
}

// Compute 执行完整的CPM正向/反向遍历计算（对外导出）
// 唯一的硬失败是循环依赖，此时不返回任何节点
// 悬空依赖和倒置的估时顺序降级为Warnings，不影响数值结果
func Compute(tasks []Task) (*Result, error) {
	order, err := TopoSort(tasks)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Nodes: make(map[string]*Node, len(tasks)),
		Order: order,
	}

	for i := range tasks {
		t := tasks[i]
		result.Nodes[t.ID] = &Node{
			Task:     t,
			Duration: ExpectedDuration(t),
		}
	}

	// 后继索引：仅统计可解析的依赖
	successors := make(map[string][]string, len(tasks))
	for i := range tasks {
		t := tasks[i]
		for _, depID := range t.Dependencies {
			if _, ok := result.Nodes[depID]; ok {
				successors[depID] = append(successors[depID], t.ID)
			} else {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("任务 %s 引用了不存在的依赖 %s，已按无此依赖处理", t.ID, depID))
			}
		}
	}

	for i := range tasks {
		t := tasks[i]
		if t.Optimistic < 0 || t.Likely < 0 || t.Pessimistic < 0 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("任务 %s 含负数估时，结果可能无意义", t.ID))
		} else if t.Optimistic > t.Likely || t.Likely > t.Pessimistic {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("任务 %s 的估时顺序倒置（期望 乐观 ≤ 最可能 ≤ 悲观）", t.ID))
		}
	}

	// 正向遍历：按拓扑顺序计算最早开始/完成
	for _, id := range order {
		node := result.Nodes[id]
		es := 0.0
		for _, depID := range node.Dependencies {
			if dep, ok := result.Nodes[depID]; ok && dep.EarlyFinish > es {
				es = dep.EarlyFinish
			}
		}
		node.EarlyStart = es
		node.EarlyFinish = es + node.Duration
	}

	for _, node := range result.Nodes {
		if node.EarlyFinish > result.ProjectDuration {
			result.ProjectDuration = node.EarlyFinish
		}
	}

	// 反向遍历：严格按拓扑顺序的逆序计算最晚开始/完成
	for i := len(order) - 1; i >= 0; i-- {
		node := result.Nodes[order[i]]
		succs := successors[node.ID]
		if len(succs) == 0 {
			// 无后继节点，最晚完成即项目总工期
			node.LateFinish = result.ProjectDuration
		} else {
			minLS := math.Inf(1)
			for _, succID := range succs {
				if ls := result.Nodes[succID].LateStart; ls < minLS {
					minLS = ls
				}
			}
			node.LateFinish = minLS
		}
		node.LateStart = node.LateFinish - node.Duration
		node.Slack = node.LateStart - node.EarlyStart
		node.IsCritical = math.Abs(node.Slack) < CriticalSlackTolerance
	}

	for _, id := range order {
		if result.Nodes[id].IsCritical {
			result.CriticalPath = append(result.CriticalPath, id)
		}
	}

	return result, nil
}
