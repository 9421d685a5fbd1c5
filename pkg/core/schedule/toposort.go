package schedule

import (
	"errors"
	"fmt"
)

// ErrCycleDetected 依赖图中存在循环时返回的哨兵错误（对外导出）
var ErrCycleDetected = errors.New("检测到循环依赖")

// 三色标记
const (
	colorWhite = 0 // 未访问
	colorGray  = 1 // 正在访问
	colorBlack = 2 // 已访问
)

// TopoSort 对任务列表执行拓扑排序（对外导出）
// 使用三色标记法的DFS检测循环依赖：灰色节点被再次访问即存在后向边
// 返回的顺序保证每个任务出现在其所有（可解析的）依赖之后
// 顺序对相同的输入顺序是确定的：按输入顺序发起遍历，依赖按声明顺序访问
// 不在任务列表中的依赖ID被直接跳过，不构成错误
func TopoSort(tasks []Task) ([]string, error) {
	index := make(map[string]*Task, len(tasks))
	for i := range tasks {
		index[tasks[i].ID] = &tasks[i]
	}

	color := make(map[string]int, len(tasks))
	order := make([]string, 0, len(tasks))

	var visit func(id string) error
	visit = func(id string) error {
		color[id] = colorGray
		for _, depID := range index[id].Dependencies {
			dep, ok := index[depID]
			if !ok {
				// 悬空依赖，计算时按不存在处理
				continue
			}
			switch color[dep.ID] {
			case colorGray:
				return fmt.Errorf("%w: 任务 %s 经由依赖链可达自身", ErrCycleDetected, dep.ID)
			case colorWhite:
				if err := visit(dep.ID); err != nil {
					return err
				}
			}
		}
		color[id] = colorBlack
		order = append(order, id)
		return nil
	}

	for i := range tasks {
		if color[tasks[i].ID] == colorWhite {
			if err := visit(tasks[i].ID); err != nil {
				return nil, err
			}
		}
	}

	return order, nil
}
