package dag

import (
	"fmt"
	"sort"
)

// Build 从任务名称和依赖映射构建DAG（对外导出）
// names: 任务ID -> 显示名称的映射
// dependencies: 后置任务ID -> 前置任务ID列表的映射
// 引用了未知任务ID的依赖边被直接跳过
func Build(names map[string]string, dependencies map[string][]string) (*DAG, error) {
	d := NewDAG()
	for id, name := range names {
		d.Nodes[id] = &Node{ID: id, Name: name, OutEdges: make([]string, 0)}
	}

	// 添加边：前置任务 -> 后置任务
	for id, depIDs := range dependencies {
		if _, exists := d.Nodes[id]; !exists {
			continue
		}
		for _, depID := range depIDs {
			dep, exists := d.Nodes[depID]
			if !exists {
				continue
			}
			dep.OutEdges = append(dep.OutEdges, id)
			d.Nodes[id].InDegree++
		}
	}

	// 出边排序保证遍历顺序确定
	for _, node := range d.Nodes {
		sort.Strings(node.OutEdges)
	}

	if err := d.DetectCycle(); err != nil {
		return nil, err
	}

	return d, nil
}

// DetectCycle 检测DAG中是否存在循环依赖（对外导出）
// 使用三色标记法：0=白色（未访问），1=灰色（正在访问），2=黑色（已访问）
func (d *DAG) DetectCycle() error {
	color := make(map[string]int, len(d.Nodes))

	var dfs func(nodeID string) bool
	dfs = func(nodeID string) bool {
		color[nodeID] = 1
		for _, childID := range d.Nodes[nodeID].OutEdges {
			if color[childID] == 1 {
				// 灰色节点被再次访问，存在后向边
				return true
			}
			if color[childID] == 0 && dfs(childID) {
				return true
			}
		}
		color[nodeID] = 2
		return false
	}

	ids := d.sortedIDs()
	for _, id := range ids {
		if color[id] == 0 {
			if dfs(id) {
				return fmt.Errorf("检测到循环依赖")
			}
		}
	}
	return nil
}

// TopologicalSort 执行分层拓扑排序（对外导出）
// 使用Kahn算法，每一层内的任务互不依赖，可并行展示
func (d *DAG) TopologicalSort() (*TopologicalOrder, error) {
	if err := d.DetectCycle(); err != nil {
		return nil, fmt.Errorf("存在循环依赖，无法进行拓扑排序: %w", err)
	}

	inDegree := make(map[string]int, len(d.Nodes))
	for id, node := range d.Nodes {
		inDegree[id] = node.InDegree
	}

	queue := make([]string, 0)
	for _, id := range d.sortedIDs() {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	result := &TopologicalOrder{Levels: make([][]string, 0)}
	processed := 0
	for len(queue) > 0 {
		currentLevel := make([]string, 0, len(queue))
		nextQueue := make([]string, 0)

		for _, nodeID := range queue {
			currentLevel = append(currentLevel, nodeID)
			processed++
			for _, childID := range d.Nodes[nodeID].OutEdges {
				inDegree[childID]--
				if inDegree[childID] == 0 {
					nextQueue = append(nextQueue, childID)
				}
			}
		}

		sort.Strings(nextQueue)
		result.Levels = append(result.Levels, currentLevel)
		queue = nextQueue
	}

	if processed != len(d.Nodes) {
		return nil, fmt.Errorf("拓扑排序失败：存在未处理的节点（可能存在环）")
	}

	return result, nil
}

// GetRoots 获取所有根节点ID（入度为0的节点）（对外导出）
func (d *DAG) GetRoots() []string {
	roots := make([]string, 0)
	for _, id := range d.sortedIDs() {
		if d.Nodes[id].InDegree == 0 {
			roots = append(roots, id)
		}
	}
	return roots
}

// GetLeaves 获取所有叶节点ID（出度为0的节点）（对外导出）
func (d *DAG) GetLeaves() []string {
	leaves := make([]string, 0)
	for _, id := range d.sortedIDs() {
		if len(d.Nodes[id].OutEdges) == 0 {
			leaves = append(leaves, id)
		}
	}
	return leaves
}

// GetNode 获取指定节点（对外导出）
func (d *DAG) GetNode(nodeID string) (*Node, bool) {
	node, ok := d.Nodes[nodeID]
	return node, ok
}

// sortedIDs 返回排序后的节点ID列表，保证遍历顺序确定
func (d *DAG) sortedIDs() []string {
	ids := make([]string, 0, len(d.Nodes))
	for id := range d.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
