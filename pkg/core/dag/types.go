package dag

// Node DAG节点结构（对外导出）
type Node struct {
	ID       string   // 节点ID（任务ID）
	Name     string   // 节点名称
	InDegree int      // 入度（前置任务数量）
	OutEdges []string // 出边（依赖该节点的下游任务ID列表）
}

// DAG 有向无环图结构（对外导出）
type DAG struct {
	Nodes map[string]*Node // 节点ID -> 节点
}

// NewDAG 创建新的DAG实例（对外导出）
func NewDAG() *DAG {
	return &DAG{
		Nodes: make(map[string]*Node),
	}
}

// TopologicalOrder 拓扑排序结果（对外导出）
type TopologicalOrder struct {
	Levels [][]string // 每一层的任务ID列表，同层任务互不依赖
}
