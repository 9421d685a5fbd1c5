package schedule

// Task 调度计算的输入任务（对外导出）
// ID由调用方保证在单次计算内唯一，引擎不负责分配
type Task struct {
	ID           string   `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	Optimistic   float64  `json:"optimistic" yaml:"optimistic"`     // 乐观估时
	Likely       float64  `json:"likely" yaml:"likely"`             // 最可能估时
	Pessimistic  float64  `json:"pessimistic" yaml:"pessimistic"`   // 悲观估时
	Dependencies []string `json:"dependencies" yaml:"dependencies"` // 前置任务ID列表
	Category     string   `json:"category,omitempty" yaml:"category,omitempty"`
}

// Node 计算结果节点（对外导出），每个输入Task对应一个
type Node struct {
	Task
	Duration    float64 `json:"duration"`     // 期望工期 = (O + 4M + P) / 6
	EarlyStart  float64 `json:"early_start"`  // 最早开始（相对项目起点的偏移）
	EarlyFinish float64 `json:"early_finish"` // 最早完成
	LateStart   float64 `json:"late_start"`   // 最晚开始
	LateFinish  float64 `json:"late_finish"`  // 最晚完成
	Slack       float64 `json:"slack"`        // 浮动时间 = LateStart - EarlyStart
	IsCritical  bool    `json:"is_critical"`  // 是否在关键路径上
}

// CalendarRange 日历投影结果（对外导出）
// 日期格式为 2006-01-02，不含时间
type CalendarRange struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// Result 单次调度计算的完整结果（对外导出）
// Warnings 为非致命问题列表（悬空依赖、估时顺序倒置等），不影响数值结果
type Result struct {
	Nodes           map[string]*Node `json:"nodes"`
	Order           []string         `json:"order"`            // 拓扑顺序
	ProjectDuration float64          `json:"project_duration"` // 所有节点中最大的EarlyFinish
	CriticalPath    []string         `json:"critical_path"`    // 关键任务ID（按拓扑顺序）
	Warnings        []string         `json:"warnings,omitempty"`
}

// NodeList 按拓扑顺序返回节点列表（对外导出）
func (r *Result) NodeList() []*Node {
	nodes := make([]*Node, 0, len(r.Order))
	for _, id := range r.Order {
		nodes = append(nodes, r.Nodes[id])
	}
	return nodes
}
