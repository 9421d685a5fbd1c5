package schedule

// ProjectDuration 返回项目总工期（对外导出）
// 即所有节点中最大的EarlyFinish；空结果返回0
func ProjectDuration(result *Result) float64 {
	if result == nil {
		return 0
	}
	return result.ProjectDuration
}

// CriticalPath 返回关键路径上的任务ID（对外导出），按拓扑顺序排列
func CriticalPath(result *Result) []string {
	if result == nil {
		return nil
	}
	return result.CriticalPath
}

// IsOnCriticalPath 判断指定任务是否在关键路径上（对外导出）
func IsOnCriticalPath(result *Result, taskID string) bool {
	if result == nil {
		return false
	}
	node, ok := result.Nodes[taskID]
	return ok && node.IsCritical
}
