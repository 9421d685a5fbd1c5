package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const delta = 0.005

// diamondTasks 构建菱形依赖的测试任务集：A -> (B, C) -> D
func diamondTasks() []Task {
	return []Task{
		{ID: "A", Name: "设计", Optimistic: 1, Likely: 2, Pessimistic: 3},
		{ID: "B", Name: "后端开发", Optimistic: 2, Likely: 3, Pessimistic: 6, Dependencies: []string{"A"}},
		{ID: "C", Name: "前端开发", Optimistic: 1, Likely: 2, Pessimistic: 4, Dependencies: []string{"A"}},
		{ID: "D", Name: "联调", Optimistic: 3, Likely: 5, Pessimistic: 8, Dependencies: []string{"B", "C"}},
	}
}

func TestExpectedDuration(t *testing.T) {
	t.Run("三点估算公式", func(t *testing.T) {
		assert.InDelta(t, 2.0, ExpectedDuration(Task{Optimistic: 1, Likely: 2, Pessimistic: 3}), delta)
		assert.InDelta(t, 10.0/3, ExpectedDuration(Task{Optimistic: 2, Likely: 3, Pessimistic: 6}), delta)
	})

	t.Run("零值与负值原样参与计算", func(t *testing.T) {
		assert.InDelta(t, 0.0, ExpectedDuration(Task{}), delta)
		assert.InDelta(t, -1.0, ExpectedDuration(Task{Optimistic: -1, Likely: -1, Pessimistic: -1}), delta)
	})
}

func TestTopoSort(t *testing.T) {
	t.Run("每个任务出现在其依赖之后", func(t *testing.T) {
		order, err := TopoSort(diamondTasks())
		require.NoError(t, err)
		require.Len(t, order, 4)

		pos := make(map[string]int, len(order))
		for i, id := range order {
			pos[id] = i
		}
		assert.Less(t, pos["A"], pos["B"])
		assert.Less(t, pos["A"], pos["C"])
		assert.Less(t, pos["B"], pos["D"])
		assert.Less(t, pos["C"], pos["D"])
	})

	t.Run("相同输入顺序产生确定的排序", func(t *testing.T) {
		first, err := TopoSort(diamondTasks())
		require.NoError(t, err)
		second, err := TopoSort(diamondTasks())
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("循环依赖返回ErrCycleDetected", func(t *testing.T) {
		tasks := []Task{
			{ID: "A", Dependencies: []string{"B"}},
			{ID: "B", Dependencies: []string{"C"}},
			{ID: "C", Dependencies: []string{"A"}},
		}
		_, err := TopoSort(tasks)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrCycleDetected)
	})

	t.Run("自依赖视为循环", func(t *testing.T) {
		_, err := TopoSort([]Task{{ID: "A", Dependencies: []string{"A"}}})
		assert.ErrorIs(t, err, ErrCycleDetected)
	})

	t.Run("悬空依赖不构成错误", func(t *testing.T) {
		order, err := TopoSort([]Task{{ID: "A", Dependencies: []string{"ghost"}}})
		require.NoError(t, err)
		assert.Equal(t, []string{"A"}, order)
	})
}

func TestCompute_DiamondScenario(t *testing.T) {
	result, err := Compute(diamondTasks())
	require.NoError(t, err)
	require.Len(t, result.Nodes, 4)

	t.Run("期望工期", func(t *testing.T) {
		assert.InDelta(t, 2.0, result.Nodes["A"].Duration, delta)
		assert.InDelta(t, 3.33, result.Nodes["B"].Duration, delta)
		assert.InDelta(t, 2.17, result.Nodes["C"].Duration, delta)
		assert.InDelta(t, 5.17, result.Nodes["D"].Duration, delta)
	})

	t.Run("正向遍历结果", func(t *testing.T) {
		assert.InDelta(t, 0.0, result.Nodes["A"].EarlyStart, delta)
		assert.InDelta(t, 2.0, result.Nodes["A"].EarlyFinish, delta)
		assert.InDelta(t, 2.0, result.Nodes["B"].EarlyStart, delta)
		assert.InDelta(t, 5.33, result.Nodes["B"].EarlyFinish, delta)
		assert.InDelta(t, 2.0, result.Nodes["C"].EarlyStart, delta)
		assert.InDelta(t, 4.17, result.Nodes["C"].EarlyFinish, delta)
		assert.InDelta(t, 5.33, result.Nodes["D"].EarlyStart, delta)
		assert.InDelta(t, 10.5, result.Nodes["D"].EarlyFinish, delta)
	})

	t.Run("项目总工期", func(t *testing.T) {
		assert.InDelta(t, 10.5, result.ProjectDuration, delta)
		assert.InDelta(t, 10.5, ProjectDuration(result), delta)
	})

	t.Run("关键路径为A-B-D", func(t *testing.T) {
		assert.Equal(t, []string{"A", "B", "D"}, result.CriticalPath)
		assert.True(t, result.Nodes["A"].IsCritical)
		assert.True(t, result.Nodes["B"].IsCritical)
		assert.True(t, result.Nodes["D"].IsCritical)
		assert.False(t, result.Nodes["C"].IsCritical)
		assert.Greater(t, result.Nodes["C"].Slack, CriticalSlackTolerance)
	})

	t.Run("关键路径工期之和等于项目总工期", func(t *testing.T) {
		sum := 0.0
		for _, id := range result.CriticalPath {
			sum += result.Nodes[id].Duration
		}
		assert.InDelta(t, result.ProjectDuration, sum, delta)
	})
}

// TestCompute_Invariants 验证对任意合法DAG都成立的不变量
func TestCompute_Invariants(t *testing.T) {
	tasks := []Task{
		{ID: "a", Optimistic: 1, Likely: 1, Pessimistic: 1},
		{ID: "b", Optimistic: 2, Likely: 4, Pessimistic: 9, Dependencies: []string{"a"}},
		{ID: "c", Optimistic: 0.5, Likely: 1, Pessimistic: 2, Dependencies: []string{"a"}},
		{ID: "d", Optimistic: 1, Likely: 2, Pessimistic: 3, Dependencies: []string{"b", "c"}},
		{ID: "e", Optimistic: 3, Likely: 3, Pessimistic: 3},
		{ID: "f", Optimistic: 1, Likely: 5, Pessimistic: 6, Dependencies: []string{"e", "d"}},
	}
	result, err := Compute(tasks)
	require.NoError(t, err)

	t.Run("节点集合与输入一致", func(t *testing.T) {
		require.Len(t, result.Nodes, len(tasks))
		for _, task := range tasks {
			assert.Contains(t, result.Nodes, task.ID)
		}
	})

	t.Run("拓扑一致性", func(t *testing.T) {
		for _, node := range result.Nodes {
			for _, depID := range node.Dependencies {
				dep, ok := result.Nodes[depID]
				if !ok {
					continue
				}
				assert.GreaterOrEqual(t, node.EarlyStart+delta, dep.EarlyFinish,
					"任务 %s 的EarlyStart不应早于依赖 %s 的EarlyFinish", node.ID, depID)
			}
		}
	})

	t.Run("浮动时间对称且非负", func(t *testing.T) {
		for _, node := range result.Nodes {
			assert.InDelta(t, node.Slack, node.LateStart-node.EarlyStart, delta)
			assert.InDelta(t, node.Slack, node.LateFinish-node.EarlyFinish, delta)
			assert.GreaterOrEqual(t, node.Slack, -delta)
		}
	})

	t.Run("非空DAG至少存在一个关键任务", func(t *testing.T) {
		assert.NotEmpty(t, result.CriticalPath)
	})

	t.Run("无后继节点的LateFinish等于项目总工期", func(t *testing.T) {
		assert.InDelta(t, result.ProjectDuration, result.Nodes["f"].LateFinish, delta)
	})
}

func TestCompute_CycleFailsAtomically(t *testing.T) {
	tasks := []Task{
		{ID: "A", Optimistic: 1, Likely: 1, Pessimistic: 1, Dependencies: []string{"B"}},
		{ID: "B", Optimistic: 1, Likely: 1, Pessimistic: 1, Dependencies: []string{"C"}},
		{ID: "C", Optimistic: 1, Likely: 1, Pessimistic: 1, Dependencies: []string{"A"}},
	}
	result, err := Compute(tasks)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCycleDetected)
	assert.Nil(t, result, "循环失败时不应返回任何节点")
}

func TestCompute_DanglingDependency(t *testing.T) {
	tasks := []Task{
		{ID: "A", Optimistic: 1, Likely: 2, Pessimistic: 3, Dependencies: []string{"missing"}},
	}
	result, err := Compute(tasks)
	require.NoError(t, err)

	t.Run("悬空依赖按无依赖处理", func(t *testing.T) {
		assert.InDelta(t, 0.0, result.Nodes["A"].EarlyStart, delta)
		assert.True(t, result.Nodes["A"].IsCritical)
	})

	t.Run("悬空依赖产生警告", func(t *testing.T) {
		require.NotEmpty(t, result.Warnings)
	})
}

func TestCompute_InvertedEstimatesWarnOnly(t *testing.T) {
	tasks := []Task{
		{ID: "A", Optimistic: 5, Likely: 2, Pessimistic: 1},
	}
	result, err := Compute(tasks)
	require.NoError(t, err)
	// 数值按公式原样计算，不做"修正"
	assert.InDelta(t, 14.0/6, result.Nodes["A"].Duration, delta)
	assert.NotEmpty(t, result.Warnings)
}

func TestCompute_Idempotent(t *testing.T) {
	tasks := diamondTasks()
	first, err := Compute(tasks)
	require.NoError(t, err)
	second, err := Compute(tasks)
	require.NoError(t, err)
	assert.Equal(t, first, second, "相同输入的两次计算应产生完全一致的输出")
}

func TestCompute_EmptyInput(t *testing.T) {
	result, err := Compute(nil)
	require.NoError(t, err)
	assert.Empty(t, result.Nodes)
	assert.InDelta(t, 0.0, result.ProjectDuration, delta)
	assert.Empty(t, result.CriticalPath)
}
