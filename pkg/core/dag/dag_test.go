package dag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	names := map[string]string{
		"task1": "需求分析",
		"task2": "开发",
	}
	dependencies := map[string][]string{
		"task2": {"task1"},
	}

	d, err := Build(names, dependencies)
	require.NoError(t, err)
	require.Len(t, d.Nodes, 2)

	// 检查task2的入度
	assert.Equal(t, 1, d.Nodes["task2"].InDegree)

	// 检查task1的出边
	assert.Equal(t, []string{"task2"}, d.Nodes["task1"].OutEdges)
}

func TestBuild_SkipsUnknownDependency(t *testing.T) {
	names := map[string]string{"task1": "A"}
	dependencies := map[string][]string{
		"task1": {"ghost"},
	}

	d, err := Build(names, dependencies)
	require.NoError(t, err)
	assert.Equal(t, 0, d.Nodes["task1"].InDegree)
}

func TestDetectCycle_NoCycle(t *testing.T) {
	d := NewDAG()
	d.Nodes["task1"] = &Node{ID: "task1", OutEdges: []string{"task2"}}
	d.Nodes["task2"] = &Node{ID: "task2", OutEdges: []string{"task3"}}
	d.Nodes["task3"] = &Node{ID: "task3", OutEdges: []string{}}

	err := d.DetectCycle()
	assert.NoError(t, err)
}

func TestDetectCycle_HasCycle(t *testing.T) {
	d := NewDAG()
	d.Nodes["task1"] = &Node{ID: "task1", OutEdges: []string{"task2"}}
	d.Nodes["task2"] = &Node{ID: "task2", OutEdges: []string{"task1"}}

	err := d.DetectCycle()
	assert.Error(t, err)
}

func TestBuild_CycleFails(t *testing.T) {
	names := map[string]string{"a": "A", "b": "B"}
	dependencies := map[string][]string{
		"a": {"b"},
		"b": {"a"},
	}
	_, err := Build(names, dependencies)
	assert.Error(t, err)
}

func TestTopologicalSort(t *testing.T) {
	names := map[string]string{"a": "A", "b": "B", "c": "C", "d": "D"}
	dependencies := map[string][]string{
		"b": {"a"},
		"c": {"a"},
		"d": {"b", "c"},
	}

	d, err := Build(names, dependencies)
	require.NoError(t, err)

	order, err := d.TopologicalSort()
	require.NoError(t, err)
	require.Len(t, order.Levels, 3)

	assert.Equal(t, []string{"a"}, order.Levels[0])
	assert.ElementsMatch(t, []string{"b", "c"}, order.Levels[1])
	assert.Equal(t, []string{"d"}, order.Levels[2])
}

func TestRootsAndLeaves(t *testing.T) {
	names := map[string]string{"a": "A", "b": "B", "c": "C"}
	dependencies := map[string][]string{
		"b": {"a"},
		"c": {"b"},
	}

	d, err := Build(names, dependencies)
	require.NoError(t, err)

	assert.Equal(t, []string{"a"}, d.GetRoots())
	assert.Equal(t, []string{"c"}, d.GetLeaves())
}
