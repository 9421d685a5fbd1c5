package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/LENAX/plan-engine/pkg/core/schedule"
	"github.com/LENAX/plan-engine/pkg/core/todo"
	"github.com/LENAX/plan-engine/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupRepo 创建独立的内存数据库Repository
func setupRepo(t *testing.T, name string) *storage.PlannerRepo {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	repo, err := NewPlannerRepoFromDSN(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func sampleProject() *storage.Project {
	return &storage.Project{
		ID:        "proj-1",
		Name:      "网站改版",
		StartDate: "2026-01-01",
		Tasks: []schedule.Task{
			{ID: "A", Name: "设计", Optimistic: 1, Likely: 2, Pessimistic: 3},
			{ID: "B", Name: "开发", Optimistic: 2, Likely: 3, Pessimistic: 6, Dependencies: []string{"A"}},
		},
	}
}

func TestPlannerRepo_ProjectAggregate(t *testing.T) {
	repo := setupRepo(t, "project_aggregate")
	ctx := context.Background()

	t.Run("保存并读取项目聚合", func(t *testing.T) {
		require.NoError(t, repo.SaveProject(ctx, sampleProject()))

		got, err := repo.GetProject(ctx, "proj-1")
		require.NoError(t, err)
		assert.Equal(t, "网站改版", got.Name)
		require.Len(t, got.Tasks, 2)
		// 任务顺序与保存时一致
		assert.Equal(t, "A", got.Tasks[0].ID)
		assert.Equal(t, "B", got.Tasks[1].ID)
		assert.Equal(t, []string{"A"}, got.Tasks[1].Dependencies)
	})

	t.Run("重复保存覆盖任务列表", func(t *testing.T) {
		p := sampleProject()
		p.Tasks = p.Tasks[:1]
		require.NoError(t, repo.SaveProject(ctx, p))

		got, err := repo.GetProject(ctx, "proj-1")
		require.NoError(t, err)
		assert.Len(t, got.Tasks, 1)
	})

	t.Run("查询不存在的项目返回ErrNotFound", func(t *testing.T) {
		_, err := repo.GetProject(ctx, "ghost")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("列出项目", func(t *testing.T) {
		projects, err := repo.ListProjects(ctx)
		require.NoError(t, err)
		assert.Len(t, projects, 1)
	})

	t.Run("删除项目", func(t *testing.T) {
		require.NoError(t, repo.DeleteProject(ctx, "proj-1"))
		_, err := repo.GetProject(ctx, "proj-1")
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.ErrorIs(t, repo.DeleteProject(ctx, "proj-1"), storage.ErrNotFound)
	})
}

func TestPlannerRepo_Snapshot(t *testing.T) {
	repo := setupRepo(t, "snapshot")
	ctx := context.Background()

	p := sampleProject()
	require.NoError(t, repo.SaveProject(ctx, p))

	result, err := schedule.Compute(p.Tasks)
	require.NoError(t, err)

	snap := &storage.ScheduleSnapshot{
		ProjectID:  p.ID,
		StartDate:  p.StartDate,
		Result:     result,
		ComputedAt: time.Now(),
	}
	require.NoError(t, repo.SaveSnapshot(ctx, snap))

	t.Run("快照往返保持数值", func(t *testing.T) {
		got, err := repo.GetSnapshot(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.StartDate, got.StartDate)
		assert.InDelta(t, result.ProjectDuration, got.Result.ProjectDuration, 0.001)
		assert.Equal(t, result.Order, got.Result.Order)
		assert.InDelta(t, result.Nodes["B"].Slack, got.Result.Nodes["B"].Slack, 0.001)
	})

	t.Run("无快照返回ErrNotFound", func(t *testing.T) {
		_, err := repo.GetSnapshot(ctx, "ghost")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestPlannerRepo_TodoItems(t *testing.T) {
	repo := setupRepo(t, "todo_items")
	ctx := context.Background()

	item := todo.NewItem("部署上线")
	item.DueDate = "2026-01-10"
	item.Priority = todo.PriorityHigh
	require.NoError(t, repo.SaveItem(ctx, item))

	t.Run("保存并读取", func(t *testing.T) {
		got, err := repo.GetItem(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, "部署上线", got.Title)
		assert.Equal(t, todo.PriorityHigh, got.Priority)
		assert.False(t, got.Completed)
	})

	t.Run("已完成项可被过滤", func(t *testing.T) {
		item.Completed = true
		require.NoError(t, repo.SaveItem(ctx, item))

		active, err := repo.ListItems(ctx, false)
		require.NoError(t, err)
		assert.Empty(t, active)

		all, err := repo.ListItems(ctx, true)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("删除", func(t *testing.T) {
		require.NoError(t, repo.DeleteItem(ctx, item.ID))
		_, err := repo.GetItem(ctx, item.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}
