package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/LENAX/plan-engine/pkg/api"
	"github.com/LENAX/plan-engine/pkg/api/dto"
	"github.com/LENAX/plan-engine/pkg/api/middleware"
	"github.com/LENAX/plan-engine/pkg/core/engine"
	"github.com/LENAX/plan-engine/pkg/core/schedule"
	"github.com/LENAX/plan-engine/pkg/core/todo"
	"github.com/LENAX/plan-engine/pkg/storage/sqlite"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var dbSeq int

// setupRouter 基于内存SQLite搭建完整路由
func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()

	dbSeq++
	dsn := fmt.Sprintf("file:api_test_%d?mode=memory&cache=shared", dbSeq)
	repo, err := sqlite.NewPlannerRepoFromDSN(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	eng := engine.NewEngine(repo, repo)
	t.Cleanup(eng.Stop)

	return api.SetupRouter(eng, "test")
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) dto.APIResponse[T] {
	t.Helper()

	var resp dto.APIResponse[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// diamondProject 菱形依赖的示例项目请求
func diamondProject() dto.SaveProjectRequest {
	return dto.SaveProjectRequest{
		Name:      "发布计划",
		StartDate: "2026-01-01",
		Tasks: []schedule.Task{
			{ID: "A", Name: "需求分析", Optimistic: 1, Likely: 2, Pessimistic: 3},
			{ID: "B", Name: "后端开发", Optimistic: 2, Likely: 3, Pessimistic: 6, Dependencies: []string{"A"}},
			{ID: "C", Name: "前端开发", Optimistic: 1, Likely: 2, Pessimistic: 4, Dependencies: []string{"A"}},
			{ID: "D", Name: "上线", Optimistic: 3, Likely: 5, Pessimistic: 8, Dependencies: []string{"B", "C"}},
		},
	}
}

// createProject 创建示例项目并返回ID
func createProject(t *testing.T, router *gin.Engine) string {
	t.Helper()

	w := doJSON(t, router, "POST", "/api/v1/projects", diamondProject())
	require.Equal(t, http.StatusCreated, w.Code)

	resp := decode[dto.ProjectDetail](t, w)
	require.Equal(t, 0, resp.Code)
	require.NotEmpty(t, resp.Data.ID)
	return resp.Data.ID
}

// TestHealthEndpoints 测试健康检查端点
func TestHealthEndpoints(t *testing.T) {
	router := setupRouter(t)

	t.Run("健康检查返回版本与运行时长", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/health", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		resp := decode[dto.HealthResponse](t, w)
		assert.Equal(t, 0, resp.Code)
		assert.Equal(t, "healthy", resp.Data.Status)
		assert.Equal(t, "test", resp.Data.Version)
		assert.NotEmpty(t, resp.Data.Uptime)
	})

	t.Run("就绪检查返回200", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/ready", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

// TestProjectCRUD 测试项目的增删改查
func TestProjectCRUD(t *testing.T) {
	router := setupRouter(t)

	t.Run("创建并获取项目", func(t *testing.T) {
		id := createProject(t, router)

		w := doJSON(t, router, "GET", "/api/v1/projects/"+id, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		resp := decode[dto.ProjectDetail](t, w)
		assert.Equal(t, "发布计划", resp.Data.Name)
		assert.Len(t, resp.Data.Tasks, 4)
		// 任务顺序按提交顺序保留
		assert.Equal(t, "A", resp.Data.Tasks[0].ID)
		assert.Equal(t, "D", resp.Data.Tasks[3].ID)
	})

	t.Run("缺少名称返回400", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/v1/projects", gin.H{"description": "无名项目"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("更新项目整体替换任务列表", func(t *testing.T) {
		id := createProject(t, router)

		update := diamondProject()
		update.Name = "发布计划V2"
		update.Tasks = update.Tasks[:2]
		w := doJSON(t, router, "PUT", "/api/v1/projects/"+id, update)
		assert.Equal(t, http.StatusOK, w.Code)

		resp := decode[dto.ProjectDetail](t, w)
		assert.Equal(t, "发布计划V2", resp.Data.Name)
		assert.Len(t, resp.Data.Tasks, 2)
	})

	t.Run("列表包含已创建项目", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/api/v1/projects", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		resp := decode[dto.ListResponse[dto.ProjectSummary]](t, w)
		assert.GreaterOrEqual(t, resp.Data.Total, 2)
	})

	t.Run("删除后再获取返回404", func(t *testing.T) {
		id := createProject(t, router)

		w := doJSON(t, router, "DELETE", "/api/v1/projects/"+id, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, router, "GET", "/api/v1/projects/"+id, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("获取不存在的项目返回404", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/api/v1/projects/ghost", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

// TestProjectSchedule 测试项目调度计算端点
func TestProjectSchedule(t *testing.T) {
	router := setupRouter(t)
	id := createProject(t, router)

	t.Run("计算返回总工期与关键路径", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/v1/projects/"+id+"/schedule", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		resp := decode[dto.ScheduleResponse](t, w)
		assert.InDelta(t, 10.5, resp.Data.ProjectDuration, 0.005)
		assert.Equal(t, []string{"A", "B", "D"}, resp.Data.CriticalPath)
		assert.Len(t, resp.Data.Nodes, 4)
		// 项目自带起始日期，响应包含日历投影
		assert.Equal(t, "2026-01-01", resp.Data.StartDate)
		assert.Len(t, resp.Data.Dates, 4)
	})

	t.Run("查询参数覆盖项目起始日期", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/v1/projects/"+id+"/schedule?start_date=2026-02-01", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		resp := decode[dto.ScheduleResponse](t, w)
		assert.Equal(t, "2026-02-01", resp.Data.StartDate)
		assert.Equal(t, "2026-02-01", resp.Data.Dates["A"].StartDate)
	})

	t.Run("循环依赖返回422", func(t *testing.T) {
		req := diamondProject()
		req.Tasks[0].Dependencies = []string{"D"}
		w := doJSON(t, router, "POST", "/api/v1/projects", req)
		require.Equal(t, http.StatusCreated, w.Code)
		cyclic := decode[dto.ProjectDetail](t, w)

		w = doJSON(t, router, "POST", "/api/v1/projects/"+cyclic.Data.ID+"/schedule", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("不存在的项目返回404", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/v1/projects/ghost/schedule", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

// TestProjectGraph 测试依赖图结构视图端点
func TestProjectGraph(t *testing.T) {
	router := setupRouter(t)
	id := createProject(t, router)

	w := doJSON(t, router, "GET", "/api/v1/projects/"+id+"/graph", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	resp := decode[dto.GraphResponse](t, w)
	assert.Len(t, resp.Data.Nodes, 4)
	assert.Len(t, resp.Data.Edges, 4)
	assert.Equal(t, []string{"A"}, resp.Data.Roots)
	assert.Equal(t, []string{"D"}, resp.Data.Leaves)
	// 菱形结构分三层
	require.Len(t, resp.Data.Levels, 3)
	assert.Equal(t, []string{"A"}, resp.Data.Levels[0])
	assert.ElementsMatch(t, []string{"B", "C"}, resp.Data.Levels[1])
	assert.Equal(t, []string{"D"}, resp.Data.Levels[2])
}

// TestStatelessSchedule 测试无状态调度计算端点
func TestStatelessSchedule(t *testing.T) {
	router := setupRouter(t)

	t.Run("直接计算任务列表", func(t *testing.T) {
		req := dto.ComputeRequest{Tasks: diamondProject().Tasks, StartDate: "2026-01-01"}
		w := doJSON(t, router, "POST", "/api/v1/schedule", req)
		assert.Equal(t, http.StatusOK, w.Code)

		resp := decode[dto.ScheduleResponse](t, w)
		assert.InDelta(t, 10.5, resp.Data.ProjectDuration, 0.005)
		assert.Len(t, resp.Data.Dates, 4)
	})

	t.Run("省略起始日期则无日历投影", func(t *testing.T) {
		req := dto.ComputeRequest{Tasks: diamondProject().Tasks}
		w := doJSON(t, router, "POST", "/api/v1/schedule", req)
		assert.Equal(t, http.StatusOK, w.Code)

		resp := decode[dto.ScheduleResponse](t, w)
		assert.Empty(t, resp.Data.Dates)
	})

	t.Run("循环依赖返回422", func(t *testing.T) {
		tasks := []schedule.Task{
			{ID: "A", Name: "甲", Likely: 1, Dependencies: []string{"B"}},
			{ID: "B", Name: "乙", Likely: 1, Dependencies: []string{"A"}},
		}
		w := doJSON(t, router, "POST", "/api/v1/schedule", dto.ComputeRequest{Tasks: tasks})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("缺少任务列表返回400", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/v1/schedule", gin.H{"start_date": "2026-01-01"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// TestTodoEndpoints 测试待办事项端点
func TestTodoEndpoints(t *testing.T) {
	router := setupRouter(t)

	t.Run("创建与获取", func(t *testing.T) {
		req := dto.SaveTodoRequest{Title: "写周报", Priority: "high", DueDate: "2026-03-01"}
		w := doJSON(t, router, "POST", "/api/v1/todos", req)
		require.Equal(t, http.StatusCreated, w.Code)

		created := decode[*todo.Item](t, w)
		assert.Equal(t, todo.PriorityHigh, created.Data.Priority)

		w = doJSON(t, router, "GET", "/api/v1/todos/"+created.Data.ID, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("非法重复表达式返回400", func(t *testing.T) {
		req := dto.SaveTodoRequest{Title: "晨会", RecurrenceExpr: "not-a-cron"}
		w := doJSON(t, router, "POST", "/api/v1/todos", req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("完成重复事项滚动生成下一次", func(t *testing.T) {
		req := dto.SaveTodoRequest{Title: "每日站会", DueDate: "2026-03-02", RecurrenceExpr: "@daily"}
		w := doJSON(t, router, "POST", "/api/v1/todos", req)
		require.Equal(t, http.StatusCreated, w.Code)
		created := decode[*todo.Item](t, w)

		w = doJSON(t, router, "POST", "/api/v1/todos/"+created.Data.ID+"/complete", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.APIResponse[struct {
			Completed string     `json:"completed"`
			Next      *todo.Item `json:"next"`
		}]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, created.Data.ID, resp.Data.Completed)
		require.NotNil(t, resp.Data.Next)
		assert.False(t, resp.Data.Next.Completed)
		assert.NotEqual(t, created.Data.ID, resp.Data.Next.ID)

		// 默认列表不含已完成事项
		w = doJSON(t, router, "GET", "/api/v1/todos", nil)
		list := decode[dto.ListResponse[*todo.Item]](t, w)
		for _, item := range list.Data.Items {
			assert.False(t, item.Completed)
		}

		w = doJSON(t, router, "GET", "/api/v1/todos?include_completed=true", nil)
		full := decode[dto.ListResponse[*todo.Item]](t, w)
		assert.Greater(t, full.Data.Total, list.Data.Total)
	})

	t.Run("删除后再获取返回404", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/v1/todos", dto.SaveTodoRequest{Title: "临时任务"})
		require.Equal(t, http.StatusCreated, w.Code)
		created := decode[*todo.Item](t, w)

		w = doJSON(t, router, "DELETE", "/api/v1/todos/"+created.Data.ID, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, router, "GET", "/api/v1/todos/"+created.Data.ID, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

// TestExportTodos 测试调度快照导出为待办事项
func TestExportTodos(t *testing.T) {
	router := setupRouter(t)
	id := createProject(t, router)

	t.Run("未计算调度时返回404", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/v1/projects/"+id+"/export-todos", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("计算后导出全部任务", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/v1/projects/"+id+"/schedule", nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, router, "POST", "/api/v1/projects/"+id+"/export-todos", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		resp := decode[dto.ExportResponse](t, w)
		assert.Equal(t, 4, resp.Data.Exported)

		// 关键路径任务导出为高优先级
		byTitle := make(map[string]*todo.Item)
		for _, item := range resp.Data.Items {
			byTitle[item.Title] = item
		}
		require.Contains(t, byTitle, "上线")
		assert.Equal(t, todo.PriorityHigh, byTitle["上线"].Priority)
		require.Contains(t, byTitle, "前端开发")
		assert.Equal(t, todo.PriorityNormal, byTitle["前端开发"].Priority)
	})
}

// TestMiddleware 测试中间件
func TestMiddleware(t *testing.T) {
	t.Run("Recovery中间件捕获panic", func(t *testing.T) {
		router := gin.New()
		router.Use(middleware.Recovery())
		router.GET("/panic", func(c *gin.Context) {
			panic("test panic")
		})

		req, _ := http.NewRequest("GET", "/panic", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("CORS中间件处理OPTIONS请求", func(t *testing.T) {
		router := gin.New()
		router.Use(middleware.CORS())
		router.GET("/test", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		req, _ := http.NewRequest("OPTIONS", "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, 204, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})
}
