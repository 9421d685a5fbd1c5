package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/LENAX/plan-engine/pkg/api/dto"
	"github.com/LENAX/plan-engine/pkg/core/dag"
	"github.com/LENAX/plan-engine/pkg/core/engine"
	"github.com/LENAX/plan-engine/pkg/core/schedule"
	"github.com/LENAX/plan-engine/pkg/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProjectHandler 项目API处理器
type ProjectHandler struct {
	engine *engine.Engine
}

// NewProjectHandler 创建ProjectHandler
func NewProjectHandler(eng *engine.Engine) *ProjectHandler {
	return &ProjectHandler{engine: eng}
}

// List 列出所有项目
// GET /api/v1/projects
func (h *ProjectHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	projects, err := h.engine.GetProjectRepo().ListProjects(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(500, fmt.Sprintf("查询项目失败: %v", err)))
		return
	}

	items := make([]dto.ProjectSummary, 0, len(projects))
	for _, p := range projects {
		items = append(items, projectSummary(p))
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ListResponse[dto.ProjectSummary]{
		Total: len(items),
		Items: items,
	}))
}

// Create 创建项目
// POST /api/v1/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.SaveProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(400, fmt.Sprintf("请求参数错误: %v", err)))
		return
	}

	p := &storage.Project{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		Tasks:       req.Tasks,
	}

	if err := h.engine.GetProjectRepo().SaveProject(ctx, p); err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(500, fmt.Sprintf("保存项目失败: %v", err)))
		return
	}

	c.JSON(http.StatusCreated, dto.NewSuccessResponse(projectDetail(p)))
}

// Get 获取项目详情
// GET /api/v1/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	p, err := h.engine.GetProjectRepo().GetProject(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.NewErrorResponse(404, "项目不存在"))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(500, fmt.Sprintf("查询项目失败: %v", err)))
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(projectDetail(p)))
}

// Update 更新项目（任务列表整体替换）
// PUT /api/v1/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	existing, err := h.engine.GetProjectRepo().GetProject(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.NewErrorResponse(404, "项目不存在"))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(500, fmt.Sprintf("查询项目失败: %v", err)))
		return
	}

	var req dto.SaveProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(400, fmt.Sprintf("请求参数错误: %v", err)))
		return
	}

	existing.Name = req.Name
	existing.Description = req.Description
	existing.StartDate = req.StartDate
	existing.Tasks = req.Tasks

	if err := h.engine.GetProjectRepo().SaveProject(ctx, existing); err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(500, fmt.Sprintf("保存项目失败: %v", err)))
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(projectDetail(existing)))
}

// Delete 删除项目
// DELETE /api/v1/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if err := h.engine.GetProjectRepo().DeleteProject(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.NewErrorResponse(404, "项目不存在"))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(500, fmt.Sprintf("删除项目失败: %v", err)))
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"deleted": id}))
}

// Schedule 计算项目调度并持久化快照
// POST /api/v1/projects/:id/schedule?start_date=2026-01-01
func (h *ProjectHandler) Schedule(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	startDate := c.Query("start_date")

	outcome, err := h.engine.ComputeProject(ctx, id, startDate)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			c.JSON(http.StatusNotFound, dto.NewErrorResponse(404, "项目不存在"))
		case errors.Is(err, schedule.ErrCycleDetected):
			c.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(422, fmt.Sprintf("任务依赖存在循环: %v", err)))
		default:
			c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(500, fmt.Sprintf("计算调度失败: %v", err)))
		}
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(scheduleResponse(outcome)))
}

// Graph 获取项目依赖图的结构视图
// GET /api/v1/projects/:id/graph
func (h *ProjectHandler) Graph(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	p, err := h.engine.GetProjectRepo().GetProject(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.NewErrorResponse(404, "项目不存在"))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(500, fmt.Sprintf("查询项目失败: %v", err)))
		return
	}

	names := make(map[string]string, len(p.Tasks))
	dependencies := make(map[string][]string, len(p.Tasks))
	for _, t := range p.Tasks {
		names[t.ID] = t.Name
		dependencies[t.ID] = t.Dependencies
	}

	d, err := dag.Build(names, dependencies)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(422, fmt.Sprintf("构建依赖图失败: %v", err)))
		return
	}

	order, err := d.TopologicalSort()
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(422, fmt.Sprintf("拓扑排序失败: %v", err)))
		return
	}

	resp := dto.GraphResponse{
		Nodes:  make([]dto.GraphNode, 0, len(d.Nodes)),
		Edges:  make([]dto.GraphEdge, 0),
		Roots:  d.GetRoots(),
		Leaves: d.GetLeaves(),
		Levels: order.Levels,
	}
	for _, level := range order.Levels {
		for _, nodeID := range level {
			node := d.Nodes[nodeID]
			resp.Nodes = append(resp.Nodes, dto.GraphNode{
				ID:       node.ID,
				Name:     node.Name,
				InDegree: node.InDegree,
			})
			for _, to := range node.OutEdges {
				resp.Edges = append(resp.Edges, dto.GraphEdge{From: node.ID, To: to})
			}
		}
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// ExportTodos 将最近一次计算的快照导出为待办事项
// POST /api/v1/projects/:id/export-todos
func (h *ProjectHandler) ExportTodos(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	items, err := h.engine.ExportTodos(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.NewErrorResponse(404, "项目尚无调度快照，请先计算调度"))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(500, fmt.Sprintf("导出待办事项失败: %v", err)))
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ExportResponse{
		Exported: len(items),
		Items:    items,
	}))
}

// projectSummary 聚合根转换为摘要DTO
func projectSummary(p *storage.Project) dto.ProjectSummary {
	return dto.ProjectSummary{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		StartDate:   p.StartDate,
		TaskCount:   len(p.Tasks),
		CreatedAt:   p.CreateTime,
	}
}

// projectDetail 聚合根转换为详情DTO
func projectDetail(p *storage.Project) dto.ProjectDetail {
	return dto.ProjectDetail{
		ProjectSummary: projectSummary(p),
		Tasks:          p.Tasks,
	}
}

// scheduleResponse 计算产出转换为响应DTO
func scheduleResponse(outcome *engine.ComputeOutcome) dto.ScheduleResponse {
	return dto.ScheduleResponse{
		Nodes:           outcome.Result.NodeList(),
		ProjectDuration: outcome.Result.ProjectDuration,
		CriticalPath:    outcome.Result.CriticalPath,
		Dates:           outcome.Dates,
		StartDate:       outcome.StartDate,
		Warnings:        outcome.Result.Warnings,
	}
}
