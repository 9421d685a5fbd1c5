package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/LENAX/plan-engine/pkg/api/dto"
	"github.com/LENAX/plan-engine/pkg/core/engine"
	"github.com/LENAX/plan-engine/pkg/core/todo"
	"github.com/LENAX/plan-engine/pkg/storage"
	"github.com/gin-gonic/gin"
)

// TodoHandler 待办事项API处理器
type TodoHandler struct {
	engine *engine.Engine
}

// NewTodoHandler 创建TodoHandler
func NewTodoHandler(eng *engine.Engine) *TodoHandler {
	return &TodoHandler{engine: eng}
}

// List 列出待办事项（默认仅未完成）
// GET /api/v1/todos?include_completed=true
func (h *TodoHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var query dto.TodoListQueryRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(400, fmt.Sprintf("请求参数错误: %v", err)))
		return
	}

	items, err := h.engine.GetTodoRepo().ListItems(ctx, query.IncludeCompleted)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(500, fmt.Sprintf("查询待办事项失败: %v", err)))
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ListResponse[*todo.Item]{
		Total: len(items),
		Items: items,
	}))
}

// Create 创建待办事项
// POST /api/v1/todos
func (h *TodoHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.SaveTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(400, fmt.Sprintf("请求参数错误: %v", err)))
		return
	}

	if req.RecurrenceExpr != "" {
		if err := todo.ValidateRecurrence(req.RecurrenceExpr); err != nil {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse(400, fmt.Sprintf("重复表达式无效: %v", err)))
			return
		}
	}

	item := todo.NewItem(req.Title)
	applyTodoRequest(item, &req)

	if err := h.engine.GetTodoRepo().SaveItem(ctx, item); err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(500, fmt.Sprintf("保存待办事项失败: %v", err)))
		return
	}

	c.JSON(http.StatusCreated, dto.NewSuccessResponse(item))
}

// Get 获取待办事项详情
// GET /api/v1/todos/:id
func (h *TodoHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	item, err := h.engine.GetTodoRepo().GetItem(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.NewErrorResponse(404, "待办事项不存在"))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(500, fmt.Sprintf("查询待办事项失败: %v", err)))
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(item))
}

// Update 更新待办事项
// PUT /api/v1/todos/:id
func (h *TodoHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	item, err := h.engine.GetTodoRepo().GetItem(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.NewErrorResponse(404, "待办事项不存在"))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(500, fmt.Sprintf("查询待办事项失败: %v", err)))
		return
	}

	var req dto.SaveTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(400, fmt.Sprintf("请求参数错误: %v", err)))
		return
	}

	if req.RecurrenceExpr != "" {
		if err := todo.ValidateRecurrence(req.RecurrenceExpr); err != nil {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse(400, fmt.Sprintf("重复表达式无效: %v", err)))
			return
		}
	}

	item.Title = req.Title
	applyTodoRequest(item, &req)

	if err := h.engine.GetTodoRepo().SaveItem(ctx, item); err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(500, fmt.Sprintf("保存待办事项失败: %v", err)))
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(item))
}

// Complete 完成待办事项
// 重复事项会滚动生成下一次发生，响应中的 next 为新事项，非重复事项为空
// POST /api/v1/todos/:id/complete
func (h *TodoHandler) Complete(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	next, err := h.engine.CompleteTodo(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.NewErrorResponse(404, "待办事项不存在"))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(500, fmt.Sprintf("完成待办事项失败: %v", err)))
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
		"completed": id,
		"next":      next,
	}))
}

// Delete 删除待办事项
// DELETE /api/v1/todos/:id
func (h *TodoHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if err := h.engine.GetTodoRepo().DeleteItem(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.NewErrorResponse(404, "待办事项不存在"))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(500, fmt.Sprintf("删除待办事项失败: %v", err)))
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"deleted": id}))
}

// applyTodoRequest 将请求字段写入事项（Title由调用方处理）
func applyTodoRequest(item *todo.Item, req *dto.SaveTodoRequest) {
	item.Notes = req.Notes
	item.DueDate = req.DueDate
	item.Category = req.Category
	item.RecurrenceExpr = req.RecurrenceExpr
	if req.Priority != "" {
		item.Priority = todo.ParsePriority(req.Priority)
	}
}
