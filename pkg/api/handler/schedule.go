package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/LENAX/plan-engine/pkg/api/dto"
	"github.com/LENAX/plan-engine/pkg/core/engine"
	"github.com/LENAX/plan-engine/pkg/core/schedule"
	"github.com/gin-gonic/gin"
)

// ScheduleHandler 无状态调度计算处理器
// 不读写任何存储，直接对请求体中的任务列表计算
type ScheduleHandler struct {
	engine *engine.Engine
}

// NewScheduleHandler 创建ScheduleHandler
func NewScheduleHandler(eng *engine.Engine) *ScheduleHandler {
	return &ScheduleHandler{engine: eng}
}

// Compute 一次性调度计算
// POST /api/v1/schedule
func (h *ScheduleHandler) Compute(c *gin.Context) {
	var req dto.ComputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(400, fmt.Sprintf("请求参数错误: %v", err)))
		return
	}

	outcome, err := h.engine.StatelessCompute(req.Tasks, req.StartDate)
	if err != nil {
		if errors.Is(err, schedule.ErrCycleDetected) {
			c.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(422, fmt.Sprintf("任务依赖存在循环: %v", err)))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(500, fmt.Sprintf("计算调度失败: %v", err)))
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(scheduleResponse(outcome)))
}
