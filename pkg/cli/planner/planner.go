package planner

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/LENAX/plan-engine/pkg/api/dto"
	"github.com/LENAX/plan-engine/pkg/core/schedule"
	"github.com/LENAX/plan-engine/pkg/core/todo"
)

// Planner HTTP API客户端
type Planner struct {
	baseURL    string
	httpClient *http.Client
}

// New 创建Planner客户端
func New(baseURL string) *Planner {
	return &Planner{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ========== Project API ==========

// ListProjects 列出所有项目
func (p *Planner) ListProjects() (*dto.ListResponse[dto.ProjectSummary], error) {
	var resp dto.APIResponse[dto.ListResponse[dto.ProjectSummary]]
	if err := p.get("/api/v1/projects", &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, fmt.Errorf("%s", resp.Message)
	}
	return &resp.Data, nil
}

// GetProject 获取项目详情
func (p *Planner) GetProject(id string) (*dto.ProjectDetail, error) {
	var resp dto.APIResponse[dto.ProjectDetail]
	if err := p.get("/api/v1/projects/"+id, &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, fmt.Errorf("%s", resp.Message)
	}
	return &resp.Data, nil
}

// CreateProject 创建项目
func (p *Planner) CreateProject(req dto.SaveProjectRequest) (*dto.ProjectDetail, error) {
	var resp dto.APIResponse[dto.ProjectDetail]
	if err := p.post("/api/v1/projects", req, &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, fmt.Errorf("%s", resp.Message)
	}
	return &resp.Data, nil
}

// UpdateProject 更新项目
func (p *Planner) UpdateProject(id string, req dto.SaveProjectRequest) (*dto.ProjectDetail, error) {
	var resp dto.APIResponse[dto.ProjectDetail]
	if err := p.put("/api/v1/projects/"+id, req, &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, fmt.Errorf("%s", resp.Message)
	}
	return &resp.Data, nil
}

// DeleteProject 删除项目
func (p *Planner) DeleteProject(id string) error {
	var resp dto.APIResponse[any]
	if err := p.delete("/api/v1/projects/"+id, &resp); err != nil {
		return err
	}
	if resp.Code != 0 {
		return fmt.Errorf("%s", resp.Message)
	}
	return nil
}

// ComputeProject 计算项目调度
// startDate为空时使用项目自身保存的起始日期
func (p *Planner) ComputeProject(id, startDate string) (*dto.ScheduleResponse, error) {
	path := "/api/v1/projects/" + id + "/schedule"
	if startDate != "" {
		params := url.Values{}
		params.Set("start_date", startDate)
		path += "?" + params.Encode()
	}

	var resp dto.APIResponse[dto.ScheduleResponse]
	if err := p.post(path, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, fmt.Errorf("%s", resp.Message)
	}
	return &resp.Data, nil
}

// GetGraph 获取项目依赖图
func (p *Planner) GetGraph(id string) (*dto.GraphResponse, error) {
	var resp dto.APIResponse[dto.GraphResponse]
	if err := p.get("/api/v1/projects/"+id+"/graph", &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, fmt.Errorf("%s", resp.Message)
	}
	return &resp.Data, nil
}

// ExportTodos 将最近一次调度快照导出为待办事项
func (p *Planner) ExportTodos(id string) (*dto.ExportResponse, error) {
	var resp dto.APIResponse[dto.ExportResponse]
	if err := p.post("/api/v1/projects/"+id+"/export-todos", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, fmt.Errorf("%s", resp.Message)
	}
	return &resp.Data, nil
}

// ========== Schedule API ==========

// Compute 无状态调度计算
func (p *Planner) Compute(tasks []schedule.Task, startDate string) (*dto.ScheduleResponse, error) {
	req := dto.ComputeRequest{Tasks: tasks, StartDate: startDate}
	var resp dto.APIResponse[dto.ScheduleResponse]
	if err := p.post("/api/v1/schedule", req, &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, fmt.Errorf("%s", resp.Message)
	}
	return &resp.Data, nil
}

// ========== Todo API ==========

// ListTodos 列出待办事项
func (p *Planner) ListTodos(includeCompleted bool) (*dto.ListResponse[*todo.Item], error) {
	path := "/api/v1/todos"
	if includeCompleted {
		path += "?include_completed=true"
	}

	var resp dto.APIResponse[dto.ListResponse[*todo.Item]]
	if err := p.get(path, &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, fmt.Errorf("%s", resp.Message)
	}
	return &resp.Data, nil
}

// GetTodo 获取待办事项详情
func (p *Planner) GetTodo(id string) (*todo.Item, error) {
	var resp dto.APIResponse[*todo.Item]
	if err := p.get("/api/v1/todos/"+id, &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, fmt.Errorf("%s", resp.Message)
	}
	return resp.Data, nil
}

// CreateTodo 创建待办事项
func (p *Planner) CreateTodo(req dto.SaveTodoRequest) (*todo.Item, error) {
	var resp dto.APIResponse[*todo.Item]
	if err := p.post("/api/v1/todos", req, &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, fmt.Errorf("%s", resp.Message)
	}
	return resp.Data, nil
}

// CompleteTodoResult 完成待办事项的结果
// Next 为重复事项滚动生成的下一次发生，非重复事项为空
type CompleteTodoResult struct {
	Completed string     `json:"completed"`
	Next      *todo.Item `json:"next"`
}

// CompleteTodo 完成待办事项
func (p *Planner) CompleteTodo(id string) (*CompleteTodoResult, error) {
	var resp dto.APIResponse[CompleteTodoResult]
	if err := p.post("/api/v1/todos/"+id+"/complete", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, fmt.Errorf("%s", resp.Message)
	}
	return &resp.Data, nil
}

// DeleteTodo 删除待办事项
func (p *Planner) DeleteTodo(id string) error {
	var resp dto.APIResponse[any]
	if err := p.delete("/api/v1/todos/"+id, &resp); err != nil {
		return err
	}
	if resp.Code != 0 {
		return fmt.Errorf("%s", resp.Message)
	}
	return nil
}

// ========== Health API ==========

// Health 健康检查
func (p *Planner) Health() (*dto.HealthResponse, error) {
	var resp dto.APIResponse[dto.HealthResponse]
	if err := p.get("/health", &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, fmt.Errorf("%s", resp.Message)
	}
	return &resp.Data, nil
}

// ========== HTTP Methods ==========

func (p *Planner) get(path string, result interface{}) error {
	resp, err := p.httpClient.Get(p.baseURL + path)
	if err != nil {
		return fmt.Errorf("HTTP请求失败: %w", err)
	}
	defer resp.Body.Close()

	return p.parseResponse(resp, result)
}

func (p *Planner) post(path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("序列化请求体失败: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	resp, err := p.httpClient.Post(p.baseURL+path, "application/json", reqBody)
	if err != nil {
		return fmt.Errorf("HTTP请求失败: %w", err)
	}
	defer resp.Body.Close()

	return p.parseResponse(resp, result)
}

func (p *Planner) put(path string, body interface{}, result interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("序列化请求体失败: %w", err)
	}

	req, err := http.NewRequest(http.MethodPut, p.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP请求失败: %w", err)
	}
	defer resp.Body.Close()

	return p.parseResponse(resp, result)
}

func (p *Planner) delete(path string, result interface{}) error {
	req, err := http.NewRequest(http.MethodDelete, p.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("创建请求失败: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP请求失败: %w", err)
	}
	defer resp.Body.Close()

	return p.parseResponse(resp, result)
}

func (p *Planner) parseResponse(resp *http.Response, result interface{}) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("读取响应体失败: %w", err)
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("解析响应失败: %w, body: %s", err, string(body))
	}

	return nil
}
