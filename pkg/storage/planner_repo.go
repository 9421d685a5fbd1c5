package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/LENAX/plan-engine/pkg/core/schedule"
	"github.com/LENAX/plan-engine/pkg/core/todo"
	"github.com/LENAX/plan-engine/pkg/storage/dao"
	"github.com/jmoiron/sqlx"
)

// 基准DDL以SQLite语法书写，由Dialect转换为各数据库兼容格式
var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS project (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		start_date TEXT NOT NULL DEFAULT '',
		create_time DATETIME NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS project_task (
		id TEXT NOT NULL,
		project_id TEXT NOT NULL,
		name TEXT NOT NULL,
		optimistic REAL NOT NULL DEFAULT 0,
		likely REAL NOT NULL DEFAULT 0,
		pessimistic REAL NOT NULL DEFAULT 0,
		dependencies TEXT NOT NULL DEFAULT '[]',
		category TEXT NOT NULL DEFAULT '',
		position INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (project_id, id)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_project_task_project_id ON project_task(project_id);`,
	`CREATE TABLE IF NOT EXISTS schedule_snapshot (
		project_id TEXT PRIMARY KEY,
		start_date TEXT NOT NULL DEFAULT '',
		result TEXT NOT NULL,
		computed_at DATETIME NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS todo_item (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		due_date TEXT NOT NULL DEFAULT '',
		priority INTEGER NOT NULL DEFAULT 1,
		category TEXT NOT NULL DEFAULT '',
		completed INTEGER NOT NULL DEFAULT 0,
		recurrence_expr TEXT NOT NULL DEFAULT '',
		create_time DATETIME NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_todo_item_completed ON todo_item(completed);`,
}

// PlannerRepo 项目与待办事项Repository的sqlx实现（对外导出）
// SQL语法差异通过Dialect抽象，三种数据库共用同一实现
type PlannerRepo struct {
	db      *sqlx.DB
	dialect Dialect
}

// NewPlannerRepo 创建Repository实例并初始化表结构（对外导出）
func NewPlannerRepo(db *sqlx.DB, dialect Dialect) (*PlannerRepo, error) {
	repo := &PlannerRepo{db: db, dialect: dialect}
	if err := repo.initSchema(); err != nil {
		return nil, fmt.Errorf("初始化表结构失败: %w", err)
	}
	return repo, nil
}

// GetDB 获取底层数据库连接（对外导出）
func (r *PlannerRepo) GetDB() *sqlx.DB {
	return r.db
}

// Close 关闭数据库连接（对外导出）
func (r *PlannerRepo) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// initSchema 初始化数据库表结构
func (r *PlannerRepo) initSchema() error {
	for _, stmt := range r.dialect.ConfigureDB() {
		if _, err := r.db.Exec(stmt); err != nil {
			return fmt.Errorf("执行配置SQL失败: %w", err)
		}
	}
	for _, ddl := range schemaDDL {
		stmt := r.dialect.CreateTableSQL(ddl)
		if stmt == "" {
			continue
		}
		if _, err := r.db.Exec(stmt); err != nil {
			return fmt.Errorf("执行DDL失败: %w", err)
		}
	}
	return nil
}

// ========== 项目聚合相关操作 ==========

// SaveProject 保存项目及其全部任务（事务）
func (r *PlannerRepo) SaveProject(ctx context.Context, p *Project) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("开始事务失败: %w", err)
	}
	defer tx.Rollback()

	if p.CreateTime.IsZero() {
		p.CreateTime = time.Now()
	}

	projectDAO := &dao.ProjectDAO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		StartDate:   p.StartDate,
		CreateTime:  p.CreateTime,
	}

	upsert := r.dialect.UpsertSQL("project",
		[]string{"id", "name", "description", "start_date", "create_time"},
		"id",
		[]string{"name", "description", "start_date"})
	if _, err := tx.NamedExecContext(ctx, upsert, projectDAO); err != nil {
		return fmt.Errorf("保存项目失败: %w", err)
	}

	// 任务列表整体替换
	if _, err := tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM project_task WHERE project_id = ?`), p.ID); err != nil {
		return fmt.Errorf("删除旧任务失败: %w", err)
	}

	insertTask := `INSERT INTO project_task
		(id, project_id, name, optimistic, likely, pessimistic, dependencies, category, position)
		VALUES (:id, :project_id, :name, :optimistic, :likely, :pessimistic, :dependencies, :category, :position)`
	for i, t := range p.Tasks {
		depsJSON, err := json.Marshal(t.Dependencies)
		if err != nil {
			return fmt.Errorf("序列化依赖列表失败: %w", err)
		}
		taskDAO := &dao.ProjectTaskDAO{
			ID:           t.ID,
			ProjectID:    p.ID,
			Name:         t.Name,
			Optimistic:   t.Optimistic,
			Likely:       t.Likely,
			Pessimistic:  t.Pessimistic,
			Dependencies: string(depsJSON),
			Category:     t.Category,
			Position:     i,
		}
		if _, err := tx.NamedExecContext(ctx, insertTask, taskDAO); err != nil {
			return fmt.Errorf("保存任务 %s 失败: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("提交事务失败: %w", err)
	}
	return nil
}

// GetProject 根据ID查询项目（含任务）
func (r *PlannerRepo) GetProject(ctx context.Context, id string) (*Project, error) {
	var projectDAO dao.ProjectDAO
	query := r.db.Rebind(`SELECT id, name, description, start_date, create_time FROM project WHERE id = ?`)
	if err := r.db.GetContext(ctx, &projectDAO, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("查询项目失败: %w", err)
	}

	tasks, err := r.loadTasks(ctx, id)
	if err != nil {
		return nil, err
	}

	return &Project{
		ID:          projectDAO.ID,
		Name:        projectDAO.Name,
		Description: projectDAO.Description,
		StartDate:   projectDAO.StartDate,
		Tasks:       tasks,
		CreateTime:  projectDAO.CreateTime,
	}, nil
}

// ListProjects 列出所有项目（含任务）
func (r *PlannerRepo) ListProjects(ctx context.Context) ([]*Project, error) {
	var projectDAOs []dao.ProjectDAO
	query := `SELECT id, name, description, start_date, create_time FROM project ORDER BY create_time, id`
	if err := r.db.SelectContext(ctx, &projectDAOs, query); err != nil {
		return nil, fmt.Errorf("查询项目列表失败: %w", err)
	}

	projects := make([]*Project, 0, len(projectDAOs))
	for _, pd := range projectDAOs {
		tasks, err := r.loadTasks(ctx, pd.ID)
		if err != nil {
			return nil, err
		}
		projects = append(projects, &Project{
			ID:          pd.ID,
			Name:        pd.Name,
			Description: pd.Description,
			StartDate:   pd.StartDate,
			Tasks:       tasks,
			CreateTime:  pd.CreateTime,
		})
	}
	return projects, nil
}

// DeleteProject 删除项目及其任务与快照
func (r *PlannerRepo) DeleteProject(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("开始事务失败: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM project WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("删除项目失败: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM project_task WHERE project_id = ?`), id); err != nil {
		return fmt.Errorf("删除项目任务失败: %w", err)
	}
	if _, err := tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM schedule_snapshot WHERE project_id = ?`), id); err != nil {
		return fmt.Errorf("删除项目快照失败: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("提交事务失败: %w", err)
	}
	return nil
}

// loadTasks 加载项目的任务列表，按保存时的顺序返回
func (r *PlannerRepo) loadTasks(ctx context.Context, projectID string) ([]schedule.Task, error) {
	var taskDAOs []dao.ProjectTaskDAO
	query := r.db.Rebind(`SELECT id, project_id, name, optimistic, likely, pessimistic, dependencies, category, position
		FROM project_task WHERE project_id = ? ORDER BY position`)
	if err := r.db.SelectContext(ctx, &taskDAOs, query, projectID); err != nil {
		return nil, fmt.Errorf("查询项目任务失败: %w", err)
	}

	tasks := make([]schedule.Task, 0, len(taskDAOs))
	for _, td := range taskDAOs {
		var deps []string
		if err := json.Unmarshal([]byte(td.Dependencies), &deps); err != nil {
			return nil, fmt.Errorf("反序列化任务 %s 的依赖列表失败: %w", td.ID, err)
		}
		tasks = append(tasks, schedule.Task{
			ID:           td.ID,
			Name:         td.Name,
			Optimistic:   td.Optimistic,
			Likely:       td.Likely,
			Pessimistic:  td.Pessimistic,
			Dependencies: deps,
			Category:     td.Category,
		})
	}
	return tasks, nil
}

// ========== 调度快照相关操作 ==========

// SaveSnapshot 保存调度计算快照（覆盖旧快照）
func (r *PlannerRepo) SaveSnapshot(ctx context.Context, snap *ScheduleSnapshot) error {
	resultJSON, err := json.Marshal(snap.Result)
	if err != nil {
		return fmt.Errorf("序列化计算结果失败: %w", err)
	}

	snapDAO := &dao.ScheduleSnapshotDAO{
		ProjectID:  snap.ProjectID,
		StartDate:  snap.StartDate,
		Result:     string(resultJSON),
		ComputedAt: snap.ComputedAt,
	}

	upsert := r.dialect.UpsertSQL("schedule_snapshot",
		[]string{"project_id", "start_date", "result", "computed_at"},
		"project_id",
		[]string{"start_date", "result", "computed_at"})
	if _, err := r.db.NamedExecContext(ctx, upsert, snapDAO); err != nil {
		return fmt.Errorf("保存调度快照失败: %w", err)
	}
	return nil
}

// GetSnapshot 查询项目最近一次的计算快照
func (r *PlannerRepo) GetSnapshot(ctx context.Context, projectID string) (*ScheduleSnapshot, error) {
	var snapDAO dao.ScheduleSnapshotDAO
	query := r.db.Rebind(`SELECT project_id, start_date, result, computed_at FROM schedule_snapshot WHERE project_id = ?`)
	if err := r.db.GetContext(ctx, &snapDAO, query, projectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("查询调度快照失败: %w", err)
	}

	var result schedule.Result
	if err := json.Unmarshal([]byte(snapDAO.Result), &result); err != nil {
		return nil, fmt.Errorf("反序列化计算结果失败: %w", err)
	}

	return &ScheduleSnapshot{
		ProjectID:  snapDAO.ProjectID,
		StartDate:  snapDAO.StartDate,
		Result:     &result,
		ComputedAt: snapDAO.ComputedAt,
	}, nil
}

// ========== 待办事项相关操作 ==========

// SaveItem 保存待办事项（插入或更新）
func (r *PlannerRepo) SaveItem(ctx context.Context, item *todo.Item) error {
	if item.CreateTime.IsZero() {
		item.CreateTime = time.Now()
	}

	itemDAO := &dao.TodoItemDAO{
		ID:             item.ID,
		Title:          item.Title,
		Notes:          item.Notes,
		DueDate:        item.DueDate,
		Priority:       item.Priority,
		Category:       item.Category,
		Completed:      item.Completed,
		RecurrenceExpr: item.RecurrenceExpr,
		CreateTime:     item.CreateTime,
	}

	upsert := r.dialect.UpsertSQL("todo_item",
		[]string{"id", "title", "notes", "due_date", "priority", "category", "completed", "recurrence_expr", "create_time"},
		"id",
		[]string{"title", "notes", "due_date", "priority", "category", "completed", "recurrence_expr"})
	if _, err := r.db.NamedExecContext(ctx, upsert, itemDAO); err != nil {
		return fmt.Errorf("保存待办事项失败: %w", err)
	}
	return nil
}

// GetItem 根据ID查询待办事项
func (r *PlannerRepo) GetItem(ctx context.Context, id string) (*todo.Item, error) {
	var itemDAO dao.TodoItemDAO
	query := r.db.Rebind(`SELECT id, title, notes, due_date, priority, category, completed, recurrence_expr, create_time
		FROM todo_item WHERE id = ?`)
	if err := r.db.GetContext(ctx, &itemDAO, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("查询待办事项失败: %w", err)
	}
	return todoFromDAO(&itemDAO), nil
}

// ListItems 列出待办事项；includeCompleted为false时过滤已完成项
func (r *PlannerRepo) ListItems(ctx context.Context, includeCompleted bool) ([]*todo.Item, error) {
	query := `SELECT id, title, notes, due_date, priority, category, completed, recurrence_expr, create_time FROM todo_item`
	if !includeCompleted {
		query += ` WHERE completed = ` + r.falseLiteral()
	}
	query += ` ORDER BY due_date, priority DESC, create_time`

	var itemDAOs []dao.TodoItemDAO
	if err := r.db.SelectContext(ctx, &itemDAOs, query); err != nil {
		return nil, fmt.Errorf("查询待办事项列表失败: %w", err)
	}

	items := make([]*todo.Item, 0, len(itemDAOs))
	for i := range itemDAOs {
		items = append(items, todoFromDAO(&itemDAOs[i]))
	}
	return items, nil
}

// DeleteItem 删除待办事项
func (r *PlannerRepo) DeleteItem(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM todo_item WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("删除待办事项失败: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

// falseLiteral 返回方言对应的布尔假值字面量
func (r *PlannerRepo) falseLiteral() string {
	if r.dialect.Name() == "postgres" {
		return "FALSE"
	}
	return "0"
}

// todoFromDAO DAO记录转换为领域模型
func todoFromDAO(d *dao.TodoItemDAO) *todo.Item {
	return &todo.Item{
		ID:             d.ID,
		Title:          d.Title,
		Notes:          d.Notes,
		DueDate:        d.DueDate,
		Priority:       d.Priority,
		Category:       d.Category,
		Completed:      d.Completed,
		RecurrenceExpr: d.RecurrenceExpr,
		CreateTime:     d.CreateTime,
	}
}
