package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/LENAX/plan-engine/pkg/api/dto"
	"github.com/LENAX/plan-engine/pkg/cli/output"
	"github.com/LENAX/plan-engine/pkg/cli/planner"
	"github.com/LENAX/plan-engine/pkg/core/schedule"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var scheduleStartDate string

// projectFile 项目定义文件格式
type projectFile struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	StartDate   string          `yaml:"start_date"`
	Tasks       []schedule.Task `yaml:"tasks"`
}

// projectCmd project子命令
var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project管理命令",
	Long:  `管理项目，包括创建、列出、查看、删除、调度计算与依赖图。`,
}

// projectListCmd 列出项目
var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "列出所有项目",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := planner.New(serverURL)
		result, err := client.ListProjects()
		if err != nil {
			output.Error("查询失败: %v", err)
			return err
		}

		if outputJSON {
			return output.PrintJSON(result)
		}

		if len(result.Items) == 0 {
			output.Info("暂无项目")
			return nil
		}

		table := output.NewTable([]string{"ID", "NAME", "TASKS", "START", "CREATED"})
		for _, p := range result.Items {
			start := p.StartDate
			if start == "" {
				start = "-"
			}
			table.AddRow([]string{
				p.ID,
				p.Name,
				fmt.Sprintf("%d", p.TaskCount),
				start,
				p.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}
		table.Render()
		return nil
	},
}

// projectShowCmd 查看项目详情
var projectShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "查看项目详情",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := planner.New(serverURL)
		result, err := client.GetProject(args[0])
		if err != nil {
			output.Error("查询失败: %v", err)
			return err
		}

		if outputJSON {
			return output.PrintJSON(result)
		}

		fmt.Printf("Project:  %s\n", result.Name)
		fmt.Printf("ID:       %s\n", result.ID)
		fmt.Printf("描述:     %s\n", result.Description)
		if result.StartDate != "" {
			fmt.Printf("起始日期: %s\n", result.StartDate)
		}
		fmt.Printf("任务数:   %d\n", result.TaskCount)
		fmt.Println("\nTasks:")
		for _, t := range result.Tasks {
			deps := ""
			if len(t.Dependencies) > 0 {
				deps = fmt.Sprintf(" (依赖: %v)", t.Dependencies)
			}
			fmt.Printf("  - %s [%s] 估算 %.1f/%.1f/%.1f%s\n",
				t.Name, t.ID, t.Optimistic, t.Likely, t.Pessimistic, deps)
		}
		return nil
	},
}

// projectCreateCmd 从YAML文件创建项目
var projectCreateCmd = &cobra.Command{
	Use:   "create <file>",
	Short: "从YAML文件创建项目",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[0])
		if err != nil {
			output.Error("读取文件失败: %v", err)
			return err
		}

		var pf projectFile
		if err := yaml.Unmarshal(content, &pf); err != nil {
			output.Error("解析文件失败: %v", err)
			return err
		}

		client := planner.New(serverURL)
		result, err := client.CreateProject(dto.SaveProjectRequest{
			Name:        pf.Name,
			Description: pf.Description,
			StartDate:   pf.StartDate,
			Tasks:       pf.Tasks,
		})
		if err != nil {
			output.Error("创建失败: %v", err)
			return err
		}

		if outputJSON {
			return output.PrintJSON(result)
		}

		output.Success("项目创建成功: %s (%s)", result.Name, result.ID)
		return nil
	},
}

// projectDeleteCmd 删除项目
var projectDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "删除项目",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := planner.New(serverURL)
		if err := client.DeleteProject(args[0]); err != nil {
			output.Error("删除失败: %v", err)
			return err
		}

		output.Success("项目已删除: %s", args[0])
		return nil
	},
}

// projectScheduleCmd 计算项目调度
var projectScheduleCmd = &cobra.Command{
	Use:   "schedule <id>",
	Short: "计算项目调度",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := planner.New(serverURL)
		result, err := client.ComputeProject(args[0], scheduleStartDate)
		if err != nil {
			output.Error("计算失败: %v", err)
			return err
		}

		if outputJSON {
			return output.PrintJSON(result)
		}

		renderSchedule(result)
		return nil
	},
}

// projectGraphCmd 查看项目依赖图
var projectGraphCmd = &cobra.Command{
	Use:   "graph <id>",
	Short: "查看项目依赖图",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := planner.New(serverURL)
		result, err := client.GetGraph(args[0])
		if err != nil {
			output.Error("查询失败: %v", err)
			return err
		}

		if outputJSON {
			return output.PrintJSON(result)
		}

		names := make(map[string]string, len(result.Nodes))
		for _, n := range result.Nodes {
			names[n.ID] = n.Name
		}

		for level, ids := range result.Levels {
			fmt.Printf("Level %d:\n", level)
			for _, id := range ids {
				fmt.Printf("  - %s (%s)\n", names[id], id)
			}
		}
		fmt.Printf("\n起点: %v\n", result.Roots)
		fmt.Printf("终点: %v\n", result.Leaves)
		return nil
	},
}

// projectExportCmd 将调度结果导出为待办事项
var projectExportCmd = &cobra.Command{
	Use:   "export-todos <id>",
	Short: "将最近一次调度结果导出为待办事项",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := planner.New(serverURL)
		result, err := client.ExportTodos(args[0])
		if err != nil {
			output.Error("导出失败: %v", err)
			return err
		}

		if outputJSON {
			return output.PrintJSON(result)
		}

		output.Success("已导出 %d 个待办事项", result.Exported)
		return nil
	},
}

// renderSchedule 以表格形式渲染调度结果，关键路径任务高亮为红色
func renderSchedule(result *dto.ScheduleResponse) {
	table := output.NewTable([]string{"TASK", "NAME", "DUR", "ES", "EF", "LS", "LF", "SLACK", "DATES"})
	critical := color.New(color.FgRed, color.Bold)

	for _, n := range result.Nodes {
		dates := "-"
		if r, ok := result.Dates[n.ID]; ok {
			dates = r.StartDate + " ~ " + r.EndDate
		}
		row := []string{
			n.ID,
			n.Name,
			fmt.Sprintf("%.2f", n.Duration),
			fmt.Sprintf("%.2f", n.EarlyStart),
			fmt.Sprintf("%.2f", n.EarlyFinish),
			fmt.Sprintf("%.2f", n.LateStart),
			fmt.Sprintf("%.2f", n.LateFinish),
			fmt.Sprintf("%.2f", n.Slack),
			dates,
		}
		if n.IsCritical {
			table.AddRowColored(row, critical)
		} else {
			table.AddRow(row)
		}
	}
	table.Render()

	fmt.Println()
	fmt.Printf("总工期:   %.2f 天\n", result.ProjectDuration)
	fmt.Printf("关键路径: %s\n", strings.Join(result.CriticalPath, " -> "))
	for _, w := range result.Warnings {
		output.Warning("%s", w)
	}
}

func init() {
	projectScheduleCmd.Flags().StringVar(&scheduleStartDate, "start-date", "", "起始日期（2006-01-02），覆盖项目自身设置")

	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectShowCmd)
	projectCmd.AddCommand(projectCreateCmd)
	projectCmd.AddCommand(projectDeleteCmd)
	projectCmd.AddCommand(projectScheduleCmd)
	projectCmd.AddCommand(projectGraphCmd)
	projectCmd.AddCommand(projectExportCmd)
}
