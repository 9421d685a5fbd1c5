package cmd

import (
	"github.com/LENAX/plan-engine/pkg/api/dto"
	"github.com/LENAX/plan-engine/pkg/cli/output"
	"github.com/LENAX/plan-engine/pkg/cli/planner"
	"github.com/LENAX/plan-engine/pkg/core/todo"
	"github.com/spf13/cobra"
)

var (
	todoIncludeCompleted bool
	todoDueDate          string
	todoPriority         string
	todoCategory         string
	todoRecurrence       string
	todoNotes            string
)

// todoCmd todo子命令
var todoCmd = &cobra.Command{
	Use:   "todo",
	Short: "待办事项管理命令",
	Long:  `管理待办事项，包括创建、列出、完成和删除。`,
}

// todoListCmd 列出待办事项
var todoListCmd = &cobra.Command{
	Use:   "list",
	Short: "列出待办事项",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := planner.New(serverURL)
		result, err := client.ListTodos(todoIncludeCompleted)
		if err != nil {
			output.Error("查询失败: %v", err)
			return err
		}

		if outputJSON {
			return output.PrintJSON(result)
		}

		if len(result.Items) == 0 {
			output.Info("暂无待办事项")
			return nil
		}

		table := output.NewTable([]string{"ID", "TITLE", "PRIORITY", "DUE", "REPEAT", "DONE"})
		for _, item := range result.Items {
			due := item.DueDate
			if due == "" {
				due = "-"
			}
			repeat := item.RecurrenceExpr
			if repeat == "" {
				repeat = "-"
			}
			done := ""
			if item.Completed {
				done = "✓"
			}
			table.AddRow([]string{
				item.ID,
				item.Title,
				todo.PriorityLabel(item.Priority),
				due,
				repeat,
				done,
			})
		}
		table.Render()
		return nil
	},
}

// todoAddCmd 创建待办事项
var todoAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "创建待办事项",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := planner.New(serverURL)
		item, err := client.CreateTodo(dto.SaveTodoRequest{
			Title:          args[0],
			Notes:          todoNotes,
			DueDate:        todoDueDate,
			Priority:       todoPriority,
			Category:       todoCategory,
			RecurrenceExpr: todoRecurrence,
		})
		if err != nil {
			output.Error("创建失败: %v", err)
			return err
		}

		if outputJSON {
			return output.PrintJSON(item)
		}

		output.Success("待办事项已创建: %s (%s)", item.Title, item.ID)
		return nil
	},
}

// todoCompleteCmd 完成待办事项
var todoCompleteCmd = &cobra.Command{
	Use:   "complete <id>",
	Short: "完成待办事项",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := planner.New(serverURL)
		result, err := client.CompleteTodo(args[0])
		if err != nil {
			output.Error("操作失败: %v", err)
			return err
		}

		if outputJSON {
			return output.PrintJSON(result)
		}

		output.Success("待办事项已完成: %s", result.Completed)
		if result.Next != nil {
			output.Info("下一次发生: %s (截止 %s)", result.Next.ID, result.Next.DueDate)
		}
		return nil
	},
}

// todoDeleteCmd 删除待办事项
var todoDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "删除待办事项",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := planner.New(serverURL)
		if err := client.DeleteTodo(args[0]); err != nil {
			output.Error("删除失败: %v", err)
			return err
		}

		output.Success("待办事项已删除: %s", args[0])
		return nil
	},
}

func init() {
	todoListCmd.Flags().BoolVarP(&todoIncludeCompleted, "all", "a", false, "包含已完成事项")

	todoAddCmd.Flags().StringVar(&todoDueDate, "due", "", "截止日期（2006-01-02）")
	todoAddCmd.Flags().StringVar(&todoPriority, "priority", "", "优先级（low/normal/high/urgent）")
	todoAddCmd.Flags().StringVar(&todoCategory, "category", "", "分类")
	todoAddCmd.Flags().StringVar(&todoRecurrence, "repeat", "", "重复表达式（cron，支持 @daily 等）")
	todoAddCmd.Flags().StringVar(&todoNotes, "notes", "", "备注")

	todoCmd.AddCommand(todoListCmd)
	todoCmd.AddCommand(todoAddCmd)
	todoCmd.AddCommand(todoCompleteCmd)
	todoCmd.AddCommand(todoDeleteCmd)
}
