package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// 全局变量
	serverURL  string
	outputJSON bool
)

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:   "plan-engine",
	Short: "Plan Engine CLI - PERT/CPM规划引擎命令行工具",
	Long: `Plan Engine CLI 是一个用于项目规划与调度计算的命令行工具。

支持的功能：
  - 管理Project（创建、列出、查看、删除）
  - 计算调度（三点估算、关键路径、日历投影）
  - 查看任务依赖图
  - 管理待办事项（列出、创建、完成、删除）
  - 启动HTTP API服务

使用示例：
  # 列出所有项目
  plan-engine project list

  # 从YAML文件创建项目
  plan-engine project create plan.yaml

  # 计算项目调度
  plan-engine project schedule <project-id>

  # 将调度结果导出为待办事项
  plan-engine project export-todos <project-id>

  # 启动HTTP服务
  plan-engine server start --port 8080`,
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// 全局参数
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "http://localhost:8080", "Plan Engine服务器地址")
	rootCmd.PersistentFlags().BoolVarP(&outputJSON, "json", "j", false, "使用JSON格式输出")

	// 添加子命令
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(todoCmd)
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(versionCmd)
}
