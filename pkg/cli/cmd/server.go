package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/LENAX/plan-engine/internal/storage"
	"github.com/LENAX/plan-engine/pkg/api"
	"github.com/LENAX/plan-engine/pkg/cli/output"
	"github.com/LENAX/plan-engine/pkg/config"
	"github.com/LENAX/plan-engine/pkg/core/engine"
	"github.com/spf13/cobra"
)

var (
	serverPort int
	serverHost string
	configPath string
)

// serverCmd server子命令
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "服务管理命令",
	Long:  `管理Plan Engine HTTP API服务。`,
}

// serverStartCmd 启动服务
var serverStartCmd = &cobra.Command{
	Use:   "start",
	Short: "启动HTTP API服务",
	Long: `启动Plan Engine HTTP API服务。

示例：
  # 使用默认配置启动
  plan-engine server start

  # 指定端口启动
  plan-engine server start --port 8080

  # 指定配置文件启动
  plan-engine server start --config ./configs/engine.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			output.Error("加载配置失败: %v", err)
			return err
		}

		// 命令行参数覆盖配置文件
		if cmd.Flags().Changed("port") {
			cfg.HTTPPort = serverPort
		}

		if err := config.Validate(cfg); err != nil {
			output.Error("配置无效: %v", err)
			return err
		}

		// 创建存储层
		repo, err := storage.NewPlannerRepo(cfg.Database.Type, cfg.Database.DSN)
		if err != nil {
			output.Error("初始化存储失败: %v", err)
			return err
		}
		defer repo.Close()

		repo.GetDB().SetMaxOpenConns(cfg.Database.MaxOpenConns)
		repo.GetDB().SetMaxIdleConns(cfg.Database.MaxIdleConns)

		// 创建Engine
		eng := engine.NewEngine(repo, repo)
		defer eng.Stop()

		// 创建并启动API服务器
		serverConfig := api.ServerConfig{
			Host:         serverHost,
			Port:         cfg.HTTPPort,
			ReadTimeout:  api.DefaultServerConfig().ReadTimeout,
			WriteTimeout: api.DefaultServerConfig().WriteTimeout,
		}
		apiServer := api.NewAPIServer(eng, serverConfig, Version)

		go func() {
			if err := apiServer.Start(); err != nil {
				log.Printf("API服务器错误: %v", err)
			}
		}()

		output.Success("Plan Engine Server started on %s:%d", serverHost, cfg.HTTPPort)

		// 等待中断信号
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		output.Info("正在关闭服务...")

		// 优雅关闭
		shutdownCtx, cancel := context.WithTimeout(context.Background(), api.DefaultServerConfig().WriteTimeout)
		defer cancel()

		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			output.Error("关闭API服务器失败: %v", err)
		}

		output.Success("服务已停止")
		return nil
	},
}

func init() {
	serverStartCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "监听端口")
	serverStartCmd.Flags().StringVarP(&serverHost, "host", "H", "0.0.0.0", "监听地址")
	serverStartCmd.Flags().StringVarP(&configPath, "config", "c", "./configs/engine.yaml", "配置文件路径")

	serverCmd.AddCommand(serverStartCmd)
}
