package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/LENAX/plan-engine/internal/storage"
	"github.com/LENAX/plan-engine/pkg/api"
	"github.com/LENAX/plan-engine/pkg/config"
	"github.com/LENAX/plan-engine/pkg/core/engine"
)

// 版本信息（编译时注入）
var version = "1.0.0"

// 独立服务端入口：加载配置，初始化存储与引擎，启动HTTP API
func main() {
	configPath := flag.String("config", "./configs/engine.yaml", "配置文件路径")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("加载配置失败:", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatal("配置无效:", err)
	}

	repo, err := storage.NewPlannerRepo(cfg.Database.Type, cfg.Database.DSN)
	if err != nil {
		log.Fatal("初始化存储失败:", err)
	}
	defer repo.Close()

	repo.GetDB().SetMaxOpenConns(cfg.Database.MaxOpenConns)
	repo.GetDB().SetMaxIdleConns(cfg.Database.MaxIdleConns)

	eng := engine.NewEngine(repo, repo)
	defer eng.Stop()

	serverConfig := api.DefaultServerConfig()
	serverConfig.Port = cfg.HTTPPort
	apiServer := api.NewAPIServer(eng, serverConfig, version)

	go func() {
		if err := apiServer.Start(); err != nil {
			log.Printf("API服务器错误: %v", err)
		}
	}()

	log.Printf("🎉 Plan Engine Server 启动完成: %s", apiServer.Addr())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverConfig.WriteTimeout)
	defer cancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("关闭API服务器失败: %v", err)
	}
}
