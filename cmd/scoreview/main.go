package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"scoreview/internal/config"
	"scoreview/internal/report"
	"scoreview/internal/server"
	"scoreview/internal/sheets"
	"scoreview/internal/util"
)

var (
	port       = flag.Int("port", 0, "服务端口 (覆盖 config.toml)")
	devMode    = flag.Bool("dev", false, "开发模式")
	configPath = flag.String("config", "", "配置文件路径 (默认取可执行文件同目录 config.toml)")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  Scoreview - 학생 점수 대시보드")
	fmt.Println("==========================================")

	// 先加载 .env，凭证可以不落配置文件
	if err := godotenv.Load(); err != nil {
		log.Println("未找到 .env 文件，使用系统环境变量")
	}

	// 加载配置
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Printf("加载配置失败，使用默认配置: %v", err)
		cfg = config.DefaultConfig()
	}

	// 命令行参数覆盖配置
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}

	// 凭证或表格配置有误时直接退出，不渲染半个看板
	client, err := sheets.NewClient(context.Background(), &cfg.Sheets)
	if err != nil {
		log.Fatalf("Google Sheets 连接失败: %v", err)
	}
	fmt.Printf("表格 ID: %s\n", client.SpreadsheetID())

	svc := report.NewService(client, cfg.Data.IdentityColumns,
		time.Duration(cfg.Cache.TTLSeconds)*time.Second)

	// 创建服务器
	srv := server.NewServer(svc, client.SpreadsheetID(), cfg.Server.DevMode)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	// 启动服务器
	go func() {
		fmt.Printf("服务启动中，监听端口 %d ...\n", cfg.Server.Port)
		if err := srv.Run(addr); err != nil {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 打开浏览器
	if !cfg.Server.DevMode {
		fmt.Printf("正在打开浏览器: %s\n", url)
		if err := util.OpenBrowserWithFallback(url); err != nil {
			fmt.Printf("无法自动打开浏览器，请手动访问: %s\n", url)
		}
	} else {
		fmt.Printf("开发模式: 请访问 %s\n", url)
	}

	fmt.Println("\n按 Ctrl+C 停止服务...")

	// 等待信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\n服务已停止")
}
