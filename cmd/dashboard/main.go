package main

import (
	"context"
	"flag"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/copybot/godash/internal/api"
	"github.com/copybot/godash/internal/audit"
	"github.com/copybot/godash/internal/dashboard"
	"github.com/copybot/godash/internal/stream"
	"github.com/copybot/godash/pkg/config"
	"github.com/copybot/godash/pkg/logger"
)

func main() {
	// 尽力加载 .env，不存在时退回真实环境变量
	_ = godotenv.Load()

	getenv := func(key, def string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return def
	}

	var (
		configPath = flag.String("config", getenv("GODASH_CONFIG", "config.yaml"), "配置文件路径（可选）")
		baseURL    = flag.String("base-url", "", "后端基础地址（覆盖配置）")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		// base-url 旗标可以补齐缺失的地址配置
		if *baseURL == "" {
			log.Fatalf("加载配置失败: %v", err)
		}
		os.Setenv("GODASH_BASE_URL", *baseURL)
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("加载配置失败: %v", err)
		}
	}
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}

	// TUI 模式：日志只写文件，避免撕裂终端界面
	if err := logger.Init(logger.Config{
		Level:      cfg.LogLevel,
		OutputFile: cfg.LogFile,
		MaxSize:    50,
		MaxBackups: 3,
		MaxAge:     7,
		Compress:   true,
		FileOnly:   true,
	}); err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}

	client := api.NewClient(cfg.BaseURL, cfg.CommandTimeout)
	state := dashboard.NewState(cfg.PurgeMissThreshold)

	var auditor dashboard.Auditor
	if cfg.Audit.DBPath != "" {
		journal, err := audit.Open(cfg.Audit.DBPath)
		if err != nil {
			log.Fatalf("打开审计日志失败: %v", err)
		}
		defer journal.Close()
		auditor = journal
	}

	model := dashboard.NewModel(client, state, auditor, cfg.PollInterval)
	p := tea.NewProgram(model, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 可选推送通道：事件到达时请求立即刷新（仍受序列号规则约束）
	if cfg.Stream.Enabled {
		listener := stream.NewListener(stream.Config{
			URL:            cfg.StreamURL(),
			ReconnectDelay: cfg.Stream.ReconnectDelay,
		}, func() {
			p.Send(dashboard.RefreshRequestMsg{})
		})
		go listener.Run(ctx)
	}

	logger.Infof("dashboard starting, backend=%s poll=%s", cfg.BaseURL, cfg.PollInterval)
	if _, err := p.Run(); err != nil {
		log.Fatalf("运行程序失败: %v", err)
	}
}
