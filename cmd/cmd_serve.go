package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"peermall/internal/middleware"
	"peermall/internal/router"
	"peermall/internal/seed"
	"peermall/internal/task"
	"peermall/pkg/logger"
)

var serveSeed bool

// serveCmd 启动 HTTP 服务
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveSeed, "seed", false, "write sample board data on startup when the tables are empty")
}

func runServe(cmd *cobra.Command, args []string) error {
	// 1. 配置与依赖
	cfg, err := initConfig()
	if err != nil {
		return err
	}
	deps, err := initDependencies(cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	if serveSeed {
		sample, err := seed.Load()
		if err != nil {
			return err
		}
		if _, err := seed.New(deps.Repos.Inquiry, deps.Repos.Post, nil).Seed(cmd.Context(), sample); err != nil {
			logger.GetLogger().Warn("演示数据写入失败", zap.Error(err))
		}
	}

	// 2. 定时任务
	tm := task.NewTaskManager(task.StatsTaskDeps{
		Store:     deps.Store,
		Attempts:  deps.Repos.LoginAttempt,
		Inquiries: deps.Repos.Inquiry,
		Posts:     deps.Repos.Post,
		Metrics:   deps.Metrics,
	}, &task.TaskManagerConfig{StatsEnabled: true, StatsSpec: cfg.StatsCron})
	if err := tm.Start(); err != nil {
		return err
	}
	defer tm.Stop()

	// 3. 路由
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		logger.Middleware(),
		middleware.Metrics(deps.Metrics),
		middleware.Device(cfg.Server.DeviceCookie),
	)
	router.InitRoutes(r, deps.Controllers, router.Options{
		Sessions:       deps.Services.Auth,
		MetricsHandler: promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}),
	})

	// 4. 启动服务
	return startServer(r, cfg.Server.Port)
}

// startServer 启动服务并等待退出信号
func startServer(r *gin.Engine, port string) error {
	log := logger.GetLogger()

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 异步启动服务
	errCh := make(chan error, 1)
	go func() {
		log.Info("服务启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		log.Error("服务启动失败", zap.Error(err))
		return err
	case <-quit:
	}

	log.Info("正在关闭服务...")

	// 优雅关闭，最多等待 30 秒
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("服务强制关闭", zap.Error(err))
		return err
	}

	log.Info("服务已退出")
	return nil
}
