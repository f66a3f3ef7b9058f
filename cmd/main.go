package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"peermall/internal/controller"
	"peermall/internal/model"
	"peermall/internal/repository"
	"peermall/internal/router"
	"peermall/internal/service"
	"peermall/pkg/config"
	"peermall/pkg/database"
	"peermall/pkg/kvstore"
	"peermall/pkg/logger"
	"peermall/pkg/metrics"
)

const serviceName = "peermall"

// rootCmd peermall 命令入口
var rootCmd = &cobra.Command{
	Use:   serviceName,
	Short: "Peermall storefront builder server",
	Long: `Peermall: per-device storefront builder with OTP login, ad placement,
inquiry board and community posts.

Available subcommands:
  serve  - Start the HTTP server
  seed   - Write the built-in sample data
  export - Dump one device namespace as JSON`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(serveCmd, seedCmd, exportCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	Config      *config.Config
	DB          *gorm.DB
	Store       kvstore.Store
	Registry    *prometheus.Registry
	Metrics     *metrics.Metrics
	Repos       *Repositories
	Services    *Services
	Controllers *router.Controllers
}

// Repositories 仓库集合
type Repositories struct {
	Shop         repository.ShopRepository
	Session      repository.SessionRepository
	LoginAttempt repository.LoginAttemptRepository
	QRCode       repository.QRCodeRepository
	Inquiry      repository.InquiryRepository
	Post         repository.PostRepository
}

// Services 服务集合
type Services struct {
	Auth      *service.AuthService
	Shop      *service.ShopService
	Ad        *service.AdService
	QRCode    *service.QRCodeService
	Inquiry   *service.InquiryService
	Community *service.CommunityService
	Storage   *service.StorageService
}

// ==================== 初始化函数 ====================

// initConfig 加载配置并初始化日志
func initConfig() (*config.Config, error) {
	cfg, err := config.Load(serviceName)
	if err != nil {
		return nil, err
	}
	if err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.LogLevel,
		Environment: cfg.Server.Env,
		ServiceName: cfg.ServiceName,
	}); err != nil {
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}
	logger.GetLogger().Info("配置加载完成", cfg.LogFields()...)
	return cfg, nil
}

// initDatabase 初始化数据库
func initDatabase(cfg *config.Config) (*gorm.DB, error) {
	return database.InitDB(cfg.DB,
		// 设备存储
		&kvstore.KVEntry{},
		// 咨询板
		&model.Inquiry{}, &model.Reply{},
		// 社区
		&model.CommunityPost{},
	)
}

// initDependencies 初始化所有依赖
func initDependencies(cfg *config.Config) (*Dependencies, error) {
	db, err := initDatabase(cfg)
	if err != nil {
		return nil, err
	}

	// -------- 指标 --------
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg, serviceName)

	// -------- Repo 层 --------
	store := kvstore.NewGormStore(db, cfg.Store.QuotaBytes)
	repos := initRepositories(db, store)

	// -------- Service 层 --------
	services := initServices(cfg, store, repos)

	return &Dependencies{
		Config:      cfg,
		DB:          db,
		Store:       store,
		Registry:    reg,
		Metrics:     m,
		Repos:       repos,
		Services:    services,
		Controllers: initControllers(services, m),
	}, nil
}

// initRepositories 初始化所有仓库
func initRepositories(db *gorm.DB, store kvstore.Store) *Repositories {
	return &Repositories{
		Shop:         repository.NewShopRepository(store),
		Session:      repository.NewSessionRepository(store),
		LoginAttempt: repository.NewLoginAttemptRepository(),
		QRCode:       repository.NewQRCodeRepository(store),
		Inquiry:      repository.NewInquiryRepository(db),
		Post:         repository.NewPostRepository(db),
	}
}

// initServices 初始化所有服务
func initServices(cfg *config.Config, store kvstore.Store, repos *Repositories) *Services {
	shopSvc := service.NewShopService(repos.Shop)

	return &Services{
		Auth: service.NewAuthService(
			repos.Session,
			repos.LoginAttempt,
			&service.SimulatedCodeSender{Delay: cfg.OTP.SendDelay},
			service.AuthConfig{
				ExposeCode:  cfg.OTP.ExposeCode,
				AdminEmails: cfg.AdminEmails,
			},
		),
		Shop:      shopSvc,
		Ad:        service.NewAdService(shopSvc),
		QRCode:    service.NewQRCodeService(repos.QRCode, service.NewPNGRenderer()),
		Inquiry:   service.NewInquiryService(repos.Inquiry),
		Community: service.NewCommunityService(repos.Post),
		Storage:   service.NewStorageService(store, repos.Shop),
	}
}

// initControllers 初始化所有控制器
func initControllers(svc *Services, m *metrics.Metrics) *router.Controllers {
	return &router.Controllers{
		Auth:      controller.NewAuthController(svc.Auth, m),
		Shop:      controller.NewShopController(svc.Shop, svc.Ad),
		QRCode:    controller.NewQRCodeController(svc.QRCode),
		Inquiry:   controller.NewInquiryController(svc.Inquiry),
		Community: controller.NewCommunityController(svc.Community),
		Storage:   controller.NewStorageController(svc.Storage),
	}
}

// Close 释放资源
func (d *Dependencies) Close() {
	if d.DB != nil {
		database.Close(d.DB)
	}
	logger.GetLogger().Info("资源已释放", zap.String("service", serviceName))
	logger.Sync()
}
