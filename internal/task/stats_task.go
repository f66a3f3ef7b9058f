package task

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"peermall/internal/model"
	"peermall/internal/repository"
	"peermall/pkg/kvstore"
	"peermall/pkg/logger"
	"peermall/pkg/metrics"
)

// DefaultStatsSpec 默认每分钟刷新一次
const DefaultStatsSpec = "0 */1 * * * *"

// ==================== StatsTask 存储统计任务 ====================

// StatsTask 定时统计存储规模并写入 Prometheus gauge
// 只读，不修改任何设备数据
type StatsTask struct {
	store     kvstore.Store
	attempts  repository.LoginAttemptRepository
	inquiries repository.InquiryRepository
	posts     repository.PostRepository
	metrics   *metrics.Metrics

	cron    *cron.Cron
	spec    string
	timeout time.Duration
	wg      sync.WaitGroup
	now     func() time.Time
}

// StatsTaskDeps 统计任务依赖，仓储可为空（跳过对应指标）
type StatsTaskDeps struct {
	Store     kvstore.Store
	Attempts  repository.LoginAttemptRepository
	Inquiries repository.InquiryRepository
	Posts     repository.PostRepository
	Metrics   *metrics.Metrics
}

// NewStatsTask 创建统计任务，spec 为六段式 cron 表达式
func NewStatsTask(deps StatsTaskDeps, spec string) *StatsTask {
	if spec == "" {
		spec = DefaultStatsSpec
	}
	return &StatsTask{
		store:     deps.Store,
		attempts:  deps.Attempts,
		inquiries: deps.Inquiries,
		posts:     deps.Posts,
		metrics:   deps.Metrics,
		cron:      cron.New(cron.WithSeconds()),
		spec:      spec,
		timeout:   30 * time.Second,
		now:       time.Now,
	}
}

// Start 启动定时任务，并立即执行一次
func (t *StatsTask) Start() error {
	log := logger.GetLogger()

	if _, err := t.cron.AddFunc(t.spec, t.runOnce); err != nil {
		log.Error("[StatsTask] 定时任务启动失败", zap.String("spec", t.spec), zap.Error(err))
		return err
	}

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		t.runOnce()
	}()

	t.cron.Start()
	log.Info("[StatsTask] 已启动", zap.String("spec", t.spec))
	return nil
}

// Stop 停止任务，等待正在执行的刷新结束
func (t *StatsTask) Stop() {
	ctx := t.cron.Stop()
	<-ctx.Done()
	t.wg.Wait()
	logger.GetLogger().Info("[StatsTask] 已停止")
}

// RefreshNow 立即刷新
func (t *StatsTask) RefreshNow(ctx context.Context) error {
	return t.refresh(ctx)
}

func (t *StatsTask) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()
	if err := t.refresh(ctx); err != nil {
		logger.GetLogger().Warn("[StatsTask] 刷新失败", zap.Error(err))
	}
}

// refresh 逐项统计，某一项失败不影响其余指标，返回第一个错误
func (t *StatsTask) refresh(ctx context.Context) error {
	if t.metrics == nil {
		return nil
	}

	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	// 1. KV 存储
	if t.store != nil {
		shops, err := t.store.CountAll(ctx, model.ShopKeyPrefix)
		keep(err)
		if err == nil {
			t.metrics.ShopsStored.Set(float64(shops))
		}

		devices, err := t.store.CountAll(ctx, model.SessionKeyLoggedIn)
		keep(err)
		if err == nil {
			t.metrics.DevicesSeen.Set(float64(devices))
		}
	}

	// 2. 进行中的登录
	if t.attempts != nil {
		t.metrics.PendingLogins.Set(float64(t.attempts.Count()))
	}

	// 3. 咨询板
	if t.inquiries != nil {
		counts, err := t.inquiries.CountByStatus(ctx)
		keep(err)
		if err == nil {
			for _, status := range []model.InquiryStatus{
				model.InquiryStatusReceived,
				model.InquiryStatusInProgress,
				model.InquiryStatusAnswered,
			} {
				t.metrics.InquiriesStatus.WithLabelValues(string(status)).Set(float64(counts[status]))
			}
		}
	}

	// 4. 社区
	if t.posts != nil {
		n, err := t.posts.Count(ctx)
		keep(err)
		if err == nil {
			t.metrics.CommunityPosts.Set(float64(n))
		}
	}

	if firstErr == nil {
		t.metrics.StatsRefreshedAt.Set(float64(t.now().Unix()))
	}
	return firstErr
}
