package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"adaptive_edu_backend/internal/model"
	"adaptive_edu_backend/pkg/logger"
	"adaptive_edu_backend/pkg/monitoring"

	"go.uber.org/zap"
)

const refreshJobTimeout = 10 * time.Second

var defaultAdaptiveRecommendations = []string{
	"Continue with similar difficulty",
	"Practice more exercises",
}

// AdaptiveAnnotationStore 持久化完成记录上的自适应快照
type AdaptiveAnnotationStore interface {
	UpdateAdaptiveData(ctx context.Context, progressID uint, data model.AdaptiveData) error
}

// CompletionReporter 快照刷新后的下游通知（例如 xAPI 上报）
type CompletionReporter interface {
	ReportCompletion(ctx context.Context, record model.Progress) error
}

// AdaptiveRefresher 完成记录写入后的后台刷新任务。
// 入队不阻塞，失败只记录日志，不影响上报完成的请求。
type AdaptiveRefresher struct {
	Store    AdaptiveAnnotationStore
	Reporter CompletionReporter

	queue   chan model.Progress
	workers int
	wg      sync.WaitGroup
	mu      sync.RWMutex
	started bool
	closed  bool
}

func NewAdaptiveRefresher(store AdaptiveAnnotationStore, reporter CompletionReporter, workers, queueSize int) *AdaptiveRefresher {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 1
	}
	return &AdaptiveRefresher{
		Store:    store,
		Reporter: reporter,
		queue:    make(chan model.Progress, queueSize),
		workers:  workers,
	}
}

func (r *AdaptiveRefresher) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started || r.closed {
		return
	}
	r.started = true

	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.run()
	}
	logger.Log.Info("Adaptive refresher started", zap.Int("workers", r.workers))
}

// Stop 停止接收新任务，处理完队列中剩余任务后返回
func (r *AdaptiveRefresher) Stop() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()

	r.wg.Wait()
	logger.Log.Info("Adaptive refresher stopped")
}

// OnActivityRecorded 完成记录写入后的钩子，队列满或已停止时丢弃
func (r *AdaptiveRefresher) OnActivityRecorded(record model.Progress) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		monitoring.RefreshJobs.WithLabelValues("dropped").Inc()
		logger.Log.Warn("Adaptive refresher stopped, dropping refresh", zap.Uint("progressID", record.ID))
		return
	}

	select {
	case r.queue <- record:
	default:
		monitoring.RefreshJobs.WithLabelValues("dropped").Inc()
		logger.Log.Warn("Adaptive refresh queue full, dropping refresh",
			zap.Uint("progressID", record.ID),
			zap.Uint("userID", record.UserID),
		)
	}
}

func (r *AdaptiveRefresher) run() {
	defer r.wg.Done()
	for record := range r.queue {
		r.process(record)
	}
}

func (r *AdaptiveRefresher) process(record model.Progress) {
	defer func() {
		if p := recover(); p != nil {
			monitoring.RefreshJobs.WithLabelValues("panic").Inc()
			logger.Log.Error("Adaptive refresh panicked",
				zap.Uint("progressID", record.ID),
				zap.Any("panic", p),
			)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), refreshJobTimeout)
	defer cancel()

	if err := r.Refresh(ctx, record); err != nil {
		monitoring.RefreshJobs.WithLabelValues("failed").Inc()
		logger.Log.Error("Error updating adaptive data",
			zap.Uint("progressID", record.ID),
			zap.Uint("userID", record.UserID),
			zap.Error(err),
		)
		return
	}
	monitoring.RefreshJobs.WithLabelValues("ok").Inc()
}

// Refresh 用仅含该记录的窗口重新计算快照并写回，然后通知下游
func (r *AdaptiveRefresher) Refresh(ctx context.Context, record model.Progress) error {
	data := BuildAdaptiveAnnotation(record)
	if err := r.Store.UpdateAdaptiveData(ctx, record.ID, data); err != nil {
		return fmt.Errorf("update adaptive data: %w", err)
	}

	if r.Reporter == nil {
		return nil
	}
	record.AdaptiveData = data
	if err := r.Reporter.ReportCompletion(ctx, record); err != nil {
		// 上报失败不影响快照
		logger.Log.Warn("Completion report failed",
			zap.Uint("progressID", record.ID),
			zap.Error(err),
		)
	}
	return nil
}

// BuildAdaptiveAnnotation 掌握度与置信度分别取画像中的对应字段
func BuildAdaptiveAnnotation(record model.Progress) model.AdaptiveData {
	profile := BuildLearnerProfile(record.UserID, []model.Progress{record})
	return model.AdaptiveData{
		DifficultyLevel: profile.PreferredDifficulty,
		MasteryLevel:    profile.MasteryLevel,
		ConfidenceScore: profile.ConfidenceScore,
		LearningPath:    profile.LearningPath,
		Recommendations: append([]string(nil), defaultAdaptiveRecommendations...),
	}
}
