package service

import (
	"context"
	"fmt"

	"adaptive_edu_backend/internal/model"
	"adaptive_edu_backend/internal/util"
	"adaptive_edu_backend/pkg/logger"
	"adaptive_edu_backend/pkg/monitoring"
	"adaptive_edu_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const (
	DefaultHistoryWindow = 20

	newLearnerConfidence = 0.5
	welcomeReasoning     = "Welcome! Starting with entry-level content to assess your current knowledge."
)

// ProgressHistory 推荐引擎读取学习记录的契约
type ProgressHistory interface {
	FindRecent(ctx context.Context, userID uint, limit int) ([]model.Progress, error)
}

// AdaptiveService 自适应推荐引擎。无共享可变状态，可并发调用。
type AdaptiveService struct {
	History       ProgressHistory
	Catalog       ContentCatalog
	Selector      *ContentSelector
	HistoryWindow int
}

func NewAdaptiveService(history ProgressHistory, catalog ContentCatalog, historyWindow int) *AdaptiveService {
	if historyWindow <= 0 {
		historyWindow = DefaultHistoryWindow
	}
	return &AdaptiveService{
		History:       history,
		Catalog:       catalog,
		Selector:      NewContentSelector(catalog, FirstInCatalogOrder{}),
		HistoryWindow: historyWindow,
	}
}

// GetRecommendation 计算下一步推荐。协作方出错时整体失败，不返回部分结果。
func (s *AdaptiveService) GetRecommendation(ctx context.Context, userID uint) (*model.Recommendation, error) {
	ctx, span := tracing.Tracer().Start(ctx, "adaptive.GetRecommendation")
	defer span.End()
	span.SetAttributes(attribute.Int64("user.id", int64(userID)))

	rec, path, err := s.recommend(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "recommendation failed")
		monitoring.RecommendationFailures.Inc()
		logger.Log.Error("Error generating adaptive recommendation",
			zap.Uint("userID", userID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", util.ErrRecommendationFailed, err)
	}

	span.SetAttributes(
		attribute.String("adaptive.path", path),
		attribute.String("adaptive.difficulty", string(rec.DifficultyLevel)),
	)
	monitoring.RecommendationsTotal.WithLabelValues(path, string(rec.DifficultyLevel)).Inc()
	return rec, nil
}

func (s *AdaptiveService) recommend(ctx context.Context, userID uint) (*model.Recommendation, string, error) {
	records, err := s.History.FindRecent(ctx, userID, s.HistoryWindow)
	if err != nil {
		return nil, "", err
	}

	if len(records) == 0 {
		rec, err := s.EntryLevelRecommendation(ctx)
		return rec, "new_learner", err
	}

	profile := BuildLearnerProfile(userID, records)
	difficulty := NextDifficulty(profile, records)

	selection, err := s.Selector.Select(ctx, difficulty, &profile)
	if err != nil {
		return nil, "", err
	}

	return &model.Recommendation{
		NextModuleID:    selection.NextModuleID,
		NextQuizID:      selection.NextQuizID,
		DifficultyLevel: selection.DifficultyLevel,
		Confidence:      profile.ConfidenceScore,
		Reasoning:       GenerateReasoning(recentAverage(records)),
		LearningPath:    profile.LearningPath,
	}, "returning_learner", nil
}

// EntryLevelRecommendation 新学习者：easy、固定置信度、入门路径、第一个入门模块
func (s *AdaptiveService) EntryLevelRecommendation(ctx context.Context) (*model.Recommendation, error) {
	modules, err := s.Catalog.FindEntryLevelModules(ctx)
	if err != nil {
		return nil, err
	}

	rec := &model.Recommendation{
		DifficultyLevel: model.Easy,
		Confidence:      newLearnerConfidence,
		Reasoning:       welcomeReasoning,
		LearningPath:    learningPathFor(0),
	}
	if len(modules) > 0 {
		rec.NextModuleID = uintPtr(modules[0].ID)
	}
	return rec, nil
}

// GetLearnerProfile 返回当前画像，新学习者返回入门画像
func (s *AdaptiveService) GetLearnerProfile(ctx context.Context, userID uint) (*model.LearnerProfile, error) {
	records, err := s.History.FindRecent(ctx, userID, s.HistoryWindow)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", util.ErrRecommendationFailed, err)
	}

	profile := BuildLearnerProfile(userID, records)
	return &profile, nil
}

// GenerateReasoning 按最近平均分分档：>=90、>=70、其余
func GenerateReasoning(recentAvg float64) string {
	switch {
	case recentAvg >= 90:
		return fmt.Sprintf("Excellent performance! Your recent average score of %.1f%% indicates you're ready for more challenging content.", recentAvg)
	case recentAvg >= 70:
		return fmt.Sprintf("Good progress! Your recent average score of %.1f%% shows consistent learning.", recentAvg)
	default:
		return fmt.Sprintf("Let's focus on building a stronger foundation. Your recent average score of %.1f%% suggests we should review some concepts.", recentAvg)
	}
}
