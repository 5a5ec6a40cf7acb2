package service

import (
	"context"
	"time"

	"adaptive_edu_backend/internal/model"
	"adaptive_edu_backend/pkg/logger"
	"adaptive_edu_backend/pkg/monitoring"

	"go.uber.org/zap"
)

type RecommendationSource string

const (
	SourceEngine     RecommendationSource = "engine"
	SourceCache      RecommendationSource = "cache"
	SourceEntryLevel RecommendationSource = "entry-level"
)

type Recommender interface {
	GetRecommendation(ctx context.Context, userID uint) (*model.Recommendation, error)
	EntryLevelRecommendation(ctx context.Context) (*model.Recommendation, error)
}

type RecommendationCache interface {
	Save(ctx context.Context, userID uint, rec *model.Recommendation, ttl time.Duration) error
	Get(ctx context.Context, userID uint) (*model.Recommendation, error)
}

// RecommendationService 调用方一侧的回退策略：引擎 -> 上次缓存 -> 入门推荐
type RecommendationService struct {
	Engine Recommender
	Cache  RecommendationCache
	TTL    time.Duration
}

func NewRecommendationService(engine Recommender, cache RecommendationCache, ttl time.Duration) *RecommendationService {
	return &RecommendationService{Engine: engine, Cache: cache, TTL: ttl}
}

func (s *RecommendationService) Recommend(ctx context.Context, userID uint) (*model.Recommendation, RecommendationSource, error) {
	rec, engineErr := s.Engine.GetRecommendation(ctx, userID)
	if engineErr == nil {
		if s.Cache != nil {
			if err := s.Cache.Save(ctx, userID, rec, s.TTL); err != nil {
				logger.Log.Warn("Failed to cache recommendation", zap.Uint("userID", userID), zap.Error(err))
			}
		}
		return rec, SourceEngine, nil
	}

	if s.Cache != nil {
		cached, err := s.Cache.Get(ctx, userID)
		if err != nil {
			logger.Log.Warn("Failed to read cached recommendation", zap.Uint("userID", userID), zap.Error(err))
		}
		if cached != nil {
			monitoring.RecommendationFallbacks.WithLabelValues(string(SourceCache)).Inc()
			return cached, SourceCache, nil
		}
	}

	entry, err := s.Engine.EntryLevelRecommendation(ctx)
	if err != nil {
		return nil, "", engineErr
	}
	monitoring.RecommendationFallbacks.WithLabelValues(string(SourceEntryLevel)).Inc()
	return entry, SourceEntryLevel, nil
}
