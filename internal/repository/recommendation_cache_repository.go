package repository

import (
	"adaptive_edu_backend/internal/model"
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/goccy/go-json"
)

const recommendationKeyPrefix = "adaptive:recommendation:"

// RecommendationCacheRepository 缓存每个学习者最近一次成功的推荐，供引擎失败时回退
type RecommendationCacheRepository struct {
	Redis *redis.Client
}

func NewRecommendationCacheRepository(rdb *redis.Client) *RecommendationCacheRepository {
	return &RecommendationCacheRepository{Redis: rdb}
}

func recommendationKey(userID uint) string {
	return fmt.Sprintf("%s%d", recommendationKeyPrefix, userID)
}

func (r *RecommendationCacheRepository) Save(ctx context.Context, userID uint, rec *model.Recommendation, ttl time.Duration) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return r.Redis.Set(ctx, recommendationKey(userID), payload, ttl).Err()
}

// Get 未命中时返回 (nil, nil)
func (r *RecommendationCacheRepository) Get(ctx context.Context, userID uint) (*model.Recommendation, error) {
	val, err := r.Redis.Get(ctx, recommendationKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rec model.Recommendation
	if err := json.Unmarshal(val, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
