package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"adaptive_edu_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecommender struct {
	rec      *model.Recommendation
	err      error
	entry    *model.Recommendation
	entryErr error
}

func (f *fakeRecommender) GetRecommendation(context.Context, uint) (*model.Recommendation, error) {
	return f.rec, f.err
}

func (f *fakeRecommender) EntryLevelRecommendation(context.Context) (*model.Recommendation, error) {
	return f.entry, f.entryErr
}

type memoryCache struct {
	items   map[uint]*model.Recommendation
	ttl     time.Duration
	saveErr error
	getErr  error
}

func (m *memoryCache) Save(_ context.Context, userID uint, rec *model.Recommendation, ttl time.Duration) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	if m.items == nil {
		m.items = map[uint]*model.Recommendation{}
	}
	m.items[userID] = rec
	m.ttl = ttl
	return nil
}

func (m *memoryCache) Get(_ context.Context, userID uint) (*model.Recommendation, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.items[userID], nil
}

func TestRecommend_EngineResultIsCached(t *testing.T) {
	live := &model.Recommendation{DifficultyLevel: model.Medium, NextModuleID: uintPtr(4)}
	cache := &memoryCache{}
	svc := NewRecommendationService(&fakeRecommender{rec: live}, cache, time.Hour)

	rec, source, err := svc.Recommend(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, SourceEngine, source)
	assert.Same(t, live, rec)
	assert.Same(t, live, cache.items[7])
	assert.Equal(t, time.Hour, cache.ttl)
}

func TestRecommend_CacheWriteFailureIgnored(t *testing.T) {
	live := &model.Recommendation{DifficultyLevel: model.Easy}
	svc := NewRecommendationService(&fakeRecommender{rec: live}, &memoryCache{saveErr: errors.New("redis down")}, time.Hour)

	rec, source, err := svc.Recommend(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, SourceEngine, source)
	assert.Same(t, live, rec)
}

func TestRecommend_FallsBackToCache(t *testing.T) {
	cached := &model.Recommendation{DifficultyLevel: model.Hard}
	cache := &memoryCache{items: map[uint]*model.Recommendation{7: cached}}
	entry := &model.Recommendation{DifficultyLevel: model.Easy}
	svc := NewRecommendationService(&fakeRecommender{err: errors.New("engine"), entry: entry}, cache, time.Hour)

	rec, source, err := svc.Recommend(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, SourceCache, source)
	assert.Same(t, cached, rec)
}

func TestRecommend_FallsBackToEntryLevel(t *testing.T) {
	entry := &model.Recommendation{DifficultyLevel: model.Easy, Confidence: 0.5}
	svc := NewRecommendationService(
		&fakeRecommender{err: errors.New("engine"), entry: entry},
		&memoryCache{getErr: errors.New("redis down")},
		time.Hour,
	)

	rec, source, err := svc.Recommend(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, SourceEntryLevel, source)
	assert.Same(t, entry, rec)
}

func TestRecommend_NoCacheConfigured(t *testing.T) {
	entry := &model.Recommendation{DifficultyLevel: model.Easy}
	svc := NewRecommendationService(&fakeRecommender{err: errors.New("engine"), entry: entry}, nil, time.Hour)

	_, source, err := svc.Recommend(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, SourceEntryLevel, source)
}

func TestRecommend_AllSourcesFail(t *testing.T) {
	engineErr := errors.New("engine")
	svc := NewRecommendationService(
		&fakeRecommender{err: engineErr, entryErr: errors.New("catalog")},
		&memoryCache{},
		time.Hour,
	)

	rec, _, err := svc.Recommend(context.Background(), 7)

	assert.Nil(t, rec)
	assert.ErrorIs(t, err, engineErr)
}
