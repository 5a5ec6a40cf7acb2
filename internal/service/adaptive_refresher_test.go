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

func TestBuildAdaptiveAnnotation(t *testing.T) {
	record := records(80)[0]

	data := BuildAdaptiveAnnotation(record)

	assert.Equal(t, model.Medium, data.DifficultyLevel)
	// 0.4 + 0.3 + 0.8 * 0.2
	assert.InDelta(t, 0.86, data.MasteryLevel, 1e-9)
	// (0.8 + 1) / 2 * 0.1
	assert.InDelta(t, 0.09, data.ConfidenceScore, 1e-9)
	assert.Equal(t, advancedPath, data.LearningPath)
	assert.Equal(t, []string{"Continue with similar difficulty", "Practice more exercises"}, data.Recommendations)
}

func TestAdaptiveRefresher_RefreshWritesAndReports(t *testing.T) {
	store := newFakeAnnotationStore()
	reporter := &fakeReporter{}
	refresher := NewAdaptiveRefresher(store, reporter, 1, 1)
	record := records(80)[0]

	require.NoError(t, refresher.Refresh(context.Background(), record))

	data, ok := store.get(record.ID)
	require.True(t, ok)
	assert.Equal(t, model.Medium, data.DifficultyLevel)
	require.Len(t, reporter.records, 1)
	assert.Equal(t, data, reporter.records[0].AdaptiveData)
}

func TestAdaptiveRefresher_ReporterFailureIsNotFatal(t *testing.T) {
	store := newFakeAnnotationStore()
	refresher := NewAdaptiveRefresher(store, &fakeReporter{err: errors.New("lrs down")}, 1, 1)

	assert.NoError(t, refresher.Refresh(context.Background(), records(80)[0]))
}

func TestAdaptiveRefresher_StoreFailure(t *testing.T) {
	store := newFakeAnnotationStore()
	store.err = errors.New("db down")
	reporter := &fakeReporter{}
	refresher := NewAdaptiveRefresher(store, reporter, 1, 1)

	err := refresher.Refresh(context.Background(), records(80)[0])

	assert.ErrorIs(t, err, store.err)
	assert.Empty(t, reporter.records)
}

func TestAdaptiveRefresher_ProcessesQueuedRecordsBeforeStop(t *testing.T) {
	store := newFakeAnnotationStore()
	refresher := NewAdaptiveRefresher(store, nil, 2, 8)
	refresher.Start()

	history := records(90, 80, 70)
	for _, r := range history {
		refresher.OnActivityRecorded(r)
	}
	refresher.Stop()

	for _, r := range history {
		_, ok := store.get(r.ID)
		assert.True(t, ok, "progress %d should be refreshed", r.ID)
	}
}

func TestAdaptiveRefresher_DropsWhenQueueFull(t *testing.T) {
	store := newFakeAnnotationStore()
	refresher := NewAdaptiveRefresher(store, nil, 1, 1)

	history := records(90, 80)
	refresher.OnActivityRecorded(history[0])
	refresher.OnActivityRecorded(history[1])

	refresher.Start()
	refresher.Stop()

	_, first := store.get(history[0].ID)
	_, second := store.get(history[1].ID)
	assert.True(t, first)
	assert.False(t, second)
}

func TestAdaptiveRefresher_DropsAfterStop(t *testing.T) {
	store := newFakeAnnotationStore()
	refresher := NewAdaptiveRefresher(store, nil, 1, 4)
	refresher.Start()
	refresher.Stop()

	assert.NotPanics(t, func() {
		refresher.OnActivityRecorded(records(80)[0])
	})
	refresher.Stop()
}

type panickingStore struct{}

func (panickingStore) UpdateAdaptiveData(context.Context, uint, model.AdaptiveData) error {
	panic("boom")
}

func TestAdaptiveRefresher_RecoversFromPanics(t *testing.T) {
	refresher := NewAdaptiveRefresher(panickingStore{}, nil, 1, 1)
	refresher.Start()
	refresher.OnActivityRecorded(records(80)[0])

	done := make(chan struct{})
	go func() {
		refresher.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("refresher did not stop after a panicking job")
	}
}
