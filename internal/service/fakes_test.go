package service

import (
	"context"
	"sync"
	"time"

	"adaptive_edu_backend/internal/model"
)

type fakeHistory struct {
	records []model.Progress
	err     error
	limits  []int
}

func (f *fakeHistory) FindRecent(_ context.Context, _ uint, limit int) ([]model.Progress, error) {
	f.limits = append(f.limits, limit)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.records) > limit {
		return f.records[:limit], nil
	}
	return f.records, nil
}

type fakeCatalog struct {
	modules    []model.LearningModule
	quizzes    []model.Quiz
	moduleErr  error
	quizErr    error
	entryErr   error
	difficulty []model.Difficulty
}

func (f *fakeCatalog) FindModulesByDifficulty(_ context.Context, d model.Difficulty) ([]model.LearningModule, error) {
	f.difficulty = append(f.difficulty, d)
	if f.moduleErr != nil {
		return nil, f.moduleErr
	}
	var out []model.LearningModule
	for _, m := range f.modules {
		if m.Difficulty == d {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeCatalog) FindQuizzesByModule(_ context.Context, moduleID uint) ([]model.Quiz, error) {
	if f.quizErr != nil {
		return nil, f.quizErr
	}
	var out []model.Quiz
	for _, q := range f.quizzes {
		if q.ModuleID == moduleID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeCatalog) FindEntryLevelModules(_ context.Context) ([]model.LearningModule, error) {
	if f.entryErr != nil {
		return nil, f.entryErr
	}
	var out []model.LearningModule
	for _, m := range f.modules {
		if m.IsEntryLevel() {
			out = append(out, m)
		}
	}
	return out, nil
}

func module(id uint, d model.Difficulty, prerequisites ...uint) model.LearningModule {
	m := model.LearningModule{Title: "module", Difficulty: d, Prerequisites: prerequisites, IsActive: true}
	m.ID = id
	return m
}

func quiz(id, moduleID uint) model.Quiz {
	q := model.Quiz{Title: "quiz", ModuleID: moduleID, Difficulty: model.Easy}
	q.ID = id
	return q
}

// records 按给定分数生成记录（满分 100），第一个为最新
func records(scores ...float64) []model.Progress {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	out := make([]model.Progress, len(scores))
	for i, s := range scores {
		out[i] = model.Progress{
			UserID:      7,
			Score:       s,
			MaxScore:    100,
			TimeSpent:   60,
			CompletedAt: now.Add(-time.Duration(i) * time.Hour),
		}
		out[i].ID = uint(len(scores) - i)
	}
	return out
}

func withModule(p model.Progress, moduleID uint) model.Progress {
	p.ModuleID = &moduleID
	return p
}

type fakeAnnotationStore struct {
	mu      sync.Mutex
	updates map[uint]model.AdaptiveData
	err     error
	done    chan struct{}
}

func newFakeAnnotationStore() *fakeAnnotationStore {
	return &fakeAnnotationStore{updates: map[uint]model.AdaptiveData{}, done: make(chan struct{}, 64)}
}

func (f *fakeAnnotationStore) UpdateAdaptiveData(_ context.Context, progressID uint, data model.AdaptiveData) error {
	defer func() { f.done <- struct{}{} }()
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates[progressID] = data
	return nil
}

func (f *fakeAnnotationStore) get(id uint) (model.AdaptiveData, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.updates[id]
	return d, ok
}

type fakeReporter struct {
	mu      sync.Mutex
	records []model.Progress
	err     error
}

func (f *fakeReporter) ReportCompletion(_ context.Context, record model.Progress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, record)
	return f.err
}
