package service

import (
	"context"

	"adaptive_edu_backend/internal/model"
)

// ContentCatalog 推荐引擎读取内容目录的契约，返回值按目录顺序排列
type ContentCatalog interface {
	FindModulesByDifficulty(ctx context.Context, difficulty model.Difficulty) ([]model.LearningModule, error)
	FindQuizzesByModule(ctx context.Context, moduleID uint) ([]model.Quiz, error)
	FindEntryLevelModules(ctx context.Context) ([]model.LearningModule, error)
}

// ModuleRanker 从未完成的候选模块中挑选一个，必须是确定性的
type ModuleRanker interface {
	Best(candidates []model.LearningModule, profile *model.LearnerProfile) *model.LearningModule
}

// FirstInCatalogOrder 选择目录顺序中的第一个候选
type FirstInCatalogOrder struct{}

func (FirstInCatalogOrder) Best(candidates []model.LearningModule, _ *model.LearnerProfile) *model.LearningModule {
	if len(candidates) == 0 {
		return nil
	}
	return &candidates[0]
}

// ContentSelection 两个 ID 都为空表示暂无可推荐内容
type ContentSelection struct {
	NextModuleID    *uint
	NextQuizID      *uint
	DifficultyLevel model.Difficulty
}

type ContentSelector struct {
	Catalog ContentCatalog
	Ranker  ModuleRanker
}

func NewContentSelector(catalog ContentCatalog, ranker ModuleRanker) *ContentSelector {
	if ranker == nil {
		ranker = FirstInCatalogOrder{}
	}
	return &ContentSelector{Catalog: catalog, Ranker: ranker}
}

// Select 在目标难度中挑选未完成模块；该难度已全部完成时升一级（仅一次），
// 并报告实际推荐内容所在的难度。
func (s *ContentSelector) Select(ctx context.Context, target model.Difficulty, profile *model.LearnerProfile) (*ContentSelection, error) {
	modules, err := s.Catalog.FindModulesByDifficulty(ctx, target)
	if err != nil {
		return nil, err
	}

	candidates := make([]model.LearningModule, 0, len(modules))
	for _, m := range modules {
		if !profile.HasCompleted(m.ID) {
			candidates = append(candidates, m)
		}
	}

	if len(candidates) == 0 {
		return s.escalate(ctx, target)
	}

	chosen := s.Ranker.Best(candidates, profile)
	if chosen == nil {
		return &ContentSelection{DifficultyLevel: target}, nil
	}

	selection := &ContentSelection{
		NextModuleID:    uintPtr(chosen.ID),
		DifficultyLevel: target,
	}

	quizzes, err := s.Catalog.FindQuizzesByModule(ctx, chosen.ID)
	if err != nil {
		return nil, err
	}
	if len(quizzes) > 0 {
		selection.NextQuizID = uintPtr(quizzes[0].ID)
	}

	return selection, nil
}

func (s *ContentSelector) escalate(ctx context.Context, target model.Difficulty) (*ContentSelection, error) {
	next := target.Increase()
	modules, err := s.Catalog.FindModulesByDifficulty(ctx, next)
	if err != nil {
		return nil, err
	}
	if len(modules) == 0 {
		return &ContentSelection{DifficultyLevel: target}, nil
	}
	return &ContentSelection{
		NextModuleID:    uintPtr(modules[0].ID),
		DifficultyLevel: next,
	}, nil
}

func uintPtr(v uint) *uint {
	return &v
}
