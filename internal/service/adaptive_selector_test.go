package service

import (
	"context"
	"errors"
	"testing"

	"adaptive_edu_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentSelector_PicksFirstUncompletedWithQuiz(t *testing.T) {
	catalog := &fakeCatalog{
		modules: []model.LearningModule{module(1, model.Easy), module(2, model.Easy, 1), module(3, model.Medium)},
		quizzes: []model.Quiz{quiz(20, 2), quiz(21, 2)},
	}
	profile := &model.LearnerProfile{CompletedContentIDs: []uint{1}}

	selection, err := NewContentSelector(catalog, nil).Select(context.Background(), model.Easy, profile)

	require.NoError(t, err)
	require.NotNil(t, selection.NextModuleID)
	require.NotNil(t, selection.NextQuizID)
	assert.Equal(t, uint(2), *selection.NextModuleID)
	assert.Equal(t, uint(20), *selection.NextQuizID)
	assert.Equal(t, model.Easy, selection.DifficultyLevel)
}

func TestContentSelector_ModuleWithoutQuiz(t *testing.T) {
	catalog := &fakeCatalog{modules: []model.LearningModule{module(1, model.Easy)}}

	selection, err := NewContentSelector(catalog, nil).Select(context.Background(), model.Easy, &model.LearnerProfile{})

	require.NoError(t, err)
	assert.Equal(t, uint(1), *selection.NextModuleID)
	assert.Nil(t, selection.NextQuizID)
}

func TestContentSelector_EscalatesOnceWhenTierExhausted(t *testing.T) {
	catalog := &fakeCatalog{
		modules: []model.LearningModule{module(2, model.Medium), module(3, model.Hard), module(4, model.Hard)},
		quizzes: []model.Quiz{quiz(30, 3)},
	}
	profile := &model.LearnerProfile{CompletedContentIDs: []uint{2}}

	selection, err := NewContentSelector(catalog, nil).Select(context.Background(), model.Medium, profile)

	require.NoError(t, err)
	require.NotNil(t, selection.NextModuleID)
	assert.Equal(t, uint(3), *selection.NextModuleID)
	assert.Nil(t, selection.NextQuizID)
	assert.Equal(t, model.Hard, selection.DifficultyLevel)
	assert.Equal(t, []model.Difficulty{model.Medium, model.Hard}, catalog.difficulty)
}

// hard 已全部完成时升级仍停留在 hard，返回该层第一个模块（可能已完成）
func TestContentSelector_TopTierExhaustedFallsBackToFirstHardModule(t *testing.T) {
	catalog := &fakeCatalog{
		modules: []model.LearningModule{module(3, model.Hard)},
		quizzes: []model.Quiz{quiz(30, 3)},
	}
	profile := &model.LearnerProfile{CompletedContentIDs: []uint{3}}

	selection, err := NewContentSelector(catalog, nil).Select(context.Background(), model.Hard, profile)

	require.NoError(t, err)
	require.NotNil(t, selection.NextModuleID)
	assert.Equal(t, uint(3), *selection.NextModuleID)
	assert.Nil(t, selection.NextQuizID)
	assert.Equal(t, model.Hard, selection.DifficultyLevel)
	assert.Equal(t, []model.Difficulty{model.Hard, model.Hard}, catalog.difficulty)
}

func TestContentSelector_EmptyEscalationTierReportsTarget(t *testing.T) {
	catalog := &fakeCatalog{}

	selection, err := NewContentSelector(catalog, nil).Select(context.Background(), model.Easy, &model.LearnerProfile{})

	require.NoError(t, err)
	assert.Nil(t, selection.NextModuleID)
	assert.Equal(t, model.Easy, selection.DifficultyLevel)
}

type lastRanker struct{}

func (lastRanker) Best(candidates []model.LearningModule, _ *model.LearnerProfile) *model.LearningModule {
	if len(candidates) == 0 {
		return nil
	}
	return &candidates[len(candidates)-1]
}

func TestContentSelector_CustomRanker(t *testing.T) {
	catalog := &fakeCatalog{modules: []model.LearningModule{module(1, model.Easy), module(5, model.Easy)}}

	selection, err := NewContentSelector(catalog, lastRanker{}).Select(context.Background(), model.Easy, &model.LearnerProfile{})

	require.NoError(t, err)
	assert.Equal(t, uint(5), *selection.NextModuleID)
}

func TestContentSelector_PropagatesCatalogErrors(t *testing.T) {
	boom := errors.New("catalog down")

	_, err := NewContentSelector(&fakeCatalog{moduleErr: boom}, nil).Select(context.Background(), model.Easy, &model.LearnerProfile{})
	assert.ErrorIs(t, err, boom)

	catalog := &fakeCatalog{modules: []model.LearningModule{module(1, model.Easy)}, quizErr: boom}
	_, err = NewContentSelector(catalog, nil).Select(context.Background(), model.Easy, &model.LearnerProfile{})
	assert.ErrorIs(t, err, boom)
}
