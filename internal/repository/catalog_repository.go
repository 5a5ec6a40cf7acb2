package repository

import (
	"adaptive_edu_backend/internal/model"
	"context"
)

// CatalogRepository 将模块与测验仓储组合为推荐引擎使用的内容目录
type CatalogRepository struct {
	Modules *ModuleRepository
	Quizzes *QuizRepository
}

func NewCatalogRepository(modules *ModuleRepository, quizzes *QuizRepository) *CatalogRepository {
	return &CatalogRepository{Modules: modules, Quizzes: quizzes}
}

func (r *CatalogRepository) FindModulesByDifficulty(ctx context.Context, difficulty model.Difficulty) ([]model.LearningModule, error) {
	return r.Modules.FindByDifficulty(ctx, difficulty)
}

func (r *CatalogRepository) FindQuizzesByModule(ctx context.Context, moduleID uint) ([]model.Quiz, error) {
	return r.Quizzes.FindByModule(ctx, moduleID)
}

func (r *CatalogRepository) FindEntryLevelModules(ctx context.Context) ([]model.LearningModule, error) {
	return r.Modules.FindEntryLevel(ctx)
}
