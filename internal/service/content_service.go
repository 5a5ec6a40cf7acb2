package service

import (
	"adaptive_edu_backend/internal/model"
	"adaptive_edu_backend/internal/repository"
	"adaptive_edu_backend/internal/util"
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

type ContentService struct {
	ModuleRepo *repository.ModuleRepository
	QuizRepo   *repository.QuizRepository
}

func NewContentService(moduleRepo *repository.ModuleRepository, quizRepo *repository.QuizRepository) *ContentService {
	return &ContentService{
		ModuleRepo: moduleRepo,
		QuizRepo:   quizRepo,
	}
}

func (s *ContentService) CreateModule(ctx context.Context, module *model.LearningModule) error {
	if !module.Difficulty.Valid() {
		return util.ErrInvalidDifficulty
	}
	if err := s.checkPrerequisites(ctx, module.ID, module.Prerequisites); err != nil {
		return err
	}
	normalizeContents(module.Contents)
	module.IsActive = true
	return s.ModuleRepo.Create(ctx, module)
}

func (s *ContentService) UpdateModule(ctx context.Context, id uint, updates *model.LearningModule) (*model.LearningModule, error) {
	existing, err := s.GetModule(ctx, id)
	if err != nil {
		return nil, err
	}
	if !updates.Difficulty.Valid() {
		return nil, util.ErrInvalidDifficulty
	}
	if err := s.checkPrerequisites(ctx, id, updates.Prerequisites); err != nil {
		return nil, err
	}

	existing.Title = updates.Title
	existing.Description = updates.Description
	existing.Subject = updates.Subject
	existing.Difficulty = updates.Difficulty
	existing.Prerequisites = updates.Prerequisites
	existing.LearningObjectives = updates.LearningObjectives
	existing.EstimatedDuration = updates.EstimatedDuration
	if updates.Contents != nil {
		normalizeContents(updates.Contents)
		existing.Contents = updates.Contents
	}

	if err := s.ModuleRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *ContentService) DeactivateModule(ctx context.Context, id uint) error {
	if _, err := s.GetModule(ctx, id); err != nil {
		return err
	}
	return s.ModuleRepo.Deactivate(ctx, id)
}

func (s *ContentService) GetModule(ctx context.Context, id uint) (*model.LearningModule, error) {
	module, err := s.ModuleRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrModuleNotFound
	}
	return module, err
}

func (s *ContentService) ListModules(ctx context.Context, filter repository.ModuleFilter, page, limit int) ([]model.LearningModule, int64, error) {
	if filter.Difficulty != "" && !filter.Difficulty.Valid() {
		return nil, 0, util.ErrInvalidDifficulty
	}
	return s.ModuleRepo.List(ctx, filter, page, limit)
}

func (s *ContentService) CreateQuiz(ctx context.Context, quiz *model.Quiz) error {
	if !quiz.Difficulty.Valid() {
		return util.ErrInvalidDifficulty
	}
	if _, err := s.GetModule(ctx, quiz.ModuleID); err != nil {
		return err
	}
	if err := normalizeQuestions(quiz.Questions); err != nil {
		return err
	}
	quiz.IsActive = true
	return s.QuizRepo.Create(ctx, quiz)
}

func (s *ContentService) DeactivateQuiz(ctx context.Context, id uint) error {
	if _, err := s.GetQuiz(ctx, id); err != nil {
		return err
	}
	return s.QuizRepo.Deactivate(ctx, id)
}

func (s *ContentService) GetQuiz(ctx context.Context, id uint) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuizNotFound
	}
	return quiz, err
}

func (s *ContentService) ListQuizzes(ctx context.Context, moduleID uint, difficulty model.Difficulty, page, limit int) ([]model.Quiz, int64, error) {
	if difficulty != "" && !difficulty.Valid() {
		return nil, 0, util.ErrInvalidDifficulty
	}
	return s.QuizRepo.List(ctx, moduleID, difficulty, page, limit)
}

func (s *ContentService) checkPrerequisites(ctx context.Context, moduleID uint, prerequisites []uint) error {
	for _, id := range prerequisites {
		if id == moduleID && moduleID != 0 {
			return fmt.Errorf("%w: module %d cannot be its own prerequisite", util.ErrInvalidModule, id)
		}
		if _, err := s.GetModule(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// normalizeContents 按 order 排序，缺省 order 按出现顺序补齐
func normalizeContents(contents []model.ModuleContent) {
	for i := range contents {
		if contents[i].Order <= 0 {
			contents[i].Order = i + 1
		}
	}
	for i := 1; i < len(contents); i++ {
		for j := i; j > 0 && contents[j].Order < contents[j-1].Order; j-- {
			contents[j], contents[j-1] = contents[j-1], contents[j]
		}
	}
}

// normalizeQuestions 补齐题目 ID 与分值，并校验选择题选项
func normalizeQuestions(questions []model.QuizQuestion) error {
	if len(questions) == 0 {
		return fmt.Errorf("%w: quiz must have at least one question", util.ErrInvalidQuiz)
	}

	seen := make(map[string]struct{}, len(questions))
	for i := range questions {
		q := &questions[i]
		if strings.TrimSpace(q.ID) == "" {
			q.ID = fmt.Sprintf("q%d", i+1)
		}
		if _, dup := seen[q.ID]; dup {
			return fmt.Errorf("%w: duplicate question id %q", util.ErrInvalidQuiz, q.ID)
		}
		seen[q.ID] = struct{}{}

		if q.Points <= 0 {
			q.Points = 1
		}
		if q.Type == model.MultipleChoice && len(q.Options) < 2 {
			return fmt.Errorf("%w: question %q: multiple choice questions must have at least 2 options", util.ErrInvalidQuiz, q.ID)
		}
		if q.Difficulty == "" {
			q.Difficulty = model.Easy
		}
		if !q.Difficulty.Valid() {
			return util.ErrInvalidDifficulty
		}
	}
	return nil
}
