package repository

import (
	"adaptive_edu_backend/internal/model"
	"context"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) Create(ctx context.Context, quiz *model.Quiz) error {
	return r.DB.WithContext(ctx).Create(quiz).Error
}

func (r *QuizRepository) Update(ctx context.Context, quiz *model.Quiz) error {
	return r.DB.WithContext(ctx).Save(quiz).Error
}

func (r *QuizRepository) Deactivate(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Model(&model.Quiz{}).
		Where("id = ?", id).
		Update("is_active", false).
		Error
}

func (r *QuizRepository) FindByID(ctx context.Context, id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.WithContext(ctx).First(&quiz, id).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

// FindByModule 按目录顺序返回模块下的启用测验
func (r *QuizRepository) FindByModule(ctx context.Context, moduleID uint) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.WithContext(ctx).
		Where("module_id = ? AND is_active = ?", moduleID, true).
		Order("id ASC").
		Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) List(ctx context.Context, moduleID uint, difficulty model.Difficulty, page, limit int) ([]model.Quiz, int64, error) {
	query := r.DB.WithContext(ctx).Model(&model.Quiz{}).Where("is_active = ?", true)
	if moduleID != 0 {
		query = query.Where("module_id = ?", moduleID)
	}
	if difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var quizzes []model.Quiz
	err := query.Order("id ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&quizzes).Error
	return quizzes, total, err
}
