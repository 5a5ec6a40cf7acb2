package repository

import (
	"adaptive_edu_backend/internal/model"
	"context"

	"gorm.io/gorm"
)

type ModuleRepository struct {
	DB *gorm.DB
}

func NewModuleRepository(db *gorm.DB) *ModuleRepository {
	return &ModuleRepository{DB: db}
}

// ModuleFilter 列表查询条件，零值表示不过滤
type ModuleFilter struct {
	Subject    string
	Difficulty model.Difficulty
	ActiveOnly bool
}

func (r *ModuleRepository) Create(ctx context.Context, module *model.LearningModule) error {
	return r.DB.WithContext(ctx).Create(module).Error
}

func (r *ModuleRepository) Update(ctx context.Context, module *model.LearningModule) error {
	return r.DB.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(module).Error
}

// Deactivate 软下线，保留历史进度对模块的引用
func (r *ModuleRepository) Deactivate(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Model(&model.LearningModule{}).
		Where("id = ?", id).
		Update("is_active", false).
		Error
}

func (r *ModuleRepository) FindByID(ctx context.Context, id uint) (*model.LearningModule, error) {
	var module model.LearningModule
	err := r.DB.WithContext(ctx).
		Preload("Contents", func(db *gorm.DB) *gorm.DB {
			return db.Order("`order` ASC")
		}).
		First(&module, id).Error
	if err != nil {
		return nil, err
	}
	return &module, nil
}

func (r *ModuleRepository) List(ctx context.Context, filter ModuleFilter, page, limit int) ([]model.LearningModule, int64, error) {
	query := r.DB.WithContext(ctx).Model(&model.LearningModule{})
	if filter.Subject != "" {
		query = query.Where("subject = ?", filter.Subject)
	}
	if filter.Difficulty != "" {
		query = query.Where("difficulty = ?", filter.Difficulty)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var modules []model.LearningModule
	err := query.Order("id ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&modules).Error
	return modules, total, err
}

// FindByDifficulty 按目录顺序（id 升序）返回该难度下的启用模块
func (r *ModuleRepository) FindByDifficulty(ctx context.Context, difficulty model.Difficulty) ([]model.LearningModule, error) {
	var modules []model.LearningModule
	err := r.DB.WithContext(ctx).
		Where("difficulty = ? AND is_active = ?", difficulty, true).
		Order("id ASC").
		Find(&modules).Error
	return modules, err
}

// FindEntryLevel 没有前置模块的启用模块
func (r *ModuleRepository) FindEntryLevel(ctx context.Context) ([]model.LearningModule, error) {
	var modules []model.LearningModule
	err := r.DB.WithContext(ctx).
		Where("is_active = ?", true).
		Where("prerequisites IS NULL OR JSON_LENGTH(prerequisites) = 0").
		Order("id ASC").
		Find(&modules).Error
	return modules, err
}

func (r *ModuleRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.LearningModule{}).Count(&count).Error
	return count, err
}
