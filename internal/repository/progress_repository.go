package repository

import (
	"adaptive_edu_backend/internal/model"
	"context"

	"github.com/goccy/go-json"
	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) Create(ctx context.Context, progress *model.Progress) error {
	return r.DB.WithContext(ctx).Create(progress).Error
}

// FindRecent 最近 limit 条完成记录，completed_at 倒序
func (r *ProgressRepository) FindRecent(ctx context.Context, userID uint, limit int) ([]model.Progress, error) {
	var records []model.Progress
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("completed_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

func (r *ProgressRepository) FindByUser(ctx context.Context, userID uint, page, limit int) ([]model.Progress, int64, error) {
	query := r.DB.WithContext(ctx).Model(&model.Progress{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []model.Progress
	err := query.Order("completed_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&records).Error
	return records, total, err
}

// UpdateAdaptiveData 只改写自适应快照列，不触碰成绩字段
func (r *ProgressRepository) UpdateAdaptiveData(ctx context.Context, progressID uint, data model.AdaptiveData) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}

	// UpdateColumn 跳过 BeforeSave 钩子
	result := r.DB.WithContext(ctx).Model(&model.Progress{}).
		Where("id = ?", progressID).
		UpdateColumn("adaptive_data", string(payload))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ProgressRepository) GetUserStats(ctx context.Context, userID uint) (*model.UserStats, error) {
	var row struct {
		TotalAttempts  int64
		AverageScore   float64
		TotalTimeSpent int64
		PassedAttempts int64
	}
	err := r.DB.WithContext(ctx).Model(&model.Progress{}).
		Select("COUNT(*) AS total_attempts, COALESCE(AVG(percentage), 0) AS average_score, "+
			"COALESCE(SUM(time_spent), 0) AS total_time_spent, "+
			"COALESCE(SUM(CASE WHEN percentage >= ? THEN 1 ELSE 0 END), 0) AS passed_attempts", model.PassingPercentage).
		Where("user_id = ?", userID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	stats := &model.UserStats{
		TotalAttempts:  row.TotalAttempts,
		AverageScore:   row.AverageScore,
		TotalTimeSpent: row.TotalTimeSpent,
		PassedAttempts: row.PassedAttempts,
	}
	if row.TotalAttempts > 0 {
		stats.PassRate = float64(row.PassedAttempts) / float64(row.TotalAttempts)
	}
	return stats, nil
}
