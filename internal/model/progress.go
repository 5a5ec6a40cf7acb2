package model

import (
	"math"
	"time"

	"gorm.io/gorm"
)

// PassingPercentage 及格线
const PassingPercentage = 70

// Progress 一次完成记录（测验作答或模块学习完成），创建后不再修改业务字段
type Progress struct {
	BaseModel
	UserID       uint           `gorm:"index:idx_progress_user_completed,priority:1;not null" json:"userId"`
	ModuleID     *uint          `gorm:"index" json:"moduleId,omitempty"`
	QuizID       *uint          `gorm:"index" json:"quizId,omitempty"`
	Score        float64        `gorm:"not null" json:"score"`
	MaxScore     float64        `gorm:"not null" json:"maxScore"`
	Percentage   int            `gorm:"not null" json:"percentage"`
	TimeSpent    int            `gorm:"not null;default:0" json:"timeSpent"` // 秒
	CompletedAt  time.Time      `gorm:"index:idx_progress_user_completed,priority:2,sort:desc;not null" json:"completedAt"`
	Responses    []QuizResponse `gorm:"serializer:json;type:json" json:"responses,omitempty"`
	AdaptiveData AdaptiveData   `gorm:"serializer:json;type:json" json:"adaptiveData"`
}

func (Progress) TableName() string {
	return "progress"
}

type QuizResponse struct {
	QuestionID string   `json:"questionId"`
	UserAnswer []string `json:"userAnswer"`
	IsCorrect  bool     `json:"isCorrect"`
	TimeSpent  int      `json:"timeSpent"`
	Points     int      `json:"points"`
}

// AdaptiveData 记录完成时刻的自适应快照
type AdaptiveData struct {
	DifficultyLevel Difficulty `json:"difficultyLevel"`
	MasteryLevel    float64    `json:"masteryLevel"`
	ConfidenceScore float64    `json:"confidenceScore"`
	LearningPath    []string   `json:"learningPath"`
	Recommendations []string   `json:"recommendations"`
}

// ScorePercentage round(score / maxScore * 100)，maxScore <= 0 时为 0
func ScorePercentage(score, maxScore float64) int {
	if maxScore <= 0 {
		return 0
	}
	return int(math.Round(score / maxScore * 100))
}

// PercentageValue 以 Score/MaxScore 为准重新计算，不信任持久化的 Percentage 列
func (p *Progress) PercentageValue() float64 {
	return float64(ScorePercentage(p.Score, p.MaxScore))
}

func (p *Progress) IsPassed() bool {
	return p.PercentageValue() >= PassingPercentage
}

func (p *Progress) PerformanceLevel() string {
	pct := p.PercentageValue()
	switch {
	case pct >= 90:
		return "excellent"
	case pct >= 80:
		return "good"
	case pct >= PassingPercentage:
		return "satisfactory"
	default:
		return "needs-improvement"
	}
}

func (p *Progress) BeforeSave(tx *gorm.DB) error {
	p.Percentage = ScorePercentage(p.Score, p.MaxScore)
	if p.CompletedAt.IsZero() {
		p.CompletedAt = time.Now()
	}
	return nil
}

// UserStats 学习统计汇总
type UserStats struct {
	TotalAttempts  int64   `json:"totalAttempts"`
	AverageScore   float64 `json:"averageScore"`
	TotalTimeSpent int64   `json:"totalTimeSpent"`
	PassedAttempts int64   `json:"passedAttempts"`
	PassRate       float64 `json:"passRate"`
}
