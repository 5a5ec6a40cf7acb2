package model

type LearningStyle string

const (
	Visual      LearningStyle = "visual"
	Auditory    LearningStyle = "auditory"
	Kinesthetic LearningStyle = "kinesthetic"
	Reading     LearningStyle = "reading"
)

// LearnerProfile 每次请求时根据最近记录重新计算，不作为数据源持久化
type LearnerProfile struct {
	UserID                     uint          `json:"userId"`
	LearningStyle              LearningStyle `json:"learningStyle"`
	PreferredDifficulty        Difficulty    `json:"preferredDifficulty"`
	TotalAttempts              int           `json:"totalAttempts"`
	AverageScore               float64       `json:"averageScore"`
	AverageResponseTimeSeconds float64       `json:"averageResponseTime"`
	SuccessRate                float64       `json:"successRate"`
	MasteryLevel               float64       `json:"masteryLevel"`
	ConfidenceScore            float64       `json:"confidenceScore"`
	CompletedContentIDs        []uint        `json:"completedModules"`
	CurrentStreak              int           `json:"currentStreak"`
	TotalStudyTime             int           `json:"totalStudyTime"`
	LearningPath               []string      `json:"learningPath"`
}

// HasCompleted 判断模块是否已完成
func (p *LearnerProfile) HasCompleted(moduleID uint) bool {
	for _, id := range p.CompletedContentIDs {
		if id == moduleID {
			return true
		}
	}
	return false
}

// Recommendation 推荐结果，字段名是对外稳定契约
type Recommendation struct {
	NextModuleID    *uint      `json:"nextModuleId,omitempty"`
	NextQuizID      *uint      `json:"nextQuizId,omitempty"`
	DifficultyLevel Difficulty `json:"difficultyLevel"`
	Confidence      float64    `json:"confidence"`
	Reasoning       string     `json:"reasoning"`
	LearningPath    []string   `json:"learningPath"`
}

// HasContent 为 false 表示“暂无可推荐内容”，不是错误
func (r *Recommendation) HasContent() bool {
	return r.NextModuleID != nil || r.NextQuizID != nil
}
