package model

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple-choice"
	TrueFalse      QuestionType = "true-false"
	FillInBlank    QuestionType = "fill-in-blank"
	Essay          QuestionType = "essay"
)

type Quiz struct {
	BaseModel
	Title        string         `gorm:"size:200;not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	ModuleID     uint           `gorm:"index;not null" json:"moduleId"`
	Difficulty   Difficulty     `gorm:"type:enum('easy','medium','hard');not null" json:"difficulty"`
	TimeLimit    int            `gorm:"default:0" json:"timeLimit,omitempty"` // 分钟，0 表示不限时
	PassingScore int            `gorm:"default:70" json:"passingScore"`
	Questions    []QuizQuestion `gorm:"serializer:json;type:json" json:"questions"`
	IsActive     bool           `gorm:"index;default:true" json:"isActive"`
	CreatedBy    uint           `gorm:"index" json:"createdBy"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// QuizQuestion 存储在 quizzes.questions JSON 列中，ID 在同一测验内唯一
type QuizQuestion struct {
	ID            string       `json:"id"`
	Text          string       `json:"text"`
	Type          QuestionType `json:"type"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer []string     `json:"correctAnswer"`
	Explanation   string       `json:"explanation,omitempty"`
	Points        int          `json:"points"`
	Difficulty    Difficulty   `json:"difficulty"`
	Tags          []string     `json:"tags,omitempty"`
}

func (q *Quiz) TotalPoints() int {
	total := 0
	for _, question := range q.Questions {
		total += question.Points
	}
	return total
}

// WithoutAnswers 学生视图，去掉答案与解析
func (q Quiz) WithoutAnswers() Quiz {
	questions := make([]QuizQuestion, len(q.Questions))
	for i, question := range q.Questions {
		question.CorrectAnswer = nil
		question.Explanation = ""
		questions[i] = question
	}
	q.Questions = questions
	return q
}
