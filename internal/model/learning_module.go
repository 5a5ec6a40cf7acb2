package model

type ContentType string

const (
	ContentText        ContentType = "text"
	ContentVideo       ContentType = "video"
	ContentImage       ContentType = "image"
	ContentInteractive ContentType = "interactive"
)

// LearningModule 学习模块
type LearningModule struct {
	BaseModel
	Title              string          `gorm:"size:200;not null" json:"title"`
	Description        string          `gorm:"type:text" json:"description"`
	Subject            string          `gorm:"size:100;index;not null" json:"subject"`
	Difficulty         Difficulty      `gorm:"type:enum('easy','medium','hard');index;not null" json:"difficulty"`
	Prerequisites      []uint          `gorm:"serializer:json;type:json" json:"prerequisites"`
	LearningObjectives []string        `gorm:"serializer:json;type:json" json:"learningObjectives"`
	EstimatedDuration  int             `gorm:"default:0" json:"estimatedDuration"` // 分钟
	IsActive           bool            `gorm:"index;default:true" json:"isActive"`
	CreatedBy          uint            `gorm:"index" json:"createdBy"`
	Contents           []ModuleContent `gorm:"foreignKey:ModuleID" json:"contents,omitempty"`
}

func (LearningModule) TableName() string {
	return "learning_modules"
}

// IsEntryLevel 无前置模块即为入门模块
func (m *LearningModule) IsEntryLevel() bool {
	return len(m.Prerequisites) == 0
}

type ModuleContent struct {
	BaseModel
	ModuleID uint        `gorm:"index;not null" json:"moduleId"`
	Type     ContentType `gorm:"type:enum('text','video','image','interactive');not null" json:"type"`
	Title    string      `gorm:"size:200;not null" json:"title"`
	Body     string      `gorm:"type:text" json:"content"`
	Order    int         `gorm:"default:1" json:"order"`
}

func (ModuleContent) TableName() string {
	return "module_contents"
}
