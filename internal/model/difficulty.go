package model

// Difficulty 三级难度：easy < medium < hard
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case Easy, Medium, Hard:
		return true
	}
	return false
}

// Increase 升一级，hard 封顶
func (d Difficulty) Increase() Difficulty {
	switch d {
	case Easy:
		return Medium
	case Medium, Hard:
		return Hard
	default:
		return Medium
	}
}

// Decrease 降一级，easy 保底
func (d Difficulty) Decrease() Difficulty {
	switch d {
	case Hard:
		return Medium
	default:
		return Easy
	}
}
