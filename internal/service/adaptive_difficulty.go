package service

import "adaptive_edu_backend/internal/model"

// recentWindowSize 难度调整与推荐理由只看最近 5 条
const recentWindowSize = 5

// recentAverage 最近 min(5, n) 条记录的平均百分比
func recentAverage(records []model.Progress) float64 {
	n := len(records)
	if n > recentWindowSize {
		n = recentWindowSize
	}
	if n == 0 {
		return 0
	}

	var sum float64
	for i := 0; i < n; i++ {
		sum += records[i].PercentageValue()
	}
	return sum / float64(n)
}

// NextDifficulty 在画像的偏好难度基础上最多调整一级。纯函数，无内部状态。
func NextDifficulty(profile model.LearnerProfile, records []model.Progress) model.Difficulty {
	avg := recentAverage(records)

	switch {
	case avg >= 90 && profile.SuccessRate >= 0.9:
		return profile.PreferredDifficulty.Increase()
	case avg <= 60 && profile.SuccessRate <= 0.5:
		return profile.PreferredDifficulty.Decrease()
	default:
		return profile.PreferredDifficulty
	}
}
