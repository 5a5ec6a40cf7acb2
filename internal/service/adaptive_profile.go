package service

import (
	"math"
	"sort"

	"adaptive_edu_backend/internal/model"
)

const (
	// 掌握度权重，三者之和为 1
	masteryScoreWeight   = 0.5
	masterySuccessWeight = 0.3
	masteryTimeWeight    = 0.2

	// 作答时间超过该值后时间项记为 0
	responseTimeCeilingSeconds = 300.0

	// 达到该次数后置信度不再因样本量打折
	fullConfidenceAttempts = 10.0
)

var (
	beginnerPath     = []string{"Beginner modules", "Basic concepts", "Foundation building"}
	intermediatePath = []string{"Intermediate modules", "Application exercises", "Skill development"}
	advancedPath     = []string{"Advanced modules", "Complex problems", "Mastery application"}
)

// BuildLearnerProfile 根据最近的完成记录（新到旧）计算学习者画像。
// 空记录应走新学习者路径，这里返回入门画像兜底。
func BuildLearnerProfile(userID uint, records []model.Progress) model.LearnerProfile {
	if len(records) == 0 {
		return EntryLevelProfile(userID)
	}

	totalAttempts := len(records)
	var totalScore float64
	var totalTime int
	var successes int
	for i := range records {
		pct := records[i].PercentageValue()
		totalScore += pct
		totalTime += records[i].TimeSpent
		if pct >= model.PassingPercentage {
			successes++
		}
	}

	averageScore := totalScore / float64(totalAttempts)
	averageResponseTime := float64(totalTime) / float64(totalAttempts)
	successRate := float64(successes) / float64(totalAttempts)
	mastery := masteryLevel(averageScore, successRate, averageResponseTime)

	return model.LearnerProfile{
		UserID:                     userID,
		LearningStyle:              model.Visual,
		PreferredDifficulty:        preferredDifficulty(averageScore, successRate),
		TotalAttempts:              totalAttempts,
		AverageScore:               averageScore,
		AverageResponseTimeSeconds: averageResponseTime,
		SuccessRate:                successRate,
		MasteryLevel:               mastery,
		ConfidenceScore:            confidenceScore(averageScore, successRate, totalAttempts),
		CompletedContentIDs:        completedModuleIDs(records),
		CurrentStreak:              currentStreak(records),
		TotalStudyTime:             totalTime,
		LearningPath:               learningPathFor(mastery),
	}
}

// EntryLevelProfile 无历史记录的学习者
func EntryLevelProfile(userID uint) model.LearnerProfile {
	return model.LearnerProfile{
		UserID:              userID,
		LearningStyle:       model.Visual,
		PreferredDifficulty: model.Easy,
		ConfidenceScore:     newLearnerConfidence,
		CompletedContentIDs: []uint{},
		LearningPath:        learningPathFor(0),
	}
}

func masteryLevel(averageScore, successRate, averageResponseTime float64) float64 {
	timeScore := math.Max(0, 1-averageResponseTime/responseTimeCeilingSeconds)
	return (averageScore/100)*masteryScoreWeight +
		successRate*masterySuccessWeight +
		timeScore*masteryTimeWeight
}

// preferredDifficulty 阈值为闭区间：恰好 85 / 0.8 也算 hard
func preferredDifficulty(averageScore, successRate float64) model.Difficulty {
	switch {
	case averageScore >= 85 && successRate >= 0.8:
		return model.Hard
	case averageScore >= 70 && successRate >= 0.6:
		return model.Medium
	default:
		return model.Easy
	}
}

func confidenceScore(averageScore, successRate float64, totalAttempts int) float64 {
	performance := (averageScore/100 + successRate) / 2
	sampleSizeFactor := math.Min(float64(totalAttempts)/fullConfidenceAttempts, 1)
	return math.Min(performance*sampleSizeFactor, 1)
}

// completedModuleIDs 去重，保持首次出现的顺序；没有模块引用的记录忽略
func completedModuleIDs(records []model.Progress) []uint {
	seen := make(map[uint]struct{}, len(records))
	ids := make([]uint, 0, len(records))
	for i := range records {
		if records[i].ModuleID == nil {
			continue
		}
		id := *records[i].ModuleID
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// currentStreak 按完成时间倒序，统计开头连续及格的记录数。
// 在副本上排序，不改变调用方切片的顺序。
func currentStreak(records []model.Progress) int {
	sorted := make([]*model.Progress, len(records))
	for i := range records {
		sorted[i] = &records[i]
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CompletedAt.After(sorted[j].CompletedAt)
	})

	streak := 0
	for _, p := range sorted {
		if p.PercentageValue() < model.PassingPercentage {
			break
		}
		streak++
	}
	return streak
}

func learningPathFor(mastery float64) []string {
	var path []string
	switch {
	case mastery < 0.3:
		path = beginnerPath
	case mastery < 0.6:
		path = intermediatePath
	default:
		path = advancedPath
	}
	return append([]string(nil), path...)
}
