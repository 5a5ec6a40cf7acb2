package service

import (
	"testing"

	"adaptive_edu_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLearnerProfile_Aggregates(t *testing.T) {
	history := records(100, 100)
	history[0] = withModule(history[0], 3)
	history[1] = withModule(history[1], 3)

	profile := BuildLearnerProfile(7, history)

	assert.Equal(t, uint(7), profile.UserID)
	assert.Equal(t, 2, profile.TotalAttempts)
	assert.InDelta(t, 100, profile.AverageScore, 1e-9)
	assert.InDelta(t, 1.0, profile.SuccessRate, 1e-9)
	assert.InDelta(t, 60, profile.AverageResponseTimeSeconds, 1e-9)
	// 0.5 + 0.3 + (1 - 60/300) * 0.2
	assert.InDelta(t, 0.96, profile.MasteryLevel, 1e-9)
	assert.Equal(t, model.Hard, profile.PreferredDifficulty)
	assert.Equal(t, []uint{3}, profile.CompletedContentIDs)
	assert.Equal(t, 120, profile.TotalStudyTime)
	assert.Equal(t, advancedPath, profile.LearningPath)
	assert.Equal(t, model.Visual, profile.LearningStyle)
}

func TestBuildLearnerProfile_ConfidenceScalesWithSampleSize(t *testing.T) {
	one := BuildLearnerProfile(1, records(100))
	assert.InDelta(t, 0.1, one.ConfidenceScore, 1e-9)

	ten := BuildLearnerProfile(1, records(100, 100, 100, 100, 100, 100, 100, 100, 100, 100))
	assert.Equal(t, 1.0, ten.ConfidenceScore)

	many := BuildLearnerProfile(1, records(100, 100, 100, 100, 100, 100, 100, 100, 100, 100, 100, 100))
	assert.LessOrEqual(t, many.ConfidenceScore, 1.0)
}

func TestBuildLearnerProfile_ZeroMaxScoreCountsAsZero(t *testing.T) {
	history := records(50)
	history[0].MaxScore = 0

	profile := BuildLearnerProfile(1, history)

	assert.Equal(t, 0.0, profile.AverageScore)
	assert.Equal(t, 0.0, profile.SuccessRate)
	assert.Equal(t, model.Easy, profile.PreferredDifficulty)
}

func TestBuildLearnerProfile_Streak(t *testing.T) {
	profile := BuildLearnerProfile(1, records(80, 75, 60, 90))
	assert.Equal(t, 2, profile.CurrentStreak)

	broken := BuildLearnerProfile(1, records(50, 90, 90))
	assert.Equal(t, 0, broken.CurrentStreak)
}

func TestCurrentStreak_DoesNotReorderInput(t *testing.T) {
	history := records(80, 75, 60, 90)
	// 打乱顺序：最旧的放到最前
	history[0], history[3] = history[3], history[0]
	before := append([]model.Progress(nil), history...)

	assert.Equal(t, 2, currentStreak(history))
	assert.Equal(t, before, history)
}

func TestBuildLearnerProfile_CompletedModulesDeduplicated(t *testing.T) {
	history := records(70, 70, 70, 70)
	history[0] = withModule(history[0], 5)
	history[1] = withModule(history[1], 2)
	history[2] = withModule(history[2], 5)

	profile := BuildLearnerProfile(1, history)

	assert.Equal(t, []uint{5, 2}, profile.CompletedContentIDs)
	assert.True(t, profile.HasCompleted(2))
	assert.False(t, profile.HasCompleted(9))
}

func TestPreferredDifficulty_Thresholds(t *testing.T) {
	tests := []struct {
		name    string
		avg     float64
		success float64
		want    model.Difficulty
	}{
		{"hard at boundary", 85, 0.8, model.Hard},
		{"high score low success", 95, 0.7, model.Medium},
		{"medium at boundary", 70, 0.6, model.Medium},
		{"just below medium", 69.9, 0.9, model.Easy},
		{"low success", 80, 0.5, model.Easy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, preferredDifficulty(tt.avg, tt.success))
		})
	}
}

func TestMasteryLevel_TimeTermFloorsAtZero(t *testing.T) {
	assert.InDelta(t, 0.8, masteryLevel(100, 1, 600), 1e-9)
	assert.InDelta(t, 0.2, masteryLevel(0, 0, 0), 1e-9)
}

func TestLearningPathFor_Bands(t *testing.T) {
	assert.Equal(t, beginnerPath, learningPathFor(0.29))
	assert.Equal(t, intermediatePath, learningPathFor(0.3))
	assert.Equal(t, intermediatePath, learningPathFor(0.59))
	assert.Equal(t, advancedPath, learningPathFor(0.6))

	path := learningPathFor(0)
	path[0] = "changed"
	assert.Equal(t, "Beginner modules", beginnerPath[0])
}

func TestEntryLevelProfile(t *testing.T) {
	profile := EntryLevelProfile(4)
	require.NotNil(t, profile.CompletedContentIDs)
	assert.Equal(t, model.Easy, profile.PreferredDifficulty)
	assert.Equal(t, 0.5, profile.ConfidenceScore)
	assert.Equal(t, 0, profile.TotalAttempts)
	assert.Equal(t, beginnerPath, profile.LearningPath)
	assert.Equal(t, profile, BuildLearnerProfile(4, nil))
}
