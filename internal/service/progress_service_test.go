package service

import (
	"context"
	"testing"

	"adaptive_edu_backend/internal/model"
	"adaptive_edu_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memoryProgressStore struct {
	created []*model.Progress
}

func (m *memoryProgressStore) Create(_ context.Context, p *model.Progress) error {
	p.ID = uint(len(m.created) + 1)
	p.Percentage = model.ScorePercentage(p.Score, p.MaxScore)
	m.created = append(m.created, p)
	return nil
}

func (m *memoryProgressStore) FindByUser(context.Context, uint, int, int) ([]model.Progress, int64, error) {
	return nil, 0, nil
}

func (m *memoryProgressStore) GetUserStats(context.Context, uint) (*model.UserStats, error) {
	return &model.UserStats{}, nil
}

type quizTable map[uint]*model.Quiz

func (q quizTable) FindByID(_ context.Context, id uint) (*model.Quiz, error) {
	if found, ok := q[id]; ok {
		return found, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type moduleTable map[uint]*model.LearningModule

func (m moduleTable) FindByID(_ context.Context, id uint) (*model.LearningModule, error) {
	if found, ok := m[id]; ok {
		return found, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type recordingObserver struct {
	seen []model.Progress
}

func (r *recordingObserver) OnActivityRecorded(record model.Progress) {
	r.seen = append(r.seen, record)
}

func sampleQuiz() *model.Quiz {
	q := &model.Quiz{
		ModuleID:   3,
		Difficulty: model.Easy,
		Questions: []model.QuizQuestion{
			{ID: "q1", Type: model.MultipleChoice, CorrectAnswer: []string{"B"}, Points: 2},
			{ID: "q2", Type: model.TrueFalse, CorrectAnswer: []string{"true"}, Points: 1},
			{ID: "q3", Type: model.MultipleChoice, CorrectAnswer: []string{"A", "C"}, Points: 2},
		},
	}
	q.ID = 9
	return q
}

func newProgressFixture() (*ProgressService, *memoryProgressStore, *recordingObserver) {
	m := module(3, model.Easy)
	store := &memoryProgressStore{}
	observer := &recordingObserver{}
	svc := NewProgressService(store, moduleTable{3: &m}, quizTable{9: sampleQuiz()}, observer)
	return svc, store, observer
}

func TestGradeResponses(t *testing.T) {
	responses, score := GradeResponses(sampleQuiz(), []ResponseSubmission{
		{QuestionID: "q1", UserAnswer: []string{" b "}},
		{QuestionID: "q2", UserAnswer: []string{"false"}},
		{QuestionID: "q3", UserAnswer: []string{"c", "a"}},
		{QuestionID: "unknown", UserAnswer: []string{"x"}},
	})

	assert.Equal(t, 4.0, score)
	require.Len(t, responses, 3)
	assert.True(t, responses[0].IsCorrect)
	assert.Equal(t, 2, responses[0].Points)
	assert.False(t, responses[1].IsCorrect)
	assert.Equal(t, 0, responses[1].Points)
	assert.True(t, responses[2].IsCorrect)
}

func TestAnswersMatch(t *testing.T) {
	assert.False(t, answersMatch(nil, nil))
	assert.False(t, answersMatch([]string{"a"}, []string{"a", "a"}))
	assert.False(t, answersMatch([]string{"a", "b"}, []string{"a", "a"}))
	assert.True(t, answersMatch([]string{"Paris"}, []string{"paris"}))
}

func TestRecordProgress_GradesQuizAndNotifies(t *testing.T) {
	svc, store, observer := newProgressFixture()
	quizID := uint(9)

	record, err := svc.RecordProgress(context.Background(), 7, RecordProgressRequest{
		QuizID:    &quizID,
		Score:     999,
		MaxScore:  1,
		TimeSpent: 120,
		Responses: []ResponseSubmission{{QuestionID: "q1", UserAnswer: []string{"B"}}},
	})

	require.NoError(t, err)
	require.NotNil(t, record.ModuleID)
	assert.Equal(t, uint(3), *record.ModuleID)
	assert.Equal(t, 2.0, record.Score)
	assert.Equal(t, 5.0, record.MaxScore)
	assert.Equal(t, 40, record.Percentage)
	assert.Equal(t, model.Easy, record.AdaptiveData.DifficultyLevel)
	assert.False(t, record.CompletedAt.IsZero())
	require.Len(t, store.created, 1)
	require.Len(t, observer.seen, 1)
	assert.Equal(t, record.ID, observer.seen[0].ID)
}

func TestRecordProgress_ModuleCompletionKeepsReportedScore(t *testing.T) {
	svc, _, observer := newProgressFixture()
	moduleID := uint(3)

	record, err := svc.RecordProgress(context.Background(), 7, RecordProgressRequest{
		ModuleID: &moduleID,
		Score:    8,
		MaxScore: 10,
	})

	require.NoError(t, err)
	assert.Equal(t, 80, record.Percentage)
	assert.Nil(t, record.QuizID)
	assert.Len(t, observer.seen, 1)
}

func TestRecordProgress_Validation(t *testing.T) {
	svc, store, observer := newProgressFixture()
	missing := uint(404)

	_, err := svc.RecordProgress(context.Background(), 7, RecordProgressRequest{Score: 1, MaxScore: 1})
	assert.ErrorIs(t, err, util.ErrInvalidContentRef)

	_, err = svc.RecordProgress(context.Background(), 7, RecordProgressRequest{QuizID: &missing})
	assert.ErrorIs(t, err, util.ErrQuizNotFound)

	_, err = svc.RecordProgress(context.Background(), 7, RecordProgressRequest{ModuleID: &missing})
	assert.ErrorIs(t, err, util.ErrModuleNotFound)

	assert.Empty(t, store.created)
	assert.Empty(t, observer.seen)
}

func TestRecordProgress_RejectsQuizFromAnotherModule(t *testing.T) {
	svc, store, observer := newProgressFixture()
	quizID := uint(9)
	otherModule := uint(4)
	sameModule := uint(3)

	_, err := svc.RecordProgress(context.Background(), 7, RecordProgressRequest{
		ModuleID: &otherModule,
		QuizID:   &quizID,
		Score:    1,
		MaxScore: 1,
	})
	assert.ErrorIs(t, err, util.ErrInvalidContentRef)
	assert.Empty(t, store.created)
	assert.Empty(t, observer.seen)

	record, err := svc.RecordProgress(context.Background(), 7, RecordProgressRequest{
		ModuleID: &sameModule,
		QuizID:   &quizID,
		Score:    1,
		MaxScore: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, uint(3), *record.ModuleID)
	assert.Len(t, store.created, 1)
}
