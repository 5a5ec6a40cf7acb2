package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"adaptive_edu_backend/internal/model"
	"adaptive_edu_backend/internal/util"

	"gorm.io/gorm"
)

type ProgressStore interface {
	Create(ctx context.Context, progress *model.Progress) error
	FindByUser(ctx context.Context, userID uint, page, limit int) ([]model.Progress, int64, error)
	GetUserStats(ctx context.Context, userID uint) (*model.UserStats, error)
}

type ModuleLookup interface {
	FindByID(ctx context.Context, id uint) (*model.LearningModule, error)
}

type QuizLookup interface {
	FindByID(ctx context.Context, id uint) (*model.Quiz, error)
}

// ActivityObserver 完成记录写入成功后的回调
type ActivityObserver interface {
	OnActivityRecorded(record model.Progress)
}

type ProgressService struct {
	Store    ProgressStore
	Modules  ModuleLookup
	Quizzes  QuizLookup
	Observer ActivityObserver
}

func NewProgressService(store ProgressStore, modules ModuleLookup, quizzes QuizLookup, observer ActivityObserver) *ProgressService {
	return &ProgressService{
		Store:    store,
		Modules:  modules,
		Quizzes:  quizzes,
		Observer: observer,
	}
}

type ResponseSubmission struct {
	QuestionID string   `json:"questionId" binding:"required"`
	UserAnswer []string `json:"userAnswer"`
	TimeSpent  int      `json:"timeSpent" binding:"gte=0"`
}

type RecordProgressRequest struct {
	ModuleID  *uint                `json:"moduleId"`
	QuizID    *uint                `json:"quizId"`
	Score     float64              `json:"score" binding:"gte=0"`
	MaxScore  float64              `json:"maxScore" binding:"gte=0"`
	TimeSpent int                  `json:"timeSpent" binding:"gte=0"`
	Responses []ResponseSubmission `json:"responses"`
}

// RecordProgress 写入一条完成记录。带作答的测验以题目答案为准重新判分。
func (s *ProgressService) RecordProgress(ctx context.Context, userID uint, req RecordProgressRequest) (*model.Progress, error) {
	if req.ModuleID == nil && req.QuizID == nil {
		return nil, util.ErrInvalidContentRef
	}

	record := &model.Progress{
		UserID:      userID,
		ModuleID:    req.ModuleID,
		QuizID:      req.QuizID,
		Score:       req.Score,
		MaxScore:    req.MaxScore,
		TimeSpent:   req.TimeSpent,
		CompletedAt: time.Now(),
		AdaptiveData: model.AdaptiveData{
			DifficultyLevel: model.Easy,
			LearningPath:    []string{},
			Recommendations: []string{},
		},
	}

	if req.QuizID != nil {
		quiz, err := s.Quizzes.FindByID(ctx, *req.QuizID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.ErrQuizNotFound
			}
			return nil, err
		}
		// 同时给出 moduleId 与 quizId 时必须指向同一模块
		if record.ModuleID != nil && *record.ModuleID != quiz.ModuleID {
			return nil, util.ErrInvalidContentRef
		}
		if record.ModuleID == nil {
			moduleID := quiz.ModuleID
			record.ModuleID = &moduleID
		}
		if len(req.Responses) > 0 {
			responses, score := GradeResponses(quiz, req.Responses)
			record.Responses = responses
			record.Score = score
			record.MaxScore = float64(quiz.TotalPoints())
		}
	} else if _, err := s.Modules.FindByID(ctx, *req.ModuleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrModuleNotFound
		}
		return nil, err
	}

	if err := s.Store.Create(ctx, record); err != nil {
		return nil, err
	}

	if s.Observer != nil {
		s.Observer.OnActivityRecorded(*record)
	}
	return record, nil
}

func (s *ProgressService) ListProgress(ctx context.Context, userID uint, page, limit int) ([]model.Progress, int64, error) {
	return s.Store.FindByUser(ctx, userID, page, limit)
}

func (s *ProgressService) GetStats(ctx context.Context, userID uint) (*model.UserStats, error) {
	return s.Store.GetUserStats(ctx, userID)
}

// GradeResponses 按题目顺序判分，测验中不存在的题目 ID 忽略
func GradeResponses(quiz *model.Quiz, submissions []ResponseSubmission) ([]model.QuizResponse, float64) {
	byQuestion := make(map[string]ResponseSubmission, len(submissions))
	for _, sub := range submissions {
		byQuestion[sub.QuestionID] = sub
	}

	responses := make([]model.QuizResponse, 0, len(submissions))
	score := 0
	for _, question := range quiz.Questions {
		sub, ok := byQuestion[question.ID]
		if !ok {
			continue
		}
		correct := answersMatch(question.CorrectAnswer, sub.UserAnswer)
		points := 0
		if correct {
			points = question.Points
			score += points
		}
		responses = append(responses, model.QuizResponse{
			QuestionID: question.ID,
			UserAnswer: sub.UserAnswer,
			IsCorrect:  correct,
			TimeSpent:  sub.TimeSpent,
			Points:     points,
		})
	}
	return responses, float64(score)
}

// answersMatch 忽略顺序、大小写和首尾空白
func answersMatch(expected, given []string) bool {
	if len(expected) == 0 || len(expected) != len(given) {
		return false
	}
	want := make(map[string]int, len(expected))
	for _, a := range expected {
		want[normalizeAnswer(a)]++
	}
	for _, a := range given {
		key := normalizeAnswer(a)
		if want[key] == 0 {
			return false
		}
		want[key]--
	}
	return true
}

func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
