package controller

import (
	"adaptive_edu_backend/internal/model"
	"adaptive_edu_backend/internal/service"
	"adaptive_edu_backend/internal/util"
	"adaptive_edu_backend/pkg/logger"
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RecommendationProvider interface {
	Recommend(ctx context.Context, userID uint) (*model.Recommendation, service.RecommendationSource, error)
}

type LearnerProfileProvider interface {
	GetLearnerProfile(ctx context.Context, userID uint) (*model.LearnerProfile, error)
}

// ContentResolver 解析推荐中的模块与测验详情
type ContentResolver interface {
	GetModule(ctx context.Context, id uint) (*model.LearningModule, error)
	GetQuiz(ctx context.Context, id uint) (*model.Quiz, error)
}

type AdaptiveController struct {
	Recommendations RecommendationProvider
	Profiles        LearnerProfileProvider
	Content         ContentResolver
}

func NewAdaptiveController(recommendations RecommendationProvider, profiles LearnerProfileProvider, content ContentResolver) *AdaptiveController {
	return &AdaptiveController{
		Recommendations: recommendations,
		Profiles:        profiles,
		Content:         content,
	}
}

type RecommendationResponse struct {
	Recommendation *model.Recommendation `json:"recommendation"`
	Source         string                `json:"source"`
	Module         *model.LearningModule `json:"module,omitempty"`
	Quiz           *model.Quiz           `json:"quiz,omitempty"`
}

// GetRecommendation godoc
// @Summary 获取下一步学习推荐
// @Description 根据最近的学习记录推荐下一个模块/测验。source 为 engine、cache 或 entry-level
// @Tags 自适应学习
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=RecommendationResponse}
// @Failure 401 {object} util.Response
// @Failure 500 {object} util.Response
// @Router /api/adaptive/recommendation [get]
func (c *AdaptiveController) GetRecommendation(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	rec, source, err := c.Recommendations.Recommend(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	resp := RecommendationResponse{
		Recommendation: rec,
		Source:         string(source),
	}

	// 详情解析失败不影响推荐本身
	if rec.NextModuleID != nil {
		module, err := c.Content.GetModule(ctx.Request.Context(), *rec.NextModuleID)
		if err != nil {
			logger.Log.Warn("Failed to resolve recommended module", zap.Uint("moduleID", *rec.NextModuleID), zap.Error(err))
		} else {
			resp.Module = module
		}
	}
	if rec.NextQuizID != nil {
		quiz, err := c.Content.GetQuiz(ctx.Request.Context(), *rec.NextQuizID)
		if err != nil {
			logger.Log.Warn("Failed to resolve recommended quiz", zap.Uint("quizID", *rec.NextQuizID), zap.Error(err))
		} else {
			view := quiz.WithoutAnswers()
			resp.Quiz = &view
		}
	}

	util.Success(ctx, resp)
}

// GetLearnerProfile godoc
// @Summary 获取学习者画像
// @Tags 自适应学习
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.LearnerProfile}
// @Failure 401 {object} util.Response
// @Router /api/adaptive/profile [get]
func (c *AdaptiveController) GetLearnerProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	profile, err := c.Profiles.GetLearnerProfile(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, profile)
}
