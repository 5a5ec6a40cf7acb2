package controller

import (
	"adaptive_edu_backend/internal/model"
	"adaptive_edu_backend/internal/service"
	"adaptive_edu_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// ProgressView 完成记录及派生字段
type ProgressView struct {
	model.Progress
	IsPassed         bool   `json:"isPassed"`
	PerformanceLevel string `json:"performanceLevel"`
}

func newProgressView(p model.Progress) ProgressView {
	return ProgressView{
		Progress:         p,
		IsPassed:         p.IsPassed(),
		PerformanceLevel: p.PerformanceLevel(),
	}
}

// ListProgress godoc
// @Summary 获取我的学习记录
// @Tags 学习进度
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Failure 401 {object} util.Response
// @Router /api/progress [get]
func (c *ProgressController) ListProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	page, limit := util.ParsePagination(ctx)
	records, total, err := c.ProgressService.ListProgress(ctx.Request.Context(), claims.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	views := make([]ProgressView, 0, len(records))
	for _, r := range records {
		views = append(views, newProgressView(r))
	}
	util.Paged(ctx, views, total, page, limit)
}

// RecordProgress godoc
// @Summary 提交完成记录
// @Description 提交模块学习或测验作答结果。带作答的测验由服务端判分，写入后异步刷新自适应数据
// @Tags 学习进度
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.RecordProgressRequest true "完成记录"
// @Success 201 {object} util.Response{data=ProgressView}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/progress [post]
func (c *ProgressController) RecordProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.RecordProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	record, err := c.ProgressService.RecordProgress(ctx.Request.Context(), claims.UserID, req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidContentRef):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrModuleNotFound):
			util.NotFound(ctx, "模块不存在")
		case errors.Is(err, util.ErrQuizNotFound):
			util.NotFound(ctx, "测验不存在")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, newProgressView(*record))
}

// GetStats godoc
// @Summary 获取我的学习统计
// @Tags 学习进度
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.UserStats}
// @Router /api/progress/stats [get]
func (c *ProgressController) GetStats(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	stats, err := c.ProgressService.GetStats(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
