package controller

import (
	"adaptive_edu_backend/internal/model"
	"adaptive_edu_backend/internal/repository"
	"adaptive_edu_backend/internal/service"
	"adaptive_edu_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	ContentService *service.ContentService
}

func NewContentController(contentService *service.ContentService) *ContentController {
	return &ContentController{ContentService: contentService}
}

type ModuleContentRequest struct {
	Type    model.ContentType `json:"type" binding:"required,oneof=text video image interactive"`
	Title   string            `json:"title" binding:"required,max=200"`
	Content string            `json:"content"`
	Order   int               `json:"order"`
}

// swagger:model ModuleRequest
type ModuleRequest struct {
	Title              string                 `json:"title" binding:"required,max=200"`
	Description        string                 `json:"description"`
	Subject            string                 `json:"subject" binding:"required,max=100"`
	Difficulty         model.Difficulty       `json:"difficulty" binding:"required"`
	Prerequisites      []uint                 `json:"prerequisites"`
	LearningObjectives []string               `json:"learningObjectives"`
	EstimatedDuration  int                    `json:"estimatedDuration" binding:"gte=0"`
	Contents           []ModuleContentRequest `json:"contents" binding:"dive"`
}

func (r ModuleRequest) toModel(createdBy uint) *model.LearningModule {
	module := &model.LearningModule{
		Title:              r.Title,
		Description:        r.Description,
		Subject:            r.Subject,
		Difficulty:         r.Difficulty,
		Prerequisites:      r.Prerequisites,
		LearningObjectives: r.LearningObjectives,
		EstimatedDuration:  r.EstimatedDuration,
		CreatedBy:          createdBy,
	}
	if module.Prerequisites == nil {
		module.Prerequisites = []uint{}
	}
	for _, c := range r.Contents {
		module.Contents = append(module.Contents, model.ModuleContent{
			Type:  c.Type,
			Title: c.Title,
			Body:  c.Content,
			Order: c.Order,
		})
	}
	return module
}

// swagger:model QuizRequest
type QuizRequest struct {
	Title        string               `json:"title" binding:"required,max=200"`
	Description  string               `json:"description"`
	ModuleID     uint                 `json:"moduleId" binding:"required"`
	Difficulty   model.Difficulty     `json:"difficulty" binding:"required"`
	TimeLimit    int                  `json:"timeLimit" binding:"gte=0"`
	PassingScore int                  `json:"passingScore" binding:"omitempty,min=0,max=100"`
	Questions    []model.QuizQuestion `json:"questions" binding:"required,min=1"`
}

// ListModules godoc
// @Summary 获取学习模块列表
// @Tags 内容
// @Produce json
// @Param subject query string false "学科"
// @Param difficulty query string false "难度 easy/medium/hard"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Failure 400 {object} util.Response
// @Router /api/modules [get]
func (c *ContentController) ListModules(ctx *gin.Context) {
	page, limit := util.ParsePagination(ctx)
	filter := repository.ModuleFilter{
		Subject:    ctx.Query("subject"),
		Difficulty: model.Difficulty(ctx.Query("difficulty")),
		ActiveOnly: true,
	}

	modules, total, err := c.ContentService.ListModules(ctx.Request.Context(), filter, page, limit)
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	util.Paged(ctx, modules, total, page, limit)
}

// GetModule godoc
// @Summary 获取学习模块详情
// @Tags 内容
// @Produce json
// @Param id path int true "模块ID"
// @Success 200 {object} util.Response{data=model.LearningModule}
// @Failure 404 {object} util.Response
// @Router /api/modules/{id} [get]
func (c *ContentController) GetModule(ctx *gin.Context) {
	module, err := c.ContentService.GetModule(ctx.Request.Context(), util.MustParseUint(ctx.Param("id")))
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	util.Success(ctx, module)
}

// CreateModule godoc
// @Summary 创建学习模块
// @Tags 内容
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body ModuleRequest true "模块信息"
// @Success 201 {object} util.Response{data=model.LearningModule}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/modules [post]
func (c *ContentController) CreateModule(ctx *gin.Context) {
	var req ModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	module := req.toModel(claims.UserID)
	if err := c.ContentService.CreateModule(ctx.Request.Context(), module); err != nil {
		c.handleError(ctx, err)
		return
	}
	util.Created(ctx, module)
}

// UpdateModule godoc
// @Summary 更新学习模块
// @Tags 内容
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "模块ID"
// @Param body body ModuleRequest true "模块信息"
// @Success 200 {object} util.Response{data=model.LearningModule}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/modules/{id} [put]
func (c *ContentController) UpdateModule(ctx *gin.Context) {
	var req ModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	module, err := c.ContentService.UpdateModule(ctx.Request.Context(), util.MustParseUint(ctx.Param("id")), req.toModel(claims.UserID))
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	util.Success(ctx, module)
}

// DeleteModule godoc
// @Summary 下线学习模块
// @Tags 内容
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "模块ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/modules/{id} [delete]
func (c *ContentController) DeleteModule(ctx *gin.Context) {
	if err := c.ContentService.DeactivateModule(ctx.Request.Context(), util.MustParseUint(ctx.Param("id"))); err != nil {
		c.handleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ListQuizzes godoc
// @Summary 获取测验列表
// @Tags 内容
// @Produce json
// @Param moduleId query int false "模块ID"
// @Param difficulty query string false "难度"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/quizzes [get]
func (c *ContentController) ListQuizzes(ctx *gin.Context) {
	page, limit := util.ParsePagination(ctx)
	moduleID := util.MustParseUint(ctx.Query("moduleId"))

	quizzes, total, err := c.ContentService.ListQuizzes(ctx.Request.Context(), moduleID, model.Difficulty(ctx.Query("difficulty")), page, limit)
	if err != nil {
		c.handleError(ctx, err)
		return
	}

	if !canSeeAnswers(ctx) {
		for i := range quizzes {
			quizzes[i] = quizzes[i].WithoutAnswers()
		}
	}
	util.Paged(ctx, quizzes, total, page, limit)
}

// GetQuiz godoc
// @Summary 获取测验详情
// @Description 学生视图不包含答案与解析
// @Tags 内容
// @Produce json
// @Param id path int true "测验ID"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Failure 404 {object} util.Response
// @Router /api/quizzes/{id} [get]
func (c *ContentController) GetQuiz(ctx *gin.Context) {
	quiz, err := c.ContentService.GetQuiz(ctx.Request.Context(), util.MustParseUint(ctx.Param("id")))
	if err != nil {
		c.handleError(ctx, err)
		return
	}

	if canSeeAnswers(ctx) {
		util.Success(ctx, quiz)
		return
	}
	util.Success(ctx, quiz.WithoutAnswers())
}

// CreateQuiz godoc
// @Summary 创建测验
// @Tags 内容
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body QuizRequest true "测验信息"
// @Success 201 {object} util.Response{data=model.Quiz}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/quizzes [post]
func (c *ContentController) CreateQuiz(ctx *gin.Context) {
	var req QuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	passingScore := req.PassingScore
	if passingScore == 0 {
		passingScore = model.PassingPercentage
	}

	claims := util.GetUserFromContext(ctx)
	quiz := &model.Quiz{
		Title:        req.Title,
		Description:  req.Description,
		ModuleID:     req.ModuleID,
		Difficulty:   req.Difficulty,
		TimeLimit:    req.TimeLimit,
		PassingScore: passingScore,
		Questions:    req.Questions,
		CreatedBy:    claims.UserID,
	}
	if err := c.ContentService.CreateQuiz(ctx.Request.Context(), quiz); err != nil {
		c.handleError(ctx, err)
		return
	}
	util.Created(ctx, quiz)
}

// DeleteQuiz godoc
// @Summary 下线测验
// @Tags 内容
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "测验ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/quizzes/{id} [delete]
func (c *ContentController) DeleteQuiz(ctx *gin.Context) {
	if err := c.ContentService.DeactivateQuiz(ctx.Request.Context(), util.MustParseUint(ctx.Param("id"))); err != nil {
		c.handleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

func (c *ContentController) handleError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrModuleNotFound):
		util.NotFound(ctx, "模块不存在")
	case errors.Is(err, util.ErrQuizNotFound):
		util.NotFound(ctx, "测验不存在")
	case errors.Is(err, util.ErrInvalidDifficulty),
		errors.Is(err, util.ErrInvalidModule),
		errors.Is(err, util.ErrInvalidQuiz):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// canSeeAnswers 教师与管理员可以查看答案
func canSeeAnswers(ctx *gin.Context) bool {
	claims := util.GetUserFromContext(ctx)
	return claims != nil && (claims.Role == model.Teacher || claims.Role == model.Admin)
}
