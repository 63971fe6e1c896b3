package controller

import (
	"errors"
	"strconv"

	"quizleader_backend/internal/service"
	"quizleader_backend/internal/util"
	"quizleader_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

type submitRequest struct {
	Answers map[string]string `json:"answers" binding:"required"`
}

// @Summary 开始测验
// @Description 为课程开一局测验，最多随机抽取15道题
// @Tags 测验玩法
// @Security BearerAuth
// @Produce json
// @Param lesson_id path int true "课程ID"
// @Success 200 {object} util.Response{data=service.StartQuizResult}
// @Failure 404 {object} util.Response
// @Router /api/quiz/game/start/{lesson_id} [post]
func (c *QuizController) StartQuiz(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	lessonID, err := strconv.ParseUint(ctx.Param("lesson_id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid lesson id")
		return
	}

	result, err := c.QuizService.StartQuiz(user.UserID, uint(lessonID))
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx, "Lesson not found")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	monitoring.QuizStarted.Inc()
	util.Success(ctx, result)
}

// @Summary 提交答案
// @Description 对未完成的 attempt 评分；重复提交返回400
// @Tags 测验玩法
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param attempt_id path int true "attempt ID"
// @Param body body submitRequest true "题目ID到所选选项的映射"
// @Success 200 {object} util.Response{data=model.QuizAttempt}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/quiz/game/submit/{attempt_id} [post]
func (c *QuizController) SubmitQuiz(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	attemptID, err := strconv.ParseUint(ctx.Param("attempt_id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid attempt id")
		return
	}

	var req submitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, err := c.QuizService.SubmitQuiz(user.UserID, uint(attemptID), req.Answers)
	if err != nil {
		var vErr *util.ValidationError
		switch {
		case errors.Is(err, util.ErrAttemptNotFound):
			monitoring.QuizSubmitted.WithLabelValues("not_found").Inc()
			util.NotFound(ctx, "Quiz attempt not found")
		case errors.Is(err, util.ErrAttemptCompleted):
			monitoring.QuizSubmitted.WithLabelValues("duplicate").Inc()
			util.BadRequest(ctx, "Quiz already completed")
		case errors.As(err, &vErr):
			monitoring.QuizSubmitted.WithLabelValues("invalid").Inc()
			util.BadRequest(ctx, vErr.Detail)
		default:
			monitoring.QuizSubmitted.WithLabelValues("error").Inc()
			util.LogInternalError(ctx, err)
		}
		return
	}

	monitoring.QuizSubmitted.WithLabelValues("scored").Inc()
	util.Success(ctx, attempt)
}

// @Summary 我的对局
// @Tags 测验玩法
// @Security BearerAuth
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} util.Response
// @Router /api/quiz/game/attempts [get]
func (c *QuizController) MyAttempts(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	page := util.ParsePositiveInt(ctx.Query("page"), 1)
	pageSize := util.ParsePositiveInt(ctx.Query("page_size"), 10)
	if pageSize > 25 {
		pageSize = 25
	}

	attempts, total, err := c.QuizService.ListAttempts(user.UserID, page, pageSize)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": attempts, "total": total})
}
