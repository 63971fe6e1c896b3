package controller

import (
	"errors"
	"strconv"

	"quizleader_backend/internal/service"
	"quizleader_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	ContentService *service.ContentService
}

func NewQuestionController(contentService *service.ContentService) *QuestionController {
	return &QuestionController{ContentService: contentService}
}

func (c *QuestionController) mapWriteError(ctx *gin.Context, err error) {
	var vErr *util.ValidationError
	switch {
	case errors.Is(err, util.ErrLessonNotFound):
		util.NotFound(ctx, "Lesson not found")
	case errors.Is(err, util.ErrQuestionNotFound):
		util.NotFound(ctx, "Question not found")
	case errors.Is(err, util.ErrQuestionLimit):
		util.BadRequest(ctx, err.Error())
	case errors.As(err, &vErr):
		util.BadRequest(ctx, vErr.Detail)
	default:
		util.LogInternalError(ctx, err)
	}
}

// @Summary 某课程下的题目列表
// @Tags 题库内容
// @Produce json
// @Param lesson_id path int true "课程ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/quiz/questions/{lesson_id} [get]
func (c *QuestionController) ListQuestions(ctx *gin.Context) {
	lessonID, err := strconv.ParseUint(ctx.Param("lesson_id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid lesson id")
		return
	}

	page := util.ParsePositiveInt(ctx.Query("page"), 1)
	pageSize := util.ParsePositiveInt(ctx.Query("page_size"), 10)
	if pageSize > 25 {
		pageSize = 25
	}

	questions, total, err := c.ContentService.ListQuestions(uint(lessonID), page, pageSize)
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx, "Lesson not found")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": questions, "total": total})
}

// @Summary 在课程下创建题目
// @Description 选项必须恰好为编号1-3的三个非空项；单课程最多30题
// @Tags 题库内容
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param lesson_id path int true "课程ID"
// @Param body body service.QuestionRequest true "题干、选项与正确答案"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/quiz/questions/{lesson_id} [post]
func (c *QuestionController) CreateQuestion(ctx *gin.Context) {
	lessonID, err := strconv.ParseUint(ctx.Param("lesson_id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid lesson id")
		return
	}

	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.ContentService.CreateQuestion(uint(lessonID), req)
	if err != nil {
		c.mapWriteError(ctx, err)
		return
	}

	util.Created(ctx, question)
}

// @Summary 题目详情
// @Tags 题库内容
// @Security BearerAuth
// @Produce json
// @Param question_id path int true "题目ID"
// @Success 200 {object} util.Response
// @Router /api/quiz/questions/detail/{question_id} [get]
func (c *QuestionController) GetQuestion(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("question_id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid question id")
		return
	}

	question, err := c.ContentService.GetQuestion(uint(id))
	if err != nil {
		util.NotFound(ctx, "Question not found")
		return
	}

	util.Success(ctx, question)
}

// @Summary 更新题目
// @Tags 题库内容
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param question_id path int true "题目ID"
// @Param body body service.QuestionRequest true "题干、选项与正确答案"
// @Success 200 {object} util.Response
// @Router /api/quiz/questions/detail/{question_id} [put]
func (c *QuestionController) UpdateQuestion(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("question_id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid question id")
		return
	}

	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.ContentService.UpdateQuestion(uint(id), req)
	if err != nil {
		c.mapWriteError(ctx, err)
		return
	}

	util.Success(ctx, question)
}

// @Summary 删除题目
// @Tags 题库内容
// @Security BearerAuth
// @Param question_id path int true "题目ID"
// @Success 200 {object} util.Response
// @Router /api/quiz/questions/detail/{question_id} [delete]
func (c *QuestionController) DeleteQuestion(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("question_id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid question id")
		return
	}

	if err := c.ContentService.DeleteQuestion(uint(id)); err != nil {
		c.mapWriteError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}
