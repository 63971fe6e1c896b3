package controller

import (
	"errors"
	"strconv"

	"quizleader_backend/internal/service"
	"quizleader_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LessonController struct {
	ContentService *service.ContentService
}

func NewLessonController(contentService *service.ContentService) *LessonController {
	return &LessonController{ContentService: contentService}
}

type lessonRequest struct {
	Title string `json:"title" binding:"required,max=200"`
}

// @Summary 某科目下的课程列表
// @Tags 题库内容
// @Produce json
// @Param subject_id path int true "科目ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/quiz/lessons/{subject_id} [get]
func (c *LessonController) ListLessons(ctx *gin.Context) {
	subjectID, err := strconv.ParseUint(ctx.Param("subject_id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid subject id")
		return
	}

	page := util.ParsePositiveInt(ctx.Query("page"), 1)
	pageSize := util.ParsePositiveInt(ctx.Query("page_size"), 10)
	if pageSize > 25 {
		pageSize = 25
	}

	lessons, total, err := c.ContentService.ListLessons(uint(subjectID), page, pageSize)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if total == 0 {
		util.NotFound(ctx, "No lessons found for the given subject")
		return
	}

	util.Success(ctx, gin.H{"items": lessons, "total": total})
}

// @Summary 在科目下创建课程
// @Tags 题库内容
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param subject_id path int true "科目ID"
// @Param body body lessonRequest true "课程标题（科目内唯一）"
// @Success 201 {object} util.Response
// @Router /api/quiz/lessons/{subject_id} [post]
func (c *LessonController) CreateLesson(ctx *gin.Context) {
	subjectID, err := strconv.ParseUint(ctx.Param("subject_id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid subject id")
		return
	}

	var req lessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.ContentService.CreateLesson(uint(subjectID), req.Title)
	if err != nil {
		var vErr *util.ValidationError
		switch {
		case errors.Is(err, util.ErrSubjectNotFound):
			util.NotFound(ctx, "Subject not found")
		case errors.Is(err, util.ErrLessonTitleTaken):
			util.BadRequest(ctx, err.Error())
		case errors.As(err, &vErr):
			util.BadRequest(ctx, vErr.Detail)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, lesson)
}

// @Summary 删除课程
// @Tags 题库内容
// @Security BearerAuth
// @Param lesson_id path int true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/quiz/lessons/{lesson_id} [delete]
func (c *LessonController) DeleteLesson(ctx *gin.Context) {
	lessonID, err := strconv.ParseUint(ctx.Param("lesson_id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid lesson id")
		return
	}

	if err := c.ContentService.DeleteLesson(uint(lessonID)); err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx, "Lesson not found")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}
