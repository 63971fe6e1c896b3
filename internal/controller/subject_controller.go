package controller

import (
	"errors"
	"strconv"

	"quizleader_backend/internal/service"
	"quizleader_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SubjectController struct {
	ContentService *service.ContentService
}

func NewSubjectController(contentService *service.ContentService) *SubjectController {
	return &SubjectController{ContentService: contentService}
}

type subjectRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// @Summary 科目列表
// @Tags 题库内容
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} util.Response
// @Router /api/quiz/subjects [get]
func (c *SubjectController) ListSubjects(ctx *gin.Context) {
	page := util.ParsePositiveInt(ctx.Query("page"), 1)
	pageSize := util.ParsePositiveInt(ctx.Query("page_size"), 10)
	if pageSize > 25 {
		pageSize = 25
	}

	subjects, total, err := c.ContentService.ListSubjects(page, pageSize)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": subjects, "total": total})
}

// @Summary 创建科目
// @Tags 题库内容
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body subjectRequest true "科目名（唯一）"
// @Success 201 {object} util.Response
// @Router /api/quiz/subjects [post]
func (c *SubjectController) CreateSubject(ctx *gin.Context) {
	var req subjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	subject, err := c.ContentService.CreateSubject(req.Name)
	if err != nil {
		var vErr *util.ValidationError
		switch {
		case errors.Is(err, util.ErrSubjectNameTaken):
			util.BadRequest(ctx, err.Error())
		case errors.As(err, &vErr):
			util.BadRequest(ctx, vErr.Detail)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, subject)
}

// @Summary 科目详情
// @Tags 题库内容
// @Produce json
// @Param subject_id path int true "科目ID"
// @Success 200 {object} util.Response
// @Router /api/quiz/subjects/{subject_id} [get]
func (c *SubjectController) GetSubject(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("subject_id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid subject id")
		return
	}

	subject, err := c.ContentService.GetSubject(uint(id))
	if err != nil {
		util.NotFound(ctx, "Subject not found")
		return
	}

	util.Success(ctx, subject)
}

// @Summary 删除科目
// @Tags 题库内容
// @Security BearerAuth
// @Param subject_id path int true "科目ID"
// @Success 200 {object} util.Response
// @Router /api/quiz/subjects/{subject_id} [delete]
func (c *SubjectController) DeleteSubject(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("subject_id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid subject id")
		return
	}

	if err := c.ContentService.DeleteSubject(uint(id)); err != nil {
		if errors.Is(err, util.ErrSubjectNotFound) {
			util.NotFound(ctx, "Subject not found")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}
