package controller

import (
	"errors"
	"strconv"

	"quizleader_backend/internal/service"
	"quizleader_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LeaderboardController struct {
	LeaderboardService *service.LeaderboardService
}

func NewLeaderboardController(leaderboardService *service.LeaderboardService) *LeaderboardController {
	return &LeaderboardController{LeaderboardService: leaderboardService}
}

// @Summary 科目排行榜
// @Description 科目维度 top-10 玩家，按最高分降序；缓存约1分钟
// @Tags 排行榜
// @Produce json
// @Param subject_id path int true "科目ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Failure 404 {object} util.Response
// @Router /api/quiz/subject-leaderboard/{subject_id} [get]
func (c *LeaderboardController) SubjectLeaderboard(ctx *gin.Context) {
	subjectID, err := strconv.ParseUint(ctx.Param("subject_id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid subject id")
		return
	}

	page := util.ParsePositiveInt(ctx.Query("page"), 1)
	pageSize := util.ParsePositiveInt(ctx.Query("page_size"), util.SubjectLeaderboardLimit)

	result, err := c.LeaderboardService.SubjectLeaderboard(ctx.Request.Context(), uint(subjectID), page, pageSize)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrNoLeaderboardData):
			util.NotFound(ctx, "No data found for the given subject")
		case errors.Is(err, util.ErrInvalidPage):
			util.NotFound(ctx, "Invalid page")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}

// @Summary 全局排行榜
// @Description 全部课程范围 top-25 玩家，按最高分降序；缓存约1分钟
// @Tags 排行榜
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Failure 404 {object} util.Response
// @Router /api/quiz/global-leaderboard [get]
func (c *LeaderboardController) GlobalLeaderboard(ctx *gin.Context) {
	page := util.ParsePositiveInt(ctx.Query("page"), 1)
	pageSize := util.ParsePositiveInt(ctx.Query("page_size"), util.GlobalLeaderboardLimit)

	result, err := c.LeaderboardService.GlobalLeaderboard(ctx.Request.Context(), page, pageSize)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrNoLeaderboardData):
			util.NotFound(ctx, "No data found")
		case errors.Is(err, util.ErrInvalidPage):
			util.NotFound(ctx, "Invalid page")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}
