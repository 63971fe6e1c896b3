package controller

import (
	"errors"

	"quizleader_backend/internal/service"
	"quizleader_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Access   string `json:"access"`
}

// @Summary 注册
// @Tags 认证
// @Accept json
// @Produce json
// @Param body body service.RegisterRequest true "用户名与密码"
// @Success 201 {object} util.Response
// @Router /api/auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req service.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, token, err := c.AuthService.Register(req)
	if err != nil {
		var vErr *util.ValidationError
		switch {
		case errors.Is(err, util.ErrUsernameTaken):
			util.BadRequest(ctx, err.Error())
		case errors.As(err, &vErr):
			util.BadRequest(ctx, vErr.Detail)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, authResponse{ID: user.ID, Username: user.Username, Access: token})
}

// @Summary 登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param body body loginRequest true "用户名与密码"
// @Success 200 {object} util.Response
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req loginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, token, err := c.AuthService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, util.ErrInvalidCredentials) {
			util.Unauthorized(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, authResponse{ID: user.ID, Username: user.Username, Access: token})
}

// @Summary 当前用户资料
// @Tags 认证
// @Security BearerAuth
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/profile [get]
func (c *AuthController) GetProfile(ctx *gin.Context) {
	user := c.AuthService.GetCurrentUser(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	util.Success(ctx, user)
}
