package controller

import (
	"codementor_backend/internal/config"
	"codementor_backend/internal/model"
	"codementor_backend/internal/service"
	"codementor_backend/internal/util"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
	Cfg         *config.Config
}

func NewAuthController(authService *service.AuthService, cfg *config.Config) *AuthController {
	return &AuthController{
		AuthService: authService,
		Cfg:         cfg,
	}
}

// CredentialsRequest 注册与登录共用
// swagger:model CredentialsRequest
type CredentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SessionResponse 登录成功后的返回体，token 同时写入 HttpOnly cookie
// swagger:model SessionResponse
type SessionResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

func (c *AuthController) setSessionCookie(ctx *gin.Context, token string, maxAge int) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(c.Cfg.JWT.CookieName, token, maxAge, "/", "", c.Cfg.Server.Mode == "release", true)
}

// Register godoc
// @Summary 注册新用户
// @Description 创建账号并直接登录
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body CredentialsRequest true "用户名与密码"
// @Success 201 {object} util.Response{data=SessionResponse} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "用户名已存在"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req CredentialsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Username and password are required")
		return
	}

	user, token, err := c.AuthService.Register(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		var ve *service.ValidationError
		switch {
		case errors.As(err, &ve):
			util.ValidationFailed(ctx, ve.Field, ve.Message)
		case errors.Is(err, util.ErrUsernameTaken):
			util.Conflict(ctx, "Username already exists")
		default:
			util.LogInternalError(ctx, "Failed to register user", err)
		}
		return
	}

	c.setSessionCookie(ctx, token, int(c.Cfg.JWT.ExpireTime.Seconds()))
	util.Created(ctx, SessionResponse{User: user, Token: token})
}

// Login godoc
// @Summary 用户登录
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body CredentialsRequest true "用户名与密码"
// @Success 200 {object} util.Response{data=SessionResponse} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "用户名或密码错误"
// @Router /login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req CredentialsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Username and password are required")
		return
	}

	user, token, err := c.AuthService.Login(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, util.ErrInvalidCredentials) {
			util.Error(ctx, http.StatusUnauthorized, "Invalid username or password")
		} else {
			util.LogInternalError(ctx, "Failed to log in", err)
		}
		return
	}

	c.setSessionCookie(ctx, token, int(c.Cfg.JWT.ExpireTime.Seconds()))
	util.Success(ctx, SessionResponse{User: user, Token: token})
}

// Logout godoc
// @Summary 退出登录
// @Description 清除会话 cookie，启用 Redis 时同时使 token 失效
// @Tags 认证
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response "成功"
// @Failure 401 {object} util.Response "未授权"
// @Router /logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.AuthService.Logout(ctx.Request.Context(), claims); err != nil {
		util.LogInternalError(ctx, "Failed to log out", err)
		return
	}

	c.setSessionCookie(ctx, "", -1)
	util.Success(ctx, nil)
}

// CurrentUser godoc
// @Summary 获取当前用户
// @Tags 认证
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.User} "成功"
// @Failure 401 {object} util.Response "未授权"
// @Router /user [get]
func (c *AuthController) CurrentUser(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	user, err := c.AuthService.CurrentUser(ctx.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.Unauthorized(ctx)
		} else {
			util.LogInternalError(ctx, "Failed to fetch user", err)
		}
		return
	}

	util.Success(ctx, user)
}
