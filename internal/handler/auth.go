package handler

import (
	"net/http"

	"shortlink-service/internal/middleware"
	"shortlink-service/internal/model"
	"shortlink-service/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler 包含认证相关的处理器
type AuthHandler struct {
	auth   *service.AuthService
	logger *zap.SugaredLogger
}

// NewAuthHandler 创建一个新的 AuthHandler
func NewAuthHandler(auth *service.AuthService, logger *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger.Named("auth_handler")}
}

// LoginRequest 定义了登录请求的结构体
type LoginRequest struct {
	Email    string `json:"email" example:"a@x.com"`
	Password string `json:"password" example:"Abcdef1!"`
}

// RegisterRequest 定义了注册请求的结构体
type RegisterRequest struct {
	Name     string `json:"name" example:"A"`
	Email    string `json:"email" example:"a@x.com"`
	Password string `json:"password" example:"Abcdef1!"`
}

// AuthResponse 定义了登录成功后的响应
type AuthResponse struct {
	Token string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// UserResponse 用户信息响应，不含密码哈希
type UserResponse struct {
	User model.UserView `json:"user"`
}

// Register godoc
// @Summary 用户注册
// @Description 使用姓名、邮箱和密码创建用户
// @Tags User
// @Accept  json
// @Produce  json
// @Param   account  body   RegisterRequest  true  "注册信息"
// @Success 201 {object} UserResponse "创建成功"
// @Failure 400 {object} ErrorResponse "参数无效或密码强度不足"
// @Failure 401 {object} ErrorResponse "邮箱已被注册"
// @Router /user/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "无效的请求数据"})
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, UserResponse{User: user.View()})
}

// Login godoc
// @Summary 用户登录
// @Description 使用邮箱和密码获取 JWT 令牌，有效期 31 天
// @Tags User
// @Accept  json
// @Produce  json
// @Param   account  body   LoginRequest  true  "登录凭据"
// @Success 200 {object} AuthResponse "成功响应"
// @Failure 400 {object} ErrorResponse "参数缺失、用户不存在或密码错误"
// @Router /user/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "无效的请求数据"})
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, AuthResponse{Token: token})
}

// GetCurrentUser godoc
// @Summary 获取当前用户信息
// @Tags User
// @Security ApiKeyAuth
// @Produce  json
// @Success 200 {object} UserResponse "成功响应"
// @Failure 401 {object} ErrorResponse "未认证"
// @Failure 404 {object} ErrorResponse "用户不存在"
// @Router /user/me [get]
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	p, ok := middleware.RequirePrincipal(c)
	if !ok {
		return
	}

	user, err := h.auth.CurrentUser(c.Request.Context(), p)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, UserResponse{User: user.View()})
}
