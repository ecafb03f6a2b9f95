package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"shortlink-service/internal/apperr"
	"shortlink-service/internal/middleware"
	"shortlink-service/internal/model"
	"shortlink-service/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ShortLinkHandler 短链接处理器
type ShortLinkHandler struct {
	links  *service.LinkService
	logger *zap.SugaredLogger
}

// NewShortLinkHandler 创建处理器实例
func NewShortLinkHandler(links *service.LinkService, logger *zap.SugaredLogger) *ShortLinkHandler {
	return &ShortLinkHandler{links: links, logger: logger.Named("link_handler")}
}

// HealthCheck 健康检查
func (h *ShortLinkHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
}

// CreateShortLinkRequest 创建短链接请求
type CreateShortLinkRequest struct {
	OriginalURL string  `json:"originalURL" example:"https://github.com/gin-gonic/gin"`
	Name        string  `json:"name" example:"gin"`
	Description string  `json:"description,omitempty" example:"gin 仓库"`
	CustomCode  *string `json:"customCode,omitempty" example:"gin"`
}

// UpdateShortLinkRequest 部分更新请求，缺省或空字符串的字段保持不变
type UpdateShortLinkRequest struct {
	Name        *string `json:"name,omitempty"`
	OriginalURL *string `json:"originalURL,omitempty"`
	Description *string `json:"description,omitempty"`
}

// LinkResponse 单条短链接响应
type LinkResponse struct {
	Data *model.ShortLink `json:"data"`
}

// LinkListResponse 短链接列表响应
type LinkListResponse struct {
	Data  []model.ShortLink `json:"data"`
	Count int               `json:"count"`
}

// SearchResponse 搜索结果
type SearchResponse struct {
	Result []model.ShortLink `json:"result"`
	Count  int64             `json:"count"`
}

// UpdateResponse 更新结果
type UpdateResponse struct {
	Message string           `json:"message"`
	Data    *model.ShortLink `json:"data"`
}

// MessageResponse 仅包含提示信息的响应
type MessageResponse struct {
	Message string `json:"message"`
}

// ClickListResponse 点击记录列表
type ClickListResponse struct {
	Data  []model.ClickRecord `json:"data"`
	Count int                 `json:"count"`
}

// CreateShortLink godoc
// @Summary 创建短链接
// @Description 为一个长 URL 创建短链接，可以指定自定义短码
// @Tags ShortLink
// @Security ApiKeyAuth
// @Accept  json
// @Produce  json
// @Param   link  body   CreateShortLinkRequest  true  "短链接信息"
// @Success 201 {object} LinkResponse "创建成功"
// @Failure 400 {object} ErrorResponse "参数无效或自定义短码已存在"
// @Router /short [post]
func (h *ShortLinkHandler) CreateShortLink(c *gin.Context) {
	p, ok := middleware.RequirePrincipal(c)
	if !ok {
		return
	}
	var req CreateShortLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "无效的请求数据"})
		return
	}

	link, err := h.links.Create(c.Request.Context(), p, service.CreateLinkInput{
		OriginalURL: req.OriginalURL,
		Name:        req.Name,
		Description: req.Description,
		CustomCode:  req.CustomCode,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, LinkResponse{Data: link})
}

// GetAllLinks godoc
// @Summary 获取我的全部短链接
// @Tags ShortLink
// @Security ApiKeyAuth
// @Produce  json
// @Success 200 {object} LinkListResponse "成功响应，可以为空列表"
// @Router /short [get]
func (h *ShortLinkHandler) GetAllLinks(c *gin.Context) {
	p, ok := middleware.RequirePrincipal(c)
	if !ok {
		return
	}
	links, err := h.links.ListAll(c.Request.Context(), p)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, LinkListResponse{Data: links, Count: len(links)})
}

// SearchByName godoc
// @Summary 按名称搜索短链接
// @Tags ShortLink
// @Security ApiKeyAuth
// @Produce  json
// @Param   name  query  string  true  "名称关键字"
// @Success 200 {object} SearchResponse "成功响应"
// @Failure 400 {object} ErrorResponse "缺少名称"
// @Failure 404 {object} ErrorResponse "没有匹配结果"
// @Router /short/search [get]
func (h *ShortLinkHandler) SearchByName(c *gin.Context) {
	p, ok := middleware.RequirePrincipal(c)
	if !ok {
		return
	}
	links, count, err := h.links.Search(c.Request.Context(), p, c.Query("name"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, SearchResponse{Result: links, Count: count})
}

// GetStats godoc
// @Summary 我的短链接统计
// @Tags ShortLink
// @Security ApiKeyAuth
// @Produce  json
// @Success 200 {object} repository.LinkStats "成功响应"
// @Router /short/stats [get]
func (h *ShortLinkHandler) GetStats(c *gin.Context) {
	p, ok := middleware.RequirePrincipal(c)
	if !ok {
		return
	}
	stats, err := h.links.Stats(c.Request.Context(), p)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetLink godoc
// @Summary 获取单条短链接
// @Tags ShortLink
// @Security ApiKeyAuth
// @Produce  json
// @Param   id  path  int  true  "短链接 ID"
// @Success 200 {object} LinkResponse "成功响应"
// @Failure 404 {object} ErrorResponse "不存在"
// @Router /short/{id} [get]
func (h *ShortLinkHandler) GetLink(c *gin.Context) {
	p, id, ok := h.principalAndID(c)
	if !ok {
		return
	}
	link, err := h.links.Get(c.Request.Context(), p, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, LinkResponse{Data: link})
}

// UpdateLink godoc
// @Summary 更新短链接
// @Description 只更新请求中出现且非空的字段
// @Tags ShortLink
// @Security ApiKeyAuth
// @Accept  json
// @Produce  json
// @Param   id    path  int                     true  "短链接 ID"
// @Param   link  body  UpdateShortLinkRequest  true  "要更新的字段"
// @Success 200 {object} UpdateResponse "更新成功"
// @Failure 400 {object} ErrorResponse "参数无效"
// @Failure 404 {object} ErrorResponse "不存在"
// @Router /short/{id} [put]
func (h *ShortLinkHandler) UpdateLink(c *gin.Context) {
	p, id, ok := h.principalAndID(c)
	if !ok {
		return
	}
	var req UpdateShortLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "无效的请求数据"})
		return
	}

	link, err := h.links.Update(c.Request.Context(), p, id, service.UpdateLinkInput{
		Name:        req.Name,
		Description: req.Description,
		OriginalURL: req.OriginalURL,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, UpdateResponse{Message: "短链接更新成功", Data: link})
}

// DeleteLink godoc
// @Summary 删除短链接
// @Tags ShortLink
// @Security ApiKeyAuth
// @Produce  json
// @Param   id  path  int  true  "短链接 ID"
// @Success 200 {object} MessageResponse "删除成功"
// @Failure 404 {object} ErrorResponse "不存在"
// @Router /short/{id} [delete]
func (h *ShortLinkHandler) DeleteLink(c *gin.Context) {
	p, id, ok := h.principalAndID(c)
	if !ok {
		return
	}
	if err := h.links.Delete(c.Request.Context(), p, id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "短链接删除成功"})
}

// DownloadQRCode godoc
// @Summary 下载短链接二维码
// @Tags ShortLink
// @Security ApiKeyAuth
// @Produce  png
// @Param   id  path  int  true  "短链接 ID"
// @Success 200 {file} binary "PNG 图片"
// @Failure 404 {object} ErrorResponse "不存在"
// @Router /short/{id}/download [get]
func (h *ShortLinkHandler) DownloadQRCode(c *gin.Context) {
	p, id, ok := h.principalAndID(c)
	if !ok {
		return
	}
	png, filename, err := h.links.RenderQRCode(c.Request.Context(), p, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "image/png", png)
}

// GetClicks godoc
// @Summary 短链接最近的点击记录
// @Tags ShortLink
// @Security ApiKeyAuth
// @Produce  json
// @Param   id     path   int  true   "短链接 ID"
// @Param   limit  query  int  false  "条数，默认 50，最多 200"
// @Success 200 {object} ClickListResponse "成功响应"
// @Failure 404 {object} ErrorResponse "不存在"
// @Router /short/{id}/clicks [get]
func (h *ShortLinkHandler) GetClicks(c *gin.Context) {
	p, id, ok := h.principalAndID(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	clicks, err := h.links.Clicks(c.Request.Context(), p, id, limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, ClickListResponse{Data: clicks, Count: len(clicks)})
}

// RedirectToOriginal godoc
// @Summary 短链接跳转
// @Description 无需登录，跳转到原始链接并记录一次点击
// @Tags Redirect
// @Param   code  path  string  true  "短码"
// @Success 302 "跳转到原始链接"
// @Failure 404 {object} ErrorResponse "链接不存在"
// @Router /{code} [get]
func (h *ShortLinkHandler) RedirectToOriginal(c *gin.Context) {
	h.redirect(c, false)
}

// RedirectCustom godoc
// @Summary 自定义短链接跳转
// @Tags Redirect
// @Param   code  path  string  true  "自定义短码"
// @Success 302 "跳转到原始链接"
// @Failure 404 {object} ErrorResponse "链接不存在"
// @Router /c/{code} [get]
func (h *ShortLinkHandler) RedirectCustom(c *gin.Context) {
	h.redirect(c, true)
}

func (h *ShortLinkHandler) redirect(c *gin.Context, custom bool) {
	target, err := h.links.Redirect(c.Request.Context(), c.Param("code"), custom, service.Visit{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Referer:   c.Request.Referer(),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Redirect(http.StatusFound, target)
}

// principalAndID 取调用者身份和路径中的 id；id 非法时按不存在处理
func (h *ShortLinkHandler) principalAndID(c *gin.Context) (*service.Principal, uint, bool) {
	p, ok := middleware.RequirePrincipal(c)
	if !ok {
		return nil, 0, false
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, h.logger, apperr.NotFound("短链接不存在"))
		return nil, 0, false
	}
	return p, uint(id), true
}
