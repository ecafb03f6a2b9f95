package handler

import (
	"shortlink-service/internal/apperr"
	"shortlink-service/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse 统一的错误响应
type ErrorResponse struct {
	Error string `json:"error" example:"短链接不存在"`
}

// respondError 把服务层错误转换为 JSON 响应，内部错误只记录日志不返回细节
func respondError(c *gin.Context, logger *zap.SugaredLogger, err error) {
	e := apperr.From(err)
	if e.Kind == apperr.KindInternal {
		logger.Errorw(e.Message,
			"error", err,
			"request_id", middleware.RequestIDFromContext(c),
			"path", c.Request.URL.Path,
		)
	}
	c.JSON(e.Status, ErrorResponse{Error: e.Message})
}
