package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes 注册全部路由。跳转路由不经过认证中间件。
func RegisterRoutes(
	router *gin.Engine,
	linkHandler *ShortLinkHandler,
	authHandler *AuthHandler,
	authMiddleware gin.HandlerFunc,
) {
	router.GET("/health", linkHandler.HealthCheck)
	router.GET("/c/:code", linkHandler.RedirectCustom)
	router.GET("/:code", linkHandler.RedirectToOriginal)

	userGroup := router.Group("/user")
	{
		userGroup.POST("/register", authHandler.Register)
		userGroup.POST("/login", authHandler.Login)
		userGroup.GET("/me", authMiddleware, authHandler.GetCurrentUser)
	}

	short := router.Group("/short")
	short.Use(authMiddleware)
	{
		short.GET("", linkHandler.GetAllLinks)
		short.POST("", linkHandler.CreateShortLink)
		short.GET("/search", linkHandler.SearchByName)
		short.GET("/stats", linkHandler.GetStats)
		short.GET("/:id", linkHandler.GetLink)
		short.PUT("/:id", linkHandler.UpdateLink)
		short.PATCH("/:id", linkHandler.UpdateLink)
		short.DELETE("/:id", linkHandler.DeleteLink)
		short.GET("/:id/download", linkHandler.DownloadQRCode)
		short.GET("/:id/clicks", linkHandler.GetClicks)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "资源不存在"})
	})
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "资源不存在"})
	})
}
