package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shortlink-service/internal/cache"
	"shortlink-service/internal/config"
	"shortlink-service/internal/handler"
	"shortlink-service/internal/middleware"
	"shortlink-service/internal/repository"
	"shortlink-service/internal/service"
	"shortlink-service/internal/shortcode"
	"shortlink-service/pkg/database"
	auth "shortlink-service/pkg/jwt"
	"shortlink-service/pkg/logger"
	"shortlink-service/pkg/redis"

	_ "shortlink-service/docs"

	"github.com/gin-gonic/gin"
	redisClient "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           短链接服务 API
// @version         1.0
// @description     注册登录、创建和管理短链接、跳转计数与二维码导出
// @BasePath        /
// @securityDefinitions.apikey ApiKeyAuth
// @in              header
// @name            Authorization
// @description     格式: Bearer <token>
func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "配置加载失败: %v\n", err)
		os.Exit(1)
	}

	logger.InitLogger(logger.Options{
		Level:      cfg.Log.Level,
		Filename:   cfg.Log.Filename,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
	})
	defer func() {
		if err := logger.Logger.Sync(); err != nil {
			fmt.Println("日志同步失败:", err)
		}
	}()
	sugaredLogger := logger.Sugar

	db, err := database.Open(database.Options{
		Driver:   cfg.Database.Driver,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Name:     cfg.Database.Name,
		Charset:  cfg.Database.Charset,
		Path:     cfg.Database.Path,
	})
	if err != nil {
		sugaredLogger.Fatalf("数据库初始化失败: %v", err)
	}
	sugaredLogger.Infow("✅ 数据库连接成功", "driver", cfg.Database.Driver)

	if err := repository.AutoMigrate(db); err != nil {
		sugaredLogger.Fatalf("数据库迁移失败: %v", err)
	}
	sugaredLogger.Info("✅ 数据库迁移成功")

	// Redis 可选，连接失败时退回进程内限流且不使用缓存
	var rdb *redisClient.Client
	if cfg.Cache.Host != "" {
		rdb, err = redis.NewRedisClient(&redis.Options{
			Host: cfg.Cache.Host, Port: cfg.Cache.Port, Password: cfg.Cache.Password, DB: cfg.Cache.DB,
		})
		if err != nil {
			sugaredLogger.Warnf("缓存连接失败: %v", err)
			rdb = nil
		} else {
			defer func() {
				if err := rdb.Close(); err != nil {
					sugaredLogger.Errorf("关闭 Redis 连接失败: %v", err)
				}
			}()
			sugaredLogger.Info("✅ 缓存连接成功")
		}
	}

	tokenManager := auth.NewManager(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.ExpirationHours)

	authService := service.NewAuthService(repository.NewUserRepository(db), tokenManager, sugaredLogger)
	linkService := service.NewLinkService(
		repository.NewLinkRepository(db),
		shortcode.NewGenerator(cfg.Link.CodeLength),
		cache.NewLinkCache(rdb, time.Duration(cfg.Cache.TTLHours)*time.Hour, sugaredLogger),
		service.LinkOptions{
			Origin:          cfg.Origin(),
			CustomPrefix:    cfg.Link.CustomPrefix,
			MaxCustomLength: cfg.Link.MaxCustomLength,
			MaxAttempts:     cfg.Link.MaxAttempts,
		},
		sugaredLogger,
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.GinZapRecovery(logger.Logger, true))
	router.Use(middleware.GinZapLogger(logger.Logger))
	router.Use(middleware.RateLimit(rdb, &cfg.RateLimit, logger.Logger))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	handler.RegisterRoutes(router,
		handler.NewShortLinkHandler(linkService, sugaredLogger),
		handler.NewAuthHandler(authService, sugaredLogger),
		middleware.AuthMiddleware(authService),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		sugaredLogger.Infof("🚀 服务启动成功, 短链接地址 %s", cfg.Origin())
		sugaredLogger.Infof("📚 Swagger 文档地址: http://localhost:%d/swagger/index.html", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugaredLogger.Fatalf("服务启动失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	sugaredLogger.Info("正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		sugaredLogger.Errorf("服务关闭失败: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	sugaredLogger.Info("服务已退出")
}
