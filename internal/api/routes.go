package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	_ "github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/docs" // 注册 swag 文档
	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/auth"
	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/config"
	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/metrics"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// RouterDeps 路由依赖
type RouterDeps struct {
	DB               *gorm.DB
	Validator        *auth.KeycloakTokenValidator // 为 nil 时从请求头读取身份，仅用于本地开发和测试
	MyWorkController *MyWorkController
	Config           *config.Config
	Logger           *logrus.Logger
	SLAAlerts        *SLAAlertManager
}

// SetupRoutes 配置路由
func SetupRoutes(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := deps.Logger
	if logger == nil {
		logger = GetLogger()
	}

	router := gin.New()
	router.Use(gin.Recovery())

	// 中间件
	router.Use(RequestIDMiddleware())
	router.Use(RequestLogMiddleware(logger))
	router.Use(SecurityHeadersMiddleware())
	router.Use(CORSMiddleware(cfg.CORS))
	if cfg.Tracing.Enabled {
		router.Use(TracingMiddleware(cfg.Tracing.ServiceName))
	}
	router.Use(ErrorHandlerMiddleware())

	router.NoRoute(func(c *gin.Context) {
		Error(c, http.StatusNotFound, "not found", c.Request.URL.Path)
	})

	// 健康检查
	healthController := NewHealthController(deps.DB)
	router.GET("/health", healthController.Check)

	// Prometheus 指标端点
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Swagger UI，文档 JSON 位于 /swagger/doc.json
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.URL("/swagger/doc.json"),
	))

	// API v1 路由组
	v1 := router.Group("/api/v1")
	v1.Use(SLAMonitorMiddlewareWithAlert(DefaultSLAConfig(), deps.SLAAlerts))
	if deps.Validator != nil {
		v1.Use(auth.KeycloakAuthMiddleware(deps.Validator))
	} else {
		v1.Use(auth.HeaderIdentityMiddleware())
	}
	// 认证之后限流，按组织计数
	if cfg.RateLimit.RPS > 0 {
		v1.Use(RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	}

	if c := deps.MyWorkController; c != nil {
		myWork := v1.Group("/my-work")
		{
			myWork.GET("/tasks", c.Tasks)
			myWork.GET("/sections", c.Sections)
			myWork.GET("/available", c.Available)
			myWork.GET("/counts", c.Counts)
		}
	}

	return router
}
