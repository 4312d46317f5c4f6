package container

import (
	"fmt"
	"time"

	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/auth"
	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/config"
	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/database"
	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/repository"
	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/service"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Container 依赖注入容器
// 管理数据库、数据源读取器、工作队列服务和认证组件
type Container struct {
	db                *gorm.DB
	logger            *logrus.Logger
	sources           service.MyWorkSources
	myWork            *service.MyWorkAggregator
	keycloakValidator *auth.KeycloakTokenValidator
}

// NewContainer 创建依赖注入容器
// 根据配置连接数据库并执行迁移
func NewContainer(cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	// 默认重试 3 次，初始间隔 1 秒，指数退避
	db, err := database.ConnectWithRetry(cfg.Database, 3, time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return NewContainerWithDB(db, cfg, logger), nil
}

// NewContainerWithDB 使用已有连接创建容器
func NewContainerWithDB(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) *Container {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	sources := service.MyWorkSources{
		Cases:          repository.NewCaseRepository(db),
		Investigations: repository.NewInvestigationRepository(db),
		Remediation:    repository.NewRemediationStepRepository(db),
		ConflictAlerts: repository.NewConflictAlertRepository(db),
		Campaigns:      repository.NewCampaignAssignmentRepository(db),
		Workflows:      repository.NewWorkflowInstanceRepository(db),
	}

	myWork := service.NewMyWorkService(sources,
		service.WithLogger(logger.WithField("component", "my_work")),
		service.WithLimits(LimitsFromConfig(cfg.MyWork)),
	)

	// 未配置 issuer 时不启用认证
	var validator *auth.KeycloakTokenValidator
	if cfg.Keycloak.Issuer != "" {
		validator = auth.NewKeycloakTokenValidatorWithJWKS(cfg.Keycloak.Issuer, cfg.Keycloak.JWKSURL)
	}

	return &Container{
		db:                db,
		logger:            logger,
		sources:           sources,
		myWork:            myWork,
		keycloakValidator: validator,
	}
}

// LimitsFromConfig 把配置转换为服务限制
func LimitsFromConfig(cfg config.MyWorkConfig) service.MyWorkLimits {
	return service.MyWorkLimits{
		SourceLimit:     cfg.SourceLimit,
		DefaultPageSize: cfg.DefaultPageSize,
		MaxPageSize:     cfg.MaxPageSize,
		FetchTimeout:    cfg.FetchTimeout(),
	}
}

// ApplyConfig 应用热更新的配置：日志级别和工作队列限制
func (c *Container) ApplyConfig(cfg *config.Config) {
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		c.logger.SetLevel(level)
	}
	c.myWork.SetLimits(LimitsFromConfig(cfg.MyWork))
	c.logger.WithFields(logrus.Fields{
		"log_level":    cfg.Log.Level,
		"source_limit": cfg.MyWork.SourceLimit,
		"max_page":     cfg.MyWork.MaxPageSize,
	}).Info("applied config change")
}

// DB 获取数据库连接
func (c *Container) DB() *gorm.DB {
	return c.db
}

// Logger 获取日志记录器
func (c *Container) Logger() *logrus.Logger {
	return c.logger
}

// Sources 获取数据源读取器
func (c *Container) Sources() service.MyWorkSources {
	return c.sources
}

// MyWorkService 获取工作队列服务
func (c *Container) MyWorkService() *service.MyWorkAggregator {
	return c.myWork
}

// KeycloakValidator 获取 Keycloak Token 验证器，未配置时为 nil
func (c *Container) KeycloakValidator() *auth.KeycloakTokenValidator {
	return c.keycloakValidator
}

// Close 关闭容器,清理资源
func (c *Container) Close() error {
	if c.db == nil {
		return nil
	}
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
