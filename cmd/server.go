/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/api"
	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/config"
	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/container"
	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/metrics"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the API server",
	Long: `Start the work queue API server.
The server listens on the configured host and port and serves
/api/v1/my-work, /health and /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfigAndLogger()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("host") {
			cfg.Server.Host, _ = cmd.Flags().GetString("host")
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port, _ = cmd.Flags().GetInt("port")
		}
		if config.IsProduction(cfg) {
			gin.SetMode(gin.ReleaseMode)
		}

		if err := api.InitTracing(cfg.Tracing); err != nil {
			return fmt.Errorf("failed to initialize tracing: %w", err)
		}

		ctr, err := container.NewContainer(cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize container: %w", err)
		}
		defer ctr.Close()

		if ctr.KeycloakValidator() == nil {
			if config.IsProduction(cfg) {
				return errors.New("keycloak.issuer is required in production")
			}
			logger.Warn("keycloak issuer not configured, identity is read from X-Organization-ID and X-User-ID headers")
		}

		// 配置热更新：日志级别和工作队列限制
		if configPath != "" {
			watcher := config.NewConfigWatcher(cfg, configPath, logger)
			watcher.OnConfigChange(ctr.ApplyConfig)
			if err := watcher.Start(); err != nil {
				logger.WithError(err).Warn("config watcher disabled")
			}
			defer watcher.Stop()
		}

		collector := metrics.NewCollector(ctr.DB(), 15*time.Second, logger)
		collector.Start(cmd.Context())
		defer collector.Stop()

		slaAlerts := api.NewSLAAlertManager()
		for _, op := range []string{api.SLAOperationMyTasks, api.SLAOperationAvailableTasks, api.SLAOperationTaskCounts} {
			slaAlerts.SetAlertThreshold(op, 10)
		}
		slaAlerts.OnAlert(func(operation string, violations []api.SLAViolation) {
			logger.WithFields(logrus.Fields{
				"operation":  operation,
				"violations": len(violations),
			}).Error("SLA violation threshold reached")
		})

		router := api.SetupRoutes(api.RouterDeps{
			DB:               ctr.DB(),
			Validator:        ctr.KeycloakValidator(),
			MyWorkController: api.NewMyWorkController(ctr.MyWorkService(), nil),
			Config:           cfg,
			Logger:           logger,
			SLAAlerts:        slaAlerts,
		})

		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		srv := &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		serveErr := make(chan error, 1)
		go func() {
			logger.WithField("addr", addr).Info("server starting")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serveErr <- err
			}
			close(serveErr)
		}()

		// 等待中断信号
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case err := <-serveErr:
			if err != nil {
				return fmt.Errorf("failed to start server: %w", err)
			}
		case <-quit:
		}

		logger.Info("shutting down server")

		// 优雅关闭
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		if err := api.ShutdownTracing(ctx); err != nil {
			logger.WithError(err).Warn("failed to flush traces")
		}

		logger.Info("server exited")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	// 服务器配置标志
	serverCmd.Flags().String("host", "0.0.0.0", "Server host")
	serverCmd.Flags().Int("port", 8080, "Server port")
}
