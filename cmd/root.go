/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>

*/
package cmd

import (
	"fmt"
	"os"

	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/api"
	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var configPath string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mywork",
	Short: "Unified work queue service",
	Long: `MyWork aggregates every actionable item assigned to a user across cases,
investigations, remediation plans, disclosure conflict alerts, campaigns and
approval workflows into one prioritized queue.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Config file path (default: search in current directory, ./config, or $HOME/.mywork)")
}

// GetRootCmd 返回根命令（用于测试）
func GetRootCmd() *cobra.Command {
	return rootCmd
}

// loadConfigAndLogger 加载配置并创建日志记录器
func loadConfigAndLogger() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := api.NewLoggerFromConfig(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	api.SetLogger(logger)
	return cfg, logger, nil
}
