/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>

*/
package cmd

import (
	"fmt"
	"time"

	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/database"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo source records from a YAML fixture",
	Long: `Load cases, investigations, remediation steps, conflict alerts, campaign
assignments and workflow instances from a YAML fixture. Times in the fixture
are relative durations such as "48h" or "-24h" so the demo queue always has
overdue and upcoming work.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		if file == "" {
			return fmt.Errorf("--file is required")
		}

		cfg, logger, err := loadConfigAndLogger()
		if err != nil {
			return err
		}

		fixture, err := database.LoadFixture(file)
		if err != nil {
			return err
		}

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect database: %w", err)
		}
		defer func() {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		}()

		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		n, err := database.Seed(cmd.Context(), db, fixture, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("failed to seed: %w", err)
		}

		logger.WithFields(logrus.Fields{
			"organization_id": fixture.OrganizationID,
			"records":         n,
		}).Info("fixture loaded")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().String("file", "", "YAML fixture file")
}
