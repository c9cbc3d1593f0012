package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"opsboard/internal/backup"
	"opsboard/internal/db"
	"opsboard/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var backupCommand = &cli.Command{
	Name:  "backup",
	Usage: "Export all tables to a JSON backup document",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (defaults to backup_<date>_<time>.json)",
		},
	},
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		logger := logrus.New()

		exporter := backup.NewExporter(logger, store.NewExportRepository(pool))
		document := exporter.Export(ctx)

		output := c.String("output")
		if output == "" {
			output = fmt.Sprintf("backup_%s_%s.json",
				document.Timestamp.Format("20060102"),
				document.Timestamp.Format("150405"))
		}

		data, err := json.MarshalIndent(document, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal backup document: %w", err)
		}

		if err := os.WriteFile(output, data, 0o644); err != nil {
			return fmt.Errorf("failed to write backup file: %w", err)
		}

		logger.WithField("file", output).Info("backup written")

		return nil
	},
}
