package main

import (
	"context"
	"fmt"

	"opsboard/internal/db"
	"opsboard/internal/seed"
	"opsboard/internal/store"

	"github.com/k0kubun/pp/v3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with the lookup tables",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Print the seeded lookup definitions",
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

		logrus.Info("Connected to database")

		lookupRepo := store.NewLookupRepository(pool)

		logrus.Info("Seeding lookup tables...")
		if err := seed.SeedLookups(ctx, lookupRepo); err != nil {
			return fmt.Errorf("failed to seed lookup tables: %w", err)
		}

		if c.Bool("verbose") {
			pp.Println(seed.Areas)
			pp.Println(seed.Classifications)
			pp.Println(seed.Rooms)
		}

		logrus.Info("Lookup tables seeded successfully")

		return nil
	},
}
