package main

import (
	"context"
	"fmt"

	"skill-bridge/internal/database/seeder"
	"skill-bridge/internal/domain/skill"
	"skill-bridge/internal/taxonomy"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the skill taxonomy, and optionally demo data, into PostgreSQL",
	RunE:  runSeed,
}

var seedDemo bool

func init() {
	seedCmd.Flags().BoolVar(&seedDemo, "demo", false, "Also insert demo evidence items and job postings")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	skills, err := taxonomy.Load(resolveTaxonomyPath())
	if err != nil {
		return err
	}

	seeders := []seeder.Seeder{seeder.TaxonomySeeder{Skills: skills}}
	if seedDemo {
		registry, err := skill.NewRegistry(skills)
		if err != nil {
			return fmt.Errorf("invalid taxonomy: %w", err)
		}
		seeders = append(seeders, seeder.DemoSeeder{Registry: registry})
	}

	ctx := context.Background()
	logger := newLogger()

	db, err := connectDB(ctx, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := (seeder.Runner{Seeders: seeders, Logger: logger}).Run(ctx, db); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d skill(s)\n", len(skills))
	return nil
}
