package main

import (
	"context"
	"fmt"

	"skill-bridge/internal/database/migration"
	"skill-bridge/migrations"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending SQL migrations",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	logger := newLogger()

	db, err := connectDB(ctx, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := migration.Runner{FS: migrations.FS, Logger: logger}.Run(ctx, db.SQLDB())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", n)
	return nil
}
