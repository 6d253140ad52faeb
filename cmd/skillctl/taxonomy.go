package main

import (
	"context"
	"fmt"
	"os"

	"skill-bridge/internal/repository"
	"skill-bridge/internal/taxonomy"

	"github.com/spf13/cobra"
)

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Inspect the skill taxonomy",
}

var taxonomyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the taxonomy as YAML",
	RunE:  runTaxonomyExport,
}

var (
	exportFromDB bool
	exportOut    string
)

func init() {
	taxonomyExportCmd.Flags().BoolVar(&exportFromDB, "from-db", false, "Export the taxonomy stored in PostgreSQL")
	taxonomyExportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Write to a file instead of stdout")
	taxonomyCmd.AddCommand(taxonomyExportCmd)
	rootCmd.AddCommand(taxonomyCmd)
}

func runTaxonomyExport(cmd *cobra.Command, _ []string) error {
	var (
		tax taxonomy.Taxonomy
		err error
	)
	if exportFromDB {
		ctx := context.Background()
		db, cerr := connectDB(ctx, newLogger())
		if cerr != nil {
			return cerr
		}
		defer db.Close()
		// Relations are not stored, so a DB export carries skills only.
		tax.Skills, err = repository.NewPostgresSkillRepository(db).GetAllSkills(ctx)
	} else {
		tax, err = taxonomy.LoadTaxonomy(resolveTaxonomyPath())
	}
	if err != nil {
		return err
	}

	b, err := taxonomy.MarshalTaxonomy(tax)
	if err != nil {
		return err
	}
	if exportOut == "" {
		_, err = cmd.OutOrStdout().Write(b)
		return err
	}
	if err := os.WriteFile(exportOut, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", exportOut, err)
	}
	return nil
}
