// Command skillctl manages the SkillBridge database and runs matching offline.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "skillctl",
	Short:        "SkillBridge administration and offline matching",
	SilenceUsage: true,
}

var taxonomyPath string

func init() {
	rootCmd.PersistentFlags().StringVar(&taxonomyPath, "taxonomy", "", "Path to a taxonomy YAML file (defaults to SKILL_TAXONOMY_PATH, then the built-in taxonomy)")
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func resolveTaxonomyPath() string {
	if taxonomyPath != "" {
		return taxonomyPath
	}
	return os.Getenv("SKILL_TAXONOMY_PATH")
}
