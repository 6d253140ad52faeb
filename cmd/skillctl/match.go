package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"skill-bridge/internal/domain/skill"
	"skill-bridge/internal/portfolio"
	"skill-bridge/internal/taxonomy"

	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score the jobs of a portfolio file against its evidence and print JSON",
	RunE:  runMatch,
}

var portfolioPath string

func init() {
	matchCmd.Flags().StringVar(&portfolioPath, "portfolio", "", "Path to a portfolio YAML file (required)")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, _ []string) error {
	if portfolioPath == "" {
		return errors.New("--portfolio is required")
	}

	skills, err := taxonomy.Load(resolveTaxonomyPath())
	if err != nil {
		return err
	}
	registry, err := skill.NewRegistry(skills)
	if err != nil {
		return fmt.Errorf("invalid taxonomy: %w", err)
	}

	f, err := portfolio.Load(portfolioPath)
	if err != nil {
		return err
	}
	rep, err := portfolio.Run(registry, f, time.Now().UTC())
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}
