package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/finpath/finpath/internal/analyzer"
	"github.com/finpath/finpath/internal/models"
	"github.com/spf13/cobra"
)

var assessCmd = &cobra.Command{
	Use:   "assess <profile.json>",
	Short: "Score a financial profile and print its issues and action plan",
	Args:  cobra.ExactArgs(1),
	RunE:  runAssess,
}

// loadProfile reads one profile from a JSON file. A file holding an array
// contributes its first element, so generate output can be piped straight
// into assess and simulate.
func loadProfile(path string) (models.FinancialProfile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return models.FinancialProfile{}, fmt.Errorf("read profile file: %w", err)
	}

	var profile models.FinancialProfile
	if err := json.Unmarshal(raw, &profile); err == nil {
		return profile, nil
	}

	var profiles []models.FinancialProfile
	if err := json.Unmarshal(raw, &profiles); err != nil || len(profiles) == 0 {
		return models.FinancialProfile{}, fmt.Errorf("no usable profile in %s", path)
	}
	return profiles[0], nil
}

func runAssess(cmd *cobra.Command, args []string) error {
	profile, err := loadProfile(args[0])
	if err != nil {
		return err
	}

	assessment, err := analyzer.Assess(profile)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Financial health score: %d/100\n", assessment.Score)
	if len(assessment.Issues) == 0 {
		fmt.Fprintln(out, "No issues detected.")
		return nil
	}

	fmt.Fprintln(out, "\nIdentified issues:")
	for _, issue := range assessment.Issues {
		fmt.Fprintf(out, "- %s (%s): %s\n", issue.Kind, issue.Severity, issue.Detail)
	}

	fmt.Fprintln(out, "\nRecommended action plan:")
	for i, rec := range assessment.Recommendations {
		fmt.Fprintf(out, "%d. %s\n", i+1, rec.Action)
	}
	return nil
}
