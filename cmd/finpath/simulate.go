package main

import (
	"fmt"
	"io"

	"github.com/finpath/finpath/internal/analyzer"
	"github.com/finpath/finpath/internal/models"
	"github.com/finpath/finpath/internal/simulator"
	"github.com/spf13/cobra"
)

var flagHorizon int

var simulateCmd = &cobra.Command{
	Use:   "simulate <profile.json>",
	Short: "Project the current vs improved path for a profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagHorizon, "horizon", simulator.DefaultHorizonMonths, "Projection horizon in months")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	profile, err := loadProfile(args[0])
	if err != nil {
		return err
	}

	assessment, err := analyzer.Assess(profile)
	if err != nil {
		return err
	}
	result, err := simulator.Simulate(profile, assessment, flagHorizon)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Horizon: %d months\n\n", result.HorizonMonths)
	printSummary(out, "Current path", result.Current)
	printSummary(out, "Improved path", result.Improved)
	fmt.Fprintf(out, "Net worth difference: %s\n", result.NetWorthDifference.StringFixed(2))
	if m := result.NetWorthCrossoverMonth; m != nil {
		fmt.Fprintf(out, "Improved path pulls ahead in month %d\n", *m)
	}
	return nil
}

func printSummary(out io.Writer, label string, s models.ScenarioSummary) {
	fmt.Fprintf(out, "%s:\n", label)
	fmt.Fprintf(out, "  Final savings:   %s\n", s.FinalSavings.StringFixed(2))
	fmt.Fprintf(out, "  Final debt:      %s\n", s.FinalDebt.StringFixed(2))
	fmt.Fprintf(out, "  Final net worth: %s\n", s.FinalNetWorth.StringFixed(2))
	if m := s.Milestones.DebtFreeMonth; m != nil {
		fmt.Fprintf(out, "  Debt-free in month %d\n", *m)
	}
	if m := s.Milestones.EmergencyFundMonth; m != nil {
		fmt.Fprintf(out, "  Six-month emergency fund in month %d\n", *m)
	}
	fmt.Fprintln(out)
}
