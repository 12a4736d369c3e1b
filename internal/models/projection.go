package models

import "github.com/shopspring/decimal"

// ProjectionPoint is the simulated state at the end of one month.
type ProjectionPoint struct {
	MonthIndex     int               `json:"month_index"` // 1-based
	NetWorth       decimal.Decimal   `json:"net_worth"`
	TotalDebt      decimal.Decimal   `json:"total_debt"`
	SavingsBalance decimal.Decimal   `json:"savings_balance"`
	DebtBalances   []decimal.Decimal `json:"debt_balances"` // parallel to the profile's debts
}

// Projection is a fixed-length monthly time series, immutable once
// produced.
type Projection []ProjectionPoint

// Final returns the last point of the projection.
func (p Projection) Final() ProjectionPoint {
	if len(p) == 0 {
		return ProjectionPoint{}
	}
	return p[len(p)-1]
}

// Milestones are the notable crossing points of a single projection. A nil
// month means the milestone is never reached within the horizon.
type Milestones struct {
	DebtFreeMonth         *int `json:"debt_free_month"`
	EmergencyFundMonth    *int `json:"emergency_fund_month"`     // savings cover >= 6 months of expenses
	NetWorthPositiveMonth *int `json:"net_worth_positive_month"` // first month with net worth >= 0
}

// ScenarioSummary condenses one path's end state for comparison output.
type ScenarioSummary struct {
	FinalSavings  decimal.Decimal `json:"final_savings"`
	FinalDebt     decimal.Decimal `json:"final_debt"`
	FinalNetWorth decimal.Decimal `json:"final_net_worth"`
	Milestones    Milestones      `json:"milestones"`
}

// SimulationResult holds the two parallel scenario projections plus the
// milestones derived from each.
type SimulationResult struct {
	HorizonMonths int              `json:"horizon_months"`
	Params        BehaviorParams   `json:"params"` // aggregate deltas behind the improved path
	CurrentPath   Projection       `json:"current_path"`
	ImprovedPath  Projection       `json:"improved_path"`
	Current       ScenarioSummary  `json:"current"`
	Improved      ScenarioSummary  `json:"improved"`
	// NetWorthCrossoverMonth is the first month the improved path's net
	// worth strictly exceeds the current path's; nil when the paths never
	// diverge.
	NetWorthCrossoverMonth *int            `json:"net_worth_crossover_month"`
	NetWorthDifference     decimal.Decimal `json:"net_worth_difference"`
}
