package models

import "github.com/shopspring/decimal"

// IssueKind identifies a detectable financial problem.
type IssueKind string

const (
	IssueLowEmergencyFund IssueKind = "low_emergency_fund"
	IssueHighDebtToIncome IssueKind = "high_debt_to_income"
	IssueExcessiveExpense IssueKind = "excessive_expenses"
	IssueLowSavingsRate   IssueKind = "low_savings_rate"
	IssueHighInterestDebt IssueKind = "high_interest_debt"
)

// Severity grades how far a profile is from a healthy threshold.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
)

// Issue is one detected financial problem.
type Issue struct {
	Kind     IssueKind `json:"kind"`
	Severity Severity  `json:"severity"`
	Detail   string    `json:"detail"`
	// Deviation is the distance from the healthy threshold, used to rank
	// issues of equal severity.
	Deviation decimal.Decimal `json:"deviation"`
}

// BehaviorParams is the set of behavioral deltas distinguishing the
// improved scenario from the current one. The zero value is the identity:
// projecting with it reproduces the current path.
type BehaviorParams struct {
	ExpenseReductionFraction decimal.Decimal `json:"expense_reduction_fraction"`
	ExtraDebtPayment         decimal.Decimal `json:"extra_debt_payment"`
	SavingsRateIncrease      decimal.Decimal `json:"savings_rate_increase"`
}

// IsZero reports whether the params carry no deltas at all.
func (bp BehaviorParams) IsZero() bool {
	return bp.ExpenseReductionFraction.IsZero() &&
		bp.ExtraDebtPayment.IsZero() &&
		bp.SavingsRateIncrease.IsZero()
}

// Recommendation addresses one issue and carries the behavioral delta that
// would resolve it. It is the bridge artifact the simulator consumes to
// build the improved scenario.
type Recommendation struct {
	Kind   IssueKind      `json:"kind"`
	Action string         `json:"action"`
	Delta  BehaviorParams `json:"delta"`
}

// HealthAssessment is the analyzer's full output: an overall score, the
// detected issues most severe first, and one recommendation per issue in
// the same order.
type HealthAssessment struct {
	Score           int              `json:"score"` // 0..100
	Issues          []Issue          `json:"issues"`
	Recommendations []Recommendation `json:"recommendations"`
}

// AggregateDeltas folds recommendation deltas into a single BehaviorParams
// for the improved scenario. Deltas targeting the same parameter take the
// maximum effect rather than the sum, so two recommendations asking for
// the same lever are never double-counted.
func AggregateDeltas(recs []Recommendation) BehaviorParams {
	var out BehaviorParams
	for _, r := range recs {
		out.ExpenseReductionFraction = decimal.Max(out.ExpenseReductionFraction, r.Delta.ExpenseReductionFraction)
		out.ExtraDebtPayment = decimal.Max(out.ExtraDebtPayment, r.Delta.ExtraDebtPayment)
		out.SavingsRateIncrease = decimal.Max(out.SavingsRateIncrease, r.Delta.SavingsRateIncrease)
	}
	out.ExpenseReductionFraction = clampFraction(out.ExpenseReductionFraction)
	out.SavingsRateIncrease = clampFraction(out.SavingsRateIncrease)
	out.ExtraDebtPayment = clampNonNegative(out.ExtraDebtPayment)
	return out
}
