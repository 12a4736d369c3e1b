// Package analyzer scores a financial profile against a fixed set of
// health rules and synthesizes the behavioral recommendations the
// simulator uses to build the improved scenario.
package analyzer

import (
	"fmt"
	"sort"

	"github.com/finpath/finpath/internal/models"
	"github.com/shopspring/decimal"
)

// Healthy thresholds. A rule triggers when the profile falls on the wrong
// side of its threshold; the high-severity bound marks how far past it.
var (
	emergencyFundMinMonths = decimal.NewFromInt(3)
	emergencyFundCritical  = decimal.NewFromInt(1)
	debtToIncomeMax        = decimal.NewFromFloat(0.36)
	debtToIncomeCritical   = decimal.NewFromFloat(0.50)
	expenseRatioMax        = decimal.NewFromFloat(0.80)
	expenseRatioCritical   = decimal.NewFromFloat(0.95)
	savingsRateMin         = decimal.NewFromFloat(0.10)
	savingsRateCritical    = decimal.NewFromFloat(0.05)
	highInterestAPR        = decimal.NewFromFloat(0.15)
	highInterestBalanceMul = decimal.NewFromInt(3)

	// safetyMargin widens every recommended delta by 5 percentage points
	// past the bare minimum that clears the threshold.
	safetyMargin = decimal.NewFromFloat(0.05)
)

// Score penalties per triggered issue.
const (
	maxScore      = 100
	penaltyHigh   = 20
	penaltyMedium = 10
)

// kindPriority breaks ties among issues of equal severity and deviation so
// the output order is reproducible for identical inputs.
var kindPriority = map[models.IssueKind]int{
	models.IssueHighDebtToIncome: 0,
	models.IssueLowEmergencyFund: 1,
	models.IssueHighInterestDebt: 2,
	models.IssueExcessiveExpense: 3,
	models.IssueLowSavingsRate:   4,
}

// stats carries the derived ratios every rule reads, computed once per
// assessment from the normalized profile.
type stats struct {
	profile         models.FinancialProfile
	income          decimal.Decimal
	totalExpenses   decimal.Decimal
	minimumPayments decimal.Decimal
	savingsRate     decimal.Decimal
	emergencyMonths decimal.Decimal
	debtToIncome    decimal.Decimal
	expenseRatio    decimal.Decimal
}

func newStats(p models.FinancialProfile) *stats {
	s := &stats{
		profile:         p,
		income:          p.MonthlyIncome,
		totalExpenses:   p.TotalExpenses(),
		minimumPayments: p.MinimumPayments(),
		savingsRate:     p.EffectiveSavingsRate(),
		emergencyMonths: p.EmergencyFundMonths(),
	}
	s.debtToIncome = s.minimumPayments.Div(s.income)
	s.expenseRatio = s.totalExpenses.Div(s.income)
	return s
}

// A rule inspects the profile stats and returns a triggered issue with its
// matching recommendation, or nil when the profile is healthy on that
// dimension. Rules are independent and order-insensitive.
type rule func(*stats) (*models.Issue, *models.Recommendation)

// rules is the fixed detector registry. Adding an issue kind means adding
// an entry here; scoring and ranking need no changes.
var rules = []rule{
	checkEmergencyFund,
	checkDebtToIncome,
	checkExpenseRatio,
	checkSavingsRate,
	checkHighInterestDebt,
}

func checkEmergencyFund(s *stats) (*models.Issue, *models.Recommendation) {
	if s.emergencyMonths.GreaterThanOrEqual(emergencyFundMinMonths) {
		return nil, nil
	}
	severity := models.SeverityMedium
	if s.emergencyMonths.LessThan(emergencyFundCritical) {
		severity = models.SeverityHigh
	}
	issue := &models.Issue{
		Kind:     models.IssueLowEmergencyFund,
		Severity: severity,
		Detail: fmt.Sprintf("Savings cover only %s months of expenses instead of the recommended 3-6 months",
			s.emergencyMonths.Round(1)),
		Deviation: emergencyFundMinMonths.Sub(s.emergencyMonths),
	}

	// Size the savings-rate bump so the 3-month shortfall closes within
	// two years, plus the safety margin.
	shortfall := emergencyFundMinMonths.Mul(s.totalExpenses).Sub(s.profile.SavingsBalance)
	increase := shortfall.Div(s.income.Mul(decimal.NewFromInt(24))).Add(safetyMargin)
	rec := &models.Recommendation{
		Kind:   models.IssueLowEmergencyFund,
		Action: "Increase the monthly savings allocation until the emergency fund reaches 3-6 months of expenses",
		Delta:  models.BehaviorParams{SavingsRateIncrease: increase},
	}
	return issue, rec
}

func checkDebtToIncome(s *stats) (*models.Issue, *models.Recommendation) {
	if s.debtToIncome.LessThanOrEqual(debtToIncomeMax) {
		return nil, nil
	}
	severity := models.SeverityMedium
	if s.debtToIncome.GreaterThan(debtToIncomeCritical) {
		severity = models.SeverityHigh
	}
	issue := &models.Issue{
		Kind:     models.IssueHighDebtToIncome,
		Severity: severity,
		Detail: fmt.Sprintf("Debt payments consume %s%% of income (recommended: under 36%%)",
			s.debtToIncome.Mul(decimal.NewFromInt(100)).Round(1)),
		Deviation: s.debtToIncome.Sub(debtToIncomeMax),
	}

	// Extra payment sized to the excess payment share of income, plus the
	// margin, so the ratio falls back under the threshold as balances
	// amortize.
	extra := s.debtToIncome.Sub(debtToIncomeMax).Add(safetyMargin).Mul(s.income)
	rec := &models.Recommendation{
		Kind:   models.IssueHighDebtToIncome,
		Action: "Pay down outstanding balances faster and avoid taking on new debt",
		Delta:  models.BehaviorParams{ExtraDebtPayment: extra},
	}
	return issue, rec
}

func checkExpenseRatio(s *stats) (*models.Issue, *models.Recommendation) {
	if s.expenseRatio.LessThanOrEqual(expenseRatioMax) {
		return nil, nil
	}
	severity := models.SeverityMedium
	if s.expenseRatio.GreaterThan(expenseRatioCritical) {
		severity = models.SeverityHigh
	}
	issue := &models.Issue{
		Kind:     models.IssueExcessiveExpense,
		Severity: severity,
		Detail: fmt.Sprintf("Expenses consume %s%% of income, leaving little room for savings",
			s.expenseRatio.Mul(decimal.NewFromInt(100)).Round(1)),
		Deviation: s.expenseRatio.Sub(expenseRatioMax),
	}

	// Minimum reduction bringing expenses/income back to the threshold,
	// plus the margin: cut = 1 - max/ratio.
	reduction := decimal.NewFromInt(1).Sub(expenseRatioMax.Div(s.expenseRatio)).Add(safetyMargin)
	rec := &models.Recommendation{
		Kind:   models.IssueExcessiveExpense,
		Action: "Review the budget for reductions, starting with discretionary categories",
		Delta:  models.BehaviorParams{ExpenseReductionFraction: reduction},
	}
	return issue, rec
}

func checkSavingsRate(s *stats) (*models.Issue, *models.Recommendation) {
	if s.savingsRate.GreaterThanOrEqual(savingsRateMin) {
		return nil, nil
	}
	severity := models.SeverityMedium
	if s.savingsRate.LessThan(savingsRateCritical) {
		severity = models.SeverityHigh
	}
	issue := &models.Issue{
		Kind:     models.IssueLowSavingsRate,
		Severity: severity,
		Detail: fmt.Sprintf("Current savings rate is %s%% (recommended: at least 10%%)",
			s.savingsRate.Mul(decimal.NewFromInt(100)).Round(1)),
		Deviation: savingsRateMin.Sub(s.savingsRate),
	}
	rec := &models.Recommendation{
		Kind:   models.IssueLowSavingsRate,
		Action: "Raise the savings rate by trimming discretionary spending",
		Delta:  models.BehaviorParams{SavingsRateIncrease: savingsRateMin.Sub(s.savingsRate).Add(safetyMargin)},
	}
	return issue, rec
}

func checkHighInterestDebt(s *stats) (*models.Issue, *models.Recommendation) {
	worst := -1
	anyLarge := false
	maxRate := decimal.Zero
	threshold := s.income.Mul(highInterestBalanceMul)
	for i, d := range s.profile.Debts {
		if !d.Balance.IsPositive() || d.InterestRate.LessThanOrEqual(highInterestAPR) {
			continue
		}
		if worst < 0 || d.InterestRate.GreaterThan(maxRate) {
			worst = i
			maxRate = d.InterestRate
		}
		if d.Balance.GreaterThan(threshold) {
			anyLarge = true
		}
	}
	if worst < 0 {
		return nil, nil
	}
	severity := models.SeverityMedium
	if anyLarge {
		severity = models.SeverityHigh
	}
	debt := s.profile.Debts[worst]
	issue := &models.Issue{
		Kind:     models.IssueHighInterestDebt,
		Severity: severity,
		Detail: fmt.Sprintf("A %s balance of %s carries a high APR of %s%%",
			debt.Type, debt.Balance.Round(2), debt.InterestRate.Mul(decimal.NewFromInt(100)).Round(1)),
		Deviation: maxRate.Sub(highInterestAPR),
	}

	// Avalanche ordering: the extra payment targets the highest-APR
	// balance first. Ten percent of income is the default attack budget.
	rec := &models.Recommendation{
		Kind: models.IssueHighInterestDebt,
		Action: fmt.Sprintf("Direct extra payments at the %s balance first (highest APR) before other goals",
			debt.Type),
		Delta: models.BehaviorParams{ExtraDebtPayment: s.income.Mul(decimal.NewFromFloat(0.10))},
	}
	return issue, rec
}

// Assess evaluates every health rule against the profile and returns the
// overall score, the detected issues most severe first, and one
// recommendation per issue in the same order. It is pure and
// deterministic; the only failure is a profile with non-positive income.
func Assess(profile models.FinancialProfile) (models.HealthAssessment, error) {
	if err := profile.Validate(); err != nil {
		return models.HealthAssessment{}, fmt.Errorf("assess profile: %w", err)
	}

	s := newStats(profile.Normalized())

	type finding struct {
		issue models.Issue
		rec   models.Recommendation
	}
	var findings []finding
	for _, r := range rules {
		issue, rec := r(s)
		if issue == nil {
			continue
		}
		findings = append(findings, finding{issue: *issue, rec: *rec})
	}

	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i].issue, findings[j].issue
		if a.Severity != b.Severity {
			return a.Severity == models.SeverityHigh
		}
		if !a.Deviation.Equal(b.Deviation) {
			return a.Deviation.GreaterThan(b.Deviation)
		}
		return kindPriority[a.Kind] < kindPriority[b.Kind]
	})

	score := maxScore
	assessment := models.HealthAssessment{
		Issues:          make([]models.Issue, 0, len(findings)),
		Recommendations: make([]models.Recommendation, 0, len(findings)),
	}
	for _, f := range findings {
		if f.issue.Severity == models.SeverityHigh {
			score -= penaltyHigh
		} else {
			score -= penaltyMedium
		}
		assessment.Issues = append(assessment.Issues, f.issue)
		assessment.Recommendations = append(assessment.Recommendations, f.rec)
	}
	if score < 0 {
		score = 0
	}
	assessment.Score = score
	return assessment, nil
}
