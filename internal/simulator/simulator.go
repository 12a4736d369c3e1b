// Package simulator projects a financial profile forward month by month
// under a set of behavioral parameters, producing the current-path and
// improved-path time series and their milestones.
package simulator

import (
	"fmt"
	"sync"

	"github.com/finpath/finpath/internal/models"
	"github.com/shopspring/decimal"
)

// DefaultHorizonMonths is the projection length used when the caller
// passes a non-positive horizon.
const DefaultHorizonMonths = 60

var (
	one           = decimal.NewFromInt(1)
	monthsPerYear = decimal.NewFromInt(12)
	emergencyGoal = decimal.NewFromInt(6)
)

// monthState is the scenario-local state carried across months. Each
// projection owns its own copy, so the two scenario runs share nothing.
type monthState struct {
	savings      decimal.Decimal
	debtBalances []decimal.Decimal
}

// Project runs the monthly state transition for horizonMonths months and
// returns one point per month. The zero BehaviorParams value reproduces
// the current path; aggregated recommendation deltas produce the improved
// one. Repeated calls with identical arguments yield identical
// projections.
func Project(profile models.FinancialProfile, params models.BehaviorParams, horizonMonths int) (models.Projection, error) {
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("project profile: %w", err)
	}
	if horizonMonths <= 0 {
		horizonMonths = DefaultHorizonMonths
	}

	p := profile.Normalized()
	income := p.MonthlyIncome
	expenses := effectiveExpenses(p, params)

	st := monthState{
		savings:      p.SavingsBalance,
		debtBalances: make([]decimal.Decimal, len(p.Debts)),
	}
	for i, d := range p.Debts {
		st.debtBalances[i] = d.Balance
	}

	projection := make(models.Projection, 0, horizonMonths)
	for month := 1; month <= horizonMonths; month++ {
		st = advanceMonth(st, p, params, income, expenses)
		projection = append(projection, recordPoint(month, st))
	}
	return projection, nil
}

// effectiveExpenses applies the expense-reduction delta and realizes the
// savings-rate delta as trimmed discretionary spending, floored at zero.
func effectiveExpenses(p models.FinancialProfile, params models.BehaviorParams) decimal.Decimal {
	reduced := p.TotalExpenses().Mul(one.Sub(params.ExpenseReductionFraction))
	trimmed := reduced.Sub(params.SavingsRateIncrease.Mul(p.MonthlyIncome))
	if trimmed.IsNegative() {
		return decimal.Zero
	}
	return trimmed
}

// advanceMonth is the pure per-month transition: it consumes the previous
// state and returns the next one without mutating shared data.
func advanceMonth(prev monthState, p models.FinancialProfile, params models.BehaviorParams, income, expenses decimal.Decimal) monthState {
	st := monthState{
		savings:      prev.savings,
		debtBalances: append([]decimal.Decimal(nil), prev.debtBalances...),
	}

	// Income in, reduced expenses out. A cash-flow deficit is drawn from
	// savings, floored at zero; it is never modeled as new debt.
	cash := income.Sub(expenses)
	if cash.IsNegative() {
		st.savings = st.savings.Add(cash)
		if st.savings.IsNegative() {
			st.savings = decimal.Zero
		}
		cash = decimal.Zero
	}

	// Interest accrues before this month's payment is subtracted.
	for i, bal := range st.debtBalances {
		if !bal.IsPositive() {
			continue
		}
		monthlyRate := p.Debts[i].InterestRate.Div(monthsPerYear)
		st.debtBalances[i] = bal.Mul(one.Add(monthlyRate))
	}

	// Minimum payments across all open debts, in profile order. A cash
	// shortfall falls back on savings; whatever cannot be funded stays on
	// the balance.
	for i, bal := range st.debtBalances {
		if !bal.IsPositive() {
			continue
		}
		due := decimal.Min(p.Debts[i].MinimumPayment, bal)
		pay := decimal.Min(due, cash)
		cash = cash.Sub(pay)
		if pay.LessThan(due) {
			fromSavings := decimal.Min(due.Sub(pay), st.savings)
			st.savings = st.savings.Sub(fromSavings)
			pay = pay.Add(fromSavings)
		}
		st.debtBalances[i] = bal.Sub(pay)
	}

	// Extra debt payment, avalanche order: the pool attacks the
	// highest-APR open balance and any overpayment carries forward to the
	// next-highest within the same month. The pool is funded from
	// remaining cash first, then savings.
	if params.ExtraDebtPayment.IsPositive() {
		fromCash := decimal.Min(params.ExtraDebtPayment, cash)
		cash = cash.Sub(fromCash)
		fromSavings := decimal.Min(params.ExtraDebtPayment.Sub(fromCash), st.savings)
		st.savings = st.savings.Sub(fromSavings)

		pool := fromCash.Add(fromSavings)
		for pool.IsPositive() {
			target := highestRateOpenDebt(p, st.debtBalances)
			if target < 0 {
				break
			}
			pay := decimal.Min(pool, st.debtBalances[target])
			st.debtBalances[target] = st.debtBalances[target].Sub(pay)
			pool = pool.Sub(pay)
		}
		// Unused extra after every balance hits zero returns to cash.
		cash = cash.Add(pool)
	}

	// Remaining cash routes to savings. Savings do not compound.
	st.savings = st.savings.Add(cash)
	return st
}

func highestRateOpenDebt(p models.FinancialProfile, balances []decimal.Decimal) int {
	target := -1
	for i, bal := range balances {
		if !bal.IsPositive() {
			continue
		}
		if target < 0 || p.Debts[i].InterestRate.GreaterThan(p.Debts[target].InterestRate) {
			target = i
		}
	}
	return target
}

func recordPoint(month int, st monthState) models.ProjectionPoint {
	totalDebt := decimal.Zero
	balances := make([]decimal.Decimal, len(st.debtBalances))
	copy(balances, st.debtBalances)
	for _, bal := range balances {
		totalDebt = totalDebt.Add(bal)
	}
	return models.ProjectionPoint{
		MonthIndex:     month,
		SavingsBalance: st.savings,
		TotalDebt:      totalDebt,
		NetWorth:       st.savings.Sub(totalDebt),
		DebtBalances:   balances,
	}
}

// DeriveMilestones scans a projection once and extracts its notable
// crossing points. monthlyExpenses is the scenario's effective expense
// level, the denominator of the emergency-fund runway.
func DeriveMilestones(projection models.Projection, monthlyExpenses decimal.Decimal) models.Milestones {
	var ms models.Milestones
	for _, pt := range projection {
		if ms.DebtFreeMonth == nil && pt.TotalDebt.IsZero() {
			m := pt.MonthIndex
			ms.DebtFreeMonth = &m
		}
		if ms.EmergencyFundMonth == nil && coversEmergencyGoal(pt.SavingsBalance, monthlyExpenses) {
			m := pt.MonthIndex
			ms.EmergencyFundMonth = &m
		}
		if ms.NetWorthPositiveMonth == nil && !pt.NetWorth.IsNegative() {
			m := pt.MonthIndex
			ms.NetWorthPositiveMonth = &m
		}
		if ms.DebtFreeMonth != nil && ms.EmergencyFundMonth != nil && ms.NetWorthPositiveMonth != nil {
			break
		}
	}
	return ms
}

func coversEmergencyGoal(savings, monthlyExpenses decimal.Decimal) bool {
	if !monthlyExpenses.IsPositive() {
		return true
	}
	return savings.Div(monthlyExpenses).GreaterThanOrEqual(emergencyGoal)
}

// Simulate projects the current and improved paths over the horizon and
// derives the milestones of each. The improved path's parameters are the
// aggregate of the assessment's recommendation deltas. The two scenario
// runs are independent, so they execute concurrently; each touches only
// its own state copy.
func Simulate(profile models.FinancialProfile, assessment models.HealthAssessment, horizonMonths int) (models.SimulationResult, error) {
	if horizonMonths <= 0 {
		horizonMonths = DefaultHorizonMonths
	}
	improvedParams := models.AggregateDeltas(assessment.Recommendations)

	var (
		wg                      sync.WaitGroup
		current, improved       models.Projection
		currentErr, improvedErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		current, currentErr = Project(profile, models.BehaviorParams{}, horizonMonths)
	}()
	go func() {
		defer wg.Done()
		improved, improvedErr = Project(profile, improvedParams, horizonMonths)
	}()
	wg.Wait()
	if currentErr != nil {
		return models.SimulationResult{}, currentErr
	}
	if improvedErr != nil {
		return models.SimulationResult{}, improvedErr
	}

	norm := profile.Normalized()
	result := models.SimulationResult{
		HorizonMonths: horizonMonths,
		Params:        improvedParams,
		CurrentPath:   current,
		ImprovedPath:  improved,
		Current:       summarize(current, norm.TotalExpenses()),
		Improved:      summarize(improved, effectiveExpenses(norm, improvedParams)),
	}
	result.NetWorthDifference = result.Improved.FinalNetWorth.Sub(result.Current.FinalNetWorth)

	for i := range improved {
		if improved[i].NetWorth.GreaterThan(current[i].NetWorth) {
			m := improved[i].MonthIndex
			result.NetWorthCrossoverMonth = &m
			break
		}
	}
	return result, nil
}

func summarize(projection models.Projection, monthlyExpenses decimal.Decimal) models.ScenarioSummary {
	final := projection.Final()
	return models.ScenarioSummary{
		FinalSavings:  final.SavingsBalance,
		FinalDebt:     final.TotalDebt,
		FinalNetWorth: final.NetWorth,
		Milestones:    DeriveMilestones(projection, monthlyExpenses),
	}
}
