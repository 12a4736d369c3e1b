package simulator

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/finpath/finpath/internal/analyzer"
	"github.com/finpath/finpath/internal/models"
	"github.com/shopspring/decimal"
)

func d(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func stressedProfile() models.FinancialProfile {
	return models.FinancialProfile{
		MonthlyIncome:  d(5000),
		Expenses:       []models.Expense{{Category: "Living", Amount: d(4000)}},
		Debts:          []models.Debt{{Type: models.DebtCreditCard, Balance: d(2000), InterestRate: d(0.20), MinimumPayment: d(100)}},
		SavingsBalance: d(500),
		SavingsRate:    d(0.05),
	}
}

func TestProject_RejectsNonPositiveIncome(t *testing.T) {
	_, err := Project(models.FinancialProfile{}, models.BehaviorParams{}, 12)
	if !errors.Is(err, models.ErrInvalidProfile) {
		t.Fatalf("err = %v, want ErrInvalidProfile", err)
	}
}

func TestProject_ShapeAndNonNegativity(t *testing.T) {
	for _, horizon := range []int{1, 12, 60} {
		proj, err := Project(stressedProfile(), models.BehaviorParams{}, horizon)
		if err != nil {
			t.Fatalf("Project(horizon=%d): %v", horizon, err)
		}
		if len(proj) != horizon {
			t.Fatalf("len = %d, want %d", len(proj), horizon)
		}
		for i, pt := range proj {
			if pt.MonthIndex != i+1 {
				t.Errorf("point %d has month_index %d", i, pt.MonthIndex)
			}
			if pt.TotalDebt.IsNegative() {
				t.Errorf("month %d: negative total debt %s", pt.MonthIndex, pt.TotalDebt)
			}
			if pt.SavingsBalance.IsNegative() {
				t.Errorf("month %d: negative savings %s", pt.MonthIndex, pt.SavingsBalance)
			}
		}
	}
}

func TestProject_DefaultHorizon(t *testing.T) {
	proj, err := Project(stressedProfile(), models.BehaviorParams{}, 0)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if len(proj) != DefaultHorizonMonths {
		t.Fatalf("len = %d, want %d", len(proj), DefaultHorizonMonths)
	}
}

// On the current path only the contractual minimum is paid, so the first
// month's balance is 2000 * (1 + 0.20/12) - 100.
func TestProject_FirstMonthBalance(t *testing.T) {
	proj, err := Project(stressedProfile(), models.BehaviorParams{}, 12)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if got := proj[0].TotalDebt.StringFixed(2); got != "1933.33" {
		t.Errorf("month 1 total debt = %s, want 1933.33", got)
	}
	// Residual cash after expenses and the minimum routes to savings.
	if got := proj[0].SavingsBalance.StringFixed(2); got != "1400.00" {
		t.Errorf("month 1 savings = %s, want 1400.00", got)
	}
}

func TestProject_Idempotent(t *testing.T) {
	params := models.BehaviorParams{ExpenseReductionFraction: d(0.1), ExtraDebtPayment: d(150)}
	first, err := Project(stressedProfile(), params, 24)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	second, err := Project(stressedProfile(), params, 24)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Error("identical arguments produced different projections")
	}
}

func TestProject_DebtExtinction(t *testing.T) {
	p := models.FinancialProfile{
		MonthlyIncome:  d(5000),
		Expenses:       []models.Expense{{Category: "Living", Amount: d(3000)}},
		Debts:          []models.Debt{{Type: models.DebtOther, Balance: d(1000), InterestRate: d(0.10), MinimumPayment: d(200)}},
		SavingsBalance: d(100),
	}
	proj, err := Project(p, models.BehaviorParams{}, 60)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	ms := DeriveMilestones(proj, p.TotalExpenses())
	if ms.DebtFreeMonth == nil {
		t.Fatal("debt never extinguished despite amortizing minimum payments")
	}
	if *ms.DebtFreeMonth > 60 {
		t.Fatalf("debt_free_month = %d, want within horizon", *ms.DebtFreeMonth)
	}
	// Once extinguished, debt stays at zero.
	for _, pt := range proj[*ms.DebtFreeMonth-1:] {
		if !pt.TotalDebt.IsZero() {
			t.Fatalf("debt reappeared in month %d", pt.MonthIndex)
		}
	}
}

func TestProject_CashFlowDeficitDrainsSavings(t *testing.T) {
	p := models.FinancialProfile{
		MonthlyIncome:  d(1000),
		Expenses:       []models.Expense{{Category: "Living", Amount: d(1500)}},
		SavingsBalance: d(300),
	}
	proj, err := Project(p, models.BehaviorParams{}, 6)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if !proj[0].SavingsBalance.IsZero() {
		t.Errorf("month 1 savings = %s, want 0 after a 500 deficit against 300 saved", proj[0].SavingsBalance)
	}
	for _, pt := range proj {
		if pt.SavingsBalance.IsNegative() {
			t.Fatalf("month %d: savings went negative", pt.MonthIndex)
		}
	}
}

func TestProject_AvalancheCarryForward(t *testing.T) {
	p := models.FinancialProfile{
		MonthlyIncome:  d(5000),
		Expenses:       []models.Expense{{Category: "Living", Amount: d(3000)}},
		SavingsBalance: d(0),
		Debts: []models.Debt{
			{Type: models.DebtStudentLoan, Balance: d(5000), InterestRate: d(0.05), MinimumPayment: d(100)},
			{Type: models.DebtCreditCard, Balance: d(300), InterestRate: d(0.25), MinimumPayment: d(50)},
		},
	}
	// Extra payment large enough to clear the small high-APR balance in
	// month one; the overflow must hit the lower-APR loan the same month.
	proj, err := Project(p, models.BehaviorParams{ExtraDebtPayment: d(1000)}, 3)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	first := proj[0]
	if !first.DebtBalances[1].IsZero() {
		t.Errorf("high-APR balance after month 1 = %s, want 0", first.DebtBalances[1])
	}
	// Loan accrued to 5000*(1+0.05/12), then minimum 100 plus the extra's
	// carry-forward (1000 - ~251 credit card payoff) came off.
	loan := d(5000).Mul(decimal.NewFromInt(1).Add(d(0.05).Div(decimal.NewFromInt(12))))
	card := d(300).Mul(decimal.NewFromInt(1).Add(d(0.25).Div(decimal.NewFromInt(12)))).Sub(d(50))
	want := loan.Sub(d(100)).Sub(d(1000).Sub(card))
	if !first.DebtBalances[0].Equal(want) {
		t.Errorf("low-APR balance after month 1 = %s, want %s", first.DebtBalances[0], want)
	}
}

func TestSimulate_ImprovedPathDominates(t *testing.T) {
	profile := stressedProfile()
	assessment, err := analyzer.Assess(profile)
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}
	if len(assessment.Issues) == 0 {
		t.Fatal("fixture is supposed to trigger issues")
	}

	result, err := Simulate(profile, assessment, 60)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if result.Improved.FinalNetWorth.LessThan(result.Current.FinalNetWorth) {
		t.Errorf("improved path final net worth %s below current path %s",
			result.Improved.FinalNetWorth, result.Current.FinalNetWorth)
	}
	if len(result.CurrentPath) != 60 || len(result.ImprovedPath) != 60 {
		t.Errorf("path lengths = %d/%d, want 60/60", len(result.CurrentPath), len(result.ImprovedPath))
	}
}

func TestSimulate_CurrentPathMatchesIdentityProjection(t *testing.T) {
	profile := stressedProfile()
	assessment, err := analyzer.Assess(profile)
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}
	result, err := Simulate(profile, assessment, 24)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	identity, err := Project(profile, models.BehaviorParams{}, 24)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}

	a, _ := json.Marshal(result.CurrentPath)
	b, _ := json.Marshal(identity)
	if string(a) != string(b) {
		t.Error("current path diverges from the identity-params projection")
	}
}

func TestDeriveMilestones_EmergencyFund(t *testing.T) {
	p := models.FinancialProfile{
		MonthlyIncome:  d(5000),
		Expenses:       []models.Expense{{Category: "Living", Amount: d(1000)}},
		SavingsBalance: d(2000),
	}
	proj, err := Project(p, models.BehaviorParams{}, 12)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	ms := DeriveMilestones(proj, p.TotalExpenses())
	// Savings grow by 4000 a month from a 2000 start; six months of
	// expenses (6000) is covered at the end of month one.
	if ms.EmergencyFundMonth == nil || *ms.EmergencyFundMonth != 1 {
		t.Fatalf("emergency fund month = %v, want 1", ms.EmergencyFundMonth)
	}
	if ms.DebtFreeMonth == nil || *ms.DebtFreeMonth != 1 {
		t.Fatalf("debt free month = %v, want 1 for a debt-free profile", ms.DebtFreeMonth)
	}
}
