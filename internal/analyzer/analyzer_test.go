package analyzer

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/finpath/finpath/internal/models"
	"github.com/shopspring/decimal"
)

func d(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

// stressedProfile is the reference scenario: 5000 income, 4000 expenses,
// one 2000 credit card balance at 20% APR with a 100 minimum, 500 saved,
// 5% savings rate.
func stressedProfile() models.FinancialProfile {
	return models.FinancialProfile{
		MonthlyIncome:  d(5000),
		Expenses:       []models.Expense{{Category: "Living", Amount: d(4000)}},
		Debts:          []models.Debt{{Type: models.DebtCreditCard, Balance: d(2000), InterestRate: d(0.20), MinimumPayment: d(100)}},
		SavingsBalance: d(500),
		SavingsRate:    d(0.05),
	}
}

func healthyProfile() models.FinancialProfile {
	return models.FinancialProfile{
		MonthlyIncome:  d(8000),
		Expenses:       []models.Expense{{Category: "Living", Amount: d(4000)}},
		SavingsBalance: d(40000),
		SavingsRate:    d(0.30),
	}
}

func hasIssue(issues []models.Issue, kind models.IssueKind) bool {
	for _, i := range issues {
		if i.Kind == kind {
			return true
		}
	}
	return false
}

func TestAssess_RejectsNonPositiveIncome(t *testing.T) {
	for _, income := range []float64{0, -100} {
		_, err := Assess(models.FinancialProfile{MonthlyIncome: d(income)})
		if !errors.Is(err, models.ErrInvalidProfile) {
			t.Errorf("income %.0f: err = %v, want ErrInvalidProfile", income, err)
		}
	}
}

func TestAssess_HealthyProfileScoresFull(t *testing.T) {
	a, err := Assess(healthyProfile())
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}
	if a.Score != 100 {
		t.Errorf("Score = %d, want 100", a.Score)
	}
	if len(a.Issues) != 0 {
		t.Errorf("Issues = %v, want none", a.Issues)
	}
}

func TestAssess_StressedProfile(t *testing.T) {
	a, err := Assess(stressedProfile())
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}

	if !hasIssue(a.Issues, models.IssueLowSavingsRate) {
		t.Error("expected low_savings_rate issue")
	}
	if !hasIssue(a.Issues, models.IssueHighInterestDebt) {
		t.Error("expected high_interest_debt issue")
	}
	if a.Score > 80 {
		t.Errorf("Score = %d, want <= 80", a.Score)
	}
	if len(a.Recommendations) != len(a.Issues) {
		t.Errorf("got %d recommendations for %d issues", len(a.Recommendations), len(a.Issues))
	}
	for i := range a.Issues {
		if a.Recommendations[i].Kind != a.Issues[i].Kind {
			t.Errorf("recommendation %d targets %s, issue is %s", i, a.Recommendations[i].Kind, a.Issues[i].Kind)
		}
	}
}

func TestAssess_ScoreBounds(t *testing.T) {
	// A profile failing every rule must still floor at zero.
	wrecked := models.FinancialProfile{
		MonthlyIncome: d(2000),
		Expenses:      []models.Expense{{Category: "Living", Amount: d(2200)}},
		Debts: []models.Debt{
			{Type: models.DebtCreditCard, Balance: d(9000), InterestRate: d(0.24), MinimumPayment: d(1200)},
		},
		SavingsBalance: decimal.Zero,
	}
	a, err := Assess(wrecked)
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}
	if a.Score < 0 || a.Score > 100 {
		t.Errorf("Score = %d, want within [0,100]", a.Score)
	}
	if a.Score != 0 {
		t.Errorf("Score = %d, want 0 for a profile failing every rule at high severity", a.Score)
	}
}

func TestAssess_SeverityOrdering(t *testing.T) {
	a, err := Assess(stressedProfile())
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}
	seenMedium := false
	for _, issue := range a.Issues {
		if issue.Severity == models.SeverityMedium {
			seenMedium = true
		} else if seenMedium {
			t.Fatalf("high severity issue %s ranked after a medium one", issue.Kind)
		}
	}
}

func TestAssess_Deterministic(t *testing.T) {
	first, err := Assess(stressedProfile())
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}
	second, err := Assess(stressedProfile())
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Error("identical inputs produced different assessments")
	}
}

func TestAssess_PenaltyMonotonicity(t *testing.T) {
	base := healthyProfile()
	baseline, err := Assess(base)
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}

	// Draining savings below one month of expenses adds a high-severity
	// emergency fund issue; the score must not rise.
	drained := base
	drained.SavingsBalance = d(1000)
	worse, err := Assess(drained)
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}
	if worse.Score > baseline.Score {
		t.Errorf("adding an issue raised the score: %d -> %d", baseline.Score, worse.Score)
	}
	if !hasIssue(worse.Issues, models.IssueLowEmergencyFund) {
		t.Error("expected low_emergency_fund after draining savings")
	}
}

func TestAssess_ClampsOutOfRangeInputs(t *testing.T) {
	p := models.FinancialProfile{
		MonthlyIncome: d(5000),
		Expenses: []models.Expense{
			{Category: "Living", Amount: d(3000)},
			{Category: "Glitch", Amount: d(-500)}, // clamped to 0
		},
		Debts: []models.Debt{
			{Type: models.DebtOther, Balance: d(-100), InterestRate: d(1.5), MinimumPayment: d(-20)},
		},
		SavingsBalance: d(-50),
		SavingsRate:    d(-0.2),
	}
	if _, err := Assess(p); err != nil {
		t.Fatalf("Assess rejected a clampable profile: %v", err)
	}
}

func TestAssess_ExpenseReductionDeltaClearsThreshold(t *testing.T) {
	p := models.FinancialProfile{
		MonthlyIncome:  d(5000),
		Expenses:       []models.Expense{{Category: "Living", Amount: d(4600)}}, // 92% of income
		SavingsBalance: d(20000),
		SavingsRate:    d(0.12),
	}
	a, err := Assess(p)
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}

	var rec *models.Recommendation
	for i := range a.Recommendations {
		if a.Recommendations[i].Kind == models.IssueExcessiveExpense {
			rec = &a.Recommendations[i]
		}
	}
	if rec == nil {
		t.Fatal("expected an excessive_expenses recommendation")
	}

	// Applying the recommended cut has to bring the ratio back under the
	// 0.80 threshold.
	reduced := d(4600).Mul(decimal.NewFromInt(1).Sub(rec.Delta.ExpenseReductionFraction))
	ratio := reduced.Div(d(5000))
	if ratio.GreaterThan(d(0.80)) {
		t.Errorf("ratio after recommended cut = %s, want <= 0.80", ratio)
	}
}

func TestAssess_AvalancheTargetsHighestAPR(t *testing.T) {
	p := models.FinancialProfile{
		MonthlyIncome:  d(6000),
		Expenses:       []models.Expense{{Category: "Living", Amount: d(3000)}},
		SavingsBalance: d(30000),
		SavingsRate:    d(0.25),
		Debts: []models.Debt{
			{Type: models.DebtStudentLoan, Balance: d(20000), InterestRate: d(0.05), MinimumPayment: d(200)},
			{Type: models.DebtCreditCard, Balance: d(3000), InterestRate: d(0.22), MinimumPayment: d(90)},
		},
	}
	a, err := Assess(p)
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}

	for _, rec := range a.Recommendations {
		if rec.Kind != models.IssueHighInterestDebt {
			continue
		}
		if !rec.Delta.ExtraDebtPayment.IsPositive() {
			t.Error("high interest recommendation carries no extra payment")
		}
		return
	}
	t.Fatal("expected a high_interest_debt recommendation")
}
