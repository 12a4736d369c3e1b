package generator

import (
	"testing"

	"github.com/finpath/finpath/internal/analyzer"
	"github.com/shopspring/decimal"
)

func TestGenerator_Reproducible(t *testing.T) {
	a := New(42).Profiles(20)
	b := New(42).Profiles(20)

	for i := range a {
		if !a[i].MonthlyIncome.Equal(b[i].MonthlyIncome) {
			t.Fatalf("profile %d income differs for the same seed: %s vs %s", i, a[i].MonthlyIncome, b[i].MonthlyIncome)
		}
		if a[i].Name != b[i].Name || len(a[i].Debts) != len(b[i].Debts) {
			t.Fatalf("profile %d shape differs for the same seed", i)
		}
	}
}

func TestGenerator_SchemaConformance(t *testing.T) {
	minIncome := decimal.NewFromInt(2000)
	one := decimal.NewFromInt(1)

	for _, p := range New(7).Profiles(100) {
		if p.MonthlyIncome.LessThan(minIncome) {
			t.Errorf("income %s below the 2000 floor", p.MonthlyIncome)
		}
		if p.SavingsBalance.IsNegative() {
			t.Errorf("negative savings balance %s", p.SavingsBalance)
		}
		if len(p.Expenses) != len(ExpenseCategories) {
			t.Errorf("got %d expense categories, want %d", len(p.Expenses), len(ExpenseCategories))
		}
		for _, e := range p.Expenses {
			if e.Amount.IsNegative() {
				t.Errorf("negative expense %s in %s", e.Amount, e.Category)
			}
		}
		for _, debt := range p.Debts {
			if !debt.Balance.IsPositive() {
				t.Errorf("non-positive debt balance %s", debt.Balance)
			}
			if debt.InterestRate.IsNegative() || debt.InterestRate.GreaterThanOrEqual(one) {
				t.Errorf("APR %s outside [0, 1)", debt.InterestRate)
			}
			if debt.MinimumPayment.LessThan(decimal.NewFromInt(25)) {
				t.Errorf("minimum payment %s below the 25 floor", debt.MinimumPayment)
			}
		}
	}
}

// Every generated profile must be scoreable: the generator feeds demos
// that run straight into the analyzer.
func TestGenerator_ProfilesAreAssessable(t *testing.T) {
	for i, p := range New(99).Profiles(50) {
		if _, err := analyzer.Assess(p); err != nil {
			t.Fatalf("profile %d not assessable: %v", i, err)
		}
	}
}
