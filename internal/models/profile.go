package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DebtType categorizes a debt and drives the default interest assumption
// when a profile does not specify an APR.
type DebtType string

const (
	DebtCreditCard  DebtType = "credit_card"
	DebtStudentLoan DebtType = "student_loan"
	DebtAutoLoan    DebtType = "auto_loan"
	DebtMortgage    DebtType = "mortgage"
	DebtOther       DebtType = "other"
)

// defaultAPR holds the assumed annual rate per debt type, used when a debt
// arrives without an interest rate.
var defaultAPR = map[DebtType]decimal.Decimal{
	DebtCreditCard:  decimal.NewFromFloat(0.20),
	DebtStudentLoan: decimal.NewFromFloat(0.05),
	DebtAutoLoan:    decimal.NewFromFloat(0.06),
	DebtMortgage:    decimal.NewFromFloat(0.065),
	DebtOther:       decimal.NewFromFloat(0.10),
}

// DefaultAPR returns the assumed annual interest rate for a debt type.
func DefaultAPR(t DebtType) decimal.Decimal {
	if rate, ok := defaultAPR[t]; ok {
		return rate
	}
	return defaultAPR[DebtOther]
}

// Debt represents a single liability in a financial profile.
type Debt struct {
	Type           DebtType        `json:"type"`
	Balance        decimal.Decimal `json:"balance"`
	InterestRate   decimal.Decimal `json:"interest_rate"` // annual fraction, [0, 1)
	MinimumPayment decimal.Decimal `json:"minimum_payment"`
}

// Expense is one (category, amount) entry of a monthly budget. Order is
// preserved as supplied.
type Expense struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// FinancialProfile is a snapshot of a household's finances at time zero.
// It is immutable input to both the analyzer and the simulator.
type FinancialProfile struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Age            int             `json:"age,omitempty"`
	Occupation     string          `json:"occupation,omitempty"`
	MonthlyIncome  decimal.Decimal `json:"monthly_income"`
	Expenses       []Expense       `json:"expenses"`
	Debts          []Debt          `json:"debts"`
	SavingsBalance decimal.Decimal `json:"savings_balance"`
	// SavingsRate is the supplied fraction of income saved each month.
	// When zero it is derived from income and expenses.
	SavingsRate decimal.Decimal `json:"savings_rate,omitempty"`
	CreatedAt   time.Time       `json:"created_at,omitempty"`
}

var (
	one     = decimal.NewFromInt(1)
	maxRate = decimal.NewFromFloat(0.99)
)

// Validate reports whether the profile can be scored at all. A non-positive
// income is the only hard rejection; every other out-of-range field is
// clamped by Normalized.
func (p FinancialProfile) Validate() error {
	if !p.MonthlyIncome.IsPositive() {
		return ErrInvalidProfile
	}
	return nil
}

// Normalized returns a copy of the profile with out-of-range numeric fields
// clamped to their nearest valid bound and missing debt rates filled from
// the per-type defaults. The receiver is not modified.
func (p FinancialProfile) Normalized() FinancialProfile {
	out := p
	out.SavingsBalance = clampNonNegative(p.SavingsBalance)
	out.SavingsRate = clampFraction(p.SavingsRate)

	out.Expenses = make([]Expense, len(p.Expenses))
	for i, e := range p.Expenses {
		e.Amount = clampNonNegative(e.Amount)
		out.Expenses[i] = e
	}

	out.Debts = make([]Debt, len(p.Debts))
	for i, d := range p.Debts {
		d.Balance = clampNonNegative(d.Balance)
		d.MinimumPayment = clampNonNegative(d.MinimumPayment)
		if d.InterestRate.IsZero() && d.Type != "" {
			d.InterestRate = DefaultAPR(d.Type)
		}
		if d.InterestRate.IsNegative() {
			d.InterestRate = decimal.Zero
		} else if d.InterestRate.GreaterThanOrEqual(one) {
			d.InterestRate = maxRate
		}
		out.Debts[i] = d
	}
	return out
}

// TotalExpenses sums the monthly budget across categories.
func (p FinancialProfile) TotalExpenses() decimal.Decimal {
	total := decimal.Zero
	for _, e := range p.Expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// TotalDebt sums the outstanding balances across all debts.
func (p FinancialProfile) TotalDebt() decimal.Decimal {
	total := decimal.Zero
	for _, d := range p.Debts {
		total = total.Add(d.Balance)
	}
	return total
}

// MinimumPayments sums the contractual monthly minimums across all debts.
func (p FinancialProfile) MinimumPayments() decimal.Decimal {
	total := decimal.Zero
	for _, d := range p.Debts {
		total = total.Add(d.MinimumPayment)
	}
	return total
}

// EffectiveSavingsRate returns the supplied savings rate, or derives it as
// (income - expenses) / income when none was supplied. The result is
// clamped to [0, 1].
func (p FinancialProfile) EffectiveSavingsRate() decimal.Decimal {
	if !p.SavingsRate.IsZero() {
		return clampFraction(p.SavingsRate)
	}
	if !p.MonthlyIncome.IsPositive() {
		return decimal.Zero
	}
	derived := p.MonthlyIncome.Sub(p.TotalExpenses()).Div(p.MonthlyIncome)
	return clampFraction(derived)
}

// unboundedRunway stands in for "infinite months of runway" when a profile
// reports no expenses at all.
var unboundedRunway = decimal.NewFromInt(999)

// EmergencyFundMonths returns savings divided by total monthly expenses,
// the liquidity-runway metric behind the emergency fund rule.
func (p FinancialProfile) EmergencyFundMonths() decimal.Decimal {
	expenses := p.TotalExpenses()
	if !expenses.IsPositive() {
		return unboundedRunway
	}
	return clampNonNegative(p.SavingsBalance).Div(expenses)
}

func clampNonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func clampFraction(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	if d.GreaterThan(one) {
		return one
	}
	return d
}
