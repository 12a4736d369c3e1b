// Package generator produces synthetic financial profiles for demos and
// load testing. Output is schema-conformant and, for a fixed seed,
// reproducible.
package generator

import (
	"math/rand"
	"time"

	"github.com/finpath/finpath/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseCategories is the fixed monthly budget breakdown every generated
// profile carries.
var ExpenseCategories = []string{
	"Rent/Mortgage", "Utilities", "Groceries", "Dining Out",
	"Transportation", "Healthcare", "Entertainment", "Shopping",
	"Subscriptions", "Miscellaneous",
}

var firstNames = []string{
	"Alex", "Jordan", "Casey", "Morgan", "Riley", "Taylor", "Avery",
	"Quinn", "Reese", "Cameron", "Dana", "Elliot", "Harper", "Jamie",
}

var lastNames = []string{
	"Smith", "Garcia", "Chen", "Patel", "Johnson", "Kim", "Nguyen",
	"Brown", "Silva", "Martin", "Ivanov", "Okafor", "Larsen", "Costa",
}

var occupations = []string{
	"Teacher", "Nurse", "Software Developer", "Electrician", "Accountant",
	"Designer", "Sales Manager", "Chef", "Analyst", "Technician",
}

// debtShape bounds the balance and APR ranges per debt type.
type debtShape struct {
	debtType       models.DebtType
	minBal, maxBal float64
	minAPR, maxAPR float64
}

var debtShapes = []debtShape{
	{models.DebtCreditCard, 500, 15000, 0.14, 0.25},
	{models.DebtStudentLoan, 5000, 80000, 0.03, 0.07},
	{models.DebtAutoLoan, 5000, 50000, 0.03, 0.08},
	{models.DebtOther, 1000, 20000, 0.06, 0.15},
}

// Generator produces profiles from a private PRNG so concurrent callers
// can hold independent instances.
type Generator struct {
	rng *rand.Rand
}

// New returns a generator seeded for reproducible output.
func New(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Profile generates one synthetic household profile.
func (g *Generator) Profile() models.FinancialProfile {
	age := 22 + g.rng.Intn(44) // 22..65

	// Income scales with age around a noisy mean, floored at a living wage.
	income := g.rng.NormFloat64()*1500 + 3000 + float64(age)*100
	if income < 2000 {
		income = 2000
	}

	// Spend 60-95% of income, split across categories by random weights.
	expenseRatio := 0.60 + g.rng.Float64()*0.35
	totalExpenses := income * expenseRatio
	weights := make([]float64, len(ExpenseCategories))
	weightSum := 0.0
	for i := range weights {
		weights[i] = g.rng.Float64()
		weightSum += weights[i]
	}
	expenses := make([]models.Expense, len(ExpenseCategories))
	for i, cat := range ExpenseCategories {
		expenses[i] = models.Expense{
			Category: cat,
			Amount:   money(totalExpenses * weights[i] / weightSum),
		}
	}

	// Current savings hold 1-24 months of the monthly surplus.
	surplus := income - totalExpenses
	savings := surplus * float64(1+g.rng.Intn(24))
	if savings < 0 {
		savings = 0
	}

	var debts []models.Debt
	if g.rng.Float64() < 0.70 { // 70% of households carry debt
		for n := 1 + g.rng.Intn(3); n > 0; n-- {
			debts = append(debts, g.debt())
		}
	}

	return models.FinancialProfile{
		ID:             uuid.New(),
		Name:           firstNames[g.rng.Intn(len(firstNames))] + " " + lastNames[g.rng.Intn(len(lastNames))],
		Age:            age,
		Occupation:     occupations[g.rng.Intn(len(occupations))],
		MonthlyIncome:  money(income),
		Expenses:       expenses,
		Debts:          debts,
		SavingsBalance: money(savings),
		CreatedAt:      time.Now().UTC(),
	}
}

func (g *Generator) debt() models.Debt {
	shape := debtShapes[g.rng.Intn(len(debtShapes))]
	balance := shape.minBal + g.rng.Float64()*(shape.maxBal-shape.minBal)
	apr := shape.minAPR + g.rng.Float64()*(shape.maxAPR-shape.minAPR)

	// Contractual minimum: 2% of balance or 25, whichever is larger.
	minPayment := balance * 0.02
	if minPayment < 25 {
		minPayment = 25
	}

	return models.Debt{
		Type:           shape.debtType,
		Balance:        money(balance),
		InterestRate:   decimal.NewFromFloat(apr).Round(4),
		MinimumPayment: money(minPayment),
	}
}

// Profiles generates n profiles.
func (g *Generator) Profiles(n int) []models.FinancialProfile {
	out := make([]models.FinancialProfile, n)
	for i := range out {
		out[i] = g.Profile()
	}
	return out
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}
