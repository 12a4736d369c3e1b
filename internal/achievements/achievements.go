// Package achievements awards badges for financial habits visible in a
// profile and for milestones the improved projection reaches. Evaluation
// is pure; persistence belongs to the caller.
package achievements

import (
	"time"

	"github.com/finpath/finpath/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Definition describes one earnable badge.
type Definition struct {
	Code        string
	Title       string
	Description string
	Level       models.AchievementLevel
}

// Definitions is the fixed badge catalog.
var Definitions = []Definition{
	{"savings_starter", "Savings Starter", "Puts money aside every month", models.LevelBronze},
	{"savings_builder", "Savings Builder", "Saves at least 10% of income", models.LevelSilver},
	{"super_saver", "Super Saver", "Saves more than 20% of income", models.LevelGold},
	{"emergency_starter", "Safety Net Starter", "One month of expenses in the emergency fund", models.LevelBronze},
	{"emergency_builder", "Safety Net Builder", "Three months of expenses in the emergency fund", models.LevelSilver},
	{"emergency_master", "Safety Net Master", "Six months of expenses in the emergency fund", models.LevelGold},
	{"debt_tackler", "Debt Tackler", "Has a plan attacking high-interest debt", models.LevelBronze},
	{"debt_crusher", "Debt Crusher", "On track to cut total debt in half", models.LevelSilver},
	{"debt_eliminator", "Debt Eliminator", "Projected debt-free within the horizon", models.LevelGold},
}

var definitionsByCode = func() map[string]Definition {
	m := make(map[string]Definition, len(Definitions))
	for _, d := range Definitions {
		m[d.Code] = d
	}
	return m
}()

var (
	rateStarter = decimal.NewFromFloat(0.0)
	rateBuilder = decimal.NewFromFloat(0.10)
	rateSuper   = decimal.NewFromFloat(0.20)
	oneMonth    = decimal.NewFromInt(1)
	threeMonths = decimal.NewFromInt(3)
	sixMonths   = decimal.NewFromInt(6)
	half        = decimal.NewFromFloat(0.5)
)

// Evaluate returns the badges earned by a user given their profile, its
// assessment, and the simulation comparing the two paths. The result for
// identical inputs is identical except for award timestamps and IDs.
func Evaluate(userID uuid.UUID, profile models.FinancialProfile, assessment models.HealthAssessment, result models.SimulationResult) []models.Achievement {
	p := profile.Normalized()
	rate := p.EffectiveSavingsRate()
	runway := p.EmergencyFundMonths()

	var codes []string
	if rate.GreaterThan(rateStarter) {
		codes = append(codes, "savings_starter")
	}
	if rate.GreaterThanOrEqual(rateBuilder) {
		codes = append(codes, "savings_builder")
	}
	if rate.GreaterThanOrEqual(rateSuper) {
		codes = append(codes, "super_saver")
	}

	if runway.GreaterThanOrEqual(oneMonth) {
		codes = append(codes, "emergency_starter")
	}
	if runway.GreaterThanOrEqual(threeMonths) {
		codes = append(codes, "emergency_builder")
	}
	if runway.GreaterThanOrEqual(sixMonths) {
		codes = append(codes, "emergency_master")
	}

	if hasHighInterestPlan(assessment) {
		codes = append(codes, "debt_tackler")
	}
	initialDebt := p.TotalDebt()
	if initialDebt.IsPositive() {
		if result.Improved.FinalDebt.LessThanOrEqual(initialDebt.Mul(half)) {
			codes = append(codes, "debt_crusher")
		}
		if result.Improved.Milestones.DebtFreeMonth != nil {
			codes = append(codes, "debt_eliminator")
		}
	}

	now := time.Now().UTC()
	earned := make([]models.Achievement, 0, len(codes))
	for _, code := range codes {
		def := definitionsByCode[code]
		earned = append(earned, models.Achievement{
			ID:          uuid.New(),
			UserID:      userID,
			Code:        def.Code,
			Title:       def.Title,
			Description: def.Description,
			Level:       def.Level,
			AchievedAt:  now,
		})
	}
	return earned
}

func hasHighInterestPlan(assessment models.HealthAssessment) bool {
	for _, rec := range assessment.Recommendations {
		if rec.Kind == models.IssueHighInterestDebt && rec.Delta.ExtraDebtPayment.IsPositive() {
			return true
		}
	}
	return false
}
