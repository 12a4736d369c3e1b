package models

import (
	"time"

	"github.com/google/uuid"
)

// AchievementLevel is the badge tier of an earned achievement.
type AchievementLevel string

const (
	LevelBronze AchievementLevel = "bronze"
	LevelSilver AchievementLevel = "silver"
	LevelGold   AchievementLevel = "gold"
)

// Achievement is a badge a user has earned for a financial habit or a
// projected milestone.
type Achievement struct {
	ID          uuid.UUID        `json:"id"`
	UserID      uuid.UUID        `json:"user_id"`
	Code        string           `json:"code"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Level       AchievementLevel `json:"level"`
	AchievedAt  time.Time        `json:"achieved_at"`
}
