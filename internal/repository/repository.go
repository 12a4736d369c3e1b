package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/finpath/finpath/internal/models"
	"github.com/google/uuid"
)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(user *models.User) error {
	query := `
		INSERT INTO finpath.users (id, username, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP)
		RETURNING created_at`
	user.ID = uuid.New()
	err := r.db.QueryRow(query, user.ID, user.Username, user.Email, user.PasswordHash).
		Scan(&user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByEmail retrieves a user by email
func (r *Repository) FindUserByEmail(email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, password_hash, created_at
		FROM finpath.users
		WHERE email = $1`
	err := r.db.QueryRow(query, email).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// TouchLastLogin records a successful login.
func (r *Repository) TouchLastLogin(userID uuid.UUID) error {
	if _, err := r.db.Exec(`UPDATE finpath.users SET last_login = CURRENT_TIMESTAMP WHERE id = $1`, userID); err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// SaveProfile upserts a named financial profile for a user. The profile
// document is stored as JSON; the engines never read it back mutated.
func (r *Repository) SaveProfile(userID uuid.UUID, profile *models.FinancialProfile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	doc, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	query := `
		INSERT INTO finpath.financial_profiles (id, user_id, name, profile_data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id, name) DO UPDATE
		SET profile_data = EXCLUDED.profile_data, updated_at = CURRENT_TIMESTAMP
		RETURNING id`
	if err := r.db.QueryRow(query, profile.ID, userID, profile.Name, doc).Scan(&profile.ID); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// GetProfile loads one stored profile owned by the user.
func (r *Repository) GetProfile(userID, profileID uuid.UUID) (*models.FinancialProfile, error) {
	var doc []byte
	query := `
		SELECT profile_data
		FROM finpath.financial_profiles
		WHERE id = $1 AND user_id = $2`
	err := r.db.QueryRow(query, profileID, userID).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("profile not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	profile := &models.FinancialProfile{}
	if err := json.Unmarshal(doc, profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	profile.ID = profileID
	return profile, nil
}

// ListProfiles returns the user's stored profiles, newest first.
func (r *Repository) ListProfiles(userID uuid.UUID) ([]models.FinancialProfile, error) {
	query := `
		SELECT id, profile_data, created_at
		FROM finpath.financial_profiles
		WHERE user_id = $1
		ORDER BY updated_at DESC`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.FinancialProfile
	for rows.Next() {
		var (
			id        uuid.UUID
			doc       []byte
			createdAt time.Time
		)
		if err := rows.Scan(&id, &doc, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		var profile models.FinancialProfile
		if err := json.Unmarshal(doc, &profile); err != nil {
			return nil, fmt.Errorf("failed to decode profile: %w", err)
		}
		profile.ID = id
		profile.CreatedAt = createdAt
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profiles: %w", err)
	}
	return profiles, nil
}

// UpsertAchievement records an earned badge once per user and code.
func (r *Repository) UpsertAchievement(a *models.Achievement) error {
	query := `
		INSERT INTO finpath.achievements (id, user_id, code, title, description, level, achieved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, code) DO NOTHING`
	if _, err := r.db.Exec(query, a.ID, a.UserID, a.Code, a.Title, a.Description, a.Level, a.AchievedAt); err != nil {
		return fmt.Errorf("failed to save achievement: %w", err)
	}
	return nil
}

// ListAchievements returns every badge the user has earned.
func (r *Repository) ListAchievements(userID uuid.UUID) ([]models.Achievement, error) {
	query := `
		SELECT id, user_id, code, title, description, level, achieved_at
		FROM finpath.achievements
		WHERE user_id = $1
		ORDER BY achieved_at`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	defer rows.Close()

	var out []models.Achievement
	for rows.Next() {
		var a models.Achievement
		if err := rows.Scan(&a.ID, &a.UserID, &a.Code, &a.Title, &a.Description, &a.Level, &a.AchievedAt); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate achievements: %w", err)
	}
	return out, nil
}
