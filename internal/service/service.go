package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/finpath/finpath/internal/achievements"
	"github.com/finpath/finpath/internal/analyzer"
	"github.com/finpath/finpath/internal/cache"
	"github.com/finpath/finpath/internal/config"
	"github.com/finpath/finpath/internal/email"
	"github.com/finpath/finpath/internal/integrations/rates"
	"github.com/finpath/finpath/internal/middleware"
	"github.com/finpath/finpath/internal/models"
	"github.com/finpath/finpath/internal/repository"
	"github.com/finpath/finpath/internal/simulator"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const (
	assessmentCacheTTL = time.Hour
	keyRateCacheTTL    = 24 * time.Hour
	keyRateCacheKey    = "benchmark:key_rate"
)

// Service handles business logic
type Service struct {
	repo   *repository.Repository
	log    *logrus.Logger
	config *config.Config
	cache  *cache.Cache
	rates  *rates.Client
	mailer *email.Sender
}

// NewService initializes a new service. The cache may be nil; every
// cached path falls back to direct computation.
func NewService(repo *repository.Repository, log *logrus.Logger, cfg *config.Config, c *cache.Cache, rc *rates.Client, mailer *email.Sender) *Service {
	return &Service{repo: repo, log: log, config: cfg, cache: c, rates: rc, mailer: mailer}
}

// Register creates a new user with hashed password
func (s *Service) Register(username, email, password string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.repo.CreateUser(user); err != nil {
		return nil, err
	}

	s.log.Infof("User registered: %s", user.Email)
	return user, nil
}

// Login authenticates a user and returns a JWT token
func (s *Service) Login(email, password string) (string, error) {
	user, err := s.repo.FindUserByEmail(email)
	if err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	if err := s.repo.TouchLastLogin(user.ID); err != nil {
		s.log.Warnf("Failed to record login for %s: %v", user.Email, err)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return tokenString, nil
}

func userIDFromContext(ctx context.Context) (uuid.UUID, error) {
	idStr, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, fmt.Errorf("user ID not found in context")
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid user ID: %w", err)
	}
	return id, nil
}

// SaveProfile stores a named profile for the authenticated user.
func (s *Service) SaveProfile(ctx context.Context, profile models.FinancialProfile) (*models.FinancialProfile, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.SaveProfile(userID, &profile); err != nil {
		return nil, err
	}
	s.log.Infof("Profile %q saved for user %s", profile.Name, userID)
	return &profile, nil
}

// GetProfile loads one stored profile of the authenticated user.
func (s *Service) GetProfile(ctx context.Context, profileID uuid.UUID) (*models.FinancialProfile, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.GetProfile(userID, profileID)
}

// ListProfiles returns the authenticated user's stored profiles.
func (s *Service) ListProfiles(ctx context.Context) ([]models.FinancialProfile, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.ListProfiles(userID)
}

// AssessProfile scores a profile, memoizing the result by profile content
// so repeated calls with an unchanged profile skip recomputation.
func (s *Service) AssessProfile(ctx context.Context, profile models.FinancialProfile) (models.HealthAssessment, error) {
	key := assessmentCacheKey(profile)
	if s.cache != nil {
		var cached models.HealthAssessment
		found, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			s.log.Warnf("Assessment cache read failed: %v", err)
		} else if found {
			return cached, nil
		}
	}

	assessment, err := analyzer.Assess(profile)
	if err != nil {
		return models.HealthAssessment{}, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, assessment, assessmentCacheTTL); err != nil {
			s.log.Warnf("Assessment cache write failed: %v", err)
		}
	}
	s.log.WithFields(logrus.Fields{"score": assessment.Score, "issues": len(assessment.Issues)}).
		Info("Profile assessed")
	return assessment, nil
}

// SimulateProfile assesses a profile and projects both behavioral paths
// over the horizon.
func (s *Service) SimulateProfile(ctx context.Context, profile models.FinancialProfile, horizonMonths int) (models.SimulationResult, error) {
	assessment, err := s.AssessProfile(ctx, profile)
	if err != nil {
		return models.SimulationResult{}, err
	}
	result, err := simulator.Simulate(profile, assessment, horizonMonths)
	if err != nil {
		return models.SimulationResult{}, err
	}
	s.log.WithFields(logrus.Fields{
		"horizon":    result.HorizonMonths,
		"difference": result.NetWorthDifference.StringFixed(2),
	}).Info("Profile simulated")
	return result, nil
}

// BenchmarkRate returns the cached central-bank key rate, fetching it on
// a cache miss.
func (s *Service) BenchmarkRate(ctx context.Context) (decimal.Decimal, error) {
	if s.cache != nil {
		var cached decimal.Decimal
		found, err := s.cache.GetJSON(ctx, keyRateCacheKey, &cached)
		if err != nil {
			s.log.Warnf("Key rate cache read failed: %v", err)
		} else if found {
			return cached, nil
		}
	}
	return s.RefreshBenchmarkRate(ctx)
}

// RefreshBenchmarkRate fetches the key rate and rewrites the cache. The
// daily cron job calls this so request paths rarely pay for the fetch.
func (s *Service) RefreshBenchmarkRate(ctx context.Context) (decimal.Decimal, error) {
	rate, err := s.rates.KeyRate()
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to fetch key rate: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, keyRateCacheKey, rate, keyRateCacheTTL); err != nil {
			s.log.Warnf("Key rate cache write failed: %v", err)
		}
	}
	return rate, nil
}

// EvaluateAchievements assesses and simulates the profile, awards any
// newly earned badges, and returns the user's full badge list.
func (s *Service) EvaluateAchievements(ctx context.Context, profile models.FinancialProfile) ([]models.Achievement, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	assessment, err := s.AssessProfile(ctx, profile)
	if err != nil {
		return nil, err
	}
	result, err := simulator.Simulate(profile, assessment, simulator.DefaultHorizonMonths)
	if err != nil {
		return nil, err
	}

	for _, a := range achievements.Evaluate(userID, profile, assessment, result) {
		if err := s.repo.UpsertAchievement(&a); err != nil {
			return nil, err
		}
	}
	return s.repo.ListAchievements(userID)
}

// EmailReport assesses and simulates the profile and mails the summary
// to the given address.
func (s *Service) EmailReport(ctx context.Context, to, username string, profile models.FinancialProfile, horizonMonths int) error {
	assessment, err := s.AssessProfile(ctx, profile)
	if err != nil {
		return err
	}
	result, err := simulator.Simulate(profile, assessment, horizonMonths)
	if err != nil {
		return err
	}
	return s.mailer.SendAssessmentReport(to, username, assessment, result)
}

// assessmentCacheKey hashes the profile document so any change in the
// snapshot produces a fresh cache entry.
func assessmentCacheKey(profile models.FinancialProfile) string {
	doc, err := json.Marshal(profile)
	if err != nil {
		return "assessment:unkeyed"
	}
	sum := sha256.Sum256(doc)
	return "assessment:" + hex.EncodeToString(sum[:])
}
