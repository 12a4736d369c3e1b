package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/finpath/finpath/internal/models"
	"github.com/finpath/finpath/internal/service"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// statusFor maps engine failures onto HTTP codes. Invalid profiles are
// the caller's fault; everything else is internal.
func statusFor(err error) int {
	if errors.Is(err, models.ErrInvalidProfile) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "username, email and password are required")
		return
	}

	user, err := h.svc.Register(req.Username, req.Email, req.Password)
	if err != nil {
		respondError(w, http.StatusConflict, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.svc.Login(req.Email, req.Password)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// CreateProfile stores a financial profile for the authenticated user.
func (h *Handler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var profile models.FinancialProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	saved, err := h.svc.SaveProfile(r.Context(), profile)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, saved)
}

// ListProfiles returns the authenticated user's stored profiles.
func (h *Handler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.svc.ListProfiles(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, profiles)
}

// GetProfile returns one stored profile by ID.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profileID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid profile id")
		return
	}

	profile, err := h.svc.GetProfile(r.Context(), profileID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// Assess scores the profile in the request body.
func (h *Handler) Assess(w http.ResponseWriter, r *http.Request) {
	var profile models.FinancialProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	assessment, err := h.svc.AssessProfile(r.Context(), profile)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	resp := map[string]any{
		"score":           assessment.Score,
		"issues":          assessment.Issues,
		"recommendations": assessment.Recommendations,
	}
	// Attach the refinancing benchmark when the upstream client is up.
	if rate, err := h.svc.BenchmarkRate(r.Context()); err == nil {
		resp["benchmark_rate"] = rate
	}
	respondJSON(w, http.StatusOK, resp)
}

// Simulate projects the profile in the request body over both behavioral
// paths. The horizon_months query parameter overrides the 60-month
// default.
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	var profile models.FinancialProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	horizon := 0
	if v := r.URL.Query().Get("horizon_months"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid horizon_months")
			return
		}
		horizon = parsed
	}

	result, err := h.svc.SimulateProfile(r.Context(), profile, horizon)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Achievements evaluates badges for the profile in the body and returns
// the user's full badge list.
func (h *Handler) Achievements(w http.ResponseWriter, r *http.Request) {
	var profile models.FinancialProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	earned, err := h.svc.EvaluateAchievements(r.Context(), profile)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, earned)
}

// EmailReport mails an assessment report for the profile in the body.
func (h *Handler) EmailReport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		To            string                  `json:"to"`
		Username      string                  `json:"username"`
		HorizonMonths int                     `json:"horizon_months"`
		Profile       models.FinancialProfile `json:"profile"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.To == "" {
		respondError(w, http.StatusBadRequest, "recipient address is required")
		return
	}

	if err := h.svc.EmailReport(r.Context(), req.To, req.Username, req.Profile, req.HorizonMonths); err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
}

// BenchmarkRate returns the cached central-bank key rate.
func (h *Handler) BenchmarkRate(w http.ResponseWriter, r *http.Request) {
	rate, err := h.svc.BenchmarkRate(r.Context())
	if err != nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"key_rate": rate})
}
