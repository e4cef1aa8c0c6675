package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/bmcallister/trade-journal/internal/analytics"
	"github.com/bmcallister/trade-journal/internal/auth"
	"github.com/bmcallister/trade-journal/internal/database"
	"github.com/bmcallister/trade-journal/internal/models"
)

// Store is the persistence surface the handlers depend on.
// *database.DB satisfies it.
type Store interface {
	CreateUser(email, passwordHash string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	CreateTrade(userID string, input *models.TradeInput) (*models.Trade, error)
	GetTradeByID(userID, id string) (*models.Trade, error)
	ListTrades(filter models.TradeFilter) ([]models.Trade, error)
	DeleteTrade(userID, id string) error
	ListStrategies() ([]models.TagOption, error)
	ListEmotions() ([]models.TagOption, error)
}

// EventPublisher publishes trade lifecycle events. *kafka.Producer
// satisfies it.
type EventPublisher interface {
	PublishTradeCreated(ctx context.Context, trade *models.Trade) error
	PublishTradeDeleted(ctx context.Context, userID, tradeID string) error
}

// SessionStore issues and resolves session tokens. *auth.SessionStore
// satisfies it.
type SessionStore interface {
	Create(ctx context.Context, userID string) (string, error)
	Get(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	db            Store
	producer      EventPublisher
	sessions      SessionStore
	thresholds    analytics.RiskThresholds
	dashboardDays int
}

// NewHandler creates a new Handler. dashboardDays is the default
// analysis window for the dashboard endpoints when the request does
// not pass ?days=.
func NewHandler(db Store, producer EventPublisher, sessions SessionStore, thresholds analytics.RiskThresholds, dashboardDays int) *Handler {
	return &Handler{
		db:            db,
		producer:      producer,
		sessions:      sessions,
		thresholds:    thresholds,
		dashboardDays: dashboardDays,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Signup handles POST /auth/signup
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if !strings.Contains(req.Email, "@") {
		http.Error(w, "a valid email is required", http.StatusBadRequest)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.db.CreateUser(req.Email, hash)
	if err != nil {
		if errors.Is(err, database.ErrDuplicateEmail) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	token, err := h.sessions.Create(r.Context(), user.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusCreated, sessionResponse{Token: token, User: user})
}

// Login handles POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.db.GetUserByEmail(req.Email)
	if err != nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		http.Error(w, "invalid email or password", http.StatusUnauthorized)
		return
	}

	token, err := h.sessions.Create(r.Context(), user.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, sessionResponse{Token: token, User: user})
}

// Logout handles POST /auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := bearerToken(r); token != "" {
		if err := h.sessions.Delete(r.Context(), token); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListTrades handles GET /trades. The response pairs the trade page
// with a per-trade consecutive-loss count so the journal list can
// badge streaks without a second request.
func (h *Handler) ListTrades(w http.ResponseWriter, r *http.Request) {
	filter, err := parseTradeFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	filter.UserID = userIDFrom(r.Context())

	trades, err := h.db.ListTrades(filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if trades == nil {
		trades = []models.Trade{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"trades":       trades,
		"loss_streaks": analytics.BuildLossStreakMap(trades),
	})
}

// CreateTrade handles POST /trades
func (h *Handler) CreateTrade(w http.ResponseWriter, r *http.Request) {
	var input models.TradeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	input.Symbol = strings.ToUpper(strings.TrimSpace(input.Symbol))
	if input.Symbol == "" {
		http.Error(w, "symbol is required", http.StatusBadRequest)
		return
	}
	if input.Direction != "" && !models.ValidDirection(input.Direction) {
		http.Error(w, "direction must be long or short", http.StatusBadRequest)
		return
	}
	if err := validateNonNegative(input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if input.EntryAt != nil && input.ExitAt != nil && input.ExitAt.Before(*input.EntryAt) {
		http.Error(w, "exit_at must not be before entry_at", http.StatusBadRequest)
		return
	}

	userID := userIDFrom(r.Context())
	trade, err := h.db.CreateTrade(userID, &input)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if h.producer != nil {
		if err := h.producer.PublishTradeCreated(r.Context(), trade); err != nil {
			log.Printf("Failed to publish trade created event: %v", err)
		}
	}

	respondJSON(w, http.StatusCreated, trade)
}

// GetTrade handles GET /trades/{id}
func (h *Handler) GetTrade(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	trade, err := h.db.GetTradeByID(userIDFrom(r.Context()), vars["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, trade)
}

// DeleteTrade handles DELETE /trades/{id}
func (h *Handler) DeleteTrade(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID := userIDFrom(r.Context())

	if err := h.db.DeleteTrade(userID, vars["id"]); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	if h.producer != nil {
		if err := h.producer.PublishTradeDeleted(r.Context(), userID, vars["id"]); err != nil {
			log.Printf("Failed to publish trade deleted event: %v", err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetOptions handles GET /options, returning the selectable strategy
// and emotion tags for the trade entry form.
func (h *Handler) GetOptions(w http.ResponseWriter, r *http.Request) {
	strategies, err := h.db.ListStrategies()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	emotions, err := h.db.ListEmotions()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if strategies == nil {
		strategies = []models.TagOption{}
	}
	if emotions == nil {
		emotions = []models.TagOption{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"strategies": strategies,
		"emotions":   emotions,
	})
}

// GetEquityCurve handles GET /dashboard/equity-curve
func (h *Handler) GetEquityCurve(w http.ResponseWriter, r *http.Request) {
	trades, days, ok := h.dashboardTrades(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"days":   days,
		"points": analytics.BuildEquityCurve(trades),
	})
}

// GetCumulativeRate handles GET /dashboard/cumulative-rate
func (h *Handler) GetCumulativeRate(w http.ResponseWriter, r *http.Request) {
	trades, days, ok := h.dashboardTrades(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"days":   days,
		"points": analytics.BuildCumulativeRateSeries(trades),
	})
}

// GetMonthlyWinRate handles GET /dashboard/monthly-win-rate
func (h *Handler) GetMonthlyWinRate(w http.ResponseWriter, r *http.Request) {
	trades, days, ok := h.dashboardTrades(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"days":   days,
		"points": analytics.BuildMonthlyWinRateSeries(trades),
	})
}

// GetRisk handles GET /dashboard/risk
func (h *Handler) GetRisk(w http.ResponseWriter, r *http.Request) {
	trades, days, ok := h.dashboardTrades(w, r)
	if !ok {
		return
	}

	summary := analytics.CalculateRiskSummary(trades, time.Now())
	alerts := analytics.EvaluateRiskAlerts(summary, h.thresholds)
	if alerts == nil {
		alerts = []analytics.RiskAlert{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"days":    days,
		"summary": summary,
		"alerts":  alerts,
	})
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// dashboardTrades loads the user's trades and narrows them to the
// requested window. On failure it writes the error response and
// returns ok=false.
func (h *Handler) dashboardTrades(w http.ResponseWriter, r *http.Request) ([]models.Trade, int, bool) {
	days := h.dashboardDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "days must be a positive integer", http.StatusBadRequest)
			return nil, 0, false
		}
		days = parsed
	}

	trades, err := h.db.ListTrades(models.TradeFilter{UserID: userIDFrom(r.Context())})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, 0, false
	}

	return analytics.FilterRecentDays(trades, days, time.Now()), days, true
}

// parseTradeFilter reads the optional listing filters from the query
// string. Dates accept RFC3339 or a plain YYYY-MM-DD.
func parseTradeFilter(r *http.Request) (models.TradeFilter, error) {
	var filter models.TradeFilter
	q := r.URL.Query()

	if direction := q.Get("direction"); direction != "" {
		if !models.ValidDirection(direction) {
			return filter, errors.New("direction must be long or short")
		}
		filter.Direction = direction
	}
	filter.Symbol = q.Get("symbol")

	if raw := q.Get("from"); raw != "" {
		t, err := parseDateParam(raw)
		if err != nil {
			return filter, errors.New("invalid from date")
		}
		filter.From = &t
	}
	if raw := q.Get("to"); raw != "" {
		t, err := parseDateParam(raw)
		if err != nil {
			return filter, errors.New("invalid to date")
		}
		filter.To = &t
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return filter, errors.New("limit must be a positive integer")
		}
		filter.Limit = limit
	}
	if raw := q.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return filter, errors.New("offset must be a non-negative integer")
		}
		filter.Offset = offset
	}

	return filter, nil
}

func parseDateParam(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

// validateNonNegative rejects negative prices and quantities. Prices
// are magnitudes; losses come out of the direction, not the sign.
func validateNonNegative(input models.TradeInput) error {
	if input.EntryPrice != nil && input.EntryPrice.IsNegative() {
		return errors.New("entry_price must not be negative")
	}
	if input.ExitPrice != nil && input.ExitPrice.IsNegative() {
		return errors.New("exit_price must not be negative")
	}
	if input.Quantity != nil && input.Quantity.IsNegative() {
		return errors.New("quantity must not be negative")
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
