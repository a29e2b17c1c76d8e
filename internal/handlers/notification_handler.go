package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Dias221467/Solace_Notifications/internal/models"
	"github.com/Dias221467/Solace_Notifications/internal/services"
	"github.com/Dias221467/Solace_Notifications/pkg/logger"
)

// DeliveryHistory lists recently fired notifications.
type DeliveryHistory interface {
	Recent(ctx context.Context, limit int64) ([]models.DeliveryRecord, error)
}

const defaultHistoryLimit = 50

type NotificationHandler struct {
	Service *services.NotificationService
	History DeliveryHistory
}

// NewNotificationHandler builds the handler. history may be nil when the
// store keeps no delivery history.
func NewNotificationHandler(service *services.NotificationService, history DeliveryHistory) *NotificationHandler {
	return &NotificationHandler{Service: service, History: history}
}

type therapySessionRequest struct {
	SessionTime time.Time             `json:"session_time"`
	Session     models.SessionDetails `json:"session"`
}

type crisisCheckInRequest struct {
	CrisisTime time.Time `json:"crisis_time"`
}

type interactionRequest struct {
	Notification models.ScheduledNotification `json:"notification"`
	ActionType   models.ActionType            `json:"action_type"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.WithError(err).Warn("Failed to encode response")
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotInitialized):
		http.Error(w, "Notifications are not initialized", http.StatusConflict)
	case errors.Is(err, models.ErrInvalidCategory):
		http.Error(w, "Invalid notification category", http.StatusBadRequest)
	default:
		http.Error(w, "Request failed", http.StatusBadRequest)
	}
}

// POST /notifications/initialize
func (h *NotificationHandler) InitializeHandler(w http.ResponseWriter, r *http.Request) {
	result := h.Service.Initialize(r.Context())
	writeJSON(w, http.StatusOK, result)
}

// GET /notifications/preferences
func (h *NotificationHandler) GetPreferencesHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Service.Preferences())
}

// PATCH /notifications/preferences
func (h *NotificationHandler) UpdatePreferencesHandler(w http.ResponseWriter, r *http.Request) {
	var patch models.PreferencesPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	prefs, err := h.Service.SavePreferences(r.Context(), patch)
	if err != nil {
		logger.Log.WithError(err).Error("Preferences were not saved durably")
		http.Error(w, "Failed to save preferences", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

// POST /notifications/therapy-sessions
func (h *NotificationHandler) ScheduleTherapySessionHandler(w http.ResponseWriter, r *http.Request) {
	var req therapySessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionTime.IsZero() {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	count, err := h.Service.ScheduleTherapySessionReminder(r.Context(), req.SessionTime, req.Session)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"scheduled": count})
}

// POST /notifications/crisis-checkins
func (h *NotificationHandler) ScheduleCrisisCheckInHandler(w http.ResponseWriter, r *http.Request) {
	var req crisisCheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CrisisTime.IsZero() {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	ok, err := h.Service.ScheduleCrisisCheckIn(r.Context(), req.CrisisTime)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"scheduled": ok})
}

// POST /notifications/celebrations
func (h *NotificationHandler) ScheduleCelebrationHandler(w http.ResponseWriter, r *http.Request) {
	var milestone models.Milestone
	if err := json.NewDecoder(r.Body).Decode(&milestone); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	ok, err := h.Service.ScheduleProgressCelebration(r.Context(), milestone)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"scheduled": ok})
}

// POST /notifications/interactions
func (h *NotificationHandler) InteractionHandler(w http.ResponseWriter, r *http.Request) {
	var req interactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	route, err := h.Service.HandleNotificationInteraction(r.Context(), req.Notification, req.ActionType)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, route)
}

// GET /notifications/analytics?days=30
func (h *NotificationHandler) AnalyticsHandler(w http.ResponseWriter, r *http.Request) {
	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "Invalid days parameter", http.StatusBadRequest)
			return
		}
		days = parsed
	}
	writeJSON(w, http.StatusOK, h.Service.GetNotificationAnalytics(r.Context(), days))
}

// GET /notifications/scheduled
func (h *NotificationHandler) ScheduledHandler(w http.ResponseWriter, r *http.Request) {
	pending, err := h.Service.ScheduledNotifications(r.Context())
	if err != nil {
		logger.Log.WithError(err).Error("Failed to list scheduled notifications")
		http.Error(w, "Failed to list scheduled notifications", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, pending)
}

// GET /notifications/history?limit=50
func (h *NotificationHandler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	if h.History == nil {
		writeJSON(w, http.StatusOK, []models.DeliveryRecord{})
		return
	}

	limit := int64(defaultHistoryLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			http.Error(w, "Invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	records, err := h.History.Recent(r.Context(), limit)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to load delivery history")
		http.Error(w, "Failed to load delivery history", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, records)
}
