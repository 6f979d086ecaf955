package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"study_plan_notifier/internal/app"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	reminderService     app.ReminderService
	notificationService app.NotificationService
	logger              *logrus.Entry
}

func NewHandler(
	reminderService app.ReminderService,
	notificationService app.NotificationService,
	logger *logrus.Entry,
) *Handler {
	return &Handler{
		reminderService:     reminderService,
		notificationService: notificationService,
		logger:              logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.HealthCheck)

	router.Route("/api", func(api chi.Router) {
		api.Post("/reminders/send-missed-day", h.SendMissedDayReminder)
		api.Post("/send-plan-creation", h.SendPlanCreation)
		api.Post("/send-plan-completion", h.SendPlanCompletion)
	})
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "study-plan-notifier",
		"timestamp": time.Now().UTC(),
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": message,
	})
}

func writeFailure(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
