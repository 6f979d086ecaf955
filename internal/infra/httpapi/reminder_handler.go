package httpapi

import (
	"errors"
	"net/http"

	"study_plan_notifier/internal/app"
)

type missedDayRequest struct {
	UserID string `json:"userId"`
	PlanID string `json:"planId"`
}

func (h *Handler) SendMissedDayReminder(w http.ResponseWriter, r *http.Request) {
	var req missedDayRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	outcome, err := h.reminderService.EvaluateMissedDay(r.Context(), req.UserID, req.PlanID)
	if err != nil {
		var validationErr *app.ValidationError
		var notFoundErr *app.NotFoundError
		switch {
		case errors.As(err, &validationErr):
			writeError(w, http.StatusBadRequest, validationErr.Message)
		case errors.As(err, &notFoundErr):
			writeError(w, http.StatusNotFound, notFoundErr.Message)
		default:
			h.logger.WithError(err).WithField("plan_id", req.PlanID).Error("Send missed day reminder error")
			writeFailure(w, "Failed to process reminder.")
		}
		return
	}

	if outcome.Sent() {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": outcome.Message(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": outcome.Message(),
	})
}
