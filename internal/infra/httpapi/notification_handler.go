package httpapi

import (
	"context"
	"errors"
	"net/http"

	"study_plan_notifier/internal/app"
)

func (h *Handler) SendPlanCreation(w http.ResponseWriter, r *http.Request) {
	h.sendPlanEmail(w, r, h.notificationService.SendPlanCreation, "Failed to send plan creation email.")
}

func (h *Handler) SendPlanCompletion(w http.ResponseWriter, r *http.Request) {
	h.sendPlanEmail(w, r, h.notificationService.SendPlanCompletion, "Failed to send plan completion email.")
}

func (h *Handler) sendPlanEmail(
	w http.ResponseWriter,
	r *http.Request,
	send func(context.Context, app.PlanEmailRequest) error,
	failureMessage string,
) {
	var req app.PlanEmailRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := send(r.Context(), req); err != nil {
		var validationErr *app.ValidationError
		if errors.As(err, &validationErr) {
			writeError(w, http.StatusBadRequest, validationErr.Message)
			return
		}
		h.logger.WithError(err).Error(failureMessage)
		writeFailure(w, failureMessage)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
