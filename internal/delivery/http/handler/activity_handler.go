package handler

import (
	"net/http"
	"strconv"

	"clinic-queue/internal/usecase"
	"clinic-queue/pkg/response"
)

type ActivityHandler struct {
	activityUsecase usecase.ActivityUsecase
}

func NewActivityHandler(activityUsecase usecase.ActivityUsecase) *ActivityHandler {
	return &ActivityHandler{
		activityUsecase: activityUsecase,
	}
}

// GetRecentActivities lists the newest activity log entries
func (h *ActivityHandler) GetRecentActivities(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			response.Error(w, http.StatusBadRequest, "Invalid limit parameter", nil)
			return
		}
		limit = parsed
	}

	activities, err := h.activityUsecase.GetRecentActivities(r.Context(), limit)
	if err != nil {
		response.InternalServerError(w, "Failed to get activities")
		return
	}

	response.Success(w, http.StatusOK, "Activities retrieved successfully", activities)
}

// GetActivityStats returns today's per-type activity counts
func (h *ActivityHandler) GetActivityStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.activityUsecase.GetActivityStats(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get activity stats")
		return
	}

	response.Success(w, http.StatusOK, "Activity stats retrieved successfully", stats)
}
