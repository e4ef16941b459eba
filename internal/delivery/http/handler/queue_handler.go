package handler

import (
	"encoding/json"
	"net/http"

	"clinic-queue/internal/delivery/dto"
	"clinic-queue/internal/service"
	"clinic-queue/internal/usecase"
	"clinic-queue/pkg/response"
	"clinic-queue/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type QueueHandler struct {
	queueUsecase usecase.QueueUsecase
	slotUsecase  usecase.SlotUsecase
	validator    *validator.CustomValidator
}

func NewQueueHandler(queueUsecase usecase.QueueUsecase, slotUsecase usecase.SlotUsecase, validator *validator.CustomValidator) *QueueHandler {
	return &QueueHandler{
		queueUsecase: queueUsecase,
		slotUsecase:  slotUsecase,
		validator:    validator,
	}
}

// GetAvailableSlots returns remaining capacity for a date
func (h *QueueHandler) GetAvailableSlots(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")

	slots, err := h.slotUsecase.GetAvailableSlots(r.Context(), date)
	if err != nil {
		switch err {
		case usecase.ErrDateRequired, usecase.ErrInvalidDate:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		case usecase.ErrClosedDay:
			response.Error(w, http.StatusBadRequest, "Practice is closed on that day", nil)
		case usecase.ErrSettingsNotConfigured:
			response.InternalServerError(w, "Practice settings are not configured")
		default:
			response.InternalServerError(w, "Failed to get available slots")
		}
		return
	}

	response.Success(w, http.StatusOK, "Available slots retrieved successfully", slots)
}

// BookQueue creates a queue entry for the authenticated patient
func (h *QueueHandler) BookQueue(w http.ResponseWriter, r *http.Request) {
	var req dto.BookQueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	queue, err := h.queueUsecase.BookQueue(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidDate, usecase.ErrPastDate:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		case usecase.ErrClosedDay:
			response.Error(w, http.StatusBadRequest, "Practice is closed on that day", nil)
		case usecase.ErrDuplicateBooking:
			response.Error(w, http.StatusBadRequest, "You already have a queue on that date", nil)
		case usecase.ErrCapacityExceeded, service.ErrCapacityFull:
			response.Error(w, http.StatusBadRequest, "No slot remains for that date", nil)
		case usecase.ErrSettingsNotConfigured:
			response.InternalServerError(w, "Practice settings are not configured")
		default:
			response.InternalServerError(w, "Failed to book queue")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Queue booked successfully", dto.QueueDataResponse{Queue: queue})
}

// GetMyQueues returns the authenticated patient's queue history
func (h *QueueHandler) GetMyQueues(w http.ResponseWriter, r *http.Request) {
	queues, err := h.queueUsecase.GetMyQueues(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get queues")
		return
	}

	response.Success(w, http.StatusOK, "Queues retrieved successfully", queues)
}

// GetCurrentQueue returns today's board from the patient's perspective
func (h *QueueHandler) GetCurrentQueue(w http.ResponseWriter, r *http.Request) {
	current, err := h.queueUsecase.GetCurrentQueue(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get current queue")
		return
	}

	response.Success(w, http.StatusOK, "Current queue retrieved successfully", current)
}

// CancelQueue cancels the patient's own waiting queue
func (h *QueueHandler) CancelQueue(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	queueID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid queue ID", nil)
		return
	}

	err = h.queueUsecase.CancelQueue(r.Context(), queueID)
	if err != nil {
		switch err {
		case usecase.ErrQueueNotFound:
			response.NotFound(w, "Queue not found")
		case usecase.ErrCannotCancel:
			response.Error(w, http.StatusBadRequest, "Queue can no longer be cancelled", nil)
		case usecase.ErrCancelTooLate:
			response.Error(w, http.StatusBadRequest, "Same-day cancellation is closed once the practice opens", nil)
		default:
			response.InternalServerError(w, "Failed to cancel queue")
		}
		return
	}

	response.Success(w, http.StatusOK, "Queue cancelled successfully", nil)
}
