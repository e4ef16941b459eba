package handler

import (
	"encoding/json"
	"net/http"

	"clinic-queue/internal/delivery/dto"
	"clinic-queue/internal/usecase"
	"clinic-queue/pkg/response"
	"clinic-queue/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AdminQueueHandler struct {
	adminUsecase usecase.QueueAdminUsecase
	validator    *validator.CustomValidator
}

func NewAdminQueueHandler(adminUsecase usecase.QueueAdminUsecase, validator *validator.CustomValidator) *AdminQueueHandler {
	return &AdminQueueHandler{
		adminUsecase: adminUsecase,
		validator:    validator,
	}
}

// CallNext moves the lowest-numbered waiting queue into service
func (h *AdminQueueHandler) CallNext(w http.ResponseWriter, r *http.Request) {
	queue, err := h.adminUsecase.CallNext(r.Context())
	if err != nil {
		switch err {
		case usecase.ErrServiceInProgress:
			response.Error(w, http.StatusBadRequest, "A patient is already being served", nil)
		case usecase.ErrNoWaitingQueue:
			response.NotFound(w, "No waiting queue for today")
		default:
			response.InternalServerError(w, "Failed to call next queue")
		}
		return
	}

	response.Success(w, http.StatusOK, "Queue called successfully", dto.QueueDataResponse{Queue: queue})
}

// CompleteQueue marks the in-service queue as completed
func (h *AdminQueueHandler) CompleteQueue(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	queueID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid queue ID", nil)
		return
	}

	queue, err := h.adminUsecase.CompleteQueue(r.Context(), queueID)
	if err != nil {
		switch err {
		case usecase.ErrQueueNotFound:
			response.NotFound(w, "Queue not found")
		case usecase.ErrQueueNotInService:
			response.NotFound(w, "Queue is not in service")
		default:
			response.InternalServerError(w, "Failed to complete queue")
		}
		return
	}

	response.Success(w, http.StatusOK, "Queue completed successfully", dto.QueueDataResponse{Queue: queue})
}

// UpdateQueueStatus applies an explicit status transition
func (h *AdminQueueHandler) UpdateQueueStatus(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	queueID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid queue ID", nil)
		return
	}

	var req dto.UpdateQueueStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	queue, err := h.adminUsecase.UpdateQueueStatus(r.Context(), queueID, &req)
	if err != nil {
		switch err {
		case usecase.ErrQueueNotFound:
			response.NotFound(w, "Queue not found")
		case usecase.ErrInvalidStatus:
			response.Error(w, http.StatusBadRequest, "Invalid queue status", nil)
		case usecase.ErrInvalidTransition:
			response.Error(w, http.StatusBadRequest, "Status transition not allowed", nil)
		default:
			response.InternalServerError(w, "Failed to update queue status")
		}
		return
	}

	response.Success(w, http.StatusOK, "Queue status updated successfully", dto.QueueDataResponse{Queue: queue})
}

// GetQueuesByDate lists a day's queues with per-status stats
func (h *AdminQueueHandler) GetQueuesByDate(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")

	queues, err := h.adminUsecase.GetQueuesByDate(r.Context(), date)
	if err != nil {
		switch err {
		case usecase.ErrDateRequired, usecase.ErrInvalidDate:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to get queues")
		}
		return
	}

	response.Success(w, http.StatusOK, "Queues retrieved successfully", queues)
}
