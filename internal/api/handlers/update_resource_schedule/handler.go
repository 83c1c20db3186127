package update_resource_schedule

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CourtBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/resources"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/resources/models"
)

const (
	msgInvalidRequestBody = "JSON inválido en el request"
	msgNotFound           = "Recurso no encontrado"
)

type Handler struct {
	service ResourceService
	logger  Logger
}

func NewHandler(service ResourceService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/resources/{resourceId}/schedule
// Доступно только владельцу (middleware.OwnerAuth)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resourceID := mux.Vars(r)["resourceId"]

	var req models.UpdateScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /resources/{id}/schedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	schedule, err := h.service.UpdateSchedule(r.Context(), resourceID, &req)
	if err != nil {
		switch {
		case errors.Is(err, resources.ErrResourceNotFound):
			h.logger.Warn("PUT /resources/{id}/schedule - Resource not found: resource_id=%s", resourceID)
			handlers.RespondDomainError(w, err, msgNotFound)

		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("PUT /resources/{id}/schedule - Invalid schedule: resource_id=%s, error=%v", resourceID, err)
			handlers.RespondDomainError(w, err, "")

		default:
			h.logger.Error("PUT /resources/{id}/schedule - Failed to update schedule: resource_id=%s, error=%v",
				resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /resources/{id}/schedule - Schedule updated successfully: resource_id=%s", resourceID)
	handlers.RespondJSON(w, http.StatusOK, schedule)
}
