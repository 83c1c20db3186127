package list_resources

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CourtBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/resources/models"
	"github.com/m04kA/SMC-CourtBookingService/pkg/ptr"
)

const msgInvalidParams = "Parámetros de búsqueda inválidos"

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

// Handle GET /api/v1/resources
// Query params: sport, available (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req := &models.ListResourcesRequest{}

	if sport := r.URL.Query().Get("sport"); sport != "" {
		req.Sport = ptr.Ptr(sport)
	}
	available, err := handlers.ParseBool(r.URL.Query().Get("available"))
	if err != nil {
		h.logger.Warn("GET /resources - Invalid available value: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}
	req.Available = available

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("GET /resources - Invalid parameters: %v", err)
			handlers.RespondDomainError(w, err, msgInvalidParams)

		default:
			h.logger.Error("GET /resources - Failed to list resources: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result.Resources)
}
