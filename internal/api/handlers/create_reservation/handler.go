package create_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CourtBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	createReservation "github.com/m04kA/SMC-CourtBookingService/internal/usecase/create_reservation"
)

const (
	msgInvalidRequestBody = "JSON inválido en el request"
	msgResourceNotFound   = "Recurso no encontrado"
	msgPast               = "No podés reservar en el pasado"
	msgInvertedInterval   = "La hora de fin debe ser posterior a la de inicio"
	msgNotBookable        = "El horario seleccionado está fuera del horario de la cancha"
	msgSlotTaken          = "El horario seleccionado ya no está disponible"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /reservations - Failed to parse request: %v", err)
		handlers.RespondDomainError(w, err, "")
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createReservation.ErrResourceNotFound):
			h.logger.Warn("POST /reservations - Resource not found: resource_id=%s", req.ResourceID)
			handlers.RespondDomainError(w, err, msgResourceNotFound)

		case errors.Is(err, createReservation.ErrPast):
			h.logger.Warn("POST /reservations - Start in the past: resource_id=%s, date=%s, start=%s",
				req.ResourceID, req.Date, req.StartTime)
			handlers.RespondDomainError(w, err, msgPast)

		case errors.Is(err, createReservation.ErrInvertedInterval):
			h.logger.Warn("POST /reservations - Inverted interval: %s-%s", req.StartTime, req.EndTime)
			handlers.RespondDomainError(w, err, msgInvertedInterval)

		case errors.Is(err, createReservation.ErrNotBookable):
			h.logger.Warn("POST /reservations - Not bookable: resource_id=%s, date=%s, %s-%s",
				req.ResourceID, req.Date, req.StartTime, req.EndTime)
			handlers.RespondDomainError(w, err, msgNotBookable)

		case errors.Is(err, createReservation.ErrSlotTaken):
			h.logger.Warn("POST /reservations - Slot taken: resource_id=%s, date=%s, %s-%s",
				req.ResourceID, req.Date, req.StartTime, req.EndTime)
			handlers.RespondDomainError(w, err, msgSlotTaken)

		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("POST /reservations - Validation failed: %v", err)
			handlers.RespondDomainError(w, err, "")

		default:
			h.logger.Error("POST /reservations - Failed to create reservation: resource_id=%s, error=%v",
				req.ResourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("POST /reservations - Reservation created successfully: id=%s, code=%s, resource_id=%s",
		result.ID, result.ConfirmationCode, result.ResourceID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
