package export_reservations

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CourtBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/report"
)

const (
	msgInvalidParams    = "Parámetros de exportación inválidos"
	msgResourceNotFound = "Recurso no encontrado"

	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time { return time.Now() }

type Handler struct {
	exporter     Exporter
	timeProvider TimeProvider
	logger       Logger
}

func NewHandler(exporter Exporter, logger Logger) *Handler {
	return &Handler{
		exporter:     exporter,
		timeProvider: realTimeProvider{},
		logger:       logger,
	}
}

// Handle GET /api/v1/resources/{resourceId}/reservations/export
// Query params: from, to, includeCancelled (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resourceID := mux.Vars(r)["resourceId"]
	q := r.URL.Query()

	from, err := handlers.ParseDate(q.Get("from"))
	if err != nil {
		h.logger.Warn("GET /resources/{id}/reservations/export - Invalid from: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}
	to, err := handlers.ParseDate(q.Get("to"))
	if err != nil {
		h.logger.Warn("GET /resources/{id}/reservations/export - Invalid to: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}
	includeCancelled, err := handlers.ParseBool(q.Get("includeCancelled"))
	if err != nil {
		h.logger.Warn("GET /resources/{id}/reservations/export - Invalid includeCancelled: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	req := &report.Request{ResourceID: resourceID, From: from, To: to}
	if includeCancelled != nil {
		req.IncludeCancelled = *includeCancelled
	}

	// Книга собирается в буфер: при ошибке заголовки ещё не отправлены
	var buf bytes.Buffer
	count, err := h.exporter.Export(r.Context(), req, &buf)
	if err != nil {
		switch {
		case errors.Is(err, report.ErrResourceNotFound):
			h.logger.Warn("GET /resources/{id}/reservations/export - Resource not found: resource_id=%s", resourceID)
			handlers.RespondDomainError(w, err, msgResourceNotFound)

		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("GET /resources/{id}/reservations/export - Invalid request: %v", err)
			handlers.RespondDomainError(w, err, "")

		default:
			h.logger.Error("GET /resources/{id}/reservations/export - Failed to export: resource_id=%s, error=%v",
				resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	w.Header().Set("Content-Type", contentTypeXLSX)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", report.FileName(resourceID, h.timeProvider.Now())))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Error("GET /resources/{id}/reservations/export - Failed to write response: %v", err)
		return
	}

	h.logger.Info("GET /resources/{id}/reservations/export - Exported %d reservations: resource_id=%s",
		count, resourceID)
}
