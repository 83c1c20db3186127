// Package handlers общие помощники HTTP-слоя: разбор тела запроса и формирование ответов.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

const (
	msgInternalError = "error interno del servidor"
	maxBodyBytes     = 1 << 20
)

// Виды ошибок, которых нет в domain
const (
	kindUnauthorized = "unauthorized"
	kindForbidden    = "forbidden"
	kindInternal     = "internal"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error  string `json:"error"`
	Kind   string `json:"kind"`
	Reason string `json:"reason,omitempty"`
}

// DecodeJSON декодирует тело запроса; неизвестные поля считаются ошибкой
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("empty request body")
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}

// RespondJSON отправляет JSON ответ
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// RespondError отправляет ошибку с явным видом и причиной
func RespondError(w http.ResponseWriter, status int, message, kind, reason string) {
	RespondJSON(w, status, ErrorResponse{Error: message, Kind: kind, Reason: reason})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message, string(domain.KindValidation), domain.ReasonInvalidInput)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message, string(domain.KindNotFound), "")
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message, kindUnauthorized, "")
}

func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message, kindForbidden, "")
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError, kindInternal, "")
}

// StatusFor HTTP-статус для вида ошибки
func StatusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindValidation, domain.KindAlreadyCancelled:
		return http.StatusBadRequest
	case domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// RespondDomainError отвечает по виду доменной ошибки; message заменяет текст ошибки, если не пуст.
// Возвращает false, если err не доменная ошибка и ответ не отправлен.
func RespondDomainError(w http.ResponseWriter, err error, message string) bool {
	de, ok := domain.AsError(err)
	if !ok {
		return false
	}
	if message == "" {
		message = de.Message
	}
	RespondError(w, StatusFor(de.Kind), message, string(de.Kind), de.Reason)
	return true
}

// ParseDate разбирает необязательный параметр даты YYYY-MM-DD
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(domain.DateFormat, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ParseBool разбирает необязательный булев параметр
func ParseBool(s string) (*bool, error) {
	if s == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
