package get_availability

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	getAvailability "github.com/m04kA/SMC-CourtBookingService/internal/usecase/get_availability"
	"github.com/m04kA/SMC-CourtBookingService/pkg/logger"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *getAvailability.Request) (*getAvailability.Response, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*getAvailability.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

func serve(uc GetAvailabilityUseCase, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/resources/{resourceId}/availability", NewHandler(uc, logger.NewNop()).Handle)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandle_OK(t *testing.T) {
	day := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(r *getAvailability.Request) bool {
		return r.ResourceID == "court-1" && r.From != nil && r.From.Equal(day) && r.To == nil
	})).Return(&getAvailability.Response{
		ResourceID: "court-1",
		From:       day,
		To:         day,
		Slots: []getAvailability.Slot{
			{Date: day, StartTime: "18:00", EndTime: "19:00"},
			{Date: day, StartTime: "20:00", EndTime: "21:00"},
		},
	}, nil)

	rec := serve(uc, "/api/v1/resources/court-1/availability?from=2025-01-10")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp AvailabilityResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "2025-01-10", resp.From)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, AvailableSlot{Date: "2025-01-10", StartTime: "18:00", EndTime: "19:00"}, resp.Slots[0])
	uc.AssertExpectations(t)
}

func TestHandle_EmptySlotsIsArray(t *testing.T) {
	day := time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC)
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.Anything).Return(&getAvailability.Response{
		ResourceID: "court-1", From: day, To: day,
	}, nil)

	rec := serve(uc, "/api/v1/resources/court-1/availability")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"slots":[]`)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		reason string
	}{
		{"not found", getAvailability.ErrResourceNotFound, http.StatusNotFound, ""},
		{"inverted range", domain.NewValidationError(domain.ReasonInvertedRange, "to before from"), http.StatusBadRequest, "inverted-range"},
		{"range too long", domain.NewValidationError(domain.ReasonRangeTooLong, "too long"), http.StatusBadRequest, "range-too-long"},
		{"internal", getAvailability.ErrInternal, http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := serve(uc, "/api/v1/resources/court-1/availability")

			assert.Equal(t, tt.status, rec.Code)
			var body handlers.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.reason, body.Reason)
		})
	}
}

func TestHandle_InvalidDate(t *testing.T) {
	uc := &mockUseCase{}
	rec := serve(uc, "/api/v1/resources/court-1/availability?to=tomorrow")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}
