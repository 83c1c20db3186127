package get_resource_schedule

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBookingService/internal/service/resources"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/resources/models"
	"github.com/m04kA/SMC-CourtBookingService/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) GetSchedule(ctx context.Context, id string) (*models.ScheduleResponse, error) {
	args := m.Called(ctx, id)
	if resp := args.Get(0); resp != nil {
		return resp.(*models.ScheduleResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func get(s ResourceService, id string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/resources/{resourceId}/schedule", NewHandler(s, logger.NewNop()).Handle)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/resources/"+id+"/schedule", nil))
	return rec
}

func TestHandle(t *testing.T) {
	s := &mockService{}
	s.On("GetSchedule", mock.Anything, "court-1").Return(&models.ScheduleResponse{
		OpenTime:            "08:00",
		CloseTime:           "23:00",
		SlotDurationMinutes: 60,
		AvailableDays:       []int{1, 2, 3, 4, 5, 6},
		BlockedSlots:        []models.BlockedSlotDTO{{Day: 2, Time: "14:00"}},
	}, nil)
	s.On("GetSchedule", mock.Anything, "missing").Return(nil, resources.ErrResourceNotFound)
	s.On("GetSchedule", mock.Anything, "broken").Return(nil, errors.New("db down"))

	rec := get(s, "court-1")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.ScheduleResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "08:00", resp.OpenTime)
	assert.Equal(t, []models.BlockedSlotDTO{{Day: 2, Time: "14:00"}}, resp.BlockedSlots)

	assert.Equal(t, http.StatusNotFound, get(s, "missing").Code)
	assert.Equal(t, http.StatusInternalServerError, get(s, "broken").Code)
}
