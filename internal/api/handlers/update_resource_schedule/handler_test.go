package update_resource_schedule

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	resourceRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/resource"
	"github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/storagetest"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/resources"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/resources/models"
	"github.com/m04kA/SMC-CourtBookingService/pkg/logger"
	"github.com/m04kA/SMC-CourtBookingService/pkg/txmanager"
)

func newRouter(t *testing.T) *mux.Router {
	t.Helper()

	db, qb := storagetest.OpenSQLite(t)
	repo := resourceRepo.NewRepository(db, qb)
	require.NoError(t, repo.Upsert(context.Background(), &domain.Resource{
		ID:         "court-1",
		Name:       "Cancha 1",
		HourlyRate: 800,
		Available:  true,
		Schedule:   domain.DefaultSchedule(),
	}))

	svc := resources.NewService(repo, txmanager.NewTransactionManager(db), logger.NewNop())
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/resources/{resourceId}/schedule", NewHandler(svc, logger.NewNop()).Handle).
		Methods(http.MethodPut)
	return r
}

func put(r http.Handler, id, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/v1/resources/"+id+"/schedule", strings.NewReader(body)))
	return rec
}

func TestHandle_Updates(t *testing.T) {
	r := newRouter(t)

	rec := put(r, "court-1", `{"closeTime":"21:00","availableDays":[0,6],"blockedSlots":[{"day":6,"time":"10:00"}]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.ScheduleResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "08:00", resp.OpenTime)
	assert.Equal(t, "21:00", resp.CloseTime)
	assert.Equal(t, []int{0, 6}, resp.AvailableDays)
	assert.Equal(t, []models.BlockedSlotDTO{{Day: 6, Time: "10:00"}}, resp.BlockedSlots)
}

func TestHandle_Errors(t *testing.T) {
	r := newRouter(t)

	tests := []struct {
		name   string
		id     string
		body   string
		status int
		reason string
	}{
		{"malformed json", "court-1", `{`, http.StatusBadRequest, "invalid-input"},
		{"unknown field", "court-1", `{"lunch":"13:00"}`, http.StatusBadRequest, "invalid-input"},
		{"empty patch", "court-1", `{}`, http.StatusBadRequest, "invalid-input"},
		{"bad time", "court-1", `{"openTime":"8"}`, http.StatusBadRequest, "invalid-time"},
		{"invalid schedule", "court-1", `{"slotDurationMinutes":5}`, http.StatusBadRequest, "invalid-schedule"},
		{"unknown resource", "missing", `{"slotDurationMinutes":30}`, http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := put(r, tt.id, tt.body)

			assert.Equal(t, tt.status, rec.Code)
			var body handlers.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.reason, body.Reason)
		})
	}
}
