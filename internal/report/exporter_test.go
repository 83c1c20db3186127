package report

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/reservation"
	resourceRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/resource"
	"github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/storagetest"
	"github.com/m04kA/SMC-CourtBookingService/pkg/logger"
	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

func newExporter(t *testing.T) (*Exporter, *reservationRepo.Repository) {
	t.Helper()

	db, qb := storagetest.OpenSQLite(t)
	resources := resourceRepo.NewRepository(db, qb)
	reservations := reservationRepo.NewRepository(db, qb, time.UTC)

	require.NoError(t, resources.Upsert(context.Background(), &domain.Resource{
		ID:         "court-1",
		Name:       "Cancha 1",
		HourlyRate: 800,
		Available:  true,
		Schedule:   domain.DefaultSchedule(),
	}))

	return NewExporter(resources, reservations, logger.NewNop()), reservations
}

func seed(t *testing.T, repo *reservationRepo.Repository, code string, date time.Time, start, end string) *domain.Reservation {
	t.Helper()

	r, err := repo.Create(context.Background(), &domain.Reservation{
		ConfirmationCode: code,
		ResourceID:       "court-1",
		Date:             date,
		StartTime:        types.TimeString(start),
		EndTime:          types.TimeString(end),
		Status:           domain.StatusConfirmed,
		TotalPrice:       800,
		Customer:         domain.Customer{Name: "Ana", Email: "ana@example.com", Phone: "099123456"},
		Guests:           4,
		Notes:            "cumpleaños",
	})
	require.NoError(t, err)
	return r
}

func TestExporter_Export(t *testing.T) {
	e, repo := newExporter(t)
	ctx := context.Background()
	d1 := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC)
	seed(t, repo, "RES-2-BBBBBB", d2, "10:00", "11:00")
	seed(t, repo, "RES-1-AAAAAA", d1, "18:00", "19:00")

	var buf bytes.Buffer
	n, err := e.Export(ctx, &Request{ResourceID: "court-1"}, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, columns, rows[0])
	assert.Equal(t, "RES-1-AAAAAA", rows[1][0])
	assert.Equal(t, "2025-01-10", rows[1][1])
	assert.Equal(t, "18:00", rows[1][2])
	assert.Equal(t, "800", rows[1][9])
	assert.Equal(t, "cumpleaños", rows[1][11])
	assert.Equal(t, "RES-2-BBBBBB", rows[2][0])
}

func TestExporter_Export_Range(t *testing.T) {
	e, repo := newExporter(t)
	d1 := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC)
	seed(t, repo, "RES-1-AAAAAA", d1, "18:00", "19:00")
	seed(t, repo, "RES-2-BBBBBB", d2, "10:00", "11:00")

	var buf bytes.Buffer
	n, err := e.Export(context.Background(), &Request{ResourceID: "court-1", From: &d2, To: &d2}, &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = e.Export(context.Background(), &Request{ResourceID: "court-1", From: &d2, To: &d1}, &buf)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestExporter_Export_UnknownResource(t *testing.T) {
	e, _ := newExporter(t)

	var buf bytes.Buffer
	_, err := e.Export(context.Background(), &Request{ResourceID: "missing"}, &buf)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, buf.Len())
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "reservas-court-1-2025-01-10.xlsx",
		FileName("court-1", time.Date(2025, 1, 10, 15, 0, 0, 0, time.UTC)))
}
