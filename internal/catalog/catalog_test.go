package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	resourceRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/resource"
	"github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/storagetest"
	"github.com/m04kA/SMC-CourtBookingService/pkg/logger"
	"github.com/m04kA/SMC-CourtBookingService/pkg/txmanager"
)

const sample = `
defaults:
  schedule:
    open_time: "09:00"
    close_time: "22:00"
    slot_duration_minutes: 60
    available_days: [1, 2, 3, 4, 5, 6, 0]

resources:
  - id: court-1
    name: Cancha 1
    sport: "Fútbol 5"
    capacity: 10
    hourly_rate: 800
    amenities: [Vestuarios, Iluminación]
    schedule:
      close_time: "23:00"
      blocked_slots:
        - { day: 2, time: "14:00" }
  - id: court-2
    name: Tenis 1
    sport: Tenis
    hourly_rate: 600
    available: false
`

func TestParse_MergesDefaults(t *testing.T) {
	c, err := Parse([]byte(sample))
	require.NoError(t, err)

	resources, err := c.Resources()
	require.NoError(t, err)
	require.Len(t, resources, 2)

	first := resources[0]
	assert.Equal(t, "court-1", first.ID)
	assert.Equal(t, domain.SportFootball5, first.Sport)
	assert.True(t, first.Available)
	assert.Equal(t, "09:00", first.Schedule.OpenTime.String())
	assert.Equal(t, "23:00", first.Schedule.CloseTime.String())
	assert.Len(t, first.Schedule.AvailableDays, 7)
	assert.Equal(t, time.Sunday, first.Schedule.AvailableDays[0], "days are sorted")
	assert.True(t, first.Schedule.Blocked.Contains(time.Tuesday, "14:00"))

	second := resources[1]
	assert.False(t, second.Available)
	assert.Equal(t, "22:00", second.Schedule.CloseTime.String())
	assert.Equal(t, 0, second.Schedule.Blocked.Len())
}

func TestResources_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "empty", yaml: "resources: []"},
		{name: "duplicate id", yaml: "resources:\n  - {id: a, name: A}\n  - {id: a, name: B}"},
		{name: "unknown sport", yaml: "resources:\n  - {id: a, name: A, sport: Curling}"},
		{name: "bad time", yaml: "resources:\n  - {id: a, name: A, schedule: {open_time: '8am'}}"},
		{name: "open after close", yaml: "resources:\n  - {id: a, name: A, schedule: {open_time: '23:30'}}"},
		{name: "missing name", yaml: "resources:\n  - {id: a}"},
		{name: "blocked slot outside hours", yaml: "resources:\n  - {id: a, name: A, schedule: {blocked_slots: [{day: 1, time: '23:00'}]}}"},
		{name: "blocked slot on closed day", yaml: "resources:\n  - {id: a, name: A, schedule: {available_days: [1], blocked_slots: [{day: 2, time: '10:00'}]}}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)

			_, err = c.Resources()
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, ErrLoad)

	_, err = Parse([]byte("resources: [unterminated"))
	assert.ErrorIs(t, err, ErrLoad)
}

func TestSyncer_SyncFile(t *testing.T) {
	db, qb := storagetest.OpenSQLite(t)
	repo := resourceRepo.NewRepository(db, qb)
	ctx := context.Background()

	// ресурс, которого нет в каталоге, должен стать недоступным
	require.NoError(t, repo.Upsert(ctx, &domain.Resource{
		ID:        "legacy",
		Name:      "Vieja cancha",
		Available: true,
		Schedule:  domain.DefaultSchedule(),
	}))

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	syncer := NewSyncer(repo, txmanager.NewTransactionManager(db), logger.NewNop())
	require.NoError(t, syncer.SyncFile(ctx, path))

	court, err := repo.GetByID(ctx, "court-1")
	require.NoError(t, err)
	assert.Equal(t, int64(800), court.HourlyRate)
	assert.True(t, court.Schedule.Blocked.Contains(time.Tuesday, "14:00"))

	legacy, err := repo.GetByID(ctx, "legacy")
	require.NoError(t, err)
	assert.False(t, legacy.Available)

	// повторная синхронизация идемпотентна
	require.NoError(t, syncer.SyncFile(ctx, path))
	all, err := repo.List(ctx, domain.ResourcesFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
