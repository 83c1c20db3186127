package create_reservation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/infra/lock"
	reservationRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/reservation"
	resourceRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/resource"
	"github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/storagetest"
	"github.com/m04kA/SMC-CourtBookingService/internal/integrations/notifier"
	"github.com/m04kA/SMC-CourtBookingService/pkg/dberrors"
	"github.com/m04kA/SMC-CourtBookingService/pkg/logger"
	"github.com/m04kA/SMC-CourtBookingService/pkg/metrics"
	"github.com/m04kA/SMC-CourtBookingService/pkg/txmanager"
	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

var montevideo = time.FixedZone("UYT", -3*60*60)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeNotifier struct {
	mu   sync.Mutex
	sent []notifier.Notification
}

func (f *fakeNotifier) Dispatch(n notifier.Notification) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, n)
	return true
}

type env struct {
	uc           *UseCase
	reservations *reservationRepo.Repository
	resources    *resourceRepo.Repository
	notifier     *fakeNotifier
	metrics      *metrics.Metrics
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db, qb := storagetest.OpenSQLite(t)
	resources := resourceRepo.NewRepository(db, qb)
	reservations := reservationRepo.NewRepository(db, qb, montevideo)
	tm := txmanager.NewTransactionManager(db, txmanager.WithRetryClassifier(dberrors.IsSerializationFailure))

	schedule := domain.DefaultSchedule()
	schedule.Blocked = domain.NewBlockedSlots(domain.BlockedSlot{Weekday: time.Tuesday, Time: "14:00"})
	require.NoError(t, resources.Upsert(context.Background(), &domain.Resource{
		ID:         "court-1",
		Name:       "Cancha 1",
		Sport:      domain.SportFootball5,
		HourlyRate: 800,
		Available:  true,
		Schedule:   schedule,
	}))
	off := domain.DefaultSchedule()
	require.NoError(t, resources.Upsert(context.Background(), &domain.Resource{
		ID:         "court-off",
		Name:       "Cancha cerrada",
		HourlyRate: 800,
		Available:  false,
		Schedule:   off,
	}))

	n := &fakeNotifier{}
	m := metrics.New("test")
	uc := NewUseCase(resources, reservations, tm, lock.NewLocalLocker(), n, m, montevideo, logger.NewNop())
	// четверг 2025-01-09 12:00
	uc.timeProvider = fixedTime{now: time.Date(2025, 1, 9, 12, 0, 0, 0, montevideo)}

	return &env{uc: uc, reservations: reservations, resources: resources, notifier: n, metrics: m}
}

func request(date time.Time, start, end string) *Request {
	return &Request{
		ResourceID: "court-1",
		Date:       date,
		StartTime:  types.TimeString(start),
		EndTime:    types.TimeString(end),
		Customer: domain.Customer{
			Name:  " Ana ",
			Email: "Ana@Example.com",
			Phone: "099 123 456",
		},
	}
}

func friday() time.Time {
	return time.Date(2025, 1, 10, 0, 0, 0, 0, montevideo)
}

func TestExecute_BookConflictCancelRebook(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	resp, err := e.uc.Execute(ctx, request(friday(), "18:00", "19:00"))
	require.NoError(t, err)
	assert.Equal(t, int64(800), resp.TotalPrice)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, "Cancha 1", resp.ResourceName)
	assert.Equal(t, "ana@example.com", resp.Customer.Email)
	assert.Equal(t, "Ana", resp.Customer.Name)
	assert.Equal(t, domain.DefaultGuests, resp.Guests)
	assert.Regexp(t, `^RES-\d+-[0-9A-Z]{6}$`, resp.ConfirmationCode)

	_, err = e.uc.Execute(ctx, request(friday(), "18:00", "19:00"))
	assert.ErrorIs(t, err, domain.ErrConflict)
	appErr, ok := domain.AsError(err)
	require.True(t, ok)
	assert.Equal(t, domain.ReasonSlotTaken, appErr.Reason)

	ok, err = e.reservations.CancelIfConfirmed(ctx, resp.ID, time.Now())
	require.NoError(t, err)
	require.True(t, ok)

	again, err := e.uc.Execute(ctx, request(friday(), "18:00", "19:00"))
	require.NoError(t, err)
	assert.NotEqual(t, resp.ID, again.ID)

	assert.Equal(t, 2.0, testutil.ToFloat64(e.metrics.ReservationsTotal.WithLabelValues(metrics.ResultCreated)))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.ReservationsTotal.WithLabelValues(metrics.ResultConflict)))
}

func TestExecute_Overlaps(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.uc.Execute(ctx, request(friday(), "18:00", "20:00"))
	require.NoError(t, err)

	_, err = e.uc.Execute(ctx, request(friday(), "19:00", "21:00"))
	assert.ErrorIs(t, err, ErrSlotTaken)

	_, err = e.uc.Execute(ctx, request(friday(), "17:00", "19:00"))
	assert.ErrorIs(t, err, ErrSlotTaken)

	// касание границ не пересечение
	_, err = e.uc.Execute(ctx, request(friday(), "20:00", "21:00"))
	assert.NoError(t, err)
	_, err = e.uc.Execute(ctx, request(friday(), "17:00", "18:00"))
	assert.NoError(t, err)

	// другая дата не мешает
	_, err = e.uc.Execute(ctx, request(friday().AddDate(0, 0, 1), "18:00", "20:00"))
	assert.NoError(t, err)
}

func TestExecute_Price(t *testing.T) {
	e := newEnv(t)

	resp, err := e.uc.Execute(context.Background(), request(friday(), "10:00", "12:00"))
	require.NoError(t, err)
	assert.Equal(t, int64(1600), resp.TotalPrice)
}

func TestExecute_CheckOrder(t *testing.T) {
	thursday := time.Date(2025, 1, 9, 0, 0, 0, 0, montevideo)
	sunday := time.Date(2025, 1, 12, 0, 0, 0, 0, montevideo)
	tuesday := time.Date(2025, 1, 14, 0, 0, 0, 0, montevideo)

	tests := []struct {
		name    string
		req     func() *Request
		wantErr *domain.Error
	}{
		{
			name: "missing email",
			req: func() *Request {
				r := request(friday(), "18:00", "19:00")
				r.Customer.Email = ""
				return r
			},
			wantErr: &domain.Error{Kind: domain.KindValidation, Reason: domain.ReasonInvalidInput},
		},
		{
			name: "too many guests",
			req: func() *Request {
				r := request(friday(), "18:00", "19:00")
				r.Guests = domain.MaxGuests + 1
				return r
			},
			wantErr: &domain.Error{Kind: domain.KindValidation, Reason: domain.ReasonInvalidInput},
		},
		{
			name:    "malformed time",
			req:     func() *Request { return request(friday(), "18:0", "19:00") },
			wantErr: &domain.Error{Kind: domain.KindValidation, Reason: domain.ReasonInvalidTime},
		},
		{
			name: "unknown resource",
			req: func() *Request {
				r := request(friday(), "18:00", "19:00")
				r.ResourceID = "missing"
				return r
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "resource switched off",
			req: func() *Request {
				r := request(friday(), "18:00", "19:00")
				r.ResourceID = "court-off"
				return r
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name:    "past wins over inverted",
			req:     func() *Request { return request(thursday, "11:00", "10:00") },
			wantErr: &domain.Error{Kind: domain.KindValidation, Reason: domain.ReasonPast},
		},
		{
			name:    "inverted interval",
			req:     func() *Request { return request(friday(), "19:00", "18:00") },
			wantErr: &domain.Error{Kind: domain.KindValidation, Reason: domain.ReasonInvertedInterval},
		},
		{
			name:    "empty interval",
			req:     func() *Request { return request(friday(), "18:00", "18:00") },
			wantErr: &domain.Error{Kind: domain.KindValidation, Reason: domain.ReasonInvertedInterval},
		},
		{
			name:    "closed weekday",
			req:     func() *Request { return request(sunday, "10:00", "11:00") },
			wantErr: &domain.Error{Kind: domain.KindValidation, Reason: domain.ReasonNotBookable},
		},
		{
			name:    "ends after close",
			req:     func() *Request { return request(friday(), "22:00", "23:30") },
			wantErr: &domain.Error{Kind: domain.KindValidation, Reason: domain.ReasonNotBookable},
		},
		{
			name:    "before open",
			req:     func() *Request { return request(friday(), "07:00", "08:00") },
			wantErr: &domain.Error{Kind: domain.KindValidation, Reason: domain.ReasonNotBookable},
		},
		{
			name:    "spans blocked slot",
			req:     func() *Request { return request(tuesday, "13:00", "15:00") },
			wantErr: &domain.Error{Kind: domain.KindValidation, Reason: domain.ReasonNotBookable},
		},
		{
			name:    "off-grid start covers blocked slot",
			req:     func() *Request { return request(tuesday, "13:30", "14:30") },
			wantErr: &domain.Error{Kind: domain.KindValidation, Reason: domain.ReasonNotBookable},
		},
		{
			name:    "off-grid start inside blocked slot",
			req:     func() *Request { return request(tuesday, "14:30", "15:30") },
			wantErr: &domain.Error{Kind: domain.KindValidation, Reason: domain.ReasonNotBookable},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)

			_, err := e.uc.Execute(context.Background(), tt.req())
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, e.notifier.sent)
		})
	}
}

func TestExecute_OffGridAroundBlockedSlot(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	tuesday := time.Date(2025, 1, 14, 0, 0, 0, 0, montevideo)

	_, err := e.uc.Execute(ctx, request(tuesday, "13:59", "14:59"))
	assert.ErrorIs(t, err, &domain.Error{Kind: domain.KindValidation, Reason: domain.ReasonNotBookable})

	stored, err := e.reservations.GetConfirmedByResourceAndDate(ctx, "court-1", tuesday)
	require.NoError(t, err)
	assert.Empty(t, stored)
	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.ReservationsTotal.WithLabelValues(metrics.ResultRejected)))

	// вне заблокированного слота сдвинутый старт допустим
	resp, err := e.uc.Execute(ctx, request(tuesday, "15:30", "16:30"))
	require.NoError(t, err)
	assert.Equal(t, "15:30", resp.StartTime.String())
}

func TestExecute_StartingNowIsAllowed(t *testing.T) {
	e := newEnv(t)
	thursday := time.Date(2025, 1, 9, 0, 0, 0, 0, montevideo)

	_, err := e.uc.Execute(context.Background(), request(thursday, "12:00", "13:00"))
	assert.NoError(t, err)
}

func TestExecute_DispatchesNotification(t *testing.T) {
	e := newEnv(t)

	resp, err := e.uc.Execute(context.Background(), request(friday(), "18:00", "19:00"))
	require.NoError(t, err)

	require.Len(t, e.notifier.sent, 1)
	n := e.notifier.sent[0]
	assert.Equal(t, resp.ConfirmationCode, n.ConfirmationCode)
	assert.Equal(t, "Cancha 1", n.ResourceName)
	assert.Equal(t, "099 123 456", n.CustomerPhone)
	assert.Equal(t, int64(800), n.TotalPrice)
}

func TestExecute_ConcurrentSameSlot(t *testing.T) {
	e := newEnv(t)
	const workers = 10

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
		others    []error
	)
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := e.uc.Execute(context.Background(), request(friday(), "18:00", "19:00"))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrConflict):
				conflicts++
			default:
				others = append(others, err)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Empty(t, others)
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, conflicts)

	date := friday()
	stored, err := e.reservations.GetConfirmedByResourceAndDate(context.Background(), "court-1", date)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

type failingLocker struct{}

func (failingLocker) Lock(context.Context, string) (lock.Unlock, error) {
	return nil, lock.ErrBackend
}

func TestExecute_LockFailureIsInternal(t *testing.T) {
	e := newEnv(t)
	e.uc.locker = failingLocker{}

	_, err := e.uc.Execute(context.Background(), request(friday(), "18:00", "19:00"))
	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, lock.ErrBackend)
	assert.Empty(t, e.notifier.sent)
}
