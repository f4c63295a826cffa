package bookings

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/capozzinicolas-stack/vivelo-sub000/internal/domain"
	bookingRepo "github.com/capozzinicolas-stack/vivelo-sub000/internal/infra/storage/booking"
	"github.com/capozzinicolas-stack/vivelo-sub000/internal/integrations/calendarsync"
	"github.com/capozzinicolas-stack/vivelo-sub000/internal/service/bookings/models"
	"github.com/capozzinicolas-stack/vivelo-sub000/pkg/ptr"
)

type mockBookingRepo struct {
	mock.Mock
	mu sync.Mutex

	externalEventSet chan struct{}
}

func (m *mockBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *mockBookingRepo) GetByClientID(ctx context.Context, clientID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	args := m.Called(ctx, clientID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

func (m *mockBookingRepo) GetByProviderWithFilter(ctx context.Context, filter domain.ProviderBookingsFilter) ([]*domain.Booking, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

func (m *mockBookingRepo) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *mockBookingRepo) SetExternalEventID(ctx context.Context, id int64, externalEventID *string) error {
	m.mu.Lock()
	ch := m.externalEventSet
	m.mu.Unlock()

	args := m.Called(ctx, id, externalEventID)
	if ch != nil {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	return args.Error(0)
}

type mockCalendarClient struct {
	mock.Mock
}

func (m *mockCalendarClient) PushEvent(ctx context.Context, providerID int64, event calendarsync.CalendarEvent) (string, error) {
	args := m.Called(ctx, providerID, event)
	return args.String(0), args.Error(1)
}

type nopLogger struct{}

func (l *nopLogger) Info(format string, v ...interface{})  {}
func (l *nopLogger) Warn(format string, v ...interface{})  {}
func (l *nopLogger) Error(format string, v ...interface{}) {}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

var testNow = time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)

func pendingBooking() *domain.Booking {
	return &domain.Booking{
		ID:             55,
		ServiceID:      7,
		ClientID:       42,
		ProviderID:     3,
		Status:         domain.StatusPending,
		Total:          2000,
		ServiceName:    "Шатёр на 100 гостей",
		StartDatetime:  testNow.Add(120 * time.Hour),
		EndDatetime:    testNow.Add(124 * time.Hour),
		EffectiveStart: testNow.Add(119 * time.Hour),
		EffectiveEnd:   testNow.Add(125 * time.Hour),
		PolicySnapshot: &domain.CancellationPolicy{
			Name: "standard",
			Rules: []domain.CancellationRule{
				{MinHours: 168, MaxHours: nil, RefundPercent: 100},
				{MinHours: 24, MaxHours: ptr.Ptr(168.0), RefundPercent: 50},
				{MinHours: 0, MaxHours: ptr.Ptr(24.0), RefundPercent: 0},
			},
		},
	}
}

func newTestService(repo *mockBookingRepo, calendar *mockCalendarClient) *Service {
	svc := NewService(repo, calendar, &nopLogger{})
	svc.timeProvider = &fixedTimeProvider{now: testNow}
	return svc
}

func TestGetByID_OwnerAccess(t *testing.T) {
	repo := new(mockBookingRepo)
	repo.On("GetByID", mock.Anything, int64(55)).Return(pendingBooking(), nil)

	svc := newTestService(repo, new(mockCalendarClient))

	resp, err := svc.GetByID(context.Background(), 55, 42, RoleClient)
	require.NoError(t, err)
	assert.Equal(t, int64(55), resp.ID)
	assert.Equal(t, "pending", resp.Status)

	_, err = svc.GetByID(context.Background(), 55, 99, RoleClient)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetByID(context.Background(), 55, 3, RoleProvider)
	assert.NoError(t, err)

	_, err = svc.GetByID(context.Background(), 55, 1, RoleAdmin)
	assert.NoError(t, err)
}

func TestGetByID_NotFound(t *testing.T) {
	repo := new(mockBookingRepo)
	repo.On("GetByID", mock.Anything, int64(55)).Return(nil, bookingRepo.ErrBookingNotFound)

	svc := newTestService(repo, new(mockCalendarClient))

	_, err := svc.GetByID(context.Background(), 55, 42, RoleClient)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

// Подтверждение провайдером публикует событие в календарь и сохраняет
// его внешний ID
func TestUpdateStatus_ConfirmPushesCalendarEvent(t *testing.T) {
	repo := new(mockBookingRepo)
	repo.externalEventSet = make(chan struct{}, 1)
	calendar := new(mockCalendarClient)

	booking := pendingBooking()
	repo.On("GetByID", mock.Anything, int64(55)).Return(booking, nil)
	repo.On("UpdateStatus", mock.Anything, int64(55), domain.StatusConfirmed).Return(nil)

	// Наружу уходит окно мероприятия, а не расширенный буферами интервал
	calendar.On("PushEvent", mock.Anything, int64(3), mock.MatchedBy(func(e calendarsync.CalendarEvent) bool {
		return e.BookingID == booking.ID &&
			e.Title == booking.ServiceName &&
			e.StartsAt.Equal(booking.StartDatetime) &&
			e.EndsAt.Equal(booking.EndDatetime)
	})).Return("evt-789", nil)

	repo.On("SetExternalEventID", mock.Anything, int64(55), ptr.Ptr("evt-789")).Return(nil)

	svc := newTestService(repo, calendar)

	err := svc.UpdateStatus(context.Background(), 55, &models.UpdateStatusRequest{
		UserID: 3, Role: RoleProvider, Status: "confirmed",
	})
	require.NoError(t, err)

	select {
	case <-repo.externalEventSet:
	case <-time.After(2 * time.Second):
		t.Fatal("external event id was not stored")
	}
	calendar.AssertExpectations(t)
}

func TestUpdateStatus_IllegalTransition(t *testing.T) {
	repo := new(mockBookingRepo)
	booking := pendingBooking()
	booking.Status = domain.StatusCompleted
	repo.On("GetByID", mock.Anything, int64(55)).Return(booking, nil)

	svc := newTestService(repo, new(mockCalendarClient))

	err := svc.UpdateStatus(context.Background(), 55, &models.UpdateStatusRequest{
		UserID: 1, Role: RoleAdmin, Status: "confirmed",
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

// Отмена через смену статуса запрещена: она идёт отдельным сценарием
// с расчётом возврата
func TestUpdateStatus_CancellationRejected(t *testing.T) {
	repo := new(mockBookingRepo)
	repo.On("GetByID", mock.Anything, int64(55)).Return(pendingBooking(), nil)

	svc := newTestService(repo, new(mockCalendarClient))

	err := svc.UpdateStatus(context.Background(), 55, &models.UpdateStatusRequest{
		UserID: 1, Role: RoleAdmin, Status: "cancelled",
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

// Клиент не может сам подтвердить свою заявку
func TestUpdateStatus_ClientMayNotConfirm(t *testing.T) {
	repo := new(mockBookingRepo)
	repo.On("GetByID", mock.Anything, int64(55)).Return(pendingBooking(), nil)

	svc := newTestService(repo, new(mockCalendarClient))

	err := svc.UpdateStatus(context.Background(), 55, &models.UpdateStatusRequest{
		UserID: 42, Role: RoleClient, Status: "confirmed",
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

// Клиент открывает спор по подтверждённому бронированию
func TestUpdateStatus_ClientOpensDispute(t *testing.T) {
	repo := new(mockBookingRepo)
	booking := pendingBooking()
	booking.Status = domain.StatusConfirmed
	booking.ExternalEventID = ptr.Ptr("evt-1")
	repo.On("GetByID", mock.Anything, int64(55)).Return(booking, nil)
	repo.On("UpdateStatus", mock.Anything, int64(55), domain.StatusInReview).Return(nil)

	svc := newTestService(repo, new(mockCalendarClient))

	err := svc.UpdateStatus(context.Background(), 55, &models.UpdateStatusRequest{
		UserID: 42, Role: RoleClient, Status: "in_review",
	})
	assert.NoError(t, err)
}

func TestPreviewRefund(t *testing.T) {
	repo := new(mockBookingRepo)
	booking := pendingBooking()
	booking.Status = domain.StatusConfirmed
	// 30 часов до начала: средняя ступень, 50%
	booking.StartDatetime = testNow.Add(30 * time.Hour)
	repo.On("GetByID", mock.Anything, int64(55)).Return(booking, nil)

	svc := newTestService(repo, new(mockCalendarClient))

	resp, err := svc.PreviewRefund(context.Background(), 55, 42, RoleClient)
	require.NoError(t, err)
	assert.Equal(t, 50.0, resp.RefundPercent)
	assert.Equal(t, 1000.0, resp.RefundAmount)
	assert.Equal(t, 30.0, resp.HoursToEvent)
}

func TestGetProviderBookings_InvalidStatusFilter(t *testing.T) {
	svc := newTestService(new(mockBookingRepo), new(mockCalendarClient))

	_, err := svc.GetProviderBookings(context.Background(), &models.GetProviderBookingsRequest{
		ProviderID: 3,
		Status:     ptr.Ptr("shipped"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetClientBookings(t *testing.T) {
	repo := new(mockBookingRepo)
	repo.On("GetByClientID", mock.Anything, int64(42), (*domain.BookingStatus)(nil)).
		Return([]*domain.Booking{pendingBooking()}, nil)

	svc := newTestService(repo, new(mockCalendarClient))

	resp, err := svc.GetClientBookings(context.Background(), &models.GetClientBookingsRequest{ClientID: 42})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, int64(55), resp.Bookings[0].ID)
}
