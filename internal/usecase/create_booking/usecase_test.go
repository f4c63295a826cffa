package create_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/capozzinicolas-stack/vivelo-sub000/internal/domain"
	bookingRepo "github.com/capozzinicolas-stack/vivelo-sub000/internal/infra/storage/booking"
	catalogClient "github.com/capozzinicolas-stack/vivelo-sub000/internal/integrations/catalogservice"
	"github.com/capozzinicolas-stack/vivelo-sub000/pkg/ptr"
	"github.com/capozzinicolas-stack/vivelo-sub000/pkg/types"
)

// --- моки ---

type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	args := m.Called(ctx, booking)
	if rf, ok := args.Get(0).(func(context.Context, *domain.Booking) *domain.Booking); ok {
		return rf(ctx, booking), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *mockBookingRepo) CountActiveOverlapping(ctx context.Context, providerID int64, start, end time.Time, excludeID *int64) (int, error) {
	args := m.Called(ctx, providerID, start, end, excludeID)
	return args.Int(0), args.Error(1)
}

type mockBlockRepo struct {
	mock.Mock
}

func (m *mockBlockRepo) HasOverlapping(ctx context.Context, providerID int64, start, end time.Time) (bool, error) {
	args := m.Called(ctx, providerID, start, end)
	return args.Bool(0), args.Error(1)
}

type mockCatalogClient struct {
	mock.Mock
}

func (m *mockCatalogClient) GetServiceOffering(ctx context.Context, serviceID int64) (*domain.ServiceOffering, error) {
	args := m.Called(ctx, serviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ServiceOffering), args.Error(1)
}

func (m *mockCatalogClient) GetProviderProfile(ctx context.Context, providerID int64) (*domain.ProviderProfile, error) {
	args := m.Called(ctx, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProviderProfile), args.Error(1)
}

func (m *mockCatalogClient) GetActiveCampaignWithGracefulDegradation(ctx context.Context, serviceID int64) (*domain.Campaign, error) {
	args := m.Called(ctx, serviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Campaign), args.Error(1)
}

type mockPaymentClient struct {
	mock.Mock
}

func (m *mockPaymentClient) CapturePayment(ctx context.Context, clientID int64, amount float64, description, idempotencyKey string) (string, error) {
	args := m.Called(ctx, clientID, amount, description, idempotencyKey)
	return args.String(0), args.Error(1)
}

func (m *mockPaymentClient) RefundPayment(ctx context.Context, paymentID string, amount float64, reason, idempotencyKey string) error {
	args := m.Called(ctx, paymentID, amount, reason, idempotencyKey)
	return args.Error(0)
}

// fakeTxManager прогоняет функцию без реальной транзакции
type fakeTxManager struct{}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fixedTimeProvider возвращает фиксированное время
type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

// nopLogger заглушка логгера
type nopLogger struct{}

func (l *nopLogger) Info(format string, v ...interface{})  {}
func (l *nopLogger) Warn(format string, v ...interface{})  {}
func (l *nopLogger) Error(format string, v ...interface{}) {}

// --- фикстуры ---

const (
	testClientID   = int64(42)
	testServiceID  = int64(7)
	testProviderID = int64(3)
)

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func testService() *domain.ServiceOffering {
	return &domain.ServiceOffering{
		ID:                  testServiceID,
		ProviderID:          testProviderID,
		Name:                "Банкетный зал «Виверра»",
		BasePrice:           500,
		PriceUnit:           domain.PricePerHour,
		BufferBeforeMinutes: 60,
		BufferAfterMinutes:  30,
		CancellationPolicy: &domain.CancellationPolicy{
			Name: "standard",
			Rules: []domain.CancellationRule{
				{MinHours: 168, MaxHours: nil, RefundPercent: 100},
				{MinHours: 24, MaxHours: ptr.Ptr(168.0), RefundPercent: 50},
				{MinHours: 0, MaxHours: ptr.Ptr(24.0), RefundPercent: 0},
			},
		},
	}
}

func testProvider() *domain.ProviderProfile {
	return &domain.ProviderProfile{
		ID:                    testProviderID,
		MaxConcurrentServices: 1,
	}
}

func testRequest() *Request {
	return &Request{
		ClientID:   testClientID,
		ServiceID:  testServiceID,
		EventDate:  time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC),
		StartTime:  types.TimeString("10:00"),
		EndTime:    types.TimeString("14:00"),
		GuestCount: 50,
	}
}

func newTestUseCase(
	bookings *mockBookingRepo,
	blocks *mockBlockRepo,
	catalog *mockCatalogClient,
	payments *mockPaymentClient,
) *UseCase {
	uc := NewUseCase(bookings, blocks, catalog, payments, &fakeTxManager{}, domain.DefaultCommissionRate, &nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: testNow}
	return uc
}

// --- тесты ---

func TestExecute_Success(t *testing.T) {
	bookings := new(mockBookingRepo)
	blocks := new(mockBlockRepo)
	catalog := new(mockCatalogClient)
	payments := new(mockPaymentClient)

	catalog.On("GetServiceOffering", mock.Anything, testServiceID).Return(testService(), nil)
	catalog.On("GetProviderProfile", mock.Anything, testProviderID).Return(testProvider(), nil)
	catalog.On("GetActiveCampaignWithGracefulDegradation", mock.Anything, testServiceID).
		Return(nil, catalogClient.ErrNoCampaign)

	// 4 часа по 500/час = 2000
	payments.On("CapturePayment", mock.Anything, testClientID, 2000.0, mock.Anything, mock.Anything).
		Return("pay-123", nil)

	// Буферы 60/30: занятый интервал 09:00-14:30
	expectedEffStart := time.Date(2026, 9, 20, 9, 0, 0, 0, time.UTC)
	expectedEffEnd := time.Date(2026, 9, 20, 14, 30, 0, 0, time.UTC)

	bookings.On("CountActiveOverlapping", mock.Anything, testProviderID, expectedEffStart, expectedEffEnd, (*int64)(nil)).
		Return(0, nil)
	blocks.On("HasOverlapping", mock.Anything, testProviderID, expectedEffStart, expectedEffEnd).
		Return(false, nil)

	bookings.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.Status == domain.StatusPending &&
			b.Exclusive &&
			b.PolicySnapshot != nil &&
			b.Total == 2000.0 &&
			b.Commission == 240.0 &&
			b.PaymentID != nil && *b.PaymentID == "pay-123"
	})).Return(func(ctx context.Context, b *domain.Booking) *domain.Booking {
		b.ID = 100
		b.CreatedAt = testNow
		return b
	}, nil)

	uc := newTestUseCase(bookings, blocks, catalog, payments)

	resp, err := uc.Execute(context.Background(), testRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(100), resp.ID)
	assert.Equal(t, testProviderID, resp.ProviderID)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, 4.0, resp.EventHours)
	assert.Equal(t, 2000.0, resp.Total)
	assert.Equal(t, 240.0, resp.Commission)
	assert.Equal(t, expectedEffStart, resp.EffectiveStart)
	assert.Equal(t, expectedEffEnd, resp.EffectiveEnd)

	bookings.AssertExpectations(t)
	blocks.AssertExpectations(t)
	catalog.AssertExpectations(t)
	payments.AssertExpectations(t)
	payments.AssertNotCalled(t, "RefundPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExecute_CampaignDiscountAndCommissionReduction(t *testing.T) {
	bookings := new(mockBookingRepo)
	blocks := new(mockBlockRepo)
	catalog := new(mockCatalogClient)
	payments := new(mockPaymentClient)

	campaign := &domain.Campaign{
		ID:                     11,
		Name:                   "Осенний сезон",
		DiscountPct:            10,
		CommissionReductionPct: 2,
		StartsAt:               testNow.Add(-24 * time.Hour),
		EndsAt:                 testNow.Add(30 * 24 * time.Hour),
	}

	catalog.On("GetServiceOffering", mock.Anything, testServiceID).Return(testService(), nil)
	catalog.On("GetProviderProfile", mock.Anything, testProviderID).Return(testProvider(), nil)
	catalog.On("GetActiveCampaignWithGracefulDegradation", mock.Anything, testServiceID).
		Return(campaign, nil)

	// 2000 - 10% = 1800; комиссия (0.12 - 0.02) * 1800 = 180
	payments.On("CapturePayment", mock.Anything, testClientID, 1800.0, mock.Anything, mock.Anything).
		Return("pay-456", nil)

	bookings.On("CountActiveOverlapping", mock.Anything, testProviderID, mock.Anything, mock.Anything, (*int64)(nil)).
		Return(0, nil)
	blocks.On("HasOverlapping", mock.Anything, testProviderID, mock.Anything, mock.Anything).
		Return(false, nil)

	bookings.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.DiscountTotal == 200.0 &&
			b.Total == 1800.0 &&
			b.CommissionRateSnapshot == 0.1 &&
			b.Commission == 180.0
	})).Return(func(ctx context.Context, b *domain.Booking) *domain.Booking {
		b.ID = 101
		return b
	}, nil)

	uc := newTestUseCase(bookings, blocks, catalog, payments)

	resp, err := uc.Execute(context.Background(), testRequest())

	require.NoError(t, err)
	assert.Equal(t, 200.0, resp.DiscountTotal)
	assert.Equal(t, 1800.0, resp.Total)
	assert.Equal(t, 180.0, resp.Commission)
}

func TestExecute_SlotNotAvailable_RefundsPayment(t *testing.T) {
	bookings := new(mockBookingRepo)
	blocks := new(mockBlockRepo)
	catalog := new(mockCatalogClient)
	payments := new(mockPaymentClient)

	catalog.On("GetServiceOffering", mock.Anything, testServiceID).Return(testService(), nil)
	catalog.On("GetProviderProfile", mock.Anything, testProviderID).Return(testProvider(), nil)
	catalog.On("GetActiveCampaignWithGracefulDegradation", mock.Anything, testServiceID).
		Return(nil, catalogClient.ErrNoCampaign)

	payments.On("CapturePayment", mock.Anything, testClientID, 2000.0, mock.Anything, mock.Anything).
		Return("pay-123", nil)

	// Лимит 1, уже есть пересекающееся активное бронирование
	bookings.On("CountActiveOverlapping", mock.Anything, testProviderID, mock.Anything, mock.Anything, (*int64)(nil)).
		Return(1, nil)

	payments.On("RefundPayment", mock.Anything, "pay-123", 2000.0, mock.Anything, mock.Anything).
		Return(nil)

	uc := newTestUseCase(bookings, blocks, catalog, payments)

	_, err := uc.Execute(context.Background(), testRequest())

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	payments.AssertExpectations(t)
	blocks.AssertNotCalled(t, "HasOverlapping", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestExecute_CalendarBlockVeto(t *testing.T) {
	bookings := new(mockBookingRepo)
	blocks := new(mockBlockRepo)
	catalog := new(mockCatalogClient)
	payments := new(mockPaymentClient)

	catalog.On("GetServiceOffering", mock.Anything, testServiceID).Return(testService(), nil)
	catalog.On("GetProviderProfile", mock.Anything, testProviderID).Return(testProvider(), nil)
	catalog.On("GetActiveCampaignWithGracefulDegradation", mock.Anything, testServiceID).
		Return(nil, catalogClient.ErrNoCampaign)

	payments.On("CapturePayment", mock.Anything, testClientID, 2000.0, mock.Anything, mock.Anything).
		Return("pay-123", nil)

	bookings.On("CountActiveOverlapping", mock.Anything, testProviderID, mock.Anything, mock.Anything, (*int64)(nil)).
		Return(0, nil)
	blocks.On("HasOverlapping", mock.Anything, testProviderID, mock.Anything, mock.Anything).
		Return(true, nil)

	payments.On("RefundPayment", mock.Anything, "pay-123", 2000.0, mock.Anything, mock.Anything).
		Return(nil)

	uc := newTestUseCase(bookings, blocks, catalog, payments)

	_, err := uc.Execute(context.Background(), testRequest())

	assert.ErrorIs(t, err, ErrCalendarBlocked)
	bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestExecute_OverlapConflictOnInsert(t *testing.T) {
	bookings := new(mockBookingRepo)
	blocks := new(mockBlockRepo)
	catalog := new(mockCatalogClient)
	payments := new(mockPaymentClient)

	catalog.On("GetServiceOffering", mock.Anything, testServiceID).Return(testService(), nil)
	catalog.On("GetProviderProfile", mock.Anything, testProviderID).Return(testProvider(), nil)
	catalog.On("GetActiveCampaignWithGracefulDegradation", mock.Anything, testServiceID).
		Return(nil, catalogClient.ErrNoCampaign)

	payments.On("CapturePayment", mock.Anything, testClientID, 2000.0, mock.Anything, mock.Anything).
		Return("pay-123", nil)

	bookings.On("CountActiveOverlapping", mock.Anything, testProviderID, mock.Anything, mock.Anything, (*int64)(nil)).
		Return(0, nil)
	blocks.On("HasOverlapping", mock.Anything, testProviderID, mock.Anything, mock.Anything).
		Return(false, nil)

	// Гонка: параллельная вставка успела раньше, сработал exclusion constraint
	bookings.On("Create", mock.Anything, mock.Anything).
		Return(nil, bookingRepo.ErrOverlapConflict)

	payments.On("RefundPayment", mock.Anything, "pay-123", 2000.0, mock.Anything, mock.Anything).
		Return(nil)

	uc := newTestUseCase(bookings, blocks, catalog, payments)

	_, err := uc.Execute(context.Background(), testRequest())

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	payments.AssertExpectations(t)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	bookings := new(mockBookingRepo)
	blocks := new(mockBlockRepo)
	catalog := new(mockCatalogClient)
	payments := new(mockPaymentClient)

	catalog.On("GetServiceOffering", mock.Anything, testServiceID).
		Return(nil, catalogClient.ErrServiceNotFound)

	uc := newTestUseCase(bookings, blocks, catalog, payments)

	_, err := uc.Execute(context.Background(), testRequest())

	assert.ErrorIs(t, err, ErrServiceNotFound)
	payments.AssertNotCalled(t, "CapturePayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExecute_InvalidTimeWindow(t *testing.T) {
	uc := newTestUseCase(new(mockBookingRepo), new(mockBlockRepo), new(mockCatalogClient), new(mockPaymentClient))

	req := testRequest()
	req.StartTime = types.TimeString("14:00")
	req.EndTime = types.TimeString("10:00")

	_, err := uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrInvalidTimeWindow)
}

func TestExecute_EventInPast(t *testing.T) {
	bookings := new(mockBookingRepo)
	blocks := new(mockBlockRepo)
	catalog := new(mockCatalogClient)
	payments := new(mockPaymentClient)

	catalog.On("GetServiceOffering", mock.Anything, testServiceID).Return(testService(), nil)
	catalog.On("GetProviderProfile", mock.Anything, testProviderID).Return(testProvider(), nil)
	catalog.On("GetActiveCampaignWithGracefulDegradation", mock.Anything, testServiceID).
		Return(nil, catalogClient.ErrNoCampaign)

	uc := newTestUseCase(bookings, blocks, catalog, payments)

	req := testRequest()
	req.EventDate = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	_, err := uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrEventInPast)
	payments.AssertNotCalled(t, "CapturePayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExecute_PaymentFailed(t *testing.T) {
	bookings := new(mockBookingRepo)
	blocks := new(mockBlockRepo)
	catalog := new(mockCatalogClient)
	payments := new(mockPaymentClient)

	catalog.On("GetServiceOffering", mock.Anything, testServiceID).Return(testService(), nil)
	catalog.On("GetProviderProfile", mock.Anything, testProviderID).Return(testProvider(), nil)
	catalog.On("GetActiveCampaignWithGracefulDegradation", mock.Anything, testServiceID).
		Return(nil, catalogClient.ErrNoCampaign)

	payments.On("CapturePayment", mock.Anything, testClientID, 2000.0, mock.Anything, mock.Anything).
		Return("", assert.AnError)

	uc := newTestUseCase(bookings, blocks, catalog, payments)

	_, err := uc.Execute(context.Background(), testRequest())

	assert.ErrorIs(t, err, ErrPaymentFailed)
	bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestExecute_GracefulDegradationWithoutCampaign(t *testing.T) {
	bookings := new(mockBookingRepo)
	blocks := new(mockBlockRepo)
	catalog := new(mockCatalogClient)
	payments := new(mockPaymentClient)

	catalog.On("GetServiceOffering", mock.Anything, testServiceID).Return(testService(), nil)
	catalog.On("GetProviderProfile", mock.Anything, testProviderID).Return(testProvider(), nil)
	// Каталог недоступен: оформление продолжается без скидки
	catalog.On("GetActiveCampaignWithGracefulDegradation", mock.Anything, testServiceID).
		Return(nil, catalogClient.ErrServiceDegraded)

	payments.On("CapturePayment", mock.Anything, testClientID, 2000.0, mock.Anything, mock.Anything).
		Return("pay-123", nil)

	bookings.On("CountActiveOverlapping", mock.Anything, testProviderID, mock.Anything, mock.Anything, (*int64)(nil)).
		Return(0, nil)
	blocks.On("HasOverlapping", mock.Anything, testProviderID, mock.Anything, mock.Anything).
		Return(false, nil)

	bookings.On("Create", mock.Anything, mock.Anything).
		Return(func(ctx context.Context, b *domain.Booking) *domain.Booking {
			b.ID = 102
			return b
		}, nil)

	uc := newTestUseCase(bookings, blocks, catalog, payments)

	resp, err := uc.Execute(context.Background(), testRequest())

	require.NoError(t, err)
	assert.Equal(t, 0.0, resp.DiscountTotal)
	assert.Equal(t, 2000.0, resp.Total)
}
