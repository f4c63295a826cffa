package check_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/capozzinicolas-stack/vivelo-sub000/internal/domain"
	catalogClient "github.com/capozzinicolas-stack/vivelo-sub000/internal/integrations/catalogservice"
	"github.com/capozzinicolas-stack/vivelo-sub000/pkg/types"
)

type mockBookingRepo struct {
	mock.Mock
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

type nopLogger struct{}

func (l *nopLogger) Info(format string, v ...interface{})  {}
func (l *nopLogger) Warn(format string, v ...interface{})  {}
func (l *nopLogger) Error(format string, v ...interface{}) {}

const (
	testServiceID  = int64(7)
	testProviderID = int64(3)
)

func testService() *domain.ServiceOffering {
	return &domain.ServiceOffering{
		ID:         testServiceID,
		ProviderID: testProviderID,
		Name:       "Кейтеринг «Савойя»",
		BasePrice:  800,
		PriceUnit:  domain.PricePerHour,
	}
}

func testProvider(maxConcurrent int) *domain.ProviderProfile {
	return &domain.ProviderProfile{
		ID:                    testProviderID,
		MaxConcurrentServices: maxConcurrent,
	}
}

func testRequest() *Request {
	return &Request{
		ServiceID: testServiceID,
		EventDate: time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC),
		StartTime: types.TimeString("13:00"),
		EndTime:   types.TimeString("16:00"),
	}
}

// Вендор с лимитом 1 занят бронированием 10:00-14:00: запрошенное окно
// 13:00-16:00 пересекает его
func TestExecute_UnavailableOnOverlap(t *testing.T) {
	bookings := new(mockBookingRepo)
	blocks := new(mockBlockRepo)
	catalog := new(mockCatalogClient)

	catalog.On("GetServiceOffering", mock.Anything, testServiceID).Return(testService(), nil)
	catalog.On("GetProviderProfile", mock.Anything, testProviderID).Return(testProvider(1), nil)

	bookings.On("CountActiveOverlapping", mock.Anything, testProviderID, mock.Anything, mock.Anything, (*int64)(nil)).
		Return(1, nil)
	blocks.On("HasOverlapping", mock.Anything, testProviderID, mock.Anything, mock.Anything).
		Return(false, nil)

	uc := NewUseCase(bookings, blocks, catalog, &nopLogger{})

	resp, err := uc.Execute(context.Background(), testRequest())

	require.NoError(t, err)
	assert.False(t, resp.Available)
	assert.Equal(t, 1, resp.OverlappingCount)
	assert.Equal(t, 1, resp.MaxConcurrent)
	assert.False(t, resp.CalendarBlocked)
}

func TestExecute_AvailableWhenUnderCap(t *testing.T) {
	bookings := new(mockBookingRepo)
	blocks := new(mockBlockRepo)
	catalog := new(mockCatalogClient)

	catalog.On("GetServiceOffering", mock.Anything, testServiceID).Return(testService(), nil)
	catalog.On("GetProviderProfile", mock.Anything, testProviderID).Return(testProvider(3), nil)

	// 2 пересечения при лимите 3 - ещё доступен
	bookings.On("CountActiveOverlapping", mock.Anything, testProviderID, mock.Anything, mock.Anything, (*int64)(nil)).
		Return(2, nil)
	blocks.On("HasOverlapping", mock.Anything, testProviderID, mock.Anything, mock.Anything).
		Return(false, nil)

	uc := NewUseCase(bookings, blocks, catalog, &nopLogger{})

	resp, err := uc.Execute(context.Background(), testRequest())

	require.NoError(t, err)
	assert.True(t, resp.Available)
	assert.Equal(t, 2, resp.OverlappingCount)
	assert.Equal(t, 3, resp.MaxConcurrent)
}

// Блокировка календаря - вето независимо от свободного лимита
func TestExecute_CalendarBlockVeto(t *testing.T) {
	bookings := new(mockBookingRepo)
	blocks := new(mockBlockRepo)
	catalog := new(mockCatalogClient)

	catalog.On("GetServiceOffering", mock.Anything, testServiceID).Return(testService(), nil)
	catalog.On("GetProviderProfile", mock.Anything, testProviderID).Return(testProvider(5), nil)

	bookings.On("CountActiveOverlapping", mock.Anything, testProviderID, mock.Anything, mock.Anything, (*int64)(nil)).
		Return(0, nil)
	blocks.On("HasOverlapping", mock.Anything, testProviderID, mock.Anything, mock.Anything).
		Return(true, nil)

	uc := NewUseCase(bookings, blocks, catalog, &nopLogger{})

	resp, err := uc.Execute(context.Background(), testRequest())

	require.NoError(t, err)
	assert.False(t, resp.Available)
	assert.True(t, resp.CalendarBlocked)
}

// Некорректный лимит в профиле приводится к 1
func TestExecute_InvalidCapFlooredToOne(t *testing.T) {
	bookings := new(mockBookingRepo)
	blocks := new(mockBlockRepo)
	catalog := new(mockCatalogClient)

	catalog.On("GetServiceOffering", mock.Anything, testServiceID).Return(testService(), nil)
	catalog.On("GetProviderProfile", mock.Anything, testProviderID).Return(testProvider(0), nil)

	bookings.On("CountActiveOverlapping", mock.Anything, testProviderID, mock.Anything, mock.Anything, (*int64)(nil)).
		Return(0, nil)
	blocks.On("HasOverlapping", mock.Anything, testProviderID, mock.Anything, mock.Anything).
		Return(false, nil)

	uc := NewUseCase(bookings, blocks, catalog, &nopLogger{})

	resp, err := uc.Execute(context.Background(), testRequest())

	require.NoError(t, err)
	assert.True(t, resp.Available)
	assert.Equal(t, 1, resp.MaxConcurrent)
}

// Буферы услуги расширяют занятый интервал в обе стороны
func TestExecute_BuffersWidenEffectiveWindow(t *testing.T) {
	bookings := new(mockBookingRepo)
	blocks := new(mockBlockRepo)
	catalog := new(mockCatalogClient)

	service := testService()
	service.BufferBeforeMinutes = 90
	service.BufferAfterMinutes = 45

	catalog.On("GetServiceOffering", mock.Anything, testServiceID).Return(service, nil)
	catalog.On("GetProviderProfile", mock.Anything, testProviderID).Return(testProvider(1), nil)

	expectedEffStart := time.Date(2026, 9, 20, 11, 30, 0, 0, time.UTC)
	expectedEffEnd := time.Date(2026, 9, 20, 16, 45, 0, 0, time.UTC)

	bookings.On("CountActiveOverlapping", mock.Anything, testProviderID, expectedEffStart, expectedEffEnd, (*int64)(nil)).
		Return(0, nil)
	blocks.On("HasOverlapping", mock.Anything, testProviderID, expectedEffStart, expectedEffEnd).
		Return(false, nil)

	uc := NewUseCase(bookings, blocks, catalog, &nopLogger{})

	resp, err := uc.Execute(context.Background(), testRequest())

	require.NoError(t, err)
	assert.True(t, resp.Available)
	assert.Equal(t, expectedEffStart, resp.EffectiveStart)
	assert.Equal(t, expectedEffEnd, resp.EffectiveEnd)

	bookings.AssertExpectations(t)
	blocks.AssertExpectations(t)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	catalog := new(mockCatalogClient)
	catalog.On("GetServiceOffering", mock.Anything, testServiceID).
		Return(nil, catalogClient.ErrServiceNotFound)

	uc := NewUseCase(new(mockBookingRepo), new(mockBlockRepo), catalog, &nopLogger{})

	_, err := uc.Execute(context.Background(), testRequest())

	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_InvalidWindow(t *testing.T) {
	uc := NewUseCase(new(mockBookingRepo), new(mockBlockRepo), new(mockCatalogClient), &nopLogger{})

	req := testRequest()
	req.EndTime = types.TimeString("13:00")

	_, err := uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrInvalidTimeWindow)
}
