package sync

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/capozzinicolas-stack/vivelo-sub000/internal/domain"
	"github.com/capozzinicolas-stack/vivelo-sub000/internal/integrations/calendarsync"
)

type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) GetProviderIDs(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

type mockBlockRepo struct {
	mock.Mock
}

func (m *mockBlockRepo) ReplaceExternal(ctx context.Context, providerID int64, blocks []*domain.VendorCalendarBlock) error {
	args := m.Called(ctx, providerID, blocks)
	return args.Error(0)
}

type mockCalendarClient struct {
	mock.Mock
}

func (m *mockCalendarClient) PullBusyIntervals(ctx context.Context, providerID int64, from, to time.Time) ([]calendarsync.BusyInterval, error) {
	args := m.Called(ctx, providerID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]calendarsync.BusyInterval), args.Error(1)
}

type fakeTxManager struct{}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (l *nopLogger) Info(format string, v ...interface{})  {}
func (l *nopLogger) Warn(format string, v ...interface{})  {}
func (l *nopLogger) Error(format string, v ...interface{}) {}

func newTestWorker(bookings *mockBookingRepo, blocks *mockBlockRepo, calendar *mockCalendarClient) *Worker {
	return NewWorker(bookings, blocks, calendar, &fakeTxManager{}, time.Minute, &nopLogger{})
}

func TestSyncProvider_ReplacesExternalBlocks(t *testing.T) {
	blocks := new(mockBlockRepo)
	calendar := new(mockCalendarClient)

	start := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	calendar.On("PullBusyIntervals", mock.Anything, int64(3), mock.Anything, mock.Anything).
		Return([]calendarsync.BusyInterval{
			{ExternalEventID: "evt-1", Title: "Семейный праздник", StartsAt: start, EndsAt: end},
		}, nil)

	blocks.On("ReplaceExternal", mock.Anything, int64(3), mock.MatchedBy(func(bs []*domain.VendorCalendarBlock) bool {
		if len(bs) != 1 {
			return false
		}
		b := bs[0]
		return b.ProviderID == 3 &&
			b.Source == domain.BlockSourceExternalSync &&
			b.ExternalEventID != nil && *b.ExternalEventID == "evt-1" &&
			b.StartDatetime.Equal(start) && b.EndDatetime.Equal(end)
	})).Return(nil)

	w := newTestWorker(new(mockBookingRepo), blocks, calendar)

	err := w.SyncProvider(context.Background(), 3)
	require.NoError(t, err)
	blocks.AssertExpectations(t)
}

// Кривые интервалы из внешнего календаря пропускаются, остальные применяются
func TestSyncProvider_SkipsMalformedIntervals(t *testing.T) {
	blocks := new(mockBlockRepo)
	calendar := new(mockCalendarClient)

	start := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	calendar.On("PullBusyIntervals", mock.Anything, int64(3), mock.Anything, mock.Anything).
		Return([]calendarsync.BusyInterval{
			{ExternalEventID: "evt-bad", StartsAt: start, EndsAt: start},
			{ExternalEventID: "evt-ok", StartsAt: start, EndsAt: start.Add(time.Hour)},
		}, nil)

	blocks.On("ReplaceExternal", mock.Anything, int64(3), mock.MatchedBy(func(bs []*domain.VendorCalendarBlock) bool {
		return len(bs) == 1 && *bs[0].ExternalEventID == "evt-ok"
	})).Return(nil)

	w := newTestWorker(new(mockBookingRepo), blocks, calendar)

	err := w.SyncProvider(context.Background(), 3)
	require.NoError(t, err)
	blocks.AssertExpectations(t)
}

// Отключённый календарь снимает прежние внешние блокировки
func TestSyncProvider_NotConnectedClearsBlocks(t *testing.T) {
	blocks := new(mockBlockRepo)
	calendar := new(mockCalendarClient)

	calendar.On("PullBusyIntervals", mock.Anything, int64(3), mock.Anything, mock.Anything).
		Return(nil, calendarsync.ErrProviderNotConnected)

	blocks.On("ReplaceExternal", mock.Anything, int64(3), mock.MatchedBy(func(bs []*domain.VendorCalendarBlock) bool {
		return len(bs) == 0
	})).Return(nil)

	w := newTestWorker(new(mockBookingRepo), blocks, calendar)

	err := w.SyncProvider(context.Background(), 3)
	require.NoError(t, err)
	blocks.AssertExpectations(t)
}

// Недоступность шлюза оставляет прежние блокировки нетронутыми
func TestSyncProvider_GatewayErrorKeepsStaleBlocks(t *testing.T) {
	blocks := new(mockBlockRepo)
	calendar := new(mockCalendarClient)

	calendar.On("PullBusyIntervals", mock.Anything, int64(3), mock.Anything, mock.Anything).
		Return(nil, assert.AnError)

	w := newTestWorker(new(mockBookingRepo), blocks, calendar)

	err := w.SyncProvider(context.Background(), 3)
	assert.Error(t, err)
	blocks.AssertNotCalled(t, "ReplaceExternal", mock.Anything, mock.Anything, mock.Anything)
}

func TestStartStop(t *testing.T) {
	bookings := new(mockBookingRepo)
	bookings.On("GetProviderIDs", mock.Anything).Return([]int64{}, nil)

	w := newTestWorker(bookings, new(mockBlockRepo), new(mockCalendarClient))

	w.Start()
	time.Sleep(50 * time.Millisecond)
	w.Stop()

	bookings.AssertExpectations(t)
}
