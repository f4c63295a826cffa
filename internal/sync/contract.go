package sync

import (
	"context"
	"time"

	"github.com/capozzinicolas-stack/vivelo-sub000/internal/domain"
	"github.com/capozzinicolas-stack/vivelo-sub000/internal/integrations/calendarsync"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetProviderIDs(ctx context.Context) ([]int64, error)
}

// CalendarBlockRepository интерфейс репозитория блокировок календаря
type CalendarBlockRepository interface {
	ReplaceExternal(ctx context.Context, providerID int64, blocks []*domain.VendorCalendarBlock) error
}

// CalendarSyncClient интерфейс клиента календарного шлюза
type CalendarSyncClient interface {
	PullBusyIntervals(ctx context.Context, providerID int64, from, to time.Time) ([]calendarsync.BusyInterval, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
