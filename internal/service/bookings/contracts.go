package bookings

import (
	"context"
	"time"

	"github.com/capozzinicolas-stack/vivelo-sub000/internal/domain"
	"github.com/capozzinicolas-stack/vivelo-sub000/internal/integrations/calendarsync"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByClientID(ctx context.Context, clientID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByProviderWithFilter(ctx context.Context, filter domain.ProviderBookingsFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	SetExternalEventID(ctx context.Context, id int64, externalEventID *string) error
}

// CalendarSyncClient интерфейс клиента календарного шлюза
type CalendarSyncClient interface {
	PushEvent(ctx context.Context, providerID int64, event calendarsync.CalendarEvent) (string, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
