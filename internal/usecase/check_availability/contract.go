package check_availability

import (
	"context"
	"time"

	"github.com/capozzinicolas-stack/vivelo-sub000/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	CountActiveOverlapping(ctx context.Context, providerID int64, start, end time.Time, excludeID *int64) (int, error)
}

// CalendarBlockRepository интерфейс репозитория блокировок календаря
type CalendarBlockRepository interface {
	HasOverlapping(ctx context.Context, providerID int64, start, end time.Time) (bool, error)
}

// CatalogServiceClient интерфейс клиента каталога услуг
type CatalogServiceClient interface {
	GetServiceOffering(ctx context.Context, serviceID int64) (*domain.ServiceOffering, error)
	GetProviderProfile(ctx context.Context, providerID int64) (*domain.ProviderProfile, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
