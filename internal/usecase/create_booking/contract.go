package create_booking

import (
	"context"
	"time"

	"github.com/capozzinicolas-stack/vivelo-sub000/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
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
	GetActiveCampaignWithGracefulDegradation(ctx context.Context, serviceID int64) (*domain.Campaign, error)
}

// PaymentServiceClient интерфейс клиента платёжного сервиса
type PaymentServiceClient interface {
	CapturePayment(ctx context.Context, clientID int64, amount float64, description, idempotencyKey string) (string, error)
	RefundPayment(ctx context.Context, paymentID string, amount float64, reason, idempotencyKey string) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
