package cancel_booking

import (
	"context"
	"time"

	"github.com/capozzinicolas-stack/vivelo-sub000/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Cancel(ctx context.Context, id int64, actor domain.CancelActor, reason *string, refund domain.RefundResult, cancelledAt time.Time) error
}

// PaymentServiceClient интерфейс клиента платёжного сервиса
type PaymentServiceClient interface {
	RefundPayment(ctx context.Context, paymentID string, amount float64, reason, idempotencyKey string) error
}

// CalendarSyncClient интерфейс клиента календарного шлюза
type CalendarSyncClient interface {
	DeleteEvent(ctx context.Context, providerID int64, externalEventID string) error
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
