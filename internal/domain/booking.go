package domain

import (
	"time"

	"github.com/capozzinicolas-stack/vivelo-sub000/pkg/types"
)

// CancelActor роль инициатора отмены бронирования
type CancelActor string

const (
	CancelledByClient   CancelActor = "client"
	CancelledByProvider CancelActor = "provider"
	CancelledByAdmin    CancelActor = "admin"
)

// Booking represents a marketplace booking of a service for an event
type Booking struct {
	ID         int64
	ServiceID  int64
	ClientID   int64
	ProviderID int64

	// Запрошенное окно мероприятия (локальное время площадки)
	EventDate  time.Time
	StartTime  types.TimeString
	EndTime    types.TimeString
	EventHours float64
	GuestCount int

	// Финансовые поля, зафиксированные в момент покупки
	BaseTotal              float64
	ExtrasTotal            float64
	DiscountTotal          float64
	Total                  float64 // base + extras - discount
	Commission             float64
	CommissionRateSnapshot float64

	Status BookingStatus

	// Участвует ли строка в exclusion constraint БД
	// (true для вендоров с лимитом одновременных услуг = 1)
	Exclusive bool

	// Окно мероприятия и окно занятости (с буферами), вычисляются один раз
	// при создании и далее не пересчитываются
	StartDatetime  time.Time
	EndDatetime    time.Time
	EffectiveStart time.Time
	EffectiveEnd   time.Time

	// Снимок политики отмены, действовавшей на момент покупки
	PolicySnapshot *CancellationPolicy

	// Denormalized data for history
	ServiceName string

	// Заполняются ровно один раз при отмене
	RefundAmount  *float64
	RefundPercent *float64
	CancelledAt   *time.Time
	CancelledBy   *CancelActor
	CancelReason  *string

	// Идентификатор платежа во внешней платёжной системе
	PaymentID *string

	// Идентификатор события во внешнем календаре (после push)
	ExternalEventID *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking occupies the vendor's schedule
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsTerminal returns true if the booking reached a final status
func (b *Booking) IsTerminal() bool {
	return b.Status.IsTerminal()
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// CanBeCancelledBy returns true if the given actor may cancel the booking
// Клиент может отозвать pending и отменить confirmed; провайдер - confirmed;
// админ - любое отменяемое состояние (включая in_review)
func (b *Booking) CanBeCancelledBy(actor CancelActor) bool {
	if !CanTransition(b.Status, StatusCancelled) {
		return false
	}

	switch actor {
	case CancelledByClient:
		return b.Status == StatusPending || b.Status == StatusConfirmed
	case CancelledByProvider:
		return b.Status == StatusConfirmed
	case CancelledByAdmin:
		return true
	default:
		return false
	}
}

// OverlapsWindow returns true if the booking's effective interval overlaps
// the given half-open interval [start, end)
func (b *Booking) OverlapsWindow(start, end time.Time) bool {
	return Overlaps(b.EffectiveStart, b.EffectiveEnd, start, end)
}

// ProviderBookingsFilter фильтр для получения бронирований провайдера
type ProviderBookingsFilter struct {
	ProviderID      int64          // Обязательный параметр
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли финальные бронирования
}
