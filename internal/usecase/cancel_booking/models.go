package cancel_booking

import (
	"time"

	"github.com/capozzinicolas-stack/vivelo-sub000/internal/domain"
)

// Request модель запроса на отмену бронирования
type Request struct {
	BookingID int64              // ID бронирования
	Actor     domain.CancelActor // Кто отменяет: client, provider или admin
	ActorID   int64              // ID актора (для client и provider проверяется владение)
	Reason    *string            // Причина отмены (опционально)
}

// Response модель ответа с результатом отмены
//
// Повторная отмена возвращает зафиксированные при первой отмене цифры,
// AlreadyCancelled помечает такой повтор
type Response struct {
	BookingID int64  // ID бронирования
	Status    string // Статус после отмены (всегда cancelled)

	RefundPercent float64 // Процент возврата по снимку политики
	RefundAmount  float64 // Сумма возврата

	CancelledAt      time.Time          // Время первой отмены
	CancelledBy      domain.CancelActor // Актор первой отмены
	AlreadyCancelled bool               // Бронирование уже было отменено ранее
}
