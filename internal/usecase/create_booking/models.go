package create_booking

import (
	"time"

	"github.com/capozzinicolas-stack/vivelo-sub000/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	ClientID    int64            // ID клиента
	ServiceID   int64            // ID услуги из каталога
	EventDate   time.Time        // Дата мероприятия (без времени)
	StartTime   types.TimeString // Время начала мероприятия ("10:00")
	EndTime     types.TimeString // Время окончания мероприятия ("14:00")
	GuestCount  int              // Количество гостей
	ExtrasTotal float64          // Сумма дополнительных опций (декорации, оборудование)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID         int64            // ID созданного бронирования
	ClientID   int64            // ID клиента
	ProviderID int64            // ID провайдера
	ServiceID  int64            // ID услуги
	EventDate  time.Time        // Дата мероприятия
	StartTime  types.TimeString // Время начала
	EndTime    types.TimeString // Время окончания
	EventHours float64          // Длительность мероприятия в часах
	GuestCount int              // Количество гостей
	Status     string           // Статус бронирования

	// Занятый интервал вендора с учётом буферов
	EffectiveStart time.Time
	EffectiveEnd   time.Time

	// Ценообразование
	BaseTotal     float64 // Базовая стоимость услуги
	ExtrasTotal   float64 // Дополнительные опции
	DiscountTotal float64 // Скидка по кампании
	Total         float64 // Итог к оплате
	Commission    float64 // Комиссия площадки (снимок на момент оформления)

	// Денормализованные данные
	ServiceName string // Название услуги

	PaymentID *string // ID платежа

	CreatedAt time.Time // Время создания
}
