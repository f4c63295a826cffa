package check_availability

import (
	"time"

	"github.com/capozzinicolas-stack/vivelo-sub000/pkg/types"
)

// Request модель запроса проверки доступности
type Request struct {
	ServiceID int64            // ID услуги из каталога
	EventDate time.Time        // Дата мероприятия (без времени)
	StartTime types.TimeString // Время начала мероприятия
	EndTime   types.TimeString // Время окончания мероприятия
}

// Response модель ответа проверки доступности
//
// Проверка читающая: результат - снимок на момент запроса, финальную
// проверку выполняет оформление в своей транзакции
type Response struct {
	Available bool // Итог: свободен ли вендор в запрошенном окне

	OverlappingCount int  // Количество пересекающихся активных бронирований
	MaxConcurrent    int  // Лимит одновременных услуг вендора
	CalendarBlocked  bool // Окно пересекает блокировку календаря

	// Занятый интервал, который займёт бронирование (с буферами)
	EffectiveStart time.Time
	EffectiveEnd   time.Time
}
