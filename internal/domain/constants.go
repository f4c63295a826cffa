package domain

// Default configuration values
const (
	DefaultMaxConcurrentServices = 1
	DefaultCommissionRate        = 0.12
	DefaultBufferBeforeMinutes   = 0
	DefaultBufferAfterMinutes    = 0
)

// Business validation constants
const (
	MinGuestCount          = 0
	MaxGuestCount          = 10000
	MaxBufferMinutes       = 1440 // сутки
	MaxRefundPercent       = 100.0
	MinRefundPercent       = 0.0
	MaxCancelReasonLength  = 500
	MaxEventDurationHours  = 96 // многодневные мероприятия свыше 4 суток не принимаем
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses список статусов, при которых бронирование занимает слот вендора
// Используется при подсчёте пересечений в проверке доступности
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

// TerminalStatuses список финальных статусов
// Из финального статуса переходы запрещены, бронирование неизменяемо
var TerminalStatuses = []BookingStatus{
	StatusCompleted,
	StatusRejected,
	StatusCancelled,
}
