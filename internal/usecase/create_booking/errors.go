package create_booking

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrProviderNotFound возвращается, когда провайдер не найден в каталоге
	ErrProviderNotFound = errors.New("create_booking: provider not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInvalidTimeWindow возвращается при некорректном окне мероприятия
	// (конец не позже начала, отрицательные буферы)
	ErrInvalidTimeWindow = errors.New("create_booking: invalid event time window")

	// ErrEventInPast возвращается при попытке забронировать прошедшую дату
	ErrEventInPast = errors.New("create_booking: event starts in the past")

	// ErrSlotNotAvailable возвращается, когда вендор занят в запрошенном окне
	// (достигнут лимит одновременных услуг)
	ErrSlotNotAvailable = errors.New("create_booking: provider is not available in this window")

	// ErrCalendarBlocked возвращается, когда окно пересекает блокировку
	// календаря вендора (ручную или из внешней синхронизации)
	ErrCalendarBlocked = errors.New("create_booking: window overlaps a calendar block")

	// ErrInvalidCancellationPolicy возвращается, когда политика отмены услуги
	// не проходит валидацию (пересекающиеся интервалы, проценты вне диапазона)
	ErrInvalidCancellationPolicy = errors.New("create_booking: service has invalid cancellation policy")

	// ErrPaymentFailed возвращается, когда не удалось списать оплату
	ErrPaymentFailed = errors.New("create_booking: payment capture failed")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
