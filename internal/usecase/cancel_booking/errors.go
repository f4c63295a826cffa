package cancel_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("cancel_booking: booking not found")

	// ErrPermissionDenied возвращается, когда актор не владеет бронированием
	ErrPermissionDenied = errors.New("cancel_booking: permission denied")

	// ErrNotCancellable возвращается, когда отмена в текущем статусе
	// недоступна актору (финальный статус или чужой этап жизненного цикла)
	ErrNotCancellable = errors.New("cancel_booking: booking cannot be cancelled")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("cancel_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("cancel_booking: internal error")
)
