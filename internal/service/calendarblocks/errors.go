package calendarblocks

import "errors"

var (
	// ErrBlockNotFound возвращается, когда блокировка не найдена
	ErrBlockNotFound = errors.New("calendar block not found")

	// ErrNotManual возвращается при попытке удалить блокировку внешней
	// синхронизации: ей управляет адаптер, а не провайдер
	ErrNotManual = errors.New("calendar block is not manual")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
