package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrOverlapConflict возвращается, когда exclusion constraint БД отклонил
	// вставку пересекающегося активного бронирования (гонка при оформлении)
	ErrOverlapConflict = errors.New("booking.repository: overlapping active booking rejected by constraint")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")

	// ErrEncodeSnapshot возвращается при ошибке сериализации снимка политики
	ErrEncodeSnapshot = errors.New("booking.repository: failed to encode policy snapshot")
)
