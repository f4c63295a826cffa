package calendarblock

import "errors"

var (
	// ErrBlockNotFound возвращается, когда блокировка не найдена
	ErrBlockNotFound = errors.New("calendarblock.repository: calendar block not found")

	// ErrNotManual возвращается при попытке удалить блокировку внешней синхронизации
	// вручную - такие блокировки живут по циклу reconciliation
	ErrNotManual = errors.New("calendarblock.repository: block is not manually created")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("calendarblock.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("calendarblock.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("calendarblock.repository: failed to scan row")

	// ErrTransaction возвращается при ошибках работы с транзакцией
	ErrTransaction = errors.New("calendarblock.repository: transaction error")
)
