package catalogservice

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("catalogservice client: service offering not found")

	// ErrProviderNotFound возвращается, когда профиль провайдера не найден
	ErrProviderNotFound = errors.New("catalogservice client: provider profile not found")

	// ErrNoCampaign возвращается, когда для услуги нет активной кампании
	ErrNoCampaign = errors.New("catalogservice client: no active campaign")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("catalogservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("catalogservice client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Указывает, что каталог недоступен и опциональные данные (кампании)
	// следует считать отсутствующими
	ErrServiceDegraded = errors.New("catalogservice unavailable: graceful degradation applied")
)
