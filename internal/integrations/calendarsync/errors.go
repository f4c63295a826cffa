package calendarsync

import "errors"

var (
	// ErrEventNotFound событие не найдено во внешнем календаре
	ErrEventNotFound = errors.New("calendarsync: event not found")

	// ErrProviderNotConnected провайдер не подключил внешний календарь
	ErrProviderNotConnected = errors.New("calendarsync: provider has no connected calendar")

	// ErrInternal внутренняя ошибка при обращении к календарному шлюзу
	ErrInternal = errors.New("calendarsync: internal error")

	// ErrInvalidResponse некорректный ответ от календарного шлюза
	ErrInvalidResponse = errors.New("calendarsync: invalid response")
)
