package calendarsync

import "time"

// CalendarEvent событие для публикации во внешний календарь провайдера
// Интервал события - окно самого мероприятия, без внутренних буферов
type CalendarEvent struct {
	BookingID   int64     `json:"booking_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
}

// BusyInterval занятый интервал из внешнего календаря провайдера
type BusyInterval struct {
	ExternalEventID string    `json:"external_event_id"`
	Title           string    `json:"title,omitempty"`
	StartsAt        time.Time `json:"starts_at"`
	EndsAt          time.Time `json:"ends_at"`
}

// pushEventResponse ответ на публикацию события
type pushEventResponse struct {
	ExternalEventID string `json:"external_event_id"`
}

// pullBusyIntervalsResponse ответ со списком занятых интервалов
type pullBusyIntervalsResponse struct {
	Intervals []BusyInterval `json:"intervals"`
}

// ErrorResponse модель ошибки от календарного шлюза
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
