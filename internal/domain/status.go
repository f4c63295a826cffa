package domain

import (
	"errors"
	"fmt"
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusInReview  BookingStatus = "in_review"
	StatusRejected  BookingStatus = "rejected"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// ErrInvalidTransition возвращается при попытке недопустимого перехода статуса
var ErrInvalidTransition = errors.New("domain: invalid booking status transition")

// ErrUnknownStatus возвращается для статуса вне множества допустимых
var ErrUnknownStatus = errors.New("domain: unknown booking status")

// legalTransitions таблица допустимых переходов статусов
// Финальные статусы (completed, rejected, cancelled) не имеют исходящих переходов
var legalTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusRejected, StatusCancelled},
	StatusConfirmed: {StatusInReview, StatusCompleted, StatusCancelled},
	StatusInReview:  {StatusConfirmed, StatusCancelled},
	StatusRejected:  {},
	StatusCompleted: {},
	StatusCancelled: {},
}

// ParseBookingStatus валидирует и конвертирует строку в BookingStatus
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if _, ok := legalTransitions[status]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return status, nil
}

// IsTerminal returns true if no transitions are legal from the status
func (s BookingStatus) IsTerminal() bool {
	return len(legalTransitions[s]) == 0 && s != ""
}

// CanTransition returns true if the transition from -> to is legal
func CanTransition(from, to BookingStatus) bool {
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the set of legal next statuses from the given one
// Для финальных статусов возвращает пустой слайс
// Используется клиентами, чтобы решить, какие действия предлагать пользователю
func NextStatuses(from BookingStatus) []BookingStatus {
	next := legalTransitions[from]
	result := make([]BookingStatus, len(next))
	copy(result, next)
	return result
}

// Transition переводит бронирование в новый статус, проверяя допустимость перехода
// Состояние бронирования при недопустимом переходе не меняется
func Transition(b *Booking, to BookingStatus, now time.Time) error {
	if _, ok := legalTransitions[to]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, to)
	}
	if !CanTransition(b.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, to)
	}

	b.Status = to
	b.UpdatedAt = now
	return nil
}
