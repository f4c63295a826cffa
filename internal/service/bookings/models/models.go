package models

import (
	"errors"
	"time"

	"github.com/capozzinicolas-stack/vivelo-sub000/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// GetClientBookingsRequest запрос на получение бронирований клиента
type GetClientBookingsRequest struct {
	ClientID int64   `json:"clientId"`
	Status   *string `json:"status,omitempty"`
}

// GetProviderBookingsRequest запрос на получение бронирований провайдера
type GetProviderBookingsRequest struct {
	ProviderID      int64      `json:"providerId"`
	StartDate       *time.Time `json:"startDate,omitempty"`       // Начало периода (опционально)
	EndDate         *time.Time `json:"endDate,omitempty"`         // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить финальные бронирования
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetProviderBookingsRequest) ToDomainFilter() (domain.ProviderBookingsFilter, error) {
	filter := domain.ProviderBookingsFilter{
		ProviderID:      r.ProviderID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// UpdateStatusRequest запрос на обновление статуса бронирования
type UpdateStatusRequest struct {
	UserID int64  `json:"userId"`
	Role   string `json:"role"` // client, provider или admin
	Status string `json:"status"`
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID         int64   `json:"id"`
	ClientID   int64   `json:"clientId"`
	ProviderID int64   `json:"providerId"`
	ServiceID  int64   `json:"serviceId"`
	EventDate  string  `json:"eventDate"` // "2026-09-20"
	StartTime  string  `json:"startTime"` // "10:00"
	EndTime    string  `json:"endTime"`   // "14:00"
	EventHours float64 `json:"eventHours"`
	GuestCount int     `json:"guestCount"`
	Status     string  `json:"status"`

	EffectiveStart time.Time `json:"effectiveStart"`
	EffectiveEnd   time.Time `json:"effectiveEnd"`

	BaseTotal     float64 `json:"baseTotal"`
	ExtrasTotal   float64 `json:"extrasTotal"`
	DiscountTotal float64 `json:"discountTotal"`
	Total         float64 `json:"total"`
	Commission    float64 `json:"commission"`

	ServiceName string `json:"serviceName"`

	RefundAmount  *float64 `json:"refundAmount,omitempty"`
	RefundPercent *float64 `json:"refundPercent,omitempty"`
	CancelledBy   *string  `json:"cancelledBy,omitempty"`
	CancelReason  *string  `json:"cancelReason,omitempty"`
	CancelledAt   *string  `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// RefundPreviewResponse прогноз возврата при отмене сейчас
type RefundPreviewResponse struct {
	BookingID     int64   `json:"bookingId"`
	Total         float64 `json:"total"`
	RefundPercent float64 `json:"refundPercent"`
	RefundAmount  float64 `json:"refundAmount"`
	HoursToEvent  float64 `json:"hoursToEvent"`
}

// Методы конвертации

// ToDomainBookingStatus конвертирует строку в domain статус
func ToDomainBookingStatus(s string) (domain.BookingStatus, error) {
	status, err := domain.ParseBookingStatus(s)
	if err != nil {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:         b.ID,
		ClientID:   b.ClientID,
		ProviderID: b.ProviderID,
		ServiceID:  b.ServiceID,
		EventDate:  b.EventDate.Format(domain.DateFormat),
		StartTime:  b.StartTime.String(),
		EndTime:    b.EndTime.String(),
		EventHours: b.EventHours,
		GuestCount: b.GuestCount,
		Status:     string(b.Status),

		EffectiveStart: b.EffectiveStart,
		EffectiveEnd:   b.EffectiveEnd,

		BaseTotal:     b.BaseTotal,
		ExtrasTotal:   b.ExtrasTotal,
		DiscountTotal: b.DiscountTotal,
		Total:         b.Total,
		Commission:    b.Commission,

		ServiceName: b.ServiceName,

		RefundAmount:  b.RefundAmount,
		RefundPercent: b.RefundPercent,
		CancelReason:  b.CancelReason,

		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}

	if b.CancelledBy != nil {
		actor := string(*b.CancelledBy)
		resp.CancelledBy = &actor
	}
	if b.CancelledAt != nil {
		formatted := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &formatted
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	result := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}
	for _, b := range bookings {
		result.Bookings = append(result.Bookings, *FromDomainBooking(b))
	}
	return result
}
