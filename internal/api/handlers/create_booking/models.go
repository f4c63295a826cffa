package create_booking

import (
	"time"

	"github.com/capozzinicolas-stack/vivelo-sub000/internal/domain"
	createBooking "github.com/capozzinicolas-stack/vivelo-sub000/internal/usecase/create_booking"
	"github.com/capozzinicolas-stack/vivelo-sub000/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ServiceID   int64   `json:"serviceId"`
	EventDate   string  `json:"eventDate"` // "2026-09-20"
	StartTime   string  `json:"startTime"` // "10:00"
	EndTime     string  `json:"endTime"`   // "14:00"
	GuestCount  int     `json:"guestCount"`
	ExtrasTotal float64 `json:"extrasTotal,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID         int64   `json:"id"`
	ClientID   int64   `json:"clientId"`
	ProviderID int64   `json:"providerId"`
	ServiceID  int64   `json:"serviceId"`
	EventDate  string  `json:"eventDate"`
	StartTime  string  `json:"startTime"`
	EndTime    string  `json:"endTime"`
	EventHours float64 `json:"eventHours"`
	GuestCount int     `json:"guestCount"`
	Status     string  `json:"status"`

	EffectiveStart string `json:"effectiveStart"`
	EffectiveEnd   string `json:"effectiveEnd"`

	BaseTotal     float64 `json:"baseTotal"`
	ExtrasTotal   float64 `json:"extrasTotal"`
	DiscountTotal float64 `json:"discountTotal"`
	Total         float64 `json:"total"`
	Commission    float64 `json:"commission"`

	ServiceName string `json:"serviceName"`
	CreatedAt   string `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(clientID int64) (*createBooking.Request, error) {
	eventDate, err := time.Parse(domain.DateFormat, r.EventDate)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	endTime, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		ClientID:    clientID,
		ServiceID:   r.ServiceID,
		EventDate:   eventDate,
		StartTime:   startTime,
		EndTime:     endTime,
		GuestCount:  r.GuestCount,
		ExtrasTotal: r.ExtrasTotal,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:         resp.ID,
		ClientID:   resp.ClientID,
		ProviderID: resp.ProviderID,
		ServiceID:  resp.ServiceID,
		EventDate:  resp.EventDate.Format(domain.DateFormat),
		StartTime:  resp.StartTime.String(),
		EndTime:    resp.EndTime.String(),
		EventHours: resp.EventHours,
		GuestCount: resp.GuestCount,
		Status:     resp.Status,

		EffectiveStart: resp.EffectiveStart.Format(time.RFC3339),
		EffectiveEnd:   resp.EffectiveEnd.Format(time.RFC3339),

		BaseTotal:     resp.BaseTotal,
		ExtrasTotal:   resp.ExtrasTotal,
		DiscountTotal: resp.DiscountTotal,
		Total:         resp.Total,
		Commission:    resp.Commission,

		ServiceName: resp.ServiceName,
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
	}
}
