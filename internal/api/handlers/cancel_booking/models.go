package cancel_booking

import (
	"time"

	cancelBooking "github.com/capozzinicolas-stack/vivelo-sub000/internal/usecase/cancel_booking"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// CancelBookingResponse HTTP response model
type CancelBookingResponse struct {
	BookingID        int64   `json:"bookingId"`
	Status           string  `json:"status"`
	RefundPercent    float64 `json:"refundPercent"`
	RefundAmount     float64 `json:"refundAmount"`
	CancelledAt      string  `json:"cancelledAt"`
	CancelledBy      string  `json:"cancelledBy"`
	AlreadyCancelled bool    `json:"alreadyCancelled"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelBooking.Response) *CancelBookingResponse {
	return &CancelBookingResponse{
		BookingID:        resp.BookingID,
		Status:           resp.Status,
		RefundPercent:    resp.RefundPercent,
		RefundAmount:     resp.RefundAmount,
		CancelledAt:      resp.CancelledAt.Format(time.RFC3339),
		CancelledBy:      string(resp.CancelledBy),
		AlreadyCancelled: resp.AlreadyCancelled,
	}
}
