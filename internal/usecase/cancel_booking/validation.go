package cancel_booking

import (
	"fmt"

	"github.com/capozzinicolas-stack/vivelo-sub000/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	switch req.Actor {
	case domain.CancelledByClient, domain.CancelledByProvider, domain.CancelledByAdmin:
	default:
		return fmt.Errorf("%w: unknown actor %q", ErrInvalidInput, req.Actor)
	}

	if req.Actor != domain.CancelledByAdmin && req.ActorID <= 0 {
		return fmt.Errorf("%w: actorID must be positive", ErrInvalidInput)
	}

	if req.Reason != nil && len(*req.Reason) > domain.MaxCancelReasonLength {
		return fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxCancelReasonLength)
	}

	return nil
}

// validateOwnership проверяет, что актор владеет бронированием
// Админ отменяет любые бронирования
func validateOwnership(booking *domain.Booking, actor domain.CancelActor, actorID int64) error {
	switch actor {
	case domain.CancelledByClient:
		if booking.ClientID != actorID {
			return ErrPermissionDenied
		}
	case domain.CancelledByProvider:
		if booking.ProviderID != actorID {
			return ErrPermissionDenied
		}
	}
	return nil
}
