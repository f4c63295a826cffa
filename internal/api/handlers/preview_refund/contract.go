package preview_refund

import (
	"context"

	"github.com/capozzinicolas-stack/vivelo-sub000/internal/service/bookings/models"
)

type BookingService interface {
	PreviewRefund(ctx context.Context, bookingID int64, userID int64, role string) (*models.RefundPreviewResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
