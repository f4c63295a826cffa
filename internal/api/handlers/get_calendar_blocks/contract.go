package get_calendar_blocks

import (
	"context"

	"github.com/capozzinicolas-stack/vivelo-sub000/internal/service/calendarblocks/models"
)

type CalendarBlockService interface {
	List(ctx context.Context, providerID int64) (*models.BlockListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
