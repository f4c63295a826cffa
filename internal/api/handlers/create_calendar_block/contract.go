package create_calendar_block

import (
	"context"

	"github.com/capozzinicolas-stack/vivelo-sub000/internal/service/calendarblocks/models"
)

type CalendarBlockService interface {
	Create(ctx context.Context, req *models.CreateBlockRequest) (*models.BlockResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
