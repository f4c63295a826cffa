package calendarblocks

import (
	"context"

	"github.com/capozzinicolas-stack/vivelo-sub000/internal/domain"
)

// BlockRepository интерфейс репозитория блокировок календаря
type BlockRepository interface {
	Create(ctx context.Context, block *domain.VendorCalendarBlock) (*domain.VendorCalendarBlock, error)
	GetByProviderID(ctx context.Context, providerID int64) ([]*domain.VendorCalendarBlock, error)
	DeleteManual(ctx context.Context, id int64, providerID int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
