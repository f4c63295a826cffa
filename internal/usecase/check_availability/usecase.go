package check_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/capozzinicolas-stack/vivelo-sub000/internal/domain"
	catalogClient "github.com/capozzinicolas-stack/vivelo-sub000/internal/integrations/catalogservice"
)

// UseCase use case для проверки доступности вендора в окне мероприятия
type UseCase struct {
	bookingRepo   BookingRepository
	blockRepo     CalendarBlockRepository
	catalogClient CatalogServiceClient
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	blockRepo CalendarBlockRepository,
	catalogClient CatalogServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		blockRepo:     blockRepo,
		catalogClient: catalogClient,
		logger:        logger,
	}
}

// Execute выполняет проверку доступности
//
// Вендор доступен, если количество пересекающихся активных бронирований
// меньше его лимита и окно не пересекает ни одной блокировки календаря
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CheckAvailability: service=%d, date=%s, window=%s-%s",
		req.ServiceID, req.EventDate.Format(domain.DateFormat), req.StartTime, req.EndTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CheckAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем услугу
	service, err := uc.catalogClient.GetServiceOffering(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("CheckAvailability: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CheckAvailability: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 3. Получаем профиль провайдера
	provider, err := uc.catalogClient.GetProviderProfile(ctx, service.ProviderID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrProviderNotFound) {
			uc.logger.Warn("CheckAvailability: provider id=%d not found", service.ProviderID)
			return nil, ErrProviderNotFound
		}
		uc.logger.Error("CheckAvailability: failed to get provider id=%d: %v", service.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get provider: %v", ErrInternal, err)
	}

	// 4. Вычисляем занятый интервал с учётом буферов
	buffers := domain.ResolveBuffers(service, provider)
	window, err := domain.BuildEventWindow(req.EventDate, req.StartTime, req.EndTime, buffers)
	if err != nil {
		uc.logger.Warn("CheckAvailability: failed to build event window: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidTimeWindow, err)
	}

	// 5. Считаем пересекающиеся активные бронирования
	overlapping, err := uc.bookingRepo.CountActiveOverlapping(
		ctx, service.ProviderID, window.EffectiveStart, window.EffectiveEnd, nil)
	if err != nil {
		uc.logger.Error("CheckAvailability: failed to count overlapping bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to count overlapping bookings: %v", ErrInternal, err)
	}

	// 6. Проверяем блокировки календаря
	blocked, err := uc.blockRepo.HasOverlapping(ctx, service.ProviderID, window.EffectiveStart, window.EffectiveEnd)
	if err != nil {
		uc.logger.Error("CheckAvailability: failed to check calendar blocks: %v", err)
		return nil, fmt.Errorf("%w: failed to check calendar blocks: %v", ErrInternal, err)
	}

	maxConcurrent := provider.MaxConcurrent()
	available := overlapping < maxConcurrent && !blocked

	uc.logger.Info("CheckAvailability: provider id=%d available=%t, %d/%d slots taken, blocked=%t",
		service.ProviderID, available, overlapping, maxConcurrent, blocked)

	return &Response{
		Available:        available,
		OverlappingCount: overlapping,
		MaxConcurrent:    maxConcurrent,
		CalendarBlocked:  blocked,
		EffectiveStart:   window.EffectiveStart,
		EffectiveEnd:     window.EffectiveEnd,
	}, nil
}
