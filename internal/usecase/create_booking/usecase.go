package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/capozzinicolas-stack/vivelo-sub000/internal/domain"
	bookingRepo "github.com/capozzinicolas-stack/vivelo-sub000/internal/infra/storage/booking"
	catalogClient "github.com/capozzinicolas-stack/vivelo-sub000/internal/integrations/catalogservice"
	"github.com/capozzinicolas-stack/vivelo-sub000/pkg/ptr"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo    BookingRepository
	blockRepo      CalendarBlockRepository
	catalogClient  CatalogServiceClient
	paymentClient  PaymentServiceClient
	txManager      TransactionManager
	timeProvider   TimeProvider
	commissionRate float64
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	blockRepo CalendarBlockRepository,
	catalogClient CatalogServiceClient,
	paymentClient PaymentServiceClient,
	txManager TransactionManager,
	commissionRate float64,
	logger Logger,
) *UseCase {
	if commissionRate <= 0 || commissionRate >= 1 {
		commissionRate = domain.DefaultCommissionRate
	}

	return &UseCase{
		bookingRepo:    bookingRepo,
		blockRepo:      blockRepo,
		catalogClient:  catalogClient,
		paymentClient:  paymentClient,
		txManager:      txManager,
		timeProvider:   &RealTimeProvider{},
		commissionRate: commissionRate,
		logger:         logger,
	}
}

// Execute выполняет use case создания бронирования
//
// Оплата списывается до транзакции (ключ идемпотентности защищает ретраи),
// проверка доступности и вставка выполняются в сериализуемой транзакции.
// Если слот ушёл между списанием и вставкой, оплата возвращается целиком
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: client=%d, service=%d, date=%s, window=%s-%s, guests=%d",
		req.ClientID, req.ServiceID, req.EventDate.Format(domain.DateFormat),
		req.StartTime, req.EndTime, req.GuestCount)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем услугу с привязанной политикой отмены
	service, err := uc.catalogClient.GetServiceOffering(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 4. Получаем профиль провайдера (лимит, буферы, ставка комиссии)
	provider, err := uc.catalogClient.GetProviderProfile(ctx, service.ProviderID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrProviderNotFound) {
			uc.logger.Warn("CreateBooking: provider id=%d not found", service.ProviderID)
			return nil, ErrProviderNotFound
		}
		uc.logger.Error("CreateBooking: failed to get provider id=%d: %v", service.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get provider: %v", ErrInternal, err)
	}

	// 5. Валидируем политику отмены до снимка: битая политика не должна
	// попасть в бронирование
	if service.CancellationPolicy != nil {
		if err := service.CancellationPolicy.Validate(); err != nil {
			uc.logger.Error("CreateBooking: service id=%d has invalid cancellation policy: %v", req.ServiceID, err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidCancellationPolicy, err)
		}
	}

	// 6. Получаем активную кампанию (graceful degradation: недоступность
	// каталога означает оформление без скидки, а не отказ)
	var campaign *domain.Campaign
	campaign, err = uc.catalogClient.GetActiveCampaignWithGracefulDegradation(ctx, req.ServiceID)
	if err != nil {
		if !errors.Is(err, catalogClient.ErrNoCampaign) && !errors.Is(err, catalogClient.ErrServiceDegraded) {
			uc.logger.Error("CreateBooking: failed to get campaign for service id=%d: %v", req.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to get campaign: %v", ErrInternal, err)
		}
		campaign = nil
	}
	if campaign != nil && !campaign.IsActiveAt(now) {
		campaign = nil
	}

	// 7. Вычисляем занятый интервал: буферы провайдера при включённом
	// глобальном переопределении полностью замещают буферы услуги
	buffers := domain.ResolveBuffers(service, provider)
	window, err := domain.BuildEventWindow(req.EventDate, req.StartTime, req.EndTime, buffers)
	if err != nil {
		uc.logger.Warn("CreateBooking: failed to build event window: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidTimeWindow, err)
	}

	if window.DurationHours() > domain.MaxEventDurationHours {
		uc.logger.Warn("CreateBooking: event duration %.1fh exceeds limit", window.DurationHours())
		return nil, fmt.Errorf("%w: event duration exceeds %d hours", ErrInvalidTimeWindow, domain.MaxEventDurationHours)
	}

	if err := validateEventNotInPast(window.StartDatetime, now); err != nil {
		uc.logger.Warn("CreateBooking: event date %s is in the past", req.EventDate.Format(domain.DateFormat))
		return nil, err
	}

	// 8. Рассчитываем стоимость и комиссию
	price, err := calculatePricing(service, campaign, window.DurationHours(), req.GuestCount, req.ExtrasTotal)
	if err != nil {
		uc.logger.Error("CreateBooking: pricing failed: %v", err)
		return nil, err
	}

	commissionRate := domain.ResolveCommissionRate(provider, campaign, uc.commissionRate)
	commission := domain.CalculateCommission(price.Total, commissionRate)

	// 9. Списываем оплату. Ключ идемпотентности детерминирован по параметрам
	// заявки: ретрай того же запроса не создаёт второго списания
	idempotencyKey := fmt.Sprintf("booking-capture:%d:%d:%s:%s",
		req.ClientID, req.ServiceID, req.EventDate.Format(domain.DateFormat), req.StartTime)

	paymentID, err := uc.paymentClient.CapturePayment(ctx, req.ClientID, price.Total, service.Name, idempotencyKey)
	if err != nil {
		uc.logger.Error("CreateBooking: payment capture failed for client=%d, amount=%.2f: %v",
			req.ClientID, price.Total, err)
		return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}

	// Переменная для хранения результата
	var result *domain.Booking

	// 10. Проверка доступности и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 10.1. Пересекающиеся активные бронирования против лимита вендора.
		// Лимит < 1 в профиле приводится к 1
		maxConcurrent := provider.MaxConcurrent()
		if provider.MaxConcurrentServices < 1 {
			uc.logger.Warn("CreateBooking: provider id=%d has invalid max_concurrent_services=%d, using %d",
				provider.ID, provider.MaxConcurrentServices, maxConcurrent)
		}

		overlapping, err := uc.bookingRepo.CountActiveOverlapping(
			txCtx, service.ProviderID, window.EffectiveStart, window.EffectiveEnd, nil)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to count overlapping bookings: %v", err)
			return fmt.Errorf("%w: failed to count overlapping bookings: %v", ErrInternal, err)
		}

		if overlapping >= maxConcurrent {
			uc.logger.Warn("CreateBooking: provider id=%d busy, %d/%d slots taken",
				service.ProviderID, overlapping, maxConcurrent)
			return ErrSlotNotAvailable
		}

		// 10.2. Блокировка календаря - абсолютное вето независимо от лимита
		blocked, err := uc.blockRepo.HasOverlapping(txCtx, service.ProviderID, window.EffectiveStart, window.EffectiveEnd)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to check calendar blocks: %v", err)
			return fmt.Errorf("%w: failed to check calendar blocks: %v", ErrInternal, err)
		}
		if blocked {
			uc.logger.Warn("CreateBooking: provider id=%d window overlaps a calendar block", service.ProviderID)
			return ErrCalendarBlocked
		}

		// 10.3. Создаем бронирование со снимками политики и комиссии
		booking := &domain.Booking{
			ServiceID:  req.ServiceID,
			ClientID:   req.ClientID,
			ProviderID: service.ProviderID,

			EventDate:  req.EventDate,
			StartTime:  req.StartTime,
			EndTime:    req.EndTime,
			EventHours: window.DurationHours(),
			GuestCount: req.GuestCount,

			BaseTotal:     price.BaseTotal,
			ExtrasTotal:   price.ExtrasTotal,
			DiscountTotal: price.DiscountTotal,
			Total:         price.Total,

			Commission:             commission,
			CommissionRateSnapshot: commissionRate,

			Status: domain.StatusPending,

			// Для вендоров с лимитом 1 вставку дополнительно страхует
			// exclusion constraint на пересечении занятых интервалов
			Exclusive: maxConcurrent == 1,

			StartDatetime:  window.StartDatetime,
			EndDatetime:    window.EndDatetime,
			EffectiveStart: window.EffectiveStart,
			EffectiveEnd:   window.EffectiveEnd,

			PolicySnapshot: clonePolicy(service.CancellationPolicy),
			ServiceName:    service.Name,
			PaymentID:      ptr.Ptr(paymentID),
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrOverlapConflict) {
				uc.logger.Warn("CreateBooking: overlap conflict on insert for provider id=%d", service.ProviderID)
				return ErrSlotNotAvailable
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		// Слот ушёл или вставка не удалась: возвращаем списанную оплату
		uc.refundCapturedPayment(ctx, paymentID, price.Total, idempotencyKey)
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d, total=%.2f, commission=%.2f",
		result.ID, result.Total, result.Commission)

	return &Response{
		ID:         result.ID,
		ClientID:   result.ClientID,
		ProviderID: result.ProviderID,
		ServiceID:  result.ServiceID,
		EventDate:  result.EventDate,
		StartTime:  result.StartTime,
		EndTime:    result.EndTime,
		EventHours: result.EventHours,
		GuestCount: result.GuestCount,
		Status:     string(result.Status),

		EffectiveStart: result.EffectiveStart,
		EffectiveEnd:   result.EffectiveEnd,

		BaseTotal:     result.BaseTotal,
		ExtrasTotal:   result.ExtrasTotal,
		DiscountTotal: result.DiscountTotal,
		Total:         result.Total,
		Commission:    result.Commission,

		ServiceName: result.ServiceName,
		PaymentID:   result.PaymentID,

		CreatedAt: result.CreatedAt,
	}, nil
}

// refundCapturedPayment возвращает оплату при неудавшемся оформлении (best-effort)
func (uc *UseCase) refundCapturedPayment(ctx context.Context, paymentID string, amount float64, captureKey string) {
	refundKey := captureKey + ":rollback"
	if err := uc.paymentClient.RefundPayment(ctx, paymentID, amount, "booking creation failed", refundKey); err != nil {
		// Возврат доделает фоновая выверка платежей, оформление уже отклонено
		uc.logger.Error("CreateBooking: failed to refund payment %s after rollback: %v", paymentID, err)
	}
}

// clonePolicy снимает независимую копию политики отмены для бронирования
func clonePolicy(policy *domain.CancellationPolicy) *domain.CancellationPolicy {
	if policy == nil {
		return nil
	}
	return policy.Clone()
}
