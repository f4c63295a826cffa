package cancel_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/capozzinicolas-stack/vivelo-sub000/internal/domain"
	bookingRepo "github.com/capozzinicolas-stack/vivelo-sub000/internal/infra/storage/booking"
	"github.com/capozzinicolas-stack/vivelo-sub000/pkg/ptr"
)

// calendarDeleteTimeout таймаут фонового удаления события из внешнего календаря
const calendarDeleteTimeout = 10 * time.Second

// UseCase use case для отмены бронирования
type UseCase struct {
	bookingRepo    BookingRepository
	paymentClient  PaymentServiceClient
	calendarClient CalendarSyncClient
	txManager      TransactionManager
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	paymentClient PaymentServiceClient,
	calendarClient CalendarSyncClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:    bookingRepo,
		paymentClient:  paymentClient,
		calendarClient: calendarClient,
		txManager:      txManager,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// Execute выполняет use case отмены бронирования
//
// Отмена идемпотентна: повторный запрос возвращает зафиксированные при
// первой отмене цифры возврата и не трогает платёж. Возврат считается
// по снимку политики в бронировании от часов до начала мероприятия
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelBooking: booking=%d, actor=%s, actorID=%d", req.BookingID, req.Actor, req.ActorID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	var result *domain.Booking
	var alreadyCancelled bool

	// 3. Чтение с блокировкой строки и отмена в сериализуемой транзакции:
	// две параллельные отмены не зафиксируют возврат дважды
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("CancelBooking: booking id=%d not found", req.BookingID)
				return ErrBookingNotFound
			}
			uc.logger.Error("CancelBooking: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		// 3.1. Проверяем владение
		if err := validateOwnership(booking, req.Actor, req.ActorID); err != nil {
			uc.logger.Warn("CancelBooking: actor %s id=%d does not own booking id=%d",
				req.Actor, req.ActorID, req.BookingID)
			return err
		}

		// 3.2. Повторная отмена: возвращаем записанные цифры, ничего не меняем
		if booking.IsCancelled() {
			uc.logger.Info("CancelBooking: booking id=%d already cancelled, returning recorded refund", req.BookingID)
			result = booking
			alreadyCancelled = true
			return nil
		}

		// 3.3. Проверяем, что актор может отменить в текущем статусе
		if !booking.CanBeCancelledBy(req.Actor) {
			uc.logger.Warn("CancelBooking: booking id=%d in status %s cannot be cancelled by %s",
				req.BookingID, booking.Status, req.Actor)
			return fmt.Errorf("%w: status %s", ErrNotCancellable, booking.Status)
		}

		// 3.4. Считаем возврат по снимку политики от начала мероприятия
		refund := domain.EvaluateRefund(booking.PolicySnapshot, booking.StartDatetime, now, booking.Total)

		// 3.5. Фиксируем отмену и цифры возврата
		if err := uc.bookingRepo.Cancel(txCtx, req.BookingID, req.Actor, req.Reason, refund, now); err != nil {
			uc.logger.Error("CancelBooking: failed to cancel booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to cancel booking: %v", ErrInternal, err)
		}

		// Переход в cancelled идёт через state machine, как и остальные
		if err := domain.Transition(booking, domain.StatusCancelled, now); err != nil {
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}
		booking.RefundAmount = ptr.Ptr(refund.RefundAmount)
		booking.RefundPercent = ptr.Ptr(refund.RefundPercent)
		booking.CancelledAt = ptr.Ptr(now)
		booking.CancelledBy = ptr.Ptr(req.Actor)
		booking.CancelReason = req.Reason

		result = booking
		return nil
	})

	if err != nil {
		return nil, err
	}

	if !alreadyCancelled {
		// 4. Возврат средств: сбой не откатывает отмену, доделает выверка
		uc.refundPayment(ctx, result)

		// 5. Удаляем событие из внешнего календаря в фоне: отмена не ждёт
		// внешний календарь и не падает из-за него
		uc.deleteCalendarEventAsync(result)
	}

	uc.logger.Info("CancelBooking: booking id=%d cancelled, refund=%.2f (%.0f%%), already=%t",
		req.BookingID, derefFloat(result.RefundAmount), derefFloat(result.RefundPercent), alreadyCancelled)

	resp := &Response{
		BookingID:        result.ID,
		Status:           string(result.Status),
		RefundPercent:    derefFloat(result.RefundPercent),
		RefundAmount:     derefFloat(result.RefundAmount),
		AlreadyCancelled: alreadyCancelled,
	}
	if result.CancelledAt != nil {
		resp.CancelledAt = *result.CancelledAt
	}
	if result.CancelledBy != nil {
		resp.CancelledBy = *result.CancelledBy
	}

	return resp, nil
}

// refundPayment возвращает клиенту рассчитанную сумму (best-effort)
func (uc *UseCase) refundPayment(ctx context.Context, booking *domain.Booking) {
	if booking.PaymentID == nil || booking.RefundAmount == nil || *booking.RefundAmount <= 0 {
		return
	}

	// Ключ идемпотентности привязан к бронированию: повторный вызов
	// не создаст второго возврата
	idempotencyKey := fmt.Sprintf("booking-refund:%d", booking.ID)

	err := uc.paymentClient.RefundPayment(ctx, *booking.PaymentID, *booking.RefundAmount, "booking cancelled", idempotencyKey)
	if err != nil {
		uc.logger.Error("CancelBooking: failed to refund payment %s for booking id=%d: %v",
			*booking.PaymentID, booking.ID, err)
	}
}

// deleteCalendarEventAsync удаляет событие из внешнего календаря в фоне
// Ошибки проглатываются: внешний календарь не участвует в решении об отмене
func (uc *UseCase) deleteCalendarEventAsync(booking *domain.Booking) {
	if booking.ExternalEventID == nil {
		return
	}

	providerID := booking.ProviderID
	externalEventID := *booking.ExternalEventID
	bookingID := booking.ID

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), calendarDeleteTimeout)
		defer cancel()

		if err := uc.calendarClient.DeleteEvent(ctx, providerID, externalEventID); err != nil {
			uc.logger.Warn("CancelBooking: failed to delete calendar event %s for booking id=%d: %v",
				externalEventID, bookingID, err)
		}
	}()
}

func derefFloat(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
