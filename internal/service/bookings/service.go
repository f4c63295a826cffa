package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/capozzinicolas-stack/vivelo-sub000/internal/domain"
	bookingRepo "github.com/capozzinicolas-stack/vivelo-sub000/internal/infra/storage/booking"
	"github.com/capozzinicolas-stack/vivelo-sub000/internal/integrations/calendarsync"
	"github.com/capozzinicolas-stack/vivelo-sub000/internal/service/bookings/models"
)

// calendarPushTimeout таймаут фоновой публикации события во внешний календарь
const calendarPushTimeout = 10 * time.Second

// Роли акторов в операциях над бронированием
const (
	RoleClient   = "client"
	RoleProvider = "provider"
	RoleAdmin    = "admin"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo    BookingRepository
	calendarClient CalendarSyncClient
	timeProvider   TimeProvider
	logger         Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	calendarClient CalendarSyncClient,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:    bookingRepo,
		calendarClient: calendarClient,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// GetByID получает бронирование по ID
// Клиент и провайдер видят только свои бронирования, админ - любые
func (s *Service) GetByID(ctx context.Context, id int64, userID int64, role string) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d role=%s", id, userID, role)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkAccess(booking, userID, role); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// GetClientBookings получает историю бронирований клиента
// Опционально фильтрует по статусу
func (s *Service) GetClientBookings(ctx context.Context, req *models.GetClientBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetClientBookings: fetching bookings for client=%d, status=%v", req.ClientID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetClientBookings: invalid status=%s for client=%d", *req.Status, req.ClientID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByClientID(ctx, req.ClientID, domainStatus)
	if err != nil {
		s.logger.Error("GetClientBookings: repository error for client=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: GetClientBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetClientBookings: successfully fetched %d bookings for client=%d", len(bookings), req.ClientID)
	return models.FromDomainBookingList(bookings), nil
}

// GetProviderBookings получает бронирования провайдера с гибкой фильтрацией
// Поддерживает фильтрацию по периоду, статусу и включению финальных бронирований
func (s *Service) GetProviderBookings(ctx context.Context, req *models.GetProviderBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetProviderBookings: fetching bookings for provider=%d", req.ProviderID)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetProviderBookings: invalid filter for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByProviderWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetProviderBookings: repository error for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: GetProviderBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetProviderBookings: successfully fetched %d bookings for provider=%d", len(bookings), req.ProviderID)
	return models.FromDomainBookingList(bookings), nil
}

// UpdateStatus переводит бронирование в новый статус
//
// Легальность перехода проверяет state machine, право актора на конкретный
// переход - матрица ролей. Отмена идёт отдельным сценарием с расчётом
// возврата, здесь переход в cancelled запрещён.
// При подтверждении событие публикуется во внешний календарь в фоне
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s by user=%d role=%s",
		bookingID, req.Status, req.UserID, req.Role)

	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	if err := s.checkAccess(booking, req.UserID, req.Role); err != nil {
		s.logger.Warn("UpdateStatus: access denied for user=%d to booking id=%d", req.UserID, bookingID)
		return err
	}

	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, bookingID)
		return fmt.Errorf("%w: %s", ErrInvalidStatus, req.Status)
	}

	if newStatus == domain.StatusCancelled {
		s.logger.Warn("UpdateStatus: cancellation of booking id=%d requested through status update", bookingID)
		return fmt.Errorf("%w: use the cancellation endpoint", ErrInvalidTransition)
	}

	if !roleMayTransition(req.Role, booking.Status, newStatus) {
		s.logger.Warn("UpdateStatus: role %s may not transition %s -> %s for booking id=%d",
			req.Role, booking.Status, newStatus, bookingID)
		return ErrAccessDenied
	}

	// Переход выполняет state machine: недопустимый переход не меняет бронирование
	from := booking.Status
	if err := domain.Transition(booking, newStatus, s.timeProvider.Now()); err != nil {
		s.logger.Warn("UpdateStatus: illegal transition %s -> %s for booking id=%d",
			from, newStatus, bookingID)
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, newStatus)
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, newStatus); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: successfully updated booking id=%d to status=%s", bookingID, newStatus)

	// Подтверждённое бронирование публикуется в календарь провайдера в фоне:
	// ответ клиенту не ждёт внешнюю систему
	if newStatus == domain.StatusConfirmed && booking.ExternalEventID == nil {
		s.pushCalendarEventAsync(booking)
	}

	return nil
}

// PreviewRefund считает возврат, который клиент получил бы при отмене сейчас
// Ничего не меняет: тот же снимок политики и та же формула, что у отмены
func (s *Service) PreviewRefund(ctx context.Context, bookingID int64, userID int64, role string) (*models.RefundPreviewResponse, error) {
	s.logger.Info("PreviewRefund: booking id=%d for user=%d role=%s", bookingID, userID, role)

	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := s.checkAccess(booking, userID, role); err != nil {
		s.logger.Warn("PreviewRefund: access denied for user=%d to booking id=%d", userID, bookingID)
		return nil, err
	}

	now := s.timeProvider.Now()
	refund := domain.EvaluateRefund(booking.PolicySnapshot, booking.StartDatetime, now, booking.Total)

	hoursToEvent := booking.StartDatetime.Sub(now).Hours()
	if hoursToEvent < 0 {
		hoursToEvent = 0
	}

	return &models.RefundPreviewResponse{
		BookingID:     booking.ID,
		Total:         booking.Total,
		RefundPercent: refund.RefundPercent,
		RefundAmount:  refund.RefundAmount,
		HoursToEvent:  hoursToEvent,
	}, nil
}

// Вспомогательные методы

// getBooking получает бронирование, транслируя ошибки репозитория
func (s *Service) getBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("getBooking: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("getBooking: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: getBooking - repository error: %v", ErrInternal, err)
	}
	return booking, nil
}

// checkAccess проверяет, что пользователь имеет доступ к бронированию
func (s *Service) checkAccess(booking *domain.Booking, userID int64, role string) error {
	switch role {
	case RoleAdmin:
		return nil
	case RoleClient:
		if booking.ClientID == userID {
			return nil
		}
	case RoleProvider:
		if booking.ProviderID == userID {
			return nil
		}
	}
	return ErrAccessDenied
}

// roleMayTransition матрица прав на переходы статуса
// Провайдер решает судьбу заявки и закрывает выполненные заказы,
// клиент может открыть спор по подтверждённому бронированию, админ
// выполняет любой легальный переход
func roleMayTransition(role string, from, to domain.BookingStatus) bool {
	switch role {
	case RoleAdmin:
		return true
	case RoleProvider:
		switch {
		case from == domain.StatusPending && to == domain.StatusConfirmed:
			return true
		case from == domain.StatusPending && to == domain.StatusRejected:
			return true
		case from == domain.StatusConfirmed && to == domain.StatusCompleted:
			return true
		case from == domain.StatusInReview && to == domain.StatusConfirmed:
			return true
		}
	case RoleClient:
		return from == domain.StatusConfirmed && to == domain.StatusInReview
	}
	return false
}

// pushCalendarEventAsync публикует бронирование во внешний календарь в фоне
// Ошибки проглатываются: интервал уже занят у нас, календарь догонит
// фоновая синхронизация
func (s *Service) pushCalendarEventAsync(booking *domain.Booking) {
	providerID := booking.ProviderID
	bookingID := booking.ID

	// Наружу уходят границы самого мероприятия: буферы подготовки и уборки -
	// внутренняя механика доступности, в чужом календаре им не место
	event := calendarsync.CalendarEvent{
		BookingID: booking.ID,
		Title:     booking.ServiceName,
		StartsAt:  booking.StartDatetime,
		EndsAt:    booking.EndDatetime,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), calendarPushTimeout)
		defer cancel()

		externalEventID, err := s.calendarClient.PushEvent(ctx, providerID, event)
		if err != nil {
			s.logger.Warn("UpdateStatus: failed to push calendar event for booking id=%d: %v", bookingID, err)
			return
		}

		if err := s.bookingRepo.SetExternalEventID(ctx, bookingID, &externalEventID); err != nil {
			s.logger.Error("UpdateStatus: failed to store external event id for booking id=%d: %v", bookingID, err)
		}
	}()
}
