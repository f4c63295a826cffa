package create_booking

import (
	"errors"
	"net/http"

	"github.com/capozzinicolas-stack/vivelo-sub000/internal/api/handlers"
	"github.com/capozzinicolas-stack/vivelo-sub000/internal/api/middleware"
	createBooking "github.com/capozzinicolas-stack/vivelo-sub000/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные бронирования"
	msgInvalidTimeWindow  = "некорректное временное окно мероприятия"
	msgEventInPast        = "мероприятие в прошлом"
	msgServiceNotFound    = "услуга не найдена"
	msgProviderNotFound   = "провайдер не найден"
	msgSlotNotAvailable   = "слот недоступен для бронирования"
	msgCalendarBlocked    = "интервал заблокирован в календаре провайдера"
	msgInvalidPolicy      = "некорректная политика отмены услуги"
	msgPaymentFailed      = "не удалось провести оплату"
	msgMissingUserID      = "отсутствует ID пользователя"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Клиентом выступает аутентифицированный пользователь
	clientID, ok := middleware.UserID(r)
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	ucReq, err := req.ToUseCaseRequest(clientID)
	if err != nil {
		h.logger.Warn("POST /bookings - Invalid date or time fields: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.useCase.Execute(r.Context(), ucReq)
	if err != nil {
		h.handleError(w, err, clientID)
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, client_id=%d",
		resp.ID, clientID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(resp))
}

func (h *Handler) handleError(w http.ResponseWriter, err error, clientID int64) {
	switch {
	case errors.Is(err, createBooking.ErrInvalidInput):
		h.logger.Warn("POST /bookings - Invalid input: client_id=%d, error=%v", clientID, err)
		handlers.RespondBadRequest(w, msgInvalidInput)

	case errors.Is(err, createBooking.ErrInvalidTimeWindow):
		h.logger.Warn("POST /bookings - Invalid time window: client_id=%d, error=%v", clientID, err)
		handlers.RespondBadRequest(w, msgInvalidTimeWindow)

	case errors.Is(err, createBooking.ErrEventInPast):
		h.logger.Warn("POST /bookings - Event in past: client_id=%d", clientID)
		handlers.RespondBadRequest(w, msgEventInPast)

	case errors.Is(err, createBooking.ErrServiceNotFound):
		h.logger.Warn("POST /bookings - Service not found: client_id=%d", clientID)
		handlers.RespondNotFound(w, msgServiceNotFound)

	case errors.Is(err, createBooking.ErrProviderNotFound):
		h.logger.Warn("POST /bookings - Provider not found: client_id=%d", clientID)
		handlers.RespondNotFound(w, msgProviderNotFound)

	case errors.Is(err, createBooking.ErrSlotNotAvailable):
		h.logger.Info("POST /bookings - Slot not available: client_id=%d", clientID)
		handlers.RespondError(w, http.StatusConflict, msgSlotNotAvailable)

	case errors.Is(err, createBooking.ErrCalendarBlocked):
		h.logger.Info("POST /bookings - Calendar blocked: client_id=%d", clientID)
		handlers.RespondError(w, http.StatusConflict, msgCalendarBlocked)

	case errors.Is(err, createBooking.ErrInvalidCancellationPolicy):
		h.logger.Error("POST /bookings - Invalid cancellation policy: client_id=%d, error=%v", clientID, err)
		handlers.RespondError(w, http.StatusUnprocessableEntity, msgInvalidPolicy)

	case errors.Is(err, createBooking.ErrPaymentFailed):
		h.logger.Warn("POST /bookings - Payment failed: client_id=%d, error=%v", clientID, err)
		handlers.RespondError(w, http.StatusPaymentRequired, msgPaymentFailed)

	default:
		h.logger.Error("POST /bookings - Failed to create booking: client_id=%d, error=%v", clientID, err)
		handlers.RespondInternalError(w)
	}
}
