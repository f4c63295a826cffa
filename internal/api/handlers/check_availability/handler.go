package check_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/capozzinicolas-stack/vivelo-sub000/internal/api/handlers"
	checkAvailability "github.com/capozzinicolas-stack/vivelo-sub000/internal/usecase/check_availability"
)

const (
	msgInvalidServiceID  = "некорректный ID услуги"
	msgInvalidQuery      = "некорректные параметры запроса"
	msgInvalidTimeWindow = "некорректное временное окно мероприятия"
	msgServiceNotFound   = "услуга не найдена"
	msgProviderNotFound  = "провайдер не найден"
)

type Handler struct {
	useCase CheckAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase CheckAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/services/{serviceId}/availability
//
// Окно мероприятия передаётся query параметрами: date, startTime, endTime
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	serviceID, err := strconv.ParseInt(vars["serviceId"], 10, 64)
	if err != nil || serviceID <= 0 {
		h.logger.Warn("GET /services/{serviceId}/availability - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	query := r.URL.Query()
	ucReq, err := toUseCaseRequest(serviceID, query.Get("date"), query.Get("startTime"), query.Get("endTime"))
	if err != nil {
		h.logger.Warn("GET /services/{serviceId}/availability - Invalid query params: service_id=%d, error=%v",
			serviceID, err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	resp, err := h.useCase.Execute(r.Context(), ucReq)
	if err != nil {
		h.handleError(w, err, serviceID)
		return
	}

	h.logger.Info("GET /services/{serviceId}/availability - Availability checked: service_id=%d, available=%t",
		serviceID, resp.Available)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(resp))
}

func (h *Handler) handleError(w http.ResponseWriter, err error, serviceID int64) {
	switch {
	case errors.Is(err, checkAvailability.ErrInvalidInput):
		h.logger.Warn("GET /services/{serviceId}/availability - Invalid input: service_id=%d, error=%v",
			serviceID, err)
		handlers.RespondBadRequest(w, msgInvalidQuery)

	case errors.Is(err, checkAvailability.ErrInvalidTimeWindow):
		h.logger.Warn("GET /services/{serviceId}/availability - Invalid time window: service_id=%d", serviceID)
		handlers.RespondBadRequest(w, msgInvalidTimeWindow)

	case errors.Is(err, checkAvailability.ErrServiceNotFound):
		h.logger.Warn("GET /services/{serviceId}/availability - Service not found: service_id=%d", serviceID)
		handlers.RespondNotFound(w, msgServiceNotFound)

	case errors.Is(err, checkAvailability.ErrProviderNotFound):
		h.logger.Warn("GET /services/{serviceId}/availability - Provider not found: service_id=%d", serviceID)
		handlers.RespondNotFound(w, msgProviderNotFound)

	default:
		h.logger.Error("GET /services/{serviceId}/availability - Failed to check availability: service_id=%d, error=%v",
			serviceID, err)
		handlers.RespondInternalError(w)
	}
}
