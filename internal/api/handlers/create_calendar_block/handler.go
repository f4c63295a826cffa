package create_calendar_block

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/capozzinicolas-stack/vivelo-sub000/internal/api/handlers"
	"github.com/capozzinicolas-stack/vivelo-sub000/internal/api/middleware"
	"github.com/capozzinicolas-stack/vivelo-sub000/internal/service/calendarblocks"
)

const (
	msgInvalidProviderID  = "некорректный ID провайдера"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные блокировки"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
)

type Handler struct {
	service CalendarBlockService
	logger  Logger
}

func NewHandler(service CalendarBlockService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/providers/{providerId}/calendar-blocks
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	providerID, err := strconv.ParseInt(vars["providerId"], 10, 64)
	if err != nil || providerID <= 0 {
		h.logger.Warn("POST /providers/{providerId}/calendar-blocks - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	userID, ok := middleware.UserID(r)
	if !ok {
		h.logger.Warn("POST /providers/{providerId}/calendar-blocks - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Блокировками календаря управляет сам провайдер, админ - любыми
	if role := middleware.UserRole(r); role != middleware.RoleAdmin && (role != middleware.RoleProvider || userID != providerID) {
		h.logger.Warn("POST /providers/{providerId}/calendar-blocks - Access denied: provider_id=%d, user_id=%d",
			providerID, userID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	var req CreateBlockRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /providers/{providerId}/calendar-blocks - Invalid request body: provider_id=%d, error=%v",
			providerID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	block, err := h.service.Create(r.Context(), req.ToServiceRequest(providerID))
	if err != nil {
		switch {
		case errors.Is(err, calendarblocks.ErrInvalidInput):
			h.logger.Warn("POST /providers/{providerId}/calendar-blocks - Invalid input: provider_id=%d, error=%v",
				providerID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /providers/{providerId}/calendar-blocks - Failed to create block: provider_id=%d, error=%v",
				providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /providers/{providerId}/calendar-blocks - Block created successfully: block_id=%d, provider_id=%d",
		block.ID, providerID)
	handlers.RespondJSON(w, http.StatusCreated, block)
}
