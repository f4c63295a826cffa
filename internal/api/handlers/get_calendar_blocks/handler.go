package get_calendar_blocks

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
	msgInvalidProviderID = "некорректный ID провайдера"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgForbidden         = "доступ запрещен"
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

// Handle GET /api/v1/providers/{providerId}/calendar-blocks
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	providerID, err := strconv.ParseInt(vars["providerId"], 10, 64)
	if err != nil || providerID <= 0 {
		h.logger.Warn("GET /providers/{providerId}/calendar-blocks - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	userID, ok := middleware.UserID(r)
	if !ok {
		h.logger.Warn("GET /providers/{providerId}/calendar-blocks - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if role := middleware.UserRole(r); role != middleware.RoleAdmin && (role != middleware.RoleProvider || userID != providerID) {
		h.logger.Warn("GET /providers/{providerId}/calendar-blocks - Access denied: provider_id=%d, user_id=%d",
			providerID, userID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	result, err := h.service.List(r.Context(), providerID)
	if err != nil {
		switch {
		case errors.Is(err, calendarblocks.ErrInvalidInput):
			h.logger.Warn("GET /providers/{providerId}/calendar-blocks - Invalid input: provider_id=%d, error=%v",
				providerID, err)
			handlers.RespondBadRequest(w, msgInvalidProviderID)

		default:
			h.logger.Error("GET /providers/{providerId}/calendar-blocks - Failed to list blocks: provider_id=%d, error=%v",
				providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /providers/{providerId}/calendar-blocks - Blocks retrieved successfully: provider_id=%d, count=%d",
		providerID, len(result.Blocks))
	handlers.RespondJSON(w, http.StatusOK, result.Blocks)
}
