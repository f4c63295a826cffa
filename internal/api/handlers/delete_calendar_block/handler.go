package delete_calendar_block

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
	msgInvalidBlockID    = "некорректный ID блокировки"
	msgNotFound          = "блокировка не найдена"
	msgNotManual         = "блокировкой управляет внешняя синхронизация"
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

// Handle DELETE /api/v1/providers/{providerId}/calendar-blocks/{blockId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	providerID, err := strconv.ParseInt(vars["providerId"], 10, 64)
	if err != nil || providerID <= 0 {
		h.logger.Warn("DELETE /providers/{providerId}/calendar-blocks/{blockId} - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	blockID, err := strconv.ParseInt(vars["blockId"], 10, 64)
	if err != nil || blockID <= 0 {
		h.logger.Warn("DELETE /providers/{providerId}/calendar-blocks/{blockId} - Invalid block ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBlockID)
		return
	}

	userID, ok := middleware.UserID(r)
	if !ok {
		h.logger.Warn("DELETE /providers/{providerId}/calendar-blocks/{blockId} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if role := middleware.UserRole(r); role != middleware.RoleAdmin && (role != middleware.RoleProvider || userID != providerID) {
		h.logger.Warn("DELETE /providers/{providerId}/calendar-blocks/{blockId} - Access denied: provider_id=%d, user_id=%d",
			providerID, userID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	if err := h.service.Delete(r.Context(), blockID, providerID); err != nil {
		switch {
		case errors.Is(err, calendarblocks.ErrBlockNotFound):
			h.logger.Warn("DELETE /providers/{providerId}/calendar-blocks/{blockId} - Block not found: block_id=%d, provider_id=%d",
				blockID, providerID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, calendarblocks.ErrNotManual):
			h.logger.Warn("DELETE /providers/{providerId}/calendar-blocks/{blockId} - Block managed by external sync: block_id=%d",
				blockID)
			handlers.RespondError(w, http.StatusConflict, msgNotManual)

		case errors.Is(err, calendarblocks.ErrInvalidInput):
			h.logger.Warn("DELETE /providers/{providerId}/calendar-blocks/{blockId} - Invalid input: block_id=%d, error=%v",
				blockID, err)
			handlers.RespondBadRequest(w, msgInvalidBlockID)

		default:
			h.logger.Error("DELETE /providers/{providerId}/calendar-blocks/{blockId} - Failed to delete block: block_id=%d, error=%v",
				blockID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /providers/{providerId}/calendar-blocks/{blockId} - Block deleted successfully: block_id=%d, provider_id=%d",
		blockID, providerID)
	w.WriteHeader(http.StatusNoContent)
}
