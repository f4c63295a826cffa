package create_calendar_block

import (
	"time"

	"github.com/capozzinicolas-stack/vivelo-sub000/internal/service/calendarblocks/models"
)

// CreateBlockRequest HTTP request model
type CreateBlockRequest struct {
	StartDatetime time.Time `json:"startDatetime"`
	EndDatetime   time.Time `json:"endDatetime"`
	Reason        *string   `json:"reason,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateBlockRequest) ToServiceRequest(providerID int64) *models.CreateBlockRequest {
	return &models.CreateBlockRequest{
		ProviderID:    providerID,
		StartDatetime: r.StartDatetime,
		EndDatetime:   r.EndDatetime,
		Reason:        r.Reason,
	}
}
