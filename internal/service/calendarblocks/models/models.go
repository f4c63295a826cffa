package models

import (
	"time"

	"github.com/capozzinicolas-stack/vivelo-sub000/internal/domain"
)

// CreateBlockRequest запрос на ручную блокировку интервала
type CreateBlockRequest struct {
	ProviderID    int64     `json:"providerId"`
	StartDatetime time.Time `json:"startDatetime"`
	EndDatetime   time.Time `json:"endDatetime"`
	Reason        *string   `json:"reason,omitempty"`
}

// BlockResponse ответ с данными блокировки
type BlockResponse struct {
	ID            int64     `json:"id"`
	ProviderID    int64     `json:"providerId"`
	StartDatetime time.Time `json:"startDatetime"`
	EndDatetime   time.Time `json:"endDatetime"`
	Reason        *string   `json:"reason,omitempty"`
	Source        string    `json:"source"`
	CreatedAt     time.Time `json:"createdAt"`
}

// BlockListResponse ответ со списком блокировок
type BlockListResponse struct {
	Blocks []BlockResponse `json:"blocks"`
}

// FromDomainBlock конвертирует domain модель в DTO
func FromDomainBlock(b *domain.VendorCalendarBlock) *BlockResponse {
	if b == nil {
		return nil
	}
	return &BlockResponse{
		ID:            b.ID,
		ProviderID:    b.ProviderID,
		StartDatetime: b.StartDatetime,
		EndDatetime:   b.EndDatetime,
		Reason:        b.Reason,
		Source:        string(b.Source),
		CreatedAt:     b.CreatedAt,
	}
}

// FromDomainBlockList конвертирует список domain моделей в DTO
func FromDomainBlockList(blocks []*domain.VendorCalendarBlock) *BlockListResponse {
	result := &BlockListResponse{
		Blocks: make([]BlockResponse, 0, len(blocks)),
	}
	for _, b := range blocks {
		result.Blocks = append(result.Blocks, *FromDomainBlock(b))
	}
	return result
}
