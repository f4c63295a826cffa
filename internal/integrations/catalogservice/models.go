package catalogservice

import (
	"time"

	"github.com/capozzinicolas-stack/vivelo-sub000/internal/domain"
)

// serviceOfferingDTO модель услуги из каталога
type serviceOfferingDTO struct {
	ID                  int64    `json:"id"`
	ProviderID          int64    `json:"provider_id"`
	Name                string   `json:"name"`
	BasePrice           float64  `json:"base_price"`
	PriceUnit           string   `json:"price_unit"`
	BaseEventHours      *float64 `json:"base_event_hours,omitempty"`
	BufferBeforeMinutes int      `json:"buffer_before_minutes"`
	BufferAfterMinutes  int      `json:"buffer_after_minutes"`

	CancellationPolicy *cancellationPolicyDTO `json:"cancellation_policy,omitempty"`
}

// cancellationPolicyDTO модель политики отмены из каталога
type cancellationPolicyDTO struct {
	Name        string                `json:"name"`
	Description string                `json:"description,omitempty"`
	Rules       []cancellationRuleDTO `json:"rules"`
}

type cancellationRuleDTO struct {
	MinHours      float64  `json:"min_hours"`
	MaxHours      *float64 `json:"max_hours"`
	RefundPercent float64  `json:"refund_percent"`
}

// providerProfileDTO модель профиля провайдера из каталога
type providerProfileDTO struct {
	ID                        int64    `json:"id"`
	MaxConcurrentServices     int      `json:"max_concurrent_services"`
	CommissionRate            *float64 `json:"commission_rate,omitempty"`
	ApplyBuffersToAll         bool     `json:"apply_buffers_to_all"`
	GlobalBufferBeforeMinutes int      `json:"global_buffer_before_minutes"`
	GlobalBufferAfterMinutes  int      `json:"global_buffer_after_minutes"`
}

// campaignDTO модель промо-кампании из каталога
type campaignDTO struct {
	ID                     int64     `json:"id"`
	Name                   string    `json:"name"`
	DiscountPct            float64   `json:"discount_pct"`
	CommissionReductionPct float64   `json:"commission_reduction_pct"`
	StartsAt               time.Time `json:"starts_at"`
	EndsAt                 time.Time `json:"ends_at"`
}

// ErrorResponse модель ошибки от каталога
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (dto *serviceOfferingDTO) toDomain() *domain.ServiceOffering {
	offering := &domain.ServiceOffering{
		ID:                  dto.ID,
		ProviderID:          dto.ProviderID,
		Name:                dto.Name,
		BasePrice:           dto.BasePrice,
		PriceUnit:           domain.PriceUnit(dto.PriceUnit),
		BaseEventHours:      dto.BaseEventHours,
		BufferBeforeMinutes: dto.BufferBeforeMinutes,
		BufferAfterMinutes:  dto.BufferAfterMinutes,
	}

	if dto.CancellationPolicy != nil {
		offering.CancellationPolicy = dto.CancellationPolicy.toDomain()
	}

	return offering
}

func (dto *cancellationPolicyDTO) toDomain() *domain.CancellationPolicy {
	policy := &domain.CancellationPolicy{
		Name:        dto.Name,
		Description: dto.Description,
		Rules:       make([]domain.CancellationRule, len(dto.Rules)),
	}
	for i, rule := range dto.Rules {
		policy.Rules[i] = domain.CancellationRule{
			MinHours:      rule.MinHours,
			MaxHours:      rule.MaxHours,
			RefundPercent: rule.RefundPercent,
		}
	}
	return policy
}

func (dto *providerProfileDTO) toDomain() *domain.ProviderProfile {
	return &domain.ProviderProfile{
		ID:                        dto.ID,
		MaxConcurrentServices:     dto.MaxConcurrentServices,
		CommissionRate:            dto.CommissionRate,
		ApplyBuffersToAll:         dto.ApplyBuffersToAll,
		GlobalBufferBeforeMinutes: dto.GlobalBufferBeforeMinutes,
		GlobalBufferAfterMinutes:  dto.GlobalBufferAfterMinutes,
	}
}

func (dto *campaignDTO) toDomain() *domain.Campaign {
	return &domain.Campaign{
		ID:                     dto.ID,
		Name:                   dto.Name,
		DiscountPct:            dto.DiscountPct,
		CommissionReductionPct: dto.CommissionReductionPct,
		StartsAt:               dto.StartsAt,
		EndsAt:                 dto.EndsAt,
	}
}
