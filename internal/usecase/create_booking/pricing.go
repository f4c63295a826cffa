package create_booking

import (
	"fmt"

	"github.com/capozzinicolas-stack/vivelo-sub000/internal/domain"
)

// pricing результат расчёта стоимости бронирования
type pricing struct {
	BaseTotal     float64
	ExtrasTotal   float64
	DiscountTotal float64
	Total         float64
}

// calculatePricing рассчитывает стоимость бронирования по единице
// ценообразования услуги. Скидка активной кампании применяется к сумме
// базовой стоимости и дополнительных опций
func calculatePricing(
	svc *domain.ServiceOffering,
	campaign *domain.Campaign,
	eventHours float64,
	guestCount int,
	extrasTotal float64,
) (pricing, error) {
	var base float64

	switch svc.PriceUnit {
	case domain.PricePerEvent:
		base = svc.BasePrice
		// Часы сверх включённых в базовую цену оплачиваются пропорционально
		if svc.BaseEventHours != nil && *svc.BaseEventHours > 0 && eventHours > *svc.BaseEventHours {
			hourlyRate := svc.BasePrice / *svc.BaseEventHours
			base += (eventHours - *svc.BaseEventHours) * hourlyRate
		}
	case domain.PricePerHour:
		base = svc.BasePrice * eventHours
	case domain.PricePerPerson:
		base = svc.BasePrice * float64(guestCount)
	default:
		return pricing{}, fmt.Errorf("%w: unknown price unit %q", ErrInternal, svc.PriceUnit)
	}

	base = domain.RoundMoney(base)

	var discount float64
	if campaign != nil && campaign.DiscountPct > 0 {
		discount = domain.RoundMoney((base + extrasTotal) * campaign.DiscountPct / 100)
	}

	total := domain.RoundMoney(base + extrasTotal - discount)
	if total < 0 {
		total = 0
	}

	return pricing{
		BaseTotal:     base,
		ExtrasTotal:   domain.RoundMoney(extrasTotal),
		DiscountTotal: discount,
		Total:         total,
	}, nil
}
