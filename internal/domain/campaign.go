package domain

import "time"

// Campaign промо-кампания площадки
// Снижает клиентскую цену (DiscountPct) и/или эффективную комиссию
// провайдера (CommissionReductionPct) для бронирований, оформленных
// в окне действия кампании
type Campaign struct {
	ID                     int64
	Name                   string
	DiscountPct            float64 // процент скидки на клиентскую цену
	CommissionReductionPct float64 // процентные пункты снижения ставки комиссии
	StartsAt               time.Time
	EndsAt                 time.Time
}

// IsActiveAt returns true if the campaign is in effect at the given instant
func (c *Campaign) IsActiveAt(now time.Time) bool {
	if c == nil {
		return false
	}
	return !now.Before(c.StartsAt) && now.Before(c.EndsAt)
}
