package domain

// ResolveCommissionRate вычисляет эффективную ставку комиссии площадки
//
// Приоритет: переопределение в профиле провайдера, иначе ставка платформы
// (передаётся явно - конструктор ядра получает её из конфигурации,
// а не из глобального состояния). Активная кампания снижает ставку на
// CommissionReductionPct процентных пунктов, но не ниже нуля
func ResolveCommissionRate(provider *ProviderProfile, campaign *Campaign, platformRate float64) float64 {
	rate := platformRate
	if provider != nil && provider.CommissionRate != nil {
		rate = *provider.CommissionRate
	}

	if campaign != nil {
		rate -= campaign.CommissionReductionPct / 100
		if rate < 0 {
			rate = 0
		}
	}

	return rate
}

// CalculateCommission вычисляет сумму комиссии с бронирования
// total - итоговая сумма после применения скидки кампании
func CalculateCommission(total, effectiveRate float64) float64 {
	return RoundMoney(total * effectiveRate)
}
