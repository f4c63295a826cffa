package domain

// PriceUnit единица ценообразования услуги
type PriceUnit string

const (
	PricePerEvent  PriceUnit = "per_event"
	PricePerHour   PriceUnit = "per_hour"
	PricePerPerson PriceUnit = "per_person"
)

// ServiceOffering услуга провайдера (кейтеринг, площадка, шоу-программа и т.д.)
// Read model: услуги создаются и редактируются вне ядра бронирований
type ServiceOffering struct {
	ID         int64
	ProviderID int64
	Name       string

	BasePrice      float64
	PriceUnit      PriceUnit
	BaseEventHours *float64 // часы, включённые в базовую цену (для per_event)

	// Буферы подготовки/демонтажа по умолчанию для этой услуги
	BufferBeforeMinutes int
	BufferAfterMinutes  int

	// Политика отмены, привязанная к услуге (может отсутствовать)
	CancellationPolicy *CancellationPolicy
}

// ProviderProfile профиль провайдера
// Read model: ведётся вне ядра бронирований
type ProviderProfile struct {
	ID int64

	// Максимум одновременных активных бронирований (>= 1)
	MaxConcurrentServices int

	// Переопределение комиссии площадки (доля 0..1), nil - ставка платформы
	CommissionRate *float64

	// Глобальное переопределение буферов: если ApplyBuffersToAll = true,
	// глобальные значения полностью замещают буферы услуг
	ApplyBuffersToAll         bool
	GlobalBufferBeforeMinutes int
	GlobalBufferAfterMinutes  int
}

// MaxConcurrent возвращает лимит одновременных бронирований
// Некорректный лимит (< 1) приводится к 1
func (p *ProviderProfile) MaxConcurrent() int {
	if p == nil || p.MaxConcurrentServices < 1 {
		return DefaultMaxConcurrentServices
	}
	return p.MaxConcurrentServices
}
