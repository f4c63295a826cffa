package domain

import "time"

// BlockSource источник календарной блокировки
type BlockSource string

const (
	BlockSourceManual       BlockSource = "manual"
	BlockSourceExternalSync BlockSource = "external_sync"
)

// VendorCalendarBlock непрозрачный занятый интервал вендора
// Создаётся провайдером вручную или адаптером внешней синхронизации.
// Блокировка - абсолютное вето для новых бронирований при пересечении,
// независимо от лимита одновременных услуг. Между собой блокировки
// на пересечение не проверяются
type VendorCalendarBlock struct {
	ID         int64
	ProviderID int64

	StartDatetime time.Time
	EndDatetime   time.Time

	Reason *string
	Source BlockSource

	// Идентификатор события во внешнем календаре (для source=external_sync)
	ExternalEventID *string

	CreatedAt time.Time
}

// OverlapsWindow returns true if the block overlaps the half-open interval [start, end)
func (b *VendorCalendarBlock) OverlapsWindow(start, end time.Time) bool {
	return Overlaps(b.StartDatetime, b.EndDatetime, start, end)
}

// IsManual returns true if the block was created by the provider
func (b *VendorCalendarBlock) IsManual() bool {
	return b.Source == BlockSourceManual
}
