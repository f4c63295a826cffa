package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/capozzinicolas-stack/vivelo-sub000/pkg/types"
)

// ErrInvalidTimeWindow возвращается при некорректном временном окне мероприятия
var ErrInvalidTimeWindow = errors.New("domain: invalid event time window")

// Buffers эффективные буферы подготовки/демонтажа в минутах
type Buffers struct {
	BeforeMinutes int
	AfterMinutes  int
}

// ResolveBuffers определяет эффективные буферы для услуги с учётом провайдера
// Если у провайдера включено глобальное переопределение (ApplyBuffersToAll),
// его значения полностью замещают буферы услуги - не суммируются и не сливаются.
// Иначе используются буферы самой услуги
func ResolveBuffers(svc *ServiceOffering, provider *ProviderProfile) Buffers {
	if provider != nil && provider.ApplyBuffersToAll {
		return Buffers{
			BeforeMinutes: provider.GlobalBufferBeforeMinutes,
			AfterMinutes:  provider.GlobalBufferAfterMinutes,
		}
	}

	if svc == nil {
		return Buffers{
			BeforeMinutes: DefaultBufferBeforeMinutes,
			AfterMinutes:  DefaultBufferAfterMinutes,
		}
	}

	return Buffers{
		BeforeMinutes: svc.BufferBeforeMinutes,
		AfterMinutes:  svc.BufferAfterMinutes,
	}
}

// EventWindow окно мероприятия и занятый интервал с учётом буферов
// Инвариант: EffectiveStart <= StartDatetime < EndDatetime <= EffectiveEnd
type EventWindow struct {
	StartDatetime  time.Time
	EndDatetime    time.Time
	EffectiveStart time.Time
	EffectiveEnd   time.Time
}

// DurationHours возвращает длительность мероприятия в часах (без буферов)
func (w EventWindow) DurationHours() float64 {
	return w.EndDatetime.Sub(w.StartDatetime).Hours()
}

// BuildEventWindow собирает окно мероприятия из даты, времени начала/окончания
// и эффективных буферов. Все времена - локальные (часовой пояс площадки),
// конвертация таймзон не выполняется.
//
// Буферы аддитивны в минутах и могут переходить через полночь - дата
// соответствующим образом сдвигается. Нулевые буферы дают
// effective_* == start/end_datetime.
//
// Окно с end <= start отклоняется (ErrInvalidTimeWindow) - это чистая
// трансформация, решений о доступности она не принимает
func BuildEventWindow(eventDate time.Time, start, end types.TimeString, buffers Buffers) (EventWindow, error) {
	if eventDate.IsZero() {
		return EventWindow{}, fmt.Errorf("%w: event date is required", ErrInvalidTimeWindow)
	}

	startMinutes, err := start.Minutes()
	if err != nil {
		return EventWindow{}, fmt.Errorf("%w: invalid start time: %v", ErrInvalidTimeWindow, err)
	}

	endMinutes, err := end.Minutes()
	if err != nil {
		return EventWindow{}, fmt.Errorf("%w: invalid end time: %v", ErrInvalidTimeWindow, err)
	}

	if endMinutes <= startMinutes {
		return EventWindow{}, fmt.Errorf("%w: end time %s must be after start time %s", ErrInvalidTimeWindow, end, start)
	}

	if buffers.BeforeMinutes < 0 || buffers.AfterMinutes < 0 {
		return EventWindow{}, fmt.Errorf("%w: negative buffers", ErrInvalidTimeWindow)
	}

	midnight := time.Date(eventDate.Year(), eventDate.Month(), eventDate.Day(), 0, 0, 0, 0, eventDate.Location())
	startDatetime := midnight.Add(time.Duration(startMinutes) * time.Minute)
	endDatetime := midnight.Add(time.Duration(endMinutes) * time.Minute)

	return EventWindow{
		StartDatetime:  startDatetime,
		EndDatetime:    endDatetime,
		EffectiveStart: startDatetime.Add(-time.Duration(buffers.BeforeMinutes) * time.Minute),
		EffectiveEnd:   endDatetime.Add(time.Duration(buffers.AfterMinutes) * time.Minute),
	}, nil
}

// Overlaps проверяет пересечение двух полуоткрытых интервалов [aStart, aEnd) и [bStart, bEnd)
// Граничные случаи (один интервал заканчивается ровно там, где начинается другой)
// пересечением НЕ считаются
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// ValidateWindow проверяет, что интервал непустой и не инвертированный
// Вызывается до обращения к проверке доступности (предусловие, не её обязанность)
func ValidateWindow(start, end time.Time) error {
	if !end.After(start) {
		return fmt.Errorf("%w: interval end must be after start", ErrInvalidTimeWindow)
	}
	return nil
}
