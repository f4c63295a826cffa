package domain

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidPolicy возвращается при некорректной конфигурации политики отмены
var ErrInvalidPolicy = errors.New("domain: invalid cancellation policy")

// CancellationRule правило возврата: при отмене за [MinHours, MaxHours) часов
// до мероприятия возвращается RefundPercent процентов от суммы
// MaxHours = nil означает отсутствие верхней границы
type CancellationRule struct {
	MinHours      float64  `json:"min_hours"`
	MaxHours      *float64 `json:"max_hours"`
	RefundPercent float64  `json:"refund_percent"`
}

// Matches returns true if the rule covers the given hours-until-event value
func (r CancellationRule) Matches(hoursUntilEvent float64) bool {
	if hoursUntilEvent < r.MinHours {
		return false
	}
	return r.MaxHours == nil || hoursUntilEvent < *r.MaxHours
}

// CancellationPolicy политика отмены с упорядоченным набором правил
// Снимок политики фиксируется на бронировании в момент покупки, поэтому
// последующие правки живой политики провайдера не меняют условия возврата
type CancellationPolicy struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Rules       []CancellationRule `json:"rules"`
}

// Validate проверяет корректность конфигурации политики:
// проценты в [0, 100], границы неотрицательны и непересекающиеся.
// Пересекающиеся диапазоны отклоняются при настройке: порядок выбора правила
// для них был бы произвольным tie-break, а не бизнес-правилом
func (p *CancellationPolicy) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidPolicy)
	}

	for i, rule := range p.Rules {
		if rule.RefundPercent < MinRefundPercent || rule.RefundPercent > MaxRefundPercent {
			return fmt.Errorf("%w: rule %d refund percent %.2f out of range [0, 100]", ErrInvalidPolicy, i, rule.RefundPercent)
		}
		if rule.MinHours < 0 {
			return fmt.Errorf("%w: rule %d min_hours must be non-negative", ErrInvalidPolicy, i)
		}
		if rule.MaxHours != nil && *rule.MaxHours <= rule.MinHours {
			return fmt.Errorf("%w: rule %d max_hours must be greater than min_hours", ErrInvalidPolicy, i)
		}
	}

	// Проверяем дизъюнктность диапазонов [min, max)
	sorted := p.sortedRulesAsc()
	for i := 1; i < len(sorted); i++ {
		prev := sorted[i-1]
		if prev.MaxHours == nil || *prev.MaxHours > sorted[i].MinHours {
			return fmt.Errorf("%w: overlapping rule bands at min_hours=%.2f", ErrInvalidPolicy, sorted[i].MinHours)
		}
	}

	return nil
}

// sortedRulesDesc возвращает копию правил, отсортированную по MinHours по убыванию
// Порядок вычисления при подборе правила
func (p *CancellationPolicy) sortedRulesDesc() []CancellationRule {
	rules := make([]CancellationRule, len(p.Rules))
	copy(rules, p.Rules)
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].MinHours > rules[j].MinHours
	})
	return rules
}

// sortedRulesAsc возвращает копию правил, отсортированную по MinHours по возрастанию
func (p *CancellationPolicy) sortedRulesAsc() []CancellationRule {
	rules := make([]CancellationRule, len(p.Rules))
	copy(rules, p.Rules)
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].MinHours < rules[j].MinHours
	})
	return rules
}

// Clone возвращает глубокую копию политики (для снимка на бронировании)
func (p *CancellationPolicy) Clone() *CancellationPolicy {
	if p == nil {
		return nil
	}

	clone := &CancellationPolicy{
		Name:        p.Name,
		Description: p.Description,
		Rules:       make([]CancellationRule, len(p.Rules)),
	}
	for i, rule := range p.Rules {
		clone.Rules[i] = rule
		if rule.MaxHours != nil {
			maxHours := *rule.MaxHours
			clone.Rules[i].MaxHours = &maxHours
		}
	}
	return clone
}
