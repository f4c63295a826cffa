package domain

import (
	"math"
	"time"
)

// RefundResult результат вычисления возврата
type RefundResult struct {
	RefundPercent float64
	RefundAmount  float64
}

// EvaluateRefund вычисляет возврат по политике отмены
//
// Алгоритм:
//  1. hours_until_event = (начало мероприятия - now) в часах, отрицательное
//     значение приводится к 0 (мероприятие уже началось или прошло)
//  2. Правила сортируются по MinHours по убыванию
//  3. Выбирается ПЕРВОЕ правило, где hours >= MinHours и (MaxHours == nil или hours < MaxHours)
//  4. Если правило не подобрано или политика отсутствует - возврат 0%
//  5. refund_amount = round(total * refund_percent / 100)
//
// Функция чистая: результат воспроизводим в любой момент из снимка политики
// и исходной суммы бронирования (для аудита)
func EvaluateRefund(policy *CancellationPolicy, eventStart, now time.Time, total float64) RefundResult {
	percent := 0.0

	if policy != nil {
		hoursUntilEvent := eventStart.Sub(now).Hours()
		if hoursUntilEvent < 0 {
			hoursUntilEvent = 0
		}

		for _, rule := range policy.sortedRulesDesc() {
			if rule.Matches(hoursUntilEvent) {
				percent = rule.RefundPercent
				break
			}
		}
	}

	return RefundResult{
		RefundPercent: percent,
		RefundAmount:  RoundMoney(total * percent / 100),
	}
}

// RoundMoney округляет денежную сумму до двух знаков
func RoundMoney(amount float64) float64 {
	return math.Round(amount*100) / 100
}
