package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capozzinicolas-stack/vivelo-sub000/pkg/ptr"
)

// tieredPolicy стандартная трёхступенчатая политика:
// от 7 суток - 100%, от суток до 7 суток - 50%, менее суток - 0%
func tieredPolicy() *CancellationPolicy {
	return &CancellationPolicy{
		Name: "standard",
		Rules: []CancellationRule{
			{MinHours: 168, MaxHours: nil, RefundPercent: 100},
			{MinHours: 24, MaxHours: ptr.Ptr(168.0), RefundPercent: 50},
			{MinHours: 0, MaxHours: ptr.Ptr(24.0), RefundPercent: 0},
		},
	}
}

func TestEvaluateRefund_MiddleBand(t *testing.T) {
	eventStart := time.Date(2026, 9, 20, 18, 0, 0, 0, time.UTC)
	now := eventStart.Add(-30 * time.Hour)

	result := EvaluateRefund(tieredPolicy(), eventStart, now, 2000)

	assert.Equal(t, 50.0, result.RefundPercent)
	assert.Equal(t, 1000.0, result.RefundAmount)
}

func TestEvaluateRefund_TopBandNoUpperBound(t *testing.T) {
	eventStart := time.Date(2026, 9, 20, 18, 0, 0, 0, time.UTC)
	now := eventStart.Add(-200 * time.Hour)

	result := EvaluateRefund(tieredPolicy(), eventStart, now, 2000)

	assert.Equal(t, 100.0, result.RefundPercent)
	assert.Equal(t, 2000.0, result.RefundAmount)
}

func TestEvaluateRefund_LastMinuteCancellation(t *testing.T) {
	eventStart := time.Date(2026, 9, 20, 18, 0, 0, 0, time.UTC)
	now := eventStart.Add(-2 * time.Hour)

	result := EvaluateRefund(tieredPolicy(), eventStart, now, 2000)

	assert.Equal(t, 0.0, result.RefundPercent)
	assert.Equal(t, 0.0, result.RefundAmount)
}

func TestEvaluateRefund_EventAlreadyStarted(t *testing.T) {
	eventStart := time.Date(2026, 9, 20, 18, 0, 0, 0, time.UTC)
	now := eventStart.Add(5 * time.Hour)

	// Отрицательные часы до мероприятия приводятся к нулю
	result := EvaluateRefund(tieredPolicy(), eventStart, now, 2000)

	assert.Equal(t, 0.0, result.RefundPercent)
	assert.Equal(t, 0.0, result.RefundAmount)
}

func TestEvaluateRefund_NilPolicyMeansZeroRefund(t *testing.T) {
	eventStart := time.Date(2026, 9, 20, 18, 0, 0, 0, time.UTC)

	result := EvaluateRefund(nil, eventStart, eventStart.Add(-500*time.Hour), 2000)

	assert.Equal(t, 0.0, result.RefundPercent)
	assert.Equal(t, 0.0, result.RefundAmount)
}

func TestEvaluateRefund_NoMatchingRule(t *testing.T) {
	// Политика без правила для "менее суток" - 0% по умолчанию
	policy := &CancellationPolicy{
		Name: "partial",
		Rules: []CancellationRule{
			{MinHours: 48, MaxHours: nil, RefundPercent: 80},
		},
	}
	eventStart := time.Date(2026, 9, 20, 18, 0, 0, 0, time.UTC)

	result := EvaluateRefund(policy, eventStart, eventStart.Add(-10*time.Hour), 1500)

	assert.Equal(t, 0.0, result.RefundPercent)
	assert.Equal(t, 0.0, result.RefundAmount)
}

func TestEvaluateRefund_MonotonicStepFunction(t *testing.T) {
	// Чем позже отмена (меньше часов до мероприятия), тем процент не выше
	policy := tieredPolicy()
	eventStart := time.Date(2026, 9, 20, 18, 0, 0, 0, time.UTC)

	previous := 101.0
	for _, hours := range []float64{500, 168, 167.9, 100, 24, 23.9, 10, 1, 0} {
		now := eventStart.Add(-time.Duration(hours * float64(time.Hour)))
		result := EvaluateRefund(policy, eventStart, now, 1000)

		assert.LessOrEqual(t, result.RefundPercent, previous,
			"refund percent must not increase as the event approaches (hours=%v)", hours)
		previous = result.RefundPercent
	}
}

func TestEvaluateRefund_BoundaryHours(t *testing.T) {
	policy := tieredPolicy()
	eventStart := time.Date(2026, 9, 20, 18, 0, 0, 0, time.UTC)

	// Ровно 168 часов - попадает в верхний диапазон (hours >= min_hours)
	result := EvaluateRefund(policy, eventStart, eventStart.Add(-168*time.Hour), 1000)
	assert.Equal(t, 100.0, result.RefundPercent)

	// Ровно 24 часа - попадает в средний диапазон
	result = EvaluateRefund(policy, eventStart, eventStart.Add(-24*time.Hour), 1000)
	assert.Equal(t, 50.0, result.RefundPercent)
}

func TestEvaluateRefund_RoundsAmount(t *testing.T) {
	policy := &CancellationPolicy{
		Name:  "third",
		Rules: []CancellationRule{{MinHours: 0, MaxHours: nil, RefundPercent: 33.33}},
	}
	eventStart := time.Date(2026, 9, 20, 18, 0, 0, 0, time.UTC)

	result := EvaluateRefund(policy, eventStart, eventStart.Add(-time.Hour), 100)

	assert.Equal(t, 33.33, result.RefundAmount)
}

func TestCancellationPolicy_Validate(t *testing.T) {
	require.NoError(t, tieredPolicy().Validate())
}

func TestCancellationPolicy_ValidateRejectsOverlappingBands(t *testing.T) {
	policy := &CancellationPolicy{
		Name: "broken",
		Rules: []CancellationRule{
			{MinHours: 0, MaxHours: ptr.Ptr(48.0), RefundPercent: 10},
			{MinHours: 24, MaxHours: nil, RefundPercent: 50},
		},
	}

	assert.ErrorIs(t, policy.Validate(), ErrInvalidPolicy)
}

func TestCancellationPolicy_ValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		rules []CancellationRule
	}{
		{"percent above 100", []CancellationRule{{MinHours: 0, RefundPercent: 150}}},
		{"negative percent", []CancellationRule{{MinHours: 0, RefundPercent: -5}}},
		{"negative min_hours", []CancellationRule{{MinHours: -1, RefundPercent: 50}}},
		{"max not above min", []CancellationRule{{MinHours: 24, MaxHours: ptr.Ptr(24.0), RefundPercent: 50}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := &CancellationPolicy{Name: "p", Rules: tt.rules}
			assert.ErrorIs(t, policy.Validate(), ErrInvalidPolicy)
		})
	}
}

func TestCancellationPolicy_CloneIsDeep(t *testing.T) {
	original := tieredPolicy()
	clone := original.Clone()

	*clone.Rules[1].MaxHours = 999
	clone.Rules[0].RefundPercent = 1

	assert.Equal(t, 168.0, *original.Rules[1].MaxHours)
	assert.Equal(t, 100.0, original.Rules[0].RefundPercent)
}
