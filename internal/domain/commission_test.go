package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/capozzinicolas-stack/vivelo-sub000/pkg/ptr"
)

func TestResolveCommissionRate_PlatformDefault(t *testing.T) {
	rate := ResolveCommissionRate(&ProviderProfile{}, nil, 0.12)
	assert.Equal(t, 0.12, rate)
}

func TestResolveCommissionRate_CampaignReduction(t *testing.T) {
	// Ставка платформы 0.12, кампания снижает на 5 п.п. -> 0.07
	campaign := &Campaign{CommissionReductionPct: 5}

	rate := ResolveCommissionRate(&ProviderProfile{}, campaign, 0.12)

	assert.InDelta(t, 0.07, rate, 1e-9)
	assert.Equal(t, 70.0, CalculateCommission(1000, rate))
}

func TestResolveCommissionRate_FlooredAtZero(t *testing.T) {
	campaign := &Campaign{CommissionReductionPct: 50}

	rate := ResolveCommissionRate(&ProviderProfile{CommissionRate: ptr.Ptr(0.1)}, campaign, 0.12)

	assert.Equal(t, 0.0, rate)
	assert.Equal(t, 0.0, CalculateCommission(5000, rate))
}

func TestResolveCommissionRate_OverrideBeatsDefault(t *testing.T) {
	provider := &ProviderProfile{CommissionRate: ptr.Ptr(0.18)}

	assert.Equal(t, 0.18, ResolveCommissionRate(provider, nil, 0.12))

	campaign := &Campaign{CommissionReductionPct: 3}
	assert.InDelta(t, 0.15, ResolveCommissionRate(provider, campaign, 0.12), 1e-9)
}

func TestCalculateCommission_Rounds(t *testing.T) {
	assert.Equal(t, 119.99, CalculateCommission(999.95, 0.12))
}

func TestCampaign_IsActiveAt(t *testing.T) {
	campaign := &Campaign{
		StartsAt: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, campaign.IsActiveAt(time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)))
	assert.True(t, campaign.IsActiveAt(campaign.StartsAt))
	assert.False(t, campaign.IsActiveAt(campaign.EndsAt))
	assert.False(t, campaign.IsActiveAt(time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)))

	var nilCampaign *Campaign
	assert.False(t, nilCampaign.IsActiveAt(time.Now()))
}
