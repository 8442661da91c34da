package services

import (
	"context"
	"testing"
	"time"

	"propertyinsights/config"
	"propertyinsights/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAggregateHappyPath(t *testing.T) {
	agg := NewAggregator(fixedMock(), 0, config.FailurePolicyStrict, zap.NewNop())

	rc, err := agg.Aggregate(context.Background(), "SW1A 1AA", 500000)
	require.NoError(t, err)
	require.NotNil(t, rc)

	assert.Equal(t, "SW1A 1AA", rc.Postcode)
	require.NotNil(t, rc.AdministrativeBoundaries)
	assert.Equal(t, "England", rc.AdministrativeBoundaries.Country)
	require.NotNil(t, rc.StampDuty)
	assert.Equal(t, 12500.0, rc.StampDuty.Amount)
	assert.Len(t, rc.PriceTrends, 60)
	assert.NotEmpty(t, rc.AskingPrices)
	assert.NotEmpty(t, rc.Schools)
	assert.NotEmpty(t, rc.TransportLinks)
	assert.NotNil(t, rc.FloodRiskData)
	assert.NotNil(t, rc.IndustrialActivityData)
	assert.Nil(t, rc.Failures)
}

func TestAggregateStrictFailureAbortsBatch(t *testing.T) {
	src := &failingSource{MockSource: fixedMock(), floodErr: errBoom}
	agg := NewAggregator(src, 0, config.FailurePolicyStrict, zap.NewNop())

	rc, err := agg.Aggregate(context.Background(), "SW1A 1AA", 500000)
	require.Error(t, err)
	assert.Nil(t, rc)
	assert.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), models.DomainFloodRiskData)
	assert.Contains(t, err.Error(), "boom")
}

func TestAggregatePartialFailureKeepsOtherDomains(t *testing.T) {
	src := &failingSource{MockSource: fixedMock(), floodErr: errBoom, schoolErr: errBoom}
	agg := NewAggregator(src, 0, config.FailurePolicyPartial, zap.NewNop())

	rc, err := agg.Aggregate(context.Background(), "SW1A 1AA", 500000)
	require.NoError(t, err)
	require.NotNil(t, rc)

	assert.Nil(t, rc.FloodRiskData)
	assert.Nil(t, rc.Schools)
	assert.Equal(t, map[string]string{
		models.DomainFloodRiskData: "boom",
		models.DomainSchools:       "boom",
	}, rc.Failures)
	assert.NotNil(t, rc.AdministrativeBoundaries)
	assert.NotEmpty(t, rc.CrimeRates)
}

func TestAggregateUnknownPolicyIsStrict(t *testing.T) {
	agg := NewAggregator(fixedMock(), 0, "lenient", zap.NewNop())
	assert.Equal(t, config.FailurePolicyStrict, agg.policy)
}

func TestAggregatePacesDispatches(t *testing.T) {
	interval := 5 * time.Millisecond
	agg := NewAggregator(fixedMock(), interval, config.FailurePolicyStrict, zap.NewNop())

	started := time.Now()
	_, err := agg.Aggregate(context.Background(), "SW1A 1AA", 500000)
	require.NoError(t, err)

	// The first call is unpaced; each of the other 21 waits one interval.
	assert.GreaterOrEqual(t, time.Since(started), 21*interval)
}

func TestAggregateCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	agg := NewAggregator(fixedMock(), 0, config.FailurePolicyStrict, zap.NewNop())
	rc, err := agg.Aggregate(ctx, "SW1A 1AA", 500000)
	assert.Error(t, err)
	assert.Nil(t, rc)
}

func TestAggregateCancelledWhilePacing(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	agg := NewAggregator(fixedMock(), time.Second, config.FailurePolicyPartial, zap.NewNop())
	rc, err := agg.Aggregate(ctx, "SW1A 1AA", 500000)
	assert.Error(t, err)
	assert.Nil(t, rc)
}
