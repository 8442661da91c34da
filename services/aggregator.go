// Package services holds the report pipeline: aggregation, summary
// generation, grounded chat, export and the per-process report session.
package services

import (
	"context"
	"sync"
	"time"

	"propertyinsights/config"
	"propertyinsights/models"
	"propertyinsights/providers"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Aggregator fans out one call per provider domain and joins the results
// into a PropertyReportContext.
type Aggregator struct {
	source   providers.DataSource
	interval time.Duration
	policy   string
	logger   *zap.Logger
}

// NewAggregator paces dispatches interval apart (zero disables pacing).
// Policy is config.FailurePolicyStrict or config.FailurePolicyPartial.
func NewAggregator(source providers.DataSource, interval time.Duration, policy string, logger *zap.Logger) *Aggregator {
	if policy != config.FailurePolicyPartial {
		policy = config.FailurePolicyStrict
	}
	return &Aggregator{source: source, interval: interval, policy: policy, logger: logger}
}

type domainCall struct {
	domain string
	fetch  func(ctx context.Context) error
}

// into stores a successful fetch result in dst; failed domains stay nil.
func into[T any](dst *T, get func(context.Context) (T, error)) func(context.Context) error {
	return func(ctx context.Context) error {
		v, err := get(ctx)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

func (a *Aggregator) calls(postcode string, price float64, rc *models.PropertyReportContext) []domainCall {
	s := a.source
	return []domainCall{
		{models.DomainAskingPrices, into(&rc.AskingPrices, func(ctx context.Context) ([]models.AskingPrice, error) { return s.AskingPrices(ctx, postcode) })},
		{models.DomainSoldPrices, into(&rc.SoldPrices, func(ctx context.Context) ([]models.SoldPrice, error) { return s.SoldPrices(ctx, postcode) })},
		{models.DomainPriceTrends, into(&rc.PriceTrends, func(ctx context.Context) ([]models.PriceTrend, error) { return s.PriceTrends(ctx, postcode) })},
		{models.DomainPlanningApplications, into(&rc.PlanningApplications, func(ctx context.Context) ([]models.PlanningApplication, error) {
			return s.PlanningApplications(ctx, postcode)
		})},
		{models.DomainConservationAreas, into(&rc.ConservationAreas, func(ctx context.Context) ([]models.ConservationArea, error) {
			return s.ConservationAreas(ctx, postcode)
		})},
		{models.DomainSchools, into(&rc.Schools, func(ctx context.Context) ([]models.School, error) { return s.Schools(ctx, postcode) })},
		{models.DomainCrimeRates, into(&rc.CrimeRates, func(ctx context.Context) ([]models.CrimeRate, error) { return s.CrimeRates(ctx, postcode) })},
		{models.DomainDemographics, into(&rc.Demographics, func(ctx context.Context) ([]models.Demographic, error) { return s.Demographics(ctx, postcode) })},
		{models.DomainStampDuty, into(&rc.StampDuty, func(ctx context.Context) (*models.StampDuty, error) { return s.StampDuty(ctx, price) })},
		{models.DomainRentEstimates, into(&rc.RentEstimates, func(ctx context.Context) (*models.RentEstimate, error) { return s.RentEstimates(ctx, postcode) })},
		{models.DomainSoldPricesFloorArea, into(&rc.SoldPricesFloorArea, func(ctx context.Context) ([]models.SoldPriceFloorArea, error) {
			return s.SoldPricesFloorArea(ctx, postcode)
		})},
		{models.DomainRentalComparables, into(&rc.RentalComparables, func(ctx context.Context) ([]models.RentalComparable, error) {
			return s.RentalComparables(ctx, postcode)
		})},
		{models.DomainEpcData, into(&rc.EpcData, func(ctx context.Context) (*models.EpcData, error) { return s.EpcData(ctx, postcode) })},
		{models.DomainFloodRiskData, into(&rc.FloodRiskData, func(ctx context.Context) (*models.FloodRiskData, error) { return s.FloodRisk(ctx, postcode) })},
		{models.DomainAirQualityData, into(&rc.AirQualityData, func(ctx context.Context) (*models.AirQualityData, error) { return s.AirQuality(ctx, postcode) })},
		{models.DomainHistoricalClimateData, into(&rc.HistoricalClimateData, func(ctx context.Context) (*models.HistoricalClimateData, error) {
			return s.HistoricalClimate(ctx, postcode)
		})},
		{models.DomainTransportLinks, into(&rc.TransportLinks, func(ctx context.Context) ([]models.TransportLink, error) { return s.TransportLinks(ctx, postcode) })},
		{models.DomainAdministrativeBoundaries, into(&rc.AdministrativeBoundaries, func(ctx context.Context) (*models.AdministrativeBoundaries, error) {
			return s.AdministrativeBoundaries(ctx, postcode)
		})},
		{models.DomainTreeCoverageData, into(&rc.TreeCoverageData, func(ctx context.Context) (*models.TreeCoverageData, error) { return s.TreeCoverage(ctx, postcode) })},
		{models.DomainSoilTypeData, into(&rc.SoilTypeData, func(ctx context.Context) (*models.SoilTypeData, error) { return s.SoilType(ctx, postcode) })},
		{models.DomainWaterSourceData, into(&rc.WaterSourceData, func(ctx context.Context) (*models.WaterSourceData, error) { return s.WaterSource(ctx, postcode) })},
		{models.DomainIndustrialActivityData, into(&rc.IndustrialActivityData, func(ctx context.Context) (*models.IndustrialActivityData, error) {
			return s.IndustrialActivity(ctx, postcode)
		})},
	}
}

// Aggregate issues every provider call for postcode and waits for all of them.
// Under the strict policy the first failure aborts the batch and no context is
// returned. Under the partial policy failed domains stay nil and are recorded
// in the context's Failures map.
func (a *Aggregator) Aggregate(ctx context.Context, postcode string, price float64) (*models.PropertyReportContext, error) {
	rc := &models.PropertyReportContext{Postcode: postcode}
	calls := a.calls(postcode, price, rc)

	var limiter *rate.Limiter
	if a.interval > 0 {
		limiter = rate.NewLimiter(rate.Every(a.interval), 1)
	}

	strict := a.policy == config.FailurePolicyStrict
	var (
		g    *errgroup.Group
		gctx = ctx
		mu   sync.Mutex
	)
	if strict {
		g, gctx = errgroup.WithContext(ctx)
	} else {
		g = &errgroup.Group{}
	}

	started := time.Now()
	a.logger.Info("Aggregating provider data",
		zap.String("postcode", postcode),
		zap.Int("calls", len(calls)),
		zap.Duration("interval", a.interval),
		zap.String("policy", a.policy),
	)

	var dispatchErr error
	for _, call := range calls {
		if limiter != nil {
			if err := limiter.Wait(gctx); err != nil {
				dispatchErr = err
				break
			}
		}
		g.Go(func() error {
			err := call.fetch(gctx)
			if err == nil {
				return nil
			}
			a.logger.Warn("Provider call failed", zap.String("domain", call.domain), zap.Error(err))
			if strict {
				return eris.Wrapf(err, "%s", call.domain)
			}
			mu.Lock()
			if rc.Failures == nil {
				rc.Failures = make(map[string]string)
			}
			rc.Failures[call.domain] = err.Error()
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if dispatchErr != nil {
		return nil, eris.Wrap(dispatchErr, "aggregation interrupted")
	}

	a.logger.Info("Aggregation finished",
		zap.String("postcode", postcode),
		zap.Duration("took", time.Since(started)),
		zap.Int("failed_domains", len(rc.Failures)),
	)
	return rc, nil
}
