// Package providers is the data provider layer: one call per property data
// domain, keyed by postcode (or by price for stamp duty).
package providers

import (
	"context"

	"propertyinsights/models"
)

// DataSource is implemented by every property data backend. Implementations
// must be safe for concurrent use; the aggregator calls all methods in parallel.
type DataSource interface {
	AskingPrices(ctx context.Context, postcode string) ([]models.AskingPrice, error)
	SoldPrices(ctx context.Context, postcode string) ([]models.SoldPrice, error)
	PriceTrends(ctx context.Context, postcode string) ([]models.PriceTrend, error)
	PlanningApplications(ctx context.Context, postcode string) ([]models.PlanningApplication, error)
	ConservationAreas(ctx context.Context, postcode string) ([]models.ConservationArea, error)
	Schools(ctx context.Context, postcode string) ([]models.School, error)
	CrimeRates(ctx context.Context, postcode string) ([]models.CrimeRate, error)
	Demographics(ctx context.Context, postcode string) ([]models.Demographic, error)
	StampDuty(ctx context.Context, price float64) (*models.StampDuty, error)
	RentEstimates(ctx context.Context, postcode string) (*models.RentEstimate, error)
	SoldPricesFloorArea(ctx context.Context, postcode string) ([]models.SoldPriceFloorArea, error)
	RentalComparables(ctx context.Context, postcode string) ([]models.RentalComparable, error)
	EpcData(ctx context.Context, postcode string) (*models.EpcData, error)
	FloodRisk(ctx context.Context, postcode string) (*models.FloodRiskData, error)
	AirQuality(ctx context.Context, postcode string) (*models.AirQualityData, error)
	HistoricalClimate(ctx context.Context, postcode string) (*models.HistoricalClimateData, error)
	TransportLinks(ctx context.Context, postcode string) ([]models.TransportLink, error)
	AdministrativeBoundaries(ctx context.Context, postcode string) (*models.AdministrativeBoundaries, error)
	TreeCoverage(ctx context.Context, postcode string) (*models.TreeCoverageData, error)
	SoilType(ctx context.Context, postcode string) (*models.SoilTypeData, error)
	WaterSource(ctx context.Context, postcode string) (*models.WaterSourceData, error)
	IndustrialActivity(ctx context.Context, postcode string) (*models.IndustrialActivityData, error)
}
