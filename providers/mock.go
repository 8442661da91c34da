package providers

import (
	"context"
	"math/rand/v2"
	"time"

	"propertyinsights/finance"
	"propertyinsights/models"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// MockSource returns synthetic PaTMa-shaped data for any postcode. It stands
// in for the real property data APIs until they are integrated.
type MockSource struct {
	// Now and Random are injectable for deterministic tests.
	Now    func() time.Time
	Random func() float64
}

// NewMockSource creates a MockSource backed by the wall clock and math/rand.
func NewMockSource() *MockSource {
	return &MockSource{Now: time.Now, Random: rand.Float64}
}

var _ DataSource = (*MockSource)(nil)

func (m *MockSource) now() time.Time {
	if m.Now == nil {
		return time.Now()
	}
	return m.Now()
}

func (m *MockSource) random() float64 {
	if m.Random == nil {
		return rand.Float64()
	}
	return m.Random()
}

func yearsAgo(t time.Time, years, months int) string {
	return t.AddDate(-years, -months, 0).Format(dateLayout)
}

func (m *MockSource) AskingPrices(ctx context.Context, postcode string) ([]models.AskingPrice, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	today := m.now()
	prices := []float64{500000, 495000, 480000, 470000, 460000, 450000, 440000}
	out := make([]models.AskingPrice, len(prices))
	for i, p := range prices {
		out[i] = models.AskingPrice{Price: p, Date: yearsAgo(today, i, 0)}
	}
	return out, nil
}

func (m *MockSource) SoldPrices(ctx context.Context, postcode string) ([]models.SoldPrice, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	today := m.now()
	prices := []float64{485000, 475000, 460000, 450000, 440000, 430000, 420000}
	out := make([]models.SoldPrice, len(prices))
	for i, p := range prices {
		out[i] = models.SoldPrice{Price: p, Date: yearsAgo(today, i, 1)}
	}
	return out, nil
}

// PriceTrends returns 60 monthly points in chronological order.
func (m *MockSource) PriceTrends(ctx context.Context, postcode string) ([]models.PriceTrend, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	today := m.now()
	firstOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())

	const months = 60
	trends := make([]models.PriceTrend, months)
	for i := 0; i < months; i++ {
		trends[months-1-i] = models.PriceTrend{
			AveragePrice: 475000 - float64(i*1000) + (m.random()*20000 - 10000),
			Date:         firstOfMonth.AddDate(0, -i, 0).Format(dateLayout),
		}
	}
	return trends, nil
}

func (m *MockSource) PlanningApplications(ctx context.Context, postcode string) ([]models.PlanningApplication, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	today := m.now()
	return []models.PlanningApplication{
		{ApplicationID: "PA/24/00123", Status: "approved", Date: yearsAgo(today, 0, 0), Description: "Rear extension"},
		{ApplicationID: "PA/23/00456", Status: "rejected", Date: yearsAgo(today, 1, 0), Description: "Loft conversion with dormer"},
		{ApplicationID: "PA/22/00789", Status: "approved", Date: yearsAgo(today, 2, 0), Description: "Change of use from C3 to C4 (HMO)"},
		{ApplicationID: "PA/21/00101", Status: "approved", Date: yearsAgo(today, 3, 0), Description: "New build dwelling in garden"},
		{ApplicationID: "PA/20/00112", Status: "pending", Date: yearsAgo(today, 4, 0), Description: "Garage conversion"},
		{ApplicationID: "PA/19/00131", Status: "approved", Date: yearsAgo(today, 5, 0), Description: "Two storey side extension"},
		{ApplicationID: "PA/18/00145", Status: "rejected", Date: yearsAgo(today, 6, 0), Description: "Demolition and rebuild"},
	}, nil
}

func (m *MockSource) ConservationAreas(ctx context.Context, postcode string) ([]models.ConservationArea, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []models.ConservationArea{
		{Name: "Test Conservation Area"},
		{Name: "Another Local Conservation Zone"},
	}, nil
}

func (m *MockSource) Schools(ctx context.Context, postcode string) ([]models.School, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []models.School{
		{Name: "Primary School Alpha", OfstedRating: "Good"},
		{Name: "Secondary School Beta", OfstedRating: "Outstanding"},
		{Name: "Independent School Gamma", OfstedRating: "Requires Improvement"},
	}, nil
}

func (m *MockSource) CrimeRates(ctx context.Context, postcode string) ([]models.CrimeRate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []models.CrimeRate{
		{Type: "Burglary", Rate: 10},
		{Type: "Vehicle crime", Rate: 15},
		{Type: "Anti-social behaviour", Rate: 25},
		{Type: "Violence and sexual offences", Rate: 8},
		{Type: "Other theft", Rate: 12},
	}, nil
}

func (m *MockSource) Demographics(ctx context.Context, postcode string) ([]models.Demographic, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []models.Demographic{
		{Age: "18-24", Income: 25000},
		{Age: "25-34", Income: 35000},
		{Age: "35-44", Income: 45000},
		{Age: "45-54", Income: 50000},
		{Age: "55-64", Income: 40000},
		{Age: "65+", Income: 30000},
	}, nil
}

func (m *MockSource) StampDuty(ctx context.Context, price float64) (*models.StampDuty, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	amount := finance.CalculateStampDuty(decimal.NewFromFloat(price))
	return &models.StampDuty{Amount: amount.InexactFloat64()}, nil
}

// RentEstimates returns 1500 +/- 250 per month.
func (m *MockSource) RentEstimates(ctx context.Context, postcode string) (*models.RentEstimate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &models.RentEstimate{AverageRent: 1500 + (m.random()*500 - 250)}, nil
}

func (m *MockSource) SoldPricesFloorArea(ctx context.Context, postcode string) ([]models.SoldPriceFloorArea, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	today := m.now()
	at := func(years, months, day int) string {
		return time.Date(today.Year()-years, today.Month()-time.Month(months), day, 0, 0, 0, 0, today.Location()).Format(dateLayout)
	}
	return []models.SoldPriceFloorArea{
		{PricePerFloorArea: 2000, Date: at(0, 2, 15)},
		{PricePerFloorArea: 1950, Date: at(1, 5, 10)},
		{PricePerFloorArea: 2100, Date: at(2, 8, 20)},
	}, nil
}

func (m *MockSource) RentalComparables(ctx context.Context, postcode string) ([]models.RentalComparable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []models.RentalComparable{
		{AverageRent: 1600, PropertyType: "Flat", Bedrooms: 2},
		{AverageRent: 1450, PropertyType: "Terraced House", Bedrooms: 3},
		{AverageRent: 1750, PropertyType: "Semi-Detached", Bedrooms: 3},
	}, nil
}

func (m *MockSource) EpcData(ctx context.Context, postcode string) (*models.EpcData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &models.EpcData{
		CurrentRating:   "D",
		PotentialRating: "B",
		CurrentScore:    62,
		PotentialScore:  84,
		AssessmentDate:  yearsAgo(m.now(), 2, 3),
		ReportURL:       "https://find-energy-certificate.service.gov.uk/",
	}, nil
}

func (m *MockSource) FloodRisk(ctx context.Context, postcode string) (*models.FloodRiskData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &models.FloodRiskData{
		RiversAndSea: "Very Low",
		SurfaceWater: "Low",
		Reservoirs:   "Low",
		DetailsURL:   "https://check-long-term-flood-risk.service.gov.uk/",
	}, nil
}

func (m *MockSource) AirQuality(ctx context.Context, postcode string) (*models.AirQualityData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &models.AirQualityData{
		AQI:               42,
		DominantPollutant: "PM2.5",
		Category:          "Good",
		LastUpdated:       m.now().UTC().Format(time.RFC3339),
	}, nil
}

func (m *MockSource) HistoricalClimate(ctx context.Context, postcode string) (*models.HistoricalClimateData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &models.HistoricalClimateData{
		AverageAnnualRainfallMm:    601.5,
		AverageAnnualMeanTempC:     11.3,
		AverageSunshineHoursPerDay: floatPtr(4.3),
		AverageWindSpeedMph:        floatPtr(9.8),
		DataYears:                  intPtr(30),
		Source:                     "Met Office climate averages",
	}, nil
}

func (m *MockSource) TransportLinks(ctx context.Context, postcode string) ([]models.TransportLink, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []models.TransportLink{
		{Type: "Train", Name: "London Victoria", DistanceMiles: 0.6, JourneyTimeToHub: "5 min to central London"},
		{Type: "Underground", Name: "Green Park", DistanceMiles: 0.4, JourneyTimeToHub: "3 min to Oxford Circus"},
		{Type: "Bus", Name: "Route 38 stop", DistanceMiles: 0.1},
		{Type: "Road", Name: "A4 access", DistanceMiles: 0.5},
	}, nil
}

func (m *MockSource) AdministrativeBoundaries(ctx context.Context, postcode string) (*models.AdministrativeBoundaries, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &models.AdministrativeBoundaries{
		Latitude:       51.501009,
		Longitude:      -0.141588,
		LocalAuthority: "Westminster",
		Council:        "Westminster City Council",
		Constituency:   "Cities of London and Westminster",
		Ward:           "St James's",
		Country:        "England",
	}, nil
}

func (m *MockSource) TreeCoverage(ctx context.Context, postcode string) (*models.TreeCoverageData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &models.TreeCoverageData{
		CoveragePercentage: 14.5,
		DominantSpecies:    []string{"London Plane", "Common Lime", "English Oak"},
		LastUpdated:        yearsAgo(m.now(), 1, 0),
	}, nil
}

func (m *MockSource) SoilType(ctx context.Context, postcode string) (*models.SoilTypeData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &models.SoilTypeData{
		PrimarySoilType:       "London Clay",
		SoilPH:                floatPtr(6.8),
		DrainageClass:         "Poorly-drained",
		AgriculturalPotential: "Grade 4 (Poor)",
	}, nil
}

func (m *MockSource) WaterSource(ctx context.Context, postcode string) (*models.WaterSourceData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &models.WaterSourceData{
		NearestRiverName:        "River Thames",
		NearestRiverDistanceKm:  floatPtr(1.2),
		GroundwaterAvailability: "Moderate",
		WaterQuality:            "Good",
	}, nil
}

func (m *MockSource) IndustrialActivity(ctx context.Context, postcode string) (*models.IndustrialActivityData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &models.IndustrialActivityData{
		HasMajorIndustrialZones:     false,
		MajorActivities:             []string{"Light commercial", "Logistics depots"},
		ProximityToSensitiveSitesKm: floatPtr(3.5),
	}, nil
}

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }
