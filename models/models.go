package models

// --- Valuation & Market ---

// AskingPrice is a listed asking price in the postcode.
type AskingPrice struct {
	Price float64 `json:"price"`
	Date  string  `json:"date"`
}

// SoldPrice is a completed sale in the postcode.
type SoldPrice struct {
	Price float64 `json:"price"`
	Date  string  `json:"date"`
}

// PriceTrend is one monthly average price point.
type PriceTrend struct {
	AveragePrice float64 `json:"averagePrice"`
	Date         string  `json:"date"`
}

// SoldPriceFloorArea is a sold price normalised by floor area.
type SoldPriceFloorArea struct {
	PricePerFloorArea float64 `json:"pricePerFloorArea"`
	Date              string  `json:"date"`
}

// RentalComparable is a comparable rental listing.
type RentalComparable struct {
	AverageRent  float64 `json:"averageRent"`
	PropertyType string  `json:"propertyType"`
	Bedrooms     int     `json:"bedrooms"`
}

// --- Planning & Regulatory ---

type PlanningApplication struct {
	ApplicationID string `json:"applicationId"`
	Status        string `json:"status"`
	Date          string `json:"date"`
	Description   string `json:"description"`
}

type ConservationArea struct {
	Name string `json:"name"`
}

// --- Neighbourhood ---

type School struct {
	Name         string `json:"name"`
	OfstedRating string `json:"ofstedRating"`
}

type CrimeRate struct {
	Type string  `json:"type"`
	Rate float64 `json:"rate"`
}

type Demographic struct {
	Age    string  `json:"age"`
	Income float64 `json:"income"`
}

// --- Financial ---

// StampDuty is the SDLT payable for a given price.
type StampDuty struct {
	Amount float64 `json:"amount"`
}

// RentEstimate is the estimated average monthly rent.
type RentEstimate struct {
	AverageRent float64 `json:"averageRent"`
}

// --- Energy, Climate & Environment ---

type EpcData struct {
	CurrentRating   string `json:"currentRating"`
	PotentialRating string `json:"potentialRating"`
	CurrentScore    int    `json:"currentScore"`
	PotentialScore  int    `json:"potentialScore"`
	AssessmentDate  string `json:"assessmentDate"`
	ReportURL       string `json:"reportUrl,omitempty"`
}

type FloodRiskData struct {
	RiversAndSea string `json:"riversAndSea"`
	SurfaceWater string `json:"surfaceWater"`
	Reservoirs   string `json:"reservoirs,omitempty"`
	DetailsURL   string `json:"detailsUrl,omitempty"`
}

type AirQualityData struct {
	AQI               int    `json:"aqi"`
	DominantPollutant string `json:"dominantPollutant,omitempty"`
	Category          string `json:"category"`
	LastUpdated       string `json:"lastUpdated"`
}

type HistoricalClimateData struct {
	AverageAnnualRainfallMm    float64  `json:"averageAnnualRainfallMm"`
	AverageAnnualMeanTempC     float64  `json:"averageAnnualMeanTempC"`
	AverageSunshineHoursPerDay *float64 `json:"averageSunshineHoursPerDay,omitempty"`
	AverageWindSpeedMph        *float64 `json:"averageWindSpeedMph,omitempty"`
	DataYears                  *int     `json:"dataYears,omitempty"`
	Source                     string   `json:"source,omitempty"`
}

type TreeCoverageData struct {
	CoveragePercentage float64  `json:"coveragePercentage"`
	DominantSpecies    []string `json:"dominantSpecies,omitempty"`
	LastUpdated        string   `json:"lastUpdated"`
	SourceURL          string   `json:"sourceUrl,omitempty"`
}

type SoilTypeData struct {
	PrimarySoilType       string   `json:"primarySoilType"`
	SoilPH                *float64 `json:"soilPh,omitempty"`
	DrainageClass         string   `json:"drainageClass,omitempty"`
	AgriculturalPotential string   `json:"agriculturalPotential,omitempty"`
	SourceURL             string   `json:"sourceUrl,omitempty"`
}

type WaterSourceData struct {
	NearestRiverName        string   `json:"nearestRiverName,omitempty"`
	NearestRiverDistanceKm  *float64 `json:"nearestRiverDistanceKm,omitempty"`
	GroundwaterAvailability string   `json:"groundwaterAvailability,omitempty"`
	WaterQuality            string   `json:"waterQuality,omitempty"`
	SourceURL               string   `json:"sourceUrl,omitempty"`
}

type IndustrialActivityData struct {
	HasMajorIndustrialZones     bool     `json:"hasMajorIndustrialZones"`
	MajorActivities             []string `json:"majorActivities,omitempty"`
	ProximityToSensitiveSitesKm *float64 `json:"proximityToSensitiveSitesKm,omitempty"`
	SourceURL                   string   `json:"sourceUrl,omitempty"`
}

// --- Location & Transport ---

type TransportLink struct {
	Type             string  `json:"type"`
	Name             string  `json:"name"`
	DistanceMiles    float64 `json:"distanceMiles"`
	JourneyTimeToHub string  `json:"journeyTimeToHub,omitempty"`
}

type AdministrativeBoundaries struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	LocalAuthority string  `json:"localAuthority"`
	Council        string  `json:"council"`
	Constituency   string  `json:"constituency"`
	Ward           string  `json:"ward"`
	Country        string  `json:"country"`
}
