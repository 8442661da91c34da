package models

import "time"

// Domain keys identify each provider domain in prompts, logs and failure maps.
const (
	DomainAskingPrices             = "askingPrices"
	DomainSoldPrices               = "soldPrices"
	DomainPriceTrends              = "priceTrends"
	DomainPlanningApplications     = "planningApplications"
	DomainConservationAreas        = "conservationAreas"
	DomainSchools                  = "schools"
	DomainCrimeRates               = "crimeRates"
	DomainDemographics             = "demographics"
	DomainStampDuty                = "stampDuty"
	DomainRentEstimates            = "rentEstimates"
	DomainSoldPricesFloorArea      = "soldPricesFloorArea"
	DomainRentalComparables        = "rentalComparables"
	DomainEpcData                  = "epcData"
	DomainFloodRiskData            = "floodRiskData"
	DomainAirQualityData           = "airQualityData"
	DomainHistoricalClimateData    = "historicalClimateData"
	DomainTransportLinks           = "transportLinks"
	DomainAdministrativeBoundaries = "administrativeBoundaries"
	DomainTreeCoverageData         = "treeCoverageData"
	DomainSoilTypeData             = "soilTypeData"
	DomainWaterSourceData          = "waterSourceData"
	DomainIndustrialActivityData   = "industrialActivityData"
)

// PropertyReportContext aggregates every provider result for one postcode.
// A nil field means the domain is not available for this report.
type PropertyReportContext struct {
	Postcode                 string                    `json:"postcode"`
	AskingPrices             []AskingPrice             `json:"askingPrices"`
	SoldPrices               []SoldPrice               `json:"soldPrices"`
	PriceTrends              []PriceTrend              `json:"priceTrends"`
	PlanningApplications     []PlanningApplication     `json:"planningApplications"`
	ConservationAreas        []ConservationArea        `json:"conservationAreas"`
	Schools                  []School                  `json:"schools"`
	CrimeRates               []CrimeRate               `json:"crimeRates"`
	Demographics             []Demographic             `json:"demographics"`
	StampDuty                *StampDuty                `json:"stampDuty"`
	RentEstimates            *RentEstimate             `json:"rentEstimates"`
	SoldPricesFloorArea      []SoldPriceFloorArea      `json:"soldPricesFloorArea"`
	RentalComparables        []RentalComparable        `json:"rentalComparables"`
	EpcData                  *EpcData                  `json:"epcData"`
	FloodRiskData            *FloodRiskData            `json:"floodRiskData"`
	AirQualityData           *AirQualityData           `json:"airQualityData"`
	HistoricalClimateData    *HistoricalClimateData    `json:"historicalClimateData"`
	TransportLinks           []TransportLink           `json:"transportLinks"`
	AdministrativeBoundaries *AdministrativeBoundaries `json:"administrativeBoundaries"`
	TreeCoverageData         *TreeCoverageData         `json:"treeCoverageData"`
	SoilTypeData             *SoilTypeData             `json:"soilTypeData"`
	WaterSourceData          *WaterSourceData          `json:"waterSourceData"`
	IndustrialActivityData   *IndustrialActivityData   `json:"industrialActivityData"`

	// Failures maps a domain key to the error that made it unavailable.
	// Only populated by partial aggregation.
	Failures map[string]string `json:"failures,omitempty"`
}

// ReportRequest is the body of POST /api/v1/reports.
type ReportRequest struct {
	Postcode      string  `json:"postcode"`
	PropertyPrice float64 `json:"propertyPrice"`
	APIKey        string  `json:"apiKey"`
}

// ExecutiveSummary is the structured output of summary generation.
type ExecutiveSummary struct {
	Summary string `json:"summary"`
}

// Report is one completed report generation.
type Report struct {
	ID            int64                  `json:"id,string"`
	Postcode      string                 `json:"postcode"`
	PropertyPrice float64                `json:"propertyPrice"`
	GeneratedAt   time.Time              `json:"generatedAt"`
	Context       *PropertyReportContext `json:"context"`
	Summary       string                 `json:"summary"`
	Financials    *FinancialModel        `json:"financials"`
}

// ReportGeneratedEvent is published after a report is installed.
type ReportGeneratedEvent struct {
	ReportID      int64     `json:"reportId,string"`
	Postcode      string    `json:"postcode"`
	GeneratedAt   time.Time `json:"generatedAt"`
	SummaryLength int       `json:"summaryLength"`
	FailedDomains []string  `json:"failedDomains,omitempty"`
}
