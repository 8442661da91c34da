// Package finance derives the stamp duty and return-on-investment model shown
// alongside a property report.
package finance

import (
	"propertyinsights/models"

	"github.com/shopspring/decimal"
)

// stampDutyBand charges Rate on the part of the price above Lower and up to
// Upper. A zero Upper means the band is open-ended.
type stampDutyBand struct {
	Lower decimal.Decimal
	Upper decimal.Decimal
	Rate  decimal.Decimal
}

var stampDutyBands = []stampDutyBand{
	{Lower: decimal.NewFromInt(250000), Upper: decimal.NewFromInt(925000), Rate: decimal.RequireFromString("0.05")},
	{Lower: decimal.NewFromInt(925000), Upper: decimal.NewFromInt(1500000), Rate: decimal.RequireFromString("0.10")},
	{Lower: decimal.NewFromInt(1500000), Rate: decimal.RequireFromString("0.12")},
}

var (
	RefurbishmentCostPerSqFt = decimal.NewFromInt(150)
	PlaceholderFloorAreaSqFt = decimal.NewFromInt(1000)
	ResaleUpliftMultiplier   = decimal.RequireFromString("1.2")

	monthsPerYear = decimal.NewFromInt(12)
	hundred       = decimal.NewFromInt(100)
)

const (
	AssumptionFloorArea = "Floor area is a placeholder of 1000 sq ft, not measured data; refurbishment cost uses a baseline of 150 per sq ft."
	AssumptionResale    = "Hypothetical resale value assumes a fixed 20% uplift after refurbishment; it is speculative, not market-derived."
)

// CalculateStampDuty applies the banded SDLT schedule to price and rounds the
// result to the nearest whole unit.
func CalculateStampDuty(price decimal.Decimal) decimal.Decimal {
	amount := decimal.Zero
	for _, band := range stampDutyBands {
		if !price.GreaterThan(band.Lower) {
			break
		}
		top := price
		if !band.Upper.IsZero() && price.GreaterThan(band.Upper) {
			top = band.Upper
		}
		amount = amount.Add(top.Sub(band.Lower).Mul(band.Rate))
	}
	return amount.Round(0)
}

// BuildModel derives yield, investment and ROI figures. Every derived
// field stays nil when any of its inputs is missing.
func BuildModel(in models.FinancialInputs) *models.FinancialModel {
	refurb := RefurbishmentCostPerSqFt.Mul(PlaceholderFloorAreaSqFt)

	fm := &models.FinancialModel{
		Price:                    in.Price,
		StampDutyAmount:          in.StampDutyAmount,
		AverageMonthlyRent:       in.AverageMonthlyRent,
		RefurbishmentCostPerSqFt: RefurbishmentCostPerSqFt,
		FloorAreaSqFt:            PlaceholderFloorAreaSqFt,
		FloorAreaAssumed:         true,
		TotalRefurbishmentCost:   &refurb,
		Assumptions:              []string{AssumptionFloorArea},
	}

	if in.AverageMonthlyRent != nil {
		annual := in.AverageMonthlyRent.Mul(monthsPerYear)
		fm.AnnualRent = &annual
	}

	pricePositive := in.Price != nil && in.Price.IsPositive()

	if fm.AnnualRent != nil && pricePositive {
		yield := fm.AnnualRent.Div(*in.Price).Mul(hundred).Round(2)
		fm.GrossYieldPercent = &yield
	}

	if in.Price != nil && in.StampDutyAmount != nil {
		total := in.Price.Add(*in.StampDutyAmount).Add(refurb)
		fm.TotalInvestment = &total
	}

	if pricePositive {
		resale := in.Price.Mul(ResaleUpliftMultiplier)
		fm.HypotheticalResaleValue = &resale
		fm.Assumptions = append(fm.Assumptions, AssumptionResale)
	}

	if fm.HypotheticalResaleValue != nil && fm.TotalInvestment != nil {
		profit := fm.HypotheticalResaleValue.Sub(*fm.TotalInvestment)
		fm.EstimatedProfit = &profit
		if fm.TotalInvestment.IsPositive() {
			roi := profit.Div(*fm.TotalInvestment).Mul(hundred).Round(2)
			fm.EstimatedROIPercent = &roi
		}
	}

	return fm
}

// InputsFor collects the model inputs from a request price and the
// aggregated provider data.
func InputsFor(price float64, report *models.PropertyReportContext) models.FinancialInputs {
	var in models.FinancialInputs
	if price > 0 {
		p := decimal.NewFromFloat(price)
		in.Price = &p
	}
	if report == nil {
		return in
	}
	if report.StampDuty != nil {
		sd := decimal.NewFromFloat(report.StampDuty.Amount)
		in.StampDutyAmount = &sd
	}
	if report.RentEstimates != nil {
		rent := decimal.NewFromFloat(report.RentEstimates.AverageRent)
		in.AverageMonthlyRent = &rent
	}
	return in
}
