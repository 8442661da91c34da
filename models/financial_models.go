package models

import "github.com/shopspring/decimal"

// FinancialInputs are the fetched figures the financial model is derived from.
// A nil input is unknown, never zero.
type FinancialInputs struct {
	Price              *decimal.Decimal
	StampDutyAmount    *decimal.Decimal
	AverageMonthlyRent *decimal.Decimal
}

// FinancialModel is the derived feasibility model. Nil fields are absent
// because one of their inputs was missing.
type FinancialModel struct {
	Price                    *decimal.Decimal `json:"price"`
	StampDutyAmount          *decimal.Decimal `json:"stampDutyAmount"`
	AverageMonthlyRent       *decimal.Decimal `json:"averageMonthlyRent"`
	AnnualRent               *decimal.Decimal `json:"annualRent"`
	GrossYieldPercent        *decimal.Decimal `json:"grossYieldPercent"`
	RefurbishmentCostPerSqFt decimal.Decimal  `json:"refurbishmentCostPerSqFt"`
	FloorAreaSqFt            decimal.Decimal  `json:"floorAreaSqFt"`
	FloorAreaAssumed         bool             `json:"floorAreaAssumed"`
	TotalRefurbishmentCost   *decimal.Decimal `json:"totalRefurbishmentCost"`
	TotalInvestment          *decimal.Decimal `json:"totalInvestment"`
	HypotheticalResaleValue  *decimal.Decimal `json:"hypotheticalResaleValue"`
	EstimatedProfit          *decimal.Decimal `json:"estimatedProfit"`
	EstimatedROIPercent      *decimal.Decimal `json:"estimatedRoiPercent"`
	Assumptions              []string         `json:"assumptions"`
}
