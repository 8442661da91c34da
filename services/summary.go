package services

import (
	"context"
	"encoding/json"
	"reflect"
	"sort"
	"strings"
	"text/template"

	"propertyinsights/llm"
	"propertyinsights/models"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const notAvailable = "Not available"

// SummarySystemInstruction is sent with every summary request.
const SummarySystemInstruction = "You are an expert property investment analyst. " +
	"You MUST use ALL of the provided data sections in your analysis. " +
	"Base every statement solely on the provided data and do not speculate beyond it. " +
	"Where a section is marked Not available, say so rather than inventing figures."

var summarySchema = llm.Schema{Fields: []llm.Field{
	{Name: "summary", Description: "A comprehensive executive summary of the property's redevelopment potential, covering all provided data sections."},
}}

var summaryTemplate = template.Must(template.New("summary").Funcs(template.FuncMap{
	"section":       renderSection,
	"failedDomains": failedDomains,
}).Parse(`You are provided with comprehensive property data for the postcode: {{.Postcode}}.
Generate a detailed executive summary of the property's redevelopment potential.

1. Property Valuation & Market Analysis
   - Asking Prices: {{section .AskingPrices}}
   - Sold Prices: {{section .SoldPrices}}
   - Price Trends (5-year): {{section .PriceTrends}}
   - Sold Prices per Floor Area: {{section .SoldPricesFloorArea}}
   Analyse local asking and sold prices, price-per-floor-area metrics and the 5-year price trend.

2. Planning & Regulatory Landscape
   - Recent Planning Applications: {{section .PlanningApplications}}
   - Conservation Areas: {{section .ConservationAreas}}
   Assess the likelihood of planning permission success from the applications and restrictions shown.

3. Location Overview & Administrative Details
   - Administrative Boundaries: {{section .AdministrativeBoundaries}}
   Summarise local authority, council, constituency, ward, country and coordinates.

4. Neighbourhood Insights
   - Schools & Ofsted Ratings: {{section .Schools}}
   - Crime Rates: {{section .CrimeRates}}
   - Demographics (Age & Income): {{section .Demographics}}
   Evaluate schools, crime and the demographic fit for target tenants or buyers.

5. Energy, Climate & Environment
   - EPC Data: {{section .EpcData}}
   - Flood Risk: {{section .FloodRiskData}}
   - Air Quality: {{section .AirQualityData}}
   - Historical Climate: {{section .HistoricalClimateData}}
   - Tree Coverage: {{section .TreeCoverageData}}
   - Soil Type: {{section .SoilTypeData}}
   - Water Sources: {{section .WaterSourceData}}
   - Nearby Industrial Activity: {{section .IndustrialActivityData}}
   Note implications for redevelopment such as insulation upgrades, flood mitigation and site constraints.

6. Transport Links
   - Transport Options: {{section .TransportLinks}}
   Describe key transport options and their proximity.

7. Financial Feasibility
   - Stamp Duty: {{section .StampDuty}}
   - Rent Estimates: {{section .RentEstimates}}
   Estimate rental yield and model ROI using a £150/sqft refurbishment baseline; if floor area is not provided assume 1000 sqft and state the assumption.

8. Case Studies & Comparables
   - Rental Comparables: {{section .RentalComparables}}
   Discuss the market using the floor-area prices and rental comparables. State when profit margins or time-to-sale cannot be inferred.
{{with .Failures}}
Unavailable because the provider failed: {{failedDomains .}}.
{{end}}
Structure the summary to cover all of these aspects, highlighting key opportunities and risks based solely on the provided data.

Executive Summary for Postcode: {{.Postcode}}
`))

// renderSection serialises a domain value, or returns "Not available" for
// nil pointers and empty slices.
func renderSection(v any) string {
	if v == nil {
		return notAvailable
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return notAvailable
		}
	case reflect.Slice, reflect.Map:
		if rv.Len() == 0 {
			return notAvailable
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return notAvailable
	}
	return string(b)
}

func failedDomains(failures map[string]string) string {
	keys := make([]string, 0, len(failures))
	for k := range failures {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}

// BuildSummaryPrompt renders the summary prompt. The output depends only on
// the context, so identical contexts give identical prompts.
func BuildSummaryPrompt(rc *models.PropertyReportContext) (string, error) {
	var sb strings.Builder
	if err := summaryTemplate.Execute(&sb, rc); err != nil {
		return "", eris.Wrap(err, "render summary prompt")
	}
	return sb.String(), nil
}

// SummaryGenerator turns an aggregated context into an executive summary.
type SummaryGenerator struct {
	backend llm.Backend
	logger  *zap.Logger
}

func NewSummaryGenerator(backend llm.Backend, logger *zap.Logger) *SummaryGenerator {
	return &SummaryGenerator{backend: backend, logger: logger}
}

// Generate makes a single request to the backend. There is no retry.
func (g *SummaryGenerator) Generate(ctx context.Context, rc *models.PropertyReportContext) (*models.ExecutiveSummary, error) {
	if rc == nil {
		return nil, eris.New("summary: no report context")
	}
	prompt, err := BuildSummaryPrompt(rc)
	if err != nil {
		return nil, err
	}

	raw, err := g.backend.Generate(ctx, llm.Request{
		Task:   llm.TaskSummary,
		System: SummarySystemInstruction,
		Prompt: prompt,
		Schema: summarySchema,
		Inputs: map[string]string{llm.InputPostcode: rc.Postcode},
	})
	if err != nil {
		return nil, eris.Wrap(err, "summary generation failed")
	}

	var out models.ExecutiveSummary
	if err := llm.Decode(raw, &out); err != nil {
		g.logger.Error("Summary reply was not valid JSON", zap.String("backend", g.backend.Name()), zap.Error(err))
		return nil, err
	}
	out.Summary = strings.TrimSpace(out.Summary)
	if out.Summary == "" {
		return nil, eris.Wrap(llm.ErrMalformedOutput, "summary is empty")
	}

	g.logger.Info("Executive summary generated",
		zap.String("postcode", rc.Postcode),
		zap.String("backend", g.backend.Name()),
		zap.Int("chars", len(out.Summary)),
	)
	return &out, nil
}
