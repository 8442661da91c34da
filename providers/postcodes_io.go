package providers

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"propertyinsights/models"
	"propertyinsights/utils"

	"github.com/gocolly/colly/v2"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// PostcodesIOSource decorates another DataSource, replacing administrative
// boundaries with a live lookup against postcodes.io. All other domains are
// served by the wrapped source.
type PostcodesIOSource struct {
	DataSource

	baseURL   string
	collector *colly.Collector
	logger    *zap.Logger
}

type postcodesIOResponse struct {
	Status int                `json:"status"`
	Error  string             `json:"error"`
	Result *postcodesIOResult `json:"result"`
}

type postcodesIOResult struct {
	Postcode                  string   `json:"postcode"`
	Country                   string   `json:"country"`
	Latitude                  *float64 `json:"latitude"`
	Longitude                 *float64 `json:"longitude"`
	AdminDistrict             string   `json:"admin_district"`
	AdminCounty               string   `json:"admin_county"`
	AdminWard                 string   `json:"admin_ward"`
	ParliamentaryConstituency string   `json:"parliamentary_constituency"`
}

// NewPostcodesIOSource builds the decorator. baseURL is normally
// https://api.postcodes.io.
func NewPostcodesIOSource(next DataSource, baseURL string, logger *zap.Logger) (*PostcodesIOSource, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Hostname() == "" {
		return nil, eris.Errorf("postcodes.io: invalid base URL %q", baseURL)
	}

	c := colly.NewCollector(
		colly.AllowedDomains(u.Hostname()),
		colly.AllowURLRevisit(),
		colly.IgnoreRobotsTxt(),
		colly.UserAgent("property-insights/1.0"),
	)
	c.SetRequestTimeout(10 * time.Second)
	if err := c.Limit(&colly.LimitRule{DomainGlob: "*", Parallelism: 2}); err != nil {
		return nil, eris.Wrap(err, "postcodes.io: failed to set limit rule")
	}

	c.OnRequest(func(r *colly.Request) {
		logger.Debug("postcodes.io request", zap.String("url", r.URL.String()))
	})
	c.OnError(func(r *colly.Response, err error) {
		logger.Warn("postcodes.io request failed",
			zap.String("url", r.Request.URL.String()),
			zap.Int("status", r.StatusCode),
			zap.Error(err))
	})

	return &PostcodesIOSource{
		DataSource: next,
		baseURL:    u.String(),
		collector:  c,
		logger:     logger,
	}, nil
}

// AdministrativeBoundaries looks the postcode up on postcodes.io.
func (s *PostcodesIOSource) AdministrativeBoundaries(ctx context.Context, postcode string) (*models.AdministrativeBoundaries, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !utils.IsValidPostcode(postcode) {
		return nil, eris.Errorf("postcodes.io: malformed postcode %q", postcode)
	}

	collector := s.collector.Clone()

	var (
		result   *models.AdministrativeBoundaries
		parseErr error
	)
	collector.OnResponse(func(r *colly.Response) {
		var body postcodesIOResponse
		if err := json.Unmarshal(r.Body, &body); err != nil {
			parseErr = eris.Wrap(err, "postcodes.io: failed to decode response")
			return
		}
		if body.Result == nil {
			parseErr = eris.Errorf("postcodes.io: no result for %s: %s", postcode, body.Error)
			return
		}
		result = body.Result.toBoundaries()
	})

	// colly has no context support; the visit runs on its own goroutine and is
	// abandoned (bounded by the request timeout) when ctx ends first.
	target := s.baseURL + "/postcodes/" + url.PathEscape(postcode)
	done := make(chan error, 1)
	go func() {
		err := collector.Visit(target)
		collector.Wait()
		done <- err
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case err := <-done:
		if err != nil {
			return nil, eris.Wrapf(err, "postcodes.io: lookup of %s failed", postcode)
		}
	}

	if parseErr != nil {
		return nil, parseErr
	}
	if result == nil {
		return nil, eris.Errorf("postcodes.io: empty response for %s", postcode)
	}
	return result, nil
}

func (r *postcodesIOResult) toBoundaries() *models.AdministrativeBoundaries {
	b := &models.AdministrativeBoundaries{
		LocalAuthority: r.AdminDistrict,
		Council:        r.AdminDistrict,
		Constituency:   r.ParliamentaryConstituency,
		Ward:           r.AdminWard,
		Country:        r.Country,
	}
	if r.AdminCounty != "" {
		b.Council = r.AdminCounty
	}
	if r.Latitude != nil {
		b.Latitude = *r.Latitude
	}
	if r.Longitude != nil {
		b.Longitude = *r.Longitude
	}
	return b
}
