// Package adzuna queries the Adzuna job-listings API and normalizes results
// into flat job records.
package adzuna

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const (
	apiURL         = "https://api.adzuna.com/v1/api/jobs"
	defaultCountry = "fr"
	// Adzuna caps results_per_page at 50.
	maxPerPage = 50
	sourceName = "Adzuna"
)

// JobListing is a normalized job record. Field names match the wire shape
// consumed by the analyze endpoint. Immutable once fetched; uniqueness key
// is URL.
type JobListing struct {
	Title       string   `json:"job_title" mapstructure:"job_title"`
	Company     string   `json:"company" mapstructure:"company"`
	Location    string   `json:"location" mapstructure:"location"`
	Description string   `json:"job_description" mapstructure:"job_description"`
	URL         string   `json:"job_url" mapstructure:"job_url"`
	SalaryMin   *float64 `json:"salary_min" mapstructure:"salary_min"`
	SalaryMax   *float64 `json:"salary_max" mapstructure:"salary_max"`
	CreatedDate string   `json:"created_date,omitempty" mapstructure:"created_date"`
	Source      string   `json:"source" mapstructure:"source"`
	Category    string   `json:"category,omitempty" mapstructure:"category"`
}

type Client struct {
	appID  string
	appKey string

	Country    string
	APIURL     string
	HTTPClient *http.Client

	logger *zap.Logger
}

func New(logger *zap.Logger, appID, appKey, country string) *Client {
	if country == "" {
		country = defaultCountry
	}

	return &Client{
		appID:   appID,
		appKey:  appKey,
		Country: country,
		APIURL:  apiURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// adzunaResponse mirrors the top-level Adzuna search response.
type adzunaResponse struct {
	Results []adzunaResult `json:"results"`
	Count   int            `json:"count"`
}

type adzunaResult struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	RedirectURL string   `json:"redirect_url"`
	SalaryMin   *float64 `json:"salary_min"`
	SalaryMax   *float64 `json:"salary_max"`
	Created     string   `json:"created"`
	Company     struct {
		DisplayName string `json:"display_name"`
	} `json:"company"`
	Location struct {
		DisplayName string `json:"display_name"`
	} `json:"location"`
	Category struct {
		Label string `json:"label"`
	} `json:"category"`
}

// Search queries one (title, location) pair. maxResults is clamped to the
// API page cap.
func (c *Client) Search(ctx context.Context, jobTitle, location string, maxResults int) ([]*JobListing, error) {
	if maxResults <= 0 || maxResults > maxPerPage {
		maxResults = maxPerPage
	}

	endpoint := fmt.Sprintf("%s/%s/search/1", c.APIURL, c.Country)

	q := url.Values{}
	q.Set("app_id", c.appID)
	q.Set("app_key", c.appKey)
	q.Set("results_per_page", strconv.Itoa(maxResults))
	q.Set("what", jobTitle)
	q.Set("where", location)
	q.Set("content-type", "application/json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.URL.RawQuery = q.Encode()

	c.logger.Debug("searching adzuna",
		zap.String("job_title", jobTitle),
		zap.String("location", location),
	)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	var parsed adzunaResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	listings := make([]*JobListing, 0, len(parsed.Results))
	for _, result := range parsed.Results {
		company := result.Company.DisplayName
		if company == "" {
			company = "Unknown"
		}

		where := result.Location.DisplayName
		if where == "" {
			where = location
		}

		listings = append(listings, &JobListing{
			Title:       result.Title,
			Company:     company,
			Location:    where,
			Description: result.Description,
			URL:         result.RedirectURL,
			SalaryMin:   result.SalaryMin,
			SalaryMax:   result.SalaryMax,
			CreatedDate: result.Created,
			Source:      sourceName,
			Category:    result.Category.Label,
		})
	}

	c.logger.Info("adzuna search done",
		zap.String("job_title", jobTitle),
		zap.String("location", location),
		zap.Int("found", len(listings)),
	)

	return listings, nil
}
