package adzuna

import (
	"context"

	"go.uber.org/zap"
)

// SearchConfig is the (titles x locations) search matrix.
type SearchConfig struct {
	JobTitles           []string `mapstructure:"job_titles" yaml:"job_titles"`
	Locations           []string `mapstructure:"locations" yaml:"locations"`
	MaxResultsPerSearch int      `mapstructure:"max_results_per_search" yaml:"max_results_per_search"`
}

// DefaultSearchConfig returns the search matrix written when no
// configuration file exists yet.
func DefaultSearchConfig() *SearchConfig {
	return &SearchConfig{
		JobTitles:           []string{"Data Scientist", "AI Engineer", "Machine Learning Engineer"},
		Locations:           []string{"Paris", "Remote"},
		MaxResultsPerSearch: 10,
	}
}

// SearchAll runs every (title, location) pair of the matrix and returns the
// results de-duplicated by URL, preserving first-seen order. A single failed
// query is non-fatal: it is logged and contributes no results.
func (c *Client) SearchAll(ctx context.Context, cfg *SearchConfig) ([]*JobListing, error) {
	if cfg == nil {
		cfg = DefaultSearchConfig()
	}

	c.logger.Info("starting job search",
		zap.Strings("job_titles", cfg.JobTitles),
		zap.Strings("locations", cfg.Locations),
		zap.Int("max_results_per_search", cfg.MaxResultsPerSearch),
	)

	var all []*JobListing
	for _, title := range cfg.JobTitles {
		for _, location := range cfg.Locations {
			listings, err := c.Search(ctx, title, location, cfg.MaxResultsPerSearch)
			if err != nil {
				c.logger.Warn("search query failed",
					zap.String("job_title", title),
					zap.String("location", location),
					zap.Error(err),
				)
				continue
			}
			all = append(all, listings...)
		}
	}

	unique := DeduplicateByURL(all)

	c.logger.Info("job search complete",
		zap.Int("total", len(all)),
		zap.Int("unique", len(unique)),
	)

	return unique, nil
}

// DeduplicateByURL drops listings whose URL was already seen. Listings
// without a URL are dropped as well: they cannot be deduplicated or linked
// from the dashboard.
func DeduplicateByURL(listings []*JobListing) []*JobListing {
	seen := make(map[string]bool, len(listings))
	unique := make([]*JobListing, 0, len(listings))

	for _, listing := range listings {
		if listing.URL == "" || seen[listing.URL] {
			continue
		}
		seen[listing.URL] = true
		unique = append(unique, listing)
	}

	return unique
}
