package config

import (
	"fmt"
	"net/url"
)

// ValidStrategies is the closed set of save strategies.
var ValidStrategies = map[string]bool{
	"csv": true, "json": true, "xml": true, "sqlite": true, "mongo": true,
}

// Validate checks the configuration for invalid values.
// Any error here is fatal and aborts the run before network activity.
func Validate(cfg *Config) error {
	if cfg.Source.BaseURL == "" {
		return fmt.Errorf("source.base_url is required")
	}
	if err := ValidateURL(cfg.Source.BaseURL); err != nil {
		return fmt.Errorf("source.base_url: %w", err)
	}
	if cfg.Source.LinkBase != "" {
		if err := ValidateURL(cfg.Source.LinkBase); err != nil {
			return fmt.Errorf("source.link_base: %w", err)
		}
	}

	if len(cfg.Fields) == 0 {
		return fmt.Errorf("fields must declare at least one selector")
	}
	seen := make(map[string]bool, len(cfg.Fields))
	for i, f := range cfg.Fields {
		if f.Name == "" {
			return fmt.Errorf("fields[%d].name is required", i)
		}
		if f.Selector == "" {
			return fmt.Errorf("fields[%d].selector is required (field %q)", i, f.Name)
		}
		if seen[f.Name] {
			return fmt.Errorf("duplicate field name %q", f.Name)
		}
		seen[f.Name] = true
	}

	if cfg.Enrich.Enabled {
		if len(cfg.Enrich.Selectors) == 0 {
			return fmt.Errorf("enrich.selectors must not be empty when enrich is enabled")
		}
		if cfg.Enrich.Column == "" {
			return fmt.Errorf("enrich.column must not be empty")
		}
		if !seen[cfg.Enrich.LinkColumn] {
			return fmt.Errorf("enrich.link_column %q is not a declared field", cfg.Enrich.LinkColumn)
		}
	}

	if cfg.Fetcher.RequestTimeout <= 0 {
		return fmt.Errorf("fetcher.request_timeout must be > 0")
	}
	if cfg.Fetcher.PolitenessDelay < 0 {
		return fmt.Errorf("fetcher.politeness_delay must be >= 0")
	}
	if cfg.Fetcher.MaxBodySize <= 0 {
		return fmt.Errorf("fetcher.max_body_size must be > 0")
	}
	if cfg.Fetcher.MaxRedirects < 0 {
		return fmt.Errorf("fetcher.max_redirects must be >= 0")
	}
	if cfg.Fetcher.Concurrency < 1 {
		return fmt.Errorf("fetcher.concurrency must be >= 1, got %d", cfg.Fetcher.Concurrency)
	}

	if !ValidStrategies[cfg.Output.Strategy] {
		return fmt.Errorf("output.strategy %q is not supported (valid: csv, json, xml, sqlite, mongo)", cfg.Output.Strategy)
	}
	if cfg.Output.Name == "" {
		return fmt.Errorf("output.name is required")
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	return nil
}

// ValidateURL checks if a URL string is valid for fetching.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}
