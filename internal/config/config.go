package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for a Gleaner run.
type Config struct {
	Source   SourceConfig   `mapstructure:"source"   yaml:"source"`
	Fields   []FieldRule    `mapstructure:"fields"   yaml:"fields"`
	Enrich   EnrichConfig   `mapstructure:"enrich"   yaml:"enrich"`
	Fetcher  FetcherConfig  `mapstructure:"fetcher"  yaml:"fetcher"`
	Output   OutputConfig   `mapstructure:"output"   yaml:"output"`
	Pipeline PipelineConfig `mapstructure:"pipeline" yaml:"pipeline"`
	Logging  LoggingConfig  `mapstructure:"logging"  yaml:"logging"`
}

// SourceConfig describes the listing pages to scrape.
type SourceConfig struct {
	BaseURL    string `mapstructure:"base_url"   yaml:"base_url"`
	StartPage  int    `mapstructure:"start_page" yaml:"start_page"`
	EndPage    int    `mapstructure:"end_page"   yaml:"end_page"`
	PageParam  string `mapstructure:"page_param" yaml:"page_param"`
	LinkBase   string `mapstructure:"link_base"  yaml:"link_base"`
	Pagination bool   `mapstructure:"pagination" yaml:"pagination"`
}

// FieldRule maps one output column to a selector.
// The rule order defines the column order of the record set.
type FieldRule struct {
	Name     string `mapstructure:"name"     yaml:"name"`
	Selector string `mapstructure:"selector" yaml:"selector"`
}

// EnrichConfig controls the per-row detail page enrichment step.
type EnrichConfig struct {
	Enabled    bool     `mapstructure:"enabled"     yaml:"enabled"`
	Column     string   `mapstructure:"column"      yaml:"column"`
	LinkColumn string   `mapstructure:"link_column" yaml:"link_column"`
	Selectors  []string `mapstructure:"selectors"   yaml:"selectors"`
}

// FetcherConfig controls the page fetcher.
type FetcherConfig struct {
	UserAgent       string        `mapstructure:"user_agent"       yaml:"user_agent"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"  yaml:"request_timeout"`
	PolitenessDelay time.Duration `mapstructure:"politeness_delay" yaml:"politeness_delay"`
	MaxBodySize     int64         `mapstructure:"max_body_size"    yaml:"max_body_size"`
	FollowRedirects bool          `mapstructure:"follow_redirects" yaml:"follow_redirects"`
	MaxRedirects    int           `mapstructure:"max_redirects"    yaml:"max_redirects"`
	Concurrency     int           `mapstructure:"concurrency"      yaml:"concurrency"`
}

// OutputConfig selects and parameterizes the sink.
type OutputConfig struct {
	Strategy      string `mapstructure:"strategy"       yaml:"strategy"`
	Name          string `mapstructure:"name"           yaml:"name"`
	Dir           string `mapstructure:"dir"            yaml:"dir"`
	SQLitePath    string `mapstructure:"sqlite_path"    yaml:"sqlite_path"`
	MongoURI      string `mapstructure:"mongo_uri"      yaml:"mongo_uri"`
	MongoDatabase string `mapstructure:"mongo_database" yaml:"mongo_database"`
}

// PipelineConfig controls table middleware applied before the sink.
type PipelineConfig struct {
	Trim     bool              `mapstructure:"trim"     yaml:"trim"`
	Defaults map[string]string `mapstructure:"defaults" yaml:"defaults"`
	Required []string          `mapstructure:"required" yaml:"required"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			StartPage:  1,
			EndPage:    1,
			PageParam:  "?page=",
			Pagination: false,
		},
		Enrich: EnrichConfig{
			Column:     "content",
			LinkColumn: "link",
		},
		Fetcher: FetcherConfig{
			UserAgent:       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			RequestTimeout:  30 * time.Second,
			PolitenessDelay: 1 * time.Second,
			MaxBodySize:     10 * 1024 * 1024, // 10MB
			FollowRedirects: true,
			MaxRedirects:    10,
			Concurrency:     1,
		},
		Output: OutputConfig{
			Strategy:      "csv",
			Name:          "output",
			Dir:           "./outputs",
			SQLitePath:    "./outputs/db/data.db",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: "gleaner",
		},
		Pipeline: PipelineConfig{
			Trim: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
