package fuzzypatch

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/fuzzypatch/service/action/system/patch"
	"github.com/viant/fuzzypatch/service/corrector"
	"gopkg.in/yaml.v3"
)

// Config is a serialisable representation of the engine configuration. Zero
// valued settings fall back to DefaultConfig values.
type Config struct {
	Corrector CorrectorConfig `json:"corrector" yaml:"corrector"`
	Parser    ParserConfig    `json:"parser" yaml:"parser"`
	Apply     ApplyConfig     `json:"apply" yaml:"apply"`
	Tracing   TracingConfig   `json:"tracing" yaml:"tracing"`
}

type CorrectorConfig struct {
	FuzzyThreshold float64 `json:"fuzzyThreshold" yaml:"fuzzyThreshold"`
	SearchFactor   int     `json:"searchFactor" yaml:"searchFactor"`
}

type ParserConfig struct {
	// NormalizeIndent rewrites patch indentation to the target's detected unit.
	NormalizeIndent bool `json:"normalizeIndent" yaml:"normalizeIndent"`
}

type ApplyConfig struct {
	ContextLines int    `json:"contextLines" yaml:"contextLines"`
	BackupURL    string `json:"backupURL" yaml:"backupURL"`
	BaseURL      string `json:"baseURL,omitempty" yaml:"baseURL,omitempty"`
}

type TracingConfig struct {
	Enabled        bool   `json:"enabled" yaml:"enabled"`
	ServiceName    string `json:"serviceName,omitempty" yaml:"serviceName,omitempty"`
	ServiceVersion string `json:"serviceVersion,omitempty" yaml:"serviceVersion,omitempty"`
	OutputFile     string `json:"outputFile,omitempty" yaml:"outputFile,omitempty"`
}

// DefaultConfig returns a Config populated with the engine defaults. Callers
// may modify the returned struct before passing it to WithConfig.
func DefaultConfig() *Config {
	return &Config{
		Corrector: CorrectorConfig{
			FuzzyThreshold: corrector.DefaultFuzzyThreshold,
			SearchFactor:   corrector.DefaultSearchFactor,
		},
		Apply: ApplyConfig{
			ContextLines: patch.DefaultContextLines,
			BackupURL:    patch.DefaultBackupURL,
		},
		Tracing: TracingConfig{
			ServiceName: "fuzzypatch",
		},
	}
}

// withDefaults returns a copy of c with zero valued settings taken from DefaultConfig.
func (c *Config) withDefaults() *Config {
	ret := *c
	defaults := DefaultConfig()
	if ret.Corrector.FuzzyThreshold == 0 {
		ret.Corrector.FuzzyThreshold = defaults.Corrector.FuzzyThreshold
	}
	if ret.Corrector.SearchFactor == 0 {
		ret.Corrector.SearchFactor = defaults.Corrector.SearchFactor
	}
	if ret.Apply.ContextLines == 0 {
		ret.Apply.ContextLines = defaults.Apply.ContextLines
	}
	if ret.Apply.BackupURL == "" {
		ret.Apply.BackupURL = defaults.Apply.BackupURL
	}
	if ret.Tracing.ServiceName == "" {
		ret.Tracing.ServiceName = defaults.Tracing.ServiceName
	}
	return &ret
}

// Validate returns an error describing the first invalid setting or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Corrector.FuzzyThreshold <= 0 || c.Corrector.FuzzyThreshold > 1 {
		return fmt.Errorf("corrector.fuzzyThreshold must be in (0, 1], got %v", c.Corrector.FuzzyThreshold)
	}
	if c.Corrector.SearchFactor <= 0 {
		return fmt.Errorf("corrector.searchFactor must be > 0")
	}
	if c.Apply.ContextLines < 0 {
		return fmt.Errorf("apply.contextLines must be >= 0")
	}
	return nil
}

// LoadConfig decodes a YAML config from URL over DefaultConfig values.
func LoadConfig(ctx context.Context, fs afs.Service, URL string, options ...storage.Option) (*Config, error) {
	if fs == nil {
		fs = afs.New()
	}
	data, err := fs.DownloadWithURL(ctx, URL, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %v: %w", URL, err)
	}
	ret := DefaultConfig()
	if err = yaml.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to decode config %v: %w", URL, err)
	}
	if err = ret.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %v: %w", URL, err)
	}
	return ret, nil
}
