package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/fxweekday/extremum"
	"github.com/rustyeddy/fxweekday/market"
	"github.com/rustyeddy/fxweekday/period"
)

// Config represents a complete analysis run
type Config struct {
	Instrument string         `json:"instrument" yaml:"instrument" env:"FXWEEKDAY_INSTRUMENT"`
	Source     SourceConfig   `json:"source" yaml:"source"`
	OANDA      OANDAConfig    `json:"oanda" yaml:"oanda"`
	Analysis   AnalysisConfig `json:"analysis" yaml:"analysis"`
	Output     OutputConfig   `json:"output" yaml:"output"`
	Journal    JournalConfig  `json:"journal" yaml:"journal"`
	Log        LogConfig      `json:"log" yaml:"log"`
}

// SourceConfig selects where bars come from
type SourceConfig struct {
	Type       string `json:"type" yaml:"type"` // "csv" or "oanda"
	Path       string `json:"path,omitempty" yaml:"path,omitempty"`
	DateLayout string `json:"date_layout,omitempty" yaml:"date_layout,omitempty"`
}

// OANDAConfig contains v20 REST parameters
type OANDAConfig struct {
	Env               string `json:"env" yaml:"env" env:"OANDA_ENV"`
	BaseURL           string `json:"base_url,omitempty" yaml:"base_url,omitempty" env:"OANDA_BASE_URL"`
	Token             string `json:"token,omitempty" yaml:"token,omitempty" env:"OANDA_TOKEN"`
	Granularity       string `json:"granularity" yaml:"granularity"`
	Price             string `json:"price" yaml:"price"`
	DailyAlignment    int    `json:"daily_alignment" yaml:"daily_alignment"`
	AlignmentTimezone string `json:"alignment_timezone" yaml:"alignment_timezone"`
}

// AnalysisConfig contains aggregation parameters
type AnalysisConfig struct {
	Period    string `json:"period" yaml:"period"` // week, isoweek, month, quarter
	From      string `json:"from" yaml:"from"`     // 2006-01-02 or RFC3339
	To        string `json:"to,omitempty" yaml:"to,omitempty"`
	StartYear int    `json:"start_year" yaml:"start_year"`
	EndYear   int    `json:"end_year" yaml:"end_year"`
	Workers   int    `json:"workers" yaml:"workers"`
	Order     string `json:"order" yaml:"order"` // weekday or count
}

// OutputConfig contains chart and report parameters
type OutputConfig struct {
	Chart       string `json:"chart" yaml:"chart"`
	YearlyChart string `json:"yearly_chart" yaml:"yearly_chart"`
	Columns     int    `json:"columns" yaml:"columns"` // years per grid row
	Report      bool   `json:"report" yaml:"report"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type string `json:"type" yaml:"type"` // "", "csv" or "sqlite"
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

type LogConfig struct {
	Level   string `json:"level" yaml:"level" env:"FXWEEKDAY_LOG_LEVEL"`
	NoColor bool   `json:"no_color" yaml:"no_color"`
}

// Load reads path (YAML, JSON or TOML by extension) on top of Default and
// applies environment overrides. An empty path reads only the
// environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("read env: %w", err)
		}
	} else {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	return cfg, nil
}

// LoadFromFile loads and validates a configuration file
func LoadFromFile(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	inst, err := market.NormalizeInstrument(c.Instrument)
	if err != nil {
		return fmt.Errorf("instrument: %w", err)
	}
	c.Instrument = inst

	switch c.Source.Type {
	case "csv":
		if c.Source.Path == "" {
			return fmt.Errorf("source.path is required for csv source")
		}
	case "oanda":
		if c.OANDA.Granularity == "" {
			return fmt.Errorf("oanda.granularity is required")
		}
		if c.OANDA.DailyAlignment < 0 || c.OANDA.DailyAlignment > 23 {
			return fmt.Errorf("oanda.daily_alignment must be 0..23")
		}
		if c.OANDA.AlignmentTimezone != "" {
			if _, err := time.LoadLocation(c.OANDA.AlignmentTimezone); err != nil {
				return fmt.Errorf("oanda.alignment_timezone: %w", err)
			}
		}
	default:
		return fmt.Errorf("source.type must be 'csv' or 'oanda'")
	}

	if _, _, err := period.Parse(c.Analysis.Period); err != nil {
		return fmt.Errorf("analysis.period: %w", err)
	}
	if _, err := extremum.ParseOrder(c.Analysis.Order); err != nil {
		return fmt.Errorf("analysis.order: %w", err)
	}
	if _, _, err := c.Range(); err != nil {
		return err
	}
	if c.Analysis.StartYear > c.Analysis.EndYear {
		return fmt.Errorf("analysis.start_year must not be after end_year")
	}
	if c.Analysis.Workers < 0 {
		return fmt.Errorf("analysis.workers must not be negative")
	}
	if c.Output.Columns < 0 {
		return fmt.Errorf("output.columns must not be negative")
	}

	switch c.Journal.Type {
	case "", "none":
	case "csv", "sqlite":
		if c.Journal.Path == "" {
			return fmt.Errorf("journal.path required for %s journal", c.Journal.Type)
		}
	default:
		return fmt.Errorf("journal.type must be 'csv' or 'sqlite'")
	}
	return nil
}

// Range parses analysis.from and analysis.to. Empty values give zero times.
func (c *Config) Range() (from, to time.Time, err error) {
	if from, err = ParseDate(c.Analysis.From); err != nil {
		return from, to, fmt.Errorf("analysis.from: %w", err)
	}
	if to, err = ParseDate(c.Analysis.To); err != nil {
		return from, to, fmt.Errorf("analysis.to: %w", err)
	}
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		return from, to, fmt.Errorf("analysis.from must be before analysis.to")
	}
	return from, to, nil
}

// ParseDate accepts 2006-01-02 or RFC3339. Empty input is the zero time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad date %q (want 2006-01-02 or RFC3339)", s)
	}
	return t.UTC(), nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Instrument: "EUR_USD",
		Source: SourceConfig{
			Type: "oanda",
		},
		OANDA: OANDAConfig{
			Env:               "practice",
			Granularity:       "D",
			Price:             "M",
			DailyAlignment:    0,
			AlignmentTimezone: "UTC",
		},
		Analysis: AnalysisConfig{
			Period:    "week",
			From:      "2000-01-01",
			StartYear: 2015,
			EndYear:   2023,
			Workers:   4,
			Order:     "weekday",
		},
		Output: OutputConfig{
			Chart:       "week_price_day.pdf",
			YearlyChart: "yearly_week_price_day.pdf",
			Columns:     3,
			Report:      true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
