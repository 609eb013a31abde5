// Package config holds harvester configuration.
package config

import (
	"fmt"
	"net/url"
	"time"
)

// Engine selection preferences. Auto prefers the browser engine and falls
// back to the TLS-fingerprint client when the browser cannot launch.
const (
	EngineAuto    = "auto"
	EngineBrowser = "browser"
	EngineTLS     = "tls"
	EngineHTTP    = "http"
)

// Config holds every knob the harvesting engine honors.
type Config struct {
	BaseURL     string
	PlacesFile  string
	ResultsFile string
	FailedFile  string

	Start int
	End   int // exclusive; 0 means "to the end of the list"

	Engine             string
	Concurrency        int
	BrowserConcurrency int
	BatchSize          int
	SaveEvery          int

	MaxRetries        int
	Timeout           time.Duration
	DelayLow          time.Duration
	DelayHigh         time.Duration
	BatchDelayLow     time.Duration
	BatchDelayHigh    time.Duration
	RequestsPerSecond float64

	MinRecords int
	MaxRecords int

	Currency        string
	Resume          bool
	EnrichAmenities bool
	MetricsAddr     string
	Verbose         bool
}

// DefaultConfig returns conservative defaults; the target blocks fast.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:            "https://www.booking.com",
		PlacesFile:         "data/places.json",
		ResultsFile:        "data/hotels.json",
		FailedFile:         "data/failed.json",
		Engine:             EngineAuto,
		Concurrency:        5,
		BrowserConcurrency: 2,
		BatchSize:          5,
		SaveEvery:          15,
		MaxRetries:         5,
		Timeout:            35 * time.Second,
		DelayLow:           2500 * time.Millisecond,
		DelayHigh:          5500 * time.Millisecond,
		BatchDelayLow:      5 * time.Second,
		BatchDelayHigh:     10 * time.Second,
		RequestsPerSecond:  2,
		MinRecords:         10,
		MaxRecords:         30,
		Currency:           "INR",
		Resume:             true,
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}
	parsed, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if parsed.Host == "" {
		return fmt.Errorf("base URL must include a host")
	}

	switch c.Engine {
	case EngineAuto, EngineBrowser, EngineTLS, EngineHTTP:
	default:
		return fmt.Errorf("engine must be auto, browser, tls, or http")
	}

	if c.PlacesFile == "" {
		return fmt.Errorf("places file cannot be empty")
	}
	if c.ResultsFile == "" || c.FailedFile == "" {
		return fmt.Errorf("output files cannot be empty")
	}
	if c.Start < 0 {
		return fmt.Errorf("start index cannot be negative")
	}
	if c.End != 0 && c.End <= c.Start {
		return fmt.Errorf("end index (%d) must exceed start index (%d)", c.End, c.Start)
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive")
	}
	if c.BrowserConcurrency <= 0 {
		return fmt.Errorf("browser concurrency must be positive")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive")
	}
	if c.SaveEvery <= 0 {
		return fmt.Errorf("save interval must be positive")
	}
	if c.MaxRetries <= 0 {
		return fmt.Errorf("max retries must be positive")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.DelayLow < 0 || c.DelayHigh < c.DelayLow {
		return fmt.Errorf("delay range is incoherent")
	}
	if c.BatchDelayLow < 0 || c.BatchDelayHigh < c.BatchDelayLow {
		return fmt.Errorf("batch delay range is incoherent")
	}
	if c.RequestsPerSecond <= 0 {
		return fmt.Errorf("requests per second must be positive")
	}
	if c.MinRecords <= 0 {
		return fmt.Errorf("min records must be positive")
	}
	if c.MaxRecords < c.MinRecords {
		return fmt.Errorf("max records (%d) cannot be below min records (%d)", c.MaxRecords, c.MinRecords)
	}
	return nil
}
