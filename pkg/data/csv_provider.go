package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/vqminh/etf-meanrev/pkg/types"
)

// Provider loads daily bar series by name.
type Provider interface {
	LoadBars(path string) ([]types.Bar, error)
}

// CSVProvider reads daily bars from CSV files with an in-memory cache, so a
// parameter sweep over one data file parses it once.
//
// Expected layout: timestamp,open,high,low,close,volume[,vwap]
// The vwap column is optional per file and per row.
type CSVProvider struct {
	cache      map[string][]types.Bar
	cacheMutex sync.RWMutex
	maxEntries int
}

// DateFormats are tried in order when parsing the timestamp column.
var DateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// NewCSVProvider creates a provider caching up to maxEntries parsed files.
func NewCSVProvider(maxEntries int) *CSVProvider {
	return &CSVProvider{
		cache:      make(map[string][]types.Bar),
		maxEntries: maxEntries,
	}
}

// LoadBars loads and validates the bar series at path.
func (p *CSVProvider) LoadBars(path string) ([]types.Bar, error) {
	p.cacheMutex.RLock()
	if bars, ok := p.cache[path]; ok {
		p.cacheMutex.RUnlock()
		return bars, nil
	}
	p.cacheMutex.RUnlock()

	bars, err := p.loadFromFile(path)
	if err != nil {
		return nil, err
	}
	if err := types.ValidateBars(bars); err != nil {
		return nil, fmt.Errorf("data: %s: %w", path, err)
	}

	p.cacheMutex.Lock()
	defer p.cacheMutex.Unlock()
	if len(p.cache) >= p.maxEntries {
		// Evict one arbitrary entry; map iteration order serves as a
		// pseudo-LRU here.
		for k := range p.cache {
			delete(p.cache, k)
			break
		}
	}
	p.cache[path] = bars

	return bars, nil
}

// ClearCache drops every cached series.
func (p *CSVProvider) ClearCache() {
	p.cacheMutex.Lock()
	defer p.cacheMutex.Unlock()
	p.cache = make(map[string][]types.Bar)
}

func (p *CSVProvider) loadFromFile(path string) ([]types.Bar, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("data: failed to open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // vwap column is optional

	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("data: failed to read header of %s: %w", path, err)
	}

	var bars []types.Bar
	line := 1

	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("data: %s line %d: %w", path, line, err)
		}
		line++

		if len(record) < 6 {
			return nil, fmt.Errorf("data: %s line %d: expected at least 6 columns, got %d", path, line, len(record))
		}

		bar, err := parseBar(record)
		if err != nil {
			return nil, fmt.Errorf("data: %s line %d: %w", path, line, err)
		}
		bars = append(bars, bar)
	}

	return bars, nil
}

func parseBar(record []string) (types.Bar, error) {
	var bar types.Bar

	ts, err := parseTimestamp(record[0])
	if err != nil {
		return bar, err
	}
	bar.Timestamp = ts

	prices := []*float64{&bar.Open, &bar.High, &bar.Low, &bar.Close}
	names := []string{"open", "high", "low", "close"}
	for i, dst := range prices {
		v, err := strconv.ParseFloat(record[i+1], 64)
		if err != nil {
			return bar, fmt.Errorf("bad %s value %q", names[i], record[i+1])
		}
		*dst = v
	}

	vol, err := strconv.ParseInt(record[5], 10, 64)
	if err != nil {
		return bar, fmt.Errorf("bad volume value %q", record[5])
	}
	bar.Volume = vol

	if len(record) > 6 && record[6] != "" {
		vwap, err := strconv.ParseFloat(record[6], 64)
		if err != nil {
			return bar, fmt.Errorf("bad vwap value %q", record[6])
		}
		bar.VWAP = &vwap
	}

	return bar, nil
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range DateFormats {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("bad timestamp %q", s)
}
