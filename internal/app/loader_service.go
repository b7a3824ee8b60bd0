package app

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/example/portstats/internal/core/trade"
	"github.com/example/portstats/internal/db"
	"github.com/example/portstats/internal/ports/primary"
	"github.com/example/portstats/internal/ports/secondary"
)

// LoaderServiceImpl implements the LoaderService interface.
type LoaderServiceImpl struct {
	writer secondary.PortActivityWriter
	logger zerolog.Logger
}

// NewLoaderService creates a new LoaderService with injected dependencies.
func NewLoaderService(writer secondary.PortActivityWriter, logger zerolog.Logger) *LoaderServiceImpl {
	return &LoaderServiceImpl{
		writer: writer,
		logger: logger,
	}
}

// LoadCSV reads every row of req.Source and replaces the store contents with them.
// Header names are matched case-insensitively and extra columns are ignored.
func (s *LoaderServiceImpl) LoadCSV(ctx context.Context, req primary.LoadRequest) (*primary.LoadResponse, error) {
	name := req.Name
	if name == "" {
		name = "input"
	}

	r := csv.NewReader(req.Source)
	r.ReuseRecord = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: empty file", name)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read header: %w", name, err)
	}

	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var records []*secondary.PortActivityRecord
	years := map[int]bool{}
	countries := map[string]bool{}

	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		line, _ := r.FieldPos(0)

		rec, err := parseRecord(row, idx)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", name, line, err)
		}

		records = append(records, rec)
		years[rec.Year] = true
		countries[rec.Country] = true
	}

	if err := s.writer.ReplaceAll(ctx, records); err != nil {
		return nil, trade.StoreUnavailable("load", name, err)
	}

	s.logger.Info().
		Str("source", name).
		Int("rows", len(records)).
		Int("years", len(years)).
		Int("countries", len(countries)).
		Msg("loaded port activity")

	return &primary.LoadResponse{
		Rows:      len(records),
		Years:     len(years),
		Countries: len(countries),
	}, nil
}

// columnIndex maps each required column to its position in header.
func columnIndex(header []string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := positions[key]; !dup {
			positions[key] = i
		}
	}

	idx := make(map[string]int, len(db.RequiredColumns))
	var missing []string
	for _, col := range db.RequiredColumns {
		pos, ok := positions[strings.ToLower(col)]
		if !ok {
			missing = append(missing, col)
			continue
		}
		idx[col] = pos
	}
	if len(missing) > 0 {
		return nil, trade.SchemaMismatch("load", missing)
	}

	return idx, nil
}

func parseRecord(row []string, idx map[string]int) (*secondary.PortActivityRecord, error) {
	field := func(col string) string {
		return strings.TrimSpace(row[idx[col]])
	}

	year, err := parseWhole(field("year"))
	if err != nil {
		return nil, fmt.Errorf("year: %w", err)
	}
	month, err := parseWhole(field("month"))
	if err != nil {
		return nil, fmt.Errorf("month: %w", err)
	}
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month %d out of range 1-12", month)
	}
	portcalls, err := parseWhole(field("portcalls"))
	if err != nil {
		return nil, fmt.Errorf("portcalls: %w", err)
	}
	if portcalls < 0 {
		return nil, fmt.Errorf("portcalls %d is negative", portcalls)
	}
	imp, err := parseVolume(field("import"))
	if err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}
	exp, err := parseVolume(field("export"))
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	country := field("country")
	if country == "" {
		return nil, errors.New("country is empty")
	}

	return &secondary.PortActivityRecord{
		Year:      int(year),
		Month:     int(month),
		Country:   country,
		ISO3:      field("ISO3"),
		PortCalls: portcalls,
		Import:    imp,
		Export:    exp,
	}, nil
}

// parseWhole accepts integers and integral floats such as "12.0".
func parseWhole(s string) (int64, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not a whole number", s)
	}
	return int64(f), nil
}

// parseVolume parses a non-negative volume; an empty cell counts as zero.
func parseVolume(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if f < 0 {
		return 0, fmt.Errorf("%g is negative", f)
	}
	return f, nil
}

// Ensure LoaderServiceImpl implements the interface.
var _ primary.LoaderService = (*LoaderServiceImpl)(nil)
