// Package ingestion loads daily bar histories from CSV files and
// registers them in storage.
package ingestion

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"walkforward-lab/internal/domain"
)

// csv column layout: date,open,high,low,close,volume
const (
	colDate = iota
	colOpen
	colHigh
	colLow
	colClose
	colVolume
	colCount
)

// dateLayout is the expected date format of the date column.
const dateLayout = "2006-01-02"

// ParseCSV reads daily bars from r. The first row must be the header
// "date,open,high,low,close,volume". Rows may arrive in any order; the
// result is sorted by date ASC. Malformed rows fail the whole parse
// with ErrDataIntegrity so a bad file never yields a partial series.
func ParseCSV(r io.Reader) ([]domain.PriceBar, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read csv header: %v", domain.ErrDataIntegrity, err)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	var bars []domain.PriceBar
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", domain.ErrDataIntegrity, line, err)
		}

		bar, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", domain.ErrDataIntegrity, line, err)
		}
		bars = append(bars, bar)
	}

	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Date < bars[j].Date
	})

	return bars, nil
}

func checkHeader(header []string) error {
	want := []string{"date", "open", "high", "low", "close", "volume"}
	if len(header) != len(want) {
		return fmt.Errorf("%w: csv header has %d columns, want %d", domain.ErrDataIntegrity, len(header), len(want))
	}
	for i, name := range want {
		if strings.ToLower(strings.TrimSpace(header[i])) != name {
			return fmt.Errorf("%w: csv header column %d is %q, want %q", domain.ErrDataIntegrity, i, header[i], name)
		}
	}
	return nil
}

func parseRecord(record []string) (domain.PriceBar, error) {
	if len(record) != colCount {
		return domain.PriceBar{}, fmt.Errorf("row has %d columns, want %d", len(record), colCount)
	}

	date, err := time.ParseInLocation(dateLayout, strings.TrimSpace(record[colDate]), time.UTC)
	if err != nil {
		return domain.PriceBar{}, fmt.Errorf("parse date %q: %v", record[colDate], err)
	}

	fields := make([]float64, colCount)
	for i := colOpen; i < colCount; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(record[i]), 64)
		if err != nil {
			return domain.PriceBar{}, fmt.Errorf("parse column %d %q: %v", i, record[i], err)
		}
		fields[i] = v
	}

	return domain.PriceBar{
		Date:   date.UnixMilli(),
		Open:   fields[colOpen],
		High:   fields[colHigh],
		Low:    fields[colLow],
		Close:  fields[colClose],
		Volume: fields[colVolume],
	}, nil
}
