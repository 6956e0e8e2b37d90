package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ulikunitz/xz"
)

// LoadCSV reads bars from a CSV file with columns
// time,open,high,low,close,volume. Timestamps are RFC3339 or unix seconds.
// Files ending in .xz are decompressed transparently.
func LoadCSV(path string) (Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var src io.Reader = f
	if strings.HasSuffix(path, ".xz") {
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("xz reader for %s: %w", path, err)
		}
		src = xr
	}

	return ReadCSV(src)
}

// ReadCSV parses bars from r. A header row starting with "time" is skipped.
func ReadCSV(r io.Reader) (Series, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var bars Series
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		if line == 1 && len(rec) > 0 && strings.EqualFold(strings.TrimSpace(rec[0]), "time") {
			continue
		}
		if len(rec) < 5 {
			return nil, fmt.Errorf("line %d: want at least 5 fields, got %d", line, len(rec))
		}

		ts, err := parseTime(rec[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		vals := make([]float64, 4)
		for i := 0; i < 4; i++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[i+1]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d field %d: %w", line, i+1, err)
			}
			vals[i] = v
		}

		vol := 0.0
		if len(rec) > 5 && strings.TrimSpace(rec[5]) != "" {
			vol, err = strconv.ParseFloat(strings.TrimSpace(rec[5]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d volume: %w", line, err)
			}
		}

		bars = append(bars, Bar{
			Time:   ts,
			Open:   vals[0],
			High:   vals[1],
			Low:    vals[2],
			Close:  vals[3],
			Volume: vol,
		})
	}

	if err := bars.Validate(); err != nil {
		return nil, err
	}
	return bars, nil
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}
