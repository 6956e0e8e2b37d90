package market

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkSeries(closes ...float64) Series {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := make(Series, len(closes))
	for i, c := range closes {
		s[i] = Bar{
			Time:  start.Add(time.Duration(i) * time.Minute),
			Open:  c,
			High:  c,
			Low:   c,
			Close: c,
		}
	}
	return s
}

func TestValidateOrdering(t *testing.T) {
	s := mkSeries(100, 101, 102)
	assert.NoError(t, s.Validate())

	s[2].Time = s[1].Time // duplicate timestamp
	assert.Error(t, s.Validate())
}

func TestReturns(t *testing.T) {
	s := mkSeries(100, 110, 99)
	r := s.Returns()
	require.Len(t, r, 2)
	assert.InDelta(t, 0.10, r[0], 1e-9)
	assert.InDelta(t, -0.10, r[1], 1e-9)

	assert.Nil(t, mkSeries(100).Returns())
}

func TestReadCSV(t *testing.T) {
	in := strings.Join([]string{
		"time,open,high,low,close,volume",
		"2024-01-01T00:00:00Z,100,105,99,102,10",
		"2024-01-01T00:01:00Z,102,107,101,105,12",
	}, "\n")

	bars, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 102.0, bars[0].Close)
	assert.Equal(t, 12.0, bars[1].Volume)
}

func TestReadCSVUnixSeconds(t *testing.T) {
	in := "1704067200,100,105,99,102,10\n1704067260,102,107,101,105,12\n"

	bars, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), bars[0].Time)
}

func TestReadCSVOutOfOrder(t *testing.T) {
	in := "2024-01-01T00:01:00Z,1,1,1,1\n2024-01-01T00:00:00Z,1,1,1,1\n"
	_, err := ReadCSV(strings.NewReader(in))
	assert.Error(t, err)
}
