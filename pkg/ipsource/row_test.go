package ipsource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ipErrors "github.com/sjzar/ip2mmdb/pkg/errors"
)

func TestParseRowCountry(t *testing.T) {
	row, mode, err := ParseRow([]string{"16777216", "16777471", "US", "United States"})
	require.NoError(t, err)
	assert.Equal(t, ModeCountry, mode)
	assert.Equal(t, uint32(16777216), row.StartIP)
	assert.Equal(t, uint32(16777471), row.EndIP)
	assert.Equal(t, "US", row.CountryISO)
	assert.Equal(t, "United States", row.CountryName)
	assert.Equal(t, "US", row.PayloadKey(ModeCountry))
}

func TestParseRowCity(t *testing.T) {
	fields := []string{
		"2012838144", "2012838399", "GB", "United Kingdom",
		"England", "London", "51.5", "-0.1", "EC1", "-",
	}
	row, mode, err := ParseRow(fields)
	require.NoError(t, err)
	assert.Equal(t, ModeCity, mode)
	assert.Equal(t, "England", row.Region)
	assert.Equal(t, "London", row.City)
	assert.Equal(t, "51.5", row.Latitude)
	assert.Equal(t, "-0.1", row.Longitude)
	assert.Equal(t, "EC1", row.Postcode)
	assert.Equal(t, "GB|England|London|51.5|-0.1|EC1", row.PayloadKey(ModeCity))
}

func TestParseRowMalformedColumnCount(t *testing.T) {
	_, _, err := ParseRow([]string{"1", "2", "3"})
	assert.ErrorIs(t, err, ipErrors.ErrMalformedRow)
}

func TestParseRowNonNumericIP(t *testing.T) {
	_, _, err := ParseRow([]string{"abc", "2", "US", "United States"})
	assert.ErrorIs(t, err, ipErrors.ErrMalformedRow)
}

func TestParseRowStartAfterEnd(t *testing.T) {
	_, _, err := ParseRow([]string{"10", "5", "US", "United States"})
	assert.ErrorIs(t, err, ipErrors.ErrInvalidIPRange)
}

func TestModeMetadata(t *testing.T) {
	assert.Equal(t, "country", ModeCountry.String())
	assert.Equal(t, "city", ModeCity.String())
	assert.Equal(t, "IP2LITE-Country", ModeCountry.DatabaseType())
	assert.Equal(t, "IP2LITE-City", ModeCity.DatabaseType())
	assert.Equal(t, 24, ModeCountry.RecordSize())
	assert.Equal(t, 28, ModeCity.RecordSize())
}
