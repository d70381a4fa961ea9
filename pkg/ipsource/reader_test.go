package ipsource

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ipErrors "github.com/sjzar/ip2mmdb/pkg/errors"
)

func TestReaderStreamsCountryRows(t *testing.T) {
	csv := "16777216,16777471,US,United States\n16777472,16777727,CN,China\n"
	r := NewReader(strings.NewReader(csv))

	e1, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, ModeCountry, e1.Mode)
	assert.Equal(t, "US", e1.Row.CountryISO)
	assert.NotEmpty(t, e1.CIDRs)

	e2, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "CN", e2.Row.CountryISO)

	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)

	assert.Equal(t, ModeCountry, r.Mode())
}

func TestReaderRejectsModeSwitch(t *testing.T) {
	csv := "16777216,16777471,US,United States\n" +
		"16777472,16777727,CN,China,Beijing,Beijing,39.9,116.4,100000,-\n"
	r := NewReader(strings.NewReader(csv))

	_, err := r.Next()
	require.NoError(t, err)

	_, err = r.Next()
	assert.ErrorIs(t, err, ipErrors.ErrMalformedRow)
}

func TestReaderExpandsCityRow(t *testing.T) {
	csv := "2012838144,2012838399,GB,United Kingdom,England,London,51.5,-0.1,EC1,-\n"
	r := NewReader(strings.NewReader(csv))

	e, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, ModeCity, e.Mode)
	assert.NotEmpty(t, e.CIDRs)
}
