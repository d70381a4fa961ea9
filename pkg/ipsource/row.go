// Package ipsource turns IP2Location-style CSV rows into decoded rows and
// expands their IP ranges into minimal CIDR sets. This is the Range
// Expander stage of the build pipeline.
package ipsource

import (
	"strconv"
	"strings"

	ipErrors "github.com/sjzar/ip2mmdb/pkg/errors"
)

// Mode selects which CSV schema a build is working from. It is decided once,
// from the column count of the first row, and held fixed for the rest of
// the build.
type Mode int

const (
	// ModeCountry is the four-column schema: start_ip, end_ip, country_iso,
	// country_name.
	ModeCountry Mode = iota
	// ModeCity is the ten-column schema: start_ip, end_ip, country_iso,
	// country_name, region, city, latitude, longitude, postcode, and one
	// trailing unused column.
	ModeCity
)

func (m Mode) String() string {
	switch m {
	case ModeCity:
		return "city"
	default:
		return "country"
	}
}

// DatabaseType is the metadata "database_type" value for the mode.
func (m Mode) DatabaseType() string {
	switch m {
	case ModeCity:
		return "IP2LITE-City"
	default:
		return "IP2LITE-Country"
	}
}

// RecordSize is the search tree record width, in bits, for the mode.
func (m Mode) RecordSize() int {
	switch m {
	case ModeCity:
		return 28
	default:
		return 24
	}
}

// Row is one decoded CSV row: an IPv4 range plus its geographic payload.
// Region, City, Latitude, Longitude and Postcode are only populated in
// ModeCity.
type Row struct {
	StartIP uint32
	EndIP   uint32

	CountryISO  string
	CountryName string

	Region    string
	City      string
	Latitude  string
	Longitude string
	Postcode  string
}

// ParseRow decodes one CSV record into a Row, inferring the mode from the
// column count. fields must have length 4 (country) or 10 (city); any
// other length is a malformed row.
func ParseRow(fields []string) (*Row, Mode, error) {
	switch len(fields) {
	case 4:
		row, err := parseCountryRow(fields)
		return row, ModeCountry, err
	case 10:
		row, err := parseCityRow(fields)
		return row, ModeCity, err
	default:
		return nil, ModeCountry, ipErrors.ErrMalformedRow
	}
}

func parseCountryRow(fields []string) (*Row, error) {
	start, end, err := parseIPRange(fields[0], fields[1])
	if err != nil {
		return nil, err
	}
	return &Row{
		StartIP:     start,
		EndIP:       end,
		CountryISO:  fields[2],
		CountryName: fields[3],
	}, nil
}

func parseCityRow(fields []string) (*Row, error) {
	start, end, err := parseIPRange(fields[0], fields[1])
	if err != nil {
		return nil, err
	}
	return &Row{
		StartIP:     start,
		EndIP:       end,
		CountryISO:  fields[2],
		CountryName: fields[3],
		Region:      fields[4],
		City:        fields[5],
		Latitude:    fields[6],
		Longitude:   fields[7],
		Postcode:    fields[8],
		// fields[9] is the schema's trailing unused column.
	}, nil
}

func parseIPRange(startField, endField string) (uint32, uint32, error) {
	start, err := strconv.ParseUint(strings.TrimSpace(startField), 10, 32)
	if err != nil {
		return 0, 0, ipErrors.ErrMalformedRow
	}
	end, err := strconv.ParseUint(strings.TrimSpace(endField), 10, 32)
	if err != nil {
		return 0, 0, ipErrors.ErrMalformedRow
	}
	if start > end {
		return 0, 0, ipErrors.ErrInvalidIPRange
	}
	return uint32(start), uint32(end), nil
}

// PayloadKey is the stable string identifying which encoded data record a
// row's CIDRs point at: the ISO country code in country mode, or the
// pipe-joined tuple country|region|city|lat|lon|postcode in city mode.
func (r *Row) PayloadKey(mode Mode) string {
	if mode == ModeCity {
		return strings.Join([]string{
			r.CountryISO, r.Region, r.City, r.Latitude, r.Longitude, r.Postcode,
		}, "|")
	}
	return r.CountryISO
}
