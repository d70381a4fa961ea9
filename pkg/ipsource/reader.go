package ipsource

import (
	"encoding/csv"
	"io"

	ipErrors "github.com/sjzar/ip2mmdb/pkg/errors"
)

// Entry pairs one decoded input row with its schema mode and the CIDRs its
// IP range expands to.
type Entry struct {
	Row   *Row
	Mode  Mode
	CIDRs []CIDR
}

// Reader streams an IP2Location-style CSV, one row at a time, expanding
// each row's IP range into CIDRs as it goes. It has no header and its mode
// is fixed by the first row's column count; a later row with a different
// column count is a malformed row, not a mode change.
type Reader struct {
	csv  *csv.Reader
	mode Mode
	set  bool
}

// NewReader wraps r as a no-header, variable-field-count CSV source.
func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	return &Reader{csv: cr}
}

// Mode reports the schema mode once it has been observed from the first
// row. Calling it before the first successful Next is meaningless (it
// returns ModeCountry, the zero value).
func (r *Reader) Mode() Mode {
	return r.mode
}

// Next decodes and range-expands the next CSV row. It returns io.EOF when
// the input is exhausted.
func (r *Reader) Next() (*Entry, error) {
	fields, err := r.csv.Read()
	if err != nil {
		return nil, err
	}

	row, mode, err := ParseRow(fields)
	if err != nil {
		return nil, err
	}

	if !r.set {
		r.mode = mode
		r.set = true
	} else if mode != r.mode {
		return nil, ipErrors.ErrMalformedRow
	}

	cidrs, err := ExpandRange(row.StartIP, row.EndIP)
	if err != nil {
		return nil, err
	}

	return &Entry{Row: row, Mode: mode, CIDRs: cidrs}, nil
}
