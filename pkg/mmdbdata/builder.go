package mmdbdata

import (
	"sort"
	"strconv"

	ipErrors "github.com/sjzar/ip2mmdb/pkg/errors"
)

// Mode selects which payload shape a Builder emits.
type Mode int

const (
	ModeCountry Mode = iota
	ModeCity
)

type cityPayload struct {
	CountryISO  string
	CountryName string
	Region      string
	City        string
	Latitude    string
	Longitude   string
	Postcode    string
}

type countryPayload struct {
	ISO  string
	Name string
}

// Builder accumulates the distinct tokens, lat/long coordinates, and
// payload records a build needs, and serializes them into the data
// section on Encode. It implements stage 3, the Data Section Encoder.
//
// Registration (AddCountry/AddCity) happens during stages 1-2 as rows are
// read; the token table, lat/long table, and payload set are frozen the
// moment Encode is called.
type Builder struct {
	mode Mode

	tokens   map[string]struct{}
	latlongs map[string]struct{}

	countries map[string]countryPayload // payload-key -> record
	cities    map[string]cityPayload    // payload-key -> record
}

// NewBuilder creates an empty Builder for the given mode, pre-seeding the
// field-name tokens every payload of that mode references.
func NewBuilder(mode Mode) *Builder {
	b := &Builder{
		mode:      mode,
		tokens:    map[string]struct{}{},
		latlongs:  map[string]struct{}{},
		countries: map[string]countryPayload{},
		cities:    map[string]cityPayload{},
	}
	b.tokens["country"] = struct{}{}
	b.tokens["iso_code"] = struct{}{}
	b.tokens["names"] = struct{}{}
	b.tokens["en"] = struct{}{}
	if mode == ModeCity {
		for _, t := range []string{"city", "location", "postal", "latitude", "longitude", "code", "subdivisions"} {
			b.tokens[t] = struct{}{}
		}
	}
	return b
}

// AddCountry registers a country-mode payload under payloadKey (the ISO
// country code). Re-registering the same payloadKey overwrites the
// previous record, matching the "later write wins" rule for colliding
// input rows.
func (b *Builder) AddCountry(payloadKey, iso, name string) {
	b.tokens[iso] = struct{}{}
	b.tokens[name] = struct{}{}
	b.countries[payloadKey] = countryPayload{ISO: iso, Name: name}
}

// AddCity registers a city-mode payload under payloadKey
// (iso|region|city|lat|lon|postcode). Two rows sharing a payloadKey
// collapse to a single emitted record.
func (b *Builder) AddCity(payloadKey, iso, name, region, city, lat, lon, postcode string) {
	b.tokens[iso] = struct{}{}
	b.tokens[name] = struct{}{}
	b.tokens[region] = struct{}{}
	b.tokens[city] = struct{}{}
	b.tokens[postcode] = struct{}{}
	b.latlongs[lat] = struct{}{}
	b.latlongs[lon] = struct{}{}
	b.cities[payloadKey] = cityPayload{
		CountryISO:  iso,
		CountryName: name,
		Region:      region,
		City:        city,
		Latitude:    lat,
		Longitude:   lon,
		Postcode:    postcode,
	}
}

// Result is the frozen output of stage 3: the serialized data section plus
// the offset tables stage 4 needs to resolve leaves to data pointers.
type Result struct {
	Data []byte
	// PayloadOffsets maps each payload-key to the byte offset, within
	// Data, of its top-level record.
	PayloadOffsets map[string]int
}

// Encode serializes the token table, lat/long table, and payload records
// in the deterministic order the format requires: tokens ascending
// lexicographic, then lat/longs ascending lexicographic, then payload
// records ascending payload-key order. Every payload field value is
// written as a pointer into the token or lat/long table, so the result is
// fully deduplicated with no backtracking.
func (b *Builder) Encode() (*Result, error) {
	var data []byte
	tokenOffsets := make(map[string]int, len(b.tokens))
	latlongOffsets := make(map[string]int, len(b.latlongs))

	for _, tok := range sortedKeys(b.tokens) {
		tokenOffsets[tok] = len(data)
		var err error
		data, err = AppendString(data, tok)
		if err != nil {
			return nil, ipErrors.Stage("data-encode", err)
		}
	}

	for _, ll := range sortedKeys(b.latlongs) {
		f, err := strconv.ParseFloat(ll, 64)
		if err != nil {
			return nil, ipErrors.Stage("data-encode", ipErrors.ErrMalformedRow)
		}
		latlongOffsets[ll] = len(data)
		data = AppendDouble(data, f)
	}

	payloadOffsets := make(map[string]int)

	ptr := func(buf []byte, offset int) ([]byte, error) {
		return AppendPointer(buf, uint64(offset))
	}

	if b.mode == ModeCountry {
		for _, key := range sortedCountryKeys(b.countries) {
			rec := b.countries[key]
			payloadOffsets[key] = len(data)

			var err error
			data, err = AppendMapHeader(data, 1)
			if err != nil {
				return nil, ipErrors.Stage("data-encode", err)
			}
			data, err = ptr(data, tokenOffsets["country"])
			if err != nil {
				return nil, ipErrors.Stage("data-encode", err)
			}
			data, err = AppendMapHeader(data, 2)
			if err != nil {
				return nil, ipErrors.Stage("data-encode", err)
			}
			data, err = ptr(data, tokenOffsets["iso_code"])
			if err != nil {
				return nil, ipErrors.Stage("data-encode", err)
			}
			data, err = ptr(data, tokenOffsets[rec.ISO])
			if err != nil {
				return nil, ipErrors.Stage("data-encode", err)
			}
			data, err = ptr(data, tokenOffsets["names"])
			if err != nil {
				return nil, ipErrors.Stage("data-encode", err)
			}
			data, err = AppendMapHeader(data, 1)
			if err != nil {
				return nil, ipErrors.Stage("data-encode", err)
			}
			data, err = ptr(data, tokenOffsets["en"])
			if err != nil {
				return nil, ipErrors.Stage("data-encode", err)
			}
			data, err = ptr(data, tokenOffsets[rec.Name])
			if err != nil {
				return nil, ipErrors.Stage("data-encode", err)
			}
		}
	} else {
		for _, key := range sortedCityKeys(b.cities) {
			rec := b.cities[key]
			payloadOffsets[key] = len(data)

			var err error
			data, err = AppendMapHeader(data, 5)
			if err != nil {
				return nil, ipErrors.Stage("data-encode", err)
			}

			// city: { names: { en: <city> } }
			if data, err = ptr(data, tokenOffsets["city"]); err != nil {
				return nil, ipErrors.Stage("data-encode", err)
			}
			if data, err = AppendMapHeader(data, 1); err != nil {
				return nil, ipErrors.Stage("data-encode", err)
			}
			if data, err = ptr(data, tokenOffsets["names"]); err != nil {
				return nil, ipErrors.Stage("data-encode", err)
			}
			if data, err = AppendMapHeader(data, 1); err != nil {
				return nil, ipErrors.Stage("data-encode", err)
			}
			if data, err = ptr(data, tokenOffsets["en"]); err != nil {
				return nil, ipErrors.Stage("data-encode", err)
			}
			if data, err = ptr(data, tokenOffsets[rec.City]); err != nil {
				return nil, ipErrors.Stage("data-encode", err)
			}

			// country: { iso_code: <ISO>, names: { en: <country_name> } }
			if data, err = ptr(data, tokenOffsets["country"]); err != nil {
				return nil, ipErrors.Stage("data-encode", err)
			}
			if data, err = AppendMapHeader(data, 2); err != nil {
				return nil, ipErrors.Stage("data-encode", err)
			}
			if data, err = ptr(data, tokenOffsets["iso_code"]); err != nil {
				return nil, ipErrors.Stage("data-encode", err)
			}
			if data, err = ptr(data, tokenOffsets[rec.CountryISO]); err != nil {
				return nil, ipErrors.Stage("data-encode", err)
			}
			if data, err = ptr(data, tokenOffsets["names"]); err != nil {
				return nil, ipErrors.Stage("data-encode", err)
			}
			if data, err = AppendMapHeader(data, 1); err != nil {
				return nil, ipErrors.Stage("data-encode", err)
			}
			if data, err = ptr(data, tokenOffsets["en"]); err != nil {
				return nil, ipErrors.Stage("data-encode", err)
			}
			if data, err = ptr(data, tokenOffsets[rec.CountryName]); err != nil {
				return nil, ipErrors.Stage("data-encode", err)
			}

			// location: { latitude: <double>, longitude: <double> }
			if data, err = ptr(data, tokenOffsets["location"]); err != nil {
				return nil, ipErrors.Stage("data-encode", err)
			}
			if data, err = AppendMapHeader(data, 2); err != nil {
				return nil, ipErrors.Stage("data-encode", err)
			}
			if data, err = ptr(data, tokenOffsets["latitude"]); err != nil {
				return nil, ipErrors.Stage("data-encode", err)
			}
			if data, err = ptr(data, latlongOffsets[rec.Latitude]); err != nil {
				return nil, ipErrors.Stage("data-encode", err)
			}
			if data, err = ptr(data, tokenOffsets["longitude"]); err != nil {
				return nil, ipErrors.Stage("data-encode", err)
			}
			if data, err = ptr(data, latlongOffsets[rec.Longitude]); err != nil {
				return nil, ipErrors.Stage("data-encode", err)
			}

			// postal: { code: <postcode> }
			if data, err = ptr(data, tokenOffsets["postal"]); err != nil {
				return nil, ipErrors.Stage("data-encode", err)
			}
			if data, err = AppendMapHeader(data, 1); err != nil {
				return nil, ipErrors.Stage("data-encode", err)
			}
			if data, err = ptr(data, tokenOffsets["code"]); err != nil {
				return nil, ipErrors.Stage("data-encode", err)
			}
			if data, err = ptr(data, tokenOffsets[rec.Postcode]); err != nil {
				return nil, ipErrors.Stage("data-encode", err)
			}

			// subdivisions: [ { names: { en: <region> } } ]
			if data, err = ptr(data, tokenOffsets["subdivisions"]); err != nil {
				return nil, ipErrors.Stage("data-encode", err)
			}
			if data, err = AppendArrayHeader(data, 1); err != nil {
				return nil, ipErrors.Stage("data-encode", err)
			}
			if data, err = AppendMapHeader(data, 1); err != nil {
				return nil, ipErrors.Stage("data-encode", err)
			}
			if data, err = ptr(data, tokenOffsets["names"]); err != nil {
				return nil, ipErrors.Stage("data-encode", err)
			}
			if data, err = AppendMapHeader(data, 1); err != nil {
				return nil, ipErrors.Stage("data-encode", err)
			}
			if data, err = ptr(data, tokenOffsets["en"]); err != nil {
				return nil, ipErrors.Stage("data-encode", err)
			}
			if data, err = ptr(data, tokenOffsets[rec.Region]); err != nil {
				return nil, ipErrors.Stage("data-encode", err)
			}
		}
	}

	return &Result{Data: data, PayloadOffsets: payloadOffsets}, nil
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedCountryKeys(m map[string]countryPayload) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedCityKeys(m map[string]cityPayload) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
