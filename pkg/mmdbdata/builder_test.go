package mmdbdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeCountryDeduplicatesTokens(t *testing.T) {
	b := NewBuilder(ModeCountry)
	b.AddCountry("US", "US", "United States")
	b.AddCountry("US", "US", "United States")
	b.AddCountry("CN", "CN", "China")

	result, err := b.Encode()
	require.NoError(t, err)

	assert.Len(t, result.PayloadOffsets, 2)
	assert.Contains(t, result.PayloadOffsets, "US")
	assert.Contains(t, result.PayloadOffsets, "CN")

	// Every payload offset must land on a valid control byte for a
	// 1-entry map.
	for _, off := range result.PayloadOffsets {
		require.Less(t, off, len(result.Data))
		assert.Equal(t, byte(typeMap<<5)|1, result.Data[off])
	}
}

func TestEncodeCityCollapsesRowsSharingPayloadKey(t *testing.T) {
	b := NewBuilder(ModeCity)
	b.AddCity("GB|England|London|51.5|-0.1|EC1", "GB", "United Kingdom", "England", "London", "51.5", "-0.1", "EC1")
	b.AddCity("GB|England|London|51.5|-0.1|EC1", "GB", "United Kingdom", "England", "London", "51.5", "-0.1", "EC1")

	result, err := b.Encode()
	require.NoError(t, err)
	assert.Len(t, result.PayloadOffsets, 1)

	off := result.PayloadOffsets["GB|England|London|51.5|-0.1|EC1"]
	assert.Equal(t, byte(typeMap<<5)|5, result.Data[off])
}

func TestEncodeOrdersTokensLexicographically(t *testing.T) {
	b := NewBuilder(ModeCountry)
	b.AddCountry("ZZ", "ZZ", "Zedland")
	b.AddCountry("AA", "AA", "Aland")

	result, err := b.Encode()
	require.NoError(t, err)
	require.NotEmpty(t, result.Data)

	// "AA" sorts before "Aland", "ZZ", "Zedland" and every fixed
	// field-name token ("country", "en", "iso_code", "names")
	// lexicographically, so it must be the very first record emitted.
	assert.Equal(t, byte(typeString<<5)|2, result.Data[0])
	assert.Equal(t, "AA", string(result.Data[1:3]))
}

func TestEncodeRejectsUnparsableCoordinate(t *testing.T) {
	b := NewBuilder(ModeCity)
	b.AddCity("k", "GB", "United Kingdom", "England", "London", "not-a-number", "-0.1", "EC1")
	_, err := b.Encode()
	assert.Error(t, err)
}
