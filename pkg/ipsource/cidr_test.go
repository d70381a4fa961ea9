package ipsource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ipErrors "github.com/sjzar/ip2mmdb/pkg/errors"
)

func TestExpandRangeSingleHost(t *testing.T) {
	cidrs, err := ExpandRange(16777216, 16777216)
	require.NoError(t, err)
	require.Len(t, cidrs, 1)
	assert.Equal(t, 32, cidrs[0].PrefixLen)
	assert.Equal(t, uint32(16777216), cidrs[0].Network)
}

func TestExpandRangeFullSpan(t *testing.T) {
	cidrs, err := ExpandRange(0, 4294967295)
	require.NoError(t, err)
	require.Len(t, cidrs, 1)
	assert.Equal(t, 0, cidrs[0].PrefixLen)
}

func TestExpandRangeHalves(t *testing.T) {
	cidrs, err := ExpandRange(0, 2147483647)
	require.NoError(t, err)
	require.Len(t, cidrs, 1)
	assert.Equal(t, 1, cidrs[0].PrefixLen)
	assert.Equal(t, uint32(0), cidrs[0].Network)

	cidrs, err = ExpandRange(2147483648, 4294967295)
	require.NoError(t, err)
	require.Len(t, cidrs, 1)
	assert.Equal(t, 1, cidrs[0].PrefixLen)
	assert.Equal(t, uint32(2147483648), cidrs[0].Network)
}

func TestExpandRangeCoversEveryAddress(t *testing.T) {
	start, end := uint32(16909056), uint32(16909060) // 1.2.3.0 .. 1.2.3.4
	cidrs, err := ExpandRange(start, end)
	require.NoError(t, err)

	seen := map[uint32]bool{}
	for _, c := range cidrs {
		size := uint64(1) << uint(32-c.PrefixLen)
		for i := uint64(0); i < size; i++ {
			seen[c.Network+uint32(i)] = true
		}
	}
	for ip := start; ip <= end; ip++ {
		assert.True(t, seen[ip], "address %d not covered", ip)
	}
	assert.Len(t, seen, int(end-start+1))
}

func TestExpandRangeEndsAtBroadcast(t *testing.T) {
	cidrs, err := ExpandRange(4294967294, 4294967295)
	require.NoError(t, err)
	require.NotEmpty(t, cidrs)
	last := cidrs[len(cidrs)-1]
	size := uint64(1) << uint(32-last.PrefixLen)
	assert.Equal(t, uint64(4294967295), uint64(last.Network)+size-1)
}

func TestExpandRangeRejectsInverted(t *testing.T) {
	_, err := ExpandRange(10, 5)
	assert.ErrorIs(t, err, ipErrors.ErrInvalidIPRange)
}

func TestCIDRBits(t *testing.T) {
	c := CIDR{Network: 0x01020300, PrefixLen: 24}
	bits := c.Bits()
	assert.Len(t, bits, 24)
	assert.Equal(t, "000000010000001000000011", bits)
}

func TestCIDRBitsZeroLength(t *testing.T) {
	c := CIDR{Network: 0, PrefixLen: 0}
	assert.Equal(t, "", c.Bits())
}
