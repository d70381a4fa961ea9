package ipsource

import (
	"math/bits"

	ipErrors "github.com/sjzar/ip2mmdb/pkg/errors"
)

// CIDR is an IPv4 prefix: the network address and the prefix length in
// 0..32 bits.
type CIDR struct {
	Network   uint32
	PrefixLen int
}

// Bits returns the CIDR's prefix as a bit string, most-significant bit
// first, of length PrefixLen. This is the key used to descend the prefix
// radix tree.
func (c CIDR) Bits() string {
	buf := make([]byte, c.PrefixLen)
	for i := 0; i < c.PrefixLen; i++ {
		shift := 31 - i
		if (c.Network>>uint(shift))&1 == 1 {
			buf[i] = '1'
		} else {
			buf[i] = '0'
		}
	}
	return string(buf)
}

// ExpandRange returns the minimal, lexicographically sorted (by network
// address, which for a gap-free cover is the same as emission order) set
// of CIDRs covering exactly [start, end], with no overlap and no gap. It
// is the standard greedy range-to-CIDR algorithm: at each step, emit the
// largest block whose network address equals the cursor and whose
// broadcast address does not exceed end, then advance.
func ExpandRange(start, end uint32) ([]CIDR, error) {
	if start > end {
		return nil, ipErrors.ErrInvalidIPRange
	}

	var out []CIDR
	cursor := uint64(start)
	last := uint64(end)

	for cursor <= last {
		align := 32
		if cursor != 0 {
			if tz := bits.TrailingZeros64(cursor); tz < 32 {
				align = tz
			}
		}
		prefixLen := 32 - align
		for prefixLen < 32 {
			blockSize := uint64(1) << uint(32-prefixLen)
			if blockSize <= last-cursor+1 {
				break
			}
			prefixLen++
		}

		out = append(out, CIDR{Network: uint32(cursor), PrefixLen: prefixLen})

		blockSize := uint64(1) << uint(32-prefixLen)
		cursor += blockSize
	}

	return out, nil
}
