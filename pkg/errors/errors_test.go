package errors

import (
	"testing"

	stderrors "errors"

	"github.com/stretchr/testify/assert"
)

func TestStageWrapsWithStageName(t *testing.T) {
	err := Stage("data-encode", ErrStringTooLong)
	assert.ErrorIs(t, err, ErrStringTooLong)
	assert.Contains(t, err.Error(), "data-encode")
	assert.Contains(t, err.Error(), ErrStringTooLong.Error())
}

func TestStageNilIsNil(t *testing.T) {
	assert.NoError(t, Stage("anything", nil))
}

func TestSentinelsAreDistinct(t *testing.T) {
	all := []error{
		ErrInputNotFound, ErrInputNotCSV, ErrMalformedRow, ErrInvalidIPRange,
		ErrPointerOverflow, ErrRecordOverflow, ErrStringTooLong,
		ErrOutputWrite,
	}
	for i := range all {
		for j := range all {
			if i == j {
				continue
			}
			assert.False(t, stderrors.Is(all[i], all[j]), "sentinels %d and %d should be distinct", i, j)
		}
	}
}
