package png

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPaethPredictor(t *testing.T) {
	// Direct formula checks, spelled out so the tie-break order
	// (a, then b, then c) is visible in the test.
	require.Equal(t, uint8(0), paeth(0, 0, 0))
	require.Equal(t, uint8(10), paeth(0, 10, 0))
	require.Equal(t, uint8(5), paeth(5, 5, 5))
	// a is closest to p=a+b-c when b==c.
	require.Equal(t, uint8(7), paeth(7, 3, 3))
	// b is closest to p when a==c.
	require.Equal(t, uint8(9), paeth(3, 9, 3))
}

func TestChooseFilterTieBreak(t *testing.T) {
	// Construct rows where every filter scores identically (all zero
	// bytes): the tie must resolve to FilterNone, the earliest id.
	var cr [nFilter][]byte
	for i := range cr {
		cr[i] = make([]byte, 5)
		cr[i][0] = byte(i)
	}
	require.Equal(t, FilterNone, chooseFilter(&cr))
}

func TestChooseFilterPicksMinimum(t *testing.T) {
	var cr [nFilter][]byte
	for i := range cr {
		cr[i] = make([]byte, 4)
		cr[i][0] = byte(i)
	}
	// Make FilterUp strictly best by giving it all-zero data while every
	// other filter carries nonzero bytes.
	cr[FilterNone][1] = 100
	cr[FilterSub][1] = 50
	cr[FilterUp][1] = 0
	cr[FilterAverage][1] = 10
	cr[FilterPaeth][1] = 20
	require.Equal(t, FilterUp, chooseFilter(&cr))
}

func TestReconstructRowInvertsFilters(t *testing.T) {
	raw := []byte{10, 200, 3, 250, 128}
	bpp := 2

	for ft := FilterNone; ft <= FilterPaeth; ft++ {
		prev := []byte{9, 8, 7, 6, 5}
		filtered := applyOneFilter(t, ft, raw, prev, bpp)

		cur := append([]byte(nil), filtered...)
		err := reconstructRow(ft, cur, prev, bpp)
		require.NoError(t, err)
		require.Equal(t, raw, cur, "filter %d did not round-trip", ft)
	}
}

// applyOneFilter independently filters raw under ft for the test above,
// without going through the five-way chooseFilter machinery.
func applyOneFilter(t *testing.T, ft FilterType, raw, prev []byte, bpp int) []byte {
	t.Helper()
	out := make([]byte, len(raw))
	for i := range raw {
		var a, b, c uint8
		b = prev[i]
		if i >= bpp {
			a = raw[i-bpp]
			c = prev[i-bpp]
		}
		switch ft {
		case FilterNone:
			out[i] = raw[i]
		case FilterSub:
			out[i] = raw[i] - a
		case FilterUp:
			out[i] = raw[i] - b
		case FilterAverage:
			out[i] = raw[i] - uint8((int(a)+int(b))/2)
		case FilterPaeth:
			out[i] = raw[i] - paeth(a, b, c)
		}
	}
	return out
}
