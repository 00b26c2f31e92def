// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package png

// abs8 is the absolute value of a byte interpreted as a signed int8, used
// by the filter-selection heuristic (sum of absolute filtered bytes).
func abs8(d uint8) int {
	if d < 128 {
		return int(d)
	}
	return 256 - int(d)
}

// paeth is the PNG Paeth predictor: pick whichever of a, b, c is closest
// to p = a + b - c, with ties broken in favor of a, then b, then c.
func paeth(a, b, c uint8) uint8 {
	pa := abs(int(b) - int(c))
	pb := abs(int(a) - int(c))
	pc := abs(int(a) + int(b) - 2*int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// applyFilters fills cr[ft] with row cr[0] (the raw, unfiltered row)
// transformed under filter type ft, for every non-None filter type. pr is
// the previous row's raw bytes (all zero for the first row of a pass);
// bpp is the pixel byte count (max(1, bitDepth/8) * components). Every
// cr[ft] slice, including cr[0], carries a leading filter-type byte
// already set by the caller; only cr[ft][1:] is written here.
func applyFilters(cr *[nFilter][]byte, pr []byte, bpp int) {
	cdat0 := cr[FilterNone][1:]
	n := len(cdat0)
	pdat := pr[1:]

	subDat := cr[FilterSub][1:]
	for i := 0; i < n; i++ {
		if i < bpp {
			subDat[i] = cdat0[i]
		} else {
			subDat[i] = cdat0[i] - cdat0[i-bpp]
		}
	}

	upDat := cr[FilterUp][1:]
	for i := 0; i < n; i++ {
		upDat[i] = cdat0[i] - pdat[i]
	}

	avgDat := cr[FilterAverage][1:]
	for i := 0; i < n; i++ {
		var left int
		if i >= bpp {
			left = int(cdat0[i-bpp])
		}
		avgDat[i] = cdat0[i] - uint8((left+int(pdat[i]))/2)
	}

	paethDat := cr[FilterPaeth][1:]
	for i := 0; i < n; i++ {
		var left, upLeft uint8
		if i >= bpp {
			left = cdat0[i-bpp]
			upLeft = pdat[i-bpp]
		}
		paethDat[i] = cdat0[i] - paeth(left, pdat[i], upLeft)
	}
}

// scoreRow sums the absolute signed values of a filtered row's bytes
// (the MAD heuristic libpng and the PNG spec both recommend).
func scoreRow(filtered []byte) int {
	sum := 0
	for _, b := range filtered[1:] {
		sum += abs8(b)
	}
	return sum
}

// chooseFilter scores all five candidate rows in cr and returns the
// filter type with the lowest score, breaking ties toward the earliest
// filter in enumeration order (None < Sub < Up < Average < Paeth).
func chooseFilter(cr *[nFilter][]byte) FilterType {
	best := FilterNone
	bestScore := scoreRow(cr[FilterNone])
	for ft := FilterSub; ft <= FilterPaeth; ft++ {
		s := scoreRow(cr[ft])
		if s < bestScore {
			bestScore = s
			best = ft
		}
	}
	return best
}

// reconstructRow reverses filter type ft in place: cur holds the filtered
// row bytes (cur[0] is not the filter byte here, callers pass only the
// data portion), prev is the previous row's already-reconstructed bytes
// (all zero for the first row of a pass), and bpp is the pixel byte
// count.
func reconstructRow(ft FilterType, cur, prev []byte, bpp int) error {
	switch ft {
	case FilterNone:
		// no-op
	case FilterSub:
		for i := bpp; i < len(cur); i++ {
			cur[i] += cur[i-bpp]
		}
	case FilterUp:
		for i := range cur {
			cur[i] += prev[i]
		}
	case FilterAverage:
		for i := 0; i < bpp; i++ {
			cur[i] += prev[i] / 2
		}
		for i := bpp; i < len(cur); i++ {
			cur[i] += uint8((int(cur[i-bpp]) + int(prev[i])) / 2)
		}
	case FilterPaeth:
		for i := 0; i < bpp; i++ {
			cur[i] += paeth(0, prev[i], 0)
		}
		for i := bpp; i < len(cur); i++ {
			cur[i] += paeth(cur[i-bpp], prev[i], prev[i-bpp])
		}
	default:
		return ErrInvalidColorConfig
	}
	return nil
}
