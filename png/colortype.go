package png

// scanStats accumulates the per-image predicates the color-type
// selection algorithm (spec.md §4.3) needs: palette membership/overflow,
// whether any pixel has alpha != 255, and whether every pixel passes the
// greyscale test.
//
// The greyscale test is deliberately R==G && B==A, not R==G && G==B. This
// mirrors a well-known quirk carried forward from the reference this
// codec's behavior must match bit-for-bit; changing it would silently
// alter which images are classified as greyscale. See DESIGN.md.
type scanStats struct {
	palette     paletteBuilder
	hasAlpha    bool
	isGreyscale bool
}

func newScanStats() *scanStats {
	return &scanStats{isGreyscale: true}
}

func (s *scanStats) observe(r, g, b, a uint8) {
	s.palette.add(r, g, b, a)
	if a != 255 {
		s.hasAlpha = true
	}
	if r != g || b != a {
		s.isGreyscale = false
	}
}

// bitDepthForPaletteSize returns the smallest bit depth that can index a
// palette of the given size, per spec.md §4.3 rule 1.
func bitDepthForPaletteSize(size int) int {
	switch {
	case size <= 2:
		return 1
	case size <= 4:
		return 2
	case size <= 16:
		return 4
	default:
		return 8
	}
}

// chooseColorType runs the priority-ordered selection algorithm of
// spec.md §4.3 and returns the color type and bit depth the encoder will
// emit. The encoder never emits bit depth 16 or a sub-byte non-indexed
// depth; those remain legal only on decode.
func chooseColorType(s *scanStats) (ColorType, int) {
	if !s.palette.overflow && s.palette.size() <= 256 {
		return ColorIndexed, bitDepthForPaletteSize(s.palette.size())
	}
	if !s.hasAlpha {
		if s.isGreyscale {
			return ColorGreyscale, 8
		}
		return ColorTruecolor, 8
	}
	if s.isGreyscale {
		return ColorGreyscaleAlpha, 8
	}
	return ColorTruecolorAlpha, 8
}

// rowByteCount returns ceil(width*components*bitDepth/8), the number of
// packed sample bytes (excluding the leading filter-type byte) in one
// row.
func rowByteCount(width, components, bitDepth int) int {
	return (width*components*bitDepth + 7) / 8
}

// pixelByteCount is max(1, bitDepth/8) * components, the filter stride
// used by the row-filter arithmetic (spec.md §4.4).
func pixelByteCount(components, bitDepth int) int {
	d := bitDepth / 8
	if d < 1 {
		d = 1
	}
	return d * components
}

// packRow converts one row of RGBA pixels (already gathered into the
// pass's row-major order by the caller) into packed row bytes for the
// given color type / bit depth, writing into dst[1:] (dst[0] is the
// filter-type byte, left untouched here). get(x) returns the RGBA
// quadruple for column x; idx(x) returns the palette index for column x
// and is only invoked for ColorIndexed.
func packRow(dst []byte, width int, ct ColorType, bitDepth int, get func(x int) (r, g, b, a uint8), idx func(x int) uint8) {
	data := dst[1:]
	switch ct {
	case ColorIndexed:
		packIndexedRow(data, width, bitDepth, idx)
	case ColorGreyscale:
		// The encoder only ever emits 8-bit greyscale; sub-byte and
		// 16-bit greyscale remain legal decode-only depths (spec.md §4.3).
		for x := 0; x < width; x++ {
			r, g, b, _ := get(x)
			data[x] = luminance(r, g, b)
		}
	case ColorGreyscaleAlpha:
		for x := 0; x < width; x++ {
			r, g, b, a := get(x)
			y := luminance(r, g, b)
			data[2*x+0] = y
			data[2*x+1] = a
		}
	case ColorTruecolor:
		for x := 0; x < width; x++ {
			r, g, b, _ := get(x)
			data[3*x+0] = r
			data[3*x+1] = g
			data[3*x+2] = b
		}
	case ColorTruecolorAlpha:
		for x := 0; x < width; x++ {
			r, g, b, a := get(x)
			data[4*x+0] = r
			data[4*x+1] = g
			data[4*x+2] = b
			data[4*x+3] = a
		}
	}
}

// luminance is the spec's integer-division luminance used for greyscale
// packing: (R+G+B)/3.
func luminance(r, g, b uint8) uint8 {
	return uint8((int(r) + int(g) + int(b)) / 3)
}

// packIndexedRow packs one row of palette indices MSB-first within each
// byte, at bitDepth bits per index.
func packIndexedRow(data []byte, width, bitDepth int, idx func(x int) uint8) {
	if bitDepth == 8 {
		for x := 0; x < width; x++ {
			data[x] = idx(x)
		}
		return
	}
	samplesPerByte := 8 / bitDepth
	for x := 0; x < width; x++ {
		byteIdx := x / samplesPerByte
		shift := uint(8 - bitDepth - (x%samplesPerByte)*bitDepth)
		data[byteIdx] |= idx(x) << shift
	}
}

// unpackRow is the decode-side inverse of packRow: it reads one
// reconstructed (post-filter) row of packed bytes and invokes set(x, r,
// g, b, a) for each column. For ColorIndexed, lookupPalette resolves a
// palette index to RGBA and must return an error for an out-of-range
// index. Sub-byte non-indexed samples are unpacked MSB-first, matching
// the MSB-first packing used on encode (see DESIGN.md for the
// LSB-first-on-decode alternative this codec deliberately does not take).
func unpackRow(data []byte, width int, ct ColorType, bitDepth int, set func(x int, r, g, b, a uint8), lookupPalette func(idx uint8) (r, g, b, a uint8, err error)) error {
	switch ct {
	case ColorIndexed:
		return unpackIndexedRow(data, width, bitDepth, set, lookupPalette)
	case ColorGreyscale:
		for x := 0; x < width; x++ {
			y := readSample(data, x, 1, 0, bitDepth)
			set(x, y, y, y, 255)
		}
	case ColorGreyscaleAlpha:
		if bitDepth == 16 {
			for x := 0; x < width; x++ {
				y := data[4*x+0]
				a := data[4*x+2]
				set(x, y, y, y, a)
			}
		} else {
			for x := 0; x < width; x++ {
				y := data[2*x+0]
				a := data[2*x+1]
				set(x, y, y, y, a)
			}
		}
	case ColorTruecolor:
		if bitDepth == 16 {
			for x := 0; x < width; x++ {
				r, g, b := data[6*x+0], data[6*x+2], data[6*x+4]
				set(x, r, g, b, 255)
			}
		} else {
			for x := 0; x < width; x++ {
				r, g, b := data[3*x+0], data[3*x+1], data[3*x+2]
				set(x, r, g, b, 255)
			}
		}
	case ColorTruecolorAlpha:
		if bitDepth == 16 {
			for x := 0; x < width; x++ {
				r, g, b, a := data[8*x+0], data[8*x+2], data[8*x+4], data[8*x+6]
				set(x, r, g, b, a)
			}
		} else {
			for x := 0; x < width; x++ {
				r, g, b, a := data[4*x+0], data[4*x+1], data[4*x+2], data[4*x+3]
				set(x, r, g, b, a)
			}
		}
	}
	return nil
}

// readSample reads one sample from a packed single-component row
// (greyscale), inverse of the bit layout packIndexedRow uses for
// indices. 16-bit depth keeps only the high byte, matching the spec's
// non-goal of genuine 16-bit precision in the RGBA output.
func readSample(data []byte, x, components, component, bitDepth int) uint8 {
	switch {
	case bitDepth == 8:
		return data[x*components+component]
	case bitDepth == 16:
		return data[2*(x*components+component)+0]
	default: // 1, 2, 4
		samplesPerByte := 8 / bitDepth
		byteIdx := x / samplesPerByte
		shift := uint(8 - bitDepth - (x%samplesPerByte)*bitDepth)
		mask := uint8(1<<uint(bitDepth) - 1)
		v := (data[byteIdx] >> shift) & mask
		// Expand back up to 8 bits by left-shifting into the high bits;
		// this is the MSB-first-both-ways choice spec.md §9 calls out as
		// the spec-conformant one.
		return v << uint(8-bitDepth)
	}
}

func unpackIndexedRow(data []byte, width, bitDepth int, set func(x int, r, g, b, a uint8), lookupPalette func(idx uint8) (r, g, b, a uint8, err error)) error {
	samplesPerByte := 8
	if bitDepth < 8 {
		samplesPerByte = 8 / bitDepth
	}
	for x := 0; x < width; x++ {
		var idx uint8
		if bitDepth == 8 {
			idx = data[x]
		} else {
			byteIdx := x / samplesPerByte
			shift := uint(8 - bitDepth - (x%samplesPerByte)*bitDepth)
			mask := uint8(1<<uint(bitDepth) - 1)
			idx = (data[byteIdx] >> shift) & mask
		}
		r, g, b, a, err := lookupPalette(idx)
		if err != nil {
			return err
		}
		set(x, r, g, b, a)
	}
	return nil
}
