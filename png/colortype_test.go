package png

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChooseColorTypeSmallPaletteIsIndexed(t *testing.T) {
	s := newScanStats()
	s.observe(0, 0, 0, 255)
	s.observe(255, 255, 255, 255)

	ct, depth := chooseColorType(s)
	require.Equal(t, ColorIndexed, ct)
	require.Equal(t, 1, depth)
}

// Because the greyscale test is R==G && B==A (not R==G && G==B), an
// opaque (A==255) image only satisfies it for every pixel when B is
// pinned at 255 too, leaving R==G as the only freedom. Such an image has
// at most 256 distinct colors, so scanning it never overflows the
// palette; the overflow flag is set by hand to reach the greyscale branch.
func TestChooseColorTypeOverflowOpaqueGreyscale(t *testing.T) {
	s := newScanStats()
	for i := 0; i < 300; i++ {
		v := uint8(i % 256)
		s.observe(v, v, 255, 255)
	}
	require.False(t, s.palette.overflow)
	s.palette.overflow = true

	ct, depth := chooseColorType(s)
	require.Equal(t, ColorGreyscale, ct)
	require.Equal(t, 8, depth)
}

func TestChooseColorTypeOverflowOpaqueColor(t *testing.T) {
	s := newScanStats()
	for i := 0; i < 300; i++ {
		s.observe(uint8(i%256), uint8(i/256), uint8((i*13)%256), 255)
	}
	require.True(t, s.palette.overflow)

	ct, _ := chooseColorType(s)
	require.Equal(t, ColorTruecolor, ct)
}

func TestChooseColorTypeOverflowWithAlphaGreyscale(t *testing.T) {
	s := newScanStats()
	for i := 0; i < 300; i++ {
		v := uint8(i % 256)
		a := uint8(255)
		if i%3 == 0 {
			a = 128
		}
		// B pinned to A (not to R/G) so every pixel satisfies the
		// quirked R==G && B==A greyscale test.
		s.observe(v, v, a, a)
	}
	require.True(t, s.palette.overflow)
	require.True(t, s.hasAlpha)

	ct, depth := chooseColorType(s)
	require.Equal(t, ColorGreyscaleAlpha, ct)
	require.Equal(t, 8, depth)
}

func TestChooseColorTypeOverflowWithAlphaColor(t *testing.T) {
	s := newScanStats()
	for i := 0; i < 300; i++ {
		a := uint8(255)
		if i%3 == 0 {
			a = 10
		}
		s.observe(uint8(i%256), uint8((i*7)%256), uint8((i*13)%256), a)
	}
	require.True(t, s.palette.overflow)

	ct, _ := chooseColorType(s)
	require.Equal(t, ColorTruecolorAlpha, ct)
}

// The greyscale test is R==G && B==A, a quirk preserved deliberately
// (see DESIGN.md). A pixel with R==G==B but B!=A must NOT be classified
// greyscale once the palette overflows.
func TestGreyscaleTestIsRGEqualAndBEqualA(t *testing.T) {
	s := newScanStats()
	for i := 0; i < 300; i++ {
		v := uint8(i % 256)
		// R==G==B always, but alpha varies independently of B so the
		// B==A half of the predicate fails for most pixels.
		s.observe(v, v, v, uint8((i*37)%251))
	}
	require.True(t, s.palette.overflow)
	require.False(t, s.isGreyscale, "R==G==B with B!=A must fail the quirked greyscale test")

	s2 := newScanStats()
	for i := 0; i < 300; i++ {
		v := uint8(i % 256)
		b := uint8((i * 3) % 251)
		// R==G holds, and B==A holds, even though B != G in general: the
		// quirked test still accepts this as "greyscale".
		s2.observe(v, v, b, b)
	}
	require.True(t, s2.palette.overflow)
	require.True(t, s2.isGreyscale, "R==G && B==A must pass the quirked greyscale test even when B != G")
}

func TestBitDepthForPaletteSize(t *testing.T) {
	require.Equal(t, 1, bitDepthForPaletteSize(1))
	require.Equal(t, 1, bitDepthForPaletteSize(2))
	require.Equal(t, 2, bitDepthForPaletteSize(3))
	require.Equal(t, 2, bitDepthForPaletteSize(4))
	require.Equal(t, 4, bitDepthForPaletteSize(5))
	require.Equal(t, 4, bitDepthForPaletteSize(16))
	require.Equal(t, 8, bitDepthForPaletteSize(17))
	require.Equal(t, 8, bitDepthForPaletteSize(256))
}

func TestRowByteCountAndPixelByteCount(t *testing.T) {
	require.Equal(t, 1, rowByteCount(8, 1, 1))
	require.Equal(t, 2, rowByteCount(9, 1, 1))
	require.Equal(t, 3, rowByteCount(1, 3, 8))
	require.Equal(t, 4, pixelByteCount(4, 8))
	require.Equal(t, 1, pixelByteCount(1, 1))
}

func TestPackAndUnpackIndexedRowRoundTrip(t *testing.T) {
	const width = 5
	indices := []uint8{0, 1, 2, 1, 0}
	palette := [][4]uint8{
		{10, 10, 10, 255},
		{20, 20, 20, 255},
		{30, 30, 30, 0},
	}

	for _, bitDepth := range []int{1, 2, 4, 8} {
		if bitDepthForPaletteSize(len(palette)) > bitDepth {
			continue
		}
		data := make([]byte, rowByteCount(width, 1, bitDepth))
		packIndexedRow(data, width, bitDepth, func(x int) uint8 { return indices[x] })

		var got []uint8
		err := unpackIndexedRow(data, width, bitDepth, func(x int, r, g, b, a uint8) {
			for i, p := range palette {
				if p[0] == r && p[1] == g && p[2] == b && p[3] == a {
					got = append(got, uint8(i))
				}
			}
		}, func(idx uint8) (r, g, b, a uint8, err error) {
			p := palette[idx]
			return p[0], p[1], p[2], p[3], nil
		})
		require.NoError(t, err)
		require.Equal(t, indices, got, "bit depth %d", bitDepth)
	}
}

func TestPackRowTruecolorAlphaRoundTrip(t *testing.T) {
	const width = 3
	px := [][4]uint8{
		{1, 2, 3, 4},
		{250, 249, 248, 247},
		{0, 0, 0, 0},
	}
	data := make([]byte, 1+rowByteCount(width, 4, 8))
	packRow(data, width, ColorTruecolorAlpha, 8, func(x int) (r, g, b, a uint8) {
		p := px[x]
		return p[0], p[1], p[2], p[3]
	}, nil)

	var got [][4]uint8
	err := unpackRow(data[1:], width, ColorTruecolorAlpha, 8, func(x int, r, g, b, a uint8) {
		got = append(got, [4]uint8{r, g, b, a})
	}, nil)
	require.NoError(t, err)
	require.Equal(t, px, got)
}
