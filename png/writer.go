// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package png

import (
	"bufio"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"

	"github.com/ngrath/gopng/raster"
)

// idatWriter is an io.Writer that frames every Write call's bytes into
// one or more IDAT chunks of at most maxPayload bytes each. writeIDATs
// puts a 32 KiB bufio.Writer between the zlib.Writer and idatWriter, so
// Write is called relatively infrequently, but idatWriter still splits
// defensively since IDAT chunk
// boundaries carry no semantic meaning (spec.md §4.6).
type idatWriter struct {
	w          io.Writer
	maxPayload int
	err        error
}

func (iw *idatWriter) Write(b []byte) (int, error) {
	if iw.err != nil {
		return 0, iw.err
	}
	total := len(b)
	for len(b) > 0 {
		n := len(b)
		if n > iw.maxPayload {
			n = iw.maxPayload
		}
		if err := writeChunk(iw.w, chunkIDAT, b[:n]); err != nil {
			iw.err = err
			return 0, err
		}
		b = b[n:]
	}
	return total, nil
}

// Encode writes img to w as a PNG stream, automatically selecting the
// most economical color type, bit depth, and (if applicable) palette for
// img's content, per spec.md §4.3. opts may be nil to accept all
// defaults.
func Encode(w io.Writer, img *raster.RGBA, opts *EncodeOptions) error {
	if img.Width <= 0 || img.Height <= 0 {
		return errors.Wrap(ErrInvalidColorConfig, "image must have positive dimensions")
	}
	if img.Width >= 1<<31 || img.Height >= 1<<31 {
		return errors.Wrap(ErrInvalidColorConfig, "image dimensions exceed PNG's 31-bit limit")
	}

	log := opts.logger()

	stats := newScanStats()
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			r, g, b, a := img.At(x, y)
			stats.observe(r, g, b, a)
		}
	}
	stats.palette.sort()

	ct, bitDepth := chooseColorType(stats)
	log.WithFields(map[string]interface{}{
		"color_type": ct.String(),
		"bit_depth":  bitDepth,
		"overflow":   stats.palette.overflow,
	}).Debug("png: color type selected")

	if _, err := io.WriteString(w, pngHeader); err != nil {
		return errors.Wrap(err, "write signature")
	}

	if err := writeIHDR(w, img.Width, img.Height, ct, bitDepth, opts.interlace()); err != nil {
		return err
	}

	if err := writeMetadata(w, opts.metadata()); err != nil {
		return err
	}

	if ct == ColorIndexed {
		if err := writePLTEAndTRNS(w, stats.palette.finalColors()); err != nil {
			return err
		}
	}

	if err := writeIDATs(w, img, ct, bitDepth, opts, &stats.palette); err != nil {
		return err
	}

	return writeChunk(w, chunkIEND, nil)
}

func writeIHDR(w io.Writer, width, height int, ct ColorType, bitDepth int, interlace InterlaceMethod) error {
	var data [13]byte
	putUint32(data[0:4], uint32(width))
	putUint32(data[4:8], uint32(height))
	data[8] = uint8(bitDepth)
	data[9] = uint8(ct)
	data[10] = compressionMethodDeflate
	data[11] = filterMethodAdaptive
	data[12] = uint8(interlace)
	return writeChunk(w, chunkIHDR, data[:])
}

func putUint32(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}

func writePLTEAndTRNS(w io.Writer, colors []uint32) error {
	if len(colors) == 0 || len(colors) > 256 {
		return errors.Wrapf(ErrInvalidColorConfig, "bad palette length: %d", len(colors))
	}
	plte := make([]byte, 3*len(colors))
	var alphas []byte
	for i, c := range colors {
		r, g, b, a := unpackColor(c)
		plte[3*i+0] = r
		plte[3*i+1] = g
		plte[3*i+2] = b
		if a != 255 {
			alphas = append(alphas, a)
		}
	}
	if err := writeChunk(w, chunkPLTE, plte); err != nil {
		return err
	}
	if len(alphas) > 0 {
		if err := writeChunk(w, chunkTRNS, alphas); err != nil {
			return err
		}
	}
	return nil
}

// writeIDATs runs the per-pass pack/filter loop (spec.md §4.5/§4.6),
// feeding the concatenation of every pass's filtered rows through one
// zlib stream, split into IDAT chunks by idatWriter.
func writeIDATs(w io.Writer, img *raster.RGBA, ct ColorType, bitDepth int, opts *EncodeOptions, pal *paletteBuilder) error {
	iw := &idatWriter{w: w, maxPayload: opts.idatChunkSize()}
	bw := bufio.NewWriterSize(iw, 1<<15)

	zw, err := zlib.NewWriterLevel(bw, opts.compressionLevel().zlibLevel())
	if err != nil {
		return errors.Wrap(ErrCompressor, err.Error())
	}

	components := ct.components()
	passes := passGeometry(opts.interlace(), img.Width, img.Height)

	for _, p := range passes {
		if err := encodePass(zw, img, p, ct, bitDepth, components, pal); err != nil {
			zw.Close()
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return errors.Wrap(ErrCompressor, err.Error())
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "flush IDAT buffer")
	}
	if iw.err != nil {
		return iw.err
	}
	return nil
}

func encodePass(zw io.Writer, img *raster.RGBA, p pass, ct ColorType, bitDepth, components int, pal *paletteBuilder) error {
	sz := 1 + rowByteCount(p.width, components, bitDepth)
	var cr [nFilter][]byte
	for i := range cr {
		cr[i] = make([]byte, sz)
		cr[i][0] = byte(i)
	}
	pr := make([]byte, sz)
	bpp := pixelByteCount(components, bitDepth)

	for row := 0; row < p.height; row++ {
		srcY := p.yStart + row*p.yStep
		get := func(x int) (r, g, b, a uint8) {
			return img.At(p.xStart+x*p.xStep, srcY)
		}
		idx := func(x int) uint8 {
			r, g, b, a := get(x)
			return pal.getIndex(r, g, b, a)
		}
		// Clear the none-filter row before packing, since sub-byte packing
		// ORs bits into place rather than overwriting whole bytes.
		for i := range cr[FilterNone][1:] {
			cr[FilterNone][1+i] = 0
		}
		packRow(cr[FilterNone], p.width, ct, bitDepth, get, idx)

		var f FilterType
		if ct == ColorIndexed {
			// Filters rarely help palette images and can make them larger;
			// the reference encoder skips filtering for paletted output.
			f = FilterNone
		} else {
			applyFilters(&cr, pr, bpp)
			f = chooseFilter(&cr)
		}

		if _, err := zw.Write(cr[f]); err != nil {
			return errors.Wrap(ErrCompressor, err.Error())
		}

		pr, cr[FilterNone] = cr[FilterNone], pr
		cr[FilterNone][0] = 0
	}
	return nil
}
