// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package png

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"

	"github.com/ngrath/gopng/raster"
)

type paletteEntry struct{ r, g, b, a uint8 }

// decodeState accumulates the chunks seen while walking a PNG stream,
// enforcing the ordering rules of spec.md §4.6 as they arrive rather
// than after the fact.
type decodeState struct {
	width, height     int
	bitDepth          int
	colorType         ColorType
	interlace         InterlaceMethod
	seenIHDR          bool
	seenPLTE          bool
	seenTRNS          bool
	idat              []byte
	idatDone          bool // true once a non-IDAT chunk followed an IDAT run
	sawAnyIDAT        bool
	palette           []paletteEntry
	log               Logger
}

// Decode reads a PNG stream from r and returns its pixels as an RGBA
// buffer, along with width and height. opts may be nil to accept all
// defaults.
func Decode(r io.Reader, opts *DecodeOptions) (*raster.RGBA, error) {
	var header [8]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, errors.Wrap(ErrBadSignature, "read signature")
	}
	if string(header[:]) != pngHeader {
		return nil, ErrBadSignature
	}

	st := &decodeState{log: opts.logger()}

	for {
		c, err := readChunk(r)
		if err != nil {
			return nil, err
		}
		done, err := st.consume(c)
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
	}

	if !st.sawAnyIDAT {
		return nil, errors.Wrap(ErrBadChunkOrder, "no IDAT chunk present")
	}

	return st.decodePixels()
}

// consume processes one chunk against the running ordering state. It
// returns done=true once IEND has been seen.
func (st *decodeState) consume(c rawChunk) (done bool, err error) {
	// Any chunk other than IDAT/IEND that arrives after IDAT has started
	// breaks the "IDAT chunks are consecutive" invariant, even if it is
	// otherwise a perfectly legal chunk in isolation (e.g. a tRNS that
	// simply arrived late).
	if st.sawAnyIDAT && c.name != chunkIDAT && c.name != chunkIEND {
		st.idatDone = true
	}

	switch c.name {
	case chunkIHDR:
		if st.seenIHDR {
			return false, duplicateIhdr()
		}
		st.seenIHDR = true
		if err := st.parseIHDR(c.data); err != nil {
			return false, err
		}
		return false, nil

	case chunkPLTE:
		if !st.seenIHDR {
			return false, errors.Wrap(ErrBadChunkOrder, "PLTE before IHDR")
		}
		if st.colorType != ColorIndexed {
			return false, errors.Wrap(ErrInvalidColorConfig, "PLTE only valid for indexed color type")
		}
		if st.seenPLTE {
			return false, errors.Wrap(ErrBadChunkOrder, "duplicate PLTE")
		}
		if st.sawAnyIDAT {
			return false, errors.Wrap(ErrBadChunkOrder, "PLTE after IDAT")
		}
		if err := st.parsePLTE(c.data); err != nil {
			return false, err
		}
		st.seenPLTE = true
		return false, nil

	case chunkTRNS:
		if !st.seenPLTE {
			return false, errors.Wrap(ErrBadChunkOrder, "tRNS without preceding PLTE")
		}
		if st.colorType != ColorIndexed {
			return false, errors.Wrap(ErrInvalidColorConfig, "tRNS only valid for indexed color type")
		}
		if st.seenTRNS {
			return false, errors.Wrap(ErrBadChunkOrder, "duplicate tRNS")
		}
		if err := st.parseTRNS(c.data); err != nil {
			return false, err
		}
		st.seenTRNS = true
		return false, nil

	case chunkIDAT:
		if !st.seenIHDR {
			return false, errors.Wrap(ErrBadChunkOrder, "IDAT before IHDR")
		}
		if st.colorType == ColorIndexed && !st.seenPLTE {
			return false, errors.Wrap(ErrBadChunkOrder, "IDAT before PLTE for indexed color type")
		}
		if st.idatDone {
			return false, errors.Wrap(ErrBadChunkOrder, "non-consecutive IDAT chunks")
		}
		st.sawAnyIDAT = true
		st.idat = append(st.idat, c.data...)
		return false, nil

	case chunkIEND:
		if !st.sawAnyIDAT {
			return false, errors.Wrap(ErrBadChunkOrder, "IEND before any IDAT")
		}
		return true, nil

	default:
		if isAncillary(c.name) {
			st.log.WithFields(map[string]interface{}{"chunk": c.name}).Debug("png: ignoring ancillary chunk")
			return false, nil
		}
		return false, errors.Wrapf(ErrUnsupportedEncoding, "unknown critical chunk %q", c.name)
	}
}

func (st *decodeState) parseIHDR(data []byte) error {
	if len(data) != 13 {
		return errors.Wrap(ErrInvalidColorConfig, "IHDR must be 13 bytes")
	}
	width := int(beUint32(data[0:4]))
	height := int(beUint32(data[4:8]))
	if width <= 0 || height <= 0 || width >= 1<<31 || height >= 1<<31 {
		return errors.Wrap(ErrInvalidColorConfig, "invalid image dimensions")
	}
	bitDepth := int(data[8])
	ct := ColorType(data[9])
	if !ct.known() {
		return errors.Wrapf(ErrInvalidColorConfig, "unknown color type %d", data[9])
	}
	if !ct.validBitDepth(bitDepth) {
		return errors.Wrapf(ErrInvalidColorConfig, "bit depth %d invalid for color type %s", bitDepth, ct)
	}
	if data[10] != compressionMethodDeflate {
		return errors.Wrap(ErrUnsupportedEncoding, "unsupported compression method")
	}
	if data[11] != filterMethodAdaptive {
		return errors.Wrap(ErrUnsupportedEncoding, "unsupported filter method")
	}
	interlace := InterlaceMethod(data[12])
	if !interlace.known() {
		return errors.Wrapf(ErrInvalidColorConfig, "unknown interlace method %d", data[12])
	}

	st.width, st.height, st.bitDepth, st.colorType, st.interlace = width, height, bitDepth, ct, interlace
	st.log.WithFields(map[string]interface{}{
		"width": width, "height": height, "color_type": ct.String(),
		"bit_depth": bitDepth, "interlace": interlace,
	}).Debug("png: IHDR parsed")
	return nil
}

func (st *decodeState) parsePLTE(data []byte) error {
	if len(data)%3 != 0 {
		return errors.Wrap(ErrInvalidColorConfig, "PLTE length not a multiple of 3")
	}
	n := len(data) / 3
	if n == 0 || n > 256 {
		return errors.Wrapf(ErrInvalidColorConfig, "bad PLTE entry count: %d", n)
	}
	st.palette = make([]paletteEntry, n)
	for i := range st.palette {
		st.palette[i] = paletteEntry{r: data[3*i], g: data[3*i+1], b: data[3*i+2], a: 255}
	}
	return nil
}

func (st *decodeState) parseTRNS(data []byte) error {
	if len(data) > len(st.palette) {
		return errors.Wrap(ErrInvalidColorConfig, "tRNS longer than PLTE")
	}
	for i, a := range data {
		st.palette[i].a = a
	}
	return nil
}

func beUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func (st *decodeState) lookupPalette(idx uint8) (r, g, b, a uint8, err error) {
	if int(idx) >= len(st.palette) {
		return 0, 0, 0, 0, errors.Wrapf(ErrInvalidColorConfig, "palette index %d out of range (%d entries)", idx, len(st.palette))
	}
	e := st.palette[idx]
	return e.r, e.g, e.b, e.a, nil
}

func (st *decodeState) decodePixels() (*raster.RGBA, error) {
	zr, err := zlib.NewReader(bytes.NewReader(st.idat))
	if err != nil {
		return nil, errors.Wrap(ErrDecompressor, err.Error())
	}
	defer zr.Close()

	img := raster.NewRGBA(st.width, st.height)
	components := st.colorType.components()
	bpp := pixelByteCount(components, st.bitDepth)

	passes := passGeometry(st.interlace, st.width, st.height)
	for _, p := range passes {
		if err := st.decodePass(zr, img, p, components, bpp); err != nil {
			return nil, err
		}
	}
	return img, nil
}

func (st *decodeState) decodePass(r io.Reader, img *raster.RGBA, p pass, components, bpp int) error {
	rowSize := 1 + rowByteCount(p.width, components, st.bitDepth)
	cur := make([]byte, rowSize)
	prev := make([]byte, rowSize)

	for row := 0; row < p.height; row++ {
		if _, err := io.ReadFull(r, cur); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return errors.Wrap(ErrTruncatedStream, "short row read")
			}
			return errors.Wrap(ErrDecompressor, err.Error())
		}
		ft := FilterType(cur[0])
		if !ft.known() {
			return errors.Wrapf(ErrInvalidColorConfig, "unknown filter type %d", cur[0])
		}
		if err := reconstructRow(ft, cur[1:], prev[1:], bpp); err != nil {
			return err
		}

		srcY := p.yStart + row*p.yStep
		set := func(x int, r8, g8, b8, a8 uint8) {
			img.Set(p.xStart+x*p.xStep, srcY, r8, g8, b8, a8)
		}
		if err := unpackRow(cur[1:], p.width, st.colorType, st.bitDepth, set, st.lookupPalette); err != nil {
			return err
		}

		prev, cur = cur, prev
	}
	return nil
}
