// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package raster holds the one pixel buffer type the codec understands:
// 8-bit, non-alpha-premultiplied RGBA, row-major, top-to-bottom. It is
// intentionally smaller than a general-purpose image package — there is
// no color model registry and no other pixel layout, because converting
// between color models is out of scope for the codec this buffer feeds.
package raster

import "fmt"

// RGBA is a row-major, top-to-bottom raster of 8-bit RGBA pixels. Pix
// holds 4*Width*Height bytes; pixel (x, y) occupies
// Pix[y*Stride+x*4 : y*Stride+x*4+4] in (R, G, B, A) order.
type RGBA struct {
	Pix    []byte
	Stride int
	Width  int
	Height int
}

// NewRGBA allocates an RGBA buffer of the given dimensions, zero-filled
// (fully transparent black). Width and Height must be representable in
// PNG's 31-bit non-negative range; NewRGBA does not itself enforce that
// limit since it is also used to hold decoder output, where the limit is
// checked against the IHDR fields before allocation.
func NewRGBA(width, height int) *RGBA {
	stride := 4 * width
	return &RGBA{
		Pix:    make([]byte, stride*height),
		Stride: stride,
		Width:  width,
		Height: height,
	}
}

// NewRGBAFromBytes wraps an existing 4*width*height byte buffer without
// copying. It panics if buf is the wrong length, matching the codec's
// entry-point contract that the caller owns a well-formed buffer.
func NewRGBAFromBytes(buf []byte, width, height int) *RGBA {
	want := 4 * width * height
	if len(buf) != want {
		panic(fmt.Sprintf("raster: buffer has %d bytes, want %d for %dx%d", len(buf), want, width, height))
	}
	return &RGBA{Pix: buf, Stride: 4 * width, Width: width, Height: height}
}

// At returns the four RGBA octets for pixel (x, y).
func (m *RGBA) At(x, y int) (r, g, b, a uint8) {
	i := y*m.Stride + x*4
	p := m.Pix[i : i+4 : i+4]
	return p[0], p[1], p[2], p[3]
}

// Set writes the four RGBA octets for pixel (x, y).
func (m *RGBA) Set(x, y int, r, g, b, a uint8) {
	i := y*m.Stride + x*4
	p := m.Pix[i : i+4 : i+4]
	p[0], p[1], p[2], p[3] = r, g, b, a
}

// PixelOffset returns the byte offset of pixel (x, y) within Pix.
func (m *RGBA) PixelOffset(x, y int) int {
	return y*m.Stride + x*4
}
