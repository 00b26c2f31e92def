package png

import "github.com/klauspost/compress/zlib"

// CompressionLevel mirrors the small enum the teacher's encoder exposes:
// a handful of named presets rather than a raw zlib integer, so callers
// don't need to know zlib's constant values.
type CompressionLevel int

const (
	DefaultCompression CompressionLevel = 0
	NoCompression      CompressionLevel = -1
	BestSpeed          CompressionLevel = -2
	BestCompression    CompressionLevel = -3
)

func (l CompressionLevel) zlibLevel() int {
	switch l {
	case NoCompression:
		return zlib.NoCompression
	case BestSpeed:
		return zlib.BestSpeed
	case BestCompression:
		return zlib.BestCompression
	default:
		return zlib.DefaultCompression
	}
}

// defaultIDATChunkSize matches the reference implementation's hard-coded
// IDAT payload ceiling. It is a policy knob, not a correctness
// requirement (spec.md §9): any positive value up to 2^31-1 produces a
// valid, if differently chunked, stream.
const defaultIDATChunkSize = 1024

// EncodeOptions configures Encode. The zero value is a valid set of
// defaults: default zlib compression, 1024-byte IDAT chunks, no
// interlacing.
type EncodeOptions struct {
	CompressionLevel CompressionLevel
	IDATChunkSize    int
	Interlace        InterlaceMethod

	// Metadata, if non-nil, adds pHYs/tIME/tEXt ancillary chunks to the
	// stream. It never changes the decoded pixel buffer; a decoder that
	// does not understand these chunks skips them.
	Metadata *Metadata

	// Logger, if non-nil, receives structured debug-level diagnostics at
	// the encoder's major decision points. It never affects the encoded
	// bytes. See log.go.
	Logger Logger
}

func (o *EncodeOptions) idatChunkSize() int {
	if o == nil || o.IDATChunkSize <= 0 {
		return defaultIDATChunkSize
	}
	return o.IDATChunkSize
}

func (o *EncodeOptions) compressionLevel() CompressionLevel {
	if o == nil {
		return DefaultCompression
	}
	return o.CompressionLevel
}

func (o *EncodeOptions) interlace() InterlaceMethod {
	if o == nil {
		return InterlaceNone
	}
	return o.Interlace
}

func (o *EncodeOptions) metadata() *Metadata {
	if o == nil {
		return nil
	}
	return o.Metadata
}

func (o *EncodeOptions) logger() Logger {
	if o == nil || o.Logger == nil {
		return nopLogger{}
	}
	return o.Logger
}

// DecodeOptions configures Decode. The zero value disables diagnostics.
type DecodeOptions struct {
	Logger Logger
}

func (o *DecodeOptions) logger() Logger {
	if o == nil || o.Logger == nil {
		return nopLogger{}
	}
	return o.Logger
}
