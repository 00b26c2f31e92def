package png

import "github.com/pkg/errors"

// Sentinel errors for every failure kind the codec defines. Call sites
// wrap these with errors.Wrap/errors.Wrapf to attach a stack trace and
// positional context; callers recover the sentinel with errors.Is.
var (
	// ErrBadSignature means the first 8 bytes of the stream were not the
	// PNG signature.
	ErrBadSignature = errors.New("png: bad signature")

	// ErrInvalidChunkType means a chunk type byte fell outside [A-Za-z].
	ErrInvalidChunkType = errors.New("png: invalid chunk type")

	// ErrBadCrc means a chunk's stored CRC-32 did not match the CRC-32
	// computed over its type and data.
	ErrBadCrc = errors.New("png: bad chunk crc")

	// ErrBadChunkOrder covers every chunk-sequencing violation: duplicate
	// IHDR, misplaced PLTE/tRNS, non-consecutive IDAT, missing IDAT.
	ErrBadChunkOrder = errors.New("png: chunk out of order")

	// ErrUnsupportedEncoding means an unknown compression or filter
	// method byte was found in IHDR, or an unknown critical chunk was
	// encountered.
	ErrUnsupportedEncoding = errors.New("png: unsupported encoding")

	// ErrInvalidColorConfig covers bit-depth/color-type mismatches,
	// unknown color type or filter ids, and malformed PLTE/tRNS.
	ErrInvalidColorConfig = errors.New("png: invalid color configuration")

	// ErrTruncatedStream means the input ended before the codec expected
	// it to.
	ErrTruncatedStream = errors.New("png: truncated stream")

	// ErrCompressor is surfaced from the DEFLATE compressor collaborator.
	ErrCompressor = errors.New("png: compressor error")

	// ErrDecompressor is surfaced from the DEFLATE decompressor
	// collaborator.
	ErrDecompressor = errors.New("png: decompressor error")
)

// duplicateIhdr reports the specific chunk-order violation of seeing a
// second IHDR chunk. It wraps ErrBadChunkOrder so errors.Is(err,
// ErrBadChunkOrder) still succeeds.
func duplicateIhdr() error {
	return errors.Wrap(ErrBadChunkOrder, "duplicate IHDR")
}
