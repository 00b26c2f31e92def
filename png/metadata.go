package png

import (
	"encoding/binary"
	"io"
	"time"

	"github.com/pkg/errors"
)

// TextEntry is one tEXt chunk: a Latin-1 keyword/value pair, per spec.md
// §1's "ancillary chunks beyond tRNS" non-goal — the decoder never
// interprets these, but the encoder can still emit them for a caller
// that wants to carry them through a PNG file.
type TextEntry struct {
	Key   string
	Value string
}

// PhysicalDimension holds the pHYs chunk's pixel-density fields.
type PhysicalDimension struct {
	X, Y uint32
	Unit uint8 // 0 = unknown aspect ratio, 1 = meter
}

// Metadata is the optional ancillary-chunk envelope an encoder may
// attach to an image. A nil Metadata (the default) emits none of these
// chunks. Every field is independently optional.
type Metadata struct {
	Dimension    *PhysicalDimension
	LastModified *time.Time
	Text         []TextEntry
}

// writeMetadata emits pHYs, tIME, and tEXt chunks ahead of the PLTE/IDAT
// chunks. pHYs and tIME, if present, must each appear at most once and
// before the first IDAT; tEXt chunks are unordered relative to each
// other. A decoder that does not understand any of these (this one
// included, on the read side) skips them as ancillary.
func writeMetadata(w io.Writer, m *Metadata) error {
	if m == nil {
		return nil
	}
	if m.Dimension != nil {
		if err := writePHYS(w, m.Dimension); err != nil {
			return err
		}
	}
	if m.LastModified != nil {
		if err := writeTIME(w, *m.LastModified); err != nil {
			return err
		}
	}
	for _, t := range m.Text {
		if err := writeTEXT(w, t); err != nil {
			return err
		}
	}
	return nil
}

func writePHYS(w io.Writer, d *PhysicalDimension) error {
	var data [9]byte
	binary.BigEndian.PutUint32(data[0:4], d.X)
	binary.BigEndian.PutUint32(data[4:8], d.Y)
	data[8] = d.Unit
	return writeChunk(w, chunkPHYS, data[:])
}

func writeTIME(w io.Writer, t time.Time) error {
	utc := t.UTC()
	var data [7]byte
	binary.BigEndian.PutUint16(data[0:2], uint16(utc.Year()))
	data[2] = byte(utc.Month())
	data[3] = byte(utc.Day())
	data[4] = byte(utc.Hour())
	data[5] = byte(utc.Minute())
	data[6] = byte(utc.Second())
	return writeChunk(w, chunkTIME, data[:])
}

func writeTEXT(w io.Writer, t TextEntry) error {
	if len(t.Key) == 0 || len(t.Key) > 79 {
		return errors.Wrapf(ErrInvalidColorConfig, "tEXt keyword length %d out of range", len(t.Key))
	}
	buf := make([]byte, len(t.Key)+1+len(t.Value))
	copy(buf, t.Key)
	buf[len(t.Key)] = 0
	copy(buf[len(t.Key)+1:], t.Value)
	return writeChunk(w, chunkTEXT, buf)
}
