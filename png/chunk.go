// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package png

import (
	"encoding/binary"
	"hash/crc32"
	"io"

	"github.com/pkg/errors"
)

// validChunkTypeByte reports whether b is one of [A-Za-z], the only
// bytes the PNG spec permits in a chunk type.
func validChunkTypeByte(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func validChunkType(name string) bool {
	if len(name) != 4 {
		return false
	}
	for i := 0; i < 4; i++ {
		if !validChunkTypeByte(name[i]) {
			return false
		}
	}
	return true
}

// isAncillary reports whether a chunk type's first byte is lowercase,
// meaning a decoder may ignore it.
func isAncillary(name string) bool {
	return name[0] >= 'a' && name[0] <= 'z'
}

// writeChunk frames one length-type-data-CRC record and writes it to w.
func writeChunk(w io.Writer, name string, data []byte) error {
	if !validChunkType(name) {
		return errors.Wrapf(ErrInvalidChunkType, "chunk type %q", name)
	}
	var header [8]byte
	binary.BigEndian.PutUint32(header[0:4], uint32(len(data)))
	copy(header[4:8], name)

	if _, err := w.Write(header[:]); err != nil {
		return errors.Wrap(err, "write chunk header")
	}
	if len(data) > 0 {
		if _, err := w.Write(data); err != nil {
			return errors.Wrap(err, "write chunk data")
		}
	}

	crc := crc32.NewIEEE()
	crc.Write(header[4:8])
	crc.Write(data)
	var footer [4]byte
	binary.BigEndian.PutUint32(footer[:], crc.Sum32())
	if _, err := w.Write(footer[:]); err != nil {
		return errors.Wrap(err, "write chunk crc")
	}
	return nil
}

// rawChunk is one parsed length-type-data-CRC record, prior to any
// semantic interpretation.
type rawChunk struct {
	name string
	data []byte
}

// readChunk reads and CRC-validates one chunk from r. Short reads are
// reported as ErrTruncatedStream, not surfaced as io.EOF, since a valid
// PNG stream never ends mid-chunk.
func readChunk(r io.Reader) (rawChunk, error) {
	var header [8]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return rawChunk{}, wrapTruncated(err)
	}
	length := binary.BigEndian.Uint32(header[0:4])
	if length > 1<<31-1 {
		return rawChunk{}, errors.Wrap(ErrInvalidColorConfig, "chunk length exceeds 2^31-1")
	}
	name := string(header[4:8])
	if !validChunkType(name) {
		return rawChunk{}, errors.Wrapf(ErrInvalidChunkType, "chunk type %q", name)
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return rawChunk{}, wrapTruncated(err)
	}

	var footer [4]byte
	if _, err := io.ReadFull(r, footer[:]); err != nil {
		return rawChunk{}, wrapTruncated(err)
	}
	wantCRC := binary.BigEndian.Uint32(footer[:])

	crc := crc32.NewIEEE()
	crc.Write(header[4:8])
	crc.Write(data)
	if crc.Sum32() != wantCRC {
		return rawChunk{}, errors.Wrapf(ErrBadCrc, "chunk %q", name)
	}

	return rawChunk{name: name, data: data}, nil
}

func wrapTruncated(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return errors.Wrap(ErrTruncatedStream, err.Error())
	}
	return errors.Wrap(err, "read chunk")
}
