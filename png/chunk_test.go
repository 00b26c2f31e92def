package png

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestWriteChunkRejectsBadType(t *testing.T) {
	var buf bytes.Buffer
	err := writeChunk(&buf, "1HDR", []byte("x"))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidChunkType))
}

func TestReadChunkRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeChunk(&buf, "tEXt", []byte("hello")))

	c, err := readChunk(&buf)
	require.NoError(t, err)
	require.Equal(t, "tEXt", c.name)
	require.Equal(t, []byte("hello"), c.data)
}

func TestReadChunkDetectsBadCRC(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeChunk(&buf, "IDAT", []byte{1, 2, 3, 4}))

	b := buf.Bytes()
	// Flip every bit of the first payload byte without touching the
	// stored CRC.
	b[8] ^= 0xFF

	_, err := readChunk(bytes.NewReader(b))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrBadCrc))
}

func TestIsAncillary(t *testing.T) {
	require.True(t, isAncillary("tEXt"))
	require.False(t, isAncillary("IDAT"))
}
