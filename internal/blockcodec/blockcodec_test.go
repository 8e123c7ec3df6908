package blockcodec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payload(n int, compressible bool) []byte {
	data := make([]byte, n)
	if compressible {
		for i := range data {
			data[i] = byte(i % 7)
		}
		return data
	}
	rng := rand.New(rand.NewSource(int64(n)))
	_, _ = rng.Read(data)
	return data
}

func TestStreamRoundTrip(t *testing.T) {
	for _, c := range []Compression{None, LZ4, ZSTD} {
		for _, compressible := range []bool{true, false} {
			t.Run(c.String(), func(t *testing.T) {
				data := payload(3*1000+17, compressible)

				var buf bytes.Buffer
				w := NewWriter(&buf, c, 1000)
				n, err := w.Write(data)
				require.NoError(t, err)
				require.Equal(t, len(data), n)
				require.NoError(t, w.Flush())
				assert.Equal(t, int64(buf.Len()), w.BytesWritten())

				// A trailer after the blocks must stay unread.
				buf.WriteString("tail")

				r := NewReader(&buf, c, 0)
				got := make([]byte, len(data))
				_, err = io.ReadFull(r, got)
				require.NoError(t, err)
				assert.Equal(t, data, got)
				assert.Equal(t, "tail", buf.String())
			})
		}
	}
}

func TestCompressibleBlocksShrink(t *testing.T) {
	data := payload(DefaultBlockSize, true)
	for _, c := range []Compression{LZ4, ZSTD} {
		var buf bytes.Buffer
		w := NewWriter(&buf, c, 0)
		_, err := w.Write(data)
		require.NoError(t, err)
		require.NoError(t, w.Flush())
		assert.Less(t, buf.Len(), len(data)/2, c.String())
	}
}

func TestIncompressibleBlocksStoredRaw(t *testing.T) {
	data := payload(4096, false)
	var buf bytes.Buffer
	w := NewWriter(&buf, ZSTD, 0)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Flush())

	raw := buf.Bytes()
	assert.Equal(t, uint32(len(data)), binary.LittleEndian.Uint32(raw[0:]))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(raw[4:]))
	assert.Equal(t, data, raw[headerSize:])
}

func TestReaderRejectsCorruption(t *testing.T) {
	t.Run("oversized header", func(t *testing.T) {
		var hdr [headerSize]byte
		binary.LittleEndian.PutUint32(hdr[0:], MaxBlockSize+1)
		_, err := NewReader(bytes.NewReader(hdr[:]), None, 0).ReadBlock()
		assert.ErrorIs(t, err, ErrCorruptBlock)
	})

	t.Run("truncated header", func(t *testing.T) {
		_, err := NewReader(bytes.NewReader([]byte{1, 2, 3}), None, 0).ReadBlock()
		assert.ErrorIs(t, err, ErrCorruptBlock)
	})

	t.Run("truncated payload", func(t *testing.T) {
		var hdr [headerSize]byte
		binary.LittleEndian.PutUint32(hdr[0:], 100)
		_, err := NewReader(bytes.NewReader(hdr[:]), None, 0).ReadBlock()
		assert.ErrorIs(t, err, ErrCorruptBlock)
	})

	t.Run("garbage lz4", func(t *testing.T) {
		var buf bytes.Buffer
		var hdr [headerSize]byte
		binary.LittleEndian.PutUint32(hdr[0:], 1000)
		binary.LittleEndian.PutUint32(hdr[4:], 16)
		buf.Write(hdr[:])
		buf.Write(bytes.Repeat([]byte{0xff}, 16))
		_, err := NewReader(&buf, LZ4, 0).ReadBlock()
		assert.ErrorIs(t, err, ErrCorruptBlock)
	})

	t.Run("clean EOF", func(t *testing.T) {
		_, err := NewReader(bytes.NewReader(nil), None, 0).ReadBlock()
		assert.True(t, errors.Is(err, io.EOF))
	})
}

func TestParseCompression(t *testing.T) {
	for _, c := range []Compression{None, LZ4, ZSTD} {
		got, err := ParseCompression(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
		assert.True(t, c.Valid())
	}
	_, err := ParseCompression("brotli")
	assert.ErrorIs(t, err, ErrUnknownCompression)
	assert.False(t, Compression(9).Valid())
}

func TestChecksum(t *testing.T) {
	var buf bytes.Buffer
	cw := NewChecksumWriter(&buf)
	_, err := cw.Write([]byte("state vector"))
	require.NoError(t, err)

	cr := NewChecksumReader(&buf)
	_, err = io.ReadAll(cr)
	require.NoError(t, err)
	require.NoError(t, cr.Verify(cw.Sum()))

	var mismatch *ChecksumMismatchError
	require.ErrorAs(t, cr.Verify(cw.Sum()+1), &mismatch)
	assert.Equal(t, cw.Sum(), mismatch.Actual)
}
