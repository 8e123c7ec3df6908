package blockcodec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression defines the compression algorithm used.
type Compression uint8

const (
	// None stores blocks raw.
	None Compression = 0
	// LZ4 indicates LZ4 block compression (fast).
	LZ4 Compression = 1
	// ZSTD indicates ZSTD block compression (better ratio).
	ZSTD Compression = 2
)

const (
	// DefaultBlockSize is the uncompressed size of a full block.
	DefaultBlockSize = 256 * 1024

	// MaxBlockSize bounds the block sizes a Reader accepts.
	MaxBlockSize = 16 << 20

	headerSize = 8
)

var (
	// ErrCorruptBlock is returned for malformed block framing or payloads.
	ErrCorruptBlock = errors.New("blockcodec: corrupt block")

	// ErrUnknownCompression is returned for an unsupported algorithm id.
	ErrUnknownCompression = errors.New("blockcodec: unknown compression")
)

func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case ZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// Valid reports whether c is a known algorithm.
func (c Compression) Valid() bool {
	return c <= ZSTD
}

// ParseCompression maps "none", "lz4" or "zstd" to a Compression.
func ParseCompression(s string) (Compression, error) {
	switch s {
	case "", "none":
		return None, nil
	case "lz4":
		return LZ4, nil
	case "zstd":
		return ZSTD, nil
	default:
		return None, fmt.Errorf("%w: %q", ErrUnknownCompression, s)
	}
}

// ZSTD encoder/decoder pools for efficiency
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func putZstdEncoder(enc *zstd.Encoder) {
	zstdEncoderPool.Put(enc)
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(MaxBlockSize))
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

// encodeBlock appends the framed block for data to dst.
func encodeBlock(dst, data []byte, c Compression) ([]byte, error) {
	var compressed []byte

	switch c {
	case LZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		compressed = buf[:n]
	case ZSTD:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		putZstdEncoder(enc)
	}

	var hdr [headerSize]byte
	binary.LittleEndian.PutUint32(hdr[0:], uint32(len(data))) //nolint:gosec // bounded by block size

	// If compression doesn't help (ratio > 0.9), store raw.
	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		dst = append(dst, hdr[:]...)
		return append(dst, data...), nil
	}

	binary.LittleEndian.PutUint32(hdr[4:], uint32(len(compressed))) //nolint:gosec // bounded by block size
	dst = append(dst, hdr[:]...)
	return append(dst, compressed...), nil
}

// decodeBlock decompresses payload into dst[:size].
func decodeBlock(dst, payload []byte, size int, c Compression) ([]byte, error) {
	dst = dst[:size]

	switch c {
	case LZ4:
		n, err := lz4.UncompressBlock(payload, dst)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptBlock, err)
		}
		if n != size {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorruptBlock)
		}
		return dst, nil

	case ZSTD:
		dec := getZstdDecoder()
		defer putZstdDecoder(dec)

		decoded, err := dec.DecodeAll(payload, dst[:0])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptBlock, err)
		}
		if len(decoded) != size {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorruptBlock)
		}
		return decoded, nil

	default:
		return nil, fmt.Errorf("%w: compressed block with %s", ErrCorruptBlock, c)
	}
}
