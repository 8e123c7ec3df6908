package qsimd

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/hupe1980/qsimd/internal/blockcodec"
	"github.com/hupe1980/qsimd/internal/conv"
	"github.com/hupe1980/qsimd/internal/simd"
	"github.com/hupe1980/qsimd/resource"
)

// Snapshot layout (little endian):
//
//	[Magic "QSV1"][Version uint16][Compression uint8][Reserved uint8]
//	[NumQubits uint32][BlockSize uint32]
//	[blocks of 2^n (re, im) float32 pairs in natural amplitude order]
//	[CRC32 of the decoded amplitude bytes uint32]
const (
	snapshotMagic      = "QSV1"
	snapshotVersion    = 1
	snapshotHeaderSize = 16

	// snapshotChunkAmps is the number of amplitudes encoded per write.
	snapshotChunkAmps = 4096
)

// Compression selects the snapshot block compression.
type Compression = blockcodec.Compression

const (
	CompressionNone = blockcodec.None
	CompressionLZ4  = blockcodec.LZ4
	CompressionZSTD = blockcodec.ZSTD
)

// ParseCompression maps "none", "lz4" or "zstd" to a Compression.
func ParseCompression(s string) (Compression, error) {
	c, err := blockcodec.ParseCompression(s)
	if err != nil {
		return c, fmt.Errorf("%w: %w", ErrUnsupported, err)
	}
	return c, nil
}

type saveOptions struct {
	compression Compression
	blockSize   int
}

// SaveOption configures SaveState.
type SaveOption func(*saveOptions)

// WithCompression selects the block compression. Default: LZ4.
func WithCompression(c Compression) SaveOption {
	return func(o *saveOptions) {
		o.compression = c
	}
}

// WithBlockSize sets the uncompressed block size in bytes. Values outside
// (0, 16 MiB] select the 256 KiB default.
func WithBlockSize(n int) SaveOption {
	return func(o *saveOptions) {
		o.blockSize = n
	}
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// SaveState writes a self-describing snapshot of st to w. Writes are
// throttled by the resource controller's IO limit.
func (s *Simulator) SaveState(ctx context.Context, w io.Writer, st *State, opts ...SaveOption) error {
	start := time.Now()
	n := -1
	if st != nil {
		n = st.numQubits
	}

	written, err := s.saveState(ctx, w, st, opts)
	err = translateError(err)

	s.metrics.RecordSnapshot("save", written, time.Since(start), err)
	s.logger.LogSnapshot(ctx, "save", n, written, err)
	return err
}

func (s *Simulator) saveState(ctx context.Context, w io.Writer, st *State, optFns []SaveOption) (int64, error) {
	if err := validateState(st); err != nil {
		return 0, err
	}

	o := saveOptions{compression: CompressionLZ4, blockSize: blockcodec.DefaultBlockSize}
	for _, fn := range optFns {
		fn(&o)
	}
	if !o.compression.Valid() {
		return 0, fmt.Errorf("%w: snapshot %s", ErrUnsupported, o.compression)
	}
	if o.blockSize <= 0 || o.blockSize > blockcodec.MaxBlockSize {
		o.blockSize = blockcodec.DefaultBlockSize
	}

	if err := s.rc.AcquireSnapshot(ctx); err != nil {
		return 0, err
	}
	defer s.rc.ReleaseSnapshot()

	cw := &countingWriter{w: resource.NewRateLimitedWriter(w, s.rc, ctx)}

	nq, err := conv.IntToUint32(st.numQubits)
	if err != nil {
		return 0, err
	}
	bs, err := conv.IntToUint32(o.blockSize)
	if err != nil {
		return 0, err
	}

	var hdr [snapshotHeaderSize]byte
	copy(hdr[0:4], snapshotMagic)
	binary.LittleEndian.PutUint16(hdr[4:], snapshotVersion)
	hdr[6] = byte(o.compression)
	binary.LittleEndian.PutUint32(hdr[8:], nq)
	binary.LittleEndian.PutUint32(hdr[12:], bs)
	if _, err := cw.Write(hdr[:]); err != nil {
		return cw.n, err
	}

	bw := blockcodec.NewWriter(cw, o.compression, o.blockSize)
	sum := blockcodec.NewChecksumWriter(bw)

	buf := make([]byte, 8*snapshotChunkAmps)
	size := st.Size()
	for a0 := uint64(0); a0 < size; a0 += snapshotChunkAmps {
		if err := ctx.Err(); err != nil {
			return cw.n, err
		}
		end := min(a0+snapshotChunkAmps, size)
		chunk := buf[:8*(end-a0)]
		for a := a0; a < end; a++ {
			p := offset(a)
			k := 8 * (a - a0)
			binary.LittleEndian.PutUint32(chunk[k:], math.Float32bits(st.data[p]))
			binary.LittleEndian.PutUint32(chunk[k+4:], math.Float32bits(st.data[p+simd.Lanes]))
		}
		if _, err := sum.Write(chunk); err != nil {
			return cw.n, err
		}
	}

	if err := bw.Flush(); err != nil {
		return cw.n, err
	}

	var trailer [4]byte
	binary.LittleEndian.PutUint32(trailer[:], sum.Sum())
	_, err = cw.Write(trailer[:])
	return cw.n, err
}

// LoadState reads a snapshot written by SaveState into a new state. The state
// is charged to the resource controller like NewState.
func (s *Simulator) LoadState(ctx context.Context, r io.Reader) (*State, error) {
	start := time.Now()

	st, read, err := s.loadState(ctx, r)
	err = translateError(err)

	n := -1
	if st != nil {
		n = st.numQubits
	}
	s.metrics.RecordSnapshot("load", read, time.Since(start), err)
	s.logger.LogSnapshot(ctx, "load", n, read, err)
	return st, err
}

func (s *Simulator) loadState(ctx context.Context, r io.Reader) (*State, int64, error) {
	if err := s.rc.AcquireSnapshot(ctx); err != nil {
		return nil, 0, err
	}
	defer s.rc.ReleaseSnapshot()

	cr := &countingReader{r: resource.NewRateLimitedReader(r, s.rc, ctx)}

	var hdr [snapshotHeaderSize]byte
	if _, err := io.ReadFull(cr, hdr[:]); err != nil {
		return nil, cr.n, fmt.Errorf("%w: header: %w", ErrCorruptSnapshot, err)
	}
	if !bytes.Equal(hdr[0:4], []byte(snapshotMagic)) {
		return nil, cr.n, fmt.Errorf("%w: bad magic %q", ErrCorruptSnapshot, hdr[0:4])
	}
	if v := binary.LittleEndian.Uint16(hdr[4:]); v != snapshotVersion {
		return nil, cr.n, fmt.Errorf("%w: unsupported version %d", ErrCorruptSnapshot, v)
	}
	compression := Compression(hdr[6])
	if !compression.Valid() {
		return nil, cr.n, fmt.Errorf("%w: unknown compression %d", ErrCorruptSnapshot, hdr[6])
	}
	n, err := conv.Uint32ToInt(binary.LittleEndian.Uint32(hdr[8:]))
	if err != nil || n > MaxQubits {
		return nil, cr.n, fmt.Errorf("%w: qubit count %d", ErrCorruptSnapshot, binary.LittleEndian.Uint32(hdr[8:]))
	}
	if n > s.maxLoadQubits {
		return nil, cr.n, fmt.Errorf("%w: %w: qubit count %d exceeds load limit %d", ErrCorruptSnapshot, ErrTooManyQubits, n, s.maxLoadQubits)
	}
	blockSize, err := conv.Uint32ToInt(binary.LittleEndian.Uint32(hdr[12:]))
	if err != nil || blockSize <= 0 || blockSize > blockcodec.MaxBlockSize {
		return nil, cr.n, fmt.Errorf("%w: block size %d", ErrCorruptSnapshot, binary.LittleEndian.Uint32(hdr[12:]))
	}

	sum := blockcodec.NewChecksumReader(blockcodec.NewReader(cr, compression, blockSize))

	// The first chunk is decoded before the state is allocated, so a
	// header without amplitude data never costs a full allocation.
	buf := make([]byte, 8*min(uint64(1)<<uint(n), snapshotChunkAmps))
	if _, err := io.ReadFull(sum, buf); err != nil {
		return nil, cr.n, fmt.Errorf("%w: amplitudes: %w", ErrCorruptSnapshot, err)
	}

	st, stateBytes, err := allocState(n, s.exec, s.rc)
	s.metrics.RecordStateAlloc(n, stateBytes, err)
	if err != nil {
		return nil, cr.n, err
	}

	if err := decodeAmplitudes(ctx, st, cr, sum, buf); err != nil {
		st.Release()
		return nil, cr.n, err
	}
	return st, cr.n, nil
}

// decodeAmplitudes fills st from sum. buf holds the already decoded first
// chunk; the CRC trailer follows the last block on r.
func decodeAmplitudes(ctx context.Context, st *State, r io.Reader, sum *blockcodec.ChecksumReader, buf []byte) error {
	size := st.Size()
	for a0 := uint64(0); a0 < size; a0 += snapshotChunkAmps {
		end := min(a0+snapshotChunkAmps, size)
		chunk := buf[:8*(end-a0)]
		if a0 > 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, err := io.ReadFull(sum, chunk); err != nil {
				return fmt.Errorf("%w: amplitudes: %w", ErrCorruptSnapshot, err)
			}
		}
		for a := a0; a < end; a++ {
			p := offset(a)
			k := 8 * (a - a0)
			st.data[p] = math.Float32frombits(binary.LittleEndian.Uint32(chunk[k:]))
			st.data[p+simd.Lanes] = math.Float32frombits(binary.LittleEndian.Uint32(chunk[k+4:]))
		}
	}

	var trailer [4]byte
	if _, err := io.ReadFull(r, trailer[:]); err != nil {
		return fmt.Errorf("%w: trailer: %w", ErrCorruptSnapshot, err)
	}
	return sum.Verify(binary.LittleEndian.Uint32(trailer[:]))
}
