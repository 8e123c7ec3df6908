package blockcodec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Writer buffers data and writes it as framed blocks.
type Writer struct {
	w           io.Writer
	compression Compression
	blockSize   int
	buffer      *bytes.Buffer
	frame       []byte
	written     int64
}

// NewWriter creates a block writer. blockSize <= 0 selects
// DefaultBlockSize.
func NewWriter(w io.Writer, c Compression, blockSize int) *Writer {
	if blockSize <= 0 || blockSize > MaxBlockSize {
		blockSize = DefaultBlockSize
	}
	return &Writer{
		w:           w,
		compression: c,
		blockSize:   blockSize,
		buffer:      bytes.NewBuffer(make([]byte, 0, blockSize)),
	}
}

// Write writes data to the buffer, flushing blocks as needed.
func (c *Writer) Write(p []byte) (int, error) {
	total := 0
	for len(p) > 0 {
		space := c.blockSize - c.buffer.Len()
		if space <= 0 {
			if err := c.Flush(); err != nil {
				return total, err
			}
			space = c.blockSize
		}

		toWrite := min(len(p), space)

		n, err := c.buffer.Write(p[:toWrite])
		if err != nil {
			return total, err
		}
		total += n
		p = p[n:]
	}
	return total, nil
}

// Flush compresses and writes the buffered block, if any.
func (c *Writer) Flush() error {
	if c.buffer.Len() == 0 {
		return nil
	}

	frame, err := encodeBlock(c.frame[:0], c.buffer.Bytes(), c.compression)
	if err != nil {
		return err
	}
	c.frame = frame

	n, err := c.w.Write(frame)
	c.written += int64(n)
	if err != nil {
		return err
	}
	c.buffer.Reset()
	return nil
}

// BytesWritten returns the total framed bytes written.
func (c *Writer) BytesWritten() int64 {
	return c.written
}

// Reader decodes framed blocks from an underlying reader. It never reads
// past the end of the block it is currently serving.
type Reader struct {
	r           io.Reader
	compression Compression
	maxBlock    int
	payload     []byte
	block       []byte
	cur         []byte
}

// NewReader creates a block reader. maxBlock <= 0 selects MaxBlockSize.
func NewReader(r io.Reader, c Compression, maxBlock int) *Reader {
	if maxBlock <= 0 || maxBlock > MaxBlockSize {
		maxBlock = MaxBlockSize
	}
	return &Reader{
		r:           r,
		compression: c,
		maxBlock:    maxBlock,
	}
}

// Read implements io.Reader over the decoded stream.
func (c *Reader) Read(p []byte) (int, error) {
	for len(c.cur) == 0 {
		block, err := c.ReadBlock()
		if err != nil {
			return 0, err
		}
		c.cur = block
	}

	n := copy(p, c.cur)
	c.cur = c.cur[n:]
	return n, nil
}

// ReadBlock reads and decodes the next block. It returns io.EOF at a clean
// block boundary. The returned slice is valid until the next call.
func (c *Reader) ReadBlock() ([]byte, error) {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(c.r, hdr[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: truncated header", ErrCorruptBlock)
		}
		return nil, err
	}

	size := int(binary.LittleEndian.Uint32(hdr[0:]))
	csize := int(binary.LittleEndian.Uint32(hdr[4:]))

	if size > c.maxBlock || csize > c.maxBlock {
		return nil, fmt.Errorf("%w: block of %d/%d bytes exceeds %d", ErrCorruptBlock, size, csize, c.maxBlock)
	}

	if cap(c.block) < size {
		c.block = make([]byte, size)
	}

	if csize == 0 {
		block := c.block[:size]
		if _, err := io.ReadFull(c.r, block); err != nil {
			return nil, fmt.Errorf("%w: truncated payload: %w", ErrCorruptBlock, err)
		}
		return block, nil
	}

	if cap(c.payload) < csize {
		c.payload = make([]byte, csize)
	}
	payload := c.payload[:csize]
	if _, err := io.ReadFull(c.r, payload); err != nil {
		return nil, fmt.Errorf("%w: truncated payload: %w", ErrCorruptBlock, err)
	}

	return decodeBlock(c.block, payload, size, c.compression)
}
