// Package blockcodec frames a byte stream into independently compressed
// blocks and checksums it.
//
// Each block is an 8-byte header followed by its payload:
//
//	[UncompressedSize uint32][CompressedSize uint32][Data...]
//
// A CompressedSize of 0 marks a block stored raw. Blocks that do not shrink
// below 90% of their input are stored raw.
package blockcodec
