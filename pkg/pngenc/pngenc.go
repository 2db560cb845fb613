// Package pngenc implements a minimal PNG encoder for RGBA8 images.
//
// Only encoding is provided, and only the layout the bake pipeline needs:
// 8-bit RGBA, no interlacing, filter type 0 on every scanline, a single
// IDAT chunk. The deflate stream and the CRC32 checksum are consumed
// capabilities; the package's own responsibility is byte-exact chunk
// framing and header encoding.
package pngenc

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/zlib"
)

// PNG encoding errors.
var (
	ErrInvalidDimensions = errors.New("width and height must be positive")
	ErrBufferSize        = errors.New("pixel buffer length must equal width*height*4")
)

// signature is the fixed 8-byte PNG file magic.
var signature = [8]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// IHDR field values for the one pixel layout this encoder emits.
const (
	bitDepth      = 8
	colorTypeRGBA = 6
	compressionZ  = 0
	filterNone    = 0
	interlaceNone = 0
)

// Encode serializes an RGBA8 buffer as a PNG byte stream.
func Encode(rgba []byte, width, height int) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeTo(&buf, rgba, width, height); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeTo serializes an RGBA8 buffer as a PNG stream into w.
// rgba must hold exactly width*height*4 bytes in row-major order.
func EncodeTo(w io.Writer, rgba []byte, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if len(rgba) != width*height*4 {
		return fmt.Errorf("%w: have %d, want %d", ErrBufferSize, len(rgba), width*height*4)
	}

	if _, err := w.Write(signature[:]); err != nil {
		return fmt.Errorf("writing signature: %w", err)
	}

	if err := writeChunk(w, "IHDR", headerPayload(width, height)); err != nil {
		return err
	}

	pixels, err := compressPixels(rgba, width, height)
	if err != nil {
		return err
	}
	if err := writeChunk(w, "IDAT", pixels); err != nil {
		return err
	}

	return writeChunk(w, "IEND", nil)
}

// headerPayload builds the 13-byte IHDR payload.
func headerPayload(width, height int) []byte {
	payload := make([]byte, 13)
	binary.BigEndian.PutUint32(payload[0:4], uint32(width))
	binary.BigEndian.PutUint32(payload[4:8], uint32(height))
	payload[8] = bitDepth
	payload[9] = colorTypeRGBA
	payload[10] = compressionZ
	payload[11] = filterNone
	payload[12] = interlaceNone
	return payload
}

// compressPixels prefixes each scanline with a filter-type byte of 0 and
// deflates the concatenation at maximum compression.
func compressPixels(rgba []byte, width, height int) ([]byte, error) {
	rowBytes := width * 4
	raw := make([]byte, 0, height*(rowBytes+1))
	for y := 0; y < height; y++ {
		raw = append(raw, filterNone)
		raw = append(raw, rgba[y*rowBytes:(y+1)*rowBytes]...)
	}

	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("creating compressor: %w", err)
	}
	if _, err := zw.Write(raw); err != nil {
		return nil, fmt.Errorf("compressing pixel data: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("flushing compressor: %w", err)
	}
	return buf.Bytes(), nil
}

// writeChunk frames a chunk: big-endian payload length, 4-byte ASCII type,
// payload, then CRC32 over type and payload.
func writeChunk(w io.Writer, chunkType string, payload []byte) error {
	var head [8]byte
	binary.BigEndian.PutUint32(head[0:4], uint32(len(payload)))
	copy(head[4:8], chunkType)
	if _, err := w.Write(head[:]); err != nil {
		return fmt.Errorf("writing %s header: %w", chunkType, err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("writing %s payload: %w", chunkType, err)
	}

	crc := crc32.NewIEEE()
	crc.Write(head[4:8])
	crc.Write(payload)
	var sum [4]byte
	binary.BigEndian.PutUint32(sum[:], crc.Sum32())
	if _, err := w.Write(sum[:]); err != nil {
		return fmt.Errorf("writing %s checksum: %w", chunkType, err)
	}
	return nil
}
