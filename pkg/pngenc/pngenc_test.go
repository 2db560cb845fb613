package pngenc

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/png"
	"testing"
)

// testPixels builds a deterministic opaque RGBA buffer.
func testPixels(width, height int) []byte {
	rgba := make([]byte, width*height*4)
	for i := 0; i < width*height; i++ {
		rgba[i*4] = byte(i * 7)
		rgba[i*4+1] = byte(i * 13)
		rgba[i*4+2] = byte(255 - i)
		rgba[i*4+3] = 255
	}
	return rgba
}

func TestEncodeRoundTrip(t *testing.T) {
	const width, height = 8, 8
	rgba := testPixels(width, height)

	data, err := Encode(rgba, width, height)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("standard decoder rejected output: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != width || bounds.Dy() != height {
		t.Fatalf("decoded size %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), width, height)
	}

	nrgba, ok := img.(*image.NRGBA)
	if !ok {
		t.Fatalf("decoded as %T, want *image.NRGBA for 8-bit RGBA", img)
	}
	for y := 0; y < height; y++ {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+width*4]
		if !bytes.Equal(row, rgba[y*width*4:(y+1)*width*4]) {
			t.Fatalf("row %d pixel bytes differ after round trip", y)
		}
	}
}

func TestEncodeStructure(t *testing.T) {
	const width, height = 4, 3
	data, err := Encode(testPixels(width, height), width, height)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if !bytes.HasPrefix(data, signature[:]) {
		t.Error("output does not start with the PNG signature")
	}

	// First chunk is IHDR with a 13-byte payload.
	if got := binary.BigEndian.Uint32(data[8:12]); got != 13 {
		t.Errorf("IHDR length = %d, want 13", got)
	}
	if got := string(data[12:16]); got != "IHDR" {
		t.Errorf("first chunk type = %q, want IHDR", got)
	}
	if got := binary.BigEndian.Uint32(data[16:20]); got != width {
		t.Errorf("IHDR width = %d, want %d", got, width)
	}
	if got := binary.BigEndian.Uint32(data[20:24]); got != height {
		t.Errorf("IHDR height = %d, want %d", got, height)
	}
	if data[24] != bitDepth || data[25] != colorTypeRGBA {
		t.Errorf("IHDR depth/color = %d/%d, want %d/%d", data[24], data[25], bitDepth, colorTypeRGBA)
	}
	if data[26] != 0 || data[27] != 0 || data[28] != 0 {
		t.Error("IHDR compression/filter/interlace must all be 0")
	}

	// The stream ends with an empty IEND chunk and its fixed checksum.
	tail := data[len(data)-12:]
	if got := binary.BigEndian.Uint32(tail[0:4]); got != 0 {
		t.Errorf("IEND length = %d, want 0", got)
	}
	if got := string(tail[4:8]); got != "IEND" {
		t.Errorf("last chunk type = %q, want IEND", got)
	}
	if got := binary.BigEndian.Uint32(tail[8:12]); got != 0xAE426082 {
		t.Errorf("IEND checksum = %#x, want 0xAE426082", got)
	}
}

func TestEncodeDeterministic(t *testing.T) {
	const width, height = 8, 8
	rgba := testPixels(width, height)

	first, err := Encode(rgba, width, height)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	second, err := Encode(rgba, width, height)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("two encodes of the same buffer produced different streams")
	}
}

func TestEncodeValidation(t *testing.T) {
	if _, err := Encode(make([]byte, 16), 0, 2); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("zero width error = %v, want ErrInvalidDimensions", err)
	}
	if _, err := Encode(make([]byte, 16), 2, -1); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("negative height error = %v, want ErrInvalidDimensions", err)
	}
	if _, err := Encode(make([]byte, 15), 2, 2); !errors.Is(err, ErrBufferSize) {
		t.Errorf("short buffer error = %v, want ErrBufferSize", err)
	}
}
