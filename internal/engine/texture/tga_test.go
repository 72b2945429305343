package texture

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tgaFile(imageType byte, w, h, bpp int, descriptor byte, body ...byte) []byte {
	hdr := make([]byte, tgaHeaderSize)
	hdr[2] = imageType
	hdr[12], hdr[13] = byte(w), byte(w>>8)
	hdr[14], hdr[15] = byte(h), byte(h>>8)
	hdr[16] = byte(bpp)
	hdr[17] = descriptor
	return append(hdr, body...)
}

func TestDecodeTGAUncompressed(t *testing.T) {
	// 2x2 BGR, stored bottom row first.
	data := tgaFile(TGATypeUncompressed, 2, 2, 24, 0,
		255, 0, 0, 0, 255, 0, // bottom: blue, green
		0, 0, 255, 255, 255, 255, // top: red, white
	)
	img, err := DecodeTGA(bytes.NewReader(data))
	require.NoError(t, err)

	nrgba, ok := img.(*image.NRGBA)
	require.True(t, ok)
	assert.Equal(t, color.NRGBA{255, 0, 0, 255}, nrgba.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, nrgba.NRGBAAt(1, 0))
	assert.Equal(t, color.NRGBA{0, 0, 255, 255}, nrgba.NRGBAAt(0, 1))
	assert.Equal(t, color.NRGBA{0, 255, 0, 255}, nrgba.NRGBAAt(1, 1))
}

func TestDecodeTGATopToBottomAlpha(t *testing.T) {
	data := tgaFile(TGATypeUncompressed, 1, 2, 32, 0x20,
		0, 0, 255, 128, // top
		255, 0, 0, 0, // bottom
	)
	img, err := DecodeTGA(bytes.NewReader(data))
	require.NoError(t, err)

	nrgba := img.(*image.NRGBA)
	assert.Equal(t, color.NRGBA{255, 0, 0, 128}, nrgba.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{0, 0, 255, 0}, nrgba.NRGBAAt(0, 1))
	assert.False(t, nrgba.Opaque())
}

func TestDecodeTGARLE(t *testing.T) {
	// Run of 3 red pixels, then one raw green pixel.
	data := tgaFile(TGATypeRLE, 4, 1, 24, 0x20,
		0x82, 0, 0, 255,
		0x00, 0, 255, 0,
	)
	img, err := DecodeTGA(bytes.NewReader(data))
	require.NoError(t, err)

	nrgba := img.(*image.NRGBA)
	for x := 0; x < 3; x++ {
		assert.Equal(t, color.NRGBA{255, 0, 0, 255}, nrgba.NRGBAAt(x, 0))
	}
	assert.Equal(t, color.NRGBA{0, 255, 0, 255}, nrgba.NRGBAAt(3, 0))
}

func TestDecodeTGAGray(t *testing.T) {
	data := tgaFile(TGATypeRLEGray, 3, 1, 8, 0x20, 0x81, 7, 0x00, 9)
	img, err := DecodeTGA(bytes.NewReader(data))
	require.NoError(t, err)

	gray, ok := img.(*image.Gray)
	require.True(t, ok)
	assert.Equal(t, []uint8{7, 7, 9}, gray.Pix)
}

func TestDecodeTGAErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"short header", []byte{0, 0, 2}, "header"},
		{"color mapped", append([]byte{0, 1}, make([]byte, 16)...), "color-mapped"},
		{"bad type", tgaFile(1, 1, 1, 8, 0), "image type"},
		{"bad depth", tgaFile(TGATypeUncompressed, 1, 1, 16, 0, 0, 0), "depth"},
		{"truncated", tgaFile(TGATypeUncompressed, 2, 2, 24, 0, 1, 2, 3), "truncated"},
		{"truncated rle", tgaFile(TGATypeRLE, 2, 1, 24, 0, 0x81, 1), "truncated"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeTGA(bytes.NewReader(tt.data))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestTGARegisteredWithImage(t *testing.T) {
	data := tgaFile(TGATypeUncompressed, 1, 1, 24, 0, 1, 2, 3)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "tga", format)
	assert.Equal(t, 1, cfg.Width)

	img, format, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "tga", format)
	assert.Equal(t, color.NRGBA{3, 2, 1, 255}, img.(*image.NRGBA).NRGBAAt(0, 0))
}
