// Package texture decodes image files and uploads them as GPU textures.
package texture

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
)

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeGray         = 3  // Uncompressed grayscale
	TGATypeRLE          = 10 // RLE compressed true-color
	TGATypeRLEGray      = 11 // RLE compressed grayscale
)

const tgaHeaderSize = 18

func init() {
	// TGA has no signature; match "no color map" plus a supported type.
	for _, t := range []byte{TGATypeUncompressed, TGATypeGray, TGATypeRLE, TGATypeRLEGray} {
		image.RegisterFormat("tga", "?\x00"+string(t), DecodeTGA, DecodeTGAConfig)
	}
}

var errTGATruncated = errors.New("tga: pixel data truncated")

type tgaHeader struct {
	idLength    int
	imageType   byte
	width       int
	height      int
	bpp         int
	topToBottom bool
}

func readTGAHeader(r io.Reader) (tgaHeader, error) {
	var b [tgaHeaderSize]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return tgaHeader{}, fmt.Errorf("tga: reading header: %w", err)
	}
	h := tgaHeader{
		idLength:  int(b[0]),
		imageType: b[2],
		width:     int(b[12]) | int(b[13])<<8,
		height:    int(b[14]) | int(b[15])<<8,
		bpp:       int(b[16]),
		// Bit 5 of the descriptor selects top-to-bottom row order.
		topToBottom: b[17]&0x20 != 0,
	}

	if b[1] != 0 {
		return h, errors.New("tga: color-mapped images not supported")
	}
	switch h.imageType {
	case TGATypeUncompressed, TGATypeRLE:
		if h.bpp != 24 && h.bpp != 32 {
			return h, fmt.Errorf("tga: unsupported true-color depth %d", h.bpp)
		}
	case TGATypeGray, TGATypeRLEGray:
		if h.bpp != 8 {
			return h, fmt.Errorf("tga: unsupported grayscale depth %d", h.bpp)
		}
	default:
		return h, fmt.Errorf("tga: unsupported image type %d", h.imageType)
	}
	return h, nil
}

// DecodeTGAConfig returns the dimensions and color model of a TGA image.
func DecodeTGAConfig(r io.Reader) (image.Config, error) {
	h, err := readTGAHeader(r)
	if err != nil {
		return image.Config{}, err
	}
	model := color.NRGBAModel
	if h.bpp == 8 {
		model = color.GrayModel
	}
	return image.Config{ColorModel: model, Width: h.width, Height: h.height}, nil
}

// DecodeTGA decodes uncompressed and RLE compressed true-color and
// grayscale TGA images. True-color images decode to *image.NRGBA since
// TGA alpha is not premultiplied; grayscale ones to *image.Gray.
func DecodeTGA(r io.Reader) (image.Image, error) {
	br := bufio.NewReader(r)
	h, err := readTGAHeader(br)
	if err != nil {
		return nil, err
	}
	if _, err := br.Discard(h.idLength); err != nil {
		return nil, errTGATruncated
	}

	bytesPerPixel := h.bpp / 8
	src := make([]byte, h.width*h.height*bytesPerPixel)
	switch h.imageType {
	case TGATypeUncompressed, TGATypeGray:
		if _, err := io.ReadFull(br, src); err != nil {
			return nil, errTGATruncated
		}
	default:
		if err := readTGARLE(br, src, bytesPerPixel); err != nil {
			return nil, err
		}
	}

	rect := image.Rect(0, 0, h.width, h.height)
	if bytesPerPixel == 1 {
		img := image.NewGray(rect)
		for y := 0; y < h.height; y++ {
			copy(img.Pix[img.PixOffset(0, h.destRow(y)):], src[y*h.width:(y+1)*h.width])
		}
		return img, nil
	}

	img := image.NewNRGBA(rect)
	for y := 0; y < h.height; y++ {
		row := img.Pix[img.PixOffset(0, h.destRow(y)):]
		for x := 0; x < h.width; x++ {
			// Pixels are stored BGR(A).
			s := src[(y*h.width+x)*bytesPerPixel:]
			d := row[x*4 : x*4+4]
			d[0], d[1], d[2], d[3] = s[2], s[1], s[0], 0xFF
			if bytesPerPixel == 4 {
				d[3] = s[3]
			}
		}
	}
	return img, nil
}

// destRow maps a stored row to an image row; TGA stores bottom-up by default.
func (h tgaHeader) destRow(y int) int {
	if h.topToBottom {
		return y
	}
	return h.height - 1 - y
}

// readTGARLE expands run-length packets into dst. A packet header's high
// bit marks a run of one repeated pixel; otherwise raw pixels follow.
func readTGARLE(r *bufio.Reader, dst []byte, bytesPerPixel int) error {
	pixel := make([]byte, bytesPerPixel)
	for off := 0; off < len(dst); {
		packet, err := r.ReadByte()
		if err != nil {
			return errTGATruncated
		}
		count := int(packet&0x7F) + 1
		n := min(count*bytesPerPixel, len(dst)-off)

		if packet&0x80 != 0 {
			if _, err := io.ReadFull(r, pixel); err != nil {
				return errTGATruncated
			}
			for i := 0; i < n; i += bytesPerPixel {
				copy(dst[off+i:], pixel)
			}
		} else if _, err := io.ReadFull(r, dst[off:off+n]); err != nil {
			return errTGATruncated
		}
		off += n
	}
	return nil
}
