package texture

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // GIF decoder registration
	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp" // BMP decoder registration
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // TIFF decoder registration
	_ "golang.org/x/image/webp" // WebP decoder registration

	"github.com/Faultbox/mappingtool/internal/engine/renderer"
	"github.com/Faultbox/mappingtool/internal/logger"
)

// Decode decodes image data. TGA is selected by file extension because
// the format has no reliable signature; everything else is sniffed.
func Decode(data []byte, name string) (image.Image, error) {
	if strings.EqualFold(filepath.Ext(name), ".tga") {
		return DecodeTGA(bytes.NewReader(data))
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}

// ToImage converts a decoded image to upload layout. Fully opaque images
// become 3-channel RGB; anything with transparency keeps its alpha.
// Images larger than maxSize on either side are scaled down to fit,
// preserving the aspect ratio. maxSize <= 0 disables scaling.
func ToImage(src image.Image, maxSize int) *renderer.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSize > 0 && (w > maxSize || h > maxSize) {
		if w >= h {
			w, h = maxSize, max(1, h*maxSize/w)
		} else {
			w, h = max(1, w*maxSize/h), maxSize
		}
	}

	nrgba, ok := src.(*image.NRGBA)
	if !ok || w != b.Dx() || h != b.Dy() || b.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, w, h))
		if w == b.Dx() && h == b.Dy() {
			draw.Draw(nrgba, nrgba.Bounds(), src, b.Min, draw.Src)
		} else {
			draw.CatmullRom.Scale(nrgba, nrgba.Bounds(), src, b, draw.Src, nil)
		}
	}

	if !nrgba.Opaque() {
		return &renderer.Image{Width: w, Height: h, Channels: 4, Pix: nrgba.Pix}
	}

	rgb := make([]byte, 0, w*h*3)
	for y := 0; y < h; y++ {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*4]
		for x := 0; x < len(row); x += 4 {
			rgb = append(rgb, row[x], row[x+1], row[x+2])
		}
	}
	return &renderer.Image{Width: w, Height: h, Channels: 3, Pix: rgb}
}

// Loader reads texture files and uploads them to a device.
//
// TODO: share textures between models that reference the same file; each
// material currently uploads its own copy.
type Loader struct {
	Device renderer.Device
	// MaxSize caps the texture edge length; 0 means unlimited.
	MaxSize int
}

// NewLoader creates a loader for dev.
func NewLoader(dev renderer.Device) *Loader {
	return &Loader{Device: dev}
}

// Load decodes the file at path and uploads it.
func (l *Loader) Load(path string) (renderer.Texture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading texture: %w", err)
	}
	img, err := Decode(data, path)
	if err != nil {
		return 0, fmt.Errorf("decoding texture %s: %w", path, err)
	}
	pix := ToImage(img, l.MaxSize)
	tex := l.Device.CreateTexture(pix)

	logger.Dbg.Debug("texture loaded",
		zap.String("path", path),
		zap.Int("width", pix.Width),
		zap.Int("height", pix.Height),
		zap.Int("channels", pix.Channels),
		zap.Uint32("texture", uint32(tex)),
	)
	return tex, nil
}
