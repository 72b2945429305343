// Package debug provides developer tooling for the editor window.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/Faultbox/mappingtool/internal/engine/renderer"
)

const timestampLayout = "2006-01-02_15-04-05"

// Screenshots writes the back buffer to PNG files named
// <prefix>_<timestamp>.png inside a directory.
type Screenshots struct {
	Dir    string
	Prefix string

	// Now defaults to time.Now.
	Now func() time.Time
}

// NewScreenshots creates a screenshot writer.
func NewScreenshots(dir, prefix string) *Screenshots {
	return &Screenshots{Dir: dir, Prefix: prefix, Now: time.Now}
}

// Capture reads the back buffer of dev and saves it. It returns the path
// of the written file.
func (s *Screenshots) Capture(dev renderer.Device, width, height int) (string, error) {
	if width <= 0 || height <= 0 {
		return "", fmt.Errorf("invalid framebuffer size %dx%d", width, height)
	}
	img, err := FlipRGBA(dev.ReadPixels(width, height), width, height)
	if err != nil {
		return "", err
	}
	return s.Save(img)
}

// Save encodes img to a new file. A numeric suffix is appended when a
// screenshot with the same timestamp already exists.
func (s *Screenshots) Save(img image.Image) (string, error) {
	if s.Dir != "" {
		if err := os.MkdirAll(s.Dir, 0755); err != nil {
			return "", fmt.Errorf("creating screenshot dir: %w", err)
		}
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	base := fmt.Sprintf("%s_%s", s.Prefix, now().Format(timestampLayout))

	var (
		file *os.File
		name string
		err  error
	)
	for i := 0; ; i++ {
		name = base + ".png"
		if i > 0 {
			name = fmt.Sprintf("%s_%d.png", base, i)
		}
		name = filepath.Join(s.Dir, name)
		file, err = os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if !os.IsExist(err) {
			break
		}
	}
	if err != nil {
		return "", fmt.Errorf("creating screenshot: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return name, nil
}

// FlipRGBA turns bottom-up RGBA rows as read from OpenGL into an image.
func FlipRGBA(pixels []byte, width, height int) (*image.RGBA, error) {
	rowSize := width * 4
	if len(pixels) != rowSize*height {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", rowSize*height, len(pixels))
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * rowSize
		copy(img.Pix[y*img.Stride:], pixels[src:src+rowSize])
	}
	return img, nil
}
