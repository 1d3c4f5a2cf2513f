package media

import (
	"bytes"
	"fmt"
	"image"

	_ "image/jpeg"
	_ "image/png"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// DefaultWebPQuality favours size over fidelity.
const DefaultWebPQuality = 85

// Optimize decodes png, jpeg or webp bytes, drops any alpha or palette mode to
// opaque RGB and re-encodes the result as lossy WebP.
func Optimize(raw []byte, quality float32) ([]byte, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("decode image: empty input")
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultWebPQuality
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	out, err := webp.EncodeRGB(flatten(img), quality)
	if err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return out, nil
}

// flatten forces every pixel opaque. Colour channels are kept as stored, so a
// fully transparent pixel becomes black, matching a plain mode conversion.
func flatten(src image.Image) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}
