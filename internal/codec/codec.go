package codec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"

	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Format is the closed set of supported conversion targets.
type Format int

const (
	PNG Format = iota
	BMP
	TGA
)

var (
	ErrUnsupportedFormat = errors.New("unsupported target format")
	ErrDecode            = errors.New("decode image")
	ErrEncode            = errors.New("encode image")
)

// ParseFormat maps a user-supplied format name onto the enum. Anything
// outside the supported set yields ErrUnsupportedFormat; there is no
// fall-through default.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "png":
		return PNG, nil
	case "bmp":
		return BMP, nil
	case "tga":
		return TGA, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case BMP:
		return "bmp"
	case TGA:
		return "tga"
	default:
		return "unknown"
	}
}

func (f Format) MediaType() string {
	switch f {
	case PNG:
		return "image/png"
	case BMP:
		return "image/bmp"
	case TGA:
		return "image/x-tga"
	default:
		return "application/octet-stream"
	}
}

// Convert decodes data and re-encodes it in the target format.
//
// PNG keeps an alpha channel when the source actually carries
// transparency (alpha pixels, or a palette with a transparent entry)
// and otherwise flattens to an opaque image so the encoder emits a
// plain 3-channel file. BMP always flattens; grayscale sources stay
// single-channel. TGA keeps alpha when present, otherwise flattens.
func Convert(data []byte, target Format) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	var buf bytes.Buffer
	switch target {
	case PNG:
		if hasAlpha(img) {
			err = png.Encode(&buf, toNRGBA(img))
		} else {
			err = png.Encode(&buf, flattenOpaque(img))
		}
	case BMP:
		if gray, ok := img.(*image.Gray); ok {
			err = bmp.Encode(&buf, gray)
		} else {
			err = bmp.Encode(&buf, flattenOpaque(img))
		}
	case TGA:
		if hasAlpha(img) {
			err = tga.Encode(&buf, toNRGBA(img))
		} else {
			err = tga.Encode(&buf, flattenOpaque(img))
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedFormat, target)
	}
	if err != nil {
		return nil, fmt.Errorf("%w as %s: %v", ErrEncode, target, err)
	}
	return buf.Bytes(), nil
}

// hasAlpha reports whether the decoded image carries transparency. A
// paletted image counts only if some palette entry is translucent.
func hasAlpha(img image.Image) bool {
	if p, ok := img.(*image.Paletted); ok {
		for _, entry := range p.Palette {
			if _, _, _, a := entry.RGBA(); a < 0xffff {
				return true
			}
		}
		return false
	}
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	return false
}

func toNRGBA(img image.Image) *image.NRGBA {
	if m, ok := img.(*image.NRGBA); ok {
		return m
	}
	bounds := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	return dst
}

// flattenOpaque copies the image and discards the alpha channel,
// keeping the color values as they are.
func flattenOpaque(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}
