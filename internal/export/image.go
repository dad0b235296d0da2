package export

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/reasv/wfctiled/internal/grid"
	"github.com/reasv/wfctiled/internal/tilemap"
)

// EncodePixel spreads the low 24 bits of a tile value over the red (bits
// 0-7), green (8-15) and blue (16-23) channels at full opacity.
func EncodePixel(v uint32) color.RGBA {
	return color.RGBA{
		R: uint8(v),
		G: uint8(v >> 8),
		B: uint8(v >> 16),
		A: 0xff,
	}
}

// DecodePixel recovers the low 24 bits of the tile value behind c.
func DecodePixel(c color.RGBA) uint32 {
	return uint32(c.R) | uint32(c.G)<<8 | uint32(c.B)<<16
}

// ToImage renders one pixel per cell.
func ToImage(g *grid.Grid[uint32]) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, g.Width(), g.Height()))
	g.Each(func(c grid.Coord, v uint32) {
		img.SetRGBA(c.X, c.Y, EncodePixel(v))
	})
	return img
}

type imageEncoder func(io.Writer, image.Image) error

func encoderFor(path string) (imageEncoder, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return png.Encode, nil
	case ".bmp":
		return bmp.Encode, nil
	case ".tif", ".tiff":
		return func(w io.Writer, img image.Image) error {
			return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
		}, nil
	}
	return nil, fmt.Errorf("%w: unsupported image extension %q", tilemap.ErrInvalidArgument, filepath.Ext(path))
}

// SaveImage renders g and encodes it by the extension of path: .png, .bmp,
// .tif or .tiff.
func SaveImage(path string, g *grid.Grid[uint32]) error {
	encode, err := encoderFor(path)
	if err != nil {
		return err
	}
	img := ToImage(g)
	return saveFile(path, func(w io.Writer) error {
		if err := encode(w, img); err != nil {
			return fmt.Errorf("%w: encoding %s: %v", tilemap.ErrIO, path, err)
		}
		return nil
	})
}
