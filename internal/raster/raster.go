// Package raster provides the RGB pixel grid shared by the overlay engine
// and the print template compositor.
//
// A Raster is a width × height grid of 8-bit RGB triplets stored in a flat
// row-major buffer with no padding and no alpha. It is deliberately minimal:
// decoding and encoding container formats (JPEG/PNG) is the caller's job,
// and the overlay engine operates on the raw triplets only.
package raster

import (
	"fmt"
	"image"
	"image/color"
)

// Raster is a width × height RGB pixel grid, 3 bytes per pixel, row-major.
//
// The zero value is not usable; construct with New, FromImage or Clone.
type Raster struct {
	// Width of the grid in pixels.
	Width int

	// Height of the grid in pixels.
	Height int

	// Pix holds the pixel data as R, G, B triplets, row by row.
	// len(Pix) == Width*Height*3.
	Pix []uint8
}

// New returns a Raster of the given dimensions with all pixels black.
func New(width, height int) *Raster {
	return &Raster{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*3),
	}
}

// FromImage converts any image.Image into an owned Raster, discarding
// alpha. The source bounds are normalized so that (0,0) is the top-left
// pixel of the result.
func FromImage(img image.Image) *Raster {
	bounds := img.Bounds()
	r := New(bounds.Dx(), bounds.Dy())
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			cr, cg, cb, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			i := r.offset(x, y)
			r.Pix[i] = uint8(cr >> 8)
			r.Pix[i+1] = uint8(cg >> 8)
			r.Pix[i+2] = uint8(cb >> 8)
		}
	}
	return r
}

// ToRGBA converts the Raster to a fully opaque *image.RGBA for encoding
// or display.
func (r *Raster) ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			i := r.offset(x, y)
			img.SetRGBA(x, y, color.RGBA{r.Pix[i], r.Pix[i+1], r.Pix[i+2], 255})
		}
	}
	return img
}

// Clone returns an independent deep copy of the raster.
func (r *Raster) Clone() *Raster {
	out := &Raster{
		Width:  r.Width,
		Height: r.Height,
		Pix:    make([]uint8, len(r.Pix)),
	}
	copy(out.Pix, r.Pix)
	return out
}

// At returns the RGB triplet at (x, y). The coordinate must be inside
// the raster.
func (r *Raster) At(x, y int) (uint8, uint8, uint8) {
	i := r.offset(x, y)
	return r.Pix[i], r.Pix[i+1], r.Pix[i+2]
}

// Set stores the RGB triplet at (x, y). The coordinate must be inside
// the raster.
func (r *Raster) Set(x, y int, cr, cg, cb uint8) {
	i := r.offset(x, y)
	r.Pix[i] = cr
	r.Pix[i+1] = cg
	r.Pix[i+2] = cb
}

// In reports whether (x, y) lies inside the raster.
func (r *Raster) In(x, y int) bool {
	return x >= 0 && x < r.Width && y >= 0 && y < r.Height
}

// Luminance returns the ITU-R BT.601 luminance of the pixel at (x, y):
// 0.299*R + 0.587*G + 0.114*B, in the range [0, 255].
func (r *Raster) Luminance(x, y int) float64 {
	cr, cg, cb := r.At(x, y)
	return 0.299*float64(cr) + 0.587*float64(cg) + 0.114*float64(cb)
}

// Equal reports whether two rasters have identical dimensions and
// byte-identical pixel data.
func (r *Raster) Equal(other *Raster) bool {
	if r.Width != other.Width || r.Height != other.Height {
		return false
	}
	for i := range r.Pix {
		if r.Pix[i] != other.Pix[i] {
			return false
		}
	}
	return true
}

// Fill sets every pixel to the given RGB triplet.
func (r *Raster) Fill(cr, cg, cb uint8) {
	for i := 0; i < len(r.Pix); i += 3 {
		r.Pix[i] = cr
		r.Pix[i+1] = cg
		r.Pix[i+2] = cb
	}
}

func (r *Raster) offset(x, y int) int {
	return (y*r.Width + x) * 3
}

// Clamp constrains v to the range [min, max].
func Clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// String implements fmt.Stringer for debug logging.
func (r *Raster) String() string {
	return fmt.Sprintf("raster %dx%d", r.Width, r.Height)
}
