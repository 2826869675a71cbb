package mpm

import (
	"image"
	"image/color"
	"math"
)

// Frame is an interleaved 8-bit pixel buffer. Row 0 is y = 0 in grid space.
type Frame struct {
	Pix      []uint8
	Width    int
	Height   int
	Channels int
}

// NewFrame allocates a zeroed frame. channels <= 0 means 3 (RGB).
func NewFrame(width, height, channels int) *Frame {
	if channels <= 0 {
		channels = 3
	}
	return &Frame{
		Pix:      make([]uint8, width*height*channels),
		Width:    width,
		Height:   height,
		Channels: channels,
	}
}

func (f *Frame) Clear() {
	for i := range f.Pix {
		f.Pix[i] = 0
	}
}

// Set writes v to every channel of pixel (x, y). Out-of-range pixels are
// ignored.
func (f *Frame) Set(x, y int, v uint8) {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return
	}
	off := (y*f.Width + x) * f.Channels
	for c := 0; c < f.Channels; c++ {
		f.Pix[off+c] = v
	}
}

// At returns the first channel of pixel (x, y).
func (f *Frame) At(x, y int) uint8 {
	return f.Pix[(y*f.Width+x)*f.Channels]
}

// Image converts the frame to RGBA. With flipY, +y points up as on screen.
func (f *Frame) Image(flipY bool) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		row := y
		if flipY {
			row = f.Height - 1 - y
		}
		for x := 0; x < f.Width; x++ {
			off := (y*f.Width + x) * f.Channels
			var c color.RGBA
			switch {
			case f.Channels >= 3:
				c = color.RGBA{f.Pix[off], f.Pix[off+1], f.Pix[off+2], 255}
			default:
				c = color.RGBA{f.Pix[off], f.Pix[off], f.Pix[off], 255}
			}
			img.SetRGBA(x, row, c)
		}
	}
	return img
}

// RGBA appends the frame as opaque RGBA pixels in row order, reusing dst's
// storage. Single-channel frames are expanded to gray.
func (f *Frame) RGBA(dst []color.RGBA) []color.RGBA {
	dst = dst[:0]
	for i := 0; i < len(f.Pix); i += f.Channels {
		if f.Channels >= 3 {
			dst = append(dst, color.RGBA{f.Pix[i], f.Pix[i+1], f.Pix[i+2], 255})
		} else {
			dst = append(dst, color.RGBA{f.Pix[i], f.Pix[i], f.Pix[i], 255})
		}
	}
	return dst
}

// renderScale is the pixel size of one grid cell.
func renderScale(width, height, gridSize int) float64 {
	return float64(min(width, height)) / float64(gridSize)
}

// Render splats every particle as a full-intensity pixel. It does not clear
// the frame and does not modify simulator state.
func (s *Simulator) Render(f *Frame) {
	scale := renderScale(f.Width, f.Height, s.grid.Size())
	for i := range s.particles {
		p := s.particles[i].Position
		f.Set(int(math.Round(p.X*scale)), int(math.Round(p.Y*scale)), 255)
	}
}
