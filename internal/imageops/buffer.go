// Package imageops holds the pixel-buffer and reader abstractions shared by
// the SMAA and distance-transform implementations in internal/smaa and
// internal/dt.
package imageops

// Pixel is an RGBA float32 color, channel order (R, G, B, A). Single-channel
// buffers (edge masks, distance-transform masks) only populate channel 0.
type Pixel [4]float32

// Reader exposes a rectangular pixel buffer that clamps any out-of-range
// coordinate to the nearest edge, so callers never have to bounds-check
// before sampling a neighborhood.
type Reader interface {
	At(x, y int) Pixel
	Width() int
	Height() int
}

// Buffer is the owned, mutable backing store for a Reader. Pixels are laid
// out row-major.
type Buffer struct {
	W, H int
	Pix  []Pixel
}

// NewBuffer allocates a zeroed w x h buffer.
func NewBuffer(w, h int) *Buffer {
	return &Buffer{W: w, H: h, Pix: make([]Pixel, w*h)}
}

func clampIndex(v, n int) int {
	if n <= 0 {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}

// At returns the pixel at (x, y), clamping out-of-range coordinates to the
// nearest edge.
func (b *Buffer) At(x, y int) Pixel {
	x = clampIndex(x, b.W)
	y = clampIndex(y, b.H)
	return b.Pix[y*b.W+x]
}

// Set writes the pixel at (x, y). Out-of-range writes are silently dropped;
// callers only ever write in-bounds coordinates produced by their own loops.
func (b *Buffer) Set(x, y int, p Pixel) {
	if x < 0 || y < 0 || x >= b.W || y >= b.H {
		return
	}
	b.Pix[y*b.W+x] = p
}

func (b *Buffer) Width() int  { return b.W }
func (b *Buffer) Height() int { return b.H }

// sample reads a reader at (x, y), relying on the reader's own clamping.
func sample(r Reader, x, y int) Pixel {
	return r.At(x, y)
}

// SampleYOffset reproduces COM_SMAAOperation.cpp's sample_level_zero_yoffset:
// a 1D bilinear tap in Y at a fractional offset from (x, y), integer part
// folded into the row index first.
func SampleYOffset(r Reader, x, y int, yoffset float32) Pixel {
	iy := floorf(yoffset)
	fy := yoffset - iy
	y += int(iy)

	c00 := sample(r, x, y)
	c01 := sample(r, x, y+1)

	var out Pixel
	for i := range out {
		out[i] = lerp(c01[i], c00[i], fy)
	}
	return out
}

// SampleXOffset is the X-axis counterpart of SampleYOffset
// (sample_level_zero_xoffset).
func SampleXOffset(r Reader, x, y int, xoffset float32) Pixel {
	ix := floorf(xoffset)
	fx := xoffset - ix
	x += int(ix)

	c00 := sample(r, x, y)
	c10 := sample(r, x+1, y)

	var out Pixel
	for i := range out {
		out[i] = lerp(c10[i], c00[i], fx)
	}
	return out
}

func floorf(v float32) float32 {
	i := int(v)
	if float32(i) > v {
		i--
	}
	return float32(i)
}

// lerp matches Blender's interpf(b, a, p) = a + (b-a)*p ordering.
func lerp(b, a, p float32) float32 {
	return a + (b-a)*p
}
