package smaa

import (
	"math"

	"github.com/erinpentecost/LivelyMap/internal/areatex"
	"github.com/erinpentecost/LivelyMap/internal/imageops"
)

// weightsCalculator bundles the config and edge reader SMAA pass 2 needs;
// its methods are a direct port of SMAABlendingWeightCalculationOperation.
type weightsCalculator struct {
	cfg    imageops.AntiAliasingConfig
	edges  imageops.Reader
	tables *areatex.Tables
}

// CalculateWeights runs SMAA pass 2 over the whole edge image, producing a
// 4-channel (top, right, bottom, left) weight image.
func CalculateWeights(cfg imageops.AntiAliasingConfig, edges imageops.Reader, tables *areatex.Tables) *imageops.Buffer {
	if tables == nil {
		tables = areatex.Load()
	}
	w, h := edges.Width(), edges.Height()
	out := imageops.NewBuffer(w, h)
	wc := &weightsCalculator{cfg: cfg, edges: edges, tables: tables}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Set(x, y, wc.pixel(x, y))
		}
	}
	return out
}

func (wc *weightsCalculator) sample(x, y int) imageops.Pixel {
	return wc.edges.At(x, y)
}

func (wc *weightsCalculator) pixel(x, y int) imageops.Pixel {
	var output imageops.Pixel
	e := wc.sample(x, y)

	if e[1] > 0 {
		var w [2]float32
		handled := false
		if wc.cfg.DiagDetection {
			w = wc.calculateDiagWeights(x, y, e)
			if w[0] != 0 || w[1] != 0 {
				output[0], output[1] = w[0], w[1]
				handled = true
			}
		}
		if !handled {
			left := wc.searchXLeft(x, y)
			right := wc.searchXRight(x, y)
			d := [2]int{absi(left - x), absi(right - x)}

			e1 := imageops.SampleYOffset(wc.edges, left, y, -0.25)[0]
			e2 := imageops.SampleYOffset(wc.edges, right+1, y, -0.25)[0]

			sqrtD := [2]float32{float32(math.Sqrt(float64(d[0]))), float32(math.Sqrt(float64(d[1])))}
			w = wc.area(sqrtD, e1, e2)

			if wc.cfg.CornerDetection {
				w = wc.detectHorizontalCornerPattern(w, left, right, y, d)
			}
			output[0], output[1] = w[0], w[1]
		}
	}

	if e[0] > 0 {
		top := wc.searchYUp(x, y)
		bottom := wc.searchYDown(x, y)
		d := [2]int{absi(top - y), absi(bottom - y)}

		e1 := imageops.SampleXOffset(wc.edges, x, top, -0.25)[1]
		e2 := imageops.SampleXOffset(wc.edges, x, bottom+1, -0.25)[1]

		sqrtD := [2]float32{float32(math.Sqrt(float64(d[0]))), float32(math.Sqrt(float64(d[1])))}
		w := wc.area(sqrtD, e1, e2)

		if wc.cfg.CornerDetection {
			w = wc.detectVerticalCornerPattern(w, x, top, bottom, d)
		}
		output[2], output[3] = w[0], w[1]
	}

	return output
}

func absi(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// area is SMAABlendingWeightCalculationOperation::area: orthogonal area
// lookup into areatex_ortho.
func (wc *weightsCalculator) area(dist [2]float32, e1, e2 float32) [2]float32 {
	x := float32(areatex.MaxDistance)*roundf(4.0*e1) + dist[0]
	y := float32(areatex.MaxDistance)*roundf(4.0*e2) + dist[1]
	x += 0.5
	y += 0.5
	return sampleAreaTable(wc.tables.Ortho[:], x, y)
}

func roundf(v float32) float32 {
	if v >= 0 {
		return float32(math.Floor(float64(v) + 0.5))
	}
	return float32(math.Ceil(float64(v) - 0.5))
}

func clampIdx(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}

func sampleAreaTexel(table []float32, x, y int) [2]float32 {
	x = clampIdx(x, areatex.TextureSize)
	y = clampIdx(y, areatex.TextureSize)
	i := (y*areatex.TextureSize + x) * 2
	return [2]float32{table[i], table[i+1]}
}

// sampleAreaTable reproduces areatex_sample_level_zero: bilinear
// interpolation of a 2-channel 80x80 table at floating-point (x, y).
func sampleAreaTable(table []float32, x, y float32) [2]float32 {
	ix := floorf32(x)
	iy := floorf32(y)
	fx := x - ix
	fy := y - iy
	X, Y := int(ix), int(iy)

	w00 := sampleAreaTexel(table, X, Y)
	w10 := sampleAreaTexel(table, X+1, Y)
	w01 := sampleAreaTexel(table, X, Y+1)
	w11 := sampleAreaTexel(table, X+1, Y+1)

	var out [2]float32
	for c := 0; c < 2; c++ {
		top := lerp32(w10[c], w00[c], fx)
		bottom := lerp32(w11[c], w01[c], fx)
		out[c] = lerp32(bottom, top, fy)
	}
	return out
}

func floorf32(v float32) float32 {
	i := int(v)
	if float32(i) > v {
		i--
	}
	return float32(i)
}

func lerp32(b, a, p float32) float32 {
	return a + (b-a)*p
}

// areaDiag is SMAABlendingWeightCalculationOperation::areaDiag: diagonal
// area lookup into areatex_diag.
func (wc *weightsCalculator) areaDiag(d1, d2, e1, e2 int) [2]float32 {
	x := float32(areatex.MaxDistanceDiag*e1 + d1)
	y := float32(areatex.MaxDistanceDiag*e2 + d2)
	x += 0.5
	y += 0.5
	return sampleAreaTable(wc.tables.Diag[:], x, y)
}

func (wc *weightsCalculator) searchDiag1(x, y, dx, dy int) (d int, end float32, found bool) {
	d = -1
	var e imageops.Pixel
	for d < wc.cfg.SearchStepsDiag-1 {
		x += dx
		y += dy
		d++
		e = wc.sample(x, y)
		if e[0] <= 0.9 || e[1] <= 0.9 {
			found = true
			break
		}
	}
	end = e[1]
	return
}

func (wc *weightsCalculator) searchDiag2(x, y, dx, dy int) (d int, end float32, found bool) {
	d = -1
	var e2 imageops.Pixel
	for d < wc.cfg.SearchStepsDiag-1 {
		x += dx
		y += dy
		d++
		e1 := wc.sample(x+1, y)
		e2 = wc.sample(x, y)
		if e1[0] <= 0.9 || e2[1] <= 0.9 {
			found = true
			break
		}
	}
	end = e2[1]
	return
}

// calculateDiagWeights is
// SMAABlendingWeightCalculationOperation::calculateDiagWeights.
func (wc *weightsCalculator) calculateDiagWeights(x, y int, e imageops.Pixel) [2]float32 {
	var weights [2]float32

	var d1, d2 int
	var d1Found, d2Found bool
	var end float32

	if e[0] > 0 {
		d1, end, d1Found = wc.searchDiag1(x, y, -1, 1)
		d1 += int(end)
	} else {
		d1 = 0
		d1Found = true
	}
	d2, _, d2Found = wc.searchDiag1(x, y, 1, -1)

	if d1+d2 > 2 {
		e1, e2 := 0, 0
		if d1Found {
			cx, cy := x-d1, y+d1
			edges := wc.sample(cx-1, cy)
			c0 := int(edges[1])
			edges = wc.sample(cx, cy)
			c1 := int(edges[0])
			e1 = 2*c0 + c1
		}
		if d2Found {
			cx, cy := x+d2, y-d2
			edges := wc.sample(cx+1, cy)
			c0 := int(edges[1])
			edges = wc.sample(cx+1, cy-1)
			c1 := int(edges[0])
			e2 = 2*c0 + c1
		}
		weights = wc.areaDiag(d1, d2, e1, e2)
	}

	d1, end, d1Found = wc.searchDiag2(x, y, -1, -1)
	edges := wc.sample(x+1, y)
	if edges[0] > 0 {
		d2, end, d2Found = wc.searchDiag2(x, y, 1, 1)
		d2 += int(end)
	} else {
		d2 = 0
		d2Found = true
	}

	if d1+d2 > 2 {
		e1, e2 := 0, 0
		if d1Found {
			cx, cy := x-d1, y-d1
			edges := wc.sample(cx-1, cy)
			c0 := int(edges[1])
			edges = wc.sample(cx, cy-1)
			c1 := int(edges[0])
			e1 = 2*c0 + c1
		}
		if d2Found {
			cx, cy := x+d2, y+d2
			edges := wc.sample(cx+1, cy)
			c0 := int(edges[1])
			c1 := int(edges[0])
			e2 = 2*c0 + c1
		}
		w := wc.areaDiag(d1, d2, e1, e2)
		weights[0] += w[1]
		weights[1] += w[0]
	}

	return weights
}

func (wc *weightsCalculator) searchXLeft(x, y int) int {
	end := x - 2*wc.cfg.SearchSteps
	for x >= end {
		e := wc.sample(x, y)
		if e[1] == 0 || e[0] != 0 {
			break
		}
		e = wc.sample(x, y-1)
		if e[0] != 0 {
			break
		}
		x--
	}
	return x
}

func (wc *weightsCalculator) searchXRight(x, y int) int {
	end := x + 2*wc.cfg.SearchSteps
	for x <= end {
		e := wc.sample(x+1, y)
		if e[1] == 0 || e[0] != 0 {
			break
		}
		e = wc.sample(x+1, y-1)
		if e[0] != 0 {
			break
		}
		x++
	}
	return x
}

func (wc *weightsCalculator) searchYUp(x, y int) int {
	end := y - 2*wc.cfg.SearchSteps
	for y >= end {
		e := wc.sample(x, y)
		if e[0] == 0 || e[1] != 0 {
			break
		}
		e = wc.sample(x-1, y)
		if e[1] != 0 {
			break
		}
		y--
	}
	return y
}

func (wc *weightsCalculator) searchYDown(x, y int) int {
	end := y + 2*wc.cfg.SearchSteps
	for y <= end {
		e := wc.sample(x, y+1)
		if e[0] == 0 || e[1] != 0 {
			break
		}
		e = wc.sample(x-1, y+1)
		if e[1] != 0 {
			break
		}
		y++
	}
	return y
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func (wc *weightsCalculator) detectHorizontalCornerPattern(weights [2]float32, left, right, y int, d [2]int) [2]float32 {
	factor := [2]float32{1, 1}
	rounding := 1.0 - wc.cfg.CornerRounding/100.0
	if d[0] == d[1] {
		rounding /= 2.0
	}

	if d[0] <= d[1] {
		e := wc.sample(left, y+1)
		factor[0] -= rounding * e[0]
		e = wc.sample(left, y-2)
		factor[1] -= rounding * e[0]
	}
	if d[0] >= d[1] {
		e := wc.sample(right+1, y+1)
		factor[0] -= rounding * e[0]
		e = wc.sample(right+1, y-2)
		factor[1] -= rounding * e[0]
	}

	weights[0] *= clamp01(factor[0])
	weights[1] *= clamp01(factor[1])
	return weights
}

func (wc *weightsCalculator) detectVerticalCornerPattern(weights [2]float32, x, top, bottom int, d [2]int) [2]float32 {
	factor := [2]float32{1, 1}
	rounding := 1.0 - wc.cfg.CornerRounding/100.0
	if d[0] == d[1] {
		rounding /= 2.0
	}

	if d[0] <= d[1] {
		e := wc.sample(x+1, top)
		factor[0] -= rounding * e[1]
		e = wc.sample(x-2, top)
		factor[1] -= rounding * e[1]
	}
	if d[0] >= d[1] {
		e := wc.sample(x+1, bottom+1)
		factor[0] -= rounding * e[1]
		e = wc.sample(x-2, bottom+1)
		factor[1] -= rounding * e[1]
	}

	weights[0] *= clamp01(factor[0])
	weights[1] *= clamp01(factor[1])
	return weights
}

// RequiredMargin reports determineDependingAreaOfInterest's neighborhood
// inflation for pass 2: the larger of twice the orthogonal search and, when
// diagonal detection is enabled, the diagonal search.
func RequiredMargin(cfg imageops.AntiAliasingConfig) int {
	maxDistance := cfg.SearchSteps * 2
	if cfg.DiagDetection && cfg.SearchStepsDiag > maxDistance {
		maxDistance = cfg.SearchStepsDiag
	}
	return maxDistance
}
