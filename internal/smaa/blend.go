package smaa

import "github.com/erinpentecost/LivelyMap/internal/imageops"

// Blend runs SMAANeighborhoodBlendingOperation over img using the weight
// image produced by CalculateWeights.
func Blend(img, weights imageops.Reader) *imageops.Buffer {
	w, h := img.Width(), img.Height()
	out := imageops.NewBuffer(w, h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Set(x, y, blendPixel(img, weights, x, y))
		}
	}
	return out
}

func blendPixel(img, weights imageops.Reader, x, y int) imageops.Pixel {
	e := weights.At(x, y)
	left := e[2]
	top := e[0]
	e = weights.At(x+1, y)
	right := e[3]
	e = weights.At(x, y+1)
	bottom := e[1]

	if right+bottom+left+top < 1e-5 {
		return img.At(x, y)
	}

	var offset1, offset2, weight1, weight2 float32
	var sampleFunc func(imageops.Reader, int, int, float32) imageops.Pixel

	if maxf(right, left) > maxf(bottom, top) {
		sampleFunc = imageops.SampleXOffset
		offset1 = right
		offset2 = -left
		weight1 = right / (right + left)
		weight2 = left / (right + left)
	} else {
		sampleFunc = imageops.SampleYOffset
		offset1 = bottom
		offset2 = -top
		weight1 = bottom / (bottom + top)
		weight2 = top / (bottom + top)
	}

	color1 := sampleFunc(img, x, y, offset1)
	color2 := sampleFunc(img, x, y, offset2)

	var out imageops.Pixel
	for c := range out {
		out[c] = color1[c]*weight1 + color2[c]*weight2
	}
	return out
}

// BlendRequiredMargin is determineDependingAreaOfInterest's neighborhood
// inflation for pass 3: one pixel in every direction of both inputs.
const BlendRequiredMargin = 1
