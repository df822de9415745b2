package smaa

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erinpentecost/LivelyMap/internal/imageops"
)

func TestDetectEdgesLumaTwoColorStep(t *testing.T) {
	// 8x1 image, pixels 0-3 black, 4-7 white.
	buf := imageops.NewBuffer(8, 1)
	for x := 0; x < 8; x++ {
		if x < 4 {
			buf.Set(x, 0, imageops.Pixel{0, 0, 0, 1})
		} else {
			buf.Set(x, 0, imageops.Pixel{1, 1, 1, 1})
		}
	}

	cfg := imageops.DefaultAntiAliasingConfig()
	cfg.DetectType = imageops.DetectLuma
	cfg.Thresh = 0.1
	cfg.AdaptFac = 2.0

	edges := DetectEdgesLuma(cfg, buf, nil)

	for x := 0; x < 8; x++ {
		p := edges.At(x, 0)
		if x == 4 {
			require.Equal(t, float32(1), p[0], "expected west edge at x=4")
		} else {
			require.Equal(t, float32(0), p[0], "unexpected west edge at x=%d", x)
		}
		require.Equal(t, float32(0), p[1], "north edge should be zero everywhere at x=%d", x)
	}
}

func TestDetectEdgesDepthIsolatedPixel(t *testing.T) {
	// 4x4 single-channel depth, (2,2)=0.5, everything else 0.1.
	buf := imageops.NewBuffer(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			buf.Set(x, y, imageops.Pixel{0.1, 0, 0, 1})
		}
	}
	buf.Set(2, 2, imageops.Pixel{0.5, 0, 0, 1})

	cfg := imageops.DefaultAntiAliasingConfig()
	cfg.DepthThresh = 0.1

	edges := DetectEdgesDepth(cfg, buf)

	// The depth detector samples (x,y), (x-1,y), (x,y-1), so the pixel
	// directly at (2,2) sees the jump on its west/north edges, and (3,2)
	// sees it on its west edge, and (2,3) sees it on its north edge.
	require.Equal(t, float32(1), edges.At(2, 2)[0])
	require.Equal(t, float32(1), edges.At(2, 2)[1])
	require.Equal(t, float32(1), edges.At(3, 2)[0])
	require.Equal(t, float32(1), edges.At(2, 3)[1])

	require.Equal(t, float32(0), edges.At(0, 0)[0])
	require.Equal(t, float32(0), edges.At(0, 0)[1])
}

func TestDetectEdgesLumaIdempotentOnFlatRegion(t *testing.T) {
	buf := imageops.NewBuffer(6, 6)
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			buf.Set(x, y, imageops.Pixel{0.5, 0.5, 0.5, 1})
		}
	}

	cfg := imageops.DefaultAntiAliasingConfig()
	edges := DetectEdgesLuma(cfg, buf, nil)

	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			p := edges.At(x, y)
			require.Zero(t, p[0])
			require.Zero(t, p[1])
		}
	}
}
