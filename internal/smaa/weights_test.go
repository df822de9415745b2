package smaa

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erinpentecost/LivelyMap/internal/areatex"
	"github.com/erinpentecost/LivelyMap/internal/imageops"
)

func TestCalculateWeightsZeroOnFlatEdges(t *testing.T) {
	edges := imageops.NewBuffer(8, 8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			edges.Set(x, y, imageops.Pixel{0, 0, 0, 1})
		}
	}

	cfg := imageops.DefaultAntiAliasingConfig().Clamp()
	weights := CalculateWeights(cfg, edges, areatex.Load())

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			p := weights.At(x, y)
			require.Equal(t, imageops.Pixel{0, 0, 0, 0}, p)
		}
	}
}

func TestCalculateWeightsBounded(t *testing.T) {
	img := imageops.NewBuffer(16, 16)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			if x < 8 {
				img.Set(x, y, imageops.Pixel{0, 0, 0, 1})
			} else {
				img.Set(x, y, imageops.Pixel{1, 1, 1, 1})
			}
		}
	}

	cfg := imageops.DefaultAntiAliasingConfig().Clamp()
	edges := DetectEdgesLuma(cfg, img, nil)
	weights := CalculateWeights(cfg, edges, areatex.Load())

	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			p := weights.At(x, y)
			for c := 0; c < 4; c++ {
				if p[c] < -1e-4 || p[c] > 1.0001 {
					t.Fatalf("weight channel %d out of [0,1] at (%d,%d): %v", c, x, y, p[c])
				}
			}
			// Invariant: zero edge implies zero weight.
			e := edges.At(x, y)
			if e[0] == 0 && (p[2] != 0 || p[3] != 0) {
				t.Fatalf("west channel weights nonzero with no west edge at (%d,%d): %v", x, y, p)
			}
			if e[1] == 0 && (p[0] != 0 || p[1] != 0) {
				t.Fatalf("north channel weights nonzero with no north edge at (%d,%d): %v", x, y, p)
			}
		}
	}
}

func TestAreaDiagSampleMatchesHandComputedPattern3Value(t *testing.T) {
	// Pattern 3 (edgesDiag index {e1=1,e2=2}) bakes a constant (31/60, 0)
	// into every (left, right) cell of its region of areatex_diag (see
	// TestAreaDiagPattern3MatchesHandComputedValueForLeftGreaterThanZero in
	// package areatex), because its line geometry doesn't depend on left
	// or right. wc.areaDiag bilinearly averages four neighboring cells
	// around (d1+0.5, d2+0.5); at least two of those four always fall on a
	// left>0 row, so this also exercises the rows a corrupted diagonal
	// table generator would get wrong.
	wc := &weightsCalculator{tables: areatex.Generate(false)}

	const want0 = 31.0 / 60.0
	const want1 = 0.0
	for _, d := range [][2]int{{0, 0}, {3, 5}, {10, 15}} {
		got := wc.areaDiag(d[0], d[1], 1, 2)
		require.InDelta(t, want0, float64(got[0]), 1e-4, "d1=%d d2=%d", d[0], d[1])
		require.InDelta(t, want1, float64(got[1]), 1e-4, "d1=%d d2=%d", d[0], d[1])
	}
}

func TestRequiredMargin(t *testing.T) {
	cfg := imageops.DefaultAntiAliasingConfig().Clamp()
	m := RequiredMargin(cfg)
	require.GreaterOrEqual(t, m, cfg.SearchSteps*2)
}
