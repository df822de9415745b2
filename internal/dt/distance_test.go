package dt

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erinpentecost/LivelyMap/internal/imageops"
)

func mask(w, h int, fill float32) *imageops.Buffer {
	buf := imageops.NewBuffer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			buf.Set(x, y, imageops.Pixel{fill, 0, 0, 1})
		}
	}
	return buf
}

func TestDistanceTransformSingleIsolatedOutsidePixel(t *testing.T) {
	m := mask(5, 5, 1.0)
	m.Set(2, 2, imageops.Pixel{0, 0, 0, 1})

	xf := NewTransform(imageops.DistanceTransformConfig{Threshold: 0.5})
	res, err := xf.Compute(context.Background(), m)
	require.NoError(t, err)

	require.InDelta(t, math.Sqrt(8), float64(res.At(0, 0).Distance), 1e-4)
	require.InDelta(t, 0, float64(res.At(2, 2).Distance), 1e-4)
	require.InDelta(t, math.Sqrt(8), float64(res.At(4, 4).Distance), 1e-4)

	v := res.At(0, 0)
	require.InDelta(t, 2, float64(v.VectorX), 1e-4)
	require.InDelta(t, 2, float64(v.VectorY), 1e-4)
}

func TestDistanceTransformEntirelyInside(t *testing.T) {
	m := mask(4, 4, 1.0)

	xf := NewTransform(imageops.DistanceTransformConfig{Threshold: 0.5})
	res, err := xf.Compute(context.Background(), m)
	require.NoError(t, err)

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			s := res.At(x, y)
			require.Equal(t, float32(math.MaxFloat32), s.Distance)
			require.Zero(t, s.VectorX)
			require.Zero(t, s.VectorY)
		}
	}
}

func TestDistanceTransformHalfPlane(t *testing.T) {
	m := imageops.NewBuffer(8, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			if x < 4 {
				m.Set(x, y, imageops.Pixel{0, 0, 0, 1})
			} else {
				m.Set(x, y, imageops.Pixel{1, 0, 0, 1})
			}
		}
	}

	xf := NewTransform(imageops.DistanceTransformConfig{Threshold: 0.5})
	res, err := xf.Compute(context.Background(), m)
	require.NoError(t, err)

	for y := 0; y < 4; y++ {
		require.InDelta(t, 1, float64(res.At(4, y).Distance), 1e-4)
		require.InDelta(t, 4, float64(res.At(7, y).Distance), 1e-4)
	}

	v := res.At(7, 0)
	require.InDelta(t, -4, float64(v.VectorX), 1e-4)
	require.InDelta(t, 0, float64(v.VectorY), 1e-4)
}

func TestDistanceTransformNonNegative(t *testing.T) {
	m := imageops.NewBuffer(10, 7)
	for y := 0; y < 7; y++ {
		for x := 0; x < 10; x++ {
			v := float32(0)
			if (x+y)%3 == 0 {
				v = 1
			}
			m.Set(x, y, imageops.Pixel{v, 0, 0, 1})
		}
	}

	xf := NewTransform(imageops.DistanceTransformConfig{Threshold: 0.5})
	res, err := xf.Compute(context.Background(), m)
	require.NoError(t, err)

	for y := 0; y < 7; y++ {
		for x := 0; x < 10; x++ {
			require.GreaterOrEqual(t, res.At(x, y).Distance, float32(0))
		}
	}
}

func TestDistanceTransformThresholdInvertSymmetry(t *testing.T) {
	m := imageops.NewBuffer(6, 6)
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			v := float32(0)
			if x >= 3 {
				v = 1
			}
			m.Set(x, y, imageops.Pixel{v, 0, 0, 1})
		}
	}
	complement := imageops.NewBuffer(6, 6)
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			complement.Set(x, y, imageops.Pixel{1 - m.At(x, y)[0], 0, 0, 1})
		}
	}

	inverted := NewTransform(imageops.DistanceTransformConfig{Threshold: 0.5, Invert: true})
	resInverted, err := inverted.Compute(context.Background(), m)
	require.NoError(t, err)

	plain := NewTransform(imageops.DistanceTransformConfig{Threshold: 0.5})
	resPlain, err := plain.Compute(context.Background(), complement)
	require.NoError(t, err)

	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			require.InDelta(t, resPlain.At(x, y).Distance, resInverted.At(x, y).Distance, 1e-4)
		}
	}
}

func TestTransformDependsOnWholeImageUntilComputed(t *testing.T) {
	xf := NewTransform(imageops.DistanceTransformConfig{Threshold: 0.5})
	require.True(t, xf.DependsOnWholeImage())

	_, err := xf.Compute(context.Background(), mask(3, 3, 1.0))
	require.NoError(t, err)
	require.False(t, xf.DependsOnWholeImage())
}

func TestTransformComputeIsCachedAcrossCalls(t *testing.T) {
	xf := NewTransform(imageops.DistanceTransformConfig{Threshold: 0.5})
	m := mask(3, 3, 1.0)

	r1, err := xf.Compute(context.Background(), m)
	require.NoError(t, err)
	r2, err := xf.Compute(context.Background(), m)
	require.NoError(t, err)
	require.Same(t, r1, r2)
}

func TestDistanceTransformDegenerateZeroArea(t *testing.T) {
	xf := NewTransform(imageops.DistanceTransformConfig{Threshold: 0.5})
	res, err := xf.Compute(context.Background(), imageops.NewBuffer(0, 0))
	require.NoError(t, err)
	require.Equal(t, float32(math.MaxFloat32), res.At(0, 0).Distance)
}
