package postprocessors

import (
	"image"
	"testing"
)

func TestPowerOfTwoProcessorRoundsUpToNearestPowerOfTwo(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 100, 100))
	p := &PowerOfTwoProcessor{DownScaleFactor: 1}

	out, err := p.Process(src)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}

	got := out.Bounds().Dx()
	if got != out.Bounds().Dy() {
		t.Fatalf("expected a square output, got %dx%d", got, out.Bounds().Dy())
	}
	if got&(got-1) != 0 {
		t.Fatalf("expected output side length to be a power of two, got %d", got)
	}
	if got < 100 {
		t.Fatalf("nextPoT should never round down: got %d for input 100", got)
	}
}

func TestPowerOfTwoProcessorAppliesDownscaleFactor(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 256, 256))
	p := &PowerOfTwoProcessor{DownScaleFactor: 4}

	out, err := p.Process(src)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if got := out.Bounds().Dx(); got != 64 {
		t.Fatalf("expected downscaled side length 64, got %d", got)
	}
}

func TestNextPoTKnownValues(t *testing.T) {
	cases := map[uint64]uint64{
		0:   1,
		1:   1,
		2:   2,
		3:   4,
		63:  64,
		64:  64,
		65:  128,
	}
	for in, want := range cases {
		if got := nextPoT(in); got != want {
			t.Fatalf("nextPoT(%d) = %d; want %d", in, got, want)
		}
	}
}
