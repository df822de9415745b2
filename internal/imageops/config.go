package imageops

// DetectType selects which edge-detection variant SMAA pass 1 runs.
type DetectType int

const (
	DetectLuma DetectType = iota
	DetectColor
	DetectDepth
)

// AntiAliasingConfig mirrors NodeAntiAliasingData from
// node_composite_antiAliasing.c/COM_SMAAOperation.h. Zero-value fields read
// naturally as "off"; Defaults() returns the values the Blender node's
// node_composit_init_antialiasing used to seed a freshly added node.
type AntiAliasingConfig struct {
	DetectType DetectType

	// Thresh is the base edge threshold used by the luma/color variants.
	Thresh float32
	// DepthThresh is the edge threshold for the depth variant.
	DepthThresh float32
	// AdaptFac scales local-contrast adaptation; 0 or a very large value
	// disables it.
	AdaptFac float32

	Predication   bool
	PredScale     float32
	PredStrength  float32
	PredThreshold float32

	DiagDetection bool

	CornerDetection bool
	// CornerRounding is a percentage in [0, 100].
	CornerRounding float32

	// SearchSteps bounds orthogonal line search, valid range [1, 98].
	SearchSteps int
	// SearchStepsDiag bounds diagonal line search, valid range [1, 20].
	SearchStepsDiag int

	// Luminance overrides the default Rec. 709 luma weighting used by the
	// LUMA variant. Nil uses the default formula.
	Luminance func(Pixel) float32
}

// DefaultAntiAliasingConfig returns the values
// node_composit_init_antialiasing seeds a new Anti-Aliasing node with, plus
// the search-step defaults SMAA's reference implementation ships.
func DefaultAntiAliasingConfig() AntiAliasingConfig {
	return AntiAliasingConfig{
		DetectType:      DetectColor,
		Thresh:          0.05,
		DepthThresh:     0.1,
		AdaptFac:        2.0,
		CornerDetection: true,
		CornerRounding:  25,
		DiagDetection:   true,
		SearchSteps:     16,
		SearchStepsDiag: 8,
	}
}

// Clamp applies the ConfigurationDomainError recovery from spec §7: search
// steps and corner rounding are clamped silently rather than erroring.
func (c AntiAliasingConfig) Clamp() AntiAliasingConfig {
	if c.SearchSteps < 1 {
		c.SearchSteps = 1
	}
	if c.SearchSteps > 98 {
		c.SearchSteps = 98
	}
	if c.SearchStepsDiag < 1 {
		c.SearchStepsDiag = 1
	}
	if c.SearchStepsDiag > 20 {
		c.SearchStepsDiag = 20
	}
	if c.CornerRounding < 0 {
		c.CornerRounding = 0
	}
	if c.CornerRounding > 100 {
		c.CornerRounding = 100
	}
	return c
}

// DistanceTransformConfig mirrors DistanceTransformOperation's constructor
// defaults (threshold 0.5, invert false) plus the relative/absolute factor
// toggle from custom1/custom2 in node_composite_distanceTransform.c.
type DistanceTransformConfig struct {
	Threshold float32
	Invert    bool
	// Relative selects factor = 100/max(width,height); false uses an
	// absolute factor of 1.0.
	Relative bool
}

func DefaultDistanceTransformConfig() DistanceTransformConfig {
	return DistanceTransformConfig{Threshold: 0.5}
}

func (c DistanceTransformConfig) Clamp() DistanceTransformConfig {
	if c.Threshold < 0 {
		c.Threshold = 0
	}
	if c.Threshold > 1 {
		c.Threshold = 1
	}
	return c
}

// Luminance computes Rec. 709 luma, the default weighting used by
// SMAALumaEdgeDetectionOperation.
func Luminance(p Pixel) float32 {
	return 0.2126*p[0] + 0.7152*p[1] + 0.0722*p[2]
}
