package smaa

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/erinpentecost/LivelyMap/internal/areatex"
	"github.com/erinpentecost/LivelyMap/internal/imageops"
)

// tileRows is the row-band height RunTiled splits work into. Each band is
// wide enough to amortize the fan-out overhead against small tiles while
// still giving errgroup plenty of work items to balance across workers.
const tileRows = 64

// RunTiled runs the full SMAA pipeline (edge detection, blending weights,
// neighborhood blending) over img, fanning pass 1 and pass 3 out across
// row bands the way hdmap.CellMapper.Generate fans cell rendering out
// across an errgroup. Pass 2 is read-heavy across overlapping neighborhoods
// and is left single-threaded; it dominates the SMAA share least when tiles
// are already edge-sparse.
func RunTiled(ctx context.Context, cfg imageops.AntiAliasingConfig, img, pred imageops.Reader, workers int) (*imageops.Buffer, error) {
	cfg = cfg.Clamp()
	w, h := img.Width(), img.Height()

	edges := imageops.NewBuffer(w, h)
	if err := runRowsTiled(ctx, h, workers, func(y0, y1 int) error {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				var p imageops.Pixel
				switch cfg.DetectType {
				case imageops.DetectLuma:
					p = edgeLumaPixel(cfg, img, pred, x, y)
				case imageops.DetectDepth:
					here := pred.At(x, y)
					left := pred.At(x-1, y)
					top := pred.At(x, y-1)
					if absf(here[0]-left[0]) >= cfg.DepthThresh {
						p[0] = 1
					}
					if absf(here[0]-top[0]) >= cfg.DepthThresh {
						p[1] = 1
					}
					p[3] = 1
				default:
					p = edgeColorPixel(cfg, img, pred, x, y)
				}
				edges.Set(x, y, p)
			}
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("smaa edge detection: %w", err)
	}

	tables := areatex.Load()
	weights := CalculateWeights(cfg, edges, tables)

	out := imageops.NewBuffer(w, h)
	if err := runRowsTiled(ctx, h, workers, func(y0, y1 int) error {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				out.Set(x, y, blendPixel(img, weights, x, y))
			}
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("smaa neighborhood blending: %w", err)
	}

	return out, nil
}

func runRowsTiled(ctx context.Context, height, workers int, band func(y0, y1 int) error) error {
	if workers <= 0 {
		workers = 4
	}
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for y0 := 0; y0 < height; y0 += tileRows {
		y1 := y0 + tileRows
		if y1 > height {
			y1 = height
		}
		y0, y1 := y0, y1
		g.Go(func() error {
			return band(y0, y1)
		})
	}
	return g.Wait()
}
