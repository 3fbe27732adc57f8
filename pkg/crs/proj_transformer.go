package crs

import (
	"fmt"

	proj "github.com/michiho/go-proj/v10"

	"github.com/Matdata-eu/tp-lib/pkg/errs"
	"github.com/Matdata-eu/tp-lib/pkg/model"
)

// ProjTransformer implements Transformer on top of PROJ, via the cgo
// binding github.com/michiho/go-proj/v10. Parsed transform pipelines
// (*proj.PJ) are cached per (source,target) pair so repeated calls with
// the same CRS pair — the common case, since every fix is transformed
// against one fixed network CRS — don't re-parse a proj-string on every
// call. A fix whose CRS differs from the network's is transformed once by
// candidate building and again by final projection (or fallback
// projection); transformed points are not shared between those steps.
type ProjTransformer struct {
	ctx   *proj.Context
	cache *transformCache
}

// NewProjTransformer creates a transformer backed by a fresh PROJ
// context and a bounded LRU cache of parsed CRS-to-CRS pipelines.
func NewProjTransformer(cacheSize int) *ProjTransformer {
	return &ProjTransformer{
		ctx:   proj.NewContext(),
		cache: newTransformCache(cacheSize),
	}
}

// Close releases the underlying PROJ context.
func (t *ProjTransformer) Close() {
	t.ctx.Destroy()
}

func (t *ProjTransformer) Transform(p model.Point, sourceCRS, targetCRS string) (model.Point, error) {
	if sourceCRS == targetCRS {
		return p, nil
	}
	if sourceCRS == "" || targetCRS == "" {
		return model.Point{}, fmt.Errorf("%w: empty CRS name", errs.ErrInvalidCrs)
	}

	pj, err := t.pipelineFor(sourceCRS, targetCRS)
	if err != nil {
		return model.Point{}, err
	}

	out, err := pj.Trans(proj.DirectionFwd, proj.Coord{p.X, p.Y, 0, 0})
	if err != nil {
		return model.Point{}, fmt.Errorf("%w: %v", errs.ErrTransformFailed, err)
	}
	return model.Point{X: out.X(), Y: out.Y()}, nil
}

func (t *ProjTransformer) pipelineFor(sourceCRS, targetCRS string) (*proj.PJ, error) {
	if cached, ok := t.cache.get(sourceCRS, targetCRS); ok {
		return cached.(*proj.PJ), nil
	}

	pj, err := t.ctx.NewCRSToCRS(sourceCRS, targetCRS, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s -> %s: %v", errs.ErrInvalidCrs, sourceCRS, targetCRS, err)
	}
	// NewCRSToCRS pipelines use each CRS's authority axis order (for most
	// geographic CRS names, lat,lon) unless normalized; this codebase's
	// model.Point is always lon,lat (X,Y), GIS convention.
	pj, err = pj.NormalizeForVisualization()
	if err != nil {
		return nil, fmt.Errorf("%w: normalizing %s -> %s: %v", errs.ErrInvalidCrs, sourceCRS, targetCRS, err)
	}
	t.cache.put(sourceCRS, targetCRS, pj)
	return pj, nil
}
