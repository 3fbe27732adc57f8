// Package crs implements the CRS transformation contract (§4.2): convert
// a point between two named reference systems, stateless from the
// caller's perspective but free to cache parsed transform definitions
// internally.
package crs

import (
	"fmt"

	"github.com/Matdata-eu/tp-lib/pkg/errs"
	"github.com/Matdata-eu/tp-lib/pkg/model"
)

// Transformer converts points between named CRSes.
type Transformer interface {
	// Transform converts p from sourceCRS to targetCRS. When
	// sourceCRS == targetCRS it returns p unchanged without consulting
	// the underlying transform engine.
	Transform(p model.Point, sourceCRS, targetCRS string) (model.Point, error)
}

// NoopTransformer only supports the identity transform (source ==
// target); anything else fails with errs.ErrInvalidCrs. Useful for unit
// tests that exercise the pipeline without linking the PROJ-backed
// transformer.
type NoopTransformer struct{}

func (NoopTransformer) Transform(p model.Point, sourceCRS, targetCRS string) (model.Point, error) {
	if sourceCRS == targetCRS {
		return p, nil
	}
	return model.Point{}, fmt.Errorf("%w: no-op transformer cannot convert %s to %s", errs.ErrInvalidCrs, sourceCRS, targetCRS)
}
