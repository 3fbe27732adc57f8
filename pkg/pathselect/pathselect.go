// Package pathselect scores the candidate walks a pathconstruct run
// produced, picks the best one, and projects every original fix onto it
// (§4.8).
package pathselect

import (
	"strings"

	"github.com/Matdata-eu/tp-lib/pkg/crs"
	"github.com/Matdata-eu/tp-lib/pkg/geo"
	"github.com/Matdata-eu/tp-lib/pkg/model"
	"github.com/Matdata-eu/tp-lib/pkg/pathconstruct"
)

// ScoredWalk pairs a forward-oriented walk (already reversed, if it came
// from backward construction) with its direction score.
type ScoredWalk struct {
	Walk         pathconstruct.Walk
	Score        float64 // P_path
	FromBackward bool
}

// PDirection computes the arc-length-weighted mean element probability
// for a single walk (§4.8's numerator/denominator over AssociatedElement
// slices, approximated here at the whole-element level since the walk
// doesn't yet carry per-fix slice boundaries).
func PDirection(w pathconstruct.Walk, elementP, elementLength map[string]float64) float64 {
	if len(w.Elements) == 0 || !w.Complete {
		return 0
	}
	var num, den float64
	for _, e := range w.Elements {
		length := elementLength[e.ElementID]
		num += elementP[e.ElementID] * length
		den += length
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// PPath averages a forward and backward direction score, treating a
// missing direction (zero-value ScoredWalk, no walk produced) as
// contributing zero rather than being excluded from the average (§4.8).
func PPath(forward, backward float64) float64 {
	return (forward + backward) / 2
}

// Select picks the highest-P_path walk among candidates, in the order
// given — ties keep the first one found, which is how a stable sort
// over the beam's insertion order should already have ordered them
// (§4.8).
func Select(candidates []ScoredWalk) (ScoredWalk, bool) {
	best := -1
	bestScore := -1.0
	for i, c := range candidates {
		if c.Score > bestScore {
			best = i
			bestScore = c.Score
		}
	}
	if best < 0 || bestScore <= 0 {
		return ScoredWalk{}, false
	}
	return candidates[best], true
}

// walkSignature identifies a walk by its ordered element sequence, so a
// forward walk and a reversed-backward walk that traversed the same
// elements can be recognized as "the same path" and have their
// direction scores combined.
func walkSignature(w pathconstruct.Walk) string {
	ids := make([]string, len(w.Elements))
	for i, e := range w.Elements {
		ids[i] = e.ElementID
	}
	return strings.Join(ids, "|")
}

// CombineWalks pairs forward walks with reversed-backward walks sharing
// the same element sequence and scores each distinct path found by
// either search direction (§4.7, §4.8): a path found by only one
// direction still gets a P_path, with the missing direction contributing
// zero, per the spec's explicit rule for that case.
func CombineWalks(forward, backwardReversed []pathconstruct.Walk, elementP, elementLength map[string]float64) []ScoredWalk {
	type entry struct {
		walk        pathconstruct.Walk
		pForward    float64
		pBackward   float64
		hasForward  bool
		hasBackward bool
	}
	order := make([]string, 0, len(forward)+len(backwardReversed))
	bySignature := make(map[string]*entry)

	for _, w := range forward {
		sig := walkSignature(w)
		e, ok := bySignature[sig]
		if !ok {
			e = &entry{walk: w}
			bySignature[sig] = e
			order = append(order, sig)
		}
		e.hasForward = true
		e.pForward = PDirection(w, elementP, elementLength)
	}
	for _, w := range backwardReversed {
		sig := walkSignature(w)
		e, ok := bySignature[sig]
		if !ok {
			e = &entry{walk: w}
			bySignature[sig] = e
			order = append(order, sig)
		}
		e.hasBackward = true
		e.pBackward = PDirection(w, elementP, elementLength)
	}

	out := make([]ScoredWalk, 0, len(order))
	for _, sig := range order {
		e := bySignature[sig]
		out = append(out, ScoredWalk{
			Walk:         e.walk,
			Score:        PPath(e.pForward, e.pBackward),
			FromBackward: !e.hasForward && e.hasBackward,
		})
	}
	return out
}

// Project projects every original fix onto the selected path: find the
// path element whose polyline lies closest to the fix, project onto it,
// and compute its measure along the whole path (sum of prior elements'
// lengths plus the local measure) (§4.8). A fix declared in a CRS other
// than resultCRS is transformed once before projection, the same rule
// candidates.Build and the fallback path apply (§4.2).
func Project(fixes []model.GnssFix, walk pathconstruct.Walk, lineStrings map[string]*geo.LineString, elementLength map[string]float64, transformer crs.Transformer, resultCRS string) ([]model.ProjectedFix, error) {
	prefix := make([]float64, len(walk.Elements)+1)
	for i, e := range walk.Elements {
		prefix[i+1] = prefix[i] + elementLength[e.ElementID]
	}

	out := make([]model.ProjectedFix, len(fixes))
	for i, fix := range fixes {
		p := geo.FixPoint(fix)
		if fix.CRS != "" && fix.CRS != resultCRS {
			transformed, err := transformer.Transform(p, fix.CRS, resultCRS)
			if err != nil {
				return nil, err
			}
			p = transformed
		}

		bestIdx := -1
		var bestProj geo.Projection
		for idx, e := range walk.Elements {
			ls := lineStrings[e.ElementID]
			if ls == nil {
				continue
			}
			proj := geo.Project(ls, p)
			if bestIdx == -1 || proj.PerpDistance < bestProj.PerpDistance {
				bestIdx, bestProj = idx, proj
			}
		}

		pf := model.ProjectedFix{Original: fix, ResultCRS: resultCRS}
		if bestIdx >= 0 {
			step := walk.Elements[bestIdx]
			pf.ElementID = step.ElementID
			pf.Point = bestProj.Foot
			pf.Intrinsic = bestProj.Intrinsic
			pf.PerpendicularDistance = bestProj.PerpDistance
			localMeasure := bestProj.Measure
			if step.EntrySide != 0 { // entered at side 1: element traversed end-to-start
				localMeasure = elementLength[step.ElementID] - bestProj.Measure
			}
			pf.Measure = prefix[bestIdx] + localMeasure
		}
		out[i] = pf
	}
	return out, nil
}
