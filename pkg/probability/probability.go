// Package probability scores candidate links and aggregates them per
// element (§4.6): how likely a fix belongs to a given track element, and
// how likely the element as a whole was actually traversed.
package probability

import (
	"math"
	"sort"

	"github.com/Matdata-eu/tp-lib/pkg/geo"
	"github.com/Matdata-eu/tp-lib/pkg/model"
)

// Params are the tuning knobs from config relevant to link scoring (§6).
type Params struct {
	DistanceScale float64 // meters
	HeadingScale  float64 // degrees
	HeadingCutoff float64 // degrees
}

// LinkProbability scores a single candidate link: spatial proximity
// (decaying exponentially with perpendicular distance) times directional
// alignment (decaying exponentially with heading difference, zero beyond
// the cutoff, 1 if the fix carries no heading at all).
func LinkProbability(link model.CandidateLink, p Params) float64 {
	pDist := math.Exp(-link.PerpDistance / p.DistanceScale)

	pHead := 1.0
	if link.HasHeadingDiff {
		if link.HeadingDiff > p.HeadingCutoff {
			pHead = 0.0
		} else {
			pHead = math.Exp(-link.HeadingDiff / p.HeadingScale)
		}
	}

	return pDist * pHead
}

// ScoreLinks fills in link.Probability for every link in place, using
// LinkProbability, and returns the same slice for chaining.
func ScoreLinks(links []model.CandidateLink, p Params) []model.CandidateLink {
	for i := range links {
		links[i].Probability = LinkProbability(links[i], p)
	}
	return links
}

// ElementLength and FixSpacing are the two polyline-shaped facts the
// aggregate needs from outside this package, supplied by the caller so
// probability stays independent of geometry/network bookkeeping.
type ElementLength func(elementID string) float64
type FixSpacing func(a, b int) float64

// AggregateElement computes P(e) for every element that appears in
// links, per §4.6: the mean per-fix link probability for that element,
// scaled down by how much of the element's own length is actually
// covered by contiguous runs of fixes (isolated single-fix hits, such as
// a parallel track picked up once, contribute nothing to coverage and
// so crush the aggregate).
func AggregateElement(links []model.CandidateLink, length ElementLength, spacing FixSpacing) map[string]float64 {
	byElement := make(map[string][]model.CandidateLink)
	for _, l := range links {
		byElement[l.ElementID] = append(byElement[l.ElementID], l)
	}

	result := make(map[string]float64, len(byElement))
	for elementID, ls := range byElement {
		sort.Slice(ls, func(i, j int) bool { return ls[i].FixIndex < ls[j].FixIndex })

		sum := 0.0
		for _, l := range ls {
			sum += l.Probability
		}
		pAvg := sum / float64(len(ls))

		coverage := 0.0
		runStart := 0
		for i := 1; i <= len(ls); i++ {
			if i < len(ls) && ls[i].FixIndex == ls[i-1].FixIndex+1 {
				continue
			}
			// ls[runStart:i] is one maximal contiguous run.
			for j := runStart; j+1 < i; j++ {
				coverage += spacing(ls[j].FixIndex, ls[j+1].FixIndex)
			}
			runStart = i
		}

		polylineLen := length(elementID)
		cDistance := 0.0
		if polylineLen > 0 {
			cDistance = coverage / polylineLen
			if cDistance > 1 {
				cDistance = 1
			}
		}

		result[elementID] = pAvg * cDistance
	}
	return result
}

// FixSpacingFromFixes builds a FixSpacing callback over a concrete fix
// list and geometry backend, the usual caller wiring for AggregateElement.
func FixSpacingFromFixes(fixes []model.GnssFix, backend geo.Backend) FixSpacing {
	return func(a, b int) float64 {
		return geo.FixSpacing(fixes[a], fixes[b], backend)
	}
}
