// Package candidates builds, per GNSS fix, the set of nearby net-elements
// a fix could plausibly belong to (§4.5): an R-tree lookup narrowed by
// exact perpendicular-distance projection, capped at the configured
// candidate count.
package candidates

import (
	"math"
	"sort"

	"github.com/Matdata-eu/tp-lib/pkg/crs"
	"github.com/Matdata-eu/tp-lib/pkg/geo"
	"github.com/Matdata-eu/tp-lib/pkg/model"
	"github.com/Matdata-eu/tp-lib/pkg/spatialindex"
)

// Geometry bundles what the builder needs to turn an element id into a
// projectable linestring, keeping this package independent of how the
// caller assembled the network's geometry.
type Geometry struct {
	LineStrings map[string]*geo.LineString
}

// Params are the tuning knobs from config relevant to candidate
// selection (§6).
type Params struct {
	NetworkCRS    string
	CutoffDist    float64
	MaxCandidates int
	Oversample    int // multiplier applied to MaxCandidates for the index query
}

// Build produces, for every fix, the list of CandidateLinks that survive
// the cutoff and top-k selection (§4.5). The outer slice is indexed by
// fix position. A fix with no surviving candidates gets an empty (not
// nil-skipped) entry and a warning — it still participates, contributing
// nothing, in later aggregation.
func Build(fixes []model.GnssFix, index *spatialindex.RTree, geomtry Geometry, transformer crs.Transformer, params Params) ([][]model.CandidateLink, []model.Warning, error) {
	out := make([][]model.CandidateLink, len(fixes))
	var warnings []model.Warning

	oversample := params.Oversample
	if oversample < 1 {
		oversample = 2
	}
	k := params.MaxCandidates
	if k < 1 {
		k = 1
	}

	for i, fix := range fixes {
		p := geo.FixPoint(fix)
		if fix.CRS != "" && fix.CRS != params.NetworkCRS {
			transformed, err := transformer.Transform(p, fix.CRS, params.NetworkCRS)
			if err != nil {
				return nil, nil, err
			}
			p = transformed
		}

		indexCutoff := geo.CutoffToNative(params.NetworkCRS, params.CutoffDist, p.Y)
		hits := index.NearestWithin(p.X, p.Y, indexCutoff, k*oversample)

		links := make([]model.CandidateLink, 0, len(hits))
		for _, hit := range hits {
			ls, ok := geomtry.LineStrings[hit.ElementID]
			if !ok {
				continue
			}
			proj := geo.Project(ls, p)
			if proj.PerpDistance > params.CutoffDist {
				continue
			}
			link := model.CandidateLink{
				FixIndex:     i,
				ElementID:    hit.ElementID,
				Point:        proj.Foot,
				PerpDistance: proj.PerpDistance,
				Intrinsic:    proj.Intrinsic,
			}
			heading := geo.SegmentHeading(ls, proj.Intrinsic)
			if fix.HasHeading {
				link.HasHeadingDiff = true
				link.HeadingDiff = headingDelta(fix.Heading, heading)
			}
			links = append(links, link)
		}

		sort.SliceStable(links, func(a, b int) bool {
			if links[a].PerpDistance != links[b].PerpDistance {
				return links[a].PerpDistance < links[b].PerpDistance
			}
			return links[a].ElementID < links[b].ElementID
		})
		if len(links) > k {
			links = links[:k]
		}

		if len(links) == 0 {
			fixIdx := i
			warnings = append(warnings, model.Warning{
				Code:     "no_candidates",
				Message:  "fix has no candidate elements within cutoff distance",
				FixIndex: &fixIdx,
			})
		}
		out[i] = links
	}

	return out, warnings, nil
}

// headingDelta is the directional difference between a fix's heading and
// a segment's heading, folded into [0,90] because a track is bidirectional
// for alignment purposes — 180 degrees apart is as good as an exact match
// (§4.6).
func headingDelta(fixHeading, segmentHeading float64) float64 {
	diff := math.Mod(math.Abs(fixHeading-segmentHeading), 360)
	if diff > 180 {
		diff = 360 - diff
	}
	if diff > 90 {
		diff = 180 - diff
	}
	return diff
}
