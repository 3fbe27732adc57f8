// Package matcher is the single public entry point of the map-matching
// core (§4.9): it wires validation, candidate generation, probability
// scoring, bidirectional path construction, selection and projection
// into one synchronous call, falling back to independent per-fix
// projection when topology-based construction can't produce a path
// (§7).
package matcher

import (
	"context"
	"fmt"

	"github.com/Matdata-eu/tp-lib/pkg/candidates"
	"github.com/Matdata-eu/tp-lib/pkg/config"
	"github.com/Matdata-eu/tp-lib/pkg/crs"
	"github.com/Matdata-eu/tp-lib/pkg/errs"
	"github.com/Matdata-eu/tp-lib/pkg/geo"
	"github.com/Matdata-eu/tp-lib/pkg/logx"
	"github.com/Matdata-eu/tp-lib/pkg/model"
	"github.com/Matdata-eu/tp-lib/pkg/pathconstruct"
	"github.com/Matdata-eu/tp-lib/pkg/pathselect"
	"github.com/Matdata-eu/tp-lib/pkg/probability"
	"github.com/Matdata-eu/tp-lib/pkg/resample"
	"github.com/Matdata-eu/tp-lib/pkg/spatialindex"
	"github.com/Matdata-eu/tp-lib/pkg/topology"
	"github.com/Matdata-eu/tp-lib/pkg/validate"
)

// Match runs one map-matching call: validate inputs, build the network's
// spatial and topological indexes, score candidates, construct and
// select a bidirectional path, and project every fix onto it — falling
// back to independent projection if no usable path is found.
//
// The context is checked once at entry for cancellation; the core has no
// internal suspension points to thread it through (§5).
func Match(ctx context.Context, fixes []model.GnssFix, network model.Network, cfg config.Config, transformer crs.Transformer) (*model.PathResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validate.Fixes(fixes); err != nil {
		return nil, err
	}
	if err := validate.Elements(network.Elements); err != nil {
		return nil, err
	}

	backend := geo.NewBackend(network.CRS)

	lineStrings := make(map[string]*geo.LineString, len(network.Elements))
	elementLength := make(map[string]float64, len(network.Elements))
	indexItems := make([]spatialindex.Item, 0, len(network.Elements))
	for _, e := range network.Elements {
		ls, err := geo.NewLineString(e.Geometry, backend)
		if err != nil {
			return nil, err
		}
		lineStrings[e.ID] = ls
		elementLength[e.ID] = ls.TotalLength()
		minX, minY, maxX, maxY := ls.Bounds()
		indexItems = append(indexItems, spatialindex.Item{ElementID: e.ID, MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY})
	}

	index, err := spatialindex.Build(indexItems)
	if err != nil {
		return nil, err
	}

	graph, topoWarnings := topology.Build(network.Elements, network.Relations)
	warnings := append([]model.Warning{}, topoWarnings...)

	if len(fixes) == 0 {
		return &model.PathResult{Mode: model.ModeFallbackIndependent, Warnings: warnings}, nil
	}

	stride := resample.Stride(fixes, backend, cfg.ResamplingDistance)
	constructionIdx := resample.Indices(len(fixes), stride)
	constructionFixes := resample.Select(fixes, constructionIdx)

	probParams := probability.Params{DistanceScale: cfg.DistanceScale, HeadingScale: cfg.HeadingScale, HeadingCutoff: cfg.HeadingCutoff}
	candParams := candidates.Params{
		NetworkCRS:    network.CRS,
		CutoffDist:    cfg.CutoffDistance,
		MaxCandidates: cfg.MaxCandidates,
		Oversample:    cfg.CandidateOversample,
	}
	perFix, candWarnings, err := candidates.Build(constructionFixes, index, candidates.Geometry{LineStrings: lineStrings}, transformer, candParams)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, candWarnings...)

	var allLinks []model.CandidateLink
	fixRanges := make(map[string]pathconstruct.FixRange)
	for i, links := range perFix {
		for _, l := range links {
			allLinks = append(allLinks, l)
			fr, ok := fixRanges[l.ElementID]
			if !ok {
				fr = pathconstruct.FixRange{Begin: i, End: i}
			} else {
				if i < fr.Begin {
					fr.Begin = i
				}
				if i > fr.End {
					fr.End = i
				}
			}
			fixRanges[l.ElementID] = fr
		}
	}
	probability.ScoreLinks(allLinks, probParams)
	elementP := probability.AggregateElement(allLinks, func(id string) float64 { return elementLength[id] }, probability.FixSpacingFromFixes(constructionFixes, backend))

	logx.Debugf("matcher: %d fixes, %d construction fixes, %d candidate links, %d scored elements", len(fixes), len(constructionFixes), len(allLinks), len(elementP))

	chosen, ok := constructPath(graph, elementP, elementLength, fixRanges, perFix, cfg)
	if ok {
		projected, err := pathselect.Project(fixes, chosen.Walk, lineStrings, elementLength, transformer, network.CRS)
		if err != nil {
			return nil, err
		}
		elements := pathselect.AssociateElements(chosen.Walk, elementP, projected)
		path := &model.TrainPath{
			Elements:       elements,
			Probability:    chosen.Score,
			Mode:           model.ModeTopologyBased,
			ParametersUsed: config.Snapshot(cfg),
		}
		return &model.PathResult{
			Path:           path,
			Mode:           model.ModeTopologyBased,
			ProjectedFixes: projected,
			Warnings:       warnings,
		}, nil
	}

	warnings = append(warnings, model.Warning{
		Code:    "fallback_independent",
		Message: "no topology-based path could be constructed; falling back to independent per-fix projection",
	})
	return fallback(fixes, index, lineStrings, elementLength, transformer, network.CRS, cfg.CutoffDistance, warnings)
}

// constructPath runs forward and backward beam search from the best
// starting element at each end of the construction-fix sequence, and
// selects the best-scoring combined walk.
func constructPath(graph *topology.Graph, elementP, elementLength map[string]float64, fixRanges map[string]pathconstruct.FixRange, perFix [][]model.CandidateLink, cfg config.Config) (pathselect.ScoredWalk, bool) {
	if len(perFix) == 0 {
		return pathselect.ScoredWalk{}, false
	}
	lastIdx := len(perFix) - 1

	in := pathconstruct.Input{
		Graph:          graph,
		ElementP:       elementP,
		ElementLength:  elementLength,
		FixRanges:      fixRanges,
		FirstFixIndex:  0,
		LastFixIndex:   lastIdx,
		ProbabilityMin: cfg.ProbabilityThreshold,
		BeamWidth:      cfg.BeamWidth,
	}

	var forwardWalks, backwardWalks []pathconstruct.Walk

	if startElem, startSide, ok := startCandidate(perFix[0], elementP); ok {
		forwardWalks = pathconstruct.Construct(in, pathconstruct.Forward, startElem, startSide)
	}
	if startElem, startSide, ok := startCandidate(perFix[lastIdx], elementP); ok {
		backRaw := pathconstruct.Construct(in, pathconstruct.Backward, startElem, startSide)
		backwardWalks = make([]pathconstruct.Walk, len(backRaw))
		for i, w := range backRaw {
			backwardWalks[i] = pathconstruct.Reverse(w)
		}
	}

	if len(forwardWalks) == 0 && len(backwardWalks) == 0 {
		return pathselect.ScoredWalk{}, false
	}

	scored := pathselect.CombineWalks(forwardWalks, backwardWalks, elementP, elementLength)
	return pathselect.Select(scored)
}

func startCandidate(links []model.CandidateLink, elementP map[string]float64) (string, topology.Side, bool) {
	if len(links) == 0 {
		return "", 0, false
	}
	ids := make([]string, len(links))
	intrinsics := make(map[string]float64, len(links))
	for i, l := range links {
		ids[i] = l.ElementID
		intrinsics[l.ElementID] = l.Intrinsic
	}
	return pathconstruct.BestStartElement(elementP, ids, intrinsics)
}

// fallback independently projects every fix onto its single globally
// nearest element, ignoring topology and the probability threshold
// (§4.9). Fixes beyond the cutoff are omitted with a warning. If not a
// single fix could be projected, the call fails with
// ErrPathCalculationFailed.
func fallback(fixes []model.GnssFix, index *spatialindex.RTree, lineStrings map[string]*geo.LineString, elementLength map[string]float64, transformer crs.Transformer, networkCRS string, cutoff float64, warnings []model.Warning) (*model.PathResult, error) {
	var projected []model.ProjectedFix
	for i, fix := range fixes {
		p := geo.FixPoint(fix)
		if fix.CRS != "" && fix.CRS != networkCRS {
			t, err := transformer.Transform(p, fix.CRS, networkCRS)
			if err != nil {
				return nil, err
			}
			p = t
		}

		indexCutoff := geo.CutoffToNative(networkCRS, cutoff, p.Y)
		hits := index.NearestWithin(p.X, p.Y, indexCutoff, len(lineStrings))
		bestID := ""
		var proj geo.Projection
		for _, h := range hits {
			pr := geo.Project(lineStrings[h.ElementID], p)
			if pr.PerpDistance > cutoff {
				continue
			}
			if bestID == "" || pr.PerpDistance < proj.PerpDistance {
				bestID, proj = h.ElementID, pr
			}
		}
		if bestID == "" {
			fixIdx := i
			warnings = append(warnings, model.Warning{
				Code:     "fix_beyond_cutoff",
				Message:  fmt.Sprintf("fix %d has no element within cutoff distance during fallback projection", i),
				FixIndex: &fixIdx,
			})
			continue
		}

		projected = append(projected, model.ProjectedFix{
			Original:              fix,
			Point:                 proj.Foot,
			ElementID:             bestID,
			Intrinsic:             proj.Intrinsic,
			Measure:               proj.Measure,
			PerpendicularDistance: proj.PerpDistance,
			ResultCRS:             networkCRS,
		})
	}

	if len(projected) == 0 {
		return nil, errs.ErrPathCalculationFailed
	}

	return &model.PathResult{
		Mode:           model.ModeFallbackIndependent,
		ProjectedFixes: projected,
		Warnings:       warnings,
	}, nil
}
