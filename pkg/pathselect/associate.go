package pathselect

import (
	"github.com/Matdata-eu/tp-lib/pkg/model"
	"github.com/Matdata-eu/tp-lib/pkg/pathconstruct"
)

// AssociateElements builds the TrainPath.Elements slice from a selected
// walk and the per-fix projection result: each walked element's
// begin/end intrinsic and fix-index range come from the first and last
// fix that actually projected onto it, in path order.
func AssociateElements(walk pathconstruct.Walk, elementP map[string]float64, projected []model.ProjectedFix) []model.AssociatedElement {
	out := make([]model.AssociatedElement, len(walk.Elements))
	for i, step := range walk.Elements {
		ae := model.AssociatedElement{ElementID: step.ElementID, Probability: elementP[step.ElementID]}
		firstSeen := false
		for fixIdx, pf := range projected {
			if pf.ElementID != step.ElementID {
				continue
			}
			if !firstSeen {
				ae.BeginIntrinsic = pf.Intrinsic
				ae.BeginFixIndex = fixIdx
				firstSeen = true
			}
			ae.EndIntrinsic = pf.Intrinsic
			ae.EndFixIndex = fixIdx
		}
		out[i] = ae
	}
	return out
}
