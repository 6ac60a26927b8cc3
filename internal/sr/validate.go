package sr

import "github.com/mrsinham/srforge/internal/util"

// Checkpoint names used by the assembler.
const (
	CheckpointHeader = "header"
	CheckpointFinal  = "final"
)

// Valid reports whether r is a complete report: the header concepts are set,
// the observation context identifies its observer and every measurement group
// carries its required fields. There are no partial results.
func Valid(r *Report) bool {
	if r == nil || r.ImageLibrary == nil {
		return false
	}
	if !r.Language.IsComplete() || !r.ProcedureReported.IsComplete() {
		return false
	}
	switch r.ObservationContext.Type {
	case ObserverPerson:
		if r.ObservationContext.PersonName == "" {
			return false
		}
	case ObserverDevice:
		if !util.IsValidUID(r.ObservationContext.DeviceUID) {
			return false
		}
	default:
		return false
	}
	if r.Verification == Verified && (r.Completion != Complete || r.ObservationContext.Type != ObserverPerson) {
		return false
	}
	for _, g := range r.MeasurementGroups {
		if !groupComplete(g) {
			return false
		}
	}
	return true
}

// Checkpoint returns an InvalidDocumentError naming the checkpoint when r is
// not valid.
func Checkpoint(name string, r *Report) error {
	if !Valid(r) {
		return &InvalidDocumentError{Checkpoint: name}
	}
	return nil
}

func groupComplete(g MeasurementGroup) bool {
	if g.TrackingIdentifier == "" || !util.IsValidUID(g.TrackingUniqueIdentifier) {
		return false
	}
	if g.SourceSeriesUID == "" || g.ReferencedSegment.SOPInstanceUID == "" || g.ReferencedSegment.SegmentNumber < 1 {
		return false
	}
	if !g.Finding.IsComplete() {
		return false
	}
	for _, s := range g.FindingSites {
		if !s.IsComplete() {
			return false
		}
	}
	if g.MeasurementMethod != nil && !g.MeasurementMethod.IsComplete() {
		return false
	}
	for _, m := range g.Items {
		if !itemComplete(m) {
			return false
		}
	}
	return true
}

func itemComplete(m MeasurementItem) bool {
	if !m.Quantity.IsComplete() || !m.Units.IsComplete() || m.Value == "" {
		return false
	}
	if m.Derivation != nil && !m.Derivation.IsComplete() {
		return false
	}
	for _, mod := range m.Modifiers {
		if !mod.Modifier.IsComplete() || !mod.Value.IsComplete() {
			return false
		}
	}
	for _, p := range m.DerivationParameters {
		if !p.Parameter.IsComplete() || !p.Units.IsComplete() || p.Value == "" {
			return false
		}
	}
	return true
}
