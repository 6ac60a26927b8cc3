package sr

import (
	"github.com/mrsinham/srforge/internal/metadata"
	"github.com/mrsinham/srforge/internal/sr/code"
)

// Session holds document-level values replicated into every measurement group.
type Session struct {
	ActivitySession string
	TimePoint       string
}

// BuildMeasurementGroup reads one Measurements[] record. Required fields are
// checked in a fixed order so the first missing one is reported:
// TrackingIdentifier, SourceSeriesForImageSegmentation,
// segmentationSOPInstanceUID, ReferencedSegment, Finding.
//
// A TrackingUniqueIdentifier absent from the record is taken from newUID.
func BuildMeasurementGroup(record metadata.Node, s Session, newUID func() string) (MeasurementGroup, error) {
	g := MeasurementGroup{
		ActivitySession: s.ActivitySession,
		TimePoint:       s.TimePoint,
	}
	var err error

	if g.TrackingIdentifier, err = requiredString(record, "TrackingIdentifier"); err != nil {
		return MeasurementGroup{}, err
	}
	if record.IsMember("TrackingUniqueIdentifier") {
		if g.TrackingUniqueIdentifier, err = requiredUID(record, "TrackingUniqueIdentifier"); err != nil {
			return MeasurementGroup{}, err
		}
	} else {
		g.TrackingUniqueIdentifier = newUID()
	}

	if g.SourceSeriesUID, err = requiredUID(record, "SourceSeriesForImageSegmentation"); err != nil {
		return MeasurementGroup{}, err
	}
	if record.IsMember("rwvmMapUsedForMeasurement") {
		if g.RealWorldValueMapUID, err = requiredUID(record, "rwvmMapUsedForMeasurement"); err != nil {
			return MeasurementGroup{}, err
		}
	}

	if g.ReferencedSegment.SOPInstanceUID, err = requiredUID(record, "segmentationSOPInstanceUID"); err != nil {
		return MeasurementGroup{}, err
	}
	seg := record.Get("ReferencedSegment")
	if !seg.Exists() {
		return MeasurementGroup{}, missing(record, "ReferencedSegment")
	}
	n, ok := seg.Int()
	if !ok || n < 1 || n > 0xFFFF {
		return MeasurementGroup{}, &InvalidFieldError{Field: seg.Path(), Reason: "segment number must be an integer between 1 and 65535"}
	}
	g.ReferencedSegment.SegmentNumber = n

	if g.Finding, err = CodedEntryFrom(record, "Finding"); err != nil {
		return MeasurementGroup{}, err
	}

	if g.FindingSites, err = findingSites(record); err != nil {
		return MeasurementGroup{}, err
	}
	if g.MeasurementMethod, err = optionalCodedEntry(record, "MeasurementMethod"); err != nil {
		return MeasurementGroup{}, err
	}

	items, err := arrayField(record, "measurementItems")
	if err != nil {
		return MeasurementGroup{}, err
	}
	for i := 0; i < items.Len(); i++ {
		item, err := BuildMeasurementItem(items.Index(i))
		if err != nil {
			return MeasurementGroup{}, err
		}
		g.Items = append(g.Items, item)
	}
	return g, nil
}

// findingSites accepts FindingSite as a single coded entry or as an array of them.
func findingSites(record metadata.Node) ([]code.CodedEntry, error) {
	n := record.Get("FindingSite")
	if !n.IsArray() {
		site, err := optionalCodedEntry(record, "FindingSite")
		if err != nil || site == nil {
			return nil, err
		}
		return []code.CodedEntry{*site}, nil
	}
	sites := make([]code.CodedEntry, 0, n.Len())
	for i := 0; i < n.Len(); i++ {
		site, err := codedEntryOf(n.Index(i))
		if err != nil {
			return nil, err
		}
		sites = append(sites, site)
	}
	return sites, nil
}

// BuildMeasurementItem reads one measurementItems[] record: the required
// quantity, value and units, then an optional derivationModifier, the
// measurementModifiers pairs and the measurementDerivationParameters.
func BuildMeasurementItem(record metadata.Node) (MeasurementItem, error) {
	var (
		m   MeasurementItem
		err error
	)
	if m.Quantity, err = CodedEntryFrom(record, "quantity"); err != nil {
		return MeasurementItem{}, err
	}
	if m.Value, err = requiredNumeric(record, "value"); err != nil {
		return MeasurementItem{}, err
	}
	if m.Units, err = CodedEntryFrom(record, "units"); err != nil {
		return MeasurementItem{}, err
	}

	if m.Derivation, err = optionalCodedEntry(record, "derivationModifier"); err != nil {
		return MeasurementItem{}, err
	}

	mods, err := arrayField(record, "measurementModifiers")
	if err != nil {
		return MeasurementItem{}, err
	}
	for i := 0; i < mods.Len(); i++ {
		mod := mods.Index(i)
		var pair Modifier
		if pair.Modifier, err = CodedEntryFrom(mod, "modifier"); err != nil {
			return MeasurementItem{}, err
		}
		if pair.Value, err = CodedEntryFrom(mod, "modifierValue"); err != nil {
			return MeasurementItem{}, err
		}
		m.Modifiers = append(m.Modifiers, pair)
	}

	params, err := arrayField(record, "measurementDerivationParameters")
	if err != nil {
		return MeasurementItem{}, err
	}
	for i := 0; i < params.Len(); i++ {
		p, err := buildDerivationParameter(params.Index(i))
		if err != nil {
			return MeasurementItem{}, err
		}
		m.DerivationParameters = append(m.DerivationParameters, p)
	}
	return m, nil
}

func buildDerivationParameter(record metadata.Node) (DerivationParameter, error) {
	var (
		p   DerivationParameter
		err error
	)
	if p.Parameter, err = CodedEntryFrom(record, "derivationParameter"); err != nil {
		return DerivationParameter{}, err
	}
	if p.Value, err = requiredNumeric(record, "derivationParameterValue"); err != nil {
		return DerivationParameter{}, err
	}
	if p.Units, err = CodedEntryFrom(record, "derivationParameterUnits"); err != nil {
		return DerivationParameter{}, err
	}
	return p, nil
}
