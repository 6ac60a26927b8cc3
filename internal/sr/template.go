package sr

import (
	"strconv"

	"github.com/mrsinham/srforge/internal/sr/code"
	"github.com/mrsinham/srforge/internal/sr/tree"
)

// ImageEntryAnnotation marks the IMAGE item instantiated for each image
// library entry.
const ImageEntryAnnotation = "TID 1601 - Row 1"

// SOP classes referenced from measurement groups.
const (
	SegmentationStorageUID          = "1.2.840.10008.5.1.4.1.1.66.4"
	RealWorldValueMappingStorageUID = "1.2.840.10008.5.1.4.1.1.67"
)

// treeBuilder keeps the first AddChild error so instantiation can be written
// as a flat sequence of additions.
type treeBuilder struct {
	t   *tree.Tree
	err error
}

func (b *treeBuilder) add(parent tree.NodeID, item tree.Item) tree.NodeID {
	if b.err != nil {
		return tree.None
	}
	id, err := b.t.AddChild(parent, item)
	if err != nil {
		b.err = err
	}
	return id
}

func (b *treeBuilder) code(parent tree.NodeID, rel tree.Relationship, concept, value code.CodedEntry) tree.NodeID {
	return b.add(parent, tree.Item{Relationship: rel, ValueType: tree.Code, Concept: concept, Code: value})
}

func (b *treeBuilder) text(parent tree.NodeID, rel tree.Relationship, vt tree.ValueType, concept code.CodedEntry, value string) tree.NodeID {
	return b.add(parent, tree.Item{Relationship: rel, ValueType: vt, Concept: concept, Text: value})
}

func (b *treeBuilder) num(parent tree.NodeID, rel tree.Relationship, concept code.CodedEntry, value string, units code.CodedEntry) tree.NodeID {
	return b.add(parent, tree.Item{Relationship: rel, ValueType: tree.Num, Concept: concept, Numeric: value, Units: units})
}

func (b *treeBuilder) container(parent tree.NodeID, concept code.CodedEntry, templateID string) tree.NodeID {
	return b.add(parent, tree.Item{Relationship: tree.Contains, ValueType: tree.Container, Concept: concept, TemplateID: templateID})
}

// instantiate expands r into its TID 1500 content tree.
func instantiate(r *Report) (*tree.Tree, error) {
	b := &treeBuilder{t: tree.New(tree.Item{
		ValueType:  tree.Container,
		Concept:    code.ImagingMeasurementReport,
		TemplateID: "1500",
	})}
	root := b.t.Root()

	b.code(root, tree.HasConceptMod, code.LanguageOfContent, r.Language)
	addObserver(b, root, r.ObservationContext)
	b.code(root, tree.HasConceptMod, code.ProcedureReported, r.ProcedureReported)

	addImageLibrary(b, root, r.ImageLibrary)

	if len(r.MeasurementGroups) > 0 {
		measurements := b.container(root, code.ImagingMeasurements, "")
		for _, g := range r.MeasurementGroups {
			addMeasurementGroup(b, measurements, g)
		}
	}

	if b.err != nil {
		return nil, b.err
	}
	return b.t, nil
}

func addObserver(b *treeBuilder, parent tree.NodeID, oc ObservationContext) {
	switch oc.Type {
	case ObserverPerson:
		b.code(parent, tree.HasObsContext, code.ObserverType, code.Person)
		b.text(parent, tree.HasObsContext, tree.PName, code.PersonObserverName, oc.PersonName)
	case ObserverDevice:
		b.code(parent, tree.HasObsContext, code.ObserverType, code.Device)
		b.text(parent, tree.HasObsContext, tree.UIDRef, code.DeviceObserverUID, oc.DeviceUID)
	}
}

func addImageLibrary(b *treeBuilder, parent tree.NodeID, lib *ImageLibrary) {
	library := b.container(parent, code.ImageLibrary, "1600")
	group := b.container(library, code.ImageLibraryGroup, "")

	for _, d := range lib.Descriptors {
		addDescriptor(b, group, d)
	}

	for _, e := range lib.Entries {
		img := b.add(group, tree.Item{
			Relationship: tree.Contains,
			ValueType:    tree.Image,
			Annotation:   ImageEntryAnnotation,
			Reference:    &tree.Reference{SOPClassUID: e.SOPClassUID, SOPInstanceUID: e.SOPInstanceUID},
		})
		for _, d := range e.Descriptors {
			addDescriptor(b, img, d)
		}
	}
}

var orientationConcepts = []code.CodedEntry{
	code.ImageOrientationPatientRowX,
	code.ImageOrientationPatientRowY,
	code.ImageOrientationPatientRowZ,
	code.ImageOrientationPatientColX,
	code.ImageOrientationPatientColY,
	code.ImageOrientationPatientColZ,
}

var positionConcepts = []code.CodedEntry{
	code.ImagePositionPatientX,
	code.ImagePositionPatientY,
	code.ImagePositionPatientZ,
}

// addDescriptor adds the acquisition context rows for one group or entry
// descriptor under parent. The SOP UIDs have no row of their own, and values
// that do not fit their row are left out like absent tags.
func addDescriptor(b *treeBuilder, parent tree.NodeID, d Descriptor) {
	v := d.Values
	switch d.Name {
	case "Modality":
		b.code(parent, tree.HasAcqContext, code.Modality, code.ModalityCode(v[0]))
	case "StudyDate":
		b.text(parent, tree.HasAcqContext, tree.Date, code.StudyDate, v[0])
	case "Columns":
		b.num(parent, tree.HasAcqContext, code.PixelDataColumns, v[0], code.Pixels)
	case "Rows":
		b.num(parent, tree.HasAcqContext, code.PixelDataRows, v[0], code.Pixels)
	case "PixelSpacing":
		// Pixel Spacing is row spacing then column spacing.
		if len(v) == 2 {
			b.num(parent, tree.HasAcqContext, code.HorizontalPixelSpacing, v[1], code.Millimeter)
			b.num(parent, tree.HasAcqContext, code.VerticalPixelSpacing, v[0], code.Millimeter)
		}
	case "BodyPartExamined":
		if region, ok := code.BodyPart(v[0]); ok {
			b.code(parent, tree.HasAcqContext, code.TargetRegion, region)
		}
	case "ImageOrientationPatient":
		if len(v) == len(orientationConcepts) {
			for i, c := range orientationConcepts {
				b.num(parent, tree.HasAcqContext, c, v[i], code.UnitVector)
			}
		}
	case "ImagePositionPatient":
		if len(v) == len(positionConcepts) {
			for i, c := range positionConcepts {
				b.num(parent, tree.HasAcqContext, c, v[i], code.Millimeter)
			}
		}
	}
}

func addMeasurementGroup(b *treeBuilder, parent tree.NodeID, g MeasurementGroup) {
	grp := b.container(parent, code.MeasurementGroup, "1411")

	if g.ActivitySession != "" {
		b.text(grp, tree.HasObsContext, tree.Text, code.ActivitySession, g.ActivitySession)
	}
	if g.TimePoint != "" {
		b.text(grp, tree.HasObsContext, tree.Text, code.TimePoint, g.TimePoint)
	}
	b.text(grp, tree.HasObsContext, tree.Text, code.TrackingIdentifier, g.TrackingIdentifier)
	b.text(grp, tree.HasObsContext, tree.UIDRef, code.TrackingUniqueIdentifier, g.TrackingUniqueIdentifier)

	b.add(grp, tree.Item{
		Relationship: tree.Contains,
		ValueType:    tree.Image,
		Concept:      code.ReferencedSegment,
		Reference: &tree.Reference{
			SOPClassUID:    SegmentationStorageUID,
			SOPInstanceUID: g.ReferencedSegment.SOPInstanceUID,
			Segments:       []int{g.ReferencedSegment.SegmentNumber},
		},
	})
	b.text(grp, tree.Contains, tree.UIDRef, code.SourceSeriesSegmentation, g.SourceSeriesUID)
	if g.RealWorldValueMapUID != "" {
		b.add(grp, tree.Item{
			Relationship: tree.Contains,
			ValueType:    tree.Composite,
			Concept:      code.RealWorldValueMapUsed,
			Reference:    &tree.Reference{SOPClassUID: RealWorldValueMappingStorageUID, SOPInstanceUID: g.RealWorldValueMapUID},
		})
	}

	if g.MeasurementMethod != nil {
		b.code(grp, tree.HasConceptMod, code.MeasurementMethod, *g.MeasurementMethod)
	}
	for _, site := range g.FindingSites {
		b.code(grp, tree.HasConceptMod, code.FindingSite, site)
	}
	b.code(grp, tree.Contains, code.Finding, g.Finding)

	for _, m := range g.Items {
		num := b.num(grp, tree.Contains, m.Quantity, m.Value, m.Units)
		if m.Derivation != nil {
			b.code(num, tree.HasConceptMod, code.Derivation, *m.Derivation)
		}
		for _, mod := range m.Modifiers {
			b.code(num, tree.HasConceptMod, mod.Modifier, mod.Value)
		}
		for _, p := range m.DerivationParameters {
			b.num(num, tree.InferredFrom, p.Parameter, p.Value, p.Units)
		}
	}
}

// segmentLabel is used in log output.
func segmentLabel(s SegmentReference) string {
	return s.SOPInstanceUID + "#" + strconv.Itoa(s.SegmentNumber)
}
