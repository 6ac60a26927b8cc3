package sr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrsinham/srforge/internal/sr/code"
	"github.com/mrsinham/srforge/internal/sr/tree"
)

func TestInstantiate_Header(t *testing.T) {
	r := validReport(t)
	tr, err := instantiate(r)
	require.NoError(t, err)

	root := tr.Item(tr.Root())
	assert.Equal(t, tree.Container, root.ValueType)
	assert.Equal(t, code.ImagingMeasurementReport, root.Concept)
	assert.Equal(t, "1500", root.TemplateID)

	var concepts []code.CodedEntry
	for _, c := range tr.Children(tr.Root()) {
		concepts = append(concepts, tr.Item(c).Concept)
	}
	assert.Equal(t, []code.CodedEntry{
		code.LanguageOfContent,
		code.ObserverType,
		code.PersonObserverName,
		code.ProcedureReported,
		code.ImageLibrary,
		code.ImagingMeasurements,
	}, concepts)

	name := tr.Item(tr.FindChild(tr.Root(), code.PersonObserverName))
	assert.Equal(t, tree.PName, name.ValueType)
	assert.Equal(t, tree.HasObsContext, name.Relationship)
	assert.Equal(t, "Reader^One", name.Text)
}

func TestInstantiate_ImageLibrary(t *testing.T) {
	tr := reportWithImages(t, ctImage(1))

	library := tr.FindChild(tr.Root(), code.ImageLibrary)
	group := tr.FindChild(library, code.ImageLibraryGroup)

	spacingH := tr.Item(tr.FindChild(group, code.HorizontalPixelSpacing))
	spacingV := tr.Item(tr.FindChild(group, code.VerticalPixelSpacing))
	assert.Equal(t, "0.8", spacingH.Numeric)
	assert.Equal(t, "0.7", spacingV.Numeric)
	assert.Equal(t, code.Millimeter, spacingH.Units)

	region := tr.Item(tr.FindChild(group, code.TargetRegion))
	assert.Equal(t, "Chest", region.Code.CodeMeaning)
	assert.Equal(t, "20240102", tr.Item(tr.FindChild(group, code.StudyDate)).Text)
	assert.Equal(t, "512", tr.Item(tr.FindChild(group, code.PixelDataRows)).Numeric)
	assert.NotEqual(t, tree.None, tr.FindChild(group, code.ImageOrientationPatientColZ))

	c := tr.NewCursor()
	img := c.GotoAnnotated(ImageEntryAnnotation)
	require.NotEqual(t, tree.None, img)
	item := tr.Item(img)
	assert.Equal(t, tree.Image, item.ValueType)
	require.NotNil(t, item.Reference)
	assert.Equal(t, "1.2.3.4.5.1", item.Reference.SOPInstanceUID)
	assert.Equal(t, tree.HasAcqContext, tr.Item(tr.FindChild(img, code.Modality)).Relationship)
	assert.Equal(t, "-49", tr.Item(tr.FindChild(img, code.ImagePositionPatientZ)).Numeric)

	// The SOP UID descriptors of an entry only feed its reference.
	var concepts []string
	for _, id := range tr.Children(img) {
		concepts = append(concepts, tr.Item(id).Concept.CodeValue)
	}
	assert.Equal(t, []string{"121139", "110901", "110902", "110903"}, concepts)
}

func TestInstantiate_MeasurementGroup(t *testing.T) {
	r := validReport(t)
	r.MeasurementGroups[0].ActivitySession = "1"
	r.MeasurementGroups[0].RealWorldValueMapUID = "1.2.3.555"
	tr, err := instantiate(r)
	require.NoError(t, err)

	measurements := tr.FindChild(tr.Root(), code.ImagingMeasurements)
	groups := tr.Children(measurements)
	require.Len(t, groups, 1)
	grp := groups[0]
	assert.Equal(t, "1411", tr.Item(grp).TemplateID)

	assert.Equal(t, "Lesion1", tr.Item(tr.FindChild(grp, code.TrackingIdentifier)).Text)
	assert.Equal(t, "1", tr.Item(tr.FindChild(grp, code.ActivitySession)).Text)
	assert.Equal(t, tree.None, tr.FindChild(grp, code.TimePoint))

	seg := tr.Item(tr.FindChild(grp, code.ReferencedSegment))
	require.NotNil(t, seg.Reference)
	assert.Equal(t, SegmentationStorageUID, seg.Reference.SOPClassUID)
	assert.Equal(t, []int{1}, seg.Reference.Segments)

	rwvm := tr.Item(tr.FindChild(grp, code.RealWorldValueMapUsed))
	assert.Equal(t, tree.Composite, rwvm.ValueType)
	assert.Equal(t, RealWorldValueMappingStorageUID, rwvm.Reference.SOPClassUID)

	var nums []tree.NodeID
	for _, c := range tr.Children(grp) {
		if tr.Item(c).ValueType == tree.Num {
			nums = append(nums, c)
		}
	}
	require.Len(t, nums, 2)
	assert.Equal(t, "Volume", tr.Item(nums[0]).Concept.CodeMeaning)

	children := tr.Children(nums[1])
	require.Len(t, children, 4, "derivation, two modifiers and one parameter")
	assert.Equal(t, code.Derivation, tr.Item(children[0]).Concept)
	assert.Equal(t, tree.HasConceptMod, tr.Item(children[1]).Relationship)
	assert.Equal(t, tree.InferredFrom, tr.Item(children[3]).Relationship)
	assert.Equal(t, "1.0", tr.Item(children[3]).Numeric)
}
