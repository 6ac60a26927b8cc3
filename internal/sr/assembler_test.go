package sr

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrsinham/srforge/internal/sr/code"
	"github.com/mrsinham/srforge/internal/sr/tree"
	"github.com/mrsinham/srforge/internal/util"
)

var fixedNow = time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)

func newTestAssembler(opts ...Option) *Assembler {
	base := []Option{WithUIDGenerator(counterUIDs()), WithClock(func() time.Time { return fixedNow })}
	return NewAssembler(append(base, opts...)...)
}

func fullInput(t *testing.T, doc string) Input {
	return Input{
		Doc:              decode(t, doc),
		ImageLibrary:     []Evidence{ctImage(1), ctImage(2)},
		CompositeContext: []Evidence{segObject()},
	}
}

// modalityRows counts Modality children of annotated image entries.
func modalityRows(tr *tree.Tree) int {
	n := 0
	tr.Walk(func(id tree.NodeID, _ int) bool {
		if tr.Item(id).Annotation == ImageEntryAnnotation && tr.FindChild(id, code.Modality) != tree.None {
			n++
		}
		return true
	})
	return n
}

func TestAssemble_WellFormed(t *testing.T) {
	doc, err := newTestAssembler().Assemble(fullInput(t, reportJSON(groupJSON, groupJSON)))
	require.NoError(t, err)

	r := doc.Report
	assert.True(t, Valid(&r))
	assert.Equal(t, code.English, r.Language)
	assert.Equal(t, code.ImagingProcedure, r.ProcedureReported)
	assert.Equal(t, ObservationContext{Type: ObserverPerson, PersonName: "Reader^One"}, r.ObservationContext)
	assert.Equal(t, 2, r.ImageLibrary.Len())
	require.Len(t, r.MeasurementGroups, 2)
	assert.NotEqual(t, r.MeasurementGroups[0].TrackingUniqueIdentifier, r.MeasurementGroups[1].TrackingUniqueIdentifier)
	for _, g := range r.MeasurementGroups {
		assert.Equal(t, "1", g.ActivitySession)
		assert.Equal(t, "baseline", g.TimePoint)
	}
	assert.Equal(t, "Measurements", r.SeriesDescription)
	assert.Equal(t, "1", r.InstanceNumber)
	assert.Equal(t, "300", r.SeriesNumber)
	assert.Equal(t, Partial, r.Completion)
	assert.Equal(t, Unverified, r.Verification)

	assert.Equal(t, "1.2.3.4", doc.StudyInstanceUID)
	assert.True(t, util.IsValidUID(doc.SOPInstanceUID))
	assert.NotEqual(t, doc.SOPInstanceUID, doc.SeriesInstanceUID)
	assert.Equal(t, fixedNow, doc.Created)

	// Both entries lost their Modality row, the group kept its own.
	assert.Equal(t, 2, doc.Pruned)
	assert.Equal(t, 0, modalityRows(doc.Tree))
	library := doc.Tree.FindChild(doc.Tree.Root(), code.ImageLibrary)
	group := doc.Tree.FindChild(library, code.ImageLibraryGroup)
	assert.NotEqual(t, tree.None, doc.Tree.FindChild(group, code.Modality))

	measurements := doc.Tree.FindChild(doc.Tree.Root(), code.ImagingMeasurements)
	assert.Len(t, doc.Tree.Children(measurements), 2)
}

func TestAssemble_EvidenceOrder(t *testing.T) {
	doc, err := newTestAssembler().Assemble(fullInput(t, reportJSON(groupJSON)))
	require.NoError(t, err)

	ev := doc.Report.Evidence
	require.Len(t, ev, 3)
	assert.Equal(t, RoleCompositeContext, ev[0].Role)
	assert.Equal(t, "9.8.7.6", ev[0].SOPInstanceUID)
	assert.Equal(t, RoleImageLibrary, ev[1].Role)
	assert.Equal(t, "1.2.3.4.5.1", ev[1].SOPInstanceUID)
	assert.Equal(t, "1.2.3.4.5.2", ev[2].SOPInstanceUID)
}

func TestAssemble_MismatchedEvidenceAccepted(t *testing.T) {
	// The group references a segmentation and source series that none of
	// the evidence objects belong to.
	in := fullInput(t, reportJSON(groupJSON))
	in.CompositeContext = []Evidence{{Source: "other.dcm", SOPClassUID: "1.2.3", SOPInstanceUID: "5.5.5.5", StudyInstanceUID: "5.5"}}

	doc, err := newTestAssembler().Assemble(in)
	require.NoError(t, err)
	assert.Equal(t, "1.2.3.4.200", doc.Report.MeasurementGroups[0].ReferencedSegment.SOPInstanceUID)
	assert.Equal(t, "5.5.5.5", doc.Report.Evidence[0].SOPInstanceUID)
	assert.Equal(t, "5.5", doc.StudyInstanceUID)
}

func TestAssemble_EmptyReport(t *testing.T) {
	in := Input{Doc: decode(t, `{"observerContext": {"ObserverType": "DEVICE", "DeviceObserverUID": "1.2.3.4.5"}}`)}

	doc, err := newTestAssembler().Assemble(in)
	require.NoError(t, err)

	r := doc.Report
	assert.True(t, Valid(&r))
	require.NotNil(t, r.ImageLibrary)
	assert.Equal(t, 0, r.ImageLibrary.Len())
	assert.Equal(t, code.ImagingProcedure, r.ProcedureReported)
	assert.Empty(t, r.MeasurementGroups)
	assert.Empty(t, r.Evidence)
	assert.Equal(t, 0, doc.Pruned)

	root := doc.Tree.Root()
	library := doc.Tree.FindChild(root, code.ImageLibrary)
	require.NotEqual(t, tree.None, library, "the image library exists even when empty")
	group := doc.Tree.FindChild(library, code.ImageLibraryGroup)
	require.NotEqual(t, tree.None, group)
	assert.Empty(t, doc.Tree.Children(group))
	assert.Equal(t, tree.None, doc.Tree.FindChild(root, code.ImagingMeasurements))

	proc := doc.Tree.FindChild(root, code.ProcedureReported)
	require.NotEqual(t, tree.None, proc)
	assert.Equal(t, code.ImagingProcedure, doc.Tree.Item(proc).Code)

	// No composite context or images: the study UID is generated.
	assert.True(t, util.IsValidUID(doc.StudyInstanceUID))
}

func TestAssemble_MissingProcedureReported(t *testing.T) {
	a := newTestAssembler(WithProcedureReported(code.CodedEntry{}))

	doc, err := a.Assemble(fullInput(t, reportJSON(groupJSON)))
	assert.Nil(t, doc)
	var invalid *InvalidDocumentError
	require.True(t, errors.As(err, &invalid), "got %v", err)
	assert.Equal(t, CheckpointHeader, invalid.Checkpoint)
}

func TestAssemble_FieldErrorsAbort(t *testing.T) {
	tests := []struct {
		name    string
		in      Input
		wantErr any
	}{
		{
			name:    "missing observer context",
			in:      Input{Doc: decode(t, `{"Measurements": []}`)},
			wantErr: &MissingFieldError{},
		},
		{
			name:    "unknown observer type",
			in:      Input{Doc: decode(t, `{"observerContext": {"ObserverType": "ALIEN"}}`)},
			wantErr: &UnknownObserverTypeError{},
		},
		{
			name:    "one bad group among good ones",
			in:      Input{Doc: decode(t, reportJSON(groupJSON, `{"TrackingIdentifier": "Lesion2"}`))},
			wantErr: &MissingFieldError{},
		},
		{
			name:    "measurements not an array",
			in:      Input{Doc: decode(t, `{"observerContext": {"ObserverType": "PERSON", "PersonObserverName": "A"}, "Measurements": {}}`)},
			wantErr: &InvalidFieldError{},
		},
		{
			name: "image without instance UID",
			in: Input{
				Doc:          decode(t, reportJSON()),
				ImageLibrary: []Evidence{{Source: "broken.dcm", SOPClassUID: "1.2.3"}},
			},
			wantErr: &MissingFieldError{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := newTestAssembler().Assemble(tc.in)
			assert.Nil(t, doc, "no document on failure")
			switch want := tc.wantErr.(type) {
			case *MissingFieldError:
				assert.True(t, errors.As(err, &want), "got %v", err)
			case *UnknownObserverTypeError:
				assert.True(t, errors.As(err, &want), "got %v", err)
			case *InvalidFieldError:
				assert.True(t, errors.As(err, &want), "got %v", err)
			}
		})
	}
}

func TestAssemble_Verification(t *testing.T) {
	person := `"observerContext": {"ObserverType": "PERSON", "PersonObserverName": "Reader^One"}`
	device := `"observerContext": {"ObserverType": "DEVICE", "DeviceObserverUID": "1.2.3.4"}`

	tests := []struct {
		name             string
		doc              string
		wantCompletion   Completion
		wantVerification Verification
	}{
		{"complete and verified by a person", `{` + person + `, "CompletionFlag": "COMPLETE", "VerificationFlag": "VERIFIED"}`, Complete, Verified},
		{"flags are case-insensitive", `{` + person + `, "CompletionFlag": "complete", "VerificationFlag": "verified"}`, Complete, Verified},
		{"verification without completion", `{` + person + `, "VerificationFlag": "VERIFIED"}`, Partial, Unverified},
		{"verification of a partial report", `{` + person + `, "CompletionFlag": "PARTIAL", "VerificationFlag": "VERIFIED"}`, Partial, Unverified},
		{"verification by a device", `{` + device + `, "CompletionFlag": "COMPLETE", "VerificationFlag": "VERIFIED"}`, Complete, Unverified},
		{"complete only", `{` + person + `, "CompletionFlag": "COMPLETE"}`, Complete, Unverified},
		{"unknown completion flag ignored", `{` + person + `, "CompletionFlag": "DONE", "VerificationFlag": "VERIFIED"}`, Partial, Unverified},
		{"unknown verification flag ignored", `{` + person + `, "CompletionFlag": "COMPLETE", "VerificationFlag": "MAYBE"}`, Complete, Unverified},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := newTestAssembler(WithVerifyingOrganization("Example Hospital")).Assemble(Input{Doc: decode(t, tc.doc)})
			require.NoError(t, err)
			r := doc.Report
			assert.Equal(t, tc.wantCompletion, r.Completion)
			assert.Equal(t, tc.wantVerification, r.Verification)
			if tc.wantVerification == Verified {
				require.NotNil(t, r.Verifier)
				assert.Equal(t, Verifier{ObserverName: "Reader^One", Organization: "Example Hospital", DateTime: fixedNow}, *r.Verifier)
			} else {
				assert.Nil(t, r.Verifier)
			}
			assert.True(t, Valid(&r))
		})
	}
}

func TestAssemble_LogsIgnoredFlags(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	doc := `{"observerContext": {"ObserverType": "DEVICE", "DeviceObserverUID": "1.2.3"}, "CompletionFlag": "COMPLETE", "VerificationFlag": "VERIFIED"}`

	_, err := newTestAssembler(WithLogger(logger)).Assemble(Input{Doc: decode(t, doc)})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Not verifying")
}

func TestAssemble_NoImageLibraryNoPruning(t *testing.T) {
	in := fullInput(t, reportJSON(groupJSON))
	in.ImageLibrary = nil

	doc, err := newTestAssembler().Assemble(in)
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Pruned)
	assert.Len(t, doc.Report.Evidence, 1)
}

func TestFileLists(t *testing.T) {
	doc := decode(t, `{"imageLibrary": ["a.dcm", "b.dcm"], "compositeContext": ["c.dcm"]}`)

	images, err := ImageLibraryFiles(doc)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.dcm", "b.dcm"}, images)

	context, err := CompositeContextFiles(doc)
	require.NoError(t, err)
	assert.Equal(t, []string{"c.dcm"}, context)

	none, err := ImageLibraryFiles(decode(t, `{}`))
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = ImageLibraryFiles(decode(t, `{"imageLibrary": "a.dcm"}`))
	var iErr *InvalidFieldError
	assert.True(t, errors.As(err, &iErr))

	_, err = CompositeContextFiles(decode(t, `{"compositeContext": ["", "x.dcm"]}`))
	assert.True(t, errors.As(err, &iErr))
}
