package dicom

import (
	"fmt"
	"os"
	"sort"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/mrsinham/srforge/internal/sr"
	"github.com/mrsinham/srforge/internal/util"
)

const (
	// EnhancedSRStorageUID is the SOP class of every written report.
	EnhancedSRStorageUID = "1.2.840.10008.5.1.4.1.1.88.22"
	// ExplicitVRLittleEndian is the transfer syntax of written files.
	ExplicitVRLittleEndian = "1.2.840.10008.1.2.1"
	implementationClassUID = "1.2.826.0.1.3680043.8.498"
)

// Equipment describes the software writing the report.
type Equipment struct {
	Manufacturer          string
	ManufacturerModelName string
	DeviceSerialNumber    string
	SoftwareVersions      string
}

// EncodeOptions configures Encode.
type EncodeOptions struct {
	Equipment Equipment
	// CompositeContext, when set, supplies the patient and study modules.
	CompositeContext *EvidenceFile
}

// patientStudyTags are copied from the composite context object. Without one
// they are written empty.
var patientStudyTags = []tag.Tag{
	// Patient
	tag.PatientName,
	tag.PatientID,
	tag.IssuerOfPatientID,
	tag.PatientBirthDate,
	tag.PatientSex,
	// Patient Study
	tag.PatientAge,
	tag.PatientSize,
	tag.PatientWeight,
	// General Study
	tag.StudyDate,
	tag.StudyTime,
	tag.ReferringPhysicianName,
	tag.StudyID,
	tag.AccessionNumber,
	tag.StudyDescription,
}

// emptyWhenMissing lists the type 2 attributes of those modules.
var emptyWhenMissing = map[tag.Tag]bool{
	tag.PatientName:            true,
	tag.PatientID:              true,
	tag.PatientBirthDate:       true,
	tag.PatientSex:             true,
	tag.StudyDate:              true,
	tag.StudyTime:              true,
	tag.ReferringPhysicianName: true,
	tag.StudyID:                true,
	tag.AccessionNumber:        true,
}

// Encode turns an assembled report into an Enhanced SR dataset, file meta
// information included.
func Encode(doc *sr.Document, opts EncodeOptions) (dicom.Dataset, error) {
	r := doc.Report
	date := doc.Created.Format("20060102")
	clock := doc.Created.Format("150405")

	elements := []*dicom.Element{
		// File Meta Information
		util.MustElement(tag.FileMetaInformationVersion, []byte{0x00, 0x01}),
		util.MustElement(tag.MediaStorageSOPClassUID, []string{EnhancedSRStorageUID}),
		util.MustElement(tag.MediaStorageSOPInstanceUID, []string{doc.SOPInstanceUID}),
		util.MustElement(tag.TransferSyntaxUID, []string{ExplicitVRLittleEndian}),
		util.MustElement(tag.ImplementationClassUID, []string{implementationClassUID}),

		// SOP Common
		util.MustElement(tag.SOPClassUID, []string{EnhancedSRStorageUID}),
		util.MustElement(tag.SOPInstanceUID, []string{doc.SOPInstanceUID}),

		// Study
		util.MustElement(tag.StudyInstanceUID, []string{doc.StudyInstanceUID}),

		// SR Document Series
		util.MustElement(tag.Modality, []string{"SR"}),
		util.MustElement(tag.SeriesInstanceUID, []string{doc.SeriesInstanceUID}),
		util.MustElement(tag.SeriesNumber, []string{orDefault(r.SeriesNumber, "1")}),
		util.MustElement(tagSeriesDate, []string{date}),
		util.MustElement(tagSeriesTime, []string{clock}),

		// General Equipment
		util.MustElement(tag.Manufacturer, []string{opts.Equipment.Manufacturer}),
		util.MustElement(tag.ManufacturerModelName, []string{opts.Equipment.ManufacturerModelName}),
		util.MustElement(tag.DeviceSerialNumber, []string{opts.Equipment.DeviceSerialNumber}),
		util.MustElement(tag.SoftwareVersions, []string{opts.Equipment.SoftwareVersions}),

		// SR Document General
		util.MustElement(tag.InstanceNumber, []string{orDefault(r.InstanceNumber, "1")}),
		util.MustElement(tagContentDate, []string{date}),
		util.MustElement(tagContentTime, []string{clock}),
		util.MustElement(tagCompletionFlag, []string{r.Completion.String()}),
		util.MustElement(tagVerificationFlag, []string{r.Verification.String()}),
	}

	if r.SeriesDescription != "" {
		elements = append(elements, util.MustElement(tag.SeriesDescription, []string{r.SeriesDescription}))
	}

	if r.Verifier != nil {
		observer := sortElements([]*dicom.Element{
			util.MustElement(tagVerifyingObserverName, []string{r.Verifier.ObserverName}),
			util.MustElement(tagVerifyingOrganization, []string{r.Verifier.Organization}),
			util.MustElement(tagVerificationDateTime, []string{r.Verifier.DateTime.Format("20060102150405")}),
		})
		elements = append(elements, util.MustElement(tagVerifyingObserverSequence, [][]*dicom.Element{observer}))
	}

	if len(r.Evidence) > 0 {
		evidence, err := evidenceSequence(r.Evidence)
		if err != nil {
			return dicom.Dataset{}, err
		}
		elements = append(elements, evidence)
	}

	elements = append(elements, patientStudyElements(opts.CompositeContext)...)

	content, err := encodeContent(doc.Tree, doc.Tree.Root())
	if err != nil {
		return dicom.Dataset{}, fmt.Errorf("encode content tree: %w", err)
	}
	elements = append(elements, content...)

	return dicom.Dataset{Elements: sortElements(elements)}, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// patientStudyElements copies the patient and study attributes of the
// composite context object.
func patientStudyElements(cc *EvidenceFile) []*dicom.Element {
	var out []*dicom.Element
	for _, t := range patientStudyTags {
		if cc != nil {
			if elem, err := cc.Dataset.FindElementByTag(t); err == nil && elem != nil {
				out = append(out, elem)
				continue
			}
		}
		if emptyWhenMissing[t] {
			out = append(out, util.MustElement(t, []string{""}))
		}
	}
	return out
}

// evidenceSequence groups references by study then series, in first-seen
// order. Repeated references are kept.
func evidenceSequence(refs []sr.EvidenceReference) (*dicom.Element, error) {
	type series struct {
		uid  string
		sops [][]*dicom.Element
	}
	type study struct {
		uid    string
		series []*series
	}
	var studies []*study

	for _, ref := range refs {
		var st *study
		for _, s := range studies {
			if s.uid == ref.StudyInstanceUID {
				st = s
				break
			}
		}
		if st == nil {
			st = &study{uid: ref.StudyInstanceUID}
			studies = append(studies, st)
		}
		var se *series
		for _, s := range st.series {
			if s.uid == ref.SeriesInstanceUID {
				se = s
				break
			}
		}
		if se == nil {
			se = &series{uid: ref.SeriesInstanceUID}
			st.series = append(st.series, se)
		}
		se.sops = append(se.sops, []*dicom.Element{
			util.MustElement(tagReferencedSOPClassUID, []string{ref.SOPClassUID}),
			util.MustElement(tagReferencedSOPInstanceUID, []string{ref.SOPInstanceUID}),
		})
	}

	studyItems := make([][]*dicom.Element, 0, len(studies))
	for _, st := range studies {
		seriesItems := make([][]*dicom.Element, 0, len(st.series))
		for _, se := range st.series {
			sops, err := dicom.NewElement(tagReferencedSOPSequence, se.sops)
			if err != nil {
				return nil, fmt.Errorf("create referenced SOP sequence: %w", err)
			}
			seriesItems = append(seriesItems, []*dicom.Element{
				util.MustElement(tag.SeriesInstanceUID, []string{se.uid}),
				sops,
			})
		}
		seriesSeq, err := dicom.NewElement(tagReferencedSeriesSequence, seriesItems)
		if err != nil {
			return nil, fmt.Errorf("create referenced series sequence: %w", err)
		}
		studyItems = append(studyItems, sortElements([]*dicom.Element{
			util.MustElement(tag.StudyInstanceUID, []string{st.uid}),
			seriesSeq,
		}))
	}

	seq, err := dicom.NewElement(tagCurrentRequestedProcedureEvidenceSequence, studyItems)
	if err != nil {
		return nil, fmt.Errorf("create evidence sequence: %w", err)
	}
	return seq, nil
}

// sortElements orders elements by tag, as they must appear in a dataset.
func sortElements(elems []*dicom.Element) []*dicom.Element {
	sort.SliceStable(elems, func(i, j int) bool {
		a, b := elems[i].Tag, elems[j].Tag
		if a.Group != b.Group {
			return a.Group < b.Group
		}
		return a.Element < b.Element
	})
	return elems
}

// WriteFile encodes doc and writes it to path. Nothing is left at path when
// encoding or writing fails.
func WriteFile(path string, doc *sr.Document, opts EncodeOptions) error {
	ds, err := Encode(doc, opts)
	if err != nil {
		return err
	}
	if err := writeDatasetToFile(path, ds); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// writeDatasetToFile writes a DICOM dataset to a file
func writeDatasetToFile(filename string, ds dicom.Dataset, opts ...dicom.WriteOption) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := dicom.Write(f, ds, opts...); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
