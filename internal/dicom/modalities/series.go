package modalities

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/mrsinham/srforge/internal/util"
)

// SegmentationStorageUID is the SOP class of segmentation objects.
const SegmentationStorageUID = "1.2.840.10008.5.1.4.1.1.66.4"

// Patient holds the patient and study attributes shared by a set of objects.
type Patient struct {
	Name             string
	ID               string
	BirthDate        string
	Sex              string
	StudyInstanceUID string
	StudyDate        string
	StudyTime        string
	StudyID          string
	AccessionNumber  string
	BodyPartExamined string
}

// Object is a synthetic evidence object ready to be written.
type Object struct {
	// Name is the file name the object is written under.
	Name              string
	SOPClassUID       string
	SOPInstanceUID    string
	SeriesInstanceUID string
	Dataset           dicom.Dataset
}

// SeriesOptions configures ImageSeries.
type SeriesOptions struct {
	Modality Modality
	Images   int
	Rows     int
	Columns  int
	Seed     uint64
	// NewUID mints every UID the series needs.
	NewUID func() string
}

// ImageSeries builds a stack of axial images without pixel data. Image
// positions advance by the slice thickness along the patient Z axis.
func ImageSeries(p Patient, opts SeriesOptions) ([]Object, error) {
	gen := GetGenerator(opts.Modality)
	if gen == nil {
		return nil, fmt.Errorf("unsupported image modality %q", opts.Modality)
	}
	if opts.Images < 1 {
		return nil, fmt.Errorf("image count must be positive, got %d", opts.Images)
	}
	if opts.NewUID == nil {
		return nil, fmt.Errorf("no UID generator")
	}
	rows, cols := opts.Rows, opts.Columns
	if rows == 0 {
		rows = 512
	}
	if cols == 0 {
		cols = 512
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed))
	scanners := gen.Scanners()
	scanner := scanners[rng.IntN(len(scanners))]
	params := gen.SeriesParams(scanner, rng)

	seriesUID := opts.NewUID()
	frameOfReference := opts.NewUID()
	spacing := util.DecimalString(params.PixelSpacing)

	objects := make([]Object, 0, opts.Images)
	for i := 1; i <= opts.Images; i++ {
		sopUID := opts.NewUID()
		z := -100.0 + float64(i-1)*params.SliceThickness
		elems := append(patientElements(p),
			util.MustElement(tag.TransferSyntaxUID, []string{"1.2.840.10008.1.2.1"}),
			util.MustElement(tag.SOPClassUID, []string{gen.SOPClassUID()}),
			util.MustElement(tag.SOPInstanceUID, []string{sopUID}),
			util.MustElement(tag.Modality, []string{string(opts.Modality)}),
			util.MustElement(tag.SeriesInstanceUID, []string{seriesUID}),
			util.MustElement(tag.SeriesNumber, []string{"1"}),
			util.MustElement(tag.InstanceNumber, []string{util.IntegerString(i)}),
			util.MustElement(tag.Manufacturer, []string{scanner.Manufacturer}),
			util.MustElement(tag.ManufacturerModelName, []string{scanner.Model}),
			util.MustElement(tag.FrameOfReferenceUID, []string{frameOfReference}),
			util.MustElement(tag.ImagePositionPatient, []string{"-100", "-100", util.DecimalString(z)}),
			util.MustElement(tag.ImageOrientationPatient, []string{"1", "0", "0", "0", "1", "0"}),
			util.MustElement(tag.PixelSpacing, []string{spacing, spacing}),
			util.MustElement(tag.SliceThickness, []string{util.DecimalString(params.SliceThickness)}),
			util.MustElement(tag.Rows, []int{rows}),
			util.MustElement(tag.Columns, []int{cols}),
			util.MustElement(tag.SamplesPerPixel, []int{1}),
			util.MustElement(tag.PhotometricInterpretation, []string{"MONOCHROME2"}),
			util.MustElement(tag.BitsAllocated, []int{16}),
			util.MustElement(tag.BitsStored, []int{16}),
			util.MustElement(tag.HighBit, []int{15}),
			util.MustElement(tag.PixelRepresentation, []int{0}),
		)
		if p.BodyPartExamined != "" {
			elems = append(elems, util.MustElement(tag.BodyPartExamined, []string{p.BodyPartExamined}))
		}
		elems = append(elems, gen.Elements(params)...)

		objects = append(objects, Object{
			Name:              fmt.Sprintf("%s-%03d.dcm", string(opts.Modality), i),
			SOPClassUID:       gen.SOPClassUID(),
			SOPInstanceUID:    sopUID,
			SeriesInstanceUID: seriesUID,
			Dataset:           dicom.Dataset{Elements: elems},
		})
	}
	return objects, nil
}

// Segmentation builds a segmentation object over source with one segment per
// label, numbered from 1.
func Segmentation(p Patient, source []Object, labels []string, newUID func() string) (Object, error) {
	if len(source) == 0 {
		return Object{}, fmt.Errorf("segmentation needs source images")
	}
	if len(labels) == 0 {
		return Object{}, fmt.Errorf("segmentation needs at least one segment")
	}

	segments := make([][]*dicom.Element, 0, len(labels))
	for i, label := range labels {
		segments = append(segments, []*dicom.Element{
			util.MustElement(tag.SegmentNumber, []int{i + 1}),
			util.MustElement(tag.SegmentLabel, []string{label}),
			util.MustElement(tag.SegmentAlgorithmType, []string{"MANUAL"}),
		})
	}
	instances := make([][]*dicom.Element, 0, len(source))
	for _, o := range source {
		instances = append(instances, []*dicom.Element{
			util.MustElement(tag.ReferencedSOPClassUID, []string{o.SOPClassUID}),
			util.MustElement(tag.ReferencedSOPInstanceUID, []string{o.SOPInstanceUID}),
		})
	}
	referenced := [][]*dicom.Element{{
		util.MustElement(tag.SeriesInstanceUID, []string{source[0].SeriesInstanceUID}),
		util.MustElement(tag.ReferencedInstanceSequence, instances),
	}}

	sopUID := newUID()
	seriesUID := newUID()
	elems := append(patientElements(p),
		util.MustElement(tag.TransferSyntaxUID, []string{"1.2.840.10008.1.2.1"}),
		util.MustElement(tag.SOPClassUID, []string{SegmentationStorageUID}),
		util.MustElement(tag.SOPInstanceUID, []string{sopUID}),
		util.MustElement(tag.Modality, []string{string(SEG)}),
		util.MustElement(tag.SeriesInstanceUID, []string{seriesUID}),
		util.MustElement(tag.SeriesNumber, []string{"100"}),
		util.MustElement(tag.InstanceNumber, []string{"1"}),
		util.MustElement(tag.SegmentationType, []string{"BINARY"}),
		util.MustElement(tag.SegmentSequence, segments),
		util.MustElement(tag.ReferencedSeriesSequence, referenced),
	)
	return Object{
		Name:              "SEG.dcm",
		SOPClassUID:       SegmentationStorageUID,
		SOPInstanceUID:    sopUID,
		SeriesInstanceUID: seriesUID,
		Dataset:           dicom.Dataset{Elements: elems},
	}, nil
}

func patientElements(p Patient) []*dicom.Element {
	return []*dicom.Element{
		util.MustElement(tag.PatientName, []string{p.Name}),
		util.MustElement(tag.PatientID, []string{p.ID}),
		util.MustElement(tag.PatientBirthDate, []string{p.BirthDate}),
		util.MustElement(tag.PatientSex, []string{p.Sex}),
		util.MustElement(tag.StudyInstanceUID, []string{p.StudyInstanceUID}),
		util.MustElement(tag.StudyDate, []string{p.StudyDate}),
		util.MustElement(tag.StudyTime, []string{p.StudyTime}),
		util.MustElement(tag.StudyID, []string{p.StudyID}),
		util.MustElement(tag.AccessionNumber, []string{p.AccessionNumber}),
		util.MustElement(tag.ReferringPhysicianName, []string{""}),
	}
}

// Write stores o under dir and returns the file path.
func Write(dir string, o Object) (string, error) {
	path := filepath.Join(dir, o.Name)
	sort.SliceStable(o.Dataset.Elements, func(i, j int) bool {
		a, b := o.Dataset.Elements[i].Tag, o.Dataset.Elements[j].Tag
		if a.Group != b.Group {
			return a.Group < b.Group
		}
		return a.Element < b.Element
	})
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := dicom.Write(f, o.Dataset); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, f.Close()
}
