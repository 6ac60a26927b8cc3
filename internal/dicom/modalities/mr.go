package modalities

import (
	"math/rand/v2"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/mrsinham/srforge/internal/util"
)

// MRGenerator produces MR Image Storage objects.
type MRGenerator struct{}

// Modality returns the MR modality type.
func (g *MRGenerator) Modality() Modality {
	return MR
}

// SOPClassUID returns the MR Image Storage SOP Class UID.
func (g *MRGenerator) SOPClassUID() string {
	return "1.2.840.10008.5.1.4.1.1.4"
}

// Scanners returns available MR scanner configurations.
func (g *MRGenerator) Scanners() []Scanner {
	return []Scanner{
		{Manufacturer: "SIEMENS", Model: "Skyra", FieldStrength: 3.0},
		{Manufacturer: "GE MEDICAL SYSTEMS", Model: "Signa HDxt", FieldStrength: 1.5},
		{Manufacturer: "PHILIPS", Model: "Ingenia", FieldStrength: 3.0},
	}
}

// SeriesParams draws MR acquisition parameters.
func (g *MRGenerator) SeriesParams(scanner Scanner, rng *rand.Rand) SeriesParams {
	sequences := []string{"T1_MPRAGE", "T1_SE", "T2_FSE", "T2_FLAIR"}

	return SeriesParams{
		Modality:              MR,
		Scanner:               scanner,
		PixelSpacing:          0.5 + rng.Float64()*1.5,     // 0.5-2.0 mm
		SliceThickness:        1.0 + rng.Float64()*4.0,     // 1.0-5.0 mm
		EchoTime:              10.0 + rng.Float64()*20.0,   // 10-30 ms
		RepetitionTime:        400.0 + rng.Float64()*400.0, // 400-800 ms
		SequenceName:          sequences[rng.IntN(len(sequences))],
		MagneticFieldStrength: scanner.FieldStrength,
	}
}

// Elements returns the MR Image module attributes.
func (g *MRGenerator) Elements(params SeriesParams) []*dicom.Element {
	return []*dicom.Element{
		util.MustElement(tag.MagneticFieldStrength, []string{util.DecimalString(params.MagneticFieldStrength)}),
		util.MustElement(tag.EchoTime, []string{util.DecimalString(params.EchoTime)}),
		util.MustElement(tag.RepetitionTime, []string{util.DecimalString(params.RepetitionTime)}),
		util.MustElement(tag.SequenceName, []string{params.SequenceName}),
	}
}
