package modalities

import (
	"math/rand/v2"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/mrsinham/srforge/internal/util"
)

// CTGenerator produces CT Image Storage objects.
type CTGenerator struct{}

// Modality returns the CT modality type.
func (g *CTGenerator) Modality() Modality {
	return CT
}

// SOPClassUID returns the CT Image Storage SOP Class UID.
func (g *CTGenerator) SOPClassUID() string {
	return "1.2.840.10008.5.1.4.1.1.2"
}

// Scanners returns available CT scanner configurations.
func (g *CTGenerator) Scanners() []Scanner {
	return []Scanner{
		{Manufacturer: "SIEMENS", Model: "SOMATOM Force", DetectorRows: 192},
		{Manufacturer: "GE MEDICAL SYSTEMS", Model: "Revolution CT", DetectorRows: 256},
		{Manufacturer: "PHILIPS", Model: "Brilliance iCT", DetectorRows: 256},
		{Manufacturer: "CANON", Model: "Aquilion ONE", DetectorRows: 320},
	}
}

// SeriesParams draws CT acquisition parameters.
func (g *CTGenerator) SeriesParams(scanner Scanner, rng *rand.Rand) SeriesParams {
	kvpOptions := []float64{80, 100, 120, 140}
	kernels := []string{"SOFT", "STANDARD", "BONE", "LUNG"}

	return SeriesParams{
		Modality:          CT,
		Scanner:           scanner,
		PixelSpacing:      0.5 + rng.Float64()*0.5, // 0.5-1.0 mm
		SliceThickness:    0.5 + rng.Float64()*2.5, // 0.5-3.0 mm
		KVP:               kvpOptions[rng.IntN(len(kvpOptions))],
		ConvolutionKernel: kernels[rng.IntN(len(kernels))],
		RescaleIntercept:  -1024,
		RescaleSlope:      1,
	}
}

// Elements returns the CT Image module attributes.
func (g *CTGenerator) Elements(params SeriesParams) []*dicom.Element {
	return []*dicom.Element{
		util.MustElement(tag.KVP, []string{util.DecimalString(params.KVP)}),
		util.MustElement(tag.ConvolutionKernel, []string{params.ConvolutionKernel}),
		util.MustElement(tag.RescaleIntercept, []string{util.DecimalString(params.RescaleIntercept)}),
		util.MustElement(tag.RescaleSlope, []string{util.DecimalString(params.RescaleSlope)}),
		util.MustElement(tag.RescaleType, []string{"HU"}),
	}
}
