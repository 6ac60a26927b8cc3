// Package modalities builds synthetic evidence objects of the modalities a
// measurement report can reference: cross-sectional images and the
// segmentations drawn on them.
package modalities

import (
	"math/rand/v2"

	"github.com/suyashkumar/dicom"
)

// Modality represents a DICOM imaging modality type.
type Modality string

const (
	MR  Modality = "MR"  // Magnetic Resonance
	CT  Modality = "CT"  // Computed Tomography
	SEG Modality = "SEG" // Segmentation
)

// ImageModalities returns the modalities that can populate an image library.
func ImageModalities() []Modality {
	return []Modality{CT, MR}
}

// IsImage checks if m names an image modality.
func IsImage(m string) bool {
	for _, valid := range ImageModalities() {
		if string(valid) == m {
			return true
		}
	}
	return false
}

// Scanner represents an imaging device configuration.
type Scanner struct {
	Manufacturer string
	Model        string
	// MR-specific
	FieldStrength float64 // Tesla (1.5, 3.0)
	// CT-specific
	DetectorRows int
}

// SeriesParams holds the acquisition parameters shared by a series.
type SeriesParams struct {
	Modality Modality
	Scanner  Scanner

	// MR-specific
	EchoTime              float64
	RepetitionTime        float64
	SequenceName          string
	MagneticFieldStrength float64

	// CT-specific
	KVP               float64
	ConvolutionKernel string
	RescaleIntercept  float64
	RescaleSlope      float64

	// Geometry
	PixelSpacing   float64
	SliceThickness float64
}

// Generator produces the modality-specific part of an image.
type Generator interface {
	// Modality returns the modality type.
	Modality() Modality

	// SOPClassUID returns the storage SOP class of the images.
	SOPClassUID() string

	// Scanners returns available scanner configurations.
	Scanners() []Scanner

	// SeriesParams draws the acquisition parameters for a series.
	SeriesParams(scanner Scanner, rng *rand.Rand) SeriesParams

	// Elements returns the modality-specific attributes of an image.
	Elements(params SeriesParams) []*dicom.Element
}

// GetGenerator returns the generator for an image modality, or nil.
func GetGenerator(m Modality) Generator {
	switch m {
	case CT:
		return &CTGenerator{}
	case MR:
		return &MRGenerator{}
	default:
		return nil
	}
}
