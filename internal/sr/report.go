// Package sr builds TID 1500 Imaging Measurement Reports from a decoded
// metadata document and the evidence objects it names.
package sr

import (
	"time"

	"github.com/mrsinham/srforge/internal/sr/code"
	"github.com/mrsinham/srforge/internal/sr/tree"
)

// ObservationContext identifies who made the observations. Exactly one of
// PersonName and DeviceUID is set, according to Type.
type ObservationContext struct {
	Type       ObserverType
	PersonName string
	DeviceUID  string
}

// Evidence is the descriptive part of a loaded evidence object.
type Evidence struct {
	// Source names where the object came from, usually a file name.
	Source            string
	SOPClassUID       string
	SOPInstanceUID    string
	StudyInstanceUID  string
	SeriesInstanceUID string
	// Attributes holds descriptor values keyed by registry tag name.
	Attributes map[string][]string
}

// EvidenceReference is one entry of the report's evidence list.
type EvidenceReference struct {
	Role              EvidenceRole
	SOPClassUID       string
	SOPInstanceUID    string
	StudyInstanceUID  string
	SeriesInstanceUID string
}

// Descriptor is a group-level image library descriptor.
type Descriptor struct {
	Name   string
	Values []string
}

// ImageLibraryEntry describes one image of the library. Descriptors holds the
// entry-level tags the image carries, in registry order.
type ImageLibraryEntry struct {
	SOPClassUID    string
	SOPInstanceUID string
	Descriptors    []Descriptor
}

// Descriptor returns the entry-level values of name.
func (e ImageLibraryEntry) Descriptor(name string) ([]string, bool) {
	return findDescriptor(e.Descriptors, name)
}

// SegmentReference points at one segment of a segmentation instance.
type SegmentReference struct {
	SOPInstanceUID string
	SegmentNumber  int
}

// Modifier qualifies a measurement, e.g. (Derivation, Mean).
type Modifier struct {
	Modifier code.CodedEntry
	Value    code.CodedEntry
}

// DerivationParameter is a numeric input of a derived measurement.
type DerivationParameter struct {
	Parameter code.CodedEntry
	Value     string
	Units     code.CodedEntry
}

// MeasurementItem is one numeric measurement of a group.
type MeasurementItem struct {
	Quantity             code.CodedEntry
	Value                string
	Units                code.CodedEntry
	Derivation           *code.CodedEntry
	Modifiers            []Modifier
	DerivationParameters []DerivationParameter
}

// MeasurementGroup is one volumetric ROI measurement group.
type MeasurementGroup struct {
	TrackingIdentifier       string
	TrackingUniqueIdentifier string
	ActivitySession          string
	TimePoint                string
	SourceSeriesUID          string
	RealWorldValueMapUID     string
	ReferencedSegment        SegmentReference
	Finding                  code.CodedEntry
	FindingSites             []code.CodedEntry
	MeasurementMethod        *code.CodedEntry
	Items                    []MeasurementItem
}

// Verifier records who verified a report and when.
type Verifier struct {
	ObserverName string
	Organization string
	DateTime     time.Time
}

// Report is the assembled measurement report before template instantiation.
type Report struct {
	Language           code.CodedEntry
	ObservationContext ObservationContext
	ImageLibrary       *ImageLibrary
	ProcedureReported  code.CodedEntry
	MeasurementGroups  []MeasurementGroup
	SeriesDescription  string
	Completion         Completion
	Verification       Verification
	Verifier           *Verifier
	InstanceNumber     string
	SeriesNumber       string
	Evidence           []EvidenceReference
}

// Document is the final, validated and pruned report handed to the encoder.
// It must not be modified.
type Document struct {
	Report Report
	Tree   *tree.Tree
	// Pruned is the number of content items removed by the duplicate pruner.
	Pruned int

	SOPInstanceUID    string
	SeriesInstanceUID string
	// StudyInstanceUID comes from the composite context when one is given.
	StudyInstanceUID string
	Created          time.Time
}
