package sr

import (
	"fmt"

	"github.com/mrsinham/srforge/internal/util"
)

// ImageLibrary is the single image library group of a report. Descriptors
// common to the group are taken from the first entry added.
type ImageLibrary struct {
	Descriptors []Descriptor
	Entries     []ImageLibraryEntry
}

// NewImageLibrary returns an empty library. A report always has one.
func NewImageLibrary() *ImageLibrary {
	return &ImageLibrary{}
}

// Len returns the number of entries.
func (l *ImageLibrary) Len() int {
	return len(l.Entries)
}

// Descriptor returns the group-level values of name.
func (l *ImageLibrary) Descriptor(name string) ([]string, bool) {
	return findDescriptor(l.Descriptors, name)
}

func findDescriptor(ds []Descriptor, name string) ([]string, bool) {
	for _, d := range ds {
		if d.Name == name {
			return d.Values, true
		}
	}
	return nil, false
}

// descriptorsOf copies the attributes of e named in names, in that order.
// Names e does not carry are left out.
func descriptorsOf(e Evidence, names []string) []Descriptor {
	var out []Descriptor
	for _, name := range names {
		if vals := e.Attributes[name]; len(vals) > 0 {
			out = append(out, Descriptor{Name: name, Values: append([]string(nil), vals...)})
		}
	}
	return out
}

// AddEntry appends one image with its entry descriptors. The first image also
// seeds the group descriptors; tags it does not carry are left out.
func (l *ImageLibrary) AddEntry(e Evidence) error {
	if e.SOPClassUID == "" {
		return &MissingFieldError{Field: fmt.Sprintf("%s: SOPClassUID", e.Source)}
	}
	if e.SOPInstanceUID == "" {
		return &MissingFieldError{Field: fmt.Sprintf("%s: SOPInstanceUID", e.Source)}
	}

	if len(l.Entries) == 0 {
		l.Descriptors = descriptorsOf(e, util.GroupDescriptorNames())
	}

	l.Entries = append(l.Entries, ImageLibraryEntry{
		SOPClassUID:    e.SOPClassUID,
		SOPInstanceUID: e.SOPInstanceUID,
		Descriptors:    descriptorsOf(e, util.EntryDescriptorNames()),
	})
	return nil
}
