// Package util provides identifier generation and the descriptor tag registry
// shared by the evidence loader and the report builders.
package util

import (
	"strings"

	"github.com/suyashkumar/dicom/pkg/tag"
)

// DescriptorScope is the image library level at which a tag is described.
type DescriptorScope int

const (
	// ScopeGroup indicates tags copied once from the first image into the image library group.
	ScopeGroup DescriptorScope = iota
	// ScopeEntry indicates tags copied from every image into its own library entry.
	ScopeEntry
	// ScopeReference indicates tags only needed to reference the evidence object.
	ScopeReference
)

// TagInfo contains information about a DICOM tag read from evidence files.
type TagInfo struct {
	Name   string
	Tag    tag.Tag
	Scopes []DescriptorScope
}

// InScope reports whether the tag is described at scope s.
func (i TagInfo) InScope(s DescriptorScope) bool {
	for _, sc := range i.Scopes {
		if sc == s {
			return true
		}
	}
	return false
}

// tagRegistry lists the tags read from evidence files. Its order is the order
// in which descriptors appear in the image library.
var tagRegistry = []TagInfo{
	{Name: "SOPClassUID", Tag: tag.SOPClassUID, Scopes: []DescriptorScope{ScopeGroup, ScopeEntry, ScopeReference}},
	{Name: "Modality", Tag: tag.Modality, Scopes: []DescriptorScope{ScopeGroup, ScopeEntry}},

	// Group descriptors
	{Name: "StudyDate", Tag: tag.StudyDate, Scopes: []DescriptorScope{ScopeGroup}},
	{Name: "Columns", Tag: tag.Columns, Scopes: []DescriptorScope{ScopeGroup}},
	{Name: "Rows", Tag: tag.Rows, Scopes: []DescriptorScope{ScopeGroup}},
	{Name: "PixelSpacing", Tag: tag.PixelSpacing, Scopes: []DescriptorScope{ScopeGroup}},
	{Name: "BodyPartExamined", Tag: tag.BodyPartExamined, Scopes: []DescriptorScope{ScopeGroup}},
	{Name: "ImageOrientationPatient", Tag: tag.ImageOrientationPatient, Scopes: []DescriptorScope{ScopeGroup}},

	// Entry descriptors
	{Name: "SOPInstanceUID", Tag: tag.SOPInstanceUID, Scopes: []DescriptorScope{ScopeEntry, ScopeReference}},
	{Name: "ImagePositionPatient", Tag: tag.ImagePositionPatient, Scopes: []DescriptorScope{ScopeEntry}},

	// Evidence hierarchy
	{Name: "StudyInstanceUID", Tag: tag.StudyInstanceUID, Scopes: []DescriptorScope{ScopeReference}},
	{Name: "SeriesInstanceUID", Tag: tag.SeriesInstanceUID, Scopes: []DescriptorScope{ScopeReference}},
}

func namesInScope(s DescriptorScope) []string {
	var out []string
	for _, info := range tagRegistry {
		if info.InScope(s) {
			out = append(out, info.Name)
		}
	}
	return out
}

// GroupDescriptorNames returns the tags copied from the first image library
// item into the group, in output order.
func GroupDescriptorNames() []string {
	return namesInScope(ScopeGroup)
}

// EntryDescriptorNames returns the tags copied from every image library item
// into its entry, in output order.
func EntryDescriptorNames() []string {
	return namesInScope(ScopeEntry)
}

// RegisteredTags returns every registered tag in registry order.
func RegisteredTags() []TagInfo {
	return append([]TagInfo(nil), tagRegistry...)
}

// ClosestMatch returns the candidate closest to input, compared
// case-insensitively, or "" when none is within maxDistance edits.
// Ties are resolved in favour of the earlier candidate.
func ClosestMatch(input string, candidates []string, maxDistance int) string {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return ""
	}
	bestDistance := maxDistance + 1
	var bestMatch string

	for _, c := range candidates {
		distance := levenshteinDistance(input, strings.ToLower(c))
		if distance < bestDistance {
			bestDistance = distance
			bestMatch = c
		}
	}

	if bestDistance <= maxDistance {
		return bestMatch
	}
	return ""
}

// levenshteinDistance calculates the minimum number of single-character edits
// required to change one string into the other.
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			cur[j] = min(
				prev[j]+1,      // deletion
				cur[j-1]+1,     // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, cur = cur, prev
	}

	return prev[len(b)]
}
