package util

import (
	"strings"
	"testing"

	"github.com/suyashkumar/dicom/pkg/tag"
)

func TestRegisteredTags(t *testing.T) {
	tests := []struct {
		name          string
		expectedTag   tag.Tag
		expectedScope DescriptorScope
	}{
		{"SOPClassUID", tag.SOPClassUID, ScopeGroup},
		{"Modality", tag.Modality, ScopeGroup},
		{"StudyDate", tag.StudyDate, ScopeGroup},
		{"Columns", tag.Columns, ScopeGroup},
		{"Rows", tag.Rows, ScopeGroup},
		{"PixelSpacing", tag.PixelSpacing, ScopeGroup},
		{"BodyPartExamined", tag.BodyPartExamined, ScopeGroup},
		{"ImageOrientationPatient", tag.ImageOrientationPatient, ScopeGroup},

		{"SOPInstanceUID", tag.SOPInstanceUID, ScopeEntry},
		{"ImagePositionPatient", tag.ImagePositionPatient, ScopeEntry},

		{"StudyInstanceUID", tag.StudyInstanceUID, ScopeReference},
		{"SeriesInstanceUID", tag.SeriesInstanceUID, ScopeReference},
	}

	registered := make(map[string]TagInfo)
	for _, info := range RegisteredTags() {
		if _, dup := registered[info.Name]; dup {
			t.Errorf("tag %q registered twice", info.Name)
		}
		registered[info.Name] = info
	}
	if len(registered) != len(tests) {
		t.Errorf("RegisteredTags() has %d tags, want %d", len(registered), len(tests))
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			info, ok := registered[tc.name]
			if !ok {
				t.Fatalf("tag %q is not registered", tc.name)
			}
			if info.Tag != tc.expectedTag {
				t.Errorf("%s.Tag = %v, want %v", tc.name, info.Tag, tc.expectedTag)
			}
			if !info.InScope(tc.expectedScope) {
				t.Errorf("%s.Scopes = %v, want it to contain %v", tc.name, info.Scopes, tc.expectedScope)
			}
		})
	}
}

func TestRegisteredTags_Copy(t *testing.T) {
	tags := RegisteredTags()
	tags[0].Name = "changed"
	if RegisteredTags()[0].Name != "SOPClassUID" {
		t.Error("RegisteredTags() exposes the registry slice")
	}
}

func TestDescriptorNames_Order(t *testing.T) {
	group := GroupDescriptorNames()
	wantGroup := []string{"SOPClassUID", "Modality", "StudyDate", "Columns", "Rows", "PixelSpacing", "BodyPartExamined", "ImageOrientationPatient"}
	if strings.Join(group, ",") != strings.Join(wantGroup, ",") {
		t.Errorf("GroupDescriptorNames() = %v, want %v", group, wantGroup)
	}

	entry := EntryDescriptorNames()
	wantEntry := []string{"SOPClassUID", "Modality", "SOPInstanceUID", "ImagePositionPatient"}
	if strings.Join(entry, ",") != strings.Join(wantEntry, ",") {
		t.Errorf("EntryDescriptorNames() = %v, want %v", entry, wantEntry)
	}

	// Callers get a fresh slice.
	group[0] = "changed"
	if GroupDescriptorNames()[0] != "SOPClassUID" {
		t.Error("GroupDescriptorNames() exposes shared state")
	}
}

func TestInScope(t *testing.T) {
	info := TagInfo{Name: "SOPInstanceUID", Scopes: []DescriptorScope{ScopeEntry, ScopeReference}}
	if info.InScope(ScopeGroup) {
		t.Error("InScope(ScopeGroup) = true, want false")
	}
	if !info.InScope(ScopeEntry) || !info.InScope(ScopeReference) {
		t.Error("InScope should hold for every listed scope")
	}
	if (TagInfo{}).InScope(ScopeEntry) {
		t.Error("a tag without scopes is in no scope")
	}
}

func TestClosestMatch(t *testing.T) {
	candidates := []string{"TrackingIdentifier", "TrackingUniqueIdentifier", "Finding", "FindingSite"}
	tests := []struct {
		input    string
		maxDist  int
		expected string
	}{
		{"TrackingIdentifer", 3, "TrackingIdentifier"},
		{"trackinguniqueidentifier", 3, "TrackingUniqueIdentifier"},
		{"Findng", 3, "Finding"},
		{"FindingSites", 3, "FindingSite"},
		{"Completely different", 3, ""},
		{"", 3, ""},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			if got := ClosestMatch(tc.input, candidates, tc.maxDist); got != tc.expected {
				t.Errorf("ClosestMatch(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"abc", "abc", 0},
		{"abc", "abd", 1},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"Modality", "Modaltiy", 2}, // transposition counts as 2 in standard Levenshtein
	}

	for _, tc := range tests {
		t.Run(tc.a+"_"+tc.b, func(t *testing.T) {
			result := levenshteinDistance(tc.a, tc.b)
			if result != tc.expected {
				t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tc.a, tc.b, result, tc.expected)
			}
		})
	}
}
