package dicom

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/mrsinham/srforge/internal/sr"
	"github.com/mrsinham/srforge/internal/util"
)

// EvidenceFile is a DICOM object referenced by a report, parsed without its
// pixel data.
type EvidenceFile struct {
	// Name is the file name as listed in the metadata document.
	Name    string
	Path    string
	Dataset dicom.Dataset
}

// LoadEvidence parses the file at path. The object must carry a SOP Class UID
// and a SOP Instance UID.
func LoadEvidence(name, path string) (*EvidenceFile, error) {
	ds, err := dicom.ParseFile(path, nil, dicom.SkipPixelData())
	if err != nil {
		return nil, fmt.Errorf("parse evidence %s: %w", path, err)
	}
	f := &EvidenceFile{Name: name, Path: path, Dataset: ds}
	for _, t := range []tag.Tag{tag.SOPClassUID, tag.SOPInstanceUID} {
		if firstString(ds, t) == "" {
			return nil, fmt.Errorf("evidence %s: missing %s", path, tagName(t))
		}
	}
	return f, nil
}

// LoadEvidenceFiles loads every name, resolving relative names against dir.
func LoadEvidenceFiles(dir string, names []string) ([]*EvidenceFile, error) {
	files := make([]*EvidenceFile, 0, len(names))
	for _, name := range names {
		path := name
		if dir != "" && !filepath.IsAbs(name) {
			path = filepath.Join(dir, name)
		}
		f, err := LoadEvidence(name, path)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// Evidence returns the descriptive fields of the object: its identifiers and
// the registered descriptor attributes it carries.
func (f *EvidenceFile) Evidence() sr.Evidence {
	e := sr.Evidence{
		Source:            f.Name,
		SOPClassUID:       firstString(f.Dataset, tag.SOPClassUID),
		SOPInstanceUID:    firstString(f.Dataset, tag.SOPInstanceUID),
		StudyInstanceUID:  firstString(f.Dataset, tag.StudyInstanceUID),
		SeriesInstanceUID: firstString(f.Dataset, tag.SeriesInstanceUID),
		Attributes:        make(map[string][]string),
	}
	for _, info := range util.RegisteredTags() {
		if vals := stringValues(f.Dataset, info.Tag); len(vals) > 0 {
			e.Attributes[info.Name] = vals
		}
	}
	return e
}

// Evidences converts loaded files, keeping their order.
func Evidences(files []*EvidenceFile) []sr.Evidence {
	out := make([]sr.Evidence, 0, len(files))
	for _, f := range files {
		out = append(out, f.Evidence())
	}
	return out
}

// stringValues returns the values of t as text. Missing elements, empty
// values and binary or sequence values yield nil.
func stringValues(ds dicom.Dataset, t tag.Tag) []string {
	elem, err := ds.FindElementByTag(t)
	if err != nil || elem == nil || elem.Value == nil {
		return nil
	}
	var out []string
	switch v := elem.Value.GetValue().(type) {
	case []string:
		for _, s := range v {
			out = append(out, strings.TrimRight(strings.TrimSpace(s), "\x00"))
		}
	case []int:
		for _, i := range v {
			out = append(out, strconv.Itoa(i))
		}
	case []float64:
		for _, f := range v {
			out = append(out, strconv.FormatFloat(f, 'f', -1, 64))
		}
	default:
		return nil
	}
	if len(out) == 0 || (len(out) == 1 && out[0] == "") {
		return nil
	}
	return out
}

func firstString(ds dicom.Dataset, t tag.Tag) string {
	if v := stringValues(ds, t); len(v) > 0 {
		return v[0]
	}
	return ""
}

func tagName(t tag.Tag) string {
	if info, err := tag.Find(t); err == nil {
		return info.Name
	}
	return t.String()
}
