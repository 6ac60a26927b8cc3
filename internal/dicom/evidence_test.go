package dicom

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/mrsinham/srforge/internal/dicom/modalities"
	"github.com/mrsinham/srforge/internal/util"
)

func counterUIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("1.2.826.0.1.3680043.8.498.%d", n)
	}
}

var testPatient = modalities.Patient{
	Name:             "Doe^Jane",
	ID:               "PAT-001",
	BirthDate:        "19700101",
	Sex:              "F",
	StudyInstanceUID: "1.2.826.0.1.3680043.8.498.1000",
	StudyDate:        "20240102",
	StudyTime:        "101500",
	StudyID:          "S1",
	AccessionNumber:  "ACC1",
	BodyPartExamined: "CHEST",
}

// writeEvidence writes a CT series of n images and a segmentation over it
// into dir and returns the image names and the segmentation name.
func writeEvidence(t *testing.T, dir string, n int) ([]string, string) {
	t.Helper()
	uids := counterUIDs()
	images, err := modalities.ImageSeries(testPatient, modalities.SeriesOptions{
		Modality: modalities.CT,
		Images:   n,
		Seed:     1,
		NewUID:   uids,
	})
	if err != nil {
		t.Fatalf("ImageSeries() error = %v", err)
	}
	seg, err := modalities.Segmentation(testPatient, images, []string{"Lesion"}, uids)
	if err != nil {
		t.Fatalf("Segmentation() error = %v", err)
	}

	var names []string
	for _, o := range images {
		if _, err := modalities.Write(dir, o); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		names = append(names, o.Name)
	}
	if _, err := modalities.Write(dir, seg); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return names, seg.Name
}

func TestLoadEvidence(t *testing.T) {
	dir := t.TempDir()
	names, _ := writeEvidence(t, dir, 1)

	f, err := LoadEvidence(names[0], filepath.Join(dir, names[0]))
	if err != nil {
		t.Fatalf("LoadEvidence() error = %v", err)
	}
	e := f.Evidence()

	if e.Source != names[0] {
		t.Errorf("Source = %q, want %q", e.Source, names[0])
	}
	if e.SOPClassUID != "1.2.840.10008.5.1.4.1.1.2" {
		t.Errorf("SOPClassUID = %q", e.SOPClassUID)
	}
	if e.StudyInstanceUID != testPatient.StudyInstanceUID {
		t.Errorf("StudyInstanceUID = %q, want %q", e.StudyInstanceUID, testPatient.StudyInstanceUID)
	}

	tests := []struct {
		name string
		want string
	}{
		{"Modality", "CT"},
		{"StudyDate", "20240102"},
		{"Rows", "512"},
		{"Columns", "512"},
		{"BodyPartExamined", "CHEST"},
		{"ImageOrientationPatient", "1,0,0,0,1,0"},
		{"ImagePositionPatient", "-100,-100,-100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := strings.Join(e.Attributes[tt.name], ",")
			if got != tt.want {
				t.Errorf("%s = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
	if len(e.Attributes["PixelSpacing"]) != 2 {
		t.Errorf("PixelSpacing = %v, want two values", e.Attributes["PixelSpacing"])
	}
}

func TestLoadEvidence_MissingSOPInstanceUID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.dcm")
	ds := dicom.Dataset{Elements: []*dicom.Element{
		util.MustElement(tag.TransferSyntaxUID, []string{ExplicitVRLittleEndian}),
		util.MustElement(tag.SOPClassUID, []string{"1.2.840.10008.5.1.4.1.1.2"}),
		util.MustElement(tag.Modality, []string{"CT"}),
	}}
	if err := writeDatasetToFile(path, ds); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := LoadEvidence("bad.dcm", path)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "SOPInstanceUID") {
		t.Errorf("error %q does not name the missing attribute", err)
	}
}

func TestLoadEvidence_NotDICOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("not a dicom file"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadEvidence("notes.txt", path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestLoadEvidenceFiles_ResolvesAgainstDir(t *testing.T) {
	dir := t.TempDir()
	names, seg := writeEvidence(t, dir, 2)

	files, err := LoadEvidenceFiles(dir, append(names, seg))
	if err != nil {
		t.Fatalf("LoadEvidenceFiles() error = %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("got %d files, want 3", len(files))
	}
	evidence := Evidences(files)
	if evidence[2].Source != seg {
		t.Errorf("order not kept: last source = %q", evidence[2].Source)
	}
	if evidence[2].SOPClassUID != modalities.SegmentationStorageUID {
		t.Errorf("segmentation SOP class = %q", evidence[2].SOPClassUID)
	}

	if _, err := LoadEvidenceFiles(dir, []string{"missing.dcm"}); err == nil {
		t.Error("expected an error for a missing file")
	}
}
