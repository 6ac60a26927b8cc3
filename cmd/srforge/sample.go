package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrsinham/srforge/internal/dicom/modalities"
)

// Sample metadata document. Field names follow the report description format.
type sampleCode struct {
	CodeValue              string `json:"CodeValue" yaml:"CodeValue"`
	CodingSchemeDesignator string `json:"CodingSchemeDesignator" yaml:"CodingSchemeDesignator"`
	CodeMeaning            string `json:"CodeMeaning" yaml:"CodeMeaning"`
}

type sampleItem struct {
	Quantity sampleCode `json:"quantity" yaml:"quantity"`
	Value    string     `json:"value" yaml:"value"`
	Units    sampleCode `json:"units" yaml:"units"`
}

type sampleGroup struct {
	TrackingIdentifier               string       `json:"TrackingIdentifier" yaml:"TrackingIdentifier"`
	SourceSeriesForImageSegmentation string       `json:"SourceSeriesForImageSegmentation" yaml:"SourceSeriesForImageSegmentation"`
	SegmentationSOPInstanceUID       string       `json:"segmentationSOPInstanceUID" yaml:"segmentationSOPInstanceUID"`
	ReferencedSegment                int          `json:"ReferencedSegment" yaml:"ReferencedSegment"`
	Finding                          sampleCode   `json:"Finding" yaml:"Finding"`
	FindingSite                      sampleCode   `json:"FindingSite" yaml:"FindingSite"`
	MeasurementItems                 []sampleItem `json:"measurementItems" yaml:"measurementItems"`
}

type sampleObserver struct {
	ObserverType       string `json:"ObserverType" yaml:"ObserverType"`
	PersonObserverName string `json:"PersonObserverName" yaml:"PersonObserverName"`
}

type sampleReport struct {
	ObserverContext   sampleObserver `json:"observerContext" yaml:"observerContext"`
	ImageLibrary      []string       `json:"imageLibrary" yaml:"imageLibrary"`
	CompositeContext  []string       `json:"compositeContext" yaml:"compositeContext"`
	ActivitySession   string         `json:"activitySession" yaml:"activitySession"`
	TimePoint         string         `json:"timePoint" yaml:"timePoint"`
	SeriesDescription string         `json:"SeriesDescription" yaml:"SeriesDescription"`
	CompletionFlag    string         `json:"CompletionFlag" yaml:"CompletionFlag"`
	VerificationFlag  string         `json:"VerificationFlag" yaml:"VerificationFlag"`
	Measurements      []sampleGroup  `json:"Measurements" yaml:"Measurements"`
}

var (
	volume    = sampleCode{"118565006", "SCT", "Volume"}
	cubicMM   = sampleCode{"mm3", "UCUM", "cubic millimeter"}
	neoplasm  = sampleCode{"108369006", "SCT", "Neoplasm"}
	lungSite  = sampleCode{"39607008", "SCT", "Lung"}
	brainSite = sampleCode{"12738006", "SCT", "Brain"}
)

type sampleOptions struct {
	outputDir string
	modality  string
	images    int
	segments  string
	seed      uint64
	format    string
	observer  string
}

func sampleCmd(g *globalFlags) *cobra.Command {
	o := &sampleOptions{}
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write a synthetic image series, a segmentation and a matching report description",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			newUID, err := cfg.UIDGenerator()
			if err != nil {
				return err
			}
			path, err := writeSample(o, newUID)
			if err != nil {
				return err
			}
			logger.Debug().Str("dir", o.outputDir).Msg("Sample written")

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "✓ Sample written")
			fmt.Fprintf(out, "  Report description: %s\n", path)
			fmt.Fprintf(out, "  Image library: %s\n", filepath.Join(o.outputDir, "images"))
			fmt.Fprintf(out, "  Composite context: %s\n", filepath.Join(o.outputDir, "context"))
			return nil
		},
	}
	cmd.Flags().StringVar(&o.outputDir, "output-dir", "", "Directory to write the sample into")
	cmd.Flags().StringVar(&o.modality, "modality", "CT", "Image modality: CT or MR")
	cmd.Flags().IntVar(&o.images, "images", 5, "Number of images in the series")
	cmd.Flags().StringVar(&o.segments, "segments", "Lesion", "Comma-separated segment labels, one measurement group each")
	cmd.Flags().Uint64Var(&o.seed, "seed", 1, "Seed for acquisition parameters and measured values")
	cmd.Flags().StringVar(&o.format, "format", "json", "Report description format: json or yaml")
	cmd.Flags().StringVar(&o.observer, "observer", "Reader^Sample", "Person observer name")
	_ = cmd.MarkFlagRequired("output-dir")
	return cmd
}

// writeSample lays out the sample under o.outputDir and returns the path of
// the report description.
func writeSample(o *sampleOptions, newUID func() string) (string, error) {
	modality := modalities.Modality(strings.ToUpper(o.modality))
	if !modalities.IsImage(string(modality)) {
		return "", fmt.Errorf("invalid modality %q, valid options: %v", o.modality, modalities.ImageModalities())
	}
	if o.format != "json" && o.format != "yaml" {
		return "", fmt.Errorf("invalid format %q, valid options: json, yaml", o.format)
	}
	var labels []string
	for _, l := range strings.Split(o.segments, ",") {
		if l = strings.TrimSpace(l); l != "" {
			labels = append(labels, l)
		}
	}

	imageDir := filepath.Join(o.outputDir, "images")
	contextDir := filepath.Join(o.outputDir, "context")
	for _, dir := range []string{imageDir, contextDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create %s: %w", dir, err)
		}
	}

	site := lungSite
	bodyPart := "CHEST"
	if modality == modalities.MR {
		site = brainSite
		bodyPart = "HEAD"
	}
	patient := modalities.Patient{
		Name:             "Sample^Patient",
		ID:               "SAMPLE-001",
		BirthDate:        "19700101",
		Sex:              "O",
		StudyInstanceUID: newUID(),
		StudyDate:        "20240101",
		StudyTime:        "120000",
		StudyID:          "1",
		AccessionNumber:  "SAMPLE",
		BodyPartExamined: bodyPart,
	}

	images, err := modalities.ImageSeries(patient, modalities.SeriesOptions{
		Modality: modality,
		Images:   o.images,
		Seed:     o.seed,
		NewUID:   newUID,
	})
	if err != nil {
		return "", err
	}
	seg, err := modalities.Segmentation(patient, images, labels, newUID)
	if err != nil {
		return "", err
	}

	report := sampleReport{
		ObserverContext:   sampleObserver{ObserverType: "PERSON", PersonObserverName: o.observer},
		CompositeContext:  []string{seg.Name},
		ActivitySession:   "1",
		TimePoint:         "baseline",
		SeriesDescription: "Sample measurements",
		CompletionFlag:    "COMPLETE",
		VerificationFlag:  "VERIFIED",
	}
	for _, img := range images {
		if _, err := modalities.Write(imageDir, img); err != nil {
			return "", err
		}
		report.ImageLibrary = append(report.ImageLibrary, img.Name)
	}
	if _, err := modalities.Write(contextDir, seg); err != nil {
		return "", err
	}

	rng := rand.New(rand.NewPCG(o.seed, o.seed+1))
	for i, label := range labels {
		report.Measurements = append(report.Measurements, sampleGroup{
			TrackingIdentifier:               label,
			SourceSeriesForImageSegmentation: images[0].SeriesInstanceUID,
			SegmentationSOPInstanceUID:       seg.SOPInstanceUID,
			ReferencedSegment:                i + 1,
			Finding:                          neoplasm,
			FindingSite:                      site,
			MeasurementItems: []sampleItem{{
				Quantity: volume,
				Value:    fmt.Sprintf("%.1f", 100+rng.Float64()*4900),
				Units:    cubicMM,
			}},
		})
	}

	var data []byte
	if o.format == "yaml" {
		data, err = yaml.Marshal(report)
	} else {
		data, err = json.MarshalIndent(report, "", "  ")
	}
	if err != nil {
		return "", fmt.Errorf("encode report description: %w", err)
	}
	path := filepath.Join(o.outputDir, "metadata."+o.format)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
