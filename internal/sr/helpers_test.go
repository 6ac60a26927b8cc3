package sr

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mrsinham/srforge/internal/metadata"
)

const groupJSON = `{
  "TrackingIdentifier": "Lesion1",
  "SourceSeriesForImageSegmentation": "1.2.3.4.100",
  "segmentationSOPInstanceUID": "1.2.3.4.200",
  "ReferencedSegment": 1,
  "Finding": {"CodeValue": "108369006", "CodingSchemeDesignator": "SCT", "CodeMeaning": "Neoplasm"},
  "FindingSite": {"CodeValue": "39607008", "CodingSchemeDesignator": "SCT", "CodeMeaning": "Lung"},
  "measurementItems": [
    {
      "quantity": {"CodeValue": "118565006", "CodingSchemeDesignator": "SCT", "CodeMeaning": "Volume"},
      "value": "1234.5",
      "units": {"CodeValue": "mm3", "CodingSchemeDesignator": "UCUM", "CodeMeaning": "cubic millimeter"}
    },
    {
      "quantity": {"CodeValue": "126401", "CodingSchemeDesignator": "DCM", "CodeMeaning": "SUVbw"},
      "value": 3.25,
      "units": {"CodeValue": "{SUVbw}g/ml", "CodingSchemeDesignator": "UCUM", "CodeMeaning": "Standardized Uptake Value body weight"},
      "derivationModifier": {"CodeValue": "R-00317", "CodingSchemeDesignator": "SRT", "CodeMeaning": "Mean"},
      "measurementModifiers": [
        {
          "modifier": {"CodeValue": "G-C036", "CodingSchemeDesignator": "SRT", "CodeMeaning": "Measurement Method"},
          "modifierValue": {"CodeValue": "126410", "CodingSchemeDesignator": "DCM", "CodeMeaning": "SUV body weight calculation method"}
        },
        {
          "modifier": {"CodeValue": "121401", "CodingSchemeDesignator": "DCM", "CodeMeaning": "Derivation"},
          "modifierValue": {"CodeValue": "R-404FB", "CodingSchemeDesignator": "SRT", "CodeMeaning": "Maximum"}
        }
      ],
      "measurementDerivationParameters": [
        {
          "derivationParameter": {"CodeValue": "126031", "CodingSchemeDesignator": "DCM", "CodeMeaning": "Peak Value Within ROI"},
          "derivationParameterValue": "1.0",
          "derivationParameterUnits": {"CodeValue": "cm3", "CodingSchemeDesignator": "UCUM", "CodeMeaning": "cubic centimeter"}
        }
      ]
    }
  ]
}`

func reportJSON(groups ...string) string {
	list := ""
	for i, g := range groups {
		if i > 0 {
			list += ","
		}
		list += g
	}
	return fmt.Sprintf(`{
  "observerContext": {"ObserverType": "PERSON", "PersonObserverName": "Reader^One"},
  "imageLibrary": ["ct-1.dcm", "ct-2.dcm"],
  "compositeContext": ["seg.dcm"],
  "activitySession": "1",
  "timePoint": "baseline",
  "SeriesDescription": "Measurements",
  "InstanceNumber": "1",
  "SeriesNumber": 300,
  "Measurements": [%s]
}`, list)
}

func decode(t *testing.T, s string) metadata.Node {
	t.Helper()
	n, err := metadata.Decode([]byte(s), metadata.FormatJSON)
	require.NoError(t, err)
	return n
}

// counterUIDs returns a deterministic UID generator.
func counterUIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("1.2.826.0.1.3680043.8.498.%d", n)
	}
}

func ctImage(n int) Evidence {
	return Evidence{
		Source:            fmt.Sprintf("ct-%d.dcm", n),
		SOPClassUID:       "1.2.840.10008.5.1.4.1.1.2",
		SOPInstanceUID:    fmt.Sprintf("1.2.3.4.5.%d", n),
		StudyInstanceUID:  "1.2.3.4",
		SeriesInstanceUID: "1.2.3.4.5",
		Attributes: map[string][]string{
			"SOPClassUID":             {"1.2.840.10008.5.1.4.1.1.2"},
			"Modality":                {"CT"},
			"StudyDate":               {"20240102"},
			"Columns":                 {"512"},
			"Rows":                    {"512"},
			"PixelSpacing":            {"0.7", "0.8"},
			"BodyPartExamined":        {"CHEST"},
			"ImageOrientationPatient": {"1", "0", "0", "0", "1", "0"},
			"ImagePositionPatient":    {"-100", "-120", fmt.Sprintf("%d", -50+n)},
		},
	}
}

func segObject() Evidence {
	return Evidence{
		Source:            "seg.dcm",
		SOPClassUID:       SegmentationStorageUID,
		SOPInstanceUID:    "9.8.7.6",
		StudyInstanceUID:  "1.2.3.4",
		SeriesInstanceUID: "9.8.7",
	}
}
