package dicom

import "github.com/suyashkumar/dicom/pkg/tag"

// Structured reporting attributes, spelled out by number.
var (
	tagValueType                    = tag.Tag{Group: 0x0040, Element: 0xA040}
	tagConceptNameCodeSequence      = tag.Tag{Group: 0x0040, Element: 0xA043}
	tagConceptCodeSequence          = tag.Tag{Group: 0x0040, Element: 0xA168}
	tagCodeValue                    = tag.Tag{Group: 0x0008, Element: 0x0100}
	tagCodingSchemeDesignator       = tag.Tag{Group: 0x0008, Element: 0x0102}
	tagCodeMeaning                  = tag.Tag{Group: 0x0008, Element: 0x0104}
	tagRelationshipType             = tag.Tag{Group: 0x0040, Element: 0xA010}
	tagContentSequence              = tag.Tag{Group: 0x0040, Element: 0xA730}
	tagContinuityOfContent          = tag.Tag{Group: 0x0040, Element: 0xA050}
	tagMeasuredValueSequence        = tag.Tag{Group: 0x0040, Element: 0xA300}
	tagNumericValue                 = tag.Tag{Group: 0x0040, Element: 0xA30A}
	tagMeasurementUnitsCodeSequence = tag.Tag{Group: 0x0040, Element: 0x08EA}
	tagTextValue                    = tag.Tag{Group: 0x0040, Element: 0xA160}
	tagUID                          = tag.Tag{Group: 0x0040, Element: 0xA124}
	tagPersonName                   = tag.Tag{Group: 0x0040, Element: 0xA123}
	tagDate                         = tag.Tag{Group: 0x0040, Element: 0xA121}
	tagReferencedSOPSequence        = tag.Tag{Group: 0x0008, Element: 0x1199}
	tagReferencedSOPClassUID        = tag.Tag{Group: 0x0008, Element: 0x1150}
	tagReferencedSOPInstanceUID     = tag.Tag{Group: 0x0008, Element: 0x1155}
	tagReferencedSegmentNumber      = tag.Tag{Group: 0x0062, Element: 0x000B}
	tagContentTemplateSequence      = tag.Tag{Group: 0x0040, Element: 0xA504}
	tagMappingResource              = tag.Tag{Group: 0x0008, Element: 0x0105}
	tagTemplateIdentifier           = tag.Tag{Group: 0x0040, Element: 0xDB00}

	tagCompletionFlag            = tag.Tag{Group: 0x0040, Element: 0xA491}
	tagVerificationFlag          = tag.Tag{Group: 0x0040, Element: 0xA493}
	tagVerifyingObserverSequence = tag.Tag{Group: 0x0040, Element: 0xA073}
	tagVerifyingObserverName     = tag.Tag{Group: 0x0040, Element: 0xA075}
	tagVerifyingOrganization     = tag.Tag{Group: 0x0040, Element: 0xA027}
	tagVerificationDateTime      = tag.Tag{Group: 0x0040, Element: 0xA030}

	tagCurrentRequestedProcedureEvidenceSequence = tag.Tag{Group: 0x0040, Element: 0xA375}
	tagReferencedSeriesSequence                  = tag.Tag{Group: 0x0008, Element: 0x1115}

	tagContentDate = tag.Tag{Group: 0x0008, Element: 0x0023}
	tagContentTime = tag.Tag{Group: 0x0008, Element: 0x0033}
	tagSeriesDate  = tag.Tag{Group: 0x0008, Element: 0x0021}
	tagSeriesTime  = tag.Tag{Group: 0x0008, Element: 0x0031}
)
