package code

// Concept names and values used by the TID 1500 measurement report and its
// sub-templates (TID 1001, 1411, 1600-1604).
var (
	// Root and containers
	ImagingMeasurementReport = Must("126000", "DCM", "Imaging Measurement Report")
	ImageLibrary             = Must("111028", "DCM", "Image Library")
	ImageLibraryGroup        = Must("126200", "DCM", "Image Library Group")
	ImagingMeasurements      = Must("126010", "DCM", "Imaging Measurements")
	MeasurementGroup         = Must("125007", "DCM", "Measurement Group")

	// Header
	LanguageOfContent = Must("121049", "DCM", "Language of Content Item and Descendants")
	English           = Must("eng", "RFC5646", "English")
	ProcedureReported = Must("121058", "DCM", "Procedure reported")
	ImagingProcedure  = Must("P0-0099A", "SRT", "Imaging procedure")

	// Observation context (TID 1001-1004)
	ObserverType       = Must("121005", "DCM", "Observer Type")
	Person             = Must("121006", "DCM", "Person")
	Device             = Must("121007", "DCM", "Device")
	PersonObserverName = Must("121008", "DCM", "Person Observer Name")
	DeviceObserverUID  = Must("121012", "DCM", "Device Observer UID")

	// Image library descriptors (TID 1602, 1604)
	Modality                    = Must("121139", "DCM", "Modality")
	StudyDate                   = Must("111060", "DCM", "Study Date")
	TargetRegion                = Must("123014", "DCM", "Target Region")
	HorizontalPixelSpacing      = Must("111026", "DCM", "Horizontal Pixel Spacing")
	VerticalPixelSpacing        = Must("111066", "DCM", "Vertical Pixel Spacing")
	ImagePositionPatientX       = Must("110901", "DCM", "Image Position (Patient) X")
	ImagePositionPatientY       = Must("110902", "DCM", "Image Position (Patient) Y")
	ImagePositionPatientZ       = Must("110903", "DCM", "Image Position (Patient) Z")
	ImageOrientationPatientRowX = Must("110904", "DCM", "Image Orientation (Patient) Row X")
	ImageOrientationPatientRowY = Must("110905", "DCM", "Image Orientation (Patient) Row Y")
	ImageOrientationPatientRowZ = Must("110906", "DCM", "Image Orientation (Patient) Row Z")
	ImageOrientationPatientColX = Must("110907", "DCM", "Image Orientation (Patient) Column X")
	ImageOrientationPatientColY = Must("110908", "DCM", "Image Orientation (Patient) Column Y")
	ImageOrientationPatientColZ = Must("110909", "DCM", "Image Orientation (Patient) Column Z")
	PixelDataRows               = Must("110910", "DCM", "Pixel Data Rows")
	PixelDataColumns            = Must("110911", "DCM", "Pixel Data Columns")

	// Measurement group (TID 1411)
	ActivitySession          = Must("C67447", "NCIt", "Activity Session")
	TimePoint                = Must("C2348792", "UMLS", "Time Point")
	TrackingIdentifier       = Must("112039", "DCM", "Tracking Identifier")
	TrackingUniqueIdentifier = Must("112040", "DCM", "Tracking Unique Identifier")
	ReferencedSegment        = Must("121214", "DCM", "Referenced Segment")
	SourceSeriesSegmentation = Must("121232", "DCM", "Source series for segmentation")
	RealWorldValueMapUsed    = Must("126100", "DCM", "Real World Value Map used for measurement")
	Finding                  = Must("121071", "DCM", "Finding")
	FindingSite              = Must("G-C0E3", "SRT", "Finding Site")
	MeasurementMethod        = Must("G-C306", "SRT", "Measurement Method")
	Derivation               = Must("121401", "DCM", "Derivation")

	// Units
	Millimeter = Must("mm", "UCUM", "millimeter")
	Pixels     = Must("{pixels}", "UCUM", "pixels")
	UnitVector = Must("{-1:1}", "UCUM", "{-1:1}")
)

// bodyParts maps Body Part Examined defined terms to anatomic region codes (CID 4031).
var bodyParts = map[string]CodedEntry{
	"ABDOMEN":      Must("T-D4000", "SRT", "Abdomen"),
	"BRAIN":        Must("T-A0100", "SRT", "Brain"),
	"BREAST":       Must("T-04000", "SRT", "Breast"),
	"CHEST":        Must("T-D3000", "SRT", "Chest"),
	"HEAD":         Must("T-D1100", "SRT", "Head"),
	"HEADNECK":     Must("T-D1000", "SRT", "Head and Neck"),
	"KIDNEY":       Must("T-71000", "SRT", "Kidney"),
	"LIVER":        Must("T-62000", "SRT", "Liver"),
	"LUNG":         Must("T-28000", "SRT", "Lung"),
	"NECK":         Must("T-D1600", "SRT", "Neck"),
	"PELVIS":       Must("T-D6000", "SRT", "Pelvis"),
	"PROSTATE":     Must("T-92000", "SRT", "Prostate"),
	"WHOLEBODY":    Must("T-D0010", "SRT", "Entire body"),
	"CHESTABDPELV": Must("R-FAB55", "SRT", "Chest, Abdomen and Pelvis"),
}

// modalities maps Modality defined terms to their codes (CID 29).
var modalities = map[string]string{
	"CR":  "Computed Radiography",
	"CT":  "Computed Tomography",
	"DX":  "Digital Radiography",
	"MG":  "Mammography",
	"MR":  "Magnetic Resonance",
	"NM":  "Nuclear Medicine",
	"OT":  "Other",
	"PT":  "Positron emission tomography",
	"RWV": "Real World Value Map",
	"SEG": "Segmentation",
	"US":  "Ultrasound",
	"XA":  "X-Ray Angiography",
}

// ModalityCode returns the coded form of a Modality value. Terms outside the
// table keep the term itself as meaning.
func ModalityCode(term string) CodedEntry {
	meaning, ok := modalities[term]
	if !ok {
		meaning = term
	}
	return CodedEntry{CodeValue: term, CodingScheme: "DCM", CodeMeaning: meaning}
}

// BodyPart returns the anatomic region for a Body Part Examined value.
func BodyPart(term string) (CodedEntry, bool) {
	c, ok := bodyParts[term]
	return c, ok
}
