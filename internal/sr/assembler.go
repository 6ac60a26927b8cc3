package sr

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrsinham/srforge/internal/metadata"
	"github.com/mrsinham/srforge/internal/sr/code"
	"github.com/mrsinham/srforge/internal/util"
)

// DefaultVerifyingOrganization is recorded when a report is verified and no
// organization was configured.
const DefaultVerifyingOrganization = "srforge"

// Input is everything a report is assembled from. Evidence objects must
// already be loaded, in the order the document lists them.
type Input struct {
	Doc              metadata.Node
	ImageLibrary     []Evidence
	CompositeContext []Evidence
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithLogger sets the logger used for progress and ignored-flag warnings.
func WithLogger(l zerolog.Logger) Option {
	return func(a *Assembler) { a.logger = l }
}

// WithUIDGenerator overrides the source of generated UIDs.
func WithUIDGenerator(fn func() string) Option {
	return func(a *Assembler) { a.newUID = fn }
}

// WithProcedureReported overrides the reported procedure code.
func WithProcedureReported(c code.CodedEntry) Option {
	return func(a *Assembler) { a.procedure = c }
}

// WithVerifyingOrganization sets the organization recorded on verification.
func WithVerifyingOrganization(org string) Option {
	return func(a *Assembler) { a.organization = org }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) { a.now = now }
}

// Assembler turns an Input into a validated Document. It keeps no state
// between calls.
type Assembler struct {
	logger       zerolog.Logger
	newUID       func() string
	procedure    code.CodedEntry
	organization string
	now          func() time.Time
}

// NewAssembler creates an Assembler with UUID-derived UIDs, the imaging
// procedure code and a silent logger.
func NewAssembler(opts ...Option) *Assembler {
	a := &Assembler{
		logger:       zerolog.Nop(),
		newUID:       func() string { return util.GenerateUID("") },
		procedure:    code.ImagingProcedure,
		organization: DefaultVerifyingOrganization,
		now:          time.Now,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Assemble builds the report in a fixed order: language, observation context,
// image library, procedure reported, then the measurement groups. The report
// is validated after the header and again after the groups; any error aborts
// the whole assembly and no document is returned.
func (a *Assembler) Assemble(in Input) (*Document, error) {
	doc := in.Doc
	r := &Report{Language: code.English}

	oc, err := BuildObservationContext(doc.Get("observerContext"))
	if err != nil {
		return nil, fmt.Errorf("observation context: %w", err)
	}
	r.ObservationContext = oc

	r.ImageLibrary = NewImageLibrary()
	for _, e := range in.ImageLibrary {
		if err := r.ImageLibrary.AddEntry(e); err != nil {
			return nil, fmt.Errorf("image library: %w", err)
		}
	}

	r.ProcedureReported = a.procedure

	if err := Checkpoint(CheckpointHeader, r); err != nil {
		return nil, err
	}

	var session Session
	if session.ActivitySession, err = optionalString(doc, "activitySession"); err != nil {
		return nil, err
	}
	if session.TimePoint, err = optionalString(doc, "timePoint"); err != nil {
		return nil, err
	}

	groups, err := arrayField(doc, "Measurements")
	if err != nil {
		return nil, err
	}
	a.logger.Debug().Int("groups", groups.Len()).Msg("Building measurement groups")
	for i := 0; i < groups.Len(); i++ {
		g, err := BuildMeasurementGroup(groups.Index(i), session, a.newUID)
		if err != nil {
			return nil, fmt.Errorf("measurement group %d: %w", i, err)
		}
		a.logger.Debug().
			Str("tracking_id", g.TrackingIdentifier).
			Str("tracking_uid", g.TrackingUniqueIdentifier).
			Str("segment", segmentLabel(g.ReferencedSegment)).
			Int("items", len(g.Items)).
			Msg("Measurement group added")
		r.MeasurementGroups = append(r.MeasurementGroups, g)
	}

	if err := Checkpoint(CheckpointFinal, r); err != nil {
		return nil, err
	}

	t, err := instantiate(r)
	if err != nil {
		return nil, fmt.Errorf("instantiate template: %w", err)
	}

	pruned := 0
	if r.ImageLibrary.Len() > 0 {
		if pruned, err = PruneDuplicateModality(t); err != nil {
			return nil, err
		}
		a.logger.Debug().Int("removed", pruned).Msg("Pruned duplicate modality rows")
	}

	now := a.now()
	if err := a.applyDocumentFields(doc, r, now); err != nil {
		return nil, err
	}

	// No consistency check between these references and the UIDs used in
	// the measurement groups.
	var evidence EvidenceRegistry
	for _, e := range in.CompositeContext {
		evidence.Register(RoleCompositeContext, e)
	}
	for _, e := range in.ImageLibrary {
		evidence.Register(RoleImageLibrary, e)
	}
	r.Evidence = evidence.References()

	return &Document{
		Report:            *r,
		Tree:              t,
		Pruned:            pruned,
		SOPInstanceUID:    a.newUID(),
		SeriesInstanceUID: a.newUID(),
		StudyInstanceUID:  a.studyUID(in),
		Created:           now,
	}, nil
}

// applyDocumentFields sets the optional root-level fields. Unrecognised flag
// values are ignored, and verification is only applied to a complete report
// observed by a person.
func (a *Assembler) applyDocumentFields(doc metadata.Node, r *Report, now time.Time) error {
	var err error
	if r.SeriesDescription, err = optionalString(doc, "SeriesDescription"); err != nil {
		return err
	}
	if r.InstanceNumber, err = optionalString(doc, "InstanceNumber"); err != nil {
		return err
	}
	if r.SeriesNumber, err = optionalString(doc, "SeriesNumber"); err != nil {
		return err
	}

	completion, err := optionalString(doc, "CompletionFlag")
	if err != nil {
		return err
	}
	if completion != "" {
		if c, err := ParseCompletion(completion); err != nil {
			a.logger.Warn().Err(err).Msg("Ignoring CompletionFlag")
		} else {
			r.Completion = c
		}
	}

	verification, err := optionalString(doc, "VerificationFlag")
	if err != nil {
		return err
	}
	if verification == "" {
		return nil
	}
	v, err := ParseVerification(verification)
	if err != nil {
		a.logger.Warn().Err(err).Msg("Ignoring VerificationFlag")
		return nil
	}
	if v != Verified {
		return nil
	}
	if r.Completion != Complete || r.ObservationContext.Type != ObserverPerson {
		a.logger.Warn().
			Str("completion", r.Completion.String()).
			Str("observer", r.ObservationContext.Type.String()).
			Msg("Not verifying: verification needs a complete report and a person observer")
		return nil
	}
	r.Verification = Verified
	r.Verifier = &Verifier{
		ObserverName: r.ObservationContext.PersonName,
		Organization: a.organization,
		DateTime:     now,
	}
	return nil
}

// studyUID picks the study of the last composite context object, then of the
// first image, and generates one otherwise.
func (a *Assembler) studyUID(in Input) string {
	if n := len(in.CompositeContext); n > 0 && in.CompositeContext[n-1].StudyInstanceUID != "" {
		return in.CompositeContext[n-1].StudyInstanceUID
	}
	if len(in.ImageLibrary) > 0 && in.ImageLibrary[0].StudyInstanceUID != "" {
		return in.ImageLibrary[0].StudyInstanceUID
	}
	return a.newUID()
}

// ImageLibraryFiles returns the evidence file names listed under imageLibrary.
func ImageLibraryFiles(doc metadata.Node) ([]string, error) {
	return fileList(doc, "imageLibrary")
}

// CompositeContextFiles returns the evidence file names listed under compositeContext.
func CompositeContextFiles(doc metadata.Node) ([]string, error) {
	return fileList(doc, "compositeContext")
}

func fileList(doc metadata.Node, key string) ([]string, error) {
	n, err := arrayField(doc, key)
	if err != nil {
		return nil, err
	}
	files := make([]string, 0, n.Len())
	for i := 0; i < n.Len(); i++ {
		name, ok := n.Index(i).String()
		if !ok || name == "" {
			return nil, &InvalidFieldError{Field: n.Index(i).Path(), Reason: "expected a file name"}
		}
		files = append(files, name)
	}
	return files, nil
}
