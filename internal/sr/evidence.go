package sr

// EvidenceRegistry records the evidence objects a report depends on. It does
// not deduplicate and does not cross-check references against the UIDs used
// inside measurement groups.
type EvidenceRegistry struct {
	refs []EvidenceReference
}

// Register appends a reference to e in the given role.
func (r *EvidenceRegistry) Register(role EvidenceRole, e Evidence) {
	r.refs = append(r.refs, EvidenceReference{
		Role:              role,
		SOPClassUID:       e.SOPClassUID,
		SOPInstanceUID:    e.SOPInstanceUID,
		StudyInstanceUID:  e.StudyInstanceUID,
		SeriesInstanceUID: e.SeriesInstanceUID,
	})
}

// References returns the registered references in registration order.
func (r *EvidenceRegistry) References() []EvidenceReference {
	return append([]EvidenceReference(nil), r.refs...)
}

// Len returns the number of registered references.
func (r *EvidenceRegistry) Len() int {
	return len(r.refs)
}
