package shared

// DocStatus is the lifecycle state of a business document
type DocStatus int

const (
	DocStatusDraft     DocStatus = 0
	DocStatusSubmitted DocStatus = 1
	DocStatusCancelled DocStatus = 2
)

// String returns the display label of the status
func (s DocStatus) String() string {
	switch s {
	case DocStatusDraft:
		return "Draft"
	case DocStatusSubmitted:
		return "Submitted"
	case DocStatusCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// IsValid reports whether the status is one of the known values
func (s DocStatus) IsValid() bool {
	return s >= DocStatusDraft && s <= DocStatusCancelled
}

// Document is implemented by records with a draft/submitted/cancelled lifecycle
type Document interface {
	DocName() string
	DocType() string
	GetDocStatus() DocStatus
}

// ErrDocumentNotDraft is returned when a transition requires a draft document
func ErrDocumentNotDraft(doctype, name string, status DocStatus) *DomainError {
	return NewDomainErrorf("INVALID_STATE", "%s %s cannot be submitted from status %s", doctype, name, status)
}
