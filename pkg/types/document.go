package types

import "time"

type DocumentParty string

const (
	DocumentPartyOwner   DocumentParty = "owner"
	DocumentPartyPartner DocumentParty = "partner"
	DocumentPartyJoint   DocumentParty = "joint"
)

type DocumentType string

const (
	DocTypeAadhaar          DocumentType = "aadhaar"
	DocTypeTenthCertificate DocumentType = "tenth_certificate"
	DocTypeVoterID          DocumentType = "voter_id"
	DocTypeID               DocumentType = "id"
	DocTypePhoto            DocumentType = "photo"
	DocTypeCertificate      DocumentType = "certificate"
	DocTypeOther            DocumentType = "other"
)

type DocumentStatus string

const (
	DocumentStatusPending  DocumentStatus = "pending"
	DocumentStatusApproved DocumentStatus = "approved"
	DocumentStatusRejected DocumentStatus = "rejected"
)

// MinRejectReasonLen is the shortest rejection reason a registrar may record.
const MinRejectReasonLen = 10

// Document is one uploaded file tied to an application and to a party.
// Replacing a rejected document keeps the same row (and so the same ID),
// which keeps audit and notification history correlated to one logical slot.
type Document struct {
	ID            string         `db:"id"`
	ApplicationID string         `db:"application_id"`
	BelongsTo     DocumentParty  `db:"belongs_to"`
	DocType       DocumentType   `db:"doc_type"`
	Status        DocumentStatus `db:"status"`
	RejectReason  *string        `db:"reject_reason"`
	IsReuploaded  bool           `db:"is_reuploaded"`
	StorageKey    string         `db:"storage_key"`
	FileName      string         `db:"file_name"`
	MimeType      string         `db:"mime_type"`
	FileSizeBytes int64          `db:"file_size_bytes"`
	UploadedAt    time.Time      `db:"uploaded_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

// DocumentSlot names one required upload by type and party.
type DocumentSlot struct {
	DocType   DocumentType
	BelongsTo DocumentParty
}

// RequiredDocumentSlots are the five uploads an application needs before the
// projector considers the document gate satisfied.
var RequiredDocumentSlots = []DocumentSlot{
	{DocType: DocTypeAadhaar, BelongsTo: DocumentPartyOwner},
	{DocType: DocTypeAadhaar, BelongsTo: DocumentPartyPartner},
	{DocType: DocTypePhoto, BelongsTo: DocumentPartyOwner},
	{DocType: DocTypePhoto, BelongsTo: DocumentPartyPartner},
	{DocType: DocTypePhoto, BelongsTo: DocumentPartyJoint},
}

func ValidDocumentType(t DocumentType) bool {
	switch t {
	case DocTypeAadhaar, DocTypeTenthCertificate, DocTypeVoterID, DocTypeID, DocTypePhoto, DocTypeCertificate, DocTypeOther:
		return true
	}
	return false
}

func ValidDocumentParty(p DocumentParty) bool {
	switch p {
	case DocumentPartyOwner, DocumentPartyPartner, DocumentPartyJoint:
		return true
	}
	return false
}

// DisplayName is the human-readable label used in notifications and emails.
func (t DocumentType) DisplayName() string {
	switch t {
	case DocTypeAadhaar:
		return "Aadhaar Card"
	case DocTypeTenthCertificate:
		return "10th Standard Certificate"
	case DocTypeVoterID:
		return "Voter ID Card"
	case DocTypeID:
		return "Identity Document"
	case DocTypePhoto:
		return "Photograph"
	case DocTypeCertificate:
		return "Certificate"
	default:
		return "Document"
	}
}
