package types

import (
	"reflect"
	"time"
)

type ApplicationStatus string

const (
	ApplicationStatusDraft       ApplicationStatus = "draft"
	ApplicationStatusSubmitted   ApplicationStatus = "submitted"
	ApplicationStatusUnderReview ApplicationStatus = "under_review"
	ApplicationStatusApproved    ApplicationStatus = "approved"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
)

// Terminal reports whether the status admits no further transition.
func (s ApplicationStatus) Terminal() bool {
	return s == ApplicationStatusApproved || s == ApplicationStatusRejected
}

// Reviewable reports whether a registrar decision may be taken from this status.
func (s ApplicationStatus) Reviewable() bool {
	switch s {
	case ApplicationStatusDraft, ApplicationStatusSubmitted, ApplicationStatusUnderReview:
		return true
	}
	return false
}

// Application is the single case record owned by one applicant, tracking both
// parties through to certificate issuance. Section columns are jsonb; the
// applicant-writable sections live in ApplicationSections while the
// verification fields are registrar-only, so the two writers never share a
// column outside the explicit registrar edit path.
type Application struct {
	ID              string            `db:"id"`
	OwnerUserID     string            `db:"owner_user_id"`
	Status          ApplicationStatus `db:"status"`
	ProgressPercent int               `db:"progress_percent"`

	OwnerIdentity           *PartyIdentity `db:"owner_identity"`
	PartnerIdentity         *PartyIdentity `db:"partner_identity"`
	OwnerPermanentAddress   *Address       `db:"owner_permanent_address"`
	OwnerCurrentAddress     *Address       `db:"owner_current_address"`
	PartnerPermanentAddress *Address       `db:"partner_permanent_address"`
	PartnerCurrentAddress   *Address       `db:"partner_current_address"`
	Declarations            Declarations   `db:"declarations"`

	Verified          bool       `db:"verified"`
	VerifiedAt        *time.Time `db:"verified_at"`
	VerifiedBy        *string    `db:"verified_by"`
	CertificateNumber *string    `db:"certificate_number"`
	RegistrationDate  *time.Time `db:"registration_date"`

	SubmittedAt *time.Time `db:"submitted_at"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

// Sections returns the applicant-writable portion of the record.
func (a *Application) Sections() ApplicationSections {
	return ApplicationSections{
		OwnerIdentity:           a.OwnerIdentity,
		PartnerIdentity:         a.PartnerIdentity,
		OwnerPermanentAddress:   a.OwnerPermanentAddress,
		OwnerCurrentAddress:     a.OwnerCurrentAddress,
		PartnerPermanentAddress: a.PartnerPermanentAddress,
		PartnerCurrentAddress:   a.PartnerCurrentAddress,
		Declarations:            a.Declarations,
	}
}

// PartyIdentity holds one party's identity details. All fields are optional
// at the type level; Complete decides whether enough is present to submit.
type PartyIdentity struct {
	FullName      *string `json:"fullName,omitempty"`
	FatherName    *string `json:"fatherName,omitempty"`
	MotherName    *string `json:"motherName,omitempty"`
	DateOfBirth   *string `json:"dateOfBirth,omitempty"`
	Gender        *string `json:"gender,omitempty"`
	Religion      *string `json:"religion,omitempty"`
	Nationality   *string `json:"nationality,omitempty"`
	AadhaarNumber *string `json:"aadhaarNumber,omitempty"`
	PhoneNumber   *string `json:"phoneNumber,omitempty"`
	Email         *string `json:"email,omitempty"`
}

// Complete reports whether the identity carries every field submission requires.
func (p *PartyIdentity) Complete() bool {
	if p == nil {
		return false
	}
	for _, f := range []*string{p.FullName, p.FatherName, p.DateOfBirth, p.Gender, p.AadhaarNumber} {
		if f == nil || *f == "" {
			return false
		}
	}
	return true
}

// Merge copies the patch's non-nil fields onto p.
func (p *PartyIdentity) Merge(patch *PartyIdentity) {
	if patch == nil {
		return
	}
	if patch.FullName != nil {
		p.FullName = patch.FullName
	}
	if patch.FatherName != nil {
		p.FatherName = patch.FatherName
	}
	if patch.MotherName != nil {
		p.MotherName = patch.MotherName
	}
	if patch.DateOfBirth != nil {
		p.DateOfBirth = patch.DateOfBirth
	}
	if patch.Gender != nil {
		p.Gender = patch.Gender
	}
	if patch.Religion != nil {
		p.Religion = patch.Religion
	}
	if patch.Nationality != nil {
		p.Nationality = patch.Nationality
	}
	if patch.AadhaarNumber != nil {
		p.AadhaarNumber = patch.AadhaarNumber
	}
	if patch.PhoneNumber != nil {
		p.PhoneNumber = patch.PhoneNumber
	}
	if patch.Email != nil {
		p.Email = patch.Email
	}
}

type Address struct {
	Line1         *string `json:"line1,omitempty"`
	Line2         *string `json:"line2,omitempty"`
	Village       *string `json:"village,omitempty"`
	PostOffice    *string `json:"postOffice,omitempty"`
	PoliceStation *string `json:"policeStation,omitempty"`
	District      *string `json:"district,omitempty"`
	State         *string `json:"state,omitempty"`
	PINCode       *string `json:"pinCode,omitempty"`
}

// Present reports whether the address carries at least a line and a district.
func (a *Address) Present() bool {
	if a == nil {
		return false
	}
	return a.Line1 != nil && *a.Line1 != "" && a.District != nil && *a.District != ""
}

// Merge copies the patch's non-nil fields onto a.
func (a *Address) Merge(patch *Address) {
	if patch == nil {
		return
	}
	if patch.Line1 != nil {
		a.Line1 = patch.Line1
	}
	if patch.Line2 != nil {
		a.Line2 = patch.Line2
	}
	if patch.Village != nil {
		a.Village = patch.Village
	}
	if patch.PostOffice != nil {
		a.PostOffice = patch.PostOffice
	}
	if patch.PoliceStation != nil {
		a.PoliceStation = patch.PoliceStation
	}
	if patch.District != nil {
		a.District = patch.District
	}
	if patch.State != nil {
		a.State = patch.State
	}
	if patch.PINCode != nil {
		a.PINCode = patch.PINCode
	}
}

// Declarations is the applicant's attestation block, a map of statement key
// to boolean affirmation or free-text value (place, date).
type Declarations map[string]any

// Present reports whether any declaration has been recorded.
func (d Declarations) Present() bool {
	return len(d) > 0
}

// AllAffirmed reports whether at least one boolean declaration exists and
// every boolean declaration is true. Non-boolean values are ignored.
func (d Declarations) AllAffirmed() bool {
	affirmed := 0
	for _, v := range d {
		b, ok := v.(bool)
		if !ok {
			continue
		}
		if !b {
			return false
		}
		affirmed++
	}
	return affirmed > 0
}

// Merge copies the patch's keys onto d, returning the merged map so callers
// can assign over a nil receiver.
func (d Declarations) Merge(patch Declarations) Declarations {
	if len(patch) == 0 {
		return d
	}
	if d == nil {
		d = make(Declarations, len(patch))
	}
	for k, v := range patch {
		d[k] = v
	}
	return d
}

// Section name constants, used for audit diffs and patch bookkeeping.
const (
	SectionOwnerIdentity           = "owner_identity"
	SectionPartnerIdentity         = "partner_identity"
	SectionOwnerPermanentAddress   = "owner_permanent_address"
	SectionOwnerCurrentAddress     = "owner_current_address"
	SectionPartnerPermanentAddress = "partner_permanent_address"
	SectionPartnerCurrentAddress   = "partner_current_address"
	SectionDeclarations            = "declarations"
)

// ApplicationSections is a partial update of the applicant-writable sections.
// A nil section is left untouched; a non-nil section is merged field-by-field.
type ApplicationSections struct {
	OwnerIdentity           *PartyIdentity `json:"ownerIdentity,omitempty" form:"owner_identity"`
	PartnerIdentity         *PartyIdentity `json:"partnerIdentity,omitempty" form:"partner_identity"`
	OwnerPermanentAddress   *Address       `json:"ownerPermanentAddress,omitempty" form:"owner_permanent_address"`
	OwnerCurrentAddress     *Address       `json:"ownerCurrentAddress,omitempty" form:"owner_current_address"`
	PartnerPermanentAddress *Address       `json:"partnerPermanentAddress,omitempty" form:"partner_permanent_address"`
	PartnerCurrentAddress   *Address       `json:"partnerCurrentAddress,omitempty" form:"partner_current_address"`
	Declarations            Declarations   `json:"declarations,omitempty" form:"declarations"`
}

// Empty reports whether the patch carries no sections at all.
func (s ApplicationSections) Empty() bool {
	return s.OwnerIdentity == nil &&
		s.PartnerIdentity == nil &&
		s.OwnerPermanentAddress == nil &&
		s.OwnerCurrentAddress == nil &&
		s.PartnerPermanentAddress == nil &&
		s.PartnerCurrentAddress == nil &&
		len(s.Declarations) == 0
}

// Names returns the names of the sections the patch carries, in a stable order.
func (s ApplicationSections) Names() []string {
	var names []string
	if s.OwnerIdentity != nil {
		names = append(names, SectionOwnerIdentity)
	}
	if s.PartnerIdentity != nil {
		names = append(names, SectionPartnerIdentity)
	}
	if s.OwnerPermanentAddress != nil {
		names = append(names, SectionOwnerPermanentAddress)
	}
	if s.OwnerCurrentAddress != nil {
		names = append(names, SectionOwnerCurrentAddress)
	}
	if s.PartnerPermanentAddress != nil {
		names = append(names, SectionPartnerPermanentAddress)
	}
	if s.PartnerCurrentAddress != nil {
		names = append(names, SectionPartnerCurrentAddress)
	}
	if len(s.Declarations) > 0 {
		names = append(names, SectionDeclarations)
	}
	return names
}

// Clone copies the sections deeply enough that a later merge into the source
// application cannot alter the copy.
func (s ApplicationSections) Clone() ApplicationSections {
	out := s
	if s.OwnerIdentity != nil {
		c := *s.OwnerIdentity
		out.OwnerIdentity = &c
	}
	if s.PartnerIdentity != nil {
		c := *s.PartnerIdentity
		out.PartnerIdentity = &c
	}
	if s.OwnerPermanentAddress != nil {
		c := *s.OwnerPermanentAddress
		out.OwnerPermanentAddress = &c
	}
	if s.OwnerCurrentAddress != nil {
		c := *s.OwnerCurrentAddress
		out.OwnerCurrentAddress = &c
	}
	if s.PartnerPermanentAddress != nil {
		c := *s.PartnerPermanentAddress
		out.PartnerPermanentAddress = &c
	}
	if s.PartnerCurrentAddress != nil {
		c := *s.PartnerCurrentAddress
		out.PartnerCurrentAddress = &c
	}
	if s.Declarations != nil {
		out.Declarations = make(Declarations, len(s.Declarations))
		for k, v := range s.Declarations {
			out.Declarations[k] = v
		}
	}
	return out
}

// Changed returns the names of the sections whose values differ from prev,
// in the same stable order Names uses.
func (s ApplicationSections) Changed(prev ApplicationSections) []string {
	var names []string
	if !reflect.DeepEqual(s.OwnerIdentity, prev.OwnerIdentity) {
		names = append(names, SectionOwnerIdentity)
	}
	if !reflect.DeepEqual(s.PartnerIdentity, prev.PartnerIdentity) {
		names = append(names, SectionPartnerIdentity)
	}
	if !reflect.DeepEqual(s.OwnerPermanentAddress, prev.OwnerPermanentAddress) {
		names = append(names, SectionOwnerPermanentAddress)
	}
	if !reflect.DeepEqual(s.OwnerCurrentAddress, prev.OwnerCurrentAddress) {
		names = append(names, SectionOwnerCurrentAddress)
	}
	if !reflect.DeepEqual(s.PartnerPermanentAddress, prev.PartnerPermanentAddress) {
		names = append(names, SectionPartnerPermanentAddress)
	}
	if !reflect.DeepEqual(s.PartnerCurrentAddress, prev.PartnerCurrentAddress) {
		names = append(names, SectionPartnerCurrentAddress)
	}
	if !reflect.DeepEqual(s.Declarations, prev.Declarations) {
		names = append(names, SectionDeclarations)
	}
	return names
}

// ApplySections merges the patch onto the application, one section at a time.
// Sections absent from the patch are never touched.
func (a *Application) ApplySections(patch ApplicationSections) {
	if patch.OwnerIdentity != nil {
		if a.OwnerIdentity == nil {
			a.OwnerIdentity = &PartyIdentity{}
		}
		a.OwnerIdentity.Merge(patch.OwnerIdentity)
	}
	if patch.PartnerIdentity != nil {
		if a.PartnerIdentity == nil {
			a.PartnerIdentity = &PartyIdentity{}
		}
		a.PartnerIdentity.Merge(patch.PartnerIdentity)
	}
	if patch.OwnerPermanentAddress != nil {
		if a.OwnerPermanentAddress == nil {
			a.OwnerPermanentAddress = &Address{}
		}
		a.OwnerPermanentAddress.Merge(patch.OwnerPermanentAddress)
	}
	if patch.OwnerCurrentAddress != nil {
		if a.OwnerCurrentAddress == nil {
			a.OwnerCurrentAddress = &Address{}
		}
		a.OwnerCurrentAddress.Merge(patch.OwnerCurrentAddress)
	}
	if patch.PartnerPermanentAddress != nil {
		if a.PartnerPermanentAddress == nil {
			a.PartnerPermanentAddress = &Address{}
		}
		a.PartnerPermanentAddress.Merge(patch.PartnerPermanentAddress)
	}
	if patch.PartnerCurrentAddress != nil {
		if a.PartnerCurrentAddress == nil {
			a.PartnerCurrentAddress = &Address{}
		}
		a.PartnerCurrentAddress.Merge(patch.PartnerCurrentAddress)
	}
	if len(patch.Declarations) > 0 {
		a.Declarations = a.Declarations.Merge(patch.Declarations)
	}
}

// HasAnyAddress reports whether at least one address section is present.
func (a *Application) HasAnyAddress() bool {
	return a.OwnerPermanentAddress.Present() ||
		a.OwnerCurrentAddress.Present() ||
		a.PartnerPermanentAddress.Present() ||
		a.PartnerCurrentAddress.Present()
}
