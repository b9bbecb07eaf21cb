package registry

import (
	"bibaha/pkg/types"
)

// Step ordinals returned by ComputeStep. Each names the first thing still
// missing; StepComplete means every gate is satisfied.
const (
	StepOwnerIdentity = iota
	StepPartnerIdentity
	StepAddress
	StepDocuments
	StepDeclarations
	StepComplete
)

// ComputeStep derives the applicant's position in the filing flow from the
// canonical record. It is recomputed on every read rather than stored: a
// registrar edit can retroactively unset a gate, and a cached step would not
// notice.
func ComputeStep(app *types.Application, docs []*types.Document) int {
	if !app.OwnerIdentity.Complete() {
		return StepOwnerIdentity
	}
	if !app.PartnerIdentity.Complete() {
		return StepPartnerIdentity
	}
	if !app.HasAnyAddress() {
		return StepAddress
	}
	if !requiredSlotsFilled(docs) {
		return StepDocuments
	}
	if !app.Declarations.AllAffirmed() {
		return StepDeclarations
	}
	return StepComplete
}

func requiredSlotsFilled(docs []*types.Document) bool {
	for _, slot := range types.RequiredDocumentSlots {
		if !slotFilled(docs, slot) {
			return false
		}
	}
	return true
}

func slotFilled(docs []*types.Document, slot types.DocumentSlot) bool {
	for _, doc := range docs {
		if doc.DocType == slot.DocType && doc.BelongsTo == slot.BelongsTo {
			return true
		}
	}
	return false
}

// ComputeProgressPercent scores the draft across five 20-point gates. It is
// the coarse indicator shown while filling in the draft; ComputeStep is the
// authoritative projection.
func ComputeProgressPercent(app *types.Application, documentCount int) int {
	percent := 0
	if app.OwnerIdentity.Complete() {
		percent += 20
	}
	if app.PartnerIdentity.Complete() {
		percent += 20
	}
	if app.HasAnyAddress() {
		percent += 20
	}
	if documentCount >= 4 {
		percent += 20
	}
	if app.Declarations.Present() {
		percent += 20
	}
	return percent
}
