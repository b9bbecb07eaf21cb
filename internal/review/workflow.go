package review

import (
	"context"
	"time"

	"bibaha/internal/registry"
	"bibaha/pkg/types"

	"github.com/sirupsen/logrus"
)

type AuditTrail interface {
	Record(ctx context.Context, actor types.Actor, action, resourceType, resourceID string, details map[string]any) error
}

type Notifier interface {
	DocumentRejected(ctx context.Context, userID, applicationID, documentID string, docType types.DocumentType, reason string) error
	ApplicationRejected(ctx context.Context, userID, applicationID, reason string) error
}

type Mailer interface {
	SendRejectionEmail(ctx context.Context, recipient, documentType, documentName, reason, displayName string) error
}

type Documents interface {
	Get(ctx context.Context, documentID string) (*types.Document, error)
	Approve(ctx context.Context, documentID string) error
	Reject(ctx context.Context, documentID, reason string) error
}

type CertificateRenderer interface {
	Render(app *types.Application, cert types.CertificateNumber, registrationDate time.Time, verificationID string) ([]byte, error)
}

// Workflow is the registrar-facing orchestration over applications and
// documents. Every decision lands in the audit trail; rejection decisions
// additionally fan out to notifications and optional email. The fan-out
// policy is asymmetric on purpose: direct decisions fail hard when their
// audit write fails, while the document-rejection composite treats all of
// its bookkeeping as best-effort once the rejection itself is recorded.
type Workflow struct {
	apps    registry.ApplicationRepo
	docs    Documents
	trail   AuditTrail
	notices Notifier
	mailer  Mailer
	certs   CertificateRenderer
	blobs   registry.ObjectStorage
	logger  *logrus.Logger
	effects *effectRunner
}

func NewWorkflow(
	apps registry.ApplicationRepo,
	docs Documents,
	trail AuditTrail,
	notices Notifier,
	mailer Mailer,
	certs CertificateRenderer,
	blobs registry.ObjectStorage,
	logger *logrus.Logger,
) *Workflow {
	return &Workflow{
		apps:    apps,
		docs:    docs,
		trail:   trail,
		notices: notices,
		mailer:  mailer,
		certs:   certs,
		blobs:   blobs,
		logger:  logger,
		effects: newEffectRunner(logger, 3, 250*time.Millisecond),
	}
}

// ListApplications returns the review queue for one status, oldest
// submission first.
func (w *Workflow) ListApplications(ctx context.Context, status types.ApplicationStatus) ([]*types.Application, error) {
	switch status {
	case types.ApplicationStatusDraft, types.ApplicationStatusSubmitted,
		types.ApplicationStatusUnderReview, types.ApplicationStatusApproved,
		types.ApplicationStatusRejected:
	default:
		return nil, types.Ef(types.KindValidationFailed, "unknown status %q", status)
	}
	return w.apps.ByStatus(ctx, status)
}

// BeginReview moves a submitted application to under_review. The step is
// optional; approve and reject accept submitted applications directly.
func (w *Workflow) BeginReview(ctx context.Context, applicationID string, actor types.Actor) (*types.Application, error) {

	app, err := w.apps.ByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	if app.Status != types.ApplicationStatusSubmitted {
		return nil, types.Ef(types.KindInvalidState, "application %s is %s, not submitted", app.ID, app.Status)
	}

	prev := app.Status
	app.Status = types.ApplicationStatusUnderReview
	if err := w.apps.Update(ctx, app); err != nil {
		return nil, err
	}

	if err := w.recordDecision(ctx, actor, types.ActionReviewStarted, app.ID, map[string]any{
		"from": prev, "to": app.Status,
	}); err != nil {
		return nil, err
	}

	return app, nil
}

func (w *Workflow) ApproveApplication(ctx context.Context, applicationID string, actor types.Actor) (*types.Application, error) {

	app, err := w.apps.ByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	if !app.Status.Reviewable() {
		return nil, types.Ef(types.KindInvalidState, "application %s is %s and cannot be approved", app.ID, app.Status)
	}

	prev := app.Status
	app.Status = types.ApplicationStatusApproved
	if err := w.apps.Update(ctx, app); err != nil {
		return nil, err
	}

	if err := w.recordDecision(ctx, actor, types.ActionApplicationApproved, app.ID, map[string]any{
		"from": prev, "to": app.Status,
	}); err != nil {
		return nil, err
	}

	return app, nil
}

func (w *Workflow) RejectApplication(ctx context.Context, applicationID, reason string, actor types.Actor) (*types.Application, error) {

	if reason == "" {
		return nil, types.E(types.KindValidationFailed, "rejection reason is required")
	}

	app, err := w.apps.ByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	if !app.Status.Reviewable() {
		return nil, types.Ef(types.KindInvalidState, "application %s is %s and cannot be rejected", app.ID, app.Status)
	}

	prev := app.Status
	app.Status = types.ApplicationStatusRejected
	if err := w.apps.Update(ctx, app); err != nil {
		return nil, err
	}

	if err := w.recordDecision(ctx, actor, types.ActionApplicationRejected, app.ID, map[string]any{
		"from": prev, "to": app.Status, "reason": reason,
	}); err != nil {
		return nil, err
	}

	w.effects.run(ctx, "application_rejected_notification", func(ctx context.Context) error {
		return w.notices.ApplicationRejected(ctx, app.OwnerUserID, app.ID, reason)
	})

	return app, nil
}

// VerifyApplication attests the record and issues a certificate number and
// registration date. Verification is independent of status: a registrar can
// verify before or after the approve decision and correct mistakes with
// UnverifyApplication.
func (w *Workflow) VerifyApplication(ctx context.Context, applicationID string, actor types.Actor, certificateNumber string, registrationDate time.Time) (*types.Application, error) {

	cert, err := types.ParseCertificateNumber(certificateNumber)
	if err != nil {
		return nil, err
	}
	if registrationDate.IsZero() {
		return nil, types.E(types.KindValidationFailed, "registration date is required")
	}

	app, err := w.apps.ByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	verificationID := types.NewVerificationID(now)

	app.Verified = true
	app.VerifiedAt = &now
	app.VerifiedBy = &actor.ID
	certStr := cert.String()
	app.CertificateNumber = &certStr
	app.RegistrationDate = &registrationDate

	if err := w.apps.Update(ctx, app); err != nil {
		return nil, err
	}

	if err := w.recordDecision(ctx, actor, types.ActionApplicationVerified, app.ID, map[string]any{
		"certificate_number": certStr,
		"registration_date":  registrationDate.Format("2006-01-02"),
		"verification_id":    verificationID,
	}); err != nil {
		return nil, err
	}

	if w.certs != nil && w.blobs != nil {
		w.effects.run(ctx, "certificate_pdf", func(ctx context.Context) error {
			data, err := w.certs.Render(app, cert, registrationDate, verificationID)
			if err != nil {
				return err
			}
			_, err = w.blobs.Put(ctx, certificateKey(app.ID), data, "application/pdf")
			return err
		})
	}

	return app, nil
}

// UnverifyApplication clears the verification fields, used to correct a
// mistaken issuance.
func (w *Workflow) UnverifyApplication(ctx context.Context, applicationID string, actor types.Actor) (*types.Application, error) {

	app, err := w.apps.ByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	cleared := map[string]any{}
	if app.CertificateNumber != nil {
		cleared["certificate_number"] = *app.CertificateNumber
	}

	app.Verified = false
	app.VerifiedAt = nil
	app.VerifiedBy = nil
	app.CertificateNumber = nil
	app.RegistrationDate = nil

	if err := w.apps.Update(ctx, app); err != nil {
		return nil, err
	}

	if err := w.recordDecision(ctx, actor, types.ActionApplicationUnverified, app.ID, cleared); err != nil {
		return nil, err
	}

	return app, nil
}

func (w *Workflow) ApproveDocument(ctx context.Context, documentID string, actor types.Actor) error {

	doc, err := w.docs.Get(ctx, documentID)
	if err != nil {
		return err
	}

	if err := w.docs.Approve(ctx, documentID); err != nil {
		return err
	}

	return w.trail.Record(ctx, actor, types.ActionDocumentApproved, types.ResourceDocument, documentID, map[string]any{
		"application_id": doc.ApplicationID,
		"doc_type":       doc.DocType,
	})
}

// RejectDocument is the composite decision. Step 1, the status write, is
// authoritative: if it fails nothing else runs. Notification, email and the
// audit entry are bookkeeping on a decision that already happened, so each
// runs best-effort and a failure is logged, never surfaced.
func (w *Workflow) RejectDocument(ctx context.Context, documentID, reason string, actor types.Actor, notifyByEmail bool, recipientEmail string) error {

	doc, err := w.docs.Get(ctx, documentID)
	if err != nil {
		return err
	}

	app, err := w.apps.ByID(ctx, doc.ApplicationID)
	if err != nil {
		return err
	}

	if err := w.docs.Reject(ctx, documentID, reason); err != nil {
		return err
	}

	w.effects.run(ctx, "document_rejected_notification", func(ctx context.Context) error {
		return w.notices.DocumentRejected(ctx, app.OwnerUserID, app.ID, doc.ID, doc.DocType, reason)
	})

	if notifyByEmail && recipientEmail != "" && w.mailer != nil {
		displayName := ownerDisplayName(app)
		w.effects.run(ctx, "document_rejected_email", func(ctx context.Context) error {
			return w.mailer.SendRejectionEmail(ctx, recipientEmail, string(doc.DocType), doc.FileName, reason, displayName)
		})
	}

	w.effects.run(ctx, "document_rejected_audit", func(ctx context.Context) error {
		return w.trail.Record(ctx, actor, types.ActionDocumentRejected, types.ResourceDocument, doc.ID, map[string]any{
			"application_id": app.ID,
			"doc_type":       doc.DocType,
			"reason":         reason,
		})
	})

	return nil
}

// UpdateApplicationFields is the registrar's edit path over any structured
// section, legal at any point after creation. The audit entry lists which
// top-level sections changed, not their contents.
func (w *Workflow) UpdateApplicationFields(ctx context.Context, applicationID string, patch types.ApplicationSections, actor types.Actor) (*types.Application, error) {

	if patch.Empty() {
		return nil, types.E(types.KindValidationFailed, "update carries no sections")
	}

	app, err := w.apps.ByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	before := app.Sections().Clone()
	app.ApplySections(patch)

	// A patch that restates the stored values changes nothing; skip the
	// write and the audit entry rather than logging a phantom edit.
	changed := app.Sections().Changed(before)
	if len(changed) == 0 {
		return app, nil
	}

	if err := w.apps.Update(ctx, app); err != nil {
		return nil, err
	}

	if err := w.recordDecision(ctx, actor, types.ActionApplicationEdited, app.ID, map[string]any{
		"sections": changed,
	}); err != nil {
		return nil, err
	}

	return app, nil
}

// CertificateURL signs a download link for the issued certificate PDF.
func (w *Workflow) CertificateURL(ctx context.Context, applicationID string, ttl time.Duration) (string, error) {

	app, err := w.apps.ByID(ctx, applicationID)
	if err != nil {
		return "", err
	}
	if !app.Verified {
		return "", types.Ef(types.KindInvalidState, "application %s has no issued certificate", app.ID)
	}

	url, err := w.blobs.SignedURL(ctx, certificateKey(app.ID), ttl)
	if err != nil {
		return "", types.WrapE(types.KindStorageFailure, "failed to sign certificate url", err)
	}
	return url, nil
}

// recordDecision writes the audit entry for a direct administrative decision.
// A failed write fails the decision: traceability is part of the contract.
func (w *Workflow) recordDecision(ctx context.Context, actor types.Actor, action, applicationID string, details map[string]any) error {
	if err := w.trail.Record(ctx, actor, action, types.ResourceApplication, applicationID, details); err != nil {
		w.logger.WithError(err).WithFields(logrus.Fields{
			"action":         action,
			"application_id": applicationID,
		}).Error("audit write failed for administrative decision")
		return types.WrapE(types.KindDependencyFailure, "audit write failed", err)
	}
	return nil
}

func certificateKey(applicationID string) string {
	return "certificates/" + applicationID + ".pdf"
}

func ownerDisplayName(app *types.Application) string {
	if app.OwnerIdentity != nil && app.OwnerIdentity.FullName != nil && *app.OwnerIdentity.FullName != "" {
		return *app.OwnerIdentity.FullName
	}
	return "Applicant"
}
