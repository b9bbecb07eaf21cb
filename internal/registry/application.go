package registry

import (
	"context"
	"time"

	"bibaha/internal/utils"
	"bibaha/pkg/types"

	"github.com/sirupsen/logrus"
)

type ApplicationRepo interface {
	ByID(ctx context.Context, id string) (*types.Application, error)
	ByOwner(ctx context.Context, ownerUserID string) (*types.Application, error)
	ByStatus(ctx context.Context, status types.ApplicationStatus) ([]*types.Application, error)
	Create(ctx context.Context, app *types.Application) error
	Update(ctx context.Context, app *types.Application) error
}

type DocumentRepo interface {
	ByID(ctx context.Context, id string) (*types.Document, error)
	ByApplicationID(ctx context.Context, applicationID string) ([]*types.Document, error)
	Create(ctx context.Context, doc *types.Document) error
	Delete(ctx context.Context, id string) error
	SetApproved(ctx context.Context, id string) error
	SetRejected(ctx context.Context, id, reason string) error
	Replace(ctx context.Context, id, storageKey, fileName, mimeType string, sizeBytes int64) error
}

// ApplicationService owns the applicant-facing application lifecycle: lazy
// draft creation, section updates, and the one irreversible owner transition,
// submit. Registrar decisions never pass through here.
type ApplicationService struct {
	apps   ApplicationRepo
	docs   DocumentRepo
	logger *logrus.Logger
}

func NewApplicationService(apps ApplicationRepo, docs DocumentRepo, logger *logrus.Logger) *ApplicationService {
	return &ApplicationService{apps: apps, docs: docs, logger: logger}
}

// CreateDraft returns the owner's application, creating an empty draft when
// none exists yet. Calling it twice for the same owner yields the same record.
func (s *ApplicationService) CreateDraft(ctx context.Context, ownerUserID string) (*types.Application, error) {

	existing, err := s.apps.ByOwner(ctx, ownerUserID)
	if err == nil {
		return existing, nil
	}
	if !types.IsNotFound(err) {
		return nil, err
	}

	app := &types.Application{
		OwnerUserID: ownerUserID,
		Status:      types.ApplicationStatusDraft,
	}
	if err := s.apps.Create(ctx, app); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"application_id": app.ID,
		"owner_user_id":  ownerUserID,
	}).Info("created draft application")

	return app, nil
}

// UpdateDraft merges the provided sections onto the owner's draft and
// recomputes the stored progress percent. Sections absent from the patch are
// untouched; there is no full-overwrite path.
func (s *ApplicationService) UpdateDraft(ctx context.Context, ownerUserID string, patch types.ApplicationSections) (*types.Application, error) {

	if patch.Empty() {
		return nil, types.E(types.KindValidationFailed, "update carries no sections")
	}

	app, err := s.apps.ByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}

	if app.Status != types.ApplicationStatusDraft {
		return nil, types.Ef(types.KindInvalidState, "application %s is %s, drafts only are owner-editable", app.ID, app.Status)
	}

	app.ApplySections(patch)

	docs, err := s.docs.ByApplicationID(ctx, app.ID)
	if err != nil {
		return nil, err
	}
	app.ProgressPercent = ComputeProgressPercent(app, len(docs))

	if err := s.apps.Update(ctx, app); err != nil {
		return nil, err
	}

	return app, nil
}

// Submit moves the draft to submitted. This is the only irreversible
// owner-triggered transition; no path returns an application to draft.
func (s *ApplicationService) Submit(ctx context.Context, ownerUserID string) (*types.Application, error) {

	app, err := s.apps.ByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}

	if app.Status != types.ApplicationStatusDraft {
		return nil, types.Ef(types.KindInvalidState, "application %s already submitted (status %s)", app.ID, app.Status)
	}

	app.Status = types.ApplicationStatusSubmitted
	app.ProgressPercent = 100
	app.SubmittedAt = utils.TimePtr(time.Now())

	if err := s.apps.Update(ctx, app); err != nil {
		return nil, err
	}

	s.logger.WithField("application_id", app.ID).Info("application submitted")

	return app, nil
}

// Overview returns the owner's application together with its documents and
// the freshly recomputed step projection.
func (s *ApplicationService) Overview(ctx context.Context, ownerUserID string) (*types.Application, []*types.Document, int, error) {

	app, err := s.apps.ByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, nil, 0, err
	}

	docs, err := s.docs.ByApplicationID(ctx, app.ID)
	if err != nil {
		return nil, nil, 0, err
	}

	return app, docs, ComputeStep(app, docs), nil
}
