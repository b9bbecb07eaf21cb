package registry

import (
	"context"
	"testing"

	"bibaha/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDraftIsIdempotent(t *testing.T) {
	repo := newFakeApplicationRepo()
	svc := NewApplicationService(repo, newFakeDocumentRepo(), testLogger())
	ctx := context.Background()

	first, err := svc.CreateDraft(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, types.ApplicationStatusDraft, first.Status)
	assert.NotEmpty(t, first.ID)

	second, err := svc.CreateDraft(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.byID, 1)
}

func TestUpdateDraftRejectsEmptyPatch(t *testing.T) {
	repo := newFakeApplicationRepo()
	svc := NewApplicationService(repo, newFakeDocumentRepo(), testLogger())
	ctx := context.Background()

	_, err := svc.CreateDraft(ctx, "user-1")
	require.NoError(t, err)

	_, err = svc.UpdateDraft(ctx, "user-1", types.ApplicationSections{})
	assert.Equal(t, types.KindValidationFailed, types.KindOf(err))
}

func TestUpdateDraftMergesAndRecomputesProgress(t *testing.T) {
	repo := newFakeApplicationRepo()
	svc := NewApplicationService(repo, newFakeDocumentRepo(), testLogger())
	ctx := context.Background()

	_, err := svc.CreateDraft(ctx, "user-1")
	require.NoError(t, err)

	app, err := svc.UpdateDraft(ctx, "user-1", types.ApplicationSections{
		OwnerIdentity: completeIdentity("Priya Ghosh"),
	})
	require.NoError(t, err)
	assert.Equal(t, 20, app.ProgressPercent)

	app, err = svc.UpdateDraft(ctx, "user-1", types.ApplicationSections{
		OwnerPermanentAddress: presentAddress(),
	})
	require.NoError(t, err)
	assert.Equal(t, 40, app.ProgressPercent)
	// Earlier sections survive later patches.
	assert.True(t, app.OwnerIdentity.Complete())
}

func TestUpdateDraftForbiddenAfterSubmit(t *testing.T) {
	repo := newFakeApplicationRepo()
	svc := NewApplicationService(repo, newFakeDocumentRepo(), testLogger())
	ctx := context.Background()

	_, err := svc.CreateDraft(ctx, "user-1")
	require.NoError(t, err)
	_, err = svc.Submit(ctx, "user-1")
	require.NoError(t, err)

	_, err = svc.UpdateDraft(ctx, "user-1", types.ApplicationSections{
		OwnerIdentity: completeIdentity("Priya Ghosh"),
	})
	assert.Equal(t, types.KindInvalidState, types.KindOf(err))
}

func TestSubmitIsIrreversibleAndSingleShot(t *testing.T) {
	repo := newFakeApplicationRepo()
	svc := NewApplicationService(repo, newFakeDocumentRepo(), testLogger())
	ctx := context.Background()

	_, err := svc.CreateDraft(ctx, "user-1")
	require.NoError(t, err)

	app, err := svc.Submit(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, types.ApplicationStatusSubmitted, app.Status)
	assert.Equal(t, 100, app.ProgressPercent)
	require.NotNil(t, app.SubmittedAt)

	_, err = svc.Submit(ctx, "user-1")
	assert.Equal(t, types.KindInvalidState, types.KindOf(err))
}

func TestOverviewRecomputesStep(t *testing.T) {
	docs := newFakeDocumentRepo()
	repo := newFakeApplicationRepo()
	svc := NewApplicationService(repo, docs, testLogger())
	ctx := context.Background()

	_, err := svc.CreateDraft(ctx, "user-1")
	require.NoError(t, err)

	_, _, step, err := svc.Overview(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, StepOwnerIdentity, step)

	_, err = svc.UpdateDraft(ctx, "user-1", types.ApplicationSections{
		OwnerIdentity:   completeIdentity("Priya Ghosh"),
		PartnerIdentity: completeIdentity("Sourav Das"),
	})
	require.NoError(t, err)

	_, _, step, err = svc.Overview(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, StepAddress, step)
}
