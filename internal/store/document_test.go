package store

import (
	"context"
	"testing"
	"time"

	"bibaha/pkg/types"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentRepositoryByID(t *testing.T) {
	mock := newMockPool(t)
	repo := NewDocumentRepository(mock)
	now := time.Now()

	rows := pgxmock.NewRows(documentColumns).
		AddRow(
			"doc-1", "app-1", types.DocumentPartyOwner, types.DocTypeAadhaar,
			types.DocumentStatusPending, nil, false,
			"documents/app-1/x/aadhaar.jpg", "aadhaar.jpg", "image/jpeg", int64(2048),
			now, now,
		)
	mock.ExpectQuery(`SELECT .+ FROM bibaha.documents`).
		WithArgs("doc-1").
		WillReturnRows(rows)

	doc, err := repo.ByID(context.Background(), "doc-1")
	require.NoError(t, err)

	assert.Equal(t, "doc-1", doc.ID)
	assert.Equal(t, types.DocTypeAadhaar, doc.DocType)
	assert.Equal(t, types.DocumentStatusPending, doc.Status)
	assert.Nil(t, doc.RejectReason)
	assert.Equal(t, int64(2048), doc.FileSizeBytes)
	expectationsWereMet(t, mock)
}

func TestDocumentRepositoryByIDNotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewDocumentRepository(mock)

	mock.ExpectQuery(`SELECT .+ FROM bibaha.documents`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.ByID(context.Background(), "missing")
	assert.Equal(t, types.KindNotFound, types.KindOf(err))
	expectationsWereMet(t, mock)
}

func TestDocumentRepositorySetRejectedNotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewDocumentRepository(mock)

	mock.ExpectExec(`UPDATE bibaha.documents`).
		WithArgs(types.DocumentStatusRejected, "photo is blurred", pgxmock.AnyArg(), "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.SetRejected(context.Background(), "missing", "photo is blurred")
	assert.Equal(t, types.KindNotFound, types.KindOf(err))
	expectationsWereMet(t, mock)
}

// replaceArgs lists the compare-and-swap statement's arguments: SET values in
// builder order, then the id and rejected-status guards.
func replaceArgs() []any {
	return []any{
		"documents/app-1/y/new.jpg", "new.jpg", "image/jpeg", int64(4096),
		types.DocumentStatusPending, nil, true, pgxmock.AnyArg(), pgxmock.AnyArg(),
		"doc-1", types.DocumentStatusRejected,
	}
}

func TestDocumentRepositoryReplace(t *testing.T) {
	mock := newMockPool(t)
	repo := NewDocumentRepository(mock)

	mock.ExpectExec(`UPDATE bibaha.documents`).
		WithArgs(replaceArgs()...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.Replace(context.Background(), "doc-1", "documents/app-1/y/new.jpg", "new.jpg", "image/jpeg", 4096)
	require.NoError(t, err)
	expectationsWereMet(t, mock)
}

func TestDocumentRepositoryReplaceLosesStatusRace(t *testing.T) {
	mock := newMockPool(t)
	repo := NewDocumentRepository(mock)

	// The row is no longer rejected, so the compare-and-swap matches nothing.
	mock.ExpectExec(`UPDATE bibaha.documents`).
		WithArgs(replaceArgs()...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Replace(context.Background(), "doc-1", "documents/app-1/y/new.jpg", "new.jpg", "image/jpeg", 4096)
	assert.Equal(t, types.KindInvalidState, types.KindOf(err))
	expectationsWereMet(t, mock)
}
