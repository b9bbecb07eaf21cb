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

func TestApplicationRepositoryCreate(t *testing.T) {
	mock := newMockPool(t)
	repo := NewApplicationRepository(mock)

	mock.ExpectExec(`INSERT INTO bibaha.applications`).
		WithArgs(anyArgs(len(applicationColumns))...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	app := &types.Application{
		OwnerUserID: "user-1",
		Status:      types.ApplicationStatusDraft,
	}
	err := repo.Create(context.Background(), app)
	require.NoError(t, err)

	assert.NotEmpty(t, app.ID)
	assert.False(t, app.CreatedAt.IsZero())
	assert.Equal(t, app.CreatedAt, app.UpdatedAt)
	expectationsWereMet(t, mock)
}

func TestApplicationRepositoryByIDNotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewApplicationRepository(mock)

	mock.ExpectQuery(`SELECT .+ FROM bibaha.applications`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.ByID(context.Background(), "missing")
	assert.Equal(t, types.KindNotFound, types.KindOf(err))
	expectationsWereMet(t, mock)
}

func TestApplicationRepositoryUpdate(t *testing.T) {
	mock := newMockPool(t)
	repo := NewApplicationRepository(mock)

	// 19 SetMap values plus the id and updated_at guards.
	mock.ExpectExec(`UPDATE bibaha.applications`).
		WithArgs(anyArgs(len(applicationColumns) + 2)...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	app := &types.Application{
		ID:          "app-1",
		OwnerUserID: "user-1",
		Status:      types.ApplicationStatusSubmitted,
		UpdatedAt:   time.Now().Add(-time.Minute),
	}
	before := app.UpdatedAt

	err := repo.Update(context.Background(), app)
	require.NoError(t, err)
	assert.True(t, app.UpdatedAt.After(before))
	expectationsWereMet(t, mock)
}

func TestApplicationRepositoryUpdateConflict(t *testing.T) {
	mock := newMockPool(t)
	repo := NewApplicationRepository(mock)

	// A concurrent writer already bumped updated_at, so the guard matches
	// zero rows.
	mock.ExpectExec(`UPDATE bibaha.applications`).
		WithArgs(anyArgs(len(applicationColumns) + 2)...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	app := &types.Application{
		ID:        "app-1",
		Status:    types.ApplicationStatusDraft,
		UpdatedAt: time.Now(),
	}
	err := repo.Update(context.Background(), app)
	assert.Equal(t, types.KindConflict, types.KindOf(err))
	expectationsWereMet(t, mock)
}
