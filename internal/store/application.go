package store

import (
	"bibaha/internal/utils"
	"bibaha/pkg/types"
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
)

const applicationTableName = "bibaha.applications"

var applicationColumns = utils.StructTagValues(types.Application{})

type ApplicationRepository struct {
	db Querier
}

func NewApplicationRepository(db Querier) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) ByID(ctx context.Context, id string) (*types.Application, error) {

	query, args, err := psql().Select(applicationColumns...).From(applicationTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate application query: %w", err)
	}

	var app = new(types.Application)
	err = pgxscan.Get(ctx, r.db, app, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, err
	}

	if err != nil {
		return nil, types.Ef(types.KindNotFound, "application %s not found", id)
	}

	return app, nil
}

func (r *ApplicationRepository) ByOwner(ctx context.Context, ownerUserID string) (*types.Application, error) {

	query, args, err := psql().Select(applicationColumns...).From(applicationTableName).
		Where(sq.Eq{"owner_user_id": ownerUserID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate application by owner query: %w", err)
	}

	var app = new(types.Application)
	err = pgxscan.Get(ctx, r.db, app, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, err
	}

	if err != nil {
		return nil, types.Ef(types.KindNotFound, "no application for user %s", ownerUserID)
	}

	return app, nil
}

func (r *ApplicationRepository) ByStatus(ctx context.Context, status types.ApplicationStatus) ([]*types.Application, error) {

	query, args, err := psql().Select(applicationColumns...).From(applicationTableName).
		Where(sq.Eq{"status": status}).
		OrderBy("submitted_at ASC NULLS LAST", "created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate applications by status query: %w", err)
	}

	var apps = make([]*types.Application, 0)
	err = pgxscan.Select(ctx, r.db, &apps, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch applications by status: %w", err)
	}

	return apps, nil
}

func (r *ApplicationRepository) Create(ctx context.Context, app *types.Application) error {

	now := time.Now()
	if app.ID == "" {
		app.ID = utils.NanoID()
	}
	app.CreatedAt = now
	app.UpdatedAt = now

	query, args, err := psql().Insert(applicationTableName).SetMap(utils.StructToMap(app)).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert application query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	return utils.WrapError(err, "failed to create application")
}

// Update persists the full row guarded by the previous updated_at value. A
// concurrent writer that won the race leaves zero rows matching, which
// surfaces as a Conflict instead of a silent lost update.
func (r *ApplicationRepository) Update(ctx context.Context, app *types.Application) error {

	expected := app.UpdatedAt
	app.UpdatedAt = time.Now()

	query, args, err := psql().Update(applicationTableName).
		SetMap(utils.StructToMap(app)).
		Where(sq.Eq{"id": app.ID, "updated_at": expected}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update application query for application %s: %w", app.ID, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return utils.WrapError(err, "failed to update application")
	}

	if tag.RowsAffected() == 0 {
		return types.Ef(types.KindConflict, "application %s was modified concurrently", app.ID)
	}

	return nil
}
