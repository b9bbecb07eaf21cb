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

const notificationTableName = "bibaha.notifications"

var notificationColumns = utils.StructTagValues(types.Notification{})

type NotificationRepository struct {
	db Querier
}

func NewNotificationRepository(db Querier) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *types.Notification) error {

	if n.ID == "" {
		n.ID = utils.NanoID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	query, args, err := psql().
		Insert(notificationTableName).
		SetMap(utils.StructToMap(n)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert notification query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	return utils.WrapError(err, "failed to create notification")
}

// ByUser returns the user's notifications, newest first.
func (r *NotificationRepository) ByUser(ctx context.Context, userID string) ([]*types.Notification, error) {
	query, args, err := psql().
		Select(notificationColumns...).
		From(notificationTableName).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate notifications query: %w", err)
	}

	var notifications = make([]*types.Notification, 0)
	err = pgxscan.Select(ctx, r.db, &notifications, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	return notifications, nil
}

func (r *NotificationRepository) UnreadCountByUser(ctx context.Context, userID string) (int, error) {
	query, args, err := psql().
		Select("COUNT(*)").
		From(notificationTableName).
		Where(sq.Eq{"user_id": userID, "read": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate unread count query: %w", err)
	}

	var count int
	err = pgxscan.Get(ctx, r.db, &count, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch unread count: %w", err)
	}

	return count, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID string) error {

	query, args, err := psql().Update(notificationTableName).
		Set("read", true).
		Where(sq.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate mark read query for notification %s: %w", id, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return utils.WrapError(err, "failed to mark notification read")
	}
	if tag.RowsAffected() == 0 {
		return types.Ef(types.KindNotFound, "notification %s not found", id)
	}

	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) error {

	query, args, err := psql().Update(notificationTableName).
		Set("read", true).
		Where(sq.Eq{"user_id": userID, "read": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate mark all read query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	return utils.WrapError(err, "failed to mark notifications read")
}
