package repository

import (
	"context"
	"time"

	"afisha/internal/database"
	"afisha/internal/errors"
	"afisha/internal/models"
)

type SubscriptionRepository struct {
	db *database.DB
}

func NewSubscriptionRepository(db *database.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(ctx context.Context, subscriberID, ownerID int64) (*models.Subscription, error) {
	subscription := &models.Subscription{
		SubscriberID: subscriberID,
		OwnerID:      ownerID,
		Created:      time.Now(),
	}

	query := `
		INSERT INTO subscriptions (subscriber_id, owner_id, created)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		subscription.SubscriberID, subscription.OwnerID, subscription.Created).Scan(&subscription.ID)
	if isUniqueViolation(err) {
		return nil, errors.Duplicated("user %d already follows user %d", subscriberID, ownerID)
	}
	if err != nil {
		return nil, err
	}

	return subscription, nil
}

func (r *SubscriptionRepository) Delete(ctx context.Context, subscriberID, ownerID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM subscriptions WHERE subscriber_id = $1 AND owner_id = $2`,
		subscriberID, ownerID)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	return affected > 0, err
}

func (r *SubscriptionRepository) ListBySubscriber(ctx context.Context, subscriberID int64) ([]models.Subscription, error) {
	query := `
		SELECT id, subscriber_id, owner_id, created
		FROM subscriptions
		WHERE subscriber_id = $1
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, subscriberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subscriptions []models.Subscription
	for rows.Next() {
		var subscription models.Subscription
		err := rows.Scan(&subscription.ID, &subscription.SubscriberID,
			&subscription.OwnerID, &subscription.Created)
		if err != nil {
			return nil, err
		}
		subscriptions = append(subscriptions, subscription)
	}

	return subscriptions, rows.Err()
}

func (r *SubscriptionRepository) OwnerIDs(ctx context.Context, subscriberID int64) ([]int64, error) {
	return r.idColumn(ctx,
		`SELECT owner_id FROM subscriptions WHERE subscriber_id = $1 ORDER BY owner_id`, subscriberID)
}

// SubscriberIDs возвращает подписчиков указанного пользователя
func (r *SubscriptionRepository) SubscriberIDs(ctx context.Context, ownerID int64) ([]int64, error) {
	return r.idColumn(ctx,
		`SELECT subscriber_id FROM subscriptions WHERE owner_id = $1 ORDER BY subscriber_id`, ownerID)
}

func (r *SubscriptionRepository) idColumn(ctx context.Context, query string, arg int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
