package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/probegapp/probeg/internal/domain/subscription"
	qb "github.com/probegapp/probeg/internal/platform/querybuilder"
)

type SubscriptionRepository struct {
	db *sqlx.DB
}

func NewSubscriptionRepository(db *sqlx.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Create is idempotent per (runner, race); a repeated subscription
// returns the stored row with created=false.
func (r *SubscriptionRepository) Create(ctx context.Context, item subscription.Subscription) (subscription.Subscription, bool, error) {
	createdAt := item.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	model := subscriptionInsertModel{
		PublicID:  item.ID,
		RunnerID:  item.RunnerID,
		RaceID:    item.RaceID,
		CreatedAt: createdAt,
	}

	query, args, err := qb.InsertModel("race_subscriptions", model,
		`ON CONFLICT (runner_public_id, race_public_id) WHERE deleted_at IS NULL DO NOTHING RETURNING public_id`)
	if err != nil {
		return subscription.Subscription{}, false, fmt.Errorf("build insert subscription query: %w", err)
	}

	var publicID string
	if err := r.db.GetContext(ctx, &publicID, query, args...); err != nil {
		if !isNotFound(err) {
			return subscription.Subscription{}, false, fmt.Errorf("insert subscription: %w", err)
		}
		existing, found, err := r.getByPair(ctx, item.RunnerID, item.RaceID)
		if err != nil {
			return subscription.Subscription{}, false, err
		}
		if !found {
			return subscription.Subscription{}, false, fmt.Errorf("subscription for race %s vanished during insert", item.RaceID)
		}
		return existing, false, nil
	}

	item.ID = publicID
	item.CreatedAt = createdAt
	return item, true, nil
}

func (r *SubscriptionRepository) getByPair(ctx context.Context, runnerID, raceID string) (subscription.Subscription, bool, error) {
	query, args, err := qb.Select("*").From("race_subscriptions").
		Where(
			qb.Eq("runner_public_id", runnerID),
			qb.Eq("race_public_id", raceID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return subscription.Subscription{}, false, fmt.Errorf("build get subscription by pair query: %w", err)
	}

	var row subscriptionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return subscription.Subscription{}, false, nil
		}
		return subscription.Subscription{}, false, fmt.Errorf("get subscription by pair: %w", err)
	}

	return subscriptionFromRow(row), true, nil
}

func (r *SubscriptionRepository) ListByRace(ctx context.Context, raceID string) ([]subscription.Subscription, error) {
	return r.list(ctx, "list subscriptions by race", qb.Eq("race_public_id", raceID))
}

func (r *SubscriptionRepository) ListByRunner(ctx context.Context, runnerID string) ([]subscription.Subscription, error) {
	return r.list(ctx, "list subscriptions by runner", qb.Eq("runner_public_id", runnerID))
}

func (r *SubscriptionRepository) list(ctx context.Context, op string, condition qb.Condition) ([]subscription.Subscription, error) {
	query, args, err := qb.Select("*").From("race_subscriptions").
		Where(condition, qb.IsNull("deleted_at")).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", op, err)
	}

	var rows []subscriptionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]subscription.Subscription, 0, len(rows))
	for _, row := range rows {
		out = append(out, subscriptionFromRow(row))
	}
	return out, nil
}

func (r *SubscriptionRepository) Delete(ctx context.Context, runnerID, raceID string) error {
	return r.softDelete(ctx, "delete subscription",
		qb.Eq("runner_public_id", runnerID),
		qb.Eq("race_public_id", raceID),
	)
}

func (r *SubscriptionRepository) DeleteByRunner(ctx context.Context, runnerID string) error {
	return r.softDelete(ctx, "delete subscriptions by runner", qb.Eq("runner_public_id", runnerID))
}

func (r *SubscriptionRepository) softDelete(ctx context.Context, op string, conditions ...qb.Condition) error {
	conditions = append(conditions, qb.IsNull("deleted_at"))
	query, args, err := qb.Update("race_subscriptions").
		SetExpr("deleted_at", "NOW()").
		Where(conditions...).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build %s query: %w", op, err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
