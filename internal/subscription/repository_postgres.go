package subscription

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// --------------------------------------------------
// Upsert (one subscription per user)
// --------------------------------------------------
func (r *PostgresRepository) Upsert(ctx context.Context, sub *Subscription) error {
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}

	return r.db.QueryRow(ctx, `
		INSERT INTO subscriptions (id, user_id, plan_code, status, current_period_end)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			plan_code = EXCLUDED.plan_code,
			status = EXCLUDED.status,
			current_period_end = EXCLUDED.current_period_end,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`,
		sub.ID, sub.UserID, sub.PlanCode, sub.Status, sub.CurrentPeriodEnd,
	).Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt)
}

const selectSubscription = `
	SELECT id, user_id, plan_code, status, current_period_end, created_at, updated_at
	FROM subscriptions
`

func (r *PostgresRepository) FindByUser(ctx context.Context, userID string) (*Subscription, error) {
	return scanSubscription(r.db.QueryRow(ctx, selectSubscription+` WHERE user_id = $1`, userID))
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*Subscription, error) {
	return scanSubscription(r.db.QueryRow(ctx, selectSubscription+` WHERE id = $1`, id))
}

func (r *PostgresRepository) List(ctx context.Context, limit, offset int) ([]*Subscription, error) {
	rows, err := r.db.Query(ctx,
		selectSubscription+` ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Update(ctx context.Context, sub *Subscription) error {
	err := r.db.QueryRow(ctx, `
		UPDATE subscriptions
		SET plan_code = $2, status = $3, current_period_end = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, sub.ID, sub.PlanCode, sub.Status, sub.CurrentPeriodEnd).Scan(&sub.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// --------------------------------------------------
// Expiry sweep
// --------------------------------------------------
func (r *PostgresRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE subscriptions
		SET status = $2, updated_at = NOW()
		WHERE status IN ($3, $4, $5) AND current_period_end < $1
	`, now, StatusExpired, StatusTrialing, StatusActive, StatusPastDue)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PostgresRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM subscriptions GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func scanSubscription(row pgx.Row) (*Subscription, error) {
	sub := &Subscription{}
	err := row.Scan(
		&sub.ID,
		&sub.UserID,
		&sub.PlanCode,
		&sub.Status,
		&sub.CurrentPeriodEnd,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}
