package loyalty

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// --------------------------------------------------
// Programs
// --------------------------------------------------
func (r *PostgresRepository) UpsertProgram(ctx context.Context, p *Program) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	return r.db.QueryRow(ctx, `
		INSERT INTO loyalty_programs (id, business_id, name, points_per_visit)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (business_id) DO UPDATE SET
			name = EXCLUDED.name,
			points_per_visit = EXCLUDED.points_per_visit,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`, p.ID, p.BusinessID, p.Name, p.PointsPerVisit).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *PostgresRepository) FindProgramByBusiness(ctx context.Context, businessID string) (*Program, error) {
	p := &Program{}
	err := r.db.QueryRow(ctx, `
		SELECT id, business_id, name, points_per_visit, created_at, updated_at
		FROM loyalty_programs
		WHERE business_id = $1
	`, businessID).Scan(&p.ID, &p.BusinessID, &p.Name, &p.PointsPerVisit, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProgramNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// --------------------------------------------------
// Tiers
// --------------------------------------------------
func (r *PostgresRepository) ListTiers(ctx context.Context, programID string) ([]*Tier, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, program_id, name, threshold, reward, position, created_at
		FROM loyalty_tiers
		WHERE program_id = $1
		ORDER BY threshold
	`, programID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tiers []*Tier
	for rows.Next() {
		t := &Tier{}
		if err := rows.Scan(&t.ID, &t.ProgramID, &t.Name, &t.Threshold, &t.Reward, &t.Position, &t.CreatedAt); err != nil {
			return nil, err
		}
		tiers = append(tiers, t)
	}
	return tiers, rows.Err()
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertTier(ctx context.Context, q querier, t *Tier) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	err := q.QueryRow(ctx, `
		INSERT INTO loyalty_tiers (id, program_id, name, threshold, reward, position)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, t.ID, t.ProgramID, t.Name, t.Threshold, t.Reward, t.Position).Scan(&t.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateThreshold
	}
	return err
}

func (r *PostgresRepository) AddTier(ctx context.Context, t *Tier) error {
	return insertTier(ctx, r.db, t)
}

func (r *PostgresRepository) ReplaceTiers(ctx context.Context, programID string, tiers []*Tier) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM loyalty_tiers WHERE program_id = $1`, programID); err != nil {
			return err
		}
		for _, t := range tiers {
			t.ProgramID = programID
			if err := insertTier(ctx, tx, t); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PostgresRepository) DeleteTier(ctx context.Context, programID, tierID string) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM loyalty_tiers WHERE id = $1 AND program_id = $2
	`, tierID, programID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTierNotFound
	}
	return nil
}

func (r *PostgresRepository) CountTiers(ctx context.Context, programID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM loyalty_tiers WHERE program_id = $1`, programID).Scan(&n)
	return n, err
}
