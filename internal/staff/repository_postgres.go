package staff

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Add(ctx context.Context, m *Member) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO staff_members (id, business_id, email, name, role, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, m.ID, m.BusinessID, m.Email, m.Name, m.Role, m.Active).Scan(&m.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}

func (r *PostgresRepository) ListByBusiness(ctx context.Context, businessID string) ([]*Member, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, business_id, email, name, role, active, created_at
		FROM staff_members
		WHERE business_id = $1
		ORDER BY created_at
	`, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		m := &Member{}
		if err := rows.Scan(&m.ID, &m.BusinessID, &m.Email, &m.Name, &m.Role, &m.Active, &m.CreatedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *PostgresRepository) Delete(ctx context.Context, businessID, id string) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM staff_members WHERE id = $1 AND business_id = $2
	`, id, businessID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) CountActive(ctx context.Context, businessID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM staff_members WHERE business_id = $1 AND active
	`, businessID).Scan(&n)
	return n, err
}
