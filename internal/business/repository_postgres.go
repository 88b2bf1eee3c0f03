package business

import (
	"context"
	"errors"

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

func (r *PostgresRepository) Upsert(ctx context.Context, b *Business) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}

	return r.db.QueryRow(ctx, `
		INSERT INTO businesses (
			id, owner_id, name, category, description, address, city, phone, website
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (owner_id) DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			description = EXCLUDED.description,
			address = EXCLUDED.address,
			city = EXCLUDED.city,
			phone = EXCLUDED.phone,
			website = EXCLUDED.website,
			updated_at = NOW()
		RETURNING id, logo_url, created_at, updated_at
	`,
		b.ID,
		b.OwnerID,
		b.Name,
		b.Category,
		b.Description,
		b.Address,
		b.City,
		b.Phone,
		b.Website,
	).Scan(&b.ID, &b.LogoURL, &b.CreatedAt, &b.UpdatedAt)
}

const selectBusiness = `
	SELECT id, owner_id, name, category, description, address, city,
	       phone, website, logo_url, created_at, updated_at
	FROM businesses
`

func (r *PostgresRepository) FindByOwner(ctx context.Context, ownerID string) (*Business, error) {
	return scanBusiness(r.db.QueryRow(ctx, selectBusiness+` WHERE owner_id = $1`, ownerID))
}

func (r *PostgresRepository) UpdateLogo(ctx context.Context, ownerID, logoURL string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE businesses SET logo_url = $2, updated_at = NOW() WHERE owner_id = $1
	`, ownerID, logoURL)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, limit, offset int) ([]*Business, error) {
	rows, err := r.db.Query(ctx,
		selectBusiness+` ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Business
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM businesses`).Scan(&n)
	return n, err
}

func scanBusiness(row pgx.Row) (*Business, error) {
	b := &Business{}
	err := row.Scan(
		&b.ID,
		&b.OwnerID,
		&b.Name,
		&b.Category,
		&b.Description,
		&b.Address,
		&b.City,
		&b.Phone,
		&b.Website,
		&b.LogoURL,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}
