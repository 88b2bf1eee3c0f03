// Package profile stores the remote onboarding record, either in the
// service's own Postgres users table or in a Supabase profiles table.
package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/OlaWorkspace/olla-website-sub000/internal/onboarding"
)

// dbtx is the part of *pgxpool.Pool the store uses.
type dbtx interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type PostgresStore struct {
	db dbtx
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetProfile(
	ctx context.Context,
	userID string,
) (*onboarding.Profile, error) {

	p := &onboarding.Profile{UserID: userID}
	err := s.db.QueryRow(ctx, `
		SELECT role, is_professional, onboarding_status
		FROM users
		WHERE id = $1
	`, userID).Scan(&p.Role, &p.Professional, &p.Status)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, onboarding.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// AdvanceStatus writes `to` unless the row already holds `to` or a later
// status. Stored values are compared the way ParseStatus reads them, so an
// unrecognised value counts as "none" and gets overwritten.
func (s *PostgresStore) AdvanceStatus(
	ctx context.Context,
	userID string,
	to onboarding.Status,
) (onboarding.Status, error) {

	var stored *string
	err := s.db.QueryRow(ctx, `
		UPDATE users
		SET onboarding_status = $2
		WHERE id = $1
		  AND (onboarding_status IS NULL
		       OR lower(btrim(onboarding_status)) <> ALL($3))
		RETURNING onboarding_status
	`, userID, to.String(), onboarding.Names(to.AtLeast())).Scan(&stored)

	if err == nil {
		return onboarding.ParseStatusPtr(stored), nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return onboarding.StatusNone, fmt.Errorf("advance onboarding: %w", err)
	}

	// Nothing updated: already at or past `to`, or no such user.
	p, err := s.GetProfile(ctx, userID)
	if err != nil {
		return onboarding.StatusNone, err
	}
	return onboarding.ParseStatusPtr(p.Status), nil
}

// SetProfessional flips the professional flag. Marking a user professional
// starts them at "none" if they have no status yet and gives customers the
// professional role; unmarking only demotes that role back.
func (s *PostgresStore) SetProfessional(ctx context.Context, userID string, professional bool) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE users
		SET is_professional = $2,
		    onboarding_status = CASE WHEN $2 THEN COALESCE(onboarding_status, 'none')
		                             ELSE onboarding_status END,
		    role = CASE WHEN $2 AND role = 'CUSTOMER' THEN 'PROFESSIONAL'
		                WHEN NOT $2 AND role = 'PROFESSIONAL' THEN 'CUSTOMER'
		                ELSE role END
		WHERE id = $1
	`, userID, professional)
	if err != nil {
		return fmt.Errorf("set professional: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return onboarding.ErrProfileNotFound
	}
	return nil
}
