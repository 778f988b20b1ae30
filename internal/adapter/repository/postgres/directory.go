package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/srgjo27/viewing_scheduler/internal/core/domain"
)

// PropertyDirectory reads existence and ownership from the listings table.
// Nothing else about a property is read.
type PropertyDirectory struct {
	db *sql.DB
}

func NewPropertyDirectory(db *sql.DB) *PropertyDirectory {
	return &PropertyDirectory{db: db}
}

func (d *PropertyDirectory) LookupProperty(ctx context.Context, propertyID uuid.UUID) (*domain.Property, error) {
	p := domain.Property{ID: propertyID}

	err := d.db.QueryRowContext(ctx, `SELECT owner_id FROM properties WHERE id = $1`, propertyID).Scan(&p.OwnerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("property", propertyID)
		}
		return nil, err
	}

	return &p, nil
}

type UserDirectory struct {
	db *sql.DB
}

func NewUserDirectory(db *sql.DB) *UserDirectory {
	return &UserDirectory{db: db}
}

func (d *UserDirectory) LookupUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	u := domain.User{ID: userID}

	err := d.db.QueryRowContext(ctx, `SELECT name, email FROM users WHERE id = $1`, userID).Scan(&u.Name, &u.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("user", userID)
		}
		return nil, err
	}

	return &u, nil
}
