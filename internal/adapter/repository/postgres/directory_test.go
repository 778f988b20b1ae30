package postgres_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/srgjo27/viewing_scheduler/internal/adapter/repository/postgres"
	"github.com/srgjo27/viewing_scheduler/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertyDirectory_LookupProperty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	dir := postgres.NewPropertyDirectory(db)
	propertyID, ownerID := uuid.New(), uuid.New()

	mock.ExpectQuery("SELECT owner_id FROM properties").
		WithArgs(propertyID).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow(ownerID.String()))

	p, err := dir.LookupProperty(context.Background(), propertyID)
	require.NoError(t, err)
	assert.Equal(t, propertyID, p.ID)
	assert.Equal(t, ownerID, p.OwnerID)

	mock.ExpectQuery("SELECT owner_id FROM properties").WillReturnRows(sqlmock.NewRows([]string{"owner_id"}))

	_, err = dir.LookupProperty(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserDirectory_LookupUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	dir := postgres.NewUserDirectory(db)
	userID := uuid.New()

	mock.ExpectQuery("SELECT name, email FROM users").
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"name", "email"}).AddRow("Joost", "joost@example.com"))

	u, err := dir.LookupUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "Joost", u.Name)
	assert.Equal(t, "joost@example.com", u.Email)

	mock.ExpectQuery("SELECT name, email FROM users").WillReturnRows(sqlmock.NewRows([]string{"name", "email"}))

	_, err = dir.LookupUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
