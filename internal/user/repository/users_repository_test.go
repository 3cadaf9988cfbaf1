package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "storefront/internal/errors"
	"storefront/internal/testutil"
)

func TestUserRepository_FindByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	result, err := db.Exec(`INSERT INTO Users (name, email, role) VALUES ('Asha', 'asha@example.com', 'admin')`)
	require.NoError(t, err)
	id, err := result.LastInsertId()
	require.NoError(t, err)

	repo := NewMySQLUserRepository(db)

	user, err := repo.FindByID(context.Background(), int(id))
	require.NoError(t, err)
	assert.Equal(t, "Asha", user.Name)
	assert.Equal(t, "asha@example.com", user.Email)
	assert.True(t, user.IsAdmin())
}

func TestUserRepository_FindByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLUserRepository(db)

	_, err := repo.FindByID(context.Background(), 999999)
	require.Error(t, err)
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestUserRepository_FindByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	_, err := db.Exec(`INSERT INTO Users (name, email, role) VALUES ('Ravi', 'ravi@example.com', 'customer')`)
	require.NoError(t, err)

	repo := NewMySQLUserRepository(db)

	user, err := repo.FindByEmail(context.Background(), "ravi@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ravi", user.Name)
	assert.False(t, user.IsAdmin())
}
