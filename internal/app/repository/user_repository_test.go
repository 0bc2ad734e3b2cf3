package repository

import (
	"testing"

	"github.com/ikkim/tubemark-backend/internal/app/model"
	"github.com/ikkim/tubemark-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupUserTest(t *testing.T) (*gorm.DB, UserRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewUserRepository(testDB)
	return testDB, repo
}

func newTestUser(username string) *model.User {
	return &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashedpassword",
		Name:         "Test " + username,
	}
}

func TestUserRepository_Create(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	tests := []struct {
		name    string
		user    *model.User
		wantErr bool
	}{
		{
			name:    "Valid user",
			user:    newTestUser("alice"),
			wantErr: false,
		},
		{
			name: "Duplicate username",
			user: &model.User{
				Username:     "alice",
				Email:        "other@example.com",
				PasswordHash: "hashedpassword",
			},
			wantErr: true,
		},
		{
			name: "Duplicate email",
			user: &model.User{
				Username:     "alice2",
				Email:        "alice@example.com",
				PasswordHash: "hashedpassword",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(tt.user)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.NotZero(t, tt.user.ID)
			}
		})
	}
}

func TestUserRepository_Finders(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	user := newTestUser("alice")
	require.NoError(t, repo.Create(user))

	t.Run("By ID", func(t *testing.T) {
		found, err := repo.FindByID(user.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", found.Username)
	})

	t.Run("By username", func(t *testing.T) {
		found, err := repo.FindByUsername("alice")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("By email", func(t *testing.T) {
		found, err := repo.FindByEmail("alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("Not found", func(t *testing.T) {
		_, err := repo.FindByID(999)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

		_, err = repo.FindByUsername("nobody")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

		_, err = repo.FindByEmail("nobody@example.com")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestUserRepository_UpdatePasswordHash(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	user := newTestUser("alice")
	require.NoError(t, repo.Create(user))

	require.NoError(t, repo.UpdatePasswordHash(user.ID, "newhash"))

	found, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "newhash", found.PasswordHash)

	assert.ErrorIs(t, repo.UpdatePasswordHash(999, "x"), gorm.ErrRecordNotFound)
}
