package repositories_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory/internal/apperr"
	"inventory/internal/models"
	"inventory/internal/repositories"
)

func TestUserRepository(t *testing.T) {
	repos := map[string]func(t *testing.T) repositories.UserRepository{
		"memory": func(t *testing.T) repositories.UserRepository {
			return repositories.NewMemoryUserRepository()
		},
		"gorm-sqlite": func(t *testing.T) repositories.UserRepository {
			return repositories.NewGORMUserRepository(newSQLiteDB(t))
		},
	}

	for name, newRepo := range repos {
		t.Run(name, func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			u := &models.User{Username: "alice", Email: "alice@example.com", Password: "hash"}
			require.NoError(t, repo.Create(ctx, u))
			assert.NotEmpty(t, u.ID)

			byName, err := repo.GetByUsername(ctx, "alice")
			require.NoError(t, err)
			assert.Equal(t, u.ID, byName.ID)

			byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
			require.NoError(t, err)
			assert.Equal(t, u.ID, byEmail.ID)

			byID, err := repo.GetByID(ctx, u.ID)
			require.NoError(t, err)
			assert.Equal(t, "alice", byID.Username)

			err = repo.Create(ctx, &models.User{Username: "alice", Email: "other@example.com", Password: "hash"})
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.KindConflict))

			_, err = repo.GetByUsername(ctx, "bob")
			assert.True(t, apperr.Is(err, apperr.KindNotFound))
		})
	}
}
