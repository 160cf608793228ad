package repository

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/guncad/market-server-go/internal/database"
	"github.com/guncad/market-server-go/internal/model"
)

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	require.NoError(t, database.Migrate(url, database.DirectionUp))

	db, err := database.Connect(url)
	require.NoError(t, err)

	_, err = db.Exec(`TRUNCATE users, account_identities, auth_sessions, bookmarks, user_likes, project_stats, payments CASCADE`)
	require.NoError(t, err)

	return db
}

func createTestUser(t *testing.T, db *database.DB, status model.UserStatus) *model.User {
	t.Helper()
	user, err := NewUserRepository(db.DB).Create(context.Background(), model.CreateUserParams{
		ID:     uuid.NewString(),
		Status: status,
	})
	require.NoError(t, err)
	return user
}
