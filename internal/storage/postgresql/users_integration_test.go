package postgresql

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/auth-service/internal/migrations"
	"github.com/magabrotheeeer/auth-service/internal/models"
	"github.com/magabrotheeeer/auth-service/internal/storage"
)

// setupTestDatabase поднимает PostgreSQL в контейнере и применяет миграции.
func setupTestDatabase(t *testing.T) *Storage {
	if testing.Short() {
		t.Skip("integration test requires docker")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err, "failed to start container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close(ctx)
	})

	migrationsPath, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(s.DB, migrationsPath))

	return s
}

func newTestUser(userID, email string) models.User {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return models.User{
		ID:           uuid.NewString(),
		UserID:       userID,
		Email:        email,
		NickName:     "nick-" + userID,
		PasswordHash: "$2a$10$hashhashhashhashhashhu",
		Role:         models.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestStorage_Integration_UserLifecycle(t *testing.T) {
	s := setupTestDatabase(t)
	ctx := context.Background()

	created, err := s.CreateUser(ctx, newTestUser("u1", "u1@x.com"))
	require.NoError(t, err)
	assert.Equal(t, "u1", created.UserID)
	assert.Equal(t, int64(0), created.LoginCount)

	byEmail, err := s.GetUserByEmail(ctx, "u1@x.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = s.CreateUser(ctx, newTestUser("u1", "other@x.com"))
	assert.True(t, errors.Is(err, storage.ErrUserExists), "duplicate userId: %v", err)

	_, err = s.CreateUser(ctx, newTestUser("u2", "u1@x.com"))
	assert.True(t, errors.Is(err, storage.ErrUserExists), "duplicate email: %v", err)

	all, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "failed inserts must not create records")

	nick := "renamed"
	updated, err := s.UpdateUser(ctx, "u1", models.UserPatch{NickName: &nick}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.NickName)
	assert.Equal(t, "u1@x.com", updated.Email)

	deleted, err := s.DeleteUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", deleted.UserID)

	_, err = s.GetUserByUserID(ctx, "u1")
	assert.True(t, errors.Is(err, storage.ErrUserNotFound))

	_, err = s.DeleteUser(ctx, "u1")
	assert.True(t, errors.Is(err, storage.ErrUserNotFound))
}

func TestStorage_Integration_ConcurrentIncrement(t *testing.T) {
	s := setupTestDatabase(t)
	ctx := context.Background()

	_, err := s.CreateUser(ctx, newTestUser("u1", "u1@x.com"))
	require.NoError(t, err)

	const logins = 50
	var wg sync.WaitGroup
	errs := make(chan error, logins)
	for range logins {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.IncrementLoginCount(ctx, "u1", time.Now()); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := s.GetUserByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(logins), got.LoginCount)
	assert.NotNil(t, got.LastLoginAt)
}
