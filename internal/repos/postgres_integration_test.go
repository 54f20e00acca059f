//go:build integration

package repos_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"pixelmart/internal/repos"
)

func setupPostgres(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := postgres.Run(ctx,
		"postgres:18-alpine",
		postgres.WithDatabase("pixelmart"),
		postgres.WithUsername("pixelmart"),
		postgres.WithPassword("pixelmart"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return connStr
}

func TestPostgresStateRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dsn := setupPostgres(ctx, t)
	db, err := repos.OpenDB(dsn)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := repos.NewStateRepo(db)
	seeded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, repos.SeedCatalog(), seeded.Products)

	want := fullState()
	require.NoError(t, repo.Save(ctx, want))
	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// reopening must not reseed over stored data
	db2, err := repos.OpenDB(dsn)
	require.NoError(t, err)
	defer func() { _ = db2.Close() }()
	again, err := repos.NewStateRepo(db2).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want.Products, again.Products)
}
