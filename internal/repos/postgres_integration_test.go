//go:build integration
// +build integration

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

	"avotrade/internal/domain"
	"avotrade/internal/repos"
)

func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}
	return dsn
}

func TestPostgresStores(t *testing.T) {
	dsn := startPostgres(t)
	ctx := context.Background()

	db, err := repos.OpenDB("postgres", dsn)
	require.NoError(t, err)
	defer db.Close()

	t.Run("migrations and seed", func(t *testing.T) {
		states, err := repos.MigrateStatus(ctx, db, false)
		require.NoError(t, err)
		for _, s := range states {
			assert.True(t, s.Applied, "%04d_%s", s.Version, s.Name)
		}
		require.NoError(t, repos.Seed(ctx, db))
		n, err := repos.NewProductRepo(db).Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, len(repos.SeedProducts), n)
	})

	t.Run("enquiry lifecycle", func(t *testing.T) {
		r := repos.NewEnquiryRepo(db)
		before := time.Now().UTC()
		e, err := r.Create(ctx, buyer("Pieter"))
		require.NoError(t, err)
		assert.False(t, e.CreatedAt.Before(before), "createdAt %v before %v", e.CreatedAt, before)
		assert.Equal(t, domain.StatusNew, e.Status)

		_, err = r.UpdateStatus(ctx, e.ID, domain.StatusCompleted)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)

		e, err = r.UpdateStatus(ctx, e.ID, domain.StatusPending)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, e.Status)

		found, err := r.List(ctx, domain.EnquiryFilter{Status: domain.StatusPending})
		require.NoError(t, err)
		require.Len(t, found, 1)

		n, err := r.CountSince(ctx, 1)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)

		removed, err := r.Delete(ctx, e.ID)
		require.NoError(t, err)
		assert.True(t, removed)
		removed, err = r.Delete(ctx, e.ID)
		require.NoError(t, err)
		assert.False(t, removed)
	})

	t.Run("product specs and slug conflict", func(t *testing.T) {
		r := repos.NewProductRepo(db)
		in := domain.NewProduct{
			Slug: "macadamia-butter", Name: "Macadamia Butter", Price: "Inquire", Desc: "Stone ground.",
			Specs: []string{"No additives", "Origin: Limpopo"}, Category: domain.CategoryMacadamia,
		}
		p, err := r.Create(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, in.Specs, p.Specs)

		_, err = r.Create(ctx, in)
		assert.ErrorIs(t, err, domain.ErrConflict)

		got, err := r.GetBySlug(ctx, "macadamia-butter")
		require.NoError(t, err)
		assert.Equal(t, p.ID, got.ID)

		created, conflicts := createConcurrently(t, r, "racing-oil", 8)
		assert.Equal(t, 1, created)
		assert.Equal(t, 7, conflicts)
	})

	t.Run("visits by day", func(t *testing.T) {
		r := repos.NewVisitRepo(db)
		require.NoError(t, r.Create(ctx, "/", nil))
		require.NoError(t, r.Create(ctx, "/products", nil))
		days, err := r.ByDaySince(ctx, 7)
		require.NoError(t, err)
		var total int64
		for _, d := range days {
			total += d.Count
		}
		assert.EqualValues(t, 2, total)
	})
}
