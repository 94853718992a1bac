//go:build integration

package repository_test

import (
	"context"
	"testing"

	"github.com/codeadapt/learn-gateway/internal/model"
	"github.com/codeadapt/learn-gateway/internal/progress"
	"github.com/codeadapt/learn-gateway/internal/repository"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("learn"),
		postgres.WithUsername("learn"),
		postgres.WithPassword("learn"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	t.Cleanup(func() { _ = ctr.Terminate(context.Background()) })

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	m, err := migrate.New("file://../../migrations", dsn)
	if err != nil {
		t.Fatalf("init migrations: %v", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		t.Fatalf("migrate up: %v", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func TestProgressRepository_ReadWrite(t *testing.T) {
	repo := repository.NewProgressRepository(setupPool(t))
	ctx := context.Background()

	if _, found, err := repo.Read(ctx, "missing"); err != nil || found {
		t.Fatalf("Read(missing) = %v, %v", found, err)
	}

	for _, v := range []string{"first", "second"} {
		if err := repo.Write(ctx, "k", v); err != nil {
			t.Fatalf("Write(%s) error = %v", v, err)
		}
	}
	got, found, err := repo.Read(ctx, "k")
	if err != nil || !found || got != "second" {
		t.Errorf("Read(k) = %q, %v, %v; want second", got, found, err)
	}
}

func TestProgressRepository_BacksUnlockStore(t *testing.T) {
	repo := repository.NewProgressRepository(setupPool(t))
	ctx := context.Background()
	ref := model.TopicRef{LearnerID: 3, CourseID: 1, TopicID: 10}

	progress.NewStore(repo, 4, zerolog.Nop()).Put(ctx, ref, 5)

	rec, found, err := progress.NewStore(repo, 4, zerolog.Nop()).Get(ctx, ref)
	if err != nil || !found || !rec.Unlocked || rec.Score != 5 {
		t.Errorf("Get() = %+v, %v; want {5 true}", rec, found)
	}
}
