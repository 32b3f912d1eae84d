package goal

import (
	"flag"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/learningjourney/journey/internal/test_utils"
	"github.com/learningjourney/journey/pkg/plan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var db *pgxpool.Pool

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	var cleanup func()
	db, cleanup = test_utils.TestWithDB()
	code := m.Run()
	cleanup()
	os.Exit(code)
}

func setupTestRepository(t *testing.T) Repository {
	if db == nil {
		t.Skip("postgres container not started in short mode")
	}
	_, err := db.Exec(ctx, `DELETE FROM goal`)
	require.NoError(t, err)
	return NewRepo(db)
}

func TestRepositoryImpl_GetWithoutGoal(t *testing.T) {
	repo := setupTestRepository(t)

	_, err := repo.Get(ctx)

	assert.ErrorIs(t, err, ErrGoalNotFound)
}

func TestRepositoryImpl_SaveKeepsSingleRow(t *testing.T) {
	// given
	repo := setupTestRepository(t)

	// when
	_, err := repo.Save(ctx, Goal{HabitName: "Spanish", Plan: plan.Week, HasSetGoal: true, UpdatedAt: now})
	require.NoError(t, err)
	_, err = repo.Save(ctx, Goal{HabitName: "Piano", Plan: plan.Year, HasSeenOnboarding: true, HasSetGoal: true, UpdatedAt: now})
	require.NoError(t, err)

	// then
	stored, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Piano", stored.HabitName)
	assert.Equal(t, plan.Year, stored.Plan)
	assert.True(t, stored.HasSeenOnboarding)
	assert.True(t, stored.UpdatedAt.Equal(now))

	var rows int
	require.NoError(t, db.QueryRow(ctx, `SELECT count(*) FROM goal`).Scan(&rows))
	assert.Equal(t, 1, rows)
}
