package persistence_test

import (
	"context"
	"testing"

	"github.com/changhyeonkim/hello-orm/internal/model"
	"github.com/changhyeonkim/hello-orm/internal/persistence"
	"github.com/changhyeonkim/hello-orm/internal/shared/metrics"
	"github.com/changhyeonkim/hello-orm/internal/shared/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupFactory creates a factory over a seeded SQLite database
func setupFactory(t *testing.T) (*persistence.EntityManagerFactory, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	testutil.SeedMember(t, db, 1, "HelloA")

	emf := persistence.NewEntityManagerFactory("hello", db)
	t.Cleanup(func() {
		_ = emf.Close()
	})

	return emf, db
}

func TestCommit_PropagatesMutationWithoutExplicitUpdate(t *testing.T) {
	// Given
	emf, db := setupFactory(t)
	ctx := context.Background()
	em := emf.CreateEntityManager()
	defer em.Close()

	tx := em.Transaction()
	require.NoError(t, tx.Begin(ctx))
	updates := testutil.FlushCount(t, metrics.OpUpdate)

	// When
	member, err := persistence.Find[model.Member](ctx, em, int64(1))
	require.NoError(t, err)
	member.SetName("HelloAAA")

	require.NoError(t, tx.Commit())

	// Then
	assert.False(t, tx.IsActive())
	assert.Equal(t, updates+1, testutil.FlushCount(t, metrics.OpUpdate))
	assert.Equal(t, "HelloAAA", testutil.LoadMember(t, db, 1).GetName())
	assert.True(t, em.Contains(member), "entity stays managed after commit")
}

func TestFind_ReturnsSameInstanceWithinEntityManager(t *testing.T) {
	emf, _ := setupFactory(t)
	ctx := context.Background()
	em := emf.CreateEntityManager()
	defer em.Close()

	first, err := persistence.Find[model.Member](ctx, em, int64(1))
	require.NoError(t, err)

	second, err := persistence.Find[model.Member](ctx, em, 1)
	require.NoError(t, err)

	id := int64(1)
	third, err := persistence.Find[model.Member](ctx, em, &id)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Same(t, first, third, "pointer ids share the key of the value")
}

func TestFind_NotFound(t *testing.T) {
	emf, _ := setupFactory(t)
	ctx := context.Background()
	em := emf.CreateEntityManager()
	defer em.Close()

	member, err := persistence.Find[model.Member](ctx, em, int64(99))

	assert.Nil(t, member)
	assert.ErrorIs(t, err, persistence.ErrEntityNotFound)
}

func TestFind_RejectsNonEntity(t *testing.T) {
	emf, _ := setupFactory(t)
	em := emf.CreateEntityManager()
	defer em.Close()

	_, err := persistence.Find[string](context.Background(), em, 1)

	assert.ErrorIs(t, err, persistence.ErrNotEntity)
	assert.False(t, em.Contains(model.Member{ID: 1}), "values are never managed")
	assert.False(t, em.Contains([]int{1}))
}

func TestRollback_DiscardsChangesAndDetaches(t *testing.T) {
	emf, db := setupFactory(t)
	ctx := context.Background()
	em := emf.CreateEntityManager()
	defer em.Close()

	rollbacks := testutil.TransactionCount(t, metrics.OutcomeRollback)

	tx := em.Transaction()
	require.NoError(t, tx.Begin(ctx))

	member, err := persistence.Find[model.Member](ctx, em, int64(1))
	require.NoError(t, err)
	member.SetName("discarded")

	require.NoError(t, tx.Rollback())

	assert.False(t, em.Contains(member))
	assert.Equal(t, "HelloA", testutil.LoadMember(t, db, 1).GetName())
	assert.Equal(t, rollbacks+1, testutil.TransactionCount(t, metrics.OutcomeRollback))
}

func TestPersist_InsertsOnCommit(t *testing.T) {
	emf, db := setupFactory(t)
	ctx := context.Background()
	em := emf.CreateEntityManager()
	defer em.Close()

	tx := em.Transaction()
	require.NoError(t, tx.Begin(ctx))

	inserts := testutil.FlushCount(t, metrics.OpInsert)

	member := model.NewMember(2, "HelloB")
	require.NoError(t, em.Persist(ctx, member))
	assert.True(t, em.Contains(member))

	// managed instance is served from the persistence context before flush
	found, err := persistence.Find[model.Member](ctx, em, int64(2))
	require.NoError(t, err)
	assert.Same(t, member, found)

	require.NoError(t, tx.Commit())

	stored := testutil.LoadMember(t, db, 2)
	require.NotNil(t, stored)
	assert.Equal(t, "HelloB", stored.GetName())
	assert.Equal(t, inserts+1, testutil.FlushCount(t, metrics.OpInsert))
}

func TestPersist_DuplicateIdentifier(t *testing.T) {
	emf, _ := setupFactory(t)
	ctx := context.Background()
	em := emf.CreateEntityManager()
	defer em.Close()

	_, err := persistence.Find[model.Member](ctx, em, int64(1))
	require.NoError(t, err)

	err = em.Persist(ctx, model.NewMember(1, "other"))

	assert.ErrorIs(t, err, persistence.ErrEntityExists)
}

func TestRemove_DeletesOnCommit(t *testing.T) {
	emf, db := setupFactory(t)
	ctx := context.Background()
	em := emf.CreateEntityManager()
	defer em.Close()

	tx := em.Transaction()
	require.NoError(t, tx.Begin(ctx))

	deletes := testutil.FlushCount(t, metrics.OpDelete)

	member, err := persistence.Find[model.Member](ctx, em, int64(1))
	require.NoError(t, err)
	require.NoError(t, em.Remove(ctx, member))

	_, err = persistence.Find[model.Member](ctx, em, int64(1))
	assert.ErrorIs(t, err, persistence.ErrEntityNotFound)

	require.NoError(t, tx.Commit())

	assert.Nil(t, testutil.LoadMember(t, db, 1))
	assert.False(t, em.Contains(member))
	assert.Equal(t, deletes+1, testutil.FlushCount(t, metrics.OpDelete))
}

func TestCommit_ZeroIdentifier(t *testing.T) {
	// Given: a row whose primary key is the zero value
	emf, db := setupFactory(t)
	require.NoError(t, db.Exec("INSERT INTO Member (id, name) VALUES (?, ?)", 0, "zero").Error)
	ctx := context.Background()

	// When: renamed in one unit of work
	em := emf.CreateEntityManager()
	defer em.Close()
	tx := em.Transaction()
	require.NoError(t, tx.Begin(ctx))

	member, err := persistence.Find[model.Member](ctx, em, int64(0))
	require.NoError(t, err)
	member.SetName("renamed")

	// Then: only that row changes
	require.NoError(t, tx.Commit())
	assert.Equal(t, "renamed", testutil.LoadMember(t, db, 0).GetName())
	assert.Equal(t, "HelloA", testutil.LoadMember(t, db, 1).GetName())

	// When: removed in the next unit of work
	require.NoError(t, tx.Begin(ctx))
	require.NoError(t, em.Remove(ctx, member))
	require.NoError(t, tx.Commit())

	// Then
	assert.Nil(t, testutil.LoadMember(t, db, 0))
	assert.NotNil(t, testutil.LoadMember(t, db, 1))
}

func TestRemove_UnmanagedEntity(t *testing.T) {
	emf, _ := setupFactory(t)
	em := emf.CreateEntityManager()
	defer em.Close()

	err := em.Remove(context.Background(), model.NewMember(1, "HelloA"))

	assert.ErrorIs(t, err, persistence.ErrEntityNotManaged)
}

func TestCommit_IdentifierChangeRollsBack(t *testing.T) {
	emf, db := setupFactory(t)
	ctx := context.Background()
	em := emf.CreateEntityManager()
	defer em.Close()

	tx := em.Transaction()
	require.NoError(t, tx.Begin(ctx))

	member, err := persistence.Find[model.Member](ctx, em, int64(1))
	require.NoError(t, err)
	member.SetID(5)
	member.SetName("moved")

	err = tx.Commit()

	assert.ErrorIs(t, err, persistence.ErrIdentifierChanged)
	assert.False(t, tx.IsActive())
	assert.Equal(t, "HelloA", testutil.LoadMember(t, db, 1).GetName())
	assert.Nil(t, testutil.LoadMember(t, db, 5))
}

func TestFlush_RequiresActiveTransaction(t *testing.T) {
	emf, _ := setupFactory(t)
	em := emf.CreateEntityManager()
	defer em.Close()

	assert.ErrorIs(t, em.Flush(context.Background()), persistence.ErrTransactionNotActive)
}

func TestTransaction_StateErrors(t *testing.T) {
	emf, _ := setupFactory(t)
	ctx := context.Background()
	em := emf.CreateEntityManager()
	defer em.Close()

	tx := em.Transaction()
	assert.ErrorIs(t, tx.Commit(), persistence.ErrTransactionNotActive)
	assert.ErrorIs(t, tx.Rollback(), persistence.ErrTransactionNotActive)

	require.NoError(t, tx.Begin(ctx))
	assert.ErrorIs(t, tx.Begin(ctx), persistence.ErrTransactionActive)
	assert.Same(t, tx, em.Transaction())
	require.NoError(t, tx.Rollback())
}

func TestEntityManagerClose_RollsBackActiveTransaction(t *testing.T) {
	emf, db := setupFactory(t)
	ctx := context.Background()
	em := emf.CreateEntityManager()

	tx := em.Transaction()
	require.NoError(t, tx.Begin(ctx))
	member, err := persistence.Find[model.Member](ctx, em, int64(1))
	require.NoError(t, err)
	member.SetName("never stored")

	require.NoError(t, em.Close())
	require.NoError(t, em.Close(), "second close is a no-op")

	assert.False(t, em.IsOpen())
	assert.False(t, tx.IsActive())
	assert.Equal(t, "HelloA", testutil.LoadMember(t, db, 1).GetName())

	_, err = persistence.Find[model.Member](ctx, em, int64(1))
	assert.ErrorIs(t, err, persistence.ErrEntityManagerClosed)
	assert.ErrorIs(t, tx.Begin(ctx), persistence.ErrEntityManagerClosed)
}

func TestFactoryClose(t *testing.T) {
	db := testutil.SetupTestDB(t)
	emf := persistence.NewEntityManagerFactory("hello", db)
	require.NoError(t, emf.HealthCheck(context.Background()))

	require.NoError(t, emf.Close())
	require.NoError(t, emf.Close(), "second close is a no-op")
	assert.False(t, emf.IsOpen())
	assert.ErrorIs(t, emf.HealthCheck(context.Background()), persistence.ErrFactoryClosed)

	em := emf.CreateEntityManager()
	_, err := persistence.Find[model.Member](context.Background(), em, int64(1))
	assert.ErrorIs(t, err, persistence.ErrFactoryClosed)
	assert.ErrorIs(t, em.Transaction().Begin(context.Background()), persistence.ErrFactoryClosed)
}

func TestCreateEntityManagerFactory_UnknownUnit(t *testing.T) {
	cfg := testutil.NewTestConfig(t)

	emf, err := persistence.CreateEntityManagerFactory("other", cfg)

	assert.Nil(t, emf)
	assert.ErrorIs(t, err, persistence.ErrUnknownPersistenceUnit)
}

func TestCreateEntityManagerFactory_FromConfig(t *testing.T) {
	// Given: migration and seed enabled
	cfg := testutil.NewTestConfig(t)

	// When
	emf, err := persistence.CreateEntityManagerFactory("hello", cfg)
	require.NoError(t, err)
	defer emf.Close()

	// Then: seeded member is visible through a new entity manager
	assert.Equal(t, "hello", emf.Unit())

	em := emf.CreateEntityManager()
	defer em.Close()

	member, err := persistence.Find[model.Member](context.Background(), em, int64(1))
	require.NoError(t, err)
	assert.Equal(t, "HelloA", member.GetName())
}
