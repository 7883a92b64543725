package member_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/changhyeonkim/hello-orm/internal/member"
	"github.com/changhyeonkim/hello-orm/internal/persistence"
	"github.com/changhyeonkim/hello-orm/internal/shared/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupUpdateDB seeds member 1 into a SQLite file and returns its path
func setupUpdateDB(t *testing.T) (*persistence.EntityManagerFactory, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "hello.db")
	db := testutil.OpenTestDB(t, path, true)
	testutil.SeedMember(t, db, 1, "HelloA")

	return persistence.NewEntityManagerFactory("hello", db), path
}

func TestRunUpdate_RenamesMember(t *testing.T) {
	// Given: member 1 named HelloA
	emf, path := setupUpdateDB(t)

	// When
	err := member.RunUpdate(context.Background(), emf, 1, "HelloAAA")

	// Then: the new name was committed without an explicit update call
	require.NoError(t, err)

	verify := testutil.OpenTestDB(t, path, false)
	defer testutil.CleanupTestDB(t, verify)

	stored := testutil.LoadMember(t, verify, 1)
	require.NotNil(t, stored)
	assert.Equal(t, "HelloAAA", stored.GetName())
}

func TestRunUpdate_MissingMemberRollsBack(t *testing.T) {
	// Given: only member 1 exists
	emf, path := setupUpdateDB(t)

	// When
	err := member.RunUpdate(context.Background(), emf, 2, "HelloAAA")

	// Then: lookup failure is reported and nothing was written
	assert.ErrorIs(t, err, member.ErrMemberNotFound)

	verify := testutil.OpenTestDB(t, path, false)
	defer testutil.CleanupTestDB(t, verify)

	assert.Nil(t, testutil.LoadMember(t, verify, 2))
	assert.Equal(t, "HelloA", testutil.LoadMember(t, verify, 1).GetName())
}

func TestRunUpdate_ReleasesFactoryOnEveryPath(t *testing.T) {
	testCases := []struct {
		name     string
		memberID int64
		wantErr  bool
	}{
		{name: "Commit", memberID: 1},
		{name: "Rollback", memberID: 99, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			emf, _ := setupUpdateDB(t)

			err := member.RunUpdate(context.Background(), emf, tc.memberID, "HelloAAA")
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			assert.False(t, emf.IsOpen())
			assert.NoError(t, emf.Close(), "second close is a no-op")
		})
	}
}

func TestRunUpdate_FromConfiguredUnit(t *testing.T) {
	// Given: unit "hello" with the seeded member 1
	cfg := testutil.NewTestConfig(t)

	emf, err := persistence.CreateEntityManagerFactory("hello", cfg)
	require.NoError(t, err)

	// When
	err = member.RunUpdate(context.Background(), emf, cfg.Update.MemberID, cfg.Update.MemberName)

	// Then
	require.NoError(t, err)

	verify := testutil.OpenTestDB(t, cfg.Database.Path, false)
	defer testutil.CleanupTestDB(t, verify)

	assert.Equal(t, "HelloAAA", testutil.LoadMember(t, verify, 1).GetName())
}
