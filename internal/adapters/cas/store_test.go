package cas_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/droidcfg/internal/adapters/cas"
	"go.trai.ch/droidcfg/internal/core/domain"
)

func testPlan(fingerprint string) *domain.BuildPlan {
	return &domain.BuildPlan{
		BuildType: domain.BuildTypeRelease,
		Settings:  map[string]string{"android.minSdk": "21"},
		Packaging: []domain.PackagingUnit{
			{Name: "universal", Universal: true, Output: "app-universal-release.apk"},
		},
		Dependencies: []domain.PlannedDependency{},
		Fingerprint:  fingerprint,
	}
}

func newStore(t *testing.T) *cas.Store {
	t.Helper()
	store, err := cas.NewStore()
	require.NoError(t, err)
	return store
}

func TestStore_PutAndGet(t *testing.T) {
	root := t.TempDir()
	store := newStore(t)
	plan := testPlan("0123456789abcdef")

	existed, err := store.Put(root, plan)
	require.NoError(t, err)
	assert.False(t, existed)

	got, err := store.Get(root, plan.Fingerprint)
	require.NoError(t, err)
	assert.Equal(t, plan, got)

	current, err := store.Current(root)
	require.NoError(t, err)
	assert.Equal(t, plan, current)

	assert.FileExists(t, filepath.Join(domain.DefaultPlansPath(root), "0123456789abcdef.json"))
	assert.FileExists(t, domain.DefaultCurrentPlanPath(root))
}

func TestStore_PutUnchanged(t *testing.T) {
	root := t.TempDir()
	store := newStore(t)

	_, err := store.Put(root, testPlan("0123456789abcdef"))
	require.NoError(t, err)

	existed, err := store.Put(root, testPlan("0123456789abcdef"))
	require.NoError(t, err)
	assert.True(t, existed)
}

func TestStore_CurrentFollowsLatestPut(t *testing.T) {
	root := t.TempDir()
	store := newStore(t)

	_, err := store.Put(root, testPlan("0123456789abcdef"))
	require.NoError(t, err)
	_, err = store.Put(root, testPlan("fedcba9876543210"))
	require.NoError(t, err)

	current, err := store.Current(root)
	require.NoError(t, err)
	assert.Equal(t, "fedcba9876543210", current.Fingerprint)

	old, err := store.Get(root, "0123456789abcdef")
	require.NoError(t, err)
	require.NotNil(t, old, "archived plans are kept")
}

func TestStore_Missing(t *testing.T) {
	root := t.TempDir()
	store := newStore(t)

	got, err := store.Get(root, "0123456789abcdef")
	require.NoError(t, err)
	assert.Nil(t, got)

	current, err := store.Current(root)
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestStore_InvalidFingerprint(t *testing.T) {
	root := t.TempDir()
	store := newStore(t)

	_, err := store.Get(root, "../../etc/passwd")
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrStoreReadFailed.Error())

	_, err = store.Put(root, testPlan(""))
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrStoreWriteFailed.Error())
}

func TestStore_CorruptPlan(t *testing.T) {
	root := t.TempDir()
	store := newStore(t)

	require.NoError(t, os.MkdirAll(domain.DefaultStatePath(root), domain.DirPerm))
	require.NoError(t, os.WriteFile(domain.DefaultCurrentPlanPath(root), []byte("{not json"), domain.FilePerm))

	_, err := store.Current(root)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrStoreUnmarshalFailed.Error())
}

func TestStore_UnwritableRoot(t *testing.T) {
	root := t.TempDir()
	store := newStore(t)

	// A file where the state directory should be.
	require.NoError(t, os.WriteFile(domain.DefaultStatePath(root), []byte("x"), domain.FilePerm))

	_, err := store.Put(root, testPlan("0123456789abcdef"))
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrStoreCreateFailed.Error())
}
