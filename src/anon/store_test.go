package anon

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *MappingStore {
	t.Helper()
	dir, err := os.MkdirTemp("", "jiranon-store")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	store, err := NewMappingStore(GetMappingStorePath(dir))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestMappingStoreSaveLoadRoundTrip(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.Init("1.0.0"))

	state := NewState()
	state.MapUserName("jdoe")
	state.MapUserName("asmith")
	state.MapEmail("jdoe@adobe.com")
	state.MapProjectKey("DNA")
	state.MapIssueKey("DNA-1244")
	state.MapID("10024", IssueIDOffset)
	require.NoError(t, store.Save(state))

	restored := NewState()
	require.NoError(t, store.Load(restored))

	// Existing identities resolve to their persisted values.
	assert.Equal(t, "user1", restored.MapUserName("jdoe"))
	assert.Equal(t, "user2", restored.MapUserName("asmith"))
	assert.Equal(t, "testuser1@example.com", restored.MapEmail("jdoe@adobe.com"))
	assert.Equal(t, "TEST1", restored.MapProjectKey("DNA"))
	assert.Equal(t, "DNA-1", restored.MapIssueKey("DNA-1244"))
	assert.Equal(t, "20000", restored.MapID("10024", IssueIDOffset))

	// New identities continue from the restored counters.
	assert.Equal(t, "user3", restored.MapUserName("blee"))
	assert.Equal(t, "WEB-2", restored.MapIssueKey("WEB-42"))
	assert.Equal(t, "10001", restored.MapID("11000", ProjectIDOffset))
}

func TestMappingStoreRepeatedSave(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.Init("1.0.0"))

	state := NewState()
	state.MapUserName("jdoe")
	require.NoError(t, store.Save(state))

	state.MapUserName("asmith")
	require.NoError(t, store.Save(state))

	restored := NewState()
	require.NoError(t, store.Load(restored))
	assert.Equal(t, "user1", restored.MapUserName("jdoe"))
	assert.Equal(t, "user2", restored.MapUserName("asmith"))
}

func TestMappingStoreVersionCompatibility(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.Init("2.1.0"))

	// Reopening with an older minor version of the same major is fine.
	assert.NoError(t, store.Init("2.0.3"))

	// A store written by a newer major version is rejected.
	err := store.Init("1.0.0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newer than this version")
}
