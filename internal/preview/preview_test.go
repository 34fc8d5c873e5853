package preview

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutGetRelease(t *testing.T) {
	store := New(time.Minute)

	id := store.Put("image/png", []byte{0x89, 'P', 'N', 'G'})
	require.NotEmpty(t, id)
	assert.Equal(t, 1, store.Len())

	blob, ok := store.Get(id)
	require.True(t, ok)
	assert.Equal(t, "image/png", blob.MediaType)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, blob.Data)

	store.Release(id)
	_, ok = store.Get(id)
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

func TestReleaseUnknown(t *testing.T) {
	store := New(0)
	store.Release("")
	store.Release("missing")
	assert.Equal(t, 0, store.Len())
}

func TestDistinctHandles(t *testing.T) {
	store := New(time.Minute)
	a := store.Put("image/jpeg", []byte("a"))
	b := store.Put("image/jpeg", []byte("a"))
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, store.Len())
}

func TestExpiry(t *testing.T) {
	store := New(20 * time.Millisecond)
	id := store.Put("image/gif", []byte("gif"))

	assert.Eventually(t, func() bool {
		_, ok := store.Get(id)
		return !ok
	}, time.Second, 10*time.Millisecond)
}
