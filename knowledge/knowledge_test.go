package knowledge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := New(zaptest.NewLogger(t), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func TestAddAndSearch(t *testing.T) {
	idx := newTestIndex(t)

	id, err := idx.Add("Goroutines are lightweight threads managed by the Go runtime.",
		map[string]string{"source": "notes.md", "type": "lesson"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	_, err = idx.Add("Decorators wrap Python functions to extend their behavior.",
		map[string]string{"source": "python.md", "type": "lesson"})
	require.NoError(t, err)

	count, err := idx.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)

	docs, err := idx.Search(context.Background(), "goroutines", 3, nil)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, id, docs[0].ID)
	assert.Contains(t, docs[0].Content, "Goroutines")
	assert.Equal(t, "notes.md", docs[0].Metadata["source"])
	assert.Greater(t, docs[0].Score, 0.0)
}

func TestSearchMetadataFilter(t *testing.T) {
	idx := newTestIndex(t)

	_, err := idx.Add("Recursion explained with factorial examples.",
		map[string]string{"session_id": "sess-1"})
	require.NoError(t, err)
	_, err = idx.Add("Recursion explained with tree traversal examples.",
		map[string]string{"session_id": "sess-2"})
	require.NoError(t, err)

	docs, err := idx.Search(context.Background(), "recursion", 5,
		map[string]string{"session_id": "sess-2"})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "sess-2", docs[0].Metadata["session_id"])
}

func TestSearchUnknownFilterField(t *testing.T) {
	idx := newTestIndex(t)

	_, err := idx.Search(context.Background(), "anything", 3,
		map[string]string{"color": "blue"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown filter field")
}

func TestAddDropsUnknownMetadata(t *testing.T) {
	idx := newTestIndex(t)

	id, err := idx.Add("Pointers hold the address of a value.",
		map[string]string{"source": "ptr.md", "mood": "upbeat"})
	require.NoError(t, err)

	docs, err := idx.Search(context.Background(), "pointers", 1, nil)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, id, docs[0].ID)
	assert.Equal(t, "ptr.md", docs[0].Metadata["source"])
	assert.NotContains(t, docs[0].Metadata, "mood")
}

func TestSearchTopKDefault(t *testing.T) {
	idx := newTestIndex(t)

	for i := 0; i < 5; i++ {
		_, err := idx.Add("Slices grow by reallocating their backing array.", nil)
		require.NoError(t, err)
	}

	docs, err := idx.Search(context.Background(), "slices", 0, nil)
	require.NoError(t, err)
	assert.Len(t, docs, 3, "topK <= 0 falls back to 3")
}

func TestPersistentIndexReopens(t *testing.T) {
	path := t.TempDir() + "/knowledge.bleve"

	idx, err := New(zaptest.NewLogger(t), path)
	require.NoError(t, err)
	_, err = idx.Add("Channels synchronize goroutines.", nil)
	require.NoError(t, err)
	require.NoError(t, idx.Close())

	reopened, err := New(zaptest.NewLogger(t), path)
	require.NoError(t, err)
	defer reopened.Close()

	count, err := reopened.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}
