package collision

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewTracker(t *testing.T) {
	tracker := NewTracker()

	require.NotNil(t, tracker)
	require.Equal(t, 0, tracker.Count())
	require.False(t, tracker.HasCollision())
	require.Empty(t, tracker.Names())
}

func TestTracker_Track(t *testing.T) {
	tracker := NewTracker()

	tracker.Track("name", 1)
	tracker.Track("version", 2)
	require.Equal(t, []string{"name", "version"}, tracker.Names())
	require.False(t, tracker.HasCollision())

	t.Run("same name is recorded once", func(t *testing.T) {
		tracker.Track("name", 1)
		require.Equal(t, 2, tracker.Count())
		require.False(t, tracker.HasCollision())
	})

	t.Run("different name with same hash", func(t *testing.T) {
		tracker.Track("other", 1)
		require.True(t, tracker.HasCollision())
		require.Equal(t, []string{"name", "version", "other"}, tracker.Names())
	})
}

func TestTracker_NamesIsCopy(t *testing.T) {
	tracker := NewTracker()
	tracker.Track("a", 1)

	names := tracker.Names()
	names[0] = "mutated"

	require.Equal(t, []string{"a"}, tracker.Names())
}

func TestTracker_Reset(t *testing.T) {
	tracker := NewTracker()
	tracker.Track("a", 1)
	tracker.Track("b", 1)

	tracker.Reset()

	require.Equal(t, 0, tracker.Count())
	require.False(t, tracker.HasCollision())

	tracker.Track("b", 1)
	require.False(t, tracker.HasCollision())
}
