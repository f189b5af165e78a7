package store_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opspulse/pool-watcher/internal/store"
	"github.com/opspulse/pool-watcher/internal/watcher"
)

func TestJournal_RecordAndRecent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alerts.db")

	j, err := store.Open(path)
	require.NoError(t, err)
	defer j.Close()

	require.NoError(t, j.Record(watcher.AlertFailover, "Failover detected! From blue to green"))
	require.NoError(t, j.Record(watcher.AlertErrorRate, "High error rate: 3.00%"))

	entries, err := j.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	types := []watcher.AlertType{entries[0].AlertType, entries[1].AlertType}
	assert.Contains(t, types, watcher.AlertFailover)
	assert.Contains(t, types, watcher.AlertErrorRate)
	for _, e := range entries {
		assert.NotEmpty(t, e.ID)
		assert.NotEmpty(t, e.Message)
		assert.False(t, e.CreatedAt.IsZero())
	}
}

func TestJournal_RecentHonorsLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alerts.db")

	j, err := store.Open(path)
	require.NoError(t, err)
	defer j.Close()

	for i := 0; i < 5; i++ {
		require.NoError(t, j.Record(watcher.AlertInfo, "Log watcher started"))
	}

	entries, err := j.Recent(3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestJournal_ReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alerts.db")

	j, err := store.Open(path)
	require.NoError(t, err)
	require.NoError(t, j.Record(watcher.AlertRecovery, "Error rate recovered: 1.00%"))
	require.NoError(t, j.Close())

	j, err = store.Open(path)
	require.NoError(t, err)
	defer j.Close()

	entries, err := j.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, watcher.AlertRecovery, entries[0].AlertType)
}
