package journal_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/mutker/airnode/internal/journal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServiceDisabled(t *testing.T) {
	rec, err := journal.NewService(journal.Config{Enabled: false})
	require.NoError(t, err)

	// No-op recorder accepts everything
	assert.NoError(t, rec.Record(context.Background(), &journal.Snapshot{}))
	assert.NoError(t, rec.Close())
}

func TestNewServiceEnabledNeedsPath(t *testing.T) {
	_, err := journal.NewService(journal.Config{Enabled: true})
	assert.Error(t, err)
}

func TestRecordAndClose(t *testing.T) {
	cfg := journal.Config{
		Enabled: true,
		DBPath:  filepath.Join(t.TempDir(), "journal.db"),
	}

	rec, err := journal.NewService(cfg)
	require.NoError(t, err)
	defer rec.Close()

	snap := &journal.Snapshot{
		Timestamp:   time.Now(),
		TVOC:        101,
		ECO2:        450,
		Temperature: 21.5,
		Humidity:    45.75,
	}
	require.NoError(t, rec.Record(context.Background(), snap))

	// Same timestamp upserts rather than failing
	snap.TVOC = 102
	require.NoError(t, rec.Record(context.Background(), snap))
}

func TestRecordNilSnapshot(t *testing.T) {
	cfg := journal.Config{
		Enabled: true,
		DBPath:  filepath.Join(t.TempDir(), "journal.db"),
	}

	rec, err := journal.NewService(cfg)
	require.NoError(t, err)
	defer rec.Close()

	assert.Error(t, rec.Record(context.Background(), nil))
}
