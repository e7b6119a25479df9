package journal

import (
	"context"
	"time"
)

// Snapshot is one report-cycle's worth of readings, kept locally for
// offline diagnostics. It is never replayed to the broker.
type Snapshot struct {
	Timestamp   time.Time
	TVOC        uint16
	ECO2        uint16
	Temperature float32
	Humidity    float32
}

// Recorder persists report snapshots.
type Recorder interface {
	Record(ctx context.Context, snapshot *Snapshot) error
	Close() error
}

// Repository is the storage backend behind the recorder service.
type Repository interface {
	Store(ctx context.Context, snapshot *Snapshot) error
	Close() error
}
