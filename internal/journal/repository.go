package journal

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"

	"codeberg.org/mutker/airnode/internal/errors"
	"codeberg.org/mutker/airnode/internal/logger"

	_ "github.com/mattn/go-sqlite3"
)

type sqliteRepository struct {
	db *sql.DB
	mu sync.Mutex
}

// NewRepository opens (or creates) the journal database and its schema.
func NewRepository(cfg Config) (Repository, error) {
	errFactory := errors.New()

	if cfg.DBPath == "" {
		return nil, errFactory.New(ErrInvalidDBPath)
	}

	logger.Debug().Str("path", cfg.DBPath).Msg("Initializing measurement journal")

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), defaultDirPerm); err != nil {
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal=WAL")
	if err != nil {
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	return &sqliteRepository{db: db}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS measurements (
            timestamp INTEGER PRIMARY KEY,
            tvoc INTEGER,
            eco2 INTEGER,
            temperature REAL,
            humidity REAL
        )
    `)

	return err
}

func (r *sqliteRepository) Store(ctx context.Context, snapshot *Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	errFactory := errors.New()

	_, err := r.db.ExecContext(ctx, `
        INSERT INTO measurements (timestamp, tvoc, eco2, temperature, humidity)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT(timestamp) DO UPDATE SET
            tvoc = excluded.tvoc,
            eco2 = excluded.eco2,
            temperature = excluded.temperature,
            humidity = excluded.humidity
    `,
		snapshot.Timestamp.Unix(),
		snapshot.TVOC,
		snapshot.ECO2,
		snapshot.Temperature,
		snapshot.Humidity,
	)
	if err != nil {
		return errFactory.Wrap(ErrStorageAccess, err)
	}

	return nil
}

func (r *sqliteRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.db.Close(); err != nil {
		return errors.New().Wrap(ErrStorageClose, err)
	}
	return nil
}
