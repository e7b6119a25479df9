package journal

import (
	"context"

	"codeberg.org/mutker/airnode/internal/errors"
	"codeberg.org/mutker/airnode/internal/logger"
)

type service struct {
	repo Repository
	cfg  Config
}

// No-op implementation used when the journal is disabled
type noopRecorder struct{}

func (noopRecorder) Record(context.Context, *Snapshot) error { return nil }
func (noopRecorder) Close() error                            { return nil }

// NewService creates a snapshot recorder, or a no-op one when journalling
// is disabled.
func NewService(cfg Config) (Recorder, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	if !cfg.Enabled {
		logger.Debug().Msg("Measurement journal disabled, using no-op recorder")
		return noopRecorder{}, nil
	}

	repo, err := NewRepository(cfg)
	if err != nil {
		return nil, err
	}

	return &service{
		repo: repo,
		cfg:  cfg,
	}, nil
}

func (s *service) Record(ctx context.Context, snapshot *Snapshot) error {
	errFactory := errors.New()

	if snapshot == nil {
		return errFactory.New(ErrInvalidSnapshot)
	}

	select {
	case <-ctx.Done():
		return errFactory.Wrap(ErrOperationTimeout, ctx.Err())
	default:
		if err := s.repo.Store(ctx, snapshot); err != nil {
			return errFactory.Wrap(ErrStorageAccess, err)
		}
	}

	return nil
}

func (s *service) Close() error {
	if err := s.repo.Close(); err != nil {
		return errors.New().Wrap(ErrStorageClose, err)
	}
	return nil
}
