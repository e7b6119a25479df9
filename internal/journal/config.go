package journal

import "codeberg.org/mutker/airnode/internal/errors"

const (
	defaultDirPerm = 0o755
	defaultDBPath  = "/var/lib/airnode/journal.db"
)

type Config struct {
	Enabled bool
	DBPath  string
}

func DefaultConfig() Config {
	return Config{
		DBPath: defaultDBPath,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()
	if c.Enabled && c.DBPath == "" {
		return errFactory.New(ErrInvalidDBPath)
	}
	return nil
}
