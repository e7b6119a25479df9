package baseline

import (
	"os"
	"path/filepath"

	"codeberg.org/mutker/airnode/internal/errors"
)

const (
	defaultDirPerm  = 0o755
	defaultFilePerm = 0o600
	regionFileSize  = 64
)

// FileStorage is a file-backed byte region with an explicit durability step:
// writes land in the page cache, Commit syncs them to disk. It stands in for
// the EEPROM-style storage a sensor node would carry.
type FileStorage struct {
	file       *os.File
	size       int
	errFactory errors.Factory
}

// OpenFileStorage opens (or creates) the backing file and pads it to the
// fixed region size.
func OpenFileStorage(path string) (*FileStorage, error) {
	errFactory := errors.New()

	if err := os.MkdirAll(filepath.Dir(path), defaultDirPerm); err != nil {
		return nil, errFactory.Wrap(ErrStorageOpen, err)
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, defaultFilePerm)
	if err != nil {
		return nil, errFactory.Wrap(ErrStorageOpen, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, errFactory.Wrap(ErrStorageOpen, err)
	}

	if info.Size() < regionFileSize {
		if err := file.Truncate(regionFileSize); err != nil {
			file.Close()
			return nil, errFactory.Wrap(ErrStorageOpen, err)
		}
	}

	return &FileStorage{
		file:       file,
		size:       regionFileSize,
		errFactory: errFactory,
	}, nil
}

func (f *FileStorage) checkBounds(offset, size int) error {
	if offset < 0 || size < 0 || offset+size > f.size {
		return f.errFactory.WithData(ErrRegionBounds, struct {
			Offset, Size, Limit int
		}{offset, size, f.size})
	}

	return nil
}

// ReadRegion reads size bytes at offset.
func (f *FileStorage) ReadRegion(offset, size int) ([]byte, error) {
	if err := f.checkBounds(offset, size); err != nil {
		return nil, err
	}

	buf := make([]byte, size)
	if _, err := f.file.ReadAt(buf, int64(offset)); err != nil {
		return nil, f.errFactory.Wrap(ErrStorageRead, err)
	}

	return buf, nil
}

// WriteRegion writes data at offset. Not durable until Commit.
func (f *FileStorage) WriteRegion(offset int, data []byte) error {
	if err := f.checkBounds(offset, len(data)); err != nil {
		return err
	}

	if _, err := f.file.WriteAt(data, int64(offset)); err != nil {
		return f.errFactory.Wrap(ErrStorageWrite, err)
	}

	return nil
}

// Commit syncs pending writes to durable storage.
func (f *FileStorage) Commit() error {
	if err := f.file.Sync(); err != nil {
		return f.errFactory.Wrap(ErrStorageCommit, err)
	}

	return nil
}

// Close closes the backing file.
func (f *FileStorage) Close() error {
	return f.file.Close()
}
