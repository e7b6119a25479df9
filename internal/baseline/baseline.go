package baseline

import (
	"encoding/binary"

	"codeberg.org/mutker/airnode/internal/clock"
	"codeberg.org/mutker/airnode/internal/errors"
	"codeberg.org/mutker/airnode/internal/logger"
	"codeberg.org/mutker/airnode/internal/sensor"
)

// validityTag marks a persisted record as trustworthy. Anything else in the
// tag field (uninitialized storage, a prior layout) reads as an absent record.
const validityTag uint32 = 0x41513142 // "AQ1B"

// RecordSize is the byte length of an encoded calibration record.
const RecordSize = 6

// Record is the persisted calibration state: the sensor's baseline correction
// value plus the validity tag.
type Record struct {
	Baseline uint16
	Tag      uint32
}

// Valid reports whether the record carries the expected validity tag.
func (r Record) Valid() bool {
	return r.Tag == validityTag
}

// NewRecord wraps a baseline value in a valid record.
func NewRecord(baseline uint16) Record {
	return Record{Baseline: baseline, Tag: validityTag}
}

// Encode serializes the record little-endian: baseline then tag.
func (r Record) Encode() []byte {
	buf := make([]byte, RecordSize)
	binary.LittleEndian.PutUint16(buf[0:2], r.Baseline)
	binary.LittleEndian.PutUint32(buf[2:6], r.Tag)

	return buf
}

// Decode deserializes a record. Short input decodes as an invalid record
// rather than an error: first boot reads whatever the region holds.
func Decode(buf []byte) Record {
	if len(buf) < RecordSize {
		return Record{}
	}

	return Record{
		Baseline: binary.LittleEndian.Uint16(buf[0:2]),
		Tag:      binary.LittleEndian.Uint32(buf[2:6]),
	}
}

// Storage is the persistent byte-region contract. Writes become durable only
// after Commit.
type Storage interface {
	ReadRegion(offset, size int) ([]byte, error)
	WriteRegion(offset int, data []byte) error
	Commit() error
}

// Store restores a persisted calibration record at startup and periodically
// captures the sensor's current calibration state back to storage.
type Store struct {
	storage Storage
	gas     sensor.Gas
	offset  int
	period  uint32 // milliseconds between persists
	last    clock.Ticks

	errFactory errors.Factory
}

// NewStore creates a calibration store persisting every period milliseconds
// at the given region offset.
func NewStore(storage Storage, gas sensor.Gas, offset int, period uint32, now clock.Ticks) *Store {
	return &Store{
		storage:    storage,
		gas:        gas,
		offset:     offset,
		period:     period,
		last:       now,
		errFactory: errors.New(),
	}
}

// Restore reads the persisted record and, if it is valid, applies the
// baseline to the gas sensor. An invalid or absent record is a cold start
// and leaves the sensor on factory defaults.
func (s *Store) Restore() error {
	buf, err := s.storage.ReadRegion(s.offset, RecordSize)
	if err != nil {
		return s.errFactory.Wrap(ErrRestoreFailed, err)
	}

	rec := Decode(buf)
	if !rec.Valid() {
		logger.Info().Msg("No valid calibration record, starting from factory defaults")
		return nil
	}

	if err := s.gas.ApplyCalibration(rec.Baseline); err != nil {
		return s.errFactory.Wrap(ErrRestoreFailed, err)
	}

	logger.Info().
		Uint16("baseline", rec.Baseline).
		Msg("Restored sensor calibration")

	return nil
}

// PersistIfDue captures and persists the sensor's current calibration once
// the calibration period has elapsed. Best effort: storage failures are
// logged and the next period tries again with fresh state.
func (s *Store) PersistIfDue(now clock.Ticks) {
	if !clock.Due(now, s.last, s.period) {
		return
	}
	s.last = now

	baseline, err := s.gas.ReadCalibration()
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to read sensor calibration")
		return
	}

	if err := s.storage.WriteRegion(s.offset, NewRecord(baseline).Encode()); err != nil {
		logger.Warn().Err(err).Msg("Failed to write calibration record")
		return
	}

	if err := s.storage.Commit(); err != nil {
		logger.Warn().Err(err).Msg("Failed to commit calibration record")
		return
	}

	logger.Debug().Uint16("baseline", baseline).Msg("Persisted sensor calibration")
}
