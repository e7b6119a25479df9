package baseline_test

import (
	"path/filepath"
	"testing"

	"codeberg.org/mutker/airnode/internal/baseline"
	"codeberg.org/mutker/airnode/internal/sensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	region  []byte
	commits int
	readErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{region: make([]byte, 64)}
}

func (s *fakeStorage) ReadRegion(offset, size int) ([]byte, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	out := make([]byte, size)
	copy(out, s.region[offset:offset+size])
	return out, nil
}

func (s *fakeStorage) WriteRegion(offset int, data []byte) error {
	copy(s.region[offset:], data)
	return nil
}

func (s *fakeStorage) Commit() error {
	s.commits++
	return nil
}

type fakeGas struct {
	applied      []uint16
	calibration  uint16
	calibrations int
}

var _ sensor.Gas = (*fakeGas)(nil)

func (g *fakeGas) SampleReady() bool                   { return false }
func (g *fakeGas) ReadSample() (sensor.Reading, error) { return sensor.Reading{}, nil }
func (g *fakeGas) SetCompensation(_, _ float32) error  { return nil }
func (g *fakeGas) SetActive(bool) error                { return nil }

func (g *fakeGas) ApplyCalibration(baseline uint16) error {
	g.applied = append(g.applied, baseline)
	return nil
}

func (g *fakeGas) ReadCalibration() (uint16, error) {
	g.calibrations++
	return g.calibration, nil
}

func TestRecordRoundTrip(t *testing.T) {
	rec := baseline.NewRecord(0x1234)
	assert.True(t, rec.Valid())

	decoded := baseline.Decode(rec.Encode())
	assert.Equal(t, rec, decoded)
	assert.Equal(t, uint16(0x1234), decoded.Baseline)
}

func TestDecodeShortBuffer(t *testing.T) {
	assert.False(t, baseline.Decode(nil).Valid())
	assert.False(t, baseline.Decode([]byte{1, 2, 3}).Valid())
}

func TestRestoreValidRecord(t *testing.T) {
	storage := newFakeStorage()
	gas := &fakeGas{}

	copy(storage.region, baseline.NewRecord(0x1234).Encode())

	store := baseline.NewStore(storage, gas, 0, 1000, 0)
	require.NoError(t, store.Restore())

	// The exact persisted baseline reaches the sensor exactly once
	assert.Equal(t, []uint16{0x1234}, gas.applied)
}

func TestRestoreInvalidTag(t *testing.T) {
	storage := newFakeStorage()
	gas := &fakeGas{}

	rec := baseline.Record{Baseline: 0x1234, Tag: 0xdeadbeef}
	copy(storage.region, rec.Encode())

	store := baseline.NewStore(storage, gas, 0, 1000, 0)
	require.NoError(t, store.Restore())

	// Cold start: the sensor never sees a baseline
	assert.Empty(t, gas.applied)
}

func TestRestoreColdStorage(t *testing.T) {
	storage := newFakeStorage()
	gas := &fakeGas{}

	store := baseline.NewStore(storage, gas, 0, 1000, 0)
	require.NoError(t, store.Restore())
	assert.Empty(t, gas.applied)
}

func TestPersistIfDue(t *testing.T) {
	storage := newFakeStorage()
	gas := &fakeGas{calibration: 0xbeef}

	store := baseline.NewStore(storage, gas, 0, 1000, 0)

	// Not yet due
	store.PersistIfDue(500)
	assert.Zero(t, gas.calibrations)
	assert.Zero(t, storage.commits)

	// Due: record written and committed
	store.PersistIfDue(1500)
	assert.Equal(t, 1, gas.calibrations)
	assert.Equal(t, 1, storage.commits)

	rec := baseline.Decode(storage.region)
	assert.True(t, rec.Valid())
	assert.Equal(t, uint16(0xbeef), rec.Baseline)

	// Timer rearmed from the persist, not from boot
	store.PersistIfDue(2000)
	assert.Equal(t, 1, gas.calibrations)
	store.PersistIfDue(2600)
	assert.Equal(t, 2, gas.calibrations)
}

func TestFileStorageRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calibration.bin")

	storage, err := baseline.OpenFileStorage(path)
	require.NoError(t, err)
	defer storage.Close()

	rec := baseline.NewRecord(0x4711)
	require.NoError(t, storage.WriteRegion(0, rec.Encode()))
	require.NoError(t, storage.Commit())

	buf, err := storage.ReadRegion(0, baseline.RecordSize)
	require.NoError(t, err)
	assert.Equal(t, rec, baseline.Decode(buf))
}

func TestFileStorageBounds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calibration.bin")

	storage, err := baseline.OpenFileStorage(path)
	require.NoError(t, err)
	defer storage.Close()

	_, err = storage.ReadRegion(60, 10)
	assert.Error(t, err)
	assert.Error(t, storage.WriteRegion(-1, []byte{1}))
}
